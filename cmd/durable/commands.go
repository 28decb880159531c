package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/workway-ai/durable"
	"github.com/workway-ai/durable/config"
	"github.com/workway-ai/durable/slogger"
	"github.com/workway-ai/durable/store"
)

const executionKeyPrefix = "execution:"

var (
	completedColor = color.New(color.FgGreen)
	failedColor    = color.New(color.FgRed)
	pendingColor   = color.New(color.FgYellow)
)

// openStore loads the configuration and builds the configured store backend.
func openStore(configPath string) (store.Store, *config.Config, error) {
	cfg, err := config.ParseFile(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config %s: %w", configPath, err)
	}
	st, err := cfg.BuildStore()
	if err != nil {
		return nil, nil, err
	}
	return st, cfg, nil
}

func closeStore(st store.Store) {
	if closer, ok := st.(io.Closer); ok {
		_ = closer.Close()
	}
}

func newExecutor(st store.Store, cfg *config.Config, executionID string) (*durable.StepExecutor, error) {
	return durable.NewStepExecutor(durable.StepExecutorOptions{
		Store:       st,
		ExecutionID: executionID,
		TTL:         cfg.TTL(),
		Logger:      slogger.New(slogger.LevelFromString(cfg.LogLevel)),
	})
}

func newListCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List executions present in the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore(*configPath)
			if err != nil {
				return err
			}
			defer closeStore(st)

			lister, ok := st.(store.Lister)
			if !ok {
				return fmt.Errorf("the configured store does not support listing")
			}
			keys, err := lister.ListKeys(context.Background(), executionKeyPrefix)
			if err != nil {
				return err
			}
			if len(keys) == 0 {
				fmt.Println("No executions found")
				return nil
			}
			for _, key := range keys {
				fmt.Println(strings.TrimPrefix(key, executionKeyPrefix))
			}
			return nil
		},
	}
}

func newProgressCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "progress <execution-id>",
		Short: "Show the step progress of an execution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, cfg, err := openStore(*configPath)
			if err != nil {
				return err
			}
			defer closeStore(st)

			exec, err := newExecutor(st, cfg, args[0])
			if err != nil {
				return err
			}
			progress, err := exec.Progress(context.Background())
			if err != nil {
				return err
			}
			printProgress(progress)
			return nil
		},
	}
}

func printProgress(progress *durable.Progress) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Execution:\t%s\n", progress.ExecutionID)
	fmt.Fprintf(w, "Started:\t%s\n", progress.StartedAt.Format("2006-01-02 15:04:05 MST"))
	if progress.IsComplete {
		fmt.Fprintf(w, "Status:\t%s\n", completedColor.Sprint("complete"))
	} else {
		fmt.Fprintf(w, "Status:\t%s\n", pendingColor.Sprint("in progress"))
	}
	for _, name := range progress.CompletedSteps {
		fmt.Fprintf(w, "  %s\t%s\n", name, completedColor.Sprint("completed"))
	}
	for _, name := range progress.FailedSteps {
		fmt.Fprintf(w, "  %s\t%s\n", name, failedColor.Sprint("failed"))
	}
	w.Flush()
}

func newResetCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reset <execution-id>",
		Short: "Delete an execution's checkpoints so it restarts from scratch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, cfg, err := openStore(*configPath)
			if err != nil {
				return err
			}
			defer closeStore(st)

			exec, err := newExecutor(st, cfg, args[0])
			if err != nil {
				return err
			}
			if err := exec.Reset(context.Background()); err != nil {
				return err
			}
			fmt.Printf("Reset execution %s\n", args[0])
			return nil
		},
	}
}

func newCompleteCommand(configPath *string) *cobra.Command {
	var cleanup bool

	cmd := &cobra.Command{
		Use:   "complete <execution-id>",
		Short: "Mark an execution as complete",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, cfg, err := openStore(*configPath)
			if err != nil {
				return err
			}
			defer closeStore(st)

			exec, err := newExecutor(st, cfg, args[0])
			if err != nil {
				return err
			}
			if err := exec.Complete(context.Background(), cleanup); err != nil {
				return err
			}
			fmt.Printf("Completed execution %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVar(&cleanup, "cleanup", false,
		"Delete the execution record after marking it complete")
	return cmd
}
