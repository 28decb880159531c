// Command durable is an operator's tool for inspecting and managing durable
// execution checkpoints in a configured store.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "durable",
		Short: "Inspect and manage durable execution checkpoints",
		Long: `Inspect and manage the checkpoint records written by the durable
step execution engine. The store backend is selected by a YAML or JSON
configuration file.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "durable.yaml",
		"Path to the store configuration file")

	cmd.AddCommand(newListCommand(&configPath))
	cmd.AddCommand(newProgressCommand(&configPath))
	cmd.AddCommand(newResetCommand(&configPath))
	cmd.AddCommand(newCompleteCommand(&configPath))

	return cmd
}
