package config

import (
	"fmt"

	"github.com/workway-ai/durable/store"
	"github.com/workway-ai/durable/store/file"
	"github.com/workway-ai/durable/store/memory"
	"github.com/workway-ai/durable/store/redis"
	"github.com/workway-ai/durable/store/sqlite"
)

// BuildStore constructs the store backend selected by the configuration.
// The caller owns the returned store and should close it if the backend
// exposes a Close method.
func (c *Config) BuildStore() (store.Store, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	switch c.Store.Driver {
	case "memory":
		return memory.New(), nil
	case "file":
		return file.New(c.Store.Dir)
	case "sqlite":
		return sqlite.New(c.Store.Path)
	case "redis":
		return redis.New(redis.Options{
			Addr:     c.Store.Addr,
			Password: c.Store.Password,
			DB:       c.Store.DB,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", c.Store.Driver)
	}
}
