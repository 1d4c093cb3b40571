// Package env provides config values read from environment variables.
package env

import (
	"context"
	"os"
	"strings"

	"github.com/code-payments/code-faucet/pkg/config"
	"github.com/code-payments/code-faucet/pkg/config/wrapper"
)

type envConfig struct {
	name string
}

// NewConfig returns a config backed by the environment variable named key,
// upper cased. The variable is read on every Get, and an empty value counts
// as unset.
func NewConfig(key string) config.Config {
	return &envConfig{name: strings.ToUpper(key)}
}

// Get implements config.Config.Get
func (c *envConfig) Get(_ context.Context) (interface{}, error) {
	raw, ok := os.LookupEnv(c.name)
	if !ok || raw == "" {
		return nil, config.ErrNoValue
	}
	return []byte(raw), nil
}

// Shutdown implements config.Config.Shutdown
func (c *envConfig) Shutdown() {}

// NewUint64Config returns a uint64 read from the environment variable key
func NewUint64Config(key string, defaultValue uint64) config.Uint64 {
	return wrapper.NewUint64Config(NewConfig(key), defaultValue)
}

// NewFloat64Config returns a float64 read from the environment variable key
func NewFloat64Config(key string, defaultValue float64) config.Float64 {
	return wrapper.NewFloat64Config(NewConfig(key), defaultValue)
}
