// Copyright © 2024 The kip-ls authors

package cmd

import (
	"github.com/kip-lang/kip-ls/engine"
	"github.com/spf13/viper"
)

// Option configures an exported command factory (LSPCommand, CheckCommand,
// IndexCommand).
type Option func(*cmdConfig)

type cmdConfig struct {
	engine *engine.Config
}

// WithEngineConfig fixes the analysis limits used by a command, overriding
// the config file, environment and flags.  Embedders that build their own
// cobra tree use it to pin the limits.
func WithEngineConfig(cfg engine.Config) Option {
	return func(c *cmdConfig) { c.engine = &cfg }
}

func newCmdConfig(opts []Option) *cmdConfig {
	var cfg cmdConfig
	for _, o := range opts {
		o(&cfg)
	}
	return &cfg
}

// resolveEngineConfig returns the explicitly supplied limits, falling back
// to the viper configuration.
func (c *cmdConfig) resolveEngineConfig() engine.Config {
	if c.engine != nil {
		return *c.engine
	}
	return engineConfig()
}

// engineConfig builds an engine configuration from the analysis.* keys.
// Unset or non-positive values keep the defaults.
func engineConfig() engine.Config {
	cfg := engine.DefaultConfig()
	if n := viper.GetInt(keyMaxDepth); n > 0 {
		cfg.MaxDepth = n
	}
	if n := viper.GetInt(keyNodeBudget); n > 0 {
		cfg.NodeBudget = n
	}
	return cfg
}
