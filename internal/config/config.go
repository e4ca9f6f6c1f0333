// Package config handles application configuration and setup
package config

import (
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// CreateRunnerConfig returns the runner timing configuration for the options.
func CreateRunnerConfig(opts options.Program) runner.Config {
	return runner.Config{
		ClockHz:   opts.ClockHz,
		TimerHz:   opts.TimerHz,
		MaxFrames: opts.MaxFrames,
	}
}
