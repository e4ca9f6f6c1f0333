// Package session wires a loaded ROM, the machine, the runner and the
// selected frontend into a single emulation run.
package session

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrochip8/internal/frontend"
	"github.com/retroenv/retrochip8/internal/frontend/terminal"
	"github.com/retroenv/retrochip8/internal/frontend/window"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

// Session is a single emulation run of a ROM.
type Session struct {
	logger *log.Logger
	opts   options.Program

	machine *chip8.Machine
	runner  *runner.Runner
	rom     []byte
}

// New loads the ROM of the options and prepares the machine and runner.
func New(logger *log.Logger, opts options.Program) (*Session, error) {
	m := chip8.New(machineOptions(logger, opts)...)

	rom, err := loader.New().Load(opts.Input, m)
	if err != nil {
		return nil, fmt.Errorf("loading rom: %w", err)
	}

	r, err := runner.New(m, logger, config.CreateRunnerConfig(opts))
	if err != nil {
		return nil, fmt.Errorf("creating runner: %w", err)
	}

	return &Session{
		logger:  logger,
		opts:    opts,
		machine: m,
		runner:  r,
		rom:     rom,
	}, nil
}

func machineOptions(logger *log.Logger, opts options.Program) []chip8.Option {
	var machineOpts []chip8.Option
	if opts.Seed != 0 {
		machineOpts = append(machineOpts, chip8.WithSeed(opts.Seed))
	}
	if opts.Trace {
		machineOpts = append(machineOpts, chip8.WithTracer(func(pc, opcode uint16) {
			logger.Debug("Executing instruction",
				log.Hex("pc", pc),
				log.Hex("opcode", opcode),
				log.String("instruction", disasm.Format(opcode)))
		}))
	}
	return machineOpts
}

// Machine returns the emulated machine.
func (s *Session) Machine() *chip8.Machine {
	return s.machine
}

// Runner returns the runner of the machine.
func (s *Session) Runner() *runner.Runner {
	return s.runner
}

// Run executes the ROM with the frontend selected in the options until the
// context is canceled or the emulation stops.
func (s *Session) Run(ctx context.Context) error {
	if !s.opts.Quiet {
		s.logger.Info("Running CHIP-8 ROM",
			log.String("file", s.opts.Input),
			log.Int("size", len(s.rom)),
			log.String("frontend", s.opts.Frontend),
		)
	}

	var err error
	switch s.opts.Frontend {
	case options.FrontendWindow:
		cfg := createWindowConfig(s.opts)
		err = window.Run(ctx, s.logger, s.runner, cfg)

	case options.FrontendTerminal:
		err = s.runTerminal(ctx)

	case options.FrontendNone:
		err = s.runner.Run(ctx, frontend.NewHeadless())

	default:
		return fmt.Errorf("unsupported frontend '%s'", s.opts.Frontend)
	}

	s.logger.Debug("Emulation stopped", log.Int("frames", int(s.runner.Frames())))
	return err
}

func (s *Session) runTerminal(ctx context.Context) error {
	fe, err := terminal.New(s.logger, s.opts.HoldFrames)
	if err != nil {
		return fmt.Errorf("creating terminal frontend: %w", err)
	}

	runErr := s.runner.Run(ctx, fe)
	if err := fe.Close(); err != nil && runErr == nil {
		return fmt.Errorf("closing terminal frontend: %w", err)
	}
	return runErr
}

func createWindowConfig(opts options.Program) window.Config {
	cfg := window.DefaultConfig()
	cfg.Scale = opts.Scale
	cfg.TimerHz = opts.TimerHz
	if opts.Input != "" {
		cfg.Title = "CHIP-8 - " + filepath.Base(opts.Input)
	}
	return cfg
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	logger.Info("retrochip8", log.String("version", buildinfo.Version(version, commit, date)))
}
