// Package runner implements the host loop that paces instruction execution
// to a target clock rate and ticks the machine timers at a fixed rate.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/frontend"
	"github.com/retroenv/retrogolib/log"
)

// Default timing values. The clock rate results in 9 instructions per timer
// tick.
const (
	DefaultClockHz = 540
	DefaultTimerHz = 60
)

// ErrInvalidConfig is returned for timing configurations that can not be run.
var ErrInvalidConfig = errors.New("invalid runner configuration")

// Config contains the timing configuration of a runner.
type Config struct {
	ClockHz   int    // instructions executed per second
	TimerHz   int    // timer ticks and frames per second
	MaxFrames uint64 // stop after this many frames, 0 runs until stopped
}

// DefaultConfig returns the default timing configuration.
func DefaultConfig() Config {
	return Config{
		ClockHz: DefaultClockHz,
		TimerHz: DefaultTimerHz,
	}
}

// Runner executes a machine frame by frame. A frame consists of the
// instructions that fit into one timer period followed by one timer tick.
type Runner struct {
	machine *chip8.Machine
	logger  *log.Logger
	cfg     Config

	cycleBudget int // remainder of cycles that did not fit into previous frames
	frames      uint64
	paused      bool
	keys        [chip8.KeyCount]bool
	soundShown  bool // sound state at the last render
}

// New returns a new runner for the machine.
func New(m *chip8.Machine, logger *log.Logger, cfg Config) (*Runner, error) {
	if cfg.TimerHz <= 0 {
		return nil, fmt.Errorf("%w: timer rate %d", ErrInvalidConfig, cfg.TimerHz)
	}
	if cfg.ClockHz < cfg.TimerHz {
		return nil, fmt.Errorf("%w: clock rate %d is lower than timer rate %d",
			ErrInvalidConfig, cfg.ClockHz, cfg.TimerHz)
	}

	return &Runner{
		machine: m,
		logger:  logger,
		cfg:     cfg,
	}, nil
}

// Machine returns the machine that is executed.
func (r *Runner) Machine() *chip8.Machine {
	return r.machine
}

// Frames returns the number of executed frames.
func (r *Runner) Frames() uint64 {
	return r.frames
}

// SetPaused pauses or resumes the execution.
func (r *Runner) SetPaused(paused bool) {
	switch {
	case paused && !r.paused:
		r.logger.Info("Emulation paused", log.Int("frame", int(r.frames)))
	case !paused && r.paused:
		r.logger.Info("Emulation resumed", log.Int("frame", int(r.frames)))
	}
	r.paused = paused
}

// Paused returns whether the execution is paused.
func (r *Runner) Paused() bool {
	return r.paused
}

// Done returns whether the runner finished, either because the host cleared
// the running flag or the frame limit was reached.
func (r *Runner) Done() bool {
	if !r.machine.Running {
		return true
	}
	return r.cfg.MaxFrames > 0 && r.frames >= r.cfg.MaxFrames
}

// RunFrame executes the instructions of one timer period and ticks the
// timers once. Nothing is executed while the runner is paused.
func (r *Runner) RunFrame() error {
	if r.paused || r.Done() {
		return nil
	}

	r.cycleBudget += r.cfg.ClockHz
	cycles := r.cycleBudget / r.cfg.TimerHz
	r.cycleBudget %= r.cfg.TimerHz

	m := r.machine
	for range cycles {
		if !m.Running {
			break
		}
		if err := m.Step(); err != nil {
			m.Running = false
			r.logger.Debug("Emulation halted",
				log.Err(err),
				log.Hex("pc", m.PC),
				log.Hex("opcode", m.Opcode),
				log.Int("frame", int(r.frames)))
			return fmt.Errorf("running frame %d: %w", r.frames, err)
		}
	}

	m.TickTimers()
	r.frames++
	return nil
}

// Run drives the machine at the configured timer rate until the context is
// canceled, the frontend requests to quit, the machine stops or an
// instruction fails.
func (r *Runner) Run(ctx context.Context, fe frontend.Frontend) error {
	r.logger.Debug("Starting emulation",
		log.Int("clock_hz", r.cfg.ClockHz),
		log.Int("timer_hz", r.cfg.TimerHz))

	ticker := time.NewTicker(time.Second / time.Duration(r.cfg.TimerHz))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		stop, err := r.Tick(fe)
		if err != nil || stop {
			return err
		}
	}
}

// Tick polls the input of the frontend, runs one frame and renders the
// display if it or the sound state changed. It returns true when the emulation should stop.
// Frontends that own the main loop call Tick once per timer period.
func (r *Runner) Tick(fe frontend.Frontend) (bool, error) {
	if fe.PollKeys(&r.keys) {
		r.logger.Debug("Quit requested by frontend")
		return true, nil
	}
	r.machine.SetKeys(r.keys)

	if err := r.RunFrame(); err != nil {
		return true, err
	}

	// a change of the sound state is presented even without drawing
	if r.machine.DrawFlag || r.machine.SoundActive() != r.soundShown {
		if err := fe.Render(r.machine); err != nil {
			return true, fmt.Errorf("rendering frame: %w", err)
		}
		r.soundShown = r.machine.SoundActive()
	}

	if r.Done() {
		r.logger.Debug("Emulation finished", log.Int("frames", int(r.frames)))
		return true, nil
	}
	return false, nil
}
