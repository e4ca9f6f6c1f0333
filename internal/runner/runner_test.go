package runner

import (
	"context"
	"errors"
	"testing"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/frontend"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

// loopProgram sets the delay timer to 30 and spins in an endless loop.
var loopProgram = []byte{
	0x60, 0x1E, // ld V0, $1E
	0xF0, 0x15, // ld DT, V0
	0x12, 0x04, // jp $204
}

func newTestRunner(t *testing.T, program []byte, cfg Config) (*Runner, *int) {
	t.Helper()
	steps := 0
	m := chip8.New(chip8.WithTracer(func(_, _ uint16) {
		steps++
	}))
	copy(m.Memory[chip8.ProgramStart:], program)

	r, err := New(m, log.NewTestLogger(t), cfg)
	assert.NoError(t, err)
	return r, &steps
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero timer rate", Config{ClockHz: 540}},
		{"negative timer rate", Config{ClockHz: 540, TimerHz: -1}},
		{"clock slower than timer", Config{ClockHz: 30, TimerHz: 60}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(chip8.New(), log.NewTestLogger(t), tt.cfg)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
		})
	}
}

func TestRunFrame_Cadence(t *testing.T) {
	r, steps := newTestRunner(t, loopProgram, DefaultConfig())

	assert.NoError(t, r.RunFrame())
	assert.Equal(t, 9, *steps)
	assert.Equal(t, uint64(1), r.Frames())
	// the timer was set during the frame and ticked once at its end
	assert.Equal(t, byte(29), r.Machine().DelayTimer)

	for range 9 {
		assert.NoError(t, r.RunFrame())
	}
	assert.Equal(t, 90, *steps)
	assert.Equal(t, byte(20), r.Machine().DelayTimer)
}

func TestRunFrame_FractionalClock(t *testing.T) {
	r, steps := newTestRunner(t, loopProgram, Config{ClockHz: 100, TimerHz: 60})

	assert.NoError(t, r.RunFrame())
	assert.Equal(t, 1, *steps)

	for range 59 {
		assert.NoError(t, r.RunFrame())
	}
	assert.Equal(t, 100, *steps)
	assert.Equal(t, uint64(60), r.Frames())
}

func TestRunFrame_Paused(t *testing.T) {
	r, steps := newTestRunner(t, loopProgram, DefaultConfig())

	r.SetPaused(true)
	assert.True(t, r.Paused())
	assert.NoError(t, r.RunFrame())
	assert.Equal(t, 0, *steps)
	assert.Equal(t, uint64(0), r.Frames())

	r.SetPaused(false)
	assert.NoError(t, r.RunFrame())
	assert.Equal(t, 9, *steps)
}

func TestRunFrame_HaltsOnError(t *testing.T) {
	r, steps := newTestRunner(t, []byte{0x00, 0xEE}, DefaultConfig())

	err := r.RunFrame()
	assert.Error(t, err)
	assert.True(t, errors.Is(err, chip8.ErrStackUnderflow))
	assert.Equal(t, 1, *steps)
	assert.False(t, r.Machine().Running)
	assert.True(t, r.Done())

	assert.NoError(t, r.RunFrame())
	assert.Equal(t, 1, *steps)
}

func TestRunFrame_HostStop(t *testing.T) {
	r, steps := newTestRunner(t, loopProgram, DefaultConfig())
	r.Machine().Running = false

	assert.NoError(t, r.RunFrame())
	assert.Equal(t, 0, *steps)
	assert.True(t, r.Done())
}

func TestRun_MaxFrames(t *testing.T) {
	r, steps := newTestRunner(t, loopProgram, Config{ClockHz: 9000, TimerHz: 1000, MaxFrames: 5})
	fe := frontend.NewHeadless()

	err := r.Run(context.Background(), fe)
	assert.NoError(t, err)
	assert.Equal(t, uint64(5), r.Frames())
	assert.Equal(t, 45, *steps)
	assert.Equal(t, uint64(1), fe.Frames())
	assert.False(t, r.Machine().DrawFlag)
}

func TestRun_ContextCanceled(t *testing.T) {
	r, _ := newTestRunner(t, loopProgram, DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.Run(ctx, frontend.NewHeadless())
	assert.True(t, errors.Is(err, context.Canceled))
}

type quittingFrontend struct {
	frontend.Headless

	polls int
	keys  [chip8.KeyCount]bool
}

func (q *quittingFrontend) PollKeys(keys *[chip8.KeyCount]bool) bool {
	q.polls++
	*keys = q.keys
	return q.polls > 2
}

func TestRun_FrontendQuit(t *testing.T) {
	r, _ := newTestRunner(t, loopProgram, Config{ClockHz: 1000, TimerHz: 1000})
	fe := &quittingFrontend{}
	fe.keys[0x5] = true

	err := r.Run(context.Background(), fe)
	assert.NoError(t, err)
	assert.Equal(t, 3, fe.polls)
	assert.Equal(t, uint64(2), r.Frames())
	assert.True(t, r.Machine().Keys[0x5])
}

func TestRun_ErrorStopsLoop(t *testing.T) {
	r, _ := newTestRunner(t, []byte{0x1F, 0xFF}, Config{ClockHz: 1000, TimerHz: 1000})

	err := r.Run(context.Background(), frontend.NewHeadless())
	assert.True(t, errors.Is(err, chip8.ErrProgramCounterOutOfRange))
}

func TestTick(t *testing.T) {
	r, steps := newTestRunner(t, loopProgram, DefaultConfig())
	fe := frontend.NewHeadless()

	stop, err := r.Tick(fe)
	assert.NoError(t, err)
	assert.False(t, stop)
	assert.Equal(t, 9, *steps)
	assert.Equal(t, uint64(1), fe.Frames())

	stop, err = r.Tick(fe)
	assert.NoError(t, err)
	assert.False(t, stop)
	assert.Equal(t, uint64(1), fe.Frames())

	r.Machine().Running = false
	stop, err = r.Tick(fe)
	assert.NoError(t, err)
	assert.True(t, stop)
	assert.Equal(t, 18, *steps)
}

func TestTick_RendersSoundChange(t *testing.T) {
	program := []byte{
		0x60, 0x02, // ld V0, $02
		0xF0, 0x18, // ld ST, V0
		0x12, 0x04, // jp $204
	}
	r, _ := newTestRunner(t, program, DefaultConfig())
	fe := frontend.NewHeadless()

	// initial display
	_, err := r.Tick(fe)
	assert.NoError(t, err)
	assert.True(t, r.Machine().SoundActive())
	assert.Equal(t, uint64(1), fe.Frames())

	// sound timer expired without any drawing
	_, err = r.Tick(fe)
	assert.NoError(t, err)
	assert.False(t, r.Machine().SoundActive())
	assert.Equal(t, uint64(2), fe.Frames())

	_, err = r.Tick(fe)
	assert.NoError(t, err)
	assert.Equal(t, uint64(2), fe.Frames())
}
