//go:build !headless

package window

import (
	"context"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/frontend"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrogolib/log"
)

// keypad maps the hexadecimal keys to the QWERTY layout used by all frontends.
var keypad = [chip8.KeyCount]ebiten.Key{
	0x1: ebiten.KeyDigit1, 0x2: ebiten.KeyDigit2, 0x3: ebiten.KeyDigit3, 0xC: ebiten.KeyDigit4,
	0x4: ebiten.KeyQ, 0x5: ebiten.KeyW, 0x6: ebiten.KeyE, 0xD: ebiten.KeyR,
	0x7: ebiten.KeyA, 0x8: ebiten.KeyS, 0x9: ebiten.KeyD, 0xE: ebiten.KeyF,
	0xA: ebiten.KeyZ, 0x0: ebiten.KeyX, 0xB: ebiten.KeyC, 0xF: ebiten.KeyV,
}

var _ frontend.Frontend = (*Window)(nil)

// Window is an ebiten game that runs the emulation.
type Window struct {
	ctx    context.Context
	logger *log.Logger
	runner *runner.Runner
	cfg    Config

	pixels []byte
	image  *ebiten.Image
	err    error
}

// Run opens the window and runs the emulation until the window is closed,
// the context is canceled or the machine stops.
func Run(ctx context.Context, logger *log.Logger, r *runner.Runner, cfg Config) error {
	if cfg.Scale <= 0 {
		cfg.Scale = options.DefaultScale
	}
	w := &Window{
		ctx:    ctx,
		logger: logger,
		runner: r,
		cfg:    cfg,
		pixels: make([]byte, chip8.DisplayWidth*chip8.DisplayHeight*4),
	}

	ebiten.SetWindowSize(chip8.DisplayWidth*cfg.Scale, chip8.DisplayHeight*cfg.Scale)
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowResizable(true)
	ebiten.SetTPS(cfg.TimerHz)

	logger.Debug("Opening window",
		log.Int("scale", cfg.Scale),
		log.Int("tps", cfg.TimerHz))

	if err := ebiten.RunGame(w); err != nil {
		return fmt.Errorf("running window: %w", err)
	}
	if w.err != nil {
		return w.err
	}
	return ctx.Err()
}

// Update is called by ebiten once per tick.
func (w *Window) Update() error {
	if ebiten.IsWindowBeingClosed() || w.ctx.Err() != nil {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		w.runner.SetPaused(!w.runner.Paused())
	}

	stop, err := w.runner.Tick(w)
	if err != nil {
		w.err = err
		return ebiten.Termination
	}
	if stop {
		return ebiten.Termination
	}
	return nil
}

// Draw presents the last rendered display.
func (w *Window) Draw(screen *ebiten.Image) {
	if w.image == nil {
		w.image = ebiten.NewImage(chip8.DisplayWidth, chip8.DisplayHeight)
	}
	w.image.WritePixels(w.pixels)
	screen.DrawImage(w.image, nil)
}

// Layout returns the logical screen size, ebiten scales it to the window.
func (w *Window) Layout(_, _ int) (int, int) {
	return chip8.DisplayWidth, chip8.DisplayHeight
}

// PollKeys reads the keypad state from the keyboard. Escape quits.
func (w *Window) PollKeys(keys *[chip8.KeyCount]bool) bool {
	for key, ebitenKey := range keypad {
		keys[key] = ebiten.IsKeyPressed(ebitenKey)
	}
	return inpututil.IsKeyJustPressed(ebiten.KeyEscape)
}

// Render copies the display into the pixel buffer shown by Draw.
func (w *Window) Render(m *chip8.Machine) error {
	fillPixels(w.pixels, &m.Display, w.cfg.Foreground, w.cfg.Background)
	m.ClearDrawFlag()
	return nil
}

// Close does nothing, ebiten releases the window when the game ends.
func (w *Window) Close() error {
	return nil
}
