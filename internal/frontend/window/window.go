// Package window implements a frontend that shows the display in a desktop
// window. The window owns the main loop and drives the runner once per
// timer period. Building with the headless tag removes the window support.
package window

import (
	"errors"
	"image/color"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/options"
)

// ErrUnavailable is returned when the binary was built without window support.
var ErrUnavailable = errors.New("window frontend is not available in this build")

// Config contains the window settings.
type Config struct {
	Title   string
	Scale   int
	TimerHz int // updates per second, one frame is run per update

	Foreground color.RGBA
	Background color.RGBA
}

// DefaultConfig returns the default window settings.
func DefaultConfig() Config {
	return Config{
		Title:      "CHIP-8",
		Scale:      options.DefaultScale,
		TimerHz:    60,
		Foreground: color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
		Background: color.RGBA{A: 0xFF},
	}
}

// fillPixels converts the display into RGBA pixel data.
func fillPixels(pixels []byte, display *[chip8.DisplayHeight][chip8.DisplayWidth]byte, fg, bg color.RGBA) {
	for y := range chip8.DisplayHeight {
		for x := range chip8.DisplayWidth {
			c := bg
			if display[y][x] != 0 {
				c = fg
			}
			offset := (y*chip8.DisplayWidth + x) * 4
			pixels[offset] = c.R
			pixels[offset+1] = c.G
			pixels[offset+2] = c.B
			pixels[offset+3] = c.A
		}
	}
}
