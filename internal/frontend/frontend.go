// Package frontend defines the interface between the emulation runner and
// the platform specific rendering and input implementations.
package frontend

import (
	"unicode"

	"github.com/retroenv/retrochip8/internal/chip8"
)

// Frontend renders the display and provides the keypad state.
type Frontend interface {
	// PollKeys updates the keypad state and returns whether the user
	// requested to quit.
	PollKeys(keys *[chip8.KeyCount]bool) (quit bool)

	// Render presents the display of the machine and clears its draw flag.
	Render(m *chip8.Machine) error

	// Close releases all resources of the frontend.
	Close() error
}

// keymap maps the conventional QWERTY keys to the hexadecimal keypad:
//
//	1 2 3 4      1 2 3 C
//	Q W E R  ->  4 5 6 D
//	A S D F      7 8 9 E
//	Z X C V      A 0 B F
var keymap = map[rune]uint8{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// KeyForRune returns the keypad key that the character is mapped to.
func KeyForRune(r rune) (uint8, bool) {
	key, ok := keymap[unicode.ToLower(r)]
	return key, ok
}

// Runes returns the characters of the keypad layout indexed by key.
func Runes() [chip8.KeyCount]rune {
	var runes [chip8.KeyCount]rune
	for r, key := range keymap {
		runes[key] = r
	}
	return runes
}

// Headless is a frontend without any output or input, used for running
// programs unattended.
type Headless struct {
	frames uint64
}

// NewHeadless returns a new headless frontend.
func NewHeadless() *Headless {
	return &Headless{}
}

// PollKeys leaves all keys released.
func (h *Headless) PollKeys(_ *[chip8.KeyCount]bool) bool {
	return false
}

// Render counts the presented frames.
func (h *Headless) Render(m *chip8.Machine) error {
	h.frames++
	m.ClearDrawFlag()
	return nil
}

// Frames returns the number of presented frames.
func (h *Headless) Frames() uint64 {
	return h.frames
}

// Close does nothing.
func (h *Headless) Close() error {
	return nil
}
