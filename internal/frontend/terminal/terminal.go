// Package terminal implements a frontend that renders the display with block
// characters to a terminal and reads the keypad from stdin in raw mode.
package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/frontend"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/term"
)

// DefaultHoldFrames is the number of frames a key stays pressed after a key
// press was read. Terminals only report presses, repeated presses of a held
// key refresh the hold time.
const DefaultHoldFrames = 6

const (
	keyCtrlC  = 0x03
	keyEscape = 0x1B

	columns = chip8.DisplayWidth
	rows    = chip8.DisplayHeight / 2 // every character cell shows two pixel rows
)

// ErrNotATerminal is returned when stdin is not connected to a terminal.
var ErrNotATerminal = errors.New("stdin is not a terminal")

var _ frontend.Frontend = (*Terminal)(nil)

// Terminal is a frontend for ANSI terminals.
type Terminal struct {
	logger     *log.Logger
	out        io.Writer
	holdFrames int

	fd           int
	oldTermState *term.State

	mu   sync.Mutex
	held [chip8.KeyCount]int
	quit bool
}

// New puts the terminal into raw mode and starts reading key presses.
// Close has to be called to restore the terminal.
func New(logger *log.Logger, holdFrames int) (*Terminal, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, ErrNotATerminal
	}

	if width, height, err := term.GetSize(int(os.Stdout.Fd())); err == nil && (width < columns || height < rows+1) {
		logger.Warn("Terminal is smaller than the display",
			log.Int("width", width),
			log.Int("height", height),
			log.Int("required_width", columns),
			log.Int("required_height", rows+1))
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("setting raw mode: %w", err)
	}

	t := newTerminal(logger, os.Stdout, holdFrames)
	t.fd = fd
	t.oldTermState = oldState

	// reads from stdin can not be interrupted portably, the goroutine ends
	// with the process
	go t.readInput(os.Stdin)

	if _, err := io.WriteString(t.out, "\x1b[2J\x1b[?25l"); err != nil {
		_ = t.Close()
		return nil, fmt.Errorf("initializing screen: %w", err)
	}
	return t, nil
}

func newTerminal(logger *log.Logger, out io.Writer, holdFrames int) *Terminal {
	if holdFrames <= 0 {
		holdFrames = DefaultHoldFrames
	}
	return &Terminal{
		logger:     logger,
		out:        out,
		holdFrames: holdFrames,
	}
}

func (t *Terminal) readInput(reader io.Reader) {
	buf := make([]byte, 16)
	for {
		n, err := reader.Read(buf)
		if n > 0 {
			t.handleInput(buf[:n])
		}
		if err != nil {
			return
		}
	}
}

// handleInput processes the bytes of a single read from the terminal. An
// escape byte only quits when it ends the read, otherwise it starts an
// escape sequence like the one of an arrow key, which is skipped.
func (t *Terminal) handleInput(data []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := 0; i < len(data); i++ {
		switch b := data[i]; b {
		case keyCtrlC:
			t.quit = true

		case keyEscape:
			if i == len(data)-1 {
				t.quit = true
				return
			}
			i = escapeSequenceEnd(data, i)

		default:
			if key, ok := frontend.KeyForRune(rune(b)); ok {
				t.held[key] = t.holdFrames
			}
		}
	}
}

// escapeSequenceEnd returns the index of the last byte of the escape sequence
// starting at start. CSI and SS3 sequences end with a byte in the range
// 0x40-0x7E, other sequences consist of the escape byte and one character.
func escapeSequenceEnd(data []byte, start int) int {
	i := start + 1
	if data[i] != '[' && data[i] != 'O' {
		return i
	}
	for i++; i < len(data); i++ {
		if data[i] >= 0x40 && data[i] <= 0x7E {
			return i
		}
	}
	return len(data) - 1
}

// PollKeys returns the keys that were pressed within the hold time.
func (t *Terminal) PollKeys(keys *[chip8.KeyCount]bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	for key, frames := range t.held {
		keys[key] = frames > 0
		if frames > 0 {
			t.held[key]--
		}
	}
	return t.quit
}

// Render draws the display using half block characters.
func (t *Terminal) Render(m *chip8.Machine) error {
	buf := bufio.NewWriterSize(t.out, (columns*3+2)*(rows+1))
	if err := renderFrame(buf, m); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	m.ClearDrawFlag()
	return nil
}

// Close restores the terminal state.
func (t *Terminal) Close() error {
	if _, err := io.WriteString(t.out, "\x1b[?25h\r\n"); err != nil {
		t.logger.Error("Restoring cursor failed", log.Err(err))
	}
	if t.oldTermState == nil {
		return nil
	}
	if err := term.Restore(t.fd, t.oldTermState); err != nil {
		return fmt.Errorf("restoring terminal: %w", err)
	}
	t.oldTermState = nil
	return nil
}

// renderFrame writes the display followed by a status line. Raw mode
// requires explicit carriage returns.
func renderFrame(w io.Writer, m *chip8.Machine) error {
	if _, err := io.WriteString(w, "\x1b[H"); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}

	for row := range rows {
		top := m.Display[2*row]
		bottom := m.Display[2*row+1]
		for x := range columns {
			if _, err := io.WriteString(w, cell(top[x], bottom[x])); err != nil {
				return fmt.Errorf("writing frame: %w", err)
			}
		}
		if _, err := io.WriteString(w, "\r\n"); err != nil {
			return fmt.Errorf("writing frame: %w", err)
		}
	}

	status := "      "
	if m.SoundActive() {
		status = "[beep]"
	}
	if _, err := fmt.Fprintf(w, "%s ESC to quit\x1b[K", status); err != nil {
		return fmt.Errorf("writing status: %w", err)
	}
	return nil
}

func cell(top, bottom byte) string {
	switch {
	case top != 0 && bottom != 0:
		return "█"
	case top != 0:
		return "▀"
	case bottom != 0:
		return "▄"
	default:
		return " "
	}
}
