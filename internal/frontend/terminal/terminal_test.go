package terminal

import (
	"bytes"
	"strings"
	"testing"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func TestKeyHold(t *testing.T) {
	term := newTerminal(log.NewTestLogger(t), &bytes.Buffer{}, 2)
	var keys [chip8.KeyCount]bool

	term.handleInput([]byte{'w'})
	assert.False(t, term.PollKeys(&keys))
	assert.True(t, keys[0x5])

	assert.False(t, term.PollKeys(&keys))
	assert.True(t, keys[0x5])

	assert.False(t, term.PollKeys(&keys))
	assert.False(t, keys[0x5])
}

func TestKeyHold_Refresh(t *testing.T) {
	term := newTerminal(log.NewTestLogger(t), &bytes.Buffer{}, 1)
	var keys [chip8.KeyCount]bool

	term.handleInput([]byte{'V'})
	term.PollKeys(&keys)
	assert.True(t, keys[0xF])

	term.handleInput([]byte{'v'})
	term.PollKeys(&keys)
	assert.True(t, keys[0xF])

	term.PollKeys(&keys)
	assert.False(t, keys[0xF])
}

func TestDefaultHoldFrames(t *testing.T) {
	term := newTerminal(log.NewTestLogger(t), &bytes.Buffer{}, 0)
	assert.Equal(t, DefaultHoldFrames, term.holdFrames)
}

func TestQuitKeys(t *testing.T) {
	for _, b := range []byte{keyEscape, keyCtrlC} {
		term := newTerminal(log.NewTestLogger(t), &bytes.Buffer{}, 1)
		var keys [chip8.KeyCount]bool

		term.handleInput([]byte{'1'})
		assert.False(t, term.PollKeys(&keys))

		term.handleInput([]byte{b})
		assert.True(t, term.PollKeys(&keys))
	}
}

func TestEscapeSequencesIgnored(t *testing.T) {
	tests := []struct {
		name  string
		input string
		quit  bool
		keys  []uint8
	}{
		{"arrow key", "\x1b[A", false, nil},
		{"arrow key between keys", "w\x1b[Dq", false, []uint8{0x5, 0x4}},
		{"function key", "\x1b[15~", false, nil},
		{"ss3 arrow key", "\x1bOB", false, nil},
		{"alt key", "\x1bx", false, nil},
		{"escape at end", "1\x1b", true, []uint8{0x1}},
		{"ctrl-c", "\x03", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term := newTerminal(log.NewTestLogger(t), &bytes.Buffer{}, 1)
			var keys [chip8.KeyCount]bool

			term.handleInput([]byte(tt.input))
			assert.Equal(t, tt.quit, term.PollKeys(&keys))

			var pressed []uint8
			for key, down := range keys {
				if down {
					pressed = append(pressed, uint8(key))
				}
			}
			assert.Len(t, pressed, len(tt.keys))
			for _, key := range tt.keys {
				assert.True(t, keys[key], "key %X", key)
			}
		})
	}
}

func TestUnmappedKeysIgnored(t *testing.T) {
	term := newTerminal(log.NewTestLogger(t), &bytes.Buffer{}, 1)
	var keys [chip8.KeyCount]bool

	term.handleInput([]byte{'p'})
	term.handleInput([]byte{'\r'})
	assert.False(t, term.PollKeys(&keys))
	for key, pressed := range keys {
		assert.False(t, pressed, "key %X", key)
	}
}

func TestReadInput(t *testing.T) {
	term := newTerminal(log.NewTestLogger(t), &bytes.Buffer{}, 1)
	var keys [chip8.KeyCount]bool

	term.readInput(strings.NewReader("qz"))
	term.PollKeys(&keys)
	assert.True(t, keys[0x4])
	assert.True(t, keys[0xA])
}

func TestRenderFrame(t *testing.T) {
	m := chip8.New()
	m.Display[0][0] = 1
	m.Display[1][0] = 1
	m.Display[0][1] = 1
	m.Display[1][2] = 1
	m.Display[31][63] = 1

	var buf bytes.Buffer
	assert.NoError(t, renderFrame(&buf, m))

	output := strings.TrimPrefix(buf.String(), "\x1b[H")
	lines := strings.Split(output, "\r\n")
	assert.Len(t, lines, rows+1)

	first := []rune(lines[0])
	assert.Len(t, first, columns)
	assert.Equal(t, '█', first[0])
	assert.Equal(t, '▀', first[1])
	assert.Equal(t, '▄', first[2])
	assert.Equal(t, ' ', first[3])

	last := []rune(lines[rows-1])
	assert.Equal(t, '▄', last[columns-1])

	assert.Contains(t, lines[rows], "ESC to quit")
	assert.False(t, strings.Contains(lines[rows], "[beep]"))
}

func TestRenderFrame_Sound(t *testing.T) {
	m := chip8.New()
	m.SoundTimer = 3

	var buf bytes.Buffer
	assert.NoError(t, renderFrame(&buf, m))
	assert.Contains(t, buf.String(), "[beep]")
}

func TestRender_ClearsDrawFlag(t *testing.T) {
	var buf bytes.Buffer
	term := newTerminal(log.NewTestLogger(t), &buf, 1)
	m := chip8.New()
	assert.True(t, m.DrawFlag)

	assert.NoError(t, term.Render(m))
	assert.False(t, m.DrawFlag)
	assert.NotEmpty(t, buf.String())
}

func TestClose_WithoutRawMode(t *testing.T) {
	var buf bytes.Buffer
	term := newTerminal(log.NewTestLogger(t), &buf, 1)

	assert.NoError(t, term.Close())
	assert.Contains(t, buf.String(), "\x1b[?25h")
}
