// Package options contains the program options.
package options

// Frontend names.
const (
	FrontendWindow   = "window"
	FrontendTerminal = "terminal"
	FrontendNone     = "none"
)

// DefaultScale is the default number of window pixels per display pixel.
const DefaultScale = 10

// Frontends lists all supported frontend names.
var Frontends = []string{FrontendWindow, FrontendTerminal, FrontendNone}

// Parameters contains file path options.
type Parameters struct {
	Input string `flag:"i" usage:"input ROM file"`
}

// Flags contains behavior options.
type Flags struct {
	Frontend string `flag:"f" usage:"frontend: window, terminal, none" default:"window"`
	Seed     uint64 `flag:"seed" usage:"seed of the random number generator, 0 uses a random seed"`
	Trace    bool   `flag:"trace" usage:"log every executed instruction, implies -debug"`
	Debug    bool   `flag:"debug" usage:"enable debug logging"`
	Quiet    bool   `flag:"q" usage:"quiet mode"`
}

// TimingFlags contains emulation speed options.
type TimingFlags struct {
	ClockHz   int    `flag:"clock" usage:"instructions per second" default:"540"`
	TimerHz   int    `flag:"timer" usage:"timer ticks per second" default:"60"`
	MaxFrames uint64 `flag:"frames" usage:"stop after the number of frames, 0 runs until stopped"`
}

// DisplayFlags contains display options.
type DisplayFlags struct {
	Scale      int `flag:"scale" usage:"window pixels per display pixel" default:"10"`
	HoldFrames int `flag:"hold" usage:"frames a key stays pressed in the terminal frontend" default:"6"`
}

// Program options of the emulator.
type Program struct {
	Parameters
	Flags
	TimingFlags
	DisplayFlags
}
