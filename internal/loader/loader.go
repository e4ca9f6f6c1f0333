// Package loader handles ROM file loading operations.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrochip8/internal/chip8"
)

var (
	// ErrROMTooLarge is returned for ROMs that do not fit into the program area.
	ErrROMTooLarge = errors.New("rom too large")

	// ErrROMEmpty is returned for ROMs without any content.
	ErrROMEmpty = errors.New("rom is empty")
)

// Loader handles loading ROM files into machine memory.
type Loader struct{}

// New creates a new ROM loader.
func New() *Loader {
	return &Loader{}
}

// Load reads the ROM file and copies it into the program area of the machine.
// It returns the ROM content.
func (l *Loader) Load(path string, m *chip8.Machine) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	rom, err := l.LoadReader(file, m)
	if err != nil {
		return nil, fmt.Errorf("loading rom %s: %w", path, err)
	}
	return rom, nil
}

// LoadReader reads a ROM from the reader and copies it into the program area
// of the machine.
func (l *Loader) LoadReader(reader io.Reader, m *chip8.Machine) ([]byte, error) {
	// read one byte more than fits to detect oversized ROMs without reading
	// arbitrary large inputs
	rom, err := io.ReadAll(io.LimitReader(reader, chip8.MaxProgramSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading rom: %w", err)
	}
	if err := l.LoadFromBytes(rom, m); err != nil {
		return nil, err
	}
	return rom, nil
}

// LoadFromBytes copies the ROM into the program area of the machine.
func (l *Loader) LoadFromBytes(rom []byte, m *chip8.Machine) error {
	if err := validate(rom); err != nil {
		return err
	}

	copy(m.Memory[chip8.ProgramStart:], rom)
	return nil
}

// ReadFile reads a ROM file without loading it into a machine.
func (l *Loader) ReadFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	rom, err := io.ReadAll(io.LimitReader(file, chip8.MaxProgramSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	if err := validate(rom); err != nil {
		return nil, fmt.Errorf("validating file %s: %w", path, err)
	}
	return rom, nil
}

// validate checks that the ROM fits into the program area.
func validate(rom []byte) error {
	switch {
	case len(rom) == 0:
		return ErrROMEmpty
	case len(rom) > chip8.MaxProgramSize:
		return fmt.Errorf("%w: size %d exceeds maximum of %d bytes", ErrROMTooLarge, len(rom), chip8.MaxProgramSize)
	}
	return nil
}
