// Package chip8 provides the CHIP-8 CPU core: the machine state, the
// fetch-decode-execute cycle and the semantics of the 35 instructions.
//
// # Memory Layout
//
// The machine has 4KB of byte addressed memory:
//   - 0x000-0x04F: built-in hexadecimal font, 16 glyphs of 5 bytes
//   - 0x050-0x1FF: reserved interpreter area
//   - ProgramStart-0xFFF: program and work RAM
//
// The display buffer, the call stack and the keypad are kept outside of the
// addressable memory.
//
// # Execution
//
// The core never blocks and never paces itself. A host calls Step for every
// instruction and TickTimers at a fixed 60 Hz cadence that is independent of
// the instruction rate:
//
//	m := chip8.New()
//	copy(m.Memory[chip8.ProgramStart:], rom)
//	for m.Running {
//		if err := m.Step(); err != nil {
//			return fmt.Errorf("executing instruction: %w", err)
//		}
//	}
//
// # Errors
//
// Conditions that would read or write outside of the machine state are
// reported as errors wrapping ErrProgramCounterOutOfRange,
// ErrStackOverflow, ErrStackUnderflow or ErrMemoryOutOfRange. They are fatal
// for the emulated program; the host decides whether to halt or reset.
//
// Unknown opcodes are executed as no-ops that advance the program counter.
package chip8
