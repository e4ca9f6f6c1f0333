package chip8

import (
	"errors"
	"fmt"

	chip8cpu "github.com/retroenv/retrogolib/arch/cpu/chip8"
)

var (
	// ErrProgramCounterOutOfRange is returned when an instruction would be
	// fetched from outside of memory or a jump targets such an address.
	ErrProgramCounterOutOfRange = errors.New("program counter out of range")

	// ErrStackOverflow is returned when a call exceeds the stack depth.
	ErrStackOverflow = chip8cpu.ErrStackOverflow

	// ErrStackUnderflow is returned when a return is executed with an empty stack.
	ErrStackUnderflow = chip8cpu.ErrStackUnderflow

	// ErrMemoryOutOfRange is returned when an instruction accesses memory
	// past the end of the address space through the index register.
	ErrMemoryOutOfRange = fmt.Errorf("index register access: %w", chip8cpu.ErrMemoryOutOfBounds)
)
