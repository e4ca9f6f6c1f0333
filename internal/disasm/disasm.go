// Package disasm provides CHIP-8 instruction decoding and formatting.
// It is used for tracing executed instructions and for ROM listings.
package disasm

import (
	"fmt"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Lookup returns the instruction definition matching the opcode.
// The second return value is false for opcodes that are not part of the
// instruction set.
func Lookup(opcode uint16) (*chip8.Instruction, bool) {
	firstNibble := (opcode & 0xF000) >> 12
	for _, op := range chip8.Opcodes[int(firstNibble)] {
		if op.Info.Mask&opcode == op.Info.Value && op.Instruction != nil {
			return op.Instruction, true
		}
	}
	return nil, false
}

// Format returns the assembly representation of the opcode. Unknown opcodes
// are returned as a data word.
func Format(opcode uint16) string {
	ins, ok := Lookup(opcode)
	if !ok {
		return fmt.Sprintf(".word $%04X", opcode)
	}
	if params := formatParams(opcode); params != "" {
		return fmt.Sprintf("%s %s", ins.Name, params)
	}
	return ins.Name
}

// IsSkip returns whether the opcode conditionally skips the next instruction.
func IsSkip(opcode uint16) bool {
	ins, ok := Lookup(opcode)
	if !ok {
		return false
	}
	return chip8.SkipInstructions.Contains(ins.Name)
}

// formatParams formats the operands of an opcode based on its encoding.
func formatParams(opcode uint16) string {
	x := extractRegisterX(opcode)
	y := extractRegisterY(opcode)

	switch opcode & 0xF000 {
	case 0x0000:
		if opcode == 0x00E0 || opcode == 0x00EE {
			return ""
		}
		return fmt.Sprintf("$%03X", opcode&0x0FFF)
	case 0x1000, 0x2000:
		return fmt.Sprintf("$%03X", opcode&0x0FFF)
	case 0x3000, 0x4000, 0x6000, 0x7000, 0xC000:
		return fmt.Sprintf("V%X, $%02X", x, opcode&0x00FF)
	case 0x5000, 0x9000:
		return fmt.Sprintf("V%X, V%X", x, y)
	case 0x8000:
		return formatArithmetic(opcode)
	case 0xA000:
		return fmt.Sprintf("I, $%03X", opcode&0x0FFF)
	case 0xB000:
		return fmt.Sprintf("V0, $%03X", opcode&0x0FFF)
	case 0xD000:
		return fmt.Sprintf("V%X, V%X, $%X", x, y, opcode&0x000F)
	case 0xE000:
		return fmt.Sprintf("V%X", x)
	case 0xF000:
		return formatMisc(opcode)
	}
	return ""
}

// formatArithmetic formats register operations (LD, OR, AND, XOR, ADD, SUB, SUBN, SHR, SHL).
func formatArithmetic(opcode uint16) string {
	x := extractRegisterX(opcode)
	switch opcode & 0x000F {
	case 0x6, 0xE:
		return fmt.Sprintf("V%X", x)
	default:
		y := extractRegisterY(opcode)
		return fmt.Sprintf("V%X, V%X", x, y)
	}
}

// formatMisc formats timer, keyboard and memory block instructions.
func formatMisc(opcode uint16) string {
	x := extractRegisterX(opcode)
	switch opcode & 0x00FF {
	case 0x07:
		return fmt.Sprintf("V%X, DT", x)
	case 0x0A:
		return fmt.Sprintf("V%X, K", x)
	case 0x15:
		return fmt.Sprintf("DT, V%X", x)
	case 0x18:
		return fmt.Sprintf("ST, V%X", x)
	case 0x1E:
		return fmt.Sprintf("I, V%X", x)
	case 0x29:
		return fmt.Sprintf("F, V%X", x)
	case 0x33:
		return fmt.Sprintf("B, V%X", x)
	case 0x55:
		return fmt.Sprintf("[I], V%X", x)
	case 0x65:
		return fmt.Sprintf("V%X, [I]", x)
	}
	return ""
}

// extractRegisterX extracts the X register nibble from a CHIP-8 opcode.
func extractRegisterX(opcode uint16) uint16 {
	return (opcode & 0x0F00) >> 8
}

// extractRegisterY extracts the Y register nibble from a CHIP-8 opcode.
func extractRegisterY(opcode uint16) uint16 {
	return (opcode & 0x00F0) >> 4
}
