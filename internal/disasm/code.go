package disasm

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/retroenv/retrogolib/set"
)

const (
	funcNaming  = "_func_%04x"
	labelNaming = "_label_%04x"
)

// Options controls the listing output.
type Options struct {
	BaseAddress    uint16 // memory address of the first ROM byte
	HexComments    bool   // output opcode bytes as hex values in comments
	OffsetComments bool   // output memory addresses in comments
}

type line struct {
	address uint16
	data    []byte
	code    string
}

// Write disassembles the ROM with a linear sweep and writes an assembly
// listing. Jump and call destinations inside the ROM get labels.
func Write(w io.Writer, rom []byte, opts Options) error {
	lines := make([]line, 0, len(rom)/2+1)
	jumpDestinations := set.New[uint16]()
	callDestinations := set.New[uint16]()

	end := int(opts.BaseAddress) + len(rom)
	inROM := func(address uint16) bool {
		return address >= opts.BaseAddress && int(address) < end
	}

	for offset := 0; offset < len(rom); offset += 2 {
		address := opts.BaseAddress + uint16(offset)
		if offset+1 >= len(rom) {
			lines = append(lines, line{
				address: address,
				data:    rom[offset : offset+1],
				code:    fmt.Sprintf(".byte $%02X", rom[offset]),
			})
			break
		}

		opcode := uint16(rom[offset])<<8 | uint16(rom[offset+1])
		target := opcode & 0x0FFF
		switch opcode & 0xF000 {
		case 0x1000:
			if inROM(target) {
				jumpDestinations.Add(target)
			}
		case 0x2000:
			if inROM(target) {
				callDestinations.Add(target)
			}
		}

		lines = append(lines, line{
			address: address,
			data:    rom[offset : offset+2],
			code:    Format(opcode),
		})
	}

	labels := processJumpDestinations(jumpDestinations, callDestinations)
	return writeLines(w, lines, labels, opts)
}

// processJumpDestinations assigns a label name to every branch destination.
// Call destinations take precedence over jump destinations.
func processJumpDestinations(jumps, calls set.Set[uint16]) map[uint16]string {
	labels := make(map[uint16]string, len(jumps)+len(calls))
	for address := range jumps {
		labels[address] = fmt.Sprintf(labelNaming, address)
	}
	for address := range calls {
		labels[address] = fmt.Sprintf(funcNaming, address)
	}
	return labels
}

func writeLines(w io.Writer, lines []line, labels map[uint16]string, opts Options) error {
	buf := bufio.NewWriter(w)

	addresses := make([]uint16, 0, len(labels))
	for address := range labels {
		addresses = append(addresses, address)
	}
	slices.Sort(addresses)

	for _, l := range lines {
		if name, ok := labels[l.address]; ok {
			if _, err := fmt.Fprintf(buf, "%s:\n", name); err != nil {
				return fmt.Errorf("writing label: %w", err)
			}
		}

		code := replaceTarget(l, labels)
		comment := formatComment(l, opts)
		if comment != "" {
			code = fmt.Sprintf("%-24s ; %s", code, comment)
		}
		if _, err := fmt.Fprintf(buf, "  %s\n", code); err != nil {
			return fmt.Errorf("writing instruction: %w", err)
		}
	}

	// labels that point to the odd byte of an instruction can not be emitted
	// inline, they are listed as constants to keep the output assemblable
	for _, address := range addresses {
		if address%2 == opts.BaseAddress%2 {
			continue
		}
		if _, err := fmt.Fprintf(buf, "%s = $%03X\n", labels[address], address); err != nil {
			return fmt.Errorf("writing label constant: %w", err)
		}
	}

	if err := buf.Flush(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}
	return nil
}

// replaceTarget replaces the address operand of jumps and calls by its label.
func replaceTarget(l line, labels map[uint16]string) string {
	if len(l.data) < 2 {
		return l.code
	}
	opcode := uint16(l.data[0])<<8 | uint16(l.data[1])
	if opcode&0xF000 != 0x1000 && opcode&0xF000 != 0x2000 {
		return l.code
	}
	target := opcode & 0x0FFF
	name, ok := labels[target]
	if !ok {
		return l.code
	}
	return strings.Replace(l.code, fmt.Sprintf("$%03X", target), name, 1)
}

func formatComment(l line, opts Options) string {
	var parts []string
	if opts.OffsetComments {
		parts = append(parts, fmt.Sprintf("$%04X", l.address))
	}
	if opts.HexComments {
		hex := make([]string, 0, len(l.data))
		for _, b := range l.data {
			hex = append(hex, fmt.Sprintf("%02X", b))
		}
		parts = append(parts, strings.Join(hex, " "))
	}
	return strings.Join(parts, " ")
}
