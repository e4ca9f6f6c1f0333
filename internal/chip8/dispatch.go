package chip8

// opcode is a 16 bit instruction word, described as the four nibbles N3 N2 N1 N0.
type opcode uint16

// family returns the high nibble N3 that selects the primary dispatch slot.
func (o opcode) family() uint8 {
	return uint8(o >> 12)
}

// x returns the register index encoded in N2.
func (o opcode) x() uint8 {
	return uint8(o>>8) & 0x0F
}

// y returns the register index encoded in N1.
func (o opcode) y() uint8 {
	return uint8(o>>4) & 0x0F
}

// n returns the nibble immediate N0.
func (o opcode) n() uint8 {
	return uint8(o) & 0x0F
}

// nn returns the byte immediate N1N0.
func (o opcode) nn() uint8 {
	return uint8(o)
}

// nnn returns the address immediate N2N1N0.
func (o opcode) nnn() uint16 {
	return uint16(o) & AddressMask
}

// instruction is a named handler of a decoded opcode.
type instruction struct {
	name string
	exec func(m *Machine, op opcode) error
}

var (
	sysInstruction     = instruction{name: "SYS", exec: (*Machine).sys}
	unknownInstruction = instruction{name: "unknown", exec: (*Machine).sys}
)

// families is the primary dispatch table indexed by the high nibble.
var families = [16]func(op opcode) instruction{
	0x0: decodeSystem,
	0x1: always(instruction{name: "JP", exec: (*Machine).jp}),
	0x2: always(instruction{name: "CALL", exec: (*Machine).call}),
	0x3: always(instruction{name: "SE", exec: (*Machine).seByte}),
	0x4: always(instruction{name: "SNE", exec: (*Machine).sneByte}),
	0x5: always(instruction{name: "SE", exec: (*Machine).seRegister}),
	0x6: always(instruction{name: "LD", exec: (*Machine).ldByte}),
	0x7: always(instruction{name: "ADD", exec: (*Machine).addByte}),
	0x8: decodeArithmetic,
	0x9: always(instruction{name: "SNE", exec: (*Machine).sneRegister}),
	0xA: always(instruction{name: "LD", exec: (*Machine).ldIndex}),
	0xB: always(instruction{name: "JP", exec: (*Machine).jpOffset}),
	0xC: always(instruction{name: "RND", exec: (*Machine).rnd}),
	0xD: always(instruction{name: "DRW", exec: (*Machine).drw}),
	0xE: decodeKeyboard,
	0xF: decodeMisc,
}

// arithmetic is the dispatch table of the 0x8 family indexed by the low nibble.
var arithmetic = [16]instruction{
	0x0: {name: "LD", exec: (*Machine).ldRegister},
	0x1: {name: "OR", exec: (*Machine).or},
	0x2: {name: "AND", exec: (*Machine).and},
	0x3: {name: "XOR", exec: (*Machine).xor},
	0x4: {name: "ADD", exec: (*Machine).addRegister},
	0x5: {name: "SUB", exec: (*Machine).sub},
	0x6: {name: "SHR", exec: (*Machine).shr},
	0x7: {name: "SUBN", exec: (*Machine).subn},
	0x8: unknownInstruction,
	0x9: unknownInstruction,
	0xA: unknownInstruction,
	0xB: unknownInstruction,
	0xC: unknownInstruction,
	0xD: unknownInstruction,
	0xE: {name: "SHL", exec: (*Machine).shl},
	0xF: unknownInstruction,
}

// keyboard is the dispatch table of the 0xE family keyed by the low byte.
var keyboard = map[uint8]instruction{
	0x9E: {name: "SKP", exec: (*Machine).skp},
	0xA1: {name: "SKNP", exec: (*Machine).sknp},
}

// misc is the dispatch table of the 0xF family keyed by the low byte.
var misc = map[uint8]instruction{
	0x07: {name: "LD", exec: (*Machine).ldFromDelayTimer},
	0x0A: {name: "LD", exec: (*Machine).waitForKey},
	0x15: {name: "LD", exec: (*Machine).ldDelayTimer},
	0x18: {name: "LD", exec: (*Machine).ldSoundTimer},
	0x1E: {name: "ADD", exec: (*Machine).addIndex},
	0x29: {name: "LD", exec: (*Machine).ldFont},
	0x33: {name: "LD", exec: (*Machine).storeBCD},
	0x55: {name: "LD", exec: (*Machine).storeRegisters},
	0x65: {name: "LD", exec: (*Machine).loadRegisters},
}

// decode returns the instruction that handles the given opcode. Opcodes that
// are not part of the instruction set decode to a no-op.
func decode(op opcode) instruction {
	return families[op.family()](op)
}

func always(ins instruction) func(opcode) instruction {
	return func(opcode) instruction {
		return ins
	}
}

func decodeSystem(op opcode) instruction {
	switch op {
	case 0x00E0:
		return instruction{name: "CLS", exec: (*Machine).cls}
	case 0x00EE:
		return instruction{name: "RET", exec: (*Machine).ret}
	default:
		return sysInstruction
	}
}

func decodeArithmetic(op opcode) instruction {
	return arithmetic[op.n()]
}

func decodeKeyboard(op opcode) instruction {
	return lookup(keyboard, op.nn())
}

func decodeMisc(op opcode) instruction {
	return lookup(misc, op.nn())
}

func lookup(table map[uint8]instruction, key uint8) instruction {
	ins, ok := table[key]
	if !ok {
		return unknownInstruction
	}
	return ins
}
