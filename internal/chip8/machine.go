package chip8

import (
	"fmt"
	"math/rand/v2"
)

// CHIP-8 machine dimensions.
const (
	MemorySize    = 4096
	RegisterCount = 16
	StackSize     = 16
	KeyCount      = 16

	DisplayWidth  = 64
	DisplayHeight = 32

	// ProgramStart is the memory address where programs are loaded and
	// where execution begins.
	ProgramStart = 0x200

	// MaxProgramSize is the largest program that fits into memory.
	MaxProgramSize = MemorySize - ProgramStart

	// AddressMask limits addresses to the 12 bit address space.
	AddressMask = 0x0FFF

	// FlagRegister is the index of VF, the carry, borrow and collision flag.
	FlagRegister = 0xF

	opcodeSize = 2
)

// TraceFunc is called before an instruction is executed.
type TraceFunc func(pc, opcode uint16)

// Option configures a Machine.
type Option func(*Machine)

// WithSeed seeds the random number generator used by the RND instruction,
// making runs reproducible.
func WithSeed(seed uint64) Option {
	return func(m *Machine) {
		m.rng = rand.New(rand.NewPCG(seed, seed))
	}
}

// WithTracer installs a hook that is invoked for every executed instruction.
func WithTracer(fn TraceFunc) Option {
	return func(m *Machine) {
		m.trace = fn
	}
}

// Machine contains the complete state of a CHIP-8 system.
// It is not safe for concurrent use.
type Machine struct {
	Memory [MemorySize]byte
	V      [RegisterCount]byte
	I      uint16
	PC     uint16

	Stack [StackSize]uint16
	SP    uint8

	DelayTimer byte
	SoundTimer byte

	Display [DisplayHeight][DisplayWidth]byte
	Keys    [KeyCount]bool

	// Opcode is the opcode of the instruction that is currently executed.
	Opcode uint16

	// Running is cleared by the host to terminate its step loop.
	Running bool

	// DrawFlag is set whenever the display was modified. The renderer is
	// responsible for clearing it after presenting a frame.
	DrawFlag bool

	rng   *rand.Rand
	trace TraceFunc
}

// New returns a new cold started machine.
func New(options ...Option) *Machine {
	m := &Machine{}
	for _, option := range options {
		option(m)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	m.Initialize()
	return m
}

// Initialize performs a cold start: all memory is cleared and the font is
// installed.
func (m *Machine) Initialize() {
	m.Memory = [MemorySize]byte{}
	m.resetState()
}

// Reset performs a warm restart. It clears the interpreter area below
// ProgramStart and reinstalls the font but keeps a loaded program intact.
func (m *Machine) Reset() {
	clear(m.Memory[:ProgramStart])
	m.resetState()
}

func (m *Machine) resetState() {
	copy(m.Memory[FontOffset:], Font[:])

	m.V = [RegisterCount]byte{}
	m.I = 0
	m.PC = ProgramStart
	m.Stack = [StackSize]uint16{}
	m.SP = 0
	m.DelayTimer = 0
	m.SoundTimer = 0
	m.Display = [DisplayHeight][DisplayWidth]byte{}
	m.Keys = [KeyCount]bool{}
	m.Opcode = 0
	m.Running = true
	m.DrawFlag = true
}

// FetchOpcode returns the big endian opcode at the program counter without
// advancing it.
func (m *Machine) FetchOpcode() (uint16, error) {
	if int(m.PC)+1 >= MemorySize {
		return 0, fmt.Errorf("fetching opcode at address %04x: %w", m.PC, ErrProgramCounterOutOfRange)
	}
	return uint16(m.Memory[m.PC])<<8 | uint16(m.Memory[m.PC+1]), nil
}

// Step fetches, decodes and executes a single instruction.
func (m *Machine) Step() error {
	op, err := m.FetchOpcode()
	if err != nil {
		return err
	}
	m.Opcode = op
	pc := m.PC

	if m.trace != nil {
		m.trace(pc, op)
	}

	ins := decode(opcode(op))
	if err := ins.exec(m, opcode(op)); err != nil {
		return fmt.Errorf("executing %s at address %04x (opcode %04x): %w", ins.name, pc, op, err)
	}
	return nil
}

// TickTimers decrements the delay and sound timers toward zero.
// It has to be called at 60 Hz independent of the instruction rate.
func (m *Machine) TickTimers() {
	if m.DelayTimer > 0 {
		m.DelayTimer--
	}
	if m.SoundTimer > 0 {
		m.SoundTimer--
	}
}

// SoundActive returns whether the sound timer requests a tone.
func (m *Machine) SoundActive() bool {
	return m.SoundTimer > 0
}

// ClearDrawFlag marks the current display content as presented.
func (m *Machine) ClearDrawFlag() {
	m.DrawFlag = false
}

// SetKeys replaces the keypad state.
func (m *Machine) SetKeys(keys [KeyCount]bool) {
	m.Keys = keys
}

func (m *Machine) next() {
	m.PC += opcodeSize
}

func (m *Machine) skipIf(condition bool) {
	if condition {
		m.PC += 2 * opcodeSize
		return
	}
	m.PC += opcodeSize
}

// jump sets the program counter to an absolute address that has to allow an
// opcode to be fetched.
func (m *Machine) jump(address uint16) error {
	if int(address)+1 >= MemorySize {
		return fmt.Errorf("jump target %04x: %w", address, ErrProgramCounterOutOfRange)
	}
	m.PC = address
	return nil
}

func (m *Machine) push(address uint16) error {
	if int(m.SP) >= StackSize {
		return ErrStackOverflow
	}
	m.Stack[m.SP] = address
	m.SP++
	return nil
}

func (m *Machine) pop() (uint16, error) {
	if m.SP == 0 {
		return 0, ErrStackUnderflow
	}
	m.SP--
	return m.Stack[m.SP], nil
}

// memoryBlock returns the memory slice of the given length starting at I.
func (m *Machine) memoryBlock(length int) ([]byte, error) {
	start := int(m.I)
	end := start + length
	if end > MemorySize {
		return nil, fmt.Errorf("accessing %d bytes at address %04x: %w", length, m.I, ErrMemoryOutOfRange)
	}
	return m.Memory[start:end], nil
}
