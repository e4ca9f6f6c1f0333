package chip8

import "fmt"

// sys handles the legacy machine code call 0NNN and all unknown opcodes.
func (m *Machine) sys(_ opcode) error {
	m.next()
	return nil
}

// cls clears the display.
func (m *Machine) cls(_ opcode) error {
	m.Display = [DisplayHeight][DisplayWidth]byte{}
	m.DrawFlag = true
	m.next()
	return nil
}

// ret returns from a subroutine to the instruction following the call.
func (m *Machine) ret(_ opcode) error {
	address, err := m.pop()
	if err != nil {
		return err
	}
	m.PC = address
	m.next()
	return nil
}

func (m *Machine) jp(op opcode) error {
	return m.jump(op.nnn())
}

// call pushes the address of the call instruction and jumps to NNN.
func (m *Machine) call(op opcode) error {
	target := op.nnn()
	if int(target)+1 >= MemorySize {
		return fmt.Errorf("call target %04x: %w", target, ErrProgramCounterOutOfRange)
	}
	if err := m.push(m.PC); err != nil {
		return err
	}
	m.PC = target
	return nil
}

func (m *Machine) seByte(op opcode) error {
	m.skipIf(m.V[op.x()] == op.nn())
	return nil
}

func (m *Machine) sneByte(op opcode) error {
	m.skipIf(m.V[op.x()] != op.nn())
	return nil
}

func (m *Machine) seRegister(op opcode) error {
	m.skipIf(m.V[op.x()] == m.V[op.y()])
	return nil
}

func (m *Machine) sneRegister(op opcode) error {
	m.skipIf(m.V[op.x()] != m.V[op.y()])
	return nil
}

func (m *Machine) ldByte(op opcode) error {
	m.V[op.x()] = op.nn()
	m.next()
	return nil
}

// addByte adds NN to Vx without affecting VF.
func (m *Machine) addByte(op opcode) error {
	m.V[op.x()] += op.nn()
	m.next()
	return nil
}

func (m *Machine) ldRegister(op opcode) error {
	m.V[op.x()] = m.V[op.y()]
	m.next()
	return nil
}

func (m *Machine) or(op opcode) error {
	m.V[op.x()] |= m.V[op.y()]
	m.next()
	return nil
}

func (m *Machine) and(op opcode) error {
	m.V[op.x()] &= m.V[op.y()]
	m.next()
	return nil
}

func (m *Machine) xor(op opcode) error {
	m.V[op.x()] ^= m.V[op.y()]
	m.next()
	return nil
}

// The flag producing instructions below write VF before the result, a
// result stored into VF therefore overwrites the flag.

func (m *Machine) addRegister(op opcode) error {
	sum := uint16(m.V[op.x()]) + uint16(m.V[op.y()])
	m.V[FlagRegister] = boolToByte(sum > 0xFF)
	m.V[op.x()] = byte(sum)
	m.next()
	return nil
}

func (m *Machine) sub(op opcode) error {
	vx, vy := m.V[op.x()], m.V[op.y()]
	m.V[FlagRegister] = boolToByte(vx >= vy)
	m.V[op.x()] = vx - vy
	m.next()
	return nil
}

func (m *Machine) subn(op opcode) error {
	vx, vy := m.V[op.x()], m.V[op.y()]
	m.V[FlagRegister] = boolToByte(vy >= vx)
	m.V[op.x()] = vy - vx
	m.next()
	return nil
}

func (m *Machine) shr(op opcode) error {
	vx := m.V[op.x()]
	m.V[FlagRegister] = vx & 0x01
	m.V[op.x()] = vx >> 1
	m.next()
	return nil
}

// shl stores the most significant bit of Vx in VF and shifts Vx left.
// Interpreters that test the bit with (Vx & 0x80) == 1 never set VF, this
// implementation sets it whenever the bit is set.
func (m *Machine) shl(op opcode) error {
	vx := m.V[op.x()]
	m.V[FlagRegister] = boolToByte(vx&0x80 != 0)
	m.V[op.x()] = vx << 1
	m.next()
	return nil
}

func (m *Machine) ldIndex(op opcode) error {
	m.I = op.nnn()
	m.next()
	return nil
}

// jpOffset jumps to NNN plus V0.
func (m *Machine) jpOffset(op opcode) error {
	return m.jump(op.nnn() + uint16(m.V[0]))
}

func (m *Machine) rnd(op opcode) error {
	m.V[op.x()] = byte(m.rng.UintN(256)) & op.nn()
	m.next()
	return nil
}

// drw XORs an 8 pixel wide sprite of N rows read from I onto the display at
// (Vx, Vy). Pixels leaving the display wrap around to the opposite edge.
// VF is set if any set pixel gets cleared.
func (m *Machine) drw(op opcode) error {
	sprite, err := m.memoryBlock(int(op.n()))
	if err != nil {
		return err
	}

	originX := int(m.V[op.x()])
	originY := int(m.V[op.y()])
	var collision bool

	for row, line := range sprite {
		y := (originY + row) % DisplayHeight
		for bit := range 8 {
			if line&(0x80>>bit) == 0 {
				continue
			}
			x := (originX + bit) % DisplayWidth
			if m.Display[y][x] == 1 {
				collision = true
			}
			m.Display[y][x] ^= 1
		}
	}

	m.V[FlagRegister] = boolToByte(collision)
	m.DrawFlag = true
	m.next()
	return nil
}

func (m *Machine) skp(op opcode) error {
	m.skipIf(m.Keys[m.V[op.x()]&0x0F])
	return nil
}

func (m *Machine) sknp(op opcode) error {
	m.skipIf(!m.Keys[m.V[op.x()]&0x0F])
	return nil
}

func (m *Machine) ldFromDelayTimer(op opcode) error {
	m.V[op.x()] = m.DelayTimer
	m.next()
	return nil
}

// waitForKey stores the lowest pressed key in Vx. The program counter is not
// advanced while no key is pressed, so the instruction is executed again on
// the next step.
func (m *Machine) waitForKey(op opcode) error {
	for key, pressed := range m.Keys {
		if pressed {
			m.V[op.x()] = byte(key)
			m.next()
			return nil
		}
	}
	return nil
}

func (m *Machine) ldDelayTimer(op opcode) error {
	m.DelayTimer = m.V[op.x()]
	m.next()
	return nil
}

func (m *Machine) ldSoundTimer(op opcode) error {
	m.SoundTimer = m.V[op.x()]
	m.next()
	return nil
}

func (m *Machine) addIndex(op opcode) error {
	m.I = (m.I + uint16(m.V[op.x()])) & AddressMask
	m.next()
	return nil
}

// ldFont points I at the font glyph of the low nibble of Vx.
func (m *Machine) ldFont(op opcode) error {
	m.I = FontOffset + uint16(m.V[op.x()]&0x0F)*GlyphSize
	m.next()
	return nil
}

// storeBCD writes the hundreds, tens and ones digits of Vx to I, I+1 and I+2.
func (m *Machine) storeBCD(op opcode) error {
	digits, err := m.memoryBlock(3)
	if err != nil {
		return err
	}
	value := m.V[op.x()]
	digits[0] = value / 100
	digits[1] = value / 10 % 10
	digits[2] = value % 10
	m.next()
	return nil
}

// storeRegisters copies V0 to Vx inclusive to memory at I.
func (m *Machine) storeRegisters(op opcode) error {
	block, err := m.memoryBlock(int(op.x()) + 1)
	if err != nil {
		return err
	}
	copy(block, m.V[:])
	m.next()
	return nil
}

// loadRegisters copies memory at I into V0 to Vx inclusive.
func (m *Machine) loadRegisters(op opcode) error {
	block, err := m.memoryBlock(int(op.x()) + 1)
	if err != nil {
		return err
	}
	copy(m.V[:], block)
	m.next()
	return nil
}

func boolToByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
