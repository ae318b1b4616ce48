// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// Add 'v' and the carry flag to the accumulator. Decimal mode applies only
// to the NMOS architecture; the 2A03 has the BCD circuitry disconnected.
func (cpu *CPU) addWithCarry(v byte) {
	if cpu.Arch == NMOS && cpu.Reg.Decimal {
		cpu.addDecimal(v)
		return
	}

	acc := uint32(cpu.Reg.A)
	add := uint32(v)
	carry := uint32(boolToByte(cpu.Reg.Carry))

	r := acc + add + carry
	cpu.Reg.Carry = (r >= 0x100)
	cpu.Reg.Overflow = ((acc^r)&(add^r)&0x80 != 0)
	cpu.Reg.A = byte(r)
	cpu.Reg.SetZeroNegative(cpu.Reg.A)
}

// NMOS decimal addition. Z reflects the binary sum, while N and V are taken
// from the result after the low digit is adjusted but before the high
// digit is.
func (cpu *CPU) addDecimal(v byte) {
	acc := int(cpu.Reg.A)
	add := int(v)
	carry := int(boolToByte(cpu.Reg.Carry))

	cpu.Reg.Zero = byte(acc+add+carry) == 0

	lo := (acc & 0x0f) + (add & 0x0f) + carry
	if lo > 0x09 {
		lo += 0x06
	}
	hi := (acc >> 4) + (add >> 4)
	if lo > 0x0f {
		hi++
	}

	cpu.Reg.Negative = (hi & 0x08) != 0
	cpu.Reg.Overflow = (^(acc ^ add) & (acc ^ (hi << 4)) & 0x80) != 0

	if hi > 0x09 {
		hi += 0x06
	}
	cpu.Reg.Carry = hi > 0x0f
	cpu.Reg.A = byte(hi<<4 | lo&0x0f)
}

// Subtract 'v' and the borrow (inverted carry) from the accumulator.
func (cpu *CPU) subtractWithCarry(v byte) {
	if cpu.Arch != NMOS || !cpu.Reg.Decimal {
		cpu.addWithCarry(^v)
		return
	}

	// NMOS decimal subtraction sets every flag from the binary result and
	// adjusts only the accumulator.
	acc := int(cpu.Reg.A)
	sub := int(v)
	borrow := 1 - int(boolToByte(cpu.Reg.Carry))

	r := acc - sub - borrow
	cpu.Reg.Carry = r >= 0
	cpu.Reg.Overflow = ((acc^sub)&(acc^r)&0x80 != 0)
	cpu.Reg.SetZeroNegative(byte(r))

	lo := (acc & 0x0f) - (sub & 0x0f) - borrow
	hi := (acc >> 4) - (sub >> 4)
	if lo < 0 {
		lo -= 0x06
		hi--
	}
	if hi < 0 {
		hi -= 0x06
	}
	cpu.Reg.A = byte(hi<<4 | lo&0x0f)
}

// Compare 'reg' against 'v' as an unsigned subtraction.
func (cpu *CPU) compare(reg, v byte) {
	cpu.Reg.Carry = (reg >= v)
	cpu.Reg.SetZeroNegative(reg - v)
}

func (cpu *CPU) shiftLeft(v byte) byte {
	cpu.Reg.Carry = ((v & 0x80) == 0x80)
	v <<= 1
	cpu.Reg.SetZeroNegative(v)
	return v
}

func (cpu *CPU) shiftRight(v byte) byte {
	cpu.Reg.Carry = ((v & 1) == 1)
	v >>= 1
	cpu.Reg.SetZeroNegative(v)
	return v
}

func (cpu *CPU) rotateLeft(v byte) byte {
	r := (v << 1) | boolToByte(cpu.Reg.Carry)
	cpu.Reg.Carry = ((v & 0x80) != 0)
	cpu.Reg.SetZeroNegative(r)
	return r
}

func (cpu *CPU) rotateRight(v byte) byte {
	r := (v >> 1) | (boolToByte(cpu.Reg.Carry) << 7)
	cpu.Reg.Carry = ((v & 1) != 0)
	cpu.Reg.SetZeroNegative(r)
	return r
}

// Add with carry
func (cpu *CPU) adc(inst *Instruction, addr uint16) {
	cpu.addWithCarry(cpu.load(inst, addr))
}

// Boolean AND
func (cpu *CPU) and(inst *Instruction, addr uint16) {
	cpu.Reg.A &= cpu.load(inst, addr)
	cpu.Reg.SetZeroNegative(cpu.Reg.A)
}

// Arithmetic Shift Left
func (cpu *CPU) asl(inst *Instruction, addr uint16) {
	v := cpu.loadModify(inst, addr)
	cpu.store(inst, addr, cpu.shiftLeft(v))
}

// Branch if Carry Clear
func (cpu *CPU) bcc(inst *Instruction, addr uint16) {
	if !cpu.Reg.Carry {
		cpu.branch(addr)
	}
}

// Branch if Carry Set
func (cpu *CPU) bcs(inst *Instruction, addr uint16) {
	if cpu.Reg.Carry {
		cpu.branch(addr)
	}
}

// Branch if EQual (to zero)
func (cpu *CPU) beq(inst *Instruction, addr uint16) {
	if cpu.Reg.Zero {
		cpu.branch(addr)
	}
}

// Bit Test
func (cpu *CPU) bit(inst *Instruction, addr uint16) {
	v := cpu.load(inst, addr)
	cpu.Reg.Zero = ((v & cpu.Reg.A) == 0)
	cpu.Reg.Negative = ((v & 0x80) != 0)
	cpu.Reg.Overflow = ((v & 0x40) != 0)
}

// Branch if MInus (negative)
func (cpu *CPU) bmi(inst *Instruction, addr uint16) {
	if cpu.Reg.Negative {
		cpu.branch(addr)
	}
}

// Branch if Not Equal (not zero)
func (cpu *CPU) bne(inst *Instruction, addr uint16) {
	if !cpu.Reg.Zero {
		cpu.branch(addr)
	}
}

// Branch if PLus (positive)
func (cpu *CPU) bpl(inst *Instruction, addr uint16) {
	if !cpu.Reg.Negative {
		cpu.branch(addr)
	}
}

// Break. The byte after the opcode is padding and is skipped.
func (cpu *CPU) brk(inst *Instruction, addr uint16) {
	cpu.Reg.PC++
	cpu.handleInterrupt(true, vectorBRK)
}

// Branch if oVerflow Clear
func (cpu *CPU) bvc(inst *Instruction, addr uint16) {
	if !cpu.Reg.Overflow {
		cpu.branch(addr)
	}
}

// Branch if oVerflow Set
func (cpu *CPU) bvs(inst *Instruction, addr uint16) {
	if cpu.Reg.Overflow {
		cpu.branch(addr)
	}
}

// Clear Carry flag
func (cpu *CPU) clc(inst *Instruction, addr uint16) {
	cpu.Reg.Carry = false
}

// Clear Decimal flag
func (cpu *CPU) cld(inst *Instruction, addr uint16) {
	cpu.Reg.Decimal = false
}

// Clear InterruptDisable flag
func (cpu *CPU) cli(inst *Instruction, addr uint16) {
	cpu.Reg.InterruptDisable = false
}

// Clear oVerflow flag
func (cpu *CPU) clv(inst *Instruction, addr uint16) {
	cpu.Reg.Overflow = false
}

// Compare to accumulator
func (cpu *CPU) cmp(inst *Instruction, addr uint16) {
	cpu.compare(cpu.Reg.A, cpu.load(inst, addr))
}

// Compare to X register
func (cpu *CPU) cpx(inst *Instruction, addr uint16) {
	cpu.compare(cpu.Reg.X, cpu.load(inst, addr))
}

// Compare to Y register
func (cpu *CPU) cpy(inst *Instruction, addr uint16) {
	cpu.compare(cpu.Reg.Y, cpu.load(inst, addr))
}

// Decrement memory value
func (cpu *CPU) dec(inst *Instruction, addr uint16) {
	v := cpu.loadModify(inst, addr) - 1
	cpu.Reg.SetZeroNegative(v)
	cpu.store(inst, addr, v)
}

// Decrement X register
func (cpu *CPU) dex(inst *Instruction, addr uint16) {
	cpu.Reg.X--
	cpu.Reg.SetZeroNegative(cpu.Reg.X)
}

// Decrement Y register
func (cpu *CPU) dey(inst *Instruction, addr uint16) {
	cpu.Reg.Y--
	cpu.Reg.SetZeroNegative(cpu.Reg.Y)
}

// Boolean XOR
func (cpu *CPU) eor(inst *Instruction, addr uint16) {
	cpu.Reg.A ^= cpu.load(inst, addr)
	cpu.Reg.SetZeroNegative(cpu.Reg.A)
}

// Increment memory value
func (cpu *CPU) inc(inst *Instruction, addr uint16) {
	v := cpu.loadModify(inst, addr) + 1
	cpu.Reg.SetZeroNegative(v)
	cpu.store(inst, addr, v)
}

// Increment X register
func (cpu *CPU) inx(inst *Instruction, addr uint16) {
	cpu.Reg.X++
	cpu.Reg.SetZeroNegative(cpu.Reg.X)
}

// Increment Y register
func (cpu *CPU) iny(inst *Instruction, addr uint16) {
	cpu.Reg.Y++
	cpu.Reg.SetZeroNegative(cpu.Reg.Y)
}

// Jump to memory address
func (cpu *CPU) jmp(inst *Instruction, addr uint16) {
	cpu.Reg.PC = addr
}

// Jump to subroutine. The return address pushed is the address of the
// instruction's last byte; the high operand byte is read after the push.
func (cpu *CPU) jsr(inst *Instruction, addr uint16) {
	lo := cpu.fetch()
	cpu.peekStack()
	cpu.pushAddress(cpu.Reg.PC)
	hi := cpu.Mem.LoadByte(cpu.Reg.PC)
	cpu.Reg.PC = uint16(lo) | uint16(hi)<<8
}

// load Accumulator
func (cpu *CPU) lda(inst *Instruction, addr uint16) {
	cpu.Reg.A = cpu.load(inst, addr)
	cpu.Reg.SetZeroNegative(cpu.Reg.A)
}

// load the X register
func (cpu *CPU) ldx(inst *Instruction, addr uint16) {
	cpu.Reg.X = cpu.load(inst, addr)
	cpu.Reg.SetZeroNegative(cpu.Reg.X)
}

// load the Y register
func (cpu *CPU) ldy(inst *Instruction, addr uint16) {
	cpu.Reg.Y = cpu.load(inst, addr)
	cpu.Reg.SetZeroNegative(cpu.Reg.Y)
}

// Logical Shift Right
func (cpu *CPU) lsr(inst *Instruction, addr uint16) {
	v := cpu.loadModify(inst, addr)
	cpu.store(inst, addr, cpu.shiftRight(v))
}

// No-operation. Variants with a memory operand still read it.
func (cpu *CPU) nop(inst *Instruction, addr uint16) {
	if inst.Mode != IMP {
		cpu.Mem.LoadByte(addr)
	}
}

// Boolean OR
func (cpu *CPU) ora(inst *Instruction, addr uint16) {
	cpu.Reg.A |= cpu.load(inst, addr)
	cpu.Reg.SetZeroNegative(cpu.Reg.A)
}

// Push Accumulator
func (cpu *CPU) pha(inst *Instruction, addr uint16) {
	cpu.push(cpu.Reg.A)
}

// Push Processor flags
func (cpu *CPU) php(inst *Instruction, addr uint16) {
	cpu.push(cpu.Reg.Pack(true))
}

// Pull (pop) Accumulator
func (cpu *CPU) pla(inst *Instruction, addr uint16) {
	cpu.peekStack()
	cpu.Reg.A = cpu.pop()
	cpu.Reg.SetZeroNegative(cpu.Reg.A)
}

// Pull (pop) Processor flags
func (cpu *CPU) plp(inst *Instruction, addr uint16) {
	cpu.peekStack()
	cpu.Reg.Unpack(cpu.pop())
}

// Rotate Left
func (cpu *CPU) rol(inst *Instruction, addr uint16) {
	v := cpu.loadModify(inst, addr)
	cpu.store(inst, addr, cpu.rotateLeft(v))
}

// Rotate Right
func (cpu *CPU) ror(inst *Instruction, addr uint16) {
	v := cpu.loadModify(inst, addr)
	cpu.store(inst, addr, cpu.rotateRight(v))
}

// Return from Interrupt
func (cpu *CPU) rti(inst *Instruction, addr uint16) {
	cpu.peekStack()
	cpu.Reg.Unpack(cpu.pop())
	cpu.Reg.PC = cpu.popAddress()
}

// Return from Subroutine
func (cpu *CPU) rts(inst *Instruction, addr uint16) {
	cpu.peekStack()
	ret := cpu.popAddress()
	cpu.Mem.LoadByte(ret)
	cpu.Reg.PC = ret + 1
}

// Subtract with Carry
func (cpu *CPU) sbc(inst *Instruction, addr uint16) {
	cpu.subtractWithCarry(cpu.load(inst, addr))
}

// Set Carry flag
func (cpu *CPU) sec(inst *Instruction, addr uint16) {
	cpu.Reg.Carry = true
}

// Set Decimal flag
func (cpu *CPU) sed(inst *Instruction, addr uint16) {
	cpu.Reg.Decimal = true
}

// Set InterruptDisable flag
func (cpu *CPU) sei(inst *Instruction, addr uint16) {
	cpu.Reg.InterruptDisable = true
}

// Store Accumulator
func (cpu *CPU) sta(inst *Instruction, addr uint16) {
	cpu.store(inst, addr, cpu.Reg.A)
}

// Store X register
func (cpu *CPU) stx(inst *Instruction, addr uint16) {
	cpu.store(inst, addr, cpu.Reg.X)
}

// Store Y register
func (cpu *CPU) sty(inst *Instruction, addr uint16) {
	cpu.store(inst, addr, cpu.Reg.Y)
}

// Transfer Accumulator to X register
func (cpu *CPU) tax(inst *Instruction, addr uint16) {
	cpu.Reg.X = cpu.Reg.A
	cpu.Reg.SetZeroNegative(cpu.Reg.X)
}

// Transfer Accumulator to Y register
func (cpu *CPU) tay(inst *Instruction, addr uint16) {
	cpu.Reg.Y = cpu.Reg.A
	cpu.Reg.SetZeroNegative(cpu.Reg.Y)
}

// Transfer stack pointer to X register
func (cpu *CPU) tsx(inst *Instruction, addr uint16) {
	cpu.Reg.X = cpu.Reg.SP
	cpu.Reg.SetZeroNegative(cpu.Reg.X)
}

// Transfer X register to Accumulator
func (cpu *CPU) txa(inst *Instruction, addr uint16) {
	cpu.Reg.A = cpu.Reg.X
	cpu.Reg.SetZeroNegative(cpu.Reg.A)
}

// Transfer X register to the stack pointer
func (cpu *CPU) txs(inst *Instruction, addr uint16) {
	cpu.Reg.SP = cpu.Reg.X
}

// Transfer Y register to the Accumulator
func (cpu *CPU) tya(inst *Instruction, addr uint16) {
	cpu.Reg.A = cpu.Reg.Y
	cpu.Reg.SetZeroNegative(cpu.Reg.A)
}
