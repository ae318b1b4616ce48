// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// Undocumented NMOS opcodes. Most combine a read-modify-write with an ALU
// operation on the accumulator. The "unstable" opcodes (XAA, LXA, SHA,
// SHX, SHY, TAS) use the behavior commonly observed on NES consoles.

// Magic constant ORed into the accumulator by XAA and LXA.
const unstableMagic = 0xff

// AND immediate, then shift the accumulator right
func (cpu *CPU) alr(inst *Instruction, addr uint16) {
	cpu.Reg.A = cpu.shiftRight(cpu.Reg.A & cpu.load(inst, addr))
}

// AND immediate, copying the negative flag into carry
func (cpu *CPU) anc(inst *Instruction, addr uint16) {
	cpu.Reg.A &= cpu.load(inst, addr)
	cpu.Reg.SetZeroNegative(cpu.Reg.A)
	cpu.Reg.Carry = cpu.Reg.Negative
}

// AND immediate, then rotate the accumulator right. Carry and overflow
// come from bits 6 and 5 of the result.
func (cpu *CPU) arr(inst *Instruction, addr uint16) {
	v := cpu.Reg.A & cpu.load(inst, addr)
	r := (v >> 1) | (boolToByte(cpu.Reg.Carry) << 7)
	cpu.Reg.A = r
	cpu.Reg.SetZeroNegative(r)
	cpu.Reg.Carry = (r & 0x40) != 0
	cpu.Reg.Overflow = ((r>>6)^(r>>5))&1 != 0
}

// X = (A AND X) - immediate, without borrow
func (cpu *CPU) axs(inst *Instruction, addr uint16) {
	v := cpu.load(inst, addr)
	ax := cpu.Reg.A & cpu.Reg.X
	cpu.Reg.Carry = (ax >= v)
	cpu.Reg.X = ax - v
	cpu.Reg.SetZeroNegative(cpu.Reg.X)
}

// Decrement memory, then compare with the accumulator
func (cpu *CPU) dcp(inst *Instruction, addr uint16) {
	v := cpu.loadModify(inst, addr) - 1
	cpu.store(inst, addr, v)
	cpu.compare(cpu.Reg.A, v)
}

// Increment memory, then subtract it from the accumulator
func (cpu *CPU) isc(inst *Instruction, addr uint16) {
	v := cpu.loadModify(inst, addr) + 1
	cpu.store(inst, addr, v)
	cpu.subtractWithCarry(v)
}

// Halt the processor. The program counter stays on the opcode until reset.
func (cpu *CPU) jam(inst *Instruction, addr uint16) {
	cpu.jammed = true
	cpu.Reg.PC = cpu.LastPC
}

// A = X = SP = memory AND SP
func (cpu *CPU) las(inst *Instruction, addr uint16) {
	v := cpu.load(inst, addr) & cpu.Reg.SP
	cpu.Reg.A, cpu.Reg.X, cpu.Reg.SP = v, v, v
	cpu.Reg.SetZeroNegative(v)
}

// Load accumulator and X register
func (cpu *CPU) lax(inst *Instruction, addr uint16) {
	v := cpu.load(inst, addr)
	cpu.Reg.A, cpu.Reg.X = v, v
	cpu.Reg.SetZeroNegative(v)
}

// Load accumulator and X register from (A OR magic) AND immediate
func (cpu *CPU) lxa(inst *Instruction, addr uint16) {
	v := (cpu.Reg.A | unstableMagic) & cpu.load(inst, addr)
	cpu.Reg.A, cpu.Reg.X = v, v
	cpu.Reg.SetZeroNegative(v)
}

// Rotate memory left, then AND it into the accumulator
func (cpu *CPU) rla(inst *Instruction, addr uint16) {
	v := cpu.rotateLeft(cpu.loadModify(inst, addr))
	cpu.store(inst, addr, v)
	cpu.Reg.A &= v
	cpu.Reg.SetZeroNegative(cpu.Reg.A)
}

// Rotate memory right, then add it to the accumulator
func (cpu *CPU) rra(inst *Instruction, addr uint16) {
	v := cpu.rotateRight(cpu.loadModify(inst, addr))
	cpu.store(inst, addr, v)
	cpu.addWithCarry(v)
}

// Store A AND X
func (cpu *CPU) sax(inst *Instruction, addr uint16) {
	cpu.store(inst, addr, cpu.Reg.A&cpu.Reg.X)
}

// Store A AND X AND (high byte of base address + 1)
func (cpu *CPU) sha(inst *Instruction, addr uint16) {
	cpu.storeHigh(addr, cpu.Reg.Y, cpu.Reg.A&cpu.Reg.X)
}

// Store X AND (high byte of base address + 1)
func (cpu *CPU) shx(inst *Instruction, addr uint16) {
	cpu.storeHigh(addr, cpu.Reg.Y, cpu.Reg.X)
}

// Store Y AND (high byte of base address + 1)
func (cpu *CPU) shy(inst *Instruction, addr uint16) {
	cpu.storeHigh(addr, cpu.Reg.X, cpu.Reg.Y)
}

// Shift memory left, then OR it into the accumulator
func (cpu *CPU) slo(inst *Instruction, addr uint16) {
	v := cpu.shiftLeft(cpu.loadModify(inst, addr))
	cpu.store(inst, addr, v)
	cpu.Reg.A |= v
	cpu.Reg.SetZeroNegative(cpu.Reg.A)
}

// Shift memory right, then XOR it into the accumulator
func (cpu *CPU) sre(inst *Instruction, addr uint16) {
	v := cpu.shiftRight(cpu.loadModify(inst, addr))
	cpu.store(inst, addr, v)
	cpu.Reg.A ^= v
	cpu.Reg.SetZeroNegative(cpu.Reg.A)
}

// SP = A AND X, then store SP AND (high byte of base address + 1)
func (cpu *CPU) tas(inst *Instruction, addr uint16) {
	cpu.Reg.SP = cpu.Reg.A & cpu.Reg.X
	cpu.storeHigh(addr, cpu.Reg.Y, cpu.Reg.SP)
}

// A = (A OR magic) AND X AND immediate
func (cpu *CPU) xaa(inst *Instruction, addr uint16) {
	cpu.Reg.A = (cpu.Reg.A | unstableMagic) & cpu.Reg.X & cpu.load(inst, addr)
	cpu.Reg.SetZeroNegative(cpu.Reg.A)
}

// Store 'v' ANDed with the incremented high byte of the unindexed base
// address. When indexing crossed a page, the stored value also replaces
// the high byte of the target address.
func (cpu *CPU) storeHigh(addr uint16, index byte, v byte) {
	base := addr - uint16(index)
	v &= byte(base>>8) + 1
	if cpu.pageCrossed {
		addr = uint16(v)<<8 | addr&0x00ff
	}
	cpu.storeByte(cpu, addr, v)
}
