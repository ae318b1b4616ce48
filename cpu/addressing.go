// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// resolve consumes the instruction's operand bytes at the program counter
// and returns the effective address for the instruction's addressing mode.
// For REL it returns the branch target; for IMM the address of the operand
// byte itself. It issues the same bus reads as the NMOS 6502, including
// dummy reads, and records page crossings in cpu.pageCrossed.
func (cpu *CPU) resolve(inst *Instruction) uint16 {
	switch inst.Mode {
	case IMP, ACC:
		// The byte following the opcode is read and discarded.
		cpu.Mem.LoadByte(cpu.Reg.PC)
		return 0

	case IMM:
		addr := cpu.Reg.PC
		cpu.Reg.PC++
		return addr

	case ZPG:
		return uint16(cpu.fetch())

	case ZPX:
		zp := cpu.fetch()
		cpu.Mem.LoadByte(uint16(zp))
		return offsetZeroPage(zp, cpu.Reg.X)

	case ZPY:
		zp := cpu.fetch()
		cpu.Mem.LoadByte(uint16(zp))
		return offsetZeroPage(zp, cpu.Reg.Y)

	case ABS:
		if inst.access == accCall {
			return 0
		}
		return cpu.fetchAddress()

	case ABX:
		return cpu.indexed(cpu.fetchAddress(), cpu.Reg.X, inst.access)

	case ABY:
		return cpu.indexed(cpu.fetchAddress(), cpu.Reg.Y, inst.access)

	case IND:
		// The high byte of the target is fetched without carrying into
		// the pointer's high byte: JMP ($12FF) reads $12FF and $1200.
		ptr := cpu.fetchAddress()
		lo := cpu.Mem.LoadByte(ptr)
		hi := cpu.Mem.LoadByte(pageWrapped(ptr))
		return uint16(lo) | uint16(hi)<<8

	case IDX:
		zp := cpu.fetch()
		cpu.Mem.LoadByte(uint16(zp))
		return cpu.loadZeroPageAddress(zp + cpu.Reg.X)

	case IDY:
		zp := cpu.fetch()
		return cpu.indexed(cpu.loadZeroPageAddress(zp), cpu.Reg.Y, inst.access)

	case REL:
		offset := cpu.fetch()
		return cpu.Reg.PC + uint16(int8(offset))

	default:
		panic("Invalid addressing mode")
	}
}

// Fetch the byte at the program counter and advance it.
func (cpu *CPU) fetch() byte {
	v := cpu.Mem.LoadByte(cpu.Reg.PC)
	cpu.Reg.PC++
	return v
}

// Fetch a 16-bit operand at the program counter and advance past it.
func (cpu *CPU) fetchAddress() uint16 {
	addr := cpu.Mem.LoadAddress(cpu.Reg.PC)
	cpu.Reg.PC += 2
	return addr
}

// Load a 16-bit pointer from the zero page. The pointer's high byte wraps
// to $00 when the low byte is at $FF.
func (cpu *CPU) loadZeroPageAddress(zp byte) uint16 {
	lo := cpu.Mem.LoadByte(uint16(zp))
	hi := cpu.Mem.LoadByte(uint16(zp + 1))
	return uint16(lo) | uint16(hi)<<8
}

// Index the base address. The hardware adds the index to the low byte first
// and reads from that not-yet-carried address. Reads only pay for that
// extra bus cycle when a page is crossed; writes and read-modify-writes
// always perform it.
func (cpu *CPU) indexed(base uint16, index byte, acc access) uint16 {
	addr, crossed := offsetAddress(base, index)
	if crossed || acc == accWrite || acc == accRMW {
		cpu.Mem.LoadByte(base&0xff00 | addr&0x00ff)
	}
	cpu.pageCrossed = crossed
	return addr
}

// Return the offset address 'addr' + 'offset'. If the offset
// crossed a page boundary, return 'pageCrossed' as true.
func offsetAddress(addr uint16, offset byte) (newAddr uint16, pageCrossed bool) {
	newAddr = addr + uint16(offset)
	pageCrossed = ((newAddr & 0xff00) != (addr & 0xff00))
	return newAddr, pageCrossed
}

// Offset a zero-page address 'addr' by 'offset', wrapping within the
// zero page.
func offsetZeroPage(addr byte, offset byte) uint16 {
	return uint16(addr + offset)
}

// Return the address following 'addr' without carrying into the high byte.
func pageWrapped(addr uint16) uint16 {
	return addr&0xff00 | uint16(byte(addr)+1)
}

// Given a 1-byte stack pointer register, return the stack
// corresponding memory address.
func stackAddress(offset byte) uint16 {
	return uint16(0x100) + uint16(offset)
}
