// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cpu implements the NMOS 6502 instruction set and an emulator for
// it, including the Ricoh 2A03 variant used by the NES.
//
// The emulator executes one instruction per call to Step and reports the
// number of cycles consumed, so that an external scheduler can keep video
// and audio emulation in lockstep. All memory traffic goes through the
// Memory interface in the same order and count as on real hardware.
package cpu

// Architecture selects the CPU chip.
type Architecture byte

const (
	// NMOS 6502 CPU with binary-coded decimal arithmetic
	NMOS Architecture = iota

	// Ricoh 2A03 (NES) CPU, an NMOS 6502 with decimal mode disabled
	Ricoh2A03
)

// CPU represents a single 6502 CPU. It contains a handle to the memory
// associated with the CPU, but never owns it.
type CPU struct {
	Arch        Architecture    // CPU architecture
	Reg         Registers       // CPU registers
	Mem         Memory          // assigned memory
	Cycles      uint64          // total executed CPU cycles
	LastPC      uint16          // Previous program counter
	InstSet     *InstructionSet // Instruction set used by the CPU
	pageCrossed bool
	deltaCycles int8
	nmiPending  bool
	irqLine     bool
	jammed      bool
	debugger    *Debugger
	storeByte   func(cpu *CPU, addr uint16, v byte)
}

// Interrupt vectors
const (
	vectorNMI   = 0xfffa
	vectorReset = 0xfffc
	vectorIRQ   = 0xfffe
	vectorBRK   = 0xfffe
)

// Cycles consumed by an interrupt or reset sequence.
const interruptCycles = 7

// NewCPU creates an emulated 6502 CPU bound to the specified memory. The
// registers hold their power-on values; call Reset to load the program
// counter from the reset vector.
func NewCPU(arch Architecture, m Memory) *CPU {
	cpu := &CPU{
		Arch:      arch,
		Mem:       m,
		InstSet:   GetInstructionSet(),
		storeByte: (*CPU).storeByteNormal,
	}

	cpu.Reg.Init()
	return cpu
}

// SetPC updates the CPU program counter to 'addr'.
func (cpu *CPU) SetPC(addr uint16) {
	cpu.Reg.PC = addr
}

// GetInstruction returns the instruction opcode at the requested address.
func (cpu *CPU) GetInstruction(addr uint16) *Instruction {
	opcode := cpu.Mem.LoadByte(addr)
	return cpu.InstSet.Lookup(opcode)
}

// NextAddr returns the address of the next instruction following the
// instruction at addr.
func (cpu *CPU) NextAddr(addr uint16) uint16 {
	opcode := cpu.Mem.LoadByte(addr)
	inst := cpu.InstSet.Lookup(opcode)
	return addr + uint16(inst.Length)
}

// Jammed reports whether the CPU executed a JAM opcode. A jammed CPU
// ignores interrupts and makes no progress until Reset.
func (cpu *CPU) Jammed() bool {
	return cpu.jammed
}

// RequestNMI latches a non-maskable interrupt. It is serviced at the start
// of the next Step, exactly once.
func (cpu *CPU) RequestNMI() {
	cpu.nmiPending = true
}

// SetIRQ sets or clears the maskable interrupt request line. While the line
// is active, an IRQ is serviced at every instruction boundary where the
// interrupt disable flag is clear.
func (cpu *CPU) SetIRQ(active bool) {
	cpu.irqLine = active
}

// Step the cpu by one instruction and return the number of cycles it
// consumed. Pending interrupts are polled before the opcode fetch; if one
// is serviced, the step consists of the interrupt sequence alone.
func (cpu *CPU) Step() int {
	if cpu.jammed {
		cpu.Cycles++
		return 1
	}

	switch {
	case cpu.nmiPending:
		cpu.nmiPending = false
		return cpu.interrupt(vectorNMI)
	case cpu.irqLine && !cpu.Reg.InterruptDisable:
		return cpu.interrupt(vectorIRQ)
	}

	// Grab the next opcode at the current PC and look up its instruction.
	cpu.LastPC = cpu.Reg.PC
	opcode := cpu.fetch()
	inst := cpu.InstSet.Lookup(opcode)

	// Resolve the operand and execute the instruction.
	cpu.pageCrossed = false
	cpu.deltaCycles = 0
	addr := cpu.resolve(inst)
	inst.fn(cpu, inst, addr)

	// Count cycles, with special-case logic to handle a page boundary
	// crossing.
	cycles := int(inst.Cycles) + int(cpu.deltaCycles)
	if cpu.pageCrossed {
		cycles += int(inst.BPCycles)
	}
	cpu.Cycles += uint64(cycles)

	// Update the debugger so it handle breakpoints.
	if cpu.debugger != nil {
		cpu.debugger.onUpdatePC(cpu, cpu.Reg.PC)
	}
	return cycles
}

// Reset runs the reset sequence and returns the cycles it consumed. The
// stack pointer moves down three bytes without any stack writes, the
// interrupt disable flag is set, and the program counter is loaded from
// the reset vector.
func (cpu *CPU) Reset() int {
	cpu.Mem.LoadByte(cpu.Reg.PC)
	cpu.Mem.LoadByte(cpu.Reg.PC)
	for i := 0; i < 3; i++ {
		cpu.Mem.LoadByte(stackAddress(cpu.Reg.SP))
		cpu.Reg.SP--
	}

	cpu.Reg.InterruptDisable = true
	cpu.Reg.PC = cpu.Mem.LoadAddress(vectorReset)

	cpu.nmiPending = false
	cpu.jammed = false
	cpu.Cycles += interruptCycles

	if cpu.debugger != nil {
		cpu.debugger.onUpdatePC(cpu, cpu.Reg.PC)
	}
	return interruptCycles
}

// AttachDebugger attaches a debugger to the CPU. The debugger receives
// notifications whenever the CPU executes an instruction or stores a byte
// to memory.
func (cpu *CPU) AttachDebugger(debugger *Debugger) {
	cpu.debugger = debugger
	cpu.storeByte = (*CPU).storeByteDebugger
}

// DetachDebugger detaches the currently debugger from the CPU.
func (cpu *CPU) DetachDebugger() {
	cpu.debugger = nil
	cpu.storeByte = (*CPU).storeByteNormal
}

// Service a hardware interrupt: two discarded reads of the next opcode,
// then the same push-and-vector sequence as BRK with the break bit clear.
func (cpu *CPU) interrupt(vector uint16) int {
	cpu.LastPC = cpu.Reg.PC
	cpu.Mem.LoadByte(cpu.Reg.PC)
	cpu.Mem.LoadByte(cpu.Reg.PC)
	cpu.handleInterrupt(false, vector)
	cpu.Cycles += interruptCycles

	if cpu.debugger != nil {
		cpu.debugger.onUpdatePC(cpu, cpu.Reg.PC)
	}
	return interruptCycles
}

// Handle an interrupt by storing the program counter and status flags on
// the stack. Then switch the program counter to the requested address.
func (cpu *CPU) handleInterrupt(brk bool, addr uint16) {
	cpu.pushAddress(cpu.Reg.PC)
	cpu.push(cpu.Reg.Pack(brk))
	cpu.Reg.InterruptDisable = true
	cpu.Reg.PC = cpu.Mem.LoadAddress(addr)
}

// Load the operand value for a read instruction.
func (cpu *CPU) load(inst *Instruction, addr uint16) byte {
	if inst.Mode == ACC {
		return cpu.Reg.A
	}
	return cpu.Mem.LoadByte(addr)
}

// Read the operand of a read-modify-write instruction. The unmodified value
// is written back before the instruction's result, as on the NMOS 6502.
func (cpu *CPU) loadModify(inst *Instruction, addr uint16) byte {
	if inst.Mode == ACC {
		return cpu.Reg.A
	}
	v := cpu.Mem.LoadByte(addr)
	cpu.storeByte(cpu, addr, v)
	return v
}

// Store the result of an instruction.
func (cpu *CPU) store(inst *Instruction, addr uint16, v byte) {
	if inst.Mode == ACC {
		cpu.Reg.A = v
		return
	}
	cpu.storeByte(cpu, addr, v)
}

// Take a branch to 'target'. A taken branch costs one extra cycle, and one
// more if the target lies on a different page.
func (cpu *CPU) branch(target uint16) {
	cpu.Mem.LoadByte(cpu.Reg.PC)
	cpu.deltaCycles++
	if ((cpu.Reg.PC ^ target) & 0xff00) != 0 {
		cpu.Mem.LoadByte(cpu.Reg.PC&0xff00 | target&0x00ff)
		cpu.deltaCycles++
	}
	cpu.Reg.PC = target
}

// Store the byte value 'v' add the address 'addr'.
func (cpu *CPU) storeByteNormal(addr uint16, v byte) {
	cpu.Mem.StoreByte(addr, v)
}

// Store the byte value 'v' add the address 'addr'.
func (cpu *CPU) storeByteDebugger(addr uint16, v byte) {
	cpu.debugger.onDataStore(cpu, addr, v)
	cpu.Mem.StoreByte(addr, v)
}

// Push a value 'v' onto the stack. The stack pointer wraps from $00 to $FF.
func (cpu *CPU) push(v byte) {
	cpu.storeByte(cpu, stackAddress(cpu.Reg.SP), v)
	if cpu.debugger != nil && cpu.Reg.SP == 0x00 {
		cpu.debugger.onStackWrap(cpu, true)
	}
	cpu.Reg.SP--
}

// Push the address 'addr' onto the stack.
func (cpu *CPU) pushAddress(addr uint16) {
	cpu.push(byte(addr >> 8))
	cpu.push(byte(addr))
}

// Pop a value from the stack and return it. The stack pointer wraps from
// $FF to $00.
func (cpu *CPU) pop() byte {
	if cpu.debugger != nil && cpu.Reg.SP == 0xff {
		cpu.debugger.onStackWrap(cpu, false)
	}
	cpu.Reg.SP++
	return cpu.Mem.LoadByte(stackAddress(cpu.Reg.SP))
}

// Pop a 16-bit address off the stack.
func (cpu *CPU) popAddress() uint16 {
	lo := cpu.pop()
	hi := cpu.pop()
	return uint16(lo) | (uint16(hi) << 8)
}

// Read the byte at the top of the stack without popping it. Stack pulls
// spend a cycle on this read before incrementing the stack pointer.
func (cpu *CPU) peekStack() {
	cpu.Mem.LoadByte(stackAddress(cpu.Reg.SP))
}
