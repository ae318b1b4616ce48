// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// State is a copy of everything that determines a CPU's future behavior
// apart from its memory. Restoring a State resumes execution exactly where
// the snapshot was taken.
type State struct {
	A, X, Y    byte
	SP         byte
	PC         uint16
	P          byte // packed status flags, break bit clear
	Cycles     uint64
	NMIPending bool
	IRQLine    bool
	Jammed     bool
}

// Snapshot captures the CPU's registers, flags, cycle counter and
// interrupt state.
func (cpu *CPU) Snapshot() State {
	return State{
		A:          cpu.Reg.A,
		X:          cpu.Reg.X,
		Y:          cpu.Reg.Y,
		SP:         cpu.Reg.SP,
		PC:         cpu.Reg.PC,
		P:          cpu.Reg.Pack(false),
		Cycles:     cpu.Cycles,
		NMIPending: cpu.nmiPending,
		IRQLine:    cpu.irqLine,
		Jammed:     cpu.jammed,
	}
}

// Restore loads a previously captured state into the CPU.
func (cpu *CPU) Restore(s State) {
	cpu.Reg.A = s.A
	cpu.Reg.X = s.X
	cpu.Reg.Y = s.Y
	cpu.Reg.SP = s.SP
	cpu.Reg.PC = s.PC
	cpu.Reg.Unpack(s.P)
	cpu.Cycles = s.Cycles
	cpu.nmiPending = s.NMIPending
	cpu.irqLine = s.IRQLine
	cpu.jammed = s.Jammed
}
