// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// Status holds the processor status flags. The break flag is not part of
// the live status; it only exists in the byte pushed to the stack by BRK
// and PHP.
type Status struct {
	Carry            bool // C
	Zero             bool // Z
	InterruptDisable bool // I
	Decimal          bool // D
	Overflow         bool // V
	Negative         bool // N
}

// Registers contains the state of all 6502 registers.
type Registers struct {
	A      byte   // accumulator
	X      byte   // X indexing register
	Y      byte   // Y indexing register
	SP     byte   // stack pointer ($100 + SP = stack memory location)
	PC     uint16 // program counter
	Status        // processor status flags
}

// Bits assigned to the processor status byte
const (
	CarryBit            = 1 << 0
	ZeroBit             = 1 << 1
	InterruptDisableBit = 1 << 2
	DecimalBit          = 1 << 3
	BreakBit            = 1 << 4
	ReservedBit         = 1 << 5
	OverflowBit         = 1 << 6
	NegativeBit         = 1 << 7
)

// Pack returns the processor status as a byte. The reserved bit is always
// set. The break bit is set only if requested.
func (s *Status) Pack(brk bool) byte {
	var ps byte = ReservedBit
	if s.Carry {
		ps |= CarryBit
	}
	if s.Zero {
		ps |= ZeroBit
	}
	if s.InterruptDisable {
		ps |= InterruptDisableBit
	}
	if s.Decimal {
		ps |= DecimalBit
	}
	if brk {
		ps |= BreakBit
	}
	if s.Overflow {
		ps |= OverflowBit
	}
	if s.Negative {
		ps |= NegativeBit
	}
	return ps
}

// Unpack restores the processor status from a byte. The break and reserved
// bits are ignored.
func (s *Status) Unpack(ps byte) {
	s.Carry = (ps & CarryBit) != 0
	s.Zero = (ps & ZeroBit) != 0
	s.InterruptDisable = (ps & InterruptDisableBit) != 0
	s.Decimal = (ps & DecimalBit) != 0
	s.Overflow = (ps & OverflowBit) != 0
	s.Negative = (ps & NegativeBit) != 0
}

// SetZeroNegative updates the Zero and Negative flags based on the value
// of 'v'.
func (s *Status) SetZeroNegative(v byte) {
	s.Zero = (v == 0)
	s.Negative = (v & 0x80) != 0
}

func boolToByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}

// Init initializes all registers to their power-on values. A, X, Y = 0.
// SP = $FD. PC = 0. Only the interrupt disable flag is set.
func (r *Registers) Init() {
	r.A = 0
	r.X = 0
	r.Y = 0
	r.SP = 0xfd
	r.PC = 0
	r.Unpack(InterruptDisableBit)
}
