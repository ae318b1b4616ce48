// Copyright 2014 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package disasm implements a 6502 instruction set
// disassembler.
package disasm

import (
	"fmt"
	"strings"

	"github.com/beevik/nes6502/cpu"
)

// Disassembler formatting for addressing modes
var modeFormat = []string{
	"#$%s",    // IMM
	"%s",      // IMP
	"$%s",     // REL
	"$%s",     // ZPG
	"$%s,X",   // ZPX
	"$%s,Y",   // ZPY
	"$%s",     // ABS
	"$%s,X",   // ABX
	"$%s,Y",   // ABY
	"($%s)",   // IND
	"($%s,X)", // IDX
	"($%s),Y", // IDY
	"A%s",     // ACC
}

var hex = "0123456789ABCDEF"

// Return a hexadecimal string representation of the little-endian byte
// slice, most significant byte first.
func hexString(b []byte) string {
	hexlen := len(b) * 2
	hexbuf := make([]byte, hexlen)
	j := hexlen - 1
	for _, n := range b {
		hexbuf[j] = hex[n&0xf]
		hexbuf[j-1] = hex[n>>4]
		j -= 2
	}
	return string(hexbuf)
}

// Disassemble the machine code in memory 'm' at address 'addr'. Return a
// 'line' string representing the disassembled instruction and a 'next'
// address that starts the following line of machine code. Undocumented
// opcodes are prefixed with '*'. Branch targets are shown as absolute
// addresses.
func Disassemble(m cpu.Memory, set *cpu.InstructionSet, addr uint16) (line string, next uint16) {
	inst := set.Lookup(m.LoadByte(addr))
	operand := GetCode(m, addr, inst)[1:]
	if inst.Mode == cpu.REL {
		braddr := addr + uint16(inst.Length) + uint16(int8(operand[0]))
		operand = []byte{byte(braddr), byte(braddr >> 8)}
	}

	name := inst.Name
	if inst.Illegal {
		name = "*" + name
	}
	line = strings.TrimRight(fmt.Sprintf("%s "+modeFormat[inst.Mode], name, hexString(operand)), " ")
	next = addr + uint16(inst.Length)
	return line, next
}

// GetCode returns the machine code bytes of the instruction at 'addr'.
func GetCode(m cpu.Memory, addr uint16, inst *cpu.Instruction) []byte {
	b := make([]byte, inst.Length)
	for i := range b {
		b[i] = m.LoadByte(addr + uint16(i))
	}
	return b
}

// GetRegisterString returns a one-line summary of the CPU registers.
func GetRegisterString(r *cpu.Registers) string {
	return fmt.Sprintf("A=%02X X=%02X Y=%02X PS=[%s] SP=%02X PC=%04X",
		r.A, r.X, r.Y, GetStatusString(r.Pack(false)), r.SP, r.PC)
}

// GetStatusString returns the packed status byte as flag letters, with
// '-' for each clear flag.
func GetStatusString(ps byte) string {
	const flags = "NV1BDIZC"
	b := []byte("--------")
	for i := 0; i < 8; i++ {
		if ps&(0x80>>i) != 0 {
			b[i] = flags[i]
		}
	}
	return string(b)
}
