// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/beevik/nes6502/cpu"
)

func TestUndocumentedOpcodes(t *testing.T) {
	tests := []struct {
		name  string
		code  []byte
		setup func(c *cpu.CPU, m *cpu.FlatMemory)
		check func(t *testing.T, c *cpu.CPU, m *cpu.FlatMemory)
	}{
		{
			name: "LAX zp",
			code: []byte{0xa7, 0x10},
			setup: func(c *cpu.CPU, m *cpu.FlatMemory) {
				m.StoreByte(0x10, 0x85)
			},
			check: func(t *testing.T, c *cpu.CPU, m *cpu.FlatMemory) {
				assert.Equal(t, byte(0x85), c.Reg.A)
				assert.Equal(t, byte(0x85), c.Reg.X)
				assert.True(t, c.Reg.Negative)
			},
		},
		{
			name: "SAX zp",
			code: []byte{0x87, 0x10},
			setup: func(c *cpu.CPU, m *cpu.FlatMemory) {
				c.Reg.A, c.Reg.X = 0xf0, 0x3c
			},
			check: func(t *testing.T, c *cpu.CPU, m *cpu.FlatMemory) {
				assert.Equal(t, byte(0x30), m.LoadByte(0x10))
			},
		},
		{
			name: "DCP zp",
			code: []byte{0xc7, 0x10},
			setup: func(c *cpu.CPU, m *cpu.FlatMemory) {
				m.StoreByte(0x10, 0x43)
				c.Reg.A = 0x42
			},
			check: func(t *testing.T, c *cpu.CPU, m *cpu.FlatMemory) {
				assert.Equal(t, byte(0x42), m.LoadByte(0x10))
				assert.True(t, c.Reg.Zero)
				assert.True(t, c.Reg.Carry)
			},
		},
		{
			name: "ISC zp",
			code: []byte{0xe7, 0x10},
			setup: func(c *cpu.CPU, m *cpu.FlatMemory) {
				m.StoreByte(0x10, 0x0f)
				c.Reg.A = 0x20
				c.Reg.Carry = true
			},
			check: func(t *testing.T, c *cpu.CPU, m *cpu.FlatMemory) {
				assert.Equal(t, byte(0x10), m.LoadByte(0x10))
				assert.Equal(t, byte(0x10), c.Reg.A)
				assert.True(t, c.Reg.Carry)
			},
		},
		{
			name: "SLO zp",
			code: []byte{0x07, 0x10},
			setup: func(c *cpu.CPU, m *cpu.FlatMemory) {
				m.StoreByte(0x10, 0x81)
				c.Reg.A = 0x40
			},
			check: func(t *testing.T, c *cpu.CPU, m *cpu.FlatMemory) {
				assert.Equal(t, byte(0x02), m.LoadByte(0x10))
				assert.Equal(t, byte(0x42), c.Reg.A)
				assert.True(t, c.Reg.Carry)
			},
		},
		{
			name: "RLA zp",
			code: []byte{0x27, 0x10},
			setup: func(c *cpu.CPU, m *cpu.FlatMemory) {
				m.StoreByte(0x10, 0x81)
				c.Reg.A = 0xff
			},
			check: func(t *testing.T, c *cpu.CPU, m *cpu.FlatMemory) {
				assert.Equal(t, byte(0x02), m.LoadByte(0x10))
				assert.Equal(t, byte(0x02), c.Reg.A)
				assert.True(t, c.Reg.Carry)
			},
		},
		{
			name: "SRE zp",
			code: []byte{0x47, 0x10},
			setup: func(c *cpu.CPU, m *cpu.FlatMemory) {
				m.StoreByte(0x10, 0x03)
				c.Reg.A = 0x01
			},
			check: func(t *testing.T, c *cpu.CPU, m *cpu.FlatMemory) {
				assert.Equal(t, byte(0x01), m.LoadByte(0x10))
				assert.Equal(t, byte(0x00), c.Reg.A)
				assert.True(t, c.Reg.Zero)
				assert.True(t, c.Reg.Carry)
			},
		},
		{
			name: "RRA zp",
			code: []byte{0x67, 0x10},
			setup: func(c *cpu.CPU, m *cpu.FlatMemory) {
				m.StoreByte(0x10, 0x02)
				c.Reg.A = 0x10
				c.Reg.Carry = true
			},
			check: func(t *testing.T, c *cpu.CPU, m *cpu.FlatMemory) {
				assert.Equal(t, byte(0x81), m.LoadByte(0x10))
				assert.Equal(t, byte(0x91), c.Reg.A)
				assert.False(t, c.Reg.Carry)
			},
		},
		{
			name: "ANC imm",
			code: []byte{0x0b, 0x80},
			setup: func(c *cpu.CPU, m *cpu.FlatMemory) {
				c.Reg.A = 0xff
			},
			check: func(t *testing.T, c *cpu.CPU, m *cpu.FlatMemory) {
				assert.Equal(t, byte(0x80), c.Reg.A)
				assert.True(t, c.Reg.Negative)
				assert.True(t, c.Reg.Carry)
			},
		},
		{
			name: "ALR imm",
			code: []byte{0x4b, 0x03},
			setup: func(c *cpu.CPU, m *cpu.FlatMemory) {
				c.Reg.A = 0xff
			},
			check: func(t *testing.T, c *cpu.CPU, m *cpu.FlatMemory) {
				assert.Equal(t, byte(0x01), c.Reg.A)
				assert.True(t, c.Reg.Carry)
			},
		},
		{
			name: "ARR imm",
			code: []byte{0x6b, 0xff},
			setup: func(c *cpu.CPU, m *cpu.FlatMemory) {
				c.Reg.A = 0xc0
				c.Reg.Carry = true
			},
			check: func(t *testing.T, c *cpu.CPU, m *cpu.FlatMemory) {
				assert.Equal(t, byte(0xe0), c.Reg.A)
				assert.True(t, c.Reg.Carry)
				assert.False(t, c.Reg.Overflow)
				assert.True(t, c.Reg.Negative)
			},
		},
		{
			name: "AXS imm",
			code: []byte{0xcb, 0x02},
			setup: func(c *cpu.CPU, m *cpu.FlatMemory) {
				c.Reg.A, c.Reg.X = 0x0f, 0x05
			},
			check: func(t *testing.T, c *cpu.CPU, m *cpu.FlatMemory) {
				assert.Equal(t, byte(0x03), c.Reg.X)
				assert.True(t, c.Reg.Carry)
			},
		},
		{
			name: "SBC imm alternate",
			code: []byte{0xeb, 0x01},
			setup: func(c *cpu.CPU, m *cpu.FlatMemory) {
				c.Reg.A = 0x10
				c.Reg.Carry = true
			},
			check: func(t *testing.T, c *cpu.CPU, m *cpu.FlatMemory) {
				assert.Equal(t, byte(0x0f), c.Reg.A)
				assert.True(t, c.Reg.Carry)
			},
		},
		{
			name: "LAS abs,Y",
			code: []byte{0xbb, 0x00, 0x10},
			setup: func(c *cpu.CPU, m *cpu.FlatMemory) {
				m.StoreByte(0x1000, 0xf3)
			},
			check: func(t *testing.T, c *cpu.CPU, m *cpu.FlatMemory) {
				assert.Equal(t, byte(0xf1), c.Reg.A)
				assert.Equal(t, byte(0xf1), c.Reg.X)
				assert.Equal(t, byte(0xf1), c.Reg.SP)
			},
		},
		{
			name: "XAA imm",
			code: []byte{0x8b, 0xff},
			setup: func(c *cpu.CPU, m *cpu.FlatMemory) {
				c.Reg.A, c.Reg.X = 0x00, 0x0f
			},
			check: func(t *testing.T, c *cpu.CPU, m *cpu.FlatMemory) {
				assert.Equal(t, byte(0x0f), c.Reg.A)
			},
		},
		{
			name: "LXA imm",
			code: []byte{0xab, 0x0f},
			check: func(t *testing.T, c *cpu.CPU, m *cpu.FlatMemory) {
				assert.Equal(t, byte(0x0f), c.Reg.A)
				assert.Equal(t, byte(0x0f), c.Reg.X)
			},
		},
		{
			name: "SHX abs,Y",
			code: []byte{0x9e, 0x00, 0x10},
			setup: func(c *cpu.CPU, m *cpu.FlatMemory) {
				c.Reg.X, c.Reg.Y = 0xff, 0x01
			},
			check: func(t *testing.T, c *cpu.CPU, m *cpu.FlatMemory) {
				assert.Equal(t, byte(0x11), m.LoadByte(0x1001))
			},
		},
		{
			name: "SHY abs,X page cross",
			code: []byte{0x9c, 0xf0, 0x12},
			setup: func(c *cpu.CPU, m *cpu.FlatMemory) {
				c.Reg.X, c.Reg.Y = 0x20, 0x03
			},
			check: func(t *testing.T, c *cpu.CPU, m *cpu.FlatMemory) {
				assert.Equal(t, byte(0x03), m.LoadByte(0x0310))
				assert.Equal(t, byte(0x00), m.LoadByte(0x1310))
			},
		},
		{
			name: "SHA (zp),Y",
			code: []byte{0x93, 0x10},
			setup: func(c *cpu.CPU, m *cpu.FlatMemory) {
				m.StoreAddress(0x10, 0x1000)
				c.Reg.A, c.Reg.X, c.Reg.Y = 0xff, 0xff, 0x02
			},
			check: func(t *testing.T, c *cpu.CPU, m *cpu.FlatMemory) {
				assert.Equal(t, byte(0x11), m.LoadByte(0x1002))
			},
		},
		{
			name: "TAS abs,Y",
			code: []byte{0x9b, 0x00, 0x10},
			setup: func(c *cpu.CPU, m *cpu.FlatMemory) {
				c.Reg.A, c.Reg.X = 0xff, 0xf3
			},
			check: func(t *testing.T, c *cpu.CPU, m *cpu.FlatMemory) {
				assert.Equal(t, byte(0xf3), c.Reg.SP)
				assert.Equal(t, byte(0x11), m.LoadByte(0x1000))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, m := loadCPU(cpu.Ricoh2A03, 0x0200, tt.code...)
			if tt.setup != nil {
				tt.setup(c, m)
			}
			c.Step()
			assert.Equal(t, uint16(0x0200)+uint16(len(tt.code)), c.Reg.PC)
			tt.check(t, c, m)
		})
	}
}

func TestUndocumentedNops(t *testing.T) {
	tests := []struct {
		code   []byte
		cycles int
	}{
		{[]byte{0x1a}, 2},             // NOP
		{[]byte{0x80, 0x44}, 2},       // NOP #$44
		{[]byte{0x04, 0x44}, 3},       // NOP $44
		{[]byte{0x14, 0x44}, 4},       // NOP $44,X
		{[]byte{0x0c, 0x00, 0x10}, 4}, // NOP $1000
		{[]byte{0x1c, 0x00, 0x10}, 4}, // NOP $1000,X
		{[]byte{0x1c, 0xff, 0x10}, 5}, // NOP $10FF,X
	}

	for _, tt := range tests {
		c, _ := loadCPU(cpu.Ricoh2A03, 0x0200, tt.code...)
		c.Reg.X = 1
		a, x, y, p := c.Reg.A, c.Reg.X, c.Reg.Y, c.Reg.Pack(false)

		n := c.Step()
		assert.Equal(t, tt.cycles, n, "opcode $%02X", tt.code[0])
		assert.Equal(t, uint16(0x0200)+uint16(len(tt.code)), c.Reg.PC, "opcode $%02X", tt.code[0])
		assert.Equal(t, []byte{a, x, y, p}, []byte{c.Reg.A, c.Reg.X, c.Reg.Y, c.Reg.Pack(false)})
	}
}
