// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/beevik/nes6502/cpu"
)

type busOp struct {
	write bool
	addr  uint16
	v     byte
}

func rd(addr uint16, v byte) busOp { return busOp{false, addr, v} }
func wr(addr uint16, v byte) busOp { return busOp{true, addr, v} }

// recordingMemory logs every bus access made through the cpu.Memory
// interface. Direct FlatMemory calls made while setting up a test are not
// logged.
type recordingMemory struct {
	*cpu.FlatMemory
	log []busOp
}

func newRecordingMemory() *recordingMemory {
	return &recordingMemory{FlatMemory: cpu.NewFlatMemory()}
}

func (m *recordingMemory) LoadByte(addr uint16) byte {
	v := m.FlatMemory.LoadByte(addr)
	m.log = append(m.log, rd(addr, v))
	return v
}

func (m *recordingMemory) StoreByte(addr uint16, v byte) {
	m.log = append(m.log, wr(addr, v))
	m.FlatMemory.StoreByte(addr, v)
}

func (m *recordingMemory) LoadAddress(addr uint16) uint16 {
	lo := m.LoadByte(addr)
	hi := m.LoadByte(addr + 1)
	return uint16(lo) | uint16(hi)<<8
}

func recordStep(t *testing.T, pc uint16, setup func(c *cpu.CPU, m *recordingMemory), code ...byte) []busOp {
	t.Helper()
	m := newRecordingMemory()
	m.StoreBytes(pc, code)
	c := cpu.NewCPU(cpu.Ricoh2A03, m)
	c.SetPC(pc)
	if setup != nil {
		setup(c, m)
	}
	m.log = nil
	c.Step()
	return m.log
}

func TestBusReadModifyWrite(t *testing.T) {
	log := recordStep(t, 0x0200, func(c *cpu.CPU, m *recordingMemory) {
		m.FlatMemory.StoreByte(0x0010, 0x41)
	}, 0xe6, 0x10) // INC $10

	assert.Equal(t, []busOp{
		rd(0x0200, 0xe6),
		rd(0x0201, 0x10),
		rd(0x0010, 0x41),
		wr(0x0010, 0x41),
		wr(0x0010, 0x42),
	}, log)
}

func TestBusIndexedStore(t *testing.T) {
	log := recordStep(t, 0x0200, func(c *cpu.CPU, m *recordingMemory) {
		c.Reg.A = 0x99
		c.Reg.X = 0x01
	}, 0x9d, 0xff, 0x20) // STA $20FF,X

	assert.Equal(t, []busOp{
		rd(0x0200, 0x9d),
		rd(0x0201, 0xff),
		rd(0x0202, 0x20),
		rd(0x2000, 0x00),
		wr(0x2100, 0x99),
	}, log)
}

func TestBusIndexedLoad(t *testing.T) {
	// No page cross: no dummy read.
	log := recordStep(t, 0x0200, func(c *cpu.CPU, m *recordingMemory) {
		c.Reg.X = 0x01
	}, 0xbd, 0x00, 0x20) // LDA $2000,X

	assert.Equal(t, []busOp{
		rd(0x0200, 0xbd),
		rd(0x0201, 0x00),
		rd(0x0202, 0x20),
		rd(0x2001, 0x00),
	}, log)

	// Page cross: the unfixed address is read first.
	log = recordStep(t, 0x0200, func(c *cpu.CPU, m *recordingMemory) {
		c.Reg.X = 0x02
	}, 0xbd, 0xff, 0x20) // LDA $20FF,X

	assert.Equal(t, []busOp{
		rd(0x0200, 0xbd),
		rd(0x0201, 0xff),
		rd(0x0202, 0x20),
		rd(0x2001, 0x00),
		rd(0x2101, 0x00),
	}, log)
}

func TestBusZeroPageIndexed(t *testing.T) {
	log := recordStep(t, 0x0200, func(c *cpu.CPU, m *recordingMemory) {
		c.Reg.X = 0x05
	}, 0xb5, 0x10) // LDA $10,X

	assert.Equal(t, []busOp{
		rd(0x0200, 0xb5),
		rd(0x0201, 0x10),
		rd(0x0010, 0x00),
		rd(0x0015, 0x00),
	}, log)
}

func TestBusPull(t *testing.T) {
	log := recordStep(t, 0x0200, func(c *cpu.CPU, m *recordingMemory) {
		m.FlatMemory.StoreByte(0x01fe, 0x33)
	}, 0x68) // PLA

	assert.Equal(t, []busOp{
		rd(0x0200, 0x68),
		rd(0x0201, 0x00),
		rd(0x01fd, 0x00),
		rd(0x01fe, 0x33),
	}, log)
}

func TestBusJumpSubroutine(t *testing.T) {
	log := recordStep(t, 0x0200, nil, 0x20, 0x34, 0x12) // JSR $1234

	assert.Equal(t, []busOp{
		rd(0x0200, 0x20),
		rd(0x0201, 0x34),
		rd(0x01fd, 0x00),
		wr(0x01fd, 0x02),
		wr(0x01fc, 0x02),
		rd(0x0202, 0x12),
	}, log)
}

func TestBusBranch(t *testing.T) {
	log := recordStep(t, 0x10fd, nil, 0xd0, 0x05) // BNE +$05

	assert.Equal(t, []busOp{
		rd(0x10fd, 0xd0),
		rd(0x10fe, 0x05),
		rd(0x10ff, 0x00),
		rd(0x1004, 0x00),
	}, log)
}

func TestBusInterrupt(t *testing.T) {
	log := recordStep(t, 0x0200, func(c *cpu.CPU, m *recordingMemory) {
		m.StoreAddress(0xfffa, 0x9000)
		c.RequestNMI()
	}, 0xea)

	assert.Equal(t, []busOp{
		rd(0x0200, 0xea),
		rd(0x0200, 0xea),
		wr(0x01fd, 0x02),
		wr(0x01fc, 0x00),
		wr(0x01fb, cpu.ReservedBit|cpu.InterruptDisableBit),
		rd(0xfffa, 0x00),
		rd(0xfffb, 0x90),
	}, log)
}

func TestBusSingleReadPerLoad(t *testing.T) {
	// Absolute loads touch the target exactly once, so side-effecting
	// registers are not disturbed.
	log := recordStep(t, 0x0200, nil, 0xad, 0x02, 0x20) // LDA $2002

	reads := 0
	for _, op := range log {
		if op.addr == 0x2002 {
			reads++
		}
	}
	assert.Equal(t, 1, reads)
}
