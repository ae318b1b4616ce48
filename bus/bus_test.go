// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bus_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beevik/nes6502/bus"
	"github.com/beevik/nes6502/cpu"
)

// latch mimics a register that clears itself when read, like the PPU
// status register's vblank bit.
type latch struct {
	value  byte
	reads  []uint16
	writes map[uint16]byte
}

func newLatch(v byte) *latch {
	return &latch{value: v, writes: make(map[uint16]byte)}
}

func (l *latch) Read(addr uint16) byte {
	l.reads = append(l.reads, addr)
	v := l.value
	l.value &^= 0x80
	return v
}

func (l *latch) Write(addr uint16, v byte) {
	l.writes[addr] = v
}

var _ cpu.Memory = (*bus.Bus)(nil)

func TestRegionOf(t *testing.T) {
	tests := []struct {
		addr uint16
		exp  bus.Region
	}{
		{0x0000, bus.RAM},
		{0x1fff, bus.RAM},
		{0x2000, bus.PPU},
		{0x3fff, bus.PPU},
		{0x4000, bus.IO},
		{0x4017, bus.IO},
		{0x4018, bus.Test},
		{0x401f, bus.Test},
		{0x4020, bus.Cartridge},
		{0xffff, bus.Cartridge},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.exp, bus.RegionOf(tt.addr), "$%04X", tt.addr)
	}
	assert.Equal(t, "PPU", bus.PPU.String())
}

func TestRAMMirroring(t *testing.T) {
	b := bus.New()
	b.StoreByte(0x0123, 0x42)
	for _, addr := range []uint16{0x0123, 0x0923, 0x1123, 0x1923} {
		assert.Equal(t, byte(0x42), b.LoadByte(addr), "$%04X", addr)
	}

	b.StoreByte(0x1fff, 0x99)
	assert.Equal(t, byte(0x99), b.LoadByte(0x07ff))
}

func TestPPUMirroring(t *testing.T) {
	ppu := newLatch(0)
	b := bus.New(bus.WithPPU(ppu))

	b.StoreByte(0x3456, 0x11)
	assert.Equal(t, byte(0x11), ppu.writes[0x2006])

	b.LoadByte(0x2ffa)
	assert.Equal(t, []uint16{0x2002}, ppu.reads)
}

func TestOpenBus(t *testing.T) {
	b := bus.New()
	b.StoreByte(0x0010, 0x5a)
	assert.Equal(t, byte(0x5a), b.LoadByte(0x0010))

	// Nothing attached to cartridge space: the last bus value comes back.
	assert.Equal(t, byte(0x5a), b.LoadByte(0x8000))
	assert.Equal(t, byte(0x5a), b.OpenBus())

	// Writes to unmapped regions are dropped but still drive the bus.
	b.StoreByte(0x4018, 0x77)
	assert.Equal(t, byte(0x77), b.LoadByte(0x4018))
}

func TestAttach(t *testing.T) {
	b := bus.New()
	assert.ErrorIs(t, b.Attach(bus.RAM, newLatch(0)), bus.ErrRAMRegion)

	io := newLatch(0x40)
	require.NoError(t, b.Attach(bus.IO, io))
	assert.Same(t, io, b.Device(bus.IO))
	assert.Equal(t, byte(0x40), b.LoadByte(0x4016))

	require.NoError(t, b.Attach(bus.IO, nil))
	assert.Nil(t, b.Device(bus.IO))
}

func TestFlatCartridge(t *testing.T) {
	cart := bus.NewFlatCartridge()
	b := bus.New(bus.WithCartridge(cart))

	require.NoError(t, b.StoreBytes(0xfffc, []byte{0x00, 0x80}))
	assert.Equal(t, uint16(0x8000), b.LoadAddress(0xfffc))

	cart.ReadOnly = true
	b.StoreByte(0x8000, 0x12)
	assert.Equal(t, byte(0x00), b.LoadByte(0x8000))

	require.NoError(t, cart.Program(0x8000, []byte{0xea}))
	assert.Equal(t, byte(0xea), b.LoadByte(0x8000))

	assert.ErrorIs(t, cart.Program(0x2000, []byte{0}), bus.ErrImageTooLarge)
	assert.ErrorIs(t, b.StoreBytes(0xffff, []byte{1, 2}), bus.ErrImageTooLarge)
}

func TestCPUReadsDeviceOnce(t *testing.T) {
	ppu := newLatch(0x80)
	cart := bus.NewFlatCartridge()
	require.NoError(t, cart.Program(0x8000, []byte{
		0xad, 0x02, 0x20, // LDA $2002
		0x2c, 0x02, 0x20, // BIT $2002
	}))
	b := bus.New(bus.WithPPU(ppu), bus.WithCartridge(cart))

	c := cpu.NewCPU(cpu.Ricoh2A03, b)
	c.SetPC(0x8000)

	c.Step()
	assert.Equal(t, byte(0x80), c.Reg.A)
	assert.Equal(t, []uint16{0x2002}, ppu.reads)

	c.Step()
	assert.False(t, c.Reg.Negative)
	assert.Equal(t, []uint16{0x2002, 0x2002}, ppu.reads)
}

func TestCPUResetOnBus(t *testing.T) {
	cart := bus.NewFlatCartridge()
	require.NoError(t, cart.Program(0xfffc, []byte{0x00, 0xc0}))
	require.NoError(t, cart.Program(0xc000, []byte{
		0xa9, 0x07, // LDA #$07
		0x8d, 0x00, 0x08, // STA $0800
	}))
	b := bus.New(bus.WithCartridge(cart))

	c := cpu.NewCPU(cpu.Ricoh2A03, b)
	c.Reset()
	assert.Equal(t, uint16(0xc000), c.Reg.PC)

	c.Step()
	c.Step()
	assert.Equal(t, byte(0x07), b.LoadByte(0x0000))
}
