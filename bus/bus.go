// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bus implements the NES CPU address space. It satisfies the
// cpu.Memory interface and routes each access to internal RAM or to an
// attached device.
//
//	$0000-$07FF  2 KiB internal RAM, mirrored through $1FFF
//	$2000-$2007  PPU registers, mirrored every 8 bytes through $3FFF
//	$4000-$4017  APU and I/O registers
//	$4018-$401F  CPU test mode registers (normally disabled)
//	$4020-$FFFF  cartridge space
//
// Reads from a region with no device attached return the last value
// driven onto the data bus (open bus). Writes to such regions are dropped.
package bus

import (
	"errors"
	"fmt"
)

// Errors returned by bus operations.
var (
	ErrImageTooLarge = errors.New("image does not fit in the address space")
	ErrRAMRegion     = errors.New("internal RAM cannot be replaced by a device")
)

// Address map boundaries
const (
	ramSize   = 0x0800
	ramEnd    = 0x1fff
	ppuStart  = 0x2000
	ppuEnd    = 0x3fff
	ioStart   = 0x4000
	ioEnd     = 0x4017
	testStart = 0x4018
	testEnd   = 0x401f
	cartStart = 0x4020
)

// A Device is a memory-mapped collaborator on the CPU bus, such as the PPU,
// the APU or a cartridge mapper. Addresses passed to a device are absolute
// CPU addresses, with mirroring already removed for the PPU window.
type Device interface {
	Read(addr uint16) byte
	Write(addr uint16, v byte)
}

// Region identifies a range of the CPU address map.
type Region byte

// Address map regions
const (
	RAM Region = iota
	PPU
	IO
	Test
	Cartridge
	numRegions
)

var regionName = [...]string{"RAM", "PPU", "IO", "Test", "Cartridge"}

func (r Region) String() string {
	if r < numRegions {
		return regionName[r]
	}
	return fmt.Sprintf("Region(%d)", r)
}

// RegionOf returns the region that decodes the address.
func RegionOf(addr uint16) Region {
	switch {
	case addr <= ramEnd:
		return RAM
	case addr <= ppuEnd:
		return PPU
	case addr <= ioEnd:
		return IO
	case addr <= testEnd:
		return Test
	default:
		return Cartridge
	}
}

// Bus is the NES CPU memory bus.
type Bus struct {
	ram     [ramSize]byte
	devices [numRegions]Device
	data    byte // last value driven onto the data bus
}

// An Option configures a Bus.
type Option func(b *Bus)

// WithPPU attaches the device handling the PPU register window.
func WithPPU(d Device) Option {
	return func(b *Bus) { b.devices[PPU] = d }
}

// WithIO attaches the device handling the APU and I/O registers.
func WithIO(d Device) Option {
	return func(b *Bus) { b.devices[IO] = d }
}

// WithTest attaches the device handling the CPU test mode registers.
func WithTest(d Device) Option {
	return func(b *Bus) { b.devices[Test] = d }
}

// WithCartridge attaches the cartridge device.
func WithCartridge(d Device) Option {
	return func(b *Bus) { b.devices[Cartridge] = d }
}

// New creates a bus with cleared RAM and the requested devices attached.
func New(opts ...Option) *Bus {
	b := &Bus{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Attach connects a device to a region, replacing any device already
// there. Passing a nil device detaches the region.
func (b *Bus) Attach(r Region, d Device) error {
	switch {
	case r == RAM:
		return ErrRAMRegion
	case r >= numRegions:
		return fmt.Errorf("attach %v: unknown region", r)
	}
	b.devices[r] = d
	return nil
}

// Device returns the device attached to a region, or nil.
func (b *Bus) Device(r Region) Device {
	if r >= numRegions {
		return nil
	}
	return b.devices[r]
}

// OpenBus returns the last value driven onto the data bus.
func (b *Bus) OpenBus() byte {
	return b.data
}

// LoadByte reads a byte from the bus.
func (b *Bus) LoadByte(addr uint16) byte {
	r := RegionOf(addr)
	switch {
	case r == RAM:
		b.data = b.ram[addr&(ramSize-1)]
	case b.devices[r] != nil:
		b.data = b.devices[r].Read(mirror(r, addr))
	}
	return b.data
}

// StoreByte writes a byte to the bus.
func (b *Bus) StoreByte(addr uint16, v byte) {
	b.data = v
	r := RegionOf(addr)
	switch {
	case r == RAM:
		b.ram[addr&(ramSize-1)] = v
	case b.devices[r] != nil:
		b.devices[r].Write(mirror(r, addr), v)
	}
}

// LoadAddress reads a little-endian 16-bit value with two byte loads.
func (b *Bus) LoadAddress(addr uint16) uint16 {
	lo := b.LoadByte(addr)
	hi := b.LoadByte(addr + 1)
	return uint16(lo) | uint16(hi)<<8
}

// StoreBytes writes a block of bytes starting at addr. Each byte goes
// through StoreByte, so devices see ordinary writes.
func (b *Bus) StoreBytes(addr uint16, data []byte) error {
	if int(addr)+len(data) > 0x10000 {
		return fmt.Errorf("store %d bytes at $%04X: %w", len(data), addr, ErrImageTooLarge)
	}
	for i, v := range data {
		b.StoreByte(addr+uint16(i), v)
	}
	return nil
}

func mirror(r Region, addr uint16) uint16 {
	if r == PPU {
		return ppuStart | addr&0x0007
	}
	return addr
}
