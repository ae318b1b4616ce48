// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// The Memory interface presents an interface to the CPU through which all
// memory accesses occur. Loads and stores may have side effects on
// memory-mapped devices, so the CPU issues exactly the accesses the real
// hardware would, in the same order.
type Memory interface {
	// LoadByte loads a single byte from the address and returns it.
	LoadByte(addr uint16) byte

	// StoreByte stores a byte to the requested address.
	StoreByte(addr uint16, v byte)

	// LoadAddress loads a little-endian 16-bit value from two consecutive
	// byte loads at addr and addr+1. Page-wrap quirks of particular
	// addressing modes are the caller's responsibility.
	LoadAddress(addr uint16) uint16
}

// FlatMemory represents an entire 16-bit address space as a singular
// 64K buffer with no side effects.
type FlatMemory struct {
	b [64 * 1024]byte
}

// NewFlatMemory creates a new 16-bit memory space.
func NewFlatMemory() *FlatMemory {
	return &FlatMemory{}
}

// LoadByte loads a single byte from the address and returns it.
func (m *FlatMemory) LoadByte(addr uint16) byte {
	return m.b[addr]
}

// LoadAddress loads a 16-bit address value from the requested address and
// returns it.
func (m *FlatMemory) LoadAddress(addr uint16) uint16 {
	return uint16(m.b[addr]) | uint16(m.b[addr+1])<<8
}

// StoreByte stores a byte at the requested address.
func (m *FlatMemory) StoreByte(addr uint16, v byte) {
	m.b[addr] = v
}

// StoreBytes stores multiple bytes to the requested address. Stores wrap
// around the end of the address space.
func (m *FlatMemory) StoreBytes(addr uint16, b []byte) {
	for i, v := range b {
		m.b[addr+uint16(i)] = v
	}
}

// StoreAddress stores a 16-bit address value to the requested address.
func (m *FlatMemory) StoreAddress(addr uint16, v uint16) {
	m.b[addr] = byte(v)
	m.b[addr+1] = byte(v >> 8)
}
