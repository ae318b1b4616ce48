// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bus

import "fmt"

const cartSize = 0x10000 - cartStart

// FlatCartridge is a cartridge device backed by a single buffer covering
// all of cartridge space ($4020-$FFFF), with no bank switching. It lets
// raw program images run on the NES bus.
type FlatCartridge struct {
	ReadOnly bool // drop CPU writes, as with a ROM
	mem      [cartSize]byte
}

// NewFlatCartridge creates a writable flat cartridge.
func NewFlatCartridge() *FlatCartridge {
	return &FlatCartridge{}
}

// Read returns the byte at a cartridge-space address.
func (c *FlatCartridge) Read(addr uint16) byte {
	if addr < cartStart {
		return 0
	}
	return c.mem[addr-cartStart]
}

// Write stores a byte at a cartridge-space address unless the cartridge
// is read-only.
func (c *FlatCartridge) Write(addr uint16, v byte) {
	if c.ReadOnly || addr < cartStart {
		return
	}
	c.mem[addr-cartStart] = v
}

// Program copies an image into the cartridge, bypassing ReadOnly.
func (c *FlatCartridge) Program(addr uint16, image []byte) error {
	if addr < cartStart || int(addr)+len(image) > 0x10000 {
		return fmt.Errorf("program %d bytes at $%04X: %w", len(image), addr, ErrImageTooLarge)
	}
	copy(c.mem[addr-cartStart:], image)
	return nil
}
