// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/beevik/nes6502/cpu"
)

func TestSnapshotRestore(t *testing.T) {
	c, _ := loadCPU(cpu.NMOS, 0x0200,
		0xa9, 0x80, // LDA #$80
		0xa2, 0x01, // LDX #$01
		0x38,       // SEC
		0xa0, 0x00, // LDY #$00
	)
	stepCPU(c, 3)
	c.SetIRQ(true)
	c.RequestNMI()

	s := c.Snapshot()
	assert.Equal(t, cpu.State{
		A: 0x80, X: 0x01, Y: 0x00, SP: 0xfd, PC: 0x0205,
		P:          cpu.ReservedBit | cpu.InterruptDisableBit | cpu.CarryBit,
		Cycles:     6,
		NMIPending: true,
		IRQLine:    true,
	}, s)

	// Diverge, then return to the snapshot.
	c.SetIRQ(false)
	stepCPU(c, 2)
	c.Restore(s)
	assert.Equal(t, s, c.Snapshot())
}
