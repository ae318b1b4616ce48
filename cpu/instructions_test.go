// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beevik/nes6502/cpu"
)

func TestInstructionSetComplete(t *testing.T) {
	set := cpu.GetInstructionSet()
	require.Same(t, set, cpu.GetInstructionSet())

	official := 0
	names := make(map[string]bool)
	for i := 0; i < 256; i++ {
		inst := set.Lookup(byte(i))
		require.NotNil(t, inst)
		assert.Equal(t, byte(i), inst.Opcode)
		assert.NotEmpty(t, inst.Name, "opcode $%02X", i)
		assert.True(t, inst.Length >= 1 && inst.Length <= 3, "opcode $%02X length %d", i, inst.Length)
		assert.NotZero(t, inst.Cycles, "opcode $%02X", i)
		if !inst.Illegal {
			official++
			names[inst.Name] = true
		}
	}
	assert.Equal(t, 151, official)
	assert.Len(t, names, 56)
}

func TestInstructionLengthMatchesMode(t *testing.T) {
	set := cpu.GetInstructionSet()
	for i := 0; i < 256; i++ {
		inst := set.Lookup(byte(i))
		if inst.Name == "JAM" || inst.Name == "BRK" {
			continue
		}
		var exp byte
		switch inst.Mode {
		case cpu.IMP, cpu.ACC:
			exp = 1
		case cpu.IMM, cpu.REL, cpu.ZPG, cpu.ZPX, cpu.ZPY, cpu.IDX, cpu.IDY:
			exp = 2
		default:
			exp = 3
		}
		assert.Equal(t, exp, inst.Length, "opcode $%02X %s %s", i, inst.Name, inst.Mode)
	}
}

func TestGetInstructions(t *testing.T) {
	set := cpu.GetInstructionSet()

	lda := set.GetInstructions("lda")
	assert.Len(t, lda, 8)
	for _, inst := range lda {
		assert.Equal(t, "LDA", inst.Name)
	}

	assert.Len(t, set.GetInstructions("JMP"), 2)
	assert.Len(t, set.GetInstructions("JAM"), 12)
	assert.Empty(t, set.GetInstructions("XYZ"))
}

func TestIllegalMarking(t *testing.T) {
	set := cpu.GetInstructionSet()
	assert.False(t, set.Lookup(0xe9).Illegal) // SBC #
	assert.True(t, set.Lookup(0xeb).Illegal)  // SBC # (alternate)
	assert.False(t, set.Lookup(0xea).Illegal) // NOP
	assert.True(t, set.Lookup(0x1a).Illegal)  // NOP (alternate)
	assert.Equal(t, "SBC", set.Lookup(0xeb).Name)
}
