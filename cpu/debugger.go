// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import (
	"cmp"
	"slices"
)

// A Debugger watches a CPU as it runs. It reports execution breakpoints,
// data breakpoints and (when enabled) stack pointer wraparound to a
// BreakpointHandler. It never alters the CPU's behavior.
type Debugger struct {
	handler         BreakpointHandler
	breakpoints     map[uint16]*Breakpoint
	dataBreakpoints map[uint16]*DataBreakpoint
	watchStack      bool
}

// The BreakpointHandler interface should be implemented by any object that
// wishes to receive debugger notifications.
type BreakpointHandler interface {
	OnBreakpoint(cpu *CPU, b *Breakpoint)
	OnDataBreakpoint(cpu *CPU, b *DataBreakpoint)

	// OnStackWrap is called when a push moves the stack pointer from $00
	// to $FF (push is true) or a pull moves it from $FF to $00.
	OnStackWrap(cpu *CPU, push bool)
}

// A Breakpoint represents an address that will cause the debugger to stop
// code execution when the program counter reaches it.
type Breakpoint struct {
	Address  uint16 // address of execution breakpoint
	Disabled bool   // this breakpoint is currently disabled
}

// A DataBreakpoint represents an address that will cause the debugger to
// stop executing code when a byte is stored to it.
type DataBreakpoint struct {
	Address     uint16 // breakpoint triggered by stores to this address
	Disabled    bool   // this breakpoint is currently disabled
	Conditional bool   // this breakpoint is conditional on a certain Value being stored
	Value       byte   // the value that must be stored if the breakpoint is conditional
}

// NewDebugger creates a new CPU debugger.
func NewDebugger(handler BreakpointHandler) *Debugger {
	return &Debugger{
		handler:         handler,
		breakpoints:     make(map[uint16]*Breakpoint),
		dataBreakpoints: make(map[uint16]*DataBreakpoint),
	}
}

// WatchStack enables or disables stack wraparound notifications.
func (d *Debugger) WatchStack(enable bool) {
	d.watchStack = enable
}

// WatchingStack reports whether stack wraparound notifications are enabled.
func (d *Debugger) WatchingStack() bool {
	return d.watchStack
}

// GetBreakpoint looks up a breakpoint by address and returns it if found.
// Otherwise it returns nil.
func (d *Debugger) GetBreakpoint(addr uint16) *Breakpoint {
	return d.breakpoints[addr]
}

// GetBreakpoints returns all breakpoints ordered by address.
func (d *Debugger) GetBreakpoints() []*Breakpoint {
	return sortedByAddress(d.breakpoints)
}

// AddBreakpoint adds a new breakpoint address to the debugger, replacing
// any breakpoint already set there.
func (d *Debugger) AddBreakpoint(addr uint16) *Breakpoint {
	b := &Breakpoint{Address: addr}
	d.breakpoints[addr] = b
	return b
}

// RemoveBreakpoint removes a breakpoint from the debugger.
func (d *Debugger) RemoveBreakpoint(addr uint16) {
	delete(d.breakpoints, addr)
}

// GetDataBreakpoint looks up a data breakpoint on the provided address
// and returns it if found. Otherwise it returns nil.
func (d *Debugger) GetDataBreakpoint(addr uint16) *DataBreakpoint {
	return d.dataBreakpoints[addr]
}

// GetDataBreakpoints returns all data breakpoints ordered by address.
func (d *Debugger) GetDataBreakpoints() []*DataBreakpoint {
	return sortedByAddress(d.dataBreakpoints)
}

// AddDataBreakpoint adds an unconditional data breakpoint on the requested
// address.
func (d *Debugger) AddDataBreakpoint(addr uint16) *DataBreakpoint {
	b := &DataBreakpoint{Address: addr}
	d.dataBreakpoints[addr] = b
	return b
}

// AddConditionalDataBreakpoint adds a data breakpoint that triggers only
// when 'value' is stored to the requested address.
func (d *Debugger) AddConditionalDataBreakpoint(addr uint16, value byte) *DataBreakpoint {
	b := &DataBreakpoint{Address: addr, Conditional: true, Value: value}
	d.dataBreakpoints[addr] = b
	return b
}

// RemoveDataBreakpoint removes a (conditional or unconditional) data
// breakpoint at the requested address.
func (d *Debugger) RemoveDataBreakpoint(addr uint16) {
	delete(d.dataBreakpoints, addr)
}

func (d *Debugger) onUpdatePC(cpu *CPU, addr uint16) {
	if d.handler == nil {
		return
	}
	if b, ok := d.breakpoints[addr]; ok && !b.Disabled {
		d.handler.OnBreakpoint(cpu, b)
	}
}

func (d *Debugger) onDataStore(cpu *CPU, addr uint16, v byte) {
	if d.handler == nil {
		return
	}
	if b, ok := d.dataBreakpoints[addr]; ok && !b.Disabled {
		if !b.Conditional || b.Value == v {
			d.handler.OnDataBreakpoint(cpu, b)
		}
	}
}

func (d *Debugger) onStackWrap(cpu *CPU, push bool) {
	if d.handler != nil && d.watchStack {
		d.handler.OnStackWrap(cpu, push)
	}
}

type addressed interface {
	address() uint16
}

func (b *Breakpoint) address() uint16     { return b.Address }
func (b *DataBreakpoint) address() uint16 { return b.Address }

func sortedByAddress[T addressed](m map[uint16]T) []T {
	list := make([]T, 0, len(m))
	for _, b := range m {
		list = append(list, b)
	}
	slices.SortFunc(list, func(a, b T) int {
		return cmp.Compare(a.address(), b.address())
	})
	return list
}
