// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package host implements an interactive monitor around an emulated NES
// CPU. Within the host it is possible to load machine code into memory,
// step through and run it, set address and data breakpoints, drive the
// interrupt lines, reset the CPU, save and restore CPU snapshots, dump and
// modify memory, and disassemble code.
package host

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/beevik/cmd"
	"github.com/beevik/nes6502/bus"
	"github.com/beevik/nes6502/cpu"
	"github.com/beevik/nes6502/disasm"
)

var errQuit = errors.New("exiting program")

type displayFlags uint8

const (
	displayRegisters displayFlags = 1 << iota
	displayCycles

	displayAll = displayRegisters | displayCycles
)

type state byte

const (
	stateProcessingCommands state = iota
	stateRunning
	stateBreakpoint
)

// Config selects the emulated machine.
type Config struct {
	// NES selects a Ricoh 2A03 CPU on the NES memory bus, with a writable
	// flat cartridge in $4020-$FFFF. Otherwise the host emulates an NMOS
	// 6502 with 64K of flat RAM.
	NES bool
}

// A Host represents an emulated CPU, its memory and a debugger.
type Host struct {
	input       *bufio.Scanner
	output      *bufio.Writer
	interactive bool
	mem         cpu.Memory
	cpu         *cpu.CPU
	debugger    *cpu.Debugger
	lastCmd     *selection
	state       state
	interrupted atomic.Bool
	settings    *settings
	snapshots   map[string]cpu.State
}

// New creates a new host environment.
func New(config Config) *Host {
	h := &Host{
		state:     stateProcessingCommands,
		settings:  newSettings(),
		snapshots: make(map[string]cpu.State),
	}

	// Create the emulated CPU and memory.
	if config.NES {
		h.mem = bus.New(bus.WithCartridge(bus.NewFlatCartridge()))
		h.cpu = cpu.NewCPU(cpu.Ricoh2A03, h.mem)
	} else {
		h.mem = cpu.NewFlatMemory()
		h.cpu = cpu.NewCPU(cpu.NMOS, h.mem)
	}

	// Create a CPU debugger and attach it to the CPU.
	h.debugger = cpu.NewDebugger(newDebugHandler(h))
	h.cpu.AttachDebugger(h.debugger)
	h.onSettingsUpdate()

	return h
}

// RunCommands accepts host commands from a reader and outputs the results
// to a writer. If the commands are interactive, a prompt is displayed while
// the host waits for the the next command to be entered. It returns when
// the reader is exhausted or the quit command runs.
func (h *Host) RunCommands(r io.Reader, w io.Writer, interactive bool) {
	h.input = bufio.NewScanner(r)
	h.output = bufio.NewWriter(w)
	h.interactive = interactive

	if interactive {
		h.println()
		h.displayPC()
	}

	for {
		h.prompt()

		line, err := h.getLine()
		if err != nil {
			break
		}

		var c selection
		if line = strings.TrimSpace(line); line != "" {
			n, args, err := cmds.Lookup(line)
			switch {
			case errors.Is(err, cmd.ErrNotFound):
				h.println("Command not found.")
				continue
			case errors.Is(err, cmd.ErrAmbiguous):
				h.println("Command is ambiguous.")
				continue
			case err != nil:
				h.printf("ERROR: %v.\n", err)
				continue
			}

			switch t := n.(type) {
			case *cmd.Tree:
				t.GetHelp(h.output, nil)
				h.flush()
				continue
			case *cmd.Command:
				c = selection{cmd: t.Data.(*command), args: args}
			}
		} else if h.lastCmd != nil {
			c = *h.lastCmd
		}

		if c.cmd == nil {
			continue
		}
		h.lastCmd = &c

		if err := c.cmd.fn(h, c); err != nil {
			break
		}
	}

	h.flush()
}

// Break interrupts a running CPU. It is safe to call from another
// goroutine, such as a signal handler.
func (h *Host) Break() {
	h.interrupted.Store(true)
}

// CPU returns the emulated CPU.
func (h *Host) CPU() *cpu.CPU {
	return h.cpu
}

// Memory returns the memory attached to the emulated CPU.
func (h *Host) Memory() cpu.Memory {
	return h.mem
}

func (h *Host) printf(format string, args ...any) {
	fmt.Fprintf(h.output, format, args...)
	h.flush()
}

func (h *Host) println(args ...any) {
	fmt.Fprintln(h.output, args...)
	h.flush()
}

func (h *Host) flush() {
	h.output.Flush()
}

func (h *Host) getLine() (string, error) {
	if h.input.Scan() {
		return h.input.Text(), nil
	}
	if h.input.Err() != nil {
		return "", h.input.Err()
	}
	return "", io.EOF
}

func (h *Host) prompt() {
	if h.interactive {
		h.printf("* ")
	}
}

func (h *Host) displayPC() {
	d, _ := h.disassemble(h.cpu.Reg.PC, displayAll)
	h.println(d)
}

func (h *Host) cmdBreakpointList(c selection) error {
	h.println("Addr  Enabled")
	h.println("----- -------")
	for _, b := range h.debugger.GetBreakpoints() {
		h.printf("$%04X %v\n", b.Address, !b.Disabled)
	}
	return nil
}

func (h *Host) cmdBreakpointAdd(c selection) error {
	addr, ok := h.addrArg(c)
	if !ok {
		return nil
	}

	h.debugger.AddBreakpoint(addr)
	h.printf("Breakpoint added at $%04X.\n", addr)
	return nil
}

func (h *Host) cmdBreakpointRemove(c selection) error {
	addr, ok := h.addrArg(c)
	if !ok {
		return nil
	}

	if h.debugger.GetBreakpoint(addr) == nil {
		h.printf("No breakpoint was set on $%04X.\n", addr)
		return nil
	}

	h.debugger.RemoveBreakpoint(addr)
	h.printf("Breakpoint at $%04X removed.\n", addr)
	return nil
}

func (h *Host) cmdBreakpointEnable(c selection) error {
	return h.enableBreakpoint(c, true)
}

func (h *Host) cmdBreakpointDisable(c selection) error {
	return h.enableBreakpoint(c, false)
}

func (h *Host) enableBreakpoint(c selection, enable bool) error {
	addr, ok := h.addrArg(c)
	if !ok {
		return nil
	}

	b := h.debugger.GetBreakpoint(addr)
	if b == nil {
		h.printf("No breakpoint was set on $%04X.\n", addr)
		return nil
	}

	b.Disabled = !enable
	h.printf("Breakpoint at $%04X %s.\n", addr, enabledString(enable))
	return nil
}

func (h *Host) cmdDataBreakpointList(c selection) error {
	h.println("Addr  Enabled  Value")
	h.println("----- -------  -----")
	for _, b := range h.debugger.GetDataBreakpoints() {
		if b.Conditional {
			h.printf("$%04X %-5v    $%02X\n", b.Address, !b.Disabled, b.Value)
		} else {
			h.printf("$%04X %-5v    <none>\n", b.Address, !b.Disabled)
		}
	}
	return nil
}

func (h *Host) cmdDataBreakpointAdd(c selection) error {
	addr, ok := h.addrArg(c)
	if !ok {
		return nil
	}

	if len(c.args) > 1 {
		value, err := parseByte(c.args[1], h.settings.HexMode)
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		h.debugger.AddConditionalDataBreakpoint(addr, value)
		h.printf("Conditional data breakpoint added at $%04X for value $%02X.\n", addr, value)
		return nil
	}

	h.debugger.AddDataBreakpoint(addr)
	h.printf("Data breakpoint added at $%04X.\n", addr)
	return nil
}

func (h *Host) cmdDataBreakpointRemove(c selection) error {
	addr, ok := h.addrArg(c)
	if !ok {
		return nil
	}

	if h.debugger.GetDataBreakpoint(addr) == nil {
		h.printf("No data breakpoint was set on $%04X.\n", addr)
		return nil
	}

	h.debugger.RemoveDataBreakpoint(addr)
	h.printf("Data breakpoint at $%04X removed.\n", addr)
	return nil
}

func (h *Host) cmdDataBreakpointEnable(c selection) error {
	return h.enableDataBreakpoint(c, true)
}

func (h *Host) cmdDataBreakpointDisable(c selection) error {
	return h.enableDataBreakpoint(c, false)
}

func (h *Host) enableDataBreakpoint(c selection, enable bool) error {
	addr, ok := h.addrArg(c)
	if !ok {
		return nil
	}

	b := h.debugger.GetDataBreakpoint(addr)
	if b == nil {
		h.printf("No data breakpoint was set on $%04X.\n", addr)
		return nil
	}

	b.Disabled = !enable
	h.printf("Data breakpoint at $%04X %s.\n", addr, enabledString(enable))
	return nil
}

func (h *Host) cmdDisassemble(c selection) error {
	addr := h.settings.NextDisasmAddr
	if len(c.args) > 0 && c.args[0] != "$" {
		a, err := h.parseAddrArg(c.args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		addr = a
	}

	lines := h.settings.DisasmLines
	if len(c.args) > 1 {
		l, err := parseCount(c.args[1], h.settings.HexMode)
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		lines = l
	}

	for i := 0; i < lines; i++ {
		d, next := h.disassemble(addr, 0)
		h.println(d)
		addr = next
	}

	h.settings.NextDisasmAddr = addr
	h.lastCmd.args = []string{"$", fmt.Sprintf("%d", lines)}
	return nil
}

func (h *Host) cmdHelp(c selection) error {
	cmds.GetHelp(h.output, c.args)
	h.flush()
	return nil
}

func (h *Host) cmdInterruptNMI(c selection) error {
	h.cpu.RequestNMI()
	h.println("NMI requested.")
	return nil
}

func (h *Host) cmdInterruptIRQ(c selection) error {
	if len(c.args) > 0 {
		active, err := stringToBool(c.args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		h.cpu.SetIRQ(active)
	}

	if h.cpu.Snapshot().IRQLine {
		h.println("IRQ line is active.")
	} else {
		h.println("IRQ line is inactive.")
	}
	return nil
}

func (h *Host) cmdLoad(c selection) error {
	if len(c.args) < 2 {
		h.displayUsage(c.cmd)
		return nil
	}

	addr, err := h.parseAddrArg(c.args[1])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	if err := h.load(c.args[0], addr); err != nil {
		h.printf("%v\n", err)
	}
	return nil
}

func (h *Host) cmdMemoryDump(c selection) error {
	addr := h.settings.NextMemDumpAddr
	if len(c.args) > 0 && c.args[0] != "$" {
		a, err := h.parseAddrArg(c.args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		addr = a
	}

	bytes := h.settings.MemDumpBytes
	if len(c.args) > 1 {
		n, err := parseCount(c.args[1], h.settings.HexMode)
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		bytes = n
	}

	h.dumpMemory(addr, bytes)

	h.settings.NextMemDumpAddr = addr + uint16(bytes)
	h.lastCmd.args = []string{"$", fmt.Sprintf("%d", bytes)}
	return nil
}

func (h *Host) cmdMemorySet(c selection) error {
	if len(c.args) < 2 {
		h.displayUsage(c.cmd)
		return nil
	}

	addr, err := h.parseAddrArg(c.args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	data := make([]byte, 0, len(c.args)-1)
	for _, s := range c.args[1:] {
		v, err := parseByte(s, h.settings.HexMode)
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		data = append(data, v)
	}

	for i, v := range data {
		h.mem.StoreByte(addr+uint16(i), v)
	}
	h.printf("Stored %d byte(s) at $%04X.\n", len(data), addr)
	return nil
}

func (h *Host) cmdQuit(c selection) error {
	return errQuit
}

func (h *Host) cmdRegister(c selection) error {
	switch len(c.args) {
	case 0:
		h.displayPC()
		return nil
	case 1:
		h.displayUsage(c.cmd)
		return nil
	}

	name := strings.ToLower(c.args[0])
	reg := &h.cpu.Reg

	var flag *bool
	switch name {
	case "n", "sign":
		flag = &reg.Negative
	case "v", "overflow":
		flag = &reg.Overflow
	case "d", "decimal":
		flag = &reg.Decimal
	case "i", "interruptdisable":
		flag = &reg.InterruptDisable
	case "z", "zero":
		flag = &reg.Zero
	case "c", "carry":
		flag = &reg.Carry
	}
	if flag != nil {
		v, err := stringToBool(c.args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		*flag = v
		h.printf("Flag %s set to %v.\n", strings.ToUpper(name), v)
		return nil
	}

	switch name {
	case "a", "x", "y", "sp":
		v, err := parseByte(c.args[1], h.settings.HexMode)
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		switch name {
		case "a":
			reg.A = v
		case "x":
			reg.X = v
		case "y":
			reg.Y = v
		case "sp":
			reg.SP = v
		}
		h.printf("Register %s set to $%02X.\n", strings.ToUpper(name), v)

	case "pc", ".":
		v, err := h.parseAddrArg(c.args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		reg.PC = v
		h.settings.NextDisasmAddr = v
		h.printf("Register PC set to $%04X.\n", v)

	default:
		h.printf("Unknown register '%s'.\n", c.args[0])
	}
	return nil
}

func (h *Host) cmdReset(c selection) error {
	cycles := h.cpu.Reset()
	h.settings.NextDisasmAddr = h.cpu.Reg.PC
	h.printf("CPU reset in %d cycles.\n", cycles)
	h.displayPC()
	return nil
}

func (h *Host) cmdRun(c selection) error {
	if len(c.args) > 0 {
		pc, err := h.parseAddrArg(c.args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		h.cpu.SetPC(pc)
	}

	if h.interactive {
		h.printf("Running from $%04X. Press ctrl-C to break.\n", h.cpu.Reg.PC)
	}

	limit := h.settings.RunLimit
	h.interrupted.Store(false)
	h.state = stateRunning
	for n := 0; h.state == stateRunning; n++ {
		if limit > 0 && n >= limit {
			h.printf("Stopped after %d instructions.\n", n)
			h.displayPC()
			break
		}
		if h.interrupted.Swap(false) {
			h.println("Interrupted.")
			h.displayPC()
			break
		}
		if h.settings.Trace {
			h.displayPC()
		}
		h.step()
	}
	h.state = stateProcessingCommands

	h.settings.NextDisasmAddr = h.cpu.Reg.PC
	return nil
}

func (h *Host) cmdSet(c selection) error {
	switch len(c.args) {
	case 0:
		h.println("Variables:")
		h.settings.Display(h.output)
		h.flush()
		return nil
	case 1:
		h.displayUsage(c.cmd)
		return nil
	}

	key, value := c.args[0], strings.Join(c.args[1:], " ")
	f, err := h.settings.Lookup(key)
	if err != nil {
		h.printf("Setting '%s' not found.\n", key)
		return nil
	}

	switch f.kind {
	case reflect.Bool:
		var v bool
		if v, err = stringToBool(value); err == nil {
			err = h.settings.Set(key, v)
		}
	case reflect.String:
		err = h.settings.Set(key, value)
	default:
		var v int64
		if v, err = parseNumber(value, h.settings.HexMode); err == nil {
			err = h.settings.Set(key, v)
		}
	}

	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	h.println("Setting updated.")
	h.onSettingsUpdate()
	return nil
}

func (h *Host) cmdSnapshotSave(c selection) error {
	if len(c.args) < 1 {
		h.displayUsage(c.cmd)
		return nil
	}

	h.snapshots[c.args[0]] = h.cpu.Snapshot()
	h.printf("Snapshot '%s' saved.\n", c.args[0])
	return nil
}

func (h *Host) cmdSnapshotRestore(c selection) error {
	if len(c.args) < 1 {
		h.displayUsage(c.cmd)
		return nil
	}

	s, ok := h.snapshots[c.args[0]]
	if !ok {
		h.printf("Snapshot '%s' not found.\n", c.args[0])
		return nil
	}

	h.cpu.Restore(s)
	h.settings.NextDisasmAddr = h.cpu.Reg.PC
	h.printf("Snapshot '%s' restored.\n", c.args[0])
	h.displayPC()
	return nil
}

func (h *Host) cmdSnapshotList(c selection) error {
	if len(h.snapshots) == 0 {
		h.println("No snapshots.")
		return nil
	}

	for _, name := range slices.Sorted(maps.Keys(h.snapshots)) {
		s := h.snapshots[name]
		h.printf("%-16s PC=$%04X C=%d\n", name, s.PC, s.Cycles)
	}
	return nil
}

func (h *Host) cmdStepIn(c selection) error {
	// Parse the number of steps.
	count := 1
	if len(c.args) > 0 {
		n, err := parseCount(c.args[0], h.settings.HexMode)
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		count = n
	}

	// Step the CPU count times.
	h.state = stateRunning
	for i := count - 1; i >= 0 && h.state == stateRunning; i-- {
		h.step()
		switch {
		case i == h.settings.MaxStepLines:
			h.println("...")
		case i < h.settings.MaxStepLines:
			h.displayPC()
		}
	}
	h.state = stateProcessingCommands

	h.settings.NextDisasmAddr = h.cpu.Reg.PC
	return nil
}

// Load a raw binary file into memory at 'addr' and point the program
// counter at it.
func (h *Host) load(filename string, addr uint16) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("load '%s': %w", filepath.Base(filename), err)
	}
	if int(addr)+len(data) > 0x10000 {
		return fmt.Errorf("load '%s' at $%04X: %w", filepath.Base(filename), addr, bus.ErrImageTooLarge)
	}

	for i, v := range data {
		h.mem.StoreByte(addr+uint16(i), v)
	}
	h.printf("Loaded '%s' to $%04X..$%04X\n", filepath.Base(filename), addr, int(addr)+len(data)-1)

	h.cpu.SetPC(addr)
	h.settings.NextDisasmAddr = addr
	return nil
}

func (h *Host) step() {
	h.cpu.Step()
	if h.cpu.Jammed() {
		h.printf("CPU jammed at $%04X.\n", h.cpu.Reg.PC)
		h.state = stateBreakpoint
	}
}

func (h *Host) onSettingsUpdate() {
	h.debugger.WatchStack(h.settings.StackWatch)
}

// Parse an address argument. A '.' means the program counter.
func (h *Host) parseAddrArg(s string) (uint16, error) {
	if s == "." {
		return h.cpu.Reg.PC, nil
	}
	return parseAddr(s, h.settings.HexMode)
}

// Parse the first argument as an address, displaying usage or errors.
func (h *Host) addrArg(c selection) (uint16, bool) {
	if len(c.args) < 1 {
		h.displayUsage(c.cmd)
		return 0, false
	}

	addr, err := h.parseAddrArg(c.args[0])
	if err != nil {
		h.printf("%v\n", err)
		return 0, false
	}
	return addr, true
}

func (h *Host) disassemble(addr uint16, flags displayFlags) (str string, next uint16) {
	inst := h.cpu.GetInstruction(addr)
	code := disasm.GetCode(h.mem, addr, inst)

	var line string
	line, next = disasm.Disassemble(h.mem, h.cpu.InstSet, addr)

	str = fmt.Sprintf("%04X-   %-8s    %-15s", addr, codeString(code), line)

	if (flags & displayRegisters) != 0 {
		str += " " + disasm.GetRegisterString(&h.cpu.Reg)
	}

	if (flags & displayCycles) != 0 {
		str += fmt.Sprintf(" C=%d", h.cpu.Cycles)
	}

	return strings.TrimRight(str, " "), next
}

func (h *Host) dumpMemory(addr0 uint16, bytes int) {
	if bytes <= 0 {
		return
	}

	addr1 := uint32(addr0) + uint32(bytes) - 1
	if addr1 > 0xffff {
		addr1 = 0xffff
	}

	buf := []byte("    -" + strings.Repeat(" ", 35))

	// Don't align display for short dumps.
	if addr1-uint32(addr0) < 8 {
		addrToBuf(addr0, buf[0:4])
		for a, c1, c2 := uint32(addr0), 6, 32; a <= addr1; a, c1, c2 = a+1, c1+3, c2+1 {
			m := h.mem.LoadByte(uint16(a))
			byteToBuf(m, buf[c1:c1+2])
			buf[c2] = toPrintableChar(m)
		}
		h.println(strings.TrimRight(string(buf), " "))
		return
	}

	// Align addr0 and addr1 to 8-byte boundaries.
	start := uint32(addr0) & 0xfff8
	stop := min((addr1+8)&0x1fff8, 0x10000)

	for r := start; r < stop; r += 8 {
		addrToBuf(uint16(r), buf[0:4])
		for i, c1, c2 := uint32(0), 6, 32; i < 8; i, c1, c2 = i+1, c1+3, c2+1 {
			a := r + i
			if a >= uint32(addr0) && a <= addr1 {
				m := h.mem.LoadByte(uint16(a))
				byteToBuf(m, buf[c1:c1+2])
				buf[c2] = toPrintableChar(m)
			} else {
				buf[c1] = ' '
				buf[c1+1] = ' '
				buf[c2] = ' '
			}
		}
		h.println(strings.TrimRight(string(buf), " "))
	}
}

func (h *Host) displayUsage(c *command) {
	if c.usage != "" {
		h.printf("Syntax: %s\n", c.usage)
	} else {
		h.println("<no help text>")
	}
}

func (h *Host) onBreakpoint(b *cpu.Breakpoint) {
	h.state = stateBreakpoint
	h.printf("Breakpoint hit at $%04X.\n", b.Address)
	h.displayPC()
}

func (h *Host) onDataBreakpoint(c *cpu.CPU, b *cpu.DataBreakpoint) {
	h.state = stateBreakpoint
	h.printf("Data breakpoint hit on address $%04X.\n", b.Address)

	if c.LastPC != c.Reg.PC {
		d, _ := h.disassemble(c.LastPC, 0)
		h.println(d)
	}
}

func (h *Host) onStackWrap(c *cpu.CPU, push bool) {
	h.state = stateBreakpoint
	if push {
		h.printf("Stack pointer wrapped from $00 to $FF at $%04X.\n", c.LastPC)
	} else {
		h.printf("Stack pointer wrapped from $FF to $00 at $%04X.\n", c.LastPC)
	}
}

func enabledString(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}
