// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import "github.com/beevik/cmd"

type handlerFunc func(h *Host, c selection) error

// A selection is a command chosen by the user along with its arguments.
type selection struct {
	cmd  *command
	args []string
}

// A command is the help and dispatch information registered for a host
// command.
type command struct {
	name        string
	brief       string
	description string
	usage       string
	fn          handlerFunc
}

var cmds *cmd.Tree

func addCommand(t *cmd.Tree, c command) {
	t.AddCommand(cmd.CommandDescriptor{
		Name:        c.name,
		Brief:       c.brief,
		Description: c.description,
		Usage:       c.usage,
		Data:        &c,
	})
}

func init() {
	root := cmd.NewTree(cmd.TreeDescriptor{Name: "nes6502"})

	addCommand(root, command{
		name:        "help",
		brief:       "Display help",
		description: "Display help for a command.",
		usage:       "help [<command>]",
		fn:          (*Host).cmdHelp,
	})

	// Breakpoint commands
	bp := root.AddSubtree(cmd.TreeDescriptor{Name: "breakpoint", Brief: "Breakpoint commands"})
	addCommand(bp, command{
		name:        "list",
		brief:       "List breakpoints",
		description: "List all current breakpoints.",
		usage:       "breakpoint list",
		fn:          (*Host).cmdBreakpointList,
	})
	addCommand(bp, command{
		name:  "add",
		brief: "Add a breakpoint",
		description: "Add a breakpoint at the specified address." +
			" The breakpoint starts enabled.",
		usage: "breakpoint add <address>",
		fn:    (*Host).cmdBreakpointAdd,
	})
	addCommand(bp, command{
		name:        "remove",
		brief:       "Remove a breakpoint",
		description: "Remove a breakpoint at the specified address.",
		usage:       "breakpoint remove <address>",
		fn:          (*Host).cmdBreakpointRemove,
	})
	addCommand(bp, command{
		name:        "enable",
		brief:       "Enable a breakpoint",
		description: "Enable a previously added breakpoint.",
		usage:       "breakpoint enable <address>",
		fn:          (*Host).cmdBreakpointEnable,
	})
	addCommand(bp, command{
		name:  "disable",
		brief: "Disable a breakpoint",
		description: "Disable a previously added breakpoint. This" +
			" prevents the breakpoint from being hit when running the" +
			" CPU.",
		usage: "breakpoint disable <address>",
		fn:    (*Host).cmdBreakpointDisable,
	})

	// Data breakpoint commands
	db := root.AddSubtree(cmd.TreeDescriptor{Name: "databreakpoint", Brief: "Data breakpoint commands"})
	addCommand(db, command{
		name:        "list",
		brief:       "List data breakpoints",
		description: "List all current data breakpoints.",
		usage:       "databreakpoint list",
		fn:          (*Host).cmdDataBreakpointList,
	})
	addCommand(db, command{
		name:  "add",
		brief: "Add a data breakpoint",
		description: "Add a new data breakpoint at the specified" +
			" memory address. When the CPU stores data at this address, the" +
			" breakpoint will stop the CPU. Optionally, a byte" +
			" value may be specified, and the CPU will stop only" +
			" when this value is stored.",
		usage: "databreakpoint add <address> [<value>]",
		fn:    (*Host).cmdDataBreakpointAdd,
	})
	addCommand(db, command{
		name:        "remove",
		brief:       "Remove a data breakpoint",
		description: "Remove a previously added data breakpoint.",
		usage:       "databreakpoint remove <address>",
		fn:          (*Host).cmdDataBreakpointRemove,
	})
	addCommand(db, command{
		name:        "enable",
		brief:       "Enable a data breakpoint",
		description: "Enable a previously added data breakpoint.",
		usage:       "databreakpoint enable <address>",
		fn:          (*Host).cmdDataBreakpointEnable,
	})
	addCommand(db, command{
		name:        "disable",
		brief:       "Disable a data breakpoint",
		description: "Disable a previously added data breakpoint.",
		usage:       "databreakpoint disable <address>",
		fn:          (*Host).cmdDataBreakpointDisable,
	})

	addCommand(root, command{
		name:  "disassemble",
		brief: "Disassemble code",
		description: "Disassemble machine code starting at the requested" +
			" address. The number of instruction lines to disassemble may be" +
			" specified as an option. If no address is specified, the" +
			" disassembly continues from where the last disassembly left off." +
			" Undocumented opcodes are marked with '*'.",
		usage: "disassemble [<address>] [<lines>]",
		fn:    (*Host).cmdDisassemble,
	})

	// Interrupt commands
	in := root.AddSubtree(cmd.TreeDescriptor{Name: "interrupt", Brief: "Interrupt line commands"})
	addCommand(in, command{
		name:  "nmi",
		brief: "Signal a non-maskable interrupt",
		description: "Latch a non-maskable interrupt. The CPU services it" +
			" before the next instruction.",
		usage: "interrupt nmi",
		fn:    (*Host).cmdInterruptNMI,
	})
	addCommand(in, command{
		name:  "irq",
		brief: "Set the IRQ line",
		description: "Assert or release the maskable interrupt line. While" +
			" asserted, the CPU services an IRQ whenever the interrupt" +
			" disable flag is clear. Without an argument, the line state" +
			" is displayed.",
		usage: "interrupt irq [on|off]",
		fn:    (*Host).cmdInterruptIRQ,
	})

	addCommand(root, command{
		name:  "load",
		brief: "Load a binary file",
		description: "Load the contents of a raw binary file into the" +
			" emulated system's memory at the specified address, and set" +
			" the program counter to that address.",
		usage: "load <filename> <address>",
		fn:    (*Host).cmdLoad,
	})

	// Memory commands
	me := root.AddSubtree(cmd.TreeDescriptor{Name: "memory", Brief: "Memory commands"})
	addCommand(me, command{
		name:  "dump",
		brief: "Dump memory at address",
		description: "Dump the contents of memory starting from the" +
			" specified address. The number of bytes to dump may be" +
			" specified as an option. If no address is specified, the" +
			" memory dump continues from where the last dump left off.",
		usage: "memory dump [<address>] [<bytes>]",
		fn:    (*Host).cmdMemoryDump,
	})
	addCommand(me, command{
		name:  "set",
		brief: "Set memory at address",
		description: "Set the contents of memory starting from the specified" +
			" address. The values to assign should be a series of" +
			" space-separated byte values.",
		usage: "memory set <address> <byte> [<byte> ...]",
		fn:    (*Host).cmdMemorySet,
	})

	addCommand(root, command{
		name:        "quit",
		brief:       "Quit the program",
		description: "Quit the program.",
		usage:       "quit",
		fn:          (*Host).cmdQuit,
	})
	addCommand(root, command{
		name:  "register",
		brief: "View or change register values",
		description: "When used without arguments, this command displays the current" +
			" contents of the CPU registers. When used with arguments, this" +
			" command changes the value of a register or one of the CPU's status" +
			" flags. Allowed register names include A, X, Y, PC and SP. Allowed status" +
			" flag names include N (Sign), Z (Zero), C (Carry), I (InterruptDisable)," +
			" D (Decimal) and V (Overflow).",
		usage: "register [<name> <value>]",
		fn:    (*Host).cmdRegister,
	})
	addCommand(root, command{
		name:  "reset",
		brief: "Reset the CPU",
		description: "Run the CPU reset sequence. The program counter is" +
			" loaded from the reset vector at $FFFC.",
		usage: "reset",
		fn:    (*Host).cmdReset,
	})
	addCommand(root, command{
		name:  "run",
		brief: "Run the CPU",
		description: "Run the CPU until a breakpoint is hit, the CPU jams," +
			" the stack wraps (if StackWatch is set), the RunLimit number of" +
			" instructions has executed, or the user types Ctrl-C.",
		usage: "run",
		fn:    (*Host).cmdRun,
	})
	addCommand(root, command{
		name:  "set",
		brief: "Set a configuration variable",
		description: "Set the value of a configuration variable. To see the" +
			" current values of all configuration variables, type set" +
			" without any arguments.",
		usage: "set [<var> <value>]",
		fn:    (*Host).cmdSet,
	})

	// Snapshot commands
	sn := root.AddSubtree(cmd.TreeDescriptor{Name: "snapshot", Brief: "CPU snapshot commands"})
	addCommand(sn, command{
		name:  "save",
		brief: "Save a CPU snapshot",
		description: "Save the CPU registers, cycle count and interrupt" +
			" state under a name. Memory is not included.",
		usage: "snapshot save <name>",
		fn:    (*Host).cmdSnapshotSave,
	})
	addCommand(sn, command{
		name:        "restore",
		brief:       "Restore a CPU snapshot",
		description: "Restore a previously saved CPU snapshot.",
		usage:       "snapshot restore <name>",
		fn:          (*Host).cmdSnapshotRestore,
	})
	addCommand(sn, command{
		name:        "list",
		brief:       "List CPU snapshots",
		description: "List all saved CPU snapshots.",
		usage:       "snapshot list",
		fn:          (*Host).cmdSnapshotList,
	})

	// Step commands
	st := root.AddSubtree(cmd.TreeDescriptor{Name: "step", Brief: "Step the CPU"})
	addCommand(st, command{
		name:  "in",
		brief: "Step into next instruction",
		description: "Step the CPU by a single instruction. If the" +
			" instruction is a subroutine call, step into the subroutine." +
			" The number of steps may be specified as an option.",
		usage: "step in [<count>]",
		fn:    (*Host).cmdStepIn,
	})

	// Add command shortcuts.
	root.AddShortcut("b", "breakpoint")
	root.AddShortcut("bp", "breakpoint")
	root.AddShortcut("ba", "breakpoint add")
	root.AddShortcut("br", "breakpoint remove")
	root.AddShortcut("bl", "breakpoint list")
	root.AddShortcut("be", "breakpoint enable")
	root.AddShortcut("bd", "breakpoint disable")
	root.AddShortcut("d", "disassemble")
	root.AddShortcut("db", "databreakpoint")
	root.AddShortcut("dbp", "databreakpoint")
	root.AddShortcut("dbl", "databreakpoint list")
	root.AddShortcut("dba", "databreakpoint add")
	root.AddShortcut("dbr", "databreakpoint remove")
	root.AddShortcut("dbe", "databreakpoint enable")
	root.AddShortcut("dbd", "databreakpoint disable")
	root.AddShortcut("m", "memory dump")
	root.AddShortcut("ms", "memory set")
	root.AddShortcut("nmi", "interrupt nmi")
	root.AddShortcut("irq", "interrupt irq")
	root.AddShortcut("r", "register")
	root.AddShortcut("s", "step in")
	root.AddShortcut("si", "step in")
	root.AddShortcut("ss", "snapshot save")
	root.AddShortcut("sr", "snapshot restore")
	root.AddShortcut("?", "help")
	root.AddShortcut(".", "register")

	cmds = root
}
