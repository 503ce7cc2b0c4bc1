// Package bus implements the sdk85 memory map: a 4 KiB ROM region, a 256
// byte RAM region, and two memory-mapped 8279 registers reachable by exact
// address match. The map is small and fixed, so it is modeled directly
// rather than through a chain of banks.
package bus

import (
	"fmt"
	"io"
)

const (
	// ROMSize is the size in bytes of the ROM/expansion region at 0x0000.
	ROMSize = 0x1000
	// RAMBase is the first address of the RAM region.
	RAMBase = 0x1000
	// RAMSize is the size in bytes of the RAM region.
	RAMSize = 0x100

	// KeyboardFIFO is the 8279 keyboard FIFO (read) / display data (write) register.
	KeyboardFIFO = uint16(0x1800)
	// Status is the 8279 status (read) / command (write) register.
	Status = uint16(0x1900)

	// monitorStartOverride is where the monitor stashes its preferred
	// start address; the stock monitor ROM expects 0x20 preloaded here.
	monitorStartOverride = 0x00BF // offset within RAM
	// nopSlideHalt is an undefined opcode used to stop a NOP-slide dead
	// rather than running off the end of RAM.
	nopSlideHalt = 0x00FF // offset within RAM
)

// Hook is implemented by a memory-mapped peripheral bound at an exact
// address (currently only the 8279 keyboard/display controller).
type Hook interface {
	ReadHook(addr uint16) uint8
	WriteHook(addr uint16, val uint8)
}

// Bus owns the raw ROM/RAM backing storage and routes reads and writes to
// it or to a bound Hook.
type Bus struct {
	rom   [ROMSize]uint8
	ram   [RAMSize]uint8
	hooks map[uint16]Hook
}

// New returns a Bus with ROM filled with 0xFF (matching an erased/unwritten
// EPROM), RAM zeroed (0x00 decodes as NOP), and the monitor's two
// documented preload bytes in place.
func New() *Bus {
	b := &Bus{hooks: make(map[uint16]Hook, 2)}
	for i := range b.rom {
		b.rom[i] = 0xFF
	}
	b.ram[monitorStartOverride] = 0x20
	b.ram[nopSlideHalt] = 0x10
	return b
}

// BindHook installs a peripheral at the given address. Only KeyboardFIFO
// and Status are ever looked up this way; binding any other address is
// harmless but will never be consulted by Read/Write.
func (b *Bus) BindHook(addr uint16, h Hook) {
	b.hooks[addr] = h
}

// Read returns the byte at addr, dispatching to ROM, a bound hook, RAM, or
// the 0xFF floating-bus default for anything else.
func (b *Bus) Read(addr uint16) uint8 {
	switch {
	case addr < ROMSize:
		return b.rom[addr]
	case addr == KeyboardFIFO || addr == Status:
		if h, ok := b.hooks[addr]; ok {
			return h.ReadHook(addr)
		}
		return 0xFF
	case addr >= RAMBase && addr < RAMBase+RAMSize:
		return b.ram[addr-RAMBase]
	default:
		return 0xFF
	}
}

// Write stores val at addr. Writes to ROM are silently dropped. Writes to
// an unmapped address are silently dropped.
func (b *Bus) Write(addr uint16, val uint8) {
	switch {
	case addr < ROMSize:
		// ROM: writes ignored.
	case addr == KeyboardFIFO || addr == Status:
		if h, ok := b.hooks[addr]; ok {
			h.WriteHook(addr, val)
		}
	case addr >= RAMBase && addr < RAMBase+RAMSize:
		b.ram[addr-RAMBase] = val
	}
}

// ROM returns a slice view directly over the ROM backing array, for
// hexload.Load to write into in place; unlike LoadROM this performs no
// per-byte bounds check, so the caller must keep writes within len(rom).
func (b *Bus) ROM() []byte {
	return b.rom[:]
}

// LoadROM pokes val directly into the ROM region, bypassing the
// write-ignored rule above, one byte at a time (the HEX loader writes
// through the ROM slice instead). Addresses outside the ROM region are
// dropped, matching the original loader's out-of-range behavior.
func (b *Bus) LoadROM(addr uint16, val uint8) {
	if int(addr) < len(b.rom) {
		b.rom[addr] = val
	}
}

// Dump writes a 16-byte-per-row hex/ASCII memory dump of [start, end] to w,
// in the style of a classic monitor "d" command.
func (b *Bus) Dump(w io.Writer, start, end uint16) {
	first := int(start) &^ 0xF
	last := int(end)
	for row := first; row <= last; row += 16 {
		fmt.Fprintf(w, "%04X   ", row)
		for i := 0; i < 16; i++ {
			addr := row + i
			if addr >= int(start) && addr <= last {
				fmt.Fprintf(w, "%02X ", b.Read(uint16(addr)))
			} else {
				fmt.Fprint(w, "   ")
			}
			if i%4 == 3 {
				fmt.Fprint(w, " ")
			}
		}
		for i := 0; i < 16; i++ {
			addr := row + i
			if addr >= int(start) && addr <= last {
				v := b.Read(uint16(addr))
				if v >= 0x20 && v < 0x7F {
					fmt.Fprintf(w, "%c", v)
				} else {
					fmt.Fprint(w, ".")
				}
			} else {
				fmt.Fprint(w, " ")
			}
		}
		fmt.Fprintln(w)
	}
}
