// Package debugger implements the sdk85's line-oriented debugger REPL:
// quit, help, continue, step, trace dump, memory dump, and breakpoint
// commands over a plain io.Reader/io.Writer pair, grounded on main.c's
// debugger(). A malformed command prints an error and the loop continues;
// nothing here is fatal.
package debugger

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Bus is the subset of bus.Bus the "d" command needs.
type Bus interface {
	Dump(w io.Writer, start, end uint16)
}

// Tracer is the subset of trace.Buffer the "t" command needs.
type Tracer interface {
	Dump(w io.Writer) error
}

// State gives the REPL read access to the CPU's program counter for its
// prompt and lets it report/consume a set breakpoint.
type State struct {
	PC uint16
	// Breakpoint is the current breakpoint address, or -1 if none is set.
	// The REPL both reads it (for the "b" command's no-argument report)
	// and writes it (to set or clear).
	Breakpoint *int32
}

// REPL drives the command loop over in/out.
type REPL struct {
	in    *bufio.Scanner
	out   io.Writer
	bus   Bus
	trace Tracer
}

// New returns a REPL reading commands from in and writing output to out.
func New(in io.Reader, out io.Writer, bus Bus, trace Tracer) *REPL {
	return &REPL{in: bufio.NewScanner(in), out: out, bus: bus, trace: trace}
}

// Run prompts for and executes commands until one returns control to the
// host loop. It reports whether the host should single-step (true) or run
// free (false); on EOF it returns ErrQuit so the caller can exit cleanly.
func (r *REPL) Run(st *State) (step bool, err error) {
	fmt.Fprintln(r.out)
	for {
		fmt.Fprintf(r.out, "\r%04X> ", st.PC)
		if !r.in.Scan() {
			return false, ErrQuit
		}
		fields := strings.Fields(r.in.Text())
		if len(fields) == 0 {
			continue
		}
		switch cmd := fields[0]; {
		case strings.HasPrefix(cmd, "q"):
			return false, ErrQuit
		case strings.HasPrefix(cmd, "h"), cmd == "?":
			r.help()
		case strings.HasPrefix(cmd, "c"):
			return false, nil
		case strings.HasPrefix(cmd, "s"):
			return true, nil
		case strings.HasPrefix(cmd, "t"):
			if err := r.trace.Dump(r.out); err != nil {
				fmt.Fprintf(r.out, "trace dump failed: %v\n", err)
			}
		case strings.HasPrefix(cmd, "d"):
			r.dump(fields)
		case strings.HasPrefix(cmd, "b"):
			r.breakpoint(fields, st)
		default:
			fmt.Fprintf(r.out, "Unknown command: %q (use 'h' for help.)\n", cmd)
		}
	}
}

// ErrQuit is returned by Run when the user quits or closes stdin.
var ErrQuit = fmt.Errorf("debugger: quit")

func (r *REPL) help() {
	fmt.Fprint(r.out, "Commands:\n"+
		"  q              - Quit\n"+
		"  h              - Help\n"+
		"  c              - Continue\n"+
		"  s              - Step\n"+
		"  t              - Dump CPU Trace\n"+
		"  d <addr> [end] - Dump Memory\n"+
		"  b <addr>       - Breakpoint at address.\n")
}

func (r *REPL) dump(fields []string) {
	if len(fields) < 2 {
		fmt.Fprintln(r.out, "Missing argument!")
		return
	}
	start, err := parseAddr(fields[1])
	if err != nil {
		fmt.Fprintln(r.out, "Invalid argument!")
		return
	}
	end := uint32(start) + 0xFF
	if end > 0xFFFF {
		end = 0xFFFF
	}
	if len(fields) >= 3 {
		e, err := parseAddr(fields[2])
		if err != nil {
			fmt.Fprintln(r.out, "Invalid argument!")
			return
		}
		end = uint32(e)
	}
	r.bus.Dump(r.out, start, uint16(end))
}

func (r *REPL) breakpoint(fields []string, st *State) {
	if len(fields) >= 2 {
		addr, err := parseAddr(fields[1])
		if err != nil {
			fmt.Fprintln(r.out, "Invalid argument!")
			return
		}
		*st.Breakpoint = int32(addr)
		fmt.Fprintf(r.out, "Breakpoint at 0x%04X set.\n", addr)
		return
	}
	if *st.Breakpoint < 0 {
		fmt.Fprintln(r.out, "Missing argument!")
		return
	}
	fmt.Fprintf(r.out, "Breakpoint at 0x%04X removed.\n", *st.Breakpoint)
	*st.Breakpoint = -1
}

func parseAddr(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 16, 16)
	return uint16(v), err
}
