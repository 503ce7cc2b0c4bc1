// Command sdk85 hosts the Intel 8085 single-board trainer emulator: it
// wires the CPU core to a ROM/RAM bus, the 8155 timer, and either the
// 110-baud serial channel or the 8279 keyboard/display controller, then
// drives the step cadence: step the CPU, advance the 8155, poll the
// active front end, and fall into the debugger on a breakpoint, SIGINT,
// or an unhandled opcode.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/nsf/termbox-go"

	"github.com/jmchacon/sdk85/internal/bus"
	"github.com/jmchacon/sdk85/internal/cpu"
	"github.com/jmchacon/sdk85/internal/debugger"
	"github.com/jmchacon/sdk85/internal/display8279"
	"github.com/jmchacon/sdk85/internal/hexload"
	"github.com/jmchacon/sdk85/internal/ioport"
	"github.com/jmchacon/sdk85/internal/irq"
	"github.com/jmchacon/sdk85/internal/serial"
	"github.com/jmchacon/sdk85/internal/teletype"
	"github.com/jmchacon/sdk85/internal/timer8155"
	"github.com/jmchacon/sdk85/internal/trace"
)

const defaultMonitorHexFile = "monitor.hex"

var (
	debugBreakFlag = flag.Bool("d", false, "Break into debugger on start.")
	serialMode     = flag.Bool("s", false, "Run in serial mode instead of display/keyboard mode.")
	expansionFile  = flag.String("e", "", "Load additional expansion ROM from HEX FILE.")
	keyboardInject = flag.String("i", "", "Inject keyboard data STRING in display/keyboard mode.")
)

// Monitor ROM wait-loop addresses the host polls its front end at: the
// serial input wait and the two keypad scan waits.
const (
	serialInputWait = 0x0590
	displayWaitA    = 0x02E7
	displayWaitB    = 0x05F7
)

func main() {
	flag.Usage = usage
	flag.Parse()

	monitorPath := defaultMonitorHexFile
	if flag.NArg() > 0 {
		monitorPath = flag.Arg(0)
	}

	b := bus.New()
	if err := loadHex(b, monitorPath); err != nil {
		log.Fatalf("Error loading monitor HEX file: %v", err)
	}
	if *expansionFile != "" {
		if err := loadHex(b, *expansionFile); err != nil {
			log.Fatalf("Error loading expansion HEX file: %v", err)
		}
	}

	ports := &ioport.Table{}
	timer := timer8155.New()
	ports.Bind(timer8155.Command, timer)
	ports.Bind(timer8155.TimerLow, timer)
	ports.Bind(timer8155.TimerHigh, timer)

	chip, err := cpu.Init(&cpu.ChipDef{Bus: b, Ports: ports})
	if err != nil {
		log.Fatalf("Error initializing CPU: %v", err)
	}

	var disp *display8279.Chip
	var events <-chan termbox.Event
	var serialChan *serial.Channel
	var tty *teletype.Terminal

	if *serialMode {
		chip.SetSID(true)
		serialChan = serial.New()
		tty, err = teletype.Open()
		if err != nil {
			log.Fatalf("Error opening terminal for serial mode: %v", err)
		}
		defer tty.Close()
	} else {
		if err := termbox.Init(); err != nil {
			log.Fatalf("Error initializing display: %v", err)
		}
		defer termbox.Close()
		disp = display8279.New()
		b.BindHook(bus.KeyboardFIFO, disp)
		b.BindHook(bus.Status, disp)
		events = display8279.Events()
		disp.Render()
		if *keyboardInject != "" {
			disp.Inject(*keyboardInject)
		}
	}

	tr := trace.New(trace.Capacity)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)

	var (
		breakpoint = int32(-1)
		debugBreak = *debugBreakFlag
		panicMsg   string
	)
	repl := debugger.New(os.Stdin, os.Stdout, b, tr)

	for {
		if err := chip.Step(); err != nil {
			panicMsg = err.Error()
			debugBreak = true
		}
		tr.Record(fmt.Sprintf("PC=%04X A=%02X BC=%04X DE=%04X HL=%04X F=%02X [%d]",
			chip.PC, chip.A, chip.BC(), chip.DE(), chip.HL(), chip.F, chip.Cycles))

		if timer.Execute(chip.Cycles) {
			chip.Trap()
		}

		if *serialMode {
			if chip.PC == serialInputWait {
				in, err := tty.ReadByte()
				if err != nil {
					return // EOF on stdin ends a serial session cleanly
				}
				serialChan.Input(in)
			}
			sid := serialChan.Execute(chip.Cycles, chip.SOD, tty)
			chip.SetSID(sid)
		} else {
			if chip.PC == displayWaitA || chip.PC == displayWaitB || chip.Halt {
				switch disp.Poll(events) {
				case display8279.KeyFIFO:
					chip.Rst55()
				case display8279.KeyReset:
					chip.Reset()
				case display8279.KeyVectIntr:
					chip.Rst75()
				case display8279.KeyQuit:
					return
				}
				disp.Render()
			}
		}

		select {
		case <-sigCh:
			debugBreak = true
		default:
		}
		if int32(chip.PC) == breakpoint {
			debugBreak = true
		}

		if debugBreak {
			if *serialMode {
				tty.Pause()
			} else {
				termbox.Close()
			}
			if panicMsg != "" {
				fmt.Fprintln(os.Stdout, panicMsg)
				panicMsg = ""
			}
			var timerIRQ irq.Sender = timer
			fmt.Fprintf(os.Stdout, "Timer IRQ pending: %v\n", timerIRQ.Raised())
			step, err := repl.Run(&debugger.State{PC: chip.PC, Breakpoint: &breakpoint})
			if err == debugger.ErrQuit {
				return
			}
			debugBreak = step
			if *serialMode {
				if err := tty.Resume(); err != nil {
					log.Fatalf("Error resuming raw terminal mode: %v", err)
				}
			} else {
				if err := termbox.Init(); err != nil {
					log.Fatalf("Error reinitializing display: %v", err)
				}
				disp.Render()
			}
		}
	}
}

func loadHex(b *bus.Bus, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return hexload.Load(b.ROM(), f)
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <options> <monitor-hex-file>\n", os.Args[0])
	fmt.Fprint(os.Stderr, "Options:\n"+
		"  -h          Display this help.\n"+
		"  -d          Break into debugger on start.\n"+
		"  -s          Run in serial mode instead of display/keyboard mode.\n"+
		"  -e FILE     Load additional expansion ROM from HEX FILE.\n"+
		"  -i STRING   Inject keyboard data STRING in display/keyboard mode.\n\n")
	fmt.Fprintf(os.Stderr, "HEX files should be in Intel format.\n"+
		"If no monitor HEX file is specified then '%s' will be loaded.\n\n", defaultMonitorHexFile)
}
