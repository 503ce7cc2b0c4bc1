// Package teletype wraps stdin/stdout for the sdk85's serial/teletype front
// end: raw terminal mode so the monitor's own line editing sees every
// keystroke unfiltered by the host OS, and the LF-to-CR translation the
// monitor's serial input routine expects.
package teletype

import (
	"bufio"
	"fmt"
	"os"

	"golang.org/x/term"
)

// Terminal puts stdin into raw mode for the duration of a serial-mode
// session and restores it on Close, mirroring the original's
// serial_resume/serial_pause termios dance without shelling out to stty.
type Terminal struct {
	fd       int
	oldState *term.State
	in       *bufio.Reader
}

// Open switches os.Stdin into raw mode and returns a Terminal ready to read
// bytes for the serial channel's Input side.
func Open() (*Terminal, error) {
	fd := int(os.Stdin.Fd())
	old, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("teletype: failed to set raw mode: %w", err)
	}
	return &Terminal{fd: fd, oldState: old, in: bufio.NewReader(os.Stdin)}, nil
}

// Close restores the terminal to its prior state.
func (t *Terminal) Close() error {
	return term.Restore(t.fd, t.oldState)
}

// Pause temporarily restores canonical mode and echo so the debugger REPL
// can read whole lines; Resume undoes it when the emulator continues.
func (t *Terminal) Pause() error {
	return term.Restore(t.fd, t.oldState)
}

// Resume puts the terminal back into raw mode after a Pause.
func (t *Terminal) Resume() error {
	_, err := term.MakeRaw(t.fd)
	return err
}

// ReadByte reads one raw byte from stdin, converting a line feed to a
// carriage return exactly as the monitor's serial input routine expects
// (serial.Channel.Input repeats the same conversion for callers that don't
// go through a Terminal).
func (t *Terminal) ReadByte() (byte, error) {
	b, err := t.in.ReadByte()
	if err != nil {
		return 0, err
	}
	if b == '\n' {
		b = '\r'
	}
	return b, nil
}

// Write sends output bytes to stdout unmodified.
func (t *Terminal) Write(p []byte) (int, error) {
	return os.Stdout.Write(p)
}
