// Package irq defines the interface shared by peripherals that can hold an
// interrupt line high for the host loop to observe. It mirrors the
// line-oriented interrupt model of the 8085: a line is either asserted or
// it isn't, and the thing driving it (a timer underflow, a keypress) is
// decoupled from the thing that acts on it (the CPU entry points).
package irq

// Sender reports whether a peripheral currently wants attention.
type Sender interface {
	// Raised indicates whether the interrupt line is currently held high.
	Raised() bool
}
