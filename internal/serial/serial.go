// Package serial implements the sdk85's bit-banged 110-baud serial channel:
// independent transmit and receive state machines clocked by the CPU's
// cycle counter rather than a real UART. The CPU's SOD output pin drives
// the transmit side; the receive side drives the CPU's SID input pin.
package serial

import "io"

// Serial runs at 110 baud: a bit changes roughly every 9,100,000ns, and the
// CPU spends about 330ns per cycle, so a bit is 9,100,000/330 ≈ 27575
// cycles wide. Sampling once every 1000 cycles gives 27 samples per bit.
const (
	sampleLimit      = 27
	cycleCatchupSkip = 1000
	dataBits         = 7
)

type state int

const (
	idle state = iota
	startBit
	dataBit
	stopBit
)

// Channel holds the independent transmit and receive state machines.
type Channel struct {
	catchupCycles uint64

	outState    state
	outDataBit  int
	outSampleNo int
	outSamples  int
	outByte     uint8

	inState    state
	inDataBit  int
	inSampleNo int
	inByte     uint8
}

// New returns a Channel with both directions idle.
func New() *Channel {
	return &Channel{}
}

// Input latches a byte to transmit to the CPU's SID line, converting a
// line-feed to a carriage return as the monitor expects for command entry.
// A byte arriving while the receive side is busy is dropped, matching the
// original's "only latch from idle" behavior — callers are expected to feed
// one byte per completed receive cycle.
func (c *Channel) Input(b byte) {
	if c.inState != idle {
		return
	}
	if b == '\n' {
		b = '\r'
	}
	c.inByte = b
	c.inSampleNo = 0
	c.inState = startBit
}

// Execute advances both state machines by one sample block once cpuCycles
// has reached the next catch-up boundary (at most one block per call),
// sampling sod (the CPU's SOD output pin) for transmission and returning
// the value to drive onto the CPU's SID input pin. When a full byte
// finishes transmitting it is written to out.
func (c *Channel) Execute(cpuCycles uint64, sod bool, out io.Writer) bool {
	if cpuCycles < c.catchupCycles {
		return c.sid()
	}
	c.catchupCycles += cycleCatchupSkip

	c.executeOutput(sod, out)
	return c.executeInput()
}

func (c *Channel) executeOutput(sod bool, out io.Writer) {
	switch c.outState {
	case idle:
		if sod {
			c.outSampleNo = 0
			c.outState = startBit
		}

	case startBit:
		c.outSampleNo++
		if c.outSampleNo >= sampleLimit {
			c.outSampleNo = 0
			c.outSamples = 0
			c.outDataBit = 0
			c.outByte = 0
			c.outState = dataBit
		}

	case dataBit:
		if sod {
			c.outSamples++
		}
		c.outSampleNo++
		if c.outSampleNo >= sampleLimit {
			if c.outSamples < sampleLimit/2 {
				c.outByte += 1 << uint(c.outDataBit)
			}
			c.outSampleNo = 0
			c.outSamples = 0
			c.outDataBit++
			if c.outDataBit >= dataBits {
				c.outState = stopBit
			}
		}

	case stopBit:
		c.outSampleNo++
		if c.outSampleNo >= sampleLimit {
			if out != nil {
				out.Write([]byte{c.outByte})
			}
			c.outState = idle
		}
	}
}

func (c *Channel) executeInput() bool {
	switch c.inState {
	case startBit:
		c.inSampleNo++
		if c.inSampleNo >= sampleLimit {
			c.inSampleNo = 0
			c.inDataBit = 0
			c.inState = dataBit
		}
		return false

	case dataBit:
		sid := (c.inByte>>uint(c.inDataBit))&1 != 0
		c.inSampleNo++
		if c.inSampleNo >= sampleLimit {
			c.inSampleNo = 0
			c.inDataBit++
			if c.inDataBit >= dataBits {
				c.inState = stopBit
			}
		}
		return sid

	case stopBit:
		c.inSampleNo++
		if c.inSampleNo >= sampleLimit {
			c.inState = idle
		}
		return true

	default: // idle
		return true
	}
}

// sid reports the SID level for the receive side's current state and bit
// position without advancing state, used when Execute is called before the
// next catch-up boundary.
func (c *Channel) sid() bool {
	switch c.inState {
	case dataBit:
		return (c.inByte>>uint(c.inDataBit))&1 != 0
	case startBit:
		return false
	default:
		return true
	}
}

// Idle reports whether the receive side is ready to accept a new Input
// byte.
func (c *Channel) Idle() bool {
	return c.inState == idle
}
