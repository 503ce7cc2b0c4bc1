package timer8155

import "testing"

func TestCommandStartStop(t *testing.T) {
	c := New()
	c.WritePort(Command, 0b11<<6)
	if !c.Running() {
		t.Fatal("timer not running after start command")
	}
	c.WritePort(Command, 0b01<<6)
	if c.Running() {
		t.Fatal("timer still running after stop command")
	}
}

func TestCommandOtherBitsIgnored(t *testing.T) {
	c := New()
	c.WritePort(Command, 0b11<<6)
	c.WritePort(Command, 0b00<<6) // neither 01 nor 11: ignored
	if !c.Running() {
		t.Fatal("running flag changed by a non-start/stop command pattern")
	}
}

func TestTimerLoadLowHigh(t *testing.T) {
	c := New()
	c.WritePort(TimerLow, 0xAB)
	c.WritePort(TimerHigh, 0xFF) // upper 2 bits must be discarded
	if got, want := c.Timer(), uint16(0x3FAB); got != want {
		t.Errorf("Timer() = %04X, want %04X", got, want)
	}
}

func TestTimerLowPreservesHigh(t *testing.T) {
	c := New()
	c.WritePort(TimerHigh, 0x3F)
	c.WritePort(TimerLow, 0x01)
	if got, want := c.Timer(), uint16(0x3F01); got != want {
		t.Errorf("Timer() = %04X, want %04X", got, want)
	}
}

func TestReadPortAlwaysFF(t *testing.T) {
	c := New()
	for _, p := range []uint8{Command, TimerLow, TimerHigh, 0x99} {
		if got := c.ReadPort(p); got != 0xFF {
			t.Errorf("ReadPort(%02X) = %02X, want 0xFF", p, got)
		}
	}
}

func TestUnderflowDelaysTrapByOneCall(t *testing.T) {
	c := New()
	c.WritePort(TimerLow, 0x02)
	c.WritePort(TimerHigh, 0x00)
	c.WritePort(Command, 0b11<<6)

	// Three Execute calls needed to walk 2 -> 1 -> 0 (underflow, trap
	// latched, no fire) -> trap fires on the following call.
	if fired := c.Execute(1); fired {
		t.Fatal("trap fired on first decrement")
	}
	if fired := c.Execute(2); fired {
		t.Fatal("trap fired on second decrement")
	}
	if fired := c.Execute(3); fired {
		t.Fatal("trap fired on the underflowing call itself")
	}
	if fired := c.Execute(4); !fired {
		t.Fatal("trap did not fire on the call following underflow")
	}
	if c.Running() {
		t.Fatal("timer still running after underflow")
	}
}

func TestExecuteCatchesUpInBulk(t *testing.T) {
	c := New()
	c.WritePort(TimerLow, 0x05)
	c.WritePort(Command, 0b11<<6)

	// A single Execute call covering many cycles should walk the counter
	// down the same way as many small calls.
	fired := c.Execute(5)
	if fired {
		t.Fatal("trap fired before timer should have underflowed")
	}
	if got, want := c.Timer(), uint16(0); got != want {
		t.Errorf("Timer() = %d, want %d", got, want)
	}
	// The underflow itself is only detected on the next call (it latches
	// trapPending but doesn't fire), and the call after that fires it.
	if fired := c.Execute(6); fired {
		t.Fatal("trap fired on the call that detects the underflow")
	}
	if fired := c.Execute(7); !fired {
		t.Fatal("trap did not fire on the call following underflow detection")
	}
}

func TestStoppedTimerNeverTraps(t *testing.T) {
	c := New()
	c.WritePort(TimerLow, 0x01)
	// Never started.
	for cycles := uint64(1); cycles <= 100; cycles++ {
		if fired := c.Execute(cycles); fired {
			t.Fatalf("stopped timer fired TRAP at cycle %d", cycles)
		}
	}
}
