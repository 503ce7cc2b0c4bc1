package display8279

import "testing"

func TestFIFOReadClearsStatus(t *testing.T) {
	c := New()
	c.keyboardFIFO = 0x05
	c.statusWord = 0x01

	if got := c.ReadHook(0x1800); got != 0x05 {
		t.Errorf("ReadHook(FIFO) = %#02x, want 0x05", got)
	}
	if got := c.ReadHook(0x1900); got != 0x00 {
		t.Errorf("status after FIFO read = %#02x, want 0x00", got)
	}
}

func TestDisplayDataAutoIncrement(t *testing.T) {
	c := New()
	c.WriteHook(0x1900, 0b100_1_0000) // Write Display RAM, auto-increment, index 0
	c.WriteHook(0x1800, 0x11)
	c.WriteHook(0x1800, 0x22)

	ram := c.DisplayRAM()
	if ram[0] != 0x11 || ram[1] != 0x22 {
		t.Errorf("display RAM = %v, want [0x11 0x22 ...]", ram[:2])
	}
}

func TestDisplayDataWrapsAtLimit(t *testing.T) {
	c := New() // default limit is 8
	c.WriteHook(0x1900, 0b100_1_0111) // index 7, auto-increment
	c.WriteHook(0x1800, 0xAA)         // lands at 7, wraps to 0
	c.WriteHook(0x1800, 0xBB)

	ram := c.DisplayRAM()
	if ram[7] != 0xAA {
		t.Errorf("ram[7] = %#02x, want 0xAA", ram[7])
	}
	if ram[0] != 0xBB {
		t.Errorf("ram[0] = %#02x, want 0xBB (wrapped)", ram[0])
	}
}

func TestCommandClear(t *testing.T) {
	c := New()
	c.displayRAM[3] = 0x00
	c.WriteHook(0x1900, 0b110_0_11_00) // Clear, blank code all-ones
	if c.displayRAM[3] != 0xFF {
		t.Errorf("displayRAM[3] after clear = %#02x, want 0xFF", c.displayRAM[3])
	}
}

func TestInjectQueueOrder(t *testing.T) {
	c := New()
	c.Inject("1A")

	if key := c.Poll(nil); key != KeyFIFO {
		t.Fatalf("first Poll = %v, want KeyFIFO", key)
	}
	if c.keyboardFIFO != 0x1 {
		t.Errorf("first injected scancode = %#x, want 0x1", c.keyboardFIFO)
	}

	// FIFO not yet read: status word still set, so the second injected
	// character must wait.
	if key := c.Poll(nil); key != KeyNone {
		t.Fatalf("Poll before FIFO read = %v, want KeyNone", key)
	}

	c.ReadHook(0x1800) // host reads the scancode, clearing status

	if key := c.Poll(nil); key != KeyFIFO {
		t.Fatalf("second Poll = %v, want KeyFIFO", key)
	}
	if c.keyboardFIFO != 0xA {
		t.Errorf("second injected scancode = %#x, want 0xA", c.keyboardFIFO)
	}
}
