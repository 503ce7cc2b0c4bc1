package display8279

import "github.com/nsf/termbox-go"

// segment bit positions within a display-RAM byte, matching the board's
// wiring of the 8279's output lines to a common-cathode 7-segment digit:
// bit0=e, bit1=f, bit2=g, bit3=dp, bit4=a, bit5=b, bit6=c, bit7=d.
const (
	segE = 1 << iota
	segF
	segG
	segDP
	segA
	segB
	segC
	segD
)

// digitCols is the screen column each of the six wired digits starts at;
// the gap between columns 3 and 4 matches the original curses layout's
// split between the two halves of the 6-digit display.
var digitCols = [6]int{0, 8, 16, 24, 40, 48}

// Render draws the six seven-segment digits and the keypad legend to the
// termbox back buffer and flushes it. It must run on the same goroutine
// that owns the termbox session.
func (c *Chip) Render() {
	termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)
	for i, col := range digitCols {
		drawDigit(c.displayRAM[i], 0, col)
	}
	drawKeypad()
	termbox.Flush()
}

func drawDigit(v uint8, y, x int) {
	bar := func(row, col int, lit bool) {
		ch := ' '
		if lit {
			ch = '#'
		}
		termbox.SetCell(x+col, y+row, ch, termbox.ColorDefault, termbox.ColorDefault)
	}
	hbar := func(row int, lit bool) {
		for i := 1; i <= 4; i++ {
			bar(row, i, lit)
		}
	}
	vbar := func(rows [3]int, col int, lit bool) {
		for _, row := range rows {
			bar(row, col, lit)
		}
	}

	hbar(0, v&segA == 0)
	vbar([3]int{1, 2, 3}, 0, v&segF == 0)
	vbar([3]int{1, 2, 3}, 5, v&segB == 0)
	hbar(4, v&segG == 0)
	vbar([3]int{5, 6, 7}, 0, v&segE == 0)
	vbar([3]int{5, 6, 7}, 5, v&segC == 0)
	hbar(8, v&segD == 0)
	bar(8, 6, v&segDP == 0)
}

func drawKeypad() {
	rows := []string{
		"|RESET | VECT |  C   |  D   |  E   |  F   |",
		"|      | INTR |      |      |      |      |",
		"|SINGLE|  GO  |  8   |  9   |  A   |  B   |",
		"| STEP |      |   H  |   L  |      |      |",
		"|SUBST | EXAM |  4   |  5   |  6   |  7   |",
		"| MEM  | REG  | SPH  | SPL  | PCH  | PCL  |",
		"| NEXT | EXEC |  0   |  1   |  2   |  3   |",
		"|  ,   |  .   |      |      |      |   I  |",
	}
	for i, line := range rows {
		writeString(0, 11+i, line)
	}
	help := []string{
		" . = Execute",
		" , = Next",
		" G = Go",
		" M = Substitute Memory",
		" X = Examine Registers",
		" S = Single Step",
		" R = Reset",
		" I = Vectored Interrupt",
		" Q = Quit",
	}
	for i, line := range help {
		writeString(45, 12+i, line)
	}
}

func writeString(x, y int, s string) {
	for i, r := range s {
		termbox.SetCell(x+i, y, r, termbox.ColorDefault, termbox.ColorDefault)
	}
}

// Events starts a background reader that feeds termbox key events into a
// buffered channel, so Poll can consult it without blocking — the Go
// equivalent of the original's timeout(10) non-blocking curses poll.
// Callers must have already called termbox.Init.
func Events() <-chan termbox.Event {
	ch := make(chan termbox.Event, 16)
	go func() {
		for {
			ch <- termbox.PollEvent()
		}
	}()
	return ch
}
