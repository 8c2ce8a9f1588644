package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode/utf8"
)

// Progress bar rendering constants
const (
	BarWidth      = 30
	BarFilledRune = '█'
	BarEmptyRune  = '░'
)

// Console renders progress and log lines to a terminal. A progress line is
// redrawn in place with a carriage return; log lines push it down.
type Console struct {
	mu           sync.Mutex
	out          io.Writer
	barActive    bool
	lastBarWidth int // display columns, not bytes; the bar runes are multi-byte
}

// NewConsole creates a renderer writing to out
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

// Log prints a plain log line, clearing any active progress bar first
func (c *Console) Log(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearBarLocked()
	fmt.Fprintln(c.out, msg)
}

// Logf prints a formatted log line
func (c *Console) Logf(format string, args ...any) {
	c.Log(fmt.Sprintf(format, args...))
}

// Progress redraws the in-place progress line: a bar, the percentage, and a
// status label (phase, title, playlist counters).
func (c *Console) Progress(fraction float64, label string) {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}

	filled := int(fraction * BarWidth)
	var b strings.Builder
	b.WriteString("\r[")
	for i := 0; i < BarWidth; i++ {
		if i < filled {
			b.WriteRune(BarFilledRune)
		} else {
			b.WriteRune(BarEmptyRune)
		}
	}
	fmt.Fprintf(&b, "] %5.1f%%", fraction*100)
	if label != "" {
		b.WriteString("  ")
		b.WriteString(label)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	line := b.String()
	width := utf8.RuneCountInString(line) - 1 // minus the carriage return
	// Pad over leftovers from a longer previous label
	if pad := c.lastBarWidth - width; pad > 0 {
		line += strings.Repeat(" ", pad)
		width += pad
	}
	fmt.Fprint(c.out, line)
	c.barActive = true
	c.lastBarWidth = width
}

// Done terminates an active progress line so following output starts clean
func (c *Console) Done() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.barActive {
		fmt.Fprintln(c.out)
		c.barActive = false
		c.lastBarWidth = 0
	}
}

func (c *Console) clearBarLocked() {
	if c.barActive {
		fmt.Fprint(c.out, "\r", strings.Repeat(" ", c.lastBarWidth), "\r")
		c.barActive = false
		c.lastBarWidth = 0
	}
}
