package cli

import (
	"fmt"
	"io"
	"math"
	"strings"

	"golang.org/x/term"
)

// Test seams for terminal detection.
var (
	isTerminal = term.IsTerminal
	termWidth  = func(fd int) int {
		w, _, err := term.GetSize(fd)
		if err != nil {
			return 0
		}
		return w
	}
)

const (
	minBarWidth = 10
	maxBarWidth = 40
	plainStep   = 10
)

// progressRenderer draws upload progress. On a terminal it redraws a bar in
// place; otherwise it prints a line every plainStep percent.
type progressRenderer struct {
	w     io.Writer
	tty   bool
	width int

	lastStep int
	drawn    bool
}

func newProgressRenderer(w io.Writer, fd int) *progressRenderer {
	p := &progressRenderer{w: w, lastStep: -1}
	if isTerminal(fd) {
		p.tty = true
		p.width = barWidth(termWidth(fd))
	}
	return p
}

// barWidth leaves room for the percentage and a short label.
func barWidth(cols int) int {
	w := cols - 40
	if w < minBarWidth {
		return minBarWidth
	}
	if w > maxBarWidth {
		return maxBarWidth
	}
	return w
}

func (p *progressRenderer) render(percent float64, label string) {
	if p.tty {
		filled := int(math.Round(percent / 100 * float64(p.width)))
		bar := strings.Repeat("#", filled) + strings.Repeat(".", p.width-filled)
		fmt.Fprintf(p.w, "\r[%s] %5.1f%% %s", bar, percent, label)
		p.drawn = true
		return
	}

	step := int(percent) / plainStep
	if step == p.lastStep {
		return
	}
	p.lastStep = step
	fmt.Fprintf(p.w, "%s: %d%%\n", label, step*plainStep)
}

// finish ends the in-place bar line.
func (p *progressRenderer) finish() {
	if p.tty && p.drawn {
		fmt.Fprintln(p.w)
	}
}
