package mosaic

import (
	"io"
	"strings"
	"sync"
)

// progressTicks is the number of quarter marks drawn in the header.
const progressTicks = 4

// ProgressBar draws a fixed-width text progress bar. The first update with
// progress prints a ruler such as "|-------|-------|-------|-------| 100%";
// later updates append '*' until the row is full, then " Done".
//
// ProgressBar is safe for concurrent use.
type ProgressBar struct {
	mu      sync.Mutex
	w       io.Writer
	total   int
	size    int
	done    int
	printed int
}

// NewProgressBar creates a bar of size columns tracking total units of work.
func NewProgressBar(w io.Writer, total, size int) *ProgressBar {
	return &ProgressBar{w: w, total: total, size: max(size, 2)}
}

// Update reports that progress units are complete. Values that do not
// advance the bar are ignored. Write errors are ignored.
func (p *ProgressBar) Update(progress int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if progress <= p.done || p.total <= 0 {
		return
	}
	progress = min(progress, p.total)

	var sb strings.Builder
	if p.done == 0 {
		p.writeHeader(&sb)
	}
	for p.printed*p.total < progress*p.size {
		sb.WriteByte('*')
		p.printed++
	}
	p.done = progress
	if p.done >= p.total {
		sb.WriteString(" Done\n")
	}
	_, _ = io.WriteString(p.w, sb.String())
}

func (p *ProgressBar) writeHeader(sb *strings.Builder) {
	tick := p.size
	sb.WriteByte('|')
	for i := 1; i < p.size-1; i++ {
		if i*progressTicks >= tick {
			sb.WriteByte('|')
			tick += p.size
		} else {
			sb.WriteByte('-')
		}
	}
	sb.WriteString("| 100%\n")
}
