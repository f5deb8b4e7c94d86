package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/dmitrijs2005/gcstorage/internal/client/registry"
	"golang.org/x/term"
)

// Panel renders the upload registry. In redraw mode the whole panel is
// repainted in place after every event; otherwise each event prints one line.
type Panel struct {
	reg *registry.Registry
	w   io.Writer

	// Redraw repaints in place using ANSI cursor movement.
	Redraw bool
	// Ticks also prints progress events in line mode.
	Ticks bool
	// Width truncates lines in redraw mode; zero means no limit.
	Width int

	mu    sync.Mutex
	drawn int
}

func NewPanel(w io.Writer, reg *registry.Registry) *Panel {
	return &Panel{reg: reg, w: w, Ticks: true}
}

// TerminalWidth reports whether w is a terminal and, if known, its width.
func TerminalWidth(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0, false
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0, true
	}
	return width, true
}

// Attach subscribes the panel to the registry.
func (p *Panel) Attach() (detach func()) {
	return p.reg.Subscribe(p.handle)
}

func (p *Panel) handle(e registry.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Redraw {
		p.repaint()
		return
	}

	switch e.Kind {
	case registry.EventProgress:
		if !p.Ticks {
			return
		}
		fmt.Fprintln(p.w, FormatItem(e.Item))
	case registry.EventRemoved:
		fmt.Fprintf(p.w, "%s removed\n", e.Item.FileName)
	default:
		fmt.Fprintln(p.w, FormatItem(e.Item))
	}
}

func (p *Panel) repaint() {
	if p.drawn > 0 {
		fmt.Fprintf(p.w, "\x1b[%dA\x1b[J", p.drawn)
	}

	lines := RenderLines(p.reg.ActiveCount(), p.reg.Items())
	for _, l := range lines {
		fmt.Fprintln(p.w, truncate(l, p.Width))
	}
	p.drawn = len(lines)
}

// truncate cuts s to at most width runes. Width <= 0 means no limit.
func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	n := 0
	for i := range s {
		if n == width {
			return s[:i]
		}
		n++
	}
	return s
}

// RenderLines returns the header and one line per item.
func RenderLines(active int, items []registry.Item) []string {
	lines := make([]string, 0, len(items)+1)
	lines = append(lines, fmt.Sprintf("Uploading %d file(s)", active))
	for _, it := range items {
		lines = append(lines, FormatItem(it))
	}
	return lines
}

// FormatItem renders one item as "<name> <status> <progress>%", followed by
// the error of a failed item.
func FormatItem(it registry.Item) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %d%%", it.FileName, it.Status, it.Progress)
	if it.Status == registry.StatusFailed && it.Error != "" {
		fmt.Fprintf(&b, " %s", it.Error)
	}
	return b.String()
}
