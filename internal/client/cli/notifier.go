package cli

import (
	"fmt"
	"io"
	"sync"
)

// LineNotifier writes each failure notification as one line.
type LineNotifier struct {
	mu    sync.Mutex
	w     io.Writer
	count int
}

func NewLineNotifier(w io.Writer) *LineNotifier {
	return &LineNotifier{w: w}
}

func (n *LineNotifier) Notify(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.count++
	fmt.Fprintln(n.w, message)
}

// Count returns how many notifications were written.
func (n *LineNotifier) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.count
}
