package uploader

import (
	"math"
	"sync"
)

// transferShare is the part of the bar owned by the byte transfer. The rest
// is reserved for the finalize acknowledgement.
const transferShare = 95

// transferPercent maps bytes sent to the [0, transferShare] range.
func transferPercent(sent, total int64) int {
	if total <= 0 {
		return 0
	}
	p := int(math.Round(float64(sent) / float64(total) * transferShare))
	return min(max(p, 0), transferShare)
}

// registrySink forwards strictly increasing percentages for one item.
type registrySink struct {
	registry Registry
	id       string

	mu   sync.Mutex
	last int
}

func newRegistrySink(r Registry, id string) *registrySink {
	return &registrySink{registry: r, id: id, last: -1}
}

func (s *registrySink) OnProgress(percent int) {
	percent = min(max(percent, 0), transferShare)

	s.mu.Lock()
	defer s.mu.Unlock()
	if percent <= s.last {
		return
	}
	s.last = percent
	s.registry.ReportProgress(s.id, percent)
}
