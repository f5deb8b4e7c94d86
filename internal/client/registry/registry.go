package registry

import (
	"slices"
	"sync"
)

type Registry struct {
	mu    sync.Mutex
	items map[string]*Item
	order []string

	// emitMu is taken before mu is released, so events reach listeners in
	// the order the mutations were applied.
	emitMu sync.Mutex

	lmu       sync.RWMutex
	listeners map[uint64]Listener
	nextLID   uint64
}

func New() *Registry {
	return &Registry{
		items:     make(map[string]*Item),
		listeners: make(map[uint64]Listener),
	}
}

// Register inserts a pending item with zero progress. The caller guarantees
// id is unique; items are never merged by file name.
func (r *Registry) Register(id, fileName string, fileSize int64) {
	r.mu.Lock()
	if _, exists := r.items[id]; !exists {
		r.order = append(r.order, id)
	}
	it := &Item{ID: id, FileName: fileName, FileSize: fileSize, Status: StatusPending}
	r.items[id] = it
	snapshot := *it
	r.emitMu.Lock()
	r.mu.Unlock()

	r.emit(Event{Kind: EventRegistered, Item: snapshot})
	r.emitMu.Unlock()
}

// ReportProgress marks the item uploading with the given percentage.
// The value is stored as given; range checking is the caller's job.
func (r *Registry) ReportProgress(id string, progress int) {
	r.mu.Lock()
	it, ok := r.items[id]
	if !ok || it.Status.Terminal() {
		r.mu.Unlock()
		return
	}
	it.Status = StatusUploading
	it.Progress = progress
	snapshot := *it
	r.emitMu.Lock()
	r.mu.Unlock()

	r.emit(Event{Kind: EventProgress, Item: snapshot})
	r.emitMu.Unlock()
}

// ReportStatus moves the item to status. Completed forces progress to 100;
// failed records errMsg and keeps the last progress. errMsg is ignored for
// any other status.
func (r *Registry) ReportStatus(id string, status Status, errMsg string) {
	r.mu.Lock()
	it, ok := r.items[id]
	if !ok || it.Status.Terminal() {
		r.mu.Unlock()
		return
	}
	it.Status = status
	it.Error = ""
	switch status {
	case StatusCompleted:
		it.Progress = 100
	case StatusFailed:
		it.Error = errMsg
	}
	snapshot := *it
	r.emitMu.Lock()
	r.mu.Unlock()

	r.emit(Event{Kind: EventStatus, Item: snapshot})
	r.emitMu.Unlock()
}

// Remove deletes the item. Removing an unknown id is a no-op.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	it, ok := r.items[id]
	if !ok {
		r.mu.Unlock()
		return
	}
	snapshot := *it
	delete(r.items, id)
	r.order = slices.DeleteFunc(r.order, func(s string) bool { return s == id })
	r.emitMu.Lock()
	r.mu.Unlock()

	r.emit(Event{Kind: EventRemoved, Item: snapshot})
	r.emitMu.Unlock()
}

// ClearCompleted removes every completed item and leaves all others.
func (r *Registry) ClearCompleted() {
	r.mu.Lock()
	var removed []Item
	kept := r.order[:0]
	for _, id := range r.order {
		it := r.items[id]
		if it.Status == StatusCompleted {
			removed = append(removed, *it)
			delete(r.items, id)
			continue
		}
		kept = append(kept, id)
	}
	r.order = kept
	r.emitMu.Lock()
	r.mu.Unlock()

	for _, it := range removed {
		r.emit(Event{Kind: EventRemoved, Item: it})
	}
	r.emitMu.Unlock()
}

// ActiveCount returns the number of pending or uploading items. It is
// computed on every call.
func (r *Registry) ActiveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, it := range r.items {
		if it.Status.Active() {
			n++
		}
	}
	return n
}

// Get returns a copy of the item with the given id.
func (r *Registry) Get(id string) (Item, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	it, ok := r.items[id]
	if !ok {
		return Item{}, false
	}
	return *it, true
}

// Items returns copies of all items in registration order.
func (r *Registry) Items() []Item {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Item, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.items[id])
	}
	return out
}

// Len returns the number of items.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Subscribe registers l for all future events and returns a function that
// unregisters it.
func (r *Registry) Subscribe(l Listener) (unsubscribe func()) {
	r.lmu.Lock()
	id := r.nextLID
	r.nextLID++
	r.listeners[id] = l
	r.lmu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.lmu.Lock()
			delete(r.listeners, id)
			r.lmu.Unlock()
		})
	}
}

func (r *Registry) emit(e Event) {
	r.lmu.RLock()
	ls := make([]Listener, 0, len(r.listeners))
	for _, l := range r.listeners {
		ls = append(ls, l)
	}
	r.lmu.RUnlock()

	for _, l := range ls {
		l(e)
	}
}
