package registry

// Status is the lifecycle state of one upload attempt.
type Status string

const (
	StatusPending   Status = "pending"
	StatusUploading Status = "uploading"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Active reports whether the upload is still in flight.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusUploading
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Item is one tracked upload attempt. Items returned by the Registry are
// copies; mutating them has no effect on the registry.
type Item struct {
	ID       string `json:"id"`
	FileName string `json:"fileName"`
	FileSize int64  `json:"fileSize"`
	Progress int    `json:"progress"`
	Status   Status `json:"status"`
	Error    string `json:"error,omitempty"`
}

// EventKind says which mutation produced an Event.
type EventKind string

const (
	EventRegistered EventKind = "registered"
	EventProgress   EventKind = "progress"
	EventStatus     EventKind = "status"
	EventRemoved    EventKind = "removed"
)

// Event describes a single applied mutation. Item is the state right after
// the mutation (for EventRemoved, the state right before removal).
type Event struct {
	Kind EventKind
	Item Item
}

// Listener receives registry events.
type Listener func(Event)
