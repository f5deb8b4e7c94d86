package uploads

import "time"

// Session is one negotiated upload. FileID doubles as the object key.
type Session struct {
	SessionID   string
	FileID      string
	FileName    string
	FolderID    string
	MimeType    string
	Size        int64
	CreatedAt   time.Time
	ExpiresAt   time.Time
	Completed   bool
	CompletedAt time.Time
	ETag        string
}

func (s *Session) expired(now time.Time) bool {
	return !s.Completed && !now.Before(s.ExpiresAt)
}

// InitiateRequest asks for an upload slot.
type InitiateRequest struct {
	FileName string
	FolderID string
	MimeType string
	Size     int64
}

// Ticket is what the client needs to transfer the bytes.
type Ticket struct {
	SessionID    string
	FileID       string
	UploadURL    string
	URLExpiresAt time.Time
	ExpiresAt    time.Time
}

// CompleteRequest acknowledges a finished transfer.
type CompleteRequest struct {
	StorageKey string
	ETag       string
	Size       int64
}

// File is a completed upload as it appears in a folder listing.
type File struct {
	FileID      string
	FileName    string
	MimeType    string
	Size        int64
	CompletedAt time.Time
}
