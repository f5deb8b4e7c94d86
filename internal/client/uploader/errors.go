package uploader

import "fmt"

// Stage names a step of the upload protocol.
type Stage string

const (
	StageNegotiate Stage = "negotiate"
	StageTransfer  Stage = "transfer"
	StageFinalize  Stage = "finalize"
)

// User-facing failure messages stored on failed registry items.
const (
	MsgInitiateFailed = "Failed to initiate upload"
	MsgNoUploadURL    = "No upload URL received"
	MsgReadFailed     = "Failed to read file"
	MsgNetworkError   = "Network error during upload"
	MsgFinalizeFailed = "Failed to finalize upload"
)

// StageError is a failed protocol stage. Message is what the user sees;
// Err is the underlying cause, when there is one.
type StageError struct {
	Stage   Stage
	Message string
	Err     error
}

func (e *StageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Stage, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Stage, e.Message, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func storageFailedMessage(status int) string {
	return fmt.Sprintf("Storage upload failed: %d", status)
}
