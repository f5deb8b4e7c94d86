package uploader

import (
	"context"
	"io"

	"github.com/dmitrijs2005/gcstorage/internal/client/api"
	"github.com/dmitrijs2005/gcstorage/internal/client/registry"
	"github.com/dmitrijs2005/gcstorage/internal/netx"
)

// Source is one file to upload. An empty MimeType means the file exposes
// none and the generic binary type is used.
type Source interface {
	Name() string
	Size() int64
	MimeType() string
	Open() (io.ReadCloser, error)
}

// API is the slice of the backend REST surface the protocol needs.
type API interface {
	InitiateUpload(ctx context.Context, req api.InitiateUploadRequest) (*api.InitiateUploadResponse, error)
	CompleteUpload(ctx context.Context, req api.CompleteUploadRequest) (*api.CompleteUploadResponse, error)
}

// Storage transfers bytes to a pre-signed URL and returns the ETag.
type Storage interface {
	Put(ctx context.Context, url string, body io.Reader, size int64, contentType string, onProgress netx.ProgressFunc) (string, error)
}

// Registry receives the state transitions of each run.
type Registry interface {
	Register(id, fileName string, fileSize int64)
	ReportProgress(id string, progress int)
	ReportStatus(id string, status registry.Status, errMsg string)
}

// ProgressSink receives transfer progress as a percentage.
type ProgressSink interface {
	OnProgress(percent int)
}

// Notifier surfaces a failure to the user, e.g. as a toast or a stderr line.
type Notifier interface {
	Notify(message string)
}

// Invalidator drops cached folder listings so the next read sees new files.
type Invalidator interface {
	InvalidateFolderListings()
}

type nopNotifier struct{}

func (nopNotifier) Notify(string) {}

type nopInvalidator struct{}

func (nopInvalidator) InvalidateFolderListings() {}
