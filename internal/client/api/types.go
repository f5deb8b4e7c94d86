package api

import "time"

// InitiateUploadRequest is the body of POST /files/upload.
type InitiateUploadRequest struct {
	FileName string `json:"fileName"`
	FolderID string `json:"folderId"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
}

// UploadURL is one transfer target. Single-part uploads get exactly one.
type UploadURL struct {
	PartNumber int       `json:"partNumber,omitempty"`
	URL        string    `json:"url"`
	ExpiresAt  time.Time `json:"expiresAt,omitempty"`
}

// InitiateUploadResponse is the data payload of a successful negotiation.
type InitiateUploadResponse struct {
	SessionID   string      `json:"sessionId,omitempty"`
	FileID      string      `json:"fileId"`
	IsMultipart bool        `json:"isMultipart"`
	UploadURLs  []UploadURL `json:"uploadUrls"`
	ExpiresAt   time.Time   `json:"expiresAt,omitempty"`
}

// CompleteUploadRequest is the body of POST /files/upload/complete.
// MinioVersionID is always sent, and this client always sends it empty.
type CompleteUploadRequest struct {
	StorageKey     string `json:"storageKey"`
	ETag           string `json:"etag"`
	Size           int64  `json:"size"`
	MinioVersionID string `json:"minioVersionId"`
}

// CompleteUploadResponse is the data payload of a successful finalization.
type CompleteUploadResponse struct {
	FileID    string `json:"fileId"`
	SessionID string `json:"sessionId"`
	Completed bool   `json:"completed"`
}

// Envelope wraps every successful response body.
type Envelope[T any] struct {
	Data T   `json:"data"`
	Meta any `json:"meta,omitempty"`
}

// ErrorBody is the payload under the "error" key of a failed response.
type ErrorBody struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// ErrorEnvelope wraps every error response body.
type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}

// FileInfo is one completed file in a folder listing.
type FileInfo struct {
	FileID      string    `json:"fileId"`
	FileName    string    `json:"fileName"`
	MimeType    string    `json:"mimeType"`
	Size        int64     `json:"size"`
	CompletedAt time.Time `json:"completedAt"`
}
