package httpapi

import "time"

type initiateRequest struct {
	FileName string `json:"fileName"`
	FolderID string `json:"folderId"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
}

type uploadURL struct {
	PartNumber int       `json:"partNumber"`
	URL        string    `json:"url"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

type initiateResponse struct {
	SessionID   string      `json:"sessionId"`
	FileID      string      `json:"fileId"`
	IsMultipart bool        `json:"isMultipart"`
	UploadURLs  []uploadURL `json:"uploadUrls"`
	ExpiresAt   time.Time   `json:"expiresAt"`
}

type completeRequest struct {
	StorageKey     string `json:"storageKey"`
	ETag           string `json:"etag"`
	Size           int64  `json:"size"`
	MinioVersionID string `json:"minioVersionId"`
}

type completeResponse struct {
	FileID    string `json:"fileId"`
	SessionID string `json:"sessionId"`
	Completed bool   `json:"completed"`
}

type fileInfo struct {
	FileID      string    `json:"fileId"`
	FileName    string    `json:"fileName"`
	MimeType    string    `json:"mimeType"`
	Size        int64     `json:"size"`
	CompletedAt time.Time `json:"completedAt"`
}

type envelope struct {
	Data any `json:"data"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}
