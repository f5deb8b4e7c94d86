// Package netx performs direct transfers to object storage through
// pre-signed URLs.
package netx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/gcstorage/internal/common"
)

// ErrNetwork wraps transport-level failures: connection refused, reset,
// cancelled context, unreadable body.
var ErrNetwork = errors.New("network error")

// StatusError is returned when storage answers with a non-2xx status.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("storage responded with status %d", e.StatusCode)
}

// ProgressFunc is called as request body bytes are handed to the transport.
type ProgressFunc func(sent, total int64)

type Uploader struct {
	client *http.Client
}

// NewUploader returns an Uploader using client, or a default client when nil.
// The client should have no overall timeout: large transfers take as long as
// they take, and cancellation goes through the context.
func NewUploader(client *http.Client) *Uploader {
	if client == nil {
		client = &http.Client{}
	}
	return &Uploader{client: client}
}

// Put streams size bytes from body to url with a PUT request and returns the
// ETag response header ("" when absent).
func (u *Uploader) Put(ctx context.Context, url string, body io.Reader, size int64, contentType string, onProgress ProgressFunc) (string, error) {
	var reqBody io.Reader = http.NoBody
	if size > 0 {
		reqBody = &progressReader{r: body, total: size, onProgress: onProgress}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, reqBody)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.ContentLength = size
	req.Header.Set("Content-Type", contentType)

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{StatusCode: resp.StatusCode}
	}

	return resp.Header.Get(common.ETagHeaderName), nil
}

type progressReader struct {
	r          io.Reader
	sent       int64
	total      int64
	onProgress ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		if p.onProgress != nil {
			p.onProgress(p.sent, p.total)
		}
	}
	return n, err
}
