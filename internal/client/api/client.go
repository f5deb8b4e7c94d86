// Package api is the REST client for the upload endpoints of the storage
// backend: upload negotiation and upload completion.
package api

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	initiateUploadPath = "/files/upload"
	completeUploadPath = "/files/upload/complete"
	folderFilesPath    = "/folders/{folderId}/files"
)

type Client struct {
	http *resty.Client
}

// NewClient returns a client for the API rooted at baseURL
// (e.g. "http://127.0.0.1:8080/api/v1"). An empty accessToken sends no
// Authorization header. Requests are never retried.
func NewClient(baseURL, accessToken string, timeout time.Duration) *Client {
	h := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout).
		SetRetryCount(0)

	if accessToken != "" {
		h.SetAuthToken(accessToken)
	}

	return &Client{http: h}
}

// InitiateUpload requests an upload slot for one file.
func (c *Client) InitiateUpload(ctx context.Context, req InitiateUploadRequest) (*InitiateUploadResponse, error) {
	out := &Envelope[InitiateUploadResponse]{}
	if err := c.post(ctx, initiateUploadPath, req, out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// CompleteUpload tells the backend that the object bytes are in storage.
func (c *Client) CompleteUpload(ctx context.Context, req CompleteUploadRequest) (*CompleteUploadResponse, error) {
	out := &Envelope[CompleteUploadResponse]{}
	if err := c.post(ctx, completeUploadPath, req, out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// ListFolder returns the completed files of a folder.
func (c *Client) ListFolder(ctx context.Context, folderID string) ([]FileInfo, error) {
	out := &Envelope[[]FileInfo]{}
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("folderId", folderID).
		SetResult(out).
		SetError(&ErrorEnvelope{}).
		Get(folderFilesPath)
	if err := c.check(resp, err, "GET "+folderFilesPath); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) post(ctx context.Context, path string, body, result any) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(result).
		SetError(&ErrorEnvelope{}).
		Post(path)
	return c.check(resp, err, "POST "+path)
}

func (c *Client) check(resp *resty.Response, err error, op string) error {
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrUnavailable, op, err)
	}

	if resp.IsError() {
		apiErr := &Error{StatusCode: resp.StatusCode()}
		if env, ok := resp.Error().(*ErrorEnvelope); ok && env != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return apiErr
	}

	return nil
}
