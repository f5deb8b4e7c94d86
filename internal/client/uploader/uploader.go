package uploader

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gcstorage/internal/client/api"
	"github.com/dmitrijs2005/gcstorage/internal/client/registry"
	"github.com/dmitrijs2005/gcstorage/internal/common"
	"github.com/dmitrijs2005/gcstorage/internal/logging"
	"github.com/dmitrijs2005/gcstorage/internal/netx"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type Uploader struct {
	api         API
	storage     Storage
	registry    Registry
	notifier    Notifier
	invalidator Invalidator
	logger      logging.Logger
	newID       func() string
}

type Option func(*Uploader)

func WithNotifier(n Notifier) Option {
	return func(u *Uploader) { u.notifier = n }
}

func WithInvalidator(i Invalidator) Option {
	return func(u *Uploader) { u.invalidator = i }
}

func WithLogger(l logging.Logger) Option {
	return func(u *Uploader) { u.logger = l }
}

// WithIDGenerator replaces the random UUID item ids.
func WithIDGenerator(f func() string) Option {
	return func(u *Uploader) { u.newID = f }
}

func New(a API, s Storage, r Registry, opts ...Option) *Uploader {
	u := &Uploader{
		api:         a,
		storage:     s,
		registry:    r,
		notifier:    nopNotifier{},
		invalidator: nopInvalidator{},
		logger:      logging.Nop(),
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Upload runs the full protocol for src into folderID and returns the
// registry id of the attempt. It returns once the run reached a terminal
// state; failures are recorded in the registry and notified, not returned.
func (u *Uploader) Upload(ctx context.Context, folderID string, src Source) string {
	id := u.newID()
	u.registry.Register(id, src.Name(), src.Size())

	log := u.logger.With("upload_id", id, "file", src.Name())

	if err := u.run(ctx, id, folderID, src, log); err != nil {
		msg := MsgInitiateFailed
		stage := StageNegotiate
		var se *StageError
		if errors.As(err, &se) {
			msg, stage = se.Message, se.Stage
		}

		u.registry.ReportStatus(id, registry.StatusFailed, msg)
		log.Warn(ctx, "upload failed", "stage", stage, "error", err)
		u.notifier.Notify(fmt.Sprintf("%s: %s", src.Name(), msg))
		return id
	}

	log.Info(ctx, "upload completed", "size", src.Size())
	return id
}

// UploadBatch starts one run per source without waiting for earlier runs,
// then waits for all of them. Ids are returned in input order.
func (u *Uploader) UploadBatch(ctx context.Context, folderID string, sources ...Source) []string {
	ids := make([]string, len(sources))

	var g errgroup.Group
	for i, src := range sources {
		g.Go(func() error {
			ids[i] = u.Upload(ctx, folderID, src)
			return nil
		})
	}
	_ = g.Wait()

	return ids
}

func (u *Uploader) run(ctx context.Context, id, folderID string, src Source, log logging.Logger) error {
	mimeType := src.MimeType()
	if mimeType == "" {
		mimeType = common.DefaultMimeType
	}

	log.Debug(ctx, "negotiating upload", "folder_id", folderID, "mime_type", mimeType)
	fileID, target, err := u.negotiate(ctx, folderID, src, mimeType)
	if err != nil {
		return err
	}

	log.Debug(ctx, "transferring to storage", "file_id", fileID)
	etag, err := u.transfer(ctx, target, src, mimeType, newRegistrySink(u.registry, id))
	if err != nil {
		return err
	}

	log.Debug(ctx, "finalizing upload", "file_id", fileID, "etag", etag)
	if err := u.finalize(ctx, fileID, etag, src.Size()); err != nil {
		return err
	}

	u.registry.ReportProgress(id, 100)
	u.registry.ReportStatus(id, registry.StatusCompleted, "")
	u.invalidator.InvalidateFolderListings()

	return nil
}

func (u *Uploader) negotiate(ctx context.Context, folderID string, src Source, mimeType string) (fileID, target string, err error) {
	resp, err := u.api.InitiateUpload(ctx, api.InitiateUploadRequest{
		FileName: src.Name(),
		FolderID: folderID,
		MimeType: mimeType,
		Size:     src.Size(),
	})
	if err != nil {
		msg := MsgInitiateFailed
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			msg = apiErr.Message
		}
		return "", "", &StageError{Stage: StageNegotiate, Message: msg, Err: err}
	}

	if resp == nil || len(resp.UploadURLs) == 0 || resp.UploadURLs[0].URL == "" {
		return "", "", &StageError{Stage: StageNegotiate, Message: MsgNoUploadURL}
	}

	return resp.FileID, resp.UploadURLs[0].URL, nil
}

func (u *Uploader) transfer(ctx context.Context, target string, src Source, mimeType string, sink ProgressSink) (string, error) {
	body, err := src.Open()
	if err != nil {
		return "", &StageError{Stage: StageTransfer, Message: MsgReadFailed, Err: err}
	}
	defer body.Close()

	sink.OnProgress(0)

	etag, err := u.storage.Put(ctx, target, body, src.Size(), mimeType, func(sent, total int64) {
		sink.OnProgress(transferPercent(sent, total))
	})
	if err != nil {
		var se *netx.StatusError
		if errors.As(err, &se) {
			return "", &StageError{Stage: StageTransfer, Message: storageFailedMessage(se.StatusCode), Err: err}
		}
		return "", &StageError{Stage: StageTransfer, Message: MsgNetworkError, Err: err}
	}

	return etag, nil
}

func (u *Uploader) finalize(ctx context.Context, fileID, etag string, size int64) error {
	_, err := u.api.CompleteUpload(ctx, api.CompleteUploadRequest{
		StorageKey:     fileID,
		ETag:           etag,
		Size:           size,
		MinioVersionID: "",
	})
	if err != nil {
		return &StageError{Stage: StageFinalize, Message: MsgFinalizeFailed, Err: err}
	}
	return nil
}
