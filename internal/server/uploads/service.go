// Package uploads tracks upload sessions of the development backend:
// negotiation hands out a pre-signed URL, completion records the file.
package uploads

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/gcstorage/internal/common"
	"github.com/dmitrijs2005/gcstorage/internal/logging"
	"github.com/dmitrijs2005/gcstorage/internal/server/storage"
	"github.com/google/uuid"
)

// ObjectStore is the object storage the service presigns for.
type ObjectStore interface {
	PresignPut(ctx context.Context, key string) (string, time.Time, error)
	ObjectSize(ctx context.Context, key string) (int64, error)
}

type Options struct {
	SessionTTL    time.Duration
	VerifyObjects bool
	Logger        logging.Logger
	Now           func() time.Time
	NewID         func() string
}

type Service struct {
	store  ObjectStore
	ttl    time.Duration
	verify bool
	logger logging.Logger
	now    func() time.Time
	newID  func() string

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewService(store ObjectStore, o Options) *Service {
	s := &Service{
		store:    store,
		ttl:      o.SessionTTL,
		verify:   o.VerifyObjects,
		logger:   o.Logger,
		now:      o.Now,
		newID:    o.NewID,
		sessions: make(map[string]*Session),
	}
	if s.ttl <= 0 {
		s.ttl = time.Hour
	}
	if s.logger == nil {
		s.logger = logging.Nop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

// Initiate validates req and presigns the object PUT. A name already taken
// by a completed file in the folder is a conflict.
func (s *Service) Initiate(ctx context.Context, req InitiateRequest) (*Ticket, error) {
	req.FileName = strings.TrimSpace(req.FileName)
	switch {
	case req.FileName == "":
		return nil, validation("fileName is required")
	case strings.ContainsAny(req.FileName, `/\`):
		return nil, validation("fileName must not contain path separators")
	case req.FolderID == "":
		return nil, validation("folderId is required")
	case req.Size < 0:
		return nil, validation("size must not be negative")
	}
	if req.MimeType == "" {
		req.MimeType = common.DefaultMimeType
	}

	now := s.now()

	s.mu.Lock()
	s.purgeLocked(now)
	if s.nameTakenLocked(req.FolderID, req.FileName, "") {
		s.mu.Unlock()
		return nil, conflict("file with same name already exists")
	}
	sess := &Session{
		SessionID: s.newID(),
		FileID:    s.newID(),
		FileName:  req.FileName,
		FolderID:  req.FolderID,
		MimeType:  req.MimeType,
		Size:      req.Size,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	s.sessions[sess.FileID] = sess
	s.mu.Unlock()

	url, urlExpiresAt, err := s.store.PresignPut(ctx, sess.FileID)
	if err != nil {
		s.mu.Lock()
		delete(s.sessions, sess.FileID)
		s.mu.Unlock()
		return nil, fmt.Errorf("presign upload: %w", err)
	}

	s.logger.Info(ctx, "upload initiated", "file_id", sess.FileID, "file", sess.FileName, "folder_id", sess.FolderID, "size", sess.Size)

	return &Ticket{
		SessionID:    sess.SessionID,
		FileID:       sess.FileID,
		UploadURL:    url,
		URLExpiresAt: urlExpiresAt,
		ExpiresAt:    sess.ExpiresAt,
	}, nil
}

// Complete marks the session behind req.StorageKey completed. Completing an
// already completed session succeeds again without side effects.
func (s *Service) Complete(ctx context.Context, req CompleteRequest) (*Session, error) {
	if req.StorageKey == "" {
		return nil, validation("storageKey is required")
	}

	now := s.now()

	s.mu.Lock()
	sess, ok := s.sessions[req.StorageKey]
	if !ok || sess.expired(now) {
		s.mu.Unlock()
		return nil, notFound("upload session not found")
	}
	if sess.Completed {
		out := *sess
		s.mu.Unlock()
		return &out, nil
	}
	declared := sess.Size
	s.mu.Unlock()

	if req.Size != declared {
		return nil, validation(fmt.Sprintf("size mismatch: negotiated %d, got %d", declared, req.Size))
	}

	if s.verify {
		stored, err := s.store.ObjectSize(ctx, req.StorageKey)
		switch {
		case errors.Is(err, storage.ErrObjectNotFound):
			return nil, conflict("object not found in storage")
		case err != nil:
			return nil, fmt.Errorf("verify object: %w", err)
		case stored != declared:
			return nil, conflict(fmt.Sprintf("stored object size %d does not match %d", stored, declared))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !sess.Completed && s.nameTakenLocked(sess.FolderID, sess.FileName, sess.FileID) {
		return nil, conflict("file with same name already exists")
	}
	if !sess.Completed {
		sess.Completed = true
		sess.CompletedAt = s.now()
		sess.ETag = req.ETag
		s.logger.Info(ctx, "upload completed", "file_id", sess.FileID, "file", sess.FileName, "etag", req.ETag)
	}
	out := *sess
	return &out, nil
}

// ListFolder returns the completed files of folderID in completion order.
func (s *Service) ListFolder(folderID string) []File {
	s.mu.Lock()
	var files []File
	for _, sess := range s.sessions {
		if sess.Completed && sess.FolderID == folderID {
			files = append(files, File{
				FileID:      sess.FileID,
				FileName:    sess.FileName,
				MimeType:    sess.MimeType,
				Size:        sess.Size,
				CompletedAt: sess.CompletedAt,
			})
		}
	}
	s.mu.Unlock()

	slices.SortFunc(files, func(a, b File) int {
		if c := a.CompletedAt.Compare(b.CompletedAt); c != 0 {
			return c
		}
		return strings.Compare(a.FileName, b.FileName)
	})
	if files == nil {
		files = []File{}
	}
	return files
}

func (s *Service) nameTakenLocked(folderID, fileName, exceptFileID string) bool {
	for _, other := range s.sessions {
		if other.Completed && other.FileID != exceptFileID &&
			other.FolderID == folderID && other.FileName == fileName {
			return true
		}
	}
	return false
}

// purgeLocked drops expired unfinished sessions, freeing their names.
func (s *Service) purgeLocked(now time.Time) {
	for id, sess := range s.sessions {
		if sess.expired(now) {
			delete(s.sessions, id)
		}
	}
}
