package uploader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gcstorage/internal/client/api"
	"github.com/dmitrijs2005/gcstorage/internal/client/registry"
	"github.com/dmitrijs2005/gcstorage/internal/common"
	"github.com/dmitrijs2005/gcstorage/internal/filex"
	"github.com/dmitrijs2005/gcstorage/internal/netx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	mu sync.Mutex

	initiateErr  error
	initiateResp func(req api.InitiateUploadRequest) *api.InitiateUploadResponse
	completeErr  error

	initiated []api.InitiateUploadRequest
	completed []api.CompleteUploadRequest
}

func (f *fakeAPI) InitiateUpload(_ context.Context, req api.InitiateUploadRequest) (*api.InitiateUploadResponse, error) {
	f.mu.Lock()
	f.initiated = append(f.initiated, req)
	f.mu.Unlock()

	if f.initiateErr != nil {
		return nil, f.initiateErr
	}
	if f.initiateResp != nil {
		return f.initiateResp(req), nil
	}
	return &api.InitiateUploadResponse{
		SessionID:  "s-" + req.FileName,
		FileID:     "f-" + req.FileName,
		UploadURLs: []api.UploadURL{{PartNumber: 1, URL: "https://storage.local/" + req.FileName}},
	}, nil
}

func (f *fakeAPI) CompleteUpload(_ context.Context, req api.CompleteUploadRequest) (*api.CompleteUploadResponse, error) {
	f.mu.Lock()
	f.completed = append(f.completed, req)
	f.mu.Unlock()

	if f.completeErr != nil {
		return nil, f.completeErr
	}
	return &api.CompleteUploadResponse{FileID: req.StorageKey, Completed: true}, nil
}

func (f *fakeAPI) completeCalls() []api.CompleteUploadRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]api.CompleteUploadRequest(nil), f.completed...)
}

type putCall struct {
	url         string
	body        string
	size        int64
	contentType string
}

type fakeStorage struct {
	mu    sync.Mutex
	calls []putCall

	// steps are the byte counts reported to onProgress, in order.
	steps []int64
	etag  string
	err   func(url string) error
	hook  func(url string)
}

func (f *fakeStorage) Put(_ context.Context, url string, body io.Reader, size int64, contentType string, onProgress netx.ProgressFunc) (string, error) {
	data, _ := io.ReadAll(body)

	f.mu.Lock()
	f.calls = append(f.calls, putCall{url: url, body: string(data), size: size, contentType: contentType})
	f.mu.Unlock()

	if f.hook != nil {
		f.hook(url)
	}
	for _, s := range f.steps {
		if onProgress != nil {
			onProgress(s, size)
		}
	}
	if f.err != nil {
		if err := f.err(url); err != nil {
			return "", err
		}
	}
	return f.etag, nil
}

func (f *fakeStorage) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Notify(m string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, m)
}

func (n *recordingNotifier) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}

type countingInvalidator struct {
	mu sync.Mutex
	n  int
}

func (c *countingInvalidator) InvalidateFolderListings() {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
}

func (c *countingInvalidator) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

type failingSource struct{ name string }

func (f failingSource) Name() string     { return f.name }
func (f failingSource) Size() int64      { return 10 }
func (f failingSource) MimeType() string { return "text/plain" }
func (f failingSource) Open() (io.ReadCloser, error) {
	return nil, errors.New("permission denied")
}

func memFile(name string, size int, contentType string) *filex.MemoryFile {
	return &filex.MemoryFile{FileName: name, Data: []byte(strings.Repeat("x", size)), ContentType: contentType}
}

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

type progressRecorder struct {
	mu     sync.Mutex
	values map[string][]int
}

func recordProgress(r *registry.Registry) *progressRecorder {
	p := &progressRecorder{values: map[string][]int{}}
	r.Subscribe(func(e registry.Event) {
		if e.Kind != registry.EventProgress {
			return
		}
		p.mu.Lock()
		p.values[e.Item.ID] = append(p.values[e.Item.ID], e.Item.Progress)
		p.mu.Unlock()
	})
	return p
}

func (p *progressRecorder) of(id string) []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]int(nil), p.values[id]...)
}

func TestUpload_Success(t *testing.T) {
	ctx := context.Background()
	reg := registry.New()
	progress := recordProgress(reg)

	a := &fakeAPI{
		initiateResp: func(req api.InitiateUploadRequest) *api.InitiateUploadResponse {
			return &api.InitiateUploadResponse{
				SessionID:  "s1",
				FileID:     "f1",
				UploadURLs: []api.UploadURL{{PartNumber: 1, URL: "https://storage.local/p1"}},
			}
		},
	}
	s := &fakeStorage{steps: []int64{512}, etag: `"e1"`}
	inv := &countingInvalidator{}
	n := &recordingNotifier{}

	u := New(a, s, reg, WithInvalidator(inv), WithNotifier(n), WithIDGenerator(sequentialIDs()))

	id := u.Upload(ctx, "folder-1", memFile("report.pdf", 1024, "application/pdf"))
	require.Equal(t, "id-1", id)

	require.Len(t, a.initiated, 1)
	assert.Equal(t, api.InitiateUploadRequest{
		FileName: "report.pdf",
		FolderID: "folder-1",
		MimeType: "application/pdf",
		Size:     1024,
	}, a.initiated[0])

	require.Equal(t, 1, s.callCount())
	assert.Equal(t, "https://storage.local/p1", s.calls[0].url)
	assert.Equal(t, int64(1024), s.calls[0].size)
	assert.Equal(t, "application/pdf", s.calls[0].contentType)
	assert.Len(t, s.calls[0].body, 1024)

	require.Len(t, a.completed, 1)
	assert.Equal(t, api.CompleteUploadRequest{
		StorageKey:     "f1",
		ETag:           `"e1"`,
		Size:           1024,
		MinioVersionID: "",
	}, a.completed[0])

	assert.Equal(t, []int{0, 48, 100}, progress.of(id))

	item, ok := reg.Get(id)
	require.True(t, ok)
	assert.Equal(t, registry.StatusCompleted, item.Status)
	assert.Equal(t, 100, item.Progress)
	assert.Empty(t, item.Error)

	assert.Equal(t, 1, inv.count())
	assert.Empty(t, n.all())
	assert.Equal(t, 0, reg.ActiveCount())
}

func TestUpload_DefaultMimeType(t *testing.T) {
	a := &fakeAPI{}
	s := &fakeStorage{etag: "e"}

	u := New(a, s, registry.New())
	u.Upload(context.Background(), "root", memFile("blob", 8, ""))

	require.Len(t, a.initiated, 1)
	assert.Equal(t, common.DefaultMimeType, a.initiated[0].MimeType)
	require.Equal(t, 1, s.callCount())
	assert.Equal(t, common.DefaultMimeType, s.calls[0].contentType)
}

func TestUpload_Failures(t *testing.T) {
	tests := []struct {
		name         string
		api          *fakeAPI
		storage      *fakeStorage
		src          Source
		wantMsg      string
		wantPuts     int
		wantComplete int
	}{
		{
			name: "no upload urls",
			api: &fakeAPI{initiateResp: func(api.InitiateUploadRequest) *api.InitiateUploadResponse {
				return &api.InitiateUploadResponse{SessionID: "s", FileID: "f", UploadURLs: []api.UploadURL{}}
			}},
			storage: &fakeStorage{},
			src:     memFile("a.txt", 4, "text/plain"),
			wantMsg: MsgNoUploadURL,
		},
		{
			name: "empty upload url",
			api: &fakeAPI{initiateResp: func(api.InitiateUploadRequest) *api.InitiateUploadResponse {
				return &api.InitiateUploadResponse{FileID: "f", UploadURLs: []api.UploadURL{{PartNumber: 1}}}
			}},
			storage: &fakeStorage{},
			src:     memFile("a.txt", 4, "text/plain"),
			wantMsg: MsgNoUploadURL,
		},
		{
			name:    "rejected with server message",
			api:     &fakeAPI{initiateErr: &api.Error{StatusCode: 409, Code: "CONFLICT", Message: "File already exists"}},
			storage: &fakeStorage{},
			src:     memFile("a.txt", 4, "text/plain"),
			wantMsg: "File already exists",
		},
		{
			name:    "rejected without message",
			api:     &fakeAPI{initiateErr: &api.Error{StatusCode: 500}},
			storage: &fakeStorage{},
			src:     memFile("a.txt", 4, "text/plain"),
			wantMsg: MsgInitiateFailed,
		},
		{
			name:    "api unreachable",
			api:     &fakeAPI{initiateErr: fmt.Errorf("%w: dial tcp: refused", api.ErrUnavailable)},
			storage: &fakeStorage{},
			src:     memFile("a.txt", 4, "text/plain"),
			wantMsg: MsgInitiateFailed,
		},
		{
			name: "storage rejects",
			api:  &fakeAPI{},
			storage: &fakeStorage{err: func(string) error {
				return &netx.StatusError{StatusCode: 500}
			}},
			src:      memFile("a.txt", 4, "text/plain"),
			wantMsg:  "Storage upload failed: 500",
			wantPuts: 1,
		},
		{
			name: "storage unreachable",
			api:  &fakeAPI{},
			storage: &fakeStorage{err: func(string) error {
				return fmt.Errorf("%w: connection reset", netx.ErrNetwork)
			}},
			src:      memFile("a.txt", 4, "text/plain"),
			wantMsg:  MsgNetworkError,
			wantPuts: 1,
		},
		{
			name:    "unreadable source",
			api:     &fakeAPI{},
			storage: &fakeStorage{},
			src:     failingSource{name: "a.txt"},
			wantMsg: MsgReadFailed,
		},
		{
			name:         "finalize rejected",
			api:          &fakeAPI{completeErr: &api.Error{StatusCode: 404, Message: "Upload session not found"}},
			storage:      &fakeStorage{etag: "e"},
			src:          memFile("a.txt", 4, "text/plain"),
			wantMsg:      MsgFinalizeFailed,
			wantPuts:     1,
			wantComplete: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := registry.New()
			inv := &countingInvalidator{}
			n := &recordingNotifier{}
			u := New(tt.api, tt.storage, reg, WithInvalidator(inv), WithNotifier(n))

			id := u.Upload(context.Background(), "root", tt.src)

			item, ok := reg.Get(id)
			require.True(t, ok)
			assert.Equal(t, registry.StatusFailed, item.Status)
			assert.Equal(t, tt.wantMsg, item.Error)

			assert.Equal(t, tt.wantPuts, tt.storage.callCount())
			assert.Len(t, tt.api.completeCalls(), tt.wantComplete)
			assert.Equal(t, 0, inv.count())
			assert.Equal(t, []string{"a.txt: " + tt.wantMsg}, n.all())
		})
	}
}

func TestUpload_ProgressMonotonicAndCapped(t *testing.T) {
	reg := registry.New()
	progress := recordProgress(reg)

	// Repeated and regressing byte counts must not move the bar backwards.
	s := &fakeStorage{steps: []int64{0, 100, 100, 50, 600, 999, 1000, 1000}, etag: "e"}
	u := New(&fakeAPI{}, s, reg)

	id := u.Upload(context.Background(), "root", memFile("big.bin", 1000, ""))

	values := progress.of(id)
	require.NotEmpty(t, values)
	assert.Equal(t, 100, values[len(values)-1])

	transfer := values[:len(values)-1]
	for i, v := range transfer {
		assert.LessOrEqual(t, v, transferShare)
		if i > 0 {
			assert.Greater(t, v, transfer[i-1])
		}
	}
	assert.Equal(t, []int{0, 10, 57, 95}, transfer)
}

func TestUpload_RemovedMidFlightStaysRemoved(t *testing.T) {
	reg := registry.New()
	inv := &countingInvalidator{}

	var id string
	s := &fakeStorage{
		steps: []int64{5, 10},
		etag:  "e",
		hook:  func(string) { reg.Remove(id) },
	}

	u := New(&fakeAPI{}, s, reg, WithInvalidator(inv), WithIDGenerator(func() string {
		id = "only"
		return id
	}))

	u.Upload(context.Background(), "root", memFile("gone.txt", 10, "text/plain"))

	_, ok := reg.Get("only")
	assert.False(t, ok)
	assert.Equal(t, 0, reg.Len())
	assert.Equal(t, 1, inv.count())
}

// cancelStorage blocks in Put until ctx is done, like a transport aborting
// a request.
type cancelStorage struct {
	started chan struct{}
}

func (c *cancelStorage) Put(ctx context.Context, _ string, _ io.Reader, _ int64, _ string, _ netx.ProgressFunc) (string, error) {
	close(c.started)
	<-ctx.Done()
	return "", fmt.Errorf("%w: %w", netx.ErrNetwork, ctx.Err())
}

func TestUpload_CancelDuringTransfer(t *testing.T) {
	reg := registry.New()
	n := &recordingNotifier{}
	inv := &countingInvalidator{}
	a := &fakeAPI{}
	s := &cancelStorage{started: make(chan struct{})}

	u := New(a, s, reg, WithNotifier(n), WithInvalidator(inv), WithIDGenerator(sequentialIDs()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-s.started
		cancel()
	}()

	id := u.Upload(ctx, "root", memFile("big.bin", 64, "application/octet-stream"))

	item, ok := reg.Get(id)
	require.True(t, ok)
	assert.Equal(t, registry.StatusFailed, item.Status)
	assert.Equal(t, MsgNetworkError, item.Error)
	assert.Equal(t, []string{"big.bin: Network error during upload"}, n.all())
	assert.Empty(t, a.completeCalls())
	assert.Equal(t, 0, inv.count())
}

func TestUploadBatch_IndependentRuns(t *testing.T) {
	reg := registry.New()
	n := &recordingNotifier{}
	inv := &countingInvalidator{}

	s := &fakeStorage{
		etag: "e",
		err: func(url string) error {
			if strings.HasSuffix(url, "/two.txt") {
				return &netx.StatusError{StatusCode: 403}
			}
			return nil
		},
	}
	a := &fakeAPI{}

	u := New(a, s, reg, WithNotifier(n), WithInvalidator(inv), WithIDGenerator(sequentialIDs()))

	ids := u.UploadBatch(context.Background(), "root",
		memFile("one.txt", 3, "text/plain"),
		memFile("two.txt", 3, "text/plain"),
		memFile("three.txt", 3, "text/plain"),
	)
	require.Len(t, ids, 3)

	byName := map[string]registry.Item{}
	for _, id := range ids {
		item, ok := reg.Get(id)
		require.True(t, ok)
		byName[item.FileName] = item
	}

	assert.Equal(t, registry.StatusCompleted, byName["one.txt"].Status)
	assert.Equal(t, registry.StatusFailed, byName["two.txt"].Status)
	assert.Equal(t, "Storage upload failed: 403", byName["two.txt"].Error)
	assert.Equal(t, registry.StatusCompleted, byName["three.txt"].Status)

	assert.Equal(t, []string{"two.txt: Storage upload failed: 403"}, n.all())
	assert.Equal(t, 2, inv.count())
	assert.Len(t, a.completeCalls(), 2)
	assert.Equal(t, 0, reg.ActiveCount())
}

func TestUploadBatch_RunsConcurrently(t *testing.T) {
	const runs = 3

	var (
		mu      sync.Mutex
		started int
		all     = make(chan struct{})
	)
	s := &fakeStorage{
		etag: "e",
		hook: func(string) {
			mu.Lock()
			started++
			if started == runs {
				close(all)
			}
			mu.Unlock()

			select {
			case <-all:
			case <-time.After(2 * time.Second):
			}
		},
	}

	reg := registry.New()
	u := New(&fakeAPI{}, s, reg)

	done := make(chan []string)
	go func() {
		done <- u.UploadBatch(context.Background(), "root",
			memFile("a", 1, ""), memFile("b", 1, ""), memFile("c", 1, ""))
	}()

	select {
	case <-all:
	case <-time.After(time.Second):
		t.Fatal("transfers did not overlap")
	}

	ids := <-done
	for _, id := range ids {
		item, ok := reg.Get(id)
		require.True(t, ok)
		assert.Equal(t, registry.StatusCompleted, item.Status)
	}
}

func TestUploadBatch_Empty(t *testing.T) {
	u := New(&fakeAPI{}, &fakeStorage{}, registry.New())
	assert.Empty(t, u.UploadBatch(context.Background(), "root"))
}

func TestTransferPercent(t *testing.T) {
	tests := []struct {
		sent, total int64
		want        int
	}{
		{0, 1024, 0},
		{512, 1024, 48},
		{1024, 1024, 95},
		{2048, 1024, 95},
		{1, 0, 0},
		{-5, 10, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, transferPercent(tt.sent, tt.total), "%d/%d", tt.sent, tt.total)
	}
}
