// Package filex adapts files to the upload pipeline's source contract:
// a name, a byte size, a MIME type, and a way to open the bytes.
package filex

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var ErrNotRegularFile = errors.New("not a regular file")

// LocalFile is a file on disk. Size and MIME type are captured when the
// file is opened with OpenLocal.
type LocalFile struct {
	path     string
	name     string
	size     int64
	mimeType string
}

// OpenLocal stats path and sniffs its content type. A file whose type cannot
// be detected gets an empty MIME type.
func OpenLocal(path string) (*LocalFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: %w", path, ErrNotRegularFile)
	}

	f := &LocalFile{path: path, name: filepath.Base(path), size: info.Size()}

	if info.Size() > 0 {
		if mt, err := mimetype.DetectFile(path); err == nil && mt != nil {
			f.mimeType = baseType(mt.String())
		}
	}

	return f, nil
}

func (f *LocalFile) Name() string     { return f.name }
func (f *LocalFile) Size() int64      { return f.size }
func (f *LocalFile) MimeType() string { return f.mimeType }
func (f *LocalFile) Path() string     { return f.path }

func (f *LocalFile) Open() (io.ReadCloser, error) {
	return os.Open(f.path)
}

// MemoryFile is an in-memory source, used for generated content and tests.
type MemoryFile struct {
	FileName    string
	Data        []byte
	ContentType string
}

func (m *MemoryFile) Name() string     { return m.FileName }
func (m *MemoryFile) Size() int64      { return int64(len(m.Data)) }
func (m *MemoryFile) MimeType() string { return m.ContentType }

func (m *MemoryFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(m.Data)), nil
}

// baseType drops parameters such as "; charset=utf-8".
func baseType(m string) string {
	t, _, _ := strings.Cut(m, ";")
	return strings.TrimSpace(t)
}
