package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/gcstorage/internal/client/api"
)

var (
	ErrUnknownUpload  = errors.New("unknown upload")
	ErrNothingToStart = errors.New("no readable files")
)

func (a *App) Folder() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.folderID
}

func (a *App) SetFolder(id string) {
	a.mu.Lock()
	a.folderID = id
	a.mu.Unlock()
	fmt.Fprintf(a.out, "Folder set to %s\n", id)
}

// Upload starts a batch in the background and returns immediately.
func (a *App) Upload(ctx context.Context, paths []string) error {
	sources, _ := a.openSources(paths)
	if len(sources) == 0 {
		return ErrNothingToStart
	}

	folder := a.Folder()
	a.inflight.Add(1)
	go func() {
		defer a.inflight.Done()
		a.uploader.UploadBatch(ctx, folder, sources...)
	}()

	fmt.Fprintf(a.out, "Started %d upload(s) into %s\n", len(sources), folder)
	return nil
}

func (a *App) List() {
	items := a.registry.Items()
	fmt.Fprintf(a.out, "Uploading %d file(s)\n", a.registry.ActiveCount())
	for _, it := range items {
		fmt.Fprintf(a.out, "%s  %s\n", it.ID, FormatItem(it))
	}
}

func (a *App) Remove(id string) error {
	if _, ok := a.registry.Get(id); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownUpload, id)
	}
	a.registry.Remove(id)
	return nil
}

func (a *App) Clear() {
	before := a.registry.Len()
	a.registry.ClearCompleted()
	fmt.Fprintf(a.out, "Cleared %d item(s)\n", before-a.registry.Len())
}

// Files prints the listing of folderID, or of the current folder when empty.
func (a *App) Files(ctx context.Context, folderID string) error {
	if folderID == "" {
		folderID = a.Folder()
	}

	files, err := a.listings.Folder(ctx, folderID)
	if err != nil {
		return err
	}
	printFiles(a.out, folderID, files)
	return nil
}

func printFiles(w io.Writer, folderID string, files []api.FileInfo) {
	if len(files) == 0 {
		fmt.Fprintf(w, "%s is empty\n", folderID)
		return
	}
	for _, f := range files {
		fmt.Fprintf(w, "%s  %s  %d bytes  %s\n", f.FileID, f.FileName, f.Size, f.MimeType)
	}
}
