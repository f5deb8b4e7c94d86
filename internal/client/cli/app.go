package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/dmitrijs2005/gcstorage/internal/buildinfo"
	"github.com/dmitrijs2005/gcstorage/internal/client/api"
	"github.com/dmitrijs2005/gcstorage/internal/client/cache"
	"github.com/dmitrijs2005/gcstorage/internal/client/config"
	"github.com/dmitrijs2005/gcstorage/internal/client/registry"
	"github.com/dmitrijs2005/gcstorage/internal/client/uploader"
	"github.com/dmitrijs2005/gcstorage/internal/filex"
	"github.com/dmitrijs2005/gcstorage/internal/logging"
	"github.com/dmitrijs2005/gcstorage/internal/netx"
)

// Streams are the terminal streams of the App.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdStreams returns the process streams.
func StdStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

type App struct {
	config   *config.Config
	logger   logging.Logger
	registry *registry.Registry
	uploader *uploader.Uploader
	listings *cache.Listings
	notifier *LineNotifier
	streams  Streams

	// out serializes writes from concurrent uploads.
	out io.Writer

	mu       sync.Mutex
	folderID string

	inflight sync.WaitGroup
}

// NewApp wires the upload pipeline for cfg.
func NewApp(cfg *config.Config, s Streams) (*App, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	out := &lockedWriter{w: s.Out}
	errOut := &lockedWriter{w: s.Err}

	logger := logging.New(errOut, level)
	client := api.NewClient(cfg.APIBaseURL, cfg.AccessToken, cfg.RequestTimeout)
	listings := cache.NewListings(client, cache.DefaultCapacity)
	notifier := NewLineNotifier(errOut)
	reg := registry.New()

	// No client timeout: transfers are bounded by ctx only.
	storage := netx.NewUploader(&http.Client{})

	up := uploader.New(client, storage, reg,
		uploader.WithNotifier(notifier),
		uploader.WithInvalidator(listings),
		uploader.WithLogger(logger),
	)

	return &App{
		config:   cfg,
		logger:   logger,
		registry: reg,
		uploader: up,
		listings: listings,
		notifier: notifier,
		streams:  s,
		out:      out,
		folderID: cfg.FolderID,
	}, nil
}

// Run uploads the configured files, or starts the REPL when there are
// none. It returns the process exit code.
func (a *App) Run(ctx context.Context) int {
	if len(a.config.Files) > 0 {
		return a.runBatch(ctx, a.config.Files)
	}

	panel := NewPanel(a.out, a.registry)
	panel.Ticks = false
	detach := panel.Attach()
	defer detach()

	buildinfo.PrintBuildData(a.out)
	fmt.Fprintln(a.out, "gcupload interactive mode (type 'help' for commands)")
	runREPL(ctx, a, bufio.NewScanner(a.streams.In), a.out)

	if n := a.registry.ActiveCount(); n > 0 {
		fmt.Fprintf(a.out, "Waiting for %d upload(s)...\n", n)
	}
	a.inflight.Wait()
	return 0
}

func (a *App) runBatch(ctx context.Context, paths []string) int {
	sources, bad := a.openSources(paths)

	panel := NewPanel(a.out, a.registry)
	if width, ok := TerminalWidth(a.streams.Out); ok {
		panel.Redraw, panel.Width = true, width
	}
	detach := panel.Attach()
	ids := a.uploader.UploadBatch(ctx, a.Folder(), sources...)
	detach()

	failed := bad
	for _, id := range ids {
		if it, ok := a.registry.Get(id); ok && it.Status == registry.StatusFailed {
			failed++
		}
	}

	a.logger.Info(ctx, "batch finished", "files", len(paths), "failed", failed)
	if failed > 0 {
		return 1
	}
	return 0
}

// openSources opens every path it can. Paths that cannot be opened are
// reported through the notifier and counted.
func (a *App) openSources(paths []string) ([]uploader.Source, int) {
	sources := make([]uploader.Source, 0, len(paths))
	bad := 0
	for _, p := range paths {
		f, err := filex.OpenLocal(p)
		if err != nil {
			a.notifier.Notify(fmt.Sprintf("%s: %v", p, err))
			bad++
			continue
		}
		sources = append(sources, f)
	}
	return sources, bad
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// Registry exposes the upload registry for observers.
func (a *App) Registry() *registry.Registry { return a.registry }

// Wait blocks until every upload started from the REPL has settled.
func (a *App) Wait() { a.inflight.Wait() }
