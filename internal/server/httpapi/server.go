// Package httpapi is the HTTP surface of the development upload backend.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gcstorage/internal/common"
	"github.com/dmitrijs2005/gcstorage/internal/logging"
	"github.com/dmitrijs2005/gcstorage/internal/server/uploads"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// Uploads is the session service behind the routes.
type Uploads interface {
	Initiate(ctx context.Context, req uploads.InitiateRequest) (*uploads.Ticket, error)
	Complete(ctx context.Context, req uploads.CompleteRequest) (*uploads.Session, error)
	ListFolder(folderID string) []uploads.File
}

type Server struct {
	address string
	uploads Uploads
	logger  logging.Logger
	secret  []byte
	engine  *gin.Engine
}

func NewServer(address string, u Uploads, l logging.Logger, secretKey string) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		address: address,
		uploads: u,
		logger:  l.With("module", "http_server"),
		secret:  []byte(secretKey),
	}
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger))

	r.GET("/health", s.health)

	v1 := r.Group(common.APIPrefix, bearerAuth(s.secret))
	{
		v1.POST("/files/upload", s.initiateUpload)
		v1.POST("/files/upload/complete", s.completeUpload)
		v1.GET("/folders/:folderId/files", s.listFolder)
	}

	return r
}

// Handler exposes the router, e.g. for httptest.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.serve(ctx, listen)
}

// serve returns once the listener has failed or ctx is done, and only after
// the shutdown goroutine has finished.
func (s *Server) serve(ctx context.Context, listen net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv := &http.Server{Handler: s.engine, ReadHeaderTimeout: 10 * time.Second}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	err := srv.Serve(listen)
	cancel()
	<-stopped

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
