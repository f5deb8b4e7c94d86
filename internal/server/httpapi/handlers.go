package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gcstorage/internal/common"
	"github.com/dmitrijs2005/gcstorage/internal/server/uploads"
	"github.com/gin-gonic/gin"
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) initiateUpload(c *gin.Context) {
	var req initiateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}

	ticket, err := s.uploads.Initiate(c.Request.Context(), uploads.InitiateRequest{
		FileName: req.FileName,
		FolderID: req.FolderID,
		MimeType: req.MimeType,
		Size:     req.Size,
	})
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, envelope{Data: initiateResponse{
		SessionID:   ticket.SessionID,
		FileID:      ticket.FileID,
		IsMultipart: false,
		UploadURLs:  []uploadURL{{PartNumber: 1, URL: ticket.UploadURL, ExpiresAt: ticket.URLExpiresAt}},
		ExpiresAt:   ticket.ExpiresAt,
	}})
}

func (s *Server) completeUpload(c *gin.Context) {
	var req completeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}

	sess, err := s.uploads.Complete(c.Request.Context(), uploads.CompleteRequest{
		StorageKey: req.StorageKey,
		ETag:       req.ETag,
		Size:       req.Size,
	})
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, envelope{Data: completeResponse{
		FileID:    sess.FileID,
		SessionID: sess.SessionID,
		Completed: sess.Completed,
	}})
}

func (s *Server) listFolder(c *gin.Context) {
	files := s.uploads.ListFolder(c.Param("folderId"))

	out := make([]fileInfo, 0, len(files))
	for _, f := range files {
		out = append(out, fileInfo{
			FileID:      f.FileID,
			FileName:    f.FileName,
			MimeType:    f.MimeType,
			Size:        f.Size,
			CompletedAt: f.CompletedAt,
		})
	}
	c.JSON(http.StatusOK, envelope{Data: out})
}

// fail maps service errors onto the error envelope.
func (s *Server) fail(c *gin.Context, err error) {
	var e *uploads.Error
	if errors.As(err, &e) {
		switch {
		case errors.Is(e.Kind, common.ErrorValidation):
			abort(c, http.StatusBadRequest, "VALIDATION_ERROR", e.Message)
			return
		case errors.Is(e.Kind, common.ErrorNotFound):
			abort(c, http.StatusNotFound, "NOT_FOUND", e.Message)
			return
		case errors.Is(e.Kind, common.ErrorConflict):
			abort(c, http.StatusConflict, "CONFLICT", e.Message)
			return
		}
	}

	s.logger.Error(c.Request.Context(), "request failed", "path", c.Request.URL.Path, "error", err)
	abort(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}
