package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gcstorage/internal/common"
	"github.com/dmitrijs2005/gcstorage/internal/logging"
	"github.com/dmitrijs2005/gcstorage/internal/server/auth"
	"github.com/gin-gonic/gin"
)

const subjectKey = "subject"

// requestLogger logs one line per request.
func requestLogger(l logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"subject", c.GetString(subjectKey),
		)
	}
}

// bearerAuth rejects requests without a valid HS256 token signed with
// secret. An empty secret disables the check.
func bearerAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(secret) == 0 {
			c.Next()
			return
		}

		token, ok := auth.BearerToken(c.GetHeader(common.AuthorizationHeaderName))
		if !ok {
			abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
			return
		}

		subject, err := auth.SubjectFromToken(token, secret)
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, common.ErrTokenExpired) {
				msg = "token expired"
			}
			abort(c, http.StatusUnauthorized, "UNAUTHORIZED", msg)
			return
		}

		c.Set(subjectKey, subject)
		c.Next()
	}
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}
