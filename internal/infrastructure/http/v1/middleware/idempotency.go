package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"airsolutions/internal/core/apperror"
	appctx "airsolutions/internal/core/context"
	"airsolutions/internal/infrastructure/storage/postgres"
	"airsolutions/pkg/logger"
)

const (
	HeaderIdempotencyKey = "X-Idempotency-Key"
	HeaderReplayed       = "Idempotent-Replayed"
)

const maxIdempotencyBodyBytes = 1 << 20 // 1 MiB

// IdempotencyStore persists idempotency keys and the responses they produced.
type IdempotencyStore interface {
	AcquireKey(ctx context.Context, key, username, operation, requestHash string) (*postgres.IdempotencyReplay, error)
	CompleteKey(ctx context.Context, key string, statusCode int, contentType string, body []byte) error
	FailKey(ctx context.Context, key string, statusCode int, contentType string, body []byte) error
}

// capturingWriter keeps a copy of the response body for later replay.
type capturingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *capturingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *capturingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency replays the stored response of a POST repeated with the same
// X-Idempotency-Key. Requests without the header pass through.
func Idempotency(store IdempotencyStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}
		ctx := c.Request.Context()

		limited := io.LimitReader(c.Request.Body, maxIdempotencyBodyBytes+1)
		body, _ := io.ReadAll(limited)
		if len(body) > maxIdempotencyBodyBytes {
			appErr := apperror.NewValidation("request body too large for idempotency")
			appErr.HTTPStatus = http.StatusRequestEntityTooLarge
			_ = c.Error(appErr.WithDetail("max_bytes", maxIdempotencyBodyBytes))
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		hash := sha256.Sum256(body)
		requestHash := hex.EncodeToString(hash[:])

		operation := c.Request.Method + " " + c.Request.URL.Path

		replay, err := store.AcquireKey(ctx, key, appctx.GetUsername(ctx), operation, requestHash)
		if err != nil {
			if _, ok := apperror.AsAppError(err); !ok {
				err = apperror.NewInternal(err).WithDetail("component", "idempotency")
			}
			_ = c.Error(err)
			c.Abort()
			return
		}

		if replay != nil {
			c.Header(HeaderReplayed, "true")
			if len(replay.Body) == 0 {
				c.Status(replay.StatusCode)
			} else {
				c.Data(replay.StatusCode, replay.ContentType, replay.Body)
			}
			c.Abort()
			return
		}

		w := &capturingWriter{ResponseWriter: c.Writer}
		c.Writer = w

		c.Next()

		// Errors are rendered here so the stored response matches what the
		// client receives.
		renderError(c)

		status := w.Status()
		contentType := w.Header().Get("Content-Type")
		finish := store.CompleteKey
		if status >= http.StatusBadRequest {
			finish = store.FailKey
		}
		if err := finish(ctx, key, status, contentType, w.body.Bytes()); err != nil {
			logger.Warn(ctx, "failed to store idempotent response", "key", key, "error", err)
		}
	}
}
