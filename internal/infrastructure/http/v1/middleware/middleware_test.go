package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airsolutions/internal/core/apperror"
	appctx "airsolutions/internal/core/context"
	"airsolutions/internal/infrastructure/storage/postgres"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubValidator struct {
	users map[string]*appctx.UserContext
}

func (v stubValidator) Validate(token string) (*appctx.UserContext, error) {
	if u, ok := v.users[token]; ok {
		return u, nil
	}
	return nil, errors.New("bad token")
}

var validator = stubValidator{users: map[string]*appctx.UserContext{
	"admin": {Username: "cristhian", Role: appctx.RoleAdmin},
	"user":  {Username: "ana", Role: "User"},
}}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(Trace(), ErrorHandler())
	r.Use(mw...)
	return r
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var body ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAuth(t *testing.T) {
	r := newEngine(Auth(validator))
	r.GET("/me", func(c *gin.Context) {
		c.String(http.StatusOK, appctx.GetUsername(c.Request.Context()))
	})

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{name: "missing header", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", status: http.StatusUnauthorized},
		{name: "invalid token", header: "Bearer nope", status: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer user", status: http.StatusOK, body: "ana"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			} else {
				assert.Equal(t, apperror.CodeUnauthorized, decodeError(t, w).Code)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	r := newEngine(Auth(validator), RequireRole(appctx.RoleAdmin))
	r.POST("/things", func(c *gin.Context) { c.Status(http.StatusCreated) })

	for token, want := range map[string]int{"admin": http.StatusCreated, "user": http.StatusForbidden} {
		req := httptest.NewRequest(http.MethodPost, "/things", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, token)
	}
}

func TestOptionalAuth_AnonymousPasses(t *testing.T) {
	r := newEngine(OptionalAuth(validator))
	r.GET("/public", func(c *gin.Context) {
		c.String(http.StatusOK, "["+appctx.GetUsername(c.Request.Context())+"]")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/public", nil))
	assert.Equal(t, "[]", w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	req.Header.Set("Authorization", "Bearer admin")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "[cristhian]", w.Body.String())
}

func TestErrorHandler_ValidationList(t *testing.T) {
	r := newEngine()
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(apperror.NewValidationList([]string{"a is required", "b is required"}))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, apperror.CodeValidation, body.Code)
	assert.Equal(t, []any{"a is required", "b is required"}, body.Details[apperror.DetailErrors])
}

func TestErrorHandler_UnknownErrorHidesCause(t *testing.T) {
	r := newEngine()
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(errors.New("pq: relation does not exist"))
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(HeaderRequestID, "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "req-42", w.Header().Get(HeaderRequestID))
	assert.NotContains(t, w.Body.String(), "relation")
	body := decodeError(t, w)
	assert.Equal(t, apperror.CodeInternal, body.Code)
	assert.Equal(t, "req-42", body.Details["request_id"])
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Trace(), Recovery())
	r.GET("/panic", func(*gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "kaboom")
}

type memoryIdempotency struct {
	mu      sync.Mutex
	hashes  map[string]string
	replays map[string]*postgres.IdempotencyReplay
}

func newMemoryIdempotency() *memoryIdempotency {
	return &memoryIdempotency{
		hashes:  map[string]string{},
		replays: map[string]*postgres.IdempotencyReplay{},
	}
}

func (m *memoryIdempotency) AcquireKey(_ context.Context, key, _, _, requestHash string) (*postgres.IdempotencyReplay, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h, ok := m.hashes[key]; ok {
		if h != requestHash {
			return nil, apperror.NewIdempotencyMismatch(key)
		}
		if r, ok := m.replays[key]; ok {
			return r, nil
		}
		return nil, apperror.NewIdempotencyConflict(key)
	}
	m.hashes[key] = requestHash
	return nil, nil
}

func (m *memoryIdempotency) store(key string, status int, contentType string, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replays[key] = &postgres.IdempotencyReplay{StatusCode: status, ContentType: contentType, Body: append([]byte(nil), body...)}
	return nil
}

func (m *memoryIdempotency) CompleteKey(_ context.Context, key string, status int, contentType string, body []byte) error {
	return m.store(key, status, contentType, body)
}

func (m *memoryIdempotency) FailKey(_ context.Context, key string, status int, contentType string, body []byte) error {
	return m.store(key, status, contentType, body)
}

func TestIdempotency_ReplaysResponse(t *testing.T) {
	store := newMemoryIdempotency()
	calls := 0
	r := newEngine(Idempotency(store))
	r.POST("/invoices", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"n": calls})
	})

	send := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/invoices", strings.NewReader(body))
		req.Header.Set(HeaderIdempotencyKey, "k1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	first := send(`{"a":1}`)
	second := send(`{"a":1}`)

	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get(HeaderReplayed))
	assert.Equal(t, 1, calls)

	mismatch := send(`{"a":2}`)
	assert.Equal(t, http.StatusConflict, mismatch.Code)
}

func TestIdempotency_StoresErrorResponse(t *testing.T) {
	store := newMemoryIdempotency()
	r := newEngine(Idempotency(store))
	r.POST("/payments", func(c *gin.Context) {
		_ = c.Error(apperror.NewValidation("payment amount must be greater than 0"))
	})

	req := httptest.NewRequest(http.MethodPost, "/payments", strings.NewReader(`{}`))
	req.Header.Set(HeaderIdempotencyKey, "k2")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	stored := store.replays["k2"]
	require.NotNil(t, stored)
	assert.Equal(t, http.StatusBadRequest, stored.StatusCode)
	assert.JSONEq(t, w.Body.String(), string(stored.Body))
}

func TestIdempotency_WithoutKeyPassesThrough(t *testing.T) {
	store := newMemoryIdempotency()
	r := newEngine(Idempotency(store))
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, store.hashes)
}
