package postgres

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"airsolutions/internal/core/apperror"
)

// IdempotencyStatus represents the state of an idempotent operation.
type IdempotencyStatus string

const (
	IdempotencyStatusPending IdempotencyStatus = "pending"
	IdempotencyStatusSuccess IdempotencyStatus = "success"
	IdempotencyStatusFailed  IdempotencyStatus = "failed"
)

// staleAfter is how long a pending key may sit before another request may reclaim it.
const staleAfter = time.Minute

// IdempotencyRecord stores the result of an idempotent operation.
type IdempotencyRecord struct {
	Key         string            `db:"idempotency_key"`
	Username    string            `db:"username"`
	Operation   string            `db:"operation"`
	Status      IdempotencyStatus `db:"status"`
	RequestHash string            `db:"request_hash"` // SHA256 of request body
	Response    []byte            `db:"response"`
	StatusCode  *int              `db:"response_status"`
	ContentType *string           `db:"response_content_type"`
	UpdatedAt   time.Time         `db:"updated_at"`
	Inserted    bool              `db:"inserted"`
}

// IdempotencyReplay is the cached HTTP response for replay.
type IdempotencyReplay struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// IdempotencyStore manages idempotency keys in sys_idempotency.
type IdempotencyStore struct {
	db  QuerierProvider
	ttl time.Duration
	now func() time.Time
}

// NewIdempotencyStore creates a new idempotency store. Keys expire after ttl.
func NewIdempotencyStore(db QuerierProvider, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &IdempotencyStore{
		db:  db,
		ttl: ttl,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// AcquireKey attempts to acquire an idempotency key.
// Returns:
//   - (nil, nil) if the key was acquired and the request should run
//   - (replay, nil) if the operation already finished
//   - (nil, error) if the key is in flight or was used for another request
func (s *IdempotencyStore) AcquireKey(ctx context.Context, key, username, operation, requestHash string) (*IdempotencyReplay, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)

	var rec IdempotencyRecord
	err := s.db.GetQuerier(ctx).QueryRow(ctx, `
		INSERT INTO sys_idempotency (idempotency_key, username, operation, status, request_hash, created_at, updated_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6, $7)
		ON CONFLICT (idempotency_key) DO UPDATE SET
			expires_at = GREATEST(sys_idempotency.expires_at, EXCLUDED.expires_at)
		RETURNING idempotency_key, username, operation, status, request_hash,
			response, response_status, response_content_type, updated_at, (xmax = 0) AS inserted
	`, key, username, operation, string(IdempotencyStatusPending), requestHash, now, expiresAt).Scan(
		&rec.Key, &rec.Username, &rec.Operation, &rec.Status, &rec.RequestHash,
		&rec.Response, &rec.StatusCode, &rec.ContentType, &rec.UpdatedAt, &rec.Inserted,
	)
	if err != nil {
		return nil, fmt.Errorf("acquire idempotency key: %w", err)
	}

	if rec.Inserted {
		return nil, nil
	}

	if rec.Username != username || rec.Operation != operation || rec.RequestHash != requestHash {
		return nil, apperror.NewIdempotencyMismatch(key).
			WithDetail("operation", operation)
	}

	switch rec.Status {
	case IdempotencyStatusSuccess, IdempotencyStatusFailed:
		return rec.replay(), nil

	case IdempotencyStatusPending:
		if now.Sub(rec.UpdatedAt) > staleAfter {
			tag, err := s.db.GetQuerier(ctx).Exec(ctx, `
				UPDATE sys_idempotency
				SET updated_at = $1
				WHERE idempotency_key = $2 AND status = $3 AND updated_at = $4
			`, now, key, string(IdempotencyStatusPending), rec.UpdatedAt)
			if err != nil {
				return nil, fmt.Errorf("reclaim stale key: %w", err)
			}
			if tag.RowsAffected() == 1 {
				return nil, nil
			}
		}
		return nil, apperror.NewIdempotencyConflict(key)
	}

	return nil, nil
}

func (r IdempotencyRecord) replay() *IdempotencyReplay {
	status := http.StatusOK
	if r.StatusCode != nil && *r.StatusCode != 0 {
		status = *r.StatusCode
	}
	contentType := "application/json"
	if r.ContentType != nil && *r.ContentType != "" {
		contentType = *r.ContentType
	}
	return &IdempotencyReplay{StatusCode: status, ContentType: contentType, Body: r.Response}
}

// CompleteKey stores a successful response for replay.
func (s *IdempotencyStore) CompleteKey(ctx context.Context, key string, statusCode int, contentType string, body []byte) error {
	return s.finish(ctx, key, IdempotencyStatusSuccess, statusCode, contentType, body)
}

// FailKey stores an error response for replay.
func (s *IdempotencyStore) FailKey(ctx context.Context, key string, statusCode int, contentType string, body []byte) error {
	return s.finish(ctx, key, IdempotencyStatusFailed, statusCode, contentType, body)
}

func (s *IdempotencyStore) finish(ctx context.Context, key string, status IdempotencyStatus, statusCode int, contentType string, body []byte) error {
	_, err := s.db.GetQuerier(ctx).Exec(ctx, `
		UPDATE sys_idempotency
		SET status = $1,
		    response = $2,
		    response_status = $3,
		    response_content_type = $4,
		    updated_at = $5
		WHERE idempotency_key = $6
	`, string(status), body, statusCode, contentType, s.now(), key)
	if err != nil {
		return fmt.Errorf("finish idempotency key: %w", err)
	}
	return nil
}

// CleanupExpired removes expired idempotency records.
func (s *IdempotencyStore) CleanupExpired(ctx context.Context) (int64, error) {
	result, err := s.db.GetQuerier(ctx).Exec(ctx, `
		DELETE FROM sys_idempotency WHERE expires_at < $1
	`, s.now())
	if err != nil {
		return 0, fmt.Errorf("cleanup idempotency keys: %w", err)
	}
	return result.RowsAffected(), nil
}
