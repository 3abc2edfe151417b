package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	appctx "airsolutions/internal/core/context"
	"airsolutions/internal/core/id"
	"airsolutions/internal/domain/audit"
)

// CompressionAlgo specifies the compression algorithm used for a change set.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// DefaultCompressThreshold is the change-set size above which entries are
// stored zstd-compressed.
const DefaultCompressThreshold = 512

const auditInsertSQL = `
	INSERT INTO sys_audit (
		id, entity_type, entity_id, action, username,
		changes, changes_compressed, compression_algo, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

const auditHistorySQL = `
	SELECT id, entity_type, entity_id, action, username,
		   changes, changes_compressed, compression_algo, created_at
	FROM sys_audit
	WHERE entity_type = $1 AND entity_id = $2
	ORDER BY created_at DESC, id DESC
	LIMIT $3`

// AuditRecorder writes the audit trail to sys_audit. It joins the caller's
// transaction, so a failed write aborts the business change.
type AuditRecorder struct {
	db                QuerierProvider
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
}

var _ audit.Recorder = (*AuditRecorder)(nil)

// NewAuditRecorder creates a recorder. threshold <= 0 selects the default.
func NewAuditRecorder(db QuerierProvider, threshold int) (*AuditRecorder, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	if threshold <= 0 {
		threshold = DefaultCompressThreshold
	}
	return &AuditRecorder{
		db:                db,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: threshold,
	}, nil
}

// Record implements audit.Recorder.
func (r *AuditRecorder) Record(ctx context.Context, entityType string, entityID id.ID, action audit.Action, changes any) error {
	raw, err := json.Marshal(changes)
	if err != nil {
		return fmt.Errorf("marshal changes: %w", err)
	}

	var (
		plain      []byte
		compressed []byte
		algo       = CompressionNone
	)
	if len(raw) > r.compressThreshold {
		compressed = r.encoder.EncodeAll(raw, nil)
		algo = CompressionZstd
	} else {
		plain = raw
	}

	_, err = r.db.GetQuerier(ctx).Exec(ctx, auditInsertSQL,
		id.New(), entityType, entityID, string(action), appctx.GetUsername(ctx),
		plain, compressed, string(algo), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// History implements audit.Recorder. Entries come back newest first with
// their change sets decompressed.
func (r *AuditRecorder) History(ctx context.Context, entityType string, entityID id.ID, limit int) ([]audit.Entry, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.GetQuerier(ctx).Query(ctx, auditHistorySQL, entityType, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	entries := []audit.Entry{}
	for rows.Next() {
		var (
			e                 audit.Entry
			action, algo      string
			plain, compressed []byte
		)
		err := rows.Scan(
			&e.ID, &e.EntityType, &e.EntityID, &action, &e.Username,
			&plain, &compressed, &algo, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.Action = audit.Action(action)

		if CompressionAlgo(algo) == CompressionZstd && len(compressed) > 0 {
			decompressed, err := r.decoder.DecodeAll(compressed, nil)
			if err != nil {
				return nil, fmt.Errorf("decompress changes: %w", err)
			}
			e.Changes = decompressed
		} else if len(plain) > 0 {
			e.Changes = plain
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}
