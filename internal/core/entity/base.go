// Package entity holds the building blocks shared by persisted business records.
package entity

import (
	"context"
	"time"

	"airsolutions/internal/core/id"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants (without database access).
type Validatable interface {
	// Validate checks entity invariants.
	// Returns nil if valid, a validation AppError listing every violation otherwise.
	Validate(ctx context.Context) error
}

// Identifiable exposes the primary key of an entity.
type Identifiable interface {
	GetID() id.ID
}

// BaseEntity contains the fields every table row carries.
type BaseEntity struct {
	// ID is the primary key (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt *time.Time `db:"updated_at" json:"updatedAt,omitempty"`
}

// NewBaseEntity creates a BaseEntity with generated ID and creation time.
func NewBaseEntity() BaseEntity {
	return BaseEntity{
		ID:        id.New(),
		CreatedAt: time.Now().UTC(),
	}
}

// GetID implements Identifiable.
func (b *BaseEntity) GetID() id.ID {
	return b.ID
}

// Touch stamps UpdatedAt.
func (b *BaseEntity) Touch() {
	now := time.Now().UTC()
	b.UpdatedAt = &now
}

// BaseDocument extends BaseEntity with authorship for quotes and invoices.
type BaseDocument struct {
	BaseEntity

	CreatedBy string `db:"created_by" json:"createdBy,omitempty"`
	UpdatedBy string `db:"updated_by" json:"updatedBy,omitempty"`
}

// NewBaseDocument creates a new BaseDocument with generated ID and timestamps.
func NewBaseDocument() BaseDocument {
	return BaseDocument{BaseEntity: NewBaseEntity()}
}

// SetCreatedBy records the author of the document.
func (d *BaseDocument) SetCreatedBy(user string) {
	d.CreatedBy = user
}

// SetUpdatedBy records the last editor of the document.
func (d *BaseDocument) SetUpdatedBy(user string) {
	d.UpdatedBy = user
}

// DateOnly drops the time-of-day part.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
