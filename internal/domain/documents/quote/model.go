// Package quote provides the Quote document: a priced proposal for a client
// that can later be turned into an invoice.
package quote

import (
	"airsolutions/internal/core/entity"
	"airsolutions/internal/core/id"
	"airsolutions/internal/domain/catalogs/client"
	"airsolutions/internal/domain/pricing"
)

// Quote is the document header. Lines are loaded separately.
type Quote struct {
	entity.BaseDocument

	ClientID    id.ID   `db:"client_id" json:"clientId"`
	Name        *string `db:"name" json:"name,omitempty"`
	Description *string `db:"description" json:"description,omitempty"`

	pricing.Totals

	Lines []Line `db:"-" json:"lines,omitempty"`
}

// Line is a priced quote row.
type Line = pricing.Line

// LineRequest is the caller-supplied part of a line.
type LineRequest = pricing.Input

// Recalculate refreshes header totals from the lines.
func (q *Quote) Recalculate() {
	q.Totals = pricing.Summarize(q.Lines)
}

// Inputs returns the raw inputs of the lines, used when a quote serves as a template.
func (q *Quote) Inputs() []LineRequest {
	out := make([]LineRequest, 0, len(q.Lines))
	for _, l := range q.Lines {
		out = append(out, l.Input)
	}
	return out
}

// CreateRequest carries the fields accepted on creation. Either ClientID or
// NewClient selects the client; ClientID wins when both are given.
type CreateRequest struct {
	ClientID    *id.ID
	NewClient   *client.Client
	FromQuoteID *id.ID
	Name        *string
	Description *string
	Lines       []LineRequest
}

// UpdateRequest carries the fields accepted on update. NewClient is only
// present so it can be rejected.
type UpdateRequest struct {
	ClientID    *id.ID
	NewClient   *client.Client
	Name        *string
	Description *string
	Lines       []LineRequest
}

// ListItem is a quote header with its client summary.
type ListItem struct {
	Quote
	Client *client.Summary `db:"-" json:"client,omitempty"`
}

// Details is a full quote: header, lines and client summary.
type Details = ListItem
