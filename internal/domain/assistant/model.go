// Package assistant turns free-text requests into quote prefill data.
//
// An optional external provider is tried first; any failure falls back to a
// deterministic keyword heuristic. The result is then enriched with matching
// clients and catalog items.
package assistant

import (
	"airsolutions/internal/core/id"
	"airsolutions/internal/core/types"
)

// Actions the UI can take.
const (
	ActionOpenQuoteCreate = "open_quote_create"
	ActionChatReply       = "chat_reply"
)

// Recognized intents.
const (
	IntentCreateQuote = "create_quote"
	IntentUnknown     = "unknown"
)

// Request is a message typed by the user plus where they typed it.
type Request struct {
	Message string   `json:"message"`
	Context *Context `json:"context,omitempty"`
}

// Context describes the UI state the message was sent from.
type Context struct {
	CurrentRoute *string `json:"currentRoute,omitempty"`
	SessionID    *string `json:"sessionId,omitempty"`
	Timezone     *string `json:"timezone,omitempty"`
}

// Response is the interpretation of a message.
type Response struct {
	OK               bool     `json:"ok"`
	Action           string   `json:"action"`
	Intent           string   `json:"intent"`
	Confidence       float64  `json:"confidence"`
	NextRoute        *string  `json:"nextRoute"`
	Prefill          Prefill  `json:"prefill"`
	MissingFields    []string `json:"missingFields"`
	AssistantMessage string   `json:"assistantMessage"`
}

// Prefill is draft data for the quote creation form.
type Prefill struct {
	ClientID         *id.ID        `json:"clientId"`
	ServiceType      *string       `json:"serviceType"`
	WorkArea         *string       `json:"workArea"`
	MaterialsOrNotes *string       `json:"materialsOrNotes"`
	ClientName       *string       `json:"clientName"`
	Phone            *string       `json:"phone"`
	Address          *string       `json:"address"`
	Quantity         *types.Money  `json:"quantity"`
	Unit             *string       `json:"unit"`
	UnitPrice        *types.Money  `json:"unitPrice"`
	ScheduledDate    *string       `json:"scheduledDate"`
	CatalogLines     []CatalogLine `json:"catalogLines"`
}

// CatalogLine is a suggested quote line.
type CatalogLine struct {
	CatalogItemID *id.ID      `json:"catalogItemId"`
	Name          string      `json:"name"`
	Description   *string     `json:"description"`
	Quantity      types.Money `json:"quantity"`
	UnitPrice     types.Money `json:"unitPrice"`
	IsTaxable     bool        `json:"isTaxable"`
	TaxRate       types.Money `json:"taxRate"`
}

func emptyPrefill() Prefill {
	return Prefill{CatalogLines: []CatalogLine{}}
}
