package dto

import (
	"airsolutions/internal/core/id"
	"airsolutions/internal/domain/catalogs/client"
	"airsolutions/internal/domain/documents/quote"
	"airsolutions/internal/domain/pricing"
)

// LineRequest is one priced row of a quote or invoice request.
type LineRequest = pricing.Input

// QuoteRequest is the body of quote create and update.
type QuoteRequest struct {
	ClientID    *id.ID         `json:"clientId"`
	NewClient   *ClientRequest `json:"newClient"`
	FromQuoteID *id.ID         `json:"fromQuoteId"`
	Name        *string        `json:"name" validate:"omitempty,max=200"`
	Description *string        `json:"description" validate:"omitempty,max=2000"`
	Lines       []LineRequest  `json:"lines"`
}

func (r *QuoteRequest) newClient() *client.Client {
	if r.NewClient == nil {
		return nil
	}
	return r.NewClient.ToEntity()
}

// ToCreate converts the request for quote creation.
func (r *QuoteRequest) ToCreate() quote.CreateRequest {
	return quote.CreateRequest{
		ClientID:    r.ClientID,
		NewClient:   r.newClient(),
		FromQuoteID: r.FromQuoteID,
		Name:        r.Name,
		Description: r.Description,
		Lines:       r.Lines,
	}
}

// ToUpdate converts the request for quote update.
func (r *QuoteRequest) ToUpdate() quote.UpdateRequest {
	return quote.UpdateRequest{
		ClientID:    r.ClientID,
		NewClient:   r.newClient(),
		Name:        r.Name,
		Description: r.Description,
		Lines:       r.Lines,
	}
}
