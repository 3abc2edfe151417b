package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	resp  *Response
	err   error
	calls int
}

func (p *stubProvider) Interpret(context.Context, string) (*Response, error) {
	p.calls++
	return p.resp, p.err
}

func TestService_EmptyMessage(t *testing.T) {
	p := &stubProvider{}
	svc := NewService(p, nil)

	resp, err := svc.Interpret(context.Background(), Request{Message: "   "})
	require.NoError(t, err)
	assert.False(t, resp.OK)
	assert.Equal(t, "you must write a message", resp.AssistantMessage)
	assert.Zero(t, p.calls)
}

func TestService_HeuristicWithoutProvider(t *testing.T) {
	svc := NewService(nil, nil)

	resp, err := svc.Interpret(context.Background(), Request{Message: "quiero cotizar instalacion en 2do piso con rejillas nuevas"})
	require.NoError(t, err)
	assert.Equal(t, IntentCreateQuote, resp.Intent)
	assert.InDelta(t, 0.80, resp.Confidence, 1e-9)
}

func TestService_ProviderFailureFallsBack(t *testing.T) {
	p := &stubProvider{err: errors.New("timeout")}
	svc := NewService(p, nil)

	resp, err := svc.Interpret(context.Background(), Request{Message: "hola"})
	require.NoError(t, err)
	assert.Equal(t, 1, p.calls)
	assert.True(t, resp.OK)
	assert.Equal(t, IntentUnknown, resp.Intent)
	assert.InDelta(t, 0.45, resp.Confidence, 1e-9)
}

func TestService_ProviderResultIsEnriched(t *testing.T) {
	clients, items := fixtureSources()
	name := "Ana"
	provided := &Response{
		OK:            true,
		Action:        ActionOpenQuoteCreate,
		Intent:        IntentCreateQuote,
		Confidence:    0.9,
		Prefill:       emptyPrefill(),
		MissingFields: []string{"clientName", "serviceType"},
	}
	provided.Prefill.ClientName = &name
	svc := NewService(&stubProvider{resp: provided}, NewEnricher(clients, items))

	resp, err := svc.Interpret(context.Background(), Request{Message: "haz una cotizacion de mantenimiento preventivo"})
	require.NoError(t, err)
	assert.InDelta(t, 0.9, resp.Confidence, 1e-9)
	assert.Equal(t, clients[0].ID, *resp.Prefill.ClientID)
	require.Len(t, resp.Prefill.CatalogLines, 1)
	assert.Equal(t, "Mantenimiento preventivo", resp.Prefill.CatalogLines[0].Name)
	assert.Empty(t, resp.MissingFields)
}
