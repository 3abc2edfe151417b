package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeuristic_QuoteRequest(t *testing.T) {
	resp := Heuristic("quiero cotizar instalacion en 2do piso con rejillas nuevas")

	assert.True(t, resp.OK)
	assert.Equal(t, IntentCreateQuote, resp.Intent)
	assert.Equal(t, ActionOpenQuoteCreate, resp.Action)
	assert.InDelta(t, 0.80, resp.Confidence, 1e-9)
	require.NotNil(t, resp.NextRoute)
	assert.Equal(t, QuoteCreateRoute, *resp.NextRoute)

	require.NotNil(t, resp.Prefill.ServiceType)
	assert.Equal(t, "instalacion", *resp.Prefill.ServiceType)
	require.NotNil(t, resp.Prefill.WorkArea)
	assert.Equal(t, "2do piso", *resp.Prefill.WorkArea)
	require.NotNil(t, resp.Prefill.MaterialsOrNotes)
	assert.Contains(t, *resp.Prefill.MaterialsOrNotes, "rejillas nuevas")

	assert.Equal(t, []string{"clientName", "quantity", "unitPrice", "phone", "address"}, resp.MissingFields)
}

func TestHeuristic_NoTrigger(t *testing.T) {
	resp := Heuristic("hola, necesito ayuda con una factura")

	assert.True(t, resp.OK)
	assert.Equal(t, IntentUnknown, resp.Intent)
	assert.Equal(t, ActionChatReply, resp.Action)
	assert.InDelta(t, 0.45, resp.Confidence, 1e-9)
	assert.Nil(t, resp.NextRoute)
	assert.Equal(t, emptyPrefill(), resp.Prefill)
	assert.Empty(t, resp.MissingFields)
}

func TestHeuristic_Extraction(t *testing.T) {
	str := func(s string) *string { return &s }

	tests := []struct {
		name    string
		message string
		service *string
		area    *string
		notes   *string
	}{
		{"install wins over the rest", "cotizar mantenimiento y reparacion de la instalacion", str("instalacion"), nil, nil},
		{"maintenance before repair", "Cotiza reparacion y mantenimiento", str("mantenimiento"), nil, nil},
		{"repair", "cotizacion para reparar equipo", str("reparacion"), nil, nil},
		{"no service", "cotiza algo", nil, nil, nil},
		{"second floor before first", "cotizar en el primer piso y el segundo piso", nil, str("2do piso"), nil},
		{"first floor", "cotizar trabajo en 1er piso", nil, str("1er piso"), nil},
		{"accents and case", "  COTIZAR Instalación en Segundo Piso CON Tubería  ", str("instalacion"), str("2do piso"), str("tubería")},
		{"connector needs a word boundary", "cotizar concreto", nil, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := Heuristic(tt.message)
			require.Equal(t, IntentCreateQuote, resp.Intent)
			assert.Equal(t, tt.service, resp.Prefill.ServiceType)
			assert.Equal(t, tt.area, resp.Prefill.WorkArea)
			assert.Equal(t, tt.notes, resp.Prefill.MaterialsOrNotes)
		})
	}
}

func TestMissingFields_PresentFieldsAreSkipped(t *testing.T) {
	name, phone := "Ana", "809"
	p := emptyPrefill()
	p.ClientName = &name
	p.Phone = &phone

	assert.Equal(t, []string{"quantity", "unitPrice", "address"}, missingFields(&p))
}
