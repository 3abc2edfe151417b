package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airsolutions/internal/core/types"
	"airsolutions/internal/domain/catalogs/catalogitem"
	"airsolutions/internal/domain/catalogs/client"
)

type clientList []*client.Client

func (l clientList) ListActive(context.Context) ([]*client.Client, error) { return l, nil }

type itemList []*catalogitem.CatalogItem

func (l itemList) ListActive(context.Context) ([]*catalogitem.CatalogItem, error) { return l, nil }

type failingSource struct{}

func (failingSource) ListActive(context.Context) ([]*client.Client, error) {
	return nil, errors.New("db down")
}

func newClient(typ client.Type, first, last, company, phone string) *client.Client {
	c := client.NewClient()
	c.ClientType = typ
	c.FirstName = first
	c.Phone = phone
	if last != "" {
		c.LastName = &last
	}
	if company != "" {
		c.CompanyName = &company
	}
	return c
}

func newItem(name, desc string, typ catalogitem.ItemType, price string, taxable bool) *catalogitem.CatalogItem {
	it := catalogitem.NewCatalogItem()
	it.Name = name
	if desc != "" {
		it.Description = &desc
	}
	it.ItemType = typ
	if price != "" {
		it.BasePrice = types.SomeMoney(types.MustMoney(price))
	}
	it.IsTaxable = taxable
	return it
}

func fixtureSources() (clientList, itemList) {
	ana := newClient(client.TypeIndividual, "Ana", "Pérez", "", "809-555-0101")
	address := "Calle 1"
	ana.Address = &address
	frio := newClient(client.TypeCompany, "Luis", "", "Frio Total SRL", "809-555-0199")

	items := itemList{
		newItem("Rejillas de ventilacion", "", catalogitem.TypeMaterial, "20", false),
		newItem("Instalacion split 12000 BTU", "Incluye soporte", catalogitem.TypeService, "150", true),
		newItem("Mantenimiento preventivo", "", catalogitem.TypeService, "45", true),
		newItem("Tuberia de cobre", "", catalogitem.TypeMaterial, "", false),
	}
	return clientList{ana, frio}, items
}

func TestEnrich_ExactClientAndCatalogLines(t *testing.T) {
	clients, items := fixtureSources()
	e := NewEnricher(clients, items)
	msg := "quiero cotizar instalacion para cliente ana con rejillas nuevas"
	resp := Heuristic(msg)

	require.NoError(t, e.Enrich(context.Background(), resp, msg))

	require.NotNil(t, resp.Prefill.ClientID)
	assert.Equal(t, clients[0].ID, *resp.Prefill.ClientID)
	assert.Equal(t, "Ana Pérez", *resp.Prefill.ClientName)
	assert.Equal(t, "809-555-0101", *resp.Prefill.Phone)
	assert.Equal(t, "Calle 1", *resp.Prefill.Address)

	require.Len(t, resp.Prefill.CatalogLines, 2)
	first, second := resp.Prefill.CatalogLines[0], resp.Prefill.CatalogLines[1]
	assert.Equal(t, "Instalacion split 12000 BTU", first.Name, "services win ties")
	assert.Equal(t, items[1].ID, *first.CatalogItemID)
	assert.Equal(t, "150", first.UnitPrice.String())
	assert.Equal(t, "18", first.TaxRate.String())
	assert.Equal(t, "1", first.Quantity.String())
	assert.Equal(t, "Rejillas de ventilacion", second.Name)
	assert.True(t, second.TaxRate.IsZero())

	assert.Equal(t, []string{"quantity", "unitPrice", "phone", "address"}, resp.MissingFields)
}

func TestEnrich_ClientMatching(t *testing.T) {
	clients, items := fixtureSources()
	e := NewEnricher(clients, items)

	t.Run("substring on company name", func(t *testing.T) {
		msg := "cotizar para el cliente frio"
		resp := Heuristic(msg)
		require.NoError(t, e.Enrich(context.Background(), resp, msg))
		require.NotNil(t, resp.Prefill.ClientID)
		assert.Equal(t, clients[1].ID, *resp.Prefill.ClientID)
		assert.Equal(t, "Frio Total SRL", *resp.Prefill.ClientName)
		assert.NotContains(t, resp.MissingFields, "clientName")
	})

	t.Run("exact match beats substring", func(t *testing.T) {
		luisa := newClient(client.TypeIndividual, "Luisa", "", "", "1")
		luis := newClient(client.TypeIndividual, "Luis", "Gomez", "", "2")
		e := NewEnricher(clientList{luisa, luis}, itemList{})
		msg := "cotizar para cliente LUIS"
		resp := Heuristic(msg)
		require.NoError(t, e.Enrich(context.Background(), resp, msg))
		assert.Equal(t, luis.ID, *resp.Prefill.ClientID)
	})

	t.Run("unknown client keeps the extracted name", func(t *testing.T) {
		msg := "cotiza para cliente zeta"
		resp := Heuristic(msg)
		require.NoError(t, e.Enrich(context.Background(), resp, msg))
		assert.Nil(t, resp.Prefill.ClientID)
		assert.Equal(t, "zeta", *resp.Prefill.ClientName)
		assert.Contains(t, resp.MissingFields, "clientName")
	})
}

func TestEnrich_CapsSuggestions(t *testing.T) {
	var items itemList
	for _, n := range []string{"split a", "split b", "split c", "split d", "split e"} {
		items = append(items, newItem(n, "", catalogitem.TypeProduct, "1", false))
	}
	items = append(items, newItem("split service", "", catalogitem.TypeService, "1", false))
	e := NewEnricher(clientList{}, items)

	msg := "cotizar split"
	resp := Heuristic(msg)
	require.NoError(t, e.Enrich(context.Background(), resp, msg))

	require.Len(t, resp.Prefill.CatalogLines, maxSuggestedLines)
	assert.Equal(t, "split service", resp.Prefill.CatalogLines[0].Name)
	assert.Equal(t, "split a", resp.Prefill.CatalogLines[1].Name)
}

func TestEnrich_KeepsExistingLinesAndSkipsOtherIntents(t *testing.T) {
	e := NewEnricher(failingSource{}, itemList{newItem("Instalacion", "", catalogitem.TypeService, "1", true)})

	resp := Heuristic("hola")
	require.NoError(t, e.Enrich(context.Background(), resp, "hola"))
	assert.Empty(t, resp.Prefill.CatalogLines)

	resp = &Response{
		Intent:        IntentCreateQuote,
		Prefill:       emptyPrefill(),
		MissingFields: []string{"phone", "Phone", " ", "serviceType"},
	}
	resp.Prefill.CatalogLines = []CatalogLine{{Name: "Provided"}}
	require.NoError(t, e.Enrich(context.Background(), resp, "instalacion"))
	require.Len(t, resp.Prefill.CatalogLines, 1)
	assert.Equal(t, []string{"phone"}, resp.MissingFields)
}

func TestEnrich_SourceErrorsPropagate(t *testing.T) {
	e := NewEnricher(failingSource{}, itemList{})
	msg := "cotizar para cliente ana"
	err := e.Enrich(context.Background(), Heuristic(msg), msg)
	assert.Error(t, err)
}

func TestCatalogTokens(t *testing.T) {
	st, notes := "instalacion", "rejillas nuevas"
	tokens := catalogTokens("Quiero cotizar instalación del aire, con rejillas", &st, &notes)
	assert.Equal(t, []string{"instalación", "aire", "rejillas", "nuevas", "instalacion"}, tokens)
}
