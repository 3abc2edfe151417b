package assistant

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"airsolutions/internal/core/types"
	"airsolutions/internal/domain/catalogs/catalogitem"
	"airsolutions/internal/domain/catalogs/client"
)

// ClientSource lists the clients a message can refer to.
type ClientSource interface {
	ListActive(ctx context.Context) ([]*client.Client, error)
}

// CatalogSource lists the catalog items lines can be suggested from.
type CatalogSource interface {
	ListActive(ctx context.Context) ([]*catalogitem.CatalogItem, error)
}

const (
	maxSuggestedLines = 4
	minTokenLength    = 4
	suggestedTaxRate  = "18"
)

var (
	clientNamePattern = regexp.MustCompile(`(?i)cliente\s+([a-zA-ZáéíóúÁÉÍÓÚñÑ0-9]+)`)
	tokenSeparator    = regexp.MustCompile(`[^a-z0-9áéíóúñ]+`)

	stopWords = map[string]struct{}{
		"quiero": {}, "hacer": {}, "una": {}, "un": {}, "de": {}, "del": {}, "con": {}, "para": {},
		"cotización": {}, "cotizar": {}, "instalacion": {}, "servicio": {}, "cliente": {},
		"segundo": {}, "piso": {}, "2do": {}, "primer": {}, "1er": {},
	}
)

// Enricher attaches known clients and catalog items to a quote interpretation.
type Enricher struct {
	clients ClientSource
	catalog CatalogSource
}

// NewEnricher creates an Enricher.
func NewEnricher(clients ClientSource, catalog CatalogSource) *Enricher {
	return &Enricher{clients: clients, catalog: catalog}
}

// Enrich updates resp in place. Only quote intents are enriched.
func (e *Enricher) Enrich(ctx context.Context, resp *Response, message string) error {
	if !strings.EqualFold(resp.Intent, IntentCreateQuote) {
		return nil
	}
	if err := e.attachClient(ctx, resp, message); err != nil {
		return err
	}
	if err := e.attachCatalogLines(ctx, resp, message); err != nil {
		return err
	}
	resp.MissingFields = reconcileMissing(resp)
	return nil
}

func extractClientName(message string) string {
	m := clientNamePattern.FindStringSubmatch(message)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func (e *Enricher) attachClient(ctx context.Context, resp *Response, message string) error {
	name := strings.TrimSpace(types.StringValue(resp.Prefill.ClientName))
	if name == "" {
		name = extractClientName(message)
	}
	if name == "" {
		return nil
	}

	clients, err := e.clients.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list active clients: %w", err)
	}

	match := matchClient(clients, name)
	if match == nil {
		resp.Prefill.ClientName = &name
		return nil
	}

	clientID := match.ID
	resp.Prefill.ClientID = &clientID
	display := match.FullName()
	if match.ClientType == client.TypeCompany {
		display = name
		if match.CompanyName != nil {
			display = *match.CompanyName
		}
	}
	resp.Prefill.ClientName = &display
	if resp.Prefill.Phone == nil {
		phone := match.Phone
		resp.Prefill.Phone = &phone
	}
	if resp.Prefill.Address == nil {
		resp.Prefill.Address = match.Address
	}
	return nil
}

// matchClient prefers an exact case-insensitive match on first name, company
// name or full name over a substring match on any name part.
func matchClient(clients []*client.Client, name string) *client.Client {
	for _, c := range clients {
		if strings.EqualFold(strings.TrimSpace(c.FirstName), name) ||
			strings.EqualFold(strings.TrimSpace(types.StringValue(c.CompanyName)), name) ||
			strings.EqualFold(c.FullName(), name) {
			return c
		}
	}

	needle := strings.ToLower(name)
	contains := func(s *string) bool {
		return s != nil && strings.Contains(strings.ToLower(*s), needle)
	}
	for _, c := range clients {
		if contains(&c.FirstName) || contains(c.LastName) || contains(c.CompanyName) {
			return c
		}
	}
	return nil
}

// catalogTokens returns the distinct search tokens of the message and the
// prefill, without stop words and short tokens. The service type is always
// included.
func catalogTokens(message string, serviceType, notes *string) []string {
	source := strings.ToLower(message + " " + types.StringValue(serviceType) + " " + types.StringValue(notes))

	seen := map[string]struct{}{}
	var tokens []string
	add := func(t string) {
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		tokens = append(tokens, t)
	}

	for _, t := range tokenSeparator.Split(source, -1) {
		t = strings.TrimSpace(t)
		if utf8.RuneCountInString(t) < minTokenLength {
			continue
		}
		if _, stop := stopWords[t]; stop {
			continue
		}
		add(t)
	}
	if st := strings.ToLower(strings.TrimSpace(types.StringValue(serviceType))); st != "" {
		add(st)
	}
	return tokens
}

type scoredItem struct {
	item  *catalogitem.CatalogItem
	score int
}

// rankItems scores items by the number of tokens found in name and
// description; ties prefer services. At most maxSuggestedLines are returned.
func rankItems(items []*catalogitem.CatalogItem, tokens []string) []*catalogitem.CatalogItem {
	var scored []scoredItem
	for _, it := range items {
		text := it.SearchText()
		score := 0
		for _, t := range tokens {
			if strings.Contains(text, t) {
				score++
			}
		}
		if score > 0 {
			scored = append(scored, scoredItem{item: it, score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].item.ItemType == catalogitem.TypeService && scored[j].item.ItemType != catalogitem.TypeService
	})

	if len(scored) > maxSuggestedLines {
		scored = scored[:maxSuggestedLines]
	}
	out := make([]*catalogitem.CatalogItem, 0, len(scored))
	for _, s := range scored {
		out = append(out, s.item)
	}
	return out
}

func (e *Enricher) attachCatalogLines(ctx context.Context, resp *Response, message string) error {
	if len(resp.Prefill.CatalogLines) > 0 {
		return nil
	}
	tokens := catalogTokens(message, resp.Prefill.ServiceType, resp.Prefill.MaterialsOrNotes)
	if len(tokens) == 0 {
		return nil
	}

	items, err := e.catalog.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list active catalog items: %w", err)
	}

	for _, it := range rankItems(items, tokens) {
		itemID := it.ID
		line := CatalogLine{
			CatalogItemID: &itemID,
			Name:          it.Name,
			Description:   it.Description,
			Quantity:      types.MustMoney("1"),
			UnitPrice:     types.ValueOrZero(it.BasePrice),
			IsTaxable:     it.IsTaxable,
			TaxRate:       types.Zero(),
		}
		if it.IsTaxable {
			line.TaxRate = types.MustMoney(suggestedTaxRate)
		}
		resp.Prefill.CatalogLines = append(resp.Prefill.CatalogLines, line)
	}
	return nil
}

// reconcileMissing drops blanks and case-insensitive duplicates, then removes
// fields the enrichment resolved.
func reconcileMissing(resp *Response) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, f := range resp.MissingFields {
		if strings.TrimSpace(f) == "" {
			continue
		}
		key := strings.ToLower(f)
		if _, ok := seen[key]; ok {
			continue
		}
		if key == "clientname" && resp.Prefill.ClientID != nil {
			continue
		}
		if key == "servicetype" && len(resp.Prefill.CatalogLines) > 0 {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, f)
	}
	return out
}
