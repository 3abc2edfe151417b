package assistant

import (
	"regexp"
	"strings"
)

const (
	quoteTrigger = "cotiza"

	heuristicUnknownConfidence = 0.45
	heuristicQuoteConfidence   = 0.80

	// QuoteCreateRoute is the page the UI opens for a quote intent.
	QuoteCreateRoute = "/quotes/create.html"

	unknownMessage = "Puedo ayudarte a crear una cotización. Indica servicio, area, cliente y cantidades."
	quoteMessage   = "Abriré el módulo de cotizaciónes y completaré los campos detectados."
)

var (
	serviceKeywords = []struct{ keyword, service string }{
		{"instal", "instalacion"},
		{"mantenimiento", "mantenimiento"},
		{"repar", "reparacion"},
	}

	workAreas = []struct {
		pattern *regexp.Regexp
		area    string
	}{
		{regexp.MustCompile(`\b2do piso\b|\bsegundo piso\b`), "2do piso"},
		{regexp.MustCompile(`\b1er piso\b|\bprimer piso\b`), "1er piso"},
	}

	notesPattern = regexp.MustCompile(`\bcon\s+(.+)$`)
)

// Heuristic interprets message with fixed keywords. It is deterministic and
// never fails.
func Heuristic(message string) *Response {
	lower := strings.ToLower(strings.TrimSpace(message))
	if !strings.Contains(lower, quoteTrigger) {
		return &Response{
			OK:               true,
			Action:           ActionChatReply,
			Intent:           IntentUnknown,
			Confidence:       heuristicUnknownConfidence,
			Prefill:          emptyPrefill(),
			MissingFields:    []string{},
			AssistantMessage: unknownMessage,
		}
	}

	prefill := emptyPrefill()
	prefill.ServiceType = serviceType(lower)
	prefill.WorkArea = workArea(lower)
	prefill.MaterialsOrNotes = notes(lower)

	route := QuoteCreateRoute
	return &Response{
		OK:               true,
		Action:           ActionOpenQuoteCreate,
		Intent:           IntentCreateQuote,
		Confidence:       heuristicQuoteConfidence,
		NextRoute:        &route,
		Prefill:          prefill,
		MissingFields:    missingFields(&prefill),
		AssistantMessage: quoteMessage,
	}
}

func serviceType(lower string) *string {
	for _, k := range serviceKeywords {
		if strings.Contains(lower, k.keyword) {
			s := k.service
			return &s
		}
	}
	return nil
}

func workArea(lower string) *string {
	for _, w := range workAreas {
		if w.pattern.MatchString(lower) {
			a := w.area
			return &a
		}
	}
	return nil
}

func notes(lower string) *string {
	m := notesPattern.FindStringSubmatch(lower)
	if m == nil {
		return nil
	}
	n := strings.TrimSpace(m[1])
	return &n
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// missingFields lists absent form fields in a fixed order.
func missingFields(p *Prefill) []string {
	out := []string{}
	if blank(p.ClientName) {
		out = append(out, "clientName")
	}
	if p.Quantity == nil {
		out = append(out, "quantity")
	}
	if p.UnitPrice == nil {
		out = append(out, "unitPrice")
	}
	if blank(p.Phone) {
		out = append(out, "phone")
	}
	if blank(p.Address) {
		out = append(out, "address")
	}
	return out
}
