package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"airsolutions/internal/core/id"
	"airsolutions/internal/core/types"
)

var tracer = otel.Tracer("airsolutions/assistant")

// ErrProviderFailure marks any failure of the external provider: transport
// errors, non-success status, empty or malformed output.
var ErrProviderFailure = errors.New("assistant provider failure")

// Provider interprets a message with an external language model.
type Provider interface {
	Interpret(ctx context.Context, message string) (*Response, error)
}

// ProviderConfig configures OpenAIProvider.
type ProviderConfig struct {
	APIKey string
	Model  string
	// BaseURL of an OpenAI-compatible endpoint, e.g. Gemini's
	// https://generativelanguage.googleapis.com/v1beta/openai/
	BaseURL string
	Timeout time.Duration
}

const (
	defaultModel       = "gemini-2.0-flash"
	defaultTemperature = 0.1
)

// OpenAIProvider talks to an OpenAI-compatible chat completion endpoint.
type OpenAIProvider struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAIProvider creates a provider from cfg.
func NewOpenAIProvider(cfg ProviderConfig) *OpenAIProvider {
	c := openai.DefaultConfig(strings.TrimSpace(cfg.APIKey))
	if cfg.BaseURL != "" {
		c.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	return &OpenAIProvider{
		client:  openai.NewClientWithConfig(c),
		model:   model,
		timeout: cfg.Timeout,
	}
}

const systemPrompt = `Eres un clasificador de intencion para una empresa de climatizacion.
Responde SOLO con un objeto JSON valido con exactamente estas claves:
{
  "action": "open_quote_create" | "chat_reply",
  "intent": "create_quote" | "unknown",
  "confidence": numero entre 0 y 1,
  "nextRoute": "/quotes/create.html" | null,
  "prefill": {
    "clientId": null,
    "serviceType": string|null, "workArea": string|null, "materialsOrNotes": string|null,
    "clientName": string|null, "phone": string|null, "address": string|null,
    "quantity": number|null, "unit": string|null, "unitPrice": number|null, "scheduledDate": string|null,
    "catalogLines": [{"catalogItemId": null, "name": string, "description": string|null,
                      "quantity": number, "unitPrice": number, "isTaxable": boolean, "taxRate": number}]
  },
  "missingFields": [string],
  "assistantMessage": string
}
Si el usuario quiere una cotizacion usa action=open_quote_create e intent=create_quote.
No inventes numeros que no aparezcan en el mensaje. Los campos no detectados van en null.
missingFields lista los datos que faltan para completar la cotizacion. assistantMessage va en espanol.`

// Interpret implements Provider.
func (p *OpenAIProvider) Interpret(ctx context.Context, message string) (*Response, error) {
	ctx, span := tracer.Start(ctx, "assistant.provider")
	defer span.End()
	span.SetAttributes(attribute.String("assistant.model", p.model))

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: defaultTemperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: message},
		},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion failed")
		return nil, fmt.Errorf("%w: %v", ErrProviderFailure, err)
	}
	if len(resp.Choices) == 0 {
		span.SetStatus(codes.Error, "no choices")
		return nil, fmt.Errorf("%w: no choices returned", ErrProviderFailure)
	}

	out, err := DecodeProviderOutput([]byte(resp.Choices[0].Message.Content))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid output")
		return nil, err
	}
	return out, nil
}

type providerOutput struct {
	Action           string           `json:"action"`
	Intent           string           `json:"intent"`
	Confidence       *float64         `json:"confidence"`
	NextRoute        *string          `json:"nextRoute"`
	Prefill          *providerPrefill `json:"prefill"`
	MissingFields    []string         `json:"missingFields"`
	AssistantMessage string           `json:"assistantMessage"`
}

type providerPrefill struct {
	ClientID         *string        `json:"clientId"`
	ServiceType      *string        `json:"serviceType"`
	WorkArea         *string        `json:"workArea"`
	MaterialsOrNotes *string        `json:"materialsOrNotes"`
	ClientName       *string        `json:"clientName"`
	Phone            *string        `json:"phone"`
	Address          *string        `json:"address"`
	Quantity         *types.Money   `json:"quantity"`
	Unit             *string        `json:"unit"`
	UnitPrice        *types.Money   `json:"unitPrice"`
	ScheduledDate    *string        `json:"scheduledDate"`
	CatalogLines     []providerLine `json:"catalogLines"`
}

type providerLine struct {
	CatalogItemID *string      `json:"catalogItemId"`
	Name          string       `json:"name"`
	Description   *string      `json:"description"`
	Quantity      *types.Money `json:"quantity"`
	UnitPrice     *types.Money `json:"unitPrice"`
	IsTaxable     bool         `json:"isTaxable"`
	TaxRate       *types.Money `json:"taxRate"`
}

const providerDefaultMessage = "Procesamos tu solicitud."

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrProviderFailure, fmt.Sprintf(format, args...))
}

// DecodeProviderOutput parses the provider text against the prefill schema.
// Unknown keys, enum violations or an out-of-range confidence reject the
// whole output; nothing is partially trusted.
func DecodeProviderOutput(raw []byte) (*Response, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var out providerOutput
	if err := dec.Decode(&out); err != nil {
		return nil, invalid("decode: %v", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, invalid("trailing data after JSON object")
	}

	switch out.Action {
	case ActionOpenQuoteCreate, ActionChatReply:
	default:
		return nil, invalid("unknown action %q", out.Action)
	}
	switch out.Intent {
	case IntentCreateQuote, IntentUnknown:
	default:
		return nil, invalid("unknown intent %q", out.Intent)
	}
	if out.Confidence == nil || *out.Confidence < 0 || *out.Confidence > 1 {
		return nil, invalid("confidence missing or outside [0,1]")
	}

	prefill, err := out.Prefill.toPrefill()
	if err != nil {
		return nil, err
	}

	missing := []string{}
	for _, f := range out.MissingFields {
		if strings.TrimSpace(f) != "" {
			missing = append(missing, f)
		}
	}

	msg := strings.TrimSpace(out.AssistantMessage)
	if msg == "" {
		msg = providerDefaultMessage
	}

	return &Response{
		OK:               true,
		Action:           out.Action,
		Intent:           out.Intent,
		Confidence:       *out.Confidence,
		NextRoute:        types.TrimToNil(out.NextRoute),
		Prefill:          prefill,
		MissingFields:    missing,
		AssistantMessage: msg,
	}, nil
}

func parseOptionalID(s *string, field string) (*id.ID, error) {
	if s == nil {
		return nil, nil
	}
	v, err := id.ParseOptional(*s)
	if err != nil {
		return nil, invalid("%s is not a valid id", field)
	}
	return v, nil
}

func (p *providerPrefill) toPrefill() (Prefill, error) {
	out := emptyPrefill()
	if p == nil {
		return out, nil
	}

	clientID, err := parseOptionalID(p.ClientID, "prefill.clientId")
	if err != nil {
		return out, err
	}
	out.ClientID = clientID
	out.ServiceType = types.TrimToNil(p.ServiceType)
	out.WorkArea = types.TrimToNil(p.WorkArea)
	out.MaterialsOrNotes = types.TrimToNil(p.MaterialsOrNotes)
	out.ClientName = types.TrimToNil(p.ClientName)
	out.Phone = types.TrimToNil(p.Phone)
	out.Address = types.TrimToNil(p.Address)
	out.Quantity = p.Quantity
	out.Unit = types.TrimToNil(p.Unit)
	out.UnitPrice = p.UnitPrice
	out.ScheduledDate = types.TrimToNil(p.ScheduledDate)

	for i, l := range p.CatalogLines {
		name := strings.TrimSpace(l.Name)
		if name == "" {
			return out, invalid("catalogLines[%d].name is empty", i)
		}
		itemID, err := parseOptionalID(l.CatalogItemID, fmt.Sprintf("catalogLines[%d].catalogItemId", i))
		if err != nil {
			return out, err
		}
		line := CatalogLine{
			CatalogItemID: itemID,
			Name:          name,
			Description:   types.TrimToNil(l.Description),
			Quantity:      types.MustMoney("1"),
			UnitPrice:     types.Zero(),
			IsTaxable:     l.IsTaxable,
			TaxRate:       types.Zero(),
		}
		if l.Quantity != nil {
			line.Quantity = *l.Quantity
		}
		if l.UnitPrice != nil {
			line.UnitPrice = *l.UnitPrice
		}
		if l.TaxRate != nil {
			line.TaxRate = *l.TaxRate
		}
		out.CatalogLines = append(out.CatalogLines, line)
	}
	return out, nil
}
