package assistant

import (
	"context"
	"strings"

	"airsolutions/pkg/logger"
)

const emptyMessage = "you must write a message"

// Service interprets assistant messages.
type Service struct {
	provider Provider
	enricher *Enricher
}

// NewService creates a Service. provider may be nil, in which case only the
// heuristic is used; enricher may be nil to skip enrichment.
func NewService(provider Provider, enricher *Enricher) *Service {
	return &Service{provider: provider, enricher: enricher}
}

// Interpret returns the interpretation of req. An empty message yields a
// response with OK=false. Provider failures are logged and never returned.
func (s *Service) Interpret(ctx context.Context, req Request) (*Response, error) {
	message := req.Message
	if strings.TrimSpace(message) == "" {
		return &Response{
			OK:               false,
			Action:           ActionChatReply,
			Intent:           IntentUnknown,
			Prefill:          emptyPrefill(),
			MissingFields:    []string{},
			AssistantMessage: emptyMessage,
		}, nil
	}

	resp := s.interpret(ctx, message)
	if s.enricher != nil {
		if err := s.enricher.Enrich(ctx, resp, message); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

func (s *Service) interpret(ctx context.Context, message string) *Response {
	if s.provider != nil {
		resp, err := s.provider.Interpret(ctx, message)
		if err == nil {
			return resp
		}
		logger.Warn(ctx, "assistant provider failed, falling back to heuristic", "error", err)
	}
	return Heuristic(message)
}
