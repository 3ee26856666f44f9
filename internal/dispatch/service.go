package dispatch

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"io.winapps.pushrelay/internal/apperrors"
	usermodels "io.winapps.pushrelay/internal/models/user"
	"io.winapps.pushrelay/internal/push"
)

// TokenResolver resolves a userId to its registered record. Satisfied by
// the registration manager.
type TokenResolver interface {
	Lookup(ctx context.Context, userID string) (usermodels.Record, error)
}

// Request is one notification to deliver. An explicit Token takes precedence
// over UserID when both are set. Data is the caller's opaque payload; any
// JSON object is accepted.
type Request struct {
	UserID string
	Token  string
	Title  string
	Body   string
	Data   map[string]any
}

// Result is the outcome of a delivered notification.
type Result struct {
	Title   string
	Body    string
	SentAt  time.Time
	Receipt string
}

// Service delivers a single notification to one resolved device token and
// normalizes the provider outcome. No retries: a provider error terminates
// the call as failed.
type Service struct {
	resolver TokenResolver
	provider push.Provider
	logger   *zap.SugaredLogger
}

func NewService(resolver TokenResolver, provider push.Provider, logger *zap.SugaredLogger) *Service {
	return &Service{
		resolver: resolver,
		provider: provider,
		logger:   logger,
	}
}

// Send validates the request, resolves the target token, and submits the
// message. Malformed tokens fail fast and never reach the provider.
func (s *Service) Send(ctx context.Context, req Request) (Result, error) {
	if req.Title == "" || req.Body == "" {
		return Result{}, apperrors.InvalidArgument("Title and body are required")
	}
	if req.UserID == "" && req.Token == "" {
		return Result{}, apperrors.InvalidArgument("Either userId or token is required")
	}

	token := req.Token
	if token == "" {
		rec, err := s.resolver.Lookup(ctx, req.UserID)
		if err != nil {
			return Result{}, err
		}
		token = rec.DeliveryToken
	}

	if !push.IsValidToken(token) {
		return Result{}, apperrors.InvalidArgument("Invalid or missing push token")
	}

	receipt, err := s.provider.Submit(ctx, push.Message{
		To:    token,
		Title: req.Title,
		Body:  req.Body,
		Data:  stringifyData(req.Data),
	})
	if err != nil {
		if s.logger != nil {
			s.logger.Errorw("notification delivery failed",
				"error", err,
				"error_code", apperrors.ProviderCode(err),
			)
		}
		return Result{}, err
	}

	if s.logger != nil {
		s.logger.Infow("notification sent", "receipt", receipt.ID, "provider", receipt.Provider)
	}

	return Result{
		Title:   req.Title,
		Body:    req.Body,
		SentAt:  time.Now().UTC(),
		Receipt: receipt.ID,
	}, nil
}

// stringifyData flattens the caller's payload into the string map the push
// transports carry: strings pass through, everything else is re-encoded as
// its JSON text.
func stringifyData(data map[string]any) map[string]string {
	out := make(map[string]string, len(data))
	for k, v := range data {
		if s, ok := v.(string); ok {
			out[k] = s
			continue
		}
		b, err := json.Marshal(v)
		if err != nil {
			continue
		}
		out[k] = string(b)
	}
	return out
}
