package dispatch

import (
	"context"
	"testing"
	"time"

	"io.winapps.pushrelay/internal/apperrors"
	usermodels "io.winapps.pushrelay/internal/models/user"
	"io.winapps.pushrelay/internal/push"
)

const testToken = "ExponentPushToken[xxxxxxxxxxxxxxxxxxxxxx]"

// countingProvider records submissions so tests can assert the provider was
// or was not reached.
type countingProvider struct {
	calls   int
	last    push.Message
	receipt *push.Receipt
	err     error
}

func (p *countingProvider) Submit(_ context.Context, msg push.Message) (*push.Receipt, error) {
	p.calls++
	p.last = msg
	if p.err != nil {
		return nil, p.err
	}
	if p.receipt != nil {
		return p.receipt, nil
	}
	return &push.Receipt{ID: "ticket-1", Provider: "fake"}, nil
}

type staticResolver struct {
	records map[string]usermodels.Record
}

func (r *staticResolver) Lookup(_ context.Context, userID string) (usermodels.Record, error) {
	rec, ok := r.records[userID]
	if !ok {
		return usermodels.Record{}, apperrors.NotFound("user not found")
	}
	return rec, nil
}

func newTestService(provider push.Provider) *Service {
	resolver := &staticResolver{records: map[string]usermodels.Record{
		"u1": {UserID: "u1", Name: "alice", DeliveryToken: testToken, CreatedAt: time.Now()},
		"u2": {UserID: "u2", Name: "bob", DeliveryToken: "bad token"},
	}}
	return NewService(resolver, provider, nil)
}

func TestSendByTokenSuccess(t *testing.T) {
	provider := &countingProvider{}
	s := newTestService(provider)

	result, err := s.Send(t.Context(), Request{Token: testToken, Title: "Hi", Body: "there"})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if result.Title != "Hi" || result.Body != "there" {
		t.Errorf("result = %+v, want title/body echoed", result)
	}
	if result.Receipt != "ticket-1" {
		t.Errorf("receipt = %q, want ticket-1", result.Receipt)
	}
	if result.SentAt.IsZero() {
		t.Error("SentAt not set")
	}
	if provider.calls != 1 {
		t.Errorf("provider called %d times, want 1", provider.calls)
	}
	if provider.last.To != testToken {
		t.Errorf("provider received token %q, want %q", provider.last.To, testToken)
	}
}

func TestSendResolvesUserToken(t *testing.T) {
	provider := &countingProvider{}
	s := newTestService(provider)

	if _, err := s.Send(t.Context(), Request{UserID: "u1", Title: "Hi", Body: "there"}); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if provider.last.To != testToken {
		t.Errorf("resolved token = %q, want registered token %q", provider.last.To, testToken)
	}
}

func TestSendExplicitTokenTakesPrecedence(t *testing.T) {
	provider := &countingProvider{}
	s := newTestService(provider)

	other := "ExpoPushToken[zzzzzzzzzzzzzzzzzzzzzz]"
	if _, err := s.Send(t.Context(), Request{UserID: "u1", Token: other, Title: "Hi", Body: "there"}); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if provider.last.To != other {
		t.Errorf("provider received %q, want explicit token %q", provider.last.To, other)
	}
}

func TestSendFailFastValidation(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		kind apperrors.Kind
	}{
		{"missing title", Request{Token: testToken, Body: "y"}, apperrors.KindInvalidArgument},
		{"missing body", Request{Token: testToken, Title: "x"}, apperrors.KindInvalidArgument},
		{"no target", Request{Title: "x", Body: "y"}, apperrors.KindInvalidArgument},
		{"malformed explicit token", Request{Token: "nope", Title: "x", Body: "y"}, apperrors.KindInvalidArgument},
		{"unknown user", Request{UserID: "ghost", Title: "x", Body: "y"}, apperrors.KindNotFound},
		{"resolved token unusable", Request{UserID: "u2", Title: "x", Body: "y"}, apperrors.KindInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &countingProvider{}
			s := newTestService(provider)

			_, err := s.Send(t.Context(), tt.req)
			if apperrors.KindOf(err) != tt.kind {
				t.Errorf("error kind = %v, want %v", apperrors.KindOf(err), tt.kind)
			}
			if provider.calls != 0 {
				t.Errorf("provider called %d times, want 0", provider.calls)
			}
		})
	}
}

func TestSendProviderErrorMapsToDeliveryFailed(t *testing.T) {
	provider := &countingProvider{err: apperrors.DeliveryFailed("invalid-registration-token", "token rejected by provider")}
	s := newTestService(provider)

	_, err := s.Send(t.Context(), Request{Token: testToken, Title: "x", Body: "y"})
	if apperrors.KindOf(err) != apperrors.KindDeliveryFailed {
		t.Fatalf("error kind = %v, want KindDeliveryFailed", apperrors.KindOf(err))
	}
	if code := apperrors.ProviderCode(err); code != "invalid-registration-token" {
		t.Errorf("provider code = %q, want invalid-registration-token", code)
	}
}

func TestSendStringifiesDataPayload(t *testing.T) {
	provider := &countingProvider{}
	s := newTestService(provider)

	_, err := s.Send(t.Context(), Request{
		Token: testToken,
		Title: "x",
		Body:  "y",
		Data: map[string]any{
			"screen": "home",
			"count":  1,
			"opts":   map[string]any{"silent": true},
		},
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	want := map[string]string{
		"screen": "home",
		"count":  "1",
		"opts":   `{"silent":true}`,
	}
	for k, v := range want {
		if got := provider.last.Data[k]; got != v {
			t.Errorf("data[%q] = %q, want %q", k, got, v)
		}
	}
}

func TestSendDefaultsDataMap(t *testing.T) {
	provider := &countingProvider{}
	s := newTestService(provider)

	if _, err := s.Send(t.Context(), Request{Token: testToken, Title: "x", Body: "y"}); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if provider.last.Data == nil {
		t.Error("expected non-nil data map passed to provider")
	}
}
