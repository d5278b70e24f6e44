package usecase

import (
	"context"
	"testing"

	"ghostinbox-backend/pkg/apperr"

	"github.com/rs/zerolog"
)

type fakeWatchProvider struct {
	expiration int64
	historyID  string
	err        error
	gotToken   string
	gotTopic   string
}

func (f *fakeWatchProvider) Watch(ctx context.Context, accessToken, topicName string) (int64, string, error) {
	f.gotToken = accessToken
	f.gotTopic = topicName
	if f.err != nil {
		return 0, "", f.err
	}
	return f.expiration, f.historyID, nil
}

func TestWatchRegistrarRenew(t *testing.T) {
	tokens := &fakeTokenManager{token: "access-token"}
	provider := &fakeWatchProvider{expiration: 1735689600000, historyID: "5005"}
	w := NewWatchRegistrar(tokens, provider, "projects/p/topics/mail-events", zerolog.Nop())

	result, err := w.Renew(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Expiration != 1735689600000 || result.HistoryID != "5005" {
		t.Errorf("result = %+v", result)
	}
	if provider.gotToken != "access-token" {
		t.Errorf("provider called with token %q", provider.gotToken)
	}
	if provider.gotTopic != "projects/p/topics/mail-events" {
		t.Errorf("provider called with topic %q", provider.gotTopic)
	}
}

func TestWatchRegistrarRenewNoToken(t *testing.T) {
	tokens := &fakeTokenManager{err: apperr.Auth(apperr.CodeTokenUnavailable, "no tokens")}
	provider := &fakeWatchProvider{}
	w := NewWatchRegistrar(tokens, provider, "projects/p/topics/mail-events", zerolog.Nop())

	_, err := w.Renew(context.Background(), "u1")
	if err == nil {
		t.Fatal("expected error when no token is available")
	}
	if !apperr.IsCode(err, apperr.CodeTokenUnavailable) {
		t.Errorf("err = %v, want %s", err, apperr.CodeTokenUnavailable)
	}
	if provider.gotToken != "" {
		t.Error("provider must not be called without a token")
	}
}

func TestWatchRegistrarRenewProviderFailure(t *testing.T) {
	tokens := &fakeTokenManager{token: "access-token"}
	provider := &fakeWatchProvider{err: apperr.Upstream(apperr.CodeWatchFailed, "watch registration failed", 500, nil)}
	w := NewWatchRegistrar(tokens, provider, "projects/p/topics/mail-events", zerolog.Nop())

	_, err := w.Renew(context.Background(), "u1")
	if err == nil {
		t.Fatal("expected error when provider rejects the watch")
	}
	if !apperr.IsCode(err, apperr.CodeWatchFailed) {
		t.Errorf("err = %v, want %s", err, apperr.CodeWatchFailed)
	}
}
