package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want int
	}{
		{"validation maps to 400", MissingField("message_id"), http.StatusBadRequest},
		{"auth maps to 401", Auth(CodeUnauthorized, "missing authorization header"), http.StatusUnauthorized},
		{"upstream maps to 500", Upstream(CodeFetchFailed, "gmail fetch failed", 503, nil), http.StatusInternalServerError},
		{"persistence maps to 500", Persistence("insert email", errors.New("connection reset")), http.StatusInternalServerError},
		{"not found maps to 400", NotFound("email"), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.HTTPStatus(); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStatusOfUnwrapsChains(t *testing.T) {
	inner := Auth(CodeRefreshFailed, "refresh token revoked, re-authenticate with Google")
	wrapped := fmt.Errorf("processing message m1: %w", inner)

	if got := StatusOf(wrapped); got != http.StatusUnauthorized {
		t.Errorf("StatusOf(wrapped) = %d, want 401", got)
	}
	if !IsCode(wrapped, CodeRefreshFailed) {
		t.Error("IsCode should find the code through the wrap chain")
	}
	if KindOf(wrapped) != KindAuth {
		t.Errorf("KindOf(wrapped) = %s, want %s", KindOf(wrapped), KindAuth)
	}
}

func TestUnknownErrorsDefaultToServerError(t *testing.T) {
	err := errors.New("something unexpected")
	if got := StatusOf(err); got != http.StatusInternalServerError {
		t.Errorf("StatusOf(plain error) = %d, want 500", got)
	}
	if KindOf(err) != KindPersistence {
		t.Errorf("KindOf(plain error) = %s, want %s", KindOf(err), KindPersistence)
	}
}

func TestUpstreamCarriesStatus(t *testing.T) {
	err := Upstream(CodeFetchFailed, "failed to fetch message m1", 429, errors.New("rate limited"))
	if err.UpstreamStatus != 429 {
		t.Errorf("UpstreamStatus = %d, want 429", err.UpstreamStatus)
	}
	if err.Unwrap() == nil {
		t.Error("Unwrap should return the wrapped cause")
	}
}
