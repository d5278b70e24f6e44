package usecase

import (
	"encoding/base64"
	"testing"

	"ghostinbox-backend/pkg/apperr"
)

func TestParseNotificationDirectShape(t *testing.T) {
	n, err := ParseNotification([]byte(`{"emailAddress":"user@example.com","historyId":"1001"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.EmailAddress != "user@example.com" {
		t.Errorf("email = %q, want user@example.com", n.EmailAddress)
	}
	if n.HistoryID != "1001" {
		t.Errorf("historyId = %q, want 1001", n.HistoryID)
	}
}

func TestParseNotificationNumericHistoryID(t *testing.T) {
	n, err := ParseNotification([]byte(`{"emailAddress":"user@example.com","historyId":1001}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.HistoryID != "1001" {
		t.Errorf("historyId = %q, want 1001", n.HistoryID)
	}
}

func TestParseNotificationPubSubEnvelope(t *testing.T) {
	inner := base64.StdEncoding.EncodeToString(
		[]byte(`{"emailAddress":"user@example.com","historyId":1001}`))
	body := []byte(`{"message":{"data":"` + inner + `"}}`)

	n, err := ParseNotification(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.EmailAddress != "user@example.com" || n.HistoryID != "1001" {
		t.Errorf("got %+v, want user@example.com / 1001", n)
	}
}

func TestParseNotificationBadBase64(t *testing.T) {
	_, err := ParseNotification([]byte(`{"message":{"data":"%%%not-base64%%%"}}`))
	if err == nil {
		t.Fatal("expected error for invalid base64 data")
	}
	if !apperr.IsCode(err, apperr.CodeBadRequest) {
		t.Errorf("code = %v, want %s", err, apperr.CodeBadRequest)
	}
}

func TestParseNotificationMissingFields(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing emailAddress", `{"historyId":"1001"}`},
		{"missing historyId", `{"emailAddress":"user@example.com"}`},
		{"empty object", `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseNotification([]byte(tt.body))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if apperr.KindOf(err) != apperr.KindValidation {
				t.Errorf("kind = %v, want validation", apperr.KindOf(err))
			}
		})
	}
}

func TestParseNotificationNotJSON(t *testing.T) {
	_, err := ParseNotification([]byte(`not json at all`))
	if err == nil {
		t.Fatal("expected error for non-JSON payload")
	}
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("kind = %v, want validation", apperr.KindOf(err))
	}
}
