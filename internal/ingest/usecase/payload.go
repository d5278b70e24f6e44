package usecase

import (
	"encoding/base64"
	"encoding/json"

	ingestdomain "ghostinbox-backend/internal/ingest/domain"
	"ghostinbox-backend/pkg/apperr"
)

// pubsubEnvelope is the Pub/Sub push wrapper around the actual payload.
type pubsubEnvelope struct {
	Message struct {
		Data string `json:"data"`
	} `json:"message"`
}

type rawNotification struct {
	EmailAddress string      `json:"emailAddress"`
	HistoryID    json.Number `json:"historyId"`
}

// ParseNotification normalizes the two inbound payload shapes: the Pub/Sub
// envelope wrapping a base64-encoded payload, and the direct JSON form.
// The wrapped shape is tried first; nothing beyond this function knows two
// shapes exist.
func ParseNotification(body []byte) (*ingestdomain.Notification, error) {
	var envelope pubsubEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Message.Data != "" {
		decoded, err := base64.StdEncoding.DecodeString(envelope.Message.Data)
		if err != nil {
			return nil, apperr.Validation(apperr.CodeBadRequest, "notification data is not valid base64")
		}
		return parseRaw(decoded)
	}
	return parseRaw(body)
}

func parseRaw(data []byte) (*ingestdomain.Notification, error) {
	var raw rawNotification
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, apperr.Validation(apperr.CodeBadRequest, "notification payload is not valid JSON")
	}
	if raw.EmailAddress == "" {
		return nil, apperr.MissingField("emailAddress")
	}
	if raw.HistoryID.String() == "" {
		return nil, apperr.MissingField("historyId")
	}
	return &ingestdomain.Notification{
		EmailAddress: raw.EmailAddress,
		HistoryID:    raw.HistoryID.String(),
	}, nil
}
