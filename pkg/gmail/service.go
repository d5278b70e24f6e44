// Package gmail is the provider adapter for the ingestion pipeline. It
// speaks the Gmail API with an access token the Token Manager already
// validated; it never refreshes tokens itself.
package gmail

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"

	emaildomain "ghostinbox-backend/internal/email/domain"
	"ghostinbox-backend/pkg/apperr"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// maxBodyChars bounds what we hand to the classifier. Truncation is a
// deliberate lossy step to cap LLM cost and latency.
const maxBodyChars = 2000

// historyPageSize matches the provider-side cap used by the pipeline.
const historyPageSize = 10

const (
	placeholderSubject = "No Subject"
	placeholderSender  = "Unknown Sender"
)

type Service struct {
	log zerolog.Logger
}

func NewService(log zerolog.Logger) *Service {
	return &Service{log: log}
}

func (s *Service) client(ctx context.Context, accessToken string) (*gmail.Service, error) {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	srv, err := gmail.NewService(ctx, option.WithTokenSource(src))
	if err != nil {
		return nil, apperr.Upstream(apperr.CodeFetchFailed, "unable to create Gmail client", 0, err)
	}
	return srv, nil
}

// FetchMessage resolves a provider message id into normalized content.
func (s *Service) FetchMessage(ctx context.Context, accessToken, messageID string) (*emaildomain.InboundMessage, error) {
	srv, err := s.client(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	msg, err := srv.Users.Messages.Get("me", messageID).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, apperr.Upstream(apperr.CodeFetchFailed,
			fmt.Sprintf("failed to fetch message %s", messageID), upstreamStatus(err), err)
	}

	return normalizeMessage(msg), nil
}

// ListNewMessageIDs lists message ids added to the mailbox since the cursor.
func (s *Service) ListNewMessageIDs(ctx context.Context, accessToken, startHistoryID string) ([]string, error) {
	cursor, err := strconv.ParseUint(startHistoryID, 10, 64)
	if err != nil {
		return nil, apperr.Validation(apperr.CodeBadRequest, "historyId is not a valid cursor: "+startHistoryID)
	}

	srv, err := s.client(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	resp, err := srv.Users.History.List("me").
		StartHistoryId(cursor).
		MaxResults(historyPageSize).
		Context(ctx).Do()
	if err != nil {
		return nil, apperr.Upstream(apperr.CodeHistoryFailed,
			fmt.Sprintf("failed to list history since %s", startHistoryID), upstreamStatus(err), err)
	}

	var ids []string
	for _, record := range resp.History {
		for _, added := range record.MessagesAdded {
			if added.Message != nil {
				ids = append(ids, added.Message.Id)
			}
		}
	}
	return ids, nil
}

// Watch registers or renews the push-notification subscription on INBOX.
// Any existing watch is stopped first; Gmail allows only one client per user.
func (s *Service) Watch(ctx context.Context, accessToken, topicName string) (expiration int64, historyID string, err error) {
	srv, err := s.client(ctx, accessToken)
	if err != nil {
		return 0, "", err
	}

	_ = srv.Users.Stop("me").Context(ctx).Do()

	resp, err := srv.Users.Watch("me", &gmail.WatchRequest{
		TopicName: topicName,
		LabelIds:  []string{"INBOX"},
	}).Context(ctx).Do()
	if err != nil {
		s.log.Error().Err(err).Str("topic", topicName).Msg("gmail watch request rejected")
		return 0, "", apperr.Upstream(apperr.CodeWatchFailed,
			fmt.Sprintf("gmail watch failed: %v", err), upstreamStatus(err), err)
	}

	s.log.Info().Int64("expiration", resp.Expiration).Uint64("history_id", resp.HistoryId).
		Msg("gmail watch registered")
	return resp.Expiration, strconv.FormatUint(resp.HistoryId, 10), nil
}

func upstreamStatus(err error) int {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code
	}
	return 0
}

func normalizeMessage(msg *gmail.Message) *emaildomain.InboundMessage {
	subject := getHeader(msg.Payload, "Subject")
	if subject == "" {
		subject = placeholderSubject
	}
	sender := getHeader(msg.Payload, "From")
	if sender == "" {
		sender = placeholderSender
	}

	return &emaildomain.InboundMessage{
		MessageID: msg.Id,
		Subject:   subject,
		Sender:    sender,
		Body:      truncate(extractPlainBody(msg.Payload), maxBodyChars),
	}
}

func getHeader(payload *gmail.MessagePart, name string) string {
	if payload == nil {
		return ""
	}
	for _, header := range payload.Headers {
		if header.Name == name {
			return header.Value
		}
	}
	return ""
}

// extractPlainBody prefers a direct body payload, otherwise scans the part
// tree for the first text/plain section.
func extractPlainBody(payload *gmail.MessagePart) string {
	if payload == nil {
		return ""
	}
	if payload.Body != nil && payload.Body.Data != "" {
		return decodeBody(payload.Body.Data)
	}

	var findPlain func(parts []*gmail.MessagePart) string
	findPlain = func(parts []*gmail.MessagePart) string {
		for _, part := range parts {
			if part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "" {
				return decodeBody(part.Body.Data)
			}
			if len(part.Parts) > 0 {
				if body := findPlain(part.Parts); body != "" {
					return body
				}
			}
		}
		return ""
	}
	return findPlain(payload.Parts)
}

func decodeBody(data string) string {
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		// Gmail sometimes omits padding.
		decoded, err = base64.RawURLEncoding.DecodeString(data)
		if err != nil {
			return ""
		}
	}
	return string(decoded)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
