package usecase

import (
	"context"

	tokendomain "ghostinbox-backend/internal/token/domain"
	tokenusecase "ghostinbox-backend/internal/token/usecase"

	"github.com/rs/zerolog"
)

// WatchProvider registers the push-notification subscription upstream.
type WatchProvider interface {
	Watch(ctx context.Context, accessToken, topicName string) (expiration int64, historyID string, err error)
}

// WatchResult tells the caller when to schedule the next renewal.
type WatchResult struct {
	Expiration int64  `json:"expiration"`
	HistoryID  string `json:"historyId"`
}

// WatchRegistrar establishes or renews the mailbox change subscription.
type WatchRegistrar struct {
	tokens   tokenusecase.Manager
	provider WatchProvider
	topic    string
	log      zerolog.Logger
}

func NewWatchRegistrar(tokens tokenusecase.Manager, provider WatchProvider, topic string, log zerolog.Logger) *WatchRegistrar {
	return &WatchRegistrar{tokens: tokens, provider: provider, topic: topic, log: log}
}

func (w *WatchRegistrar) Renew(ctx context.Context, userID string) (*WatchResult, error) {
	accessToken, err := w.tokens.GetValidToken(ctx, userID, tokendomain.ProviderGoogle)
	if err != nil {
		return nil, err
	}

	expiration, historyID, err := w.provider.Watch(ctx, accessToken, w.topic)
	if err != nil {
		return nil, err
	}

	w.log.Info().Str("user_id", userID).Int64("expiration", expiration).
		Str("history_id", historyID).Msg("watch renewed")
	return &WatchResult{Expiration: expiration, HistoryID: historyID}, nil
}
