package usecase

import (
	"context"
	"time"

	tokendomain "ghostinbox-backend/internal/token/domain"
	"ghostinbox-backend/internal/token/repository"
	"ghostinbox-backend/pkg/apperr"
	"ghostinbox-backend/pkg/config"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

// Manager hands out valid access tokens, refreshing them before expiry.
type Manager interface {
	GetValidToken(ctx context.Context, userID, provider string) (string, error)
}

type manager struct {
	tokenRepo repository.TokenRepository
	config    *config.Config
	log       zerolog.Logger
}

func NewManager(tokenRepo repository.TokenRepository, cfg *config.Config, log zerolog.Logger) Manager {
	return &manager{tokenRepo: tokenRepo, config: cfg, log: log}
}

// GetValidToken returns the stored access token, refreshing it first when
// the expiry is within the configured safety margin. Refreshes are not
// locked: a concurrent double-refresh is benign because the store write is a
// last-write-wins upsert and both callers adopt the latest token.
func (m *manager) GetValidToken(ctx context.Context, userID, provider string) (string, error) {
	stored, err := m.tokenRepo.Find(userID, provider)
	if err != nil {
		return "", apperr.Persistence("find provider token", err)
	}
	if stored == nil {
		// Not retriable: the caller must send the user back through OAuth.
		return "", apperr.Auth(apperr.CodeTokenUnavailable,
			"no "+provider+" OAuth tokens found for user, please re-authenticate")
	}

	margin := m.config.TokenRefreshMargin
	if margin == 0 {
		margin = 60 * time.Second
	}
	if stored.ExpiresAt.After(time.Now().Add(margin)) {
		return stored.AccessToken, nil
	}

	m.log.Info().Str("user_id", userID).Str("provider", provider).
		Time("expires_at", stored.ExpiresAt).Msg("access token near expiry, refreshing")

	refreshed, err := m.refresh(ctx, stored)
	if err != nil {
		return "", err
	}
	return refreshed, nil
}

func (m *manager) refresh(ctx context.Context, stored *tokendomain.ProviderToken) (string, error) {
	if stored.RefreshToken == "" {
		return "", apperr.Auth(apperr.CodeRefreshFailed,
			"no refresh token stored, please re-authenticate with "+stored.Provider)
	}

	conf := &oauth2.Config{
		ClientID:     m.config.GoogleClientID,
		ClientSecret: m.config.GoogleClientSecret,
		Endpoint:     oauth2.Endpoint{TokenURL: m.config.GoogleTokenURL},
	}

	// Seed the source with an already-expired token so it performs exactly
	// one refresh-token exchange.
	src := conf.TokenSource(ctx, &oauth2.Token{
		RefreshToken: stored.RefreshToken,
		Expiry:       time.Now().Add(-time.Minute),
	})

	fresh, err := src.Token()
	if err != nil {
		m.log.Error().Err(err).Str("user_id", stored.UserID).Str("provider", stored.Provider).
			Msg("refresh token exchange rejected")
		// Terminal for this operation: revoked consent cannot be retried.
		return "", apperr.Auth(apperr.CodeRefreshFailed,
			"token refresh rejected by "+stored.Provider+", please re-authenticate")
	}

	stored.AccessToken = fresh.AccessToken
	stored.ExpiresAt = fresh.Expiry
	if fresh.RefreshToken != "" {
		stored.RefreshToken = fresh.RefreshToken
	}
	if err := m.tokenRepo.Upsert(stored); err != nil {
		return "", apperr.Persistence("persist refreshed token", err)
	}

	m.log.Info().Str("user_id", stored.UserID).Str("provider", stored.Provider).
		Time("expires_at", stored.ExpiresAt).Msg("access token refreshed")
	return fresh.AccessToken, nil
}
