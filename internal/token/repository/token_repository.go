package repository

import (
	"time"

	tokendomain "ghostinbox-backend/internal/token/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TokenRepository persists provider OAuth credentials.
type TokenRepository interface {
	// Find returns the stored credential or (nil, nil) when none exists.
	Find(userID, provider string) (*tokendomain.ProviderToken, error)
	// Upsert writes the credential keyed by (user, provider) with
	// last-write-wins semantics. An empty refresh token in the incoming
	// value never overwrites a stored one.
	Upsert(token *tokendomain.ProviderToken) error
}

type tokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Find(userID, provider string) (*tokendomain.ProviderToken, error) {
	var token tokendomain.ProviderToken
	err := r.db.Where("user_id = ? AND provider = ?", userID, provider).First(&token).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}

func (r *tokenRepository) Upsert(token *tokendomain.ProviderToken) error {
	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	token.UpdatedAt = time.Now()

	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "provider"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"access_token": token.AccessToken,
			"expires_at":   token.ExpiresAt,
			"scope":        token.Scope,
			"updated_at":   token.UpdatedAt,
			// Preserve the stored refresh token when the new one is empty.
			"refresh_token": gorm.Expr(
				"CASE WHEN excluded.refresh_token = '' THEN provider_tokens.refresh_token ELSE excluded.refresh_token END",
			),
		}),
	}).Create(token).Error
}
