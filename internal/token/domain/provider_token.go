package domain

import "time"

// ProviderToken stores one live OAuth credential per (user, provider).
// The refresh token is long-lived; the access token and expiry are rewritten
// on every refresh with last-write-wins semantics.
type ProviderToken struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	UserID       string    `json:"user_id" gorm:"uniqueIndex:idx_user_provider;not null"`
	Provider     string    `json:"provider" gorm:"uniqueIndex:idx_user_provider;not null"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	Scope        string    `json:"scope"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProviderGoogle is the only provider this core currently speaks.
const ProviderGoogle = "google"
