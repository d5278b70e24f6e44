package domain

import "time"

// DefaultToneLevel is used for any slider the user never set.
const DefaultToneLevel = 50

// ToneProfile holds the per-user reply style sliders, each 0-100.
// Owned by the settings surface; the draft generator only reads it.
type ToneProfile struct {
	UserID     string    `json:"user_id" gorm:"primaryKey"`
	Formality  int       `json:"formality"`
	EmojiUsage int       `json:"emoji_usage"`
	Brevity    int       `json:"brevity"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DefaultToneProfile returns the neutral profile for users without settings.
func DefaultToneProfile(userID string) *ToneProfile {
	return &ToneProfile{
		UserID:     userID,
		Formality:  DefaultToneLevel,
		EmojiUsage: DefaultToneLevel,
		Brevity:    DefaultToneLevel,
	}
}
