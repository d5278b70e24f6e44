package repository

import (
	"time"

	emaildomain "ghostinbox-backend/internal/email/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ToneRepository reads and writes per-user reply style settings.
type ToneRepository interface {
	// Find returns (nil, nil) for users who never saved a profile; the
	// draft generator falls back to the neutral defaults.
	Find(userID string) (*emaildomain.ToneProfile, error)
	Upsert(profile *emaildomain.ToneProfile) error
}

type toneRepository struct {
	db *gorm.DB
}

func NewToneRepository(db *gorm.DB) ToneRepository {
	return &toneRepository{db: db}
}

func (r *toneRepository) Find(userID string) (*emaildomain.ToneProfile, error) {
	var profile emaildomain.ToneProfile
	err := r.db.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *toneRepository) Upsert(profile *emaildomain.ToneProfile) error {
	profile.UpdatedAt = time.Now()
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"formality":   profile.Formality,
			"emoji_usage": profile.EmojiUsage,
			"brevity":     profile.Brevity,
			"updated_at":  profile.UpdatedAt,
		}),
	}).Create(profile).Error
}
