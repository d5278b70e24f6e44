package usecase

import (
	emaildomain "ghostinbox-backend/internal/email/domain"
	"ghostinbox-backend/internal/email/repository"
	"ghostinbox-backend/pkg/apperr"
)

// ToneSettings updates the per-user reply style sliders.
type ToneSettings struct {
	toneRepo repository.ToneRepository
}

func NewToneSettings(toneRepo repository.ToneRepository) *ToneSettings {
	return &ToneSettings{toneRepo: toneRepo}
}

func (s *ToneSettings) Update(userID string, formality, emojiUsage, brevity int) (*emaildomain.ToneProfile, error) {
	for _, v := range []int{formality, emojiUsage, brevity} {
		if v < 0 || v > 100 {
			return nil, apperr.Validation(apperr.CodeBadRequest, "tone sliders must be between 0 and 100")
		}
	}

	profile := &emaildomain.ToneProfile{
		UserID:     userID,
		Formality:  formality,
		EmojiUsage: emojiUsage,
		Brevity:    brevity,
	}
	if err := s.toneRepo.Upsert(profile); err != nil {
		return nil, apperr.Persistence("upsert tone profile", err)
	}
	return profile, nil
}
