package repository

import (
	"time"

	emaildomain "ghostinbox-backend/internal/email/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EmailRepository persists processed email records.
type EmailRepository interface {
	// Insert creates the record unless one already exists for the same
	// (user, message id). Returns false when the unique index absorbed a
	// concurrent or repeated insert; callers treat that as already
	// processed, never as a failure.
	Insert(email *emaildomain.Email) (bool, error)
	ExistsByMessageID(userID, messageID string) (bool, error)
	FindByID(userID, id string) (*emaildomain.Email, error)
	// SaveDraft writes the draft text and the next status.
	SaveDraft(userID, id, draft string, status emaildomain.Status) error
}

type emailRepository struct {
	db *gorm.DB
}

func NewEmailRepository(db *gorm.DB) EmailRepository {
	return &emailRepository{db: db}
}

func (r *emailRepository) Insert(email *emaildomain.Email) (bool, error) {
	if email.ID == "" {
		email.ID = uuid.New().String()
	}
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "message_id"}},
		DoNothing: true,
	}).Create(email)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *emailRepository) ExistsByMessageID(userID, messageID string) (bool, error) {
	var count int64
	err := r.db.Model(&emaildomain.Email{}).
		Where("user_id = ? AND message_id = ?", userID, messageID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *emailRepository) FindByID(userID, id string) (*emaildomain.Email, error) {
	var email emaildomain.Email
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&email).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &email, nil
}

func (r *emailRepository) SaveDraft(userID, id, draft string, status emaildomain.Status) error {
	return r.db.Model(&emaildomain.Email{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{
			"draft_reply": draft,
			"status":      status,
			"updated_at":  time.Now(),
		}).Error
}
