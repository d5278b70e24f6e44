package repository

import (
	"time"

	ingestdomain "ghostinbox-backend/internal/ingest/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerRepository records which notification cursors have been dispatched.
type LedgerRepository interface {
	// MarkIfNew atomically records the cursor as processed. Returns true
	// when this call created the marker; false means another delivery got
	// there first and the caller must skip. The insert itself is the
	// check: a uniqueness conflict is absorbed, never surfaced.
	MarkIfNew(userID, historyID string) (bool, error)
}

type ledgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) MarkIfNew(userID, historyID string) (bool, error) {
	marker := &ingestdomain.ProcessedNotification{
		ID:          uuid.New().String(),
		UserID:      userID,
		HistoryID:   historyID,
		ProcessedAt: time.Now(),
	}
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "history_id"}},
		DoNothing: true,
	}).Create(marker)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
