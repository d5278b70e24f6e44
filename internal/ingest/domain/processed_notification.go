package domain

import "time"

// ProcessedNotification is the write-once marker making at-least-once
// notification delivery look exactly-once downstream. Rows are never
// updated or deleted by this core; pruning is an external concern.
type ProcessedNotification struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	UserID      string    `json:"user_id" gorm:"uniqueIndex:idx_user_history;not null"`
	HistoryID   string    `json:"history_id" gorm:"uniqueIndex:idx_user_history;not null"`
	ProcessedAt time.Time `json:"processed_at"`
}

// Notification is the normalized inbound change notification.
type Notification struct {
	EmailAddress string `json:"emailAddress"`
	HistoryID    string `json:"historyId"`
}
