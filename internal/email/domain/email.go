package domain

import "time"

// Status is the lifecycle state of an email record.
type Status string

const (
	// StatusClassified: verdict persisted, no draft yet.
	StatusClassified Status = "classified"
	// StatusPending: draft exists, waiting for human approval.
	StatusPending Status = "pending"
	// StatusAutoSent: draft was safe to send without review (low_risk only).
	StatusAutoSent Status = "auto_sent"
	// StatusSent: user approved and the reply was dispatched. Terminal.
	StatusSent Status = "sent"
	// StatusArchived: user rejected the draft. Terminal.
	StatusArchived Status = "archived"
)

// Verdict field enumerations. The classifier rejects anything outside these.
const (
	CategoryLowRisk    = "low_risk"
	CategoryMediumRisk = "medium_risk"
	CategoryHighRisk   = "high_risk"

	UrgencyLow    = "low"
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"

	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"

	ActionReply   = "reply"
	ActionArchive = "archive"
	ActionNotify  = "notify"
)

// Verdict is the four-field classification result.
type Verdict struct {
	Category       string `json:"category"`
	Urgency        string `json:"urgency"`
	Sentiment      string `json:"sentiment"`
	RequiredAction string `json:"required_action"`
}

var validCategories = map[string]bool{CategoryLowRisk: true, CategoryMediumRisk: true, CategoryHighRisk: true}
var validUrgencies = map[string]bool{UrgencyLow: true, UrgencyMedium: true, UrgencyHigh: true}
var validSentiments = map[string]bool{SentimentPositive: true, SentimentNeutral: true, SentimentNegative: true}
var validActions = map[string]bool{ActionReply: true, ActionArchive: true, ActionNotify: true}

// Valid reports whether every field holds one of its enumerated values.
func (v Verdict) Valid() bool {
	return validCategories[v.Category] && validUrgencies[v.Urgency] &&
		validSentiments[v.Sentiment] && validActions[v.RequiredAction]
}

// Email is one processed message per (user, provider message id).
type Email struct {
	ID        string `json:"id" gorm:"primaryKey"`
	UserID    string `json:"user_id" gorm:"uniqueIndex:idx_user_message;not null"`
	MessageID string `json:"message_id" gorm:"uniqueIndex:idx_user_message;not null"`

	Subject string `json:"subject"`
	Sender  string `json:"sender"`
	Body    string `json:"body"`

	Category       string `json:"category"`
	Urgency        string `json:"urgency"`
	Sentiment      string `json:"sentiment"`
	RequiredAction string `json:"required_action"`

	DraftReply string `json:"draft_reply"`
	Status     Status `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Terminal reports whether the record is immutable (audit fields aside).
func (s Status) Terminal() bool {
	return s == StatusSent || s == StatusArchived
}

// CanTransition encodes the status state machine. sent and archived are
// reached by external user actions; this core only needs to admit them.
func (s Status) CanTransition(to Status) bool {
	switch s {
	case StatusClassified:
		return to == StatusPending || to == StatusAutoSent
	case StatusPending:
		return to == StatusSent || to == StatusArchived
	case StatusAutoSent:
		return to == StatusSent || to == StatusArchived
	default:
		return false
	}
}

// InboundMessage is the normalized output of the message fetcher.
type InboundMessage struct {
	MessageID string `json:"message_id"`
	Subject   string `json:"subject"`
	Sender    string `json:"sender"`
	Body      string `json:"body"`
}
