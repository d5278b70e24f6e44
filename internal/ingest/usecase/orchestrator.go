package usecase

import (
	"context"

	authrepo "ghostinbox-backend/internal/auth/repository"
	emaildomain "ghostinbox-backend/internal/email/domain"
	ingestrepo "ghostinbox-backend/internal/ingest/repository"
	tokendomain "ghostinbox-backend/internal/token/domain"
	tokenusecase "ghostinbox-backend/internal/token/usecase"
	"ghostinbox-backend/pkg/apperr"

	"github.com/rs/zerolog"
)

// MailProvider is the slice of the provider API the orchestrator needs.
type MailProvider interface {
	FetchMessage(ctx context.Context, accessToken, messageID string) (*emaildomain.InboundMessage, error)
	ListNewMessageIDs(ctx context.Context, accessToken, startHistoryID string) ([]string, error)
}

// EmailClassifier runs classification and persists the result.
type EmailClassifier interface {
	Classify(ctx context.Context, userID string, in emaildomain.InboundMessage) (*emaildomain.Email, error)
}

// MessageLedger answers whether a message has already been committed.
type MessageLedger interface {
	ExistsByMessageID(userID, messageID string) (bool, error)
}

// Summary reports the outcome of one notification invocation.
type Summary struct {
	Message        string `json:"message"`
	HistoryID      string `json:"historyId,omitempty"`
	ProcessedCount int    `json:"processedCount"`
	ErrorCount     int    `json:"errorCount"`
	Skipped        bool   `json:"skipped,omitempty"`
}

// Orchestrator drives one change notification through the pipeline:
// dedup, token, history listing, then fetch and classify per message with
// per-message failure isolation. Draft generation is a separate trigger and
// is never invoked here.
type Orchestrator struct {
	userRepo      authrepo.UserRepository
	ledger        ingestrepo.LedgerRepository
	messageLedger MessageLedger
	tokens        tokenusecase.Manager
	provider      MailProvider
	classifier    EmailClassifier
	log           zerolog.Logger
}

func NewOrchestrator(
	userRepo authrepo.UserRepository,
	ledger ingestrepo.LedgerRepository,
	messageLedger MessageLedger,
	tokens tokenusecase.Manager,
	provider MailProvider,
	classifier EmailClassifier,
	log zerolog.Logger,
) *Orchestrator {
	return &Orchestrator{
		userRepo:      userRepo,
		ledger:        ledger,
		messageLedger: messageLedger,
		tokens:        tokens,
		provider:      provider,
		classifier:    classifier,
		log:           log,
	}
}

// Process handles one raw notification payload. Skips (unknown user,
// already-processed cursor, empty history) are successful outcomes, not
// errors; returned errors are batch-level and mean no progress was possible.
func (o *Orchestrator) Process(ctx context.Context, payload []byte) (*Summary, error) {
	notification, err := ParseNotification(payload)
	if err != nil {
		return nil, err
	}

	log := o.log.With().Str("email", notification.EmailAddress).
		Str("history_id", notification.HistoryID).Logger()

	user, err := o.userRepo.FindByEmail(notification.EmailAddress)
	if err != nil {
		return nil, apperr.Persistence("find user by email", err)
	}
	if user == nil {
		// An unmapped identity is expected, not a system fault.
		log.Info().Msg("no user for notification address, skipping")
		return &Summary{
			Message: "No user found for email: " + notification.EmailAddress,
			Skipped: true,
		}, nil
	}

	// The marker is written before dispatch. A crash between here and the
	// end of the batch drops it rather than risking a second run that
	// could auto-send a reply twice; the watch renewal re-seeds a fresh
	// cursor and the dashboard surfaces the gap.
	first, err := o.ledger.MarkIfNew(user.ID, notification.HistoryID)
	if err != nil {
		return nil, apperr.Persistence("mark notification processed", err)
	}
	if !first {
		log.Info().Str("user_id", user.ID).Msg("cursor already processed, skipping")
		return &Summary{Message: "Already processed", HistoryID: notification.HistoryID, Skipped: true}, nil
	}

	accessToken, err := o.tokens.GetValidToken(ctx, user.ID, tokendomain.ProviderGoogle)
	if err != nil {
		return nil, err
	}

	messageIDs, err := o.provider.ListNewMessageIDs(ctx, accessToken, notification.HistoryID)
	if err != nil {
		return nil, err
	}
	if len(messageIDs) == 0 {
		log.Info().Str("user_id", user.ID).Msg("no new messages in history")
		return &Summary{Message: "No new messages in history", HistoryID: notification.HistoryID}, nil
	}

	// Messages run sequentially to bound LLM and provider request bursts.
	// One message's failure is recorded and must not block its siblings.
	processed, failed := 0, 0
	for _, messageID := range messageIDs {
		if err := o.processMessage(ctx, user.ID, accessToken, messageID); err != nil {
			failed++
			log.Error().Err(err).Str("user_id", user.ID).Str("message_id", messageID).
				Msg("failed to process message")
			continue
		}
		processed++
	}

	log.Info().Str("user_id", user.ID).Int("processed", processed).Int("failed", failed).
		Msg("batch complete")
	return &Summary{
		Message:        "Batch processing complete",
		HistoryID:      notification.HistoryID,
		ProcessedCount: processed,
		ErrorCount:     failed,
	}, nil
}

func (o *Orchestrator) processMessage(ctx context.Context, userID, accessToken, messageID string) error {
	exists, err := o.messageLedger.ExistsByMessageID(userID, messageID)
	if err != nil {
		return apperr.Persistence("check message dedup", err)
	}
	if exists {
		// A retried batch must not re-dispatch messages already committed.
		o.log.Info().Str("user_id", userID).Str("message_id", messageID).
			Msg("message already processed, skipping")
		return nil
	}

	msg, err := o.provider.FetchMessage(ctx, accessToken, messageID)
	if err != nil {
		return err
	}

	_, err = o.classifier.Classify(ctx, userID, *msg)
	return err
}
