package usecase

import (
	"context"

	emaildomain "ghostinbox-backend/internal/email/domain"
	"ghostinbox-backend/internal/email/repository"
	"ghostinbox-backend/pkg/apperr"

	"github.com/rs/zerolog"
)

// VerdictModel is the LLM call the classifier depends on.
type VerdictModel interface {
	Classify(ctx context.Context, msg emaildomain.InboundMessage) (emaildomain.Verdict, error)
}

// Classifier turns normalized email content into a persisted, classified
// email record.
type Classifier struct {
	emailRepo repository.EmailRepository
	model     VerdictModel
	log       zerolog.Logger
}

func NewClassifier(emailRepo repository.EmailRepository, model VerdictModel, log zerolog.Logger) *Classifier {
	return &Classifier{emailRepo: emailRepo, model: model, log: log}
}

// Classify validates the input, obtains a verdict and persists the email
// with status classified. A concurrent duplicate insert for the same
// (user, message id) is absorbed, not surfaced.
func (c *Classifier) Classify(ctx context.Context, userID string, in emaildomain.InboundMessage) (*emaildomain.Email, error) {
	if in.MessageID == "" {
		return nil, apperr.MissingField("message_id")
	}
	if in.Body == "" {
		return nil, apperr.MissingField("body")
	}

	verdict, err := c.model.Classify(ctx, in)
	if err != nil {
		c.log.Error().Err(err).Str("user_id", userID).Str("message_id", in.MessageID).
			Msg("classification failed")
		return nil, err
	}

	email := &emaildomain.Email{
		UserID:         userID,
		MessageID:      in.MessageID,
		Subject:        in.Subject,
		Sender:         in.Sender,
		Body:           in.Body,
		Category:       verdict.Category,
		Urgency:        verdict.Urgency,
		Sentiment:      verdict.Sentiment,
		RequiredAction: verdict.RequiredAction,
		Status:         emaildomain.StatusClassified,
	}

	created, err := c.emailRepo.Insert(email)
	if err != nil {
		return nil, apperr.Persistence("insert classified email", err)
	}
	if !created {
		c.log.Info().Str("user_id", userID).Str("message_id", in.MessageID).
			Msg("email already classified, keeping existing record")
	}

	c.log.Info().Str("user_id", userID).Str("message_id", in.MessageID).
		Str("category", verdict.Category).Str("urgency", verdict.Urgency).
		Msg("email classified")
	return email, nil
}
