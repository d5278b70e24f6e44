package usecase

import (
	"context"

	emaildomain "ghostinbox-backend/internal/email/domain"
	"ghostinbox-backend/internal/email/repository"
	"ghostinbox-backend/pkg/apperr"

	"github.com/rs/zerolog"
)

// ReplyModel is the LLM call the draft generator depends on.
type ReplyModel interface {
	GenerateReply(ctx context.Context, subject, body string, tone *emaildomain.ToneProfile) (string, error)
}

// DraftGenerator produces a tone-matched reply for a classified email and
// routes it to the next status.
type DraftGenerator struct {
	emailRepo repository.EmailRepository
	toneRepo  repository.ToneRepository
	model     ReplyModel
	log       zerolog.Logger
}

func NewDraftGenerator(emailRepo repository.EmailRepository, toneRepo repository.ToneRepository, model ReplyModel, log zerolog.Logger) *DraftGenerator {
	return &DraftGenerator{emailRepo: emailRepo, toneRepo: toneRepo, model: model, log: log}
}

// Generate drafts a reply for the (user, emailID) record. low_risk emails
// become auto_sent without further review; everything else waits for
// approval as pending. Actual transport of auto-sent replies belongs to an
// external collaborator.
func (g *DraftGenerator) Generate(ctx context.Context, userID, emailID string) (string, emaildomain.Status, error) {
	if emailID == "" {
		return "", "", apperr.MissingField("email_id")
	}

	email, err := g.emailRepo.FindByID(userID, emailID)
	if err != nil {
		return "", "", apperr.Persistence("find email", err)
	}
	if email == nil {
		return "", "", &apperr.Error{Kind: apperr.KindNotFound, Code: apperr.CodeDraftFailed, Message: "email not found"}
	}
	if email.Status.Terminal() {
		return "", "", apperr.Validation(apperr.CodeBadRequest,
			"email is already "+string(email.Status)+" and can no longer change")
	}

	tone, err := g.toneRepo.Find(userID)
	if err != nil {
		return "", "", apperr.Persistence("find tone profile", err)
	}
	if tone == nil {
		tone = emaildomain.DefaultToneProfile(userID)
	}

	draft, err := g.model.GenerateReply(ctx, email.Subject, email.Body, tone)
	if err != nil {
		g.log.Error().Err(err).Str("user_id", userID).Str("email_id", emailID).
			Msg("draft generation failed")
		return "", "", err
	}

	status := emaildomain.StatusPending
	if email.Category == emaildomain.CategoryLowRisk {
		status = emaildomain.StatusAutoSent
		// The auto-send decision rests on the risk category alone, with no
		// confidence gate. Logged loudly so operations can see each one.
		g.log.Warn().Str("user_id", userID).Str("email_id", emailID).
			Msg("low_risk email promoted to auto_sent without review")
	}

	if err := g.emailRepo.SaveDraft(userID, emailID, draft, status); err != nil {
		return "", "", apperr.Persistence("save draft", err)
	}

	g.log.Info().Str("user_id", userID).Str("email_id", emailID).
		Str("status", string(status)).Msg("draft generated")
	return draft, status, nil
}
