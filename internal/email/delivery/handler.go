package delivery

import (
	"net/http"
	"time"

	authdelivery "ghostinbox-backend/internal/auth/delivery"
	emaildomain "ghostinbox-backend/internal/email/domain"
	"ghostinbox-backend/internal/email/usecase"
	"ghostinbox-backend/pkg/apperr"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// EmailHandler exposes classification, draft generation and tone settings.
type EmailHandler struct {
	classifier *usecase.Classifier
	drafts     *usecase.DraftGenerator
	tone       *usecase.ToneSettings
	log        zerolog.Logger
}

func NewEmailHandler(classifier *usecase.Classifier, drafts *usecase.DraftGenerator, tone *usecase.ToneSettings, log zerolog.Logger) *EmailHandler {
	return &EmailHandler{classifier: classifier, drafts: drafts, tone: tone, log: log}
}

type classifyRequest struct {
	MessageID string `json:"message_id"`
	Subject   string `json:"subject"`
	Sender    string `json:"sender"`
	Body      string `json:"body"`
}

// Classify runs one message through the classifier on behalf of the
// authenticated (or acted-for) user.
func (h *EmailHandler) Classify(c *gin.Context) {
	identity, ok := authdelivery.IdentityFrom(c)
	if !ok {
		return
	}

	var req classifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, apperr.Validation(apperr.CodeBadRequest, "request body is not valid JSON"))
		return
	}

	email, err := h.classifier.Classify(c.Request.Context(), identity.UserID, emaildomain.InboundMessage{
		MessageID: req.MessageID,
		Subject:   req.Subject,
		Sender:    req.Sender,
		Body:      req.Body,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message_id":      email.MessageID,
		"category":        email.Category,
		"urgency":         email.Urgency,
		"sentiment":       email.Sentiment,
		"required_action": email.RequiredAction,
	})
}

type draftRequest struct {
	EmailID string `json:"email_id"`
}

// GenerateDraft drafts a reply for a classified email and reports the status
// the record moved to.
func (h *EmailHandler) GenerateDraft(c *gin.Context) {
	identity, ok := authdelivery.IdentityFrom(c)
	if !ok {
		return
	}

	var req draftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, apperr.Validation(apperr.CodeBadRequest, "request body is not valid JSON"))
		return
	}

	draft, status, err := h.drafts.Generate(c.Request.Context(), identity.UserID, req.EmailID)
	if err != nil {
		h.fail(c, err)
		return
	}

	message := "Draft generated, awaiting approval"
	if status == emaildomain.StatusAutoSent {
		message = "Draft generated and auto-sent"
	}
	c.JSON(http.StatusOK, gin.H{
		"draft":   draft,
		"status":  status,
		"message": message,
	})
}

type toneRequest struct {
	Formality  int `json:"formality"`
	EmojiUsage int `json:"emoji_usage"`
	Brevity    int `json:"brevity"`
}

// UpdateTone upserts the user's reply style sliders.
func (h *EmailHandler) UpdateTone(c *gin.Context) {
	identity, ok := authdelivery.IdentityFrom(c)
	if !ok {
		return
	}

	var req toneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, apperr.Validation(apperr.CodeBadRequest, "request body is not valid JSON"))
		return
	}

	profile, err := h.tone.Update(identity.UserID, req.Formality, req.EmojiUsage, req.Brevity)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *EmailHandler) fail(c *gin.Context, err error) {
	h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	c.JSON(apperr.StatusOf(err), gin.H{
		"error":     err.Error(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
