package delivery

import (
	"io"
	"net/http"
	"time"

	authdelivery "ghostinbox-backend/internal/auth/delivery"
	"ghostinbox-backend/internal/ingest/usecase"
	"ghostinbox-backend/pkg/apperr"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// IngestHandler exposes the notification webhook and the watch renewal op.
type IngestHandler struct {
	orchestrator *usecase.Orchestrator
	watch        *usecase.WatchRegistrar
	log          zerolog.Logger
}

func NewIngestHandler(orchestrator *usecase.Orchestrator, watch *usecase.WatchRegistrar, log zerolog.Logger) *IngestHandler {
	return &IngestHandler{orchestrator: orchestrator, watch: watch, log: log}
}

// Ingest is the push notification webhook. Any failure is answered with 500
// so the push delivery retries; skips and completed batches are 200.
func (h *IngestHandler) Ingest(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.fail(c, err)
		return
	}

	summary, err := h.orchestrator.Process(c.Request.Context(), body)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Watch registers (or renews) the mailbox change subscription for the
// authenticated user.
func (h *IngestHandler) Watch(c *gin.Context) {
	identity, ok := authdelivery.IdentityFrom(c)
	if !ok {
		return
	}

	result, err := h.watch.Renew(c.Request.Context(), identity.UserID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", identity.UserID).Msg("watch renewal failed")
		c.JSON(apperr.StatusOf(err), gin.H{
			"error":     err.Error(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "Watch registered successfully",
		"expiration": result.Expiration,
		"historyId":  result.HistoryID,
	})
}

func (h *IngestHandler) fail(c *gin.Context, err error) {
	h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":     err.Error(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
