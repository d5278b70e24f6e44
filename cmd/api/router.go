package api

import (
	"net/http"

	authdelivery "ghostinbox-backend/internal/auth/delivery"
	authusecase "ghostinbox-backend/internal/auth/usecase"
	emaildelivery "ghostinbox-backend/internal/email/delivery"
	ingestdelivery "ghostinbox-backend/internal/ingest/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authUsecase authusecase.AuthUsecase, emailHandler *emaildelivery.EmailHandler, ingestHandler *ingestdelivery.IngestHandler) {
	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Notification webhook. No auth: the push subscription calls this
		// directly and unknown senders only ever cause a no-op skip.
		api.POST("/ingest", ingestHandler.Ingest)

		authed := api.Group("")
		authed.Use(authdelivery.AuthMiddleware(authUsecase))
		{
			authed.POST("/classify", emailHandler.Classify)
			authed.POST("/drafts", emailHandler.GenerateDraft)
			authed.POST("/watch", ingestHandler.Watch)
			authed.PUT("/settings/tone", emailHandler.UpdateTone)
		}
	}
}
