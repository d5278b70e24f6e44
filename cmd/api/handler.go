package api

import (
	"net/http"

	authusecase "ghostinbox-backend/internal/auth/usecase"
	emaildelivery "ghostinbox-backend/internal/email/delivery"
	ingestdelivery "ghostinbox-backend/internal/ingest/delivery"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase   authusecase.AuthUsecase
	emailHandler  *emaildelivery.EmailHandler
	ingestHandler *ingestdelivery.IngestHandler
}

func NewHandler(authUc authusecase.AuthUsecase, emailHandler *emaildelivery.EmailHandler, ingestHandler *ingestdelivery.IngestHandler) *Handler {
	return &Handler{
		authUsecase:   authUc,
		emailHandler:  emailHandler,
		ingestHandler: ingestHandler,
	}
}

func (h *Handler) Start(addr string) error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-User-Id, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	SetupRoutes(r, h.authUsecase, h.emailHandler, h.ingestHandler)

	return r.Run(addr)
}
