package delivery

import (
	"net/http"

	authdomain "ghostinbox-backend/internal/auth/domain"
	"ghostinbox-backend/internal/auth/usecase"
	"ghostinbox-backend/pkg/apperr"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// AuthMiddleware resolves the credential once at the boundary and stores the
// resulting RequestorIdentity on the request context.
func AuthMiddleware(authUsecase usecase.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		cred, err := authUsecase.ParseCredential(c.GetHeader("Authorization"), c.GetHeader("X-User-Id"))
		if err != nil {
			c.JSON(apperr.StatusOf(err), gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		identity, err := authUsecase.Resolve(cred)
		if err != nil {
			c.JSON(apperr.StatusOf(err), gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// IdentityFrom returns the resolved identity, failing the request when the
// middleware never ran.
func IdentityFrom(c *gin.Context) (*authdomain.RequestorIdentity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return nil, false
	}
	identity, ok := v.(*authdomain.RequestorIdentity)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return nil, false
	}
	return identity, true
}
