package usecase

import (
	"crypto/subtle"
	"strings"

	authdomain "ghostinbox-backend/internal/auth/domain"
	"ghostinbox-backend/internal/auth/repository"
	"ghostinbox-backend/pkg/apperr"
	"ghostinbox-backend/pkg/config"

	"github.com/golang-jwt/jwt/v5"
)

// AuthUsecase resolves inbound credentials into a RequestorIdentity.
type AuthUsecase interface {
	// ParseCredential turns the Authorization and X-User-Id headers into a
	// tagged credential. It does not verify anything.
	ParseCredential(authHeader, actingAsUser string) (authdomain.Credential, error)
	// Resolve verifies a credential and produces the identity all
	// downstream logic consumes.
	Resolve(cred authdomain.Credential) (*authdomain.RequestorIdentity, error)
}

type authUsecase struct {
	userRepo repository.UserRepository
	config   *config.Config
}

func NewAuthUsecase(userRepo repository.UserRepository, cfg *config.Config) AuthUsecase {
	return &authUsecase{userRepo: userRepo, config: cfg}
}

func (u *authUsecase) ParseCredential(authHeader, actingAsUser string) (authdomain.Credential, error) {
	if authHeader == "" {
		return nil, apperr.Auth(apperr.CodeUnauthorized, "missing Authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, apperr.Auth(apperr.CodeUnauthorized, "invalid Authorization header format")
	}
	token := parts[1]

	// A service credential is only meaningful with an explicit target user;
	// without the header the token is treated as a user session.
	if actingAsUser != "" && u.config.ServiceKey != "" &&
		subtle.ConstantTimeCompare([]byte(token), []byte(u.config.ServiceKey)) == 1 {
		return authdomain.ServiceCredential{Token: token, ActingAsUser: actingAsUser}, nil
	}

	return authdomain.UserCredential{Token: token}, nil
}

func (u *authUsecase) Resolve(cred authdomain.Credential) (*authdomain.RequestorIdentity, error) {
	switch c := cred.(type) {
	case authdomain.ServiceCredential:
		if subtle.ConstantTimeCompare([]byte(c.Token), []byte(u.config.ServiceKey)) != 1 || u.config.ServiceKey == "" {
			return nil, apperr.Auth(apperr.CodeUnauthorized, "invalid service credential")
		}
		if c.ActingAsUser == "" {
			return nil, apperr.Auth(apperr.CodeUnauthorized, "service credential requires a target user")
		}
		return &authdomain.RequestorIdentity{UserID: c.ActingAsUser, Service: true}, nil

	case authdomain.UserCredential:
		userID, err := u.validateSessionToken(c.Token)
		if err != nil {
			return nil, err
		}
		user, err := u.userRepo.FindByID(userID)
		if err != nil {
			return nil, apperr.Persistence("find user", err)
		}
		if user == nil {
			return nil, apperr.Auth(apperr.CodeUnauthorized, "invalid or expired token")
		}
		return &authdomain.RequestorIdentity{UserID: user.ID}, nil

	default:
		return nil, apperr.Auth(apperr.CodeUnauthorized, "unsupported credential")
	}
}

func (u *authUsecase) validateSessionToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(u.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return "", apperr.Auth(apperr.CodeUnauthorized, "invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", apperr.Auth(apperr.CodeUnauthorized, "invalid token claims")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", apperr.Auth(apperr.CodeUnauthorized, "token missing subject")
	}
	return sub, nil
}
