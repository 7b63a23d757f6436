package middleware

import (
	"errors"
	"net/http"
	"strings"

	"KidLearn/internal/app_errors"
	"KidLearn/internal/service/auth"
	"KidLearn/pkg/logger"

	"github.com/gin-gonic/gin"
)

type TokenVerifier interface {
	AccessClaims(token string) (*auth.AccessTokenClaims, error)
}

type AuthMiddlewareProvider struct {
	log      logger.Log
	verifier TokenVerifier
}

func NewAuthMiddlewareProvider(log logger.Log, v TokenVerifier) *AuthMiddlewareProvider {
	return &AuthMiddlewareProvider{
		log:      log,
		verifier: v,
	}
}

func (h *AuthMiddlewareProvider) AuthMiddleware(c *gin.Context) {
	token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok || token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}

	claims, err := h.verifier.AccessClaims(token)
	if err != nil {
		h.log.Debug("rejected access token", "error", err)
		if errors.Is(err, app_errors.ErrTokenExpired) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": app_errors.ErrTokenExpired.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "cant parse token"})
		return
	}

	c.Set(ClientIDCtx, claims.UserID)
	c.Set(ClientRolesCtx, claims.Roles)
	c.Next()
}
