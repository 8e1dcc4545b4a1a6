package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/vikramkatyani/lmsBox-sub000/internal/app_errors"
	"github.com/vikramkatyani/lmsBox-sub000/internal/service/auth"
	"github.com/vikramkatyani/lmsBox-sub000/pkg/logger"

	"github.com/gin-gonic/gin"
)

const (
	ClientIDCtx    = "client_id"
	ClientRolesCtx = "client_roles"
)

type TokenVerifier interface {
	AccessClaims(tokenStr string) (*auth.AccessTokenClaims, error)
}

type AuthMiddlewareProvider struct {
	log    logger.Log
	tokens TokenVerifier
}

func NewAuthMiddlewareProvider(log logger.Log, tokens TokenVerifier) *AuthMiddlewareProvider {
	return &AuthMiddlewareProvider{
		log:    log,
		tokens: tokens,
	}
}

func (h *AuthMiddlewareProvider) AuthMiddleware(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	var token string
	if parts := strings.Split(authHeader, "Bearer "); len(parts) == 2 {
		token = parts[1]
	}
	if token == "" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	claims, err := h.tokens.AccessClaims(token)
	if err != nil {
		h.log.Info("failed to parse token", "error", err.Error())
		if errors.Is(err, app_errors.ErrTokenExpired) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": app_errors.ErrTokenExpired.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "cant parse token"})
		return
	}

	c.Set(ClientIDCtx, claims.LearnerID)
	c.Set(ClientRolesCtx, claims.Roles)
	c.Next()
}
