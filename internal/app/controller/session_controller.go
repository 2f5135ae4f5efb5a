package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/beautycart-backend/internal/app/service"
	apperrors "github.com/ikkim/beautycart-backend/internal/errors"
	"github.com/ikkim/beautycart-backend/internal/middleware"
	"github.com/ikkim/beautycart-backend/pkg/redis"
	"github.com/ikkim/beautycart-backend/pkg/util"
)

type SessionController struct {
	cartService service.CartService
	tokenSecret string
	tokenExpiry time.Duration
}

func NewSessionController(cartService service.CartService, tokenSecret string, tokenExpiry time.Duration) *SessionController {
	return &SessionController{
		cartService: cartService,
		tokenSecret: tokenSecret,
		tokenExpiry: tokenExpiry,
	}
}

// currentSession reads the session id set by RequireSession and answers 401
// when it is missing.
func currentSession(c *gin.Context) (string, bool) {
	sessionID, ok := middleware.GetSessionID(c)
	if !ok {
		middleware.GetLoggerFromContext(c).Warn("Session missing from context", map[string]interface{}{
			"path": c.Request.URL.Path,
		})
		apperrors.Unauthorized(c, apperrors.SessionRequired, "")
		return "", false
	}
	return sessionID, true
}

// CreateSession starts an anonymous shopping session
// POST /api/v1/sessions
func (ctrl *SessionController) CreateSession(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sessionID, err := ctrl.cartService.CreateSession(c.Request.Context())
	if err != nil {
		log.Error("Failed to create session", err)
		apperrors.InternalError(c, "Failed to create session")
		return
	}

	token, err := util.GenerateSessionToken(sessionID, ctrl.tokenSecret, ctrl.tokenExpiry)
	if err != nil {
		log.Error("Failed to sign session token", err, map[string]interface{}{
			"session_id": sessionID,
		})
		apperrors.InternalError(c, "Failed to create session")
		return
	}

	log.Info("Session created", map[string]interface{}{
		"session_id": sessionID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"session_id": sessionID,
		"token":      token,
		"expires_at": time.Now().Add(ctrl.tokenExpiry).UTC(),
	})
}

// EndSession deletes the cart and revokes the token
// DELETE /api/v1/sessions/current
func (ctrl *SessionController) EndSession(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sessionID, ok := currentSession(c)
	if !ok {
		return
	}

	if err := ctrl.cartService.EndSession(c.Request.Context(), sessionID); err != nil {
		log.Error("Failed to end session", err, map[string]interface{}{
			"session_id": sessionID,
		})
		apperrors.InternalError(c, "Failed to end session")
		return
	}

	remaining := ctrl.tokenExpiry
	if expiresAt, ok := middleware.GetSessionExpiry(c); ok {
		remaining = time.Until(expiresAt)
	}
	if remaining > 0 {
		if err := redis.RevokeSession(c.Request.Context(), sessionID, remaining); err != nil {
			log.Warn("Session token could not be revoked", map[string]interface{}{
				"session_id": sessionID,
				"error":      err.Error(),
			})
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Session ended",
	})
}
