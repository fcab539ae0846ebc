package handlers

import (
	"errors"
	"net/http"

	"kigalimove/middleware"
	"kigalimove/models"
	"kigalimove/services/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler serves login, logout and the current session.
type AuthHandler struct {
	Auth auth.AuthService
}

func NewAuthHandler(svc auth.AuthService) *AuthHandler {
	return &AuthHandler{Auth: svc}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var creds auth.Credentials
	if !bindJSON(c, &creds) {
		return
	}

	res, err := h.Auth.Login(c.Request.Context(), creds)
	if err != nil {
		var loginErr *auth.LoginError
		if errors.As(err, &loginErr) {
			status := http.StatusUnauthorized
			if loginErr.Code == auth.CodeLoginFailed {
				status = http.StatusServiceUnavailable
			}
			getLogger(c).Warn("Login rejected", zap.String("code", loginErr.Code))
			c.JSON(status, gin.H{"error": loginErr.Message, "code": loginErr.Code})
			return
		}
		respondError(c, err, auth.MsgLoginFailed)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.Auth.Logout(c.Request.Context(), c.GetString(middleware.CtxSessionID)); err != nil {
		respondError(c, err, "Failed to log out")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me returns the session behind the bearer token with its dashboard.
func (h *AuthHandler) Me(c *gin.Context) {
	role := c.GetString(middleware.CtxRole)
	c.JSON(http.StatusOK, gin.H{
		"userId":    c.GetString(middleware.CtxUserID),
		"userName":  c.GetString(middleware.CtxUserName),
		"role":      role,
		"workerId":  c.GetString(middleware.CtxWorkerID),
		"dashboard": auth.DashboardFor(models.Role(role)),
	})
}
