package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-pos-backoffice/internal/application"
	"github.com/oksasatya/go-pos-backoffice/internal/interface/middleware"
	"github.com/oksasatya/go-pos-backoffice/pkg/helpers"
	"github.com/oksasatya/go-pos-backoffice/pkg/response"
	"github.com/oksasatya/go-pos-backoffice/pkg/validation"
)

// Authenticator is the slice of AuthService the handler needs.
type Authenticator interface {
	Verify(ctx context.Context, email, password string) (application.LoginResult, error)
	Logout(ctx context.Context, accountID int64) error
}

type AuthHandler struct {
	Auth    Authenticator
	Logger  logrus.FieldLogger
	Cookies *helpers.Manager
}

func NewAuthHandler(auth Authenticator, logger logrus.FieldLogger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Auth: auth, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	User      *application.Identity `json:"user"`
	Token     string                `json:"token"`
	ExpiresAt time.Time             `json:"expires_at"`
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "Invalid request data", validation.ToDetails(err))
		return
	}

	res, err := h.Auth.Verify(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	if !res.Granted {
		response.Error[any](c, http.StatusUnauthorized, res.Reason.Message(), gin.H{"reason": res.Reason})
		return
	}

	h.Cookies.SetSession(c, res.Token, res.ExpiresAt)
	response.Success(c, http.StatusOK, loginResponse{User: res.Identity, Token: res.Token, ExpiresAt: res.ExpiresAt}, res.Reason.Message(), nil)
}

// Logout POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	if err := h.Auth.Logout(c.Request.Context(), id.ID); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}

// Health GET /api/auth/health
func (h *AuthHandler) Health(c *gin.Context) { health("auth")(c) }
