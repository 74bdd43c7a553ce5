// internal/handlers/auth/auth_handler.go
package auth

import (
	"errors"
	"net/http"

	"prepwise-service/internal/domain/auth"
	"prepwise-service/internal/middleware"
	"prepwise-service/internal/pkg/response"
	"prepwise-service/internal/pkg/session"
	authUsecase "prepwise-service/internal/service/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Disconnector drops a user's live call connections.
type Disconnector interface {
	DisconnectUser(userID string, reason string)
}

// RejectionCounter counts refused sign-ins.
type RejectionCounter interface {
	Inc()
}

type AuthHandler struct {
	authService  *authUsecase.AuthService
	disconnector Disconnector
	rejections   RejectionCounter
	secureCookie bool
	logger       *zap.Logger
}

func NewAuthHandler(authService *authUsecase.AuthService, disconnector Disconnector, rejections RejectionCounter, secureCookie bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		disconnector: disconnector,
		rejections:   rejections,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

// SignUp handles account registration (public endpoint)
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req auth.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}
	req.IPAddress = c.ClientIP()

	res, err := h.authService.SignUp(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, authUsecase.ErrUserExists) {
			response.Error(c, http.StatusConflict, "User already exists. Please sign in.", nil)
			return
		}
		h.logger.Error("sign-up failed", zap.String("ip", req.IPAddress), zap.Error(err))
		response.FromError(c, err)
		return
	}

	session.SetCookie(c, res.Token, session.CookieOptions{MaxAge: res.MaxAge, Secure: h.secureCookie})
	response.Success(c, http.StatusCreated, "Account created successfully.", res)
}

// SignIn handles email/password sign-in
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req auth.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}
	req.IPAddress = c.ClientIP()

	res, err := h.authService.SignIn(c.Request.Context(), &req)
	if err != nil {
		if h.rejections != nil {
			h.rejections.Inc()
		}
		h.logger.Warn("sign-in failed", zap.String("ip", req.IPAddress), zap.Error(err))
		response.FromError(c, err)
		return
	}

	h.logger.Info("user signed in", zap.String("user_id", res.User.ID))
	session.SetCookie(c, res.Token, session.CookieOptions{MaxAge: res.MaxAge, Secure: h.secureCookie})
	response.Success(c, http.StatusOK, "Signed in successfully.", res)
}

// SignOut clears the session cookie and drops the user's call connections.
func (h *AuthHandler) SignOut(c *gin.Context) {
	if userID, ok := middleware.GetUserID(c); ok && h.disconnector != nil {
		h.disconnector.DisconnectUser(userID, "signed out")
	}
	session.ClearCookie(c, h.secureCookie)
	response.Success(c, http.StatusOK, "Signed out.", nil)
}

// Me returns the current user (requires auth)
func (h *AuthHandler) Me(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	info, err := h.authService.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "current user", info)
}
