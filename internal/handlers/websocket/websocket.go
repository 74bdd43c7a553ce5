// internal/handlers/websocket/websocket.go
package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"prepwise-service/internal/call"
	xerrors "prepwise-service/internal/pkg/errors"
	"prepwise-service/internal/pkg/response"
	"prepwise-service/internal/pkg/session"
	authUsecase "prepwise-service/internal/service/auth"
	feedbackUsecase "prepwise-service/internal/service/feedback"
	interviewUsecase "prepwise-service/internal/service/interview"
	ws "prepwise-service/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type Options struct {
	Voice           call.Config
	Observer        call.Observer
	FeedbackTimeout time.Duration
	// SameOrigin rejects upgrades whose Origin host differs from the request host.
	SameOrigin bool
}

type WebSocketHandler struct {
	hub        *ws.Hub
	auth       *authUsecase.AuthService
	interviews *interviewUsecase.InterviewService
	feedback   *feedbackUsecase.FeedbackService
	opts       Options
	upgrader   websocket.Upgrader
	logger     *zap.Logger
}

func NewWebSocketHandler(
	hub *ws.Hub,
	auth *authUsecase.AuthService,
	interviews *interviewUsecase.InterviewService,
	feedback *feedbackUsecase.FeedbackService,
	opts Options,
	logger *zap.Logger,
) *WebSocketHandler {
	h := &WebSocketHandler{
		hub:        hub,
		auth:       auth,
		interviews: interviews,
		feedback:   feedback,
		opts:       opts,
		logger:     logger,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	if !h.opts.SameOrigin {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

// HandleConnection authenticates the caller, prepares a call session for the
// requested mode and hands the connection to the hub.
//
// Query parameters: mode (generate|interview), interview_id and feedback_id.
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	token := h.extractToken(c)
	if token == "" {
		response.Unauthorized(c, "invalid or expired session")
		return
	}

	auth, err := h.hub.AuthenticateClient(c.Request.Context(), token)
	if err != nil {
		h.logger.Warn("websocket authentication failed",
			zap.Error(err),
			zap.String("ip", c.ClientIP()),
		)
		response.Unauthorized(c, "invalid or expired session")
		return
	}

	mode, err := call.ParseMode(c.DefaultQuery("mode", string(call.ModeGenerate)))
	if err != nil {
		response.FromError(c, err)
		return
	}

	profile, err := h.buildProfile(c.Request.Context(), mode, auth.UserID, c.Query("interview_id"), c.Query("feedback_id"))
	if err != nil {
		h.logger.Warn("failed to prepare call session",
			zap.String("user_id", auth.UserID),
			zap.String("mode", string(mode)),
			zap.Error(err),
		)
		response.FromError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed",
			zap.Error(err),
			zap.String("ip", c.ClientIP()),
		)
		return
	}

	client := ws.NewClient(h.hub, conn, auth)
	relay := ws.NewRelay(client)
	ctrl := call.NewController(mode, profile, h.opts.Voice, call.Options{
		Voice:           relay,
		Presenter:       relay,
		Feedback:        h.feedback,
		Observer:        h.opts.Observer,
		Logger:          h.logger,
		FeedbackTimeout: h.opts.FeedbackTimeout,
	})
	client.AttachCall(ctrl, h.opts.Voice.WebToken)

	h.hub.Register <- client

	h.logger.Info("call connection opened",
		zap.String("call_id", ctrl.ID()),
		zap.String("user_id", auth.UserID),
		zap.String("mode", string(mode)),
		zap.String("interview_id", profile.InterviewID),
	)

	go client.WritePump()
	go client.ReadPump()
}

// buildProfile resolves the user name and, for interviews, the questions to ask.
func (h *WebSocketHandler) buildProfile(ctx context.Context, mode call.Mode, userID, interviewID, feedbackID string) (call.Profile, error) {
	user, err := h.auth.CurrentUser(ctx, userID)
	if err != nil {
		return call.Profile{}, err
	}
	profile := call.Profile{UserName: user.Name, UserID: user.ID}
	if mode != call.ModeInterview {
		return profile, nil
	}

	if interviewID == "" {
		return call.Profile{}, xerrors.Wrap(xerrors.ErrInvalidInput, "interview_id is required in interview mode")
	}
	iv, err := h.interviews.Get(ctx, interviewID)
	if err != nil {
		return call.Profile{}, err
	}
	profile.InterviewID = iv.ID
	profile.Questions = iv.Questions
	profile.FeedbackID = feedbackID
	if profile.FeedbackID == "" {
		if fb, err := h.feedback.GetByInterview(ctx, iv.ID, user.ID); err == nil {
			profile.FeedbackID = fb.ID
		} else if !errors.Is(err, xerrors.ErrNotFound) {
			return call.Profile{}, err
		}
	}
	return profile, nil
}

// extractToken reads the session cookie, then the token query parameter, then
// the Authorization header.
func (h *WebSocketHandler) extractToken(c *gin.Context) string {
	if token := session.TokenFromRequest(c); token != "" {
		return token
	}
	if token := c.Query("token"); token != "" {
		return token
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}
	return ""
}

// GetStats returns connection statistics.
func (h *WebSocketHandler) GetStats(c *gin.Context) {
	stats := map[string]interface{}{
		"total_connections": h.hub.TotalClients(),
		"timestamp":         time.Now(),
	}

	response.Success(c, http.StatusOK, "websocket stats", stats)
}
