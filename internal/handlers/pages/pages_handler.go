// internal/handlers/pages/pages_handler.go
package pages

import (
	"errors"
	"net/http"
	"net/url"

	"prepwise-service/internal/call"
	"prepwise-service/internal/domain/auth"
	"prepwise-service/internal/domain/interview"
	"prepwise-service/internal/middleware"
	xerrors "prepwise-service/internal/pkg/errors"
	"prepwise-service/internal/pkg/response"
	"prepwise-service/internal/pkg/session"
	authUsecase "prepwise-service/internal/service/auth"
	feedbackUsecase "prepwise-service/internal/service/feedback"
	interviewUsecase "prepwise-service/internal/service/interview"

	"github.com/gin-gonic/gin"
)

// Dashboard is the page model of "/".
type Dashboard struct {
	User        *auth.UserInfo         `json:"user"`
	Mine        []*interview.Interview `json:"userInterviews"`
	Latest      []*interview.Interview `json:"latestInterviews"`
	HasPast     bool                   `json:"hasPastInterviews"`
	HasUpcoming bool                   `json:"hasUpcomingInterviews"`
}

// CallBootstrap tells the browser how to open the call relay.
type CallBootstrap struct {
	Mode        call.Mode `json:"mode"`
	SocketPath  string    `json:"socketPath"`
	InterviewID string    `json:"interviewId,omitempty"`
	FeedbackID  string    `json:"feedbackId,omitempty"`
}

// InterviewPage is the page model of "/interview/:id".
type InterviewPage struct {
	User      *auth.UserInfo       `json:"user"`
	Interview *interview.Interview `json:"interview"`
	Call      CallBootstrap        `json:"call"`
}

// FeedbackPage is the page model of "/interview/:id/feedback".
type FeedbackPage struct {
	Interview *interview.Interview `json:"interview"`
	Feedback  *interview.Feedback  `json:"feedback"`
}

// PagesHandler serves JSON page models behind the route gate. A cookie that
// passes the gate but fails verification is cleared and sent to sign-in.
type PagesHandler struct {
	auth         *authUsecase.AuthService
	interviews   *interviewUsecase.InterviewService
	feedback     *feedbackUsecase.FeedbackService
	secureCookie bool
}

func NewPagesHandler(auth *authUsecase.AuthService, interviews *interviewUsecase.InterviewService, feedback *feedbackUsecase.FeedbackService, secureCookie bool) *PagesHandler {
	return &PagesHandler{
		auth:         auth,
		interviews:   interviews,
		feedback:     feedback,
		secureCookie: secureCookie,
	}
}

func (h *PagesHandler) currentUser(c *gin.Context) (*auth.UserInfo, bool) {
	payload, err := h.auth.ValidateToken(session.TokenFromRequest(c))
	if err == nil {
		var user *auth.UserInfo
		if user, err = h.auth.CurrentUser(c.Request.Context(), payload.UserID); err == nil {
			return user, true
		}
	}
	if errors.Is(err, xerrors.ErrInvalidSession) {
		session.ClearCookie(c, h.secureCookie)
		c.Redirect(http.StatusTemporaryRedirect, middleware.SignInPath+"?next="+url.QueryEscape(c.Request.URL.Path))
		c.Abort()
		return nil, false
	}
	response.FromError(c, err)
	return nil, false
}

func (h *PagesHandler) Home(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	mine, err := h.interviews.ListMine(ctx, user.ID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	latest, err := h.interviews.ListLatest(ctx, user.ID, 0)
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, Dashboard{
		User:        user,
		Mine:        mine,
		Latest:      latest,
		HasPast:     len(mine) > 0,
		HasUpcoming: len(latest) > 0,
	})
}

func (h *PagesHandler) Interview(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	iv, err := h.interviews.Get(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			c.Redirect(http.StatusTemporaryRedirect, "/")
			return
		}
		response.FromError(c, err)
		return
	}

	bootstrap := CallBootstrap{Mode: call.ModeInterview, SocketPath: "/ws/call", InterviewID: iv.ID}
	if fb, err := h.feedback.GetByInterview(ctx, iv.ID, user.ID); err == nil {
		bootstrap.FeedbackID = fb.ID
	}

	c.JSON(http.StatusOK, InterviewPage{User: user, Interview: iv, Call: bootstrap})
}

func (h *PagesHandler) Feedback(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	iv, err := h.interviews.Get(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			c.Redirect(http.StatusTemporaryRedirect, "/")
			return
		}
		response.FromError(c, err)
		return
	}

	page := FeedbackPage{Interview: iv}
	fb, err := h.feedback.GetByInterview(ctx, iv.ID, user.ID)
	switch {
	case err == nil:
		page.Feedback = fb
	case !errors.Is(err, xerrors.ErrNotFound):
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// SignIn and SignUp only describe the form; the route gate already sends
// signed-in users home.
func (h *PagesHandler) SignIn(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"page": "sign-in", "next": c.DefaultQuery("next", "/")})
}

func (h *PagesHandler) SignUp(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"page": "sign-up"})
}
