// internal/handlers/interview/interview_handler.go
package interview

import (
	"net/http"
	"strconv"

	"prepwise-service/internal/domain/interview"
	"prepwise-service/internal/middleware"
	"prepwise-service/internal/pkg/response"
	feedbackUsecase "prepwise-service/internal/service/feedback"
	interviewUsecase "prepwise-service/internal/service/interview"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type InterviewHandler struct {
	interviews *interviewUsecase.InterviewService
	feedback   *feedbackUsecase.FeedbackService
	logger     *zap.Logger
}

func NewInterviewHandler(interviews *interviewUsecase.InterviewService, feedback *feedbackUsecase.FeedbackService, logger *zap.Logger) *InterviewHandler {
	return &InterviewHandler{
		interviews: interviews,
		feedback:   feedback,
		logger:     logger,
	}
}

// ListMine returns the caller's interviews, newest first.
func (h *InterviewHandler) ListMine(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	list, err := h.interviews.ListMine(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list interviews", zap.String("user_id", userID), zap.Error(err))
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "interviews", list)
}

// ListLatest returns finalized interviews of other users.
func (h *InterviewHandler) ListLatest(c *gin.Context) {
	userID := middleware.MustGetUserID(c)
	limit, _ := strconv.Atoi(c.Query("limit"))

	list, err := h.interviews.ListLatest(c.Request.Context(), userID, limit)
	if err != nil {
		h.logger.Error("failed to list latest interviews", zap.Error(err))
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "latest interviews", list)
}

func (h *InterviewHandler) Get(c *gin.Context) {
	iv, err := h.interviews.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "interview", iv)
}

// GetFeedback returns the caller's feedback for an interview.
func (h *InterviewHandler) GetFeedback(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	fb, err := h.feedback.GetByInterview(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "feedback", fb)
}

// Generate creates an interview with model-generated questions.
func (h *InterviewHandler) Generate(c *gin.Context) {
	var req interview.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}
	req.UserID = middleware.MustGetUserID(c)

	iv, err := h.interviews.Generate(c.Request.Context(), &req)
	if err != nil {
		h.logger.Error("failed to generate interview", zap.String("user_id", req.UserID), zap.Error(err))
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "interview generated", iv)
}

// CreateFeedback scores a transcript submitted outside a relayed call. The
// body always carries {success, feedbackId}.
func (h *InterviewHandler) CreateFeedback(c *gin.Context) {
	var req interview.CreateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}
	req.UserID = middleware.MustGetUserID(c)

	res := h.feedback.CreateFeedback(c.Request.Context(), &req)
	status := http.StatusOK
	if !res.Success {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, res)
}
