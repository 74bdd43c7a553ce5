// internal/app/router.go
package app

import (
	"net/http"

	authHandler "prepwise-service/internal/handlers/auth"
	interviewHandler "prepwise-service/internal/handlers/interview"
	pagesHandler "prepwise-service/internal/handlers/pages"
	wsHandler "prepwise-service/internal/handlers/websocket"
	"prepwise-service/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	AuthHandler      *authHandler.AuthHandler
	InterviewHandler *interviewHandler.InterviewHandler
	PagesHandler     *pagesHandler.PagesHandler
	WSHandler        *wsHandler.WebSocketHandler
	AuthMiddleware   *middleware.AuthMiddleware
	Metrics          http.Handler
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	// ==================== Health & Metrics ====================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": "1.0.0"})
	})
	if h.Metrics != nil {
		r.GET("/metrics", gin.WrapH(h.Metrics))
	}

	// ==================== Pages ====================
	r.GET("/", h.PagesHandler.Home)
	r.GET("/interview/:id", h.PagesHandler.Interview)
	r.GET("/interview/:id/feedback", h.PagesHandler.Feedback)
	r.GET(middleware.SignInPath, h.PagesHandler.SignIn)
	r.GET(middleware.SignUpPath, h.PagesHandler.SignUp)

	// ==================== WebSocket ====================
	r.GET("/ws/call", h.WSHandler.HandleConnection)

	api := r.Group("/api/v1")

	// ==================== Auth ====================
	authPublic := api.Group("/auth")
	{
		authPublic.POST("/sign-up", h.AuthHandler.SignUp)
		authPublic.POST("/sign-in", h.AuthHandler.SignIn)
	}
	api.POST("/auth/sign-out", h.AuthMiddleware.OptionalAuth(), h.AuthHandler.SignOut)

	authProtected := api.Group("/auth")
	authProtected.Use(h.AuthMiddleware.Auth())
	{
		authProtected.GET("/me", h.AuthHandler.Me)
	}

	// ==================== Interviews ====================
	interviews := api.Group("/interviews")
	interviews.Use(h.AuthMiddleware.Auth())
	{
		interviews.GET("", h.InterviewHandler.ListMine)
		interviews.GET("/latest", h.InterviewHandler.ListLatest)
		interviews.POST("/generate", h.InterviewHandler.Generate)
		interviews.GET("/:id", h.InterviewHandler.Get)
		interviews.GET("/:id/feedback", h.InterviewHandler.GetFeedback)
	}

	// ==================== Feedback ====================
	feedback := api.Group("/feedback")
	feedback.Use(h.AuthMiddleware.Auth())
	{
		feedback.POST("", h.InterviewHandler.CreateFeedback)
	}

	// ==================== WebSocket stats ====================
	ws := api.Group("/ws")
	ws.Use(h.AuthMiddleware.Auth())
	{
		ws.GET("/stats", h.WSHandler.GetStats)
	}
}
