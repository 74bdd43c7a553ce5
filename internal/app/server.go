// internal/app/server.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"prepwise-service/internal/config"
	"prepwise-service/internal/db"
	authHandler "prepwise-service/internal/handlers/auth"
	interviewHandler "prepwise-service/internal/handlers/interview"
	pagesHandler "prepwise-service/internal/handlers/pages"
	wsHandler "prepwise-service/internal/handlers/websocket"
	"prepwise-service/internal/middleware"
	"prepwise-service/internal/observability"
	"prepwise-service/internal/pkg/gemini"
	"prepwise-service/internal/pkg/session"
	"prepwise-service/internal/pkg/token"
	"prepwise-service/internal/repository/postgres"
	authUsecase "prepwise-service/internal/service/auth"
	feedbackUsecase "prepwise-service/internal/service/feedback"
	interviewUsecase "prepwise-service/internal/service/interview"
	"prepwise-service/internal/websocket"
	wsHandlers "prepwise-service/internal/websocket/handler"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger

	httpServer *http.Server
	pool       *pgxpool.Pool
	redis      *redis.Client
	stopHub    context.CancelFunc
}

func NewServer(cfg config.AppConfig, logger *zap.Logger) *Server {
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	return &Server{cfg: cfg, engine: gin.New(), logger: logger}
}

// Start wires every dependency and serves HTTP until Shutdown is called.
func (s *Server) Start() error {
	ctx := context.Background()
	logger := s.logger

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(ctx, s.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	s.pool = pool
	dbWrapper := postgres.NewDB(pool)
	if err := dbWrapper.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("failed to prepare schema: %w", err)
	}
	logger.Info("postgres connected")

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(ctx, db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		PoolSize: 10,
	})
	if err != nil {
		return err
	}
	s.redis = redisClient
	logger.Info("redis connected", zap.String("addr", s.cfg.RedisAddr))

	// ----- Session tokens -----
	tokens, err := token.Build(s.cfg.Session)
	if err != nil {
		return fmt.Errorf("failed to build session token manager: %w", err)
	}
	rateLimiter := session.NewRateLimiter(redisClient)

	// ----- Metrics -----
	metrics := observability.NewMetrics(s.cfg.MetricsNamespace, nil)

	// ----- Gemini -----
	var (
		scorer    feedbackUsecase.Scorer
		generator interviewUsecase.QuestionGenerator
	)
	if s.cfg.GeminiAPIKey != "" {
		client, err := gemini.NewClient(ctx, s.cfg.GeminiAPIKey, s.cfg.GeminiModel)
		if err != nil {
			return fmt.Errorf("failed to create gemini client: %w", err)
		}
		scorer = feedbackUsecase.NewGeminiScorer(client)
		generator = interviewUsecase.NewGeminiQuestionGenerator(client)
		logger.Info("gemini client ready", zap.String("model", client.Model()))
	} else {
		logger.Warn("GEMINI_API_KEY not set, question generation and feedback are disabled")
	}

	// ----- Repositories -----
	authRepo := postgres.NewAuthRepository(pool)
	interviewRepo := postgres.NewInterviewRepository(pool)
	feedbackRepo := postgres.NewFeedbackRepository(pool)

	// ----- Services (Usecases) -----
	authService := authUsecase.NewAuthService(authRepo, tokens, rateLimiter, logger)
	interviewService := interviewUsecase.NewInterviewService(interviewRepo, generator, logger)
	feedbackService := feedbackUsecase.NewFeedbackService(scorer, feedbackRepo, rateLimiter, metrics, logger)

	// ----- WebSocket Hub -----
	hub := websocket.NewHub(tokens.Verifier, logger)
	hub.RegisterHandler(wsHandlers.NewCallHandler())
	metrics.TrackConnections(hub.TotalClients)

	hubCtx, stopHub := context.WithCancel(context.Background())
	s.stopHub = stopHub
	go hub.Run(hubCtx)

	voice := s.cfg.Voice()
	if voice.WebToken == "" {
		logger.Warn("VAPI_WEB_TOKEN not set, voice calls cannot be started")
	}

	// ----- Handlers -----
	secureCookie := s.cfg.Production()
	handlers := &Handlers{
		AuthHandler:      authHandler.NewAuthHandler(authService, hub, metrics.SignInsRejected, secureCookie, logger),
		InterviewHandler: interviewHandler.NewInterviewHandler(interviewService, feedbackService, logger),
		PagesHandler:     pagesHandler.NewPagesHandler(authService, interviewService, feedbackService, secureCookie),
		WSHandler: wsHandler.NewWebSocketHandler(hub, authService, interviewService, feedbackService, wsHandler.Options{
			Voice:           voice,
			Observer:        metrics,
			FeedbackTimeout: s.cfg.FeedbackTimeout,
			SameOrigin:      s.cfg.Production(),
		}, logger),
		AuthMiddleware: middleware.NewAuthMiddleware(authService),
		Metrics:        metrics.Handler(),
	}

	// ----- Middlewares -----
	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
		middleware.RouteGate(),
	)

	// ----- Router -----
	SetupRouter(s.engine, handlers)

	// ----- Start HTTP -----
	s.httpServer = &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info("server running", zap.String("addr", s.cfg.HTTPAddr), zap.String("env", s.cfg.Environment))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, closes call connections and releases
// the database and cache pools.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}
	if s.stopHub != nil {
		s.stopHub()
	}
	if s.redis != nil {
		if cerr := s.redis.Close(); cerr != nil {
			s.logger.Warn("failed to close redis", zap.Error(cerr))
		}
	}
	if s.pool != nil {
		s.pool.Close()
	}
	return err
}
