package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sithumSoft/MockMate/internal/coach"
	"github.com/sithumSoft/MockMate/internal/config"
	"github.com/sithumSoft/MockMate/internal/database"
	"github.com/sithumSoft/MockMate/internal/events"
	"github.com/sithumSoft/MockMate/internal/feedback"
	"github.com/sithumSoft/MockMate/internal/handlers"
	"github.com/sithumSoft/MockMate/internal/interview"
	"github.com/sithumSoft/MockMate/internal/jobs"
	"github.com/sithumSoft/MockMate/internal/llm"
	_ "github.com/sithumSoft/MockMate/internal/llm/gemini"
	_ "github.com/sithumSoft/MockMate/internal/llm/groq"
	"github.com/sithumSoft/MockMate/internal/metrics"
	mmmiddleware "github.com/sithumSoft/MockMate/internal/middleware"
	"github.com/sithumSoft/MockMate/internal/prompts"
	"github.com/sithumSoft/MockMate/internal/routers"
	"github.com/sithumSoft/MockMate/internal/store"
	"github.com/sithumSoft/MockMate/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// pointer keys in redis outlive any realistic interview
const redisPointerTTL = 7 * 24 * time.Hour

func registerRoutes(router *chi.Mux, auth routers.Auth, interviewHandler *handlers.InterviewHandler, analyticsHandler *handlers.AnalyticsHandler, chatHandler *handlers.ChatHandler, healthHandler *handlers.HealthHandler) {
	routers.HealthRoutes(router, healthHandler)
	routers.InterviewRoutes(router, auth, interviewHandler)
	routers.AnalyticsRoutes(router, auth, analyticsHandler)
	routers.ChatRoutes(router, auth, chatHandler)
}

func main() {
	// a missing .env is fine; the environment may already be populated
	_ = godotenv.Load()

	logger := utils.GetLogger()
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger.Info("Configuration loaded",
		zap.String("provider", cfg.Provider),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Bool("redis", cfg.RedisAddr != ""),
		zap.Bool("auth", cfg.JWTSecret != ""))

	db, err := database.Open(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}

	var (
		rdb       *redis.Client
		pointer   store.PointerStore
		notifier  interview.CompletionNotifier = events.NopPublisher{}
		redisPing handlers.Pinger
	)
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Fatal("Failed to connect to redis", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		pointer = store.NewRedisPointer(rdb, redisPointerTTL)
		notifier = events.NewRedisPublisher(rdb, logger)
		redisPing = handlers.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
		logger.Info("Redis connected", zap.String("addr", cfg.RedisAddr))
	}

	interviewStore := store.New(db, pointer)

	promptManager, err := prompts.NewPromptManager()
	if err != nil {
		logger.Fatal("Failed to initialize prompt manager", zap.Error(err))
	}

	aiProvider, err := llm.NewProvider(cfg.Provider)
	if err != nil {
		logger.Fatal("Failed to initialize AI provider", zap.Error(err))
	}
	instrumented := metrics.Instrument(aiProvider)
	interviewCoach := coach.New(instrumented, promptManager, logger)

	sessions := interview.NewSessions(func() *interview.Controller {
		return interview.NewController(interview.Dependencies{
			Store:       interviewStore,
			Generator:   interviewCoach,
			Evaluator:   interviewCoach,
			Summarizer:  interviewCoach,
			Notifier:    notifier,
			Logger:      logger,
			CallTimeout: cfg.CallTimeout,
		})
	})

	evaluations := feedback.NewEvaluationCache(cfg.EvaluationCacheTTL)
	defer evaluations.Stop()

	exporterJob := jobs.NewReportExporterJob(interviewStore, &jobs.ExporterConfig{
		Schedule:      cfg.Export.Schedule,
		ExportDir:     cfg.Export.Dir,
		ExportEnabled: cfg.Export.Enabled,
	}, logger)
	if err := exporterJob.Start(); err != nil {
		logger.Error("Failed to start report exporter job", zap.Error(err))
	}

	interviewHandler := handlers.NewInterviewHandler(sessions, interviewStore, evaluations, logger)
	analyticsHandler := handlers.NewAnalyticsHandler(interviewStore, logger)
	chatHandler := handlers.NewChatHandler(interviewCoach, logger)
	healthHandler := handlers.NewHealthHandler(aiProvider, promptManager, interviewStore, redisPing)

	router := chi.NewRouter()

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// a round trip may hold two sequential LLM calls (answer, then next question)
	requestTimeout := 2*cfg.CallTimeout + 10*time.Second
	router.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer,
		middleware.Timeout(requestTimeout), metrics.Middleware("mockmate"))

	registerRoutes(router, mmmiddleware.Authenticate(cfg.JWTSecret, logger),
		interviewHandler, analyticsHandler, chatHandler, healthHandler)

	serverAddr := ":" + cfg.Port

	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: requestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("MockMate service starting", zap.String("addr", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownChan

	logger.Info("MockMate service shutting down...")

	exporterJob.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Warn("Failed to close redis client", zap.Error(err))
		}
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Info("MockMate service exited")
}
