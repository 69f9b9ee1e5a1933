package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"homefinder/internal/collector"
	"homefinder/internal/config"
	"homefinder/internal/handler"
	"homefinder/internal/logger"
	"homefinder/internal/repository"
	"homefinder/internal/retry"
	"homefinder/internal/service"
	"homefinder/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer func() { _ = log.Sync() }()

	log.Info("AI Home Finder",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit))

	gin.SetMode(cfg.Server.GinMode)

	// Preference hand-off store
	store := repository.NewPreferenceStore(repository.NewRedisClient(cfg.Redis), cfg.Preferences.TTL)
	defer store.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := store.Ping(pingCtx); err != nil {
		log.Warn("Redis is not reachable yet; preference submissions will fail until it is",
			zap.String("addr", cfg.Redis.Address), zap.Error(err))
	} else {
		log.Info("Connected to Redis", zap.String("addr", cfg.Redis.Address))
	}
	cancel()

	// Optional run log
	var runLog service.RunLogger
	if cfg.PostgreSQL.Enabled {
		repo, err := repository.NewPostgresRepository(
			cfg.GetPostgreSQLDSN(),
			cfg.PostgreSQL.MaxConnections,
			cfg.PostgreSQL.MaxIdleConnections,
		)
		if err != nil {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer repo.Close()

		migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := repo.Migrate(migrateCtx); err != nil {
			cancel()
			log.Fatal("Failed to migrate run log schema", zap.Error(err))
		}
		cancel()

		runLog = repo
		log.Info("Connected to PostgreSQL run log")
	} else {
		log.Info("PostgreSQL is not configured - runs and feedback will not be persisted")
	}

	// Recommendation pipeline
	opts := service.RecommenderOptions{
		Retry: retry.Policy{
			MaxAttempts: cfg.Retry.MaxAttempts,
			BaseDelay:   cfg.Retry.BaseDelay,
		},
		ExtractMode: utils.ParseExtractMode(cfg.Pipeline.ExtractMode),
	}
	recommender := service.NewGeminiRecommender(cfg.Gemini, opts, log)
	if err := recommender.Ready(); err != nil {
		log.Warn("Gemini is not usable - every recommendation request will report it",
			zap.Error(err))
		log.Warn("Set GEMINI_API_KEY to enable recommendations")
	} else {
		log.Info("Gemini client initialized",
			zap.String("api_base", cfg.Gemini.APIBase),
			zap.String("model", cfg.Gemini.Model),
			zap.Float64("temperature", cfg.Gemini.Temperature),
			zap.Int("max_output_tokens", cfg.Gemini.MaxOutputTokens),
			zap.Int("max_attempts", cfg.Retry.MaxAttempts),
			zap.Duration("base_delay", cfg.Retry.BaseDelay),
			zap.String("extract_mode", cfg.Pipeline.ExtractMode))
	}

	recommendationService := service.NewRecommendationService(
		store,
		recommender,
		runLog,
		cfg.Pipeline.RequestTimeout,
		log,
	)

	// Initialize handlers
	session := handler.Session{
		CookieName: cfg.Preferences.CookieName,
		MaxAge:     int(cfg.Preferences.TTL.Seconds()),
		Secure:     cfg.Preferences.CookieSecure,
	}
	preferencesHandler := handler.NewPreferencesHandler(collector.New(store, log), store, session, log)
	recommendationHandler := handler.NewRecommendationHandler(recommendationService, session, log)
	feedbackHandler := handler.NewFeedbackHandler(recommendationService)

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery(), handler.RequestLogger(log))

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = splitList(cfg.Server.AllowedOrigins)
	corsConfig.AllowMethods = splitList(cfg.Server.AllowedMethods)
	corsConfig.AllowHeaders = splitList(cfg.Server.AllowedHeaders)
	if !slices.Contains(corsConfig.AllowOrigins, "*") {
		corsConfig.AllowCredentials = true
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		redisStatus := "ok"
		if err := store.Ping(c.Request.Context()); err != nil {
			redisStatus = "unavailable"
		}
		geminiStatus := "ok"
		if err := recommender.Ready(); err != nil {
			geminiStatus = "not configured"
		}
		c.JSON(http.StatusOK, gin.H{
			"status":     "healthy",
			"service":    "ai-home-finder",
			"redis":      redisStatus,
			"gemini":     geminiStatus,
			"run_log":    recommendationService.RunLogEnabled(),
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// Version endpoint
	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	apiV1 := router.Group("/api/v1")
	{
		// Preference form
		apiV1.GET("/catalog", preferencesHandler.Catalog)
		apiV1.GET("/preferences", preferencesHandler.Get)
		apiV1.POST("/preferences", preferencesHandler.Submit)

		// Results
		apiV1.POST("/recommendations", recommendationHandler.Recommend)
		apiV1.POST("/recommendations/stream", recommendationHandler.RecommendStream)

		// Feedback endpoint
		apiV1.POST("/feedback", feedbackHandler.Submit)
	}

	setupStaticFiles(router, cfg.Server.StaticDir, log)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Starting server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shut down", zap.Error(err))
	}
	log.Info("Server stopped")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
