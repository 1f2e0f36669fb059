package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"reviewdeck/database"
	"reviewdeck/internal/config"
	"reviewdeck/internal/handler"
	"reviewdeck/internal/middleware"
	"reviewdeck/internal/repository"
	"reviewdeck/internal/service"
	"reviewdeck/internal/session"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg, logger)
	if err != nil {
		log.Fatalf("could not connect to redis: %v", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	reviewRepo := repository.NewReviewRepository(db, cfg.CanonicalTitles)

	// Services
	guard := service.NewGuard(reviewRepo)
	userService := service.NewUserService(userRepo, cfg.BcryptCost)
	reviewService := service.NewReviewService(reviewRepo, guard, redisClient, cfg.CacheTTL, logger)

	// Sessions
	sessionStore := session.NewRedisStore(redisClient, cfg.SessionTTL)
	cookieCodec := session.NewCookieCodec(cfg.SessionSecret, cfg.SessionTTL)

	// Handlers
	authHandler := handler.NewAuthHandler(userService, sessionStore, cookieCodec)
	reviewHandler := handler.NewReviewHandler(reviewService)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(middleware.Session(sessionStore, cookieCodec))

	r.GET("/", reviewHandler.Index)
	r.GET("/collection", reviewHandler.Collection)

	authRoutes := r.Group("/auth")
	authRoutes.Use(middleware.RateLimit(rate.Limit(cfg.LoginRate), cfg.LoginBurst))
	authHandler.RegisterRoutes(authRoutes)

	reviewHandler.RegisterRoutes(r.Group("/reviews"))

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("server starting", "addr", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
