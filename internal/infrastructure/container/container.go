package container

import (
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/latidoapp/latido-backend/internal/config"
	"github.com/latidoapp/latido-backend/internal/delivery/http"
	"github.com/latidoapp/latido-backend/internal/delivery/http/handler"
	"github.com/latidoapp/latido-backend/internal/delivery/http/middleware"
	"github.com/latidoapp/latido-backend/internal/infrastructure/database"
	"github.com/latidoapp/latido-backend/internal/infrastructure/gemini"
	"github.com/latidoapp/latido-backend/internal/infrastructure/notifier"
	"github.com/latidoapp/latido-backend/internal/infrastructure/server"
	"github.com/latidoapp/latido-backend/internal/repository/postgres"
	"github.com/latidoapp/latido-backend/internal/usecase/affinity"
	"github.com/latidoapp/latido-backend/internal/usecase/auth"
	"github.com/latidoapp/latido-backend/internal/usecase/profile"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *slog.Logger
	DB     *sqlx.DB
	Redis  *redis.Client
	Server *server.Server
	Gemini *gemini.GeminiClient
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config, logger *slog.Logger) (*Container, error) {
	// Initialize database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize Redis
	redisClient, err := database.NewRedisClient(&cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	// Initialize Gemini client; match enrichment is optional
	var geminiClient *gemini.GeminiClient
	if cfg.GeminiAPIKey != "" {
		geminiClient, err = gemini.NewGeminiClient(cfg.GeminiAPIKey)
		if err != nil {
			logger.Warn("gemini client unavailable, match enrichment disabled", "error", err)
			geminiClient = nil
		}
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	profileRepo := postgres.NewProfileRepository(db)
	affinityRepo := postgres.NewAffinityRepository(db)

	// Initialize the notification sink
	affinityNotifier := notifier.NewRedisNotifier(redisClient, cfg.Redis.Channel)

	// Initialize use cases
	authUseCase := auth.NewAuthUseCase(
		userRepo,
		profileRepo,
		cfg.JWT.AccessSecret,
		cfg.JWT.AccessExpiryMin,
	)

	profileUseCase := profile.NewProfileUseCase(profileRepo)

	var enricher affinity.MatchEnricher
	if geminiClient != nil {
		enricher = geminiClient
	}
	affinityUseCase := affinity.NewAffinityUseCase(
		affinityRepo,
		profileRepo,
		affinityNotifier,
		enricher,
		logger,
	)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUseCase)
	profileHandler := handler.NewProfileHandler(profileUseCase)
	affinityHandler := handler.NewAffinityHandler(affinityUseCase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(authUseCase)

	// Initialize router
	router := http.NewRouter(
		authHandler,
		profileHandler,
		affinityHandler,
		authMiddleware,
	)

	// Setup routes
	ginRouter := router.Setup()

	// Initialize server
	srv := server.NewServer(&cfg.Server, ginRouter, logger)

	return &Container{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Redis:  redisClient,
		Server: srv,
		Gemini: geminiClient,
	}, nil
}

// Close closes all connections
func (c *Container) Close() error {
	if c.Gemini != nil {
		c.Gemini.Close()
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Warn("error closing redis", "error", err)
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	return nil
}
