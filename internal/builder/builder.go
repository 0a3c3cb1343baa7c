package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/homereno/journey-backend/internal/api"
	chatapi "github.com/homereno/journey-backend/internal/api/chat"
	journeyapi "github.com/homereno/journey-backend/internal/api/journey"
	sessionapi "github.com/homereno/journey-backend/internal/api/session"
	userapi "github.com/homereno/journey-backend/internal/api/user"
	"github.com/homereno/journey-backend/internal/config"
	"github.com/homereno/journey-backend/internal/integration/llm"
	"github.com/homereno/journey-backend/internal/pkg/formatter"
	"github.com/homereno/journey-backend/internal/pkg/validator"
	"github.com/homereno/journey-backend/internal/repository"
	"github.com/homereno/journey-backend/internal/usecase/chat"
	journeyuc "github.com/homereno/journey-backend/internal/usecase/journey"
	"github.com/homereno/journey-backend/internal/usecase/milestone"
	sessionuc "github.com/homereno/journey-backend/internal/usecase/session"
	useruc "github.com/homereno/journey-backend/internal/usecase/user"
)

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	// Setup database connection
	db, err := setupDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}

	// Run database migrations
	logger.Info("Running database migrations")
	if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize repositories
	userRepo := repository.NewUserPostgres(db)
	journeyRepo := repository.NewJourneyPostgres(db)
	messageRepo := repository.NewMessagePostgres(db)
	logger.Info("Repositories initialized")

	// Initialize the LLM connector (with mock support)
	var llmConnector chat.LLMConnector
	if cfg.EnableMocks {
		logger.Info("Using mock connector for the LLM service")
		llmConnector = llm.NewMockConnector(logger)
	} else {
		logger.Info("Using real connector for the LLM service")
		llmConnector = llm.NewConnector(cfg.LLMConnectorCfg, logger)
	}

	// Initialize validators
	reqValidator := validator.NewValidator()
	logger.Info("Validators initialized")

	// Initialize use cases
	evaluator := milestone.NewEvaluator(journeyRepo)
	sentinel := chat.NewSentinel(llmConnector, journeyRepo, evaluator)
	formatters := formatter.NewFactory()

	chatUC := chat.NewUsecase(
		userRepo,
		journeyRepo,
		messageRepo,
		llmConnector,
		sentinel,
		evaluator,
	)
	journeyUC := journeyuc.NewUsecase(journeyRepo, userRepo, evaluator, formatters)
	sessionUC := sessionuc.NewUsecase(userRepo, journeyRepo, messageRepo)
	userUC := useruc.NewUsecase(userRepo, sessionUC)
	logger.Info("Use cases initialized")

	// Setup API handlers
	userHandler := userapi.NewHandler(userUC)
	journeyHandler := journeyapi.NewHandler(journeyUC, reqValidator)
	chatHandler := chatapi.NewHandler(chatUC, reqValidator)
	sessionHandler := sessionapi.NewHandler(sessionUC, reqValidator)
	logger.Info("API handlers initialized")

	// Setup router
	router := api.SetupRouter(userHandler, journeyHandler, chatHandler, sessionHandler, logger)
	logger.Info("HTTP router configured")

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		db:     db,
		logger: logger,
	}, nil
}
