package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/HIMASAKTA-DEV/project-wizard/internal/api"
	historyapi "github.com/HIMASAKTA-DEV/project-wizard/internal/api/history"
	interviewapi "github.com/HIMASAKTA-DEV/project-wizard/internal/api/interview"
	"github.com/HIMASAKTA-DEV/project-wizard/internal/config"
	"github.com/HIMASAKTA-DEV/project-wizard/internal/integration/modelgw"
	"github.com/HIMASAKTA-DEV/project-wizard/internal/integration/telegram"
	"github.com/HIMASAKTA-DEV/project-wizard/internal/integration/webhook"
	"github.com/HIMASAKTA-DEV/project-wizard/internal/pkg/formatter"
	"github.com/HIMASAKTA-DEV/project-wizard/internal/pkg/validator"
	"github.com/HIMASAKTA-DEV/project-wizard/internal/repository"
	"github.com/HIMASAKTA-DEV/project-wizard/internal/usecase/interview"
)

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	// History archive: Postgres when a database URL is configured,
	// otherwise the local JSON file.
	var db *pgxpool.Pool
	var archive repository.HistoryArchive
	if cfg.HistoryCfg.DatabaseURL != "" {
		db, err = setupDatabase(ctx, cfg.HistoryCfg, logger)
		if err != nil {
			return nil, fmt.Errorf("setup database: %w", err)
		}

		logger.Info("Running database migrations")
		if err := repository.RunMigrations(cfg.HistoryCfg.DatabaseURL); err != nil {
			db.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		logger.Info("Database migrations completed successfully")

		archive = repository.NewHistoryPostgres(db, cfg.HistoryCfg.Capacity)
	} else {
		archive, err = repository.NewHistoryFile(cfg.HistoryCfg.FilePath, cfg.HistoryCfg.Capacity, logger)
		if err != nil {
			return nil, fmt.Errorf("setup history file: %w", err)
		}
	}
	logger.Info("History archive initialized")

	// Model gateway (with mock support)
	var gateway interview.ModelGateway
	if cfg.EnableMocks {
		logger.Info("Using mock model gateway")
		gateway = modelgw.NewMockConnector(logger)
	} else {
		gateway = modelgw.NewConnector(cfg.ModelGatewayCfg, logger)
	}

	// Delivery sink
	delivery, err := setupDelivery(cfg, logger)
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, fmt.Errorf("setup delivery sink: %w", err)
	}

	interviewValidator := validator.NewInterviewValidator(cfg.InterviewCfg)

	wizardUC := interview.NewUsecase(
		cfg.InterviewCfg,
		gateway,
		archive,
		delivery,
		formatter.NewFactory(),
		logger,
	)
	if err := wizardUC.Restore(ctx); err != nil {
		if db != nil {
			db.Close()
		}
		return nil, fmt.Errorf("restore session identity: %w", err)
	}
	logger.Info("Use cases initialized")

	// Setup API handlers
	interviewHandler := interviewapi.NewHandler(wizardUC, interviewValidator)
	historyHandler := historyapi.NewHandler(wizardUC)
	logger.Info("API handlers initialized")

	router := api.SetupRouter(interviewHandler, historyHandler, logger)
	logger.Info("HTTP router configured")

	// No WriteTimeout: the answer endpoint streams its response, so the
	// router's Timeout middleware bounds requests instead.
	server := &http.Server{
		Addr:        cfg.ServerAddr,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
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

// setupDelivery wires the configured blueprint sink
func setupDelivery(cfg *config.Config, logger *zap.Logger) (interview.Delivery, error) {
	switch cfg.DeliverySink {
	case config.SinkWebhook:
		return webhook.NewConnector(cfg.WebhookCfg, logger), nil
	case config.SinkTelegram:
		return telegram.NewConnector(cfg.TelegramCfg, logger)
	case config.SinkNone:
		logger.Info("Delivery sink disabled")
		return noopDelivery{}, nil
	default:
		return nil, fmt.Errorf("unknown delivery sink: %s", cfg.DeliverySink)
	}
}

// noopDelivery drops everything; used when no sink is configured.
type noopDelivery struct{}

func (noopDelivery) SendMessage(context.Context, string) error { return nil }

func (noopDelivery) SendFile(context.Context, string, []byte, string) error { return nil }
