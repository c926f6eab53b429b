package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/AshapuriCRM/billing-engine/internal/application/service"
	"github.com/AshapuriCRM/billing-engine/internal/attendance"
	"github.com/AshapuriCRM/billing-engine/internal/config"
	"github.com/AshapuriCRM/billing-engine/internal/infrastructure/persistence/repository"
	"github.com/AshapuriCRM/billing-engine/internal/infrastructure/persistence/sqlite"
	apphttp "github.com/AshapuriCRM/billing-engine/internal/interfaces/http"
	"github.com/AshapuriCRM/billing-engine/pkg/database"
	"github.com/AshapuriCRM/billing-engine/pkg/utils"
)

func main() {
	// Load .env file if present
	_ = gotenv.Load()

	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting billing engine",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	// Ensure the database directory exists
	if dir := filepath.Dir(cfg.Database.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Fatal("Failed to create data directory", zap.Error(err))
		}
	}

	// Initialize database
	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize repositories
	companyRepo := repository.NewCompanyRepository(db.DB, logger)
	employeeRepo := repository.NewEmployeeRepository(db.DB, logger)
	invoiceRepo := repository.NewInvoiceRepository(db.DB, logger)
	mergedRepo := repository.NewMergedInvoiceRepository(db.DB, logger)
	txManager := sqlite.NewDB(db.DB, logger)

	// Initialize application services
	invoiceService := service.NewInvoiceService(companyRepo, employeeRepo, invoiceRepo, logger)
	mergeService := service.NewMergeService(invoiceRepo, mergedRepo, txManager, logger)
	companyService := service.NewCompanyService(companyRepo, employeeRepo, logger)

	sheetReader := attendance.NewSheetReader(logger)

	// Initialize HTTP server
	server := apphttp.NewServer(
		apphttp.ServerConfig{
			Host:         cfg.Server.Host,
			Port:         cfg.Server.Port,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		invoiceService,
		mergeService,
		companyService,
		sheetReader,
		cfg.DefaultRateConfig(),
		logger,
	)

	// Run until interrupted
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server error", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}
