// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	router "tradeadmin/internal/api"
	"tradeadmin/internal/api/handler"
	"tradeadmin/internal/config"
	"tradeadmin/internal/notifier"
	"tradeadmin/internal/rates"
	"tradeadmin/internal/repository"
	"tradeadmin/internal/repository/postgres"
	"tradeadmin/internal/service"
	"tradeadmin/internal/util"
	"tradeadmin/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB

	// Repositories
	UserRepository        repository.UserRepository
	TradingPlanRepository repository.TradingPlanRepository
	WalletRepository      repository.WalletRepository
	TransactionRepository repository.TransactionRepository

	// Collaborators
	RateProvider rates.Provider
	Notifier     notifier.Notifier

	// Services
	LedgerService service.LedgerService

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Initialize Logger (first, so initialization failures are loggable)
	util.InitLogger()
	app.Logger = util.GetLogger()

	// 2. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg
	app.Logger.Info("Application configuration loaded successfully.")

	// 3. Connect to Database
	database, err := db.NewPostgresDB(app.Config.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.")

	// 4. Initialize Repositories
	app.UserRepository = postgres.NewUserRepository(app.DB)
	app.TradingPlanRepository = postgres.NewTradingPlanRepository(app.DB)
	app.WalletRepository = postgres.NewWalletRepository(app.DB)
	app.TransactionRepository = postgres.NewTransactionRepository(app.DB)
	app.Logger.Info("Repositories initialized.")

	// 5. Initialize Collaborators
	app.RateProvider = rates.NewStaticProvider()
	if app.Config.EmailEnabled {
		app.Notifier = notifier.NewSMTPNotifier(app.Config.SMTP)
	} else {
		app.Notifier = notifier.NewLogNotifier(app.Logger)
	}

	// 6. Initialize Services
	// Pass the concrete db.BeginTx, db.CommitTx, db.RollbackTx functions from pkg/db
	app.LedgerService = service.NewLedgerService(
		app.DB, // This is the DBTxBeginner
		app.DB, // This is the DBExecutor
		app.UserRepository,
		app.TradingPlanRepository,
		app.WalletRepository,
		app.TransactionRepository,
		app.RateProvider,
		app.Notifier,
		app.Logger,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.Logger.Info("Services initialized.")

	// 7. Initialize HTTP Handlers and Router
	adjustmentHandler := handler.NewAdjustmentHandler(app.LedgerService, app.Logger)
	app.HTTPHandler = router.NewRouter(adjustmentHandler, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
