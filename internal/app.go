// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	router "pocketledger/internal/api"
	"pocketledger/internal/api/handler"
	"pocketledger/internal/appstate"
	"pocketledger/internal/cache"
	"pocketledger/internal/config"
	"pocketledger/internal/domain"
	"pocketledger/internal/guard"
	"pocketledger/internal/repository/postgres"
	"pocketledger/internal/service"
	"pocketledger/internal/session"
	"pocketledger/internal/trigger"
	"pocketledger/internal/util"
	"pocketledger/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB
	Redis  redis.UniversalClient

	Auth *session.Authenticator

	// Services
	LedgerStore   *service.LedgerStore
	LedgerService *service.LedgerService

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{Logger: util.GetLogger()}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg

	// 2. Initialize Logger
	util.InitLogger(cfg.LogLevel)
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.")

	// 3. Connect to Database and apply the schema
	database, err := db.NewPostgresDB(app.Config.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	if err := postgres.Migrate(ctx, app.DB); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	app.Logger.Info("Database connection established.")

	// 4. Initialize Repositories and the balance trigger
	repos := service.Repositories{
		Wallets:    postgres.NewWalletRepository(),
		Expenses:   postgres.NewExpenseRepository(),
		Income:     postgres.NewIncomeRepository(),
		Transfers:  postgres.NewTransferRepository(),
		Categories: postgres.NewCategoryRepository(),
	}
	var triggerOpts []trigger.Option
	if cfg.Ledger.AllowOverdraw {
		triggerOpts = append(triggerOpts, trigger.AllowOverdraw())
	}
	balanceTrigger := trigger.New(repos.Wallets, triggerOpts...)
	app.Logger.Info("Repositories initialized.")

	// 5. Initialize Services
	// Pass the concrete db.BeginTx, db.CommitTx, db.RollbackTx functions from pkg/db
	app.LedgerStore = service.NewLedgerStore(
		app.DB, // This is the DBTxBeginner
		app.DB, // This is the DBExecutor
		repos,
		balanceTrigger,
		cfg.Ledger.RemoteTimeout,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)

	backend, err := app.cacheBackend(ctx)
	if err != nil {
		return err
	}
	balances := cache.NewBalanceCache(backend, app.LedgerStore)

	prefs, err := appstate.NewPreferences(cfg.Ledger.DefaultCurrency)
	if err != nil {
		return fmt.Errorf("failed to initialize preferences: %w", err)
	}

	app.LedgerService = service.NewLedgerService(
		app.LedgerStore,
		balances,
		guard.New(balances, cfg.Policy),
		prefs,
		cfg.Location,
	)
	app.Logger.Info("Services initialized.", "reconcile_policy", cfg.Policy, "cache_driver", cfg.Cache.Driver)

	// 6. Initialize HTTP Handlers and Router
	app.Auth = session.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	handlers := router.Handlers{
		Wallets:     handler.NewWalletHandler(app.LedgerService, cfg.AmountLimits, app.Logger),
		Expenses:    handler.NewEntryHandler(app.LedgerService, domain.KindExpense, cfg.AmountLimits, app.Logger),
		Income:      handler.NewEntryHandler(app.LedgerService, domain.KindIncome, cfg.AmountLimits, app.Logger),
		Transfers:   handler.NewTransferHandler(app.LedgerService, cfg.AmountLimits, app.Logger),
		Categories:  handler.NewCategoryHandler(app.LedgerService, app.Logger),
		Feed:        handler.NewFeedHandler(app.LedgerService, app.Logger),
		Preferences: handler.NewPreferencesHandler(app.LedgerService, app.Logger),
	}
	app.HTTPHandler = router.NewRouter(handlers, router.RouterOptions{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Authenticate:   app.Auth.Middleware,
	}, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// cacheBackend builds the balance cache storage selected by CACHE_DRIVER.
func (app *Application) cacheBackend(ctx context.Context) (cache.Backend, error) {
	if app.Config.Cache.Driver != config.CacheDriverRedis {
		return cache.NewMemoryBackend(), nil
	}

	app.Redis = cache.NewRedisClient(app.Config.Cache.RedisAddrs, app.Config.Cache.RedisPassword)
	if err := app.Redis.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	app.Logger.Info("Redis connection established.", "addrs", app.Config.Cache.RedisAddrs)
	return cache.NewRedisBackend(app.Redis, app.Config.Cache.TTL), nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.Redis != nil {
		if err := app.Redis.Close(); err != nil {
			app.Logger.Error("Failed to close redis connection", "error", err)
		} else {
			app.Logger.Info("Redis connection closed.")
		}
	}
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
