// File: app/app.go
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go-bank-ledger/config"
	"go-bank-ledger/db"
	_ "go-bank-ledger/docs"
	"go-bank-ledger/handler"
	"go-bank-ledger/logger"
	"go-bank-ledger/repository"
	"go-bank-ledger/repository/memory"
	"go-bank-ledger/router"
	"go-bank-ledger/service"

	"github.com/redis/go-redis/v9"
)

// Dependencies are the storage handles and settings New wires together.
// DB and Redis are optional; without Redis there is no account cache and
// Idempotency-Key headers are ignored.
type Dependencies struct {
	Store          repository.Store
	Users          repository.IUserRepository
	DB             *sql.DB
	Redis          *redis.Client
	JWTSecret      string
	JWTTTL         time.Duration
	Ledger         service.AccountOptions
	IdempotencyTTL time.Duration
	// RequestsPerSecond <= 0 disables rate limiting on /register and /login.
	RequestsPerSecond float64
	Burst             int
}

// App is the fully wired application.
type App struct {
	Router       http.Handler
	DB           *sql.DB
	Redis        *redis.Client
	Users        *service.UserService
	Auth         *service.AuthService
	Accounts     *service.AccountService
	Transactions *service.TransactionService
	// RateLimiter is nil when rate limiting is disabled.
	RateLimiter *handler.RateLimiter
}

func New(deps Dependencies) *App {
	var cache service.ICacheClient
	if deps.Redis != nil {
		cache = deps.Redis
	}
	var pinger handler.Pinger
	if deps.DB != nil {
		pinger = deps.DB
	}

	authService := service.NewAuthService(deps.Users, deps.JWTSecret, deps.JWTTTL)
	userService := service.NewUserService(deps.Users, authService)
	accountService := service.NewAccountService(deps.Store, deps.Users, cache, deps.Ledger)
	transactionService := service.NewTransactionService(deps.Store, cache)
	policy := service.NewAccessPolicy()

	var idempotency *service.IdempotencyStore
	if cache != nil {
		idempotency = service.NewIdempotencyStore(cache, deps.IdempotencyTTL)
	}
	var limiter *handler.RateLimiter
	if deps.RequestsPerSecond > 0 {
		limiter = handler.NewRateLimiter(deps.RequestsPerSecond, deps.Burst)
	}

	r := router.NewRouter(router.Handlers{
		Users:        handler.NewUserHandler(userService, authService, accountService, policy),
		Accounts:     handler.NewAccountHandler(accountService, policy),
		Transactions: handler.NewTransactionHandler(transactionService, accountService, policy, idempotency),
		Health:       handler.NewHealthHandler(pinger),
		Tokens:       authService,
		Policy:       policy,
		RateLimiter:  limiter,
	})

	return &App{
		Router:       r,
		DB:           deps.DB,
		Redis:        deps.Redis,
		Users:        userService,
		Auth:         authService,
		Accounts:     accountService,
		Transactions: transactionService,
		RateLimiter:  limiter,
	}
}

// NewTestApp wires the application over the in-memory store. rdb may be nil.
func NewTestApp(rdb *redis.Client) *App {
	return New(Dependencies{
		Store:          memory.New(),
		Users:          memory.NewUserRepository(),
		Redis:          rdb,
		JWTSecret:      "test-secret",
		JWTTTL:         time.Hour,
		Ledger:         service.DefaultAccountOptions(),
		IdempotencyTTL: time.Hour,
	})
}

// ErrWeakBootstrapPassword is returned by SeedAdmin for passwords shorter than eight characters.
var ErrWeakBootstrapPassword = errors.New("bootstrap admin password must be at least 8 characters")

// SeedAdmin creates the bootstrap administrator unless the username is already taken.
// It is the only way to obtain the first ADMIN; /register always creates customers.
func (a *App) SeedAdmin(ctx context.Context, username, email, password string) error {
	if len(password) < 8 {
		return ErrWeakBootstrapPassword
	}
	user, created, err := a.Users.EnsureAdmin(ctx, username, email, password)
	if err != nil {
		return err
	}
	if created {
		logger.Log.WithField("user_id", user.ID).Info("Bootstrap admin created")
	}
	return nil
}

// openStorage selects the store named by storage.driver.
func openStorage(ctx context.Context, cfg config.Config) (repository.Store, repository.IUserRepository, *sql.DB, error) {
	switch strings.ToLower(cfg.Storage.Driver) {
	case "memory":
		logger.Log.Warn("Using in-memory storage; data is lost on restart")
		return memory.New(), memory.NewUserRepository(), nil, nil
	case "postgres", "":
		database, err := db.Connect(ctx)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := db.Migrate(database, cfg.Database.Name); err != nil {
			database.Close()
			return nil, nil, nil, fmt.Errorf("migrate database: %w", err)
		}
		return repository.NewSQLStore(database), repository.NewUserRepository(database), database, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Configuration loaded successfully")

	cfg := config.AppConfig
	if cfg.JWT.SecretKey == "" {
		logger.Log.Fatal("jwt.secret_key must be set")
	}

	ctx := context.Background()
	store, users, database, err := openStorage(ctx, cfg)
	if err != nil {
		logger.Log.Fatalf("Error opening storage: %v", err)
	}
	if database != nil {
		defer database.Close()
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = db.ConnectRedis(ctx)
		if err != nil {
			logger.Log.Fatalf("Error connecting to redis: %v", err)
		}
		defer rdb.Close()
	}

	a := New(Dependencies{
		Store:     store,
		Users:     users,
		DB:        database,
		Redis:     rdb,
		JWTSecret: cfg.JWT.SecretKey,
		JWTTTL:    cfg.JWT.TTL,
		Ledger: service.AccountOptions{
			DefaultCurrency:     cfg.Ledger.DefaultCurrency,
			MaxAccountsPerOwner: cfg.Ledger.MaxAccountsPerOwner,
			NumberAttempts:      cfg.Ledger.AccountNumberAttempts,
			CacheTTL:            cfg.Ledger.AccountCacheTTL,
		},
		IdempotencyTTL:    cfg.Ledger.IdempotencyTTL,
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		Burst:             cfg.RateLimit.Burst,
	})

	if b := cfg.Bootstrap; b.AdminUsername != "" {
		if err := a.SeedAdmin(ctx, b.AdminUsername, b.AdminEmail, b.AdminPassword); err != nil {
			logger.Log.Fatalf("Error seeding bootstrap admin: %v", err)
		}
	}

	cleanupCtx, stopCleanup := context.WithCancel(ctx)
	defer stopCleanup()
	if a.RateLimiter != nil {
		a.RateLimiter.StartCleanup(cleanupCtx, time.Minute)
	}

	port := cfg.Server.Port
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")
	stopCleanup()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorf("Server forced to shutdown: %v", err)
		return
	}

	logger.Log.Info("Server exited properly")
}
