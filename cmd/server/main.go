package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-redis/redis/v8"
	"github.com/ruralpay/ledger/docs"
	"github.com/ruralpay/ledger/internal/audit"
	"github.com/ruralpay/ledger/internal/config"
	"github.com/ruralpay/ledger/internal/database"
	"github.com/ruralpay/ledger/internal/events"
	"github.com/ruralpay/ledger/internal/handlers"
	"github.com/ruralpay/ledger/internal/ledger"
	"github.com/ruralpay/ledger/internal/logger"
	mW "github.com/ruralpay/ledger/internal/middleware"
	"github.com/ruralpay/ledger/internal/services"
	"github.com/ruralpay/ledger/internal/store"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Ledger API
// @version 1.0
// @description Accounts, deposits, withdrawals and transfers over a double-entry ledger
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	configErr := config.Init(".env")

	cfg, err := config.LoadLedgerConfig()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if configErr != nil {
		log.Info("[CONFIG] using environment and defaults", "reason", configErr)
	}

	ctx := context.Background()

	st, closeStore := openStore(ctx, cfg, log)
	defer closeStore()

	redisClient := database.InitRedis(ctx, log)
	if redisClient != nil {
		defer redisClient.Close()
	}

	auditLogger := audit.NewLogger(log)
	ledgerService := ledger.NewService(st, cfg.AmountScale, publisherFor(redisClient, cfg.EventsKey), auditLogger, log)

	authService := services.NewAuthService(st, redisClient, log)
	accountService := services.NewAccountService(st, cfg.IBANPrefix, auditLogger, log)
	transactionHandler := handlers.NewTransactionHandler(ledgerService, log)
	auth := mW.NewAuth(redisClient, log)

	docs.SwaggerInfo.Host = "localhost:" + cfg.Port

	r := chi.NewRouter()

	r.Use(mW.SecurityHeaders)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		status, code := "healthy", http.StatusOK
		if err := st.Ping(r.Context()); err != nil {
			status, code = "unhealthy", http.StatusServiceUnavailable
		}
		services.WriteJSON(w, code, map[string]string{"status": status, "storage": cfg.StorageDriver})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", authService.Register)
		r.Post("/auth/login", authService.Login)
		r.Post("/auth/logout", authService.Logout)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/account", authService.GetUserAccount)

			r.Post("/accounts", accountService.CreateAccount)
			r.Get("/accounts", accountService.ListAccounts)
			r.Get("/accounts/{accountId}", accountService.GetAccount)
			r.Delete("/accounts/{accountId}", accountService.DeleteAccount)
			r.Get("/accounts/{accountId}/transactions", transactionHandler.ListTransactions)

			r.Post("/transactions", transactionHandler.CreateTransaction)
		})
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("[SERVER] starting", "addr", server.Addr, "storage", cfg.StorageDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("[SERVER] failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("[SERVER] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("[SERVER] forced to shutdown", "error", err)
		return
	}
	log.Info("[SERVER] stopped")
}

func openStore(ctx context.Context, cfg *config.LedgerConfig, log *logger.Logger) (store.Store, func()) {
	if cfg.StorageDriver == config.DriverMemory {
		log.Warn("[DATABASE] using in-memory storage, data is lost on restart")
		return store.NewMemory(), func() {}
	}

	db, err := database.InitDB(ctx, database.GetConfig())
	if err != nil {
		log.Fatal("[DATABASE] failed to initialize", "error", err)
	}
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal("[DATABASE] migration failed", "error", err)
	}
	log.Info("[DATABASE] connection established")

	return store.NewPostgres(db), func() { db.Close() }
}

func publisherFor(client *redis.Client, key string) ledger.Publisher {
	if client == nil {
		return nil
	}
	return events.NewRedisPublisher(client, key)
}
