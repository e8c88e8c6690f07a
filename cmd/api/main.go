package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mantasgo/portfolio-ledger/internal/config"
	"github.com/mantasgo/portfolio-ledger/internal/handler"
	"github.com/mantasgo/portfolio-ledger/internal/logging"
	"github.com/mantasgo/portfolio-ledger/internal/middleware"
	"github.com/mantasgo/portfolio-ledger/internal/repository"
	"github.com/mantasgo/portfolio-ledger/internal/service"
	"github.com/mantasgo/portfolio-ledger/internal/service/ledger"
	"github.com/mantasgo/portfolio-ledger/internal/service/report"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("portfolio-api", cfg.LogLevel, cfg.AppEnv)

	ctx := context.Background()
	db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := repository.RunMigrations(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	bankRepo := repository.NewBankRepository(db)
	dimensionRepo := repository.NewDimensionRepository(db)
	entryRepo := repository.NewEntryRepository(db)
	reportRepo := repository.NewReportRepository(db)

	userSvc := service.NewUserService(userRepo, profileRepo)
	bankSvc := service.NewBankService(bankRepo)
	dimensionSvc := service.NewDimensionService(dimensionRepo)
	ledgerSvc := ledger.NewService(entryRepo, bankRepo, dimensionRepo, db)
	reportSvc := report.NewService(reportRepo)

	jwtExpiry := time.Duration(cfg.JWTExpiryH) * time.Hour
	authHandler := handler.NewAuthHandler(userRepo, userSvc, cfg.JWTSecret, jwtExpiry)
	userHandler := handler.NewUserHandler(userSvc)
	bankHandler := handler.NewBankHandler(bankSvc, ledgerSvc)
	dimensionHandler := handler.NewDimensionHandler(dimensionSvc)
	entryHandler := handler.NewEntryHandler(ledgerSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	healthHandler := handler.NewHealthHandler(db)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", healthHandler.Liveness)
	mux.HandleFunc("GET /ready", healthHandler.Readiness)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)

	authed := middleware.Auth(cfg.JWTSecret)
	protected := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, authed(h))
	}

	protected("GET /api/v1/me", userHandler.Me)
	protected("GET /api/v1/me/profile", userHandler.GetProfile)
	protected("PUT /api/v1/me/profile/photo", userHandler.UpdatePhoto)

	protected("POST /api/v1/banks", bankHandler.Create)
	protected("GET /api/v1/banks", bankHandler.List)
	protected("GET /api/v1/banks/{id}", bankHandler.Get)
	protected("PATCH /api/v1/banks/{id}", bankHandler.Rename)
	protected("DELETE /api/v1/banks/{id}", bankHandler.Delete)
	protected("POST /api/v1/banks/{id}/transfer", bankHandler.TransferWithin)
	protected("POST /api/v1/transfers", bankHandler.TransferBetween)

	protected("POST /api/v1/{kind}/entries", entryHandler.Create)
	protected("GET /api/v1/{kind}/entries", entryHandler.List)
	protected("GET /api/v1/entries/{id}", entryHandler.Get)
	protected("PUT /api/v1/entries/{id}", entryHandler.Update)
	protected("DELETE /api/v1/entries/{id}", entryHandler.Delete)

	protected("POST /api/v1/{kind}/dimensions/{role}", dimensionHandler.Create)
	protected("GET /api/v1/{kind}/dimensions/{role}", dimensionHandler.List)
	protected("PATCH /api/v1/dimensions/{id}", dimensionHandler.Rename)
	protected("DELETE /api/v1/dimensions/{id}", dimensionHandler.Delete)

	protected("POST /api/v1/{kind}/search", reportHandler.Search)
	protected("POST /api/v1/{kind}/compare", reportHandler.Compare)
	protected("POST /api/v1/{kind}/report", reportHandler.Monthly)

	var root http.Handler = mux
	root = middleware.Recovery(root)
	root = middleware.Logging(root)
	root = middleware.Metrics(root)
	root = middleware.Tracing(root)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           root,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
