package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coursemarket/internal/api"
	"coursemarket/internal/auth"
	"coursemarket/internal/config"
	"coursemarket/internal/db"
	"coursemarket/internal/ledger"
	"coursemarket/internal/logger"
	"coursemarket/internal/metrics"
	"coursemarket/internal/middleware"
	"coursemarket/internal/repository/postgres"
	"coursemarket/internal/services"
	"coursemarket/internal/worker"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if os.Getenv("APP_MIGRATE") == "true" {
		if err := db.RunMigrations(ctx, pool); err != nil {
			log.Error("migrations", "err", err)
			os.Exit(1)
		}
	}

	rdb, err := db.NewRedis(ctx, cfg.RedisAddr)
	if err != nil {
		log.Error("redis connect", "err", err)
		os.Exit(1)
	}
	defer rdb.Close()

	repos := postgres.NewRepositories(pool, rdb)
	wp := worker.NewPool(4)
	defer wp.Stop()

	gateway := ledger.NewClient(cfg.LedgerURL, cfg.LedgerTimeout)

	catalogSvc := services.NewCatalogService(repos.Courses)
	enrollSvc := services.NewEnrollmentService(repos.Courses, repos.AuditLogs, wp)
	purchaseSvc := services.NewPurchaseService(repos.Users, repos.Courses, repos.Transactions, repos.AuditLogs, gateway, wp)
	userSvc := services.NewUserService(repos.Users)

	tm := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer)
	am := middleware.NewAuthMiddleware(tm, cfg.Env)

	metrics.Init()
	r := api.NewRouter(cfg, catalogSvc, enrollSvc, purchaseSvc, userSvc, am)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "ledger", cfg.LedgerURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
