package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ledger-gateway/config"
	"ledger-gateway/internal/adapter/bank"
	"ledger-gateway/internal/adapter/events/kafka"
	httpHandler "ledger-gateway/internal/adapter/http/handler"
	pgStorage "ledger-gateway/internal/adapter/storage/postgres"
	redisStorage "ledger-gateway/internal/adapter/storage/redis"
	"ledger-gateway/internal/core/ports"
	"ledger-gateway/internal/service"
	"ledger-gateway/pkg/logger"

	"github.com/shopspring/decimal"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Payment Ledger Gateway")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("PLG_JWT_SECRET must be set")
	}

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	entryRepo := pgStorage.NewEntryRepo(pool)
	snapshotRepo := pgStorage.NewSnapshotRepo(pool)
	batchRepo := pgStorage.NewBatchRepo(pool)
	cashoutRepo := pgStorage.NewCashoutRepo(pool)
	walletRepo := pgStorage.NewWalletRepo(pool)
	policyRepo := pgStorage.NewPolicyRepo(pool)
	auditRepo := pgStorage.NewAuditRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	idempotencyCache := redisStorage.NewIdempotencyCache(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Event publisher (Kafka optional)
	var publisher ports.EventPublisher = kafka.NopPublisher{}
	if cfg.Kafka.Enabled {
		publisher = kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("Kafka publisher enabled")
	}
	defer publisher.Close() //nolint:errcheck

	// External bank feeds
	bankClient := bank.NewClient(cfg.Bank)

	// Initialize services
	reservePercent := decimal.NewFromFloat(cfg.Ledger.ReservePercent)
	threshold := decimal.NewFromFloat(cfg.Ledger.DivergenceThreshold)

	postingSvc := service.NewPostingService(entryRepo, batchRepo, idempotencyCache, publisher, transactor, log)
	balanceSvc := service.NewBalanceService(entryRepo)
	closingSvc := service.NewClosingService(entryRepo, snapshotRepo, batchRepo, publisher, transactor, log)
	auditSvc := service.NewAuditService(entryRepo, snapshotRepo, auditRepo, log)
	reconcileSvc := service.NewReconcileService(snapshotRepo, auditRepo, bankClient, threshold, log)
	settlementSvc := service.NewSettlementService(
		postingSvc, snapshotRepo, walletRepo, cashoutRepo, auditRepo,
		bankClient, transactor, cfg.Ledger.Currency, log,
	)
	reserveSvc := service.NewReserveService(policyRepo, walletRepo, transactor, reservePercent, log)
	riskEvaluator := service.NewThresholdRiskEvaluator(
		decimal.NewFromInt(1000), decimal.NewFromInt(10000),
	)
	saleSvc := service.NewSaleService(
		postingSvc, reserveSvc, riskEvaluator, walletRepo, transactor,
		cfg.Ledger.Currency, log,
	)
	cashoutSvc := service.NewCashoutService(cashoutRepo, walletRepo, transactor, log)
	walletSvc := service.NewWalletService(walletRepo)
	exportSvc := service.NewExportService(snapshotRepo, auditRepo, log)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		Poster:         postingSvc,
		Balances:       balanceSvc,
		SaleSvc:        saleSvc,
		CashoutSvc:     cashoutSvc,
		WalletSvc:      walletSvc,
		Closer:         closingSvc,
		Auditor:        auditSvc,
		Reconciler:     reconcileSvc,
		Settlement:     settlementSvc,
		Reserve:        reserveSvc,
		Exporter:       exportSvc,
		AuditRepo:      auditRepo,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		JWTSecret:      cfg.JWT.Secret,
		JWTIssuer:      cfg.JWT.Issuer,
		Currency:       cfg.Ledger.Currency,
		ExportDir:      cfg.Ledger.ExportDir,
		CutoffDays:     cfg.Ledger.SettlementCutoffDays,
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
