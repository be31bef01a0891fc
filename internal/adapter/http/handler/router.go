package handler

import (
	"ledger-gateway/internal/adapter/http/middleware"
	redisStore "ledger-gateway/internal/adapter/storage/redis"
	"ledger-gateway/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	Poster         ports.LedgerPoster
	Balances       ports.BalanceReader
	SaleSvc        ports.SaleService
	CashoutSvc     ports.CashoutService
	WalletSvc      ports.WalletReader
	Closer         ports.BatchCloser
	Auditor        ports.IntegrityAuditor
	Reconciler     ports.Reconciler
	Settlement     ports.SettlementEngine
	Reserve        ports.ReserveCalculator
	Exporter       ports.SnapshotExporter
	AuditRepo      ports.AuditRepository
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	JWTSecret      string
	JWTIssuer      string
	Currency       string
	ExportDir      string
	CutoffDays     int
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep: verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	jwtAuth := middleware.JWTAuth(deps.JWTSecret, deps.JWTIssuer, deps.Logger)
	adminOnly := middleware.RequireRole(middleware.RoleAdmin, middleware.RoleMaster)

	ledgerHandler := NewLedgerHandler(deps.Poster, deps.Balances)
	saleHandler := NewSaleHandler(deps.SaleSvc)
	cashoutHandler := NewCashoutHandler(deps.CashoutSvc)
	walletHandler := NewWalletHandler(deps.WalletSvc, deps.Currency)
	adminHandler := NewAdminHandler(
		deps.Closer, deps.Auditor, deps.Reconciler, deps.Settlement,
		deps.Reserve, deps.Exporter, deps.AuditRepo,
		deps.ExportDir, deps.CutoffDays,
	)

	// API v1 routes (all authenticated)
	v1 := r.Group("/api/v1", jwtAuth)

	// --- Raw ledger posting (trusted source systems only) ---
	ledger := v1.Group("/ledger", adminOnly)
	{
		ledger.POST("/batches", rl("ledger"), ledgerHandler.PostBatch)
	}

	// --- Balance reports ---
	balances := v1.Group("/balances")
	{
		balances.GET("/sellers/:seller_ref", rl("balances"), ledgerHandler.GetSellerBalances)
		balances.GET("/sellers/:seller_ref/accounts/:account", rl("balances"), ledgerHandler.GetSellerAccountBalance)
		balances.GET("/trial", rl("balances"), adminOnly, ledgerHandler.GetTrialBalance)
		balances.GET("/global", rl("balances"), adminOnly, ledgerHandler.GetGlobalBalance)
	}

	// --- Sales ---
	sales := v1.Group("/sales")
	{
		sales.POST("", rl("sales"), saleHandler.CreateSale)
	}

	// --- Cashouts ---
	cashouts := v1.Group("/cashouts")
	{
		cashouts.POST("", rl("cashouts"), cashoutHandler.CreateCashout)
		cashouts.GET("", rl("cashouts"), cashoutHandler.ListCashouts)
		cashouts.POST("/:id/decision", rl("cashouts"), adminOnly, cashoutHandler.DecideCashout)
	}

	// --- Wallets ---
	sellers := v1.Group("/sellers")
	{
		sellers.GET("/:seller_ref/wallet", rl("balances"), walletHandler.GetWallet)
	}

	// --- Admin batch jobs (role-gated, audited) ---
	admin := v1.Group("/admin", adminOnly, middleware.AdminAudit(deps.AuditRepo, deps.Logger))
	{
		admin.POST("/close", rl("admin"), adminHandler.CloseDay)
		admin.POST("/integrity-check", rl("admin"), adminHandler.RunIntegrityCheck)
		admin.POST("/reconcile", rl("admin"), adminHandler.ReconcileFile)
		admin.POST("/reconcile/remote", rl("admin"), adminHandler.ReconcileRemote)
		admin.POST("/settlements/d1", rl("admin"), adminHandler.SettleDayPlusOne)
		admin.POST("/settlements/d2", rl("admin"), adminHandler.SettleDayPlusTwo)
		admin.POST("/sweep", rl("admin"), adminHandler.SweepRetention)
		admin.POST("/exports", rl("admin"), adminHandler.ExportSnapshots)
		admin.GET("/audit-events", rl("admin"), adminHandler.ListAuditEvents)
	}

	return r
}
