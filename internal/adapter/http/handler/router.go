package handler

import (
	"time"

	"transaction-ledger/internal/adapter/http/middleware"
	"transaction-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	Ledger           ports.LedgerService
	ExportSvc        ports.ExportService    // nil = exports answer 503
	TokenSvc         ports.TokenService     // nil = API unauthenticated
	IdempotencyCache ports.IdempotencyCache // nil = no batch replay protection
	RateLimiter      middleware.Limiter     // nil = rate limiting disabled
	RateLimit        middleware.RateLimitRule
	HealthCheckers   []ports.HealthChecker
	BatchLimit       int
	IdempotencyTTL   time.Duration
	MaxBodyBytes     int64
	Mode             string
	Logger           zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	if deps.Mode != "" {
		gin.SetMode(deps.Mode)
	}
	r := gin.New()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	if deps.MaxBodyBytes > 0 {
		r.Use(middleware.MaxBodySize(deps.MaxBodyBytes))
	}

	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	noop := func(c *gin.Context) { c.Next() }
	rl := noop
	if deps.RateLimiter != nil && deps.RateLimit.Limit > 0 {
		rl = middleware.RateLimiter(deps.RateLimiter, "ingest", deps.RateLimit, deps.Logger)
	}
	auth := noop
	if deps.TokenSvc != nil {
		auth = middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	}

	txHandler := NewTransactionHandler(deps.Ledger, deps.IdempotencyCache, deps.BatchLimit, deps.IdempotencyTTL, deps.Logger)
	accountHandler := NewAccountHandler(deps.Ledger)
	auditHandler := NewAuditHandler(deps.Ledger)
	exportHandler := NewExportHandler(deps.ExportSvc)

	v1 := r.Group("/api/v1", auth)
	{
		v1.POST("/transactions", rl, txHandler.Submit)

		v1.GET("/accounts", accountHandler.List)
		v1.GET("/accounts/:client", accountHandler.Get)

		v1.GET("/audit", auditHandler.List)
		v1.GET("/audit/verify", auditHandler.Verify)

		v1.POST("/exports", exportHandler.Create)
	}

	return r
}
