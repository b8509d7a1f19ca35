package router

import (
	"net/http"
	"time"

	"github.com/AldairAG/PayGlobal/config"
	"github.com/AldairAG/PayGlobal/internal/domain"
	"github.com/AldairAG/PayGlobal/internal/handler"
	"github.com/AldairAG/PayGlobal/internal/metrics"
	"github.com/AldairAG/PayGlobal/internal/middleware"
	"github.com/AldairAG/PayGlobal/internal/repository"
	"github.com/AldairAG/PayGlobal/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services are the application services the HTTP surface exposes.
type Services struct {
	Users          *service.UserService
	Network        *service.NetworkService
	Licenses       *service.LicenseService
	Wallets        *service.WalletService
	Journal        *service.JournalService
	PassiveIncome  handler.Batch
	RankAssignment handler.Batch
}

func Setup(cfg *config.Config, db *gorm.DB, svc Services, log *zap.Logger) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(log))
	if cfg.Server.RateLimit > 0 {
		r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(cfg.Server.RateLimit, cfg.Server.RateWindow)))
	}

	auditor := handler.NewAuditor(repository.NewAuditLogRepository(db), log)

	// Manual batch runs use the same calendar as the scheduler.
	loc, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		log.Warn("unknown scheduler timezone, admin batch dates use UTC", zap.String("timezone", cfg.Scheduler.Timezone), zap.Error(err))
		loc = time.UTC
	}

	// Handlers
	userHandler := handler.NewUserHandler(svc.Users)
	referralHandler := handler.NewReferralHandler(svc.Network)
	licenseHandler := handler.NewLicenseHandler(svc.Licenses)
	walletHandler := handler.NewWalletHandler(svc.Wallets)
	withdrawalHandler := handler.NewWithdrawalHandler(svc.Wallets, auditor, log)
	transactionHandler := handler.NewTransactionHandler(svc.Journal, auditor)
	adminHandler := handler.NewAdminHandler(map[string]handler.Batch{
		domain.BatchPassiveIncome:  svc.PassiveIncome,
		domain.BatchRankAssignment: svc.RankAssignment,
	}, repository.NewBatchRunRepository(db), auditor, loc, log)

	operatorMw := middleware.OperatorRequired(&cfg.Auth)

	r.GET("/healthz", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api/v1")
	{
		api.POST("/users", userHandler.Register)

		users := api.Group("/users/:username")
		{
			users.GET("", userHandler.Get)
			users.PATCH("/referrer", userHandler.ChangeReferrer)
			users.GET("/network", referralHandler.GetNetwork)
			users.GET("/upline", referralHandler.GetUpline)
			users.GET("/downline", referralHandler.GetDownline)
			users.GET("/wallets", walletHandler.GetBalances)
			users.POST("/licenses", licenseHandler.Purchase)
			users.POST("/licenses/delegated", licenseHandler.PurchaseDelegated)
			users.POST("/transfers", walletHandler.Transfer)
			users.POST("/withdrawals", withdrawalHandler.Create)
			users.GET("/transactions", transactionHandler.List)
			users.GET("/earnings", transactionHandler.Earnings)
		}

		ops := api.Group("")
		ops.Use(operatorMw)
		{
			ops.POST("/withdrawals/:reference/approve", withdrawalHandler.Approve)
			ops.POST("/withdrawals/:reference/reject", withdrawalHandler.Reject)
			ops.PATCH("/transactions/:reference/status", transactionHandler.UpdateStatus)
			ops.POST("/admin/batches/:name/run", adminHandler.RunBatch)
			ops.GET("/admin/batches/:name/runs/:date", adminHandler.GetRun)
			ops.GET("/admin/audit-logs", auditor.List)
		}
	}

	return r
}
