package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AldairAG/PayGlobal/config"
	"github.com/AldairAG/PayGlobal/internal/database"
	"github.com/AldairAG/PayGlobal/internal/lock"
	"github.com/AldairAG/PayGlobal/internal/repository"
	"github.com/AldairAG/PayGlobal/internal/router"
	"github.com/AldairAG/PayGlobal/internal/scheduler"
	"github.com/AldairAG/PayGlobal/internal/service"
	"github.com/AldairAG/PayGlobal/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	zl, closeLog, err := logger.New(&cfg.Log)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer closeLog()

	plan, err := service.PlanFromConfig(&cfg.Compensation)
	if err != nil {
		zl.Fatal("compensation plan", zap.Error(err))
	}

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		zl.Fatal("database", zap.Error(err))
	}
	if err := database.AutoMigrate(db); err != nil {
		zl.Fatal("migrate", zap.Error(err))
	}

	var locker lock.Locker = lock.NewLocal()
	if cfg.Redis.Addr != "" {
		rdb, err := database.NewRedis(&cfg.Redis)
		if err != nil {
			zl.Fatal("redis", zap.Error(err))
		}
		defer rdb.Close()
		locker = lock.NewRedis(rdb)
		zl.Info("batch lock shared through redis", zap.String("addr", cfg.Redis.Addr))
	}

	store := repository.NewStore(db)
	commissions := service.NewCommissionService(store, plan, zl.Named("commissions"))
	passiveIncome := service.NewPassiveIncomeBatch(store, plan, commissions, locker, cfg.Redis.LockTTL, zl.Named("passive_income"))
	rankAssignment := service.NewRankAssignmentBatch(store, plan, locker, cfg.Redis.LockTTL, zl.Named("rank_assignment"))

	engine := router.Setup(cfg, db, router.Services{
		Users:          service.NewUserService(store, zl.Named("users")),
		Network:        service.NewNetworkService(store, plan),
		Licenses:       service.NewLicenseService(store, plan, commissions, zl.Named("licenses")),
		Wallets:        service.NewWalletService(store, zl.Named("wallets")),
		Journal:        service.NewJournalService(store, zl.Named("journal")),
		PassiveIncome:  passiveIncome,
		RankAssignment: rankAssignment,
	}, zl)

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched, err = scheduler.New(&cfg.Scheduler, zl.Named("scheduler"), passiveIncome, rankAssignment)
		if err != nil {
			zl.Fatal("scheduler", zap.Error(err))
		}
		sched.Start()
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		zl.Info("server listening", zap.String("port", cfg.Server.Port), zap.String("env", cfg.Server.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("listen", zap.Error(err))
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zl.Info("shutting down")

	if sched != nil {
		if err := sched.Stop(); err != nil {
			zl.Error("scheduler shutdown", zap.Error(err))
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zl.Error("server shutdown", zap.Error(err))
	}
	zl.Info("server stopped")
}
