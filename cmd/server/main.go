package main

import (
	"context"
	"fmt"
	"log"
	"time"

	httpadapter "shopeelife/internal/adapter/http"
	"shopeelife/internal/adapter/identity/jwtauth"
	metricsinmem "shopeelife/internal/adapter/metrics/inmemory"
	"shopeelife/internal/adapter/metrics/multi"
	"shopeelife/internal/adapter/metrics/prom"
	gormrepo "shopeelife/internal/adapter/repo/gorm"
	"shopeelife/internal/adapter/repo/memory"
	sqliterepo "shopeelife/internal/adapter/repo/sqlite"
	"shopeelife/internal/app/game"
	"shopeelife/internal/app/ports"
	"shopeelife/internal/config"
	"shopeelife/internal/logging"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(logging.Config{Level: cfg.LogLevel, Encoding: cfg.LogEncoding})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	store, tx, closeStore, err := buildStore(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("progress store", zap.String("store", cfg.ProgressStore), zap.Error(err))
	}
	defer closeStore()

	identity, err := buildIdentity(cfg, logger)
	if err != nil {
		logger.Fatal("identity provider", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	kpiRecorder := metricsinmem.NewRecorder()
	metrics := multi.New(kpiRecorder, prom.NewRecorder(reg))

	svc := game.NewService(store, metrics, logger, gameConfig(cfg))
	svc.Tx = tx

	h := httpadapter.Handler{
		Game:     svc,
		Identity: identity,
		KPI:      kpiRecorder,
		Metrics:  reg,
	}

	s := server.Default(server.WithHostPorts(cfg.HTTPAddr))
	h.RegisterRoutes(s)
	s.OnShutdown = append(s.OnShutdown, func(ctx context.Context) {
		if err := svc.Shutdown(ctx); err != nil {
			logger.Error("flush sessions on shutdown", zap.Error(err))
		}
	})

	logger.Info("shopeelife server listening",
		zap.String("addr", cfg.HTTPAddr),
		zap.String("progress_store", cfg.ProgressStore),
	)
	s.Spin()
}

func gameConfig(cfg config.Config) game.Config {
	gc := game.DefaultConfig()
	gc.Session.Clock = cfg.ClockConfig()
	gc.ClockTick = cfg.ClockTick
	gc.ActivityTick = cfg.ActivityTick
	gc.SaveDebounce = cfg.SaveDebounce
	return gc
}

func buildStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (ports.ProgressStore, ports.TxManager, func(), error) {
	switch cfg.ProgressStore {
	case config.StorePostgres:
		if err := gormrepo.ApplyMigrations(cfg.DBDSN, logger.Named("migrate")); err != nil {
			return nil, nil, nil, err
		}
		db, err := gormrepo.OpenPostgres(cfg.DBDSN)
		if err != nil {
			return nil, nil, nil, err
		}
		closeFn := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return gormrepo.NewProgressRepo(db), gormrepo.NewTxManager(db), closeFn, nil
	case config.StoreSQLite:
		openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		db, err := sqliterepo.Open(openCtx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, nil, err
		}
		return sqliterepo.NewProgressRepo(db), ports.NoTx{}, func() { _ = db.Close() }, nil
	case config.StoreMemory:
		logger.Warn("using in-memory progress store; progress is lost on restart")
		store := memory.NewStore()
		return memory.NewProgressRepo(store), memory.NewTxManager(store), func() {}, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown progress store %q", cfg.ProgressStore)
	}
}

func buildIdentity(cfg config.Config, logger *zap.Logger) (ports.IdentityProvider, error) {
	if cfg.JWTSecret == "" {
		logger.Warn("no JWT secret configured; trusting the X-User-ID header")
		return jwtauth.HeaderProvider{}, nil
	}
	provider, err := jwtauth.New(cfg.JWTSecret, logger)
	if err != nil {
		return nil, err
	}
	provider.AllowHeader = cfg.AllowHeaderIdentity
	return provider, nil
}
