package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	tenantshandler "github.com/uninotice/platform/domains/tenants/be/handler"
	tenantsrepo "github.com/uninotice/platform/domains/tenants/be/repo"
	tenantsservice "github.com/uninotice/platform/domains/tenants/be/service"
	platformlogging "github.com/uninotice/platform/platform/go/logging"
	platformmiddleware "github.com/uninotice/platform/platform/go/middleware"
	"github.com/uninotice/platform/platform/go/persistence"
)

type config struct {
	Port            string        `env:"PORT" envDefault:"3000"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	DatabaseURL     string        `env:"DATABASE_URL,required"`
	MigrateOnStart  bool          `env:"MIGRATE_ON_START" envDefault:"false"`
}

func main() {
	ctx := context.Background()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := platformlogging.NewLogger(platformlogging.Config{
		Component: "api-server",
		Level:     cfg.LogLevel,
	})
	if err != nil {
		log.Fatalf("init zap logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	pool, err := persistence.NewPool(ctx, persistence.PoolConfig{ConnString: cfg.DatabaseURL})
	if err != nil {
		logger.Fatal("init postgres pool", zap.Error(err))
	}
	defer persistence.ClosePool(pool)

	if cfg.MigrateOnStart {
		if err := persistence.ApplyCoreSchemaDDL(ctx, pool); err != nil {
			logger.Fatal("apply core schema", zap.Error(err))
		}
		logger.Info("core schema applied")
	}

	tenantStore, err := persistence.NewTenantStore(pool)
	if err != nil {
		logger.Fatal("init tenant store", zap.Error(err))
	}
	adminStore, err := persistence.NewAdminStore(pool)
	if err != nil {
		logger.Fatal("init admin store", zap.Error(err))
	}
	userStore, err := persistence.NewTenantUserStore(pool)
	if err != nil {
		logger.Fatal("init tenant user store", zap.Error(err))
	}
	announcementStore, err := persistence.NewAnnouncementStore(pool)
	if err != nil {
		logger.Fatal("init announcement store", zap.Error(err))
	}

	tenantRepo := tenantsrepo.NewPostgresRepository(tenantStore, adminStore, userStore, announcementStore)
	tenantService := tenantsservice.New(tenantRepo, logger)
	tenantHTTPHandler := tenantshandler.New(tenantService, logger)

	rootRouter := chi.NewRouter()

	rootRouter.Use(
		chimw.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		chimw.Timeout(cfg.RequestTimeout),
		platformmiddleware.DefaultCORS(),
	)

	rootRouter.Use(platformlogging.RequestLogger(logger))

	rootRouter.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	rootRouter.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := pool.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	rootRouter.Mount("/api/v1", tenantHTTPHandler.Routes())

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      rootRouter,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	go func() {
		logger.Info("starting api server", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server listen failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
