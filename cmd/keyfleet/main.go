// Package main is the entrypoint for the keyfleet API server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/keyfleet/keyfleet/internal/api"
	"github.com/keyfleet/keyfleet/internal/config"
	"github.com/keyfleet/keyfleet/internal/crypto"
	"github.com/keyfleet/keyfleet/internal/db"
	"github.com/keyfleet/keyfleet/internal/db/migrations"
	"github.com/keyfleet/keyfleet/internal/dbpool"
	"github.com/keyfleet/keyfleet/internal/service"
	"github.com/keyfleet/keyfleet/internal/store"
	"github.com/keyfleet/keyfleet/internal/ws"
)

// Build-time variables set via ldflags.
var version = "0.3.0"

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	log := initLogger(cfg)

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("server exited with error")
	}
}

func run(cfg *config.Config, log *logrus.Logger) error {
	// Root context cancelled on SIGINT/SIGTERM. Everything long-lived
	// (hub, audit worker, session cache, rate limiter) hangs off it.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cryptoSvc, err := crypto.NewService(cfg.EncryptionKey.Value())
	if err != nil {
		return err
	}

	pool, err := dbpool.NewPool(ctx, cfg.DatabaseURL.Value())
	if err != nil {
		return err
	}
	defer pool.Close()
	log.Info("connected to database")

	if err := db.RunMigrations(ctx, pool, log, migrations.FS); err != nil {
		return err
	}

	base := store.Base{Pool: pool, Log: log, Crypto: cryptoSvc}
	teamStore := store.NewTeamStore(base)
	userStore := store.NewUserStore(base)
	keyStore := store.NewKeyStore(base)
	regionStore := store.NewRegionStore(base)
	productStore := store.NewProductStore(base)
	resourceStore := store.NewResourceStore(base)
	auditStore := store.NewAuditStore(base)

	var wg sync.WaitGroup

	auditWorker := service.NewAuditWorker(auditStore, log, cfg.AuditQueueSize)
	wg.Add(1)
	go func() {
		defer wg.Done()
		auditWorker.Run(ctx)
	}()

	var hub *ws.Hub
	if cfg.EnableEvents {
		hub = ws.NewHub(log)
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.Run(ctx)
		}()
	}

	// Hub may be nil when events are disabled; services treat a nil
	// publisher as a no-op.
	var events service.ChangePublisher
	if hub != nil {
		events = hub
	}

	teamSvc := service.NewTeamService(teamStore, auditWorker, events, log)
	userSvc := service.NewUserService(userStore, teamStore, auditWorker, events)
	keySvc := service.NewKeyService(keyStore, regionStore, userStore, teamStore, auditWorker, events, log)
	regionSvc := service.NewRegionService(regionStore, teamStore, auditWorker, events)
	productSvc := service.NewProductService(productStore, auditWorker, events)
	resourceSvc := service.NewResourceService(resourceStore, auditWorker, events)
	billingSvc := service.NewBillingService(cfg, log)

	router := api.NewRouter(ctx, &api.RouterDeps{
		Log:           log,
		Cfg:           cfg,
		Pool:          pool,
		Hub:           hub,
		Teams:         teamSvc,
		Users:         userSvc,
		Keys:          keySvc,
		Regions:       regionSvc,
		Products:      productSvc,
		Resources:     resourceSvc,
		Audit:         auditStore,
		Billing:       billingSvc,
		SessionLookup: &base,
		Version:       version,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"addr":    cfg.Addr(),
			"version": version,
			"events":  cfg.EnableEvents,
		}).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http shutdown incomplete")
	}

	if hub != nil {
		hub.Shutdown()
	}

	// Run loops drain on context cancellation; wait for them so queued
	// audit entries reach the database before the pool closes.
	wg.Wait()
	log.Info("shutdown complete")

	return nil
}

// initLogger configures logrus from the config's level and format.
func initLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return log
}
