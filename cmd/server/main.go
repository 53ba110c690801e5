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

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"course-enrolment/internal/config"
	"course-enrolment/internal/courses"
	"course-enrolment/internal/db"
	"course-enrolment/internal/dialogs"
	"course-enrolment/internal/gateway"
	"course-enrolment/internal/handlers"
	"course-enrolment/internal/notify"
	"course-enrolment/internal/store"
	"course-enrolment/internal/wizard"
)

func main() {
	cfg := config.Load()
	logger := cfg.Logger
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := courses.Load()
	if err != nil {
		return err
	}

	leads, closeStore, err := store.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	gwOpts := []gateway.Option{
		gateway.WithTimeout(cfg.SubmitTimeout),
		gateway.WithLogger(logger),
	}
	if cfg.NATSURL != "" {
		pub, err := notify.Connect(cfg.NATSURL, cfg.NATSSubject)
		if err != nil {
			return err
		}
		defer pub.Close()
		gwOpts = append(gwOpts, gateway.WithPublisher(pub))
		logger.Info("Publishing lead events", zap.String("url", cfg.NATSURL), zap.String("subject", cfg.NATSSubject))
	}

	reg := dialogs.NewRegistry(gateway.New(leads, gwOpts...),
		dialogs.WithLogger(logger),
		dialogs.WithControllerOptions(wizard.WithCloseDelay(cfg.AutoCloseDelay)),
	)

	handlers.SetConfig(cfg)
	if err := handlers.InitTemplates(); err != nil {
		return err
	}

	var ping func(context.Context) error
	if db.DB != nil {
		ping = db.DB.PingContext
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.Routes(cfg, catalog, reg, ping),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server starting", zap.String("addr", srv.Addr), zap.String("lead_store", cfg.LeadStore))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return reg.Run(gctx, time.Minute, cfg.DialogMaxAge)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		reg.Shutdown()
		return err
	})
	return g.Wait()
}
