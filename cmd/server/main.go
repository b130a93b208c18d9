package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"seacrew/internal/auth/jwt"
	"seacrew/internal/bootstrap"
	"seacrew/internal/config"
	"seacrew/internal/handler"
	"seacrew/internal/router"
	"seacrew/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	bootstrap.ConfigureLogging(&cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := bootstrap.OpenStores(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = stores.Close() }()

	storage, err := bootstrap.ObjectStorage(ctx, &cfg.S3)
	if err != nil {
		return err
	}
	docExtractor, err := bootstrap.Extractor(&cfg.Extractor)
	if err != nil {
		return err
	}
	engine, err := bootstrap.Engine(&cfg.Verification)
	if err != nil {
		return err
	}

	// Initialize services
	recordSvc := service.NewRecordService(stores.Crew, stores.Records)
	verificationSvc := service.NewVerificationService(
		stores.Records, stores.Crew, stores.Scans, docExtractor, storage, engine,
		service.VerificationOptions{
			Bucket:           cfg.S3.Bucket,
			PresignExpirySec: cfg.S3.PresignExpiry,
			SupersedeRetries: cfg.Verification.SupersedeMaxRetries,
			SentinelYear:     cfg.Verification.ExpirySentinelYear,
		},
	)

	// Setup router
	r := router.Setup(jwt.NewVerifier(cfg.JWT), router.Handlers{
		Record:       handler.NewRecordHandler(recordSvc),
		Verification: handler.NewVerificationHandler(verificationSvc, cfg.Server.MaxUploadMB<<20),
		Health:       handler.NewHealthHandler(stores.Pinger),
	}, cfg.CORS.AllowedOrigins)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s (store=%s, env=%s)", cfg.Server.Port, cfg.Store.Driver, cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Printf("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
