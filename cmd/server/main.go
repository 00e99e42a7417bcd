// @title						Udyami API
// @version					1.0
// @description				Structured business documents extracted from AI assistant reports.
// @BasePath					/api/v1
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

	"go.uber.org/zap"

	"udyami/internal/config"
	"udyami/internal/domain"
	"udyami/internal/eventstream"
	"udyami/internal/eventstream/kafka"
	"udyami/internal/eventstream/nop"
	"udyami/internal/gateway"
	"udyami/internal/handler"
	"udyami/internal/logger"
	"udyami/internal/port"
	"udyami/internal/repository/postgres"
	"udyami/internal/router"
	"udyami/internal/service"
	"udyami/internal/sheets"
	s3storage "udyami/internal/storage/s3"
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

	zlog := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(ctx, &cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() { _ = db.Close() }()

	// Initialize repositories
	docRepo := postgres.NewDocumentRepo(db, zlog)
	auditRepo := postgres.NewAuditLogRepo(db)
	statsRepo := postgres.NewStatsRepo(db)

	// Initialize optional collaborators
	var storage port.ObjectStorage
	if cfg.S3.Enabled {
		storage, err = s3storage.NewS3Client(ctx, &cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	}

	var sheetReader port.SheetReader
	sheetsClient, err := sheets.NewClient(&cfg.Sheets)
	switch {
	case err == nil:
		sheetReader = sheetsClient
	case errors.Is(err, domain.ErrSheetsDisabled):
		zlog.Info("google sheets import disabled")
	default:
		return fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	publisher, err := newPublisher(&cfg.Events)
	if err != nil {
		return fmt.Errorf("failed to initialize event publisher: %w", err)
	}
	defer func() { _ = publisher.Close() }()

	chatGateway := gateway.NewClient(&cfg.Gateway)

	// Initialize services
	docSvc := service.NewDocumentService(docRepo, auditRepo, publisher, zlog)
	statsSvc := service.NewStatsService(statsRepo)
	extractSvc := service.NewExtractService()
	importSvc := service.NewImportService(docSvc, storage, sheetReader, service.ImportOptions{
		Bucket:     cfg.S3.Bucket,
		Prefix:     cfg.S3.Prefix,
		SheetRange: cfg.Sheets.Range,
	}, zlog)
	chatSvc := service.NewChatService(chatGateway, docSvc, statsRepo, service.ChatOptions{
		MaxSessions:    cfg.Chat.MaxSessions,
		HistoryLimit:   cfg.Chat.HistoryLimit,
		MaxMessageSize: cfg.Chat.MaxMessageSize,
	}, zlog)

	// Setup router
	r := router.Setup(zlog, cfg.CORS.AllowedOrigins, router.Handlers{
		Health:    handler.NewHealthHandler(db),
		Extract:   handler.NewExtractHandler(extractSvc),
		Documents: handler.NewDocumentHandler(docSvc),
		Stats:     handler.NewStatsHandler(statsSvc),
		Imports:   handler.NewImportHandler(importSvc, cfg.Server.MaxUploadMB<<20),
		Chat:      handler.NewChatHandler(chatSvc),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		zlog.Info("server starting",
			zap.String("addr", cfg.Server.Port),
			zap.String("environment", cfg.Server.Environment))
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

	zlog.Info("shutting down", zap.Duration("grace", cfg.Server.ShutdownGrace))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func newPublisher(cfg *config.EventsConfig) (eventstream.Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nop.NewPublisher(), nil
	}
	return kafka.NewPublisher(cfg.Brokers, cfg.Topic)
}
