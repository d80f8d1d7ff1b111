package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/nurpe/contracts-service/internal/auth"
	"github.com/nurpe/contracts-service/internal/config"
	"github.com/nurpe/contracts-service/internal/db"
	"github.com/nurpe/contracts-service/internal/excel"
	httphandler "github.com/nurpe/contracts-service/internal/http"
	"github.com/nurpe/contracts-service/internal/http/middleware"
	"github.com/nurpe/contracts-service/internal/logger"
	"github.com/nurpe/contracts-service/internal/pdf"
	"github.com/nurpe/contracts-service/internal/reference"
	"github.com/nurpe/contracts-service/internal/repository"
	"github.com/nurpe/contracts-service/internal/service"
	"github.com/nurpe/contracts-service/internal/storage"
	"github.com/nurpe/contracts-service/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracer, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init tracing")
	}

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	objects, err := newStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init storage")
	}

	pdfGenerator, err := pdf.NewGenerator(cfg.Export.PDFFontPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init pdf generator")
	}

	contractRepo := repository.NewContractRepository(database)
	contractTypeRepo := repository.NewContractTypeRepository(database)
	fileRepo := repository.NewContractFileRepository(database)
	relationRepo := repository.NewRelationRepository(database)
	referenceClient := reference.NewClient(cfg.Reference.BaseURL, cfg.Reference.Timeout)

	handler := httphandler.NewHandler(httphandler.Services{
		Contracts:     service.NewContractService(contractRepo, contractTypeRepo),
		ContractTypes: service.NewContractTypeService(contractTypeRepo),
		Files:         service.NewContractFileService(fileRepo, contractRepo, objects, log),
		Relations:     service.NewRelationService(relationRepo),
		LegalEntities: service.NewLegalEntityService(referenceClient, relationRepo, log),
		Exports:       service.NewExportService(contractRepo, excel.NewGenerator(), pdfGenerator, cfg),
	}, log)

	var revocations middleware.RevocationChecker
	if cfg.Redis.Enabled() {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		revocations = auth.NewRedisRevocations(client)
	}

	authMiddleware := middleware.Auth(auth.NewParser(cfg.Auth.AccessSecret), revocations, log)
	router := httphandler.NewRouter(handler, authMiddleware, cfg, log)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("starting contracts service")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	if err := tracer.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("tracer shutdown failed")
	}
}

func newStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (service.ObjectStorage, error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		log.Warn().Msg("using in-memory object storage")
		return storage.NewMemory(), nil
	}

	s3, err := storage.NewS3(ctx, cfg.Storage, storage.WithLogger(log))
	if err != nil {
		return nil, err
	}
	if err := s3.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return s3, nil
}
