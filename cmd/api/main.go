package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/ulule/limiter/v3"

	"github.com/dvloznov/finance-docproc/internal/api/handlers"
	"github.com/dvloznov/finance-docproc/internal/api/middleware"
	"github.com/dvloznov/finance-docproc/internal/config"
	"github.com/dvloznov/finance-docproc/internal/currency"
	"github.com/dvloznov/finance-docproc/internal/extraction"
	infraBQ "github.com/dvloznov/finance-docproc/internal/infra/bigquery"
	"github.com/dvloznov/finance-docproc/internal/logger"
	"github.com/dvloznov/finance-docproc/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log := logger.New(logger.Options{Level: zerolog.InfoLevel})
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	ctx := logger.WithContext(context.Background(), log)

	generator, err := extraction.NewGeminiGenerator(ctx, cfg.GoogleAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Gemini client")
	}

	var recorder extraction.RunRecorder = extraction.NopRecorder{}
	if cfg.AuditEnabled() {
		bqRecorder, err := infraBQ.NewRunRecorder(ctx, cfg.BigQueryProjectID, cfg.BigQueryDataset, cfg.CredentialsFile)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create BigQuery run recorder")
		}
		defer bqRecorder.Close()
		recorder = bqRecorder
		log.Info().
			Str("project_id", cfg.BigQueryProjectID).
			Str("dataset", cfg.BigQueryDataset).
			Msg("Extraction run audit enabled")
	}

	extractor := extraction.NewExtractor(generator,
		extraction.WithTimeout(cfg.ExtractionTimeout),
		extraction.WithRecorder(recorder),
	)
	converter := currency.NewConverter(&http.Client{},
		currency.WithBaseURL(cfg.RatesBaseURL),
		currency.WithTimeout(cfg.RatesTimeout),
	)
	processor := pipeline.NewProcessor(extractor, converter)

	var rateLimiter *limiter.Limiter
	if cfg.RateLimit != nil {
		rateLimiter = middleware.NewMemoryLimiter(*cfg.RateLimit)
		log.Info().
			Int64("limit", cfg.RateLimit.Limit).
			Dur("period", cfg.RateLimit.Period).
			Msg("Rate limiting enabled")
	}

	handler := handlers.NewRouter(processor, handlers.RouterOptions{
		Log:     log,
		Limiter: rateLimiter,
	})

	// A request may spend the full extraction and rate budgets before it writes.
	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.ExtractionTimeout + cfg.RatesTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Str("model", generator.ModelName()).
			Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
