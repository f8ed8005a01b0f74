package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-docproc/internal/config"
	"github.com/dvloznov/finance-docproc/internal/currency"
	"github.com/dvloznov/finance-docproc/internal/extraction"
	"github.com/dvloznov/finance-docproc/internal/gcs"
	infraBQ "github.com/dvloznov/finance-docproc/internal/infra/bigquery"
	"github.com/dvloznov/finance-docproc/internal/logger"
	"github.com/dvloznov/finance-docproc/internal/pipeline"
)

func main() {
	_ = godotenv.Load()

	level, err := logger.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := logger.New(logger.Options{Level: level, Writer: os.Stderr})

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "process":
		runProcess(log)
	case "convert":
		runConvert(log)
	case "categories":
		writeCategories(os.Stdout)
	case "migrate":
		runMigrate(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Financial Document Processor CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  process     Extract and convert a document from text, a file or GCS")
	fmt.Println("  convert     Convert an amount to USD and INR")
	fmt.Println("  categories  List transaction types and categories")
	fmt.Println("  migrate     Create the BigQuery extraction_runs table")
	fmt.Println("  help        Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func runProcess(log zerolog.Logger) {
	fs := flag.NewFlagSet("process", flag.ExitOnError)
	userID := fs.String("user-id", "", "Owner of the document")
	text := fs.String("text", "", "Raw document text")
	file := fs.String("file", "", "Path to a local text file ('-' for stdin)")
	gcsURI := fs.String("gcs-uri", "", "gs://bucket/object holding the document text")
	fs.Parse(os.Args[2:])

	if *userID == "" {
		log.Fatal().Msg("Error: --user-id is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ExtractionTimeout+cfg.RatesTimeout+30*time.Second)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	var source gcs.TextSource
	if *gcsURI != "" {
		reader, err := gcs.NewReader(ctx, cfg.CredentialsFile)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create GCS reader")
		}
		defer reader.Close()
		source = reader
	}

	rawText, err := readInput(ctx, inputSource{
		Text:   *text,
		File:   *file,
		GCSURI: *gcsURI,
		Stdin:  os.Stdin,
		GCS:    source,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read document text")
	}

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
	}

	processor := pipeline.NewProcessor(
		extraction.NewExtractor(generator,
			extraction.WithTimeout(cfg.ExtractionTimeout),
			extraction.WithRecorder(recorder),
		),
		currency.NewConverter(&http.Client{},
			currency.WithBaseURL(cfg.RatesBaseURL),
			currency.WithTimeout(cfg.RatesTimeout),
		),
	)

	log.Info().Str("user_id", *userID).Int("chars", len(rawText)).Msg("Processing document")

	result, err := processor.Process(ctx, *userID, rawText)
	if err != nil {
		log.Error().Err(err).Msg("Processing failed")
		os.Exit(1)
	}

	if err := writeJSON(os.Stdout, result); err != nil {
		log.Fatal().Err(err).Msg("Failed to write result")
	}
}

func runConvert(log zerolog.Logger) {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	amount := fs.Float64("amount", 0, "Amount to convert")
	code := fs.String("currency", "", "Source currency code, e.g. EUR or ₹")
	baseURL := fs.String("base-url", envOr("RATES_BASE_URL", currency.DefaultBaseURL), "Exchange rate API base URL")
	timeout := fs.Duration("timeout", currency.DefaultTimeout, "Rate lookup timeout")
	fs.Parse(os.Args[2:])

	if *code == "" {
		log.Fatal().Msg("Error: --currency is required")
	}

	ctx := logger.WithContext(context.Background(), log)

	converter := currency.NewConverter(&http.Client{},
		currency.WithBaseURL(*baseURL),
		currency.WithTimeout(*timeout),
	)
	conversion := converter.Convert(ctx, *amount, *code)
	if conversion.Degraded {
		log.Warn().Msg("Rates unavailable, amounts are zeroed")
	}

	if err := writeJSON(os.Stdout, conversion); err != nil {
		log.Fatal().Err(err).Msg("Failed to write result")
	}
}

func runMigrate(log zerolog.Logger) {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	projectID := fs.String("project", os.Getenv("BIGQUERY_PROJECT_ID"), "GCP project ID")
	datasetID := fs.String("dataset", envOr("BIGQUERY_DATASET", config.DefaultBigQueryDataset), "BigQuery dataset ID")
	credentials := fs.String("credentials", os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_FILE"), "Service account credentials file")
	fs.Parse(os.Args[2:])

	if *projectID == "" {
		log.Fatal().Msg("Error: --project is required (or set BIGQUERY_PROJECT_ID)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	client, err := infraBQ.NewClient(ctx, *projectID, *credentials)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create BigQuery client")
	}
	defer client.Close()

	created, err := infraBQ.EnsureExtractionRunsTable(ctx, client, *datasetID)
	if err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}

	if created {
		fmt.Printf("Created table %s.%s.extraction_runs\n", *projectID, *datasetID)
	} else {
		fmt.Printf("Table %s.%s.extraction_runs already exists\n", *projectID, *datasetID)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
