package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"mealopt"
	"mealopt/catalog"
	"mealopt/history"
	"mealopt/notify"
	"mealopt/optimizer"
)

func main() {
	ctx := context.Background()

	// Missing .env is fine; config falls back to process env and defaults.
	_ = godotenv.Load()

	var searchConfig mealopt.SearchConfig
	if err := envdecode.Decode(&searchConfig); err != nil {
		log.Fatalf("SETUP: Failed to decode: %s", err)
	}

	var artifactsConfig mealopt.ArtifactsConfig
	if err := envdecode.Decode(&artifactsConfig); err != nil {
		log.Fatalf("SETUP: Failed to decode: %s", err)
	}

	cat, err := catalog.Load(ctx, catalog.NewFileState(artifactsConfig.CatalogPath))
	if err != nil {
		slog.Error("SETUP: Failed to load food catalog", "error", err)
		return
	}
	constraints, err := catalog.LoadConstraints(ctx, catalog.NewFileState(artifactsConfig.ConstraintsPath))
	if err != nil {
		slog.Error("SETUP: Failed to load constraints", "error", err)
		return
	}
	slog.Info("SETUP: Artifacts loaded", "foods", len(cat), "nutrients", len(constraints))

	initial, err := readComposition(argOr(1, ""))
	if err != nil {
		slog.Error("SETUP: Failed to read initial composition", "error", err)
		return
	}

	logger, cleanup, err := newSearchLogger()
	if err != nil {
		slog.Error("SETUP: Failed to create search logger", "error", err)
		return
	}
	defer func() {
		if err := cleanup(); err != nil {
			slog.Error("SETUP: Failed to flush search log", "error", err)
		}
	}()

	tracerProvider, meterProvider, otelShutdown, err := mealopt.InitOtel(ctx)
	if err != nil {
		slog.Error("SETUP: Failed to initialize OpenTelemetry", "error", err)
		return
	}
	defer func() {
		if err := otelShutdown(ctx); err != nil {
			slog.Error("SETUP: Failed to shutdown OpenTelemetry", "error", err)
		}
	}()

	tracer := tracerProvider.Tracer(mealopt.TracerNameSearch)
	meter := meterProvider.Meter(mealopt.TracerNameSearch)

	ctx, span := tracer.Start(ctx, mealopt.TracerNameSearch, trace.WithAttributes(
		attribute.Int("search.max_iterations", searchConfig.MaxIterations),
		attribute.Int("search.patience", searchConfig.Patience),
		attribute.Int("search.restarts", searchConfig.Restarts),
	))
	defer span.End()

	cfg := optimizer.Config{
		MaxIterations: searchConfig.MaxIterations,
		Patience:      searchConfig.Patience,
		Seed:          searchConfig.Seed,
		Weights:       optimizer.Weights{Hard: searchConfig.HardWeight, Soft: searchConfig.SoftWeight},
		Neighbor:      optimizer.DefaultNeighborConfig(),
	}

	var result optimizer.SearchResult
	if searchConfig.Restarts > 1 {
		result, err = optimizer.NewSearch(cat, constraints, cfg, logger).RunBest(ctx, initial, searchConfig.Restarts)
	} else {
		result, err = optimizer.NewInstrumentedSearch(cat, constraints, cfg, logger, tracer, meter).Run(ctx, initial)
	}
	if err != nil {
		slog.Error("FAILURE: Optimization rejected", "error", err)
		return
	}

	fmt.Println(notify.FormatResult(result))

	store, err := history.NewStore(artifactsConfig.HistoryDBPath)
	if err != nil {
		slog.Error("HISTORY: Failed to open store", "error", err)
		return
	}
	defer store.Close()
	if err := store.SaveResult(result); err != nil {
		slog.Error("HISTORY: Failed to record run", "error", err)
	}

	if artifactsConfig.WebhookURL != "" {
		client := notify.NewClient(artifactsConfig.WebhookURL, http.DefaultClient)
		if err := client.PostResult(ctx, "#nutrition", result); err != nil {
			slog.Error("Failed to post result to webhook", "error", err)
		}
	}
}

// readComposition loads {food_id: quantity} JSON from a file path, or from
// stdin when no path is given.
func readComposition(path string) (optimizer.Composition, error) {
	var data []byte
	var err error
	if path == "" {
		data, err = os.ReadFile("/dev/stdin")
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	var comp optimizer.Composition
	if err := json.Unmarshal(data, &comp); err != nil {
		return nil, fmt.Errorf("decode composition: %w", err)
	}
	return comp, nil
}

func argOr(i int, def string) string {
	if len(os.Args) > i {
		return os.Args[i]
	}
	return def
}

func newSearchLogger() (mealopt.SearchLogger, func() error, error) {
	logFilePath := mealopt.NewSearchLogFilePath("optimize")
	logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, func() error { return err }, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := mealopt.NewFileSearchLogger(logFile)
	cleanup := func() error {
		return errors.Join(logger.Flush(), logFile.Close())
	}
	return logger, cleanup, nil
}
