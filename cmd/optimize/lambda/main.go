package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joeshaw/envdecode"

	"mealopt"
	"mealopt/catalog"
	"mealopt/optimizer"
)

type Params struct {
	Composition map[string]float64 `json:"composition"`
	Restarts    int                `json:"restarts,omitempty"`
	Seed        int64              `json:"seed,omitempty"`
}

type Results struct {
	RunID          string             `json:"run_id"`
	Seed           int64              `json:"seed"`
	Composition    map[string]float64 `json:"composition"`
	Nutrients      map[string]float64 `json:"nutrients"`
	Fitness        float64            `json:"fitness"`
	InitialFitness float64            `json:"initial_fitness"`
	Iterations     int                `json:"iterations"`
	Changes        []string           `json:"changes"`
}

func main() {
	fn := func(ctx context.Context, params Params) (Results, error) {
		var searchConfig mealopt.SearchConfig
		if err := envdecode.Decode(&searchConfig); err != nil {
			log.Fatalf("Failed to decode: %s", err)
		}

		// S3 config from env
		s3Bucket := os.Getenv("ARTIFACTS_S3_BUCKET")
		catalogKey := os.Getenv("ARTIFACTS_CATALOG_S3_KEY")
		constraintsKey := os.Getenv("ARTIFACTS_CONSTRAINTS_S3_KEY")
		if s3Bucket == "" || catalogKey == "" || constraintsKey == "" {
			return Results{}, fmt.Errorf("missing S3 config: ARTIFACTS_S3_BUCKET, ARTIFACTS_CATALOG_S3_KEY, ARTIFACTS_CONSTRAINTS_S3_KEY must be set")
		}

		awsCfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return Results{}, fmt.Errorf("failed to load AWS config: %w", err)
		}
		s3Client := s3.NewFromConfig(awsCfg)

		cat, err := catalog.Load(ctx, catalog.NewS3State(s3Client, s3Bucket, catalogKey))
		if err != nil {
			slog.Error("SETUP: Failed to load catalog from S3", "error", err)
			return Results{}, err
		}
		constraints, err := catalog.LoadConstraints(ctx, catalog.NewS3State(s3Client, s3Bucket, constraintsKey))
		if err != nil {
			slog.Error("SETUP: Failed to load constraints from S3", "error", err)
			return Results{}, err
		}
		slog.Info("SETUP: Artifacts loaded from S3", "foods", len(cat), "nutrients", len(constraints))

		cfg := optimizer.Config{
			MaxIterations: searchConfig.MaxIterations,
			Patience:      searchConfig.Patience,
			Seed:          searchConfig.Seed,
			Weights:       optimizer.Weights{Hard: searchConfig.HardWeight, Soft: searchConfig.SoftWeight},
			Neighbor:      optimizer.DefaultNeighborConfig(),
		}
		if params.Seed != 0 {
			cfg.Seed = params.Seed
		}
		restarts := searchConfig.Restarts
		if params.Restarts > 0 {
			restarts = params.Restarts
		}

		// CloudWatch picks up per-iteration JSON lines from stdout.
		search := optimizer.NewSearch(cat, constraints, cfg, mealopt.NewStdoutSearchLogger())
		result, err := search.RunBest(ctx, optimizer.Composition(params.Composition), restarts)
		if err != nil {
			slog.Error("FAILURE: Optimization rejected", "error", err)
			return Results{}, err
		}

		changes := make([]string, 0, len(result.Changes))
		for _, change := range result.Changes {
			changes = append(changes, change.String())
		}

		return Results{
			RunID:          result.RunID,
			Seed:           result.Seed,
			Composition:    result.Composition,
			Nutrients:      result.Nutrients,
			Fitness:        result.Fitness,
			InitialFitness: result.InitialFitness,
			Iterations:     result.Iterations,
			Changes:        changes,
		}, nil
	}

	lambda.Start(fn)
}
