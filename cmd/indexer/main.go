// Command indexer builds a materials index snapshot from the catalog and
// writes it to disk. The server picks the snapshot up on its next start, or
// immediately via POST /api/v1/index/rebuild.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dzinly/matsearch/internal/adapter/ai"
	"github.com/dzinly/matsearch/internal/adapter/store"
	"github.com/dzinly/matsearch/internal/service"
	"github.com/dzinly/matsearch/pkg/config"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	out := flag.String("out", cfg.IndexPath, "output path for the index snapshot")
	limit := flag.Int64("limit", 0, "maximum number of catalog records to index (0 = all)")
	batch := flag.Int("batch", cfg.IndexBatchSize, "embedding batch size")
	throttle := flag.Duration("throttle", time.Duration(cfg.IndexThrottleMs)*time.Millisecond, "delay between embedding batches")
	flag.Parse()

	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	bold.Printf("Building materials index → %s\n", *out)
	fmt.Printf("  model:    %s\n", cfg.OllamaEmbedModel)
	fmt.Printf("  endpoint: %s\n", cfg.OllamaEmbedURL)

	ctx := context.Background()

	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	catalog, err := store.NewMongoStore(connectCtx, cfg.MongoURI, cfg.MongoDB)
	cancel()
	if err != nil {
		red.Fprintf(os.Stderr, "mongodb: %v\n", err)
		os.Exit(1)
	}
	defer catalog.Close(ctx)

	embedder := ai.NewRetryEmbedder(
		ai.NewOllamaEmbedder(
			ai.OllamaEndpointConfig{
				BaseURL: cfg.OllamaEmbedURL,
				Model:   cfg.OllamaEmbedModel,
				Token:   cfg.OllamaEmbedToken,
			},
			cfg.EmbeddingDimension,
		),
		ai.RetryPolicy{
			Attempts: cfg.EmbedAttempts,
			Backoff:  500 * time.Millisecond,
			Timeout:  time.Duration(cfg.EmbedTimeoutSecs) * time.Second,
		},
	)

	indexService := service.NewIndexService(catalog, embedder)

	started := time.Now()
	snapshot, err := indexService.BuildSnapshot(ctx, service.BuildOptions{
		Limit:     *limit,
		BatchSize: *batch,
		Throttle:  *throttle,
		OutPath:   *out,
		Progress: func(done, total int) {
			fmt.Printf("\r  embedded %d/%d", done, total)
		},
	})
	fmt.Println()
	if err != nil {
		red.Fprintf(os.Stderr, "build failed: %v\n", err)
		os.Exit(1)
	}

	m := snapshot.Manifest()
	green.Printf("✔ snapshot %s: %d records, dim %d, model %s (%s)\n",
		m.SnapshotID, m.Count, m.Dimension, m.Model, time.Since(started).Round(time.Millisecond))
}
