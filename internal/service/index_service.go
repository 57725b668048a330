package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dzinly/matsearch/internal/adapter/index"
	"github.com/dzinly/matsearch/internal/domain"
	"github.com/dzinly/matsearch/internal/port"
)

// BuildOptions tunes one snapshot build.
type BuildOptions struct {
	Filters   domain.FilterSpec // store-side pre-filter, empty = whole catalog
	Limit     int64             // max records fetched from the catalog
	BatchSize int               // texts per embedding call
	Throttle  time.Duration     // fixed delay between embedding batches
	OutPath   string            // snapshot artifact path, empty = don't persist
	Progress  func(done, total int)
}

// IndexService runs the offline batch build: fetch the catalog, project each
// record, derive its search text, embed in throttled batches, then build and
// persist the snapshot. Building never mutates the serving index; the caller
// installs the result via SearchService.Swap once the build succeeded.
type IndexService struct {
	catalog  port.CatalogGateway
	embedder port.Embedder
}

// NewIndexService creates an index build service.
func NewIndexService(catalog port.CatalogGateway, embedder port.Embedder) *IndexService {
	return &IndexService{catalog: catalog, embedder: embedder}
}

// BuildSnapshot produces a new index snapshot. A failed embedding batch
// aborts the build; no partial index is persisted.
func (s *IndexService) BuildSnapshot(ctx context.Context, opts BuildOptions) (*index.FlatIndex, error) {
	if err := opts.Filters.Validate(); err != nil {
		return nil, err
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 50
	}

	records, err := s.catalog.FetchFiltered(ctx, opts.Filters, opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog records: %w", err)
	}
	slog.Info("building index snapshot", "records", len(records), "model", s.embedder.ModelName())

	rows := make([]domain.FlatRecord, len(records))
	texts := make([]string, len(records))
	for i, rec := range records {
		rows[i] = domain.Project(rec)
		texts[i] = domain.BuildSearchText(rows[i])
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += opts.BatchSize {
		end := start + opts.BatchSize
		if end > len(texts) {
			end = len(texts)
		}

		batch, err := s.embedder.EmbedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("embed batch %d-%d: %w", start, end, err)
		}
		vectors = append(vectors, batch...)

		if opts.Progress != nil {
			opts.Progress(end, len(texts))
		}

		// Throttle between batches to respect provider rate limits.
		if end < len(texts) && opts.Throttle > 0 {
			select {
			case <-time.After(opts.Throttle):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	ix, err := index.Build(vectors, rows, s.embedder.ModelName())
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}

	if opts.OutPath != "" {
		if err := ix.Save(opts.OutPath); err != nil {
			return nil, fmt.Errorf("persist snapshot: %w", err)
		}
	}

	m := ix.Manifest()
	slog.Info("index snapshot built",
		"snapshot_id", m.SnapshotID,
		"records", m.Count,
		"dimension", m.Dimension,
		"path", opts.OutPath,
	)
	return ix, nil
}
