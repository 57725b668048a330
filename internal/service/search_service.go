package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/dzinly/matsearch/internal/adapter/index"
	"github.com/dzinly/matsearch/internal/domain"
	"github.com/dzinly/matsearch/internal/port"
)

// SearchRequest describes one search: free-text query, result budget, exact
// filters and an optional perceptual color constraint.
type SearchRequest struct {
	Query     string            `json:"query"`
	TopK      int               `json:"top_k"`
	Filters   domain.FilterSpec `json:"filters,omitempty"`
	BaseLab   []float64         `json:"base_lab,omitempty"`
	MaxDeltaE *float64          `json:"max_delta_e,omitempty"`
}

// SearchResponse carries the filtered hits plus snapshot provenance.
type SearchResponse struct {
	Results    []domain.Hit `json:"results"`
	SnapshotID string       `json:"snapshot_id"`
	Model      string       `json:"model"`
}

const defaultTopK = 20

// SearchService answers search requests against an immutable index snapshot.
// Each request is an independent, side-effect-free read: embed the query,
// run top-K retrieval, then post-filter. The snapshot is swapped atomically
// by the index service; in-flight queries keep the snapshot they started with.
type SearchService struct {
	embedder port.Embedder
	snapshot atomic.Pointer[index.FlatIndex]
}

// NewSearchService creates a search service. The initial snapshot may be nil
// when no index artifact exists yet; searches then fail as unavailable.
func NewSearchService(embedder port.Embedder, snapshot *index.FlatIndex) *SearchService {
	s := &SearchService{embedder: embedder}
	if snapshot != nil {
		s.snapshot.Store(snapshot)
	}
	return s
}

// Swap installs a new snapshot for subsequent queries.
func (s *SearchService) Swap(snapshot *index.FlatIndex) {
	s.snapshot.Store(snapshot)
	m := snapshot.Manifest()
	slog.Info("index snapshot installed",
		"snapshot_id", m.SnapshotID,
		"records", m.Count,
		"model", m.Model,
	)
}

// Current returns the serving snapshot, or nil when none is loaded.
func (s *SearchService) Current() *index.FlatIndex {
	return s.snapshot.Load()
}

// Search embeds the query text, retrieves top-K candidates and applies the
// exact-field and color-distance filters. A failed embedding aborts the whole
// query — zero results is a valid outcome, a failed query is not.
func (s *SearchService) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	if err := req.Filters.Validate(); err != nil {
		return nil, err
	}

	ix := s.snapshot.Load()
	if ix == nil {
		return nil, fmt.Errorf("%w: no index snapshot loaded", port.ErrSearchUnavailable)
	}

	topK := req.TopK
	if topK <= 0 {
		topK = defaultTopK
	}

	queryVector, err := s.embedder.Embed(ctx, req.Query)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %v", port.ErrSearchUnavailable, err)
	}

	hits, err := ix.Query(queryVector, topK)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", port.ErrSearchUnavailable, err)
	}

	// Filter each hit individually so its score stays attached by position;
	// record identifiers are not assumed unique.
	results := make([]domain.Hit, 0, len(hits))
	for _, hit := range hits {
		kept := []domain.FlatRecord{hit.Record}
		if len(req.Filters) > 0 {
			kept = domain.FilterByExactFields(kept, req.Filters)
			if len(kept) == 0 {
				continue
			}
		}
		if req.MaxDeltaE != nil {
			kept = domain.FilterByColorDistance(req.BaseLab, kept, *req.MaxDeltaE)
			if len(kept) == 0 {
				continue
			}
		}
		results = append(results, domain.Hit{Record: kept[0], Score: hit.Score})
	}

	m := ix.Manifest()
	slog.Info("search completed",
		"query", req.Query,
		"retrieved", len(hits),
		"returned", len(results),
		"snapshot_id", m.SnapshotID,
	)

	return &SearchResponse{Results: results, SnapshotID: m.SnapshotID, Model: m.Model}, nil
}

// FetchByIDs returns flat records for known identifiers without a vector
// search, e.g. when the candidate set came from a store-side lookup.
func (s *SearchService) FetchByIDs(ids []string) ([]domain.FlatRecord, error) {
	ix := s.snapshot.Load()
	if ix == nil {
		return nil, fmt.Errorf("%w: no index snapshot loaded", port.ErrSearchUnavailable)
	}
	return ix.FetchByIDs(ids), nil
}
