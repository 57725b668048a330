package port

import (
	"context"

	"github.com/dzinly/matsearch/internal/domain"
)

// CatalogGateway is the document-store fetch layer. The core never builds
// store-specific query syntax; translating FilterSpec to the store's query
// language is the gateway's job.
type CatalogGateway interface {
	// FetchFiltered returns catalog records matching the spec, up to limit.
	FetchFiltered(ctx context.Context, spec domain.FilterSpec, limit int64) ([]domain.CatalogRecord, error)

	// FetchByIDs returns the records for the given identifiers.
	FetchByIDs(ctx context.Context, ids []string) ([]domain.CatalogRecord, error)
}

// CurationStore is the write side used by the curation workflow: raw source
// records are reviewed, promoted into a curated collection and flagged as
// processed on the source side.
type CurationStore interface {
	// ListPending returns source records not yet promoted.
	ListPending(ctx context.Context, limit int64) ([]domain.CatalogRecord, error)

	// Promote inserts the curated document and marks the source record
	// extracted. Both writes belong to one promotion; a failed insert must
	// not flag the source.
	Promote(ctx context.Context, sourceID string, curated domain.CatalogRecord) error

	// Stats reports total, transferred and pending source record counts.
	Stats(ctx context.Context) (domain.CurationStats, error)
}
