package service

import (
	"context"
	"errors"
	"testing"

	"github.com/dzinly/matsearch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// stubCurationStore records promotions in memory.
type stubCurationStore struct {
	pending    []domain.CatalogRecord
	promoted   map[string]domain.CatalogRecord
	promoteErr error
	stats      domain.CurationStats
}

func newStubCurationStore(pending ...domain.CatalogRecord) *stubCurationStore {
	return &stubCurationStore{pending: pending, promoted: map[string]domain.CatalogRecord{}}
}

func (s *stubCurationStore) ListPending(ctx context.Context, limit int64) ([]domain.CatalogRecord, error) {
	if limit > 0 && int64(len(s.pending)) > limit {
		return s.pending[:limit], nil
	}
	return s.pending, nil
}

func (s *stubCurationStore) Promote(ctx context.Context, sourceID string, curated domain.CatalogRecord) error {
	if s.promoteErr != nil {
		return s.promoteErr
	}
	s.promoted[sourceID] = curated
	return nil
}

func (s *stubCurationStore) Stats(ctx context.Context) (domain.CurationStats, error) {
	return s.stats, nil
}

func TestPreviewScoresPendingRecords(t *testing.T) {
	dummy := domain.CatalogRecord{
		ID:    primitive.NewObjectID(),
		Title: "Imported Paint 42",
		// description, color, tags and segments all placeholders
		Tags: []string{"style1"},
	}
	curated := domain.CatalogRecord{
		ID:           primitive.NewObjectID(),
		Title:        "Sea Salt",
		Description:  "Coastal green-gray.",
		Color:        &domain.ColorBlock{Hex: "#CDD9D0"},
		Finish:       "Eggshell",
		Tags:         []string{"coastal"},
		SegmentTypes: []string{"interior"},
	}

	svc := NewCurationService(newStubCurationStore(dummy, curated))

	rows, err := svc.Preview(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	weak := rows[0]
	assert.Equal(t, "imported-paint-42", weak.Slug)
	assert.Equal(t, "Default", weak.Finish, "missing finish falls back")
	assert.Equal(t, domain.DefaultColorHex, weak.ColorHex, "missing color falls back to white")
	assert.Equal(t, 20.0, weak.ProfileStrength)
	assert.Contains(t, weak.Hints, domain.HintLowStrength)

	strong := rows[1]
	assert.Equal(t, "#CDD9D0", strong.ColorHex)
	assert.Equal(t, 100.0, strong.ProfileStrength)
	assert.Empty(t, strong.Hints)
}

func TestPromoteSkipsUnmarkedEntries(t *testing.T) {
	store := newStubCurationStore()
	svc := NewCurationService(store)

	result, err := svc.Promote(context.Background(), []PromoteEntry{
		{ID: "a", Title: "Keep Me", Transfer: true},
		{ID: "b", Title: "Skip Me", Transfer: false},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 1, result.Skipped)
	require.Contains(t, store.promoted, "a")
	assert.NotContains(t, store.promoted, "b")

	got := store.promoted["a"]
	assert.Equal(t, "keep-me", got.Slug)
	assert.Equal(t, "AUTO-GEN", got.SKU)
	require.NotNil(t, got.Color)
	assert.Equal(t, domain.DefaultColorHex, got.Color.Hex, "empty hex falls back to white")
	require.NotNil(t, got.Audit)
	assert.False(t, got.Audit.CreatedAt.IsZero())
}

func TestPromoteStopsOnStoreError(t *testing.T) {
	store := newStubCurationStore()
	store.promoteErr = errors.New("insert failed")
	svc := NewCurationService(store)

	_, err := svc.Promote(context.Background(), []PromoteEntry{{ID: "a", Transfer: true}})
	require.Error(t, err)
}

func TestStatsPassthrough(t *testing.T) {
	store := newStubCurationStore()
	store.stats = domain.CurationStats{Total: 10, Transferred: 4, Pending: 6}
	svc := NewCurationService(store)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(6), stats.Pending)
}

func TestSafeSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Pure White", "pure-white"},
		{"Benjamin Moore: Hale Navy!", "benjamin-moore--hale-navy"},
		{"  ", "untitled"},
		{"", "untitled"},
		{"already-slugged", "already-slugged"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, safeSlugify(tt.in), "input %q", tt.in)
	}
}
