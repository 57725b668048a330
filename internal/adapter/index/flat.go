// Package index implements the searchable vector index: an exact inner-product
// top-K index over L2-normalized vectors with a parallel metadata table.
// Vectors and rows are owned as a single unit — position i in the vector
// sequence always corresponds to row i of the metadata table, and every
// operation that could desynchronize them is refused.
package index

import (
	"encoding/gob"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/dzinly/matsearch/internal/domain"
	"github.com/dzinly/matsearch/internal/port"
	"github.com/google/uuid"
)

func init() {
	// FlatRecord values are interface-typed; gob needs the concrete types.
	gob.Register([]string{})
	gob.Register([]float64{})
	gob.Register(map[string]any{})
}

// Manifest pins the provenance of an index snapshot. The embedding model is
// recorded because vectors from a different model version are not comparable.
type Manifest struct {
	SnapshotID string    `json:"snapshot_id"`
	Model      string    `json:"model"`
	Dimension  int       `json:"dimension"`
	Count      int       `json:"count"`
	BuiltAt    time.Time `json:"built_at"`
}

// FlatIndex is an immutable, in-memory flat index. Once built it is read-only
// for the lifetime of a serving process; a rebuild produces a new instance.
type FlatIndex struct {
	manifest Manifest
	vectors  [][]float32
	rows     []domain.FlatRecord
}

// Build constructs an index from parallel vector and metadata sequences.
// A length mismatch is fatal: the index refuses to build rather than silently
// truncate. All vectors are defensively re-normalized before storage.
func Build(vectors [][]float32, rows []domain.FlatRecord, model string) (*FlatIndex, error) {
	if len(vectors) != len(rows) {
		return nil, fmt.Errorf("%w: %d vectors, %d rows", port.ErrShapeMismatch, len(vectors), len(rows))
	}

	dimension := 0
	if len(vectors) > 0 {
		dimension = len(vectors[0])
	}

	stored := make([][]float32, len(vectors))
	for i, vec := range vectors {
		if len(vec) != dimension {
			return nil, fmt.Errorf("%w: vector %d has dimension %d, expected %d",
				port.ErrShapeMismatch, i, len(vec), dimension)
		}
		stored[i] = normalize(vec)
	}

	return &FlatIndex{
		manifest: Manifest{
			SnapshotID: uuid.NewString(),
			Model:      model,
			Dimension:  dimension,
			Count:      len(stored),
			BuiltAt:    time.Now().UTC(),
		},
		vectors: stored,
		rows:    rows,
	}, nil
}

// Manifest returns the snapshot provenance.
func (ix *FlatIndex) Manifest() Manifest { return ix.manifest }

// Len returns the number of indexed records.
func (ix *FlatIndex) Len() int { return len(ix.rows) }

// Query returns the top-k records by inner-product similarity (cosine, since
// all vectors are unit length), ordered by descending score with ties broken
// by insertion order. k is clamped to [0, Len]; an empty index or k=0 yields
// an empty result, not an error.
func (ix *FlatIndex) Query(query []float32, k int) ([]domain.Hit, error) {
	if len(ix.vectors) > 0 && len(query) != ix.manifest.Dimension {
		return nil, fmt.Errorf("%w: got %d, index has %d",
			port.ErrDimensionMismatch, len(query), ix.manifest.Dimension)
	}

	if k < 0 {
		k = 0
	}
	if k > len(ix.vectors) {
		k = len(ix.vectors)
	}
	if k == 0 {
		return []domain.Hit{}, nil
	}

	order := make([]int, len(ix.vectors))
	scores := make([]float64, len(ix.vectors))
	for i, vec := range ix.vectors {
		order[i] = i
		scores[i] = dot(vec, query)
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	hits := make([]domain.Hit, 0, k)
	for _, i := range order[:k] {
		hits = append(hits, domain.Hit{Record: ix.rows[i], Score: scores[i]})
	}
	return hits, nil
}

// FetchByIDs returns the metadata rows for the given identifiers, bypassing
// vector search. Rows come back in index order; unknown identifiers are
// simply not present in the result.
func (ix *FlatIndex) FetchByIDs(ids []string) []domain.FlatRecord {
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	out := make([]domain.FlatRecord, 0, len(ids))
	for _, row := range ix.rows {
		if _, ok := wanted[row.Str("id")]; ok {
			out = append(out, row)
		}
	}
	return out
}

// envelope is the persisted form: vectors, rows and manifest travel together
// so they can never be loaded out of step.
type envelope struct {
	Manifest Manifest
	Vectors  [][]float32
	Rows     []domain.FlatRecord
}

// Save writes the snapshot to path. The file is written to a temp name and
// renamed so a crashed save never leaves a partial artifact behind.
func (ix *FlatIndex) Save(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".index-*")
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := gob.NewEncoder(tmp)
	err = enc.Encode(envelope{Manifest: ix.manifest, Vectors: ix.vectors, Rows: ix.rows})
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("install snapshot: %w", err)
	}
	return nil
}

// Load reads a snapshot from path and validates its internal consistency.
// Any disagreement between manifest, vectors and rows is ErrCorruptIndex —
// a serving process must refuse to start against such a snapshot.
func Load(path string) (*FlatIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	var env envelope
	if err := gob.NewDecoder(f).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", port.ErrCorruptIndex, path, err)
	}

	if len(env.Vectors) != len(env.Rows) {
		return nil, fmt.Errorf("%w: %d vectors but %d rows",
			port.ErrCorruptIndex, len(env.Vectors), len(env.Rows))
	}
	if env.Manifest.Count != len(env.Vectors) {
		return nil, fmt.Errorf("%w: manifest count %d, found %d",
			port.ErrCorruptIndex, env.Manifest.Count, len(env.Vectors))
	}
	for i, vec := range env.Vectors {
		if len(vec) != env.Manifest.Dimension {
			return nil, fmt.Errorf("%w: vector %d has dimension %d, manifest says %d",
				port.ErrCorruptIndex, i, len(vec), env.Manifest.Dimension)
		}
	}

	return &FlatIndex{manifest: env.Manifest, vectors: env.Vectors, rows: env.Rows}, nil
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func normalize(vec []float32) []float32 {
	out := make([]float32, len(vec))
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		copy(out, vec)
		return out
	}
	for i, v := range vec {
		out[i] = float32(float64(v) / norm)
	}
	return out
}
