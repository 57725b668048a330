package port

import "context"

// Embedder abstracts the external embedding model. Implementations must
// return L2-normalized vectors of a fixed dimensionality and surface an
// *EncodingError on any failure or malformed response — a failed embedding
// silently replaced with a zero vector would corrupt similarity rankings.
//
// The same text is not guaranteed to produce identical vectors across model
// versions; ModelName pins the version recorded with each index snapshot.
type Embedder interface {
	// ModelName returns the identifier of the embedding model being used.
	ModelName() string

	// Embed generates a unit-length vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts in one call,
	// preserving input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
