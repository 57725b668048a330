package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"

	"github.com/dzinly/matsearch/internal/port"
)

// OllamaEndpointConfig holds the configuration for an Ollama embed endpoint.
type OllamaEndpointConfig struct {
	BaseURL string // e.g. http://localhost:11434 or https://api.ollama.com
	Model   string // e.g. bge-m3
	Token   string // Bearer token for Ollama Cloud (empty = no auth)
}

// OllamaEmbedder implements port.Embedder using the Ollama REST API.
// Every returned vector is validated against the configured dimension,
// checked for non-finite components and L2-normalized before return.
type OllamaEmbedder struct {
	cfg        OllamaEndpointConfig
	dimension  int
	httpClient *http.Client
}

// NewOllamaEmbedder creates an Ollama-backed embedder. dimension is the
// expected vector length; responses of any other length are rejected.
func NewOllamaEmbedder(cfg OllamaEndpointConfig, dimension int) *OllamaEmbedder {
	return &OllamaEmbedder{
		cfg:        cfg,
		dimension:  dimension,
		httpClient: &http.Client{},
	}
}

// ModelName returns the embedding model identifier.
func (o *OllamaEmbedder) ModelName() string {
	return o.cfg.Model
}

// Embed generates a unit-length vector embedding for the given text.
func (o *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := o.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch generates embeddings for multiple texts in one call.
func (o *OllamaEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	payload := map[string]interface{}{
		"model": o.cfg.Model,
		"input": texts,
	}

	body, err := o.post(ctx, "/api/embed", payload)
	if err != nil {
		return nil, &port.EncodingError{Model: o.cfg.Model, Err: err}
	}

	var resp struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &port.EncodingError{Model: o.cfg.Model, Err: fmt.Errorf("decode response: %w", err)}
	}

	if len(resp.Embeddings) != len(texts) {
		return nil, &port.EncodingError{
			Model: o.cfg.Model,
			Err:   fmt.Errorf("got %d embeddings for %d inputs", len(resp.Embeddings), len(texts)),
		}
	}

	for i, vec := range resp.Embeddings {
		if err := o.validate(vec); err != nil {
			return nil, &port.EncodingError{Model: o.cfg.Model, Err: fmt.Errorf("embedding %d: %w", i, err)}
		}
		normalizeL2(vec)
	}

	return resp.Embeddings, nil
}

// validate rejects malformed vectors: wrong dimensionality, non-finite
// components, or a zero vector that cannot be normalized.
func (o *OllamaEmbedder) validate(vec []float32) error {
	if o.dimension > 0 && len(vec) != o.dimension {
		return fmt.Errorf("dimension %d, expected %d", len(vec), o.dimension)
	}
	var sum float64
	for _, v := range vec {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("non-finite component %v", v)
		}
		sum += f * f
	}
	if sum == 0 {
		return fmt.Errorf("zero vector")
	}
	return nil
}

// normalizeL2 scales the vector to unit length in place.
func normalizeL2(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return
	}
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
}

// post is a helper for POST requests to the Ollama endpoint (with optional bearer token).
func (o *OllamaEmbedder) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.cfg.BaseURL+path, bytes.NewReader(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if o.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+o.cfg.Token)
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ollama API error (%d): %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}
