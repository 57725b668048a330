package ai

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dzinly/matsearch/internal/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOllama serves canned /api/embed responses.
func fakeOllama(t *testing.T, embeddings [][]float32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embed", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		_ = json.NewEncoder(w).Encode(map[string]any{"embeddings": embeddings})
	}))
}

func TestEmbedBatchNormalizes(t *testing.T) {
	srv := fakeOllama(t, [][]float32{{3, 4, 0}})
	defer srv.Close()

	e := NewOllamaEmbedder(OllamaEndpointConfig{BaseURL: srv.URL, Model: "bge-m3"}, 3)

	vecs, err := e.EmbedBatch(context.Background(), []string{"matte white paint"})
	require.NoError(t, err)
	require.Len(t, vecs, 1)

	assert.InDelta(t, 0.6, float64(vecs[0][0]), 1e-6)
	assert.InDelta(t, 0.8, float64(vecs[0][1]), 1e-6)

	var norm float64
	for _, v := range vecs[0] {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, norm, 1e-6)
}

func TestEmbedBatchRejectsWrongDimension(t *testing.T) {
	srv := fakeOllama(t, [][]float32{{1, 0}})
	defer srv.Close()

	e := NewOllamaEmbedder(OllamaEndpointConfig{BaseURL: srv.URL, Model: "bge-m3"}, 3)

	_, err := e.EmbedBatch(context.Background(), []string{"x"})
	require.Error(t, err)
	assert.True(t, port.IsEncodingError(err))
}

func TestValidateRejectsNonFinite(t *testing.T) {
	// encoding/json cannot carry NaN over the wire, so exercise the
	// validator directly.
	e := NewOllamaEmbedder(OllamaEndpointConfig{Model: "bge-m3"}, 0)

	assert.Error(t, e.validate([]float32{1, float32(math.NaN()), 0}))
	assert.Error(t, e.validate([]float32{1, float32(math.Inf(1)), 0}))
	assert.NoError(t, e.validate([]float32{1, 0, 0}))
}

func TestEmbedBatchRejectsZeroVector(t *testing.T) {
	srv := fakeOllama(t, [][]float32{{0, 0, 0}})
	defer srv.Close()

	e := NewOllamaEmbedder(OllamaEndpointConfig{BaseURL: srv.URL, Model: "bge-m3"}, 3)

	_, err := e.EmbedBatch(context.Background(), []string{"x"})
	require.Error(t, err)
	assert.True(t, port.IsEncodingError(err))
}

func TestEmbedBatchCountMismatch(t *testing.T) {
	srv := fakeOllama(t, [][]float32{{1, 0, 0}})
	defer srv.Close()

	e := NewOllamaEmbedder(OllamaEndpointConfig{BaseURL: srv.URL, Model: "bge-m3"}, 3)

	_, err := e.EmbedBatch(context.Background(), []string{"one", "two"})
	require.Error(t, err)
	assert.True(t, port.IsEncodingError(err))
}

func TestEmbedBatchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	e := NewOllamaEmbedder(OllamaEndpointConfig{BaseURL: srv.URL, Model: "bge-m3"}, 3)

	_, err := e.EmbedBatch(context.Background(), []string{"x"})
	require.Error(t, err)
	assert.True(t, port.IsEncodingError(err))
}

func TestEmbedSendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{"embeddings": [][]float32{{1, 0, 0}}})
	}))
	defer srv.Close()

	e := NewOllamaEmbedder(OllamaEndpointConfig{BaseURL: srv.URL, Model: "bge-m3", Token: "secret"}, 3)

	vec, err := e.Embed(context.Background(), "x")
	require.NoError(t, err)
	assert.Len(t, vec, 3)
}
