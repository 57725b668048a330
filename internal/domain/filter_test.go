package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

func TestFilterSpecValidate(t *testing.T) {
	tests := []struct {
		name    string
		spec    FilterSpec
		wantErr bool
	}{
		{"empty spec", FilterSpec{}, false},
		{"allowed-value set", FilterSpec{"finish": {Any: []any{"Matte"}}}, false},
		{"numeric range", FilterSpec{"lrv": {Min: f64(20), Max: f64(80)}}, false},
		{"half-open range", FilterSpec{"voc_level": {Max: f64(50)}}, false},
		{"no constraint", FilterSpec{"finish": {}}, true},
		{"empty allowed-value set", FilterSpec{"finish": {Any: []any{}}}, true},
		{"inverted range", FilterSpec{"lrv": {Min: f64(80), Max: f64(20)}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidFilterSpec)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestFilterByExactFields(t *testing.T) {
	matte := FlatRecord{"id": "a", "finish": "Matte", "tags": []string{"warm", "neutral"}}
	gloss := FlatRecord{"id": "b", "finish": "Gloss", "tags": []string{"bold"}}
	bare := FlatRecord{"id": "c"} // no finish, no tags

	t.Run("scalar membership", func(t *testing.T) {
		out := FilterByExactFields([]FlatRecord{matte, gloss}, FilterSpec{
			"finish": {Any: []any{"Matte", "Satin"}},
		})
		require.Len(t, out, 1)
		assert.Equal(t, "a", out[0].Str("id"))
	})

	t.Run("list intersection", func(t *testing.T) {
		out := FilterByExactFields([]FlatRecord{matte, gloss}, FilterSpec{
			"tags": {Any: []any{"neutral", "pastel"}},
		})
		require.Len(t, out, 1)
		assert.Equal(t, "a", out[0].Str("id"))
	})

	t.Run("record without the field is kept", func(t *testing.T) {
		out := FilterByExactFields([]FlatRecord{matte, gloss, bare}, FilterSpec{
			"finish": {Any: []any{"Matte"}},
		})
		require.Len(t, out, 2)
		assert.Equal(t, "a", out[0].Str("id"))
		assert.Equal(t, "c", out[1].Str("id"))
	})

	t.Run("input order preserved", func(t *testing.T) {
		out := FilterByExactFields([]FlatRecord{gloss, bare, matte}, FilterSpec{
			"tags": {Any: []any{"bold", "warm"}},
		})
		require.Len(t, out, 3)
		assert.Equal(t, "b", out[0].Str("id"))
		assert.Equal(t, "c", out[1].Str("id"))
		assert.Equal(t, "a", out[2].Str("id"))
	})

	t.Run("numeric allowed-value set", func(t *testing.T) {
		fam3 := FlatRecord{"id": "f3", "family_id": 3}
		fam9 := FlatRecord{"id": "f9", "family_id": 9}
		out := FilterByExactFields([]FlatRecord{fam3, fam9}, FilterSpec{
			"family_id": {Any: []any{3, 7}},
		})
		require.Len(t, out, 1)
		assert.Equal(t, "f3", out[0].Str("id"))

		// JSON-decoded numbers arrive as float64 and must match the same way.
		out = FilterByExactFields([]FlatRecord{fam3, fam9}, FilterSpec{
			"family_id": {Any: []any{float64(3)}},
		})
		require.Len(t, out, 1)
		assert.Equal(t, "f3", out[0].Str("id"))
	})

	t.Run("range-only constraints are ignored in memory", func(t *testing.T) {
		out := FilterByExactFields([]FlatRecord{matte, gloss}, FilterSpec{
			"lrv": {Min: f64(90)},
		})
		assert.Len(t, out, 2)
	})

	t.Run("empty spec keeps everything", func(t *testing.T) {
		out := FilterByExactFields([]FlatRecord{matte, gloss, bare}, FilterSpec{})
		assert.Len(t, out, 3)
	})
}

func TestFilterByColorDistance(t *testing.T) {
	near := FlatRecord{"id": "near", "lab": []float64{50, 0, 0}}
	far := FlatRecord{"id": "far", "lab": []float64{90, 40, 40}}
	missing := FlatRecord{"id": "missing"} // compared as (0,0,0)

	base := []float64{50, 0, 0}

	out := FilterByColorDistance(base, []FlatRecord{near, far, missing}, 10)
	require.Len(t, out, 1)
	assert.Equal(t, "near", out[0].Str("id"))
	assert.Equal(t, 0.0, out[0]["delta_e"], "retained records carry their rounded distance")

	t.Run("missing lab matches a black base", func(t *testing.T) {
		out := FilterByColorDistance([]float64{0, 0, 0}, []FlatRecord{missing}, 1)
		require.Len(t, out, 1)
		assert.Equal(t, 0.0, out[0]["delta_e"])
	})

	t.Run("distance is rounded to two decimals", func(t *testing.T) {
		rec := FlatRecord{"lab": []float64{50.123, 0, 0}}
		out := FilterByColorDistance([]float64{50, 0, 0}, []FlatRecord{rec}, 1)
		require.Len(t, out, 1)
		assert.Equal(t, 0.12, out[0]["delta_e"])
	})

	t.Run("boundary distance is kept", func(t *testing.T) {
		rec := FlatRecord{"lab": []float64{55, 0, 0}}
		out := FilterByColorDistance([]float64{50, 0, 0}, []FlatRecord{rec}, 5)
		assert.Len(t, out, 1)
	})

	t.Run("input records are never mutated", func(t *testing.T) {
		rec := FlatRecord{"id": "shared", "lab": []float64{50, 0, 0}}
		out := FilterByColorDistance([]float64{52, 0, 0}, []FlatRecord{rec}, 5)
		require.Len(t, out, 1)

		assert.NotContains(t, rec, "delta_e", "annotation must land on a copy")
		assert.Equal(t, 2.0, out[0]["delta_e"])

		// A second pass against another base color sees the clean original.
		out = FilterByColorDistance([]float64{53, 0, 0}, []FlatRecord{rec}, 5)
		require.Len(t, out, 1)
		assert.Equal(t, 3.0, out[0]["delta_e"])
	})
}
