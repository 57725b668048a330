package store

import (
	"testing"

	"github.com/dzinly/matsearch/internal/domain"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func f64(v float64) *float64 { return &v }

func TestTranslateFilter(t *testing.T) {
	spec := domain.FilterSpec{
		"family_id": {Any: []any{3, 7}},
		"finish":    {Any: []any{"Matte", "Satin"}},
		"lrv":       {Min: f64(20), Max: f64(80)},
		"voc_level": {Max: f64(50)},
	}

	query := translateFilter(spec)

	// Flat names are rewritten to their document paths; numeric allowed
	// values stay numbers so they can match integer fields.
	assert.Equal(t, bson.M{"$in": []any{3, 7}}, query["color.family_id"])
	assert.Equal(t, bson.M{"$in": []any{"Matte", "Satin"}}, query["finish"])
	assert.Equal(t, bson.M{"$gte": 20.0, "$lte": 80.0}, query["lrv"])
	assert.Equal(t, bson.M{"$lte": 50.0}, query["performance.voc_level"])
	assert.Len(t, query, 4)
}

func TestTranslateFilterEmptySpec(t *testing.T) {
	assert.Equal(t, bson.M{}, translateFilter(domain.FilterSpec{}))
}
