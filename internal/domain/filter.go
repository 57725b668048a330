package domain

import (
	"errors"
	"fmt"
	"maps"
	"math"
)

// ErrInvalidFilterSpec rejects a malformed filter before any query runs.
var ErrInvalidFilterSpec = errors.New("invalid filter spec")

// FieldFilter constrains a single field: either an allowed-value set or an
// inclusive numeric range. A filter with neither is ambiguous and rejected.
// Allowed values keep their original type (string, number) so that gateways
// can translate them against typed store fields such as color.family_id.
type FieldFilter struct {
	Any []any    `json:"any,omitempty"`
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// FilterSpec maps flat field names to their constraints. It is used both for
// store-side filtering (translated by the catalog gateway) and for in-memory
// post-filtering of search candidates.
type FilterSpec map[string]FieldFilter

// Validate fails fast on specs that must never be silently interpreted:
// an empty allowed-value set, an inverted range, or a constraint with neither.
func (s FilterSpec) Validate() error {
	for field, f := range s {
		hasSet := f.Any != nil
		hasRange := f.Min != nil || f.Max != nil
		if !hasSet && !hasRange {
			return fmt.Errorf("%w: field %q has no constraint", ErrInvalidFilterSpec, field)
		}
		if hasSet && len(f.Any) == 0 {
			return fmt.Errorf("%w: field %q has an empty allowed-value set", ErrInvalidFilterSpec, field)
		}
		if f.Min != nil && f.Max != nil && *f.Min > *f.Max {
			return fmt.Errorf("%w: field %q range lower bound %v exceeds upper bound %v",
				ErrInvalidFilterSpec, field, *f.Min, *f.Max)
		}
	}
	return nil
}

// FilterByExactFields keeps the candidates whose fields match the spec's
// allowed-value sets. List fields match on non-empty intersection, scalar
// fields on membership. A field absent from a candidate never rejects it —
// records that lack the key are kept, which materially affects result counts
// and must stay that way. Range-only constraints are a store-side concern and
// are ignored here. Input order is preserved.
func FilterByExactFields(candidates []FlatRecord, spec FilterSpec) []FlatRecord {
	out := make([]FlatRecord, 0, len(candidates))
	for _, rec := range candidates {
		if matchesExactFields(rec, spec) {
			out = append(out, rec)
		}
	}
	return out
}

func matchesExactFields(rec FlatRecord, spec FilterSpec) bool {
	for field, f := range spec {
		if len(f.Any) == 0 {
			continue
		}
		allowed := make([]string, len(f.Any))
		for i, v := range f.Any {
			allowed[i] = fmt.Sprint(v)
		}
		val, ok := rec[field]
		if !ok {
			continue
		}
		switch v := val.(type) {
		case []string:
			if !intersects(v, allowed) {
				return false
			}
		case []any:
			if !intersects(rec.Strings(field), allowed) {
				return false
			}
		case string:
			if !contains(allowed, v) {
				return false
			}
		default:
			if !contains(allowed, fmt.Sprint(v)) {
				return false
			}
		}
	}
	return true
}

// FilterByColorDistance keeps the candidates whose LAB color lies within the
// Delta-E threshold of baseLab. A candidate without a LAB triple is compared
// as (0,0,0) rather than skipped. Retained records come back as copies
// annotated with their distance under the "delta_e" key, rounded to 2 decimal
// places; the input records are never mutated, since candidates are typically
// rows of a shared index snapshot.
func FilterByColorDistance(baseLab []float64, candidates []FlatRecord, threshold float64) []FlatRecord {
	out := make([]FlatRecord, 0, len(candidates))
	for _, rec := range candidates {
		dist := LabDistance(baseLab, rec.Floats("lab"))
		if dist <= threshold {
			annotated := maps.Clone(rec)
			annotated["delta_e"] = math.Round(dist*100) / 100
			out = append(out, annotated)
		}
	}
	return out
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func intersects(a, b []string) bool {
	for _, v := range a {
		if contains(b, v) {
			return true
		}
	}
	return false
}
