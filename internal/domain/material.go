package domain

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CatalogRecord is a single material/product document as stored in the catalog.
// Nested blocks are pointers because partially filled documents are the norm:
// a missing block is a modeled case, and Project substitutes defaults for it.
type CatalogRecord struct {
	ID           primitive.ObjectID `json:"id"            bson:"_id,omitempty"`
	Title        string             `json:"title"         bson:"title"`
	Slug         string             `json:"slug"          bson:"slug"`
	SKU          string             `json:"sku"           bson:"sku"`
	CategoryName string             `json:"material_category_name" bson:"material_category_name"`
	BrandName    string             `json:"material_brand_name"    bson:"material_brand_name"`
	StyleName    string             `json:"material_style_name"    bson:"material_style_name"`

	Color       *ColorBlock       `json:"color,omitempty"       bson:"color,omitempty"`
	Finish      string            `json:"finish"                bson:"finish"`
	CoatingType string            `json:"coating_type"          bson:"coating_type"`

	Certifications []string          `json:"certifications" bson:"certifications"`
	Tags           []string          `json:"tags"           bson:"tags"`
	Performance    *PerformanceBlock `json:"performance,omitempty" bson:"performance,omitempty"`
	Application    *ApplicationBlock `json:"application,omitempty" bson:"application,omitempty"`
	Pricing        *PricingBlock     `json:"pricing,omitempty"     bson:"pricing,omitempty"`
	Logistics      *LogisticsBlock   `json:"logistics,omitempty"   bson:"logistics,omitempty"`

	Description  string      `json:"description"   bson:"description"`
	ImageURL     string      `json:"image_url"     bson:"image_url"`
	SegmentTypes []string    `json:"segment_types" bson:"segment_types"`
	Audit        *AuditBlock `json:"audit,omitempty" bson:"audit,omitempty"`

	// Extracted marks a source document as already promoted by curation.
	Extracted bool `json:"extracted" bson:"extracted"`
}

// ColorBlock carries the perceptual color data of a material.
type ColorBlock struct {
	Hex                string    `json:"hex"      bson:"hex"`
	RGB                []float64 `json:"rgb"      bson:"rgb"`
	Lab                []float64 `json:"lab"      bson:"lab"`
	LRV                float64   `json:"lrv"      bson:"lrv"`
	FamilyID           int       `json:"family_id"   bson:"family_id"`
	FamilyName         string    `json:"family_name" bson:"family_name"`
	PrimaryUndertone   string    `json:"primary_undertone"   bson:"primary_undertone"`
	SecondaryUndertone string    `json:"secondary_undertone" bson:"secondary_undertone"`
	WarmthScore        float64   `json:"warmth_score" bson:"warmth_score"`
}

// PerformanceBlock holds durability and emission characteristics.
type PerformanceBlock struct {
	VOCLevel          float64 `json:"voc_level"           bson:"voc_level"`
	MildewResistant   bool    `json:"mildew_resistant"    bson:"mildew_resistant"`
	UVResistanceYears int     `json:"uv_resistance_years" bson:"uv_resistance_years"`
	AdhesionRatingPSI float64 `json:"adhesion_rating_psi" bson:"adhesion_rating_psi"`
}

// ApplicationBlock describes how the material is applied.
type ApplicationBlock struct {
	RecommendedSubstrates []string `json:"recommended_substrates" bson:"recommended_substrates"`
	CoverageSqftPerGal    float64  `json:"coverage_sqft_per_gal"  bson:"coverage_sqft_per_gal"`
}

// PricingBlock holds price points.
type PricingBlock struct {
	PerGallon float64 `json:"per_gallon" bson:"per_gallon"`
	PerSqft   float64 `json:"per_sqft"   bson:"per_sqft"`
}

// LogisticsBlock holds availability data.
type LogisticsBlock struct {
	InStock            bool     `json:"in_stock"            bson:"in_stock"`
	LeadTimeDays       int      `json:"lead_time_days"      bson:"lead_time_days"`
	RegionAvailability []string `json:"region_availability" bson:"region_availability"`
	ContainerSizes     []string `json:"container_sizes"     bson:"container_sizes"`
}

// AuditBlock holds record timestamps.
type AuditBlock struct {
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// FlatRecord is the flat attribute mapping produced by Project. Every key
// defined by the projection is always present with a defined default, so a
// missing key only occurs for records that never went through Project — the
// filter engine treats that case as unconstrained.
type FlatRecord map[string]any

// Str returns the string value for key, or "" when absent or not a string.
func (r FlatRecord) Str(key string) string {
	s, _ := r[key].(string)
	return s
}

// Strings returns the string-list value for key, or nil when absent.
func (r FlatRecord) Strings(key string) []string {
	switch v := r[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			out = append(out, fmt.Sprint(e))
		}
		return out
	}
	return nil
}

// Float returns the numeric value for key, or 0 when absent or non-numeric.
func (r FlatRecord) Float(key string) float64 {
	switch v := r[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	}
	return 0
}

// Floats returns the float-list value for key, or nil when absent.
func (r FlatRecord) Floats(key string) []float64 {
	switch v := r[key].(type) {
	case []float64:
		return v
	case []any:
		out := make([]float64, 0, len(v))
		for _, e := range v {
			f, _ := e.(float64)
			out = append(out, f)
		}
		return out
	}
	return nil
}

// Project flattens a catalog record into its flat attribute mapping.
// Total: missing nested blocks default to empty strings, empty lists or zero.
func Project(rec CatalogRecord) FlatRecord {
	color := rec.Color
	if color == nil {
		color = &ColorBlock{}
	}
	perf := rec.Performance
	if perf == nil {
		perf = &PerformanceBlock{}
	}
	app := rec.Application
	if app == nil {
		app = &ApplicationBlock{}
	}
	pricing := rec.Pricing
	if pricing == nil {
		pricing = &PricingBlock{}
	}
	logistics := rec.Logistics
	if logistics == nil {
		logistics = &LogisticsBlock{}
	}
	audit := rec.Audit
	if audit == nil {
		audit = &AuditBlock{}
	}

	id := ""
	if !rec.ID.IsZero() {
		id = rec.ID.Hex()
	}

	return FlatRecord{
		"id":                     id,
		"title":                  rec.Title,
		"slug":                   rec.Slug,
		"sku":                    rec.SKU,
		"material_category_name": rec.CategoryName,
		"material_brand_name":    rec.BrandName,
		"material_style_name":    rec.StyleName,

		"hex":                 color.Hex,
		"rgb":                 emptyIfNilFloats(color.RGB),
		"lab":                 emptyIfNilFloats(color.Lab),
		"lrv":                 color.LRV,
		"family_id":           color.FamilyID,
		"family_name":         color.FamilyName,
		"primary_undertone":   color.PrimaryUndertone,
		"secondary_undertone": color.SecondaryUndertone,
		"warmth_score":        color.WarmthScore,

		"finish":         rec.Finish,
		"coating_type":   rec.CoatingType,
		"certifications": emptyIfNil(rec.Certifications),
		"tags":           emptyIfNil(rec.Tags),

		"voc_level":           perf.VOCLevel,
		"mildew_resistant":    perf.MildewResistant,
		"uv_resistance_years": perf.UVResistanceYears,
		"adhesion_rating_psi": perf.AdhesionRatingPSI,

		"recommended_substrates": emptyIfNil(app.RecommendedSubstrates),
		"coverage_sqft_per_gal":  app.CoverageSqftPerGal,

		"price_per_gallon": pricing.PerGallon,
		"price_per_sqft":   pricing.PerSqft,

		"in_stock":            logistics.InStock,
		"lead_time_days":      logistics.LeadTimeDays,
		"region_availability": emptyIfNil(logistics.RegionAvailability),
		"container_sizes":     emptyIfNil(logistics.ContainerSizes),

		"description":   rec.Description,
		"image_url":     rec.ImageURL,
		"segment_types": emptyIfNil(rec.SegmentTypes),

		"created_at": audit.CreatedAt.UTC().Format(time.RFC3339),
		"updated_at": audit.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// BuildSearchText derives the canonical embedding input for a flat record.
// Field set, labels, order and separator are fixed: the same record must
// produce a byte-identical search text across rebuilds.
func BuildSearchText(r FlatRecord) string {
	parts := []string{
		"TITLE: " + r.Str("title"),
		"BRAND: " + r.Str("material_brand_name"),
		"CATEGORY: " + r.Str("material_category_name"),
		"STYLE: " + r.Str("material_style_name"),
		"HEX: " + r.Str("hex"),
		"FAMILY: " + r.Str("family_name"),
		"FINISH: " + r.Str("finish"),
		"PRIMARY_UNDERTONE: " + r.Str("primary_undertone"),
		"SECONDARY_UNDERTONE: " + r.Str("secondary_undertone"),
		"TAGS: " + strings.Join(r.Strings("tags"), ","),
		"SEGMENTS: " + strings.Join(r.Strings("segment_types"), ","),
		"DESC: " + r.Str("description"),
	}
	return strings.Join(parts, " || ")
}

// Hit pairs a flat record with its similarity score from a vector query.
type Hit struct {
	Record FlatRecord `json:"record"`
	Score  float64    `json:"score"`
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func emptyIfNilFloats(s []float64) []float64 {
	if s == nil {
		return []float64{}
	}
	return s
}
