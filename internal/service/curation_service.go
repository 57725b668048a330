package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/dzinly/matsearch/internal/domain"
	"github.com/dzinly/matsearch/internal/port"
)

var slugPattern = regexp.MustCompile(`[^a-z0-9-]`)

// CurationRow is one pending record prepared for review: the editable fields
// plus its freshly computed profile score and hints.
type CurationRow struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Slug         string   `json:"slug"`
	CategoryName string   `json:"material_category_name"`
	BrandName    string   `json:"material_brand_name"`
	StyleName    string   `json:"material_style_name"`
	Finish       string   `json:"finish"`
	Description  string   `json:"description"`
	ColorHex     string   `json:"color_hex"`
	Tags         []string `json:"tags"`
	SegmentTypes []string `json:"segment_types"`

	ProfileStrength float64  `json:"profile_strength"`
	Hints           []string `json:"hints"`
}

// PromoteEntry is one reviewed row submitted for promotion. Transfer=false
// skips the entry without touching the source document.
type PromoteEntry struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Finish       string   `json:"finish"`
	Description  string   `json:"description"`
	ColorHex     string   `json:"color_hex"`
	Tags         []string `json:"tags"`
	SegmentTypes []string `json:"segment_types"`
	Transfer     bool     `json:"transfer"`
}

// PromoteResult counts the outcome of a promotion batch.
type PromoteResult struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
}

// CurationService drives the data-curation workflow: preview pending source
// records with their profile scores, then promote reviewed records into the
// curated collection. Profile scores are always recomputed, never read back
// from storage.
type CurationService struct {
	store port.CurationStore
}

// NewCurationService creates a curation service.
func NewCurationService(store port.CurationStore) *CurationService {
	return &CurationService{store: store}
}

// Preview returns up to limit pending records, each scored and annotated.
func (s *CurationService) Preview(ctx context.Context, limit int64) ([]CurationRow, error) {
	pending, err := s.store.ListPending(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending records: %w", err)
	}

	rows := make([]CurationRow, 0, len(pending))
	for _, rec := range pending {
		row := CurationRow{
			ID:           rec.ID.Hex(),
			Title:        rec.Title,
			Slug:         safeSlugify(rec.Title),
			CategoryName: rec.CategoryName,
			BrandName:    rec.BrandName,
			StyleName:    rec.StyleName,
			Finish:       rec.Finish,
			Description:  rec.Description,
			ColorHex:     domain.DefaultColorHex,
			Tags:         rec.Tags,
			SegmentTypes: rec.SegmentTypes,
		}
		if row.Finish == "" {
			row.Finish = "Default"
		}
		if rec.Color != nil && rec.Color.Hex != "" {
			row.ColorHex = rec.Color.Hex
		}

		score := domain.ScoreProfile(domain.FlatRecord{
			"title":         row.Title,
			"description":   row.Description,
			"color_hex":     row.ColorHex,
			"tags":          row.Tags,
			"segment_types": row.SegmentTypes,
		})
		row.ProfileStrength = score.Strength
		row.Hints = score.Hints
		rows = append(rows, row)
	}
	return rows, nil
}

// Promote inserts curated documents for every entry marked for transfer and
// flags the corresponding source records as extracted.
func (s *CurationService) Promote(ctx context.Context, entries []PromoteEntry) (*PromoteResult, error) {
	result := &PromoteResult{}
	for _, entry := range entries {
		if !entry.Transfer {
			result.Skipped++
			continue
		}

		now := time.Now().UTC()
		curated := domain.CatalogRecord{
			Title:        entry.Title,
			Slug:         safeSlugify(entry.Title),
			SKU:          "AUTO-GEN",
			Finish:       entry.Finish,
			Description:  entry.Description,
			Tags:         entry.Tags,
			SegmentTypes: entry.SegmentTypes,
			Color:        defaultColorBlock(entry.ColorHex),
			Audit:        &domain.AuditBlock{CreatedAt: now, UpdatedAt: now},
		}

		if err := s.store.Promote(ctx, entry.ID, curated); err != nil {
			return nil, fmt.Errorf("promote record %s: %w", entry.ID, err)
		}
		result.Inserted++
	}

	slog.Info("curation promotion finished", "inserted", result.Inserted, "skipped", result.Skipped)
	return result, nil
}

// Stats reports curation progress over the source collection.
func (s *CurationService) Stats(ctx context.Context) (domain.CurationStats, error) {
	return s.store.Stats(ctx)
}

// defaultColorBlock fills the color block for a promoted record. Until a real
// color is curated, the neutral white profile is used.
func defaultColorBlock(hex string) *domain.ColorBlock {
	if hex == "" {
		hex = domain.DefaultColorHex
	}
	return &domain.ColorBlock{
		Hex:                hex,
		RGB:                []float64{255, 255, 255},
		Lab:                []float64{100, 0, 0},
		LRV:                85,
		FamilyID:           1,
		FamilyName:         "White",
		PrimaryUndertone:   "Neutral",
		SecondaryUndertone: "Neutral",
		WarmthScore:        0,
	}
}

// safeSlugify lowercases the title and collapses everything that is not
// alphanumeric or a dash.
func safeSlugify(title string) string {
	slug := strings.ReplaceAll(strings.ToLower(title), " ", "-")
	slug = slugPattern.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "untitled"
	}
	return slug
}
