package handler

import (
	"strconv"

	"github.com/dzinly/matsearch/internal/service"
	"github.com/gofiber/fiber/v3"
)

// CurationHandler exposes the curation workflow: preview pending records with
// their profile scores, promote reviewed ones, and report progress.
type CurationHandler struct {
	curationService *service.CurationService
}

// NewCurationHandler creates a new curation handler.
func NewCurationHandler(curationService *service.CurationService) *CurationHandler {
	return &CurationHandler{curationService: curationService}
}

// Register sets up curation routes.
func (h *CurationHandler) Register(router fiber.Router) {
	curation := router.Group("/curation")
	curation.Get("/preview", h.Preview)
	curation.Post("/promote", h.Promote)
	curation.Get("/stats", h.Stats)
}

// Preview returns pending source records scored for completeness.
func (h *CurationHandler) Preview(c fiber.Ctx) error {
	limit, _ := strconv.ParseInt(c.Query("limit", "100"), 10, 64)

	rows, err := h.curationService.Preview(c.Context(), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"rows": rows, "count": len(rows)})
}

// Promote transfers reviewed records into the curated collection.
func (h *CurationHandler) Promote(c fiber.Ctx) error {
	var body struct {
		Entries []service.PromoteEntry `json:"entries"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if len(body.Entries) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "entries are required"})
	}

	result, err := h.curationService.Promote(c.Context(), body.Entries)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(result)
}

// Stats reports total/transferred/pending counts for the source collection.
func (h *CurationHandler) Stats(c fiber.Ctx) error {
	stats, err := h.curationService.Stats(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(stats)
}
