package handler

import (
	"errors"

	"github.com/dzinly/matsearch/internal/domain"
	"github.com/dzinly/matsearch/internal/port"
	"github.com/dzinly/matsearch/internal/service"
	"github.com/gofiber/fiber/v3"
)

// SearchHandler handles material search endpoints.
type SearchHandler struct {
	searchService *service.SearchService
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(searchService *service.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// Register sets up search routes.
func (h *SearchHandler) Register(router fiber.Router) {
	router.Post("/search", h.Search)
	router.Get("/materials/:id", h.GetMaterial)
}

// Search embeds the query text and returns filtered top-K matches.
// A failed search is reported as unavailable — distinct from an empty result,
// which is a successful response.
func (h *SearchHandler) Search(c fiber.Ctx) error {
	var req service.SearchRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "query is required"})
	}

	resp, err := h.searchService.Search(c.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidFilterSpec):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, port.ErrSearchUnavailable):
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "search unavailable"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.JSON(resp)
}

// GetMaterial returns the indexed metadata row for one material.
func (h *SearchHandler) GetMaterial(c fiber.Ctx) error {
	id := c.Params("id")

	rows, err := h.searchService.FetchByIDs([]string{id})
	if err != nil {
		if errors.Is(err, port.ErrSearchUnavailable) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "search unavailable"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if len(rows) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "material not found"})
	}

	return c.JSON(rows[0])
}
