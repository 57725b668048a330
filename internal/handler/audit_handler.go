package handler

import (
	"strconv"

	"github.com/dzinly/matsearch/internal/adapter/store"
	"github.com/gofiber/fiber/v3"
)

// AuditHandler exposes the request audit trail.
type AuditHandler struct {
	store *store.MongoStore
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(store *store.MongoStore) *AuditHandler {
	return &AuditHandler{store: store}
}

// Register sets up audit routes.
func (h *AuditHandler) Register(router fiber.Router) {
	router.Get("/audit", h.List)
}

// List returns the most recent audit entries.
func (h *AuditHandler) List(c fiber.Ctx) error {
	limit, _ := strconv.ParseInt(c.Query("limit", "50"), 10, 64)

	entries, err := h.store.RecentAudit(c.Context(), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"entries": entries, "count": len(entries)})
}
