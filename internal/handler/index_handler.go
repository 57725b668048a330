package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/dzinly/matsearch/internal/domain"
	"github.com/dzinly/matsearch/internal/service"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// IndexHandler triggers background index rebuilds. The rebuild produces a
// fresh snapshot that is swapped in atomically once complete; the serving
// index is never mutated in place.
type IndexHandler struct {
	indexService  *service.IndexService
	searchService *service.SearchService
	tracker       *JobTracker
	buildOptions  service.BuildOptions
}

// NewIndexHandler creates a new index handler. opts supplies the batch size,
// throttle and snapshot path used for every rebuild.
func NewIndexHandler(indexService *service.IndexService, searchService *service.SearchService, tracker *JobTracker, opts service.BuildOptions) *IndexHandler {
	return &IndexHandler{
		indexService:  indexService,
		searchService: searchService,
		tracker:       tracker,
		buildOptions:  opts,
	}
}

// Register sets up index routes.
func (h *IndexHandler) Register(router fiber.Router) {
	index := router.Group("/index")
	index.Post("/rebuild", h.Rebuild)
	index.Get("/manifest", h.Manifest)
}

// Rebuild starts a background snapshot build and returns its job id.
func (h *IndexHandler) Rebuild(c fiber.Ctx) error {
	var body struct {
		Filters domain.FilterSpec `json:"filters,omitempty"`
		Limit   int64             `json:"limit,omitempty"`
	}
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
	}
	if err := body.Filters.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	jobID := uuid.NewString()
	h.tracker.CreateJob(jobID)

	opts := h.buildOptions
	opts.Filters = body.Filters
	if body.Limit > 0 {
		opts.Limit = body.Limit
	}
	opts.Progress = func(done, total int) {
		h.tracker.UpdateProgress(jobID, done, total)
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
		defer cancel()

		ix, err := h.indexService.BuildSnapshot(ctx, opts)
		if err != nil {
			slog.Error("index rebuild failed", "job_id", jobID, "error", err)
			h.tracker.FailJob(jobID, err)
			return
		}
		h.searchService.Swap(ix)
		h.tracker.CompleteJob(jobID, ix.Manifest().SnapshotID)
	}()

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"job_id": jobID})
}

// Manifest returns the provenance of the serving snapshot.
func (h *IndexHandler) Manifest(c fiber.Ctx) error {
	ix := h.searchService.Current()
	if ix == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "no index snapshot loaded"})
	}
	return c.JSON(ix.Manifest())
}
