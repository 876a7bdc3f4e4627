// Package collectorapi is CollectorAPI's HTTP surface, per spec.md
// §4.I: metric/log ingestion into IngestQueues and a thin query
// passthrough to the time-series store. Handlers follow the teacher's
// fiber handler shape (NewXHandler constructor, method-per-route).
package collectorapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/moniflow/backend/internal/ingestqueue"
	"github.com/moniflow/backend/internal/models"
	"github.com/moniflow/backend/internal/tsdb"
)

// Handler serves CollectorAPI's ingestion and query routes.
type Handler struct {
	queues *ingestqueue.Queues
	reader tsdb.Reader
}

// NewHandler builds a CollectorAPI handler over the shared ingest
// queues and a query-capable time-series store client.
func NewHandler(queues *ingestqueue.Queues, reader tsdb.Reader) *Handler {
	return &Handler{queues: queues, reader: reader}
}

// RegisterRoutes wires the handler's methods onto app.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Post("/metrics", h.PostMetrics)
	app.Get("/metrics", h.GetMetrics)
	app.Post("/logs", h.PostLogs)
	app.Get("/logs", h.GetLogs)
}

// PostMetrics enqueues a single metric sample.
func (h *Handler) PostMetrics(c *fiber.Ctx) error {
	var sample models.MetricSample
	if err := c.BodyParser(&sample); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "malformed request body"})
	}
	if err := sample.Validate(); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}
	if err := h.queues.Metrics.Put(sample); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "queued"})
}

// PostLogs enqueues a single log event.
func (h *Handler) PostLogs(c *fiber.Ctx) error {
	var event models.LogEvent
	if err := c.BodyParser(&event); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "malformed request body"})
	}
	if err := event.Validate(); err != nil {
		if errors.Is(err, models.ErrInvalidLevel) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}
	if err := h.queues.Logs.Put(event); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "queued"})
}

// GetMetrics builds a backend query from filter params and forwards it
// to the time-series store, returning {query, results} per spec.md
// §4.I. The query string's exact shape is a tsdb implementation
// detail; only this response envelope is public.
func (h *Handler) GetMetrics(c *fiber.Ctx) error {
	query := buildMetricQuery(c)
	rows, err := h.query(c, query)
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"query": query, "results": rows})
}

// GetLogs builds a backend query, then groups rows by service,
// optionally nesting by level when a level filter is present, per
// group_logs_by_service's original semantics.
func (h *Handler) GetLogs(c *fiber.Ctx) error {
	level := c.Query("level")
	query := buildLogQuery(c)
	rows, err := h.query(c, query)
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"query": query, "results": groupLogsByService(rows, level)})
}

func (h *Handler) query(c *fiber.Ctx, fluxQuery string) ([]map[string]string, error) {
	raw, err := h.reader.Query(c.Context(), fluxQuery)
	if err != nil {
		return nil, err
	}
	return parseCSVRows(raw), nil
}
