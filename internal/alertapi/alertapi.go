// Package alertapi is AlertAPI's HTTP surface, per spec.md §4.J: alert
// rule CRUD against RuleStore, and metric cache submission direct to
// HotCache (bypassing IngestQueues, since AlertAPI's writes must be
// immediately visible to the evaluator). Handlers follow the teacher's
// fiber handler shape (NewXHandler constructor, method-per-route).
package alertapi

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/moniflow/backend/internal/models"
)

// CacheWriter is the subset of hotcache.Store the handler needs.
type CacheWriter interface {
	Put(ctx context.Context, sample models.MetricSample) error
}

// RuleStore is the subset of rulestore.Store the handler needs.
type RuleStore interface {
	Create(ctx context.Context, rule *models.AlertRule) error
	Get(ctx context.Context, ruleID string) (*models.AlertRule, error)
	List(ctx context.Context) ([]models.AlertRule, error)
	Delete(ctx context.Context, ruleID string) error
}

// Handler serves AlertAPI's rule CRUD and metric submission routes.
type Handler struct {
	rules RuleStore
	cache CacheWriter
}

// NewHandler builds an AlertAPI handler over the rule store and hot
// cache.
func NewHandler(rules RuleStore, cache CacheWriter) *Handler {
	return &Handler{rules: rules, cache: cache}
}

// RegisterRoutes wires the handler's methods onto app.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Post("/alerts", h.CreateRule)
	app.Get("/alerts", h.ListRules)
	app.Get("/alerts/:id", h.GetRule)
	app.Delete("/alerts/:id", h.DeleteRule)
	app.Post("/metrics", h.PostMetrics)
}

// CreateRule creates a rule from a rule-create payload (§6), returning
// {rule_id}.
func (h *Handler) CreateRule(c *fiber.Ctx) error {
	var req models.AlertRuleCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "malformed request body"})
	}

	rule, err := req.ToAlertRule()
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	if err := h.rules.Create(c.Context(), rule); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"rule_id": rule.ID})
}

// GetRule returns a rule by id, or 404.
func (h *Handler) GetRule(c *fiber.Ctx) error {
	rule, err := h.rules.Get(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, models.ErrRuleNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(rule)
}

// ListRules returns every stored rule.
func (h *Handler) ListRules(c *fiber.Ctx) error {
	rules, err := h.rules.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	if rules == nil {
		rules = []models.AlertRule{}
	}
	return c.JSON(rules)
}

// DeleteRule removes a rule by id.
func (h *Handler) DeleteRule(c *fiber.Ctx) error {
	if _, err := h.rules.Get(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, models.ErrRuleNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	if err := h.rules.Delete(c.Context(), c.Params("id")); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}

// PostMetrics accepts either a single sample or a list of samples and
// writes each directly to the hot cache, per spec.md §4.J.
func (h *Handler) PostMetrics(c *fiber.Ctx) error {
	samples, err := parseSamples(c.Body())
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	for _, sample := range samples {
		if err := sample.Validate(); err != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
		}
	}

	for _, sample := range samples {
		if err := h.cache.Put(c.Context(), sample); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
		}
	}
	return c.JSON(fiber.Map{"status": "stored", "count": len(samples)})
}
