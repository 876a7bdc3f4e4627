package notifier

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handler exposes channel CRUD over HTTP, adapted from the teacher's
// api/handlers/notifications.go.
type Handler struct {
	channels *ChannelRepository
}

// NewHandler builds a channel management handler.
func NewHandler() *Handler {
	return &Handler{channels: NewChannelRepository()}
}

// RegisterRoutes mounts /channels under app.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/channels", h.ListChannels)
	app.Post("/channels", h.CreateChannel)
	app.Put("/channels/:id", h.UpdateChannel)
	app.Post("/channels/:id/toggle", h.ToggleChannel)
	app.Delete("/channels/:id", h.DeleteChannel)
}

type channelRequest struct {
	Name   string          `json:"name"`
	Type   string          `json:"type"`
	Config json.RawMessage `json:"config"`
}

func validChannelType(t string) bool {
	return t == "telegram" || t == "discord" || t == "email"
}

// ListChannels returns every configured notification channel.
func (h *Handler) ListChannels(c *fiber.Ctx) error {
	channels, err := h.channels.GetAll()
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(channels)
}

// CreateChannel registers a new notification channel.
func (h *Handler) CreateChannel(c *fiber.Ctx) error {
	var req channelRequest
	if err := c.BodyParser(&req); err != nil || req.Name == "" || !validChannelType(req.Type) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "name and a valid type (telegram, discord, email) are required"})
	}

	channel := &Channel{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Type:      req.Type,
		Config:    string(req.Config),
		IsEnabled: true,
		CreatedAt: time.Now(),
	}
	if err := h.channels.Create(channel); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(channel)
}

// UpdateChannel overwrites an existing channel's name/type/config.
func (h *Handler) UpdateChannel(c *fiber.Ctx) error {
	id := c.Params("id")
	channel, err := h.channels.GetByID(id)
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	if channel == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "channel not found"})
	}

	var req channelRequest
	if err := c.BodyParser(&req); err != nil || req.Name == "" || !validChannelType(req.Type) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "name and a valid type (telegram, discord, email) are required"})
	}

	channel.Name = req.Name
	channel.Type = req.Type
	channel.Config = string(req.Config)
	if err := h.channels.Update(channel); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(channel)
}

// ToggleChannel flips a channel's enabled flag.
func (h *Handler) ToggleChannel(c *fiber.Ctx) error {
	id := c.Params("id")
	channel, err := h.channels.GetByID(id)
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	if channel == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "channel not found"})
	}

	newState := !channel.IsEnabled
	if err := h.channels.SetEnabled(id, newState); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"id": id, "isEnabled": newState})
}

// DeleteChannel removes a channel.
func (h *Handler) DeleteChannel(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.channels.Delete(id); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}
