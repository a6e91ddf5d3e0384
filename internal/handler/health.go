package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler reports process health.
type HealthHandler struct {
	hub *RelayHub
}

// NewHealthHandler creates the handler.
func NewHealthHandler(hub *RelayHub) *HealthHandler {
	return &HealthHandler{hub: hub}
}

// HealthResponse is the health check body.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Rooms     int    `json:"rooms"`
}

// Check reports overall status. The relay has no external dependencies,
// so a responding process is a healthy one.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Rooms:     h.hub.RoomCount(),
	})
}

// Liveness is a plain liveness probe.
func (h *HealthHandler) Liveness(c *fiber.Ctx) error {
	return c.SendString("OK")
}
