package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"ai-reportdraft-be/internal/pkg/logger"
	internalWS "ai-reportdraft-be/internal/websocket"
)

// WorkflowHandler exposes the websocket stream of workflow events for
// one drafting session.
type WorkflowHandler struct {
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewWorkflowHandler(hub *internalWS.Hub, log logger.ILogger) *WorkflowHandler {
	return &WorkflowHandler{
		hub:    hub,
		logger: log,
	}
}

// ServeWs upgrades the connection and subscribes it to the session's
// event stream.
func (h *WorkflowHandler) ServeWs(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session ID"})
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("WorkflowHandler", "Starting WebSocket session", map[string]interface{}{"session_id": sessionID})
			internalWS.ServeWs(h.hub, conn, sessionID)
			h.logger.Info("WorkflowHandler", "WebSocket session ended", map[string]interface{}{"session_id": sessionID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

func (h *WorkflowHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws/session/:id", h.ServeWs)
}
