package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"ai-reportdraft-be/internal/dto"
	"ai-reportdraft-be/internal/pkg/serverutils"
	"ai-reportdraft-be/internal/service"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
}

type chatController struct {
	orchestratorService service.IOrchestratorService
}

func NewChatController(orchestratorService service.IOrchestratorService) IChatController {
	return &chatController{
		orchestratorService: orchestratorService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/report/v1/session")
	h.Use(serverutils.JwtMiddleware)
	h.Post(":id/chat", c.Chat)
}

// Chat advances the drafting workflow by one conversational turn.
func (c *chatController) Chat(ctx *fiber.Ctx) error {
	id, _ := uuid.Parse(ctx.Params("id"))

	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.orchestratorService.Chat(ctx.Context(), id, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success process chat message", res))
}
