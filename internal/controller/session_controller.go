package controller

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"ai-reportdraft-be/internal/dto"
	"ai-reportdraft-be/internal/pkg/serverutils"
	"ai-reportdraft-be/internal/service"
	"ai-reportdraft-be/pkg/guide"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	State(ctx *fiber.Ctx) error
	IntakeResponse(ctx *fiber.Ctx) error
	SelectSection(ctx *fiber.Ctx) error
	SaveSection(ctx *fiber.Ctx) error
}

type sessionController struct {
	sessionService      service.ISessionService
	orchestratorService service.IOrchestratorService
}

func NewSessionController(
	sessionService service.ISessionService,
	orchestratorService service.IOrchestratorService,
) ISessionController {
	return &sessionController{
		sessionService:      sessionService,
		orchestratorService: orchestratorService,
	}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/report/v1/session")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Create)
	h.Get(":id/state", c.State)
	h.Post(":id/intake-response", c.IntakeResponse)
	h.Post(":id/select-section", c.SelectSection)
	h.Post(":id/save-section", c.SaveSection)
}

// Create accepts the assignment guide either as an uploaded text file
// under "guide_file" or inline as JSON guide_text.
func (c *sessionController) Create(ctx *fiber.Ctx) error {
	guideText, err := c.readGuideText(ctx)
	if err != nil {
		return err
	}

	res, err := c.sessionService.CreateSession(ctx.Context(), guideText)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *sessionController) readGuideText(ctx *fiber.Ctx) (string, error) {
	if fileHeader, err := ctx.FormFile("guide_file"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			return "", err
		}
		defer file.Close()

		raw, err := io.ReadAll(file)
		if err != nil {
			return "", err
		}
		return guide.ExtractText(raw)
	}

	var req dto.CreateSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return "", err
	}
	return guide.ExtractText([]byte(req.GuideText))
}

func (c *sessionController) State(ctx *fiber.Ctx) error {
	id, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.sessionService.GetState(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show session state", res))
}

func (c *sessionController) IntakeResponse(ctx *fiber.Ctx) error {
	id, _ := uuid.Parse(ctx.Params("id"))

	var req dto.IntakeResponseRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sessionService.UpdateIntake(ctx.Context(), id, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success store intake response", res))
}

func (c *sessionController) SelectSection(ctx *fiber.Ctx) error {
	id, _ := uuid.Parse(ctx.Params("id"))

	var req dto.SelectSectionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.orchestratorService.SelectSection(ctx.Context(), id, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success select section", res))
}

func (c *sessionController) SaveSection(ctx *fiber.Ctx) error {
	id, _ := uuid.Parse(ctx.Params("id"))

	var req dto.SaveSectionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sessionService.SaveSection(ctx.Context(), id, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success save section", res))
}
