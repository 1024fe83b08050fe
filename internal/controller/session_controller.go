package controller

import (
	"errors"

	"text-to-cad-be/internal/dto"
	"text-to-cad-be/internal/pkg/serverutils"
	"text-to-cad-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ISessionController serves the conversational surface: chat turns, edited
// script runs, reset, and full display state.
type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	Run(ctx *fiber.Ctx) error
	Reset(ctx *fiber.Ctx) error
	State(ctx *fiber.Ctx) error
}

type sessionController struct {
	sessionService service.ISessionService
}

func NewSessionController(sessionService service.ISessionService) ISessionController {
	return &sessionController{
		sessionService: sessionService,
	}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/session/v1")
	h.Post("chat", c.Chat)
	h.Post("run", c.Run)
	h.Post("reset", c.Reset)
	h.Get("state", c.State)
}

func (c *sessionController) Chat(ctx *fiber.Ctx) error {
	var req dto.SubmitTurnRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sessionService.SubmitTurn(ctx.Context(), req.Text)
	if err != nil {
		return mapSessionError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success submit turn", res))
}

func (c *sessionController) Run(ctx *fiber.Ctx) error {
	var req dto.RunScriptRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sessionService.RunEditedScript(ctx.Context(), req.Code)
	if err != nil {
		return mapSessionError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success run script", res))
}

func (c *sessionController) Reset(ctx *fiber.Ctx) error {
	c.sessionService.ResetSession()
	return ctx.JSON(serverutils.SuccessResponse[any]("Success reset session", nil))
}

func (c *sessionController) State(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success show session state", c.sessionService.State()))
}

func mapSessionError(err error) error {
	switch {
	case errors.Is(err, service.ErrEmptyDescription),
		errors.Is(err, service.ErrEmptyScript):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrSuperseded):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		return err
	}
}
