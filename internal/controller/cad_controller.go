package controller

import (
	"errors"

	"text-to-cad-be/internal/dto"
	"text-to-cad-be/internal/service"
	"text-to-cad-be/pkg/artifact"

	"github.com/gofiber/fiber/v2"
)

// ICadController serves the fixed wire contract: generate, execute, and
// STEP retrieval. These endpoints keep their own response shapes and do
// not use the standard envelope.
type ICadController interface {
	RegisterRoutes(r fiber.Router)
	Generate(ctx *fiber.Ctx) error
	Execute(ctx *fiber.Ctx) error
	GetStep(ctx *fiber.Ctx) error
}

type cadController struct {
	cadService service.ICadService
	artifacts  *artifact.Store
}

func NewCadController(cadService service.ICadService, artifacts *artifact.Store) ICadController {
	return &cadController{
		cadService: cadService,
		artifacts:  artifacts,
	}
}

func (c *cadController) RegisterRoutes(r fiber.Router) {
	r.Post("/generate", c.Generate)
	r.Post("/execute", c.Execute)
	r.Get("/step/:id", c.GetStep)
}

func (c *cadController) Generate(ctx *fiber.Ctx) error {
	var req dto.GenerateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(dto.GenerateResponse{
			Success: false,
			Error:   "Invalid request body",
		})
	}
	if req.Description == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(dto.GenerateResponse{
			Success: false,
			Error:   "No description provided",
		})
	}

	res, err := c.cadService.Generate(ctx.Context(), req.Description, req.PreviousCode)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(dto.GenerateResponse{
			Success: false,
			Error:   err.Error(),
		})
	}

	if !res.Success {
		return ctx.JSON(dto.GenerateResponse{
			Success: false,
			Code:    res.Script,
			Error:   res.ErrorMessage,
		})
	}
	return ctx.JSON(dto.GenerateResponse{
		Success: true,
		Code:    res.Script,
		FileID:  res.ArtifactID,
	})
}

func (c *cadController) Execute(ctx *fiber.Ctx) error {
	var req dto.ExecuteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(dto.ExecuteResponse{
			Success: false,
			Error:   "Invalid request body",
		})
	}
	if req.Code == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(dto.ExecuteResponse{
			Success: false,
			Error:   "No code provided",
		})
	}

	res, err := c.cadService.Execute(ctx.Context(), req.Code)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(dto.ExecuteResponse{
			Success: false,
			Error:   err.Error(),
		})
	}

	if !res.Success {
		return ctx.JSON(dto.ExecuteResponse{
			Success: false,
			Code:    res.Script,
			Error:   res.ErrorMessage,
		})
	}
	return ctx.JSON(dto.ExecuteResponse{
		Success: true,
		Code:    res.Script,
		FileID:  res.ArtifactID,
	})
}

// GetStep streams a stored STEP document. With ?download=true the response
// carries an attachment disposition named model-<id prefix>.step.
func (c *cadController) GetStep(ctx *fiber.Ctx) error {
	id := ctx.Params("id")

	data, err := c.artifacts.Read(id)
	if err != nil {
		switch {
		case errors.Is(err, artifact.ErrInvalidID):
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid file id"})
		case errors.Is(err, artifact.ErrNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "File not found"})
		default:
			return err
		}
	}

	if ctx.Query("download") == "true" {
		ctx.Attachment(artifact.DownloadName(id))
	}
	ctx.Set(fiber.HeaderContentType, "application/step")
	return ctx.Send(data)
}
