package controller

import (
	"text-to-cad-be/internal/pkg/serverutils"
	"text-to-cad-be/pkg/viewer"

	"github.com/gofiber/fiber/v2"
)

type ResizeRequest struct {
	Width  int `json:"width" validate:"required,gt=0"`
	Height int `json:"height" validate:"required,gt=0"`
}

// IViewerController exposes camera and viewport operations on the scene.
type IViewerController interface {
	RegisterRoutes(r fiber.Router)
	ResetView(ctx *fiber.Ctx) error
	Resize(ctx *fiber.Ctx) error
	Scene(ctx *fiber.Ctx) error
}

type viewerController struct {
	adapter *viewer.Adapter
}

func NewViewerController(adapter *viewer.Adapter) IViewerController {
	return &viewerController{
		adapter: adapter,
	}
}

func (c *viewerController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/viewer/v1")
	h.Post("reset-view", c.ResetView)
	h.Post("resize", c.Resize)
	h.Get("scene", c.Scene)
}

func (c *viewerController) ResetView(ctx *fiber.Ctx) error {
	c.adapter.ResetView()
	return ctx.JSON(serverutils.SuccessResponse("Success reset view", c.adapter.Snapshot()))
}

func (c *viewerController) Resize(ctx *fiber.Ctx) error {
	var req ResizeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	c.adapter.Resize(req.Width, req.Height)
	return ctx.JSON(serverutils.SuccessResponse("Success resize viewport", c.adapter.Snapshot()))
}

func (c *viewerController) Scene(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success show scene", c.adapter.Snapshot()))
}
