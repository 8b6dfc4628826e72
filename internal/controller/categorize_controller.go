package controller

import (
	"notealog/internal/dto"
	"notealog/internal/pkg/serverutils"
	"notealog/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICategorizeController interface {
	RegisterRoutes(r fiber.Router)
	Categorize(ctx *fiber.Ctx) error
	AutoCategorize(ctx *fiber.Ctx) error
}

type categorizeController struct {
	service service.ICategorizeService
}

func NewCategorizeController(service service.ICategorizeService) ICategorizeController {
	return &categorizeController{service: service}
}

func (c *categorizeController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/categorize-note")
	h.Post("", c.Categorize)
	h.Post("/auto", c.AutoCategorize)
}

// Categorize suggests a folder for the note in the body. Without a body it
// suggests folders for every unassigned note instead.
func (c *categorizeController) Categorize(ctx *fiber.Ctx) error {
	var req dto.CategorizeNoteRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return fiber.ErrBadRequest
		}
	}

	if req.IsEmpty() {
		res, err := c.service.SuggestAll(ctx.UserContext())
		if err != nil {
			return err
		}
		return ctx.JSON(serverutils.SuccessResponse("Success suggest folders", res))
	}

	res, err := c.service.Categorize(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success categorize note", res))
}

func (c *categorizeController) AutoCategorize(ctx *fiber.Ctx) error {
	res, err := c.service.StartAutoCategorize(ctx.UserContext(), "api")
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.AcceptedResponse("Auto categorize queued", res))
}
