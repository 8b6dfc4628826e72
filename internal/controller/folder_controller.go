package controller

import (
	"notealog/internal/dto"
	"notealog/internal/pkg/serverutils"
	"notealog/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IFolderController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Ensure(ctx *fiber.Ctx) error
	Rename(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type folderController struct {
	service service.IFolderService
}

func NewFolderController(service service.IFolderService) IFolderController {
	return &folderController{service: service}
}

func (c *folderController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/folders")
	h.Get("", c.GetAll)
	h.Post("", c.Create)
	h.Post("/ensure", c.Ensure)
	h.Put("/:id", c.Rename)
	h.Delete("/:id", c.Delete)
}

func (c *folderController) GetAll(ctx *fiber.Ctx) error {
	res, err := c.service.GetAll(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get all folders", res))
}

func (c *folderController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateFolderRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Success create folder", res))
}

// Ensure answers 201 when the folder was created and 200 when it existed.
func (c *folderController) Ensure(ctx *fiber.Ctx) error {
	var req dto.EnsureFolderRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Ensure(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	if res.Created {
		return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Success create folder", res.Folder))
	}
	return ctx.JSON(serverutils.SuccessResponse("Folder already exists", res.Folder))
}

func (c *folderController) Rename(ctx *fiber.Ctx) error {
	var req dto.RenameFolderRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	req.Id = ctx.Params("id")

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Rename(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success rename folder", res))
}

func (c *folderController) Delete(ctx *fiber.Ctx) error {
	if err := c.service.Delete(ctx.UserContext(), ctx.Params("id")); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete folder", nil))
}
