package handler

import (
	"go-retail-admin/internal/model"
	"go-retail-admin/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	service service.ProductService
}

func NewProductHandler(s service.ProductService) *ProductHandler {
	return &ProductHandler{service: s}
}

// GetProducts lists the catalog. With q it searches name, SKU and category.
// Query params: q, category, color, size, available, status
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	filter := model.ProductFilter{
		Category:      c.Query("category"),
		Color:         c.Query("color"),
		Size:          c.Query("size"),
		AvailableOnly: c.QueryBool("available", false),
		Status:        model.StockStatus(c.Query("status")),
	}

	var (
		products []model.Product
		err      error
	)
	if term := c.Query("q"); term != "" {
		products, err = h.service.SearchProducts(c.UserContext(), term, filter)
	} else {
		products, err = h.service.GetProducts(c.UserContext(), filter)
	}
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(products)
}

func (h *ProductHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(categories)
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	product, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": product, "status": product.Status()})
}

func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.ProductInput
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	product, err := h.service.CreateProduct(c.UserContext(), req, actor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	var req service.ProductPatch
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	updated, err := h.service.UpdateProduct(c.UserContext(), id, req, actor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": updated})
}

func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	if err := h.service.DeleteProduct(c.UserContext(), id, actor(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}
