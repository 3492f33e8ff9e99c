package handler

import (
	"go-retail-admin/internal/service"
	"go-retail-admin/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type StockHandler struct {
	service service.StockService
}

func NewStockHandler(s service.StockService) *StockHandler {
	return &StockHandler{service: s}
}

type StockRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"uuid_required"`
	Quantity  int       `json:"quantity" validate:"gt=0"`
	Reason    string    `json:"reason" validate:"max=255"`
}

func (h *StockHandler) parse(c *fiber.Ctx) (*StockRequest, error) {
	var req StockRequest
	if err := parseBody(c, &req); err != nil {
		return nil, err
	}
	if err := validator.Validate(req); err != nil {
		return nil, err
	}
	return &req, nil
}

// StockIn POST /api/v1/stock/in
func (h *StockHandler) StockIn(c *fiber.Ctx) error {
	req, err := h.parse(c)
	if err != nil {
		return fail(c, err)
	}

	qty, err := h.service.RecordStockIn(c.UserContext(), req.ProductID, req.Quantity, actor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Stock added", "data": fiber.Map{"new_quantity": qty}})
}

// StockOut POST /api/v1/stock/out
func (h *StockHandler) StockOut(c *fiber.Ctx) error {
	req, err := h.parse(c)
	if err != nil {
		return fail(c, err)
	}

	qty, err := h.service.RecordStockOut(c.UserContext(), req.ProductID, req.Quantity, actor(c), req.Reason)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Stock removed", "data": fiber.Map{"new_quantity": qty}})
}

// Sale POST /api/v1/stock/sale
func (h *StockHandler) Sale(c *fiber.Ctx) error {
	req, err := h.parse(c)
	if err != nil {
		return fail(c, err)
	}

	res, err := h.service.RecordSale(c.UserContext(), req.ProductID, req.Quantity, actor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Sale recorded", "data": res})
}

// GetStockLogs Query params: limit (default 50)
func (h *StockHandler) GetStockLogs(c *fiber.Ctx) error {
	logs, err := h.service.GetStockLogs(c.UserContext(), queryInt(c, "limit"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(logs)
}

func (h *StockHandler) GetProductLedger(c *fiber.Ctx) error {
	id, err := paramUUID(c, "productId")
	if err != nil {
		return fail(c, err)
	}

	ledger, err := h.service.GetProductLedger(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(ledger)
}
