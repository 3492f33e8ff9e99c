package handler

import (
	"go-retail-admin/internal/middleware"
	"go-retail-admin/internal/model"
	"go-retail-admin/internal/service"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type SetRoleRequest struct {
	Role model.Role `json:"role"`
}

// GetUsers GET /api/v1/users
func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	users, err := h.userService.ListUsers(c.UserContext(), middleware.CurrentSession(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(users)
}

// SetRole PUT /api/v1/users/:id/role
func (h *UserHandler) SetRole(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	var req SetRoleRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	profile, err := h.userService.SetRole(c.UserContext(), middleware.CurrentSession(c), id, req.Role)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Role updated", "data": profile})
}
