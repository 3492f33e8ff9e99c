package handler

import (
	"go-retail-admin/internal/apperr"
	"go-retail-admin/internal/middleware"
	"go-retail-admin/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// Register creates a user account
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req service.RegisterInput
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	profile, err := h.authService.Register(c.UserContext(), req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Account created", "data": profile})
}

// Login handles user authentication
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	if req.Email == "" || req.Password == "" {
		return fail(c, apperr.Validation("email and password are required"))
	}

	response, err := h.authService.SignIn(c.UserContext(), req.Email, req.Password, req.RememberMe)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response)
}

// Logout ends the current session
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sess := middleware.CurrentSession(c)
	if sess == nil {
		return fail(c, apperr.Auth("not signed in"))
	}
	if err := h.authService.SignOut(c.UserContext(), sess.ID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Signed out"})
}

// Me returns the current session with its cached profile
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	sess := middleware.CurrentSession(c)
	if sess == nil {
		return fail(c, apperr.Auth("not signed in"))
	}
	return c.JSON(fiber.Map{"session": sess, "is_admin": sess.IsAdmin()})
}

// ChangePassword re-verifies the current password before setting a new one
// PUT /api/v1/auth/password
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var req ChangePasswordRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	sess := middleware.CurrentSession(c)
	if sess == nil {
		return fail(c, apperr.Auth("not signed in"))
	}
	userID, err := uuid.Parse(sess.UserID)
	if err != nil {
		return fail(c, apperr.Auth("invalid session"))
	}

	if err := h.authService.ChangePassword(c.UserContext(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password updated successfully"})
}

// ForgotPassword sends a reset link. The response is the same whether or not the email exists.
// POST /api/v1/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req ForgotPasswordRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	if err := h.authService.RequestPasswordReset(c.UserContext(), req.Email); err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"message": "If the email is registered, a reset link has been sent"})
}

// ResetPassword consumes a reset token
// POST /api/v1/auth/reset-password
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	if req.Token == "" {
		return fail(c, apperr.Validation("token is required"))
	}

	if err := h.authService.ResetPassword(c.UserContext(), req.Token, req.NewPassword); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password updated successfully"})
}
