package handler

import (
	"go-retail-admin/internal/middleware"
	"go-retail-admin/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Auth    *AuthHandler
	Product *ProductHandler
	Stock   *StockHandler
	Report  *ReportHandler
	User    *UserHandler
}

// RegisterRoutes mounts the API under /api/v1 and the websocket feed under /ws.
// hub may be nil when no live feed is served.
func RegisterRoutes(app *fiber.App, h Handlers, auth middleware.Authenticator, hub *ws.Hub) {
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", h.Auth.Register)
	authRoutes.Post("/login", h.Auth.Login)
	authRoutes.Post("/forgot-password", h.Auth.ForgotPassword)
	authRoutes.Post("/reset-password", h.Auth.ResetPassword)

	// ============ PROTECTED ROUTES ============
	requireAuth := middleware.RequireAuth(auth)
	authRoutes.Post("/logout", requireAuth, h.Auth.Logout)
	authRoutes.Get("/me", requireAuth, h.Auth.Me)
	authRoutes.Put("/password", requireAuth, h.Auth.ChangePassword)

	protected := api.Group("", requireAuth)

	// Product Routes
	protected.Get("/products", h.Product.GetProducts)
	protected.Get("/products/categories", h.Product.GetCategories)
	protected.Get("/products/:id", h.Product.GetProduct)
	protected.Post("/products", h.Product.CreateProduct)
	protected.Put("/products/:id", h.Product.UpdateProduct)
	protected.Delete("/products/:id", h.Product.DeleteProduct)

	// Stock Routes
	protected.Post("/stock/in", h.Stock.StockIn)
	protected.Post("/stock/out", h.Stock.StockOut)
	protected.Post("/stock/sale", h.Stock.Sale)
	protected.Get("/stock/logs", h.Stock.GetStockLogs)
	protected.Get("/stock/logs/:productId", h.Stock.GetProductLedger)

	// Reports
	protected.Get("/sales/stats", h.Report.GetSalesStats)
	protected.Get("/sales/history", h.Report.GetSalesHistory)
	protected.Get("/logs", h.Report.GetSystemLogs)
	protected.Get("/dashboard/summary", h.Report.GetDashboardSummary)
	protected.Get("/dashboard/stock-movement", h.Report.GetStockMovement)

	// User Management Routes (admin only)
	admin := protected.Group("/users", middleware.RequireAdmin())
	admin.Get("", h.User.GetUsers)
	admin.Put("/:id/role", h.User.SetRole)

	if hub == nil {
		return
	}

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(hub.Connect))
}
