package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/localmart-api/internal/application/auth"
	"github.com/jhoicas/localmart-api/internal/application/ordering"
	"github.com/jhoicas/localmart-api/internal/application/usecase"
	"github.com/jhoicas/localmart-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	ShopUC      *usecase.ShopUseCase
	ProductUC   *usecase.ProductUseCase
	OrderUC     *ordering.OrderingUseCase
	AdminUC     *usecase.AdminUseCase
	AuthLimiter *RateLimiter
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	authed := AuthMiddleware(deps.AuthUC)

	// Auth (público, con rate limit)
	authGroup := api.Group("/auth")
	if deps.AuthLimiter != nil {
		authGroup.Use(deps.AuthLimiter.Handler())
	}
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	shopHandler := NewShopHandler(deps.ShopUC)
	productHandler := NewProductHandler(deps.ProductUC)

	// Tienda propia del tendero. Middleware por ruta: un Group("/shop") también capturaría /shops
	shopkeeper := RequireRole(entity.RoleShopkeeper)
	api.Post("/shop", authed, shopkeeper, shopHandler.Create)
	api.Get("/shop/my-shop", authed, shopkeeper, shopHandler.MyShop)

	// Catálogo por tienda; las rutas públicas van antes que las protegidas
	shops := api.Group("/shops")
	shops.Get("/nearby", shopHandler.Nearby)
	shops.Get("/:shopId/products/public", productHandler.ListPublic)
	shops.Get("/:shopId/products", authed, productHandler.ListForShop)

	products := api.Group("/products", authed, RequireRole(entity.RoleShopkeeper))
	products.Post("/", productHandler.Create)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
	products.Patch("/:id/status", productHandler.SetStatus)

	// Pedidos. /available se registra antes de /:id
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders := api.Group("/orders", authed)
	orders.Get("/", RequireRole(entity.RoleCustomer, entity.RoleShopkeeper, entity.RoleCourier), orderHandler.List)
	orders.Get("/available", RequireRole(entity.RoleCourier), orderHandler.Available)
	orders.Post("/", RequireRole(entity.RoleCustomer), orderHandler.Place)
	orders.Get("/:id", orderHandler.Get)
	orders.Get("/:id/receipt", RequireRole(entity.RoleCustomer, entity.RoleShopkeeper, entity.RoleAdmin), orderHandler.Receipt)
	orders.Post("/:id/accept", RequireRole(entity.RoleShopkeeper), orderHandler.Accept)
	orders.Post("/:id/accept-delivery", RequireRole(entity.RoleCourier), orderHandler.AcceptDelivery)
	orders.Post("/:id/cancel", RequireRole(entity.RoleCustomer, entity.RoleShopkeeper), orderHandler.Cancel)
	orders.Patch("/:id/status", RequireRole(entity.RoleShopkeeper, entity.RoleCourier), orderHandler.SetStatus)

	// Admin
	adminHandler := NewAdminHandler(deps.AdminUC)
	admin := api.Group("/admin", authed, RequireRole(entity.RoleAdmin))
	admin.Get("/stats", adminHandler.Stats)
	admin.Get("/users", adminHandler.Users)
	admin.Get("/shops", adminHandler.Shops)
	admin.Get("/pending-approvals", adminHandler.PendingApprovals)
	admin.Get("/approvals", adminHandler.Approvals)
	admin.Post("/approvals/:id/:action", adminHandler.Decide)
}
