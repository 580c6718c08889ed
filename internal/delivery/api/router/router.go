// Package router wires the storefront handlers to their routes.
package router

import (
	"emart/internal/delivery/api/middleware"
	"emart/internal/delivery/api/router/handler"
	"emart/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler           *handler.AuthHandler
	AccountHandler        *handler.AccountHandler
	SessionHandler        *handler.SessionHandler
	CatalogHandler        *handler.CatalogHandler
	CategoryHandler       *handler.CategoryHandler
	CartHandler           *handler.CartHandler
	OrderHandler          *handler.OrderHandler
	ChatHandler           *handler.ChatHandler
	ContactHandler        *handler.ContactHandler
	ContentHandler        *handler.ContentHandler
	RecommendationHandler *handler.RecommendationHandler
	DeviceHandler         *handler.DeviceHandler
	EventHandler          *handler.EventHandler
	AuthMiddleware        *middleware.AuthMiddleware
	OwnerPINMiddleware    *middleware.OwnerPINMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	RouterParams
}

// NewRouter is the constructor for the Router.
func NewRouter(params RouterParams) *router {
	return &router{RouterParams: params}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	auth := r.AuthMiddleware
	requirePIN := r.OwnerPINMiddleware.RequirePIN

	e.GET("/health", handler.HealthCheck)

	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.AuthHandler.Register)
		authGroup.POST("/login", r.AuthHandler.Login)
		authGroup.POST("/owner/login", r.AuthHandler.OwnerLogin)
		authGroup.POST("/password-reset", r.AuthHandler.RequestPasswordReset)
		authGroup.POST("/password-reset/confirm", r.AuthHandler.ConfirmPasswordReset)
	}

	// Storefront routes work for guests; a token, when sent, identifies the customer.
	apiV1 := e.Group("/api/v1")
	apiV1.Use(auth.OptionalAuth)
	{
		apiV1.GET("/session", r.SessionHandler.WhoAmI)
		apiV1.GET("/events", r.EventHandler.Stream)

		apiV1.GET("/products", r.CatalogHandler.ListProducts)
		apiV1.GET("/products/:id", r.CatalogHandler.GetProduct)
		apiV1.GET("/categories", r.CategoryHandler.ListCategories)
		apiV1.POST("/recommendations", r.RecommendationHandler.Recommend)

		apiV1.GET("/pages", r.ContentHandler.GetPages)
		apiV1.GET("/pages/:slug", r.ContentHandler.GetPage)
		apiV1.GET("/theme.css", r.ContentHandler.GetThemeCSS)
		apiV1.GET("/payment/qr", r.ContentHandler.GetPaymentQR)
		apiV1.GET("/payment/qr.png", r.ContentHandler.PaymentQRPNG)
		apiV1.POST("/contact", r.ContactHandler.Submit)

		apiV1.GET("/cart", r.CartHandler.GetCart)
		apiV1.DELETE("/cart", r.CartHandler.ClearCart)
		apiV1.POST("/cart/items", r.CartHandler.AddItem)
		apiV1.PUT("/cart/items", r.CartHandler.UpdateQuantity)
		apiV1.DELETE("/cart/items", r.CartHandler.RemoveItem)
		apiV1.POST("/checkout", r.OrderHandler.Checkout)
		apiV1.GET("/orders/:id", r.OrderHandler.GetOrder)
	}

	// Customer routes share the /api/v1 prefix, so the guard is attached per route.
	customer := []echo.MiddlewareFunc{auth.Authenticate, auth.RequireRole(entity.RoleCustomer)}
	{
		apiV1.GET("/me", r.AccountHandler.GetProfile, customer...)
		apiV1.PUT("/me", r.AccountHandler.UpdateProfile, customer...)
		apiV1.PUT("/me/password", r.AccountHandler.ChangePassword, customer...)
		apiV1.GET("/me/orders", r.AccountHandler.ListOrders, customer...)
		apiV1.POST("/orders/:id/cancel", r.OrderHandler.CancelOrder, customer...)
		apiV1.POST("/products/:id/reviews", r.CatalogHandler.AddReview, customer...)
		apiV1.GET("/chat", r.ChatHandler.GetConversation, customer...)
		apiV1.POST("/chat/messages", r.ChatHandler.SendMessage, customer...)
		apiV1.POST("/chat/prefill", r.ChatHandler.PrefillChat, customer...)
	}

	owner := apiV1.Group("/owner", auth.Authenticate, auth.RequireRole(entity.RoleOwner))
	{
		owner.POST("/products", r.CatalogHandler.CreateProduct)
		owner.PUT("/products/:id", r.CatalogHandler.UpdateProduct)
		owner.DELETE("/products/:id", r.CatalogHandler.DeleteProduct, requirePIN)
		owner.PUT("/products/:id/stock", r.CatalogHandler.SetStock)
		owner.PUT("/products/:id/reviews/:reviewId", r.CatalogHandler.UpdateReview)
		owner.DELETE("/products/:id/reviews/:reviewId", r.CatalogHandler.DeleteReview)

		owner.POST("/categories", r.CategoryHandler.AddCategory)
		owner.PUT("/categories/:name", r.CategoryHandler.RenameCategory)
		owner.DELETE("/categories/:name", r.CategoryHandler.DeleteCategory)

		owner.GET("/orders", r.OrderHandler.ListOrders)
		owner.PUT("/orders/:id/status", r.OrderHandler.UpdateStatus)
		owner.DELETE("/orders/:id", r.OrderHandler.DeleteOrder, requirePIN)

		owner.GET("/conversations", r.ChatHandler.ListConversations)
		owner.GET("/conversations/:customerId", r.ChatHandler.OpenConversation)
		owner.POST("/conversations/:customerId/messages", r.ChatHandler.Reply)

		owner.GET("/contact-messages", r.ContactHandler.ListMessages)
		owner.PUT("/contact-messages/:id/read", r.ContactHandler.MarkRead)
		owner.DELETE("/contact-messages/:id", r.ContactHandler.DeleteMessage)

		owner.PUT("/pages/:slug", r.ContentHandler.SavePage)
		owner.PUT("/theme", r.ContentHandler.SetTheme)
		owner.PUT("/payment/qr", r.ContentHandler.UploadPaymentQR)

		owner.POST("/devices", r.DeviceHandler.RegisterDevice)
		owner.GET("/devices", r.DeviceHandler.GetDevices)
		owner.PUT("/devices/:id/token", r.DeviceHandler.UpdateFCMToken)
		owner.DELETE("/devices/:id", r.DeviceHandler.DeactivateDevice)
	}
}
