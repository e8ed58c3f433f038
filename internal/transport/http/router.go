package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vastra-wear/vastra/internal/handlers"
	mwauth "github.com/vastra-wear/vastra/internal/middleware/auth"
)

type Deps struct {
	AuthHandler     *handlers.AuthHandler
	ProductHandler  *handlers.ProductHandler
	CategoryHandler *handlers.CategoryHandler
	OrderHandler    *handlers.OrderHandler
	SearchHandler   *handlers.SearchHandler
	Tokens          *mwauth.TokenService
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.GET("/profile", d.AuthHandler.GetProfile, d.Tokens.RequireLogin)
	auth.PUT("/profile", d.AuthHandler.UpdateProfile, d.Tokens.RequireLogin)
	auth.GET("/users", d.AuthHandler.GetUsers, d.Tokens.RequireAdmin)

	products := api.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/search", d.SearchHandler.Search)
	products.GET("/:id", d.ProductHandler.GetProduct)
	products.POST("/:id/reviews", d.ProductHandler.CreateReview, d.Tokens.RequireLogin)
	products.POST("", d.ProductHandler.CreateProduct, d.Tokens.RequireAdmin)
	products.PUT("/:id", d.ProductHandler.UpdateProduct, d.Tokens.RequireAdmin)
	products.DELETE("/:id", d.ProductHandler.DeleteProduct, d.Tokens.RequireAdmin)

	orders := api.Group("/orders", d.Tokens.RequireLogin)
	orders.POST("", d.OrderHandler.CreateOrder)
	orders.GET("/myorders", d.OrderHandler.GetMyOrders)
	orders.GET("", d.OrderHandler.GetOrders, d.Tokens.RequireAdmin)
	orders.GET("/:id", d.OrderHandler.GetOrder)
	orders.PUT("/:id/cancel", d.OrderHandler.CancelItem)
	orders.PUT("/:id/pay", d.OrderHandler.PayOrder)
	orders.PUT("/:id/deliver", d.OrderHandler.DeliverOrder, d.Tokens.RequireAdmin)

	categories := api.Group("/categories")
	categories.GET("", d.CategoryHandler.GetCategories)
	categories.POST("", d.CategoryHandler.CreateCategory, d.Tokens.RequireAdmin)
	categories.DELETE("/:id", d.CategoryHandler.DeleteCategory, d.Tokens.RequireAdmin)
}
