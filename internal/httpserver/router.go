package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/techstore/pkg/middleware/auth"
)

type Deps struct {
	AuthHandler     *AuthHTTP
	SocialHandler   *SocialHTTP
	PhoneHandler    *PhoneHTTP
	CatalogHandler  *CatalogHTTP
	OrderHandler    *OrderHTTP
	GuestHandler    *GuestHTTP
	LocationHandler *LocationHTTP

	Auth  *authmw.Authenticator
	Ready func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return c.NoContent(http.StatusServiceUnavailable)
			}
		}
		return c.NoContent(http.StatusOK)
	})

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/refresh", d.AuthHandler.Refresh)
	auth.POST("/logout", d.AuthHandler.Logout, d.Auth.RequireAuth)
	auth.GET("/me", d.AuthHandler.Me, d.Auth.RequireAuth)

	socialAuth := api.Group("/social-auth")
	socialAuth.POST("/google", d.SocialHandler.Google)
	socialAuth.POST("/facebook", d.SocialHandler.Facebook)
	socialAuth.POST("/link/google", d.SocialHandler.LinkGoogle, d.Auth.RequireAuth)
	socialAuth.POST("/link/facebook", d.SocialHandler.LinkFacebook, d.Auth.RequireAuth)

	phone := api.Group("/phone-auth")
	phone.POST("/send-otp", d.PhoneHandler.SendOTP)
	phone.POST("/verify-otp", d.PhoneHandler.VerifyOTP)
	phone.POST("/register", d.PhoneHandler.Register)
	phone.POST("/login", d.PhoneHandler.Login)

	products := api.Group("/products")
	products.GET("", d.CatalogHandler.GetProducts)
	products.GET("/search", d.CatalogHandler.SearchProducts)
	products.GET("/meta/categories", d.CatalogHandler.Categories)
	products.GET("/meta/brands", d.CatalogHandler.Brands)
	products.GET("/:id", d.CatalogHandler.GetProduct)

	productAdmin := products.Group("", d.Auth.RequireAdmin)
	productAdmin.POST("", d.CatalogHandler.CreateProduct)
	productAdmin.PUT("/:id", d.CatalogHandler.PatchProduct)
	productAdmin.PATCH("/:id", d.CatalogHandler.PatchProduct)
	productAdmin.DELETE("/:id", d.CatalogHandler.DeleteProduct)

	orders := api.Group("/orders", d.Auth.RequireAuth)
	orders.POST("", d.OrderHandler.CreateOrder)
	orders.GET("/my-orders", d.OrderHandler.MyOrders)
	orders.GET("/:id", d.OrderHandler.GetOrder)
	orders.PUT("/:id/cancel", d.OrderHandler.CancelOrder)
	orders.PUT("/:id/status", d.OrderHandler.UpdateStatus, authmw.RequireRole(authmw.RoleAdmin))

	guest := api.Group("/guest")
	guest.POST("/order", d.GuestHandler.PlaceOrder)
	guest.GET("/order/:orderNumber", d.GuestHandler.TrackOrder)
	guest.POST("/convert-to-account", d.GuestHandler.ConvertToAccount)

	loc := api.Group("/location")
	loc.POST("/shipping-cost", d.LocationHandler.ShippingCost)
	loc.POST("/nearest-store", d.LocationHandler.NearestStore)
	loc.GET("/stores", d.LocationHandler.Stores)
	loc.GET("/shipping-zones", d.LocationHandler.ShippingZones)
	loc.POST("/validate-address", d.LocationHandler.ValidateAddress)
}
