package server

import (
	"agora/internal/config"
	"agora/internal/handler"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Auth           *handler.AuthHandler
	Profile        *handler.ProfileHandler
	Catalog        *handler.CatalogHandler
	Cart           *handler.CartHandler
	Order          *handler.OrderHandler
	SellerProduct  *handler.SellerProductHandler
	SellerBusiness *handler.SellerBusinessHandler
	SellerOrder    *handler.SellerOrderHandler
	Admin          *handler.AdminHandler
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	h.Auth.RegisterRoutes(e)
	h.Profile.RegisterRoutes(e, cfg)
	h.Catalog.RegisterRoutes(e, cfg)
	h.Cart.RegisterRoutes(e, cfg)
	h.Order.RegisterRoutes(e, cfg)
	h.SellerProduct.RegisterRoutes(e, cfg)
	h.SellerBusiness.RegisterRoutes(e, cfg)
	h.SellerOrder.RegisterRoutes(e, cfg)
	h.Admin.RegisterRoutes(e, cfg)
}
