package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/localmarket/hub/internal/handlers"
)

type Deps struct {
	DB              *gorm.DB
	AdminHandler    *handlers.AdminHandler
	RetailerHandler *handlers.RetailerHandler
	CustomerHandler *handlers.CustomerHandler
	SearchHandler   *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	admin := e.Group("/admin")

	admin.POST("/register", d.AdminHandler.Register)
	admin.POST("/login", d.AdminHandler.Login)
	admin.GET("/users", d.AdminHandler.GetAllUsers)
	admin.GET("/retailers", d.AdminHandler.GetAllRetailers)
	admin.GET("/orders", d.AdminHandler.GetAllOrders)
	admin.GET("/pending-retailers", d.AdminHandler.GetPendingRetailers)
	admin.POST("/approve-retailer/:id", d.AdminHandler.ApproveRetailer)
	admin.POST("/reject-retailer/:id", d.AdminHandler.RejectRetailer)

	retailer := e.Group("/retailer")

	retailer.POST("/register", d.RetailerHandler.Register)
	retailer.POST("/login", d.RetailerHandler.Login)
	retailer.GET("/inventory/:retailer_id", d.RetailerHandler.GetInventory)
	retailer.GET("/orders/:retailer_id", d.RetailerHandler.GetOrders)
	retailer.POST("/delivery-status", d.RetailerHandler.SetDeliveryStatus)
	retailer.POST("/inventory/update", d.RetailerHandler.UpdateInventory)
	retailer.GET("/notifications/:retailer_id", d.RetailerHandler.GetNotifications)
	retailer.POST("/notifications/read/:id", d.RetailerHandler.MarkNotificationRead)

	customer := e.Group("/customer")

	customer.POST("/register", d.CustomerHandler.Register)
	customer.POST("/login", d.CustomerHandler.Login)
	customer.GET("/retailers", d.CustomerHandler.GetRetailers)
	customer.GET("/products/:retailer_id", d.CustomerHandler.GetProducts)
	customer.POST("/order", d.CustomerHandler.MakeOrder)
	customer.GET("/search", d.SearchHandler.Search)
}
