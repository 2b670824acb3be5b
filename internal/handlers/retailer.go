package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/localmarket/hub/internal/hash"
	"github.com/localmarket/hub/internal/models"
	"github.com/localmarket/hub/internal/mykafka"
)

type RetailerHandler struct {
	DB             *gorm.DB
	Producer       *mykafka.Producer
	PlainPasswords bool
}

func (h *RetailerHandler) Register(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.Role != models.RoleRetailer {
		return echo.NewHTTPError(http.StatusForbidden, "Invalid role for retailer registration")
	}

	var existing models.User
	err := h.DB.Where("username = ?", req.Username).First(&existing).Error
	if err == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Username already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	credential, err := hash.Credential(req.Password, h.PlainPasswords)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Role:     models.RoleRetailer,
		Password: credential,
		Status:   models.StatusPending,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	publishEvent(c, h.Producer, userEventsTopic, fmt.Sprint(user.ID), map[string]any{
		"type":     "retailer_registered",
		"userID":   user.ID,
		"username": user.Username,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Registration received. Awaiting admin approval.",
	})
}

func (h *RetailerHandler) Login(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var user models.User
	if err := h.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}
	if !hash.Verify(user.Password, req.Password, h.PlainPasswords) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}
	if user.Role != models.RoleRetailer {
		return echo.NewHTTPError(http.StatusForbidden, "Not a retailer account")
	}
	if user.Status != models.StatusActive {
		return echo.NewHTTPError(http.StatusForbidden, "Account pending admin approval")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Login successful",
		"user_id": user.ID,
	})
}

func (h *RetailerHandler) GetInventory(c echo.Context) error {
	retailerID, err := strconv.Atoi(c.Param("retailer_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid retailer id")
	}

	var products []models.Product
	if err := h.DB.Where("retailer_id = ?", retailerID).Find(&products).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, products)
}

func (h *RetailerHandler) GetOrders(c echo.Context) error {
	retailerID, err := strconv.Atoi(c.Param("retailer_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid retailer id")
	}

	var orders []models.Order
	if err := h.DB.Where("retailer_id = ?", retailerID).Find(&orders).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, orders)
}

func (h *RetailerHandler) SetDeliveryStatus(c echo.Context) error {
	var req struct {
		RetailerID  uint `json:"retailer_id"`
		Deliverable bool `json:"deliverable"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var retailer models.Retailer
	if err := h.DB.First(&retailer, req.RetailerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Retailer not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	retailer.Deliverable = req.Deliverable
	if err := h.DB.Save(&retailer).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": fmt.Sprintf("Delivery status set to %t", req.Deliverable),
	})
}

// UpdateInventory sets the absolute quantity for a product, creating it
// under the retailer when missing. Price and category are only touched
// when present in the request.
func (h *RetailerHandler) UpdateInventory(c echo.Context) error {
	var req struct {
		RetailerID  uint     `json:"retailer_id"`
		ProductName string   `json:"product_name"`
		NewQty      int      `json:"new_qty"`
		Price       *float64 `json:"price"`
		Category    *string  `json:"category"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var product models.Product
	err := h.DB.Where("retailer_id = ? AND name = ?", req.RetailerID, req.ProductName).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		product = models.Product{
			RetailerID: req.RetailerID,
			Name:       req.ProductName,
			Price:      0.0,
			Category:   "Uncategorized",
		}
	} else if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	product.Quantity = req.NewQty
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Category != nil {
		product.Category = *req.Category
	}

	if err := h.DB.Save(&product).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":  fmt.Sprintf("%s updated to %d units", product.Name, req.NewQty),
		"price":    product.Price,
		"category": product.Category,
	})
}

func (h *RetailerHandler) GetNotifications(c echo.Context) error {
	retailerID, err := strconv.Atoi(c.Param("retailer_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid retailer id")
	}

	var notifications []models.Notification
	if err := h.DB.
		Where("retailer_id = ?", retailerID).
		Order("timestamp DESC").
		Find(&notifications).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, notifications)
}

func (h *RetailerHandler) MarkNotificationRead(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid notification id")
	}

	var notif models.Notification
	if err := h.DB.First(&notif, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Notification not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	notif.IsRead = true
	if err := h.DB.Save(&notif).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Notification marked as read"})
}
