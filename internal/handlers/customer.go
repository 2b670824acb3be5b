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
	"github.com/localmarket/hub/internal/util"
)

type CustomerHandler struct {
	DB             *gorm.DB
	Producer       *mykafka.Producer
	PlainPasswords bool
}

func (h *CustomerHandler) Register(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.Role != models.RoleCustomer {
		return echo.NewHTTPError(http.StatusForbidden, "Invalid role for customer registration")
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
		Role:     models.RoleCustomer,
		Password: credential,
		Status:   models.StatusActive,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "customer registered successfully",
		"user_id": user.ID,
	})
}

func (h *CustomerHandler) Login(c echo.Context) error {
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
	if user.Role != models.RoleCustomer {
		return echo.NewHTTPError(http.StatusForbidden, "Not a customer account")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Login successful",
		"user_id": user.ID,
	})
}

// GetRetailers lists retailers currently offering delivery.
func (h *CustomerHandler) GetRetailers(c echo.Context) error {
	var retailers []models.Retailer
	if err := h.DB.Where("deliverable = ?", true).Find(&retailers).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, retailers)
}

func (h *CustomerHandler) GetProducts(c echo.Context) error {
	retailerID, err := strconv.Atoi(c.Param("retailer_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid retailer id")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	var total int64
	if err := h.DB.Model(&models.Product{}).
		Where("retailer_id = ?", retailerID).
		Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var items []models.Product
	if err := h.DB.
		Where("retailer_id = ?", retailerID).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": items,
		"meta": echo.Map{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

// MakeOrder prices the order from the retailer's catalog and leaves a
// notification for the retailer.
func (h *CustomerHandler) MakeOrder(c echo.Context) error {
	var req struct {
		CustomerID uint   `json:"customer_id"`
		RetailerID uint   `json:"retailer_id"`
		Product    string `json:"product"`
		Quantity   int    `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	var retailer models.Retailer
	if err := h.DB.First(&retailer, req.RetailerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Retailer not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var product models.Product
	if err := h.DB.Where("retailer_id = ? AND name = ?", retailer.ID, req.Product).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	order := models.Order{
		CustomerID: req.CustomerID,
		RetailerID: retailer.ID,
		Product:    product.Name,
		Quantity:   req.Quantity,
		TotalPrice: product.Price * float64(req.Quantity),
		Status:     "Pending",
	}
	if err := h.DB.Create(&order).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	notif := models.Notification{
		RetailerID: retailer.ID,
		Message:    fmt.Sprintf("New order: %d x %s", order.Quantity, order.Product),
	}
	if err := h.DB.Create(&notif).Error; err != nil {
		c.Logger().Errorf("notification write error: %v", err)
	}

	publishEvent(c, h.Producer, orderEventsTopic, fmt.Sprint(order.ID), map[string]any{
		"type":       "order_created",
		"orderID":    order.ID,
		"retailerID": retailer.ID,
		"customerID": req.CustomerID,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"message":     "Order placed",
		"order_id":    order.ID,
		"total_price": order.TotalPrice,
	})
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}
