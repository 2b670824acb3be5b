package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/localmarket/hub/internal/hash"
	"github.com/localmarket/hub/internal/mailer"
	"github.com/localmarket/hub/internal/models"
	"github.com/localmarket/hub/internal/mykafka"
)

type AdminHandler struct {
	DB             *gorm.DB
	Mailer         mailer.EmailService
	Producer       *mykafka.Producer
	ApprovalBCC    string
	PlainPasswords bool
}

func (h *AdminHandler) sendMail(c echo.Context, to, subject, body string) {
	if h.Mailer == nil || to == "" {
		return
	}
	if err := h.Mailer.Send(to, subject, body); err != nil {
		c.Logger().Errorf("email send error: %v", err)
	}
}

func (h *AdminHandler) Register(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.Role != models.RoleAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "Invalid role for admin registration")
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
		Role:     models.RoleAdmin,
		Password: credential,
		Status:   models.StatusActive,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "admin registered successfully",
		"user_id": user.ID,
	})
}

func (h *AdminHandler) Login(c echo.Context) error {
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
	if user.Role != models.RoleAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "Unauthorized")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Login successful",
		"user_id": user.ID,
	})
}

func (h *AdminHandler) GetAllUsers(c echo.Context) error {
	var users []models.User
	if err := h.DB.Find(&users).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) GetAllRetailers(c echo.Context) error {
	var retailers []models.Retailer
	if err := h.DB.Find(&retailers).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, retailers)
}

func (h *AdminHandler) GetAllOrders(c echo.Context) error {
	var orders []models.Order
	if err := h.DB.Find(&orders).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *AdminHandler) GetPendingRetailers(c echo.Context) error {
	var pending []models.User
	if err := h.DB.
		Where("role = ? AND status = ?", models.RoleRetailer, models.StatusPending).
		Find(&pending).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	out := make([]echo.Map, 0, len(pending))
	for _, u := range pending {
		out = append(out, echo.Map{"id": u.ID, "username": u.Username, "email": u.Email})
	}
	return c.JSON(http.StatusOK, out)
}

// ApproveRetailer activates a pending retailer account. Self-registered
// retailers have no retailer row until this point, so one is created here
// to give inventory and order endpoints an id to key on.
func (h *AdminHandler) ApproveRetailer(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid retailer id")
	}

	var user models.User
	if err := h.DB.Where("id = ? AND role = ?", id, models.RoleRetailer).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Retailer not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	user.Status = models.StatusActive
	if err := h.DB.Save(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var retailer models.Retailer
	err = h.DB.Where("user_id = ?", user.ID).First(&retailer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		retailer = models.Retailer{UserID: user.ID, Name: user.Username}
		if err := h.DB.Create(&retailer).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	} else if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	notif := models.Notification{
		RetailerID: retailer.ID,
		Message:    "Your account has been approved. You can now log in and manage your inventory.",
	}
	if err := h.DB.Create(&notif).Error; err != nil {
		c.Logger().Errorf("notification write error: %v", err)
	}

	h.sendMail(c, user.Email, "Retailer Approved",
		fmt.Sprintf("Hi %s, your account has been approved! You can now log in and manage your inventory.", user.Username))
	h.sendMail(c, h.ApprovalBCC, "Retailer Approved",
		fmt.Sprintf("Retailer %s has been approved.", user.Username))

	publishEvent(c, h.Producer, userEventsTopic, fmt.Sprint(user.ID), map[string]any{
		"type":     "retailer_approved",
		"userID":   user.ID,
		"username": user.Username,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"message": fmt.Sprintf("Retailer %s approved", user.Username),
	})
}

func (h *AdminHandler) RejectRetailer(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid retailer id")
	}

	var user models.User
	if err := h.DB.Where("id = ? AND role = ?", id, models.RoleRetailer).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Retailer not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	user.Status = models.StatusRejected
	if err := h.DB.Save(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.sendMail(c, user.Email, "Retailer Registration Rejected",
		fmt.Sprintf("Hi %s, unfortunately your registration was not approved.", user.Username))

	publishEvent(c, h.Producer, userEventsTopic, fmt.Sprint(user.ID), map[string]any{
		"type":     "retailer_rejected",
		"userID":   user.ID,
		"username": user.Username,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"message": fmt.Sprintf("Retailer %s rejected", user.Username),
	})
}
