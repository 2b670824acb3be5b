package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/localmarket/hub/internal/hash"
	"github.com/localmarket/hub/internal/models"
	"github.com/localmarket/hub/internal/mykafka"
)

func TestRetailerRegister(t *testing.T) {
	db := InitTestDB(t)
	e := echo.New()
	h := &RetailerHandler{DB: db, Producer: &mykafka.Producer{}}

	payload := map[string]string{
		"username": "fresh_mart",
		"email":    "fresh@example.com",
		"password": "password",
		"role":     "retailer",
	}

	rec, c := doJSONRequest(t, e, http.MethodPost, "/retailer/register", payload)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var user models.User
	require.NoError(t, db.Where("username = ?", "fresh_mart").First(&user).Error)
	require.Equal(t, models.StatusPending, user.Status)
	require.Equal(t, models.RoleRetailer, user.Role)
	require.NotEqual(t, "password", user.Password)

	_, cDup := doJSONRequest(t, e, http.MethodPost, "/retailer/register", payload)
	requireHTTPError(t, h.Register(cDup), http.StatusBadRequest)

	payload["username"] = "someone_else"
	payload["role"] = "customer"
	_, cRole := doJSONRequest(t, e, http.MethodPost, "/retailer/register", payload)
	requireHTTPError(t, h.Register(cRole), http.StatusForbidden)
}

func TestRetailerLoginStatusGating(t *testing.T) {
	db := InitTestDB(t)
	e := echo.New()
	h := &RetailerHandler{DB: db, Producer: &mykafka.Producer{}}

	pw, err := hash.HashPassword("password")
	require.NoError(t, err)

	users := []models.User{
		{Username: "pending_shop", Email: "p@example.com", Role: models.RoleRetailer, Password: pw, Status: models.StatusPending},
		{Username: "active_shop", Email: "a@example.com", Role: models.RoleRetailer, Password: pw, Status: models.StatusActive},
		{Username: "rejected_shop", Email: "r@example.com", Role: models.RoleRetailer, Password: pw, Status: models.StatusRejected},
		{Username: "plain_customer", Email: "c@example.com", Role: models.RoleCustomer, Password: pw, Status: models.StatusActive},
	}
	for i := range users {
		require.NoError(t, db.Create(&users[i]).Error)
	}

	login := func(username, password string) (int, error) {
		rec, c := doJSONRequest(t, e, http.MethodPost, "/retailer/login", map[string]string{
			"username": username,
			"password": password,
		})
		err := h.Login(c)
		return rec.Code, err
	}

	code, err := login("active_shop", "password")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, code)

	_, err = login("pending_shop", "password")
	requireHTTPError(t, err, http.StatusForbidden)

	_, err = login("rejected_shop", "password")
	requireHTTPError(t, err, http.StatusForbidden)

	_, err = login("plain_customer", "password")
	requireHTTPError(t, err, http.StatusForbidden)

	_, err = login("active_shop", "wrong")
	requireHTTPError(t, err, http.StatusUnauthorized)

	_, err = login("nobody", "password")
	requireHTTPError(t, err, http.StatusUnauthorized)
}

func TestUpdateInventoryCreateDefaults(t *testing.T) {
	db := InitTestDB(t)
	e := echo.New()
	h := &RetailerHandler{DB: db, Producer: &mykafka.Producer{}}

	rec, c := doJSONRequest(t, e, http.MethodPost, "/retailer/inventory/update", map[string]any{
		"retailer_id":  1,
		"product_name": "Tomato",
		"new_qty":      25,
	})
	require.NoError(t, h.UpdateInventory(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var product models.Product
	require.NoError(t, db.Where("retailer_id = ? AND name = ?", 1, "Tomato").First(&product).Error)
	require.Equal(t, 25, product.Quantity)
	require.Equal(t, 0.0, product.Price)
	require.Equal(t, "Uncategorized", product.Category)
}

func TestUpdateInventoryPartialUpdate(t *testing.T) {
	db := InitTestDB(t)
	e := echo.New()
	h := &RetailerHandler{DB: db, Producer: &mykafka.Producer{}}

	_, cCreate := doJSONRequest(t, e, http.MethodPost, "/retailer/inventory/update", map[string]any{
		"retailer_id":  1,
		"product_name": "Tomato",
		"new_qty":      25,
		"price":        40.0,
		"category":     "Vegetables",
	})
	require.NoError(t, h.UpdateInventory(cCreate))

	// quantity-only update must preserve price and category
	rec, cQty := doJSONRequest(t, e, http.MethodPost, "/retailer/inventory/update", map[string]any{
		"retailer_id":  1,
		"product_name": "Tomato",
		"new_qty":      10,
	})
	require.NoError(t, h.UpdateInventory(cQty))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Message  string  `json:"message"`
		Price    float64 `json:"price"`
		Category string  `json:"category"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 40.0, resp.Price)
	require.Equal(t, "Vegetables", resp.Category)

	var product models.Product
	require.NoError(t, db.Where("retailer_id = ? AND name = ?", 1, "Tomato").First(&product).Error)
	require.Equal(t, 10, product.Quantity)
	require.Equal(t, 40.0, product.Price)
	require.Equal(t, "Vegetables", product.Category)

	var count int64
	require.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestSetDeliveryStatus(t *testing.T) {
	db := InitTestDB(t)
	e := echo.New()
	h := &RetailerHandler{DB: db, Producer: &mykafka.Producer{}}

	retailer := models.Retailer{UserID: 1, Location: "ADYAR", Name: "FreshMart", Deliverable: false}
	require.NoError(t, db.Create(&retailer).Error)

	rec, c := doJSONRequest(t, e, http.MethodPost, "/retailer/delivery-status", map[string]any{
		"retailer_id": retailer.ID,
		"deliverable": true,
	})
	require.NoError(t, h.SetDeliveryStatus(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.Retailer
	require.NoError(t, db.First(&updated, retailer.ID).Error)
	require.True(t, updated.Deliverable)

	_, cMissing := doJSONRequest(t, e, http.MethodPost, "/retailer/delivery-status", map[string]any{
		"retailer_id": 999,
		"deliverable": true,
	})
	requireHTTPError(t, h.SetDeliveryStatus(cMissing), http.StatusNotFound)
}

func TestGetInventoryEmpty(t *testing.T) {
	db := InitTestDB(t)
	e := echo.New()
	h := &RetailerHandler{DB: db, Producer: &mykafka.Producer{}}

	rec, c := doJSONRequest(t, e, http.MethodGet, "/retailer/inventory/7", nil)
	c.SetParamNames("retailer_id")
	c.SetParamValues("7")

	require.NoError(t, h.GetInventory(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var products []models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	require.Empty(t, products)
}

func TestNotificationsNewestFirst(t *testing.T) {
	db := InitTestDB(t)
	e := echo.New()
	h := &RetailerHandler{DB: db, Producer: &mykafka.Producer{}}

	now := time.Now()
	notifications := []models.Notification{
		{RetailerID: 1, Message: "oldest", Timestamp: now.Add(-2 * time.Hour)},
		{RetailerID: 1, Message: "newest", Timestamp: now},
		{RetailerID: 1, Message: "middle", Timestamp: now.Add(-1 * time.Hour)},
		{RetailerID: 2, Message: "other retailer", Timestamp: now},
	}
	for i := range notifications {
		require.NoError(t, db.Create(&notifications[i]).Error)
	}

	list := func() []models.Notification {
		rec, c := doJSONRequest(t, e, http.MethodGet, "/retailer/notifications/1", nil)
		c.SetParamNames("retailer_id")
		c.SetParamValues("1")
		require.NoError(t, h.GetNotifications(c))
		require.Equal(t, http.StatusOK, rec.Code)

		var got []models.Notification
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		return got
	}

	got := list()
	require.Len(t, got, 3)
	require.Equal(t, "newest", got[0].Message)
	require.Equal(t, "middle", got[1].Message)
	require.Equal(t, "oldest", got[2].Message)

	rec, cRead := doJSONRequest(t, e, http.MethodPost, "/retailer/notifications/read/0", nil)
	cRead.SetParamNames("id")
	cRead.SetParamValues(jsonID(got[1].ID))
	require.NoError(t, h.MarkNotificationRead(cRead))
	require.Equal(t, http.StatusOK, rec.Code)

	// marking as read must not move the entry
	got = list()
	require.Len(t, got, 3)
	require.Equal(t, "middle", got[1].Message)
	require.True(t, got[1].IsRead)

	_, cMissing := doJSONRequest(t, e, http.MethodPost, "/retailer/notifications/read/999", nil)
	cMissing.SetParamNames("id")
	cMissing.SetParamValues("999")
	requireHTTPError(t, h.MarkNotificationRead(cMissing), http.StatusNotFound)
}
