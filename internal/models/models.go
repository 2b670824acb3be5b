package models

import (
	"time"
)

const (
	RoleCustomer = "customer"
	RoleRetailer = "retailer"
	RoleAdmin    = "admin"
)

const (
	StatusActive   = "active"
	StatusPending  = "pending"
	StatusRejected = "rejected"
)

type User struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username string `gorm:"unique;not null"          json:"username"`
	Email    string `gorm:"unique;not null"          json:"email"`
	Role     string `gorm:"not null"                 json:"role"`
	Password string `gorm:"not null"                 json:"-"`
	Status   string `gorm:"not null;default:active"  json:"status"`
}

type Retailer struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint   `gorm:"index;not null"           json:"user_id"`
	Location    string `json:"location"`
	Name        string `json:"name"`
	Deliverable bool   `gorm:"default:false"            json:"deliverable"`
}

type Product struct {
	ID         uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	RetailerID uint    `gorm:"index;not null"           json:"retailer_id"`
	Name       string  `gorm:"not null"                 json:"name"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
	Category   string  `json:"category"`
}

type Order struct {
	ID         uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID uint    `gorm:"index;not null"           json:"customer_id"`
	RetailerID uint    `gorm:"index;not null"           json:"retailer_id"`
	Product    string  `gorm:"not null"                 json:"product"`
	Quantity   int     `json:"quantity"`
	TotalPrice float64 `json:"total_price"`
	Status     string  `gorm:"not null;default:Pending" json:"status"`
}

type Notification struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	RetailerID uint      `gorm:"index;not null"           json:"retailer_id"`
	Message    string    `gorm:"not null"                 json:"message"`
	IsRead     bool      `gorm:"default:false"            json:"is_read"`
	Timestamp  time.Time `gorm:"autoCreateTime"           json:"timestamp"`
}
