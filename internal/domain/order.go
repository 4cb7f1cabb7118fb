package domain

import "time"

type OrderType string

const (
	OrderTypeDelivery OrderType = "DELIVERY"
	OrderTypeBooking  OrderType = "BOOKING"
)

func (t OrderType) Valid() bool {
	return t == OrderTypeDelivery || t == OrderTypeBooking
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// CartItem is a frozen product snapshot plus the ordered quantity. Later
// product edits never alter historical order lines.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

type GeoPoint struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
}

type UserInfo struct {
	Name     string   `json:"name"`
	Phone    string   `json:"phone"`
	Location GeoPoint `json:"location"`
}

// Order is created once at checkout and mutated only by status transitions.
// Total is computed at submission and never recomputed from live prices.
type Order struct {
	ID        string      `gorm:"primaryKey;size:64" json:"id"`
	Items     []CartItem  `gorm:"serializer:json" json:"items"`
	User      UserInfo    `gorm:"serializer:json;column:user_info" json:"user"`
	Type      OrderType   `gorm:"size:16" json:"type"`
	Total     float64     `json:"total"`
	Status    OrderStatus `gorm:"size:16;index" json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
}

func (Order) TableName() string {
	return "orders"
}
