package domain

import "time"

type ProductType string

const (
	ProductTypeSale ProductType = "SALE"
	ProductTypeRent ProductType = "RENT"
)

func (t ProductType) Valid() bool {
	return t == ProductTypeSale || t == ProductTypeRent
}

// MaxProductImages caps the image gallery per product.
const MaxProductImages = 4

// Product is a committed catalog item. Price holds the total price for SALE
// items and the hourly rate for RENT items.
type Product struct {
	ID          string      `gorm:"primaryKey;size:64" json:"id"`
	Code        string      `gorm:"index;size:64" json:"code"`
	Images      []string    `gorm:"serializer:json" json:"images"`
	Description string      `json:"description"`
	Type        ProductType `gorm:"size:16" json:"type"`
	Size        string      `gorm:"size:32" json:"size"`
	Price       float64     `json:"price"`
	Stock       int         `json:"stock"`
	// Discount is a per-product percentage reserved for future pricing;
	// checkout only applies the session promo discount.
	Discount  float64   `json:"discount"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}
