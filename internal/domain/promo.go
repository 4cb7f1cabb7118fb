package domain

// PromoCode applies a flat percentage discount to the cart total. Codes are
// matched case-insensitively; there is no expiry or usage limit.
type PromoCode struct {
	Code     string  `json:"code"`
	Discount float64 `json:"discount"`
}
