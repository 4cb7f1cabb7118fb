package domain

import (
	"strings"

	"github.com/pkg/errors"
)

// ProductDraft is the in-progress product built up by the multi-step admin
// form. Every field is optional until Commit, which validates the draft and
// produces an immutable Product with a generated id.
type ProductDraft struct {
	Code        *string      `json:"code,omitempty"`
	Images      []string     `json:"images,omitempty"`
	Description *string      `json:"description,omitempty"`
	Type        *ProductType `json:"type,omitempty"`
	Size        *string      `json:"size,omitempty"`
	Price       *float64     `json:"price,omitempty"`
	Stock       *int         `json:"stock,omitempty"`
}

var (
	ErrDraftCodeRequired  = errors.New("draft: product code is required")
	ErrDraftInvalidType   = errors.New("draft: product type must be SALE or RENT")
	ErrDraftNegativePrice = errors.New("draft: price must not be negative")
	ErrDraftNegativeStock = errors.New("draft: stock must not be negative")
)

// Commit validates the draft and freezes it into a Product. The id is
// assigned by newID; discount starts at 0 and the gallery is clamped to
// MaxProductImages entries.
func (d ProductDraft) Commit(newID func() string) (*Product, error) {
	if d.Code == nil || strings.TrimSpace(*d.Code) == "" {
		return nil, ErrDraftCodeRequired
	}
	if d.Type == nil || !d.Type.Valid() {
		return nil, ErrDraftInvalidType
	}

	price := 0.0
	if d.Price != nil {
		if *d.Price < 0 {
			return nil, ErrDraftNegativePrice
		}
		price = *d.Price
	}

	stock := 1
	if d.Stock != nil {
		if *d.Stock < 0 {
			return nil, ErrDraftNegativeStock
		}
		stock = *d.Stock
	}

	images := d.Images
	if len(images) > MaxProductImages {
		images = images[:MaxProductImages]
	}

	p := &Product{
		ID:       newID(),
		Code:     strings.TrimSpace(*d.Code),
		Images:   append([]string(nil), images...),
		Type:     *d.Type,
		Price:    price,
		Stock:    stock,
		Discount: 0,
	}
	if d.Description != nil {
		p.Description = *d.Description
	}
	if d.Size != nil {
		p.Size = *d.Size
	}
	return p, nil
}
