package storeapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm/clause"

	"github.com/boutiquehq/boutique/internal/domain"
	"github.com/boutiquehq/boutique/pkg/common"
)

// listProducts returns the storefront catalog as a bare JSON array, filtered
// to items with stock on hand. Out-of-stock products never appear here.
func (s *Server) listProducts(c echo.Context) error {
	db := s.db.Model(&domain.Product{}).Where("stock > 0")

	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		db = db.Where("code LIKE ? OR LOWER(description) LIKE ?", "%"+q+"%", "%"+strings.ToLower(q)+"%")
	}
	if typ := strings.TrimSpace(c.QueryParam("type")); typ != "" {
		db = db.Where("type = ?", typ)
	}

	var rows []domain.Product
	if err := db.Order("created_at DESC").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}
	if rows == nil {
		rows = []domain.Product{}
	}
	return c.JSON(http.StatusOK, rows)
}

func validateProduct(p *domain.Product) (string, bool) {
	if strings.TrimSpace(p.Code) == "" {
		return "Code is required", false
	}
	if !p.Type.Valid() {
		return "Type must be SALE or RENT", false
	}
	if p.Price < 0 {
		return "Price must not be negative", false
	}
	if p.Stock < 0 {
		return "Stock must not be negative", false
	}
	if len(p.Images) > domain.MaxProductImages {
		return "At most 4 images per product", false
	}
	return "", true
}

// upsertProduct inserts the product or, when the id already exists, replaces
// the stored record in full.
func (s *Server) upsertProduct(c echo.Context) error {
	var p domain.Product
	if err := c.Bind(&p); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if p.ID == "" {
		p.ID = common.UUID()
	}
	if msg, valid := validateProduct(&p); !valid {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", msg, nil)
	}

	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"code", "images", "description", "type", "size",
			"price", "stock", "discount", "updated_at",
		}),
	}).Create(&p).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to save product", err.Error())
	}
	return ok(c, p)
}

// deleteProduct removes by id; an unknown id is a no-op, not an error.
func (s *Server) deleteProduct(c echo.Context) error {
	id := c.Param("id")
	if err := s.db.Where("id = ?", id).Delete(&domain.Product{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}
