package storeapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/boutiquehq/boutique/internal/domain"
	"github.com/boutiquehq/boutique/pkg/common"
	"github.com/boutiquehq/boutique/pkg/metrics"
)

// createOrder inserts the order and decrements each line item's product
// stock in the same transaction. The decrement is conditional: when stock
// covers the quantity it is subtracted, otherwise it clamps to zero so the
// column can never underflow. Rejecting insufficient orders outright remains
// a future hardening option.
func (s *Server) createOrder(c echo.Context) error {
	var o domain.Order
	if err := c.Bind(&o); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse order", err.Error())
	}
	if len(o.Items) == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Order has no items", nil)
	}
	if !o.Type.Valid() {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Type must be DELIVERY or BOOKING", nil)
	}
	if o.ID == "" {
		o.ID = common.UUID()
	}
	if o.Status == "" {
		o.Status = domain.OrderStatusPending
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&o).Error; err != nil {
			return err
		}
		for _, item := range o.Items {
			res := tx.Model(&domain.Product{}).
				Where("id = ? AND stock >= ?", item.ID, item.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				// insufficient stock or unknown product: clamp to zero
				if err := tx.Model(&domain.Product{}).
					Where("id = ?", item.ID).
					UpdateColumn("stock", 0).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		zap.L().Error("order insert failed", zap.String("order", o.ID), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to save order", err.Error())
	}

	metrics.Incr(metrics.MetricOrderCreated)
	zap.L().Info("order accepted", zap.String("order", o.ID), zap.Float64("total", o.Total))
	return ok(c, map[string]interface{}{"id": o.ID})
}

// parseDateRange reads optional from/to query params in any common date
// format. Empty values leave the bound open.
func parseDateRange(fromStr, toStr string) (from, to time.Time, err error) {
	if v := strings.TrimSpace(fromStr); v != "" {
		from, err = dateparse.ParseAny(v)
		if err != nil {
			return
		}
	}
	if v := strings.TrimSpace(toStr); v != "" {
		to, err = dateparse.ParseAny(v)
		if err != nil {
			return
		}
	}
	return
}

// listOrders returns the order log as a bare JSON array, newest first, with
// optional from/to creation-date filters.
func (s *Server) listOrders(c echo.Context) error {
	from, to, err := parseDateRange(c.QueryParam("from"), c.QueryParam("to"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse date filter", err.Error())
	}

	db := s.db.Model(&domain.Order{})
	if !from.IsZero() {
		db = db.Where("created_at >= ?", from)
	}
	if !to.IsZero() {
		db = db.Where("created_at <= ?", to)
	}
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		db = db.Where("status = ?", status)
	}

	var rows []domain.Order
	if err := db.Order("created_at DESC").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}
	if rows == nil {
		rows = []domain.Order{}
	}
	return c.JSON(http.StatusOK, rows)
}

// confirmOrder transitions a pending order to CONFIRMED. Unknown ids and
// repeated confirms both succeed without effect; the status never regresses.
func (s *Server) confirmOrder(c echo.Context) error {
	id := c.Param("id")
	err := s.db.Model(&domain.Order{}).
		Where("id = ? AND status = ?", id, domain.OrderStatusPending).
		Update("status", domain.OrderStatusConfirmed).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to confirm order", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}
