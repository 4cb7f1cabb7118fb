package cart

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/boutiquehq/boutique/internal/domain"
	"github.com/boutiquehq/boutique/internal/store"
	"github.com/boutiquehq/boutique/pkg/common"
)

var (
	ErrOutOfStock     = errors.New("cart: quantity exceeds available stock")
	ErrNotInCart      = errors.New("cart: product not in cart")
	ErrRemoveInstead  = errors.New("cart: quantity would drop to zero, remove the line instead")
	ErrInvalidPromo   = errors.New("cart: promo code not recognized")
	ErrEmptyCart      = errors.New("cart: cart is empty")
	ErrMissingContact = errors.New("cart: name and phone are required")
	ErrInvalidType    = errors.New("cart: order type must be DELIVERY or BOOKING")
)

// Engine holds one session's ephemeral cart state and runs checkout through
// the data access layer. The cart is never persisted; it is cleared after a
// successful order submission.
type Engine struct {
	store *store.Store

	mu       sync.Mutex
	items    []domain.CartItem
	discount float64
}

func NewEngine(st *store.Store) *Engine {
	return &Engine{store: st}
}

// AddToCart inserts the product with quantity 1, or bumps an existing line by
// one as long as the result stays within the product's stock.
func (e *Engine) AddToCart(p domain.Product) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.items {
		if e.items[i].ID == p.ID {
			if e.items[i].Quantity+1 > p.Stock {
				return ErrOutOfStock
			}
			e.items[i].Quantity++
			return nil
		}
	}
	e.items = append(e.items, domain.CartItem{Product: p, Quantity: 1})
	return nil
}

// UpdateQuantity adjusts a line by delta. The result must stay above zero and
// within the stock snapshot known to this session.
func (e *Engine) UpdateQuantity(id string, delta int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.items {
		if e.items[i].ID != id {
			continue
		}
		qty := e.items[i].Quantity + delta
		if qty <= 0 {
			return ErrRemoveInstead
		}
		if qty > e.items[i].Stock {
			return ErrOutOfStock
		}
		e.items[i].Quantity = qty
		return nil
	}
	return ErrNotInCart
}

func (e *Engine) RemoveFromCart(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.items {
		if e.items[i].ID == id {
			e.items = append(e.items[:i], e.items[i+1:]...)
			return
		}
	}
}

// Items returns a snapshot copy of the cart lines.
func (e *Engine) Items() []domain.CartItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]domain.CartItem(nil), e.items...)
}

// Discount returns the session promo percentage, 0 unless a valid promo was
// applied this session.
func (e *Engine) Discount() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.discount
}

// Total is the live cart total: sum of price times quantity scaled by the
// applied promo percentage.
func (e *Engine) Total() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.totalLocked()
}

func (e *Engine) totalLocked() float64 {
	var subtotal float64
	for _, item := range e.items {
		subtotal += item.Price * float64(item.Quantity)
	}
	return subtotal * (1 - e.discount/100)
}

// ApplyPromo matches the code case-insensitively against the promo list. A
// miss leaves the current discount unchanged and reports ErrInvalidPromo.
func (e *Engine) ApplyPromo(ctx context.Context, code string) (float64, error) {
	for _, promo := range e.store.GetPromos(ctx) {
		if strings.EqualFold(promo.Code, code) {
			e.mu.Lock()
			e.discount = promo.Discount
			e.mu.Unlock()
			return promo.Discount, nil
		}
	}
	return e.Discount(), ErrInvalidPromo
}

// Checkout validates the contact info, freezes the cart into a PENDING order
// with a fresh id and submits it through the store. On success the cart and
// the session discount are cleared. Validation failures submit nothing.
func (e *Engine) Checkout(ctx context.Context, user domain.UserInfo, typ domain.OrderType) (*domain.Order, error) {
	if strings.TrimSpace(user.Name) == "" || strings.TrimSpace(user.Phone) == "" {
		return nil, ErrMissingContact
	}
	if !typ.Valid() {
		return nil, ErrInvalidType
	}

	e.mu.Lock()
	if len(e.items) == 0 {
		e.mu.Unlock()
		return nil, ErrEmptyCart
	}
	order := &domain.Order{
		ID:        common.UUID(),
		Items:     append([]domain.CartItem(nil), e.items...),
		User:      user,
		Type:      typ,
		Total:     e.totalLocked(),
		Status:    domain.OrderStatusPending,
		CreatedAt: time.Now(),
	}
	e.mu.Unlock()

	if err := e.store.SaveOrder(ctx, order); err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.items = nil
	e.discount = 0
	e.mu.Unlock()

	zap.L().Info("order submitted",
		zap.String("order", order.ID),
		zap.Float64("total", order.Total),
		zap.String("type", string(order.Type)))
	return order, nil
}
