package console

import (
	"context"
	"strings"

	"github.com/labstack/gommon/random"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/boutiquehq/boutique/internal/domain"
	"github.com/boutiquehq/boutique/internal/store"
	"github.com/boutiquehq/boutique/pkg/common"
)

var (
	ErrWrongPassword = errors.New("console: wrong password")
	ErrEmptyPassword = errors.New("console: password must not be empty")
	ErrEmptyPromo    = errors.New("console: promo code must not be empty")
)

// Console implements the admin panel operations over the data access layer:
// product management, order confirmation, promo codes, settings. Login is a
// UI gate only; it does not protect the store itself.
type Console struct {
	store *store.Store
}

func New(st *store.Store) *Console {
	return &Console{store: st}
}

// Login compares the input against the stored admin password and, when a
// remote backend is configured, exchanges it for a bearer token so the
// admin-gated API endpoints work for this session. Remote login failures are
// logged but do not block local access.
func (a *Console) Login(ctx context.Context, password string) error {
	if password != a.store.GetAdminPassword(ctx) {
		return ErrWrongPassword
	}
	if remote := a.store.Remote(); remote != nil {
		if err := remote.Login(ctx, password); err != nil {
			zap.L().Debug("remote admin login failed", zap.Error(err))
		}
	}
	return nil
}

func (a *Console) ChangePassword(ctx context.Context, newPassword string) error {
	if strings.TrimSpace(newPassword) == "" {
		return ErrEmptyPassword
	}
	return a.store.SaveAdminPassword(ctx, newPassword)
}

// CommitDraft validates the multi-step draft and persists the resulting
// product through the store.
func (a *Console) CommitDraft(ctx context.Context, draft domain.ProductDraft) (*domain.Product, error) {
	p, err := draft.Commit(common.UUID)
	if err != nil {
		return nil, err
	}
	if err := a.store.SaveProduct(ctx, p); err != nil {
		return nil, err
	}
	zap.L().Info("product created", zap.String("id", p.ID), zap.String("code", p.Code))
	return p, nil
}

func (a *Console) SaveProduct(ctx context.Context, p *domain.Product) error {
	return a.store.SaveProduct(ctx, p)
}

func (a *Console) DeleteProduct(ctx context.Context, id string) error {
	return a.store.DeleteProduct(ctx, id)
}

// SearchProducts filters the catalog by code substring, the same lookup the
// admin list view uses. An empty query returns everything.
func (a *Console) SearchProducts(ctx context.Context, query string) []domain.Product {
	products := a.store.GetProducts(ctx)
	if query == "" {
		return products
	}
	var out []domain.Product
	for _, p := range products {
		if strings.Contains(p.Code, query) {
			out = append(out, p)
		}
	}
	return out
}

func (a *Console) FindProductByCode(ctx context.Context, code string) (*domain.Product, error) {
	return a.store.FindProductByCode(ctx, code)
}

func (a *Console) Orders(ctx context.Context) []domain.Order {
	return a.store.GetOrders(ctx)
}

func (a *Console) ConfirmOrder(ctx context.Context, id string) error {
	return a.store.ConfirmOrder(ctx, id)
}

// CreatePromo appends a promo code; discount must fall within 0..100.
func (a *Console) CreatePromo(ctx context.Context, code string, discount float64) (*domain.PromoCode, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrEmptyPromo
	}
	promo := &domain.PromoCode{Code: code, Discount: discount}
	if err := a.store.SavePromo(ctx, promo); err != nil {
		return nil, err
	}
	return promo, nil
}

func (a *Console) Promos(ctx context.Context) []domain.PromoCode {
	return a.store.GetPromos(ctx)
}

// GeneratePromoCode produces a fresh 8-character uppercase code for the
// promo creation form.
func (a *Console) GeneratePromoCode() string {
	return random.String(8, random.Uppercase, random.Numeric)
}

// ShopSettings is the console's free-form settings blob, persisted in the
// local store.
type ShopSettings struct {
	ShopName     string `json:"shop_name" mapstructure:"shop_name"`
	Currency     string `json:"currency" mapstructure:"currency"`
	ContactPhone string `json:"contact_phone" mapstructure:"contact_phone"`
	Address      string `json:"address" mapstructure:"address"`
}

// SaveSettings decodes the loosely-typed settings form and stores it.
func (a *Console) SaveSettings(ctx context.Context, values map[string]interface{}) (*ShopSettings, error) {
	var current ShopSettings
	if err := a.store.Local().LoadShopSettings(&current); err != nil {
		return nil, err
	}
	if err := mapstructure.Decode(values, &current); err != nil {
		return nil, errors.Wrap(err, "decode settings")
	}
	if err := a.store.Local().SaveShopSettings(&current); err != nil {
		return nil, err
	}
	return &current, nil
}

func (a *Console) Settings(ctx context.Context) (*ShopSettings, error) {
	var s ShopSettings
	if err := a.store.Local().LoadShopSettings(&s); err != nil {
		return nil, err
	}
	return &s, nil
}
