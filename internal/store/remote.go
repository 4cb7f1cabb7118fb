package store

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/guonaihong/gout"
	"github.com/pkg/errors"

	"github.com/boutiquehq/boutique/config"
	"github.com/boutiquehq/boutique/internal/domain"
)

// RemoteStore talks to the storefront API. Every call carries an explicit
// timeout so a hung connection degrades to the local fallback instead of
// never resolving.
type RemoteStore struct {
	baseURL string
	timeout time.Duration

	mu    sync.RWMutex
	token string
}

// NewRemoteStore returns nil when no base URL is configured, which puts the
// data access layer into local-only mode.
func NewRemoteStore(cfg config.RemoteConfig) *RemoteStore {
	if cfg.BaseURL == "" {
		return nil
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &RemoteStore{baseURL: cfg.BaseURL, timeout: timeout, token: cfg.Token}
}

// SetToken installs the bearer token used for admin-gated endpoints.
func (r *RemoteStore) SetToken(token string) {
	r.mu.Lock()
	r.token = token
	r.mu.Unlock()
}

func (r *RemoteStore) headers() gout.H {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h := gout.H{"Content-Type": "application/json"}
	if r.token != "" {
		h["Authorization"] = "Bearer " + r.token
	}
	return h
}

func statusErr(code int) error {
	if code != http.StatusOK {
		return errors.Errorf("remote: unexpected status %d", code)
	}
	return nil
}

func (r *RemoteStore) Products(ctx context.Context) ([]domain.Product, error) {
	var (
		code int
		out  []domain.Product
	)
	err := gout.GET(r.baseURL + "/products").
		WithContext(ctx).
		SetTimeout(r.timeout).
		SetHeader(r.headers()).
		Code(&code).
		BindJSON(&out).
		Do()
	if err != nil {
		return nil, errors.Wrap(err, "remote: get products")
	}
	if err := statusErr(code); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *RemoteStore) PutProduct(ctx context.Context, p *domain.Product) error {
	var code int
	err := gout.POST(r.baseURL + "/products").
		WithContext(ctx).
		SetTimeout(r.timeout).
		SetHeader(r.headers()).
		SetJSON(p).
		Code(&code).
		Do()
	if err != nil {
		return errors.Wrap(err, "remote: save product")
	}
	return statusErr(code)
}

func (r *RemoteStore) DeleteProduct(ctx context.Context, id string) error {
	var code int
	err := gout.DELETE(r.baseURL + "/products/" + id).
		WithContext(ctx).
		SetTimeout(r.timeout).
		SetHeader(r.headers()).
		Code(&code).
		Do()
	if err != nil {
		return errors.Wrap(err, "remote: delete product")
	}
	return statusErr(code)
}

func (r *RemoteStore) CreateOrder(ctx context.Context, o *domain.Order) error {
	var code int
	err := gout.POST(r.baseURL + "/orders").
		WithContext(ctx).
		SetTimeout(r.timeout).
		SetHeader(r.headers()).
		SetJSON(o).
		Code(&code).
		Do()
	if err != nil {
		return errors.Wrap(err, "remote: create order")
	}
	return statusErr(code)
}

func (r *RemoteStore) Orders(ctx context.Context) ([]domain.Order, error) {
	var (
		code int
		out  []domain.Order
	)
	err := gout.GET(r.baseURL + "/orders").
		WithContext(ctx).
		SetTimeout(r.timeout).
		SetHeader(r.headers()).
		Code(&code).
		BindJSON(&out).
		Do()
	if err != nil {
		return nil, errors.Wrap(err, "remote: get orders")
	}
	if err := statusErr(code); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *RemoteStore) ConfirmOrder(ctx context.Context, id string) error {
	var code int
	err := gout.POST(r.baseURL + "/orders/" + id + "/confirm").
		WithContext(ctx).
		SetTimeout(r.timeout).
		SetHeader(r.headers()).
		Code(&code).
		Do()
	if err != nil {
		return errors.Wrap(err, "remote: confirm order")
	}
	return statusErr(code)
}

// Login exchanges the admin password for a bearer token and installs it.
func (r *RemoteStore) Login(ctx context.Context, password string) error {
	var (
		code int
		out  struct {
			Token string `json:"token"`
		}
	)
	err := gout.POST(r.baseURL + "/admin/login").
		WithContext(ctx).
		SetTimeout(r.timeout).
		SetJSON(gout.H{"password": password}).
		Code(&code).
		BindJSON(&out).
		Do()
	if err != nil {
		return errors.Wrap(err, "remote: login")
	}
	if err := statusErr(code); err != nil {
		return err
	}
	r.SetToken(out.Token)
	return nil
}
