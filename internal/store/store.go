package store

import (
	"context"
	"sync"

	"github.com/asaskevich/EventBus"
	"github.com/google/btree"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/boutiquehq/boutique/internal/domain"
	"github.com/boutiquehq/boutique/pkg/metrics"
)

// TopicOrderCreated is published on the event bus after every accepted order,
// remote or fallback.
const TopicOrderCreated = "order.created"

var (
	ErrNotFound        = errors.New("store: not found")
	ErrInvalidDiscount = errors.New("store: promo discount must be between 0 and 100")
)

// Store unifies the remote storefront API and the local bbolt store behind
// one CRUD contract. Every remote failure, connection error or non-200 alike,
// silently drops to the local path: callers never learn which backend served
// them. Promo codes and the admin password are local-only in every build.
type Store struct {
	local  *LocalStore
	remote *RemoteStore // nil in local-only mode
	bus    EventBus.Bus

	mu      sync.RWMutex
	codeIdx *btree.BTree
}

type codeEntry struct {
	code    string
	product domain.Product
}

func (e codeEntry) Less(than btree.Item) bool {
	return e.code < than.(codeEntry).code
}

func New(local *LocalStore, remote *RemoteStore, bus EventBus.Bus) *Store {
	return &Store{
		local:   local,
		remote:  remote,
		bus:     bus,
		codeIdx: btree.New(8),
	}
}

// Local exposes the fallback store for jobs that operate on it directly.
func (s *Store) Local() *LocalStore {
	return s.local
}

// Remote exposes the remote client, nil in local-only mode.
func (s *Store) Remote() *RemoteStore {
	return s.remote
}

// SetAuthToken forwards the admin bearer token to the remote client.
func (s *Store) SetAuthToken(token string) {
	if s.remote != nil {
		s.remote.SetToken(token)
	}
}

// GetProducts never fails outright: remote errors fall back to the local
// copy, and a local read error yields an empty catalog. The two backends may
// diverge; no reconciliation of product data is attempted here.
func (s *Store) GetProducts(ctx context.Context) []domain.Product {
	if s.remote != nil {
		ps, err := s.remote.Products(ctx)
		if err == nil {
			s.reindex(ps)
			return ps
		}
		zap.L().Debug("remote catalog unavailable, using local copy", zap.Error(err))
	}
	ps, err := s.local.Products()
	if err != nil {
		zap.L().Error("local catalog read failed", zap.Error(err))
		return nil
	}
	s.reindex(ps)
	return ps
}

// SaveProduct upserts by id. The remote write is attempted first; on failure
// the product is written through to the local copy only, so the stores may
// diverge until the remote is reachable again.
func (s *Store) SaveProduct(ctx context.Context, p *domain.Product) error {
	if s.remote != nil {
		if err := s.remote.PutProduct(ctx, p); err == nil {
			return nil
		} else {
			zap.L().Debug("remote product save failed, writing local copy", zap.String("id", p.ID), zap.Error(err))
		}
	}
	return s.local.PutProduct(p)
}

// DeleteProduct attempts the remote delete and always applies the local
// delete regardless of the remote outcome, so a stale local copy cannot
// resurface the product later.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	if s.remote != nil {
		if err := s.remote.DeleteProduct(ctx, id); err != nil {
			zap.L().Debug("remote product delete failed", zap.String("id", id), zap.Error(err))
		}
	}
	return s.local.DeleteProduct(id)
}

// SaveOrder submits the order remote-first. In the fallback path the order
// append and the local stock decrement happen as one unit of work inside a
// single local transaction; see LocalStore.AppendOrder.
func (s *Store) SaveOrder(ctx context.Context, o *domain.Order) error {
	if s.remote != nil {
		if err := s.remote.CreateOrder(ctx, o); err == nil {
			metrics.Incr(metrics.MetricOrderCreated)
			s.publishOrder(o)
			return nil
		} else {
			zap.L().Warn("remote order submit failed, recording locally",
				zap.String("order", o.ID), zap.Error(err))
		}
	}
	if err := s.local.AppendOrder(o); err != nil {
		return err
	}
	metrics.Incr(metrics.MetricOrderCreated)
	metrics.Incr(metrics.MetricOrderFallback)
	s.publishOrder(o)
	return nil
}

func (s *Store) GetOrders(ctx context.Context) []domain.Order {
	if s.remote != nil {
		os, err := s.remote.Orders(ctx)
		if err == nil {
			return os
		}
		zap.L().Debug("remote order list unavailable, using local log", zap.Error(err))
	}
	os, err := s.local.Orders()
	if err != nil {
		zap.L().Error("local order log read failed", zap.Error(err))
		return nil
	}
	return os
}

// ConfirmOrder transitions the order to CONFIRMED. Unknown ids are no-ops,
// repeat calls are safe. The local log is updated best-effort even when the
// remote confirm succeeds, to keep both views of a fallback order aligned.
func (s *Store) ConfirmOrder(ctx context.Context, id string) error {
	if s.remote != nil {
		if err := s.remote.ConfirmOrder(ctx, id); err != nil {
			zap.L().Debug("remote order confirm failed", zap.String("order", id), zap.Error(err))
		}
	}
	return s.local.ConfirmOrder(id)
}

// GetPromos returns the local-only promo list; promos have no remote
// persistence in any variant.
func (s *Store) GetPromos(ctx context.Context) []domain.PromoCode {
	promos, err := s.local.Promos()
	if err != nil {
		zap.L().Error("local promo read failed", zap.Error(err))
		return nil
	}
	return promos
}

func (s *Store) SavePromo(ctx context.Context, p *domain.PromoCode) error {
	if p.Discount < 0 || p.Discount > 100 {
		return ErrInvalidDiscount
	}
	return s.local.AppendPromo(p)
}

func (s *Store) GetAdminPassword(ctx context.Context) string {
	return s.local.AdminPassword()
}

func (s *Store) SaveAdminPassword(ctx context.Context, pwd string) error {
	return s.local.SaveAdminPassword(pwd)
}

// FindProductByCode returns the first product whose code exactly equals the
// query, or ErrNotFound. The catalog is refreshed before the lookup; the
// btree index keeps the first occurrence when codes collide.
func (s *Store) FindProductByCode(ctx context.Context, code string) (*domain.Product, error) {
	s.GetProducts(ctx)

	s.mu.RLock()
	item := s.codeIdx.Get(codeEntry{code: code})
	s.mu.RUnlock()
	if item == nil {
		return nil, ErrNotFound
	}
	p := item.(codeEntry).product
	return &p, nil
}

func (s *Store) reindex(products []domain.Product) {
	idx := btree.New(8)
	for _, p := range products {
		entry := codeEntry{code: p.Code, product: p}
		if idx.Has(entry) {
			continue
		}
		idx.ReplaceOrInsert(entry)
	}
	s.mu.Lock()
	s.codeIdx = idx
	s.mu.Unlock()
}

func (s *Store) publishOrder(o *domain.Order) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(TopicOrderCreated, *o)
}
