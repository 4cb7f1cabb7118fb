package store

import (
	"encoding/binary"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	"github.com/boutiquehq/boutique/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	bucketProducts = []byte("boutique_products")
	bucketOrders   = []byte("boutique_orders")
	bucketPromos   = []byte("boutique_promos")
	bucketSettings = []byte("boutique_settings")

	keyAdminPassword = []byte("admin_password")
	keyShopSettings  = []byte("shop_settings")
)

// DefaultAdminPassword is returned until an explicit password save happens.
const DefaultAdminPassword = "netlify1"

// LocalStore is the browser-localStorage equivalent: a single-file bbolt
// database holding serialized copies of every entity. It is the sole backend
// in local-only builds and the fallback when the remote API is unreachable.
type LocalStore struct {
	db *bolt.DB
}

// orderRecord wraps an order with sync state for the reconciliation job.
// Synced is false for orders the remote database never saw.
type orderRecord struct {
	domain.Order
	Synced bool `json:"synced"`
}

func OpenLocalStore(path string) (*LocalStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "open local store")
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketProducts, bucketOrders, bucketPromos, bucketSettings} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "init local store buckets")
	}
	return &LocalStore{db: db}, nil
}

func (s *LocalStore) Close() error {
	return s.db.Close()
}

func (s *LocalStore) Products() ([]domain.Product, error) {
	var out []domain.Product
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketProducts).ForEach(func(_, v []byte) error {
			var p domain.Product
			if err := json.Unmarshal(v, &p); err != nil {
				return err
			}
			out = append(out, p)
			return nil
		})
	})
	return out, err
}

func (s *LocalStore) GetProduct(id string) (*domain.Product, error) {
	var p domain.Product
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketProducts).Get([]byte(id))
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &p)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// PutProduct upserts by id: an existing record is replaced in full.
func (s *LocalStore) PutProduct(p *domain.Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return errors.Wrap(err, "marshal product")
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketProducts).Put([]byte(p.ID), data)
	})
}

// DeleteProduct is a no-op when the id is unknown.
func (s *LocalStore) DeleteProduct(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketProducts).Delete([]byte(id))
	})
}

// AppendOrder records an order the remote never saw and decrements local
// product stock by each line quantity, clamped at zero. Both writes happen in
// one bbolt transaction so the order log and the inventory view cannot
// diverge from each other.
func (s *LocalStore) AppendOrder(o *domain.Order) error {
	data, err := json.Marshal(orderRecord{Order: *o})
	if err != nil {
		return errors.Wrap(err, "marshal order")
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketOrders).Put([]byte(o.ID), data); err != nil {
			return err
		}
		products := tx.Bucket(bucketProducts)
		for _, item := range o.Items {
			v := products.Get([]byte(item.ID))
			if v == nil {
				continue
			}
			var p domain.Product
			if err := json.Unmarshal(v, &p); err != nil {
				return err
			}
			p.Stock -= item.Quantity
			if p.Stock < 0 {
				p.Stock = 0
			}
			p.UpdatedAt = time.Now()
			pv, err := json.Marshal(&p)
			if err != nil {
				return err
			}
			if err := products.Put([]byte(p.ID), pv); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *LocalStore) Orders() ([]domain.Order, error) {
	var out []domain.Order
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketOrders).ForEach(func(_, v []byte) error {
			var rec orderRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			out = append(out, rec.Order)
			return nil
		})
	})
	return out, err
}

// PendingOrders returns orders recorded only in the local log, oldest first.
func (s *LocalStore) PendingOrders() ([]domain.Order, error) {
	var out []domain.Order
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketOrders).ForEach(func(_, v []byte) error {
			var rec orderRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			if !rec.Synced {
				out = append(out, rec.Order)
			}
			return nil
		})
	})
	return out, err
}

func (s *LocalStore) MarkOrderSynced(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketOrders)
		v := b.Get([]byte(id))
		if v == nil {
			return nil
		}
		var rec orderRecord
		if err := json.Unmarshal(v, &rec); err != nil {
			return err
		}
		rec.Synced = true
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		return b.Put([]byte(id), data)
	})
}

// ConfirmOrder transitions a pending order to CONFIRMED. Unknown ids and
// already-confirmed orders are no-ops; the status never regresses.
func (s *LocalStore) ConfirmOrder(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketOrders)
		v := b.Get([]byte(id))
		if v == nil {
			return nil
		}
		var rec orderRecord
		if err := json.Unmarshal(v, &rec); err != nil {
			return err
		}
		if rec.Status != domain.OrderStatusPending {
			return nil
		}
		rec.Status = domain.OrderStatusConfirmed
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		return b.Put([]byte(id), data)
	})
}

func (s *LocalStore) Promos() ([]domain.PromoCode, error) {
	var out []domain.PromoCode
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPromos).ForEach(func(_, v []byte) error {
			var p domain.PromoCode
			if err := json.Unmarshal(v, &p); err != nil {
				return err
			}
			out = append(out, p)
			return nil
		})
	})
	return out, err
}

// AppendPromo adds to the promo list. The list is append-only; duplicate
// codes are allowed and the first match wins at lookup time.
func (s *LocalStore) AppendPromo(p *domain.PromoCode) error {
	data, err := json.Marshal(p)
	if err != nil {
		return errors.Wrap(err, "marshal promo")
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPromos)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(itob(seq), data)
	})
}

func (s *LocalStore) AdminPassword() string {
	var pwd string
	_ = s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketSettings).Get(keyAdminPassword); v != nil {
			pwd = string(v)
		}
		return nil
	})
	if pwd == "" {
		return DefaultAdminPassword
	}
	return pwd
}

func (s *LocalStore) SaveAdminPassword(pwd string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSettings).Put(keyAdminPassword, []byte(pwd))
	})
}

// SaveShopSettings stores the console settings blob as JSON.
func (s *LocalStore) SaveShopSettings(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "marshal settings")
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSettings).Put(keyShopSettings, data)
	})
}

// LoadShopSettings decodes the stored settings blob into out. Missing
// settings leave out untouched.
func (s *LocalStore) LoadShopSettings(out interface{}) error {
	return s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketSettings).Get(keyShopSettings)
		if v == nil {
			return nil
		}
		return json.Unmarshal(v, out)
	})
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
