package store

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/boutiquehq/boutique/internal/domain"
)

func newTestLocal(t *testing.T) *LocalStore {
	t.Helper()
	s, err := OpenLocalStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open local store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testProduct(id, code string, stock int) *domain.Product {
	return &domain.Product{
		ID:          id,
		Code:        code,
		Images:      []string{"https://img.example/" + id + ".jpg"},
		Description: "velvet dress",
		Type:        domain.ProductTypeSale,
		Size:        "S-M",
		Price:       100000,
		Stock:       stock,
		Discount:    0,
	}
}

func TestLocalProductRoundTrip(t *testing.T) {
	s := newTestLocal(t)

	want := testProduct("p1", "D-100", 5)
	if err := s.PutProduct(want); err != nil {
		t.Fatalf("put: %v", err)
	}

	products, err := s.Products()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(products))
	}

	got := products[0]
	if got.ID != want.ID || got.Code != want.Code || got.Description != want.Description ||
		got.Type != want.Type || got.Size != want.Size || got.Price != want.Price ||
		got.Stock != want.Stock || got.Discount != want.Discount {
		t.Errorf("round trip mismatch: got %+v want %+v", got, *want)
	}
	if !reflect.DeepEqual(got.Images, want.Images) {
		t.Errorf("images mismatch: got %v want %v", got.Images, want.Images)
	}
}

func TestLocalPutProductUpsert(t *testing.T) {
	s := newTestLocal(t)

	if err := s.PutProduct(testProduct("p1", "D-100", 5)); err != nil {
		t.Fatal(err)
	}
	replacement := testProduct("p1", "D-200", 9)
	replacement.Price = 50000
	if err := s.PutProduct(replacement); err != nil {
		t.Fatal(err)
	}

	products, _ := s.Products()
	if len(products) != 1 {
		t.Fatalf("upsert should replace, got %d records", len(products))
	}
	if products[0].Code != "D-200" || products[0].Stock != 9 || products[0].Price != 50000 {
		t.Errorf("record not replaced: %+v", products[0])
	}
}

func TestLocalDeleteProduct(t *testing.T) {
	s := newTestLocal(t)

	if err := s.PutProduct(testProduct("p1", "D-100", 5)); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteProduct("p1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteProduct("missing"); err != nil {
		t.Fatalf("delete of unknown id should be a no-op, got %v", err)
	}
	if products, _ := s.Products(); len(products) != 0 {
		t.Errorf("expected empty catalog, got %d", len(products))
	}
}

func testOrder(id string, items ...domain.CartItem) *domain.Order {
	var total float64
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}
	return &domain.Order{
		ID:        id,
		Items:     items,
		User:      domain.UserInfo{Name: "Dilnoza", Phone: "+998901234567"},
		Type:      domain.OrderTypeDelivery,
		Total:     total,
		Status:    domain.OrderStatusPending,
		CreatedAt: time.Now(),
	}
}

func TestLocalAppendOrderDecrementsStock(t *testing.T) {
	s := newTestLocal(t)

	p := testProduct("p1", "D-100", 5)
	if err := s.PutProduct(p); err != nil {
		t.Fatal(err)
	}

	order := testOrder("o1", domain.CartItem{Product: *p, Quantity: 2})
	if err := s.AppendOrder(order); err != nil {
		t.Fatalf("append order: %v", err)
	}

	got, err := s.GetProduct("p1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Stock != 3 {
		t.Errorf("stock = %d, want 3", got.Stock)
	}

	orders, _ := s.Orders()
	if len(orders) != 1 || orders[0].ID != "o1" {
		t.Fatalf("order log mismatch: %+v", orders)
	}
}

func TestLocalAppendOrderClampsStockAtZero(t *testing.T) {
	s := newTestLocal(t)

	p := testProduct("p1", "D-100", 3)
	if err := s.PutProduct(p); err != nil {
		t.Fatal(err)
	}

	order := testOrder("o1", domain.CartItem{Product: *p, Quantity: 5})
	if err := s.AppendOrder(order); err != nil {
		t.Fatal(err)
	}

	got, _ := s.GetProduct("p1")
	if got.Stock != 0 {
		t.Errorf("stock = %d, want 0 (clamped, never negative)", got.Stock)
	}
}

func TestLocalAppendOrderUnknownProduct(t *testing.T) {
	s := newTestLocal(t)

	order := testOrder("o1", domain.CartItem{Product: *testProduct("ghost", "X", 1), Quantity: 1})
	if err := s.AppendOrder(order); err != nil {
		t.Fatalf("unknown line product must not fail the order: %v", err)
	}
	orders, _ := s.Orders()
	if len(orders) != 1 {
		t.Fatalf("order not recorded")
	}
}

func TestLocalConfirmOrder(t *testing.T) {
	s := newTestLocal(t)

	if err := s.AppendOrder(testOrder("o1")); err != nil {
		t.Fatal(err)
	}

	if err := s.ConfirmOrder("o1"); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	orders, _ := s.Orders()
	if orders[0].Status != domain.OrderStatusConfirmed {
		t.Errorf("status = %s, want CONFIRMED", orders[0].Status)
	}

	// repeat confirm is safe, status never regresses
	if err := s.ConfirmOrder("o1"); err != nil {
		t.Fatalf("second confirm: %v", err)
	}
	orders, _ = s.Orders()
	if orders[0].Status != domain.OrderStatusConfirmed {
		t.Errorf("status regressed to %s", orders[0].Status)
	}

	// unknown id is a no-op
	if err := s.ConfirmOrder("missing"); err != nil {
		t.Fatalf("confirm of unknown id: %v", err)
	}
}

func TestLocalPromosAppendOnly(t *testing.T) {
	s := newTestLocal(t)

	for _, p := range []domain.PromoCode{
		{Code: "SPRING20", Discount: 20},
		{Code: "VIP", Discount: 50},
		{Code: "SPRING20", Discount: 10},
	} {
		promo := p
		if err := s.AppendPromo(&promo); err != nil {
			t.Fatal(err)
		}
	}

	promos, err := s.Promos()
	if err != nil {
		t.Fatal(err)
	}
	if len(promos) != 3 {
		t.Fatalf("append-only list should keep duplicates, got %d", len(promos))
	}
	if promos[0].Code != "SPRING20" || promos[0].Discount != 20 {
		t.Errorf("insertion order lost: %+v", promos)
	}
}

func TestLocalAdminPassword(t *testing.T) {
	s := newTestLocal(t)

	if got := s.AdminPassword(); got != DefaultAdminPassword {
		t.Errorf("unset password = %q, want default %q", got, DefaultAdminPassword)
	}
	if err := s.SaveAdminPassword("s3cret"); err != nil {
		t.Fatal(err)
	}
	if got := s.AdminPassword(); got != "s3cret" {
		t.Errorf("password = %q after save", got)
	}
}

func TestLocalPendingOrdersSync(t *testing.T) {
	s := newTestLocal(t)

	if err := s.AppendOrder(testOrder("o1")); err != nil {
		t.Fatal(err)
	}
	if err := s.AppendOrder(testOrder("o2")); err != nil {
		t.Fatal(err)
	}

	pending, err := s.PendingOrders()
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 2 {
		t.Fatalf("pending = %d, want 2", len(pending))
	}

	if err := s.MarkOrderSynced("o1"); err != nil {
		t.Fatal(err)
	}
	pending, _ = s.PendingOrders()
	if len(pending) != 1 || pending[0].ID != "o2" {
		t.Errorf("pending after sync = %+v", pending)
	}
}
