package console

import (
	"bytes"
	"context"
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/boutiquehq/boutique/internal/domain"
	"github.com/boutiquehq/boutique/internal/store"
)

func newTestConsole(t *testing.T) (*Console, *store.Store) {
	t.Helper()
	local, err := store.OpenLocalStore(filepath.Join(t.TempDir(), "console.db"))
	if err != nil {
		t.Fatalf("open local store: %v", err)
	}
	t.Cleanup(func() { _ = local.Close() })
	st := store.New(local, nil, nil)
	return New(st), st
}

func seedOrder(t *testing.T, st *store.Store, id string, total float64) {
	t.Helper()
	err := st.SaveOrder(context.Background(), &domain.Order{
		ID:        id,
		Items:     []domain.CartItem{{Product: domain.Product{ID: "p-" + id, Code: "C", Price: total}, Quantity: 1}},
		User:      domain.UserInfo{Name: "Aziza", Phone: "+998"},
		Type:      domain.OrderTypeDelivery,
		Total:     total,
		Status:    domain.OrderStatusPending,
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestLoginGate(t *testing.T) {
	a, _ := newTestConsole(t)
	ctx := context.Background()

	if err := a.Login(ctx, "wrong"); err != ErrWrongPassword {
		t.Errorf("wrong password, got %v", err)
	}
	if err := a.Login(ctx, store.DefaultAdminPassword); err != nil {
		t.Errorf("default password should pass: %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	a, _ := newTestConsole(t)
	ctx := context.Background()

	if err := a.ChangePassword(ctx, "  "); err != ErrEmptyPassword {
		t.Errorf("blank password, got %v", err)
	}
	if err := a.ChangePassword(ctx, "newpass"); err != nil {
		t.Fatal(err)
	}
	if err := a.Login(ctx, store.DefaultAdminPassword); err != ErrWrongPassword {
		t.Errorf("old password still accepted")
	}
	if err := a.Login(ctx, "newpass"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
}

func TestCommitDraftPersists(t *testing.T) {
	a, st := newTestConsole(t)
	ctx := context.Background()

	code := "D-100"
	typ := domain.ProductTypeSale
	price := 620000.0
	p, err := a.CommitDraft(ctx, domain.ProductDraft{Code: &code, Type: &typ, Price: &price})
	if err != nil {
		t.Fatalf("commit draft: %v", err)
	}

	products := st.GetProducts(ctx)
	if len(products) != 1 || products[0].ID != p.ID || products[0].Code != "D-100" {
		t.Errorf("draft not persisted: %+v", products)
	}
}

func TestSearchProductsByCode(t *testing.T) {
	a, st := newTestConsole(t)
	ctx := context.Background()

	for _, p := range []domain.Product{
		{ID: "p1", Code: "D-100", Type: domain.ProductTypeSale, Stock: 1},
		{ID: "p2", Code: "R-200", Type: domain.ProductTypeRent, Stock: 1},
	} {
		prod := p
		if err := st.Local().PutProduct(&prod); err != nil {
			t.Fatal(err)
		}
	}

	if got := a.SearchProducts(ctx, "R-2"); len(got) != 1 || got[0].ID != "p2" {
		t.Errorf("search = %+v", got)
	}
	if got := a.SearchProducts(ctx, ""); len(got) != 2 {
		t.Errorf("empty query should return everything, got %d", len(got))
	}
}

func TestCreatePromo(t *testing.T) {
	a, st := newTestConsole(t)
	ctx := context.Background()

	if _, err := a.CreatePromo(ctx, " ", 10); err != ErrEmptyPromo {
		t.Errorf("blank code, got %v", err)
	}
	if _, err := a.CreatePromo(ctx, "X", 150); err != store.ErrInvalidDiscount {
		t.Errorf("discount 150, got %v", err)
	}
	if _, err := a.CreatePromo(ctx, "SPRING20", 20); err != nil {
		t.Fatal(err)
	}
	if promos := st.GetPromos(ctx); len(promos) != 1 || promos[0].Code != "SPRING20" {
		t.Errorf("promos = %+v", promos)
	}
}

func TestGeneratePromoCode(t *testing.T) {
	a, _ := newTestConsole(t)
	code := a.GeneratePromoCode()
	if len(code) != 8 {
		t.Errorf("code length = %d, want 8", len(code))
	}
	if code == a.GeneratePromoCode() && code == a.GeneratePromoCode() {
		t.Errorf("generator keeps returning %q", code)
	}
}

func TestStats(t *testing.T) {
	a, st := newTestConsole(t)
	ctx := context.Background()

	seedOrder(t, st, "o1", 100)
	seedOrder(t, st, "o2", 200)
	seedOrder(t, st, "o3", 600)
	if err := a.ConfirmOrder(ctx, "o2"); err != nil {
		t.Fatal(err)
	}

	got := a.Stats(ctx)
	if got.Count != 3 || got.Pending != 2 || got.Confirmed != 1 {
		t.Errorf("counts = %+v", got)
	}
	if math.Abs(got.Revenue-200) > 1e-9 {
		t.Errorf("revenue = %v, want 200 (confirmed only)", got.Revenue)
	}
	if math.Abs(got.MeanTotal-300) > 1e-9 {
		t.Errorf("mean = %v, want 300", got.MeanTotal)
	}
	if math.Abs(got.MedianTotal-200) > 1e-9 {
		t.Errorf("median = %v, want 200", got.MedianTotal)
	}
}

func TestExportOrdersCSV(t *testing.T) {
	a, st := newTestConsole(t)
	ctx := context.Background()
	seedOrder(t, st, "o1", 100)

	var buf bytes.Buffer
	if err := a.ExportOrdersCSV(ctx, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "id,customer,phone") {
		t.Errorf("csv header missing: %q", out)
	}
	if !strings.Contains(out, "o1") || !strings.Contains(out, "Aziza") {
		t.Errorf("csv row missing: %q", out)
	}
}

func TestExportOrdersXLSX(t *testing.T) {
	a, st := newTestConsole(t)
	ctx := context.Background()
	seedOrder(t, st, "o1", 100)

	var buf bytes.Buffer
	if err := a.ExportOrdersXLSX(ctx, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("empty workbook")
	}
}

func TestSaveSettings(t *testing.T) {
	a, _ := newTestConsole(t)
	ctx := context.Background()

	got, err := a.SaveSettings(ctx, map[string]interface{}{
		"shop_name": "Gulnora Boutique",
		"currency":  "UZS",
	})
	if err != nil {
		t.Fatalf("save settings: %v", err)
	}
	if got.ShopName != "Gulnora Boutique" || got.Currency != "UZS" {
		t.Errorf("settings = %+v", got)
	}

	loaded, err := a.Settings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.ShopName != "Gulnora Boutique" {
		t.Errorf("settings not persisted: %+v", loaded)
	}
}
