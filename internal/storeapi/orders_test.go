package storeapi

import (
	"testing"
	"time"

	"github.com/boutiquehq/boutique/internal/domain"
)

func TestParseDateRange(t *testing.T) {
	cases := []struct {
		name     string
		from, to string
		wantErr  bool
		fromZero bool
		toZero   bool
	}{
		{"both empty", "", "", false, true, true},
		{"whitespace only", "  ", "\t", false, true, true},
		{"iso dates", "2026-01-01", "2026-02-01", false, false, false},
		{"slash format", "01/15/2026", "", false, false, true},
		{"rfc3339", "2026-01-01T10:00:00Z", "", false, false, true},
		{"garbage from", "not-a-date", "2026-01-01", true, true, true},
		{"garbage to", "2026-01-01", "not-a-date", true, false, true},
	}

	for _, tc := range cases {
		from, to, err := parseDateRange(tc.from, tc.to)
		if (err != nil) != tc.wantErr {
			t.Errorf("%s: err = %v, wantErr %v", tc.name, err, tc.wantErr)
			continue
		}
		if from.IsZero() != tc.fromZero {
			t.Errorf("%s: from = %v, want zero=%v", tc.name, from, tc.fromZero)
		}
		if to.IsZero() != tc.toZero {
			t.Errorf("%s: to = %v, want zero=%v", tc.name, to, tc.toZero)
		}
	}
}

func TestParseDateRangeValues(t *testing.T) {
	from, to, err := parseDateRange("2026-03-01", "2026-03-31")
	if err != nil {
		t.Fatal(err)
	}
	if from.Month() != time.March || from.Day() != 1 {
		t.Errorf("from = %v", from)
	}
	if to.Day() != 31 {
		t.Errorf("to = %v", to)
	}
}

func TestValidateProduct(t *testing.T) {
	valid := func() *domain.Product {
		return &domain.Product{
			ID:    "p1",
			Code:  "D-100",
			Type:  domain.ProductTypeSale,
			Price: 100000,
			Stock: 3,
		}
	}

	if msg, ok := validateProduct(valid()); !ok {
		t.Fatalf("valid product rejected: %s", msg)
	}

	cases := []struct {
		name   string
		mutate func(*domain.Product)
	}{
		{"empty code", func(p *domain.Product) { p.Code = "  " }},
		{"bad type", func(p *domain.Product) { p.Type = "LEASE" }},
		{"negative price", func(p *domain.Product) { p.Price = -1 }},
		{"negative stock", func(p *domain.Product) { p.Stock = -1 }},
		{"too many images", func(p *domain.Product) {
			p.Images = []string{"1", "2", "3", "4", "5"}
		}},
	}
	for _, tc := range cases {
		p := valid()
		tc.mutate(p)
		if _, ok := validateProduct(p); ok {
			t.Errorf("%s: invalid product accepted", tc.name)
		}
	}
}
