package domain

import (
	"fmt"
	"testing"
)

func strp(s string) *string           { return &s }
func typp(t ProductType) *ProductType { return &t }
func f64p(f float64) *float64         { return &f }
func intp(i int) *int                 { return &i }

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func TestDraftCommit(t *testing.T) {
	draft := ProductDraft{
		Code:        strp("  D-100 "),
		Images:      []string{"a.jpg", "b.jpg"},
		Description: strp("velvet dress"),
		Type:        typp(ProductTypeRent),
		Size:        strp("S-M"),
		Price:       f64p(120000),
		Stock:       intp(2),
	}

	p, err := draft.Commit(sequentialIDs())
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if p.ID != "id-1" {
		t.Errorf("id = %q", p.ID)
	}
	if p.Code != "D-100" {
		t.Errorf("code not trimmed: %q", p.Code)
	}
	if p.Type != ProductTypeRent || p.Price != 120000 || p.Stock != 2 {
		t.Errorf("fields lost: %+v", p)
	}
	if p.Discount != 0 {
		t.Errorf("new products start with discount 0, got %v", p.Discount)
	}
}

func TestDraftCommitDefaults(t *testing.T) {
	draft := ProductDraft{Code: strp("D-1"), Type: typp(ProductTypeSale)}
	p, err := draft.Commit(sequentialIDs())
	if err != nil {
		t.Fatal(err)
	}
	if p.Stock != 1 {
		t.Errorf("default stock = %d, want 1", p.Stock)
	}
	if p.Price != 0 {
		t.Errorf("default price = %v, want 0", p.Price)
	}
}

func TestDraftCommitValidation(t *testing.T) {
	cases := []struct {
		name  string
		draft ProductDraft
		want  error
	}{
		{"no code", ProductDraft{Type: typp(ProductTypeSale)}, ErrDraftCodeRequired},
		{"blank code", ProductDraft{Code: strp("   "), Type: typp(ProductTypeSale)}, ErrDraftCodeRequired},
		{"no type", ProductDraft{Code: strp("D-1")}, ErrDraftInvalidType},
		{"bad type", ProductDraft{Code: strp("D-1"), Type: typp("LEASE")}, ErrDraftInvalidType},
		{"negative price", ProductDraft{Code: strp("D-1"), Type: typp(ProductTypeSale), Price: f64p(-1)}, ErrDraftNegativePrice},
		{"negative stock", ProductDraft{Code: strp("D-1"), Type: typp(ProductTypeSale), Stock: intp(-1)}, ErrDraftNegativeStock},
	}
	for _, tc := range cases {
		if _, err := tc.draft.Commit(sequentialIDs()); err != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestDraftCommitClampsImages(t *testing.T) {
	draft := ProductDraft{
		Code:   strp("D-1"),
		Type:   typp(ProductTypeSale),
		Images: []string{"1", "2", "3", "4", "5", "6"},
	}
	p, err := draft.Commit(sequentialIDs())
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Images) != MaxProductImages {
		t.Errorf("images = %d, want clamp at %d", len(p.Images), MaxProductImages)
	}
}
