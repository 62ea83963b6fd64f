package pricing

import (
	"errors"
	"testing"

	"merch-order-desk/models"
)

func TestNewCatalogGroupsBySKU(t *testing.T) {
	entries := []models.CatalogEntry{
		{SKU: "A", Name: "Shirt", Size: "S", Price: 10, AllowsName: true, NamePrice: 3},
		{SKU: "B", Name: "Hat", Size: "OS", Price: 15},
		{SKU: "A", Name: "Shirt", Size: "M", Price: 10, AllowsName: true, NamePrice: 3},
		{SKU: "A", Name: "Shirt", Size: "XL", Price: 12, AllowsName: true, NamePrice: 3, ImageURL: "https://img.example/a.png"},
	}

	c, err := NewCatalog(entries, DuplicateLastWins)
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}

	products := c.Products()
	if len(products) != 2 {
		t.Fatalf("NewCatalog() produced %d products, want 2", len(products))
	}
	if products[0].SKU != "A" || products[1].SKU != "B" {
		t.Errorf("product order = [%s %s], want first-seen [A B]", products[0].SKU, products[1].SKU)
	}

	shirt := products[0]
	wantSizes := []models.SizePrice{{Size: "S", Price: 10}, {Size: "M", Price: 10}, {Size: "XL", Price: 12}}
	if len(shirt.Sizes) != len(wantSizes) {
		t.Fatalf("shirt sizes = %v, want %v", shirt.Sizes, wantSizes)
	}
	for i, want := range wantSizes {
		if shirt.Sizes[i] != want {
			t.Errorf("shirt.Sizes[%d] = %v, want %v", i, shirt.Sizes[i], want)
		}
	}
	if shirt.ImageURL != "https://img.example/a.png" {
		t.Errorf("shirt.ImageURL = %q, want first non-empty image", shirt.ImageURL)
	}
	if !shirt.AllowsName || shirt.NamePrice != 3 {
		t.Errorf("shirt naming = (%v, %v), want (true, 3)", shirt.AllowsName, shirt.NamePrice)
	}
}

func TestNewCatalogSingleEntryScenario(t *testing.T) {
	entries := []models.CatalogEntry{
		{SKU: "A", Name: "Shirt", Size: "M", Price: 10, AllowsName: true, NamePrice: 3},
	}

	c, err := NewCatalog(entries, DuplicateLastWins)
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", c.Len())
	}
	p, ok := c.Product("A")
	if !ok {
		t.Fatal("Product(A) not found")
	}
	if p.Name != "Shirt" || len(p.Sizes) != 1 || p.Sizes[0] != (models.SizePrice{Size: "M", Price: 10}) {
		t.Errorf("Product(A) = %+v, want Shirt with [{M 10}]", p)
	}
}

func TestNewCatalogDuplicateSizes(t *testing.T) {
	entries := []models.CatalogEntry{
		{SKU: "A", Name: "Shirt", Size: "M", Price: 10},
		{SKU: "A", Name: "Shirt", Size: "L", Price: 11},
		{SKU: "A", Name: "Shirt", Size: "M", Price: 14},
	}

	t.Run("lastWinsKeepsDistinctSizes", func(t *testing.T) {
		c, err := NewCatalog(entries, DuplicateLastWins)
		if err != nil {
			t.Fatalf("NewCatalog() error = %v", err)
		}
		p, _ := c.Product("A")
		if len(p.Sizes) != 2 {
			t.Fatalf("sizes = %v, want 2 distinct sizes", p.Sizes)
		}
		if p.Sizes[0] != (models.SizePrice{Size: "M", Price: 14}) {
			t.Errorf("Sizes[0] = %v, want {M 14}", p.Sizes[0])
		}
	})

	t.Run("rejectFails", func(t *testing.T) {
		_, err := NewCatalog(entries, DuplicateReject)
		if !errors.Is(err, ErrDuplicateSize) {
			t.Fatalf("NewCatalog() error = %v, want ErrDuplicateSize", err)
		}
	})
}

func TestNewCatalogSkipsInvalidEntries(t *testing.T) {
	entries := []models.CatalogEntry{
		{SKU: "", Name: "Nameless", Size: "M", Price: 10},
		{SKU: "A", Name: "Shirt", Size: " ", Price: 10},
		{SKU: "B", Name: "Mug", Size: "OS", Price: -1},
		{SKU: "C", Name: "Pin", Size: "OS", Price: 0},
	}

	c, err := NewCatalog(entries, DuplicateLastWins)
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", c.Len())
	}
	if _, ok := c.Product("C"); !ok {
		t.Error("free product C should be kept")
	}
}

func TestCatalogProductsReturnsCopy(t *testing.T) {
	c, _ := NewCatalog([]models.CatalogEntry{{SKU: "A", Name: "Shirt", Size: "M", Price: 10}}, DuplicateLastWins)

	products := c.Products()
	products[0].Sizes[0].Price = 99

	p, _ := c.Product("A")
	if p.Sizes[0].Price != 10 {
		t.Errorf("catalog mutated through Products(): price = %v, want 10", p.Sizes[0].Price)
	}
}

func TestParseDuplicatePolicy(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    DuplicatePolicy
		wantErr bool
	}{
		{name: "emptyDefaultsToLastWins", value: "", want: DuplicateLastWins},
		{name: "lastWins", value: "last-wins", want: DuplicateLastWins},
		{name: "rejectMixedCase", value: " Reject ", want: DuplicateReject},
		{name: "unknown", value: "first-wins", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDuplicatePolicy(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDuplicatePolicy(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDuplicatePolicy(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}
