package pricing

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"merch-order-desk/models"
)

// DuplicatePolicy decides what happens when the feed repeats a (sku, size) pair
type DuplicatePolicy string

const (
	// DuplicateLastWins keeps the first-seen position and takes the later price
	DuplicateLastWins DuplicatePolicy = "last-wins"
	// DuplicateReject fails the whole catalog build
	DuplicateReject DuplicatePolicy = "reject"
)

// ErrDuplicateSize is returned under DuplicateReject
var ErrDuplicateSize = errors.New("duplicate size in catalog")

// ParseDuplicatePolicy maps a config value to a policy. Empty means last-wins.
func ParseDuplicatePolicy(value string) (DuplicatePolicy, error) {
	switch DuplicatePolicy(strings.ToLower(strings.TrimSpace(value))) {
	case "", DuplicateLastWins:
		return DuplicateLastWins, nil
	case DuplicateReject:
		return DuplicateReject, nil
	default:
		return "", fmt.Errorf("unknown duplicate size policy %q", value)
	}
}

// Catalog is the grouped, read-only product list of one loaded feed
type Catalog struct {
	products []models.Product
	index    map[string]int
}

// EmptyCatalog returns a catalog with no products (degraded mode)
func EmptyCatalog() *Catalog {
	return &Catalog{index: map[string]int{}}
}

// NewCatalog groups raw entries by SKU.
// Products keep first-seen order, and sizes keep first-seen order within a product.
// Entries without SKU or size, or with a negative price, are skipped.
func NewCatalog(entries []models.CatalogEntry, policy DuplicatePolicy) (*Catalog, error) {
	c := EmptyCatalog()
	sizeIndex := map[string]map[string]int{}

	for i, entry := range entries {
		sku := strings.TrimSpace(entry.SKU)
		size := strings.TrimSpace(entry.Size)
		if sku == "" || size == "" {
			log.Printf("⚠️  NewCatalog: skipping entry %d with empty sku or size (sku=%q, size=%q)", i, entry.SKU, entry.Size)
			continue
		}
		if entry.Price < 0 || entry.NamePrice < 0 {
			log.Printf("⚠️  NewCatalog: skipping entry %d with negative price (sku=%s, size=%s)", i, sku, size)
			continue
		}

		pos, exists := c.index[sku]
		if !exists {
			c.products = append(c.products, models.Product{
				SKU:        sku,
				Name:       strings.TrimSpace(entry.Name),
				AllowsName: entry.AllowsName,
				NamePrice:  entry.NamePrice,
				ImageURL:   strings.TrimSpace(entry.ImageURL),
			})
			pos = len(c.products) - 1
			c.index[sku] = pos
			sizeIndex[sku] = map[string]int{}
		}

		product := &c.products[pos]
		if product.ImageURL == "" {
			product.ImageURL = strings.TrimSpace(entry.ImageURL)
		}

		if at, dup := sizeIndex[sku][size]; dup {
			if policy == DuplicateReject {
				return nil, fmt.Errorf("%w: sku=%s size=%s", ErrDuplicateSize, sku, size)
			}
			log.Printf("⚠️  NewCatalog: duplicate size sku=%s size=%s, later price %.2f replaces %.2f", sku, size, entry.Price, product.Sizes[at].Price)
			product.Sizes[at].Price = entry.Price
			continue
		}

		sizeIndex[sku][size] = len(product.Sizes)
		product.Sizes = append(product.Sizes, models.SizePrice{Size: size, Price: entry.Price})
	}

	return c, nil
}

// Products returns a copy of the product list in feed order
func (c *Catalog) Products() []models.Product {
	out := make([]models.Product, len(c.products))
	for i, p := range c.products {
		p.Sizes = append([]models.SizePrice(nil), p.Sizes...)
		out[i] = p
	}
	return out
}

// Product looks a product up by SKU
func (c *Catalog) Product(sku string) (*models.Product, bool) {
	pos, ok := c.index[strings.TrimSpace(sku)]
	if !ok {
		return nil, false
	}
	return &c.products[pos], true
}

// Len returns the number of products
func (c *Catalog) Len() int {
	return len(c.products)
}
