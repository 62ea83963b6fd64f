package models

// CatalogEntry is one (item, size) row as emitted by the backend items feed
type CatalogEntry struct {
	SKU        string  `json:"sku"`
	Name       string  `json:"name"`
	Size       string  `json:"size"`
	Price      float64 `json:"price"`
	AllowsName bool    `json:"allowsName"`
	NamePrice  float64 `json:"namePrice"`
	ImageURL   string  `json:"imageUrl,omitempty"`
}

// SizePrice is a sellable size of a product and its base price
type SizePrice struct {
	Size  string  `json:"size"`
	Price float64 `json:"price"`
}

// Product groups every catalog entry sharing a SKU
type Product struct {
	SKU        string      `json:"sku"`
	Name       string      `json:"name"`
	AllowsName bool        `json:"allowsName"`
	NamePrice  float64     `json:"namePrice"`
	ImageURL   string      `json:"imageUrl,omitempty"`
	Sizes      []SizePrice `json:"sizes"`
}

// PriceFor returns the base price of the given size, if the product sells it
func (p *Product) PriceFor(size string) (float64, bool) {
	for _, s := range p.Sizes {
		if s.Size == size {
			return s.Price, true
		}
	}
	return 0, false
}

// CatalogResponse is returned by GET /api/catalog
// Warning is set when the catalog could not be loaded and the list is empty
type CatalogResponse struct {
	Products []Product `json:"products"`
	Warning  string    `json:"warning,omitempty"`
}

// StoreSettings is the display-only settings document from ?path=settings
type StoreSettings struct {
	DueDate string `json:"dueDate"`
}
