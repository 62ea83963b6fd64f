package controller

import (
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"merch-order-desk/service"
)

// validImageSizes is a map of valid preview size values
var validImageSizes = map[string]bool{
	"thumb":  true,
	"medium": true,
}

// CatalogController handles HTTP requests for the product catalog
type CatalogController struct {
	catalogService *service.CatalogService
	imageService   *service.ImageService
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(catalogService *service.CatalogService, imageService *service.ImageService) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
		imageService:   imageService,
	}
}

// GetCatalog handles GET /api/catalog
// Example response:
// {
//   "products": [
//     {"sku": "TEE", "name": "Tee", "allowsName": true, "namePrice": 3,
//      "sizes": [{"size": "S", "price": 10}, {"size": "M", "price": 10}]}
//   ],
//   "warning": ""
// }
func (c *CatalogController) GetCatalog(w http.ResponseWriter, r *http.Request) {
	snapshot := c.catalogService.Snapshot()
	log.Printf("✅ GetCatalog: returning %d products", len(snapshot.Products))
	writeJSON(w, http.StatusOK, snapshot)
}

// ReloadCatalog handles POST /api/catalog/reload
func (c *CatalogController) ReloadCatalog(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 ReloadCatalog: Received %s request to %s", r.Method, r.URL.Path)

	c.catalogService.LoadCatalog(r.Context())
	writeJSON(w, http.StatusOK, c.catalogService.Snapshot())
}

// GetProductImage handles GET /api/catalog/{sku}/image?size=thumb|medium
func (c *CatalogController) GetProductImage(w http.ResponseWriter, r *http.Request) {
	sku := strings.TrimSpace(chi.URLParam(r, "sku"))
	size := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("size")))
	if size == "" {
		size = "thumb"
	}
	if !validImageSizes[size] {
		log.Printf("❌ GetProductImage: Invalid size: %s", size)
		http.Error(w, "Invalid size. Valid sizes: thumb, medium", http.StatusBadRequest)
		return
	}

	data, err := c.imageService.ProductImage(r.Context(), sku, size)
	if err != nil {
		writeError(w, "GetProductImage", err)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Printf("❌ GetProductImage: Error writing image: %v", err)
	}
}

// GetStoreSettings handles GET /api/settings
// Example response: {"dueDate": "Friday, Nov 1"}
func (c *CatalogController) GetStoreSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := c.catalogService.StoreSettings(r.Context())
	if err != nil {
		writeError(w, "GetStoreSettings", err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}
