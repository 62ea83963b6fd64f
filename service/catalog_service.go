package service

import (
	"context"
	"fmt"
	"log"
	"sync"

	"merch-order-desk/models"
	"merch-order-desk/pricing"
	"merch-order-desk/repository"
)

const (
	// CatalogLoadWarning is shown when the items feed could not be loaded
	CatalogLoadWarning = "Could not load items. The item list is empty; try reloading later."
	// CatalogRefreshWarning is shown when a reload failed and the previous items stay in use
	CatalogRefreshWarning = "Could not refresh items. Showing the last loaded list."
)

// CatalogProvider hands out the currently loaded catalog
type CatalogProvider interface {
	Catalog() *pricing.Catalog
}

// CatalogService owns the loaded catalog. It is written on (re)load and read by
// the pricing and order services afterwards.
type CatalogService struct {
	repository repository.CatalogRepositoryInterface
	policy     pricing.DuplicatePolicy

	mu      sync.RWMutex
	catalog *pricing.Catalog
	warning string
}

// NewCatalogService creates a new CatalogService with an empty catalog
func NewCatalogService(repo repository.CatalogRepositoryInterface, policy pricing.DuplicatePolicy) *CatalogService {
	return &CatalogService{
		repository: repo,
		policy:     policy,
		catalog:    pricing.EmptyCatalog(),
	}
}

// Ensure CatalogService implements CatalogProvider
var _ CatalogProvider = (*CatalogService)(nil)

// LoadCatalog fetches and groups the items feed. Single attempt, no retry.
// On failure the previously loaded catalog stays in place (empty before the
// first success) and Warning reports why; callers always get a usable catalog back.
func (s *CatalogService) LoadCatalog(ctx context.Context) *pricing.Catalog {
	log.Printf("🔄 LoadCatalog: fetching items feed")

	catalog, err := s.fetch(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		if s.catalog.Len() == 0 {
			log.Printf("⚠️  LoadCatalog: %v", err)
			s.warning = CatalogLoadWarning
		} else {
			log.Printf("⚠️  LoadCatalog: %v; keeping %d loaded products", err, s.catalog.Len())
			s.warning = CatalogRefreshWarning
		}
		return s.catalog
	}

	s.catalog = catalog
	s.warning = ""
	log.Printf("✅ LoadCatalog: %d products loaded", catalog.Len())
	return s.catalog
}

func (s *CatalogService) fetch(ctx context.Context) (*pricing.Catalog, error) {
	entries, err := s.repository.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	catalog, err := pricing.NewCatalog(entries, s.policy)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog: %w", err)
	}
	return catalog, nil
}

// Catalog returns the current catalog
func (s *CatalogService) Catalog() *pricing.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}

// Warning returns the user-visible load warning, or "" when the last load succeeded
func (s *CatalogService) Warning() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.warning
}

// Snapshot returns the products and warning for rendering
func (s *CatalogService) Snapshot() models.CatalogResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CatalogResponse{
		Products: s.catalog.Products(),
		Warning:  s.warning,
	}
}

// StoreSettings returns the display-only store settings (due date)
func (s *CatalogService) StoreSettings(ctx context.Context) (*models.StoreSettings, error) {
	return s.repository.GetStoreSettings(ctx)
}
