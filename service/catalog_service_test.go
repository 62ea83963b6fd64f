package service

import (
	"context"
	"errors"
	"testing"

	"merch-order-desk/models"
	"merch-order-desk/pricing"
)

func TestLoadCatalog(t *testing.T) {
	t.Run("groupsFeed", func(t *testing.T) {
		repo := &MockCatalogRepo{
			ListItemsFunc: func(ctx context.Context) ([]models.CatalogEntry, error) {
				return []models.CatalogEntry{
					{SKU: "TEE", Name: "Tee", Size: "S", Price: 10},
					{SKU: "TEE", Name: "Tee", Size: "M", Price: 12},
					{SKU: "CAP", Name: "Cap", Size: "OS", Price: 8},
				}, nil
			},
		}
		svc := NewCatalogService(repo, pricing.DuplicateLastWins)

		catalog := svc.LoadCatalog(context.Background())
		if catalog.Len() != 2 {
			t.Fatalf("catalog has %d products, want 2", catalog.Len())
		}
		if svc.Warning() != "" {
			t.Errorf("Warning() = %q, want empty", svc.Warning())
		}
		if svc.Catalog() != catalog {
			t.Error("Catalog() should return the loaded catalog")
		}
	})

	t.Run("feedFailureLeavesEmptyCatalogWithWarning", func(t *testing.T) {
		repo := &MockCatalogRepo{
			ListItemsFunc: func(ctx context.Context) ([]models.CatalogEntry, error) {
				return nil, errors.New("connection refused")
			},
		}
		svc := NewCatalogService(repo, pricing.DuplicateLastWins)

		catalog := svc.LoadCatalog(context.Background())
		if catalog == nil || catalog.Len() != 0 {
			t.Fatalf("catalog = %v, want empty catalog", catalog)
		}
		snapshot := svc.Snapshot()
		if snapshot.Warning != CatalogLoadWarning {
			t.Errorf("Snapshot().Warning = %q, want %q", snapshot.Warning, CatalogLoadWarning)
		}
		if len(snapshot.Products) != 0 {
			t.Errorf("Snapshot().Products has %d entries, want 0", len(snapshot.Products))
		}
	})

	t.Run("rejectPolicyDegradesOnDuplicates", func(t *testing.T) {
		repo := &MockCatalogRepo{
			ListItemsFunc: func(ctx context.Context) ([]models.CatalogEntry, error) {
				return []models.CatalogEntry{
					{SKU: "TEE", Name: "Tee", Size: "S", Price: 10},
					{SKU: "TEE", Name: "Tee", Size: "S", Price: 11},
				}, nil
			},
		}
		svc := NewCatalogService(repo, pricing.DuplicateReject)

		if catalog := svc.LoadCatalog(context.Background()); catalog.Len() != 0 {
			t.Errorf("catalog has %d products, want 0", catalog.Len())
		}
		if svc.Warning() != CatalogLoadWarning {
			t.Errorf("Warning() = %q, want load warning", svc.Warning())
		}
	})

	t.Run("reloadClearsWarning", func(t *testing.T) {
		fail := true
		repo := &MockCatalogRepo{
			ListItemsFunc: func(ctx context.Context) ([]models.CatalogEntry, error) {
				if fail {
					return nil, errors.New("timeout")
				}
				return []models.CatalogEntry{{SKU: "CAP", Name: "Cap", Size: "OS", Price: 8}}, nil
			},
		}
		svc := NewCatalogService(repo, pricing.DuplicateLastWins)

		svc.LoadCatalog(context.Background())
		fail = false
		svc.LoadCatalog(context.Background())

		if svc.Warning() != "" || svc.Catalog().Len() != 1 {
			t.Errorf("after reload: warning=%q len=%d, want no warning and 1 product", svc.Warning(), svc.Catalog().Len())
		}
	})
}

func TestReloadFailureKeepsLoadedCatalog(t *testing.T) {
	fail := false
	repo := &MockCatalogRepo{
		ListItemsFunc: func(ctx context.Context) ([]models.CatalogEntry, error) {
			if fail {
				return nil, errors.New("timeout")
			}
			return []models.CatalogEntry{
				{SKU: "TEE", Name: "Tee", Size: "S", Price: 10},
				{SKU: "CAP", Name: "Cap", Size: "OS", Price: 8},
			}, nil
		},
	}
	svc := NewCatalogService(repo, pricing.DuplicateLastWins)

	loaded := svc.LoadCatalog(context.Background())
	fail = true
	reloaded := svc.LoadCatalog(context.Background())

	if reloaded != loaded || svc.Catalog() != loaded {
		t.Fatal("failed reload should keep the previously loaded catalog")
	}
	if svc.Catalog().Len() != 2 {
		t.Errorf("catalog has %d products, want 2", svc.Catalog().Len())
	}
	if _, ok := svc.Catalog().Product("CAP"); !ok {
		t.Error("CAP should still be orderable after a failed reload")
	}
	if svc.Warning() != CatalogRefreshWarning {
		t.Errorf("Warning() = %q, want %q", svc.Warning(), CatalogRefreshWarning)
	}

	fail = false
	svc.LoadCatalog(context.Background())
	if svc.Warning() != "" {
		t.Errorf("Warning() after successful reload = %q, want empty", svc.Warning())
	}
}

func TestNewCatalogServiceStartsEmpty(t *testing.T) {
	svc := NewCatalogService(&MockCatalogRepo{}, pricing.DuplicateLastWins)
	if svc.Catalog() == nil || svc.Catalog().Len() != 0 {
		t.Error("new service should hold an empty catalog")
	}
	if _, ok := svc.Catalog().Product("ANY"); ok {
		t.Error("empty catalog should not resolve products")
	}
}

func TestStoreSettings(t *testing.T) {
	repo := &MockCatalogRepo{
		GetStoreSettingsFunc: func(ctx context.Context) (*models.StoreSettings, error) {
			return &models.StoreSettings{DueDate: "2026-11-01"}, nil
		},
	}
	svc := NewCatalogService(repo, pricing.DuplicateLastWins)

	settings, err := svc.StoreSettings(context.Background())
	if err != nil {
		t.Fatalf("StoreSettings() error = %v", err)
	}
	if settings.DueDate != "2026-11-01" {
		t.Errorf("DueDate = %q, want 2026-11-01", settings.DueDate)
	}
}
