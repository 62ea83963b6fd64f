package repository

import (
	"context"
	"net/url"

	"merch-order-desk/models"
)

// CatalogRepositoryInterface defines the contract for reading the items feed
type CatalogRepositoryInterface interface {
	ListItems(ctx context.Context) ([]models.CatalogEntry, error)
	GetStoreSettings(ctx context.Context) (*models.StoreSettings, error)
}

// OrderRepositoryInterface defines the contract for submitting and reading orders
type OrderRepositoryInterface interface {
	SubmitOrder(ctx context.Context, payload *models.OrderPayload, requestID string) (*models.SubmitResult, error)
	LookupOrder(ctx context.Context, orderID string, last string) (*models.OrderView, error)
	LookupURL(ctx context.Context, orderID string, last string) (string, error)
}

// AdminRepositoryInterface defines the contract for privileged backend actions
type AdminRepositoryInterface interface {
	Ping(ctx context.Context) (string, error)
	AdminJSON(ctx context.Context, action string, params url.Values, cred Credential, out interface{}) error
	AdminRaw(ctx context.Context, action string, params url.Values, cred Credential) ([]byte, error)
}

// SettingsRepositoryInterface defines the contract for the persisted connection settings
type SettingsRepositoryInterface interface {
	Load(ctx context.Context) (models.ConnectionSettings, error)
	Save(ctx context.Context, settings models.ConnectionSettings) error
}
