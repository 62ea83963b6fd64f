package service

import (
	"context"
	"net/url"
	"sync"

	"merch-order-desk/models"
	"merch-order-desk/pricing"
	"merch-order-desk/repository"
)

// MockCatalogRepo is a mock implementation of repository.CatalogRepositoryInterface
type MockCatalogRepo struct {
	ListItemsFunc        func(ctx context.Context) ([]models.CatalogEntry, error)
	GetStoreSettingsFunc func(ctx context.Context) (*models.StoreSettings, error)
}

func (m *MockCatalogRepo) ListItems(ctx context.Context) ([]models.CatalogEntry, error) {
	if m.ListItemsFunc != nil {
		return m.ListItemsFunc(ctx)
	}
	return nil, nil
}

func (m *MockCatalogRepo) GetStoreSettings(ctx context.Context) (*models.StoreSettings, error) {
	if m.GetStoreSettingsFunc != nil {
		return m.GetStoreSettingsFunc(ctx)
	}
	return &models.StoreSettings{}, nil
}

// MockOrderRepo is a mock implementation of repository.OrderRepositoryInterface
type MockOrderRepo struct {
	mu          sync.Mutex
	submitCalls int
	lastPayload *models.OrderPayload

	SubmitOrderFunc func(ctx context.Context, payload *models.OrderPayload, requestID string) (*models.SubmitResult, error)
	LookupOrderFunc func(ctx context.Context, orderID string, last string) (*models.OrderView, error)
	LookupURLFunc   func(ctx context.Context, orderID string, last string) (string, error)
}

func (m *MockOrderRepo) SubmitOrder(ctx context.Context, payload *models.OrderPayload, requestID string) (*models.SubmitResult, error) {
	m.mu.Lock()
	m.submitCalls++
	m.lastPayload = payload
	m.mu.Unlock()
	if m.SubmitOrderFunc != nil {
		return m.SubmitOrderFunc(ctx, payload, requestID)
	}
	return &models.SubmitResult{OrderID: "ORD-1", StatusURL: "https://example.test/status/ORD-1"}, nil
}

func (m *MockOrderRepo) SubmitCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.submitCalls
}

func (m *MockOrderRepo) LookupOrder(ctx context.Context, orderID string, last string) (*models.OrderView, error) {
	if m.LookupOrderFunc != nil {
		return m.LookupOrderFunc(ctx, orderID, last)
	}
	return &models.OrderView{OrderID: orderID, Last: last}, nil
}

func (m *MockOrderRepo) LookupURL(ctx context.Context, orderID string, last string) (string, error) {
	if m.LookupURLFunc != nil {
		return m.LookupURLFunc(ctx, orderID, last)
	}
	return "https://script.example/exec?last=" + url.QueryEscape(last) + "&orderId=" + url.QueryEscape(orderID) + "&path=lookup", nil
}

// MockAdminRepo is a mock implementation of repository.AdminRepositoryInterface
type MockAdminRepo struct {
	PingFunc      func(ctx context.Context) (string, error)
	AdminJSONFunc func(ctx context.Context, action string, params url.Values, cred repository.Credential, out interface{}) error
	AdminRawFunc  func(ctx context.Context, action string, params url.Values, cred repository.Credential) ([]byte, error)
}

func (m *MockAdminRepo) Ping(ctx context.Context) (string, error) {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return "pong", nil
}

func (m *MockAdminRepo) AdminJSON(ctx context.Context, action string, params url.Values, cred repository.Credential, out interface{}) error {
	if m.AdminJSONFunc != nil {
		return m.AdminJSONFunc(ctx, action, params, cred, out)
	}
	return nil
}

func (m *MockAdminRepo) AdminRaw(ctx context.Context, action string, params url.Values, cred repository.Credential) ([]byte, error) {
	if m.AdminRawFunc != nil {
		return m.AdminRawFunc(ctx, action, params, cred)
	}
	return nil, nil
}

// MockSettingsRepo is an in-memory repository.SettingsRepositoryInterface
type MockSettingsRepo struct {
	Settings models.ConnectionSettings
	LoadErr  error
}

func (m *MockSettingsRepo) Load(ctx context.Context) (models.ConnectionSettings, error) {
	return m.Settings, m.LoadErr
}

func (m *MockSettingsRepo) Save(ctx context.Context, settings models.ConnectionSettings) error {
	m.Settings = settings
	return nil
}

// MockDrive is a mock implementation of DriveServiceInterface
type MockDrive struct {
	UploadCSVFunc func(ctx context.Context, name string, data []byte) (string, error)
}

func (m *MockDrive) UploadCSV(ctx context.Context, name string, data []byte) (string, error) {
	if m.UploadCSVFunc != nil {
		return m.UploadCSVFunc(ctx, name, data)
	}
	return "https://drive.google.com/file/d/abc/view", nil
}

// MockValidator is a mock implementation of IDTokenValidator
type MockValidator struct {
	ValidateFunc func(ctx context.Context, token string) (string, error)
}

func (m *MockValidator) Validate(ctx context.Context, token string) (string, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx, token)
	}
	return "admin@example.test", nil
}

// staticCatalog serves a fixed catalog
type staticCatalog struct {
	catalog *pricing.Catalog
}

func (s staticCatalog) Catalog() *pricing.Catalog {
	return s.catalog
}
