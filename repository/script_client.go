package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"merch-order-desk/models"
	"merch-order-desk/utils"
)

// Content types accepted by the submit endpoint
const (
	ContentTypeTextPlain = "text/plain;charset=utf-8"
	ContentTypeJSON      = "application/json"
)

// CredentialMode selects how the admin credential travels
type CredentialMode string

const (
	CredentialQuery  CredentialMode = "query"
	CredentialBearer CredentialMode = "bearer"
)

// Credential is a passcode-derived token or a signed identity token
type Credential struct {
	Value string
	Mode  CredentialMode
}

// ScriptClient talks to the spreadsheet-backed script endpoint.
// The base URL is read from the settings store on every call so a saved
// connection change takes effect without a restart.
type ScriptClient struct {
	settings          SettingsRepositoryInterface
	httpClient        *http.Client
	submitContentType string
	submitWithPath    bool
}

// ScriptClientOptions tunes the submit request shape
type ScriptClientOptions struct {
	SubmitContentType string
	SubmitWithPath    bool
}

// NewScriptClient creates a new ScriptClient
func NewScriptClient(settings SettingsRepositoryInterface, httpClient *http.Client, opts ScriptClientOptions) *ScriptClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	contentType := opts.SubmitContentType
	if contentType == "" {
		contentType = ContentTypeTextPlain
	}
	return &ScriptClient{
		settings:          settings,
		httpClient:        httpClient,
		submitContentType: contentType,
		submitWithPath:    opts.SubmitWithPath,
	}
}

// Ensure ScriptClient implements the backend interfaces
var (
	_ CatalogRepositoryInterface = (*ScriptClient)(nil)
	_ OrderRepositoryInterface   = (*ScriptClient)(nil)
	_ AdminRepositoryInterface   = (*ScriptClient)(nil)
)

// buildURL validates the stored base URL and appends the query.
// Configuration errors surface here, before any request is attempted.
func (c *ScriptClient) buildURL(ctx context.Context, query url.Values) (string, error) {
	settings, err := c.settings.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load connection settings: %w", err)
	}
	if strings.TrimSpace(settings.Base) == "" {
		return "", ErrBaseURLNotSet
	}
	base, err := utils.ValidateBaseURL(settings.Base)
	if err != nil {
		return "", err
	}
	if len(query) == 0 {
		return base, nil
	}
	return base + "?" + query.Encode(), nil
}

// do sends the request and returns the body of a 2xx answer
func (c *ScriptClient) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &BackendError{Status: resp.StatusCode, Message: errorMessage(body)}
	}
	return body, nil
}

// errorMessage extracts {"error": "..."} from a body, or "" when absent
func errorMessage(body []byte) string {
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	return strings.TrimSpace(envelope.Error)
}

// decode unmarshals a 2xx body. Script deployments cannot always set a status
// code, so an {"error": ...} body is treated as a failure too.
func decode(status int, body []byte, out interface{}) error {
	if msg := errorMessage(body); msg != "" {
		return &BackendError{Status: status, Message: msg}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode backend response: %w", err)
	}
	return nil
}

func (c *ScriptClient) getJSON(ctx context.Context, query url.Values, header http.Header, out interface{}) error {
	body, err := c.getRaw(ctx, query, header)
	if err != nil {
		return err
	}
	return decode(http.StatusOK, body, out)
}

func (c *ScriptClient) getRaw(ctx context.Context, query url.Values, header http.Header) ([]byte, error) {
	target, err := c.buildURL(ctx, query)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	return c.do(req)
}

// ListItems fetches the raw catalog feed (?path=items)
func (c *ScriptClient) ListItems(ctx context.Context) ([]models.CatalogEntry, error) {
	var entries []models.CatalogEntry
	if err := c.getJSON(ctx, url.Values{"path": {"items"}}, nil, &entries); err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	log.Printf("✓ ListItems: fetched %d catalog entries", len(entries))
	return entries, nil
}

// GetStoreSettings fetches the display-only store settings (?path=settings)
func (c *ScriptClient) GetStoreSettings(ctx context.Context) (*models.StoreSettings, error) {
	var settings models.StoreSettings
	if err := c.getJSON(ctx, url.Values{"path": {"settings"}}, nil, &settings); err != nil {
		return nil, fmt.Errorf("failed to get store settings: %w", err)
	}
	return &settings, nil
}

// SubmitOrder posts the payload once. No retry.
func (c *ScriptClient) SubmitOrder(ctx context.Context, payload *models.OrderPayload, requestID string) (*models.SubmitResult, error) {
	var query url.Values
	if c.submitWithPath {
		query = url.Values{"path": {"submit"}}
	}
	target, err := c.buildURL(ctx, query)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", c.submitContentType)
	if requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	log.Printf("📤 SubmitOrder: posting %d lines (request_id=%s)", len(payload.Lines), requestID)
	respBody, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var result models.SubmitResult
	if err := decode(http.StatusOK, respBody, &result); err != nil {
		return nil, err
	}
	if result.OrderID == "" {
		return nil, &BackendError{Status: http.StatusOK, Message: "backend did not return an order ID"}
	}
	return &result, nil
}

func lookupQuery(orderID, last string) url.Values {
	return url.Values{"path": {"lookup"}, "orderId": {orderID}, "last": {last}}
}

// LookupOrder reads a submitted order (?path=lookup&orderId=&last=)
func (c *ScriptClient) LookupOrder(ctx context.Context, orderID string, last string) (*models.OrderView, error) {
	var view models.OrderView
	if err := c.getJSON(ctx, lookupQuery(orderID, last), nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// LookupURL is the shareable lookup link for an order, used as its print/view link
func (c *ScriptClient) LookupURL(ctx context.Context, orderID string, last string) (string, error) {
	return c.buildURL(ctx, lookupQuery(orderID, strings.ToLower(last)))
}

// Ping hits the unauthenticated liveness endpoint (?__ping=1)
func (c *ScriptClient) Ping(ctx context.Context) (string, error) {
	body, err := c.getRaw(ctx, url.Values{"__ping": {"1"}}, nil)
	if err != nil {
		return "", fmt.Errorf("ping failed: %w", err)
	}
	return strings.TrimSpace(string(body)), nil
}

func adminQuery(action string, params url.Values, cred Credential) (url.Values, http.Header) {
	query := url.Values{}
	for k, v := range params {
		query[k] = v
	}
	query.Set("path", "admin")
	query.Set("action", action)

	header := http.Header{}
	if cred.Mode == CredentialBearer {
		header.Set("Authorization", "Bearer "+cred.Value)
	} else {
		query.Set("token", cred.Value)
	}
	return query, header
}

// AdminJSON runs a privileged action and decodes its JSON answer into out
func (c *ScriptClient) AdminJSON(ctx context.Context, action string, params url.Values, cred Credential, out interface{}) error {
	query, header := adminQuery(action, params, cred)
	if err := c.getJSON(ctx, query, header, out); err != nil {
		return fmt.Errorf("admin action %s failed: %w", action, err)
	}
	return nil
}

// AdminRaw runs a privileged action and returns its body verbatim (CSV export)
func (c *ScriptClient) AdminRaw(ctx context.Context, action string, params url.Values, cred Credential) ([]byte, error) {
	query, header := adminQuery(action, params, cred)
	body, err := c.getRaw(ctx, query, header)
	if err != nil {
		return nil, fmt.Errorf("admin action %s failed: %w", action, err)
	}
	if msg := errorMessage(body); msg != "" {
		return nil, fmt.Errorf("admin action %s failed: %w", action, &BackendError{Status: http.StatusOK, Message: msg})
	}
	return body, nil
}
