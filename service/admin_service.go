package service

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"google.golang.org/api/idtoken"

	"merch-order-desk/models"
	"merch-order-desk/repository"
)

var (
	// ErrAccessDenied is returned for a wrong passcode or a rejected credential
	ErrAccessDenied = errors.New("access denied")
	// ErrTokenMissing is returned when no admin credential is available
	ErrTokenMissing = errors.New("admin token is not set")
	// ErrPasscodeNotSet is returned for operator-only actions when no passcode is configured
	ErrPasscodeNotSet = errors.New("admin passcode is not configured")
)

// IDTokenValidator checks a signed identity token and returns its email claim
type IDTokenValidator interface {
	Validate(ctx context.Context, token string) (string, error)
}

// GoogleIDTokenValidator validates Google ID tokens against an OAuth client ID
type GoogleIDTokenValidator struct {
	clientID string
}

// NewGoogleIDTokenValidator creates a new GoogleIDTokenValidator
func NewGoogleIDTokenValidator(clientID string) *GoogleIDTokenValidator {
	return &GoogleIDTokenValidator{clientID: clientID}
}

// Validate checks signature, audience and expiry
func (v *GoogleIDTokenValidator) Validate(ctx context.Context, token string) (string, error) {
	payload, err := idtoken.Validate(ctx, token, v.clientID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAccessDenied, err)
	}
	email, _ := payload.Claims["email"].(string)
	return email, nil
}

// AdminService runs the privileged admin actions against the backend
type AdminService struct {
	repository repository.AdminRepositoryInterface
	orders     repository.OrderRepositoryInterface
	settings   repository.SettingsRepositoryInterface
	passcode   string
	mode       repository.CredentialMode
	validator  IDTokenValidator
	drive      DriveServiceInterface
	now        func() time.Time
}

// AdminServiceOptions carries the optional admin collaborators
type AdminServiceOptions struct {
	Passcode       string
	CredentialMode repository.CredentialMode
	Validator      IDTokenValidator
	Drive          DriveServiceInterface
}

// NewAdminService creates a new AdminService
func NewAdminService(
	repo repository.AdminRepositoryInterface,
	orders repository.OrderRepositoryInterface,
	settings repository.SettingsRepositoryInterface,
	opts AdminServiceOptions,
) *AdminService {
	mode := opts.CredentialMode
	if mode == "" {
		mode = repository.CredentialQuery
	}
	return &AdminService{
		repository: repo,
		orders:     orders,
		settings:   settings,
		passcode:   opts.Passcode,
		mode:       mode,
		validator:  opts.Validator,
		drive:      opts.Drive,
		now:        time.Now,
	}
}

// PasscodeRequired reports whether the passcode gate is enabled
func (s *AdminService) PasscodeRequired() bool {
	return s.passcode != ""
}

// CheckPasscode opens the gate when the passcode matches
func (s *AdminService) CheckPasscode(passcode string) error {
	if !s.PasscodeRequired() {
		return nil
	}
	given := strings.TrimSpace(passcode)
	if subtle.ConstantTimeCompare([]byte(given), []byte(s.passcode)) != 1 {
		return ErrAccessDenied
	}
	return nil
}

// Authorize gates the admin actions. With a passcode configured it must match.
// Without one the caller has to bring its own admin token; the saved token is
// never used for an anonymous request.
func (s *AdminService) Authorize(passcode string, token string) error {
	if s.PasscodeRequired() {
		return s.CheckPasscode(passcode)
	}
	if strings.TrimSpace(token) == "" {
		return ErrTokenMissing
	}
	return nil
}

// AuthorizeOperator gates the actions that change server-wide state (connection
// settings, catalog reload). They need a configured passcode.
func (s *AdminService) AuthorizeOperator(passcode string) error {
	if !s.PasscodeRequired() {
		return ErrPasscodeNotSet
	}
	return s.CheckPasscode(passcode)
}

// ResolveCredential uses the supplied token. The saved admin token is a
// fallback only behind a configured passcode.
func (s *AdminService) ResolveCredential(ctx context.Context, supplied string) (repository.Credential, error) {
	token := strings.TrimSpace(supplied)
	if token == "" && s.PasscodeRequired() {
		settings, err := s.settings.Load(ctx)
		if err != nil {
			return repository.Credential{}, fmt.Errorf("failed to load connection settings: %w", err)
		}
		token = settings.Token
	}
	if token == "" {
		return repository.Credential{}, ErrTokenMissing
	}
	return repository.Credential{Value: token, Mode: s.mode}, nil
}

// authError turns backend rejections into ErrAccessDenied
func authError(err error) error {
	var be *repository.BackendError
	if !errors.As(err, &be) {
		return err
	}
	if be.Status == http.StatusUnauthorized || be.Status == http.StatusForbidden {
		return fmt.Errorf("%w: %v", ErrAccessDenied, err)
	}
	msg := strings.ToLower(be.Message)
	for _, marker := range []string{"unauthorized", "denied", "forbidden", "invalid token"} {
		if strings.Contains(msg, marker) {
			return fmt.Errorf("%w: %v", ErrAccessDenied, err)
		}
	}
	return err
}

// Login verifies a signed identity token locally (when a validator is set)
// and then asks the backend whether the account is allowed
func (s *AdminService) Login(ctx context.Context, idToken string) (*models.LoginResult, error) {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return nil, ErrTokenMissing
	}

	if s.validator != nil {
		email, err := s.validator.Validate(ctx, idToken)
		if err != nil {
			log.Printf("❌ Login: identity token rejected: %v", err)
			return nil, err
		}
		log.Printf("🔐 Login: identity token valid for %s", email)
	}

	var result models.LoginResult
	cred := repository.Credential{Value: idToken, Mode: s.mode}
	if err := s.repository.AdminJSON(ctx, "verifyLogin", nil, cred, &result); err != nil {
		return nil, authError(err)
	}
	if !result.Allowed {
		log.Printf("❌ Login: access denied for %q", result.Email)
		return nil, fmt.Errorf("%w for this Google account", ErrAccessDenied)
	}

	log.Printf("✅ Login: signed in as %s", result.Email)
	return &result, nil
}

// Ping checks the backend liveness endpoint
func (s *AdminService) Ping(ctx context.Context) (string, error) {
	return s.repository.Ping(ctx)
}

// GetState returns the current order lock state
func (s *AdminService) GetState(ctx context.Context, cred repository.Credential) (*models.LockState, error) {
	var state models.LockState
	if err := s.repository.AdminJSON(ctx, "getState", nil, cred, &state); err != nil {
		return nil, authError(err)
	}
	return &state, nil
}

// SetLock locks or unlocks ordering and returns the state read back afterwards
func (s *AdminService) SetLock(ctx context.Context, cred repository.Credential, lock bool) (*models.LockState, error) {
	action := "unlockOrders"
	if lock {
		action = "lockOrders"
	}

	var ignored json.RawMessage
	if err := s.repository.AdminJSON(ctx, action, nil, cred, &ignored); err != nil {
		return nil, authError(err)
	}
	log.Printf("🔒 SetLock: %s done", action)
	return s.GetState(ctx, cred)
}

// Search lists orders matching the filters
func (s *AdminService) Search(ctx context.Context, cred repository.Credential, params models.OrderSearchParams) ([]models.OrderSummary, error) {
	query := url.Values{
		"q":    {strings.TrimSpace(params.Query)},
		"paid": {params.Paid},
		"from": {params.From},
		"to":   {params.To},
	}

	var out models.OrderSearchResponse
	if err := s.repository.AdminJSON(ctx, "search", query, cred, &out); err != nil {
		return nil, authError(err)
	}
	if out.Results == nil {
		out.Results = []models.OrderSummary{}
	}
	log.Printf("🔍 Search: %d results (q=%q, paid=%q)", len(out.Results), params.Query, params.Paid)
	return out.Results, nil
}

// SetPaid marks an order paid or unpaid
func (s *AdminService) SetPaid(ctx context.Context, cred repository.Credential, orderID string, paid bool) (*models.PaidToggleResult, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, ErrLookupParams
	}
	action := "markUnpaid"
	if paid {
		action = "markPaid"
	}

	result := models.PaidToggleResult{OK: true, OrderID: orderID, Paid: paid}
	if err := s.repository.AdminJSON(ctx, action, url.Values{"orderId": {orderID}}, cred, &result); err != nil {
		return nil, authError(err)
	}
	log.Printf("💰 SetPaid: order %s -> %s", orderID, action)
	return &result, nil
}

// GetOrder loads the detail row of an order; the last name is lower-cased as
// the search results carry it
func (s *AdminService) GetOrder(ctx context.Context, orderID string, last string) (*models.OrderView, error) {
	orderID = strings.TrimSpace(orderID)
	last = strings.ToLower(strings.TrimSpace(last))
	if orderID == "" || last == "" {
		return nil, ErrLookupParams
	}

	view, err := s.orders.LookupOrder(ctx, orderID, last)
	if err != nil {
		var be *repository.BackendError
		if errors.As(err, &be) {
			return nil, fmt.Errorf("%w: %v", ErrOrderNotFound, err)
		}
		return nil, err
	}
	if view.Lines == nil {
		view.Lines = []models.OrderViewLine{}
	}
	if printURL, err := s.orders.LookupURL(ctx, orderID, last); err == nil {
		view.PrintURL = printURL
	}
	return view, nil
}

// PaidTotals returns the paid sum, count and per-last-name breakdown
func (s *AdminService) PaidTotals(ctx context.Context, cred repository.Credential) (*models.PaidTotals, error) {
	var totals models.PaidTotals
	if err := s.repository.AdminJSON(ctx, "paidTotals", nil, cred, &totals); err != nil {
		return nil, authError(err)
	}
	if totals.ByLast == nil {
		totals.ByLast = []models.LastNameTotal{}
	}
	return &totals, nil
}

// ExportPaidCSV fetches the backend CSV verbatim. When Drive is configured the
// file is also uploaded and its link returned in the info.
func (s *AdminService) ExportPaidCSV(ctx context.Context, cred repository.Credential) ([]byte, *models.ExportInfo, error) {
	data, err := s.repository.AdminRaw(ctx, "exportPaidCSV", nil, cred)
	if err != nil {
		return nil, nil, authError(err)
	}

	info := &models.ExportInfo{
		FileName: "paid_orders.csv",
		Bytes:    len(data),
	}

	if s.drive != nil {
		name := fmt.Sprintf("paid_orders_%s.csv", s.now().UTC().Format("20060102_150405"))
		link, err := s.drive.UploadCSV(ctx, name, data)
		if err != nil {
			log.Printf("⚠️  ExportPaidCSV: Drive upload failed, returning file only: %v", err)
		} else {
			info.FileName = name
			info.URL = link
		}
	}

	log.Printf("📄 ExportPaidCSV: %d bytes exported", len(data))
	return data, info, nil
}
