package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"merch-order-desk/models"
	"merch-order-desk/pricing"
	"merch-order-desk/repository"
	"merch-order-desk/utils"
)

var (
	// ErrContactRequired is returned when any contact field is blank
	ErrContactRequired = errors.New("contact fields are required")
	// ErrNoLines is returned when no line has an item, a size and a positive qty
	ErrNoLines = errors.New("add at least one line with item, size, and qty")
	// ErrLookupParams is returned when order ID or last name is blank
	ErrLookupParams = errors.New("enter order ID and last name")
	// ErrOrderNotFound is returned when the backend does not know the order
	ErrOrderNotFound = errors.New("order not found")
	// ErrSubmitInFlight is returned while the same client's previous submission has not settled
	ErrSubmitInFlight = errors.New("an order submission is already in progress")
)

// OrderService shapes, validates and submits orders, and looks them up
type OrderService struct {
	repository repository.OrderRepositoryInterface
	catalogs   CatalogProvider
	engine     *pricing.Engine

	mu           sync.Mutex
	inFlight     map[string]struct{}
	newRequestID func() string
}

// NewOrderService creates a new OrderService
func NewOrderService(repo repository.OrderRepositoryInterface, catalogs CatalogProvider, engine *pricing.Engine) *OrderService {
	return &OrderService{
		repository:   repo,
		catalogs:     catalogs,
		engine:       engine,
		inFlight:     map[string]struct{}{},
		newRequestID: uuid.NewString,
	}
}

// Quote reprices the lines against the current catalog and aggregates them
func (s *OrderService) Quote(lines []models.OrderLine, coverFee bool) models.QuoteResponse {
	form := models.OrderForm{Lines: append([]models.OrderLine(nil), lines...), CoverFee: coverFee}
	s.engine.RecomputeAll(s.catalogs.Catalog(), &form)

	if form.Lines == nil {
		form.Lines = []models.OrderLine{}
	}
	return models.QuoteResponse{
		Lines:  form.Lines,
		Totals: form.Totals,
		Formatted: map[string]string{
			"subtotal":   utils.FormatUSD(form.Totals.Subtotal),
			"serviceFee": utils.FormatUSD(form.Totals.ServiceFee),
			"grandTotal": utils.FormatUSD(form.Totals.GrandTotal),
		},
	}
}

func trimContact(c models.Contact) models.Contact {
	return models.Contact{
		FirstName: strings.TrimSpace(c.FirstName),
		LastName:  strings.TrimSpace(c.LastName),
		Email:     strings.TrimSpace(c.Email),
		Phone:     strings.TrimSpace(c.Phone),
	}
}

// BuildPayload validates the contact and lines and builds the submission body.
// Lines are repriced from the catalog; client supplied prices are ignored.
func (s *OrderService) BuildPayload(contact models.Contact, lines []models.OrderLine, coverFee bool) (*models.OrderPayload, error) {
	contact = trimContact(contact)
	if contact.FirstName == "" || contact.LastName == "" || contact.Email == "" || contact.Phone == "" {
		return nil, ErrContactRequired
	}

	catalog := s.catalogs.Catalog()
	var included []models.OrderLine
	var payloadLines []models.PayloadLine
	for _, line := range lines {
		line = s.engine.RecomputeLine(catalog, line)
		if !pricing.Included(line) {
			continue
		}
		product, _ := catalog.Product(line.SKU)

		pl := models.PayloadLine{
			SKU:         product.SKU,
			Item:        product.Name,
			Size:        line.Size,
			Qty:         line.Qty,
			Personalize: line.Personalize && product.AllowsName,
			UnitPrice:   line.UnitPrice,
			LineTotal:   line.LineTotal,
		}
		if pl.Personalize {
			pl.Line1 = strings.TrimSpace(line.Line1)
			pl.Line2 = strings.TrimSpace(line.Line2)
		}

		included = append(included, line)
		payloadLines = append(payloadLines, pl)
	}
	if len(payloadLines) == 0 {
		return nil, ErrNoLines
	}

	totals := s.engine.Totals(included, coverFee)
	return &models.OrderPayload{
		FirstName:  contact.FirstName,
		LastName:   contact.LastName,
		Email:      contact.Email,
		Phone:      contact.Phone,
		Lines:      payloadLines,
		CoverFee:   coverFee,
		ServiceFee: totals.ServiceFee,
		Total:      totals.GrandTotal,
	}, nil
}

// submitKey identifies the submitting client: the form session ID when sent,
// otherwise the contact email
func submitKey(req models.SubmitOrderRequest, payload *models.OrderPayload) string {
	if id := strings.TrimSpace(req.ClientID); id != "" {
		return "client:" + id
	}
	return "email:" + strings.ToLower(payload.Email)
}

// acquire marks key as submitting; false when it already is
func (s *OrderService) acquire(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[key]; busy {
		return false
	}
	s.inFlight[key] = struct{}{}
	return true
}

func (s *OrderService) release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, key)
}

// Submit validates locally and posts the order once.
// Validation failures never reach the network. Each client may have one
// submission in flight; different clients submit concurrently.
func (s *OrderService) Submit(ctx context.Context, req models.SubmitOrderRequest) (*models.SubmitResult, error) {
	payload, err := s.BuildPayload(req.Contact, req.Lines, req.CoverFee)
	if err != nil {
		log.Printf("❌ Submit: validation failed: %v", err)
		return nil, err
	}

	key := submitKey(req, payload)
	if !s.acquire(key) {
		log.Printf("⚠️  Submit: rejected, a submission for this client is already in flight")
		return nil, ErrSubmitInFlight
	}
	defer s.release(key)

	requestID := s.newRequestID()
	log.Printf("📦 Submit: %d lines, total=%s (request_id=%s)", len(payload.Lines), utils.FormatUSD(payload.Total), requestID)

	result, err := s.repository.SubmitOrder(ctx, payload, requestID)
	if err != nil {
		log.Printf("❌ Submit: %v (request_id=%s)", err, requestID)
		return nil, submitError(err)
	}

	log.Printf("✅ Submit: order %s created (request_id=%s)", result.OrderID, requestID)
	return result, nil
}

// submitError keeps configuration errors and server messages, and reduces
// everything else to a generic network error
func submitError(err error) error {
	if isConfigError(err) {
		return err
	}
	if _, ok := repository.BackendMessage(err); ok {
		return err
	}
	if errors.Is(err, repository.ErrNetwork) {
		return err
	}
	return fmt.Errorf("%w: %v", repository.ErrNetwork, err)
}

func isConfigError(err error) bool {
	return errors.Is(err, repository.ErrBaseURLNotSet) || errors.Is(err, utils.ErrInvalidBaseURL)
}

// Lookup reads a submitted order by ID and last name. No caching.
func (s *OrderService) Lookup(ctx context.Context, orderID string, lastName string) (*models.OrderView, error) {
	orderID = strings.TrimSpace(orderID)
	lastName = strings.TrimSpace(lastName)
	if orderID == "" || lastName == "" {
		return nil, ErrLookupParams
	}

	view, err := s.repository.LookupOrder(ctx, orderID, lastName)
	if err != nil {
		var be *repository.BackendError
		if errors.As(err, &be) {
			log.Printf("⚠️  Lookup: order %s not found: %v", orderID, err)
			return nil, fmt.Errorf("%w: %v", ErrOrderNotFound, err)
		}
		log.Printf("❌ Lookup: %v", err)
		return nil, err
	}

	if view.OrderID == "" {
		view.OrderID = orderID
	}
	if view.Lines == nil {
		view.Lines = []models.OrderViewLine{}
	}
	last := view.Last
	if last == "" {
		last = lastName
	}
	if printURL, err := s.repository.LookupURL(ctx, view.OrderID, last); err == nil {
		view.PrintURL = printURL
	}
	return view, nil
}
