package controller

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"merch-order-desk/models"
	"merch-order-desk/repository"
	"merch-order-desk/service"
)

// Admin request headers
const (
	HeaderAdminPasscode = "X-Admin-Passcode"
	HeaderAdminToken    = "X-Admin-Token"
)

// validPaidFilters is a map of valid paid filter values
var validPaidFilters = map[string]bool{
	"":       true,
	"paid":   true,
	"unpaid": true,
}

// AdminController handles HTTP requests for the admin console
type AdminController struct {
	adminService *service.AdminService
}

// NewAdminController creates a new AdminController
func NewAdminController(adminService *service.AdminService) *AdminController {
	return &AdminController{
		adminService: adminService,
	}
}

// RequireAdmin gates the admin actions: the passcode header when a passcode is
// configured, otherwise the caller's own admin token header.
func (c *AdminController) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := c.adminService.Authorize(r.Header.Get(HeaderAdminPasscode), r.Header.Get(HeaderAdminToken))
		if err != nil {
			log.Printf("🔒 RequireAdmin: %s %s rejected", r.Method, r.URL.Path)
			writeError(w, "RequireAdmin", err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireOperator gates server-wide changes behind the configured passcode.
// Without a passcode these routes stay closed.
func (c *AdminController) RequireOperator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := c.adminService.AuthorizeOperator(r.Header.Get(HeaderAdminPasscode)); err != nil {
			log.Printf("🔒 RequireOperator: %s %s rejected", r.Method, r.URL.Path)
			writeError(w, "RequireOperator", err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// credential resolves the admin token from the request header or the saved settings
func (c *AdminController) credential(w http.ResponseWriter, r *http.Request, op string) (repository.Credential, bool) {
	cred, err := c.adminService.ResolveCredential(r.Context(), r.Header.Get(HeaderAdminToken))
	if err != nil {
		writeError(w, op, err)
		return repository.Credential{}, false
	}
	return cred, true
}

// Unlock handles POST /api/admin/unlock
// Example request: {"passcode": "open-sesame"}
// Example response: {"ok": true, "passcodeRequired": true}
func (c *AdminController) Unlock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Passcode string `json:"passcode"`
	}
	if !decodeBody(w, r, "Unlock", &req) {
		return
	}

	if err := c.adminService.CheckPasscode(req.Passcode); err != nil {
		writeError(w, "Unlock", err)
		return
	}

	log.Printf("🔐 Unlock: admin console unlocked")
	writeJSON(w, http.StatusOK, map[string]bool{
		"ok":               true,
		"passcodeRequired": c.adminService.PasscodeRequired(),
	})
}

// Login handles POST /api/admin/login
// Example request: {"idToken": "eyJhbGciOi..."}
// Example response: {"allowed": true, "email": "admin@example.com"}
func (c *AdminController) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDToken string `json:"idToken"`
	}
	if !decodeBody(w, r, "Login", &req) {
		return
	}

	result, err := c.adminService.Login(r.Context(), req.IDToken)
	if err != nil {
		writeError(w, "Login", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Ping handles GET /api/admin/ping
// Example response: {"status": "pong"}
func (c *AdminController) Ping(w http.ResponseWriter, r *http.Request) {
	text, err := c.adminService.Ping(r.Context())
	if err != nil {
		writeError(w, "Ping", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": text})
}

// GetState handles GET /api/admin/state
// Example response: {"ordersLocked": false}
func (c *AdminController) GetState(w http.ResponseWriter, r *http.Request) {
	cred, ok := c.credential(w, r, "GetState")
	if !ok {
		return
	}

	state, err := c.adminService.GetState(r.Context(), cred)
	if err != nil {
		writeError(w, "GetState", err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// LockOrders handles POST /api/admin/lock
func (c *AdminController) LockOrders(w http.ResponseWriter, r *http.Request) {
	c.setLock(w, r, true)
}

// UnlockOrders handles POST /api/admin/unlock-orders
func (c *AdminController) UnlockOrders(w http.ResponseWriter, r *http.Request) {
	c.setLock(w, r, false)
}

func (c *AdminController) setLock(w http.ResponseWriter, r *http.Request, lock bool) {
	log.Printf("📥 SetLock: Received %s request to %s", r.Method, r.URL.Path)

	cred, ok := c.credential(w, r, "SetLock")
	if !ok {
		return
	}

	state, err := c.adminService.SetLock(r.Context(), cred, lock)
	if err != nil {
		writeError(w, "SetLock", err)
		return
	}

	log.Printf("✅ SetLock: ordersLocked=%v", state.OrdersLocked)
	writeJSON(w, http.StatusOK, state)
}

// SearchOrders handles GET /api/admin/orders?q=diaz&paid=unpaid&from=2026-10-01&to=2026-10-31
// Example response:
// {"results": [{"orderId": "ORD-1042", "first": "Ana", "last": "diaz", "total": 26.52, "created": "...", "paid": false}]}
func (c *AdminController) SearchOrders(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	params := models.OrderSearchParams{
		Query: query.Get("q"),
		Paid:  strings.ToLower(strings.TrimSpace(query.Get("paid"))),
		From:  strings.TrimSpace(query.Get("from")),
		To:    strings.TrimSpace(query.Get("to")),
	}
	if !validPaidFilters[params.Paid] {
		log.Printf("❌ SearchOrders: Invalid paid filter: %s", params.Paid)
		http.Error(w, "Invalid paid filter. Valid values: paid, unpaid", http.StatusBadRequest)
		return
	}

	cred, ok := c.credential(w, r, "SearchOrders")
	if !ok {
		return
	}

	results, err := c.adminService.Search(r.Context(), cred, params)
	if err != nil {
		writeError(w, "SearchOrders", err)
		return
	}
	writeJSON(w, http.StatusOK, models.OrderSearchResponse{Results: results})
}

// GetOrder handles GET /api/admin/orders/{orderId}?last=diaz
func (c *AdminController) GetOrder(w http.ResponseWriter, r *http.Request) {
	view, err := c.adminService.GetOrder(r.Context(), chi.URLParam(r, "orderId"), r.URL.Query().Get("last"))
	if err != nil {
		writeError(w, "GetOrder", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// MarkPaid handles POST /api/admin/orders/{orderId}/paid
func (c *AdminController) MarkPaid(w http.ResponseWriter, r *http.Request) {
	c.setPaid(w, r, true)
}

// MarkUnpaid handles POST /api/admin/orders/{orderId}/unpaid
func (c *AdminController) MarkUnpaid(w http.ResponseWriter, r *http.Request) {
	c.setPaid(w, r, false)
}

func (c *AdminController) setPaid(w http.ResponseWriter, r *http.Request, paid bool) {
	orderID := chi.URLParam(r, "orderId")
	log.Printf("📥 SetPaid: Received %s request for order %s", r.Method, orderID)

	cred, ok := c.credential(w, r, "SetPaid")
	if !ok {
		return
	}

	result, err := c.adminService.SetPaid(r.Context(), cred, orderID, paid)
	if err != nil {
		writeError(w, "SetPaid", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// PaidTotals handles GET /api/admin/totals
// Example response: {"sum": 52.5, "count": 2, "byLast": [{"last": "diaz", "total": 26.25}]}
func (c *AdminController) PaidTotals(w http.ResponseWriter, r *http.Request) {
	cred, ok := c.credential(w, r, "PaidTotals")
	if !ok {
		return
	}

	totals, err := c.adminService.PaidTotals(r.Context(), cred)
	if err != nil {
		writeError(w, "PaidTotals", err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

// ExportPaid handles GET /api/admin/export
// The CSV is returned as an attachment. When it was also uploaded to Drive the
// link is sent in the X-Export-URL header.
func (c *AdminController) ExportPaid(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 ExportPaid: Received %s request to %s", r.Method, r.URL.Path)

	cred, ok := c.credential(w, r, "ExportPaid")
	if !ok {
		return
	}

	data, info, err := c.adminService.ExportPaidCSV(r.Context(), cred)
	if err != nil {
		writeError(w, "ExportPaid", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", info.FileName))
	if info.URL != "" {
		w.Header().Set("X-Export-URL", info.URL)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Printf("❌ ExportPaid: Error writing CSV: %v", err)
	}
}
