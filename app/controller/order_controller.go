package controller

import (
	"log"
	"net/http"

	"merch-order-desk/models"
	"merch-order-desk/service"
)

// OrderController handles HTTP requests for quoting, submitting and looking up orders
type OrderController struct {
	orderService *service.OrderService
}

// NewOrderController creates a new OrderController
func NewOrderController(orderService *service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

// Quote handles POST /api/quote
// Example request:
// POST /api/quote
// {
//   "lines": [{"sku": "TEE", "size": "M", "qty": 2, "personalize": true, "line1": "ANA"}],
//   "coverFee": true
// }
// Example response:
// {
//   "lines": [{"sku": "TEE", "size": "M", "qty": 2, "personalize": true, "line1": "ANA",
//              "unitPrice": 13, "lineTotal": 26, "priced": true}],
//   "totals": {"subtotal": 26, "serviceFee": 0.52, "grandTotal": 26.52},
//   "formatted": {"subtotal": "$26.00", "serviceFee": "$0.52", "grandTotal": "$26.52"}
// }
func (c *OrderController) Quote(w http.ResponseWriter, r *http.Request) {
	var req models.QuoteRequest
	if !decodeBody(w, r, "Quote", &req) {
		return
	}

	quote := c.orderService.Quote(req.Lines, req.CoverFee)
	writeJSON(w, http.StatusOK, quote)
}

// SubmitOrder handles POST /api/orders
// Example request:
// POST /api/orders
// {
//   "contact": {"firstName": "Ana", "lastName": "Diaz", "email": "ana@example.com", "phone": "555-0100"},
//   "lines": [{"sku": "TEE", "size": "M", "qty": 2}],
//   "coverFee": false
// }
// Example response:
// {"orderId": "ORD-1042", "statusUrl": "https://script.google.com/.../exec?path=status&orderId=ORD-1042"}
func (c *OrderController) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 SubmitOrder: Received %s request to %s", r.Method, r.URL.Path)

	var req models.SubmitOrderRequest
	if !decodeBody(w, r, "SubmitOrder", &req) {
		return
	}

	result, err := c.orderService.Submit(r.Context(), req)
	if err != nil {
		writeError(w, "SubmitOrder", err)
		return
	}

	log.Printf("✅ SubmitOrder: order %s submitted", result.OrderID)
	writeJSON(w, http.StatusOK, result)
}

// LookupOrder handles GET /api/orders/lookup?orderId=ORD-1042&last=Diaz
func (c *OrderController) LookupOrder(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	view, err := c.orderService.Lookup(r.Context(), query.Get("orderId"), query.Get("last"))
	if err != nil {
		writeError(w, "LookupOrder", err)
		return
	}

	log.Printf("✅ LookupOrder: found order %s", view.OrderID)
	writeJSON(w, http.StatusOK, view)
}
