package models

// Contact holds the customer fields collected by the order form
type Contact struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// OrderLine is the editing state of one line row.
// UnitPrice and LineTotal are derived and overwritten on every recompute.
type OrderLine struct {
	SKU         string  `json:"sku"`
	Size        string  `json:"size"`
	Qty         int     `json:"qty"`
	Personalize bool    `json:"personalize"`
	Line1       string  `json:"line1,omitempty"`
	Line2       string  `json:"line2,omitempty"`
	UnitPrice   float64 `json:"unitPrice"`
	LineTotal   float64 `json:"lineTotal"`
	Priced      bool    `json:"priced"`
}

// OrderTotals is recomputed from scratch on every line mutation
type OrderTotals struct {
	Subtotal   float64 `json:"subtotal"`
	ServiceFee float64 `json:"serviceFee"`
	GrandTotal float64 `json:"grandTotal"`
}

// OrderForm is the whole editing session of one order
type OrderForm struct {
	Contact  Contact     `json:"contact"`
	Lines    []OrderLine `json:"lines"`
	CoverFee bool        `json:"coverFee"`
	Totals   OrderTotals `json:"totals"`
}

// PayloadLine is a single submitted line
type PayloadLine struct {
	SKU         string  `json:"sku"`
	Item        string  `json:"item"`
	Size        string  `json:"size"`
	Qty         int     `json:"qty"`
	Personalize bool    `json:"personalize"`
	Line1       string  `json:"line1"`
	Line2       string  `json:"line2"`
	UnitPrice   float64 `json:"unitPrice"`
	LineTotal   float64 `json:"lineTotal"`
}

// OrderPayload is the body POSTed to the backend on submit.
// It is built fresh for each submission and never stored.
type OrderPayload struct {
	FirstName  string        `json:"firstName"`
	LastName   string        `json:"lastName"`
	Email      string        `json:"email"`
	Phone      string        `json:"phone"`
	Lines      []PayloadLine `json:"lines"`
	CoverFee   bool          `json:"coverFee"`
	ServiceFee float64       `json:"serviceFee"`
	Total      float64       `json:"total"`
}

// SubmitResult is the backend answer to a successful submission
type SubmitResult struct {
	OrderID   string `json:"orderId"`
	StatusURL string `json:"statusUrl"`
}

// QuoteRequest represents the request body for POST /api/quote
// Example: {"lines":[{"sku":"A","size":"M","qty":2,"personalize":true,"line1":"ANA"}],"coverFee":false}
type QuoteRequest struct {
	Lines    []OrderLine `json:"lines"`
	CoverFee bool        `json:"coverFee"`
}

// QuoteResponse carries the priced lines, totals and their display strings
type QuoteResponse struct {
	Lines     []OrderLine       `json:"lines"`
	Totals    OrderTotals       `json:"totals"`
	Formatted map[string]string `json:"formatted"`
}

// SubmitOrderRequest represents the request body for POST /api/orders
// ClientID identifies the order form session; when empty the contact email
// is used to detect a double submission.
type SubmitOrderRequest struct {
	ClientID string      `json:"clientId,omitempty"`
	Contact  Contact     `json:"contact"`
	Lines    []OrderLine `json:"lines"`
	CoverFee bool        `json:"coverFee"`
}

// OrderViewLine is a line as returned by the lookup endpoint.
// Older orders carry customName instead of line1/line2.
type OrderViewLine struct {
	SKU         string  `json:"sku"`
	Item        string  `json:"item"`
	Size        string  `json:"size"`
	Qty         int     `json:"qty"`
	Personalize bool    `json:"personalize,omitempty"`
	Line1       string  `json:"line1,omitempty"`
	Line2       string  `json:"line2,omitempty"`
	CustomName  string  `json:"customName,omitempty"`
	UnitPrice   float64 `json:"unitPrice"`
	LineTotal   float64 `json:"lineTotal"`
}

// OrderView is the read-only summary of a submitted order
type OrderView struct {
	OrderID  string          `json:"orderId"`
	First    string          `json:"first"`
	Last     string          `json:"last"`
	Email    string          `json:"email,omitempty"`
	Phone    string          `json:"phone,omitempty"`
	Status   string          `json:"status,omitempty"`
	Paid     bool            `json:"paid"`
	Total    float64         `json:"total"`
	Created  string          `json:"created,omitempty"`
	Lines    []OrderViewLine `json:"lines"`
	PrintURL string          `json:"printUrl,omitempty"`
}
