package models

// LockState reports whether the storefront accepts new orders
type LockState struct {
	OrdersLocked bool `json:"ordersLocked"`
}

// OrderSearchParams are the admin search filters, all optional
type OrderSearchParams struct {
	Query string
	Paid  string // "", "paid" or "unpaid"
	From  string
	To    string
}

// OrderSummary is a row of the admin search results
type OrderSummary struct {
	OrderID string  `json:"orderId"`
	First   string  `json:"first"`
	Last    string  `json:"last"`
	Total   float64 `json:"total"`
	Created string  `json:"created"`
	Paid    bool    `json:"paid"`
}

// OrderSearchResponse wraps the search results
type OrderSearchResponse struct {
	Results []OrderSummary `json:"results"`
}

// LastNameTotal is one entry of the paid totals breakdown
type LastNameTotal struct {
	Last  string  `json:"last"`
	Total float64 `json:"total"`
}

// PaidTotals summarizes paid orders
type PaidTotals struct {
	Sum    float64         `json:"sum"`
	Count  int             `json:"count"`
	ByLast []LastNameTotal `json:"byLast"`
}

// LoginResult is the backend answer to verifyLogin
type LoginResult struct {
	Allowed bool   `json:"allowed"`
	Email   string `json:"email,omitempty"`
}

// PaidToggleResult is the backend answer to markPaid / markUnpaid
type PaidToggleResult struct {
	OK      bool   `json:"ok"`
	OrderID string `json:"orderId,omitempty"`
	Paid    bool   `json:"paid"`
}

// ExportInfo describes where an exported paid-orders file went
type ExportInfo struct {
	FileName string `json:"fileName"`
	URL      string `json:"url,omitempty"`
	Bytes    int    `json:"bytes"`
}
