package models

// Fixed storage keys of the connection settings
const (
	SettingsKeyBase  = "admin_base"
	SettingsKeyToken = "admin_token"
)

// ConnectionSettings are the only locally persisted values: the backend /exec
// base URL and the optional admin token
type ConnectionSettings struct {
	Base  string `json:"base"`
	Token string `json:"token"`
}

// ConnectionView is what the API shows of the connection settings; the token
// itself is never echoed back
type ConnectionView struct {
	Base     string `json:"base"`
	HasToken bool   `json:"hasToken"`
}

// ConnectionUpdate represents the request body for PUT /api/connection.
// A nil Token keeps the saved token; an empty string clears it.
type ConnectionUpdate struct {
	Base  string  `json:"base"`
	Token *string `json:"token,omitempty"`
}
