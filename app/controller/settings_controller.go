package controller

import (
	"log"
	"net/http"
	"strings"

	"merch-order-desk/models"
	"merch-order-desk/repository"
	"merch-order-desk/utils"
)

// SettingsController handles HTTP requests for the backend connection settings
type SettingsController struct {
	repository repository.SettingsRepositoryInterface
}

// NewSettingsController creates a new SettingsController
func NewSettingsController(repo repository.SettingsRepositoryInterface) *SettingsController {
	return &SettingsController{
		repository: repo,
	}
}

// GetConnection handles GET /api/connection
// Example response: {"base": "https://script.google.com/macros/s/XYZ/exec", "hasToken": true}
func (c *SettingsController) GetConnection(w http.ResponseWriter, r *http.Request) {
	settings, err := c.repository.Load(r.Context())
	if err != nil {
		writeError(w, "GetConnection", err)
		return
	}
	writeJSON(w, http.StatusOK, models.ConnectionView{
		Base:     settings.Base,
		HasToken: settings.Token != "",
	})
}

// UpdateConnection handles PUT /api/connection
// A nil token keeps the saved one while the base is unchanged; a new base
// without a token clears it.
// Example request:
// PUT /api/connection
// {"base": "https://script.google.com/macros/s/XYZ/exec", "token": "s3cret"}
func (c *SettingsController) UpdateConnection(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 UpdateConnection: Received %s request to %s", r.Method, r.URL.Path)

	var req models.ConnectionUpdate
	if !decodeBody(w, r, "UpdateConnection", &req) {
		return
	}

	base, err := utils.ValidateBaseURL(req.Base)
	if err != nil {
		writeError(w, "UpdateConnection", err)
		return
	}

	current, err := c.repository.Load(r.Context())
	if err != nil {
		writeError(w, "UpdateConnection", err)
		return
	}
	// The saved token only stays with the host it was saved for
	next := models.ConnectionSettings{Base: base}
	if strings.TrimSpace(current.Base) == base {
		next.Token = current.Token
	}
	if req.Token != nil {
		next.Token = *req.Token
	}
	if current.Token != "" && next.Token == "" && req.Token == nil {
		log.Printf("⚠️  UpdateConnection: base changed, saved admin token cleared")
	}

	if err := c.repository.Save(r.Context(), next); err != nil {
		writeError(w, "UpdateConnection", err)
		return
	}

	log.Printf("✅ UpdateConnection: base set to %s", base)
	writeJSON(w, http.StatusOK, models.ConnectionView{
		Base:     base,
		HasToken: strings.TrimSpace(next.Token) != "",
	})
}
