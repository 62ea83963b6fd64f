package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"merch-order-desk/app/controller"
)

// Options tunes the router
type Options struct {
	// AllowedOrigins lists the browser origins allowed to call the API; empty allows any
	AllowedOrigins []string
}

// Controllers holds the HTTP handlers wired into the router
type Controllers struct {
	Catalog  *controller.CatalogController
	Order    *controller.OrderController
	Settings *controller.SettingsController
	Admin    *controller.AdminController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// SetupRoutes builds the HTTP handler for all endpoints
func SetupRoutes(controllers *Controllers, opts Options) http.Handler {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", controller.HeaderAdminPasscode, controller.HeaderAdminToken},
		ExposedHeaders: []string{"Content-Disposition", "X-Export-URL"},
		MaxAge:         600,
	}))

	// Ping endpoint
	r.Get("/ping", pingHandler)

	r.Route("/api", func(r chi.Router) {
		// Catalog routes
		r.Get("/catalog", controllers.Catalog.GetCatalog)
		r.Get("/catalog/{sku}/image", controllers.Catalog.GetProductImage)
		r.Get("/settings", controllers.Catalog.GetStoreSettings)

		// Order routes
		r.Post("/quote", controllers.Order.Quote)
		r.Post("/orders", controllers.Order.SubmitOrder)
		r.Get("/orders/lookup", controllers.Order.LookupOrder)

		// Admin routes. Unlock and login are open; everything else sits behind the gate.
		r.Route("/admin", func(r chi.Router) {
			r.Post("/unlock", controllers.Admin.Unlock)
			r.Post("/login", controllers.Admin.Login)
			r.Get("/ping", controllers.Admin.Ping)

			r.Group(func(r chi.Router) {
				r.Use(controllers.Admin.RequireAdmin)

				r.Get("/state", controllers.Admin.GetState)
				r.Post("/lock", controllers.Admin.LockOrders)
				r.Post("/unlock-orders", controllers.Admin.UnlockOrders)
				r.Get("/orders", controllers.Admin.SearchOrders)
				r.Get("/orders/{orderId}", controllers.Admin.GetOrder)
				r.Post("/orders/{orderId}/paid", controllers.Admin.MarkPaid)
				r.Post("/orders/{orderId}/unpaid", controllers.Admin.MarkUnpaid)
				r.Get("/totals", controllers.Admin.PaidTotals)
				r.Get("/export", controllers.Admin.ExportPaid)
			})
		})

		// Server-wide changes need the configured passcode
		r.Group(func(r chi.Router) {
			r.Use(controllers.Admin.RequireOperator)

			r.Post("/catalog/reload", controllers.Catalog.ReloadCatalog)
			r.Get("/connection", controllers.Settings.GetConnection)
			r.Put("/connection", controllers.Settings.UpdateConnection)
		})
	})

	return r
}
