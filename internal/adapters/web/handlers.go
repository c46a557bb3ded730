package web

import (
	"net/http"
	"reflect"

	"accurate-report/internal/app"
	"accurate-report/internal/config"
	"accurate-report/internal/logger"
	"accurate-report/internal/metrics"

	charmlog "github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
)

// Options configures NewHandler. Zero values are usable.
type Options struct {
	AllowedOrigins string
	RateLimit      config.RateLimitConfig
	Metrics        *metrics.Metrics
	Logger         *charmlog.Logger
}

// Handler holds the ReportService, the chi router and the query validator.
type Handler struct {
	svc         app.ReportService
	router      chi.Router
	validate    *validator.Validate
	orderSchema *jsonschema.Schema
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ReportService, opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	validate := validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("query")
	})

	h := &Handler{
		svc:         svc,
		validate:    validate,
		orderSchema: jsonschema.Reflect(&orderListResponse{}),
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(log))
	r.Use(Recoverer)
	r.Use(CORS(opts.AllowedOrigins))
	r.MethodNotAllowed(methodNotAllowed)
	r.NotFound(notFound)

	// ── Public ────────────────────────────────────────────────────────────────
	r.Get("/api/health", h.health)
	r.Get("/api/schema/orders", h.schemaOrders)
	r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())

	// ── Accurate-backed routes (bearer token forwarded upstream) ─────────────
	r.Group(func(r chi.Router) {
		r.Use(RateLimit(opts.RateLimit.RPS, opts.RateLimit.Burst))
		r.Use(RequireBearer)

		r.Get("/api/sales-receipt/sales-receipt-list", h.apiInvoiceReport)
		r.Get("/api/sales-receipt/sales-receipt-list/hotel", h.apiHotelReport)
		r.Get("/api/sales-receipt/sales-receipt-list/resto", h.apiRestoReport)

		r.Get("/api/sales-invoice/list", h.apiListInvoices)
		r.Get("/api/sales-invoice/{id}/tax", h.apiInvoiceTax)

		r.Get("/api/sales-receipt/list", h.apiListReceipts)
	})

	h.router = r
	return r
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

// schemaOrders handles GET /api/schema/orders.
func (h *Handler) schemaOrders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.orderSchema)
}
