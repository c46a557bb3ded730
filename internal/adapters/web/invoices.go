package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"accurate-report/internal/app"
	"accurate-report/internal/core"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// listQuery is the common query string of the list routes.
type listQuery struct {
	StartDate string `query:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `query:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Page      int    `query:"page" validate:"gte=0"`
	PerPage   int    `query:"per_page" validate:"gte=0"`
}

// orderDTO is one invoice as the front end expects it.
type orderDTO struct {
	ID            int64       `json:"id"`
	Nomor         string      `json:"nomor"`
	Tanggal       string      `json:"tanggal" jsonschema:"format=date"`
	Pelanggan     string      `json:"pelanggan"`
	Deskripsi     string      `json:"deskripsi"`
	Status        string      `json:"status"`
	Umur          int64       `json:"umur"`
	Total         json.Number `json:"total"`
	TypePajak     string      `json:"typePajak"`
	KategoriPajak string      `json:"kategoriPajak" jsonschema:"enum=PPN,enum=NON_TAXABLE,enum=LODGING_TAX,enum=FOOD_SERVICE_TAX,enum=UNKNOWN,enum=FETCH_FAILED"`
	Omzet         json.Number `json:"omzet"`
	NilaiPPN      json.Number `json:"nilaiPPN"`
}

type orderListResponse struct {
	Success   bool       `json:"success"`
	Count     int        `json:"count"`
	Failed    int        `json:"failed"`
	TotalData int        `json:"total_data,omitempty"`
	TotalPage int        `json:"total_page,omitempty"`
	Page      int        `json:"page,omitempty"`
	PerPage   int        `json:"per_page,omitempty"`
	Orders    []orderDTO `json:"orders"`
}

type invoiceTaxResponse struct {
	Success     bool        `json:"success"`
	ID          int64       `json:"id"`
	Category    string      `json:"category"`
	Label       string      `json:"label"`
	TaxableBase json.Number `json:"taxable_base"`
	TaxAmount   json.Number `json:"tax_amount"`
}

// apiInvoiceReport handles GET /api/sales-receipt/sales-receipt-list.
func (h *Handler) apiInvoiceReport(w http.ResponseWriter, r *http.Request) {
	h.listInvoices(w, r, "")
}

// apiHotelReport handles GET /api/sales-receipt/sales-receipt-list/hotel.
func (h *Handler) apiHotelReport(w http.ResponseWriter, r *http.Request) {
	h.listInvoices(w, r, core.CategoryLodgingTax)
}

// apiRestoReport handles GET /api/sales-receipt/sales-receipt-list/resto.
func (h *Handler) apiRestoReport(w http.ResponseWriter, r *http.Request) {
	h.listInvoices(w, r, core.CategoryFoodServiceTax)
}

// apiListInvoices handles GET /api/sales-invoice/list?category=.
func (h *Handler) apiListInvoices(w http.ResponseWriter, r *http.Request) {
	var cat core.TaxCategory
	if raw := r.URL.Query().Get("category"); raw != "" {
		c, ok := core.ParseTaxCategory(raw)
		if !ok {
			writeServiceError(w, r, &app.ValidationError{Field: "category", Reason: "unknown tax category " + strconv.Quote(raw)})
			return
		}
		cat = c
	}
	h.listInvoices(w, r, cat)
}

// listInvoices lists invoices, narrowed to cat unless cat is empty.
func (h *Handler) listInvoices(w http.ResponseWriter, r *http.Request, cat core.TaxCategory) {
	req, err := h.parseListQuery(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	token := bearerFromContext(r.Context())
	var result *app.InvoiceListResult
	if cat == "" {
		result, err = h.svc.ListSalesInvoices(r.Context(), token, req)
	} else {
		result, err = h.svc.ListSalesInvoicesByCategory(r.Context(), token, req, cat)
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	orders := make([]orderDTO, 0, len(result.Records))
	for _, rec := range result.Records {
		orders = append(orders, toOrderDTO(rec))
	}
	writeJSON(w, orderListResponse{
		Success:   true,
		Count:     len(orders),
		Failed:    result.Failed,
		TotalData: result.Page.TotalItems,
		TotalPage: result.Page.TotalPage,
		Page:      result.Page.Page,
		PerPage:   result.Page.PerPage,
		Orders:    orders,
	})
}

// apiInvoiceTax handles GET /api/sales-invoice/{id}/tax.
func (h *Handler) apiInvoiceTax(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeServiceError(w, r, &app.ValidationError{Field: "id", Reason: "must be a positive integer"})
		return
	}

	result, err := h.svc.GetInvoiceTax(r.Context(), bearerFromContext(r.Context()), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, invoiceTaxResponse{
		Success:     true,
		ID:          result.ID,
		Category:    string(result.Tax.Category),
		Label:       result.Tax.Label,
		TaxableBase: number(result.Tax.TaxableBase),
		TaxAmount:   number(result.Tax.TaxAmount),
	})
}

// parseListQuery reads and validates the list query string. Cross-field
// rules (paired dates, per_page cap) are left to the service.
func (h *Handler) parseListQuery(r *http.Request) (app.ListRequest, error) {
	q := r.URL.Query()
	lq := listQuery{
		StartDate: strings.TrimSpace(q.Get("start_date")),
		EndDate:   strings.TrimSpace(q.Get("end_date")),
	}
	var err error
	if lq.Page, err = intParam(q.Get("page"), "page"); err != nil {
		return app.ListRequest{}, err
	}
	if lq.PerPage, err = intParam(q.Get("per_page"), "per_page"); err != nil {
		return app.ListRequest{}, err
	}

	if err := h.validate.Struct(lq); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return app.ListRequest{}, &app.ValidationError{Field: verrs[0].Field(), Reason: validationReason(verrs[0])}
		}
		return app.ListRequest{}, err
	}
	return app.ListRequest{
		StartDate: lq.StartDate,
		EndDate:   lq.EndDate,
		Page:      lq.Page,
		PerPage:   lq.PerPage,
	}, nil
}

func intParam(s, field string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, &app.ValidationError{Field: field, Reason: "must be an integer"}
	}
	return n, nil
}

func validationReason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "datetime":
		return "must be YYYY-MM-DD"
	case "gte":
		return "must not be negative"
	default:
		return "failed " + fe.Tag() + " check"
	}
}

func toOrderDTO(rec core.NormalizedRecord) orderDTO {
	return orderDTO{
		ID:            rec.ID,
		Nomor:         rec.Number,
		Tanggal:       rec.Date,
		Pelanggan:     rec.CustomerName,
		Deskripsi:     rec.Description,
		Status:        rec.Status,
		Umur:          rec.Age,
		Total:         number(rec.Total),
		TypePajak:     rec.Tax.Label,
		KategoriPajak: string(rec.Tax.Category),
		Omzet:         number(rec.Tax.TaxableBase),
		NilaiPPN:      number(rec.Tax.TaxAmount),
	}
}

// number renders d as a bare JSON number.
func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}
