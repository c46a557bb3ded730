package web

import (
	"encoding/json"
	"net/http"
	"strings"

	"accurate-report/internal/app"
	"accurate-report/internal/core"
)

type receiptDTO struct {
	ID              int64       `json:"id"`
	Nomor           string      `json:"nomor"`
	Tanggal         string      `json:"tanggal"`
	TanggalCek      string      `json:"tanggalCek"`
	Pelanggan       string      `json:"pelanggan"`
	Bank            string      `json:"bank"`
	Deskripsi       string      `json:"deskripsi"`
	UseCredit       bool        `json:"useCredit"`
	TotalPembayaran json.Number `json:"totalPembayaran"`
}

type receiptListResponse struct {
	Success   bool         `json:"success"`
	Count     int          `json:"count"`
	TotalData int          `json:"total_data,omitempty"`
	TotalPage int          `json:"total_page,omitempty"`
	Page      int          `json:"page,omitempty"`
	PerPage   int          `json:"per_page,omitempty"`
	Receipts  []receiptDTO `json:"orders"`
}

// apiListReceipts handles GET /api/sales-receipt/list?description=.
func (h *Handler) apiListReceipts(w http.ResponseWriter, r *http.Request) {
	req, err := h.parseListQuery(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	result, err := h.svc.ListSalesReceipts(r.Context(), bearerFromContext(r.Context()), app.ReceiptListRequest{
		ListRequest: req,
		Description: strings.TrimSpace(r.URL.Query().Get("description")),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	receipts := make([]receiptDTO, 0, len(result.Receipts))
	for _, rc := range result.Receipts {
		receipts = append(receipts, toReceiptDTO(rc))
	}
	writeJSON(w, receiptListResponse{
		Success:   true,
		Count:     len(receipts),
		TotalData: result.Page.TotalItems,
		TotalPage: result.Page.TotalPage,
		Page:      result.Page.Page,
		PerPage:   result.Page.PerPage,
		Receipts:  receipts,
	})
}

func toReceiptDTO(rc core.SalesReceipt) receiptDTO {
	return receiptDTO{
		ID:              rc.ID,
		Nomor:           rc.Number,
		Tanggal:         rc.Date,
		TanggalCek:      rc.ChequeDate,
		Pelanggan:       rc.CustomerName,
		Bank:            rc.BankName,
		Deskripsi:       rc.Description,
		UseCredit:       rc.UseCredit,
		TotalPembayaran: number(rc.TotalPayment),
	}
}
