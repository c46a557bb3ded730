package app

import (
	"context"

	"accurate-report/internal/core"
)

// ReportService is the single interface the web and CLI adapters call.
// Implementations contain no presentation logic. token is the caller's
// Accurate bearer token and is forwarded upstream unchanged.
type ReportService interface {
	// ListSalesInvoices returns one page of sales invoices, each with its tax
	// resolution. A single failing detail never fails the list: that record
	// carries the FETCH_FAILED sentinel instead.
	ListSalesInvoices(ctx context.Context, token string, req ListRequest) (*InvoiceListResult, error)

	// ListSalesInvoicesByCategory is ListSalesInvoices narrowed to records
	// whose resolved category is cat.
	ListSalesInvoicesByCategory(ctx context.Context, token string, req ListRequest, cat core.TaxCategory) (*InvoiceListResult, error)

	// GetInvoiceTax fetches and resolves a single invoice. Unlike the list
	// operations, a failed detail fetch is returned as an error.
	GetInvoiceTax(ctx context.Context, token string, id int64) (*InvoiceTaxResult, error)

	// ListSalesReceipts returns one page of sales receipts, optionally narrowed
	// by a case-insensitive description match.
	ListSalesReceipts(ctx context.Context, token string, req ReceiptListRequest) (*ReceiptListResult, error)
}
