package app

import "accurate-report/internal/core"

// PageInfo echoes upstream paging. Paginated is true when the upstream
// answered with the {list, totalItems, totalPage} envelope.
type PageInfo struct {
	TotalItems int
	TotalPage  int
	Page       int
	PerPage    int
	Paginated  bool
}

// InvoiceListResult is returned by the invoice list operations.
type InvoiceListResult struct {
	Records []core.NormalizedRecord
	Failed  int // records carrying the FETCH_FAILED sentinel
	Page    PageInfo
}

// InvoiceTaxResult is returned by GetInvoiceTax.
type InvoiceTaxResult struct {
	ID     int64
	Tax    core.TaxResolution
	Detail core.RawRecord
}

// ReceiptListResult is returned by ListSalesReceipts.
type ReceiptListResult struct {
	Receipts []core.SalesReceipt
	Page     PageInfo
}
