package app

import "fmt"

// ListRequest is the input for the list operations. Dates are YYYY-MM-DD and
// must be given together. Zero Page and PerPage leave paging to the upstream.
type ListRequest struct {
	StartDate string
	EndDate   string
	Page      int
	PerPage   int
}

// ReceiptListRequest is the input for ListSalesReceipts.
type ReceiptListRequest struct {
	ListRequest
	Description string // case-insensitive substring; empty keeps everything
}

// ValidationError reports a malformed request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
