package core

import (
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// TaxCategory is the canonical tax bucket of an invoice.
type TaxCategory string

const (
	CategoryPPN            TaxCategory = "PPN"
	CategoryNonTaxable     TaxCategory = "NON_TAXABLE"
	CategoryLodgingTax     TaxCategory = "LODGING_TAX"
	CategoryFoodServiceTax TaxCategory = "FOOD_SERVICE_TAX"
	CategoryUnknown        TaxCategory = "UNKNOWN"
	CategoryFetchFailed    TaxCategory = "FETCH_FAILED"
)

// Labels used when no upstream description exists.
const (
	LabelPPN        = "PPN"
	LabelNonTaxable = "NON-PAJAK"
)

// ParseTaxCategory accepts the canonical names and the short aliases used in
// query strings ("hotel", "resto").
func ParseTaxCategory(s string) (TaxCategory, bool) {
	switch TaxCategory(s) {
	case CategoryPPN, CategoryNonTaxable, CategoryLodgingTax, CategoryFoodServiceTax, CategoryUnknown, CategoryFetchFailed:
		return TaxCategory(s), true
	}
	switch s {
	case "ppn":
		return CategoryPPN, true
	case "non-pajak", "non_taxable":
		return CategoryNonTaxable, true
	case "hotel", "lodging":
		return CategoryLodgingTax, true
	case "resto", "food":
		return CategoryFoodServiceTax, true
	}
	return "", false
}

// IsPercentageTax reports whether the category carries a statutory rate that
// may be derived from the taxable base.
func (c TaxCategory) IsPercentageTax() bool {
	return c == CategoryLodgingTax || c == CategoryFoodServiceTax
}

// RawRecord is one upstream invoice or receipt as received. It is read-only.
type RawRecord struct {
	doc gjson.Result
}

// NewRawRecord parses raw JSON. Invalid JSON yields an empty record.
func NewRawRecord(raw []byte) RawRecord {
	if !gjson.ValidBytes(raw) {
		return RawRecord{}
	}
	return RawRecord{doc: gjson.ParseBytes(raw)}
}

// RecordFromResult wraps an already parsed value.
func RecordFromResult(r gjson.Result) RawRecord {
	return RawRecord{doc: r}
}

// Get returns the value at a gjson path ("tax1.description", "detailTax.0.taxAmount").
func (r RawRecord) Get(path string) gjson.Result {
	return r.doc.Get(path)
}

// Exists reports whether the record holds any JSON value.
func (r RawRecord) Exists() bool {
	return r.doc.Exists()
}

// MarshalJSON re-emits the record exactly as received.
func (r RawRecord) MarshalJSON() ([]byte, error) {
	if !r.doc.Exists() || r.doc.Raw == "" {
		return []byte("null"), nil
	}
	return []byte(r.doc.Raw), nil
}

// LineItems returns the detailItem array; absent or non-array yields nil.
func (r RawRecord) LineItems() []gjson.Result {
	items := r.doc.Get("detailItem")
	if !items.IsArray() {
		return nil
	}
	return items.Array()
}

// TaxResolution is the canonical tax triple derived from one record.
// TaxableBase and TaxAmount are never negative.
type TaxResolution struct {
	Category    TaxCategory     `json:"category"`
	Label       string          `json:"label"`
	TaxableBase decimal.Decimal `json:"taxable_base"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
}

// FetchFailedResolution is substituted when a record's detail is unobtainable.
func FetchFailedResolution() TaxResolution {
	return TaxResolution{
		Category:    CategoryFetchFailed,
		Label:       LabelNonTaxable,
		TaxableBase: decimal.Zero,
		TaxAmount:   decimal.Zero,
	}
}

// NormalizedRecord is one invoice as returned to the front-end.
type NormalizedRecord struct {
	ID           int64
	Number       string
	Date         string // YYYY-MM-DD when the upstream format is recognised
	CustomerName string
	Description  string
	Status       string
	Age          int64
	Total        decimal.Decimal
	Tax          TaxResolution
}

// SalesReceipt is one upstream sales receipt, reshaped.
type SalesReceipt struct {
	ID           int64
	Number       string
	Date         string
	ChequeDate   string
	CustomerName string
	BankName     string
	Description  string
	UseCredit    bool
	TotalPayment decimal.Decimal
}
