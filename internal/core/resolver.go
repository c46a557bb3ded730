package core

import (
	"github.com/shopspring/decimal"
)

// ItemBaseSources is the per-line-item taxable base chain.
var ItemBaseSources = []AmountSource{
	Field("dppAmount"),
	Field("salesAmountBase"),
	Field("grossAmount"),
}

// ItemAmountSources is the per-line-item tax amount chain.
var ItemAmountSources = []AmountSource{
	Field("tax1Amount"),
}

// CategorySources lists where a tax description may live, highest priority first.
var CategorySources = []TextSource{
	TextField("tax1.description"),
	TextField("detailTax.0.tax.description"),
	FirstItemText("item.tax1.description"),
	taxableFlag,
}

// BaseSources is the document-level taxable base (DPP) chain.
var BaseSources = []AmountSource{
	Field("dppAmount"),
	Field("taxableAmount1"),
	Field("detailTax.0.taxableAmount"),
	SumOfItems(ItemBaseSources),
	Field("salesAmountBase"),
}

// AmountSources is the document-level tax amount chain. The statutory-rate
// derivation runs after it and is not a source.
var AmountSources = []AmountSource{
	Field("tax1Amount"),
	Field("detailTax.0.taxAmount"),
	SumOfItems(ItemAmountSources),
}

// taxableFlag maps an explicit boolean "taxable" to a label.
var taxableFlag = TextSource{
	Name: "taxable",
	Value: func(r RawRecord) (string, bool) {
		v := r.Get("taxable")
		if !v.IsBool() {
			return "", false
		}
		if v.Bool() {
			return LabelPPN, true
		}
		return LabelNonTaxable, true
	},
}

// TaxResolver derives a TaxResolution from a detail record.
type TaxResolver struct {
	// StatutoryRate is applied to the base of percentage-tax categories when no
	// amount could be found. Zero disables the derivation.
	StatutoryRate decimal.Decimal
}

// NewTaxResolver returns a resolver using rate as the statutory rate.
func NewTaxResolver(rate decimal.Decimal) *TaxResolver {
	return &TaxResolver{StatutoryRate: rate}
}

// Resolve runs the category, base and amount chains in that order.
func (t *TaxResolver) Resolve(r RawRecord) TaxResolution {
	label, _, ok := FirstText(r, CategorySources)
	if !ok {
		label = LabelNonTaxable
	}
	category := NormalizeCategory(label)

	base, _, _ := FirstPositive(r, BaseSources)
	amount, _, found := FirstPositive(r, AmountSources)
	if !found {
		amount = t.statutoryAmount(category, base)
	}

	return TaxResolution{
		Category:    category,
		Label:       label,
		TaxableBase: nonNegative(base),
		TaxAmount:   nonNegative(amount),
	}
}

func (t *TaxResolver) statutoryAmount(c TaxCategory, base decimal.Decimal) decimal.Decimal {
	if !c.IsPercentageTax() || !positive(base) || !positive(t.StatutoryRate) {
		return decimal.Zero
	}
	return base.Mul(t.StatutoryRate).Round(0)
}
