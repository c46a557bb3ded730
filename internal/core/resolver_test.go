package core_test

import (
	"testing"

	"accurate-report/internal/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var resolver = core.NewTaxResolver(decimal.RequireFromString("0.10"))

func resolve(t *testing.T, raw string) core.TaxResolution {
	t.Helper()
	return resolver.Resolve(core.NewRawRecord([]byte(raw)))
}

func assertAmounts(t *testing.T, res core.TaxResolution, base, amount string) {
	t.Helper()
	assert.Equal(t, base, res.TaxableBase.String(), "taxable base")
	assert.Equal(t, amount, res.TaxAmount.String(), "tax amount")
}

func TestResolve_Category(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantCat   core.TaxCategory
		wantLabel string
	}{
		{
			name:      "document description wins",
			raw:       `{"tax1":{"description":"PAJAK HOTEL"},"detailTax":[{"tax":{"description":"PPN"}}]}`,
			wantCat:   core.CategoryLodgingTax,
			wantLabel: "PAJAK HOTEL",
		},
		{
			name:      "detail tax group",
			raw:       `{"detailTax":[{"tax":{"description":"Pajak Restoran"}}]}`,
			wantCat:   core.CategoryFoodServiceTax,
			wantLabel: "Pajak Restoran",
		},
		{
			name:      "first line item with a description, not index 0",
			raw:       `{"detailItem":[{"item":{}},{"item":{"tax1":{"description":"PPN 11%"}}},{"item":{"tax1":{"description":"PAJAK HOTEL"}}}]}`,
			wantCat:   core.CategoryPPN,
			wantLabel: "PPN 11%",
		},
		{
			name:      "taxable flag true",
			raw:       `{"taxable":true}`,
			wantCat:   core.CategoryPPN,
			wantLabel: "PPN",
		},
		{
			name:      "taxable flag false",
			raw:       `{"taxable":false}`,
			wantCat:   core.CategoryNonTaxable,
			wantLabel: "NON-PAJAK",
		},
		{
			name:      "no category fields",
			raw:       `{"dppAmount":1000}`,
			wantCat:   core.CategoryNonTaxable,
			wantLabel: "NON-PAJAK",
		},
		{
			name:      "empty description falls through",
			raw:       `{"tax1":{"description":"  "},"taxable":true}`,
			wantCat:   core.CategoryPPN,
			wantLabel: "PPN",
		},
		{
			name:      "unrecognised description",
			raw:       `{"tax1":{"description":"PAJAK HIBURAN"}}`,
			wantCat:   core.CategoryUnknown,
			wantLabel: "PAJAK HIBURAN",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := resolve(t, tt.raw)
			assert.Equal(t, tt.wantCat, res.Category)
			assert.Equal(t, tt.wantLabel, res.Label)
		})
	}
}

func TestResolve_BaseFallbackOrder(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"primary", `{"dppAmount":100,"taxableAmount1":200}`, "100"},
		{"secondary", `{"taxableAmount1":200,"detailTax":[{"taxableAmount":300}]}`, "200"},
		{"tax group", `{"detailTax":[{"taxableAmount":300}],"detailItem":[{"dppAmount":1}]}`, "300"},
		{
			"line items with per-item chain",
			`{"detailItem":[{"dppAmount":100},{"salesAmountBase":"50"},{"grossAmount":25},{"dppAmount":0,"grossAmount":5}]}`,
			"180",
		},
		{"gross base last resort", `{"salesAmountBase":900}`, "900"},
		{"zero line items fall through to gross base", `{"detailItem":[{"dppAmount":0}],"salesAmountBase":900}`, "900"},
		{"empty line items", `{"detailItem":[]}`, "0"},
		{"nothing", `{}`, "0"},
		{"negative ignored", `{"dppAmount":-5,"taxableAmount1":40}`, "40"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolve(t, tt.raw).TaxableBase.String())
		})
	}
}

func TestResolve_AmountFallbackOrder(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"primary", `{"tax1Amount":11,"detailTax":[{"taxAmount":22}]}`, "11"},
		{"tax group", `{"tax1Amount":0,"detailTax":[{"taxAmount":22}]}`, "22"},
		{"line items", `{"detailItem":[{"tax1Amount":5},{"tax1Amount":"7"},{}]}`, "12"},
		{"nothing, non-percentage category", `{"dppAmount":1000,"taxable":true}`, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolve(t, tt.raw).TaxAmount.String())
		})
	}
}

func TestResolve_ZeroEqualsAbsent(t *testing.T) {
	pairs := [][2]string{
		{`{"dppAmount":0,"taxableAmount1":500}`, `{"taxableAmount1":500}`},
		{`{"tax1Amount":0,"detailTax":[{"taxAmount":50}]}`, `{"detailTax":[{"taxAmount":50}]}`},
		{`{"dppAmount":"0","detailItem":[{"dppAmount":10}]}`, `{"detailItem":[{"dppAmount":10}]}`},
		{`{"dppAmount":null,"salesAmountBase":70}`, `{"salesAmountBase":70}`},
	}
	for _, p := range pairs {
		want, got := resolve(t, p[1]), resolve(t, p[0])
		assert.Equal(t, want.Category, got.Category, p[0])
		assert.Equal(t, want.Label, got.Label, p[0])
		assertAmounts(t, got, want.TaxableBase.String(), want.TaxAmount.String())
	}
}

func TestResolve_LineItemsOnly(t *testing.T) {
	res := resolve(t, `{"detailItem":[
		{"dppAmount":1000,"tax1Amount":110},
		{"dppAmount":2000,"tax1Amount":220},
		{"salesAmountBase":500,"tax1Amount":55}
	]}`)
	assertAmounts(t, res, "3500", "385")
}

func TestResolve_StatutoryRate(t *testing.T) {
	t.Run("derives 10 percent for lodging", func(t *testing.T) {
		res := resolve(t, `{"tax1":{"description":"PAJAK HOTEL"},"dppAmount":123456}`)
		assertAmounts(t, res, "123456", "12346")
	})

	t.Run("derives for food service", func(t *testing.T) {
		res := resolve(t, `{"tax1":{"description":"PAJAK RESTO"},"taxableAmount1":"50000"}`)
		assertAmounts(t, res, "50000", "5000")
	})

	t.Run("does not override a found amount", func(t *testing.T) {
		res := resolve(t, `{"tax1":{"description":"PAJAK HOTEL"},"dppAmount":1000,"tax1Amount":7}`)
		assertAmounts(t, res, "1000", "7")
	})

	t.Run("not for PPN", func(t *testing.T) {
		res := resolve(t, `{"tax1":{"description":"PPN"},"dppAmount":1000}`)
		assertAmounts(t, res, "1000", "0")
	})

	t.Run("not without base", func(t *testing.T) {
		res := resolve(t, `{"tax1":{"description":"PAJAK HOTEL"}}`)
		assertAmounts(t, res, "0", "0")
	})

	t.Run("disabled with zero rate", func(t *testing.T) {
		r := core.NewTaxResolver(decimal.Zero)
		res := r.Resolve(core.NewRawRecord([]byte(`{"tax1":{"description":"PAJAK HOTEL"},"dppAmount":1000}`)))
		assertAmounts(t, res, "1000", "0")
	})
}

func TestResolve_NeverNegative(t *testing.T) {
	res := resolve(t, `{"detailItem":[{"dppAmount":-100,"tax1Amount":-10}]}`)
	assert.False(t, res.TaxableBase.IsNegative())
	assert.False(t, res.TaxAmount.IsNegative())
}

func TestResolve_MalformedJSON(t *testing.T) {
	res := resolve(t, `{not json`)
	assert.Equal(t, core.CategoryNonTaxable, res.Category)
	assertAmounts(t, res, "0", "0")
}

func TestFetchFailedResolution(t *testing.T) {
	res := core.FetchFailedResolution()
	assert.Equal(t, core.CategoryFetchFailed, res.Category)
	assert.Equal(t, "NON-PAJAK", res.Label)
	assert.True(t, res.TaxableBase.IsZero())
	assert.True(t, res.TaxAmount.IsZero())
}

func TestFallbackChainsAreOrdered(t *testing.T) {
	names := func(src []core.AmountSource) []string {
		out := make([]string, len(src))
		for i, s := range src {
			out[i] = s.Name
		}
		return out
	}
	require.Equal(t, []string{
		"dppAmount", "taxableAmount1", "detailTax.0.taxableAmount", "sum(detailItem.dppAmount)", "salesAmountBase",
	}, names(core.BaseSources))
	require.Equal(t, []string{
		"tax1Amount", "detailTax.0.taxAmount", "sum(detailItem.tax1Amount)",
	}, names(core.AmountSources))
}
