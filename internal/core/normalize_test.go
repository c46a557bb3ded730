package core_test

import (
	"testing"

	"accurate-report/internal/core"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeInvoice(t *testing.T) {
	item := core.NewRawRecord([]byte(`{
		"id": 101, "number": "SI.2025.01.00001", "transDate": "15/01/2025",
		"customer": {"name": "PT Hotel Indah"}, "description": "Kamar deluxe",
		"statusName": "", "statusOutstanding": "Belum Lunas", "age": 12, "totalAmount": "1100000"
	}`))
	tax := core.TaxResolution{Category: core.CategoryLodgingTax, Label: "PAJAK HOTEL"}

	rec := core.NormalizeInvoice(item, tax)

	assert.Equal(t, int64(101), rec.ID)
	assert.Equal(t, "SI.2025.01.00001", rec.Number)
	assert.Equal(t, "2025-01-15", rec.Date)
	assert.Equal(t, "PT Hotel Indah", rec.CustomerName)
	assert.Equal(t, "Kamar deluxe", rec.Description)
	assert.Equal(t, "Belum Lunas", rec.Status)
	assert.Equal(t, int64(12), rec.Age)
	assert.Equal(t, "1100000", rec.Total.String())
	assert.Equal(t, tax, rec.Tax)
}

func TestNormalizeInvoice_MissingFields(t *testing.T) {
	rec := core.NormalizeInvoice(core.NewRawRecord([]byte(`{"id": 7}`)), core.FetchFailedResolution())

	assert.Equal(t, "-", rec.CustomerName)
	assert.Equal(t, "-", rec.Description)
	assert.Equal(t, "-", rec.Status)
	assert.Equal(t, int64(0), rec.Age)
	assert.True(t, rec.Total.IsZero())
}

func TestNormalizeAndFilterReceipts(t *testing.T) {
	raw := []string{
		`{"number":"SR-1","transDate":"01/02/2025","description":"Bayar RESTO lantai 2","bank":{"name":"BCA"},"useCredit":false,"totalPayment":250000}`,
		`{"number":"SR-2","transDate":"02/02/2025","description":"Pelunasan kamar","customer":{"name":"Budi"},"useCredit":true,"totalPayment":"900000"}`,
	}
	receipts := make([]core.SalesReceipt, 0, len(raw))
	for _, r := range raw {
		receipts = append(receipts, core.NormalizeReceipt(core.NewRawRecord([]byte(r))))
	}

	assert.Equal(t, "2025-02-01", receipts[0].Date)
	assert.Equal(t, "BCA", receipts[0].BankName)
	assert.Equal(t, "-", receipts[0].CustomerName)
	assert.True(t, receipts[1].UseCredit)
	assert.Equal(t, "900000", receipts[1].TotalPayment.String())

	resto := core.FilterReceipts(receipts, "resto")
	assert.Len(t, resto, 1)
	assert.Equal(t, "SR-1", resto[0].Number)
	assert.Len(t, core.FilterReceipts(receipts, ""), 2)
}
