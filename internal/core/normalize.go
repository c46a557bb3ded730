package core

import "strings"

const missingText = "-"

// NormalizeInvoice reshapes one list-level invoice and attaches its resolution.
func NormalizeInvoice(item RawRecord, tax TaxResolution) NormalizedRecord {
	status, _, ok := FirstText(item, []TextSource{TextField("statusName"), TextField("statusOutstanding")})
	if !ok {
		status = missingText
	}
	return NormalizedRecord{
		ID:           ToInt(item.Get("id")),
		Number:       ToText(item.Get("number")),
		Date:         ToISO(ToText(item.Get("transDate"))),
		CustomerName: textOr(item, "customer.name"),
		Description:  textOr(item, "description"),
		Status:       status,
		Age:          ToInt(item.Get("age")),
		Total:        ToNumber(item.Get("totalAmount")),
		Tax:          tax,
	}
}

// NormalizeReceipt reshapes one list-level sales receipt.
func NormalizeReceipt(item RawRecord) SalesReceipt {
	return SalesReceipt{
		ID:           ToInt(item.Get("id")),
		Number:       ToText(item.Get("number")),
		Date:         ToISO(ToText(item.Get("transDate"))),
		ChequeDate:   ToISO(ToText(item.Get("chequeDate"))),
		CustomerName: textOr(item, "customer.name"),
		BankName:     textOr(item, "bank.name"),
		Description:  textOr(item, "description"),
		UseCredit:    item.Get("useCredit").Bool(),
		TotalPayment: ToNumber(item.Get("totalPayment")),
	}
}

// FilterReceipts keeps receipts whose description contains needle,
// case-insensitively. An empty needle keeps everything.
func FilterReceipts(receipts []SalesReceipt, needle string) []SalesReceipt {
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		return receipts
	}
	out := make([]SalesReceipt, 0, len(receipts))
	for _, r := range receipts {
		if strings.Contains(strings.ToLower(r.Description), needle) {
			out = append(out, r)
		}
	}
	return out
}

func textOr(r RawRecord, path string) string {
	if s := ToText(r.Get(path)); s != "" {
		return s
	}
	return missingText
}
