package core

import (
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// SumLineItems adds up one value per item. Each item contributes the first
// positive value of chain, or zero. An empty slice sums to zero.
func SumLineItems(items []gjson.Result, chain []AmountSource) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		v, _, _ := FirstPositive(RecordFromResult(item), chain)
		total = total.Add(v)
	}
	return total
}
