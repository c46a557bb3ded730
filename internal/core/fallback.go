package core

import (
	"github.com/shopspring/decimal"
)

// AmountSource is one candidate location of a monetary value. Value reports
// ok=false when the location is absent.
type AmountSource struct {
	Name  string
	Value func(RawRecord) (decimal.Decimal, bool)
}

// TextSource is one candidate location of a description.
type TextSource struct {
	Name  string
	Value func(RawRecord) (string, bool)
}

// Field reads a number at path.
func Field(path string) AmountSource {
	return AmountSource{
		Name: path,
		Value: func(r RawRecord) (decimal.Decimal, bool) {
			v := r.Get(path)
			if !v.Exists() {
				return decimal.Zero, false
			}
			return ToNumber(v), true
		},
	}
}

// TextField reads a non-empty string at path.
func TextField(path string) TextSource {
	return TextSource{
		Name: path,
		Value: func(r RawRecord) (string, bool) {
			s := ToText(r.Get(path))
			return s, s != ""
		},
	}
}

// FirstItemText scans detailItem in order and returns the first non-empty
// string at path within an item.
func FirstItemText(path string) TextSource {
	return TextSource{
		Name: "detailItem[*]." + path,
		Value: func(r RawRecord) (string, bool) {
			for _, item := range r.LineItems() {
				if s := ToText(item.Get(path)); s != "" {
					return s, true
				}
			}
			return "", false
		},
	}
}

// SumOfItems totals each line item's value, each item resolved through its own
// chain. It is absent when the record has no line items.
func SumOfItems(itemChain []AmountSource) AmountSource {
	name := "sum(detailItem)"
	if len(itemChain) > 0 {
		name = "sum(detailItem." + itemChain[0].Name + ")"
	}
	return AmountSource{
		Name: name,
		Value: func(r RawRecord) (decimal.Decimal, bool) {
			items := r.LineItems()
			if len(items) == 0 {
				return decimal.Zero, false
			}
			return SumLineItems(items, itemChain), true
		},
	}
}

// FirstPositive returns the first source value greater than zero. Zero and
// absent are equivalent: both move on to the next source.
func FirstPositive(r RawRecord, sources []AmountSource) (decimal.Decimal, string, bool) {
	for _, src := range sources {
		if v, ok := src.Value(r); ok && positive(v) {
			return v, src.Name, true
		}
	}
	return decimal.Zero, "", false
}

// FirstText returns the first non-empty source value.
func FirstText(r RawRecord, sources []TextSource) (string, string, bool) {
	for _, src := range sources {
		if v, ok := src.Value(r); ok && v != "" {
			return v, src.Name, true
		}
	}
	return "", "", false
}
