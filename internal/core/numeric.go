package core

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// ToNumber coerces any upstream value to a decimal. Values that are not numbers
// or numeric strings (null, missing, booleans, objects, arrays, garbage) yield 0.
func ToNumber(v gjson.Result) decimal.Decimal {
	var s string
	switch v.Type {
	case gjson.Number:
		s = v.Raw
	case gjson.String:
		s = strings.TrimSpace(v.Str)
	default:
		return decimal.Zero
	}
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ToInt is ToNumber truncated to an integer, for ids and ages.
func ToInt(v gjson.Result) int64 {
	return ToNumber(v).IntPart()
}

// ToText returns the trimmed string form of scalars and "" for everything else.
func ToText(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return strings.TrimSpace(v.Str)
	case gjson.Number:
		return v.Raw
	}
	return ""
}

// positive is the fallback predicate: zero, negative and absent all mean
// "not populated".
func positive(d decimal.Decimal) bool {
	return d.IsPositive()
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
