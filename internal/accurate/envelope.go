package accurate

import (
	"errors"
	"fmt"

	"accurate-report/internal/core"

	"github.com/tidwall/gjson"
)

// ListShape tags which of the two observed list envelopes was received.
type ListShape int

const (
	// ShapeBare is {"d": [...], "sp": {...}}.
	ShapeBare ListShape = iota
	// ShapePaginated is {"d": {"list": [...], "totalItems": n, "totalPage": n}}.
	ShapePaginated
)

func (s ListShape) String() string {
	if s == ShapePaginated {
		return "paginated"
	}
	return "bare"
}

// ListPage is a list response normalised from either shape.
type ListPage struct {
	Shape      ListShape
	Items      []core.RawRecord
	TotalItems int
	TotalPage  int
}

var errInvalidJSON = errors.New("response is not valid JSON")

// DecodeListEnvelope normalises a list response body. A missing or null "d"
// is an empty page.
func DecodeListEnvelope(body []byte) (ListPage, error) {
	if !gjson.ValidBytes(body) {
		return ListPage{}, errInvalidJSON
	}
	doc := gjson.ParseBytes(body)
	d := doc.Get("d")

	switch {
	case !d.Exists() || d.Type == gjson.Null:
		return ListPage{Shape: ShapeBare}, nil

	case d.IsArray():
		items := records(d)
		page := ListPage{
			Shape:      ShapeBare,
			Items:      items,
			TotalItems: int(doc.Get("sp.rowCount").Int()),
			TotalPage:  int(doc.Get("sp.pageCount").Int()),
		}
		if page.TotalItems == 0 {
			page.TotalItems = len(items)
		}
		return page, nil

	case d.IsObject() && d.Get("list").IsArray():
		items := records(d.Get("list"))
		page := ListPage{
			Shape:      ShapePaginated,
			Items:      items,
			TotalItems: int(d.Get("totalItems").Int()),
			TotalPage:  int(d.Get("totalPage").Int()),
		}
		if page.TotalItems == 0 {
			page.TotalItems = len(items)
		}
		return page, nil
	}
	return ListPage{}, fmt.Errorf("unexpected list envelope: d is %s", d.Type)
}

// DecodeDetailEnvelope extracts the "d" object of a detail response.
func DecodeDetailEnvelope(body []byte) (core.RawRecord, error) {
	if !gjson.ValidBytes(body) {
		return core.RawRecord{}, errInvalidJSON
	}
	d := gjson.GetBytes(body, "d")
	if !d.IsObject() {
		return core.RawRecord{}, errors.New("detail response has no d object")
	}
	return core.RecordFromResult(d), nil
}

// rejected reports an {"s": false} envelope.
func rejected(body []byte) bool {
	s := gjson.GetBytes(body, "s")
	return s.IsBool() && !s.Bool()
}

func records(arr gjson.Result) []core.RawRecord {
	elems := arr.Array()
	out := make([]core.RawRecord, 0, len(elems))
	for _, e := range elems {
		out = append(out, core.RecordFromResult(e))
	}
	return out
}
