package accurate

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"accurate-report/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(config.AccurateConfig{Host: srv.URL + "/", SessionID: "sess-1"}, nil)
}

func TestClient_ListInvoices_ForwardsCredentialsAndFilters(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, invoiceListPath, r.URL.Path)
		assert.Equal(t, "Bearer tok-abc", r.Header.Get("Authorization"))
		assert.Equal(t, "sess-1", r.Header.Get("X-Session-ID"))

		q := r.URL.Query()
		assert.Equal(t, "id,number,transDate,customer,description,statusName,statusOutstanding,age,totalAmount", q.Get("fields"))
		assert.Equal(t, "transDate|desc", q.Get("sp.sort"))
		assert.Equal(t, "2", q.Get("sp.page"))
		assert.Equal(t, "50", q.Get("sp.pageSize"))
		assert.Equal(t, "BETWEEN", q.Get("filter.transDate.op"))
		assert.Equal(t, "01/01/2025", q.Get("filter.transDate.val[0]"))
		assert.Equal(t, "31/01/2025", q.Get("filter.transDate.val[1]"))

		w.Write([]byte(`{"s":true,"d":[{"id":1},{"id":2}],"sp":{"rowCount":60,"pageCount":2}}`))
	})

	page, err := c.ListInvoices(context.Background(), "tok-abc", ListParams{
		Sort: "transDate|desc", From: "01/01/2025", To: "31/01/2025", Page: 2, PageSize: 50,
	})
	require.NoError(t, err)
	assert.Equal(t, ShapeBare, page.Shape)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 60, page.TotalItems)
	assert.Equal(t, 2, page.TotalPage)
}

func TestClient_ListInvoices_NoDateFilterWithoutBothBounds(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("filter.transDate.op"))
		w.Write([]byte(`{"s":true,"d":[]}`))
	})

	_, err := c.ListInvoices(context.Background(), "tok", ListParams{From: "01/01/2025"})
	require.NoError(t, err)
}

func TestClient_ListReceipts_PaginatedShape(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, receiptListPath, r.URL.Path)
		w.Write([]byte(`{"s":true,"d":{"list":[{"number":"SR-1"}],"totalItems":41,"totalPage":5}}`))
	})

	page, err := c.ListReceipts(context.Background(), "tok", ListParams{})
	require.NoError(t, err)
	assert.Equal(t, ShapePaginated, page.Shape)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "SR-1", page.Items[0].Get("number").String())
	assert.Equal(t, 41, page.TotalItems)
	assert.Equal(t, 5, page.TotalPage)
}

func TestClient_HTTPErrorCarriesUpstreamBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid_token"}`))
	})

	_, err := c.ListInvoices(context.Background(), "bad", ListParams{})
	var upErr *UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, http.StatusUnauthorized, upErr.Status)
	assert.JSONEq(t, `{"error":"invalid_token"}`, string(upErr.Body))
	assert.False(t, upErr.Retryable())
}

func TestClient_RejectedEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"s":false,"d":["Data tidak ditemukan"]}`))
	})

	_, err := c.InvoiceDetail(context.Background(), "tok", 9)
	var upErr *UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.True(t, upErr.Rejected)
	assert.False(t, upErr.Retryable())
}

func TestClient_InvoiceDetail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, invoiceDetailPath, r.URL.Path)
		assert.Equal(t, "77", r.URL.Query().Get("id"))
		w.Write([]byte(`{"s":true,"d":{"id":77,"tax1Amount":1000}}`))
	})

	rec, err := c.InvoiceDetail(context.Background(), "tok", 77)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), rec.Get("tax1Amount").Int())
}

func TestUpstreamError_Retryable(t *testing.T) {
	cases := []struct {
		err  UpstreamError
		want bool
	}{
		{UpstreamError{Err: errors.New("connection refused")}, true},
		{UpstreamError{Status: 500}, true},
		{UpstreamError{Status: 503}, true},
		{UpstreamError{Status: 408}, true},
		{UpstreamError{Status: 429}, true},
		{UpstreamError{Status: 400}, false},
		{UpstreamError{Status: 404}, false},
		{UpstreamError{Status: 200, Rejected: true}, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.err.Retryable(), tc.err.Error())
	}
}
