// Package accurate is the upstream client for the Accurate Online API.
package accurate

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"accurate-report/internal/config"
	"accurate-report/internal/core"
	"accurate-report/internal/metrics"

	"github.com/go-resty/resty/v2"
)

const (
	invoiceListPath   = "/accurate/api/sales-invoice/list.do"
	invoiceDetailPath = "/accurate/api/sales-invoice/detail.do"
	receiptListPath   = "/accurate/api/sales-receipt/list.do"

	sessionHeader = "X-Session-ID"
)

// Endpoint labels used in errors and metrics.
const (
	OpInvoiceList   = "sales-invoice/list"
	OpInvoiceDetail = "sales-invoice/detail"
	OpReceiptList   = "sales-receipt/list"
)

// InvoiceFields is the projection requested for sales-invoice lists.
var InvoiceFields = []string{
	"id", "number", "transDate", "customer", "description",
	"statusName", "statusOutstanding", "age", "totalAmount",
}

// ReceiptFields is the projection requested for sales-receipt lists.
var ReceiptFields = []string{
	"id", "number", "transDate", "chequeDate", "customer", "bank",
	"description", "useCredit", "totalPayment",
}

// ListParams are the list query parameters. From and To are DD/MM/YYYY and
// must be set together.
type ListParams struct {
	Fields   []string
	Sort     string
	From, To string
	Page     int
	PageSize int
}

func (p ListParams) query() map[string]string {
	q := map[string]string{}
	if len(p.Fields) > 0 {
		q["fields"] = strings.Join(p.Fields, ",")
	}
	if p.Sort != "" {
		q["sp.sort"] = p.Sort
	}
	if p.Page > 0 {
		q["sp.page"] = strconv.Itoa(p.Page)
	}
	if p.PageSize > 0 {
		q["sp.pageSize"] = strconv.Itoa(p.PageSize)
	}
	if p.From != "" && p.To != "" {
		q["filter.transDate.op"] = "BETWEEN"
		q["filter.transDate.val[0]"] = p.From
		q["filter.transDate.val[1]"] = p.To
	}
	return q
}

// Client issues authenticated requests to one Accurate host.
type Client struct {
	http      *resty.Client
	sessionID string
	metrics   *metrics.Metrics
}

// NewClient builds a client for cfg. Retries are handled by DetailFetcher,
// so resty's own retry is left off.
func NewClient(cfg config.AccurateConfig, m *metrics.Metrics) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimRight(cfg.Host, "/")).
		SetHeader("Accept", "application/json")
	return &Client{http: rc, sessionID: cfg.SessionID, metrics: m}
}

// ListInvoices fetches one page of sales invoices.
func (c *Client) ListInvoices(ctx context.Context, token string, p ListParams) (ListPage, error) {
	if len(p.Fields) == 0 {
		p.Fields = InvoiceFields
	}
	return c.list(ctx, token, OpInvoiceList, invoiceListPath, p)
}

// ListReceipts fetches one page of sales receipts.
func (c *Client) ListReceipts(ctx context.Context, token string, p ListParams) (ListPage, error) {
	if len(p.Fields) == 0 {
		p.Fields = ReceiptFields
	}
	return c.list(ctx, token, OpReceiptList, receiptListPath, p)
}

// InvoiceDetail fetches one sales invoice detail. It makes a single attempt.
func (c *Client) InvoiceDetail(ctx context.Context, token string, id int64) (core.RawRecord, error) {
	body, err := c.get(ctx, token, OpInvoiceDetail, invoiceDetailPath, map[string]string{
		"id": strconv.FormatInt(id, 10),
	})
	if err != nil {
		return core.RawRecord{}, err
	}
	rec, err := DecodeDetailEnvelope(body)
	if err != nil {
		return core.RawRecord{}, &UpstreamError{Op: OpInvoiceDetail, Status: 200, Body: errorBody(body), Rejected: true, Err: err}
	}
	return rec, nil
}

func (c *Client) list(ctx context.Context, token, op, path string, p ListParams) (ListPage, error) {
	body, err := c.get(ctx, token, op, path, p.query())
	if err != nil {
		return ListPage{}, err
	}
	page, err := DecodeListEnvelope(body)
	if err != nil {
		return ListPage{}, &UpstreamError{Op: op, Status: 200, Body: errorBody(body), Err: err}
	}
	return page, nil
}

func (c *Client) get(ctx context.Context, token, op, path string, params map[string]string) ([]byte, error) {
	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetHeader(sessionHeader, c.sessionID).
		SetQueryParams(params).
		Get(path)
	elapsed := time.Since(start)

	if err != nil {
		outcome := "transport_error"
		if errors.Is(err, context.DeadlineExceeded) {
			outcome = "timeout"
		}
		c.metrics.ObserveUpstream(op, outcome, elapsed)
		return nil, &UpstreamError{Op: op, Err: err}
	}
	body := resp.Body()
	if resp.IsError() {
		c.metrics.ObserveUpstream(op, "http_"+strconv.Itoa(resp.StatusCode()), elapsed)
		return nil, &UpstreamError{Op: op, Status: resp.StatusCode(), Body: errorBody(body)}
	}
	if rejected(body) {
		c.metrics.ObserveUpstream(op, "rejected", elapsed)
		return nil, &UpstreamError{Op: op, Status: resp.StatusCode(), Body: errorBody(body), Rejected: true}
	}
	c.metrics.ObserveUpstream(op, "ok", elapsed)
	return body, nil
}
