package app

import (
	"context"
	"fmt"

	"accurate-report/internal/accurate"
	"accurate-report/internal/config"
	"accurate-report/internal/core"
	"accurate-report/internal/logger"
	"accurate-report/internal/metrics"
)

// Invoice and receipt lists are both returned newest first.
const transDateDesc = "transDate|desc"

// Lister fetches list pages from the upstream.
type Lister interface {
	ListInvoices(ctx context.Context, token string, p accurate.ListParams) (accurate.ListPage, error)
	ListReceipts(ctx context.Context, token string, p accurate.ListParams) (accurate.ListPage, error)
}

type reportService struct {
	cfg      *config.Config
	lister   Lister
	fetcher  *accurate.DetailFetcher
	resolver *core.TaxResolver
	metrics  *metrics.Metrics
}

// NewReportService constructs a reportService that satisfies ReportService.
func NewReportService(cfg *config.Config, lister Lister, fetcher *accurate.DetailFetcher, m *metrics.Metrics) ReportService {
	return &reportService{
		cfg:      cfg,
		lister:   lister,
		fetcher:  fetcher,
		resolver: core.NewTaxResolver(cfg.StatutoryRate),
		metrics:  m,
	}
}

// ListSalesInvoices lists one page and resolves every record in paced batches.
func (s *reportService) ListSalesInvoices(ctx context.Context, token string, req ListRequest) (*InvoiceListResult, error) {
	if err := s.cfg.Accurate.Validate(); err != nil {
		return nil, err
	}
	params, err := s.listParams(req)
	if err != nil {
		return nil, err
	}
	params.Sort = transDateDesc

	page, err := s.lister.ListInvoices(ctx, token, params)
	if err != nil {
		return nil, fmt.Errorf("list sales invoices: %w", err)
	}

	log := logger.FromContext(ctx)
	opts := core.BatchOptions{
		Size:  s.cfg.Batch.Size,
		Pause: s.cfg.Batch.Delay,
		OnBatch: func(index, size int) {
			s.metrics.BatchStarted()
			log.Debug("detail batch", "batch", index, "size", size)
		},
	}
	records := core.Batches(ctx, opts, page.Items, func(ctx context.Context, item core.RawRecord) core.NormalizedRecord {
		return core.NormalizeInvoice(item, s.resolveItem(ctx, token, item))
	})

	failed := 0
	for _, rec := range records {
		if rec.Tax.Category == core.CategoryFetchFailed {
			failed++
		}
	}
	log.Info("sales invoices resolved", "count", len(records), "failed", failed, "shape", page.Shape.String())

	return &InvoiceListResult{
		Records: records,
		Failed:  failed,
		Page:    pageInfo(page, req),
	}, nil
}

// ListSalesInvoicesByCategory filters after resolution, so Page still
// describes the unfiltered upstream page.
func (s *reportService) ListSalesInvoicesByCategory(ctx context.Context, token string, req ListRequest, cat core.TaxCategory) (*InvoiceListResult, error) {
	res, err := s.ListSalesInvoices(ctx, token, req)
	if err != nil {
		return nil, err
	}
	res.Records = core.FilterByCategory(res.Records, cat)
	res.Failed = len(core.FilterByCategory(res.Records, core.CategoryFetchFailed))
	return res, nil
}

func (s *reportService) GetInvoiceTax(ctx context.Context, token string, id int64) (*InvoiceTaxResult, error) {
	if err := s.cfg.Accurate.Validate(); err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, &ValidationError{Field: "id", Reason: "must be a positive integer"}
	}
	detail, err := s.fetcher.Fetch(ctx, token, id)
	if err != nil {
		return nil, fmt.Errorf("invoice %d: %w", id, err)
	}
	tax := s.resolver.Resolve(detail)
	s.metrics.Resolved(string(tax.Category))
	return &InvoiceTaxResult{ID: id, Tax: tax, Detail: detail}, nil
}

func (s *reportService) ListSalesReceipts(ctx context.Context, token string, req ReceiptListRequest) (*ReceiptListResult, error) {
	if err := s.cfg.Accurate.Validate(); err != nil {
		return nil, err
	}
	params, err := s.listParams(req.ListRequest)
	if err != nil {
		return nil, err
	}
	params.Sort = transDateDesc

	page, err := s.lister.ListReceipts(ctx, token, params)
	if err != nil {
		return nil, fmt.Errorf("list sales receipts: %w", err)
	}

	receipts := make([]core.SalesReceipt, 0, len(page.Items))
	for _, item := range page.Items {
		receipts = append(receipts, core.NormalizeReceipt(item))
	}
	return &ReceiptListResult{
		Receipts: core.FilterReceipts(receipts, req.Description),
		Page:     pageInfo(page, req.ListRequest),
	}, nil
}

// resolveItem skips the detail call for list items without a usable id.
func (s *reportService) resolveItem(ctx context.Context, token string, item core.RawRecord) core.TaxResolution {
	id := core.ToInt(item.Get("id"))
	if id <= 0 {
		logger.FromContext(ctx).Warn("list item has no id, using fallback")
		s.metrics.DetailFallback()
		return core.FetchFailedResolution()
	}
	return s.fetcher.Resolve(ctx, token, id, s.resolver)
}

func (s *reportService) listParams(req ListRequest) (accurate.ListParams, error) {
	var p accurate.ListParams

	if (req.StartDate == "") != (req.EndDate == "") {
		field := "end_date"
		if req.StartDate == "" {
			field = "start_date"
		}
		return p, &ValidationError{Field: field, Reason: "start_date and end_date must be given together"}
	}
	if req.StartDate != "" {
		from, ok := core.ToDMY(req.StartDate)
		if !ok {
			return p, &ValidationError{Field: "start_date", Reason: "must be YYYY-MM-DD"}
		}
		to, ok := core.ToDMY(req.EndDate)
		if !ok {
			return p, &ValidationError{Field: "end_date", Reason: "must be YYYY-MM-DD"}
		}
		if req.EndDate < req.StartDate {
			return p, &ValidationError{Field: "end_date", Reason: "must not be before start_date"}
		}
		p.From, p.To = from, to
	}

	if req.Page < 0 {
		return p, &ValidationError{Field: "page", Reason: "must not be negative"}
	}
	limit := min(s.cfg.MaxPerPage, config.PerPageCap)
	if req.PerPage < 0 || req.PerPage > limit {
		return p, &ValidationError{Field: "per_page", Reason: fmt.Sprintf("must be between 0 and %d", limit)}
	}
	p.Page, p.PageSize = req.Page, req.PerPage
	return p, nil
}

func pageInfo(page accurate.ListPage, req ListRequest) PageInfo {
	return PageInfo{
		TotalItems: page.TotalItems,
		TotalPage:  page.TotalPage,
		Page:       req.Page,
		PerPage:    req.PerPage,
		Paginated:  page.Shape == accurate.ShapePaginated,
	}
}
