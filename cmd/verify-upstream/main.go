package main

import (
	"context"
	"os"
	"time"

	"accurate-report/internal/accurate"
	"accurate-report/internal/config"
	"accurate-report/internal/core"
	"accurate-report/internal/logger"
)

// verify-upstream checks that the configured Accurate host, session id and
// ACCURATE_TOKEN work end to end: one list call, then one detail call.
func main() {
	cfg := config.Load()
	log := logger.New(logger.Config{Level: cfg.LogLevel, JSON: cfg.LogJSON})

	if err := cfg.Accurate.Validate(); err != nil {
		log.Fatal("[CONFIG]", "err", err)
	}
	token := os.Getenv("ACCURATE_TOKEN")
	if token == "" {
		log.Fatal("[CONFIG] ACCURATE_TOKEN is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	ctx = logger.ContextWithLogger(ctx, log)

	client := accurate.NewClient(cfg.Accurate, nil)
	page, err := client.ListInvoices(ctx, token, accurate.ListParams{Sort: "transDate|desc", PageSize: 1})
	if err != nil {
		log.Fatal("[LIST] failed", "err", err)
	}
	log.Info("[LIST] success", "shape", page.Shape.String(), "total_items", page.TotalItems)

	if len(page.Items) == 0 {
		log.Info("[DONE] no invoices to inspect")
		return
	}
	id := core.ToInt(page.Items[0].Get("id"))

	fetcher := accurate.NewDetailFetcher(client, cfg.Accurate, nil)
	detail, err := fetcher.Fetch(ctx, token, id)
	if err != nil {
		log.Fatal("[DETAIL] failed", "id", id, "err", err)
	}
	res := core.NewTaxResolver(cfg.StatutoryRate).Resolve(detail)
	log.Info("[DETAIL] success", "id", id, "category", res.Category, "label", res.Label,
		"taxable_base", res.TaxableBase.String(), "tax_amount", res.TaxAmount.String())
	log.Info("[DONE] upstream verified")
}
