package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"accurate-report/internal/app"
	"accurate-report/internal/core"

	"github.com/tidwall/gjson"
)

// Usage is printed for unknown or missing subcommands.
const Usage = `usage:
  app resolve                         < detail.json   resolve one detail document offline
  app list [category] [start end]                     list invoices with tax (dates YYYY-MM-DD)
  app tax <id>                                        resolve one invoice from Accurate
  app receipts [description]                          list sales receipts`

// Env carries what the subcommands need. Svc may be nil for offline commands.
type Env struct {
	Svc      app.ReportService
	Resolver *core.TaxResolver
	Token    string
	In       io.Reader
	Out      io.Writer
}

// Run executes a one-shot CLI command. args is os.Args[1:].
func Run(ctx context.Context, env Env, args []string) error {
	if len(args) == 0 {
		return errors.New(Usage)
	}

	switch args[0] {
	case "resolve", "r":
		return resolve(env)

	case "list", "ls":
		req, cat, err := listArgs(args[1:])
		if err != nil {
			return err
		}
		if err := online(env); err != nil {
			return err
		}
		var res *app.InvoiceListResult
		if cat == "" {
			res, err = env.Svc.ListSalesInvoices(ctx, env.Token, req)
		} else {
			res, err = env.Svc.ListSalesInvoicesByCategory(ctx, env.Token, req, cat)
		}
		if err != nil {
			return err
		}
		return encode(env.Out, res.Records)

	case "tax", "t":
		if len(args) < 2 {
			return errors.New("usage: app tax <id>")
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", args[1])
		}
		if err := online(env); err != nil {
			return err
		}
		res, err := env.Svc.GetInvoiceTax(ctx, env.Token, id)
		if err != nil {
			return err
		}
		return encode(env.Out, res.Tax)

	case "receipts", "rc":
		if err := online(env); err != nil {
			return err
		}
		req := app.ReceiptListRequest{}
		if len(args) > 1 {
			req.Description = args[1]
		}
		res, err := env.Svc.ListSalesReceipts(ctx, env.Token, req)
		if err != nil {
			return err
		}
		return encode(env.Out, res.Receipts)

	default:
		return fmt.Errorf("unknown command: %s\n%s", args[0], Usage)
	}
}

// resolve reads a detail document from In, either the full {"s","d"} envelope
// or the bare "d" object, and prints its resolution.
func resolve(env Env) error {
	raw, err := io.ReadAll(env.In)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	if !gjson.ValidBytes(raw) {
		return errors.New("stdin is not valid JSON")
	}
	doc := gjson.ParseBytes(raw)
	if d := doc.Get("d"); d.IsObject() {
		doc = d
	}
	return encode(env.Out, env.Resolver.Resolve(core.RecordFromResult(doc)))
}

func listArgs(args []string) (app.ListRequest, core.TaxCategory, error) {
	var (
		req app.ListRequest
		cat core.TaxCategory
	)
	if len(args) == 1 || len(args) == 3 {
		c, ok := core.ParseTaxCategory(args[0])
		if !ok {
			return req, "", fmt.Errorf("unknown category %q", args[0])
		}
		cat = c
		args = args[1:]
	}
	switch len(args) {
	case 0:
	case 2:
		req.StartDate, req.EndDate = args[0], args[1]
	default:
		return req, "", errors.New("usage: app list [category] [start end]")
	}
	return req, cat, nil
}

func online(env Env) error {
	if env.Svc == nil {
		return errors.New("service not configured")
	}
	if env.Token == "" {
		return errors.New("ACCURATE_TOKEN is not set")
	}
	return nil
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
