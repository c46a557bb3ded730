package main

import (
	"context"
	"fmt"
	"os"

	"accurate-report/internal/accurate"
	"accurate-report/internal/adapters/cli"
	"accurate-report/internal/app"
	"accurate-report/internal/config"
	"accurate-report/internal/core"
	"accurate-report/internal/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Config{Level: cfg.LogLevel, JSON: cfg.LogJSON, Output: os.Stderr})
	ctx := logger.ContextWithLogger(context.Background(), log)

	client := accurate.NewClient(cfg.Accurate, nil)
	fetcher := accurate.NewDetailFetcher(client, cfg.Accurate, nil)

	env := cli.Env{
		Svc:      app.NewReportService(cfg, client, fetcher, nil),
		Resolver: core.NewTaxResolver(cfg.StatutoryRate),
		Token:    os.Getenv("ACCURATE_TOKEN"),
		In:       os.Stdin,
		Out:      os.Stdout,
	}
	if err := cli.Run(ctx, env, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
