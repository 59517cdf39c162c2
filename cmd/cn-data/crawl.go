package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/subcommands"

	"cn-data/internal/app"
	"cn-data/internal/slogx"
)

// crawlCmd runs the batch daily crawl across configured venues.
type crawlCmd struct {
	daemon bool
}

func (*crawlCmd) Name() string { return "crawl" }

func (*crawlCmd) Synopsis() string {
	return "crawl missing daily files for all configured venues"
}

func (*crawlCmd) Usage() string {
	return `crawl [-daemon]:
  Fill the gap between the recorded progress and yesterday for every
  configured venue. With -daemon, keep running and crawl again each day
  at CRAWL_RUN_HOUR:CRAWL_RUN_MINUTE UTC.
`
}

func (c *crawlCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.daemon, "daemon", false, "keep running and crawl again on the daily schedule")
}

func (c *crawlCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}

	a, err := InitializeApp()
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		return subcommands.ExitFailure
	}
	defer a.Runtime.Release()

	cfg := a.Config
	slog.SetDefault(slogx.NewDefault(cfg.LogLevel))

	if err := os.MkdirAll(cfg.SaveBaseDir(), 0755); err != nil {
		slog.Error("failed to create data dir", "error", err)
		return subcommands.ExitFailure
	}
	slog.Info("save dir", "dir", cfg.SaveBaseDir(), "format", cfg.SaveFormat)
	slog.Info("parallel mode", "workers", cfg.CrawlWorkers, "venues", len(cfg.Venues), "days", cfg.CrawlDays)

	app.RunFlow(cfg, a.Client, c.daemon)
	return subcommands.ExitSuccess
}
