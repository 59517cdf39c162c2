package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/subcommands"

	"cn-data/internal/fetch"
	"cn-data/internal/pipeline"
	"cn-data/internal/slogx"
)

// fetchCmd pulls one URL into a bounded buffer and optionally saves the bytes.
type fetchCmd struct{}

func (*fetchCmd) Name() string { return "fetch" }

func (*fetchCmd) Synopsis() string {
	return "fetch one URL into a fixed-capacity buffer, optionally save the raw bytes"
}

func (*fetchCmd) Usage() string {
	return `fetch <url> [output_file]:
  Fetch <url> into a fixed-capacity buffer. With [output_file] the raw
  bytes are written there unmodified; without it the payload is
  discarded after the byte count is reported.
`
}

func (*fetchCmd) SetFlags(*flag.FlagSet) {}

func (c *fetchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 1 || f.NArg() > 2 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitStatus(pipeline.ExitUsage)
	}

	a, err := InitializeApp()
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		if errors.Is(err, fetch.ErrRuntimeInit) {
			return subcommands.ExitStatus(pipeline.ExitInit)
		}
		return subcommands.ExitStatus(pipeline.ExitUsage)
	}
	defer a.Runtime.Release()

	slog.SetDefault(slogx.NewDefault(a.Config.LogLevel))

	p := pipeline.New(a.Runtime, a.Client, a.Config.BufferCapacity, slog.Default())
	_, err = p.Run(ctx, f.Arg(0), f.Arg(1))
	if err != nil {
		slog.Error("fetch pipeline failed", "error", err)
	}
	return subcommands.ExitStatus(pipeline.ExitCode(err))
}
