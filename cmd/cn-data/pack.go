package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/subcommands"

	"cn-data/internal/saver"
	"cn-data/internal/slogx"
)

// packCmd rewrites a cleaned daily bar CSV into another saver format.
type packCmd struct {
	strict bool
}

func (*packCmd) Name() string { return "pack" }

func (*packCmd) Synopsis() string {
	return "re-encode a daily bar CSV as csv, json or parquet"
}

func (*packCmd) Usage() string {
	return `pack [-strict] <input.csv> <output[.csv|.json|.parquet]>:
  Load typed bar records from <input.csv> and write them in the format
  implied by the output extension. Without an extension the configured
  SAVE_FORMAT decides and its extension is appended. With -strict, a
  row failing bar validation aborts the run instead of passing through.
`
}

func (c *packCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.strict, "strict", false, "reject rows that fail bar validation")
}

func (c *packCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	in, out := f.Arg(0), f.Arg(1)

	a, err := InitializeApp()
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		return subcommands.ExitFailure
	}
	defer a.Runtime.Release()

	slog.SetDefault(slogx.NewDefault(a.Config.LogLevel))

	ps := a.Packets
	if ext := strings.TrimPrefix(filepath.Ext(out), "."); ext != "" {
		ps = saver.NewPacketSaver(ext)
		if ps == nil {
			slog.Error("unsupported output format", "ext", ext, "allowed", "csv, parquet, json")
			return subcommands.ExitUsageError
		}
	} else {
		out = out + "." + ps.Extension()
	}

	bars, err := saver.LoadCSV(in)
	if err != nil {
		slog.Error("failed to load bars", "file", in, "error", err)
		return subcommands.ExitFailure
	}
	if c.strict {
		for i := range bars {
			if err := bars[i].Validate(); err != nil {
				slog.Error("bar failed validation", "row", i+1, "symbol", bars[i].Symbol.String(), "error", err)
				return subcommands.ExitFailure
			}
		}
	}

	if err := ps.Save(bars, out); err != nil {
		slog.Error("failed to save bars", "file", out, "error", err)
		return subcommands.ExitFailure
	}
	slog.Info("packed", "bars", len(bars), "from", in, "to", out)
	return subcommands.ExitSuccess
}
