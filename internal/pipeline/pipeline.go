// Package pipeline drives one bounded download: allocate the transfer
// buffer, acquire the HTTP runtime, fetch, and optionally persist the raw
// payload. Every failure is tagged with the stage that produced it so the
// command layer can map it to a stable exit code.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cn-data/internal/fetch"
	"cn-data/internal/saver"
)

// Stage names the pipeline step a failure belongs to.
type Stage uint8

const (
	StageAllocate Stage = iota + 1
	StageInit
	StageFetch
	StagePersist
)

func (s Stage) String() string {
	switch s {
	case StageAllocate:
		return "allocate"
	case StageInit:
		return "init"
	case StageFetch:
		return "fetch"
	case StagePersist:
		return "persist"
	}
	return fmt.Sprintf("stage(%d)", uint8(s))
}

// Exit codes form the command line contract; success is 0.
const (
	ExitOK      = 0
	ExitUsage   = 1
	ExitInit    = 2
	ExitFetch   = 3
	ExitPersist = 4
)

// Error tags a failure with its pipeline stage.
type Error struct {
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ExitCode maps a Run error to the process exit code. Buffer allocation
// failures share the usage code: both mean the invocation itself was
// unusable.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var perr *Error
	if !errors.As(err, &perr) {
		return ExitUsage
	}
	switch perr.Stage {
	case StageAllocate:
		return ExitUsage
	case StageInit:
		return ExitInit
	case StageFetch:
		return ExitFetch
	case StagePersist:
		return ExitPersist
	}
	return ExitUsage
}

// Pipeline binds the runtime, client and buffer sizing for repeated runs.
type Pipeline struct {
	rt       *fetch.Runtime
	client   *fetch.Client
	capacity int
	log      *slog.Logger
}

func New(rt *fetch.Runtime, client *fetch.Client, capacity int, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{rt: rt, client: client, capacity: capacity, log: log}
}

// Run downloads url into a fresh bounded buffer and, when dest is
// non-empty, persists the payload to dest byte for byte. An empty dest
// discards the payload after the transfer, which still exercises the full
// fetch path. It returns the number of payload bytes received.
//
// The buffer is allocated before the runtime is acquired: if allocation
// fails the runtime reference count is never touched, and the deferred
// release keeps teardown exact on every later failure path.
func (p *Pipeline) Run(ctx context.Context, url, dest string) (int, error) {
	buf, err := fetch.NewBuffer(p.capacity)
	if err != nil {
		return 0, &Error{Stage: StageAllocate, Err: err}
	}

	if err := p.rt.Retain(); err != nil {
		return 0, &Error{Stage: StageInit, Err: err}
	}
	defer p.rt.Release()

	n, err := p.client.Fetch(ctx, url, buf)
	if err != nil {
		return 0, &Error{Stage: StageFetch, Err: err}
	}
	p.log.Info("fetched", "url", url, "bytes", n)

	if dest == "" {
		return n, nil
	}

	if err := saver.SaveRaw(buf.Bytes(), dest); err != nil {
		return 0, &Error{Stage: StagePersist, Err: err}
	}
	p.log.Info("saved", "path", dest, "bytes", n)
	return n, nil
}
