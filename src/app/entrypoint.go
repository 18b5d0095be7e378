// Package app wires this module's process entrypoints, grounded on the
// teacher's src/app/entrypoint.go Entrypoint interface and
// errgroup-based Run. The signal handling and errgroup shape are kept
// verbatim; the shutdown reporting is rewired from the teacher's bare
// fmt.Printf console lines onto this module's structured logging.Logger,
// since BenchEntrypoint reports its own lifecycle through that interface
// rather than stdout.
package app

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/Blackdeer1524/pagecache/src/logging"
)

// Entrypoint is a process lifecycle: Init prepares collaborators, Run
// blocks until the work is done or the context is cancelled, Close tears
// down whatever Init acquired.
type Entrypoint interface {
	io.Closer
	Init(ctx context.Context) error
	Run(ctx context.Context) error
}

// loggingEntrypoint is satisfied by an Entrypoint that can report its own
// shutdown through this module's Logger interface rather than stdout.
// BenchEntrypoint implements it; entrypoints that don't fall back to
// fmt.Printf, matching the teacher's original unconditional behavior.
type loggingEntrypoint interface {
	Entrypoint
	Logger() logging.Logger
}

// Run drives e to completion: Init, then Run under a context cancelled by
// SIGINT/SIGTERM, then Close on shutdown. A failure from either the
// workload or the shutdown path is reported and Run still returns nil,
// matching the teacher's "report and exit cleanly" shape for a CLI tool
// rather than propagating the error to a caller that has nothing further
// to do with it.
func Run(ctx context.Context, e Entrypoint) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := e.Init(ctx); err != nil {
		return fmt.Errorf("entrypoint init error: %w", err)
	}

	logger, hasLogger := e.(loggingEntrypoint)

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		// A workload that finishes on its own also starts shutdown.
		defer cancel()
		return e.Run(ctx)
	})

	eg.Go(func() error {
		<-ctx.Done()
		if hasLogger {
			logger.Logger().Infow("gracefully shutting down app")
		} else {
			fmt.Printf("gracefully shutting down app...\n")
		}

		return e.Close()
	})

	if err := eg.Wait(); err != nil {
		if hasLogger {
			logger.Logger().Errorw("app was shut down", "reason", err.Error())
		} else {
			fmt.Printf("app was shut down, reason: %s\n", err.Error())
		}
	}

	return nil
}
