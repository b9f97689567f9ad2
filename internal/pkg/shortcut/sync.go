// SPDX-FileCopyrightText: Copyright (c) 2024, CIQ, Inc. All rights reserved
// SPDX-License-Identifier: Apache-2.0

package shortcut

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/hashicorp/go-multierror"
	"go.ciq.dev/shortcuts/internal/pkg/discovery"
	"go.ciq.dev/shortcuts/pkg/fabric"
	"golang.org/x/sync/errgroup"
)

type SyncOptions struct {
	// Recreate deletes an existing shortcut before creating it again.
	Recreate bool
	// DryRun prints the planned shortcuts without calling the API.
	DryRun bool
	// Jobs is the number of tables processed concurrently.
	Jobs int
	// Out receives one progress line per table.
	Out io.Writer
}

type SyncResult struct {
	Table    discovery.Table
	Shortcut fabric.Shortcut
	Result   *fabric.Result
	Err      error
}

func (r SyncResult) Status() string {
	switch {
	case r.Err != nil:
		return string(fabric.StatusError)
	case r.Result == nil:
		return "planned"
	}
	return string(r.Result.Status)
}

type SyncReport struct {
	Results []SyncResult
}

// Err returns the failures of the report, or nil when all tables got
// their shortcut.
func (r *SyncReport) Err() error {
	var errs error

	for _, result := range r.Results {
		if result.Err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", result.Table, result.Err))
		}
	}

	return errs
}

func (r *SyncReport) Failed() int {
	failed := 0
	for _, result := range r.Results {
		if result.Err != nil {
			failed++
		}
	}
	return failed
}

// Sync creates the planned shortcuts. A failing table doesn't stop the
// others, failures are reported through SyncReport.Err.
func (m *Manager) Sync(ctx context.Context, planned []discovery.Planned, opts SyncOptions) (*SyncReport, error) {
	jobs := opts.Jobs
	if jobs < 1 {
		jobs = 1
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	report := &SyncReport{
		Results: make([]SyncResult, len(planned)),
	}

	var outMutex sync.Mutex

	eg, errCtx := errgroup.WithContext(ctx)
	eg.SetLimit(jobs)

	for i, p := range planned {
		i, p := i, p

		eg.Go(func() error {
			result := m.syncOne(errCtx, p, opts)
			report.Results[i] = result

			outMutex.Lock()
			defer outMutex.Unlock()

			if opts.DryRun {
				fmt.Fprintf(out, "Planned shortcut %s%s for %s: %s\n", p.Shortcut.Path, p.Shortcut.Name, p.Table, p.Shortcut.Target.Location())
			} else {
				fmt.Fprintf(out, "Creating shortcut for %s: %s\n", p.Table, result.Status())
			}

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return report, err
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}

	m.logger.Info("shortcuts synchronized", "tables", len(planned), "failed", report.Failed())

	return report, nil
}

func (m *Manager) syncOne(ctx context.Context, p discovery.Planned, opts SyncOptions) SyncResult {
	result := SyncResult{
		Table:    p.Table,
		Shortcut: p.Shortcut,
	}

	if opts.DryRun {
		return result
	}

	if opts.Recreate {
		deleted, err := m.Delete(ctx, p.Shortcut.Path, p.Shortcut.Name)
		if err != nil {
			result.Result = deleted
			result.Err = err
			return result
		} else if !deleted.Success() && deleted.StatusCode != http.StatusNotFound {
			result.Result = deleted
			result.Err = fmt.Errorf("%w: %w", ErrShortcutFailed, &fabric.APIError{Result: deleted})
			return result
		}
	}

	created, err := m.Create(ctx, p.Shortcut)
	if err != nil {
		result.Err = err
		return result
	}

	result.Result = created
	if !created.Success() {
		result.Err = fmt.Errorf("%w: %w", ErrShortcutFailed, &fabric.APIError{Result: created})
	}

	return result
}
