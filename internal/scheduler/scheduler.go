// Package scheduler runs download tasks with bounded concurrency.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/bianoble/mcfetch/internal/fetch"
)

// Downloader performs a single task. *fetch.Engine satisfies it.
type Downloader interface {
	Download(ctx context.Context, task fetch.Task) error
}

// ProgressFunc is called once per successful task. Calls are serialized
// and completed increases by one each time; failed tasks are not counted.
type ProgressFunc func(completed, total int)

// Failure is one task that did not download.
type Failure struct {
	URL string
	Err error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.URL, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// AggregateError lists every failed task of a run.
type AggregateError struct {
	Failures []Failure
}

func (e *AggregateError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "failed to download %d files:", len(e.Failures))
	for _, f := range e.Failures {
		b.WriteString("\n  ")
		b.WriteString(f.Error())
	}
	return b.String()
}

// Unwrap exposes the individual task errors to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f.Err
	}
	return errs
}

// Run downloads tasks with at most n in flight. Every task is attempted;
// a failure does not stop the others. Once ctx is cancelled no further
// tasks are started. Run returns nil when all tasks succeed, an
// *AggregateError when some failed, or the context error when the run
// was cut short without task failures.
func Run(ctx context.Context, tasks []fetch.Task, n int, d Downloader, onProgress ProgressFunc) error {
	total := len(tasks)
	if total == 0 {
		return nil
	}
	n = max(1, min(n, total))

	queue := make(chan fetch.Task, total)
	for _, t := range tasks {
		queue <- t
	}
	close(queue)

	var (
		mu        sync.Mutex
		completed int
		combined  error
	)
	finish := func(task fetch.Task, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			combined = multierr.Append(combined, Failure{URL: task.URL, Err: err})
			return
		}
		completed++
		if onProgress != nil {
			onProgress(completed, total)
		}
	}

	// Task failures are collected, not returned, so they never cancel
	// siblings. A worker only returns an error when ctx ends.
	var g errgroup.Group
	for range n {
		g.Go(func() error {
			for task := range queue {
				if err := ctx.Err(); err != nil {
					return err
				}
				finish(task, d.Download(ctx, task))
			}
			return nil
		})
	}
	stopped := g.Wait()

	if combined == nil {
		return stopped
	}
	agg := &AggregateError{}
	for _, err := range multierr.Errors(combined) {
		agg.Failures = append(agg.Failures, err.(Failure))
	}
	return agg
}
