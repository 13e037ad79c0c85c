// Package fetch downloads single files with timeout, retry with capped
// exponential backoff, and post-download integrity verification.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sync/atomic"
	"time"

	"github.com/go-git/go-billy/v5"
	"go.uber.org/zap"

	"github.com/bianoble/mcfetch/internal/httpclient"
	"github.com/bianoble/mcfetch/internal/integrity"
	"github.com/bianoble/mcfetch/internal/sandbox"
)

const (
	DefaultTimeout    = 30 * time.Second
	DefaultRetryCount = 3

	// NoRetry makes a task fail on its first error.
	NoRetry = -1

	baseBackoff = time.Second
	maxBackoff  = 10 * time.Second
)

// Task downloads one URL to one destination. Destination is relative to
// the engine's filesystem root.
type Task struct {
	URL         string
	Destination string
	Integrity   *integrity.Check
	Size        int64         // expected size, -1 when unknown
	Timeout     time.Duration // per attempt, zero means the engine default
	RetryCount  int           // zero means the engine default, NoRetry disables retries
}

// Engine performs downloads into FS. It is safe for concurrent use when FS
// is (osfs, or any filesystem wrapped by syncfs) and no two tasks share a
// destination.
type Engine struct {
	Client     httpclient.Doer
	FS         billy.Filesystem
	Logger     *zap.Logger
	Timeout    time.Duration // zero means DefaultTimeout
	RetryCount int           // zero means DefaultRetryCount, NoRetry disables retries

	// Sleep waits between attempts. Nil means a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error

	written atomic.Int64
}

// BytesWritten is the number of body bytes streamed to disk so far,
// including attempts that were later discarded.
func (e *Engine) BytesWritten() int64 {
	return e.written.Load()
}

// Backoff returns the wait before the retry following attempt (0-based):
// one second doubled per attempt, capped at ten seconds.
func Backoff(attempt int) time.Duration {
	if attempt >= 4 {
		return maxBackoff
	}
	return min(baseBackoff<<attempt, maxBackoff)
}

// Download fetches task.URL to task.Destination. The body is streamed into
// a temporary sibling file which is renamed into place only after the
// integrity check passes, so a failed download never leaves a file at the
// destination. 404 and 403 responses fail at once; every other failure is
// retried with backoff until the retry budget is spent.
func (e *Engine) Download(ctx context.Context, task Task) error {
	dest, err := sandbox.ValidatePath(task.Destination)
	if err != nil {
		return fmt.Errorf("downloading %s: %w", task.URL, err)
	}
	if err := sandbox.SafeMkdirAll(e.FS, dest); err != nil {
		return err
	}

	log := e.logger().With(zap.String("url", task.URL), zap.String("dest", dest))
	retries := e.retries(task)
	timeout := e.timeout(task)

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		log.Debug("download attempt", zap.Int("attempt", attempt+1))

		err := e.attempt(ctx, task, dest, timeout)
		if err == nil {
			return nil
		}
		lastErr = err

		if httpclient.IsPermanent(err) {
			return &PermanentError{URL: task.URL, Err: err}
		}
		if ctx.Err() != nil {
			return fmt.Errorf("downloading %s: %w", task.URL, ctx.Err())
		}

		if attempt < retries {
			delay := Backoff(attempt)
			log.Warn("download failed, retrying", zap.Int("attempt", attempt+1), zap.Duration("backoff", delay), zap.Error(err))
			if err := e.sleep(ctx, delay); err != nil {
				return fmt.Errorf("downloading %s: %w", task.URL, err)
			}
		}
	}

	return &ExhaustedError{URL: task.URL, Attempts: retries + 1, Last: lastErr}
}

func (e *Engine) attempt(ctx context.Context, task Task, dest string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := httpclient.Get(ctx, e.Client, task.URL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	tmp, err := e.FS.TempFile(path.Dir(dest), "."+path.Base(dest)+".part-")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", dest, err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = e.FS.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tmp, &countingReader{r: resp.Body, n: &e.written}); err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file for %s: %w", dest, err)
	}

	if task.Integrity != nil {
		if err := integrity.Verify(e.FS, tmpPath, *task.Integrity); err != nil {
			var me *integrity.MismatchError
			if errors.As(err, &me) {
				me.Path = dest
			}
			return err
		}
	}

	if err := e.FS.Rename(tmpPath, dest); err != nil {
		// Some filesystems refuse to rename over an existing file.
		if rmErr := sandbox.SafeRemove(e.FS, dest); rmErr != nil {
			return fmt.Errorf("renaming temp file to %s: %w", dest, err)
		}
		if err := e.FS.Rename(tmpPath, dest); err != nil {
			return fmt.Errorf("renaming temp file to %s: %w", dest, err)
		}
	}

	success = true
	return nil
}

func (e *Engine) retries(task Task) int {
	switch {
	case task.RetryCount == NoRetry:
		return 0
	case task.RetryCount > 0:
		return task.RetryCount
	case e.RetryCount == NoRetry:
		return 0
	case e.RetryCount > 0:
		return e.RetryCount
	default:
		return DefaultRetryCount
	}
}

func (e *Engine) timeout(task Task) time.Duration {
	switch {
	case task.Timeout > 0:
		return task.Timeout
	case e.Timeout > 0:
		return e.Timeout
	default:
		return DefaultTimeout
	}
}

func (e *Engine) sleep(ctx context.Context, d time.Duration) error {
	if e.Sleep != nil {
		return e.Sleep(ctx, d)
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (e *Engine) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

type countingReader struct {
	r io.Reader
	n *atomic.Int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n.Add(int64(n))
	return n, err
}
