package fetch

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/bianoble/mcfetch/internal/httpclient"
	"github.com/bianoble/mcfetch/internal/integrity"
)

func sha1Hex(data []byte) string {
	h := sha1.Sum(data)
	return hex.EncodeToString(h[:])
}

// recordSleep returns a Sleep func that records delays without waiting.
func recordSleep(delays *[]time.Duration) func(context.Context, time.Duration) error {
	return func(ctx context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return ctx.Err()
	}
}

// listFiles returns every regular file under fs.
func listFiles(t *testing.T, fs billy.Filesystem) []string {
	t.Helper()
	var files []string
	err := util.Walk(fs, "/", func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			files = append(files, strings.TrimPrefix(p, "/"))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walking fs: %v", err)
	}
	return files
}

func newEngine(fs billy.Filesystem, delays *[]time.Duration) *Engine {
	return &Engine{FS: fs, Sleep: recordSleep(delays)}
}

func TestDownloadWithIntegrityRoundTrip(t *testing.T) {
	content := []byte("the client jar")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(content)
	}))
	defer srv.Close()

	fs := memfs.New()
	var delays []time.Duration
	e := newEngine(fs, &delays)

	check := integrity.SHA1Check(strings.ToUpper(sha1Hex(content)))
	task := Task{URL: srv.URL + "/client.jar", Destination: "versions/1.0/1.0.jar", Integrity: check}
	if err := e.Download(context.Background(), task); err != nil {
		t.Fatalf("Download: %v", err)
	}

	if err := integrity.Verify(fs, task.Destination, *task.Integrity); err != nil {
		t.Errorf("Verify after download: %v", err)
	}
	got, err := util.ReadFile(fs, task.Destination)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content = %q", got)
	}
	if files := listFiles(t, fs); len(files) != 1 {
		t.Errorf("expected only the destination, got %v", files)
	}
	if e.BytesWritten() != int64(len(content)) {
		t.Errorf("BytesWritten = %d", e.BytesWritten())
	}
	if len(delays) != 0 {
		t.Errorf("unexpected backoff: %v", delays)
	}
}

func TestDownloadRetriesThenSucceeds(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("finally"))
	}))
	defer srv.Close()

	fs := memfs.New()
	var delays []time.Duration
	e := newEngine(fs, &delays)

	task := Task{URL: srv.URL + "/lib.jar", Destination: "libraries/a/b/1/b-1.jar", RetryCount: 3}
	if err := e.Download(context.Background(), task); err != nil {
		t.Fatalf("Download: %v", err)
	}
	if requests.Load() != 3 {
		t.Errorf("requests = %d, want 3", requests.Load())
	}
	if len(delays) != 2 || delays[0] != time.Second || delays[1] != 2*time.Second {
		t.Errorf("delays = %v, want [1s 2s]", delays)
	}
	if files := listFiles(t, fs); len(files) != 1 || files[0] != "libraries/a/b/1/b-1.jar" {
		t.Errorf("files = %v", files)
	}
}

func TestDownloadPermanentStatusStopsImmediately(t *testing.T) {
	for _, code := range []int{http.StatusNotFound, http.StatusForbidden} {
		var requests atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests.Add(1)
			w.WriteHeader(code)
		}))

		fs := memfs.New()
		var delays []time.Duration
		e := newEngine(fs, &delays)

		err := e.Download(context.Background(), Task{URL: srv.URL + "/gone", Destination: "x/gone.jar", RetryCount: 3})
		srv.Close()

		if err == nil {
			t.Fatalf("%d: expected error", code)
		}
		if !errors.Is(err, ErrPermanent) {
			t.Errorf("%d: expected ErrPermanent, got %v", code, err)
		}
		if !httpclient.IsPermanent(err) {
			t.Errorf("%d: status sentinel lost: %v", code, err)
		}
		if requests.Load() != 1 {
			t.Errorf("%d: requests = %d, want 1", code, requests.Load())
		}
		if len(delays) != 0 {
			t.Errorf("%d: backoff happened: %v", code, delays)
		}
		if files := listFiles(t, fs); len(files) != 0 {
			t.Errorf("%d: leftover files %v", code, files)
		}
	}
}

func TestDownloadIntegrityMismatchExhaustsRetries(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Write([]byte("corrupted"))
	}))
	defer srv.Close()

	fs := memfs.New()
	var delays []time.Duration
	e := newEngine(fs, &delays)

	task := Task{
		URL:         srv.URL + "/obj",
		Destination: "assets/objects/ab/abc",
		Integrity:   integrity.SHA1Check("0000000000000000000000000000000000000000"),
		RetryCount:  2,
	}
	err := e.Download(context.Background(), task)
	if err == nil {
		t.Fatal("expected error")
	}

	var ex *ExhaustedError
	if !errors.As(err, &ex) {
		t.Fatalf("expected *ExhaustedError, got %T: %v", err, err)
	}
	if ex.Attempts != 3 || requests.Load() != 3 {
		t.Errorf("attempts = %d, requests = %d, want 3", ex.Attempts, requests.Load())
	}
	if !errors.Is(err, integrity.ErrMismatch) {
		t.Errorf("expected ErrMismatch in chain: %v", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, task.URL) || !strings.Contains(msg, "after 3 attempts") {
		t.Errorf("message lacks url or attempt count: %s", msg)
	}
	if !strings.Contains(msg, "integrity check failed for assets/objects/ab/abc") {
		t.Errorf("message should name the destination: %s", msg)
	}
	if files := listFiles(t, fs); len(files) != 0 {
		t.Errorf("leftover files %v", files)
	}
	if len(delays) != 2 {
		t.Errorf("delays = %v", delays)
	}
}

func TestDownloadIntegrityMismatchThenGood(t *testing.T) {
	good := []byte("good bytes")
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) == 1 {
			w.Write([]byte("bad bytes!"))
			return
		}
		w.Write(good)
	}))
	defer srv.Close()

	fs := memfs.New()
	var delays []time.Duration
	e := newEngine(fs, &delays)

	task := Task{URL: srv.URL, Destination: "f.bin", Integrity: integrity.SHA1Check(sha1Hex(good))}
	if err := e.Download(context.Background(), task); err != nil {
		t.Fatalf("Download: %v", err)
	}
	if requests.Load() != 2 {
		t.Errorf("requests = %d", requests.Load())
	}
}

func TestDownloadReplacesStaleFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("fresh"))
	}))
	defer srv.Close()

	fs := memfs.New()
	if err := util.WriteFile(fs, "versions/1.0/1.0.jar", []byte("stale and longer"), 0o644); err != nil {
		t.Fatal(err)
	}

	var delays []time.Duration
	if err := newEngine(fs, &delays).Download(context.Background(), Task{URL: srv.URL, Destination: "versions/1.0/1.0.jar"}); err != nil {
		t.Fatalf("Download: %v", err)
	}
	got, _ := util.ReadFile(fs, "versions/1.0/1.0.jar")
	if string(got) != "fresh" {
		t.Errorf("content = %q", got)
	}
}

func TestDownloadTimeoutPerAttempt(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	fs := memfs.New()
	var delays []time.Duration
	e := newEngine(fs, &delays)

	err := e.Download(context.Background(), Task{URL: srv.URL, Destination: "slow.bin", Timeout: 50 * time.Millisecond, RetryCount: 1})
	if err == nil {
		t.Fatal("expected timeout")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if len(delays) != 1 {
		t.Errorf("timeouts should be retried, delays = %v", delays)
	}
}

func TestDownloadCancelledDuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		FS: memfs.New(),
		Sleep: func(ctx context.Context, d time.Duration) error {
			cancel()
			return ctx.Err()
		},
	}

	err := e.Download(ctx, Task{URL: srv.URL, Destination: "x.bin"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestDownloadNoRetry(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	var delays []time.Duration
	e := newEngine(memfs.New(), &delays)
	err := e.Download(context.Background(), Task{URL: srv.URL, Destination: "x.bin", RetryCount: NoRetry})

	var ex *ExhaustedError
	if !errors.As(err, &ex) || ex.Attempts != 1 {
		t.Fatalf("expected one attempt, got %v", err)
	}
	if requests.Load() != 1 {
		t.Errorf("requests = %d", requests.Load())
	}
}

func TestDownloadRejectsEscapingDestination(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer srv.Close()

	var delays []time.Duration
	err := newEngine(memfs.New(), &delays).Download(context.Background(), Task{URL: srv.URL, Destination: "../../etc/passwd"})
	if err == nil {
		t.Fatal("expected error")
	}
	if requests.Load() != 0 {
		t.Error("request issued for rejected destination")
	}
}

func TestBackoff(t *testing.T) {
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second, 10 * time.Second, 10 * time.Second}
	for attempt, w := range want {
		if got := Backoff(attempt); got != w {
			t.Errorf("Backoff(%d) = %v, want %v", attempt, got, w)
		}
	}
	if Backoff(63) != 10*time.Second {
		t.Error("large attempts must stay capped")
	}
}

func TestEngineDefaults(t *testing.T) {
	e := &Engine{}
	if e.retries(Task{}) != DefaultRetryCount {
		t.Errorf("retries = %d", e.retries(Task{}))
	}
	if e.timeout(Task{}) != DefaultTimeout {
		t.Errorf("timeout = %v", e.timeout(Task{}))
	}
	e = &Engine{RetryCount: NoRetry, Timeout: time.Second}
	if e.retries(Task{}) != 0 || e.retries(Task{RetryCount: 5}) != 5 {
		t.Error("engine NoRetry or task override not honored")
	}
	if e.timeout(Task{}) != time.Second || e.timeout(Task{Timeout: time.Minute}) != time.Minute {
		t.Error("timeout precedence wrong")
	}
}
