package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bianoble/mcfetch/internal/config"
	"github.com/bianoble/mcfetch/internal/logging"
	"github.com/bianoble/mcfetch/pkg/mcfetch"
)

// out receives regular command output. Tests point it at a buffer.
var out io.Writer = os.Stdout

// setup loads the settings for cmd and builds a logger and client from them.
func setup(cmd *cobra.Command) (config.Settings, *mcfetch.Client, error) {
	s, err := loadSettings(cmd)
	if err != nil {
		return s, nil, err
	}
	logger, err := newLogger(s)
	if err != nil {
		return s, nil, err
	}
	c, err := newClient(s, logger)
	if err != nil {
		return s, nil, err
	}
	return s, c, nil
}

// newLogger builds the diagnostic logger. Quiet mode only keeps errors.
func newLogger(s config.Settings) (*zap.Logger, error) {
	level := s.LogLevel
	if quiet {
		level = "error"
	}
	return logging.New(logging.Options{Level: level, Format: s.LogFormat})
}

func newClient(s config.Settings, logger *zap.Logger) (*mcfetch.Client, error) {
	return mcfetch.New(mcfetch.Options{
		Destination:  s.Destination,
		ProviderName: s.Provider,
		MirrorRoot:   s.MirrorRoot,
		Logger:       logger,
		Timeout:      s.Timeout,
		RetryCount:   s.RetryCount,
	})
}

// info prints a line unless quiet mode is active.
func info(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(out, format+"\n", args...)
	}
}

// detail prints a line only in verbose mode.
func detail(format string, args ...any) {
	if verbose {
		fmt.Fprintf(out, "  "+format+"\n", args...)
	}
}

// errorf prints an error message to stderr.
func errorf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}

func humanSize(bytes int64) string {
	if bytes == 0 {
		return "0 B"
	}
	units := []string{"B", "KB", "MB", "GB"}
	size := float64(bytes)
	i := 0
	for size >= 1024 && i < len(units)-1 {
		size /= 1024
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%d B", bytes)
	}
	return fmt.Sprintf("%.1f %s", size, units[i])
}

// progressPrinter renders progress events as lines. Within a stage it prints
// the first and last event and every tenth of the way in between.
type progressPrinter struct {
	w     io.Writer
	stage mcfetch.Stage
	last  int
	begun bool
}

func newProgressPrinter(w io.Writer) *progressPrinter {
	return &progressPrinter{w: w}
}

func (p *progressPrinter) handle(ev mcfetch.Progress) {
	if !p.begun || ev.Stage != p.stage {
		p.begun = true
		p.stage = ev.Stage
		p.last = -1
		fmt.Fprintf(p.w, "%s\n", ev.Label)
	}
	if ev.Total <= 0 {
		return
	}

	step := ev.Total / 10
	if step < 1 {
		step = 1
	}
	if ev.Completed != ev.Total && ev.Completed != 0 && ev.Completed-p.last < step {
		return
	}
	if ev.Completed == p.last {
		return
	}
	p.last = ev.Completed

	line := fmt.Sprintf("  [%s] %d/%d", ev.Stage, ev.Completed, ev.Total)
	if ev.Speed > 0 {
		line += fmt.Sprintf(" (%s/s)", humanSize(int64(ev.Speed)))
	}
	fmt.Fprintln(p.w, line)
}
