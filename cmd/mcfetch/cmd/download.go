package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bianoble/mcfetch/internal/config"
	"github.com/bianoble/mcfetch/pkg/mcfetch"
)

var downloadCmd = &cobra.Command{
	Use:   "download <version>",
	Short: "Download a game version into the game directory",
	Long: `Downloads the client jar, libraries, natives, assets and logging configuration
of a version. Files that are already present and match their published size
and SHA-1 are skipped, so an interrupted download can simply be run again.

Settings come from mcfetch.yaml, MCFETCH_* environment variables and flags,
in increasing order of precedence.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, c, err := setup(cmd)
		if err != nil {
			return err
		}

		opts := gameOptions(args[0], s)
		if !quiet {
			opts.OnProgress = newProgressPrinter(out).handle
		}

		start := time.Now()
		if err := c.DownloadGame(cmd.Context(), opts); err != nil {
			var agg *mcfetch.AggregateError
			if errors.As(err, &agg) {
				for _, f := range agg.Failures {
					detail("%s: %v", f.URL, f.Err)
				}
			}
			return err
		}

		info("Downloaded %s into %s in %s", args[0], s.Destination, time.Since(start).Round(time.Millisecond))
		return nil
	},
}

func gameOptions(id string, s config.Settings) mcfetch.GameOptions {
	return mcfetch.GameOptions{
		Version:          id,
		Destination:      s.Destination,
		IncludeAssets:    s.IncludeAssets,
		IncludeLibraries: s.IncludeLibraries,
		CheckIntegrity:   s.CheckIntegrity,
		Concurrency:      s.Concurrency,
	}
}

// addGameFlags registers the flags shared by download and check.
func addGameFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("dest", "", fmt.Sprintf("game directory (default %q)", config.DefaultDestination))
	f.Bool("no-assets", false, "skip the asset index and asset objects")
	f.Bool("no-libraries", false, "skip libraries and natives")
	f.Bool("no-verify", false, "do not compare SHA-1 digests")
}

func init() {
	addGameFlags(downloadCmd)
	f := downloadCmd.Flags()
	f.Int("concurrency", 0, "parallel downloads (default: provider recommendation)")
	f.Int("retries", 0, "retries per file after a failure, -1 to disable (default 3)")
	f.String("timeout", "", "timeout per download attempt, e.g. 45s (default 30s)")
	rootCmd.AddCommand(downloadCmd)
}
