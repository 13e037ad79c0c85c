package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

// Build-time variables set via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags.
var (
	configPath string
	noInherit  bool
	verbose    bool
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:   "mcfetch",
	Short: "Download Minecraft game files from official servers or mirrors",
	Long: `mcfetch resolves a game version from the version manifest and downloads
its client jar, libraries, native libraries, assets and logging configuration
into a game directory, verifying every file against its published SHA-1.

Downloads go through the official servers, a mirror, or whichever of the two
answers first.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(out, "mcfetch %s\n", version)
		fmt.Fprintf(out, "  commit:  %s\n", commit)
		fmt.Fprintf(out, "  built:   %s\n", date)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "mcfetch.yaml", "path to project config file")
	pf.BoolVar(&noInherit, "no-inherit", false, "ignore system and user config files")
	pf.BoolVar(&verbose, "verbose", false, "detailed output and debug logging")
	pf.BoolVar(&quiet, "quiet", false, "minimal output (errors only)")
	pf.String("provider", "", "download provider: auto, official, mirror (aliases mojang, bmclapi)")
	pf.String("mirror-root", "", "API root of the mirror provider")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: console, json")

	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command. Interrupts cancel in-flight downloads.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		errorf("%v", err)
		return err
	}
	return nil
}
