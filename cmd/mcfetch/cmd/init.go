package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var initForce bool

// initTemplate is the default mcfetch.yaml scaffold. Every setting is shown
// with its default, commented out where the default is implied.
const initTemplate = `# mcfetch configuration
version: 1

# Where game files come from: auto, official (mojang) or mirror (bmclapi).
# auto probes the mirror first and falls back to the official servers.
provider: auto
# mirror_root: https://bmclapi2.bangbang93.com

# Game directory. Relative paths are resolved from the working directory.
destination: .minecraft

# Parallel downloads; 0 uses the provider's recommendation.
# concurrency: 0

# Retries per file after a failure (-1 disables) and the timeout of one attempt.
# retry_count: 3
# timeout: 30s

# check_integrity: true
# include_assets: true
# include_libraries: true

log:
  level: info      # debug, info, warn, error
  format: console  # console, json
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter mcfetch.yaml configuration",
	Long: `Creates an mcfetch.yaml file at the --config path with every setting and its
default documented.

Use --force to overwrite an existing configuration file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		outPath := configPath
		if !filepath.IsAbs(outPath) {
			abs, err := filepath.Abs(outPath)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			outPath = abs
		}

		if !initForce {
			if _, err := os.Stat(outPath); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", outPath)
			}
		}

		if err := os.WriteFile(outPath, []byte(initTemplate), 0644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		info("Created %s", outPath)
		info("")
		info("Next steps:")
		info("  1. Pick a provider and game directory")
		info("  2. Run 'mcfetch latest' to find the newest release")
		info("  3. Run 'mcfetch download <version>' to fetch it")
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing config file")
	rootCmd.AddCommand(initCmd)
}
