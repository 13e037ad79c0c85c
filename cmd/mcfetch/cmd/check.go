package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <version>",
	Short: "Compare an installed version against its descriptor",
	Long: `Resolves a version descriptor and compares every file it names with the game
directory, without downloading anything. Missing files and files whose size or
SHA-1 differs are listed. Exits with an error when anything needs downloading.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, c, err := setup(cmd)
		if err != nil {
			return err
		}

		result, err := c.Check(cmd.Context(), gameOptions(args[0], s))
		if err != nil {
			return err
		}

		if r := result.Record; r != nil {
			detail("installed from %s on %s", r.Provider, r.InstalledAt.Local().Format("2006-01-02 15:04"))
		}

		if result.Clean {
			info("%s is complete (%d files checked)", args[0], result.Checked)
			return nil
		}

		for _, m := range result.Missing {
			info("  missing   %s", m)
		}
		for _, d := range result.Drifted {
			info("  modified  %s", d.Path)
			detail("expected %s, found %s", d.Expected, d.Actual)
		}
		return fmt.Errorf("%s is incomplete: %d missing, %d modified; run 'mcfetch download %s'",
			args[0], len(result.Missing), len(result.Drifted), args[0])
	},
}

func init() {
	addGameFlags(checkCmd)
	rootCmd.AddCommand(checkCmd)
}
