package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bianoble/mcfetch/pkg/mcfetch"
)

var versionsType string

var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "List the versions in the version manifest",
	Long: `Fetches the version manifest through the configured provider and lists every
version, newest first. Use --type to show only releases, snapshots, old_beta or
old_alpha versions.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, c, err := setup(cmd)
		if err != nil {
			return err
		}

		list, err := c.ListVersions(cmd.Context())
		if err != nil {
			return err
		}

		shown := 0
		for _, v := range list {
			if versionsType != "" && string(v.Type) != versionsType {
				continue
			}
			fmt.Fprintf(out, "%-24s %-10s %s\n", v.ID, v.Type, v.ReleaseTime.Format("2006-01-02"))
			shown++
		}
		detail("%d of %d versions", shown, len(list))
		return nil
	},
}

var latestCmd = &cobra.Command{
	Use:       "latest [release|snapshot]",
	Short:     "Print the newest release or snapshot id",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{string(mcfetch.Release), string(mcfetch.Snapshot)},
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := mcfetch.Release
		if len(args) == 1 {
			kind = mcfetch.VersionType(args[0])
		}

		_, c, err := setup(cmd)
		if err != nil {
			return err
		}
		id, err := c.LatestVersion(cmd.Context(), kind)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, id)
		return nil
	},
}

func init() {
	versionsCmd.Flags().StringVar(&versionsType, "type", "", "only list versions of this type")
	rootCmd.AddCommand(versionsCmd, latestCmd)
}
