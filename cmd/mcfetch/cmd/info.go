package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <version>",
	Short: "Show what a game version consists of",
	Long: `Resolves a version descriptor and prints its type, release time, main class,
required Java version, client size, the number of libraries and natives that
apply to this platform, and its asset index.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, c, err := setup(cmd)
		if err != nil {
			return err
		}

		desc, err := c.VersionDetails(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		v := c.Summarize(desc)

		fmt.Fprintf(out, "%s (%s)\n", v.ID, v.Type)
		fmt.Fprintf(out, "  released:    %s\n", v.ReleaseTime.Format("2006-01-02 15:04"))
		if v.MainClass != "" {
			fmt.Fprintf(out, "  main class:  %s\n", v.MainClass)
		}
		if v.JavaMajor > 0 {
			fmt.Fprintf(out, "  java:        %d\n", v.JavaMajor)
		}
		fmt.Fprintf(out, "  client jar:  %s\n", humanSize(v.ClientSize))
		fmt.Fprintf(out, "  libraries:   %d (%d with natives)\n", v.Libraries, v.Natives)
		if v.AssetIndex != "" {
			fmt.Fprintf(out, "  assets:      %s, %s\n", v.AssetIndex, humanSize(v.AssetsSize))
		}
		if v.LogConfig {
			fmt.Fprintf(out, "  logging:     yes\n")
		}
		detail("provider: %s", c.Provider().Name())
		detail("destination: %s", s.Destination)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
