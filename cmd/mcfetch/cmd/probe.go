package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bianoble/mcfetch/internal/httpclient"
	"github.com/bianoble/mcfetch/internal/provider"
	"github.com/bianoble/mcfetch/pkg/mcfetch"
)

var probeTimeout time.Duration

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Show which provider automatic selection would use",
	Long: `Probes the mirror and the official endpoints in order with a HEAD request for
the version manifest and prints the first one that answers, along with the
concurrency it recommends.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		logger, err := newLogger(s)
		if err != nil {
			return err
		}

		auto := provider.NewAuto(provider.Options{
			Client:       httpclient.New(httpclient.DefaultOptions()),
			Logger:       logger.Named("provider"),
			ProbeTimeout: probeTimeout,
			MirrorRoot:   s.MirrorRoot,
		})

		names := make([]string, 0, len(auto.Candidates()))
		for _, p := range auto.Candidates() {
			names = append(names, p.Name())
		}
		detail("candidates: %s", strings.Join(names, ", "))

		best := auto.Best(cmd.Context())
		fmt.Fprintf(out, "%s (concurrency %d)\n", best.Name(), best.ConcurrencyHint(cmd.Context()))
		return nil
	},
}

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List the provider names accepted by --provider",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range mcfetch.Providers() {
			fmt.Fprintln(out, name)
		}
	},
}

func init() {
	probeCmd.Flags().DurationVar(&probeTimeout, "probe-timeout", provider.DefaultProbeTimeout, "timeout of each probe request")
	rootCmd.AddCommand(probeCmd, providersCmd)
}
