package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

// cliOptions are the persistent flags. A flag only overrides the config file when it was set.
type cliOptions struct {
	cfgFile       string
	profile       string
	logLevel      string
	workers       int
	forceFallback bool
	report        bool
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	rootCmd := &cobra.Command{
		Use:           "oxy-caps",
		Short:         "Graphics device capability negotiation",
		Long:          `oxy-caps enumerates display adapters, devices and formats and resolves the best windowed and fullscreen configuration for them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.cfgFile, "config", "", "config file (default is oxy-caps.yaml in the user config dir or working dir)")
	flags.StringVar(&opts.profile, "profile", "", "simulated hardware: a preset name or a YAML profile path (default probes real hardware)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.IntVar(&opts.workers, "workers", 0, "number of adapters probed concurrently")
	flags.BoolVar(&opts.forceFallback, "force-fallback", false, "probe only the software fallback adapter")
	flags.BoolVar(&opts.report, "report", false, "log a profiler summary of stage timings and prune counts")

	rootCmd.AddCommand(newCatalogCmd(opts))
	rootCmd.AddCommand(newNegotiateCmd(opts))
	rootCmd.AddCommand(newPresetsCmd())
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "oxy-caps v%s\n", version)
		},
	})
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
