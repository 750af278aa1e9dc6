package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/a-abella/docklog/internal/config"
	"github.com/a-abella/docklog/internal/stream"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	var (
		timestamps bool
		tail       int
		noFollow   bool
		noColor    bool
		configPath string
	)

	limits := config.DefaultLimits()

	rootCmd := &cobra.Command{
		Use:   "docklog CONTAINER [CONTAINER...]",
		Short: "Simultaneously stream the logs of up to eight Docker containers",
		Args:  containerArgs(limits.MaxContainers),
		RunE: func(cmd *cobra.Command, args []string) error {
			defaults, err := config.LoadDefaults(configPath)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("tail") {
				tail = defaults.Tail
			}
			if !timestamps {
				timestamps = defaults.Timestamps
			}
			if !noColor {
				noColor = defaults.NoColor
			}

			// Arguments are valid past this point; runtime failures should not
			// dump usage.
			cmd.SilenceUsage = true

			return stream.Run(args, stream.Options{
				Follow:     !noFollow,
				Timestamps: timestamps,
				Tail:       tail,
				NoColor:    noColor,
			})
		},
	}

	rootCmd.Version = fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.SilenceErrors = true

	rootCmd.Flags().BoolVarP(&timestamps, "timestamps", "t", false, "Prepend timestamps to log lines")
	rootCmd.Flags().IntVarP(&tail, "tail", "n", limits.DefaultTail, "Number of lines to show from end of the logs")
	rootCmd.Flags().BoolVar(&noFollow, "no-follow", false, "Print a snapshot instead of following; sorted chronologically with -t")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	rootCmd.Flags().StringVar(&configPath, "config", "", "Path to config file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error: "+err.Error())
		os.Exit(1)
	}
}

// containerArgs validates the positional container list before any connection
// is opened.
func containerArgs(max int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < 1 {
			return fmt.Errorf("requires at least one CONTAINER argument")
		}
		if len(args) > max {
			return fmt.Errorf("too many CONTAINER arguments: %d. Max %d", len(args), max)
		}
		return nil
	}
}
