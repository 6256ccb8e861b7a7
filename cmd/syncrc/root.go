package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/syncrc/cmd/syncrc/commands"
	"github.com/walteh/syncrc/cmd/syncrc/opts"
	"github.com/walteh/syncrc/pkg/status"
)

func newRootCmd() *cobra.Command {
	ro := &opts.RootOpts{
		Reporter: status.NewReporter(),
	}

	cmd := &cobra.Command{
		Use:           "syncrc",
		Short:         "One-way sync of a GitHub branch into local directories",
		Long:          "syncrc downloads a branch as a zipball snapshot, compares it against a local directory and applies the minimal set of create/update/delete operations so the local tree exactly matches the remote. The remote is always authoritative.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(ro.Debug)
		},
	}

	cmd.PersistentFlags().StringVarP(&ro.ConfigFile, "config", "c", ".syncrc.yaml", "config file path")
	cmd.PersistentFlags().StringVar(&ro.Token, "token", os.Getenv("GITHUB_TOKEN"), "GitHub token (defaults to GITHUB_TOKEN)")
	cmd.PersistentFlags().BoolVarP(&ro.Debug, "debug", "d", false, "enable debug logging")

	cmd.AddCommand(
		commands.NewSyncCmd(ro),
		commands.NewMirrorCmd(ro),
		commands.NewStatusCmd(ro),
		commands.NewBranchesCmd(ro),
	)

	return cmd
}

// setupLogging configures zerolog based on flags
func setupLogging(debug bool) {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log := zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
	})).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log
}
