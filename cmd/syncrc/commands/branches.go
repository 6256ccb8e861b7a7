package commands

import (
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/syncrc/cmd/syncrc/opts"
	"gitlab.com/tozd/go/errors"
)

// NewBranchesCmd creates a new branches command
func NewBranchesCmd(ro *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "branches",
		Short: "List remote branches of the configured repository",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "branches").Logger().WithContext(ctx)

			cfg, err := ro.LoadConfig(ctx)
			if err != nil {
				return err
			}

			branches, err := ro.Provider(ctx).ListBranches(ctx, cfg.Repo)
			if err != nil {
				return errors.Errorf("listing branches of %s: %w", cfg.Repo, err)
			}

			for _, branch := range branches {
				pterm.Println(branch)
			}
			return nil
		},
	}

	return cmd
}
