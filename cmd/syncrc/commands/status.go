package commands

import (
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/syncrc/cmd/syncrc/opts"
	"github.com/walteh/syncrc/pkg/remote"
	"github.com/walteh/syncrc/pkg/sync"
	"gitlab.com/tozd/go/errors"
)

// NewStatusCmd creates a new status command
func NewStatusCmd(ro *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report how many changes a sync would apply, without applying them",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "status").Logger().WithContext(ctx)

			cfg, err := ro.LoadConfig(ctx)
			if err != nil {
				return err
			}

			provider := ro.Provider(ctx)

			for _, target := range cfg.Targets {
				src := remote.Source{Repo: cfg.Repo, Branch: target.Branch, SubDir: target.SubDir}

				sha, err := provider.LatestCommit(ctx, cfg.Repo, target.Branch)
				if err != nil {
					return errors.Errorf("resolving %s: %w", src, err)
				}

				pending, err := sync.PendingChanges(ctx, provider, src, target.LocalDir, sync.Options{
					Ignore: target.Ignore,
				})
				if err != nil {
					return errors.Errorf("checking %s: %w", src, err)
				}

				if pending == 0 {
					pterm.Success.Printfln("%s (%.7s): %s is up to date", src, sha, target.LocalDir)
				} else {
					pterm.Warning.Printfln("%s (%.7s): %d pending changes for %s", src, sha, pending, target.LocalDir)
				}
			}

			return nil
		},
	}

	return cmd
}
