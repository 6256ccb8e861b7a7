package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/syncrc/cmd/syncrc/opts"
	"github.com/walteh/syncrc/pkg/remote"
	"github.com/walteh/syncrc/pkg/sync"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// NewSyncCmd creates a new sync command
func NewSyncCmd(ro *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync every configured target from its remote branch",
		Long: `Sync makes each configured local directory an exact content match of its
remote branch. It will:
1. Download the branch as a zipball snapshot
2. Compare the extracted tree against the local directory
3. Create, update and delete local files as needed
4. Remove directories left empty by deletes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "sync").Logger().WithContext(ctx)

			cfg, err := ro.LoadConfig(ctx)
			if err != nil {
				return err
			}
			if len(cfg.Targets) == 0 {
				return errors.Errorf("no targets configured")
			}

			provider := ro.Provider(ctx)

			// Targets sync concurrently; the destination lock catches
			// configs that point two targets at one directory.
			g, gctx := errgroup.WithContext(ctx)
			results := make([]sync.Result, len(cfg.Targets))
			for i, target := range cfg.Targets {
				i, target := i, target
				g.Go(func() error {
					src := remote.Source{Repo: cfg.Repo, Branch: target.Branch, SubDir: target.SubDir}
					result, err := sync.SyncArchive(gctx, provider, src, target.LocalDir, sync.Options{
						Ignore:   target.Ignore,
						Progress: ro.Reporter.Progress,
					})
					if err != nil {
						return errors.Errorf("syncing %s: %w", target.LocalDir, err)
					}
					results[i] = result
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			var combined sync.Result
			for i, target := range cfg.Targets {
				label := fmt.Sprintf("%s@%s -> %s", cfg.Repo, target.Branch, target.LocalDir)
				ro.Reporter.Summary(label, results[i])
				combined = combined.Merge(results[i])
			}

			if !combined.Clean() {
				return errors.Errorf("%d files could not be processed", combined.Errors)
			}
			return nil
		},
	}

	return cmd
}
