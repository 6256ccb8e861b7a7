package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/syncrc/cmd/syncrc/opts"
	"github.com/walteh/syncrc/pkg/sync"
	"gitlab.com/tozd/go/errors"
)

// NewMirrorCmd creates a new mirror command
func NewMirrorCmd(ro *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mirror",
		Short: "Mirror configured local directories onto their destinations",
		Long: `Mirror runs the same diff pipeline as sync with a local directory as the
source: each destination becomes an exact content match of its source. A
source that does not exist is a no-op, not an error.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "mirror").Logger().WithContext(ctx)

			cfg, err := ro.LoadConfig(ctx)
			if err != nil {
				return err
			}
			if len(cfg.Mirrors) == 0 {
				return errors.Errorf("no mirrors configured")
			}

			var combined sync.Result
			for _, mirror := range cfg.Mirrors {
				result, err := sync.Mirror(ctx, mirror.Source, mirror.Destination, sync.Options{
					Ignore:   mirror.Ignore,
					Progress: ro.Reporter.Progress,
				})
				if err != nil {
					return errors.Errorf("mirroring %s: %w", mirror.Destination, err)
				}

				label := fmt.Sprintf("%s -> %s", mirror.Source, mirror.Destination)
				ro.Reporter.Summary(label, result)
				combined = combined.Merge(result)
			}

			if !combined.Clean() {
				return errors.Errorf("%d files could not be processed", combined.Errors)
			}
			return nil
		},
	}

	return cmd
}
