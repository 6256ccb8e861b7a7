package opts

import (
	"context"

	"github.com/walteh/syncrc/pkg/config"
	"github.com/walteh/syncrc/pkg/remote/github"
	"github.com/walteh/syncrc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	ConfigFile string
	Token      string
	Debug      bool

	Reporter *status.Reporter
}

// LoadConfig reads and validates the configured file.
func (o *RootOpts) LoadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx, o.ConfigFile)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// Provider builds the GitHub snapshot provider with the configured token.
func (o *RootOpts) Provider(ctx context.Context) *github.Provider {
	return github.New(ctx, o.Token, github.WithDownloadProgress(o.Reporter.Download))
}
