// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package github implements remote.Provider against the GitHub API, using
// zipball snapshots of a branch as the transfer format.
package github

import (
	"context"
	"net/http"
	"strings"

	gogithub "github.com/google/go-github/v60/github"
	"github.com/walteh/syncrc/pkg/remote"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/oauth2"
)

// 🎯 Provider fetches branch snapshots from github.com.
type Provider struct {
	client   *gogithub.Client
	http     *http.Client
	progress remote.DownloadProgressFunc
}

// Option adjusts a Provider.
type Option func(*Provider)

// WithDownloadProgress reports zipball download progress to f.
func WithDownloadProgress(f remote.DownloadProgressFunc) Option {
	return func(p *Provider) {
		p.progress = f
	}
}

// WithClient overrides the underlying go-github client, used by tests to
// point the provider at a local server.
func WithClient(client *gogithub.Client) Option {
	return func(p *Provider) {
		p.client = client
	}
}

// 🏭 New creates a provider. The token is passed in explicitly rather than
// read from process-wide state so the provider is embeddable in a CLI and a
// long-lived service alike; it may be empty for public repositories.
func New(ctx context.Context, token string, opts ...Option) *Provider {
	httpClient := http.DefaultClient
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(ctx, ts)
	}

	p := &Provider{
		client: gogithub.NewClient(httpClient),
		http:   httpClient,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// splitRepo parses an "owner/name" repository reference.
func splitRepo(repo string) (owner, name string, err error) {
	parts := strings.Split(repo, "/")
	if len(parts) < 2 || parts[len(parts)-1] == "" || parts[len(parts)-2] == "" {
		return "", "", errors.Errorf("invalid repository format: %s", repo)
	}
	return parts[len(parts)-2], parts[len(parts)-1], nil
}

// classifyAPIError maps go-github errors onto the remote package sentinels
// so callers can branch on errors.Is without knowing about HTTP.
func classifyAPIError(err error, msg string) error {
	var respErr *gogithub.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		return classifyStatus(respErr.Response.StatusCode, err, msg)
	}

	var rateErr *gogithub.RateLimitError
	if errors.As(err, &rateErr) {
		return errors.Errorf("%s: %v: %w", msg, err, remote.ErrForbidden)
	}

	return errors.Errorf("%s: %v: %w", msg, err, remote.ErrNetwork)
}

func classifyStatus(status int, err error, msg string) error {
	switch status {
	case http.StatusUnauthorized:
		return errors.Errorf("%s: %w", msg, remote.ErrUnauthorized)
	case http.StatusForbidden:
		return errors.Errorf("%s: %w", msg, remote.ErrForbidden)
	case http.StatusNotFound:
		return errors.Errorf("%s: %w", msg, remote.ErrNotFound)
	default:
		if err != nil {
			return errors.Errorf("%s: unexpected status %d: %v", msg, status, err)
		}
		return errors.Errorf("%s: unexpected status %d", msg, status)
	}
}
