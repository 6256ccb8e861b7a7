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

package sync

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog"
	"github.com/walteh/syncrc/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

// ErrDestinationBusy means another sync invocation holds the destination.
var ErrDestinationBusy = errors.New("destination is locked by another sync")

// 🔧 Options configures one sync invocation.
type Options struct {
	// Ignore holds doublestar globs for paths excluded from the diff.
	Ignore []string
	// Progress, when set, receives per-operation progress callbacks.
	Progress ProgressFunc
}

// 🔄 SyncArchive fetches a snapshot of src from provider and makes dest an
// exact content match of it, creating dest if absent. The snapshot's
// temporary tree is released on every exit path. Fetch failures, including a
// requested sub-directory that does not exist, abort before any destination
// mutation; per-file failures during execution are aggregated into the
// returned Result instead.
func SyncArchive(ctx context.Context, provider remote.Provider, src remote.Source, dest string, opts Options) (Result, error) {
	logger := zerolog.Ctx(ctx)

	opts.Progress.emit(PhaseDiscovering, 0, 1, fmt.Sprintf("fetching %s", src))

	snapshot, err := provider.Fetch(ctx, src)
	if err != nil {
		return Result{}, errors.Errorf("fetching snapshot of %s: %w", src, err)
	}
	defer snapshot.Release()

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return Result{}, errors.Errorf("creating destination: %w", err)
	}

	unlock, err := lockDestination(dest)
	if err != nil {
		return Result{}, err
	}
	defer unlock()

	opts.Progress.emit(PhaseDiscovering, 0, 1, fmt.Sprintf("comparing %s against %s", src, dest))

	plan, err := BuildPlan(snapshot.Root, dest, PlanOptions{Ignore: opts.Ignore})
	if err != nil {
		return Result{}, errors.Errorf("planning changes: %w", err)
	}

	logger.Debug().
		Stringer("source", src).
		Str("dest", dest).
		Int("pending", plan.Total()).
		Int("identical", plan.Skipped).
		Msg("change plan ready")

	return Execute(ctx, plan, dest, opts.Progress), nil
}

// 🪞 Mirror makes destDir an exact content match of sourceDir, both ordinary
// local directories. An absent source is a benign steady state, reported as
// zero changes rather than an error.
func Mirror(ctx context.Context, sourceDir, destDir string, opts Options) (Result, error) {
	if info, err := os.Stat(sourceDir); err != nil || !info.IsDir() {
		opts.Progress.emit(PhaseDone, 1, 1, fmt.Sprintf("nothing to mirror, %s does not exist", sourceDir))
		return Result{}, nil
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return Result{}, errors.Errorf("creating destination: %w", err)
	}

	unlock, err := lockDestination(destDir)
	if err != nil {
		return Result{}, err
	}
	defer unlock()

	opts.Progress.emit(PhaseDiscovering, 0, 1, fmt.Sprintf("comparing %s against %s", sourceDir, destDir))

	plan, err := BuildPlan(sourceDir, destDir, PlanOptions{Ignore: opts.Ignore})
	if err != nil {
		return Result{}, errors.Errorf("planning changes: %w", err)
	}

	return Execute(ctx, plan, destDir, opts.Progress), nil
}

// 🔍 PendingChanges reports how many operations a sync of src into dest
// would perform, without mutating anything. A destination that does not
// exist yet counts every source file as pending.
func PendingChanges(ctx context.Context, provider remote.Provider, src remote.Source, dest string, opts Options) (int, error) {
	snapshot, err := provider.Fetch(ctx, src)
	if err != nil {
		return 0, errors.Errorf("fetching snapshot of %s: %w", src, err)
	}
	defer snapshot.Release()

	plan, err := BuildPlan(snapshot.Root, dest, PlanOptions{Ignore: opts.Ignore})
	if err != nil {
		return 0, errors.Errorf("planning changes: %w", err)
	}

	return plan.Total(), nil
}

// lockDestination takes an advisory lock scoped to dest so concurrent
// invocations against the same destination fail fast instead of racing on
// directory creation. The lock file lives under the OS temp dir, keyed by a
// hash of the absolute destination path, so it never shows up in the
// destination's own listing.
func lockDestination(dest string) (func(), error) {
	abs, err := filepath.Abs(dest)
	if err != nil {
		return nil, errors.Errorf("resolving destination: %w", err)
	}

	sum := sha256.Sum256([]byte(abs))
	path := filepath.Join(os.TempDir(), fmt.Sprintf("syncrc-%s.lock", hex.EncodeToString(sum[:8])))

	lock := flock.New(path)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, errors.Errorf("locking destination: %w", err)
	}
	if !locked {
		return nil, errors.Errorf("locking %s: %w", dest, ErrDestinationBusy)
	}

	return func() { _ = lock.Unlock() }, nil
}
