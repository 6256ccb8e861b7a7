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
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🏃 Execute applies plan to the filesystem and returns the per-run counts.
// A failing operation is recorded against its path and skipped over, never
// fatal: one locked file must not block synchronization of the rest of the
// tree. Cancelling ctx stops the run between operations and returns the
// partial result; operations already applied are not rolled back, since
// re-running the same plan converges to the same end state.
func Execute(ctx context.Context, plan *Plan, destRoot string, report ProgressFunc) Result {
	logger := zerolog.Ctx(ctx)
	result := Result{Skipped: plan.Skipped}
	total := plan.Total()

	// An empty plan means the destination already matches the source. Return
	// before the prune so a no-op run leaves the destination untouched,
	// empty directories included.
	if total == 0 {
		report.emit(PhaseDone, 0, 0, "already up to date")
		return result
	}

	for i, op := range plan.Ops {
		if ctx.Err() != nil {
			logger.Warn().Int("remaining", total-i).Msg("sync cancelled, returning partial result")
			return result
		}

		var err error
		switch op.Kind {
		case OpDelete:
			err = os.Remove(op.Dest)
		default:
			err = copyFile(op.Source, op.Dest)
		}

		if err != nil {
			result.Errors++
			result.Failures = append(result.Failures, FileError{Path: op.Path, Err: err})
			logger.Error().Err(err).Str("path", op.Path).Stringer("op", op.Kind).Msg("operation failed")
			report.emit(PhaseSyncing, i+1, total, fmt.Sprintf("error %s: %v", op.Path, err))
			continue
		}

		switch op.Kind {
		case OpCreate:
			result.Created++
		case OpUpdate:
			result.Updated++
		case OpDelete:
			result.Deleted++
		}
		report.emit(PhaseSyncing, i+1, total, fmt.Sprintf("%s %s", op.Kind, op.Path))
	}

	removeEmptyDirs(destRoot)

	report.emit(PhaseDone, total, total, "sync complete")
	return result
}

// copyFile copies source bytes onto dest, overwriting anything there,
// creating the parent directory chain as needed. The modification time is
// carried over best-effort.
func copyFile(source, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}

	in, err := os.Open(source)
	if err != nil {
		return errors.Errorf("opening source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return errors.Errorf("opening destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.Errorf("copying content: %w", err)
	}
	if err := out.Close(); err != nil {
		return errors.Errorf("closing destination: %w", err)
	}

	if info, err := os.Stat(source); err == nil {
		_ = os.Chtimes(dest, info.ModTime(), info.ModTime())
	}

	return nil
}

// removeEmptyDirs prunes directories left empty after deletes, bottom-up,
// keeping root itself. Removal failures are ignored: losing the race to a
// concurrent writer is tolerated, not retried.
func removeEmptyDirs(root string) {
	var dirs []string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() && path != root {
			dirs = append(dirs, path)
		}
		return nil
	})

	// Deepest paths first, so a chain of empty ancestors collapses in one
	// pass.
	sort.Sort(sort.Reverse(sort.StringSlice(dirs)))

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			continue
		}
		_ = os.Remove(dir)
	}
}
