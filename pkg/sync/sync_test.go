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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/syncrc/pkg/remote"
)

func TestMirror_Convergence(t *testing.T) {
	ctx := context.Background()
	source := t.TempDir()
	dest := t.TempDir()
	writeTestFile(t, source, "a.txt", []byte("x"))
	writeTestFile(t, source, filepath.Join("b", "c.txt"), []byte("y"))
	writeTestFile(t, dest, filepath.Join("b", "c.txt"), []byte("y"))
	writeTestFile(t, dest, "d.txt", []byte("z"))

	result, err := Mirror(ctx, source, dest, Options{})
	require.NoError(t, err, "mirror should succeed")

	assert.Equal(t, 1, result.Created, "a.txt created")
	assert.Equal(t, 1, result.Deleted, "d.txt deleted")
	assert.Equal(t, 1, result.Skipped, "b/c.txt skipped")
	assert.True(t, result.Clean(), "no errors expected")

	sourceListing, err := ListTree(source)
	require.NoError(t, err, "listing source")
	destListing, err := ListTree(dest)
	require.NoError(t, err, "listing destination")
	assert.True(t, sourceListing.Equal(destListing), "destination listing should equal source listing")

	destListing.Each(func(rel string) bool {
		assert.True(t, FilesIdentical(
			filepath.Join(source, filepath.FromSlash(rel)),
			filepath.Join(dest, filepath.FromSlash(rel)),
		), "%s should be identical after the mirror", rel)
		return false
	})
}

func TestMirror_Idempotence(t *testing.T) {
	ctx := context.Background()
	source := t.TempDir()
	dest := t.TempDir()
	writeTestFile(t, source, "a.txt", []byte("x"))
	writeTestFile(t, source, filepath.Join("b", "c.txt"), []byte("y"))

	first, err := Mirror(ctx, source, dest, Options{})
	require.NoError(t, err, "first mirror should succeed")
	assert.True(t, first.Changed(), "first run should mutate the destination")

	second, err := Mirror(ctx, source, dest, Options{})
	require.NoError(t, err, "second mirror should succeed")
	assert.False(t, second.Changed(), "second run against an unchanged source should be a no-op")
	assert.Equal(t, 2, second.Skipped, "every source file should be skipped on the second run")
}

func TestMirror_NoOpLeavesDestinationUntouched(t *testing.T) {
	ctx := context.Background()
	source := t.TempDir()
	dest := t.TempDir()
	writeTestFile(t, source, "a.txt", []byte("x"))
	writeTestFile(t, dest, "a.txt", []byte("x"))

	// Empty directories are not part of the diff, so a run that changes
	// nothing must not prune them either.
	workspace := filepath.Join(dest, "workspace")
	require.NoError(t, os.MkdirAll(workspace, 0o755), "creating empty destination directory")

	var calls []progressCall
	result, err := Mirror(ctx, source, dest, Options{Progress: recordProgress(&calls)})
	require.NoError(t, err, "mirror should succeed")

	assert.False(t, result.Changed(), "identical trees should plan nothing")
	assert.Equal(t, 1, result.Skipped, "a.txt should be skipped")
	assert.DirExists(t, workspace, "a no-op run must not mutate the destination")

	require.NotEmpty(t, calls, "the done boundary should still be reported")
	last := calls[len(calls)-1]
	assert.Equal(t, PhaseDone, last.phase, "the final call should carry the done phase")
	assert.Equal(t, "already up to date", last.msg, "a no-op run reports the steady state")
}

func TestMirror_AbsentSourceIsBenign(t *testing.T) {
	ctx := context.Background()
	dest := t.TempDir()
	writeTestFile(t, dest, "existing.txt", []byte("keep"))

	var calls []progressCall
	result, err := Mirror(ctx, filepath.Join(t.TempDir(), "missing"), dest, Options{
		Progress: recordProgress(&calls),
	})
	require.NoError(t, err, "an absent source is a steady state, not a failure")

	assert.Equal(t, Result{}, result, "nothing to mirror should report zero changes")
	assert.FileExists(t, filepath.Join(dest, "existing.txt"), "the destination must not be touched")
	require.Len(t, calls, 1, "a single done boundary call is expected")
	assert.Equal(t, PhaseDone, calls[0].phase, "the boundary call should carry the done phase")
}

func TestLockDestination(t *testing.T) {
	dest := t.TempDir()

	unlock, err := lockDestination(dest)
	require.NoError(t, err, "first lock should succeed")

	_, err = lockDestination(dest)
	require.Error(t, err, "second lock on the same destination should fail")
	assert.ErrorIs(t, err, ErrDestinationBusy, "the busy sentinel should be classifiable")

	unlock()

	unlock2, err := lockDestination(dest)
	require.NoError(t, err, "lock should be reacquirable after release")
	unlock2()
}

// fakeProvider serves a pre-built directory as a snapshot.
type fakeProvider struct {
	root     string
	released bool
	err      error
}

func (f *fakeProvider) Fetch(ctx context.Context, src remote.Source) (*remote.Snapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return remote.NewSnapshot(f.root, func() { f.released = true }), nil
}

func (f *fakeProvider) ListBranches(ctx context.Context, repo string) ([]string, error) {
	return []string{"main"}, nil
}

func (f *fakeProvider) LatestCommit(ctx context.Context, repo, branch string) (string, error) {
	return "deadbeef", nil
}

func TestSyncArchive(t *testing.T) {
	ctx := context.Background()
	snapshotDir := t.TempDir()
	writeTestFile(t, snapshotDir, "a.txt", []byte("x"))
	provider := &fakeProvider{root: snapshotDir}

	dest := filepath.Join(t.TempDir(), "created-on-demand")
	result, err := SyncArchive(ctx, provider, remote.Source{Repo: "o/r", Branch: "main"}, dest, Options{})
	require.NoError(t, err, "sync should succeed")

	assert.Equal(t, 1, result.Created, "the snapshot file should be created")
	assert.FileExists(t, filepath.Join(dest, "a.txt"), "destination should be created if absent")
	assert.True(t, provider.released, "the snapshot must be released on success")
}

func TestSyncArchive_FetchFailureAbortsBeforeMutation(t *testing.T) {
	ctx := context.Background()
	provider := &fakeProvider{err: remote.ErrSubdirNotFound}

	dest := filepath.Join(t.TempDir(), "untouched")
	_, err := SyncArchive(ctx, provider, remote.Source{Repo: "o/r", Branch: "main", SubDir: "nope"}, dest, Options{})
	require.Error(t, err, "fetch failures are fatal")
	assert.ErrorIs(t, err, remote.ErrSubdirNotFound, "the classified cause should survive wrapping")
	assert.NoDirExists(t, dest, "no destination mutation may happen before a source tree exists")
}

func TestPendingChanges(t *testing.T) {
	ctx := context.Background()
	snapshotDir := t.TempDir()
	writeTestFile(t, snapshotDir, "a.txt", []byte("x"))
	writeTestFile(t, snapshotDir, "b.txt", []byte("y"))
	provider := &fakeProvider{root: snapshotDir}

	dest := t.TempDir()
	writeTestFile(t, dest, "a.txt", []byte("x"))

	pending, err := PendingChanges(ctx, provider, remote.Source{Repo: "o/r", Branch: "main"}, dest, Options{})
	require.NoError(t, err, "pending check should succeed")
	assert.Equal(t, 1, pending, "only b.txt is missing")
	assert.True(t, provider.released, "the snapshot must be released after the dry run")

	_, err = os.Stat(filepath.Join(dest, "b.txt"))
	assert.True(t, os.IsNotExist(err), "a dry run must not create anything")
}
