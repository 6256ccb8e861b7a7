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

// Package remote defines how authoritative snapshots of a remote file tree
// are obtained. The sync engine consumes these interfaces; pkg/remote/github
// implements them against the GitHub API.
package remote

import "context"

// 🎯 Source identifies what to fetch: one branch of one repository,
// optionally narrowed to a sub-directory inside it.
type Source struct {
	Repo   string // "owner/name"
	Branch string
	SubDir string // optional, forward slashes
}

// String returns the "owner/name@branch/subdir" label used in logs and
// progress messages.
func (s Source) String() string {
	label := s.Repo + "@" + s.Branch
	if s.SubDir != "" {
		label += "/" + s.SubDir
	}
	return label
}

// 📦 Snapshot is an extracted remote tree on the local filesystem. The
// caller owns it and must call Release on every exit path, success or
// failure.
type Snapshot struct {
	// Root is the directory holding the snapshot content. It may be a
	// sub-directory of the temporary tree the snapshot owns.
	Root string

	cleanup func()
}

// NewSnapshot wraps an extracted content root. cleanup must remove the
// whole backing tree, not just root.
func NewSnapshot(root string, cleanup func()) *Snapshot {
	return &Snapshot{Root: root, cleanup: cleanup}
}

// Release removes the snapshot's backing files. Safe to call more than
// once.
func (s *Snapshot) Release() {
	if s.cleanup != nil {
		s.cleanup()
		s.cleanup = nil
	}
}

// 📣 DownloadProgressFunc is invoked as archive bytes arrive; done is true
// exactly once, after the last byte.
type DownloadProgressFunc func(bytesDownloaded int64, done bool)

// 🔌 Provider fetches authoritative snapshots of remote trees.
type Provider interface {
	// Fetch downloads and extracts a snapshot of src. Failures are
	// classified with the package error sentinels.
	Fetch(ctx context.Context, src Source) (*Snapshot, error)

	// ListBranches returns every branch name in repo, following pagination.
	ListBranches(ctx context.Context, repo string) ([]string, error)

	// LatestCommit returns the SHA of the newest commit on branch.
	LatestCommit(ctx context.Context, repo, branch string) (string, error)
}
