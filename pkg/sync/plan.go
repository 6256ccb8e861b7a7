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
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	mapset "github.com/deckarep/golang-set/v2"
	"gitlab.com/tozd/go/errors"
)

// 🏷️ OpKind tags a planned change.
type OpKind int

const (
	OpCreate OpKind = iota
	OpUpdate
	OpDelete
)

// String returns a string representation of OpKind
func (k OpKind) String() string {
	switch k {
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// 📄 ChangeOp is one planned filesystem change. Create and Update carry both
// endpoints; Delete carries only the destination.
type ChangeOp struct {
	Kind   OpKind
	Path   string // root-relative, forward slashes
	Source string // absolute source path, empty for deletes
	Dest   string // absolute destination path
}

// 📋 Plan is an ordered batch of changes for one destination root. It is a
// transient value: built at the start of one sync invocation, discarded at
// its end.
type Plan struct {
	Ops     []ChangeOp
	Skipped int // source files already identical at the destination

	// SourceFiles is the listing the plan was computed from.
	SourceFiles TreeListing
}

// Total returns the number of pending operations, used as the progress
// denominator before execution starts.
func (p *Plan) Total() int {
	return len(p.Ops)
}

// 🔧 PlanOptions adjusts how the diff is computed.
type PlanOptions struct {
	// Ignore holds doublestar globs matched against relative paths. An
	// ignored path is excluded from both sides of the diff: never copied,
	// never deleted.
	Ignore []string
}

// 🧮 BuildPlan diffs destRoot against sourceRoot and returns the operations
// that make destRoot an exact content match of sourceRoot. Creates and
// updates come first in lexicographic path order, then deletes, also
// lexicographic, so plans are deterministic and reproducible. The two
// batches act on disjoint path sets. A destination that does not exist yet
// is treated as empty, so every source file becomes a create.
func BuildPlan(sourceRoot, destRoot string, opts PlanOptions) (*Plan, error) {
	sourceFiles, err := ListTree(sourceRoot)
	if err != nil {
		return nil, errors.Errorf("listing source tree: %w", err)
	}

	destFiles := mapset.NewThreadUnsafeSet[string]()
	if info, err := os.Stat(destRoot); err == nil && info.IsDir() {
		destFiles, err = ListTree(destRoot)
		if err != nil {
			return nil, errors.Errorf("listing destination tree: %w", err)
		}
	}

	plan := &Plan{SourceFiles: sourceFiles}

	for _, rel := range sortedPaths(sourceFiles) {
		if ignored(rel, opts.Ignore) {
			continue
		}

		src := filepath.Join(sourceRoot, filepath.FromSlash(rel))
		dst := filepath.Join(destRoot, filepath.FromSlash(rel))

		if info, err := os.Stat(dst); err == nil && info.Mode().IsRegular() {
			if FilesIdentical(src, dst) {
				plan.Skipped++
				continue
			}
			plan.Ops = append(plan.Ops, ChangeOp{Kind: OpUpdate, Path: rel, Source: src, Dest: dst})
			continue
		}

		// Missing, or present as something other than a regular file. Either
		// way this routes to create; if the filesystem refuses the copy, the
		// executor records a per-file error and moves on.
		plan.Ops = append(plan.Ops, ChangeOp{Kind: OpCreate, Path: rel, Source: src, Dest: dst})
	}

	for _, rel := range sortedPaths(destFiles.Difference(sourceFiles)) {
		if ignored(rel, opts.Ignore) {
			continue
		}
		plan.Ops = append(plan.Ops, ChangeOp{
			Kind: OpDelete,
			Path: rel,
			Dest: filepath.Join(destRoot, filepath.FromSlash(rel)),
		})
	}

	return plan, nil
}

// ignored checks rel against the configured glob patterns.
func ignored(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

func sortedPaths(listing TreeListing) []string {
	paths := listing.ToSlice()
	sort.Strings(paths)
	return paths
}
