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

// Package sync implements one-way directory reconciliation: given an
// authoritative source tree and a local destination tree, it computes and
// applies the minimal set of create/update/delete operations so the
// destination becomes an exact content match of the source.
package sync

import (
	"io/fs"
	"path/filepath"

	mapset "github.com/deckarep/golang-set/v2"
	"gitlab.com/tozd/go/errors"
)

// 🌲 TreeListing is the set of file paths under one root, relative to that
// root and normalized to forward slashes. Listings are built fresh for every
// sync invocation and never cached: the source tree may have just been
// extracted and the destination may have changed between runs.
type TreeListing = mapset.Set[string]

// 📂 ListTree walks root and returns every file in its subtree as a relative
// path. Hidden files are included; directory entries are not.
func ListTree(root string) (TreeListing, error) {
	listing := mapset.NewThreadUnsafeSet[string]()

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		listing.Add(filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("walking %s: %w", root, err)
	}

	return listing, nil
}
