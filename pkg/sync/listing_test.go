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
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTree(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "top.txt", []byte("x"))
	writeTestFile(t, dir, filepath.Join("nested", "deep", "file.bin"), []byte("y"))
	writeTestFile(t, dir, ".hidden", []byte("z"))

	listing, err := ListTree(dir)
	require.NoError(t, err, "listing should succeed")

	paths := listing.ToSlice()
	sort.Strings(paths)
	assert.Equal(t, []string{".hidden", "nested/deep/file.bin", "top.txt"}, paths,
		"paths should be relative with forward slashes, hidden files included, directories excluded")
}

func TestListTree_MissingRoot(t *testing.T) {
	_, err := ListTree(filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err, "listing a missing root should fail")
}

func TestListTree_EmptyRoot(t *testing.T) {
	listing, err := ListTree(t.TempDir())
	require.NoError(t, err, "listing an empty root should succeed")
	assert.Equal(t, 0, listing.Cardinality(), "empty root should produce an empty listing")
}
