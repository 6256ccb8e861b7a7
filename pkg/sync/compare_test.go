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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755), "creating parent dirs")
	require.NoError(t, os.WriteFile(path, content, 0o644), "writing %s", name)
	return path
}

func TestFilesIdentical(t *testing.T) {
	tests := []struct {
		name string
		a    []byte
		b    []byte
		want bool
	}{
		{
			name: "byte_for_byte_equal",
			a:    []byte("line1\nline2\n"),
			b:    []byte("line1\nline2\n"),
			want: true,
		},
		{
			name: "crlf_vs_lf_text",
			a:    []byte("line1\r\nline2\r\n"),
			b:    []byte("line1\nline2\n"),
			want: true,
		},
		{
			name: "different_text",
			a:    []byte("line1\nline2\n"),
			b:    []byte("line1\nline3\n"),
			want: false,
		},
		{
			name: "binary_equal",
			a:    []byte{0x00, 0x01, 0x02},
			b:    []byte{0x00, 0x01, 0x02},
			want: true,
		},
		{
			name: "binary_crlf_vs_lf_not_normalized",
			a:    []byte("line1\r\nline2\r\n\x00"),
			b:    []byte("line1\nline2\n\x00"),
			want: false,
		},
		{
			name: "one_side_binary",
			a:    []byte("text\r\n\x00"),
			b:    []byte("text\n"),
			want: false,
		},
		{
			name: "empty_files",
			a:    []byte{},
			b:    []byte{},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			pathA := writeTestFile(t, dir, "a", tt.a)
			pathB := writeTestFile(t, dir, "b", tt.b)

			assert.Equal(t, tt.want, FilesIdentical(pathA, pathB), "identical(a,b)")
			assert.Equal(t, tt.want, FilesIdentical(pathB, pathA), "comparison should be symmetric")
		})
	}
}

func TestFilesIdentical_ReadFailureFailsClosed(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "a", []byte("content"))

	assert.False(t, FilesIdentical(path, filepath.Join(dir, "missing")), "missing file should not be identical")
	assert.False(t, FilesIdentical(filepath.Join(dir, "missing"), path), "missing file should not be identical")
}

func TestIsBinary(t *testing.T) {
	assert.False(t, isBinary([]byte("plain text")), "text should not classify as binary")
	assert.True(t, isBinary([]byte{'a', 0x00, 'b'}), "zero byte should classify as binary")

	// A zero byte past the first 8KB does not affect classification.
	data := make([]byte, binarySniffLen+1)
	for i := range data {
		data[i] = 'a'
	}
	data[binarySniffLen] = 0x00
	assert.False(t, isBinary(data), "zero byte past the sniff window should be ignored")
}
