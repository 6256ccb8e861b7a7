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
	"bytes"
	"os"
)

// binarySniffLen bounds the zero-byte scan used to classify file content.
const binarySniffLen = 8192

// 🔍 FilesIdentical reports whether two files carry the same content under
// the sync policy: binary files must match byte for byte, text files are
// compared after normalizing CRLF line endings to LF. A remote text file
// authored on Windows therefore never causes update churn against a
// previously synced Unix copy, while two different binaries are never
// treated as the same. Any read failure counts as "not identical" so the
// caller overwrites rather than silently skips.
func FilesIdentical(pathA, pathB string) bool {
	dataA, err := os.ReadFile(pathA)
	if err != nil {
		return false
	}
	dataB, err := os.ReadFile(pathB)
	if err != nil {
		return false
	}

	if bytes.Equal(dataA, dataB) {
		return true
	}

	if isBinary(dataA) || isBinary(dataB) {
		return false
	}

	return bytes.Equal(normalizeNewlines(dataA), normalizeNewlines(dataB))
}

// isBinary applies the zero-byte heuristic over the first 8KB.
func isBinary(data []byte) bool {
	if len(data) > binarySniffLen {
		data = data[:binarySniffLen]
	}
	return bytes.IndexByte(data, 0) >= 0
}

func normalizeNewlines(data []byte) []byte {
	return bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
}
