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

package status

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/walteh/syncrc/pkg/sync"
)

// 🎯 FormatSummary formats the counts of one sync run as a single line.
func FormatSummary(label string, result sync.Result) string {
	parts := []string{
		color.GreenString("%d created", result.Created),
		color.BlueString("%d updated", result.Updated),
		color.YellowString("%d deleted", result.Deleted),
		color.HiBlackString("%d skipped", result.Skipped),
	}
	if result.Errors > 0 {
		parts = append(parts, color.RedString("%d errors", result.Errors))
	}

	return fmt.Sprintf("%s: %s", label, strings.Join(parts, ", "))
}

// 📏 FormatBytes renders a byte count for humans.
func FormatBytes(n int64) string {
	return humanize.IBytes(uint64(n))
}
