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

// Package status renders user-facing sync progress on the console, separate
// from the structured debug logging carried in the context.
package status

import (
	"fmt"
	"strings"
	gosync "sync"

	"github.com/pterm/pterm"
	"github.com/walteh/syncrc/pkg/sync"
)

// 📢 Reporter prints per-file sync progress and run summaries. It is safe
// for concurrent use by several sync goroutines at once.
type Reporter struct {
	mu gosync.Mutex
}

// 🏭 NewReporter creates a console reporter.
func NewReporter() *Reporter {
	return &Reporter{}
}

// 📣 Progress implements sync.ProgressFunc. Per-operation messages start
// with the operation verb, which picks the printer.
func (r *Reporter) Progress(phase sync.Phase, current, total int, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch phase {
	case sync.PhaseDiscovering:
		pterm.Info.Println(msg)
	case sync.PhaseSyncing:
		printerFor(msg).Printfln("[%d/%d] %s", current, total, msg)
	case sync.PhaseDone:
		pterm.Success.Println(msg)
	}
}

// printerFor picks a printer by the leading verb of a progress message.
func printerFor(msg string) *pterm.PrefixPrinter {
	verb, _, _ := strings.Cut(msg, " ")
	switch verb {
	case "create":
		return pterm.Success.WithPrefix(pterm.Prefix{Text: "✨", Style: pterm.Success.Prefix.Style})
	case "update":
		return pterm.Info.WithPrefix(pterm.Prefix{Text: "🔄", Style: pterm.Info.Prefix.Style})
	case "delete":
		return pterm.Warning.WithPrefix(pterm.Prefix{Text: "🗑️", Style: pterm.Warning.Prefix.Style})
	case "error":
		return pterm.Error.WithPrefix(pterm.Prefix{Text: "❌", Style: pterm.Error.Prefix.Style})
	default:
		return &pterm.Debug
	}
}

// 📊 Summary prints the terminal counts for one run.
func (r *Reporter) Summary(label string, result sync.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pterm.Println(FormatSummary(label, result))
	for _, failure := range result.Failures {
		pterm.Error.Printfln("  %s: %v", failure.Path, failure.Err)
	}
}

// 📥 Download implements remote.DownloadProgressFunc, overwriting one line
// as bytes arrive.
func (r *Reporter) Download(bytesDownloaded int64, done bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if done {
		fmt.Printf("\rdownloaded %s      \n", FormatBytes(bytesDownloaded))
		return
	}
	fmt.Printf("\rdownloading %s ...", FormatBytes(bytesDownloaded))
}
