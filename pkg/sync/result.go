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

// 🚦 Phase identifies where a sync invocation is in its lifecycle.
type Phase string

const (
	PhaseDiscovering Phase = "discovering"
	PhaseSyncing     Phase = "syncing"
	PhaseDone        Phase = "done"
)

// 📣 ProgressFunc receives one call per completed operation plus boundary
// calls at the start and end of a run. current and total let the caller
// render an exact percentage; msg is a human-readable description of the
// action and path, starting with the operation verb.
type ProgressFunc func(phase Phase, current, total int, msg string)

// emit guards against a nil callback.
func (f ProgressFunc) emit(phase Phase, current, total int, msg string) {
	if f != nil {
		f(phase, current, total, msg)
	}
}

// ⛔ FileError attributes one recoverable failure to one path.
type FileError struct {
	Path string
	Err  error
}

// 📊 Result summarizes one sync invocation. It is purely an output value:
// nothing about it is persisted across runs.
type Result struct {
	Skipped  int
	Created  int
	Updated  int
	Deleted  int
	Errors   int
	Failures []FileError
}

// Clean reports whether every operation succeeded.
func (r Result) Clean() bool {
	return r.Errors == 0
}

// Changed reports whether the run mutated the destination at all.
func (r Result) Changed() bool {
	return r.Created+r.Updated+r.Deleted > 0
}

// Merge folds another result into this one, for summaries spanning several
// destinations.
func (r Result) Merge(other Result) Result {
	r.Skipped += other.Skipped
	r.Created += other.Created
	r.Updated += other.Updated
	r.Deleted += other.Deleted
	r.Errors += other.Errors
	r.Failures = append(r.Failures, other.Failures...)
	return r
}
