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

package remote

import "gitlab.com/tozd/go/errors"

// Classified fetch failures, matched with errors.Is. All of them abort a
// sync invocation before any destination mutation happens: no useful
// partial work is possible without a source tree.
var (
	// ErrUnauthorized: the token is invalid or expired (HTTP 401).
	ErrUnauthorized = errors.New("authentication failed: token invalid or expired")

	// ErrForbidden: the token lacks access to the repository (HTTP 403).
	ErrForbidden = errors.New("access forbidden")

	// ErrNotFound: the repository or branch does not exist (HTTP 404).
	ErrNotFound = errors.New("not found")

	// ErrNetwork: the request never produced an HTTP response.
	ErrNetwork = errors.New("network error")

	// ErrSubdirNotFound: the requested sub-directory is absent from the
	// fetched snapshot.
	ErrSubdirNotFound = errors.New("sub-directory does not exist in the remote snapshot")
)
