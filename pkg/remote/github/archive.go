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

package github

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/walteh/syncrc/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

const downloadChunkSize = 256 * 1024

// 📥 Fetch downloads src's branch as a zipball and extracts it into a
// temporary directory. The returned snapshot owns the whole temporary tree:
// Release removes it even when the content root is a sub-directory of it,
// as it is for GitHub's "repo-sha/" wrapper or a narrowed SubDir.
func (p *Provider) Fetch(ctx context.Context, src remote.Source) (*remote.Snapshot, error) {
	logger := zerolog.Ctx(ctx)

	data, err := p.downloadZipball(ctx, src)
	if err != nil {
		return nil, err
	}
	logger.Debug().
		Stringer("source", src).
		Str("size", humanize.IBytes(uint64(len(data)))).
		Msg("downloaded zipball")

	tmpDir, err := os.MkdirTemp("", "syncrc_")
	if err != nil {
		return nil, errors.Errorf("creating temp directory: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(tmpDir) }

	if err := extractZip(data, tmpDir); err != nil {
		cleanup()
		return nil, errors.Errorf("extracting zipball: %w", err)
	}

	root, err := contentRoot(tmpDir, src.SubDir)
	if err != nil {
		cleanup()
		return nil, err
	}

	return remote.NewSnapshot(root, cleanup), nil
}

// downloadZipball streams the branch archive down in chunks, reporting
// progress as bytes arrive. The URL is built off the API client's base so
// tests can point it at a local server.
func (p *Provider) downloadZipball(ctx context.Context, src remote.Source) ([]byte, error) {
	owner, name, err := splitRepo(src.Repo)
	if err != nil {
		return nil, err
	}

	url := p.client.BaseURL.JoinPath("repos", owner, name, "zipball", src.Branch)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url.String(), nil)
	if err != nil {
		return nil, errors.Errorf("building download request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, errors.Errorf("downloading zipball: %v: %w", err, remote.ErrNetwork)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode, nil, fmt.Sprintf("branch %q in repository %s", src.Branch, src.Repo))
	}

	var buf bytes.Buffer
	chunk := make([]byte, downloadChunkSize)
	var downloaded int64
	for {
		n, err := resp.Body.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
			downloaded += int64(n)
			if p.progress != nil {
				p.progress(downloaded, false)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Errorf("reading zipball: %v: %w", err, remote.ErrNetwork)
		}
	}
	if p.progress != nil {
		p.progress(downloaded, true)
	}

	return buf.Bytes(), nil
}

// extractZip unpacks the archive into dir, rejecting entries that would
// escape it.
func extractZip(data []byte, dir string) error {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return errors.Errorf("opening archive: %w", err)
	}

	for _, file := range reader.File {
		target, err := sanitizePath(dir, file.Name)
		if err != nil {
			return err
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return errors.Errorf("creating directory %s: %w", file.Name, err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return errors.Errorf("creating parent of %s: %w", file.Name, err)
		}
		if err := writeEntry(file, target); err != nil {
			return err
		}
	}

	return nil
}

func writeEntry(file *zip.File, target string) error {
	in, err := file.Open()
	if err != nil {
		return errors.Errorf("opening archive entry %s: %w", file.Name, err)
	}
	defer in.Close()

	out, err := os.Create(target)
	if err != nil {
		return errors.Errorf("creating %s: %w", target, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.Errorf("writing %s: %w", target, err)
	}

	return out.Close()
}

// sanitizePath joins an archive entry name onto dir, rejecting zip-slip
// escapes.
func sanitizePath(dir, name string) (string, error) {
	target := filepath.Join(dir, filepath.FromSlash(name))
	if target != dir && !strings.HasPrefix(target, dir+string(os.PathSeparator)) {
		return "", errors.Errorf("archive entry escapes extraction root: %s", name)
	}
	return target, nil
}

// contentRoot resolves the effective snapshot root. GitHub wraps zipball
// content in a single top-level "repo-sha/" directory, which is stripped; a
// requested sub-directory then narrows the root further, failing the whole
// fetch when it does not exist.
func contentRoot(tmpDir, subDir string) (string, error) {
	root := tmpDir

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		return "", errors.Errorf("reading extracted tree: %w", err)
	}
	if len(entries) == 1 && entries[0].IsDir() {
		root = filepath.Join(tmpDir, entries[0].Name())
	}

	if subDir != "" {
		sub := filepath.Join(root, filepath.FromSlash(subDir))
		if info, err := os.Stat(sub); err != nil || !info.IsDir() {
			return "", errors.Errorf("narrowing snapshot to %q: %w", subDir, remote.ErrSubdirNotFound)
		}
		root = sub
	}

	return root, nil
}
