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
	"context"
	"fmt"

	gogithub "github.com/google/go-github/v60/github"
)

// 🌿 ListBranches returns every branch name in repo, following pagination.
func (p *Provider) ListBranches(ctx context.Context, repo string) ([]string, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}

	var branches []string
	opts := &gogithub.BranchListOptions{
		ListOptions: gogithub.ListOptions{PerPage: 100},
	}
	for {
		page, resp, err := p.client.Repositories.ListBranches(ctx, owner, name, opts)
		if err != nil {
			return nil, classifyAPIError(err, fmt.Sprintf("listing branches of %s", repo))
		}
		for _, branch := range page {
			branches = append(branches, branch.GetName())
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return branches, nil
}

// 🔖 LatestCommit returns the SHA of the newest commit on branch.
func (p *Provider) LatestCommit(ctx context.Context, repo, branch string) (string, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return "", err
	}

	commit, _, err := p.client.Repositories.GetCommit(ctx, owner, name, branch, nil)
	if err != nil {
		return "", classifyAPIError(err, fmt.Sprintf("resolving commit of %s@%s", repo, branch))
	}

	return commit.GetSHA(), nil
}
