/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package review

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v84/github"
	"golang.org/x/oauth2"
)

// API submits reviews through the GitHub REST API.
type API struct {
	client *github.Client
	owner  string
	repo   string
}

// NewAPI returns a submitter for repository, given as "owner/name".
func NewAPI(client *github.Client, repository string) (*API, error) {
	owner, repo, ok := strings.Cut(repository, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return nil, fmt.Errorf("repository must be owner/name, got %q", repository)
	}
	return &API{client: client, owner: owner, repo: repo}, nil
}

// Submit implements Submitter.
func (a *API) Submit(ctx context.Context, pr string, v Verdict) error {
	n, err := strconv.Atoi(pr)
	if err != nil || n <= 0 {
		return fmt.Errorf("invalid pull request number %q", pr)
	}
	review, _, err := a.client.PullRequests.CreateReview(ctx, a.owner, a.repo, n, &github.PullRequestReviewRequest{
		Body:  github.Ptr(v.Body),
		Event: github.Ptr(string(v.Event)),
	})
	if err != nil {
		return fmt.Errorf("creating review on %s/%s#%d: %w", a.owner, a.repo, n, err)
	}
	clog.FromContext(ctx).With("pr", n).
		With("event", string(v.Event)).
		With("review_id", review.GetID()).
		Info("Submitted review")
	return nil
}

// TokenClient returns a GitHub client authenticated with a static token.
func TokenClient(ctx context.Context, token string) *github.Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return github.NewClient(oauth2.NewClient(ctx, ts))
}

// AppClient returns a GitHub client authenticated as an App installation.
func AppClient(appID, installationID int64, privateKeyPath string) (*github.Client, error) {
	tr, err := ghinstallation.NewKeyFromFile(http.DefaultTransport, appID, installationID, privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("loading GitHub App key: %w", err)
	}
	return github.NewClient(&http.Client{Transport: tr}), nil
}
