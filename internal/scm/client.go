/*
Copyright 2026 MergeWarden Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package scm wraps the GitHub API surface the evaluator needs: pull
// request metadata, check runs, diffs, comments, labels, and merging.
package scm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v84/github"
)

// Client is a repository-scoped GitHub client.
type Client struct {
	gh    *github.Client
	owner string
	repo  string
}

// New creates a Client for the given "owner/name" repository.
func New(httpClient *http.Client, token, repository string) (*Client, error) {
	owner, name, ok := strings.Cut(repository, "/")
	if !ok || owner == "" || name == "" {
		return nil, fmt.Errorf("invalid repository %q, expected owner/name", repository)
	}

	return &Client{
		gh:    github.NewClient(httpClient).WithAuthToken(token),
		owner: owner,
		repo:  name,
	}, nil
}

// PullRequest fetches the pull request metadata.
func (c *Client) PullRequest(ctx context.Context, number int) (*github.PullRequest, error) {
	pr, _, err := c.gh.PullRequests.Get(ctx, c.owner, c.repo, number)
	if err != nil {
		return nil, fmt.Errorf("fetching pull request #%d: %w", number, err)
	}
	return pr, nil
}

// ChangedFiles returns up to limit changed file paths for the PR. A failed
// listing degrades to an empty result; the file list is advisory context,
// not a decision input that may abort the run.
func (c *Client) ChangedFiles(ctx context.Context, number, limit int) []string {
	files, _, err := c.gh.PullRequests.ListFiles(ctx, c.owner, c.repo, number, &github.ListOptions{PerPage: limit})
	if err != nil {
		clog.FromContext(ctx).With("error", err).Warn("Could not list changed files")
		return nil
	}

	paths := make([]string, 0, limit)
	for _, f := range files {
		if len(paths) == limit {
			break
		}
		paths = append(paths, f.GetFilename())
	}
	return paths
}

// Diff returns the unified diff for the PR.
func (c *Client) Diff(ctx context.Context, number int) (string, error) {
	diff, _, err := c.gh.PullRequests.GetRaw(ctx, c.owner, c.repo, number, github.RawOptions{Type: github.Diff})
	if err != nil {
		return "", fmt.Errorf("fetching diff for #%d: %w", number, err)
	}
	return diff, nil
}

// Comment posts an issue comment on the PR.
func (c *Client) Comment(ctx context.Context, number int, body string) error {
	_, _, err := c.gh.Issues.CreateComment(ctx, c.owner, c.repo, number, &github.IssueComment{
		Body: github.Ptr(body),
	})
	if err != nil {
		return fmt.Errorf("posting comment on #%d: %w", number, err)
	}
	return nil
}

// AddLabels attaches labels to the PR.
func (c *Client) AddLabels(ctx context.Context, number int, labels []string) error {
	_, _, err := c.gh.Issues.AddLabelsToIssue(ctx, c.owner, c.repo, number, labels)
	if err != nil {
		return fmt.Errorf("adding labels to #%d: %w", number, err)
	}
	return nil
}

// SquashMerge squash-merges the PR with the given commit title and message.
func (c *Client) SquashMerge(ctx context.Context, number int, commitTitle, commitMessage string) error {
	_, _, err := c.gh.PullRequests.Merge(ctx, c.owner, c.repo, number, commitMessage, &github.PullRequestOptions{
		CommitTitle: commitTitle,
		MergeMethod: "squash",
	})
	if err != nil {
		return fmt.Errorf("merging pull request #%d: %w", number, err)
	}
	return nil
}
