/*
Copyright 2026 MergeWarden Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package evaluate assembles the immutable per-run evaluation context for
// a dependency-update pull request.
package evaluate

import (
	"context"
	"strings"

	"github.com/google/go-github/v84/github"

	"github.com/mergewarden/mergewarden/internal/deps"
	"github.com/mergewarden/mergewarden/internal/scm"
)

// maxChangedFiles caps the advisory changed-file listing.
const maxChangedFiles = 10

// Source is the subset of the SCM client used to assemble a Context.
type Source interface {
	CheckStatusForRef(ctx context.Context, sha string) scm.CheckAggregate
	ChangedFiles(ctx context.Context, number, limit int) []string
}

// Context carries everything the decision engine may consider about one
// pull request. It is built once per run and read-only afterward.
type Context struct {
	Number         int
	Title          string
	Body           string
	Labels         []string
	Author         string
	Draft          bool
	Mergeable      bool
	MergeableState string
	Checks         scm.CheckAggregate
	Update         deps.Classification
	Security       bool
	TargetBranch   string
	ChangedFiles   []string
}

// Gather builds the evaluation context from already-fetched PR metadata
// plus the check-run and changed-file queries.
func Gather(ctx context.Context, src Source, pr *github.PullRequest) Context {
	labels := make([]string, 0, len(pr.Labels))
	for _, label := range pr.Labels {
		labels = append(labels, label.GetName())
	}

	state := pr.GetMergeableState()
	if state == "" {
		state = "unknown"
	}

	return Context{
		Number:         pr.GetNumber(),
		Title:          pr.GetTitle(),
		Body:           pr.GetBody(),
		Labels:         labels,
		Author:         pr.GetUser().GetLogin(),
		Draft:          pr.GetDraft(),
		Mergeable:      pr.GetMergeable(),
		MergeableState: state,
		Checks:         src.CheckStatusForRef(ctx, pr.GetHead().GetSHA()),
		Update:         deps.Classify(pr.GetTitle(), pr.GetBody()),
		Security:       deps.IsSecurityUpdate(labels, pr.GetBody()),
		TargetBranch:   pr.GetBase().GetRef(),
		ChangedFiles:   src.ChangedFiles(ctx, pr.GetNumber(), maxChangedFiles),
	}
}

// Dependencies that warrant extra scrutiny even on small bumps:
// frameworks and core libraries whose updates ripple widely.
var criticalDependencies = []string{
	"next", "react", "vue", "angular", "svelte",
	"fastapi", "django", "flask", "express",
	"langchain", "openai", "anthropic",
	"numpy", "pandas", "tensorflow", "pytorch",
}

// CriticalDependency reports whether the update touches a watchlisted
// framework or core library.
func (c Context) CriticalDependency() bool {
	name := strings.ToLower(c.Update.Dependency)
	for _, critical := range criticalDependencies {
		if strings.Contains(name, critical) {
			return true
		}
	}
	return false
}
