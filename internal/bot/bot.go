/*
Copyright 2026 MergeWarden Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package bot orchestrates one evaluation run: gather context, drive the
// reasoning loop, and dispatch the resulting verdict.
package bot

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v84/github"

	"github.com/mergewarden/mergewarden/internal/action"
	"github.com/mergewarden/mergewarden/internal/agent"
	"github.com/mergewarden/mergewarden/internal/evaluate"
	"github.com/mergewarden/mergewarden/internal/policy"
)

// SCM is the source-control surface the orchestrator reads from.
type SCM interface {
	evaluate.Source
	PullRequest(ctx context.Context, number int) (*github.PullRequest, error)
}

// Bot evaluates a single dependency-update pull request per run.
type Bot struct {
	scm             SCM
	driver          *agent.Driver
	actions         *action.Dispatcher
	skipAuthorCheck bool
}

// New assembles a Bot from its collaborators.
func New(scm SCM, driver *agent.Driver, actions *action.Dispatcher, skipAuthorCheck bool) *Bot {
	return &Bot{
		scm:             scm,
		driver:          driver,
		actions:         actions,
		skipAuthorCheck: skipAuthorCheck,
	}
}

// Authors recognized as dependency bots.
var knownBotAuthors = []string{"dependabot[bot]", "dependabot", "renovate[bot]", "renovate"}

// isDependencyPR reports whether the PR looks like a dependency update:
// authored by a known bot (unless the check is relaxed) and carrying a
// dependency-ish label or a bump/update title.
func isDependencyPR(pr *github.PullRequest, skipAuthorCheck bool) bool {
	if !skipAuthorCheck && !slices.Contains(knownBotAuthors, pr.GetUser().GetLogin()) {
		return false
	}

	for _, label := range pr.Labels {
		if strings.Contains(strings.ToLower(label.GetName()), "dep") {
			return true
		}
	}

	title := strings.ToLower(pr.GetTitle())
	return strings.Contains(title, "bump") || strings.Contains(title, "update")
}

// Run performs one full perceive -> decide -> act cycle for the PR.
// A PR that fails the dependency-update precondition ends the run
// successfully with no side effects.
func (b *Bot) Run(ctx context.Context, prNumber int) error {
	log := clog.FromContext(ctx)

	pr, err := b.scm.PullRequest(ctx, prNumber)
	if err != nil {
		return err
	}

	if !isDependencyPR(pr, b.skipAuthorCheck) {
		log.Infof("PR #%d is not a dependency update, skipping", prNumber)
		return nil
	}

	ec := evaluate.Gather(ctx, b.scm, pr)
	log.With("author", ec.Author).
		With("dependency", ec.Update.Dependency).
		With("bump", ec.Update.Bump).
		With("ci_status", ec.Checks.Status).
		With("security", ec.Security).
		Infof("Gathered context for PR #%d", prNumber)

	outcome, err := b.driver.Evaluate(ctx, ec)
	if err != nil {
		return fmt.Errorf("reasoning loop: %w", err)
	}

	v := outcome.Verdict
	if !outcome.Parsed {
		v = policy.Fallback(ec, outcome.Raw)
		log.Info("Applied fallback decision policy")
	}
	log.With("decision", v.Decision).With("risk", v.Risk).Info("Verdict reached")

	return b.actions.Dispatch(ctx, ec, v)
}
