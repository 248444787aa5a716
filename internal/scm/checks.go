/*
Copyright 2026 MergeWarden Authors
SPDX-License-Identifier: Apache-2.0
*/

package scm

import (
	"context"

	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v84/github"
)

// CheckStatus is the aggregate CI state of a commit.
type CheckStatus string

const (
	StatusSuccess CheckStatus = "success"
	StatusFailure CheckStatus = "failure"
	StatusPending CheckStatus = "pending"
	// StatusUnknown means the check listing itself failed: an
	// observational gap, not an in-progress state.
	StatusUnknown CheckStatus = "unknown"
)

// CheckConclusion is the aggregate conclusion of all completed checks.
type CheckConclusion string

const (
	ConclusionNone    CheckConclusion = ""
	ConclusionSuccess CheckConclusion = "success"
	ConclusionFailure CheckConclusion = "failure"
)

// CheckAggregate reduces a set of per-check results to one status.
type CheckAggregate struct {
	Status     CheckStatus
	Conclusion CheckConclusion
}

// CheckStatusForRef aggregates the check runs for a commit. A failed
// listing degrades to StatusUnknown rather than aborting the run.
func (c *Client) CheckStatusForRef(ctx context.Context, sha string) CheckAggregate {
	results, _, err := c.gh.Checks.ListCheckRunsForRef(ctx, c.owner, c.repo, sha, &github.ListCheckRunsOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	})
	if err != nil {
		clog.FromContext(ctx).With("error", err).Warn("Could not fetch check runs")
		return CheckAggregate{Status: StatusUnknown, Conclusion: ConclusionNone}
	}
	return aggregate(results.CheckRuns)
}

// aggregate reduces check runs to a single status:
//   - no runs, or any run not yet completed: pending
//   - every completed run concluded success: success
//   - any run concluded failure, cancelled, or timed_out: failure
//   - anything else (neutral, skipped, ...): pending
func aggregate(runs []*github.CheckRun) CheckAggregate {
	if len(runs) == 0 {
		return CheckAggregate{Status: StatusPending, Conclusion: ConclusionNone}
	}

	allSuccess := true
	anyFailure := false
	for _, run := range runs {
		if run.GetStatus() != "completed" {
			return CheckAggregate{Status: StatusPending, Conclusion: ConclusionNone}
		}
		switch run.GetConclusion() {
		case "success":
		case "failure", "cancelled", "timed_out":
			allSuccess = false
			anyFailure = true
		case "":
			// A completed run without a conclusion counts toward neither.
		default:
			allSuccess = false
		}
	}

	switch {
	case allSuccess:
		return CheckAggregate{Status: StatusSuccess, Conclusion: ConclusionSuccess}
	case anyFailure:
		return CheckAggregate{Status: StatusFailure, Conclusion: ConclusionFailure}
	default:
		return CheckAggregate{Status: StatusPending, Conclusion: ConclusionNone}
	}
}
