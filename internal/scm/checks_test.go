/*
Copyright 2026 MergeWarden Authors
SPDX-License-Identifier: Apache-2.0
*/

package scm

import (
	"testing"

	"github.com/google/go-github/v84/github"
	"github.com/stretchr/testify/assert"
)

func run(status, conclusion string) *github.CheckRun {
	cr := &github.CheckRun{Status: github.Ptr(status)}
	if conclusion != "" {
		cr.Conclusion = github.Ptr(conclusion)
	}
	return cr
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name string
		runs []*github.CheckRun
		want CheckAggregate
	}{{
		name: "no check runs",
		runs: nil,
		want: CheckAggregate{Status: StatusPending, Conclusion: ConclusionNone},
	}, {
		name: "all success",
		runs: []*github.CheckRun{run("completed", "success"), run("completed", "success")},
		want: CheckAggregate{Status: StatusSuccess, Conclusion: ConclusionSuccess},
	}, {
		name: "one success one failure",
		runs: []*github.CheckRun{run("completed", "success"), run("completed", "failure")},
		want: CheckAggregate{Status: StatusFailure, Conclusion: ConclusionFailure},
	}, {
		name: "one in progress one success",
		runs: []*github.CheckRun{run("in_progress", ""), run("completed", "success")},
		want: CheckAggregate{Status: StatusPending, Conclusion: ConclusionNone},
	}, {
		name: "queued run",
		runs: []*github.CheckRun{run("queued", "")},
		want: CheckAggregate{Status: StatusPending, Conclusion: ConclusionNone},
	}, {
		name: "cancelled counts as failure",
		runs: []*github.CheckRun{run("completed", "success"), run("completed", "cancelled")},
		want: CheckAggregate{Status: StatusFailure, Conclusion: ConclusionFailure},
	}, {
		name: "timed out counts as failure",
		runs: []*github.CheckRun{run("completed", "timed_out")},
		want: CheckAggregate{Status: StatusFailure, Conclusion: ConclusionFailure},
	}, {
		name: "neutral conclusion is neither success nor failure",
		runs: []*github.CheckRun{run("completed", "success"), run("completed", "neutral")},
		want: CheckAggregate{Status: StatusPending, Conclusion: ConclusionNone},
	}, {
		name: "skipped conclusion is neither success nor failure",
		runs: []*github.CheckRun{run("completed", "skipped")},
		want: CheckAggregate{Status: StatusPending, Conclusion: ConclusionNone},
	}, {
		name: "failure beats remaining successes",
		runs: []*github.CheckRun{run("completed", "failure"), run("completed", "success"), run("completed", "success")},
		want: CheckAggregate{Status: StatusFailure, Conclusion: ConclusionFailure},
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, aggregate(tt.runs))
		})
	}
}

func TestNewRejectsBadRepository(t *testing.T) {
	for _, repository := range []string{"", "ownerless", "/repo", "owner/"} {
		if _, err := New(nil, "token", repository); err == nil {
			t.Errorf("New(%q) expected error", repository)
		}
	}

	c, err := New(nil, "token", "octocat/hello-world")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if c.owner != "octocat" || c.repo != "hello-world" {
		t.Errorf("New() parsed owner=%q repo=%q", c.owner, c.repo)
	}
}
