/*
Copyright 2026 MergeWarden Authors
SPDX-License-Identifier: Apache-2.0
*/

package bot

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/google/go-github/v84/github"

	"github.com/mergewarden/mergewarden/internal/action"
	"github.com/mergewarden/mergewarden/internal/agent"
	"github.com/mergewarden/mergewarden/internal/scm"
)

func prWith(author, title string, labels ...string) *github.PullRequest {
	pr := &github.PullRequest{
		Number: github.Ptr(42),
		Title:  github.Ptr(title),
		User:   &github.User{Login: github.Ptr(author)},
	}
	for _, l := range labels {
		pr.Labels = append(pr.Labels, &github.Label{Name: github.Ptr(l)})
	}
	return pr
}

func TestIsDependencyPR(t *testing.T) {
	tests := []struct {
		name            string
		pr              *github.PullRequest
		skipAuthorCheck bool
		want            bool
	}{{
		name: "dependabot bump title",
		pr:   prWith("dependabot[bot]", "Bump axios from 1.6.0 to 1.6.1"),
		want: true,
	}, {
		name: "renovate update title",
		pr:   prWith("renovate[bot]", "Update lodash to v4.17.21"),
		want: true,
	}, {
		name: "bot with dependencies label but plain title",
		pr:   prWith("dependabot", "chore: weekly refresh", "dependencies"),
		want: true,
	}, {
		name: "human author with bump title",
		pr:   prWith("octocat", "Bump axios from 1.6.0 to 1.6.1"),
		want: false,
	}, {
		name:            "human author with check relaxed",
		pr:              prWith("octocat", "Bump axios from 1.6.0 to 1.6.1"),
		skipAuthorCheck: true,
		want:            true,
	}, {
		name: "bot with unrelated title and labels",
		pr:   prWith("dependabot[bot]", "Fix typo in README", "docs"),
		want: false,
	}, {
		name:            "relaxed check still needs a dependency signal",
		pr:              prWith("octocat", "Fix typo in README"),
		skipAuthorCheck: true,
		want:            false,
	}}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := isDependencyPR(tc.pr, tc.skipAuthorCheck); got != tc.want {
				t.Errorf("isDependencyPR() = %v, want %v", got, tc.want)
			}
		})
	}
}

// fakeSCM serves one canned PR and records nothing else of interest.
type fakeSCM struct {
	pr     *github.PullRequest
	prErr  error
	checks scm.CheckAggregate
	files  []string
}

func (f *fakeSCM) PullRequest(context.Context, int) (*github.PullRequest, error) {
	return f.pr, f.prErr
}

func (f *fakeSCM) CheckStatusForRef(context.Context, string) scm.CheckAggregate {
	return f.checks
}

func (f *fakeSCM) ChangedFiles(context.Context, int, int) []string {
	return f.files
}

// fakeActions records the side effects the dispatcher asked for.
type fakeActions struct {
	comments []string
	labels   [][]string
	merged   bool
}

func (f *fakeActions) Comment(_ context.Context, _ int, body string) error {
	f.comments = append(f.comments, body)
	return nil
}

func (f *fakeActions) AddLabels(_ context.Context, _ int, labels []string) error {
	f.labels = append(f.labels, labels)
	return nil
}

func (f *fakeActions) SquashMerge(context.Context, int, string, string) error {
	f.merged = true
	return nil
}

// stubProposer always answers with the same message.
type stubProposer struct {
	message *anthropic.Message
	err     error
}

func (s *stubProposer) Propose(context.Context, anthropic.MessageNewParams) (*anthropic.Message, error) {
	return s.message, s.err
}

func answer(text string) *anthropic.Message {
	return &anthropic.Message{
		Content: []anthropic.ContentBlockUnion{{Type: "text", Text: text}},
	}
}

func newTestBot(src *fakeSCM, p agent.Proposer, acts *fakeActions) *Bot {
	driver := agent.NewDriver(p, agent.NewInvoker(nil), "test-model")
	return New(src, driver, action.NewDispatcher(acts), false)
}

func TestRunSkipsNonDependencyPRs(t *testing.T) {
	src := &fakeSCM{pr: prWith("octocat", "Add dark mode")}
	acts := &fakeActions{}
	b := newTestBot(src, &stubProposer{err: errors.New("must not be called")}, acts)

	if err := b.Run(context.Background(), 42); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(acts.comments) != 0 || acts.merged {
		t.Errorf("skip path must have no side effects, got %+v", acts)
	}
}

func TestRunAutoMergesOnModelVerdict(t *testing.T) {
	pr := prWith("dependabot[bot]", "Bump axios from 1.6.0 to 1.6.1")
	pr.Mergeable = github.Ptr(true)
	src := &fakeSCM{pr: pr, checks: scm.CheckAggregate{Status: scm.StatusSuccess, Conclusion: scm.ConclusionSuccess}}
	acts := &fakeActions{}
	p := &stubProposer{message: answer(`{"decision": "AUTO_MERGE", "risk_level": "LOW", "reasoning": "Patch bump, CI green."}`)}

	if err := newTestBot(src, p, acts).Run(context.Background(), 42); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !acts.merged {
		t.Error("expected the PR to be merged")
	}
	if len(acts.comments) != 1 || !strings.Contains(acts.comments[0], "Auto-merge approved") {
		t.Errorf("unexpected comments: %v", acts.comments)
	}
}

func TestRunFallsBackOnUnparseableOutput(t *testing.T) {
	// Failing CI plus a model that rambles without JSON: the fallback
	// policy must block the merge.
	pr := prWith("dependabot[bot]", "Bump next from 13.0.0 to 14.0.0")
	pr.Mergeable = github.Ptr(true)
	src := &fakeSCM{pr: pr, checks: scm.CheckAggregate{Status: scm.StatusFailure, Conclusion: scm.ConclusionFailure}}
	acts := &fakeActions{}
	p := &stubProposer{message: answer("I could not reach a structured conclusion here.")}

	if err := newTestBot(src, p, acts).Run(context.Background(), 42); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if acts.merged {
		t.Error("fallback on failing CI must never merge")
	}
	if len(acts.comments) != 1 || !strings.Contains(acts.comments[0], "Cannot merge") {
		t.Errorf("unexpected comments: %v", acts.comments)
	}
	if !strings.Contains(acts.comments[0], "Fallback decision") {
		t.Errorf("comment should surface the fallback reasoning: %v", acts.comments)
	}
}

func TestRunPropagatesFetchError(t *testing.T) {
	src := &fakeSCM{prErr: errors.New("boom")}
	b := newTestBot(src, &stubProposer{}, &fakeActions{})

	if err := b.Run(context.Background(), 42); err == nil {
		t.Fatal("expected PR fetch error to propagate")
	}
}

func TestRunPropagatesTransportError(t *testing.T) {
	pr := prWith("dependabot[bot]", "Bump axios from 1.6.0 to 1.6.1")
	src := &fakeSCM{pr: pr, checks: scm.CheckAggregate{Status: scm.StatusSuccess, Conclusion: scm.ConclusionSuccess}}
	p := &stubProposer{err: errors.New("api unreachable")}

	err := newTestBot(src, p, &fakeActions{}).Run(context.Background(), 42)
	if err == nil || !strings.Contains(err.Error(), "reasoning loop") {
		t.Fatalf("expected wrapped transport error, got %v", err)
	}
}
