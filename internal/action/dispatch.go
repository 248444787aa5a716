/*
Copyright 2026 MergeWarden Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package action carries out the final verdict on the pull request:
// exactly one of merge, review request, or block.
package action

import (
	"context"
	"fmt"
	"strings"

	"github.com/chainguard-dev/clog"

	"github.com/mergewarden/mergewarden/internal/evaluate"
	"github.com/mergewarden/mergewarden/internal/verdict"
)

// SCM is the slice of the source-control API the dispatcher needs.
type SCM interface {
	Comment(ctx context.Context, number int, body string) error
	AddLabels(ctx context.Context, number int, labels []string) error
	SquashMerge(ctx context.Context, number int, commitTitle, commitMessage string) error
}

// Labels attached on the approval path. Attachment is best-effort: the
// comment is the primary signal, the labels only aid triage queues.
var reviewLabels = []string{"needs-review", "mergewarden-flagged"}

// reasoningBudget caps how much verdict reasoning lands in the squash
// commit message.
const reasoningBudget = 500

// Dispatcher executes verdicts against the source-control host.
type Dispatcher struct {
	scm SCM
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(s SCM) *Dispatcher {
	return &Dispatcher{scm: s}
}

// Dispatch performs exactly one external action for the verdict. The
// decision set is closed; an unrecognized decision is a programming
// error surfaced as one.
func (d *Dispatcher) Dispatch(ctx context.Context, ec evaluate.Context, v verdict.Verdict) error {
	switch v.Decision {
	case verdict.AutoMerge:
		return d.autoMerge(ctx, ec, v)
	case verdict.RequireApproval:
		return d.requestReview(ctx, ec, v)
	case verdict.DoNotMerge:
		return d.block(ctx, ec, v)
	}
	return fmt.Errorf("unhandled decision %q", v.Decision)
}

func (d *Dispatcher) autoMerge(ctx context.Context, ec evaluate.Context, v verdict.Verdict) error {
	clog.FromContext(ctx).Infof("Auto-merging PR #%d", ec.Number)

	body := commentBody("✅ Auto-merge approved", ec, v, "Merging automatically...")
	if err := d.scm.Comment(ctx, ec.Number, body); err != nil {
		return fmt.Errorf("posting auto-merge comment: %w", err)
	}

	commitMessage := fmt.Sprintf("Auto-merged by mergewarden\n\nRisk: %s\n\n%s",
		strings.ToLower(string(v.Risk)), truncate(v.Reasoning, reasoningBudget))
	if err := d.scm.SquashMerge(ctx, ec.Number, ec.Title, commitMessage); err != nil {
		return err
	}

	clog.FromContext(ctx).Infof("Merged PR #%d", ec.Number)
	return nil
}

func (d *Dispatcher) requestReview(ctx context.Context, ec evaluate.Context, v verdict.Verdict) error {
	log := clog.FromContext(ctx)
	log.Infof("Requesting human review for PR #%d", ec.Number)

	body := commentBody("👤 Human review required", ec, v, "Please review this update carefully before merging.")
	if err := d.scm.Comment(ctx, ec.Number, body); err != nil {
		return fmt.Errorf("posting review comment: %w", err)
	}

	if err := d.scm.AddLabels(ctx, ec.Number, reviewLabels); err != nil {
		log.With("error", err).Warn("Could not add review labels (may not have permission)")
	}

	return nil
}

func (d *Dispatcher) block(ctx context.Context, ec evaluate.Context, v verdict.Verdict) error {
	clog.FromContext(ctx).Infof("Blocking PR #%d", ec.Number)

	body := commentBody("❌ Cannot merge", ec, v, "Please resolve the issues identified above before merging.")
	if err := d.scm.Comment(ctx, ec.Number, body); err != nil {
		return fmt.Errorf("posting blocking comment: %w", err)
	}
	return nil
}

// commentBody renders the explanatory PR comment shared by all three
// paths: decision, risk, analysis, and the update context.
func commentBody(decision string, ec evaluate.Context, v verdict.Verdict, footer string) string {
	var b strings.Builder
	b.WriteString("🤖 **mergewarden**\n\n")
	fmt.Fprintf(&b, "**Decision**: %s\n", decision)
	fmt.Fprintf(&b, "**Risk Level**: %s\n\n", v.Risk)
	b.WriteString("**Analysis**:\n")
	b.WriteString(v.Reasoning)
	b.WriteString("\n\n**Context**:\n")
	fmt.Fprintf(&b, "- Dependency: `%s`\n", ec.Update.Dependency)
	fmt.Fprintf(&b, "- Update: `%s` -> `%s` (%s)\n", ec.Update.OldVersion, ec.Update.NewVersion, ec.Update.Bump)
	fmt.Fprintf(&b, "- CI Status: %s\n", ec.Checks.Status)
	fmt.Fprintf(&b, "- Mergeable: %t\n\n", ec.Mergeable)
	b.WriteString(footer)
	b.WriteString("\n")
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
