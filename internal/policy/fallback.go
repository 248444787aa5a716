/*
Copyright 2026 MergeWarden Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package policy holds the deterministic safety-net decision table used
// when the reasoning service's output cannot be parsed.
package policy

import (
	"github.com/mergewarden/mergewarden/internal/deps"
	"github.com/mergewarden/mergewarden/internal/evaluate"
	"github.com/mergewarden/mergewarden/internal/scm"
	"github.com/mergewarden/mergewarden/internal/verdict"
)

// rawBudget limits how much unparseable model output is embedded in the
// fallback reasoning.
const rawBudget = 500

// Fallback is the pure decision table, evaluated in fixed priority order.
// It is total: every context yields exactly one verdict, and it never
// auto-merges an update whose bump category could not be determined.
func Fallback(ec evaluate.Context, raw string) verdict.Verdict {
	reasoning := "Fallback decision used due to parsing error."
	if raw != "" {
		reasoning += "\n\n" + truncate(raw, rawBudget)
	}

	switch {
	case ec.Checks.Status == scm.StatusFailure || !ec.Mergeable:
		return verdict.Verdict{Decision: verdict.DoNotMerge, Risk: verdict.RiskCritical, Reasoning: reasoning}
	case ec.Update.Bump == deps.BumpMajor:
		return verdict.Verdict{Decision: verdict.RequireApproval, Risk: verdict.RiskHigh, Reasoning: reasoning}
	case ec.Security || ec.Update.Bump == deps.BumpMinor || ec.Update.Bump == deps.BumpPatch:
		return verdict.Verdict{Decision: verdict.AutoMerge, Risk: verdict.RiskLow, Reasoning: reasoning}
	default:
		return verdict.Verdict{Decision: verdict.RequireApproval, Risk: verdict.RiskMedium, Reasoning: reasoning}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
