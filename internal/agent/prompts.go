/*
Copyright 2026 MergeWarden Authors
SPDX-License-Identifier: Apache-2.0
*/

package agent

import (
	"fmt"
	"strings"

	"github.com/mergewarden/mergewarden/internal/evaluate"
)

// systemPrompt defines the agent's role and the three-way decision
// framework the model must apply.
const systemPrompt = `You are an expert dependency management agent for software projects.

Your role is to analyze dependency update pull requests and make intelligent merge decisions
based on risk assessment, testing results, and contextual information.

**Available Tools:**
- fetch_release_notes: Get release notes to check for breaking changes
- check_cve_database: Check for known security vulnerabilities
- analyze_diff: Review actual code changes in the PR

**Decision Framework:**

1. **AUTO_MERGE** - Safe to merge immediately:
   - Patch updates (1.0.0 -> 1.0.1) with passing CI
   - Minor updates (1.0.0 -> 1.1.0) with passing CI and no breaking changes
   - Security updates with passing CI (prioritize regardless of version)
   - Type definition updates (@types/*, *-types)

2. **REQUIRE_APPROVAL** - Needs human review:
   - Major version updates (1.0.0 -> 2.0.0)
   - Breaking changes mentioned in release notes
   - Critical dependencies (frameworks, core libraries)
   - CI passed with warnings
   - Pre-release versions

3. **DO_NOT_MERGE** - Block the PR:
   - CI checks failed
   - Merge conflicts present
   - PR is in draft state
   - Known security vulnerabilities in new version
   - Cannot determine safety

**Important:** Always explain your reasoning clearly, citing specific factors from the
context and any tool results. Be conservative - when in doubt, require human approval.`

// Prompt rendering budgets: keep the PR body and file listing from
// crowding out the structured fields.
const (
	bodyBudget      = 800
	promptFileLimit = 5
)

// userMessage renders the evaluation context as the analysis request.
func userMessage(ec evaluate.Context) string {
	labels := "none"
	if len(ec.Labels) > 0 {
		labels = strings.Join(ec.Labels, ", ")
	}

	files := "none"
	if len(ec.ChangedFiles) > 0 {
		shown := ec.ChangedFiles
		if len(shown) > promptFileLimit {
			shown = shown[:promptFileLimit]
		}
		files = strings.Join(shown, ", ")
	}

	body := ec.Body
	if body == "" {
		body = "(empty)"
	} else if len(body) > bodyBudget {
		body = body[:bodyBudget]
	}

	var b strings.Builder
	b.WriteString("Analyze this dependency update PR and decide if it should be merged:\n\n")
	b.WriteString("**PR Information:**\n")
	fmt.Fprintf(&b, "- Title: %s\n", ec.Title)
	fmt.Fprintf(&b, "- Dependency: %s\n", ec.Update.Dependency)
	fmt.Fprintf(&b, "- Update: %s -> %s\n", ec.Update.OldVersion, ec.Update.NewVersion)
	fmt.Fprintf(&b, "- Update Type: %s\n", ec.Update.Bump)
	fmt.Fprintf(&b, "- Security Update: %t\n", ec.Security)
	fmt.Fprintf(&b, "- CI Status: %s\n", ec.Checks.Status)
	fmt.Fprintf(&b, "- CI Conclusion: %s\n", ec.Checks.Conclusion)
	fmt.Fprintf(&b, "- Mergeable: %t (%s)\n", ec.Mergeable, ec.MergeableState)
	fmt.Fprintf(&b, "- Draft: %t\n", ec.Draft)
	fmt.Fprintf(&b, "- Labels: %s\n", labels)
	fmt.Fprintf(&b, "- Critical Dependency: %t\n", ec.CriticalDependency())
	fmt.Fprintf(&b, "- Target Branch: %s\n", ec.TargetBranch)
	fmt.Fprintf(&b, "- Files Changed: %s\n", files)
	b.WriteString("\n**PR Body:**\n")
	b.WriteString(body)
	b.WriteString(`

Based on this information:
1. Assess the risk level (LOW, MEDIUM, HIGH, or CRITICAL)
2. Make a merge decision (AUTO_MERGE, REQUIRE_APPROVAL, or DO_NOT_MERGE)
3. Explain your reasoning in detail

Use the available tools to gather additional information if needed.

Respond in JSON format:
{
    "decision": "AUTO_MERGE|REQUIRE_APPROVAL|DO_NOT_MERGE",
    "risk_level": "LOW|MEDIUM|HIGH|CRITICAL",
    "reasoning": "Detailed explanation of your decision"
}`)

	return b.String()
}
