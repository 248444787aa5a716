/*
Copyright 2026 MergeWarden Authors
SPDX-License-Identifier: Apache-2.0
*/

package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/chainguard-dev/clog"
)

// Tool names the model may request.
const (
	toolFetchReleaseNotes = "fetch_release_notes"
	toolCheckCVEDatabase  = "check_cve_database"
	toolAnalyzeDiff       = "analyze_diff"
)

// Diff observations are truncated to a fixed budget so a large lockfile
// churn cannot crowd out the rest of the conversation.
const (
	diffBudget       = 2000
	truncationMarker = "\n... (truncated for brevity)"
)

// DiffFetcher retrieves the unified diff for a pull request.
type DiffFetcher interface {
	Diff(ctx context.Context, number int) (string, error)
}

// Invoker executes the evidence-gathering tools on the model's behalf.
// Every operation is a read-only query whose outcome becomes a plain text
// observation; failures of any kind degrade to descriptive strings so the
// reasoning loop never aborts on a tool error.
type Invoker struct {
	diffs DiffFetcher
}

// NewInvoker creates an Invoker backed by the given diff source.
func NewInvoker(diffs DiffFetcher) *Invoker {
	return &Invoker{diffs: diffs}
}

type dependencyVersionArgs struct {
	Dependency string `json:"dependency" jsonschema:"required,description=Name of the dependency"`
	Version    string `json:"version" jsonschema:"required,description=Version number"`
}

type diffArgs struct {
	PRNumber int `json:"pr_number" jsonschema:"required,description=Pull request number"`
}

// Tools returns the declared tool set, in a stable order.
func (inv *Invoker) Tools() []anthropic.ToolUnionParam {
	return []anthropic.ToolUnionParam{{
		OfTool: &anthropic.ToolParam{
			Name:        toolFetchReleaseNotes,
			Description: anthropic.String("Fetch release notes for a specific version of a dependency to check for breaking changes, new features, or important updates"),
			InputSchema: inputSchema[dependencyVersionArgs](),
		},
	}, {
		OfTool: &anthropic.ToolParam{
			Name:        toolCheckCVEDatabase,
			Description: anthropic.String("Check if a dependency version has known security vulnerabilities (CVEs)"),
			InputSchema: inputSchema[dependencyVersionArgs](),
		},
	}, {
		OfTool: &anthropic.ToolParam{
			Name:        toolAnalyzeDiff,
			Description: anthropic.String("Get the actual code changes in the PR to understand what files are being modified"),
			InputSchema: inputSchema[diffArgs](),
		},
	}}
}

// Execute runs the named tool and returns its observation. It never
// returns an error: unknown tools, malformed arguments, and transport
// failures all become descriptive observation text.
func (inv *Invoker) Execute(ctx context.Context, name string, input json.RawMessage) string {
	log := clog.FromContext(ctx)

	switch name {
	case toolFetchReleaseNotes:
		var args dependencyVersionArgs
		if err := json.Unmarshal(input, &args); err != nil {
			return fmt.Sprintf("Invalid arguments for %s: %v", name, err)
		}
		log.Infof("Fetching release notes for %s %s", args.Dependency, args.Version)
		return inv.fetchReleaseNotes(args.Dependency, args.Version)

	case toolCheckCVEDatabase:
		var args dependencyVersionArgs
		if err := json.Unmarshal(input, &args); err != nil {
			return fmt.Sprintf("Invalid arguments for %s: %v", name, err)
		}
		log.Infof("Checking CVE database for %s %s", args.Dependency, args.Version)
		return inv.checkCVEDatabase(args.Dependency, args.Version)

	case toolAnalyzeDiff:
		var args diffArgs
		if err := json.Unmarshal(input, &args); err != nil {
			return fmt.Sprintf("Invalid arguments for %s: %v", name, err)
		}
		log.Infof("Analyzing diff for PR #%d", args.PRNumber)
		return inv.analyzeDiff(ctx, args.PRNumber)
	}

	return fmt.Sprintf("Unknown tool: %q", name)
}

// fetchReleaseNotes is a stubbed integration point. A production
// deployment would query the package registry (npm, PyPI, GitHub
// Releases) for the given version.
func (inv *Invoker) fetchReleaseNotes(dependency, version string) string {
	return fmt.Sprintf("Release notes for %s %s would be fetched from the package registry (npm, PyPI, etc.) in a production integration.", dependency, version)
}

// checkCVEDatabase is a stubbed integration point. A production
// deployment would query vulnerability databases (GitHub Security
// Advisories, OSV, Snyk).
func (inv *Invoker) checkCVEDatabase(dependency, version string) string {
	return fmt.Sprintf("CVE check for %s %s would query vulnerability databases (GitHub Security Advisories, OSV, etc.) in a production integration.", dependency, version)
}

func (inv *Invoker) analyzeDiff(ctx context.Context, prNumber int) string {
	if inv.diffs == nil {
		return "Could not fetch diff: no source-control client configured"
	}

	diff, err := inv.diffs.Diff(ctx, prNumber)
	if err != nil {
		return fmt.Sprintf("Could not fetch diff: %v", err)
	}
	if len(diff) > diffBudget {
		diff = diff[:diffBudget] + truncationMarker
	}
	return diff
}
