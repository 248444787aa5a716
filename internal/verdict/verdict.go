/*
Copyright 2026 MergeWarden Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package verdict defines the final decision produced for a dependency
// update pull request, and the parsing of model output into it.
package verdict

import "fmt"

// Decision is the three-way merge decision. The string values are the
// case-sensitive wire tokens expected in the model's JSON response.
type Decision string

const (
	AutoMerge       Decision = "AUTO_MERGE"
	RequireApproval Decision = "REQUIRE_APPROVAL"
	DoNotMerge      Decision = "DO_NOT_MERGE"
)

// Risk is the assessed risk level of applying the update.
type Risk string

const (
	RiskLow      Risk = "LOW"
	RiskMedium   Risk = "MEDIUM"
	RiskHigh     Risk = "HIGH"
	RiskCritical Risk = "CRITICAL"
)

// Verdict is the sole output of an evaluation: one decision, one risk
// level, and a human-readable justification.
type Verdict struct {
	Decision  Decision
	Risk      Risk
	Reasoning string
}

// ParseDecision maps a wire token to a Decision.
func ParseDecision(token string) (Decision, error) {
	switch d := Decision(token); d {
	case AutoMerge, RequireApproval, DoNotMerge:
		return d, nil
	}
	return "", fmt.Errorf("invalid decision token %q", token)
}

// ParseRisk maps a wire token to a Risk.
func ParseRisk(token string) (Risk, error) {
	switch r := Risk(token); r {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return r, nil
	}
	return "", fmt.Errorf("invalid risk token %q", token)
}
