/*
Copyright 2026 MergeWarden Authors
SPDX-License-Identifier: Apache-2.0
*/

package verdict

import (
	"encoding/json"
	"errors"
	"fmt"
)

// wire mirrors the JSON object the model is instructed to emit.
type wire struct {
	Decision  string `json:"decision"`
	RiskLevel string `json:"risk_level"`
	Reasoning string `json:"reasoning"`
}

// Extract locates the first balanced curly-brace JSON object in the model's
// final text and parses it into a Verdict. Markdown fences and surrounding
// prose are tolerated because only the braced object is considered.
func Extract(text string) (Verdict, error) {
	raw, ok := firstJSONObject(text)
	if !ok {
		return Verdict{}, errors.New("no JSON object found in response")
	}

	var w wire
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return Verdict{}, fmt.Errorf("unmarshaling verdict: %w", err)
	}

	decision, err := ParseDecision(w.Decision)
	if err != nil {
		return Verdict{}, err
	}
	risk, err := ParseRisk(w.RiskLevel)
	if err != nil {
		return Verdict{}, err
	}

	return Verdict{
		Decision:  decision,
		Risk:      risk,
		Reasoning: w.Reasoning,
	}, nil
}

// firstJSONObject scans for the first '{' and returns the substring through
// its balancing '}'. Braces inside JSON strings do not count toward the
// balance, and escaped quotes do not terminate strings.
func firstJSONObject(text string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, r := range text {
		if start >= 0 && inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}

		switch r {
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start < 0 {
				continue
			}
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		case '"':
			if start >= 0 {
				inString = true
			}
		}
	}

	return "", false
}
