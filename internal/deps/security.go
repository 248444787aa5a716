/*
Copyright 2026 MergeWarden Authors
SPDX-License-Identifier: Apache-2.0
*/

package deps

import "strings"

// IsSecurityUpdate reports whether the PR carries a security signal: a
// label containing "security", or a body mentioning security, a CVE, or a
// vulnerability. The match is deliberately a broad case-insensitive
// substring check; a false positive only escalates priority, a false
// negative would hide a security fix.
func IsSecurityUpdate(labels []string, body string) bool {
	for _, label := range labels {
		if strings.Contains(strings.ToLower(label), "security") {
			return true
		}
	}

	b := strings.ToLower(body)
	return strings.Contains(b, "security") ||
		strings.Contains(b, "cve") ||
		strings.Contains(b, "vulnerability")
}
