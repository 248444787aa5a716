/*
Copyright 2026 MergeWarden Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package deps parses dependency-update metadata out of human-authored
// pull request titles and bodies.
package deps

import (
	"regexp"
	"strings"
)

// Bump is the semantic-versioning category of an update.
type Bump string

const (
	BumpUnknown Bump = "unknown"
	BumpPatch   Bump = "patch"
	BumpMinor   Bump = "minor"
	BumpMajor   Bump = "major"
)

// Classification is the structured description of a dependency update,
// built once per PR and immutable after that.
type Classification struct {
	Dependency string
	OldVersion string
	NewVersion string
	Bump       Bump
}

// Recognized title phrasings, in priority order: the Dependabot "Bump X
// from A to B" form, then the Renovate "Update X to B" form.
var (
	bumpTitleRe   = regexp.MustCompile(`(?i)Bump (.+?) from`)
	updateTitleRe = regexp.MustCompile(`(?i)Update (.+?) to`)
	versionPairRe = regexp.MustCompile(`from ([\d.]+(?:-[\w.]+)?) to ([\d.]+(?:-[\w.]+)?)`)
)

// Classify extracts the dependency name and version pair from a PR title.
// Unparseable input never fails: it yields the "unknown"/empty defaults.
//
// The bump category only ever inspects the first two dot-separated
// components, compared as strings. Components >= 10 can therefore compare
// unequal to their single-digit counterparts even when numerically
// adjacent; this matches the upstream dependency-bot phrasing convention
// and keeps malformed versions degrading to patch instead of failing.
func Classify(title, body string) Classification {
	c := Classification{
		Dependency: "unknown",
		Bump:       BumpUnknown,
	}
	_ = body // reserved: some bots only name the dependency in the body

	if m := bumpTitleRe.FindStringSubmatch(title); m != nil {
		c.Dependency = strings.TrimSpace(m[1])
	} else if m := updateTitleRe.FindStringSubmatch(title); m != nil {
		c.Dependency = strings.TrimSpace(m[1])
	}

	m := versionPairRe.FindStringSubmatch(title)
	if m == nil {
		return c
	}
	c.OldVersion = m[1]
	c.NewVersion = m[2]

	oldParts := strings.Split(c.OldVersion, ".")
	newParts := strings.Split(c.NewVersion, ".")
	switch {
	case oldParts[0] != newParts[0]:
		c.Bump = BumpMajor
	case len(oldParts) >= 2 && len(newParts) >= 2 && oldParts[1] != newParts[1]:
		c.Bump = BumpMinor
	default:
		c.Bump = BumpPatch
	}

	return c
}
