// SPDX-License-Identifier: MIT
// Copyright (c) 2026 StaticHQ
// Source: github.com/statichq/sitemin

package sitemin

import (
	"fmt"
	"strings"

	"github.com/woozymasta/pathrules"
)

// excludeMatcher holds compiled exclusion globs for output paths.
type excludeMatcher struct {
	matcher *pathrules.Matcher
}

// newExcludeMatcher compiles exclusion globs. An empty pattern set
// returns a nil matcher that excludes nothing.
func newExcludeMatcher(patterns []string) (*excludeMatcher, error) {
	rules := make([]pathrules.Rule, 0, len(patterns))
	for _, pattern := range patterns {
		pattern = normalizeMatchPath(pattern)
		if pattern == "" {
			continue
		}

		rules = append(rules, pathrules.Rule{
			Action:  pathrules.ActionInclude,
			Pattern: pattern,
		})
	}
	if len(rules) == 0 {
		return nil, nil
	}

	matcher, err := pathrules.NewMatcher(rules, pathrules.MatcherOptions{
		CaseInsensitive: true,
		DefaultAction:   pathrules.ActionExclude,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: compile globs: %w", ErrInvalidExcludePattern, err)
	}

	return &excludeMatcher{matcher: matcher}, nil
}

// Match reports whether path matches at least one exclusion glob.
func (m *excludeMatcher) Match(path string) bool {
	if m == nil || m.matcher == nil {
		return false
	}

	candidate := normalizeMatchPath(path)
	if candidate == "" {
		return false
	}

	return m.matcher.Included(candidate, false)
}

// normalizeMatchPath converts a path or glob to slash-separated
// matcher form without leading "./" or "/".
func normalizeMatchPath(path string) string {
	path = strings.TrimSpace(path)
	path = strings.ReplaceAll(path, `\`, `/`)
	path = strings.TrimPrefix(path, "./")
	return strings.TrimPrefix(path, "/")
}
