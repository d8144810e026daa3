// SPDX-License-Identifier: MIT
// Copyright (c) 2026 StaticHQ
// Source: github.com/statichq/sitemin

package sitemin

import (
	"fmt"
	"strings"
)

// preservedRegion is one extracted content region awaiting restoration.
type preservedRegion struct {
	token    string
	original string
}

// extractPreserved replaces every match of every pattern with a unique
// placeholder token and records the originals. Tokens are plain
// identifier-shaped text so they survive the engines untouched in
// text, attribute, script, and style positions. Patterns apply in
// order; later patterns see earlier rewrites.
func extractPreserved(content string, patterns []CompiledPattern) (string, []preservedRegion) {
	if len(patterns) == 0 {
		return content, nil
	}

	var saved []preservedRegion
	for i, pattern := range patterns {
		content = pattern.Regexp.ReplaceAllStringFunc(content, func(match string) string {
			token := fmt.Sprintf("sitemin_preserve_%d_%d", i, len(saved))
			saved = append(saved, preservedRegion{token: token, original: match})
			return token
		})
	}

	return content, saved
}

// restorePreserved substitutes the original regions back, first
// occurrence of each token, in extraction order.
func restorePreserved(content string, saved []preservedRegion) string {
	for _, region := range saved {
		content = strings.Replace(content, region.token, region.original, 1)
	}

	return content
}
