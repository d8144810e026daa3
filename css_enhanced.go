// SPDX-License-Identifier: MIT
// Copyright (c) 2026 StaticHQ
// Source: github.com/statichq/sitemin

package sitemin

import (
	"fmt"
	"regexp"
	"strings"
)

// Enhanced-CSS helper expressions, compiled once.
var (
	// ieHackRE matches star- and underscore-prefixed property hacks
	// targeting legacy Internet Explorer, e.g. "*zoom: 1;".
	ieHackRE = regexp.MustCompile(`[*_][a-zA-Z-]+\s*:[^;}]+;?`)
	// emptyRuleRE matches rules whose body is empty after minification.
	emptyRuleRE = regexp.MustCompile(`[^{}@/]+\{\}`)
	// fontWeightBoldRE and fontWeightNormalRE match shortenable keyword weights.
	fontWeightBoldRE   = regexp.MustCompile(`(?i)font-weight:\s*bold\b`)
	fontWeightNormalRE = regexp.MustCompile(`(?i)font-weight:\s*normal\b`)
	// longHexColorRE matches 6-digit hex colors; pairwise equality is
	// checked in code (RE2 has no backreferences).
	longHexColorRE = regexp.MustCompile(`#[0-9a-fA-F]{6}\b`)
	// adjacentMediaRE matches two consecutive @media blocks with the
	// same condition and non-nested bodies.
	adjacentMediaRE = regexp.MustCompile(`@media([^{]+)\{([^{}]*(?:[^{}]*\{[^{}]*\})*[^{}]*)\}@media([^{]+)\{`)
)

// compressEnhanced runs the enhanced CSS pipeline: IE hacks are
// protected by placeholder custom properties when preservation is on,
// the engine minifies, and the configured post passes run on the
// minified output.
func (c *CSSCompressor) compressEnhanced(content string) (string, error) {
	var hacks []preservedRegion
	if c.opts.PreserveIEHacks {
		content, hacks = protectIEHacks(content)
	}

	out, err := c.m.String("text/css", content)
	if err != nil {
		return "", err
	}

	if c.opts.PreserveIEHacks {
		out = restoreIEHacks(out, hacks)
	}
	if c.opts.RemoveEmptyRules {
		out = removeEmptyRules(out)
	}
	if c.opts.ShortenFontWeights {
		out = shortenFontWeights(out)
	}
	if c.opts.OptimizeColors {
		out = optimizeColors(out)
	}
	if c.opts.MergeMediaQueries {
		out = mergeAdjacentMediaQueries(out)
	}

	return out, nil
}

// protectIEHacks swaps IE hack declarations for placeholder custom
// properties the engine keeps verbatim, so hacks the CSS parser would
// reject survive the round trip.
func protectIEHacks(content string) (string, []preservedRegion) {
	var saved []preservedRegion
	content = ieHackRE.ReplaceAllStringFunc(content, func(match string) string {
		token := fmt.Sprintf("--sitemin-hack-%d:0", len(saved))
		saved = append(saved, preservedRegion{token: token, original: strings.TrimSuffix(match, ";")})
		return token + ";"
	})

	return content, saved
}

// restoreIEHacks substitutes protected hack declarations back,
// tolerating the engine having dropped a trailing semicolon.
func restoreIEHacks(content string, saved []preservedRegion) string {
	for _, region := range saved {
		content = strings.Replace(content, region.token, region.original, 1)
	}

	return content
}

// removeEmptyRules drops rules left with empty bodies.
func removeEmptyRules(content string) string {
	for {
		next := emptyRuleRE.ReplaceAllString(content, "")
		if next == content {
			return next
		}
		content = next
	}
}

// shortenFontWeights rewrites keyword font weights to numeric form.
func shortenFontWeights(content string) string {
	content = fontWeightBoldRE.ReplaceAllString(content, "font-weight:700")
	return fontWeightNormalRE.ReplaceAllString(content, "font-weight:400")
}

// optimizeColors collapses pairwise-repeating 6-digit hex colors and
// lowercases the result.
func optimizeColors(content string) string {
	return longHexColorRE.ReplaceAllStringFunc(content, func(match string) string {
		hex := strings.ToLower(match[1:])
		if hex[0] != hex[1] || hex[2] != hex[3] || hex[4] != hex[5] {
			return match
		}
		return "#" + string(hex[0]) + string(hex[2]) + string(hex[4])
	})
}

// mergeAdjacentMediaQueries folds consecutive @media blocks with an
// identical condition into one block. Only adjacent blocks merge;
// reordering rules would change the cascade.
func mergeAdjacentMediaQueries(content string) string {
	for {
		merged := adjacentMediaRE.ReplaceAllStringFunc(content, func(match string) string {
			parts := adjacentMediaRE.FindStringSubmatch(match)
			if parts == nil || strings.TrimSpace(parts[1]) != strings.TrimSpace(parts[3]) {
				return match
			}
			return "@media" + parts[1] + "{" + parts[2]
		})
		if merged == content {
			return merged
		}
		content = merged
	}
}
