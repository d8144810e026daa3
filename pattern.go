// SPDX-License-Identifier: MIT
// Copyright (c) 2026 StaticHQ
// Source: github.com/statichq/sitemin

package sitemin

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
)

// Pre-compiled detectors for catastrophic backtracking shapes.
var (
	// nestedQuantifierRE matches a group ending in a quantifier that is
	// itself quantified: (a+)+, (a*)*, (a+)*, (a*)+.
	nestedQuantifierRE = regexp.MustCompile(`\([^)]*[+*]\)[+*]`)
	// alternationRepeatRE matches a quantified alternation group: (a|a)*.
	alternationRepeatRE = regexp.MustCompile(`\([^)]*\|[^)]*\)[+*]`)
)

// ValidRegexPattern reports whether pattern passes the ReDoS safety
// heuristics. The checks are deliberately conservative: some safe
// patterns are rejected, no formal backtracking analysis is attempted.
func ValidRegexPattern(pattern string) bool {
	if strings.TrimSpace(pattern) == "" {
		return false
	}
	if len(pattern) > maxPatternLength {
		return false
	}
	if nestedQuantifierRE.MatchString(pattern) {
		return false
	}
	if alternationRepeatRE.MatchString(pattern) {
		return false
	}
	if strings.Count(pattern, "(") > maxPatternGroups {
		return false
	}
	if countQuantifiers(pattern) > maxPatternQuantifiers {
		return false
	}

	return true
}

// countQuantifiers counts "+", "*", "?" tokens, folding lazy forms
// ("+?", "*?", "??") into one token each.
func countQuantifiers(pattern string) int {
	count := 0
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '+', '*', '?':
			count++
			if i+1 < len(pattern) && pattern[i+1] == '?' {
				i++
			}
		}
	}

	return count
}

// compileOutcome carries one compilation result across the goroutine
// boundary. The channel is buffered so an abandoned compile can finish
// and exit without a reader.
type compileOutcome struct {
	re  *regexp.Regexp
	err error
}

// CompileRegexWithTimeout compiles pattern on its own goroutine and
// waits at most timeout for the result. On timeout the goroutine is
// abandoned: it owns its result channel exclusively, so a late finish
// cannot corrupt caller state. Engine-level syntax errors are returned
// as-is; timeout returns ErrPatternTimeout.
func CompileRegexWithTimeout(pattern string, timeout time.Duration) (*regexp.Regexp, error) {
	done := make(chan compileOutcome, 1)
	go func() {
		re, err := regexp.Compile(pattern)
		done <- compileOutcome{re: re, err: err}
	}()

	select {
	case outcome := <-done:
		if outcome.err != nil {
			return nil, outcome.err
		}
		return outcome.re, nil
	case <-time.After(timeout):
		return nil, fmt.Errorf("%w: %q after %s", ErrPatternTimeout, pattern, timeout)
	}
}

// CompilePattern runs one pattern through the full safety gate:
// heuristics first, then bounded compilation. Heuristic rejection
// returns ErrUnsafePattern.
func CompilePattern(pattern string, timeout time.Duration) (*regexp.Regexp, error) {
	if !ValidRegexPattern(pattern) {
		return nil, fmt.Errorf("%w: %q", ErrUnsafePattern, pattern)
	}

	return CompileRegexWithTimeout(pattern, timeout)
}

// CompilePreservePatterns validates and compiles each pattern,
// skipping (with one warning each) any that fail the safety
// heuristics, time out, or are rejected by the engine. Output keeps
// input order and contains only successfully compiled patterns. A
// hostile pattern list degrades the feature, never the build.
func CompilePreservePatterns(patterns []string, log *slog.Logger) []CompiledPattern {
	s := newSanitizer(log)
	out := make([]CompiledPattern, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := CompilePattern(pattern, DefaultCompileTimeout)
		if err != nil {
			s.warn("pattern", fmt.Sprintf("skipping preserve pattern: %v", err))
			continue
		}

		out = append(out, CompiledPattern{Source: pattern, Regexp: re})
	}

	return out
}
