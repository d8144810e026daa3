// SPDX-License-Identifier: MIT
// Copyright (c) 2026 StaticHQ
// Source: github.com/statichq/sitemin

package sitemin

import (
	"regexp"
	"time"
)

// Validation limits for untrusted configuration values.
const (
	// maxSafeStringLength bounds one string value or array element.
	maxSafeStringLength = 10_000
	// maxSafeArraySize bounds array options before truncation.
	maxSafeArraySize = 1000
	// maxSafeHashSize bounds hash options before rejection.
	maxSafeHashSize = 100
	// maxKeyLength bounds a raw configuration key name.
	maxKeyLength = 100
	// maxFreeStringLength bounds unrecognized string engine arguments.
	maxFreeStringLength = 500
	// maxTerserArgEntries bounds the JS engine argument hash.
	maxTerserArgEntries = 20
	// maxFileBytes bounds content accepted for compression (50 MiB).
	maxFileBytes = 50 * 1024 * 1024
)

// Default integer bounds for validated numeric options.
const (
	defaultIntMin = 0
	defaultIntMax = 1_000_000
	ecmaMin       = 3
	ecmaMax       = 2020
	freeNumMin    = -1000
	freeNumMax    = 1000
)

// Pattern safety heuristic bounds.
const (
	// maxPatternLength bounds one regex source string.
	maxPatternLength = 1000
	// maxPatternGroups bounds literal "(" occurrences (nesting proxy).
	maxPatternGroups = 10
	// maxPatternQuantifiers bounds "+", "*", "?" tokens.
	maxPatternQuantifiers = 20
	// DefaultCompileTimeout is the per-pattern compilation budget.
	DefaultCompileTimeout = time.Second
)

// MaxCacheSize caps entries per compressor sub-cache. Intentionally
// small: cached values are heavyweight configured engine objects.
const MaxCacheSize = 10

// CompressorType selects one compressor sub-cache.
type CompressorType string

// Compressor sub-cache identifiers.
const (
	TypeCSS  CompressorType = "css"
	TypeJS   CompressorType = "js"
	TypeHTML CompressorType = "html"
)

// CacheStats is a snapshot of cache counters. Counters are
// monotonically non-decreasing until ClearAll resets them.
type CacheStats struct {
	Hits      uint64 `json:"hits" yaml:"hits"`
	Misses    uint64 `json:"misses" yaml:"misses"`
	Evictions uint64 `json:"evictions" yaml:"evictions"`
}

// CompiledPattern is a safety-checked, successfully compiled preserve
// pattern together with its originating source string.
type CompiledPattern struct {
	// Source is the raw pattern string the regex was compiled from.
	Source string
	// Regexp is the compiled pattern. Never nil.
	Regexp *regexp.Regexp
}

// phpPreserveSource matches "<?php ... ?>" blocks, case-insensitive,
// across lines. Appended to HTML preserve patterns by PreservePHP.
const phpPreserveSource = `(?is)<\?php.*?\?>`
