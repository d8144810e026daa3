// SPDX-License-Identifier: MIT
// Copyright (c) 2026 StaticHQ
// Source: github.com/statichq/sitemin

package sitemin

import "errors"

// Sentinel errors for sitemin operations. Use errors.Is in callers.
var (
	// ErrUnsafePattern means the regex pattern failed the complexity heuristics.
	ErrUnsafePattern = errors.New("regex pattern rejected by safety heuristics")
	// ErrPatternTimeout means regex compilation exceeded its time budget.
	ErrPatternTimeout = errors.New("regex compilation timed out")
	// ErrUnknownCompressorType means the cache was asked for an unknown sub-cache.
	ErrUnknownCompressorType = errors.New("unknown compressor type")
	// ErrNilFactory means GetOrCreate was called without a factory callback.
	ErrNilFactory = errors.New("nil compressor factory callback")
	// ErrNilConfig means a compressor constructor received a nil configuration.
	ErrNilConfig = errors.New("nil compression config")
	// ErrInvalidExcludePattern means one or more exclude globs are invalid.
	ErrInvalidExcludePattern = errors.New("invalid exclude patterns")
)
