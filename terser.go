// SPDX-License-Identifier: MIT
// Copyright (c) 2026 StaticHQ
// Source: github.com/statichq/sitemin

package sitemin

import (
	"fmt"
	"strings"
)

// JS engine argument policy classes.
var (
	// strictBoolArgKeys are security-sensitive flags validated only as booleans.
	strictBoolArgKeys = map[string]struct{}{
		"eval":     {},
		"with":     {},
		"toplevel": {},
	}
	// boolOrHashArgKeys accept a boolean or a nested options hash. Nested
	// structure stays opaque: its contract belongs to the engine.
	boolOrHashArgKeys = map[string]struct{}{
		"compress": {},
		"mangle":   {},
		"output":   {},
		"format":   {},
	}
	// numericOrBoolArgKeys accept a bounded version number or a boolean.
	numericOrBoolArgKeys = map[string]struct{}{
		"ecma":     {},
		"ie8":      {},
		"safari10": {},
	}
)

// deprecatedArgKey is always filtered from engine arguments. The
// legacy uglifier option has no terser equivalent.
const deprecatedArgKey = "harmony"

// mergeEngineArgs validates both JS engine argument hashes and merges
// them, current-name entries winning on collision. Empty-after-
// validation reports as nil so HasTerserArgs means "at least one
// validated, non-default arg".
func (s sanitizer) mergeEngineArgs(legacy, current any) map[string]any {
	merged := s.engineArgs(legacy, keyUglifierArgs)
	for name, value := range s.engineArgs(current, keyTerserArgs) {
		if merged == nil {
			merged = make(map[string]any)
		}
		merged[name] = value
	}

	if len(merged) == 0 {
		return nil
	}

	return merged
}

// engineArgs validates one raw JS engine argument hash under the
// per-key policy. Unknown scalar args are bounded; unsupported types
// drop with a warning; an empty result reports as nil.
func (s sanitizer) engineArgs(value any, sourceKey string) map[string]any {
	if value == nil {
		return nil
	}

	raw, ok := coerceMap(value)
	if !ok {
		s.warn("validation", fmt.Sprintf("invalid hash for %q: %T", sourceKey, value))
		return nil
	}
	if len(raw) > maxTerserArgEntries {
		s.warn("validation", fmt.Sprintf("hash for %q exceeds %d entries", sourceKey, maxTerserArgEntries))
		return nil
	}

	out := make(map[string]any, len(raw))
	for name, entry := range raw {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		argKey := sourceKey + "." + name
		switch {
		case name == deprecatedArgKey:
			s.info("config", fmt.Sprintf("dropping deprecated %q option from %s", deprecatedArgKey, sourceKey))
		case hasKey(strictBoolArgKeys, name):
			if v, valid := s.boolean(entry, argKey); valid {
				out[name] = v
			}
		case hasKey(boolOrHashArgKeys, name):
			if nested, isHash := coerceMap(entry); isHash {
				out[name] = nested
			} else if v, valid := s.boolean(entry, argKey); valid {
				out[name] = v
			}
		case hasKey(numericOrBoolArgKeys, name):
			if v, valid := s.versionOrBool(entry, argKey); valid {
				out[name] = v
			}
		default:
			if v, valid := s.freeArg(entry, argKey); valid {
				out[name] = v
			}
		}
	}

	if len(out) == 0 {
		return nil
	}

	return out
}

// versionOrBool validates a numeric-or-boolean flag: numbers bound to
// the ECMA version range, everything else through boolean validation.
func (s sanitizer) versionOrBool(entry any, argKey string) (any, bool) {
	switch entry.(type) {
	case int, int64, float64:
		if n, valid := s.integer(entry, argKey, ecmaMin, ecmaMax); valid {
			return n, true
		}
		return nil, false
	}

	if v, valid := s.boolean(entry, argKey); valid {
		return v, true
	}

	return nil, false
}

// freeArg validates one unrecognized engine argument: bounded strings
// and numbers, booleans and nil passed through, other types dropped.
func (s sanitizer) freeArg(entry any, argKey string) (any, bool) {
	switch v := entry.(type) {
	case nil, bool:
		return v, true
	case int, int64, float64:
		if n, valid := s.integer(entry, argKey, freeNumMin, freeNumMax); valid {
			return n, true
		}
		return nil, false
	case string:
		if text, valid := s.str(v, argKey, maxFreeStringLength); valid {
			return text, true
		}
		return nil, false
	default:
		s.warn("validation", fmt.Sprintf("unsupported value type for %q: %T", argKey, entry))
		return nil, false
	}
}

// hasKey reports set membership for one policy class.
func hasKey(set map[string]struct{}, name string) bool {
	_, ok := set[name]
	return ok
}
