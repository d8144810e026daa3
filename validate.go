// SPDX-License-Identifier: MIT
// Copyright (c) 2026 StaticHQ
// Source: github.com/statichq/sitemin

package sitemin

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"
)

// sanitizer validates raw, untrusted configuration values into safe
// typed ones. Invalid input never raises: it resolves to "absent"
// (ok == false) plus one warning, and the caller applies its default.
// nil input is "not configured", not "misconfigured", and stays silent.
type sanitizer struct {
	log *slog.Logger
}

// newSanitizer wraps a logger for validation warnings. A nil logger discards.
func newSanitizer(log *slog.Logger) sanitizer {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	return sanitizer{log: log}
}

// warn emits one structured validation warning under a category tag.
func (s sanitizer) warn(category, message string) {
	s.log.Warn(message, slog.String("category", category))
}

// info emits one structured informational line under a category tag.
func (s sanitizer) info(category, message string) {
	s.log.Info(message, slog.String("category", category))
}

// boolean validates one boolean option. Accepts literal booleans,
// "true"/"false", and the 1/0 forms as string or number.
func (s sanitizer) boolean(value any, key string) (bool, bool) {
	switch v := value.(type) {
	case nil:
		return false, false
	case bool:
		return v, true
	case string:
		switch v {
		case "true", "1":
			return true, true
		case "false", "0":
			return false, true
		}
	case int:
		if v == 1 || v == 0 {
			return v == 1, true
		}
	case int64:
		if v == 1 || v == 0 {
			return v == 1, true
		}
	case float64:
		if v == 1 || v == 0 {
			return v == 1, true
		}
	}

	s.warn("validation", fmt.Sprintf("invalid boolean for %q: %v", key, value))
	return false, false
}

// integer validates one numeric option within [min, max].
func (s sanitizer) integer(value any, key string, min, max int) (int, bool) {
	if value == nil {
		return 0, false
	}

	parsed, ok := coerceInt(value)
	if !ok {
		s.warn("validation", fmt.Sprintf("invalid integer for %q: %v", key, value))
		return 0, false
	}
	if parsed < min || parsed > max {
		s.warn("validation", fmt.Sprintf("integer for %q out of range [%d, %d]: %d", key, min, max, parsed))
		return 0, false
	}

	return parsed, true
}

// coerceInt converts common scalar representations to int.
func coerceInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v == float64(int(v)) {
			return int(v), true
		}
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err == nil {
			return parsed, true
		}
	}

	return 0, false
}

// str validates one string option, bounded by maxLen and free of
// control characters outside tab/newline/carriage-return. The control
// check defends against log injection and binary misconfiguration.
func (s sanitizer) str(value any, key string, maxLen int) (string, bool) {
	if value == nil {
		return "", false
	}

	text := stringify(value)
	if len(text) > maxLen {
		s.warn("validation", fmt.Sprintf("string for %q exceeds %d characters", key, maxLen))
		return "", false
	}
	if hasUnsafeControlChars(text) {
		s.warn("validation", fmt.Sprintf("string for %q contains control characters", key))
		return "", false
	}

	return text, true
}

// stringify renders a scalar through its default string representation.
func stringify(value any) string {
	if text, ok := value.(string); ok {
		return text
	}

	return fmt.Sprintf("%v", value)
}

// hasUnsafeControlChars reports whether text contains control bytes
// other than tab, newline, and carriage-return.
func hasUnsafeControlChars(text string) bool {
	for i := 0; i < len(text); i++ {
		b := text[i]
		if b == '\t' || b == '\n' || b == '\r' {
			continue
		}
		if b < 0x20 || b == 0x7f {
			return true
		}
	}

	return false
}

// array validates one array option into a bounded []string. Scalars
// coerce to a one-element array for backward compatibility. Oversized
// arrays are truncated, not rejected: availability over strictness.
// Unusable elements are filtered silently so one large array cannot
// spam per-element warnings.
func (s sanitizer) array(value any, key string, maxSize int) []string {
	if value == nil {
		return []string{}
	}

	var raw []any
	switch v := value.(type) {
	case []any:
		raw = v
	case []string:
		raw = make([]any, len(v))
		for i, elem := range v {
			raw[i] = elem
		}
	default:
		raw = []any{v}
	}

	if len(raw) > maxSize {
		s.warn("validation", fmt.Sprintf("array for %q truncated from %d to %d elements", key, len(raw), maxSize))
		raw = raw[:maxSize]
	}

	out := make([]string, 0, len(raw))
	for _, elem := range raw {
		if elem == nil {
			continue
		}

		text := stringify(elem)
		if text == "" || len(text) > maxSafeStringLength {
			continue
		}

		out = append(out, text)
	}

	return out
}

// hash validates one hash option. Oversized hashes are rejected, not
// truncated: a hash has no natural truncation order. Keys coerce to
// plain strings; empty keys drop silently. Values validate per type.
func (s sanitizer) hash(value any, key string, maxSize int) (map[string]any, bool) {
	if value == nil {
		return nil, false
	}

	raw, ok := coerceMap(value)
	if !ok {
		s.warn("validation", fmt.Sprintf("invalid hash for %q: %T", key, value))
		return nil, false
	}
	if len(raw) > maxSize {
		s.warn("validation", fmt.Sprintf("hash for %q exceeds %d entries", key, maxSize))
		return nil, false
	}

	out := make(map[string]any, len(raw))
	for name, entry := range raw {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		switch v := entry.(type) {
		case nil, bool, int, int64, float64:
			out[name] = v
		case string:
			if text, valid := s.str(v, key+"."+name, maxSafeStringLength); valid {
				out[name] = text
			}
		default:
			s.warn("validation", fmt.Sprintf("unsupported value type for %q.%s: %T", key, name, entry))
		}
	}

	return out, true
}

// coerceMap converts common map representations to map[string]any.
func coerceMap(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case map[string]any:
		return v, true
	case map[any]any:
		out := make(map[string]any, len(v))
		for name, entry := range v {
			out[stringify(name)] = entry
		}
		return out, true
	}

	return nil, false
}

// fileContent reports whether content is safe to hand to an engine:
// non-empty, within the 50 MiB bound, and valid UTF-8 text. It
// deliberately performs no structural validation (brace balance, JSON
// parse): engines have real parsers, and partial checks here reject
// legitimate files.
func (s sanitizer) fileContent(content []byte, fileType, filePath string) bool {
	if len(content) == 0 {
		return false
	}
	if len(content) > maxFileBytes {
		s.warn("content", fmt.Sprintf("%s file %s exceeds %d bytes, skipping", fileType, filePath, maxFileBytes))
		return false
	}
	if !utf8.Valid(content) {
		s.warn("content", fmt.Sprintf("%s file %s is not valid UTF-8, skipping", fileType, filePath))
		return false
	}

	return true
}

// filePath reports whether path is safe to write. Traversal-looking
// paths and NUL bytes are refused outright. Defense in depth only:
// no symlink resolution, no normalization.
func (s sanitizer) filePath(path string) bool {
	if path == "" {
		return false
	}
	if strings.Contains(path, "../") || strings.Contains(path, `..\`) || strings.Contains(path, "~/") {
		s.warn("path", fmt.Sprintf("refusing traversal-like path %q", path))
		return false
	}
	if strings.ContainsRune(path, 0) {
		s.warn("path", fmt.Sprintf("refusing path with NUL byte %q", path))
		return false
	}

	return true
}
