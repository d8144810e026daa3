// SPDX-License-Identifier: MIT
// Copyright (c) 2026 StaticHQ
// Source: github.com/statichq/sitemin

package sitemin

import (
	"fmt"
	"log/slog"
	"regexp"
)

// SiteConfigKey is the sub-map key holding minifier options inside the
// site-wide configuration.
const SiteConfigKey = "minify"

// Array and hash option keys handled outside the boolean table.
const (
	keyPreservePatterns = "preserve_patterns"
	keyExclude          = "exclude"
	keyTerserArgs       = "terser_args"
	keyUglifierArgs     = "uglifier_args" // legacy alias of terser_args
	keyPreservePHP      = "preserve_php"
)

// boolOptionDefaults enumerates every recognized boolean option with
// its documented default. One table plus one shared lookup replaces a
// hand-written accessor per toggle.
var boolOptionDefaults = map[string]bool{
	// HTML compressor toggles.
	"remove_comments":            true,
	"remove_multi_spaces":        false,
	"remove_spaces_inside_tags":  false,
	"remove_intertag_spaces":     false,
	"remove_quotes":              false,
	"simple_doctype":             false,
	"remove_script_attributes":   false,
	"remove_style_attributes":    false,
	"remove_link_attributes":     false,
	"remove_form_attributes":     false,
	"remove_input_attributes":    false,
	"remove_javascript_protocol": false,
	"remove_http_protocol":       false,
	"remove_https_protocol":      false,
	"preserve_line_breaks":       false,
	"simple_boolean_attributes":  false,
	"compress_js_templates":      false,

	// File-type toggles, enabled unless configured off.
	"compress_css":        true,
	"compress_javascript": true,
	"compress_json":       true,

	// PHP block preservation.
	keyPreservePHP: false,

	// Enhanced CSS mode and its sub-toggles. Only IE-hack
	// preservation defaults on.
	"css_enhanced_mode":        false,
	"css_preserve_ie_hacks":    true,
	"css_merge_media_queries":  false,
	"css_remove_empty_rules":   false,
	"css_optimize_colors":      false,
	"css_shorten_font_weights": false,
}

// phpPreserveRE is the fixed preserve pattern appended for preserve_php.
var phpPreserveRE = regexp.MustCompile(phpPreserveSource)

// Config is a validated, pre-computed view over one raw minifier
// configuration. Construction never fails: invalid entries resolve to
// defaults with a warning each. Instances are immutable after
// construction and safe to share across goroutines.
type Config struct {
	s        sanitizer
	opts     map[string]any
	terser   map[string]any
	preserve []CompiledPattern
}

// ConfigFromSite extracts the minifier sub-map from a site-wide
// configuration and validates it. An absent or non-map sub-map means
// defaults for everything.
func ConfigFromSite(site map[string]any, log *slog.Logger) *Config {
	if site == nil {
		return NewConfig(nil, log)
	}

	raw, _ := coerceMap(site[SiteConfigKey])
	return NewConfig(raw, log)
}

// NewConfig validates one raw option map into a Config. Recognized
// boolean keys are validated strictly; preserve_patterns and exclude
// pass through for access-time array coercion (strict validation here
// would break documented scalar-input behavior); terser/uglifier args
// run through the engine-args validator; unknown keys pass through
// untouched for forward compatibility.
func NewConfig(raw map[string]any, log *slog.Logger) *Config {
	s := newSanitizer(log)
	c := &Config{s: s, opts: make(map[string]any, len(raw))}

	var legacyArgs, currentArgs any
	for key, value := range raw {
		if len(key) > maxKeyLength {
			s.warn("config", fmt.Sprintf("dropping option with over-long key (%d chars)", len(key)))
			continue
		}

		switch {
		case key == keyTerserArgs:
			currentArgs = value
		case key == keyUglifierArgs:
			legacyArgs = value
		case key == keyPreservePatterns || key == keyExclude:
			c.opts[key] = value
		default:
			if _, known := boolOptionDefaults[key]; known {
				if v, ok := s.boolean(value, key); ok {
					c.opts[key] = v
				}
				continue
			}
			c.opts[key] = value
		}
	}

	c.terser = s.mergeEngineArgs(legacyArgs, currentArgs)
	c.preserve = CompilePreservePatterns(c.PreservePatterns(), log)
	return c
}

// Bool returns the validated value for one recognized boolean option,
// or its documented default when absent or invalid. Unknown keys
// report false.
func (c *Config) Bool(key string) bool {
	if v, ok := c.boolOption(key); ok {
		return v
	}

	return boolOptionDefaults[key]
}

// boolOption returns the validated boolean for key and whether it was
// present. Values in opts under table keys are always validated bools.
func (c *Config) boolOption(key string) (bool, bool) {
	v, ok := c.opts[key].(bool)
	return v, ok
}

// CompressCSS reports whether CSS files should be compressed.
func (c *Config) CompressCSS() bool { return c.Bool("compress_css") }

// CompressJavascript reports whether JS files should be compressed.
func (c *Config) CompressJavascript() bool { return c.Bool("compress_javascript") }

// CompressJSON reports whether JSON files should be compressed.
func (c *Config) CompressJSON() bool { return c.Bool("compress_json") }

// PreservePHP reports whether "<?php ... ?>" blocks must survive HTML
// compression.
func (c *Config) PreservePHP() bool { return c.Bool(keyPreservePHP) }

// CSSEnhancedMode reports whether the enhanced CSS pipeline is on.
func (c *Config) CSSEnhancedMode() bool { return c.Bool("css_enhanced_mode") }

// PreservePatterns returns the raw preserve pattern sources. A bare
// scalar coerces to a one-element array; absent means empty.
func (c *Config) PreservePatterns() []string {
	return c.s.array(c.opts[keyPreservePatterns], keyPreservePatterns, maxSafeArraySize)
}

// ExcludePatterns returns the exclusion globs with the same coercion
// rule as PreservePatterns.
func (c *Config) ExcludePatterns() []string {
	return c.s.array(c.opts[keyExclude], keyExclude, maxSafeArraySize)
}

// CompiledPreservePatterns returns the safety-checked compiled
// preserve patterns, in configuration order.
func (c *Config) CompiledPreservePatterns() []CompiledPattern {
	return c.preserve
}

// TerserArgs returns the merged, validated JS engine arguments, or nil
// when none validated. Legacy uglifier_args entries are overridden by
// terser_args on key collision; the deprecated harmony flag is always
// filtered.
func (c *Config) TerserArgs() map[string]any {
	return c.terser
}

// HasTerserArgs reports whether at least one validated, non-default JS
// engine argument is configured.
func (c *Config) HasTerserArgs() bool {
	return len(c.terser) > 0
}

// CSSOptions are the enhanced-CSS-mode sub-toggles.
type CSSOptions struct {
	PreserveIEHacks    bool
	MergeMediaQueries  bool
	RemoveEmptyRules   bool
	OptimizeColors     bool
	ShortenFontWeights bool
}

// CSSEnhancedOptions resolves the enhanced-CSS sub-toggles.
func (c *Config) CSSEnhancedOptions() CSSOptions {
	return CSSOptions{
		PreserveIEHacks:    c.Bool("css_preserve_ie_hacks"),
		MergeMediaQueries:  c.Bool("css_merge_media_queries"),
		RemoveEmptyRules:   c.Bool("css_remove_empty_rules"),
		OptimizeColors:     c.Bool("css_optimize_colors"),
		ShortenFontWeights: c.Bool("css_shorten_font_weights"),
	}
}

// HTMLOptions is the assembled HTML compressor argument set.
type HTMLOptions struct {
	RemoveComments           bool
	RemoveMultiSpaces        bool
	RemoveSpacesInsideTags   bool
	RemoveIntertagSpaces     bool
	RemoveQuotes             bool
	SimpleDoctype            bool
	RemoveScriptAttributes   bool
	RemoveStyleAttributes    bool
	RemoveLinkAttributes     bool
	RemoveFormAttributes     bool
	RemoveInputAttributes    bool
	RemoveJavascriptProtocol bool
	RemoveHTTPProtocol       bool
	RemoveHTTPSProtocol      bool
	PreserveLineBreaks       bool
	SimpleBooleanAttributes  bool
	CompressJSTemplates      bool

	// Inline sub-compression toggles.
	CompressCSS bool
	CompressJS  bool

	// PreservePatterns mark regions excluded from minification.
	PreservePatterns []CompiledPattern
}

// htmlToggleSetters binds each HTML option key to its field, consumed
// by one overlay loop instead of per-toggle plumbing.
var htmlToggleSetters = map[string]func(*HTMLOptions, bool){
	"remove_comments":            func(o *HTMLOptions, v bool) { o.RemoveComments = v },
	"remove_multi_spaces":        func(o *HTMLOptions, v bool) { o.RemoveMultiSpaces = v },
	"remove_spaces_inside_tags":  func(o *HTMLOptions, v bool) { o.RemoveSpacesInsideTags = v },
	"remove_intertag_spaces":     func(o *HTMLOptions, v bool) { o.RemoveIntertagSpaces = v },
	"remove_quotes":              func(o *HTMLOptions, v bool) { o.RemoveQuotes = v },
	"simple_doctype":             func(o *HTMLOptions, v bool) { o.SimpleDoctype = v },
	"remove_script_attributes":   func(o *HTMLOptions, v bool) { o.RemoveScriptAttributes = v },
	"remove_style_attributes":    func(o *HTMLOptions, v bool) { o.RemoveStyleAttributes = v },
	"remove_link_attributes":     func(o *HTMLOptions, v bool) { o.RemoveLinkAttributes = v },
	"remove_form_attributes":     func(o *HTMLOptions, v bool) { o.RemoveFormAttributes = v },
	"remove_input_attributes":    func(o *HTMLOptions, v bool) { o.RemoveInputAttributes = v },
	"remove_javascript_protocol": func(o *HTMLOptions, v bool) { o.RemoveJavascriptProtocol = v },
	"remove_http_protocol":       func(o *HTMLOptions, v bool) { o.RemoveHTTPProtocol = v },
	"remove_https_protocol":      func(o *HTMLOptions, v bool) { o.RemoveHTTPSProtocol = v },
	"preserve_line_breaks":       func(o *HTMLOptions, v bool) { o.PreserveLineBreaks = v },
	"simple_boolean_attributes":  func(o *HTMLOptions, v bool) { o.SimpleBooleanAttributes = v },
	"compress_js_templates":      func(o *HTMLOptions, v bool) { o.CompressJSTemplates = v },
}

// HTMLArgs assembles the HTML compressor options: base defaults
// (comments removed, inline CSS/JS compression on), explicit toggles
// overlaid, the PHP preserve pattern appended when preserve_php is
// set, and the compiled preserve patterns last.
func (c *Config) HTMLArgs() HTMLOptions {
	args := HTMLOptions{
		RemoveComments: true,
		CompressCSS:    true,
		CompressJS:     true,
	}

	for key, set := range htmlToggleSetters {
		if v, ok := c.boolOption(key); ok {
			set(&args, v)
		}
	}

	if c.PreservePHP() {
		args.PreservePatterns = append(args.PreservePatterns, CompiledPattern{
			Source: phpPreserveSource,
			Regexp: phpPreserveRE,
		})
	}
	args.PreservePatterns = append(args.PreservePatterns, c.preserve...)

	return args
}
