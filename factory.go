// SPDX-License-Identifier: MIT
// Copyright (c) 2026 StaticHQ
// Source: github.com/statichq/sitemin

package sitemin

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"github.com/tdewolff/minify/v2/json"
	"github.com/tdewolff/minify/v2/xml"
)

// Media types registered with the engines.
const (
	mediaCSS  = "text/css"
	mediaJS   = "application/javascript"
	mediaHTML = "text/html"
	mediaJSON = "application/json"
	mediaXML  = "text/xml"
)

// genericMinifier handles the cheap stateless formats. JSON and XML
// minification carries no per-config state, so it bypasses the cache.
var genericMinifier = newGenericMinifier()

func newGenericMinifier() *minify.M {
	m := minify.New()
	m.AddFunc(mediaJSON, json.Minify)
	m.AddFunc(mediaXML, xml.Minify)
	return m
}

// Result is one compression outcome. Content always holds writable
// output: the minified form on success, the original content on any
// failure. Err records what went wrong for logging and tests; it never
// means "nothing to write".
type Result struct {
	Content  string
	Minified bool
	Err      error
}

// Factory is the only component that touches the compression engines.
// It builds (or retrieves from cache) configured compressor instances
// and exposes the validate-compress-fallback entry points.
type Factory struct {
	cache *CompressorCache
	s     sanitizer
}

// NewFactory binds a compressor cache and a warning sink.
func NewFactory(cache *CompressorCache, log *slog.Logger) *Factory {
	if cache == nil {
		cache = NewCompressorCache(log)
	}

	return &Factory{cache: cache, s: newSanitizer(log)}
}

// Cache exposes the underlying compressor cache for stats, teardown,
// and tests.
func (f *Factory) Cache() *CompressorCache { return f.cache }

// CSSCompressor returns the cached CSS compressor for cfg's relevant
// option slice, constructing one on first use.
func (f *Factory) CSSCompressor(cfg *Config) (*CSSCompressor, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	cached, err := f.cache.GetOrCreate(TypeCSS, GenerateCacheKey(cssKeySubset(cfg)), func() (any, error) {
		return newCSSCompressor(cfg)
	})
	if err != nil {
		return nil, err
	}

	return cached.(*CSSCompressor), nil
}

// JSCompressor returns the cached JS compressor for cfg's engine args.
func (f *Factory) JSCompressor(cfg *Config) (*JSCompressor, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	cached, err := f.cache.GetOrCreate(TypeJS, GenerateCacheKey(jsKeySubset(cfg)), func() (any, error) {
		return newJSCompressor(cfg)
	})
	if err != nil {
		return nil, err
	}

	return cached.(*JSCompressor), nil
}

// HTMLCompressor returns the cached HTML compressor. Its key covers
// the HTML toggles plus both sub-compressor slices; its factory builds
// fresh CSS/JS sub-minifiers through the lock-free constructors rather
// than re-entering the cache.
func (f *Factory) HTMLCompressor(cfg *Config) (*HTMLCompressor, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	cached, err := f.cache.GetOrCreate(TypeHTML, GenerateCacheKey(htmlKeySubset(cfg)), func() (any, error) {
		return newHTMLCompressor(cfg)
	})
	if err != nil {
		return nil, err
	}

	return cached.(*HTMLCompressor), nil
}

// CompressCSS validates and compresses one CSS file. Validation or
// engine failure returns the original content; only compressor
// construction errors indicate a real integration problem.
func (f *Factory) CompressCSS(content string, cfg *Config, filePath string) Result {
	if !f.s.fileContent([]byte(content), "css", filePath) {
		f.s.warn("compress", fmt.Sprintf("skipping CSS compression for %s", filePath))
		return Result{Content: content}
	}

	compressor, err := f.CSSCompressor(cfg)
	if err != nil {
		return Result{Content: content, Err: err}
	}

	out, err := compressor.Compress(content)
	if err != nil {
		f.s.warn("compress", fmt.Sprintf("CSS compression failed for %s: %v", filePath, err))
		return Result{Content: content, Err: err}
	}

	return Result{Content: out, Minified: true}
}

// CompressJS validates and compresses one JavaScript file.
func (f *Factory) CompressJS(content string, cfg *Config, filePath string) Result {
	if !f.s.fileContent([]byte(content), "js", filePath) {
		f.s.warn("compress", fmt.Sprintf("skipping JS compression for %s", filePath))
		return Result{Content: content}
	}

	compressor, err := f.JSCompressor(cfg)
	if err != nil {
		return Result{Content: content, Err: err}
	}

	out, err := compressor.Compile(content)
	if err != nil {
		f.s.warn("compress", fmt.Sprintf("JS compression failed for %s: %v", filePath, err))
		return Result{Content: content, Err: err}
	}

	return Result{Content: out, Minified: true}
}

// CompressJSON validates and minifies one JSON file.
func (f *Factory) CompressJSON(content string, cfg *Config, filePath string) Result {
	if !f.s.fileContent([]byte(content), "json", filePath) {
		f.s.warn("compress", fmt.Sprintf("skipping JSON compression for %s", filePath))
		return Result{Content: content}
	}

	out, err := genericMinifier.String(mediaJSON, content)
	if err != nil {
		f.s.warn("compress", fmt.Sprintf("JSON compression failed for %s: %v", filePath, err))
		return Result{Content: content, Err: err}
	}

	return Result{Content: out, Minified: true}
}

// CompressHTML validates and compresses one HTML file, honoring the
// configured preserve patterns.
func (f *Factory) CompressHTML(content string, cfg *Config, filePath string) Result {
	if !f.s.fileContent([]byte(content), "html", filePath) {
		f.s.warn("compress", fmt.Sprintf("skipping HTML compression for %s", filePath))
		return Result{Content: content}
	}

	compressor, err := f.HTMLCompressor(cfg)
	if err != nil {
		return Result{Content: content, Err: err}
	}

	out, err := compressor.Compress(content)
	if err != nil {
		f.s.warn("compress", fmt.Sprintf("HTML compression failed for %s: %v", filePath, err))
		return Result{Content: content, Err: err}
	}

	return Result{Content: out, Minified: true}
}

// CompressXML validates and minifies one XML file. Preserve patterns
// apply the same way they do for HTML.
func (f *Factory) CompressXML(content string, cfg *Config, filePath string) Result {
	if !f.s.fileContent([]byte(content), "xml", filePath) {
		f.s.warn("compress", fmt.Sprintf("skipping XML compression for %s", filePath))
		return Result{Content: content}
	}

	patterns := cfg.HTMLArgs().PreservePatterns
	extracted, saved := extractPreserved(content, patterns)
	out, err := genericMinifier.String(mediaXML, extracted)
	if err != nil {
		f.s.warn("compress", fmt.Sprintf("XML compression failed for %s: %v", filePath, err))
		return Result{Content: content, Err: err}
	}

	return Result{Content: restorePreserved(out, saved), Minified: true}
}

// CSSCompressor wraps a configured CSS engine.
type CSSCompressor struct {
	m        *minify.M
	enhanced bool
	opts     CSSOptions
}

// newCSSCompressor constructs a CSS compressor without touching the
// cache, safe to call from inside a cache factory.
func newCSSCompressor(cfg *Config) (*CSSCompressor, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	m := minify.New()
	m.Add(mediaCSS, &css.Minifier{})
	return &CSSCompressor{
		m:        m,
		enhanced: cfg.CSSEnhancedMode(),
		opts:     cfg.CSSEnhancedOptions(),
	}, nil
}

// Compress minifies one CSS source.
func (c *CSSCompressor) Compress(content string) (string, error) {
	if c.enhanced {
		return c.compressEnhanced(content)
	}

	return c.m.String(mediaCSS, content)
}

// JSCompressor wraps a configured JavaScript engine.
type JSCompressor struct {
	m *minify.M
}

// newJSCompressor constructs a JS compressor without touching the
// cache. Recognized engine args map onto the engine: ecma selects the
// language version, mangle=false keeps variable names.
func newJSCompressor(cfg *Config) (*JSCompressor, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	engine := &js.Minifier{}
	if args := cfg.TerserArgs(); args != nil {
		if version, ok := args["ecma"].(int); ok {
			engine.Version = version
		}
		if mangle, ok := args["mangle"].(bool); ok && !mangle {
			engine.KeepVarNames = true
		}
	}

	m := minify.New()
	m.Add(mediaJS, engine)
	return &JSCompressor{m: m}, nil
}

// Compile minifies one JavaScript source.
func (c *JSCompressor) Compile(content string) (string, error) {
	return c.m.String(mediaJS, content)
}

// HTMLCompressor wraps a configured HTML engine with inline CSS/JS
// sub-compression and preserve-pattern support.
type HTMLCompressor struct {
	m    *minify.M
	opts HTMLOptions
}

// newHTMLCompressor constructs an HTML compressor without touching the
// cache. Inline style/script minification registers fresh CSS/JS
// engines on the same instance.
func newHTMLCompressor(cfg *Config) (*HTMLCompressor, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	opts := cfg.HTMLArgs()
	m := minify.New()
	m.Add(mediaHTML, &html.Minifier{
		KeepComments:        !opts.RemoveComments,
		KeepQuotes:          !opts.RemoveQuotes,
		KeepWhitespace:      opts.PreserveLineBreaks,
		KeepDefaultAttrVals: !opts.SimpleBooleanAttributes,
		KeepDocumentTags:    true,
		KeepEndTags:         true,
	})
	if opts.CompressCSS {
		m.Add(mediaCSS, &css.Minifier{})
	}
	if opts.CompressJS {
		m.Add(mediaJS, &js.Minifier{})
	}

	return &HTMLCompressor{m: m, opts: opts}, nil
}

// Compress minifies one HTML document: preserve-pattern regions are
// swapped for placeholder tokens, the engine runs, and the regions are
// restored verbatim.
func (c *HTMLCompressor) Compress(content string) (string, error) {
	extracted, saved := extractPreserved(content, c.opts.PreservePatterns)
	out, err := c.m.String(mediaHTML, extracted)
	if err != nil {
		return "", err
	}

	return restorePreserved(out, saved), nil
}

// cssKeySubset is the configuration slice the CSS compressor depends on.
func cssKeySubset(cfg *Config) map[string]any {
	opts := cfg.CSSEnhancedOptions()
	return map[string]any{
		"enhanced":     cfg.CSSEnhancedMode(),
		"ie_hacks":     opts.PreserveIEHacks,
		"merge_media":  opts.MergeMediaQueries,
		"empty_rules":  opts.RemoveEmptyRules,
		"colors":       opts.OptimizeColors,
		"font_weights": opts.ShortenFontWeights,
	}
}

// jsKeySubset is the configuration slice the JS compressor depends on.
// Map rendering in GenerateCacheKey is key-sorted, so nested hashes
// stay deterministic.
func jsKeySubset(cfg *Config) map[string]any {
	args := cfg.TerserArgs()
	if len(args) == 0 {
		return nil
	}

	subset := make(map[string]any, len(args))
	for name, value := range args {
		subset[name] = value
	}

	return subset
}

// htmlKeySubset covers the HTML toggles, the preserve pattern sources,
// and both sub-compressor slices.
func htmlKeySubset(cfg *Config) map[string]any {
	opts := cfg.HTMLArgs()
	sources := make([]string, 0, len(opts.PreservePatterns))
	for _, pattern := range opts.PreservePatterns {
		sources = append(sources, pattern.Source)
	}
	sort.Strings(sources)

	return map[string]any{
		"remove_comments":      opts.RemoveComments,
		"remove_multi_spaces":  opts.RemoveMultiSpaces,
		"remove_quotes":        opts.RemoveQuotes,
		"preserve_line_breaks": opts.PreserveLineBreaks,
		"simple_bool_attrs":    opts.SimpleBooleanAttributes,
		"compress_css":         opts.CompressCSS,
		"compress_js":          opts.CompressJS,
		"preserve":             strings.Join(sources, ","),
		"css":                  GenerateCacheKey(cssKeySubset(cfg)),
		"js":                   GenerateCacheKey(jsKeySubset(cfg)),
	}
}
