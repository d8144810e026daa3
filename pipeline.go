// SPDX-License-Identifier: MIT
// Copyright (c) 2026 StaticHQ
// Source: github.com/statichq/sitemin

package sitemin

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Pipeline is the write-boundary integration: for each output file it
// decides whether and how to compress before content reaches disk.
// Callers gate on ProductionEnv (or their own flag) before invoking;
// the pipeline itself assumes compression is wanted.
type Pipeline struct {
	cfg     *Config
	factory *Factory
	exclude *excludeMatcher
	s       sanitizer
}

// NewPipeline builds a pipeline over one validated configuration. A
// nil cache means a fresh private cache; passing a shared cache keeps
// compressor reuse across pipelines.
func NewPipeline(cfg *Config, cache *CompressorCache, log *slog.Logger) (*Pipeline, error) {
	if cfg == nil {
		cfg = NewConfig(nil, log)
	}

	exclude, err := newExcludeMatcher(cfg.ExcludePatterns())
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		cfg:     cfg,
		factory: NewFactory(cache, log),
		exclude: exclude,
		s:       newSanitizer(log),
	}, nil
}

// Config returns the pipeline's validated configuration.
func (p *Pipeline) Config() *Config { return p.cfg }

// Cache returns the underlying compressor cache for stats/teardown.
func (p *Pipeline) Cache() *CompressorCache { return p.factory.Cache() }

// Excluded reports whether path matches one configured exclusion glob.
func (p *Pipeline) Excluded(path string) bool {
	return p.exclude.Match(path)
}

// Process routes one output file through the minifier matching its
// extension and returns the content to write plus whether the write
// should proceed. Every recoverable failure passes the original
// content through; only a traversal-like path refuses the write.
func (p *Pipeline) Process(path string, content []byte) ([]byte, bool) {
	if !p.s.filePath(path) {
		return nil, false
	}
	if p.Excluded(path) {
		return content, true
	}

	text := string(content)
	var result Result
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		result = p.factory.CompressHTML(text, p.cfg, path)
	case ".xml":
		result = p.factory.CompressXML(text, p.cfg, path)
	case ".css":
		if !p.cfg.CompressCSS() {
			return content, true
		}
		result = p.factory.CompressCSS(text, p.cfg, path)
	case ".js", ".mjs":
		if !p.cfg.CompressJavascript() {
			return content, true
		}
		result = p.factory.CompressJS(text, p.cfg, path)
	case ".json":
		if !p.cfg.CompressJSON() {
			return content, true
		}
		result = p.factory.CompressJSON(text, p.cfg, path)
	default:
		return content, true
	}

	return []byte(result.Content), true
}

// ProductionEnv reports whether the build environment requests
// compression: SITEMIN_ENV, then JEKYLL_ENV for compatibility, set to
// "production".
func ProductionEnv() bool {
	for _, name := range []string{"SITEMIN_ENV", "JEKYLL_ENV"} {
		if os.Getenv(name) == "production" {
			return true
		}
	}

	return false
}
