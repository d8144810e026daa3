// SPDX-License-Identifier: MIT
// Copyright (c) 2026 StaticHQ
// Source: github.com/statichq/sitemin

/*
Package sitemin compresses a static site's HTML, CSS, JavaScript,
JSON, and XML output just before it is written to disk. It is designed
for hostile input: configuration is untrusted and validated
key-by-key, user regexes pass ReDoS heuristics and a compile timeout,
and every recoverable failure degrades to "write the original content"
instead of failing the build.

Validation rules (summary):
  - unknown option keys pass through; invalid values resolve to
    documented defaults with one warning each;
  - preserve/exclude options accept a bare scalar as a one-element
    array; oversized arrays truncate, oversized hashes reject;
  - content over 50 MiB or not valid UTF-8 is written uncompressed;
  - traversal-like output paths are refused outright.

# Configuration

Build a validated config from the site-wide map (the "minify" sub-map)
or from a raw option map directly:

	cfg := sitemin.ConfigFromSite(site, logger)
	cfg = sitemin.NewConfig(map[string]any{
	    "compress_css":      "true",
	    "preserve_patterns": []any{`<!-- PRESERVE -->.*?<!-- /PRESERVE -->`},
	    "terser_args":       map[string]any{"ecma": 2015},
	}, logger)

Legacy uglifier_args merge under terser_args (current name wins); the
deprecated harmony flag is always filtered.

# Compressing

The factory caches configured engine instances per effective
configuration, so per-file calls stay cheap:

	cache := sitemin.NewCompressorCache(logger)
	factory := sitemin.NewFactory(cache, logger)
	res := factory.CompressCSS(content, cfg, "assets/site.css")
	// res.Content is always writable; res.Minified reports success.

Cache lifecycle and statistics:

	stats := cache.Stats() // hits, misses, evictions
	ratio := cache.HitRatio()
	cache.ClearAll()

# Write pipeline

The pipeline dispatches on file extension, honors exclusion globs, and
refuses traversal-like paths:

	pipe, err := sitemin.NewPipeline(cfg, cache, logger)
	if err != nil {
	    return err
	}
	if sitemin.ProductionEnv() {
	    out, write := pipe.Process("index.html", content)
	    if write {
	        // write out to disk
	    }
	}

Engine invocations carry no internal timeout; only user-pattern
compilation is time-bounded. Bound engine calls externally if the
input is not trusted at all.
*/
package sitemin
