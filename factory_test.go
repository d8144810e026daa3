// SPDX-License-Identifier: MIT
// Copyright (c) 2026 StaticHQ
// Source: github.com/statichq/sitemin

package sitemin

import (
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestCompressCSS(t *testing.T) {
	t.Parallel()

	f := NewFactory(nil, nil)
	cfg := NewConfig(nil, nil)

	result := f.CompressCSS("a { color: red; }", cfg, "style.css")
	if result.Err != nil {
		t.Fatalf("CompressCSS: %v", result.Err)
	}
	if !result.Minified || result.Content != "a{color:red}" {
		t.Fatalf("result=%+v, want minified a{color:red}", result)
	}
}

func TestCompressJSON(t *testing.T) {
	t.Parallel()

	f := NewFactory(nil, nil)
	cfg := NewConfig(nil, nil)

	result := f.CompressJSON(`{ "a" : 1 }`, cfg, "data.json")
	if result.Err != nil {
		t.Fatalf("CompressJSON: %v", result.Err)
	}
	if !result.Minified || result.Content != `{"a":1}` {
		t.Fatalf("result=%+v, want minified {\"a\":1}", result)
	}
}

func TestCompressJS(t *testing.T) {
	t.Parallel()

	f := NewFactory(nil, nil)
	cfg := NewConfig(nil, nil)
	source := "var answer = 1 + 2;\nconsole.log( answer );\n"

	result := f.CompressJS(source, cfg, "app.js")
	if result.Err != nil {
		t.Fatalf("CompressJS: %v", result.Err)
	}
	if !result.Minified || len(result.Content) >= len(source) {
		t.Fatalf("result=%+v, want shorter minified output", result)
	}
	if !strings.Contains(result.Content, "console.log") {
		t.Fatalf("output %q lost the call expression", result.Content)
	}
}

func TestCompressJSEngineFailureFallsBack(t *testing.T) {
	t.Parallel()

	logger, captured := newTestLogger()
	f := NewFactory(nil, logger)
	cfg := NewConfig(nil, logger)
	source := "function ("

	result := f.CompressJS(source, cfg, "broken.js")
	if result.Err == nil {
		t.Fatal("invalid JS must surface the engine error")
	}
	if result.Minified || result.Content != source {
		t.Fatalf("result=%+v, want the original content back", result)
	}
	if !captured.contains("broken.js") {
		t.Fatal("engine failure must warn with the file path")
	}
}

func TestCompressSkipsInvalidContent(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		content   string
		wantWarns int
	}{
		{name: "empty", content: "", wantWarns: 1},
		{name: "oversized", content: strings.Repeat("a", maxFileBytes+1), wantWarns: 2},
		{name: "invalid utf8", content: "a{}\xff\xfe", wantWarns: 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			logger, captured := newTestLogger()
			f := NewFactory(nil, logger)
			cfg := NewConfig(nil, logger)

			result := f.CompressCSS(tc.content, cfg, "style.css")
			if result.Minified || result.Err != nil || result.Content != tc.content {
				t.Fatalf("result line mismatch: %+v", result)
			}
			if n := captured.count(slog.LevelWarn); n != tc.wantWarns {
				t.Fatalf("warnings=%d, want %d", n, tc.wantWarns)
			}
		})
	}
}

func TestCompressHTML(t *testing.T) {
	t.Parallel()

	f := NewFactory(nil, nil)
	cfg := NewConfig(nil, nil)
	source := "<p>  hello   world  </p>\n<!-- build note -->\n"

	result := f.CompressHTML(source, cfg, "index.html")
	if result.Err != nil {
		t.Fatalf("CompressHTML: %v", result.Err)
	}
	if !result.Minified {
		t.Fatalf("result=%+v, want minified", result)
	}
	if strings.Contains(result.Content, "build note") {
		t.Fatalf("output %q kept a comment with remove_comments on", result.Content)
	}
	if !strings.Contains(result.Content, "<p>") {
		t.Fatalf("output %q lost the paragraph", result.Content)
	}
}

func TestCompressHTMLKeepComments(t *testing.T) {
	t.Parallel()

	f := NewFactory(nil, nil)
	cfg := NewConfig(map[string]any{"remove_comments": false}, nil)

	result := f.CompressHTML("<p>x</p><!-- keep me -->", cfg, "index.html")
	if result.Err != nil {
		t.Fatalf("CompressHTML: %v", result.Err)
	}
	if !strings.Contains(result.Content, "keep me") {
		t.Fatalf("output %q dropped a comment with remove_comments off", result.Content)
	}
}

func TestCompressXML(t *testing.T) {
	t.Parallel()

	f := NewFactory(nil, nil)
	cfg := NewConfig(nil, nil)
	source := "<feed>\n  <entry>one</entry>\n</feed>\n"

	result := f.CompressXML(source, cfg, "feed.xml")
	if result.Err != nil {
		t.Fatalf("CompressXML: %v", result.Err)
	}
	if !result.Minified || len(result.Content) >= len(source) {
		t.Fatalf("result=%+v, want shorter minified output", result)
	}
	if !strings.Contains(result.Content, "<entry>one</entry>") {
		t.Fatalf("output %q lost the entry", result.Content)
	}
}

func TestCompressorReuseAcrossCalls(t *testing.T) {
	t.Parallel()

	f := NewFactory(nil, nil)
	plain := NewConfig(nil, nil)
	enhanced := NewConfig(map[string]any{"css_enhanced_mode": true}, nil)

	first, err := f.CSSCompressor(plain)
	if err != nil {
		t.Fatalf("CSSCompressor: %v", err)
	}
	second, err := f.CSSCompressor(plain)
	if err != nil {
		t.Fatalf("CSSCompressor: %v", err)
	}
	if first != second {
		t.Fatal("equal configurations must share one compressor instance")
	}

	third, err := f.CSSCompressor(enhanced)
	if err != nil {
		t.Fatalf("CSSCompressor enhanced: %v", err)
	}
	if third == first {
		t.Fatal("differing configurations must not share a compressor")
	}

	stats := f.Cache().Stats()
	if stats.Misses != 2 || stats.Hits != 1 {
		t.Fatalf("stats=%+v, want 2 misses and 1 hit", stats)
	}
}

func TestCompressorNilConfig(t *testing.T) {
	t.Parallel()

	f := NewFactory(nil, nil)

	if _, err := f.CSSCompressor(nil); !errors.Is(err, ErrNilConfig) {
		t.Fatalf("CSSCompressor(nil) err=%v, want ErrNilConfig", err)
	}
	if _, err := f.JSCompressor(nil); !errors.Is(err, ErrNilConfig) {
		t.Fatalf("JSCompressor(nil) err=%v, want ErrNilConfig", err)
	}
	if _, err := f.HTMLCompressor(nil); !errors.Is(err, ErrNilConfig) {
		t.Fatalf("HTMLCompressor(nil) err=%v, want ErrNilConfig", err)
	}
}

func TestJSCompressorHonorsMangleOff(t *testing.T) {
	t.Parallel()

	f := NewFactory(nil, nil)
	mangled := NewConfig(nil, nil)
	kept := NewConfig(map[string]any{"terser_args": map[string]any{"mangle": false}}, nil)
	source := "function add(firstOperand, secondOperand) { return firstOperand + secondOperand; }\nadd(1, 2);\n"

	withMangle := f.CompressJS(source, mangled, "a.js")
	withoutMangle := f.CompressJS(source, kept, "b.js")
	if withMangle.Err != nil || withoutMangle.Err != nil {
		t.Fatalf("errs: %v / %v", withMangle.Err, withoutMangle.Err)
	}
	if !strings.Contains(withoutMangle.Content, "firstOperand") {
		t.Fatalf("output %q renamed variables with mangle off", withoutMangle.Content)
	}
}
