// SPDX-License-Identifier: MIT
// Copyright (c) 2026 StaticHQ
// Source: github.com/statichq/sitemin

package sitemin

import (
	"bytes"
	"testing"
)

func newTestPipeline(t *testing.T, raw map[string]any) *Pipeline {
	t.Helper()

	pipe, err := NewPipeline(NewConfig(raw, nil), nil, nil)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}

	return pipe
}

func TestPipelineProcessDispatch(t *testing.T) {
	t.Parallel()

	pipe := newTestPipeline(t, nil)

	testCases := []struct {
		name    string
		path    string
		content string
		want    string
	}{
		{name: "css", path: "assets/site.css", content: "a { color: red; }", want: "a{color:red}"},
		{name: "css uppercase ext", path: "assets/site.CSS", content: "a { color: red; }", want: "a{color:red}"},
		{name: "json", path: "feed.json", content: `{ "a" : 1 }`, want: `{"a":1}`},
		{name: "text passthrough", path: "robots.txt", content: "User-agent: *\n", want: "User-agent: *\n"},
		{name: "no extension", path: "CNAME", content: "example.com\n", want: "example.com\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			out, write := pipe.Process(tc.path, []byte(tc.content))
			if !write {
				t.Fatal("Process refused the write")
			}
			if string(out) != tc.want {
				t.Fatalf("Process(%q)=%q, want %q", tc.path, out, tc.want)
			}
		})
	}
}

func TestPipelineProcessShrinksMarkup(t *testing.T) {
	t.Parallel()

	pipe := newTestPipeline(t, nil)

	for path, content := range map[string]string{
		"index.html": "<p>  spaced   out  </p>\n<!-- note -->\n",
		"feed.xml":   "<feed>\n  <entry>one</entry>\n</feed>\n",
		"app.js":     "var answer = 1 + 2;\nconsole.log( answer );\n",
	} {
		out, write := pipe.Process(path, []byte(content))
		if !write {
			t.Fatalf("Process(%q) refused the write", path)
		}
		if len(out) >= len(content) {
			t.Errorf("Process(%q) produced %d bytes, want fewer than %d", path, len(out), len(content))
		}
	}
}

func TestPipelineRefusesTraversalPaths(t *testing.T) {
	t.Parallel()

	pipe := newTestPipeline(t, nil)

	for _, path := range []string{"../outside.css", `..\outside.css`, "~/outside.css", "bad\x00.css"} {
		out, write := pipe.Process(path, []byte("a{}"))
		if write || out != nil {
			t.Errorf("Process(%q)=(%q, %v), want refused write", path, out, write)
		}
	}
}

func TestPipelineExcludedPassthrough(t *testing.T) {
	t.Parallel()

	pipe := newTestPipeline(t, map[string]any{"exclude": "*.min.css"})
	content := []byte("a { color: red; }\n")

	out, write := pipe.Process("assets/app.min.css", content)
	if !write || !bytes.Equal(out, content) {
		t.Fatalf("excluded file got (%q, %v), want untouched passthrough", out, write)
	}
	if !pipe.Excluded("assets/app.min.css") {
		t.Fatal("Excluded() must report the match")
	}

	out, write = pipe.Process("assets/app.css", content)
	if !write || bytes.Equal(out, content) {
		t.Fatalf("non-excluded file got (%q, %v), want compression", out, write)
	}
}

func TestPipelineTypeTogglesOff(t *testing.T) {
	t.Parallel()

	pipe := newTestPipeline(t, map[string]any{
		"compress_css":        false,
		"compress_javascript": false,
		"compress_json":       false,
	})

	for path, content := range map[string]string{
		"site.css":  "a { color: red; }",
		"app.js":    "var x = 1;",
		"data.json": `{ "a" : 1 }`,
	} {
		out, write := pipe.Process(path, []byte(content))
		if !write || string(out) != content {
			t.Errorf("Process(%q)=(%q, %v), want passthrough with the type off", path, out, write)
		}
	}
}

func TestProductionEnv(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
		want bool
	}{
		{name: "unset", env: map[string]string{"SITEMIN_ENV": "", "JEKYLL_ENV": ""}, want: false},
		{name: "development", env: map[string]string{"SITEMIN_ENV": "development", "JEKYLL_ENV": ""}, want: false},
		{name: "sitemin production", env: map[string]string{"SITEMIN_ENV": "production", "JEKYLL_ENV": ""}, want: true},
		{name: "jekyll production", env: map[string]string{"SITEMIN_ENV": "", "JEKYLL_ENV": "production"}, want: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for name, value := range tc.env {
				t.Setenv(name, value)
			}

			if got := ProductionEnv(); got != tc.want {
				t.Fatalf("ProductionEnv()=%v, want %v", got, tc.want)
			}
		})
	}
}
