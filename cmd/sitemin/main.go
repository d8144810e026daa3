// SPDX-License-Identifier: MIT
// Copyright (c) 2026 StaticHQ
// Source: github.com/statichq/sitemin

// Command sitemin minifies a generated site directory in place.
package main

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"

	"github.com/statichq/sitemin"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		env        string
		dryRun     bool
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "sitemin [flags] <site-dir>",
		Short: "Minify HTML, CSS, JS, JSON, and XML output of a static site",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			production := env == "production" || (env == "" && sitemin.ProductionEnv())
			if !production {
				logger.Info("not a production build, skipping minification")
				return nil
			}

			site, err := loadSiteConfig(configPath)
			if err != nil {
				return err
			}

			pipe, err := sitemin.NewPipeline(sitemin.ConfigFromSite(site, logger), nil, logger)
			if err != nil {
				return err
			}

			processed, err := minifyTree(pipe, args[0], dryRun)
			if err != nil {
				return err
			}

			stats := pipe.Cache().Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "minified %d files (cache: %d hits, %d misses, %d evictions)\n",
				processed, stats.Hits, stats.Misses, stats.Evictions)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "site configuration YAML (reads the \"minify\" section)")
	cmd.Flags().StringVar(&env, "env", "", "force environment (\"production\" enables minification)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would change without rewriting files")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	return cmd
}

// loadSiteConfig parses the site YAML into a raw untrusted map. A
// missing --config means defaults for everything.
func loadSiteConfig(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(raw), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return k.Raw(), nil
}

// minifiableExts gates the walk before content is even read.
var minifiableExts = map[string]struct{}{
	".html": {}, ".htm": {}, ".css": {}, ".js": {}, ".mjs": {}, ".json": {}, ".xml": {},
}

// minifyTree walks dir and rewrites every eligible file in place,
// returning how many files were processed.
func minifyTree(pipe *sitemin.Pipeline, dir string, dryRun bool) (int, error) {
	processed := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := minifiableExts[filepath.Ext(path)]; !ok {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		out, write := pipe.Process(path, content)
		if !write {
			return nil
		}

		processed++
		if dryRun || len(out) == len(content) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}

		if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		return nil
	})

	return processed, err
}
