// Package cleaner removes generated build artifacts.
package cleaner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/texmk/internal/core/ports"
	"go.trai.ch/texmk/internal/engine/materialize"
	"go.trai.ch/zerr"
)

// Cleaner implements ports.Cleaner by glob-matching configured artifact
// patterns next to the root file and in the output directory.
type Cleaner struct {
	logger ports.Logger
	config ports.ConfigLoader
}

// New creates a new Cleaner.
func New(logger ports.Logger, config ports.ConfigLoader) *Cleaner {
	return &Cleaner{logger: logger, config: config}
}

// Clean removes the configured artifact patterns for the given root file.
// Individual removal failures are logged and skipped.
func (c *Cleaner) Clean(ctx context.Context, rootFile string) error {
	cfg, err := c.config.Load(filepath.Dir(rootFile))
	if err != nil {
		return zerr.Wrap(err, "cannot load configuration for clean")
	}

	dirs := []string{filepath.Dir(rootFile)}
	if out := materialize.OutDir(rootFile, cfg); out != dirs[0] {
		dirs = append(dirs, out)
	}

	base := strings.TrimSuffix(filepath.Base(rootFile), filepath.Ext(rootFile))
	removed := 0
	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, pattern := range cfg.Clean.FileTypes {
			// Document-scoped patterns: a leading * refers to the root
			// file's own base name, not to every file in the directory.
			pattern = strings.Replace(pattern, "*", base, 1)
			matches, err := filepath.Glob(filepath.Join(dir, pattern))
			if err != nil {
				return zerr.With(zerr.Wrap(err, "bad clean pattern"), "pattern", pattern)
			}
			for _, m := range matches {
				if err := os.Remove(m); err != nil {
					c.logger.Warn(fmt.Sprintf("cannot remove %s: %v", m, err))
					continue
				}
				removed++
			}
		}
	}

	c.logger.Info(fmt.Sprintf("cleaned %d generated files", removed))
	return nil
}
