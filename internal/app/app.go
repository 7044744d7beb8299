// Package app implements the application layer for texmk.
package app

import (
	"context"
	"fmt"
	"path/filepath"

	"go.trai.ch/texmk/internal/adapters/watcher"
	"go.trai.ch/texmk/internal/core/domain"
	"go.trai.ch/texmk/internal/core/ports"
	"go.trai.ch/texmk/internal/engine/orchestrator"
	"go.trai.ch/zerr"
)

// App ties the configuration loader, the orchestrator, and the cleaner to
// the CLI surface.
type App struct {
	logger       ports.Logger
	configLoader ports.ConfigLoader
	orchestrator *orchestrator.Orchestrator
	cleaner      ports.Cleaner
}

// New creates a new App instance.
func New(logger ports.Logger, loader ports.ConfigLoader, orch *orchestrator.Orchestrator, cleaner ports.Cleaner) *App {
	return &App{
		logger:       logger,
		configLoader: loader,
		orchestrator: orch,
		cleaner:      cleaner,
	}
}

// Build runs one build of the given root file, optionally with a named
// recipe.
func (a *App) Build(ctx context.Context, rootFile, recipeName string) error {
	req, cfg, err := a.prepare(rootFile, recipeName)
	if err != nil {
		return err
	}
	return a.orchestrator.Build(ctx, req, cfg)
}

// Watch builds the root file on every debounced source change until the
// context is done.
func (a *App) Watch(ctx context.Context, rootFile string) error {
	req, cfg, err := a.prepare(rootFile, "")
	if err != nil {
		return err
	}

	w, err := watcher.New(a.logger, cfg.Watch.Interval, func(paths []string) {
		a.logger.Info(fmt.Sprintf("%d source files changed, rebuilding", len(paths)))
		// A save burst landing mid-build is rejected by the admission
		// gate; the next save will pick the changes up.
		if err := a.orchestrator.Build(ctx, req, cfg); err != nil {
			a.logger.Error(err)
		}
	})
	if err != nil {
		return zerr.Wrap(err, "cannot create watcher")
	}
	defer w.Stop() //nolint:errcheck // best effort close on shutdown

	if err := w.Start(ctx, filepath.Dir(req.RootFile)); err != nil {
		return zerr.Wrap(err, "cannot start watcher")
	}

	a.logger.Info(fmt.Sprintf("watching %s", filepath.Dir(req.RootFile)))
	if err := a.orchestrator.Build(ctx, req, cfg); err != nil {
		return err
	}

	<-ctx.Done()
	// Shutdown must not leave an in-flight step behind; context
	// cancellation alone does not reach a build started before Done.
	a.Kill()
	return nil
}

// Clean removes generated artifacts for the root file.
func (a *App) Clean(ctx context.Context, rootFile string) error {
	abs, err := filepath.Abs(rootFile)
	if err != nil {
		return zerr.Wrap(err, "cannot resolve root file path")
	}
	return a.cleaner.Clean(ctx, abs)
}

// RunExternal executes a single raw command line through the build gates.
func (a *App) RunExternal(ctx context.Context, cmdline, cwd string) error {
	return a.orchestrator.RunExternal(ctx, cmdline, cwd)
}

// Kill terminates the currently running build step, if any.
func (a *App) Kill() {
	a.orchestrator.Kill()
}

func (a *App) prepare(rootFile, recipeName string) (domain.BuildRequest, *domain.Config, error) {
	abs, err := filepath.Abs(rootFile)
	if err != nil {
		return domain.BuildRequest{}, nil, zerr.Wrap(err, "cannot resolve root file path")
	}

	cfg, err := a.configLoader.Load(filepath.Dir(abs))
	if err != nil {
		return domain.BuildRequest{}, nil, zerr.Wrap(err, "failed to load configuration")
	}

	return domain.BuildRequest{
		RootFile:   abs,
		LanguageID: domain.LanguageForFile(abs),
		RecipeName: recipeName,
	}, cfg, nil
}
