// Package orchestrator implements the top-level build state machine. It
// serializes build requests, walks the resolved step list through the
// process supervisor, applies the retry-on-failure policy, and fires
// post-build notifications.
package orchestrator

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.trai.ch/texmk/internal/core/domain"
	"go.trai.ch/texmk/internal/core/ports"
	"go.trai.ch/texmk/internal/engine/materialize"
	"go.trai.ch/texmk/internal/engine/recipe"
	"go.trai.ch/zerr"
	"golang.org/x/sync/semaphore"
)

// rawCommandPause is the fixed window waited after a raw external command
// finishes, giving the toolchain time to flush its artifacts before the
// viewer is refreshed.
const rawCommandPause = 500 * time.Millisecond

// compilerLogName is the capture file for raw compiler output, created in
// the scratch directory.
const compilerLogName = "compiler.log"

// Orchestrator owns the build serialization gates, the last-used recipe
// memory, and the scratch directory for one engine instance.
type Orchestrator struct {
	logger       ports.Logger
	status       ports.StatusReporter
	viewer       ports.Viewer
	cleaner      ports.Cleaner
	supervisor   ports.Supervisor
	resolver     *recipe.Resolver
	materializer *materialize.Materializer

	// admission is the fail-fast gate: it covers only the wait for the
	// build gate, so a request is rejected exactly when another request
	// is already past admission and waiting.
	admission *semaphore.Weighted
	buildMu   sync.Mutex

	memory     recipe.Memory
	scratchDir string
	logPath    string
	sink       io.Writer
}

// New creates an Orchestrator with a private scratch directory. It fails
// when the platform temp path cannot host one, including the case of quote
// characters in the path, which would break shell-quoted invocation later.
func New(
	logger ports.Logger,
	status ports.StatusReporter,
	viewer ports.Viewer,
	cleaner ports.Cleaner,
	supervisor ports.Supervisor,
	resolver *recipe.Resolver,
	materializer *materialize.Materializer,
	sink io.Writer,
) (*Orchestrator, error) {
	scratch, err := makeScratchDir()
	if err != nil {
		return nil, err
	}

	logPath := filepath.Join(scratch, compilerLogName)
	logFile, err := os.Create(logPath) //nolint:gosec // path is under our own scratch dir
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "cannot create compiler log"), "path", logPath)
	}

	if sink == nil {
		sink = io.Discard
	}

	return &Orchestrator{
		logger:       logger,
		status:       status,
		viewer:       viewer,
		cleaner:      cleaner,
		supervisor:   supervisor,
		resolver:     resolver,
		materializer: materializer,
		admission:    semaphore.NewWeighted(1),
		scratchDir:   scratch,
		logPath:      logPath,
		sink:         io.MultiWriter(sink, logFile),
	}, nil
}

func makeScratchDir() (string, error) {
	dir, err := os.MkdirTemp("", "texmk-")
	if err != nil {
		return "", zerr.Wrap(err, "cannot create scratch directory")
	}
	if strings.ContainsAny(dir, `"'`) {
		return "", zerr.With(domain.ErrScratchDirUnusable, "path", dir)
	}
	return dir, nil
}

// ScratchDir returns the orchestrator's private scratch directory.
func (o *Orchestrator) ScratchDir() string { return o.scratchDir }

// LogPath returns the path of the captured compiler output.
func (o *Orchestrator) LogPath() string { return o.logPath }

// attempt is the transient state of one build invocation. It lives only
// for the duration of the build and is never shared between invocations.
type attempt struct {
	steps   []domain.Step
	index   int
	retried bool
	cwd     string
}

// Build runs one build request to completion.
//
// Toolchain-level failures (resolution errors, failing steps) are handled
// locally through the status and log channels and return nil; only
// setup-phase failures during filesystem preparation propagate as errors.
func (o *Orchestrator) Build(ctx context.Context, req domain.BuildRequest, cfg *domain.Config) error {
	if !o.admission.TryAcquire(1) {
		o.logger.Info("another build request is already waiting, dropping this one")
		return nil
	}

	o.buildMu.Lock()
	defer o.buildMu.Unlock()
	// The waiting slot frees up as soon as the build gate is held, so
	// exactly one follow-up request may line up behind a running build.
	o.admission.Release(1)

	o.status.Busy("")

	steps, err := o.resolver.Resolve(req, cfg, &o.memory)
	if err != nil {
		o.logger.Error(err)
		o.status.Failure()
		o.status.Notify(fmt.Sprintf("recipe resolution failed: %v", err))
		return nil
	}
	if len(steps) == 0 {
		o.logger.Warn("resolved recipe has no steps, nothing to do")
		o.status.Success()
		return nil
	}

	steps = o.materializer.Materialize(steps, req.RootFile, o.scratchDir, cfg)

	outDir := materialize.OutDir(req.RootFile, cfg)
	if err := o.prepareOutDir(req.RootFile, outDir); err != nil {
		o.logger.Error(err)
		o.status.Failure()
		return err
	}

	o.runAttempt(ctx, req, cfg, &attempt{
		steps: steps,
		cwd:   filepath.Dir(req.RootFile),
	}, outDir)
	return nil
}

// runAttempt walks the step list through the supervisor, restarting the
// whole recipe at most once under the clean-and-retry policy.
func (o *Orchestrator) runAttempt(ctx context.Context, req domain.BuildRequest, cfg *domain.Config, a *attempt, outDir string) {
	for a.index < len(a.steps) {
		step := &a.steps[a.index]
		o.status.Busy(progressLabel(a.index, a.steps))
		o.logger.Info(fmt.Sprintf("running step %d/%d: %s", a.index+1, len(a.steps), step.Name))

		outcome := o.supervisor.Run(ctx, step, a.cwd, o.sink)
		switch outcome.Kind {
		case domain.OutcomeSpawnFailure:
			o.fail(ctx, req, cfg, fmt.Sprintf("cannot start %s", step.Name))
			return

		case domain.OutcomeExitFailure:
			if cfg.CleanAndRetry && !a.retried && !outcome.Killed() {
				a.retried = true
				o.logger.Info("cleaning generated artifacts and restarting the recipe")
				if err := o.cleaner.Clean(ctx, req.RootFile); err != nil {
					o.logger.Warn(fmt.Sprintf("clean before retry failed: %v", err))
				}
				a.index = 0
				continue
			}
			o.fail(ctx, req, cfg, fmt.Sprintf("%s failed with exit code %d", step.Name, outcome.ExitCode))
			return

		case domain.OutcomeSucceeded:
			a.index++
		}
	}

	o.succeed(ctx, req, cfg, outDir)
}

func (o *Orchestrator) succeed(ctx context.Context, req domain.BuildRequest, cfg *domain.Config, outDir string) {
	o.logger.Info("build finished")
	o.status.Success()

	if cfg.View.ForwardSearchAfter {
		o.viewer.ForwardSearch(pdfPath(req.RootFile, outDir))
	}
	o.autoClean(ctx, req, cfg, true)
	o.viewer.Refresh()
}

func (o *Orchestrator) fail(ctx context.Context, req domain.BuildRequest, cfg *domain.Config, msg string) {
	o.logger.Error(zerr.With(domain.ErrBuildExecutionFailed, "reason", msg))
	o.status.Failure()
	o.status.Notify(fmt.Sprintf("%s, see %s", msg, o.logPath))
	o.autoClean(ctx, req, cfg, false)
}

func (o *Orchestrator) autoClean(ctx context.Context, req domain.BuildRequest, cfg *domain.Config, succeeded bool) {
	if !cfg.AutoClean.AppliesTo(succeeded) {
		return
	}
	if err := o.cleaner.Clean(ctx, req.RootFile); err != nil {
		o.logger.Warn(fmt.Sprintf("auto-clean failed: %v", err))
	}
}

// RunExternal executes a single raw command line through the same gates as
// a regular build. The command is split by the shell, and a short fixed
// pause precedes the viewer refresh since nothing else signals when the
// toolchain's artifacts are in place.
func (o *Orchestrator) RunExternal(ctx context.Context, cmdline, cwd string) error {
	if !o.admission.TryAcquire(1) {
		o.logger.Info("another build request is already waiting, dropping this one")
		return nil
	}

	o.buildMu.Lock()
	defer o.buildMu.Unlock()
	o.admission.Release(1)

	command, rest, _ := strings.Cut(cmdline, " ")
	step := domain.Step{Name: "external command", Command: command, RawOptions: rest}

	o.status.Busy("")
	outcome := o.supervisor.Run(ctx, &step, cwd, o.sink)
	if outcome.Kind != domain.OutcomeSucceeded {
		o.status.Failure()
		o.status.Notify(fmt.Sprintf("external command failed, see %s", o.logPath))
		return nil
	}

	o.status.Success()
	time.Sleep(rawCommandPause)
	o.viewer.Refresh()
	return nil
}

// Kill terminates the currently running step's process tree, if any. The
// state machine observes the kill as a failed step with a termination
// signal and takes the non-retry path.
func (o *Orchestrator) Kill() {
	o.supervisor.Kill()
}

// prepareOutDir creates output subdirectories mirroring the source tree
// beneath the resolved output directory, so steps can write artifacts for
// included files without failing on missing directories.
func (o *Orchestrator) prepareOutDir(rootFile, outDir string) error {
	rootDir := filepath.Dir(rootFile)
	if filepath.Clean(outDir) == filepath.Clean(rootDir) {
		return nil
	}

	err := filepath.WalkDir(rootDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // unreadable directories are skipped, not fatal
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != rootDir {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".tex") {
			return nil
		}
		rel, relErr := filepath.Rel(rootDir, filepath.Dir(path))
		if relErr != nil {
			return relErr
		}
		return os.MkdirAll(filepath.Join(outDir, rel), 0o755)
	})
	if err != nil {
		return zerr.With(zerr.Wrap(err, "cannot prepare output directories"), "out_dir", outDir)
	}
	return nil
}

func progressLabel(index int, steps []domain.Step) string {
	if len(steps) <= 1 {
		return ""
	}
	return fmt.Sprintf("step %d/%d (%s)", index+1, len(steps), steps[index].Name)
}

func pdfPath(rootFile, outDir string) string {
	base := strings.TrimSuffix(filepath.Base(rootFile), filepath.Ext(rootFile))
	return filepath.Join(outDir, base+".pdf")
}
