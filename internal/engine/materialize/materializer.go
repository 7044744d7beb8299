// Package materialize expands step templates into concrete invocations
// for one build attempt.
package materialize

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"go.trai.ch/texmk/internal/core/domain"
	"go.trai.ch/texmk/internal/core/ports"
)

// dockerWrappers are the commands replaced by bundled wrapper scripts when
// containerized execution is enabled. Unrecognized commands run as-is.
var dockerWrappers = map[string]bool{
	"latexmk": true,
	"bibtex":  true,
}

// Materializer substitutes placeholder tokens in step arguments and
// environment values and applies environment-specific adjustments.
type Materializer struct {
	logger ports.Logger
	distro ports.Distro
}

// New creates a new Materializer.
func New(logger ports.Logger, distro ports.Distro) *Materializer {
	return &Materializer{logger: logger, distro: distro}
}

// Materialize returns a fresh, fully expanded copy of the given steps.
// The input slice is never mutated; repeated calls with the same inputs
// produce identical results.
func (m *Materializer) Materialize(steps []domain.Step, rootFile, scratchDir string, cfg *domain.Config) []domain.Step {
	expand := replacer(rootFile, scratchDir, cfg)

	out := make([]domain.Step, len(steps))
	for i, step := range steps {
		s := step.Clone()
		for j, arg := range s.Args {
			s.Args[j] = expand.Replace(arg)
		}
		for k, v := range s.Env {
			s.Env[k] = expand.Replace(v)
		}
		s.RawOptions = expand.Replace(s.RawOptions)

		m.applyDocker(&s, cfg)
		m.applyMaxPrintLine(&s, cfg)
		out[i] = s
	}
	return out
}

// OutDir resolves the configured output directory pattern against the
// root file. Defaults to the root file's own directory.
func OutDir(rootFile string, cfg *domain.Config) string {
	pattern := cfg.OutDir
	if pattern == "" {
		pattern = "%DIR%"
	}
	doc := strings.TrimSuffix(rootFile, filepath.Ext(rootFile))
	r := strings.NewReplacer(
		"%DOCFILE%", filepath.Base(doc),
		"%DOC%", doc,
		"%DIR%", filepath.Dir(rootFile),
	)
	out := filepath.Clean(r.Replace(pattern))
	// A bare relative pattern like "out" is relative to the document, not
	// to wherever the process happens to run.
	if !filepath.IsAbs(out) {
		out = filepath.Join(filepath.Dir(rootFile), out)
	}
	return out
}

// replacer builds the placeholder substitution for one root file. Token
// order matters: the longer %DOC_EXT% and %DOCFILE% tokens must be listed
// before their %DOC% prefix.
func replacer(rootFile, scratchDir string, cfg *domain.Config) *strings.Replacer {
	doc := strings.TrimSuffix(rootFile, filepath.Ext(rootFile))
	return strings.NewReplacer(
		"%DOC_EXT%", rootFile,
		"%DOCFILE%", filepath.Base(doc),
		"%DOC%", doc,
		"%DIR%", filepath.Dir(rootFile),
		"%TMPDIR%", scratchDir,
		"%OUTDIR%", OutDir(rootFile, cfg),
	)
}

// applyDocker swaps a recognized command for the bundled wrapper script
// and marks the wrapper executable before use.
func (m *Materializer) applyDocker(s *domain.Step, cfg *domain.Config) {
	if !cfg.Docker.Enabled || !dockerWrappers[s.Command] {
		return
	}
	wrapper := filepath.Join(cfg.Docker.ScriptDir, s.Command+scriptExt())
	if err := os.Chmod(wrapper, 0o755); err != nil {
		m.logger.Warn(fmt.Sprintf("cannot mark %s executable: %v", wrapper, err))
	}
	s.Command = wrapper
}

func scriptExt() string {
	if runtime.GOOS == "windows" {
		return ".bat"
	}
	return ".sh"
}

// applyMaxPrintLine prepends the console-truncation override to
// line-oriented steps on MiKTeX. LuaTeX-based steps are unaffected by the
// truncation and are left alone.
func (m *Materializer) applyMaxPrintLine(s *domain.Step, cfg *domain.Config) {
	if !cfg.MaxPrintLine.Enabled || !m.distro.IsMiKTeX() {
		return
	}
	if !lineOriented(s) || selectsLuaTeX(s) {
		return
	}
	limit := cfg.MaxPrintLine.Limit
	if limit <= 0 {
		limit = 10000
	}
	s.Args = append([]string{fmt.Sprintf("--max-print-line=%d", limit)}, s.Args...)
}

func lineOriented(s *domain.Step) bool {
	switch commandBase(s.Command) {
	case "latexmk", "pdflatex":
		return true
	default:
		return false
	}
}

func selectsLuaTeX(s *domain.Step) bool {
	switch commandBase(s.Command) {
	case "lualatex", "luahbtex", "luajittex":
		return true
	}
	for _, arg := range s.Args {
		switch arg {
		case "-lualatex", "--lualatex", "-pdflua", "-pdflualatex":
			return true
		}
	}
	return false
}

func commandBase(command string) string {
	base := filepath.Base(command)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
