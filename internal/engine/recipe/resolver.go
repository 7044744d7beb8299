// Package recipe resolves a build request into an ordered list of steps.
package recipe

import (
	"fmt"
	"os"
	"strings"

	"go.trai.ch/texmk/internal/core/domain"
	"go.trai.ch/texmk/internal/core/ports"
	"go.trai.ch/texmk/internal/engine/directive"
	"go.trai.ch/zerr"
)

// withArgsSuffix tags a directive-sourced step whose arguments were
// backfilled from configuration, so logs distinguish it from a bare
// directive invocation.
const withArgsSuffix = "-with-args"

// Resolver turns a build request, the configuration snapshot, and the
// target file's magic directives into an ordered step list.
type Resolver struct {
	logger ports.Logger
}

// NewResolver creates a new Resolver.
func NewResolver(logger ports.Logger) *Resolver {
	return &Resolver{logger: logger}
}

// Resolve produces the step list for one build attempt.
//
// Decision order: magic directives (unless a recipe name was requested or
// recipe usage is forced), then named-recipe lookup, then the last-used
// memory, then the first configured recipe matching the language filter.
// Resolution fails immediately when no recipes are configured at all.
func (r *Resolver) Resolve(req domain.BuildRequest, cfg *domain.Config, mem *Memory) ([]domain.Step, error) {
	mem.Invalidate(req.LanguageID)

	if len(cfg.Recipes) == 0 {
		return nil, domain.ErrNoRecipes
	}

	if req.RecipeName == "" && !cfg.ForceRecipe {
		if steps, ok := r.resolveMagic(req, cfg); ok {
			return steps, nil
		}
	}

	chosen, err := r.selectRecipe(req, cfg, mem)
	if err != nil {
		return nil, err
	}

	steps := r.expandTools(chosen, cfg)
	mem.Store(chosen, req.LanguageID)
	return steps, nil
}

// resolveMagic attempts directive-based resolution. The second return
// value reports whether a primary-program directive was found.
func (r *Resolver) resolveMagic(req domain.BuildRequest, cfg *domain.Config) ([]domain.Step, bool) {
	content, err := os.ReadFile(req.RootFile)
	if err != nil {
		r.logger.Warn(fmt.Sprintf("cannot read %s for magic directives: %v", req.RootFile, err))
		return nil, false
	}

	d := directive.Scan(string(content))
	if !d.HasTexProgram() {
		return nil, false
	}

	tex := magicStep(d.TexProgram, d.TexOptions, cfg.Magic.LatexArgs)
	r.logger.Info(fmt.Sprintf("magic TEX program: %s", tex.Name))

	if !d.HasBibProgram() {
		return []domain.Step{tex}, true
	}

	bib := magicStep(d.BibProgram, d.BibOptions, cfg.Magic.BibArgs)
	r.logger.Info(fmt.Sprintf("magic BIB program: %s", bib.Name))

	// Fixed citation-resolution convention: typeset, run the bibliography
	// program, then typeset twice more to settle references.
	return []domain.Step{tex, bib, tex.Clone(), tex.Clone()}, true
}

// magicStep builds a step from a program directive. An options directive
// stays a single opaque string and is later invoked through a shell; when
// absent, default arguments from configuration are injected instead.
func magicStep(program string, options *string, defaults []string) domain.Step {
	step := domain.Step{
		Name:    program,
		Command: program,
	}
	if options != nil {
		step.RawOptions = *options
		return step
	}
	step.Name += withArgsSuffix
	step.Args = append([]string(nil), defaults...)
	return step
}

func (r *Resolver) selectRecipe(req domain.BuildRequest, cfg *domain.Config, mem *Memory) (domain.Recipe, error) {
	name := req.RecipeName
	if name == "" && cfg.DefaultRecipe != domain.DefaultRecipeFirst && cfg.DefaultRecipe != domain.DefaultRecipeLastUsed {
		name = cfg.DefaultRecipe
	}

	if name != "" {
		rec, ok := cfg.FindRecipe(name)
		if !ok {
			return domain.Recipe{}, zerr.With(domain.ErrRecipeNotFound, "recipe", name)
		}
		return rec.Clone(), nil
	}

	if cfg.DefaultRecipe == domain.DefaultRecipeLastUsed {
		if prev, ok := mem.Recall(req.LanguageID); ok {
			return prev, nil
		}
	}

	return firstRecipe(cfg.Recipes, req.LanguageID), nil
}

// firstRecipe selects the first configured recipe, preferring one whose
// name matches the request's literate-programming dialect.
func firstRecipe(recipes []domain.Recipe, languageID string) domain.Recipe {
	var filters []string
	switch languageID {
	case domain.LangRSweave:
		filters = []string{"rnw", "rsweave"}
	case domain.LangJLWeave:
		filters = []string{"jnw", "jlweave", "weave.jl"}
	}

	for _, rec := range recipes {
		lower := strings.ToLower(rec.Name)
		for _, f := range filters {
			if strings.Contains(lower, f) {
				return rec.Clone()
			}
		}
	}
	return recipes[0].Clone()
}

// expandTools resolves each tool reference of the recipe into a step. A
// reference to an undefined tool is reported and skipped, not fatal; an
// empty resulting step list is a valid degenerate result.
func (r *Resolver) expandTools(rec domain.Recipe, cfg *domain.Config) []domain.Step {
	steps := make([]domain.Step, 0, len(rec.Tools))
	for _, ref := range rec.Tools {
		if ref.Inline != nil {
			steps = append(steps, domain.StepFromTool(ref.Inline))
			continue
		}
		tool, ok := cfg.FindTool(ref.Name)
		if !ok {
			r.logger.Warn(fmt.Sprintf("skipping undefined tool %q in recipe %q", ref.Name, rec.Name))
			continue
		}
		steps = append(steps, domain.StepFromTool(&tool))
	}
	return steps
}
