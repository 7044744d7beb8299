package recipe_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/texmk/internal/core/domain"
	"go.trai.ch/texmk/internal/core/ports/mocks"
	"go.trai.ch/texmk/internal/engine/recipe"
	"go.uber.org/mock/gomock"
)

func quietLogger(t *testing.T) *mocks.MockLogger {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	return log
}

func writeRoot(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.tex")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testConfig() *domain.Config {
	return &domain.Config{
		Tools: []domain.Tool{
			{Name: "latexmk", Command: "latexmk", Args: []string{"-pdf", "%DOC%"}},
			{Name: "biber", Command: "biber", Args: []string{"%DOCFILE%"}},
		},
		Recipes: []domain.Recipe{
			{Name: "latexmk", Tools: []domain.ToolRef{{Name: "latexmk"}}},
			{Name: "full", Tools: []domain.ToolRef{{Name: "latexmk"}, {Name: "biber"}, {Name: "latexmk"}}},
		},
		DefaultRecipe: domain.DefaultRecipeFirst,
		Magic: domain.MagicConfig{
			LatexArgs: []string{"-synctex=1", "-interaction=nonstopmode", "%DOC%"},
			BibArgs:   []string{"%DOCFILE%"},
		},
	}
}

func TestResolve_ZeroRecipesFailsBeforeAnythingElse(t *testing.T) {
	r := recipe.NewResolver(quietLogger(t))
	root := writeRoot(t, "% !TEX program = pdflatex\n")

	var mem recipe.Memory
	_, err := r.Resolve(
		domain.BuildRequest{RootFile: root, LanguageID: domain.LangLaTeX},
		&domain.Config{},
		&mem,
	)
	require.ErrorIs(t, err, domain.ErrNoRecipes)
}

func TestResolve_DirectivePrecedenceWithDefaultArgs(t *testing.T) {
	r := recipe.NewResolver(quietLogger(t))
	cfg := testConfig()
	root := writeRoot(t, "% !TEX program = xelatex\n\\documentclass{article}\n")

	var mem recipe.Memory
	steps, err := r.Resolve(
		domain.BuildRequest{RootFile: root, LanguageID: domain.LangLaTeX},
		cfg,
		&mem,
	)
	require.NoError(t, err)
	require.Len(t, steps, 1)
	require.Equal(t, "xelatex", steps[0].Command)
	require.Equal(t, "xelatex-with-args", steps[0].Name)
	require.Equal(t, cfg.Magic.LatexArgs, steps[0].Args)
	require.Empty(t, steps[0].RawOptions)
}

func TestResolve_DirectiveWithOptionsIsRaw(t *testing.T) {
	r := recipe.NewResolver(quietLogger(t))
	root := writeRoot(t, "% !TEX program = pdflatex\n% !TEX options = -draftmode %DOC%\n")

	var mem recipe.Memory
	steps, err := r.Resolve(
		domain.BuildRequest{RootFile: root, LanguageID: domain.LangLaTeX},
		testConfig(),
		&mem,
	)
	require.NoError(t, err)
	require.Len(t, steps, 1)
	require.Equal(t, "pdflatex", steps[0].Name)
	require.Equal(t, "-draftmode %DOC%", steps[0].RawOptions)
	require.Empty(t, steps[0].Args)
}

func TestResolve_DirectiveWithBibIsFourSteps(t *testing.T) {
	r := recipe.NewResolver(quietLogger(t))
	root := writeRoot(t, "% !TEX program = pdflatex\n% !BIB program = bibtex\n")

	var mem recipe.Memory
	steps, err := r.Resolve(
		domain.BuildRequest{RootFile: root, LanguageID: domain.LangLaTeX},
		testConfig(),
		&mem,
	)
	require.NoError(t, err)
	require.Len(t, steps, 4)
	require.Equal(t, "pdflatex", steps[0].Command)
	require.Equal(t, "bibtex", steps[1].Command)
	require.Equal(t, "pdflatex", steps[2].Command)
	require.Equal(t, "pdflatex", steps[3].Command)
}

func TestResolve_ForceRecipeIgnoresDirectives(t *testing.T) {
	r := recipe.NewResolver(quietLogger(t))
	cfg := testConfig()
	cfg.ForceRecipe = true
	root := writeRoot(t, "% !TEX program = xelatex\n")

	var mem recipe.Memory
	steps, err := r.Resolve(
		domain.BuildRequest{RootFile: root, LanguageID: domain.LangLaTeX},
		cfg,
		&mem,
	)
	require.NoError(t, err)
	require.Len(t, steps, 1)
	require.Equal(t, "latexmk", steps[0].Name)
}

func TestResolve_NamedRecipeNotFound(t *testing.T) {
	r := recipe.NewResolver(quietLogger(t))
	root := writeRoot(t, "")

	var mem recipe.Memory
	_, err := r.Resolve(
		domain.BuildRequest{RootFile: root, LanguageID: domain.LangLaTeX, RecipeName: "nope"},
		testConfig(),
		&mem,
	)
	require.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestResolve_MissingToolIsSkippedNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).Do(func(msg string) {
		require.Contains(t, msg, "ghost")
	}).Times(1)

	cfg := testConfig()
	cfg.Recipes = []domain.Recipe{
		{Name: "partial", Tools: []domain.ToolRef{{Name: "ghost"}, {Name: "latexmk"}}},
	}

	r := recipe.NewResolver(log)
	root := writeRoot(t, "")

	var mem recipe.Memory
	steps, err := r.Resolve(
		domain.BuildRequest{RootFile: root, LanguageID: domain.LangLaTeX},
		cfg,
		&mem,
	)
	require.NoError(t, err)
	require.Len(t, steps, 1)
	require.Equal(t, "latexmk", steps[0].Name)
}

func TestResolve_AllToolsSkippedYieldsEmptyList(t *testing.T) {
	r := recipe.NewResolver(quietLogger(t))
	cfg := testConfig()
	cfg.Recipes = []domain.Recipe{
		{Name: "hollow", Tools: []domain.ToolRef{{Name: "ghost"}}},
	}
	root := writeRoot(t, "")

	var mem recipe.Memory
	steps, err := r.Resolve(
		domain.BuildRequest{RootFile: root, LanguageID: domain.LangLaTeX},
		cfg,
		&mem,
	)
	require.NoError(t, err)
	require.Empty(t, steps)
}

func TestResolve_InlineToolUsedAsIs(t *testing.T) {
	r := recipe.NewResolver(quietLogger(t))
	cfg := testConfig()
	cfg.Recipes = []domain.Recipe{
		{Name: "inline", Tools: []domain.ToolRef{
			{Inline: &domain.Tool{Name: "custom", Command: "make", Args: []string{"pdf"}}},
		}},
	}
	root := writeRoot(t, "")

	var mem recipe.Memory
	steps, err := r.Resolve(
		domain.BuildRequest{RootFile: root, LanguageID: domain.LangLaTeX},
		cfg,
		&mem,
	)
	require.NoError(t, err)
	require.Len(t, steps, 1)
	require.Equal(t, "custom", steps[0].Name)
	require.Equal(t, "make", steps[0].Command)
}

func TestResolve_LastUsedRecipeSurvivesSameLanguage(t *testing.T) {
	r := recipe.NewResolver(quietLogger(t))
	cfg := testConfig()
	cfg.DefaultRecipe = domain.DefaultRecipeLastUsed
	root := writeRoot(t, "")

	var mem recipe.Memory

	// Select "full" explicitly; the memory records the selection.
	_, err := r.Resolve(
		domain.BuildRequest{RootFile: root, LanguageID: domain.LangLaTeX, RecipeName: "full"},
		cfg,
		&mem,
	)
	require.NoError(t, err)

	// A nameless request under lastUsed policy replays it.
	steps, err := r.Resolve(
		domain.BuildRequest{RootFile: root, LanguageID: domain.LangLaTeX},
		cfg,
		&mem,
	)
	require.NoError(t, err)
	require.Len(t, steps, 3)
}

func TestResolve_LastUsedInvalidatedByLanguageChange(t *testing.T) {
	r := recipe.NewResolver(quietLogger(t))
	cfg := testConfig()
	cfg.DefaultRecipe = domain.DefaultRecipeLastUsed
	root := writeRoot(t, "")

	var mem recipe.Memory

	_, err := r.Resolve(
		domain.BuildRequest{RootFile: root, LanguageID: domain.LangLaTeX, RecipeName: "full"},
		cfg,
		&mem,
	)
	require.NoError(t, err)

	// Different language: the memory is treated as empty and the
	// catch-all picks the first recipe instead of "full".
	steps, err := r.Resolve(
		domain.BuildRequest{RootFile: root, LanguageID: domain.LangRSweave},
		cfg,
		&mem,
	)
	require.NoError(t, err)
	require.Len(t, steps, 1)
	require.Equal(t, "latexmk", steps[0].Name)
}

func TestResolve_FirstPolicyFiltersByDialect(t *testing.T) {
	r := recipe.NewResolver(quietLogger(t))
	cfg := testConfig()
	cfg.Tools = append(cfg.Tools, domain.Tool{Name: "knitr", Command: "Rscript", Args: []string{"-e", "knitr::knit2pdf('%DOC_EXT%')"}})
	cfg.Recipes = append(cfg.Recipes, domain.Recipe{Name: "Rnw-build", Tools: []domain.ToolRef{{Name: "knitr"}}})
	root := writeRoot(t, "")

	var mem recipe.Memory
	steps, err := r.Resolve(
		domain.BuildRequest{RootFile: root, LanguageID: domain.LangRSweave},
		cfg,
		&mem,
	)
	require.NoError(t, err)
	require.Len(t, steps, 1)
	require.Equal(t, "knitr", steps[0].Name)

	// The default language ignores the filter and takes the first recipe.
	steps, err = r.Resolve(
		domain.BuildRequest{RootFile: root, LanguageID: domain.LangLaTeX},
		cfg,
		&mem,
	)
	require.NoError(t, err)
	require.Equal(t, "latexmk", steps[0].Name)
}

func TestResolve_StepsDoNotAliasConfiguredTools(t *testing.T) {
	r := recipe.NewResolver(quietLogger(t))
	cfg := testConfig()
	root := writeRoot(t, "")

	var mem recipe.Memory
	steps, err := r.Resolve(
		domain.BuildRequest{RootFile: root, LanguageID: domain.LangLaTeX},
		cfg,
		&mem,
	)
	require.NoError(t, err)

	steps[0].Args[0] = "mutated"
	require.Equal(t, "-pdf", cfg.Tools[0].Args[0])
}
