package commands_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/texmk/cmd/texmk/commands"
	"go.trai.ch/texmk/internal/app"
	"go.trai.ch/texmk/internal/core/domain"
	"go.trai.ch/texmk/internal/core/ports/mocks"
	"go.trai.ch/texmk/internal/engine/materialize"
	"go.trai.ch/texmk/internal/engine/orchestrator"
	"go.trai.ch/texmk/internal/engine/recipe"
	"go.uber.org/mock/gomock"
)

type cliFixture struct {
	cli    *commands.CLI
	loader *mocks.MockConfigLoader
	sup    *mocks.MockSupervisor
	root   string
}

func newCLI(t *testing.T) *cliFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	status := mocks.NewMockStatusReporter(ctrl)
	status.EXPECT().Busy(gomock.Any()).AnyTimes()
	status.EXPECT().Success().AnyTimes()
	status.EXPECT().Failure().AnyTimes()
	status.EXPECT().Notify(gomock.Any()).AnyTimes()

	viewer := mocks.NewMockViewer(ctrl)
	viewer.EXPECT().Refresh().AnyTimes()

	distro := mocks.NewMockDistro(ctrl)
	distro.EXPECT().IsMiKTeX().Return(false).AnyTimes()

	cleaner := mocks.NewMockCleaner(ctrl)
	cleaner.EXPECT().Clean(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f := &cliFixture{
		loader: mocks.NewMockConfigLoader(ctrl),
		sup:    mocks.NewMockSupervisor(ctrl),
	}

	orch, err := orchestrator.New(
		log, status, viewer, cleaner, f.sup,
		recipe.NewResolver(log),
		materialize.New(log, distro),
		io.Discard,
	)
	require.NoError(t, err)

	f.cli = commands.New(app.New(log, f.loader, orch, cleaner))

	f.root = filepath.Join(t.TempDir(), "main.tex")
	require.NoError(t, os.WriteFile(f.root, []byte("\\documentclass{article}\n"), 0o644))
	return f
}

func cliConfig() *domain.Config {
	return &domain.Config{
		Tools:         []domain.Tool{{Name: "latexmk", Command: "latexmk", Args: []string{"%DOC%"}}},
		Recipes:       []domain.Recipe{{Name: "default", Tools: []domain.ToolRef{{Name: "latexmk"}}}},
		DefaultRecipe: domain.DefaultRecipeFirst,
	}
}

func TestBuildCommand(t *testing.T) {
	f := newCLI(t)

	f.loader.EXPECT().Load(gomock.Any()).Return(cliConfig(), nil)
	f.sup.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(domain.Outcome{Kind: domain.OutcomeSucceeded})

	f.cli.SetArgs([]string{"build", f.root})
	require.NoError(t, f.cli.Execute(context.Background()))
}

func TestBuildCommand_RecipeFlag(t *testing.T) {
	f := newCLI(t)
	cfg := cliConfig()
	cfg.Recipes = append(cfg.Recipes, domain.Recipe{
		Name:  "alt",
		Tools: []domain.ToolRef{{Inline: &domain.Tool{Name: "alt-tool", Command: "alt"}}},
	})

	f.loader.EXPECT().Load(gomock.Any()).Return(cfg, nil)
	f.sup.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, step *domain.Step, _ string, _ io.Writer) domain.Outcome {
			require.Equal(t, "alt", step.Command)
			return domain.Outcome{Kind: domain.OutcomeSucceeded}
		})

	f.cli.SetArgs([]string{"build", f.root, "--recipe", "alt"})
	require.NoError(t, f.cli.Execute(context.Background()))
}

func TestBuildCommand_RequiresRootFile(t *testing.T) {
	f := newCLI(t)

	f.cli.SetArgs([]string{"build"})
	require.Error(t, f.cli.Execute(context.Background()))
}

func TestCleanCommand(t *testing.T) {
	f := newCLI(t)

	f.cli.SetArgs([]string{"clean", f.root})
	require.NoError(t, f.cli.Execute(context.Background()))
}

func TestExecCommand_JoinsArguments(t *testing.T) {
	f := newCLI(t)

	f.sup.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, step *domain.Step, _ string, _ io.Writer) domain.Outcome {
			require.Equal(t, "latexmk", step.Command)
			require.Equal(t, "-pdf main.tex", step.RawOptions)
			return domain.Outcome{Kind: domain.OutcomeSucceeded}
		})

	f.cli.SetArgs([]string{"exec", "latexmk", "-pdf", "main.tex"})
	require.NoError(t, f.cli.Execute(context.Background()))
}

func TestVersionCommand(t *testing.T) {
	f := newCLI(t)

	f.cli.SetArgs([]string{"version"})
	require.NoError(t, f.cli.Execute(context.Background()))
}

func TestUnknownCommand(t *testing.T) {
	f := newCLI(t)

	f.cli.SetArgs([]string{"frobnicate"})
	require.Error(t, f.cli.Execute(context.Background()))
}
