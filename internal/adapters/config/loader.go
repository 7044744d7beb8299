// Package config provides the configuration loader for texmk.
package config

import (
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/texmk/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is the configuration file looked up in the working
// directory when no explicit path is given.
const DefaultFilename = "texmk.yaml"

const defaultWatchInterval = 1000 * time.Millisecond

// defaultCleanFileTypes mirrors the artifact extensions latexmk leaves
// behind for a typical document.
var defaultCleanFileTypes = []string{
	"*.aux", "*.bbl", "*.blg", "*.idx", "*.ind", "*.lof", "*.lot",
	"*.out", "*.toc", "*.acn", "*.acr", "*.alg", "*.glg", "*.glo",
	"*.gls", "*.fls", "*.log", "*.fdb_latexmk", "*.snm", "*.synctex.gz",
	"*.nav", "*.vrb",
}

// FileConfigLoader implements ports.ConfigLoader using a YAML file.
type FileConfigLoader struct {
	Filename string
}

// Load reads the configuration from the given working directory.
func (l *FileConfigLoader) Load(cwd string) (*domain.Config, error) {
	name := l.Filename
	if name == "" {
		name = DefaultFilename
	}
	return Load(filepath.Join(cwd, name))
}

// Load reads a configuration file and returns the immutable snapshot
// consumed by the engine.
func Load(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read config file")
	}

	var texfile Texfile
	if err := yaml.Unmarshal(data, &texfile); err != nil {
		return nil, zerr.Wrap(err, "failed to parse config file")
	}

	return fromDTO(&texfile)
}

func fromDTO(t *Texfile) (*domain.Config, error) {
	cfg := &domain.Config{
		DefaultRecipe: t.DefaultRecipe,
		ForceRecipe:   t.ForceRecipe,
		Magic: domain.MagicConfig{
			LatexArgs: t.Magic.LatexArgs,
			BibArgs:   t.Magic.BibArgs,
		},
		Docker: domain.DockerConfig{
			Enabled:   t.Docker.Enabled,
			ScriptDir: t.Docker.ScriptDir,
		},
		MaxPrintLine: domain.MaxPrintLineConfig{
			Enabled: t.MaxPrintLine.Enabled,
			Limit:   t.MaxPrintLine.Limit,
		},
		CleanAndRetry: t.CleanAndRetry,
		AutoClean:     domain.AutoCleanPolicy(t.AutoClean),
		Clean:         domain.CleanConfig{FileTypes: t.Clean.FileTypes},
		OutDir:        t.OutDir,
		Watch:         domain.WatchConfig{Interval: time.Duration(t.Watch.IntervalMS) * time.Millisecond},
		View:          domain.ViewConfig{ForwardSearchAfter: t.View.ForwardSearchAfter},
	}

	if cfg.DefaultRecipe == "" {
		cfg.DefaultRecipe = domain.DefaultRecipeFirst
	}
	if cfg.AutoClean == "" {
		cfg.AutoClean = domain.AutoCleanNever
	}
	switch cfg.AutoClean {
	case domain.AutoCleanNever, domain.AutoCleanOnBuilt, domain.AutoCleanOnFailed, domain.AutoCleanAlways:
	default:
		return nil, zerr.With(zerr.New("invalid autoClean policy"), "autoClean", string(cfg.AutoClean))
	}
	if len(cfg.Clean.FileTypes) == 0 {
		cfg.Clean.FileTypes = defaultCleanFileTypes
	}
	if cfg.Watch.Interval <= 0 {
		cfg.Watch.Interval = defaultWatchInterval
	}

	seenTools := make(map[string]bool, len(t.Tools))
	for _, dto := range t.Tools {
		if dto.Name == "" || dto.Command == "" {
			return nil, zerr.New("tool definitions need both a name and a command")
		}
		if seenTools[dto.Name] {
			return nil, zerr.With(zerr.New("duplicate tool name"), "tool", dto.Name)
		}
		seenTools[dto.Name] = true
		cfg.Tools = append(cfg.Tools, domain.Tool{
			Name:    dto.Name,
			Command: dto.Command,
			Args:    dto.Args,
			Env:     dto.Env,
		})
	}

	seenRecipes := make(map[string]bool, len(t.Recipes))
	for _, dto := range t.Recipes {
		if dto.Name == "" {
			return nil, zerr.New("recipe definitions need a name")
		}
		if seenRecipes[dto.Name] {
			return nil, zerr.With(zerr.New("duplicate recipe name"), "recipe", dto.Name)
		}
		seenRecipes[dto.Name] = true
		rec := domain.Recipe{Name: dto.Name}
		for _, ref := range dto.Tools {
			if ref.Inline != nil {
				rec.Tools = append(rec.Tools, domain.ToolRef{Inline: &domain.Tool{
					Name:    ref.Inline.Name,
					Command: ref.Inline.Command,
					Args:    ref.Inline.Args,
					Env:     ref.Inline.Env,
				}})
				continue
			}
			rec.Tools = append(rec.Tools, domain.ToolRef{Name: ref.Name})
		}
		cfg.Recipes = append(cfg.Recipes, rec)
	}

	return cfg, nil
}
