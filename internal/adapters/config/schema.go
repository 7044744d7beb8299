package config

import (
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Texfile represents the structure of the texmk.yaml configuration file.
type Texfile struct {
	Version string      `yaml:"version"`
	Tools   []ToolDTO   `yaml:"tools"`
	Recipes []RecipeDTO `yaml:"recipes"`

	DefaultRecipe string `yaml:"defaultRecipe"`
	ForceRecipe   bool   `yaml:"forceRecipe"`

	Magic        MagicDTO        `yaml:"magic"`
	Docker       DockerDTO       `yaml:"docker"`
	MaxPrintLine MaxPrintLineDTO `yaml:"maxPrintLine"`

	CleanAndRetry bool     `yaml:"cleanAndRetry"`
	AutoClean     string   `yaml:"autoClean"`
	Clean         CleanDTO `yaml:"clean"`

	OutDir string   `yaml:"outDir"`
	Watch  WatchDTO `yaml:"watch"`
	View   ViewDTO  `yaml:"view"`
}

// ToolDTO represents a tool definition in the configuration.
type ToolDTO struct {
	Name    string            `yaml:"name"`
	Command string            `yaml:"command"`
	Args    []string          `yaml:"args"`
	Env     map[string]string `yaml:"env"`
}

// RecipeDTO represents a recipe definition in the configuration.
type RecipeDTO struct {
	Name  string       `yaml:"name"`
	Tools []ToolRefDTO `yaml:"tools"`
}

// ToolRefDTO is one entry in a recipe's tool list: either a bare string
// referencing a configured tool by name, or an inline tool definition.
type ToolRefDTO struct {
	Name   string
	Inline *ToolDTO
}

// UnmarshalYAML accepts both the scalar and the mapping form.
func (t *ToolRefDTO) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&t.Name)
	case yaml.MappingNode:
		t.Inline = &ToolDTO{}
		return node.Decode(t.Inline)
	default:
		return zerr.With(zerr.New("recipe tool entry must be a name or a tool definition"), "line", node.Line)
	}
}

// MagicDTO carries the default arguments for directive-sourced steps.
type MagicDTO struct {
	LatexArgs []string `yaml:"latexArgs"`
	BibArgs   []string `yaml:"bibArgs"`
}

// DockerDTO controls containerized execution.
type DockerDTO struct {
	Enabled   bool   `yaml:"enabled"`
	ScriptDir string `yaml:"scriptDir"`
}

// MaxPrintLineDTO controls the MiKTeX console-truncation workaround.
type MaxPrintLineDTO struct {
	Enabled bool `yaml:"enabled"`
	Limit   int  `yaml:"limit"`
}

// CleanDTO lists the artifact globs removed by the cleaner.
type CleanDTO struct {
	FileTypes []string `yaml:"fileTypes"`
}

// WatchDTO controls the autosave build trigger.
type WatchDTO struct {
	// IntervalMS is the debounce window in milliseconds.
	IntervalMS int `yaml:"interval"`
}

// ViewDTO controls post-build viewer notifications.
type ViewDTO struct {
	ForwardSearchAfter bool `yaml:"forwardSearchAfter"`
}
