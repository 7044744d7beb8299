package domain

import "time"

// Default-recipe policy sentinels. Any other value is treated as the name
// of a configured recipe.
const (
	DefaultRecipeFirst    = "first"
	DefaultRecipeLastUsed = "lastUsed"
)

// AutoCleanPolicy controls when generated artifacts are removed after a build.
type AutoCleanPolicy string

const (
	// AutoCleanNever disables post-build cleaning.
	AutoCleanNever AutoCleanPolicy = "never"
	// AutoCleanOnBuilt cleans after a successful build.
	AutoCleanOnBuilt AutoCleanPolicy = "onBuilt"
	// AutoCleanOnFailed cleans after a failed build.
	AutoCleanOnFailed AutoCleanPolicy = "onFailed"
	// AutoCleanAlways cleans after every build regardless of outcome.
	AutoCleanAlways AutoCleanPolicy = "always"
)

// AppliesTo reports whether the policy requests a clean for the given
// build outcome.
func (p AutoCleanPolicy) AppliesTo(succeeded bool) bool {
	switch p {
	case AutoCleanAlways:
		return true
	case AutoCleanOnBuilt:
		return succeeded
	case AutoCleanOnFailed:
		return !succeeded
	default:
		return false
	}
}

// MagicConfig carries the default arguments injected into directive-sourced
// steps that come without an options directive of their own.
type MagicConfig struct {
	LatexArgs []string
	BibArgs   []string
}

// DockerConfig controls containerized execution. When enabled, recognized
// commands are swapped for bundled wrapper scripts under ScriptDir.
type DockerConfig struct {
	Enabled   bool
	ScriptDir string
}

// MaxPrintLineConfig controls the console-truncation workaround applied to
// line-oriented steps on distributions known to truncate output.
type MaxPrintLineConfig struct {
	Enabled bool
	Limit   int
}

// WatchConfig controls the autosave build trigger.
type WatchConfig struct {
	// Interval is the debounce window for coalescing rapid save events.
	Interval time.Duration
}

// ViewConfig controls post-build viewer notifications.
type ViewConfig struct {
	// ForwardSearchAfter requests a SyncTeX forward search after each
	// successful build.
	ForwardSearchAfter bool
}

// CleanConfig lists the artifact globs removed by the cleaner.
type CleanConfig struct {
	FileTypes []string
}

// Config is the read-only configuration snapshot consumed by the engine.
// It is produced by the config adapter; the engine never mutates it.
type Config struct {
	Tools   []Tool
	Recipes []Recipe

	// DefaultRecipe is a recipe name or one of the sentinels
	// DefaultRecipeFirst / DefaultRecipeLastUsed.
	DefaultRecipe string
	// ForceRecipe disables magic-directive resolution unconditionally.
	ForceRecipe bool

	Magic        MagicConfig
	Docker       DockerConfig
	MaxPrintLine MaxPrintLineConfig

	CleanAndRetry bool
	AutoClean     AutoCleanPolicy
	Clean         CleanConfig

	// OutDir is the output directory pattern; placeholders are expanded
	// against the root file before use.
	OutDir string

	Watch WatchConfig
	View  ViewConfig
}

// FindRecipe returns the configured recipe with the given name.
func (c *Config) FindRecipe(name string) (Recipe, bool) {
	for _, r := range c.Recipes {
		if r.Name == name {
			return r, true
		}
	}
	return Recipe{}, false
}

// FindTool returns the configured tool with the given name.
func (c *Config) FindTool(name string) (Tool, bool) {
	for _, t := range c.Tools {
		if t.Name == name {
			return t, true
		}
	}
	return Tool{}, false
}
