package domain

import "maps"

// Tool is one external program invocation as declared in configuration:
// a display name, the executable, its arguments, and optional
// environment-variable overrides.
type Tool struct {
	Name    string
	Command string
	Args    []string
	Env     map[string]string
}

// ToolRef is one entry in a recipe's tool list. It is either a reference
// by name into the configured tool set, or an inline tool definition.
type ToolRef struct {
	Name   string
	Inline *Tool
}

// Recipe is a named, ordered list of tool references. Recipes are declared
// in configuration and are read-only to the engine.
type Recipe struct {
	Name  string
	Tools []ToolRef
}

// Step is one materialization-ready invocation derived from a Tool for a
// single build attempt. Steps are always cloned from their configuration
// source before placeholder expansion so the stored recipe is never
// mutated in place.
type Step struct {
	Name    string
	Command string
	Args    []string
	Env     map[string]string

	// RawOptions holds the unparsed options string of a magic directive.
	// A step with RawOptions set is invoked through a shell so the string
	// is split by the shell, not by us.
	RawOptions string
}

// StepFromTool derives a fresh Step from a configured tool.
func StepFromTool(t *Tool) Step {
	return Step{
		Name:    t.Name,
		Command: t.Command,
		Args:    cloneStrings(t.Args),
		Env:     maps.Clone(t.Env),
	}
}

// Clone returns a deep copy of the step. Argument and environment storage
// is never shared between the copy and the original.
func (s Step) Clone() Step {
	s.Args = cloneStrings(s.Args)
	s.Env = maps.Clone(s.Env)
	return s
}

// Clone returns a deep copy of the recipe, including inline tools.
func (r Recipe) Clone() Recipe {
	tools := make([]ToolRef, len(r.Tools))
	for i, ref := range r.Tools {
		tools[i] = ref
		if ref.Inline != nil {
			inline := *ref.Inline
			inline.Args = cloneStrings(inline.Args)
			inline.Env = maps.Clone(inline.Env)
			tools[i].Inline = &inline
		}
	}
	r.Tools = tools
	return r
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
