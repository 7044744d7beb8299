package domain

import (
	"path/filepath"
	"strings"
)

// Language identifiers for the supported document dialects. The two weave
// dialects get their own recipe filtering during default-recipe selection.
const (
	LangLaTeX   = "latex"
	LangRSweave = "rsweave"
	LangJLWeave = "jlweave"
)

// BuildRequest describes one build invocation: the absolute path of the
// project root file, the dialect it is written in, and an optional recipe
// name overriding recipe selection.
type BuildRequest struct {
	RootFile   string
	LanguageID string
	RecipeName string
}

// LanguageForFile derives the language identifier from a file extension.
func LanguageForFile(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".rnw", ".snw":
		return LangRSweave
	case ".jnw", ".jtexw":
		return LangJLWeave
	default:
		return LangLaTeX
	}
}
