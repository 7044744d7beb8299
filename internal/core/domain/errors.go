package domain

import "go.trai.ch/zerr"

var (
	// ErrNoRecipes is returned when resolution runs with zero configured recipes.
	ErrNoRecipes = zerr.New("no recipes defined")

	// ErrRecipeNotFound is returned when a recipe lookup by name yields no match.
	ErrRecipeNotFound = zerr.New("recipe not found")

	// ErrScratchDirUnusable is returned at construction when the platform
	// temp path cannot host a shell-quotable scratch directory.
	ErrScratchDirUnusable = zerr.New("scratch directory unusable")

	// ErrBuildExecutionFailed is the terminal error of a failed build attempt.
	ErrBuildExecutionFailed = zerr.New("build execution failed")
)
