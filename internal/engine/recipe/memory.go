package recipe

import "go.trai.ch/texmk/internal/core/domain"

// Memory remembers the last successfully selected recipe and the language
// it was selected for. Selection, not execution: the memory is updated as
// soon as steps resolve, regardless of how the build ends.
//
// Memory is owned by the orchestrator and only touched inside its build
// critical section, so it needs no locking of its own.
type Memory struct {
	recipe     *domain.Recipe
	languageID string
}

// Invalidate clears the memory when the language of a new request differs
// from the recorded one.
func (m *Memory) Invalidate(languageID string) {
	if m.languageID != languageID {
		m.recipe = nil
		m.languageID = ""
	}
}

// Recall returns the stored recipe if one is recorded for the given language.
func (m *Memory) Recall(languageID string) (domain.Recipe, bool) {
	if m.recipe == nil || m.languageID != languageID {
		return domain.Recipe{}, false
	}
	return m.recipe.Clone(), true
}

// Store records the selected recipe and its language.
func (m *Memory) Store(r domain.Recipe, languageID string) {
	stored := r.Clone()
	m.recipe = &stored
	m.languageID = languageID
}
