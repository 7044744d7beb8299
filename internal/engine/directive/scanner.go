// Package directive extracts per-file magic comments overriding which
// programs a document is built with.
package directive

import (
	"regexp"
	"strings"
)

// Two independent directive families are recognized: one for the primary
// typesetting program and one for the bibliography program, each with its
// own options directive. The optional "TS-" marker is tolerated for
// TeXShop compatibility.
var (
	texProgramRe = regexp.MustCompile(`(?m)^%\s*!\s*T[eE]X\s+(?:TS-)?program\s*=\s*(\S+)\s*$`)
	texOptionsRe = regexp.MustCompile(`(?m)^%\s*!\s*T[eE]X\s+(?:TS-)?options\s*=\s*(.*?)\s*$`)
	bibProgramRe = regexp.MustCompile(`(?m)^%\s*!\s*BIB\s+(?:TS-)?program\s*=\s*(\S+)\s*$`)
	bibOptionsRe = regexp.MustCompile(`(?m)^%\s*!\s*BIB\s+(?:TS-)?options\s*=\s*(.*?)\s*$`)
)

// Directives holds the magic comments found in a file. A nil pointer field
// means the directive was absent, which is never an error.
type Directives struct {
	TexProgram string
	TexOptions *string
	BibProgram string
	BibOptions *string
}

// HasTexProgram reports whether a primary-program directive was found.
func (d Directives) HasTexProgram() bool { return d.TexProgram != "" }

// HasBibProgram reports whether a bibliography-program directive was found.
func (d Directives) HasBibProgram() bool { return d.BibProgram != "" }

// Scan extracts the magic directives from raw file content. It is a pure
// function: no I/O, no state. Only the file's leading comment block is
// considered; the first match of each directive wins.
func Scan(content string) Directives {
	content = leadingCommentBlock(content)

	var d Directives
	if m := texProgramRe.FindStringSubmatch(content); m != nil {
		d.TexProgram = m[1]
	}
	if m := texOptionsRe.FindStringSubmatch(content); m != nil {
		opts := m[1]
		d.TexOptions = &opts
	}
	if m := bibProgramRe.FindStringSubmatch(content); m != nil {
		d.BibProgram = m[1]
	}
	if m := bibOptionsRe.FindStringSubmatch(content); m != nil {
		opts := m[1]
		d.BibOptions = &opts
	}
	return d
}

// leadingCommentBlock truncates the content at the first line that is
// neither blank nor a % comment. Directives buried in the document body
// are not honored.
func leadingCommentBlock(content string) string {
	offset := 0
	for _, line := range strings.SplitAfter(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, "%") {
			return content[:offset]
		}
		offset += len(line)
	}
	return content
}
