// Package distro probes the locally installed TeX distribution.
package distro

import (
	"os/exec"
	"strings"
	"sync"
)

// Prober implements ports.Distro by sniffing `pdflatex --version` output.
// The probe runs once and is cached for the process lifetime.
type Prober struct {
	once   sync.Once
	miktex bool

	// versionOutput overrides the probe in tests.
	versionOutput func() (string, error)
}

// New creates a new Prober.
func New() *Prober {
	return &Prober{versionOutput: pdflatexVersion}
}

// IsMiKTeX reports whether the local distribution is MiKTeX.
func (p *Prober) IsMiKTeX() bool {
	p.once.Do(func() {
		out, err := p.versionOutput()
		if err != nil {
			return
		}
		p.miktex = strings.Contains(out, "MiKTeX")
	})
	return p.miktex
}

func pdflatexVersion() (string, error) {
	out, err := exec.Command("pdflatex", "--version").Output()
	return string(out), err
}
