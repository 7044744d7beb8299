// Package status provides the Progrock implementation of the status
// reporter: build lifecycle rendered as progress vertices.
package status

import (
	"fmt"
	"sync"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/zerr"
)

// Reporter implements ports.StatusReporter on top of a progrock recorder.
// Every Busy transition opens a vertex; Success and Failure close the
// current one with the matching mark.
type Reporter struct {
	mu      sync.Mutex
	w       progrock.Writer
	rec     *progrock.Recorder
	current *progrock.VertexRecorder
	counter int
}

// New creates a Reporter with a default tape.
func New() *Reporter {
	return NewReporter(progrock.NewTape())
}

// NewReporter creates a Reporter with the given writer.
func NewReporter(w progrock.Writer) *Reporter {
	return &Reporter{
		w:   w,
		rec: progrock.NewRecorder(w),
	}
}

// Busy marks a build as in progress, with an optional progress suffix
// such as "step 2/4 (biber)". A previous in-progress vertex is closed
// cleanly first: the orchestrator only moves on after a successful step.
func (r *Reporter) Busy(suffix string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current != nil {
		r.current.Done(nil)
	}

	name := "build"
	if suffix != "" {
		name = "build: " + suffix
	}
	r.counter++
	d := digest.FromString(fmt.Sprintf("%s#%d", name, r.counter))
	r.current = r.rec.Vertex(d, name)
}

// Success closes the current vertex with a success mark.
func (r *Reporter) Success() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current != nil {
		r.current.Done(nil)
		r.current = nil
	}
}

// Failure closes the current vertex with an error mark.
func (r *Reporter) Failure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current != nil {
		r.current.Done(zerr.New("build failed"))
		r.current = nil
	}
}

// Notify surfaces a user-visible message on the progress surface.
func (r *Reporter) Notify(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current != nil {
		_, _ = fmt.Fprintln(r.current.Stderr(), msg)
		return
	}
	r.counter++
	v := r.rec.Vertex(digest.FromString(fmt.Sprintf("notice#%d", r.counter)), "notice")
	_, _ = fmt.Fprintln(v.Stderr(), msg)
	v.Done(nil)
}

// Close flushes and closes the recording session.
func (r *Reporter) Close() error {
	if c, ok := r.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
