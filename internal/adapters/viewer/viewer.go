// Package viewer provides the notification-only viewer adapter. texmk does
// not render PDFs itself; it tells whatever is viewing the artifact that
// something changed.
package viewer

import (
	"fmt"

	"go.trai.ch/texmk/internal/core/ports"
)

// Notifier implements ports.Viewer by logging the notifications. An
// embedding integration can replace it with a real viewer bridge.
type Notifier struct {
	logger ports.Logger
}

// New creates a new Notifier.
func New(logger ports.Logger) *Notifier {
	return &Notifier{logger: logger}
}

// Refresh logs the refresh notification.
func (n *Notifier) Refresh() {
	n.logger.Info("viewer refresh requested")
}

// ForwardSearch logs the SyncTeX forward-search request with the derived
// artifact path.
func (n *Notifier) ForwardSearch(pdfPath string) {
	n.logger.Info(fmt.Sprintf("synctex forward search requested for %s", pdfPath))
}
