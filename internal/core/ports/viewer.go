package ports

// Viewer is the PDF viewer collaborator. The engine only notifies it; how
// the viewer reacts is out of scope.
//
//go:generate go run go.uber.org/mock/mockgen -source=viewer.go -destination=mocks/mock_viewer.go -package=mocks
type Viewer interface {
	// Refresh asks the viewer to reload the displayed artifact.
	Refresh()
	// ForwardSearch requests a SyncTeX forward search against the given
	// output artifact.
	ForwardSearch(pdfPath string)
}
