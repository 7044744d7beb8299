package ports

// Distro reports properties of the locally installed TeX distribution.
//
//go:generate go run go.uber.org/mock/mockgen -source=distro.go -destination=mocks/mock_distro.go -package=mocks
type Distro interface {
	// IsMiKTeX reports whether the local distribution is MiKTeX, the one
	// known to truncate console output without a print-line override.
	IsMiKTeX() bool
}
