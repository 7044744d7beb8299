package ports

import "context"

// Cleaner removes generated build artifacts next to the root file and in
// the output directory. It backs both the clean-and-retry cycle and the
// post-build auto-clean policy.
//
//go:generate go run go.uber.org/mock/mockgen -source=cleaner.go -destination=mocks/mock_cleaner.go -package=mocks
type Cleaner interface {
	Clean(ctx context.Context, rootFile string) error
}
