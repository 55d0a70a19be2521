package source

import "context"

// Source abstracts one upstream content provider.
//
// Fetch returns up to limit normalized articles. Partial results are valid
// alongside a non-nil error: the caller logs the error and keeps whatever
// came back. Implementations must not panic across this boundary.
type Source interface {
	Name() string
	Fetch(ctx context.Context, limit int) ([]Article, error)
}
