package article

import (
	"context"
	"time"
)

// Repository stores generated articles. A zero since on the existence
// checks means no lower time bound.
type Repository interface {
	Insert(ctx context.Context, item Article) error
	ExistsBySource(ctx context.Context, kind, ref string, since time.Time) (bool, error)
	ExistsByKind(ctx context.Context, kind string, since time.Time) (bool, error)
	ListRecent(ctx context.Context, since time.Time, limit int) ([]Article, error)
}
