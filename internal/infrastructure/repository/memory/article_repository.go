package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/nfaconnect/matchday/internal/domain/article"
)

type ArticleRepository struct {
	mu    sync.RWMutex
	items []article.Article
}

func NewArticleRepository() *ArticleRepository {
	return &ArticleRepository{}
}

func (r *ArticleRepository) Insert(_ context.Context, item article.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = append(r.items, item)
	return nil
}

func (r *ArticleRepository) ExistsBySource(_ context.Context, kind, ref string, since time.Time) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.SourceKind != kind || item.SourceRef != ref {
			continue
		}
		if since.IsZero() || !item.CreatedAt.Before(since) {
			return true, nil
		}
	}

	return false, nil
}

func (r *ArticleRepository) ExistsByKind(_ context.Context, kind string, since time.Time) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.SourceKind != kind {
			continue
		}
		if since.IsZero() || !item.CreatedAt.Before(since) {
			return true, nil
		}
	}

	return false, nil
}

func (r *ArticleRepository) ListRecent(_ context.Context, since time.Time, limit int) ([]article.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]article.Article, 0, len(r.items))
	for _, item := range r.items {
		if since.IsZero() || !item.CreatedAt.Before(since) {
			out = append(out, item)
		}
	}

	// Newest first, insertion order breaks ties.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}
