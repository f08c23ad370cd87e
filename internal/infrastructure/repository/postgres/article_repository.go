package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/nfaconnect/matchday/internal/domain/article"
	qb "github.com/nfaconnect/matchday/internal/platform/querybuilder"
)

const defaultNewsListLimit = 20

type ArticleRepository struct {
	db *sqlx.DB
}

func NewArticleRepository(db *sqlx.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

func (r *ArticleRepository) Insert(ctx context.Context, item article.Article) error {
	insertModel := articleInsertModel{
		PublicID:   item.ID,
		Title:      item.Title,
		Summary:    item.Summary,
		Body:       item.Body,
		ImageURL:   item.ImageURL,
		SourceKind: item.SourceKind,
		SourceRef:  item.SourceRef,
		CreatedAt:  item.CreatedAt,
	}
	query, args, err := qb.InsertModel("articles", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert article query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert article: %w", err)
	}

	return nil
}

func (r *ArticleRepository) ExistsBySource(ctx context.Context, kind, ref string, since time.Time) (bool, error) {
	conditions := []qb.Condition{
		qb.Eq("source_kind", kind),
		qb.Eq("source_ref", ref),
	}
	if !since.IsZero() {
		conditions = append(conditions, qb.Expr("created_at >= ?", since))
	}

	return r.exists(ctx, conditions)
}

func (r *ArticleRepository) ExistsByKind(ctx context.Context, kind string, since time.Time) (bool, error) {
	conditions := []qb.Condition{qb.Eq("source_kind", kind)}
	if !since.IsZero() {
		conditions = append(conditions, qb.Expr("created_at >= ?", since))
	}

	return r.exists(ctx, conditions)
}

func (r *ArticleRepository) exists(ctx context.Context, conditions []qb.Condition) (bool, error) {
	query, args, err := qb.Select("1").From("articles").
		Where(conditions...).
		Limit(1).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build article exists query: %w", err)
	}

	var one int
	if err := r.db.GetContext(ctx, &one, query, args...); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("article exists: %w", err)
	}

	return true, nil
}

func (r *ArticleRepository) ListRecent(ctx context.Context, since time.Time, limit int) ([]article.Article, error) {
	if limit <= 0 {
		limit = defaultNewsListLimit
	}

	builder := qb.Select("*").From("articles")
	if !since.IsZero() {
		builder = builder.Where(qb.Expr("created_at >= ?", since))
	}
	query, args, err := builder.
		OrderBy("created_at DESC", "id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list recent articles query: %w", err)
	}

	var rows []articleTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list recent articles: %w", err)
	}

	out := make([]article.Article, 0, len(rows))
	for _, row := range rows {
		out = append(out, article.Article{
			ID:         row.PublicID,
			Title:      row.Title,
			Summary:    row.Summary,
			Body:       row.Body,
			ImageURL:   row.ImageURL,
			SourceKind: row.SourceKind,
			SourceRef:  row.SourceRef,
			CreatedAt:  row.CreatedAt,
		})
	}

	return out, nil
}
