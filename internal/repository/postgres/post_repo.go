package postgres

import (
	"context"
	"errors"
	"kohi-api/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postColumns = `id, slug, title, excerpt, content, cover, tags, reading_time, featured, published, published_at, updated_at`

type postRepo struct {
	db *pgxpool.Pool
}

func NewPostRepository(db *pgxpool.Pool) domain.PostRepository {
	return &postRepo{db: db}
}

func (r *postRepo) List(ctx context.Context) ([]domain.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY published_at DESC NULLS LAST, id DESC`
	return r.query(ctx, query)
}

func (r *postRepo) ListPublished(ctx context.Context) ([]domain.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE published = TRUE ORDER BY published_at DESC, id DESC`
	return r.query(ctx, query)
}

func (r *postRepo) ListFeatured(ctx context.Context, limit int) ([]domain.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE published = TRUE AND featured = TRUE
              ORDER BY published_at DESC, id DESC LIMIT $1`
	return r.query(ctx, query, limit)
}

func (r *postRepo) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`
	return r.queryOne(ctx, query, id)
}

func (r *postRepo) GetPublishedBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE slug = $1 AND published = TRUE`
	return r.queryOne(ctx, query, slug)
}

func (r *postRepo) Create(ctx context.Context, post *domain.Post) error {
	query := `INSERT INTO posts (slug, title, excerpt, content, cover, tags, reading_time, featured, published, published_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
              RETURNING id`
	err := r.db.QueryRow(ctx, query,
		post.Slug, post.Title, post.Excerpt, post.Content, post.Cover, post.Tags,
		post.ReadingTime, post.Featured, post.Published, post.PublishedAt, post.UpdatedAt,
	).Scan(&post.ID)
	if isUniqueViolation(err, "") {
		return domain.ErrSlugTaken
	}
	return err
}

func (r *postRepo) Update(ctx context.Context, post *domain.Post) error {
	query := `UPDATE posts SET slug = $2, title = $3, excerpt = $4, content = $5, cover = $6, tags = $7,
                  reading_time = $8, featured = $9, published = $10, published_at = $11, updated_at = $12
              WHERE id = $1`
	tag, err := r.db.Exec(ctx, query,
		post.ID, post.Slug, post.Title, post.Excerpt, post.Content, post.Cover, post.Tags,
		post.ReadingTime, post.Featured, post.Published, post.PublishedAt, post.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return domain.ErrSlugTaken
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postRepo) query(ctx context.Context, query string, args ...any) ([]domain.Post, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []domain.Post{}
	for rows.Next() {
		var p domain.Post
		if err := scanPost(rows, &p); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (r *postRepo) queryOne(ctx context.Context, query string, args ...any) (*domain.Post, error) {
	var p domain.Post
	if err := scanPost(r.db.QueryRow(ctx, query, args...), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func scanPost(row pgx.Row, p *domain.Post) error {
	return row.Scan(&p.ID, &p.Slug, &p.Title, &p.Excerpt, &p.Content, &p.Cover, &p.Tags,
		&p.ReadingTime, &p.Featured, &p.Published, &p.PublishedAt, &p.UpdatedAt)
}
