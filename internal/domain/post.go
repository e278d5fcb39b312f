package domain

import (
	"context"
	"time"
)

const DefaultReadingTime = 6

type Post struct {
	ID          int64      `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Excerpt     string     `json:"excerpt"`
	Content     string     `json:"content"`
	Cover       *string    `json:"cover"`
	Tags        []string   `json:"tags"`
	ReadingTime int        `json:"readingTime"`
	Featured    bool       `json:"featured"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"publishedAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// PostInput is the admin create/update payload. Update replaces every field.
type PostInput struct {
	Title       string     `json:"title" validate:"required,min=3,max=160"`
	Slug        string     `json:"slug" validate:"required,min=3,max=160,slug"`
	Excerpt     string     `json:"excerpt" validate:"max=300"`
	Content     string     `json:"content"`
	ReadingTime *int       `json:"readingTime" validate:"omitempty,min=1,max=120"`
	Cover       string     `json:"cover" validate:"optional_url"`
	Tags        []string   `json:"tags" validate:"max=20,dive,max=40"`
	Featured    bool       `json:"featured"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"publishedAt"`
}

type PostRepository interface {
	// List returns every post, newest publish date first, drafts last.
	List(ctx context.Context) ([]Post, error)
	ListPublished(ctx context.Context) ([]Post, error)
	ListFeatured(ctx context.Context, limit int) ([]Post, error)
	GetByID(ctx context.Context, id int64) (*Post, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*Post, error)
	Create(ctx context.Context, post *Post) error
	Update(ctx context.Context, post *Post) error
	Delete(ctx context.Context, id int64) error
}

type PostUsecase interface {
	ListPosts(ctx context.Context) ([]Post, error)
	GetPost(ctx context.Context, id int64) (*Post, error)
	CreatePost(ctx context.Context, input *PostInput) (*Post, error)
	UpdatePost(ctx context.Context, id int64, input *PostInput) (*Post, error)
	DeletePost(ctx context.Context, id int64) error

	ListPublished(ctx context.Context) ([]Post, error)
	ListFeatured(ctx context.Context, limit int) ([]Post, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*Post, error)
}
