package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"kohi-api/internal/domain"
	"kohi-api/pkg/apperror"
	"kohi-api/pkg/validation"

	"github.com/go-playground/validator/v10"
)

const maxFeaturedLimit = 10

type postUsecase struct {
	repo     domain.PostRepository
	validate *validator.Validate
	now      func() time.Time
}

// NewPostUsecase creates a new post usecase. repo may be nil when no database
// is configured; admin operations then fail with 503 and the public blog is
// empty.
func NewPostUsecase(repo domain.PostRepository, validate *validator.Validate) domain.PostUsecase {
	return &postUsecase{
		repo:     repo,
		validate: validate,
		now:      time.Now,
	}
}

func errNoDatabase() *apperror.AppError {
	return apperror.ServiceUnavailable("Database not configured")
}

func (u *postUsecase) ListPosts(ctx context.Context) ([]domain.Post, error) {
	if u.repo == nil {
		return nil, errNoDatabase()
	}
	posts, err := u.repo.List(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return posts, nil
}

func (u *postUsecase) GetPost(ctx context.Context, id int64) (*domain.Post, error) {
	if u.repo == nil {
		return nil, errNoDatabase()
	}
	post, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapPostError(err)
	}
	return post, nil
}

func (u *postUsecase) CreatePost(ctx context.Context, input *domain.PostInput) (*domain.Post, error) {
	if u.repo == nil {
		return nil, errNoDatabase()
	}
	post, err := u.build(input)
	if err != nil {
		return nil, err
	}
	if err := u.repo.Create(ctx, post); err != nil {
		return nil, mapPostError(err)
	}
	return post, nil
}

// UpdatePost replaces every field of the post with the input.
func (u *postUsecase) UpdatePost(ctx context.Context, id int64, input *domain.PostInput) (*domain.Post, error) {
	if u.repo == nil {
		return nil, errNoDatabase()
	}
	post, err := u.build(input)
	if err != nil {
		return nil, err
	}
	post.ID = id
	if err := u.repo.Update(ctx, post); err != nil {
		return nil, mapPostError(err)
	}
	return post, nil
}

func (u *postUsecase) DeletePost(ctx context.Context, id int64) error {
	if u.repo == nil {
		return errNoDatabase()
	}
	if err := u.repo.Delete(ctx, id); err != nil {
		return mapPostError(err)
	}
	return nil
}

func (u *postUsecase) ListPublished(ctx context.Context) ([]domain.Post, error) {
	if u.repo == nil {
		return []domain.Post{}, nil
	}
	posts, err := u.repo.ListPublished(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return posts, nil
}

func (u *postUsecase) ListFeatured(ctx context.Context, limit int) ([]domain.Post, error) {
	if u.repo == nil {
		return []domain.Post{}, nil
	}
	if limit < 1 {
		limit = 2
	}
	if limit > maxFeaturedLimit {
		limit = maxFeaturedLimit
	}
	posts, err := u.repo.ListFeatured(ctx, limit)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return posts, nil
}

func (u *postUsecase) GetPublishedBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	if u.repo == nil {
		return nil, apperror.NotFound("Post not found")
	}
	post, err := u.repo.GetPublishedBySlug(ctx, slug)
	if err != nil {
		return nil, mapPostError(err)
	}
	return post, nil
}

// build normalises and validates the input, then derives the stored record.
// publishedAt is kept only for published posts and defaults to now.
func (u *postUsecase) build(input *domain.PostInput) (*domain.Post, error) {
	in := normalizePostInput(input)
	if err := u.validate.Struct(&in); err != nil {
		return nil, apperror.Validation(validation.FieldErrors(err))
	}

	now := u.now().UTC()
	post := &domain.Post{
		Slug:        in.Slug,
		Title:       in.Title,
		Excerpt:     in.Excerpt,
		Content:     in.Content,
		Cover:       optional(in.Cover),
		Tags:        in.Tags,
		ReadingTime: domain.DefaultReadingTime,
		Featured:    in.Featured,
		Published:   in.Published,
		UpdatedAt:   now,
	}
	if in.ReadingTime != nil {
		post.ReadingTime = *in.ReadingTime
	}
	if in.Published {
		publishedAt := now
		if in.PublishedAt != nil {
			publishedAt = in.PublishedAt.UTC()
		}
		post.PublishedAt = &publishedAt
	}
	return post, nil
}

func normalizePostInput(input *domain.PostInput) domain.PostInput {
	in := *input
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.TrimSpace(in.Slug)
	in.Excerpt = strings.TrimSpace(in.Excerpt)
	in.Content = strings.TrimSpace(in.Content)
	in.Cover = strings.TrimSpace(in.Cover)

	tags := make([]string, 0, len(in.Tags))
	for _, tag := range in.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	in.Tags = tags
	return in
}

func mapPostError(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return apperror.NotFound("Post not found")
	case errors.Is(err, domain.ErrSlugTaken):
		return apperror.Conflict("Slug already exists")
	default:
		return apperror.Internal(err)
	}
}
