package blogs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	blogmodel "lifesure/internal/blogs/models"
	usermodel "lifesure/internal/users/models"
	dErrors "lifesure/pkg/domain-errors"
	"lifesure/pkg/paging"
	"lifesure/pkg/platform/sentinel"
	"lifesure/pkg/requestcontext"
)

// Service owns blog authorship and the public listing.
type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// CreateInput carries a new post.
type CreateInput struct {
	Title   string
	Content string
}

// Create stamps the author from the authenticated user and stores the post.
func (s *Service) Create(ctx context.Context, author *usermodel.User, in CreateInput) (*blogmodel.Blog, error) {
	now := requestcontext.Now(ctx)
	blog := &blogmodel.Blog{
		AuthorID:       author.SubjectID,
		AuthorName:     author.Name,
		AuthorPhotoURL: author.PhotoURL,
		Title:          in.Title,
		Content:        in.Content,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.Insert(ctx, blog); err != nil {
		return nil, fmt.Errorf("create blog: %w", err)
	}
	return blog, nil
}

// List returns posts for the public page, filtered and newest first.
func (s *Service) List(ctx context.Context, filter Filter, page paging.Params) ([]*blogmodel.Blog, paging.Summary, error) {
	blogs, total, err := s.store.List(ctx, filter, page)
	if err != nil {
		return nil, paging.Summary{}, fmt.Errorf("list blogs: %w", err)
	}
	return blogs, page.Summarize(total), nil
}

// Read returns one post and bumps its visit counter. A failed bump is logged
// and the post still served.
func (s *Service) Read(ctx context.Context, id primitive.ObjectID) (*blogmodel.Blog, error) {
	blog, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.IncrementVisits(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "blog visit counter increment failed",
			"request_id", requestcontext.RequestID(ctx),
			"blog_id", id.Hex(),
			"error", err.Error(),
		)
	} else {
		blog.TotalVisits++
	}
	return blog, nil
}

// UpdateInput carries an author's edit.
type UpdateInput struct {
	Title   string
	Content string
}

// Update rewrites a post. Only the author may edit.
func (s *Service) Update(ctx context.Context, authorID string, id primitive.ObjectID, in UpdateInput) (*blogmodel.Blog, error) {
	blog, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if blog.AuthorID != authorID {
		return nil, dErrors.New(dErrors.CodeForbidden, "only the author can edit this post")
	}

	blog.Title = in.Title
	blog.Content = in.Content
	blog.UpdatedAt = requestcontext.Now(ctx)
	if err := s.store.Update(ctx, blog); err != nil {
		return nil, fmt.Errorf("update blog: %w", err)
	}
	return blog, nil
}

// Delete removes a post. Only the author may delete.
func (s *Service) Delete(ctx context.Context, authorID string, id primitive.ObjectID) error {
	blog, err := s.findByID(ctx, id)
	if err != nil {
		return err
	}
	if blog.AuthorID != authorID {
		return dErrors.New(dErrors.CodeForbidden, "only the author can delete this post")
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}
	return nil
}

func (s *Service) findByID(ctx context.Context, id primitive.ObjectID) (*blogmodel.Blog, error) {
	blog, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "blog not found")
		}
		return nil, fmt.Errorf("find blog: %w", err)
	}
	return blog, nil
}
