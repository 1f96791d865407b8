package blogs

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	blogmodel "lifesure/internal/blogs/models"
	"lifesure/pkg/paging"
	"lifesure/pkg/platform/sentinel"
)

// InMemoryStore mirrors the Mongo store behavior for tests.
type InMemoryStore struct {
	mu    sync.RWMutex
	blogs map[primitive.ObjectID]*blogmodel.Blog
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{blogs: make(map[primitive.ObjectID]*blogmodel.Blog)}
}

func (s *InMemoryStore) Insert(_ context.Context, blog *blogmodel.Blog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if blog.ID.IsZero() {
		blog.ID = primitive.NewObjectID()
	}
	cp := *blog
	s.blogs[blog.ID] = &cp
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id primitive.ObjectID) (*blogmodel.Blog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blogs[id]
	if !ok {
		return nil, fmt.Errorf("find blog: %w", sentinel.ErrNotFound)
	}
	cp := *b
	return &cp, nil
}

func (s *InMemoryStore) Update(_ context.Context, blog *blogmodel.Blog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blogs[blog.ID]; !ok {
		return fmt.Errorf("update blog: %w", sentinel.ErrNotFound)
	}
	cp := *blog
	s.blogs[blog.ID] = &cp
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blogs[id]; !ok {
		return fmt.Errorf("delete blog: %w", sentinel.ErrNotFound)
	}
	delete(s.blogs, id)
	return nil
}

func (s *InMemoryStore) List(_ context.Context, filter Filter, page paging.Params) ([]*blogmodel.Blog, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	matched := make([]*blogmodel.Blog, 0, len(s.blogs))
	for _, b := range s.blogs {
		if filter.AuthorID != "" && b.AuthorID != filter.AuthorID {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(b.Title), search) &&
			!strings.Contains(strings.ToLower(b.Content), search) {
			continue
		}
		cp := *b
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := int(page.Skip())
	if start > len(matched) {
		start = len(matched)
	}
	end := start + page.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (s *InMemoryStore) IncrementVisits(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blogs[id]
	if !ok {
		return fmt.Errorf("increment blog visits: %w", sentinel.ErrNotFound)
	}
	b.TotalVisits++
	return nil
}
