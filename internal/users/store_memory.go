package users

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	usermodel "lifesure/internal/users/models"
	"lifesure/pkg/paging"
	"lifesure/pkg/platform/sentinel"
)

// InMemoryStore keeps the store contract testable without a database. It
// intentionally favors clarity over performance.
type InMemoryStore struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]*usermodel.User
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{users: make(map[primitive.ObjectID]*usermodel.User)}
}

func (s *InMemoryStore) Insert(_ context.Context, user *usermodel.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.SubjectID == user.SubjectID {
			return fmt.Errorf("insert user: %w", sentinel.ErrConflict)
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *InMemoryStore) FindBySubject(_ context.Context, subjectID string) (*usermodel.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.SubjectID == subjectID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("find user: %w", sentinel.ErrNotFound)
}

func (s *InMemoryStore) FindByID(_ context.Context, id primitive.ObjectID) (*usermodel.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, fmt.Errorf("find user: %w", sentinel.ErrNotFound)
}

func (s *InMemoryStore) Update(_ context.Context, user *usermodel.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return fmt.Errorf("update user: %w", sentinel.ErrNotFound)
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return fmt.Errorf("delete user: %w", sentinel.ErrNotFound)
	}
	delete(s.users, id)
	return nil
}

func (s *InMemoryStore) List(_ context.Context, filter Filter, page paging.Params) ([]*usermodel.User, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*usermodel.User, 0, len(s.users))
	needle := strings.ToLower(filter.Search)
	for _, u := range s.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(u.Name), needle) &&
			!strings.Contains(strings.ToLower(u.Email), needle) {
			continue
		}
		cp := *u
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return slicePage(matched, page)
}

func (s *InMemoryStore) ListPendingAgentApplications(_ context.Context, page paging.Params) ([]*usermodel.User, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*usermodel.User, 0)
	for _, u := range s.users {
		if u.AgentApplication != nil && u.AgentApplication.Status == usermodel.AgentApplicationPending {
			cp := *u
			matched = append(matched, &cp)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].AgentApplication.AppliedAt.Before(matched[j].AgentApplication.AppliedAt)
	})
	return slicePage(matched, page)
}

func (s *InMemoryStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.users)), nil
}

func slicePage[T any](items []T, page paging.Params) ([]T, int64, error) {
	total := int64(len(items))
	start := page.Skip()
	if start >= total {
		return []T{}, total, nil
	}
	end := start + int64(page.Limit)
	if end > total {
		end = total
	}
	return items[start:end], total, nil
}
