package policies

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	policymodel "lifesure/internal/policies/models"
	"lifesure/pkg/paging"
	"lifesure/pkg/platform/sentinel"
)

// InMemoryStore mirrors the Mongo store behavior for tests.
type InMemoryStore struct {
	mu       sync.RWMutex
	policies map[primitive.ObjectID]*policymodel.Policy
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{policies: make(map[primitive.ObjectID]*policymodel.Policy)}
}

func (s *InMemoryStore) Insert(_ context.Context, policy *policymodel.Policy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if policy.ID.IsZero() {
		policy.ID = primitive.NewObjectID()
	}
	cp := *policy
	s.policies[policy.ID] = &cp
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id primitive.ObjectID) (*policymodel.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.policies[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, fmt.Errorf("find policy: %w", sentinel.ErrNotFound)
}

func (s *InMemoryStore) Update(_ context.Context, policy *policymodel.Policy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.policies[policy.ID]; !ok {
		return fmt.Errorf("update policy: %w", sentinel.ErrNotFound)
	}
	cp := *policy
	s.policies[policy.ID] = &cp
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.policies[id]; !ok {
		return fmt.Errorf("delete policy: %w", sentinel.ErrNotFound)
	}
	delete(s.policies, id)
	return nil
}

func (s *InMemoryStore) List(_ context.Context, filter Filter, page paging.Params) ([]*policymodel.Policy, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*policymodel.Policy, 0, len(s.policies))
	needle := strings.ToLower(filter.Search)
	for _, p := range s.policies {
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Title), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		cp := *p
		matched = append(matched, &cp)
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = SortByCreatedAt
	}
	sort.Slice(matched, func(i, j int) bool {
		var less bool
		switch sortBy {
		case SortByPremium:
			less = matched[i].BasePremium < matched[j].BasePremium
		case SortByApplications:
			less = matched[i].ApplicationCount < matched[j].ApplicationCount
		default:
			less = matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		if filter.SortDesc {
			return !less
		}
		return less
	})

	total := int64(len(matched))
	start := page.Skip()
	if start >= total {
		return []*policymodel.Policy{}, total, nil
	}
	end := min(start+int64(page.Limit), total)
	return matched[start:end], total, nil
}

func (s *InMemoryStore) TopByApplications(_ context.Context, limit int) ([]*policymodel.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*policymodel.Policy, 0, len(s.policies))
	for _, p := range s.policies {
		cp := *p
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].ApplicationCount > all[j].ApplicationCount
	})
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (s *InMemoryStore) IncrementApplicationCount(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.policies[id]
	if !ok {
		return fmt.Errorf("increment application count: %w", sentinel.ErrNotFound)
	}
	p.ApplicationCount++
	return nil
}

func (s *InMemoryStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.policies)), nil
}
