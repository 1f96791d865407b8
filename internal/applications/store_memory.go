package applications

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	appmodel "lifesure/internal/applications/models"
	policymodel "lifesure/internal/policies/models"
	"lifesure/pkg/paging"
	"lifesure/pkg/platform/sentinel"
)

// PolicyLookup lets the in-memory store replicate the database-side join.
type PolicyLookup interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*policymodel.Policy, error)
}

// InMemoryStore mirrors the Mongo store behavior for tests. The policy join
// is emulated through the provided lookup.
type InMemoryStore struct {
	mu       sync.RWMutex
	apps     map[primitive.ObjectID]*appmodel.Application
	policies PolicyLookup
}

func NewInMemoryStore(policies PolicyLookup) *InMemoryStore {
	return &InMemoryStore{
		apps:     make(map[primitive.ObjectID]*appmodel.Application),
		policies: policies,
	}
}

func (s *InMemoryStore) Insert(_ context.Context, app *appmodel.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if app.ID.IsZero() {
		app.ID = primitive.NewObjectID()
	}
	cp := *app
	s.apps[app.ID] = &cp
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id primitive.ObjectID) (*appmodel.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.apps[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, fmt.Errorf("find application: %w", sentinel.ErrNotFound)
}

func (s *InMemoryStore) Update(_ context.Context, app *appmodel.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.apps[app.ID]; !ok {
		return fmt.Errorf("update application: %w", sentinel.ErrNotFound)
	}
	cp := *app
	s.apps[app.ID] = &cp
	return nil
}

func (s *InMemoryStore) ListByUser(_ context.Context, userID string, page paging.Params) ([]*appmodel.Application, int64, error) {
	return s.list(func(a *appmodel.Application) bool { return a.UserID == userID }, page)
}

func (s *InMemoryStore) ListByAgent(_ context.Context, agentID string, page paging.Params) ([]*appmodel.Application, int64, error) {
	return s.list(func(a *appmodel.Application) bool { return a.AssignedAgentID == agentID }, page)
}

func (s *InMemoryStore) list(match func(*appmodel.Application) bool, page paging.Params) ([]*appmodel.Application, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*appmodel.Application, 0)
	for _, a := range s.apps {
		if match(a) {
			cp := *a
			matched = append(matched, &cp)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := page.Skip()
	if start >= total {
		return []*appmodel.Application{}, total, nil
	}
	end := min(start+int64(page.Limit), total)
	return matched[start:end], total, nil
}

func (s *InMemoryStore) ListAllWithPolicy(ctx context.Context, page paging.Params) ([]*appmodel.AdminItem, int64, error) {
	apps, total, err := s.list(func(*appmodel.Application) bool { return true }, page)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*appmodel.AdminItem, 0, len(apps))
	for _, a := range apps {
		item := &appmodel.AdminItem{Application: *a}
		if policy, err := s.policies.FindByID(ctx, a.PolicyID); err == nil {
			item.PolicyInfo = &appmodel.PolicyInfo{Title: policy.Title, Category: policy.Category}
		}
		items = append(items, item)
	}
	return items, total, nil
}

func (s *InMemoryStore) FindApproved(_ context.Context, userID string, policyID primitive.ObjectID) (*appmodel.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.apps {
		if a.UserID == userID && a.PolicyID == policyID && a.Status == appmodel.StatusApproved {
			cp := *a
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("find approved application: %w", sentinel.ErrNotFound)
}

func (s *InMemoryStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.apps)), nil
}
