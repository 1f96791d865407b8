package claims

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	claimmodel "lifesure/internal/claims/models"
	"lifesure/pkg/paging"
	"lifesure/pkg/platform/sentinel"
)

// InMemoryStore mirrors the Mongo store behavior for tests, including the
// one-claim-per-application constraint.
type InMemoryStore struct {
	mu     sync.RWMutex
	claims map[primitive.ObjectID]*claimmodel.Claim
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{claims: make(map[primitive.ObjectID]*claimmodel.Claim)}
}

func (s *InMemoryStore) Insert(_ context.Context, claim *claimmodel.Claim) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.claims {
		if c.ApplicationID == claim.ApplicationID {
			return fmt.Errorf("insert claim: %w", sentinel.ErrConflict)
		}
	}
	if claim.ID.IsZero() {
		claim.ID = primitive.NewObjectID()
	}
	cp := *claim
	s.claims[claim.ID] = &cp
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id primitive.ObjectID) (*claimmodel.Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.claims[id]
	if !ok {
		return nil, fmt.Errorf("find claim: %w", sentinel.ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

func (s *InMemoryStore) Update(_ context.Context, claim *claimmodel.Claim) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.claims[claim.ID]; !ok {
		return fmt.Errorf("update claim: %w", sentinel.ErrNotFound)
	}
	cp := *claim
	s.claims[claim.ID] = &cp
	return nil
}

func (s *InMemoryStore) ListByUser(_ context.Context, userID string, page paging.Params) ([]*claimmodel.Claim, int64, error) {
	return s.list(func(c *claimmodel.Claim) bool { return c.UserID == userID }, page)
}

func (s *InMemoryStore) ListAll(_ context.Context, page paging.Params) ([]*claimmodel.Claim, int64, error) {
	return s.list(func(*claimmodel.Claim) bool { return true }, page)
}

func (s *InMemoryStore) list(match func(*claimmodel.Claim) bool, page paging.Params) ([]*claimmodel.Claim, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*claimmodel.Claim, 0, len(s.claims))
	for _, c := range s.claims {
		if match(c) {
			cp := *c
			matched = append(matched, &cp)
		}
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

func (s *InMemoryStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.claims)), nil
}
