package reviews

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	reviewmodel "lifesure/internal/reviews/models"
	"lifesure/pkg/platform/sentinel"
)

// InMemoryStore mirrors the Mongo store behavior for tests, including the
// (user, policy) uniqueness constraint.
type InMemoryStore struct {
	mu      sync.RWMutex
	reviews map[primitive.ObjectID]*reviewmodel.Review
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{reviews: make(map[primitive.ObjectID]*reviewmodel.Review)}
}

func (s *InMemoryStore) Insert(_ context.Context, review *reviewmodel.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rv := range s.reviews {
		if rv.UserID == review.UserID && rv.PolicyID == review.PolicyID {
			return fmt.Errorf("insert review: %w", sentinel.ErrConflict)
		}
	}
	if review.ID.IsZero() {
		review.ID = primitive.NewObjectID()
	}
	cp := *review
	s.reviews[review.ID] = &cp
	return nil
}

func (s *InMemoryStore) FindByUserAndPolicy(_ context.Context, userID string, policyID primitive.ObjectID) (*reviewmodel.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rv := range s.reviews {
		if rv.UserID == userID && rv.PolicyID == policyID {
			cp := *rv
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("find review: %w", sentinel.ErrNotFound)
}

func (s *InMemoryStore) ListLatest(_ context.Context, limit int) ([]*reviewmodel.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*reviewmodel.Review, 0, len(s.reviews))
	for _, rv := range s.reviews {
		cp := *rv
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}
