package payments

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	paymentmodel "lifesure/internal/payments/models"
	"lifesure/pkg/paging"
	"lifesure/pkg/platform/sentinel"
)

// InMemoryStore mirrors the Mongo store behavior for tests, including the
// intent id uniqueness constraint.
type InMemoryStore struct {
	mu       sync.RWMutex
	payments map[primitive.ObjectID]*paymentmodel.Payment
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{payments: make(map[primitive.ObjectID]*paymentmodel.Payment)}
}

func (s *InMemoryStore) Insert(_ context.Context, payment *paymentmodel.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.payments {
		if p.IntentID == payment.IntentID {
			return fmt.Errorf("insert payment: %w", sentinel.ErrConflict)
		}
	}
	if payment.ID.IsZero() {
		payment.ID = primitive.NewObjectID()
	}
	cp := *payment
	s.payments[payment.ID] = &cp
	return nil
}

func (s *InMemoryStore) ListByUser(_ context.Context, userID string, page paging.Params) ([]*paymentmodel.Payment, int64, error) {
	return s.list(func(p *paymentmodel.Payment) bool { return p.UserID == userID }, page)
}

func (s *InMemoryStore) ListAll(_ context.Context, page paging.Params) ([]*paymentmodel.Payment, int64, error) {
	return s.list(func(*paymentmodel.Payment) bool { return true }, page)
}

func (s *InMemoryStore) list(match func(*paymentmodel.Payment) bool, page paging.Params) ([]*paymentmodel.Payment, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*paymentmodel.Payment, 0, len(s.payments))
	for _, p := range s.payments {
		if match(p) {
			cp := *p
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
	return int64(len(s.payments)), nil
}

func (s *InMemoryStore) RevenueTotal(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total int64
	for _, p := range s.payments {
		total += p.Amount
	}
	return total, nil
}
