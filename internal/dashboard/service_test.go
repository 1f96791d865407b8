package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCounter struct {
	n   int64
	err error
}

func (s stubCounter) Count(context.Context) (int64, error) { return s.n, s.err }

type stubPayments struct {
	stubCounter
	revenue int64
}

func (s stubPayments) RevenueTotal(context.Context) (int64, error) { return s.revenue, s.err }

func TestStats(t *testing.T) {
	svc := NewService(
		stubCounter{n: 10},
		stubCounter{n: 4},
		stubCounter{n: 7},
		stubCounter{n: 2},
		stubPayments{stubCounter: stubCounter{n: 5}, revenue: 123400},
	)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &Stats{
		TotalUsers:        10,
		TotalPolicies:     4,
		TotalApplications: 7,
		TotalClaims:       2,
		TotalPayments:     5,
		TotalRevenue:      123400,
	}, stats)
}

func TestStatsPropagatesFailure(t *testing.T) {
	svc := NewService(
		stubCounter{err: errors.New("connection reset")},
		stubCounter{},
		stubCounter{},
		stubCounter{},
		stubPayments{},
	)

	_, err := svc.Stats(context.Background())
	assert.Error(t, err)
}
