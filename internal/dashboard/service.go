// Package dashboard aggregates cross-module counts for the admin overview.
package dashboard

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Counter reports how many records a module holds.
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// PaymentSource reports payment volume and summed revenue.
type PaymentSource interface {
	Counter
	RevenueTotal(ctx context.Context) (int64, error)
}

// Stats is the admin overview payload. Revenue is in cents.
type Stats struct {
	TotalUsers        int64 `json:"totalUsers"`
	TotalPolicies     int64 `json:"totalPolicies"`
	TotalApplications int64 `json:"totalApplications"`
	TotalClaims       int64 `json:"totalClaims"`
	TotalPayments     int64 `json:"totalPayments"`
	TotalRevenue      int64 `json:"totalRevenue"`
}

// Service fans out to each module's counter.
type Service struct {
	users        Counter
	policies     Counter
	applications Counter
	claims       Counter
	payments     PaymentSource
}

func NewService(users, policies, applications, claims Counter, payments PaymentSource) *Service {
	return &Service{
		users:        users,
		policies:     policies,
		applications: applications,
		claims:       claims,
		payments:     payments,
	}
}

// Stats gathers the counts concurrently. Any failed count fails the whole
// request.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats
	g, gctx := errgroup.WithContext(ctx)

	count := func(name string, src Counter, dst *int64) {
		g.Go(func() error {
			n, err := src.Count(gctx)
			if err != nil {
				return fmt.Errorf("count %s: %w", name, err)
			}
			*dst = n
			return nil
		})
	}
	count("users", s.users, &stats.TotalUsers)
	count("policies", s.policies, &stats.TotalPolicies)
	count("applications", s.applications, &stats.TotalApplications)
	count("claims", s.claims, &stats.TotalClaims)
	count("payments", s.payments, &stats.TotalPayments)
	g.Go(func() error {
		total, err := s.payments.RevenueTotal(gctx)
		if err != nil {
			return fmt.Errorf("sum revenue: %w", err)
		}
		stats.TotalRevenue = total
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}
