package service

import (
	"context"
	"time"

	"github.com/surp29/Backend-PoS/internal/domain"
)

// RevenueSummary reports paid revenue over an optional window plus the
// outstanding unpaid balance, which is never date-bounded.
func (s *Service) RevenueSummary(ctx context.Context, from *time.Time, to *time.Time) (domain.RevenueSummary, error) {
	revenue, paidCount, err := s.repo.PaidRevenue(ctx, from, to)
	if err != nil {
		return domain.RevenueSummary{}, err
	}
	debt, unpaidCount, err := s.repo.UnpaidTotals(ctx)
	if err != nil {
		return domain.RevenueSummary{}, err
	}

	return domain.RevenueSummary{
		TotalRevenue:       revenue,
		PaidInvoiceCount:   paidCount,
		TotalDebt:          debt,
		UnpaidInvoiceCount: unpaidCount,
	}, nil
}

func (s *Service) ListDiary(ctx context.Context, from *time.Time, to *time.Time, limit int) ([]domain.DiaryEntry, error) {
	return s.repo.ListDiaryEntries(ctx, from, to, limit)
}
