package service

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/surp29/Backend-PoS/internal/domain"
)

var tierLabels = []struct {
	name  string
	color string
}{
	{"Đồng", "#cd7f32"},
	{"Bạc", "#bcc6cc"},
	{"Vàng", "#ffd700"},
	{"Bạch kim", "#e5e4e2"},
	{"Kim cương", "#00e5ee"},
}

// tierThresholds grows past the second tier as prev + 10M + 50% of prev.
func tierThresholds() []int64 {
	thresholds := []int64{0, 30_000_000}
	for i := 2; i < len(tierLabels); i++ {
		prev := thresholds[i-1]
		thresholds = append(thresholds, prev+10_000_000+prev/2)
	}
	return thresholds
}

func customerTier(totalAmount decimal.Decimal) (string, string, int, decimal.Decimal) {
	thresholds := tierThresholds()
	for i := len(thresholds) - 1; i >= 0; i-- {
		min := decimal.NewFromInt(thresholds[i])
		if totalAmount.GreaterThanOrEqual(min) {
			return tierLabels[i].name, tierLabels[i].color, i + 1, min
		}
	}
	return tierLabels[0].name, tierLabels[0].color, 1, decimal.Zero
}

// CustomerAggregates joins per-customer order totals with paid invoice
// totals. Debt is floored at zero per customer.
func (s *Service) CustomerAggregates(ctx context.Context) ([]domain.CustomerAggregate, error) {
	rows, err := s.repo.CustomerOrderAggregates(ctx)
	if err != nil {
		return nil, err
	}
	paid, err := s.repo.PaidTotalsByBuyer(ctx)
	if err != nil {
		return nil, err
	}

	for i := range rows {
		debt := rows[i].TotalAmount.Sub(paid[rows[i].CustomerName])
		if debt.IsNegative() {
			debt = decimal.Zero
		}
		rows[i].TotalDebt = debt
	}
	return rows, nil
}

func (s *Service) CustomerLeaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	rows, err := s.repo.CustomerOrderAggregates(ctx)
	if err != nil {
		return nil, err
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].TotalAmount.GreaterThan(rows[j].TotalAmount)
	})
	if limit <= 0 {
		limit = 100
	}
	if len(rows) > limit {
		rows = rows[:limit]
	}

	out := make([]domain.LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		name, color, level, minAmount := customerTier(row.TotalAmount)
		out = append(out, domain.LeaderboardEntry{
			CustomerName:  row.CustomerName,
			OrderCount:    row.OrderCount,
			TotalQuantity: row.TotalQuantity,
			TotalAmount:   row.TotalAmount,
			TierName:      name,
			TierColor:     color,
			TierLevel:     level,
			TierMinAmount: minAmount,
		})
	}
	return out, nil
}
