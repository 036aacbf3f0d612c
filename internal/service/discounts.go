package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/surp29/Backend-PoS/internal/diary"
	"github.com/surp29/Backend-PoS/internal/domain"
	"github.com/surp29/Backend-PoS/internal/store"
)

func (s *Service) ListDiscountCodes(ctx context.Context) ([]domain.DiscountCode, error) {
	return s.repo.ListDiscountCodes(ctx)
}

func (s *Service) CreateDiscountCode(ctx context.Context, req domain.DiscountWriteRequest) (domain.DiscountCode, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return domain.DiscountCode{}, err
	}
	if err := s.checkRequest(req); err != nil {
		return domain.DiscountCode{}, err
	}

	dc := domain.DiscountCode{
		Code:          strings.ToUpper(strings.TrimSpace(req.Code)),
		Name:          req.Name,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		MinOrderValue: req.MinOrderValue,
		MaxUses:       req.MaxUses,
		TotalSavings:  decimal.Zero,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Status:        defaultString(req.Status, domain.DiscountStatusActive),
	}
	if dc.StartDate.IsZero() {
		dc.StartDate = time.Now()
	}

	created, err := s.repo.CreateDiscountCode(ctx, dc)
	if err != nil {
		if errorsIsConflict(err) {
			return domain.DiscountCode{}, fmt.Errorf("mã giảm giá %s đã tồn tại: %w", dc.Code, err)
		}
		return domain.DiscountCode{}, err
	}

	s.record(ctx, diary.Event{
		Source:      "Discount",
		Description: fmt.Sprintf("Tạo mã giảm giá %s", created.Code),
	})
	return *created, nil
}

func (s *Service) UpdateDiscountCode(ctx context.Context, id int64, req domain.DiscountWriteRequest) (domain.DiscountCode, error) {
	if err := s.checkRequest(req); err != nil {
		return domain.DiscountCode{}, err
	}

	list, err := s.repo.ListDiscountCodes(ctx)
	if err != nil {
		return domain.DiscountCode{}, err
	}
	var existing *domain.DiscountCode
	for i := range list {
		if list[i].ID == id {
			existing = &list[i]
			break
		}
	}
	if existing == nil {
		return domain.DiscountCode{}, fmt.Errorf("không tìm thấy mã giảm giá: %w", store.ErrNotFound)
	}

	updated := *existing
	updated.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	updated.Name = req.Name
	updated.DiscountType = req.DiscountType
	updated.DiscountValue = req.DiscountValue
	updated.MinOrderValue = req.MinOrderValue
	updated.MaxUses = req.MaxUses
	updated.StartDate = req.StartDate
	updated.EndDate = req.EndDate
	updated.Status = defaultString(req.Status, existing.Status)

	persisted, err := s.repo.UpdateDiscountCode(ctx, updated)
	if err != nil {
		return domain.DiscountCode{}, err
	}

	s.record(ctx, diary.Event{
		Source:      "Discount",
		Description: fmt.Sprintf("Cập nhật mã giảm giá %s", persisted.Code),
	})
	return *persisted, nil
}

func (s *Service) DeleteDiscountCode(ctx context.Context, id int64) error {
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}
	if err := s.repo.DeleteDiscountCode(ctx, id); err != nil {
		return fmt.Errorf("không tìm thấy mã giảm giá: %w", err)
	}

	s.record(ctx, diary.Event{
		Source:      "Discount",
		Description: "Xóa mã giảm giá",
	})
	return nil
}

// CheckDiscount answers whether a code is usable for the given order
// value, and how much it would take off. The reason string mirrors what
// the cashier screen shows.
func (s *Service) CheckDiscount(ctx context.Context, req domain.DiscountCheckRequest) (domain.DiscountCheckResult, error) {
	if err := s.checkRequest(req); err != nil {
		return domain.DiscountCheckResult{}, err
	}

	dc, err := s.repo.GetDiscountByCode(ctx, strings.TrimSpace(req.Code))
	if err != nil {
		return domain.DiscountCheckResult{}, fmt.Errorf("không tìm thấy mã giảm giá: %w", err)
	}

	if reason := discountBlockReason(*dc, req.OrderValue, time.Now()); reason != "" {
		return domain.DiscountCheckResult{Usable: false, Reason: reason, Amount: decimal.Zero, Payable: req.OrderValue}, nil
	}

	amount := discountAmount(*dc, req.OrderValue)
	payable := req.OrderValue.Sub(amount)
	if payable.IsNegative() {
		payable = decimal.Zero
	}
	return domain.DiscountCheckResult{Usable: true, Amount: amount, Payable: payable}, nil
}

// ApplyDiscount validates and burns one use of the code.
func (s *Service) ApplyDiscount(ctx context.Context, req domain.DiscountCheckRequest) (domain.DiscountCheckResult, error) {
	result, err := s.CheckDiscount(ctx, req)
	if err != nil {
		return domain.DiscountCheckResult{}, err
	}
	if !result.Usable {
		return result, nil
	}

	if _, err := s.repo.RegisterDiscountUse(ctx, strings.TrimSpace(req.Code), result.Amount); err != nil {
		return domain.DiscountCheckResult{}, err
	}

	s.record(ctx, diary.Event{
		Source:      "Discount",
		Description: fmt.Sprintf("Áp dụng mã giảm giá %s", strings.ToUpper(strings.TrimSpace(req.Code))),
		Amount:      result.Amount,
	})
	return result, nil
}

func discountBlockReason(dc domain.DiscountCode, orderValue decimal.Decimal, now time.Time) string {
	if dc.EndDate != nil && dc.EndDate.Before(now) {
		return "Mã giảm giá đã hết hạn"
	}
	if dc.Status != domain.DiscountStatusActive {
		return "Mã giảm giá không hoạt động"
	}
	if dc.StartDate.After(now) {
		return "Mã giảm giá chưa có hiệu lực"
	}
	if dc.MaxUses > 0 && dc.UsedCount >= dc.MaxUses {
		return "Mã giảm giá đã hết lượt sử dụng"
	}
	if orderValue.LessThan(dc.MinOrderValue) {
		return fmt.Sprintf("Giá trị đơn hàng tối thiểu là %s VNĐ", dc.MinOrderValue.StringFixed(0))
	}
	return ""
}

func discountAmount(dc domain.DiscountCode, orderValue decimal.Decimal) decimal.Decimal {
	if dc.DiscountType == domain.DiscountTypePercentage {
		return orderValue.Mul(dc.DiscountValue).Div(decimal.NewFromInt(100)).Round(0)
	}
	if dc.DiscountValue.GreaterThan(orderValue) {
		return orderValue
	}
	return dc.DiscountValue
}
