package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/surp29/Backend-PoS/internal/diary"
	"github.com/surp29/Backend-PoS/internal/domain"
)

func (s *Service) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return s.repo.ListAccounts(ctx)
}

func (s *Service) GetAccount(ctx context.Context, id int64) (domain.Account, error) {
	acc, err := s.repo.GetAccountByID(ctx, id)
	if err != nil {
		return domain.Account{}, fmt.Errorf("không tìm thấy khách hàng: %w", err)
	}
	return *acc, nil
}

func (s *Service) CreateAccount(ctx context.Context, req domain.AccountWriteRequest) (domain.Account, error) {
	if err := s.checkRequest(req); err != nil {
		return domain.Account{}, err
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	acc := domain.Account{
		Name:         safeName(req.Name),
		CustomerCode: req.CustomerCode,
		BirthDate:    req.BirthDate,
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		Active:       active,
		Debt:         decimal.Zero,
	}

	created, err := s.repo.CreateAccount(ctx, acc)
	if err != nil {
		return domain.Account{}, err
	}

	s.record(ctx, diary.Event{
		Source:      "Customer",
		Description: fmt.Sprintf("Thêm khách hàng %s", created.Name),
	})
	return *created, nil
}

func (s *Service) UpdateAccount(ctx context.Context, id int64, req domain.AccountWriteRequest) (domain.Account, error) {
	if err := s.checkRequest(req); err != nil {
		return domain.Account{}, err
	}

	existing, err := s.repo.GetAccountByID(ctx, id)
	if err != nil {
		return domain.Account{}, fmt.Errorf("không tìm thấy khách hàng: %w", err)
	}

	updated := *existing
	updated.Name = safeName(req.Name)
	updated.CustomerCode = req.CustomerCode
	updated.BirthDate = req.BirthDate
	updated.Email = req.Email
	updated.Phone = req.Phone
	updated.Address = req.Address
	if req.Active != nil {
		updated.Active = *req.Active
	}

	persisted, err := s.repo.UpdateAccount(ctx, updated)
	if err != nil {
		return domain.Account{}, err
	}

	// A rename points the debt snapshot at a different invoice history.
	if existing.Name != persisted.Name {
		s.refreshDebt(ctx, persisted.Name)
	}

	s.record(ctx, diary.Event{
		Source:      "Customer",
		Description: fmt.Sprintf("Cập nhật khách hàng %s", persisted.Name),
	})
	return *persisted, nil
}

func (s *Service) DeleteAccount(ctx context.Context, id int64) error {
	existing, err := s.repo.GetAccountByID(ctx, id)
	if err != nil {
		return fmt.Errorf("không tìm thấy khách hàng: %w", err)
	}

	if err := s.repo.DeleteAccount(ctx, id); err != nil {
		return err
	}

	s.record(ctx, diary.Event{
		Source:      "Customer",
		Description: fmt.Sprintf("Xóa khách hàng %s", existing.Name),
	})
	return nil
}
