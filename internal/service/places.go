package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/surp29/Backend-PoS/internal/diary"
	"github.com/surp29/Backend-PoS/internal/domain"
	"github.com/surp29/Backend-PoS/internal/store"
)

func (s *Service) ListAreas(ctx context.Context) ([]domain.Area, error) {
	return s.repo.ListAreas(ctx)
}

func (s *Service) CreateArea(ctx context.Context, area domain.Area) (domain.Area, error) {
	area.Name = strings.TrimSpace(area.Name)
	if area.Name == "" {
		return domain.Area{}, fmt.Errorf("tên khu vực không được để trống: %w", store.ErrConflict)
	}

	created, err := s.repo.CreateArea(ctx, area)
	if err != nil {
		return domain.Area{}, err
	}

	s.record(ctx, diary.Event{
		Source:      "Area",
		Description: fmt.Sprintf("Thêm khu vực %s", created.Name),
	})
	return *created, nil
}

func (s *Service) UpdateArea(ctx context.Context, id int64, area domain.Area) (domain.Area, error) {
	existing, err := s.repo.GetAreaByID(ctx, id)
	if err != nil {
		return domain.Area{}, fmt.Errorf("không tìm thấy khu vực: %w", err)
	}

	area.ID = existing.ID
	area.Name = strings.TrimSpace(area.Name)
	if area.Name == "" {
		area.Name = existing.Name
	}

	persisted, err := s.repo.UpdateArea(ctx, area)
	if err != nil {
		return domain.Area{}, err
	}

	s.record(ctx, diary.Event{
		Source:      "Area",
		Description: fmt.Sprintf("Cập nhật khu vực %s", persisted.Name),
	})
	return *persisted, nil
}

func (s *Service) DeleteArea(ctx context.Context, id int64) error {
	existing, err := s.repo.GetAreaByID(ctx, id)
	if err != nil {
		return fmt.Errorf("không tìm thấy khu vực: %w", err)
	}

	shops, err := s.repo.ListShops(ctx)
	if err != nil {
		return err
	}
	for _, shop := range shops {
		if shop.AreaID == id {
			return fmt.Errorf("khu vực %s còn cửa hàng trực thuộc: %w", existing.Name, store.ErrConflict)
		}
	}

	if err := s.repo.DeleteArea(ctx, id); err != nil {
		return err
	}

	s.record(ctx, diary.Event{
		Source:      "Area",
		Description: fmt.Sprintf("Xóa khu vực %s", existing.Name),
	})
	return nil
}

func (s *Service) ListShops(ctx context.Context) ([]domain.Shop, error) {
	return s.repo.ListShops(ctx)
}

func (s *Service) CreateShop(ctx context.Context, req domain.ShopWriteRequest) (domain.Shop, error) {
	if err := s.checkRequest(req); err != nil {
		return domain.Shop{}, err
	}
	if _, err := s.repo.GetAreaByID(ctx, req.AreaID); err != nil {
		return domain.Shop{}, fmt.Errorf("khu vực không tồn tại: %w", err)
	}

	shop := domain.Shop{
		Name:    strings.TrimSpace(req.Name),
		AreaID:  req.AreaID,
		Address: req.Address,
		Phone:   req.Phone,
		Status:  defaultString(req.Status, "active"),
	}

	created, err := s.repo.CreateShop(ctx, shop)
	if err != nil {
		return domain.Shop{}, err
	}

	s.record(ctx, diary.Event{
		Source:      "Shop",
		Description: fmt.Sprintf("Thêm cửa hàng %s", created.Name),
	})
	return *created, nil
}

func (s *Service) UpdateShop(ctx context.Context, id int64, req domain.ShopWriteRequest) (domain.Shop, error) {
	if err := s.checkRequest(req); err != nil {
		return domain.Shop{}, err
	}

	existing, err := s.repo.GetShopByID(ctx, id)
	if err != nil {
		return domain.Shop{}, fmt.Errorf("không tìm thấy cửa hàng: %w", err)
	}
	if _, err := s.repo.GetAreaByID(ctx, req.AreaID); err != nil {
		return domain.Shop{}, fmt.Errorf("khu vực không tồn tại: %w", err)
	}

	updated := domain.Shop{
		ID:      existing.ID,
		Name:    strings.TrimSpace(req.Name),
		AreaID:  req.AreaID,
		Address: req.Address,
		Phone:   req.Phone,
		Status:  defaultString(req.Status, existing.Status),
	}

	persisted, err := s.repo.UpdateShop(ctx, updated)
	if err != nil {
		return domain.Shop{}, err
	}

	s.record(ctx, diary.Event{
		Source:      "Shop",
		Description: fmt.Sprintf("Cập nhật cửa hàng %s", persisted.Name),
	})
	return *persisted, nil
}

func (s *Service) DeleteShop(ctx context.Context, id int64) error {
	existing, err := s.repo.GetShopByID(ctx, id)
	if err != nil {
		return fmt.Errorf("không tìm thấy cửa hàng: %w", err)
	}

	if err := s.repo.DeleteShop(ctx, id); err != nil {
		return err
	}

	s.record(ctx, diary.Event{
		Source:      "Shop",
		Description: fmt.Sprintf("Xóa cửa hàng %s", existing.Name),
	})
	return nil
}
