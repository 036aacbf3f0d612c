package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/surp29/Backend-PoS/internal/diary"
	"github.com/surp29/Backend-PoS/internal/domain"
)

func (s *Service) ListPrices(ctx context.Context) ([]domain.PriceEntry, error) {
	return s.repo.ListPrices(ctx)
}

func (s *Service) CreatePrice(ctx context.Context, req domain.PriceWriteRequest) (domain.PriceEntry, error) {
	if err := s.checkRequest(req); err != nil {
		return domain.PriceEntry{}, err
	}

	product, err := s.repo.GetProductByCode(ctx, strings.TrimSpace(req.ProductCode))
	if err != nil {
		return domain.PriceEntry{}, fmt.Errorf("không tìm thấy sản phẩm: %w", err)
	}

	entry := domain.PriceEntry{
		ProductCode: product.Code,
		ProductName: product.Name,
		ListPrice:   req.ListPrice,
		PromoPrice:  req.PromoPrice,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}

	created, err := s.repo.CreatePrice(ctx, entry)
	if err != nil {
		return domain.PriceEntry{}, err
	}

	s.syncListPrice(ctx, *product, *created)
	s.record(ctx, diary.Event{
		Source:      "Prices",
		Description: fmt.Sprintf("Cập nhật bảng giá cho %s", created.ProductCode),
		Amount:      created.ListPrice,
	})
	return *created, nil
}

func (s *Service) UpdatePrice(ctx context.Context, id int64, req domain.PriceWriteRequest) (domain.PriceEntry, error) {
	if err := s.checkRequest(req); err != nil {
		return domain.PriceEntry{}, err
	}

	existing, err := s.repo.GetPriceByID(ctx, id)
	if err != nil {
		return domain.PriceEntry{}, fmt.Errorf("không tìm thấy bảng giá: %w", err)
	}

	product, err := s.repo.GetProductByCode(ctx, strings.TrimSpace(req.ProductCode))
	if err != nil {
		return domain.PriceEntry{}, fmt.Errorf("không tìm thấy sản phẩm: %w", err)
	}

	updated := domain.PriceEntry{
		ID:          existing.ID,
		ProductCode: product.Code,
		ProductName: product.Name,
		ListPrice:   req.ListPrice,
		PromoPrice:  req.PromoPrice,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}

	persisted, err := s.repo.UpdatePrice(ctx, updated)
	if err != nil {
		return domain.PriceEntry{}, err
	}

	s.syncListPrice(ctx, *product, *persisted)
	s.record(ctx, diary.Event{
		Source:      "Prices",
		Description: fmt.Sprintf("Sửa bảng giá cho %s", persisted.ProductCode),
		Amount:      persisted.ListPrice,
	})
	return *persisted, nil
}

func (s *Service) DeletePrice(ctx context.Context, id int64) error {
	existing, err := s.repo.GetPriceByID(ctx, id)
	if err != nil {
		return fmt.Errorf("không tìm thấy bảng giá: %w", err)
	}

	if err := s.repo.DeletePrice(ctx, id); err != nil {
		return err
	}

	s.record(ctx, diary.Event{
		Source:      "Prices",
		Description: fmt.Sprintf("Xóa bảng giá của %s", existing.ProductCode),
	})
	return nil
}

// syncListPrice mirrors the price-list entry onto the product's list
// price so order pricing picks it up without a join.
func (s *Service) syncListPrice(ctx context.Context, product domain.Product, entry domain.PriceEntry) {
	if product.ListPrice.Equal(entry.ListPrice) {
		return
	}
	product.ListPrice = entry.ListPrice
	if _, err := s.repo.UpdateProduct(ctx, product); err != nil {
		s.log.WithFields(logrus.Fields{"module": "prices", "product": product.Code}).WithError(err).Warn("list price sync failed")
	}
}
