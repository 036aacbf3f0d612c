package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/surp29/Backend-PoS/internal/diary"
	"github.com/surp29/Backend-PoS/internal/domain"
	"github.com/surp29/Backend-PoS/internal/store"
)

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx)
}

func (s *Service) GetProduct(ctx context.Context, code string) (domain.Product, error) {
	product, err := s.repo.GetProductByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return domain.Product{}, fmt.Errorf("không tìm thấy sản phẩm: %w", err)
	}
	return *product, nil
}

func (s *Service) ListProductGroups(ctx context.Context) ([]string, error) {
	return s.repo.ListProductGroups(ctx)
}

func (s *Service) ListStockMovements(ctx context.Context, productCode string, limit int) ([]domain.StockMovement, error) {
	return s.repo.ListStockMovements(ctx, strings.TrimSpace(productCode), limit)
}

func (s *Service) CreateProduct(ctx context.Context, req domain.ProductCreateRequest) (domain.Product, error) {
	if err := s.checkRequest(req); err != nil {
		return domain.Product{}, err
	}

	product := domain.Product{
		Code:        strings.TrimSpace(req.Code),
		Name:        strings.TrimSpace(req.Name),
		Group:       strings.TrimSpace(req.Group),
		Quantity:    req.Quantity,
		SalePrice:   req.SalePrice,
		ListPrice:   req.ListPrice,
		CostPrice:   req.CostPrice,
		Unit:        req.Unit,
		Description: req.Description,
	}

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		if errorsIsConflict(err) {
			return domain.Product{}, fmt.Errorf("mã sản phẩm %s đã tồn tại: %w", product.Code, err)
		}
		return domain.Product{}, err
	}

	s.record(ctx, diary.Event{
		Source:      "Product",
		Description: fmt.Sprintf("Thêm sản phẩm %s (%s)", created.Name, created.Code),
		QuantityIn:  created.Quantity,
	})
	return *created, nil
}

// UpdateProduct patches the set fields. A quantity change goes through
// the stock ledger so the movement history stays complete.
func (s *Service) UpdateProduct(ctx context.Context, code string, req domain.ProductUpdateRequest) (domain.Product, error) {
	code = strings.TrimSpace(code)
	existing, err := s.repo.GetProductByCode(ctx, code)
	if err != nil {
		return domain.Product{}, fmt.Errorf("không tìm thấy sản phẩm: %w", err)
	}

	updated := *existing
	if req.Name != nil {
		updated.Name = strings.TrimSpace(*req.Name)
	}
	if req.Group != nil {
		updated.Group = strings.TrimSpace(*req.Group)
	}
	if req.SalePrice != nil {
		updated.SalePrice = *req.SalePrice
	}
	if req.ListPrice != nil {
		updated.ListPrice = *req.ListPrice
	}
	if req.CostPrice != nil {
		updated.CostPrice = *req.CostPrice
	}
	if req.Unit != nil {
		updated.Unit = *req.Unit
	}
	if req.Description != nil {
		updated.Description = *req.Description
	}

	qtyIn, qtyOut := 0, 0
	if req.Quantity != nil && *req.Quantity != existing.Quantity {
		if *req.Quantity < 0 {
			return domain.Product{}, fmt.Errorf("số lượng không được âm: %w", store.ErrConflict)
		}
		delta := *req.Quantity - existing.Quantity
		adjusted, err := s.repo.ApplyStockDelta(ctx, code, delta, "product adjust", code)
		if err != nil {
			return domain.Product{}, err
		}
		updated.Quantity = adjusted.Quantity
		if delta > 0 {
			qtyIn = delta
		} else {
			qtyOut = -delta
		}
	}

	persisted, err := s.repo.UpdateProduct(ctx, updated)
	if err != nil {
		return domain.Product{}, err
	}

	s.record(ctx, diary.Event{
		Source:      "Product",
		Description: fmt.Sprintf("Cập nhật sản phẩm %s", persisted.Code),
		QuantityIn:  qtyIn,
		QuantityOut: qtyOut,
	})
	return *persisted, nil
}

func (s *Service) DeleteProduct(ctx context.Context, code string) error {
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}

	code = strings.TrimSpace(code)
	existing, err := s.repo.GetProductByCode(ctx, code)
	if err != nil {
		return fmt.Errorf("không tìm thấy sản phẩm: %w", err)
	}

	refs, err := s.repo.CountActiveOrdersForProduct(ctx, code)
	if err != nil {
		return err
	}
	if refs > 0 {
		return fmt.Errorf("sản phẩm %s đang được dùng trong %d đơn hàng: %w", code, refs, store.ErrProductReferenced)
	}

	if err := s.repo.DeleteProduct(ctx, code); err != nil {
		return err
	}

	s.record(ctx, diary.Event{
		Source:      "Product",
		Description: fmt.Sprintf("Xóa sản phẩm %s (%s)", existing.Name, existing.Code),
	})
	return nil
}
