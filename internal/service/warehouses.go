package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/surp29/Backend-PoS/internal/diary"
	"github.com/surp29/Backend-PoS/internal/domain"
)

func (s *Service) ListWarehouses(ctx context.Context) ([]domain.Warehouse, error) {
	return s.repo.ListWarehouses(ctx)
}

// CreateWarehouse registers a receiving row. The received quantity is
// added to the product's stock through the ledger.
func (s *Service) CreateWarehouse(ctx context.Context, req domain.WarehouseWriteRequest) (domain.Warehouse, error) {
	if err := s.checkRequest(req); err != nil {
		return domain.Warehouse{}, err
	}

	product, err := s.repo.GetProductByCode(ctx, strings.TrimSpace(req.ProductCode))
	if err != nil {
		return domain.Warehouse{}, fmt.Errorf("không tìm thấy sản phẩm: %w", err)
	}

	wh := domain.Warehouse{
		Code:          strings.TrimSpace(req.Code),
		Name:          strings.TrimSpace(req.Name),
		ProductCode:   product.Code,
		PurchasePrice: req.PurchasePrice,
		Quantity:      req.Quantity,
		Address:       req.Address,
		Phone:         req.Phone,
		Notes:         req.Notes,
		Status:        defaultString(req.Status, "active"),
	}

	created, err := s.repo.CreateWarehouse(ctx, wh)
	if err != nil {
		return domain.Warehouse{}, err
	}

	if created.Quantity > 0 {
		if _, err := s.repo.ApplyStockDelta(ctx, product.Code, created.Quantity, "warehouse receipt", created.Code); err != nil {
			return domain.Warehouse{}, err
		}
	}

	amount := created.PurchasePrice.Mul(decimal.NewFromInt(int64(created.Quantity)))
	s.record(ctx, diary.Event{
		Source:      "Warehouse",
		Description: fmt.Sprintf("Nhập kho %s cho sản phẩm %s", created.Code, created.ProductCode),
		QuantityIn:  created.Quantity,
		Amount:      amount,
	})
	return *created, nil
}

func (s *Service) UpdateWarehouse(ctx context.Context, id int64, req domain.WarehouseWriteRequest) (domain.Warehouse, error) {
	if err := s.checkRequest(req); err != nil {
		return domain.Warehouse{}, err
	}

	existing, err := s.repo.GetWarehouseByID(ctx, id)
	if err != nil {
		return domain.Warehouse{}, fmt.Errorf("không tìm thấy kho: %w", err)
	}

	product, err := s.repo.GetProductByCode(ctx, strings.TrimSpace(req.ProductCode))
	if err != nil {
		return domain.Warehouse{}, fmt.Errorf("không tìm thấy sản phẩm: %w", err)
	}

	updated := domain.Warehouse{
		ID:            existing.ID,
		Code:          strings.TrimSpace(req.Code),
		Name:          strings.TrimSpace(req.Name),
		ProductCode:   product.Code,
		PurchasePrice: req.PurchasePrice,
		Quantity:      req.Quantity,
		Address:       req.Address,
		Phone:         req.Phone,
		Notes:         req.Notes,
		Status:        defaultString(req.Status, existing.Status),
	}

	// Quantity edits on the same product adjust stock by the delta. A
	// product swap moves the old receipt out and the new one in.
	qtyIn, qtyOut := 0, 0
	if existing.ProductCode == updated.ProductCode {
		delta := updated.Quantity - existing.Quantity
		if delta != 0 {
			if _, err := s.repo.ApplyStockDelta(ctx, product.Code, delta, "warehouse adjust", updated.Code); err != nil {
				return domain.Warehouse{}, err
			}
			if delta > 0 {
				qtyIn = delta
			} else {
				qtyOut = -delta
			}
		}
	} else {
		if _, err := s.repo.ApplyStockDelta(ctx, existing.ProductCode, -existing.Quantity, "warehouse adjust", updated.Code); err != nil {
			return domain.Warehouse{}, err
		}
		if _, err := s.repo.ApplyStockDelta(ctx, product.Code, updated.Quantity, "warehouse adjust", updated.Code); err != nil {
			return domain.Warehouse{}, err
		}
		qtyOut = existing.Quantity
		qtyIn = updated.Quantity
	}

	persisted, err := s.repo.UpdateWarehouse(ctx, updated)
	if err != nil {
		return domain.Warehouse{}, err
	}

	s.record(ctx, diary.Event{
		Source:      "Warehouse",
		Description: fmt.Sprintf("Cập nhật kho %s", persisted.Code),
		QuantityIn:  qtyIn,
		QuantityOut: qtyOut,
		Amount:      persisted.PurchasePrice.Mul(decimal.NewFromInt(int64(persisted.Quantity))),
	})
	return *persisted, nil
}

func (s *Service) DeleteWarehouse(ctx context.Context, id int64) error {
	existing, err := s.repo.GetWarehouseByID(ctx, id)
	if err != nil {
		return fmt.Errorf("không tìm thấy kho: %w", err)
	}

	if err := s.repo.DeleteWarehouse(ctx, id); err != nil {
		return err
	}

	s.record(ctx, diary.Event{
		Source:      "Warehouse",
		Description: fmt.Sprintf("Xóa kho %s", existing.Code),
	})
	return nil
}
