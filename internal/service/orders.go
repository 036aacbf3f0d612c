package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/surp29/Backend-PoS/internal/diary"
	"github.com/surp29/Backend-PoS/internal/domain"
	"github.com/surp29/Backend-PoS/internal/store"
)

const (
	stockReasonOrderCreate = "order create"
	stockReasonOrderUpdate = "order update"
	stockReasonOrderCancel = "order cancel"
	stockReasonOrderDelete = "order delete"
	stockReasonRollback    = "rollback"
)

func (s *Service) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return s.repo.ListOrders(ctx)
}

func (s *Service) GetOrder(ctx context.Context, id int64) (domain.Order, error) {
	order, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return domain.Order{}, fmt.Errorf("không tìm thấy đơn hàng: %w", err)
	}
	return *order, nil
}

func (s *Service) SearchOrders(ctx context.Context, query string) ([]domain.Order, error) {
	return s.repo.SearchOrders(ctx, query)
}

// OrderCodeExists backs the duplicate-check endpoint the UI calls before
// submitting.
func (s *Service) OrderCodeExists(ctx context.Context, code string) (bool, error) {
	_, err := s.repo.GetOrderByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *Service) CreateOrder(ctx context.Context, req domain.OrderCreateRequest) (domain.Order, error) {
	if err := s.checkRequest(req); err != nil {
		return domain.Order{}, err
	}

	code := strings.TrimSpace(req.Code)
	if exists, err := s.OrderCodeExists(ctx, code); err != nil {
		return domain.Order{}, err
	} else if exists {
		return domain.Order{}, fmt.Errorf("mã đơn hàng %s đã tồn tại: %w", code, store.ErrConflict)
	}

	status := defaultString(req.Status, domain.OrderStatusDefault)
	active := !domain.ParseOrderStatus(status).IsCancelled()

	kind, product, err := s.resolveLine(ctx, strings.TrimSpace(req.LineRef))
	if err != nil {
		return domain.Order{}, err
	}

	total := req.Total
	if !total.IsPositive() && kind == domain.LineKindProduct {
		total = unitPrice(*product).Mul(decimal.NewFromInt(int64(req.Quantity)))
	}

	deducted := false
	if kind == domain.LineKindProduct && active {
		if _, err := s.repo.ApplyStockDelta(ctx, product.Code, -req.Quantity, stockReasonOrderCreate, code); err != nil {
			if errorsIsInsufficient(err) {
				return domain.Order{}, fmt.Errorf("số lượng tồn kho của %s không đủ: %w", product.Code, err)
			}
			return domain.Order{}, err
		}
		deducted = true
	}

	order := domain.Order{
		Code:         code,
		CustomerInfo: safeName(req.CustomerInfo),
		LineRef:      strings.TrimSpace(req.LineRef),
		CreatedDate:  time.Now(),
		Quantity:     req.Quantity,
		Total:        total,
		TaxCode:      strings.TrimSpace(req.TaxCode),
		Status:       status,
	}

	created, err := s.repo.CreateOrder(ctx, order)
	if err != nil {
		if deducted {
			if _, rbErr := s.repo.ApplyStockDelta(ctx, product.Code, req.Quantity, stockReasonRollback, code); rbErr != nil {
				s.log.WithFields(logrus.Fields{"module": "orders", "order": code}).WithError(rbErr).Error("stock rollback failed")
			}
		}
		return domain.Order{}, err
	}

	qtyOut := 0
	if deducted {
		qtyOut = req.Quantity
	}
	s.record(ctx, diary.Event{
		Source:      "Order",
		Description: fmt.Sprintf("Tạo đơn hàng %s", created.Code),
		QuantityOut: qtyOut,
		Amount:      created.Total,
	})

	return *created, nil
}

// UpdateOrder reconciles stock across status, quantity and product
// transitions before persisting the new row. Restores run before
// deductions so a product swap can reuse the freed stock; a failed
// deduction rolls the restores back.
func (s *Service) UpdateOrder(ctx context.Context, id int64, req domain.OrderUpdateRequest) (domain.Order, error) {
	existing, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return domain.Order{}, fmt.Errorf("không tìm thấy đơn hàng: %w", err)
	}

	updated := *existing
	if req.CustomerInfo != nil {
		updated.CustomerInfo = safeName(*req.CustomerInfo)
	}
	if req.LineRef != nil {
		updated.LineRef = strings.TrimSpace(*req.LineRef)
	}
	if req.Quantity != nil {
		if *req.Quantity <= 0 {
			return domain.Order{}, fmt.Errorf("số lượng phải lớn hơn 0: %w", store.ErrConflict)
		}
		updated.Quantity = *req.Quantity
	}
	if req.TaxCode != nil {
		updated.TaxCode = strings.TrimSpace(*req.TaxCode)
	}
	if req.Status != nil {
		updated.Status = defaultString(*req.Status, domain.OrderStatusDefault)
	}

	oldActive := !domain.ParseOrderStatus(existing.Status).IsCancelled()
	newActive := !domain.ParseOrderStatus(updated.Status).IsCancelled()

	oldKind, _, err := s.resolveLine(ctx, existing.LineRef)
	if err != nil {
		return domain.Order{}, err
	}
	newKind, newProduct, err := s.resolveLine(ctx, updated.LineRef)
	if err != nil {
		return domain.Order{}, err
	}
	sameRef := existing.LineRef == updated.LineRef

	ops := orderStockOps(*existing, updated, oldActive, newActive, oldKind, newKind, sameRef)
	if err := s.applyStockOps(ctx, ops, updated.Code); err != nil {
		return domain.Order{}, err
	}

	updated.Total = resolveOrderTotal(*existing, updated, req, newKind, newProduct)

	persisted, err := s.repo.UpdateOrder(ctx, updated)
	if err != nil {
		s.rollbackStockOps(ctx, ops, updated.Code)
		return domain.Order{}, err
	}

	qtyIn, qtyOut := 0, 0
	for _, op := range ops {
		if op.delta > 0 {
			qtyIn += op.delta
		} else {
			qtyOut += -op.delta
		}
	}
	s.record(ctx, diary.Event{
		Source:      "Order",
		Description: fmt.Sprintf("Cập nhật đơn hàng %s", persisted.Code),
		QuantityIn:  qtyIn,
		QuantityOut: qtyOut,
		Amount:      persisted.Total,
	})

	return *persisted, nil
}

func (s *Service) DeleteOrder(ctx context.Context, id int64) error {
	existing, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return fmt.Errorf("không tìm thấy đơn hàng: %w", err)
	}

	active := !domain.ParseOrderStatus(existing.Status).IsCancelled()
	kind, _, err := s.resolveLine(ctx, existing.LineRef)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteOrder(ctx, id); err != nil {
		return err
	}

	qtyIn := 0
	if active && kind == domain.LineKindProduct {
		if _, err := s.repo.ApplyStockDelta(ctx, existing.LineRef, existing.Quantity, stockReasonOrderDelete, existing.Code); err != nil {
			s.log.WithFields(logrus.Fields{"module": "orders", "order": existing.Code}).WithError(err).Warn("stock restore on delete failed")
		} else {
			qtyIn = existing.Quantity
		}
	}

	s.record(ctx, diary.Event{
		Source:      "Order",
		Description: fmt.Sprintf("Xóa đơn hàng %s", existing.Code),
		QuantityIn:  qtyIn,
		Amount:      existing.Total,
	})
	return nil
}

type stockOp struct {
	code   string
	delta  int
	reason string
}

// orderStockOps derives the stock adjustments an order transition needs.
// Restores come before deductions.
func orderStockOps(old domain.Order, updated domain.Order, oldActive bool, newActive bool, oldKind domain.LineKind, newKind domain.LineKind, sameRef bool) []stockOp {
	var restores, deducts []stockOp

	switch {
	case oldActive && !newActive:
		if oldKind == domain.LineKindProduct {
			restores = append(restores, stockOp{old.LineRef, old.Quantity, stockReasonOrderCancel})
		}
	case !oldActive && newActive:
		if newKind == domain.LineKindProduct {
			deducts = append(deducts, stockOp{updated.LineRef, -updated.Quantity, stockReasonOrderUpdate})
		}
	case oldActive && newActive:
		if sameRef {
			if newKind == domain.LineKindProduct {
				delta := updated.Quantity - old.Quantity
				if delta > 0 {
					deducts = append(deducts, stockOp{updated.LineRef, -delta, stockReasonOrderUpdate})
				} else if delta < 0 {
					restores = append(restores, stockOp{updated.LineRef, -delta, stockReasonOrderUpdate})
				}
			}
		} else {
			if oldKind == domain.LineKindProduct {
				restores = append(restores, stockOp{old.LineRef, old.Quantity, stockReasonOrderUpdate})
			}
			if newKind == domain.LineKindProduct {
				deducts = append(deducts, stockOp{updated.LineRef, -updated.Quantity, stockReasonOrderUpdate})
			}
		}
	}

	return append(restores, deducts...)
}

func (s *Service) applyStockOps(ctx context.Context, ops []stockOp, reference string) error {
	applied := make([]stockOp, 0, len(ops))
	for _, op := range ops {
		if _, err := s.repo.ApplyStockDelta(ctx, op.code, op.delta, op.reason, reference); err != nil {
			s.rollbackStockOps(ctx, applied, reference)
			if errorsIsInsufficient(err) {
				return fmt.Errorf("số lượng tồn kho của %s không đủ: %w", op.code, err)
			}
			return err
		}
		applied = append(applied, op)
	}
	return nil
}

func (s *Service) rollbackStockOps(ctx context.Context, applied []stockOp, reference string) {
	for i := len(applied) - 1; i >= 0; i-- {
		op := applied[i]
		if _, err := s.repo.ApplyStockDelta(ctx, op.code, -op.delta, stockReasonRollback, reference); err != nil {
			s.log.WithFields(logrus.Fields{"module": "orders", "product": op.code}).WithError(err).Error("stock rollback failed")
		}
	}
}

// resolveOrderTotal keeps an explicit total, otherwise reprices the line.
// Product lines use the catalog price; action lines keep the unit price
// implied by the previous total.
func resolveOrderTotal(old domain.Order, updated domain.Order, req domain.OrderUpdateRequest, newKind domain.LineKind, newProduct *domain.Product) decimal.Decimal {
	if req.Total != nil && req.Total.IsPositive() {
		return *req.Total
	}
	qty := decimal.NewFromInt(int64(updated.Quantity))

	if newKind == domain.LineKindProduct && newProduct != nil {
		return unitPrice(*newProduct).Mul(qty)
	}

	if old.Quantity > 0 && old.Total.IsPositive() {
		prevUnit := old.Total.Div(decimal.NewFromInt(int64(old.Quantity)))
		return prevUnit.Mul(qty).Round(0)
	}
	return old.Total
}

func errorsIsInsufficient(err error) bool {
	return errors.Is(err, store.ErrInsufficientStock)
}
