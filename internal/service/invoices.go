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

func (s *Service) ListInvoices(ctx context.Context) ([]domain.Invoice, error) {
	return s.repo.ListInvoices(ctx)
}

func (s *Service) GetInvoice(ctx context.Context, id int64) (domain.Invoice, error) {
	inv, err := s.repo.GetInvoiceByID(ctx, id)
	if err != nil {
		return domain.Invoice{}, fmt.Errorf("không tìm thấy hóa đơn: %w", err)
	}
	return *inv, nil
}

func (s *Service) CreateInvoice(ctx context.Context, req domain.InvoiceCreateRequest) (domain.Invoice, error) {
	if err := s.checkRequest(req); err != nil {
		return domain.Invoice{}, err
	}

	inv := domain.Invoice{
		Number:        strings.TrimSpace(req.Number),
		Date:          req.Date,
		Buyer:         safeName(req.Buyer),
		Status:        defaultString(req.Status, domain.InvoiceStatusDefault),
		PaymentMethod: req.PaymentMethod,
		Items:         buildItems(req.Items),
	}
	if inv.Date.IsZero() {
		inv.Date = time.Now()
	}
	inv.Total = resolveInvoiceTotal(req.Total, inv.Items)

	created, err := s.repo.CreateInvoice(ctx, inv)
	if err != nil {
		if errorsIsConflict(err) {
			return domain.Invoice{}, fmt.Errorf("số hóa đơn %s đã tồn tại: %w", inv.Number, err)
		}
		return domain.Invoice{}, err
	}

	s.refreshDebt(ctx, created.Buyer)
	s.record(ctx, diary.Event{
		Source:      "Invoice",
		Description: fmt.Sprintf("Tạo hóa đơn %s", created.Number),
		QuantityOut: paidItemQuantity(*created),
		Amount:      created.Total,
	})

	return *created, nil
}

func (s *Service) UpdateInvoice(ctx context.Context, id int64, req domain.InvoiceUpdateRequest) (domain.Invoice, error) {
	existing, err := s.repo.GetInvoiceByID(ctx, id)
	if err != nil {
		return domain.Invoice{}, fmt.Errorf("không tìm thấy hóa đơn: %w", err)
	}

	updated := *existing
	if req.Number != nil {
		updated.Number = strings.TrimSpace(*req.Number)
	}
	if req.Date != nil {
		updated.Date = *req.Date
	}
	if req.Buyer != nil {
		updated.Buyer = safeName(*req.Buyer)
	}
	if req.Status != nil {
		updated.Status = defaultString(*req.Status, domain.InvoiceStatusDefault)
	}
	if req.PaymentMethod != nil {
		updated.PaymentMethod = *req.PaymentMethod
	}
	if req.Items != nil {
		updated.Items = buildItems(*req.Items)
		updated.Total = resolveInvoiceTotal(decimal.Zero, updated.Items)
	}
	if req.Total != nil && req.Total.IsPositive() {
		updated.Total = *req.Total
	}

	persisted, err := s.repo.UpdateInvoice(ctx, updated)
	if err != nil {
		return domain.Invoice{}, err
	}

	s.refreshDebt(ctx, persisted.Buyer)
	if safeName(existing.Buyer) != safeName(persisted.Buyer) {
		s.refreshDebt(ctx, existing.Buyer)
	}
	s.record(ctx, diary.Event{
		Source:      "Invoice",
		Description: fmt.Sprintf("Cập nhật hóa đơn %s", persisted.Number),
		QuantityOut: paidItemQuantity(*persisted),
		Amount:      persisted.Total,
	})

	return *persisted, nil
}

func (s *Service) DeleteInvoice(ctx context.Context, id int64) error {
	existing, err := s.repo.GetInvoiceByID(ctx, id)
	if err != nil {
		return fmt.Errorf("không tìm thấy hóa đơn: %w", err)
	}

	if err := s.repo.DeleteInvoice(ctx, id); err != nil {
		return err
	}

	s.refreshDebt(ctx, existing.Buyer)
	s.record(ctx, diary.Event{
		Source:      "Invoice",
		Description: fmt.Sprintf("Xóa hóa đơn %s", existing.Number),
		Amount:      existing.Total,
	})
	return nil
}

// CustomerDebt rescans every invoice for the buyer. Debt never goes
// negative, an overpaying customer simply sits at zero.
func (s *Service) CustomerDebt(ctx context.Context, buyer string) (decimal.Decimal, error) {
	invoices, err := s.repo.ListInvoicesByBuyer(ctx, safeName(buyer))
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	paid := decimal.Zero
	for _, inv := range invoices {
		total = total.Add(inv.Total)
		if domain.ParseInvoiceStatus(inv.Status).IsPaid() {
			paid = paid.Add(inv.Total)
		}
	}

	debt := total.Sub(paid)
	if debt.IsNegative() {
		debt = decimal.Zero
	}
	return debt, nil
}

// refreshDebt recomputes and persists the buyer's debt snapshot. A
// failure here is logged and swallowed, it never fails the invoice
// operation that triggered it.
func (s *Service) refreshDebt(ctx context.Context, buyer string) {
	name := safeName(buyer)
	debt, err := s.CustomerDebt(ctx, name)
	if err != nil {
		s.log.WithFields(logrus.Fields{"module": "invoices", "buyer": name}).WithError(err).Warn("debt recompute failed")
		return
	}
	if err := s.repo.SetAccountDebt(ctx, name, debt); err != nil && !isNotFound(err) {
		s.log.WithFields(logrus.Fields{"module": "invoices", "buyer": name}).WithError(err).Warn("debt snapshot write failed")
	}
}

func buildItems(inputs []domain.InvoiceItemInput) []domain.InvoiceItem {
	items := make([]domain.InvoiceItem, 0, len(inputs))
	for _, in := range inputs {
		qty := decimal.NewFromInt(int64(in.Quantity))
		items = append(items, domain.InvoiceItem{
			ProductCode: strings.TrimSpace(in.ProductCode),
			ProductName: in.ProductName,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			Total:       in.UnitPrice.Mul(qty),
		})
	}
	return items
}

func resolveInvoiceTotal(explicit decimal.Decimal, items []domain.InvoiceItem) decimal.Decimal {
	if explicit.IsPositive() {
		return explicit
	}
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Total)
	}
	return total
}

func paidItemQuantity(inv domain.Invoice) int {
	if !domain.ParseInvoiceStatus(inv.Status).IsPaid() {
		return 0
	}
	qty := 0
	for _, item := range inv.Items {
		qty += item.Quantity
	}
	return qty
}

func errorsIsConflict(err error) bool {
	return errors.Is(err, store.ErrConflict)
}
