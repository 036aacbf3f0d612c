package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/surp29/Backend-PoS/internal/domain"
	"github.com/surp29/Backend-PoS/internal/store"
	"github.com/surp29/Backend-PoS/internal/store/memory"
)

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	repo := memory.New()
	log := logrus.New()
	log.SetOutput(io.Discard)
	return New(repo, nil, log), repo
}

func seedProduct(t *testing.T, repo *memory.Store, code string, qty int, salePrice int64) domain.Product {
	t.Helper()
	p, err := repo.CreateProduct(context.Background(), domain.Product{
		Code:      code,
		Name:      "Sản phẩm " + code,
		Quantity:  qty,
		SalePrice: decimal.NewFromInt(salePrice),
		ListPrice: decimal.NewFromInt(salePrice),
	})
	if err != nil {
		t.Fatalf("seed product %s: %v", code, err)
	}
	return *p
}

func productQty(t *testing.T, repo *memory.Store, code string) int {
	t.Helper()
	p, err := repo.GetProductByCode(context.Background(), code)
	if err != nil {
		t.Fatalf("get product %s: %v", code, err)
	}
	return p.Quantity
}

func TestCreateOrderDeductsStockAndPricesLine(t *testing.T) {
	svc, repo := newTestService(t)
	seedProduct(t, repo, "SP001", 10, 25000)

	order, err := svc.CreateOrder(context.Background(), domain.OrderCreateRequest{
		Code:     "DH001",
		LineRef:  "SP001",
		Quantity: 3,
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	if got := productQty(t, repo, "SP001"); got != 7 {
		t.Fatalf("stock after create = %d, want 7", got)
	}
	if want := decimal.NewFromInt(75000); !order.Total.Equal(want) {
		t.Fatalf("order total = %s, want %s", order.Total, want)
	}
	if order.Status != domain.OrderStatusDefault {
		t.Fatalf("order status = %q, want default", order.Status)
	}
	if order.CustomerInfo != domain.WalkInCustomer {
		t.Fatalf("empty customer should fall back to walk-in, got %q", order.CustomerInfo)
	}
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	svc, repo := newTestService(t)
	seedProduct(t, repo, "SP001", 2, 25000)

	_, err := svc.CreateOrder(context.Background(), domain.OrderCreateRequest{
		Code:     "DH001",
		LineRef:  "SP001",
		Quantity: 5,
	})
	if !errors.Is(err, store.ErrInsufficientStock) {
		t.Fatalf("want ErrInsufficientStock, got %v", err)
	}
	if got := productQty(t, repo, "SP001"); got != 2 {
		t.Fatalf("stock must be untouched after rejection, got %d", got)
	}
}

func TestCreateOrderCancelledNeverTouchesStock(t *testing.T) {
	svc, repo := newTestService(t)
	seedProduct(t, repo, "SP001", 10, 25000)

	_, err := svc.CreateOrder(context.Background(), domain.OrderCreateRequest{
		Code:     "DH001",
		LineRef:  "SP001",
		Quantity: 4,
		Status:   "Đã hủy",
	})
	if err != nil {
		t.Fatalf("create cancelled order: %v", err)
	}
	if got := productQty(t, repo, "SP001"); got != 10 {
		t.Fatalf("cancelled order must not deduct, stock = %d", got)
	}
}

func TestCreateOrderDuplicateCode(t *testing.T) {
	svc, repo := newTestService(t)
	seedProduct(t, repo, "SP001", 10, 25000)

	if _, err := svc.CreateOrder(context.Background(), domain.OrderCreateRequest{Code: "DH001", LineRef: "SP001", Quantity: 1}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.CreateOrder(context.Background(), domain.OrderCreateRequest{Code: "DH001", LineRef: "SP001", Quantity: 1})
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("want ErrConflict on duplicate code, got %v", err)
	}
}

func TestUpdateOrderCancelRestoresStock(t *testing.T) {
	svc, repo := newTestService(t)
	seedProduct(t, repo, "SP001", 10, 25000)

	order, err := svc.CreateOrder(context.Background(), domain.OrderCreateRequest{Code: "DH001", LineRef: "SP001", Quantity: 3})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	cancelled := domain.OrderStatusCancelled
	if _, err := svc.UpdateOrder(context.Background(), order.ID, domain.OrderUpdateRequest{Status: &cancelled}); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if got := productQty(t, repo, "SP001"); got != 10 {
		t.Fatalf("stock after cancel = %d, want 10", got)
	}

	// Cancelling again is a no-op, nothing restores twice.
	if _, err := svc.UpdateOrder(context.Background(), order.ID, domain.OrderUpdateRequest{Status: &cancelled}); err != nil {
		t.Fatalf("re-cancel: %v", err)
	}
	if got := productQty(t, repo, "SP001"); got != 10 {
		t.Fatalf("stock after re-cancel = %d, want 10", got)
	}
}

func TestUpdateOrderReactivationDeducts(t *testing.T) {
	svc, repo := newTestService(t)
	seedProduct(t, repo, "SP001", 10, 25000)

	order, err := svc.CreateOrder(context.Background(), domain.OrderCreateRequest{
		Code: "DH001", LineRef: "SP001", Quantity: 4, Status: "Đã hủy",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	active := "Đang xử lý"
	if _, err := svc.UpdateOrder(context.Background(), order.ID, domain.OrderUpdateRequest{Status: &active}); err != nil {
		t.Fatalf("reactivate: %v", err)
	}
	if got := productQty(t, repo, "SP001"); got != 6 {
		t.Fatalf("stock after reactivation = %d, want 6", got)
	}
}

func TestUpdateOrderQuantityDelta(t *testing.T) {
	svc, repo := newTestService(t)
	seedProduct(t, repo, "SP001", 10, 25000)

	order, err := svc.CreateOrder(context.Background(), domain.OrderCreateRequest{Code: "DH001", LineRef: "SP001", Quantity: 3})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	up := 5
	if _, err := svc.UpdateOrder(context.Background(), order.ID, domain.OrderUpdateRequest{Quantity: &up}); err != nil {
		t.Fatalf("increase: %v", err)
	}
	if got := productQty(t, repo, "SP001"); got != 5 {
		t.Fatalf("stock after increase = %d, want 5", got)
	}

	down := 2
	updated, err := svc.UpdateOrder(context.Background(), order.ID, domain.OrderUpdateRequest{Quantity: &down})
	if err != nil {
		t.Fatalf("decrease: %v", err)
	}
	if got := productQty(t, repo, "SP001"); got != 8 {
		t.Fatalf("stock after decrease = %d, want 8", got)
	}
	if want := decimal.NewFromInt(50000); !updated.Total.Equal(want) {
		t.Fatalf("repriced total = %s, want %s", updated.Total, want)
	}
}

func TestUpdateOrderProductSwap(t *testing.T) {
	svc, repo := newTestService(t)
	seedProduct(t, repo, "SP001", 10, 25000)
	seedProduct(t, repo, "SP002", 10, 40000)

	order, err := svc.CreateOrder(context.Background(), domain.OrderCreateRequest{Code: "DH001", LineRef: "SP001", Quantity: 3})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	ref := "SP002"
	if _, err := svc.UpdateOrder(context.Background(), order.ID, domain.OrderUpdateRequest{LineRef: &ref}); err != nil {
		t.Fatalf("swap: %v", err)
	}
	if got := productQty(t, repo, "SP001"); got != 10 {
		t.Fatalf("old product not restored, stock = %d", got)
	}
	if got := productQty(t, repo, "SP002"); got != 7 {
		t.Fatalf("new product not deducted, stock = %d", got)
	}
}

func TestUpdateOrderSwapRollsBackWhenDeductionFails(t *testing.T) {
	svc, repo := newTestService(t)
	seedProduct(t, repo, "SP001", 10, 25000)
	seedProduct(t, repo, "SP002", 1, 40000)

	order, err := svc.CreateOrder(context.Background(), domain.OrderCreateRequest{Code: "DH001", LineRef: "SP001", Quantity: 3})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	ref := "SP002"
	_, err = svc.UpdateOrder(context.Background(), order.ID, domain.OrderUpdateRequest{LineRef: &ref})
	if !errors.Is(err, store.ErrInsufficientStock) {
		t.Fatalf("want ErrInsufficientStock, got %v", err)
	}
	// The restore on SP001 must have been rolled back.
	if got := productQty(t, repo, "SP001"); got != 7 {
		t.Fatalf("SP001 stock after failed swap = %d, want 7", got)
	}
	if got := productQty(t, repo, "SP002"); got != 1 {
		t.Fatalf("SP002 stock after failed swap = %d, want 1", got)
	}
}

func TestUpdateOrderActionLineKeepsImpliedUnitPrice(t *testing.T) {
	svc, _ := newTestService(t)

	total := decimal.NewFromInt(500)
	order, err := svc.CreateOrder(context.Background(), domain.OrderCreateRequest{
		Code:     "DH001",
		LineRef:  "Giao hàng tận nơi",
		Quantity: 5,
		Total:    total,
	})
	if err != nil {
		t.Fatalf("create action order: %v", err)
	}

	one := 1
	updated, err := svc.UpdateOrder(context.Background(), order.ID, domain.OrderUpdateRequest{Quantity: &one})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if want := decimal.NewFromInt(100); !updated.Total.Equal(want) {
		t.Fatalf("apportioned total = %s, want %s", updated.Total, want)
	}
}

func TestDeleteOrderRestoresStock(t *testing.T) {
	svc, repo := newTestService(t)
	seedProduct(t, repo, "SP001", 10, 25000)

	order, err := svc.CreateOrder(context.Background(), domain.OrderCreateRequest{Code: "DH001", LineRef: "SP001", Quantity: 4})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.DeleteOrder(context.Background(), order.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := productQty(t, repo, "SP001"); got != 10 {
		t.Fatalf("stock after delete = %d, want 10", got)
	}
}

func TestDeleteCancelledOrderDoesNotRestore(t *testing.T) {
	svc, repo := newTestService(t)
	seedProduct(t, repo, "SP001", 10, 25000)

	order, err := svc.CreateOrder(context.Background(), domain.OrderCreateRequest{
		Code: "DH001", LineRef: "SP001", Quantity: 4, Status: "da huy",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.DeleteOrder(context.Background(), order.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := productQty(t, repo, "SP001"); got != 10 {
		t.Fatalf("stock after deleting cancelled order = %d, want 10", got)
	}
}

func TestOrderCodeExists(t *testing.T) {
	svc, repo := newTestService(t)
	seedProduct(t, repo, "SP001", 10, 25000)

	if _, err := svc.CreateOrder(context.Background(), domain.OrderCreateRequest{Code: "DH001", LineRef: "SP001", Quantity: 1}); err != nil {
		t.Fatalf("create: %v", err)
	}

	exists, err := svc.OrderCodeExists(context.Background(), "DH001")
	if err != nil || !exists {
		t.Fatalf("existing code: exists=%v err=%v", exists, err)
	}
	exists, err = svc.OrderCodeExists(context.Background(), "DH999")
	if err != nil || exists {
		t.Fatalf("missing code: exists=%v err=%v", exists, err)
	}
}
