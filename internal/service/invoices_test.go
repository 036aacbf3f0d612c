package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/surp29/Backend-PoS/internal/domain"
	"github.com/surp29/Backend-PoS/internal/store"
)

func TestCreateInvoiceComputesTotalFromItems(t *testing.T) {
	svc, _ := newTestService(t)

	inv, err := svc.CreateInvoice(context.Background(), domain.InvoiceCreateRequest{
		Number: "HD001",
		Buyer:  "Nguyễn Văn A",
		Items: []domain.InvoiceItemInput{
			{ProductCode: "SP001", Quantity: 2, UnitPrice: decimal.NewFromInt(1000)},
			{ProductCode: "SP002", Quantity: 1, UnitPrice: decimal.NewFromInt(500)},
		},
	})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	if want := decimal.NewFromInt(2500); !inv.Total.Equal(want) {
		t.Fatalf("total = %s, want %s", inv.Total, want)
	}
	if inv.Status != domain.InvoiceStatusDefault {
		t.Fatalf("status = %q, want unpaid default", inv.Status)
	}
}

func TestCreateInvoiceDuplicateNumber(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.CreateInvoice(context.Background(), domain.InvoiceCreateRequest{Number: "HD001"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.CreateInvoice(context.Background(), domain.InvoiceCreateRequest{Number: "HD001"})
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("want ErrConflict, got %v", err)
	}
}

func TestCustomerDebtIsUnpaidBalance(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	mustInvoice := func(number, status string, total int64) {
		t.Helper()
		_, err := svc.CreateInvoice(ctx, domain.InvoiceCreateRequest{
			Number: number,
			Buyer:  "Trần Thị B",
			Total:  decimal.NewFromInt(total),
			Status: status,
		})
		if err != nil {
			t.Fatalf("create invoice %s: %v", number, err)
		}
	}

	mustInvoice("HD001", "Chưa thanh toán", 3000)
	mustInvoice("HD002", "Đã thanh toán", 1000)

	debt, err := svc.CustomerDebt(ctx, "Trần Thị B")
	if err != nil {
		t.Fatalf("debt: %v", err)
	}
	if want := decimal.NewFromInt(3000); !debt.Equal(want) {
		t.Fatalf("debt = %s, want %s", debt, want)
	}
}

func TestCustomerDebtFloorsAtZero(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateInvoice(ctx, domain.InvoiceCreateRequest{
		Number: "HD001",
		Buyer:  "Lê Văn C",
		Total:  decimal.NewFromInt(5000),
		Status: "Đã thanh toán",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	debt, err := svc.CustomerDebt(ctx, "Lê Văn C")
	if err != nil {
		t.Fatalf("debt: %v", err)
	}
	if !debt.IsZero() {
		t.Fatalf("debt = %s, want 0", debt)
	}
}

func TestInvoiceWriteRefreshesAccountDebtSnapshot(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	acc, err := svc.CreateAccount(ctx, domain.AccountWriteRequest{Name: "Phạm Thị D"})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	inv, err := svc.CreateInvoice(ctx, domain.InvoiceCreateRequest{
		Number: "HD001",
		Buyer:  "Phạm Thị D",
		Total:  decimal.NewFromInt(7000),
	})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}

	refreshed, err := repo.GetAccountByID(ctx, acc.ID)
	if err != nil {
		t.Fatalf("reload account: %v", err)
	}
	if want := decimal.NewFromInt(7000); !refreshed.Debt.Equal(want) {
		t.Fatalf("snapshot debt = %s, want %s", refreshed.Debt, want)
	}

	// Marking the invoice paid clears the snapshot.
	paid := domain.InvoiceStatusPaid
	if _, err := svc.UpdateInvoice(ctx, inv.ID, domain.InvoiceUpdateRequest{Status: &paid}); err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	refreshed, err = repo.GetAccountByID(ctx, acc.ID)
	if err != nil {
		t.Fatalf("reload account: %v", err)
	}
	if !refreshed.Debt.IsZero() {
		t.Fatalf("snapshot debt after payment = %s, want 0", refreshed.Debt)
	}
}

func TestUpdateInvoiceRecomputesTotalFromItems(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	inv, err := svc.CreateInvoice(ctx, domain.InvoiceCreateRequest{
		Number: "HD001",
		Items: []domain.InvoiceItemInput{
			{ProductCode: "SP001", Quantity: 1, UnitPrice: decimal.NewFromInt(1000)},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	items := []domain.InvoiceItemInput{
		{ProductCode: "SP001", Quantity: 3, UnitPrice: decimal.NewFromInt(1000)},
	}
	updated, err := svc.UpdateInvoice(ctx, inv.ID, domain.InvoiceUpdateRequest{Items: &items})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if want := decimal.NewFromInt(3000); !updated.Total.Equal(want) {
		t.Fatalf("total = %s, want %s", updated.Total, want)
	}
}

func TestCustomerTiers(t *testing.T) {
	cases := []struct {
		amount int64
		name   string
		level  int
	}{
		{0, "Đồng", 1},
		{29_999_999, "Đồng", 1},
		{30_000_000, "Bạc", 2},
		{55_000_000, "Vàng", 3},
		{92_500_000, "Bạch kim", 4},
		{148_750_000, "Kim cương", 5},
	}
	for _, tc := range cases {
		name, _, level, _ := customerTier(decimal.NewFromInt(tc.amount))
		if name != tc.name || level != tc.level {
			t.Fatalf("tier(%d) = %s/%d, want %s/%d", tc.amount, name, level, tc.name, tc.level)
		}
	}
}
