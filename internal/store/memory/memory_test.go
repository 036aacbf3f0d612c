package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/surp29/Backend-PoS/internal/domain"
	"github.com/surp29/Backend-PoS/internal/store"
)

func TestApplyStockDelta(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.CreateProduct(ctx, domain.Product{Code: "SP001", Name: "Trà xanh", Quantity: 10}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	p, err := s.ApplyStockDelta(ctx, "SP001", -4, "order", "DH001")
	if err != nil {
		t.Fatalf("deduct: %v", err)
	}
	if p.Quantity != 6 || p.Status != domain.ProductStatusInStock {
		t.Fatalf("after deduct: qty=%d status=%q", p.Quantity, p.Status)
	}

	if _, err := s.ApplyStockDelta(ctx, "SP001", -7, "order", "DH002"); !errors.Is(err, store.ErrInsufficientStock) {
		t.Fatalf("overshoot: want ErrInsufficientStock, got %v", err)
	}

	p, err = s.ApplyStockDelta(ctx, "SP001", -6, "order", "DH003")
	if err != nil {
		t.Fatalf("drain: %v", err)
	}
	if p.Quantity != 0 || p.Status != domain.ProductStatusOutOfStock {
		t.Fatalf("after drain: qty=%d status=%q", p.Quantity, p.Status)
	}

	if _, err := s.ApplyStockDelta(ctx, "SP404", 1, "restock", ""); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("unknown code: want ErrNotFound, got %v", err)
	}

	movements, err := s.ListStockMovements(ctx, "SP001", 0)
	if err != nil {
		t.Fatalf("movements: %v", err)
	}
	if len(movements) != 2 {
		t.Fatalf("movements = %d, want 2 (failed deduct must not append)", len(movements))
	}
	// Newest first.
	if movements[0].Delta != -6 || movements[0].Reference != "DH003" {
		t.Fatalf("latest movement = %+v", movements[0])
	}
	if movements[1].Delta != -4 || movements[1].Reference != "DH001" {
		t.Fatalf("oldest movement = %+v", movements[1])
	}
}

func TestListStockMovementsLimit(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.CreateProduct(ctx, domain.Product{Code: "SP001", Quantity: 100}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	for i := 0; i < 5; i++ {
		if _, err := s.ApplyStockDelta(ctx, "SP001", -1, "order", ""); err != nil {
			t.Fatalf("delta %d: %v", i, err)
		}
	}

	movements, err := s.ListStockMovements(ctx, "SP001", 3)
	if err != nil {
		t.Fatalf("movements: %v", err)
	}
	if len(movements) != 3 {
		t.Fatalf("limited movements = %d, want 3", len(movements))
	}
}

func TestRegisterDiscountUse(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.CreateDiscountCode(ctx, domain.DiscountCode{Code: "MOTLAN", MaxUses: 1})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	dc, err := s.RegisterDiscountUse(ctx, "motlan", decimal.NewFromInt(5000))
	if err != nil {
		t.Fatalf("first use: %v", err)
	}
	if dc.UsedCount != 1 || !dc.TotalSavings.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("after first use: count=%d savings=%s", dc.UsedCount, dc.TotalSavings)
	}

	if _, err := s.RegisterDiscountUse(ctx, "MOTLAN", decimal.NewFromInt(5000)); !errors.Is(err, store.ErrConflict) {
		t.Fatalf("exhausted: want ErrConflict, got %v", err)
	}
	if _, err := s.RegisterDiscountUse(ctx, "KHONGCO", decimal.Zero); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("unknown: want ErrNotFound, got %v", err)
	}
}

func TestCreateProductDuplicateCode(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.CreateProduct(ctx, domain.Product{Code: "SP001"}); err != nil {
		t.Fatalf("first: %v", err)
	}
	if _, err := s.CreateProduct(ctx, domain.Product{Code: "SP001"}); !errors.Is(err, store.ErrConflict) {
		t.Fatalf("duplicate: want ErrConflict, got %v", err)
	}
}
