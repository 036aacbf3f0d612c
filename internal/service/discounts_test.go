package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/surp29/Backend-PoS/internal/domain"
)

func adminContext() context.Context {
	return WithActor(context.Background(), domain.Actor{Username: "admin", Role: domain.RoleAdmin})
}

func seedDiscount(t *testing.T, svc *Service, req domain.DiscountWriteRequest) domain.DiscountCode {
	t.Helper()
	dc, err := svc.CreateDiscountCode(adminContext(), req)
	if err != nil {
		t.Fatalf("seed discount %s: %v", req.Code, err)
	}
	return dc
}

func TestCreateDiscountRequiresAdmin(t *testing.T) {
	svc, _ := newTestService(t)

	staff := WithActor(context.Background(), domain.Actor{Username: "nv01", Role: domain.RoleStaff})
	_, err := svc.CreateDiscountCode(staff, domain.DiscountWriteRequest{
		Code:         "SALE10",
		DiscountType: domain.DiscountTypePercentage,
	})
	if err == nil {
		t.Fatal("staff must not create discount codes")
	}
}

func TestCheckDiscountPercentage(t *testing.T) {
	svc, _ := newTestService(t)
	seedDiscount(t, svc, domain.DiscountWriteRequest{
		Code:          "sale10",
		DiscountType:  domain.DiscountTypePercentage,
		DiscountValue: decimal.NewFromInt(10),
	})

	result, err := svc.CheckDiscount(context.Background(), domain.DiscountCheckRequest{
		Code:       "SALE10",
		OrderValue: decimal.NewFromInt(200000),
	})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !result.Usable {
		t.Fatalf("usable = false, reason %q", result.Reason)
	}
	if want := decimal.NewFromInt(20000); !result.Amount.Equal(want) {
		t.Fatalf("amount = %s, want %s", result.Amount, want)
	}
	if want := decimal.NewFromInt(180000); !result.Payable.Equal(want) {
		t.Fatalf("payable = %s, want %s", result.Payable, want)
	}
}

func TestCheckDiscountFixedCapsAtOrderValue(t *testing.T) {
	svc, _ := newTestService(t)
	seedDiscount(t, svc, domain.DiscountWriteRequest{
		Code:          "GIAM50K",
		DiscountType:  domain.DiscountTypeFixed,
		DiscountValue: decimal.NewFromInt(50000),
	})

	result, err := svc.CheckDiscount(context.Background(), domain.DiscountCheckRequest{
		Code:       "GIAM50K",
		OrderValue: decimal.NewFromInt(30000),
	})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !result.Amount.Equal(decimal.NewFromInt(30000)) {
		t.Fatalf("amount = %s, want capped 30000", result.Amount)
	}
	if !result.Payable.IsZero() {
		t.Fatalf("payable = %s, want 0", result.Payable)
	}
}

func TestCheckDiscountExpired(t *testing.T) {
	svc, _ := newTestService(t)
	yesterday := time.Now().Add(-24 * time.Hour)
	seedDiscount(t, svc, domain.DiscountWriteRequest{
		Code:          "HETHAN",
		DiscountType:  domain.DiscountTypeFixed,
		DiscountValue: decimal.NewFromInt(1000),
		StartDate:     yesterday.Add(-24 * time.Hour),
		EndDate:       &yesterday,
	})

	result, err := svc.CheckDiscount(context.Background(), domain.DiscountCheckRequest{
		Code:       "HETHAN",
		OrderValue: decimal.NewFromInt(100000),
	})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if result.Usable || result.Reason != "Mã giảm giá đã hết hạn" {
		t.Fatalf("usable=%v reason=%q", result.Usable, result.Reason)
	}
}

func TestCheckDiscountMinOrderValue(t *testing.T) {
	svc, _ := newTestService(t)
	seedDiscount(t, svc, domain.DiscountWriteRequest{
		Code:          "MIN100K",
		DiscountType:  domain.DiscountTypeFixed,
		DiscountValue: decimal.NewFromInt(10000),
		MinOrderValue: decimal.NewFromInt(100000),
	})

	result, err := svc.CheckDiscount(context.Background(), domain.DiscountCheckRequest{
		Code:       "MIN100K",
		OrderValue: decimal.NewFromInt(50000),
	})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if result.Usable {
		t.Fatal("order below minimum must be rejected")
	}
	if result.Reason == "" {
		t.Fatal("rejection must carry a reason")
	}
}

func TestApplyDiscountBurnsUse(t *testing.T) {
	svc, _ := newTestService(t)
	seedDiscount(t, svc, domain.DiscountWriteRequest{
		Code:          "MOTLAN",
		DiscountType:  domain.DiscountTypeFixed,
		DiscountValue: decimal.NewFromInt(5000),
		MaxUses:       1,
	})

	req := domain.DiscountCheckRequest{Code: "MOTLAN", OrderValue: decimal.NewFromInt(100000)}
	first, err := svc.ApplyDiscount(context.Background(), req)
	if err != nil {
		t.Fatalf("first apply: %v", err)
	}
	if !first.Usable {
		t.Fatalf("first apply rejected: %q", first.Reason)
	}

	second, err := svc.ApplyDiscount(context.Background(), req)
	if err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if second.Usable || second.Reason != "Mã giảm giá đã hết lượt sử dụng" {
		t.Fatalf("usable=%v reason=%q, want exhausted", second.Usable, second.Reason)
	}
}
