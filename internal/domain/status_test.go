package domain

import "testing"

func TestParseOrderStatus(t *testing.T) {
	cancelled := []string{"Đã hủy", "đã hủy", "DA HUY", "hủy", "Huy", "canceled", "Cancelled", "  đã hủy  "}
	for _, raw := range cancelled {
		if !ParseOrderStatus(raw).IsCancelled() {
			t.Errorf("ParseOrderStatus(%q) should be cancelled", raw)
		}
	}

	active := []string{"", "Chưa giải quyết", "Đang xử lý", "Hoàn thành", "đã hủy đơn"}
	for _, raw := range active {
		if ParseOrderStatus(raw).IsCancelled() {
			t.Errorf("ParseOrderStatus(%q) should be active", raw)
		}
	}
}

func TestParseInvoiceStatus(t *testing.T) {
	paid := []string{"Đã thanh toán", "đã thanh toán", "  Đã Thanh Toán  ", "Đã thanh toán một phần... đã thanh toán hết"}
	for _, raw := range paid {
		if !ParseInvoiceStatus(raw).IsPaid() {
			t.Errorf("ParseInvoiceStatus(%q) should be paid", raw)
		}
	}

	unpaid := []string{"", "Chưa thanh toán", "Thanh toán", "pending"}
	for _, raw := range unpaid {
		if ParseInvoiceStatus(raw).IsPaid() {
			t.Errorf("ParseInvoiceStatus(%q) should be unpaid", raw)
		}
	}
}

func TestProductStockStatus(t *testing.T) {
	if got := (Product{Quantity: 3}).StockStatus(); got != ProductStatusInStock {
		t.Fatalf("StockStatus(3) = %q", got)
	}
	if got := (Product{Quantity: 0}).StockStatus(); got != ProductStatusOutOfStock {
		t.Fatalf("StockStatus(0) = %q", got)
	}
}
