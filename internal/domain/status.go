package domain

import "strings"

// OrderStatus is the reconciliation view of an order's free-text status.
// The display string on the record stays whatever the client sent; stock
// logic only ever looks at this parsed value.
type OrderStatus int

const (
	OrderActive OrderStatus = iota
	OrderCancelled
)

const (
	OrderStatusDefault   = "Chưa giải quyết"
	OrderStatusCancelled = "Đã hủy"
)

// Spellings that mean "cancelled" across the historical data set.
var cancelledSpellings = map[string]struct{}{
	"đã hủy":    {},
	"da huy":    {},
	"hủy":       {},
	"huy":       {},
	"canceled":  {},
	"cancelled": {},
}

func ParseOrderStatus(raw string) OrderStatus {
	norm := strings.ToLower(strings.TrimSpace(raw))
	if _, ok := cancelledSpellings[norm]; ok {
		return OrderCancelled
	}
	return OrderActive
}

func (s OrderStatus) IsCancelled() bool { return s == OrderCancelled }

type InvoiceStatus int

const (
	InvoiceUnpaid InvoiceStatus = iota
	InvoicePaid
)

const (
	InvoiceStatusPaid    = "Đã thanh toán"
	InvoiceStatusDefault = "Chưa thanh toán"
)

func ParseInvoiceStatus(raw string) InvoiceStatus {
	norm := strings.ToLower(strings.TrimSpace(raw))
	if strings.Contains(norm, strings.ToLower(InvoiceStatusPaid)) {
		return InvoicePaid
	}
	return InvoiceUnpaid
}

func (s InvoiceStatus) IsPaid() bool { return s == InvoicePaid }

// LineKind classifies an order line reference. Codes found in the product
// catalog move stock; anything else is a service action and never does.
type LineKind int

const (
	LineKindAction LineKind = iota
	LineKindProduct
)
