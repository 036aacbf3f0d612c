package store

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/surp29/Backend-PoS/internal/domain"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("already exists")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrProductReferenced = errors.New("product referenced by active orders")
)

type Repository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProductByCode(ctx context.Context, code string) (*domain.Product, error)
	CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, code string) error
	ListProductGroups(ctx context.Context) ([]string, error)

	// ApplyStockDelta appends a stock movement and updates the product's
	// materialized quantity under one lock. Negative deltas fail with
	// ErrInsufficientStock when they exceed the quantity on hand; the
	// resulting quantity is floored at zero either way.
	ApplyStockDelta(ctx context.Context, productCode string, delta int, reason string, reference string) (*domain.Product, error)
	ListStockMovements(ctx context.Context, productCode string, limit int) ([]domain.StockMovement, error)

	ListPrices(ctx context.Context) ([]domain.PriceEntry, error)
	GetPriceByID(ctx context.Context, id int64) (*domain.PriceEntry, error)
	CreatePrice(ctx context.Context, entry domain.PriceEntry) (*domain.PriceEntry, error)
	UpdatePrice(ctx context.Context, entry domain.PriceEntry) (*domain.PriceEntry, error)
	DeletePrice(ctx context.Context, id int64) error

	ListWarehouses(ctx context.Context) ([]domain.Warehouse, error)
	GetWarehouseByID(ctx context.Context, id int64) (*domain.Warehouse, error)
	CreateWarehouse(ctx context.Context, wh domain.Warehouse) (*domain.Warehouse, error)
	UpdateWarehouse(ctx context.Context, wh domain.Warehouse) (*domain.Warehouse, error)
	DeleteWarehouse(ctx context.Context, id int64) error

	ListOrders(ctx context.Context) ([]domain.Order, error)
	GetOrderByID(ctx context.Context, id int64) (*domain.Order, error)
	GetOrderByCode(ctx context.Context, code string) (*domain.Order, error)
	SearchOrders(ctx context.Context, query string) ([]domain.Order, error)
	CountActiveOrdersForProduct(ctx context.Context, productCode string) (int, error)
	CreateOrder(ctx context.Context, order domain.Order) (*domain.Order, error)
	UpdateOrder(ctx context.Context, order domain.Order) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id int64) error

	ListInvoices(ctx context.Context) ([]domain.Invoice, error)
	GetInvoiceByID(ctx context.Context, id int64) (*domain.Invoice, error)
	ListInvoicesByBuyer(ctx context.Context, buyer string) ([]domain.Invoice, error)
	CreateInvoice(ctx context.Context, inv domain.Invoice) (*domain.Invoice, error)
	UpdateInvoice(ctx context.Context, inv domain.Invoice) (*domain.Invoice, error)
	DeleteInvoice(ctx context.Context, id int64) error

	// SalesTotals aggregates paid invoice items per product over [from, to].
	SalesTotals(ctx context.Context, from time.Time, to time.Time) ([]domain.ProductSales, error)
	PaidRevenue(ctx context.Context, from *time.Time, to *time.Time) (decimal.Decimal, int, error)
	UnpaidTotals(ctx context.Context) (decimal.Decimal, int, error)

	ListAccounts(ctx context.Context) ([]domain.Account, error)
	GetAccountByID(ctx context.Context, id int64) (*domain.Account, error)
	GetAccountByName(ctx context.Context, name string) (*domain.Account, error)
	CreateAccount(ctx context.Context, acc domain.Account) (*domain.Account, error)
	UpdateAccount(ctx context.Context, acc domain.Account) (*domain.Account, error)
	DeleteAccount(ctx context.Context, id int64) error
	SetAccountDebt(ctx context.Context, name string, debt decimal.Decimal) error

	CustomerOrderAggregates(ctx context.Context) ([]domain.CustomerAggregate, error)
	PaidTotalsByBuyer(ctx context.Context) (map[string]decimal.Decimal, error)

	ListAreas(ctx context.Context) ([]domain.Area, error)
	GetAreaByID(ctx context.Context, id int64) (*domain.Area, error)
	CreateArea(ctx context.Context, area domain.Area) (*domain.Area, error)
	UpdateArea(ctx context.Context, area domain.Area) (*domain.Area, error)
	DeleteArea(ctx context.Context, id int64) error

	ListShops(ctx context.Context) ([]domain.Shop, error)
	GetShopByID(ctx context.Context, id int64) (*domain.Shop, error)
	CreateShop(ctx context.Context, shop domain.Shop) (*domain.Shop, error)
	UpdateShop(ctx context.Context, shop domain.Shop) (*domain.Shop, error)
	DeleteShop(ctx context.Context, id int64) error

	ListDiscountCodes(ctx context.Context) ([]domain.DiscountCode, error)
	GetDiscountByCode(ctx context.Context, code string) (*domain.DiscountCode, error)
	CreateDiscountCode(ctx context.Context, dc domain.DiscountCode) (*domain.DiscountCode, error)
	UpdateDiscountCode(ctx context.Context, dc domain.DiscountCode) (*domain.DiscountCode, error)
	DeleteDiscountCode(ctx context.Context, id int64) error
	// RegisterDiscountUse bumps used_count and total_savings atomically.
	RegisterDiscountUse(ctx context.Context, code string, saved decimal.Decimal) (*domain.DiscountCode, error)

	ListSchedules(ctx context.Context) ([]domain.Schedule, error)
	GetScheduleByID(ctx context.Context, id int64) (*domain.Schedule, error)
	CreateSchedule(ctx context.Context, s domain.Schedule) (*domain.Schedule, error)
	UpdateSchedule(ctx context.Context, s domain.Schedule) (*domain.Schedule, error)
	DeleteSchedule(ctx context.Context, id int64) error

	ListUsers(ctx context.Context) ([]domain.UserAccount, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.UserAccount, error)
	CreateUser(ctx context.Context, user domain.UserAccount) (*domain.UserAccount, error)
	UpdateUser(ctx context.Context, user domain.UserAccount) (*domain.UserAccount, error)
	DeleteUser(ctx context.Context, id int64) error

	AppendDiaryEntry(ctx context.Context, entry domain.DiaryEntry) error
	ListDiaryEntries(ctx context.Context, from *time.Time, to *time.Time, limit int) ([]domain.DiaryEntry, error)
}
