package memory

import (
	"context"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/surp29/Backend-PoS/internal/domain"
	"github.com/surp29/Backend-PoS/internal/store"
)

type Store struct {
	mu sync.RWMutex

	products        map[string]domain.Product
	movements       []domain.StockMovement
	prices          map[int64]domain.PriceEntry
	warehouses      map[int64]domain.Warehouse
	orders          map[int64]domain.Order
	invoices        map[int64]domain.Invoice
	accounts        map[int64]domain.Account
	areas           map[int64]domain.Area
	shops           map[int64]domain.Shop
	discounts       map[int64]domain.DiscountCode
	schedules       map[int64]domain.Schedule
	usersByUsername map[string]domain.UserAccount
	diary           []domain.DiaryEntry

	seq int64
}

func New() *Store {
	return &Store{
		products:        map[string]domain.Product{},
		prices:          map[int64]domain.PriceEntry{},
		warehouses:      map[int64]domain.Warehouse{},
		orders:          map[int64]domain.Order{},
		invoices:        map[int64]domain.Invoice{},
		accounts:        map[int64]domain.Account{},
		areas:           map[int64]domain.Area{},
		shops:           map[int64]domain.Shop{},
		discounts:       map[int64]domain.DiscountCode{},
		schedules:       map[int64]domain.Schedule{},
		usersByUsername: seedUsers(),
		diary:           []domain.DiaryEntry{},
	}
}

// NewSeeded returns a store pre-loaded with a small Vietnamese demo
// catalog, handy for local runs without a database.
func NewSeeded() *Store {
	s := New()

	seedProducts := []domain.Product{
		{Code: "SP001", Name: "Cà phê sữa đá", Group: "Đồ uống", Quantity: 120, SalePrice: decimal.NewFromInt(25000), ListPrice: decimal.NewFromInt(22000), CostPrice: decimal.NewFromInt(12000), Unit: "ly"},
		{Code: "SP002", Name: "Trà đào cam sả", Group: "Đồ uống", Quantity: 80, SalePrice: decimal.NewFromInt(35000), ListPrice: decimal.NewFromInt(32000), CostPrice: decimal.NewFromInt(15000), Unit: "ly"},
		{Code: "SP003", Name: "Bánh mì thịt", Group: "Đồ ăn", Quantity: 45, SalePrice: decimal.NewFromInt(20000), ListPrice: decimal.NewFromInt(18000), CostPrice: decimal.NewFromInt(9000), Unit: "ổ"},
		{Code: "SP004", Name: "Nước suối", Group: "Đồ uống", Quantity: 0, SalePrice: decimal.NewFromInt(10000), ListPrice: decimal.NewFromInt(8000), CostPrice: decimal.NewFromInt(4000), Unit: "chai"},
	}
	for _, p := range seedProducts {
		s.seq++
		p.ID = s.seq
		p.Status = p.StockStatus()
		s.products[p.Code] = p
	}

	s.seq++
	s.areas[s.seq] = domain.Area{ID: s.seq, Name: "Quận 1", Description: "Khu vực trung tâm"}
	areaID := s.seq
	s.seq++
	s.shops[s.seq] = domain.Shop{ID: s.seq, Name: "Chi nhánh chính", AreaID: areaID, Address: "12 Lê Lợi", Status: "active"}
	s.seq++
	s.accounts[s.seq] = domain.Account{ID: s.seq, Name: domain.WalkInCustomer, CustomerCode: "KH000", Active: true, Debt: decimal.Zero}

	return s
}

// seedUsers builds the initial user set for dev/demo mode. The password
// comes from SEED_ADMIN_PASSWORD; without it a dev default is used and a
// warning is printed. Production deployments run on PostgreSQL.
func seedUsers() map[string]domain.UserAccount {
	adminPwd := os.Getenv("SEED_ADMIN_PASSWORD")
	if adminPwd == "" {
		adminPwd = "admin123"
		log.Println("[memory-store] WARNING: using default dev admin password. Set SEED_ADMIN_PASSWORD to override.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPwd), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("[memory-store] failed to hash seed password: %v", err)
	}

	return map[string]domain.UserAccount{
		"admin": {
			User: domain.User{
				ID:       1,
				Username: "admin",
				FullName: "Quản trị viên",
				Role:     domain.RoleAdmin,
				Active:   true,
			},
			PasswordHash: string(hash),
		},
	}
}

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

func safeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.WalkInCustomer
	}
	return name
}

// --- products ---

func (s *Store) ListProducts(_ context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (s *Store) GetProductByCode(_ context.Context, code string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[code]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (s *Store) CreateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[product.Code]; exists {
		return nil, store.ErrConflict
	}
	product.ID = s.nextID()
	product.Status = product.StockStatus()
	s.products[product.Code] = product
	return &product, nil
}

func (s *Store) UpdateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.products[product.Code]
	if !ok {
		return nil, store.ErrNotFound
	}
	product.ID = existing.ID
	product.Status = product.StockStatus()
	s.products[product.Code] = product
	return &product, nil
}

func (s *Store) DeleteProduct(_ context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[code]; !ok {
		return store.ErrNotFound
	}
	delete(s.products, code)
	return nil
}

func (s *Store) ListProductGroups(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := map[string]struct{}{}
	groups := []string{}
	for _, p := range s.products {
		g := strings.TrimSpace(p.Group)
		if g == "" {
			continue
		}
		if _, ok := seen[g]; !ok {
			seen[g] = struct{}{}
			groups = append(groups, g)
		}
	}
	sort.Strings(groups)
	return groups, nil
}

// --- stock ledger ---

func (s *Store) ApplyStockDelta(_ context.Context, productCode string, delta int, reason string, reference string) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[productCode]
	if !ok {
		return nil, store.ErrNotFound
	}
	if delta < 0 && p.Quantity+delta < 0 {
		return nil, store.ErrInsufficientStock
	}

	qty := p.Quantity + delta
	if qty < 0 {
		qty = 0
	}
	p.Quantity = qty
	p.Status = p.StockStatus()
	s.products[productCode] = p

	s.movements = append(s.movements, domain.StockMovement{
		ID:          uuid.NewString(),
		ProductCode: productCode,
		Delta:       delta,
		Reason:      reason,
		Reference:   reference,
		CreatedAt:   time.Now().UTC(),
	})
	return &p, nil
}

func (s *Store) ListStockMovements(_ context.Context, productCode string, limit int) ([]domain.StockMovement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.StockMovement{}
	for i := len(s.movements) - 1; i >= 0; i-- {
		m := s.movements[i]
		if productCode != "" && m.ProductCode != productCode {
			continue
		}
		out = append(out, m)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// --- prices ---

func (s *Store) ListPrices(_ context.Context) ([]domain.PriceEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.PriceEntry, 0, len(s.prices))
	for _, p := range s.prices {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetPriceByID(_ context.Context, id int64) (*domain.PriceEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.prices[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (s *Store) CreatePrice(_ context.Context, entry domain.PriceEntry) (*domain.PriceEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry.ID = s.nextID()
	s.prices[entry.ID] = entry
	return &entry, nil
}

func (s *Store) UpdatePrice(_ context.Context, entry domain.PriceEntry) (*domain.PriceEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.prices[entry.ID]; !ok {
		return nil, store.ErrNotFound
	}
	s.prices[entry.ID] = entry
	return &entry, nil
}

func (s *Store) DeletePrice(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.prices[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.prices, id)
	return nil
}

// --- warehouses ---

func (s *Store) ListWarehouses(_ context.Context) ([]domain.Warehouse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Warehouse, 0, len(s.warehouses))
	for _, w := range s.warehouses {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetWarehouseByID(_ context.Context, id int64) (*domain.Warehouse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.warehouses[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &w, nil
}

func (s *Store) CreateWarehouse(_ context.Context, wh domain.Warehouse) (*domain.Warehouse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wh.ID = s.nextID()
	s.warehouses[wh.ID] = wh
	return &wh, nil
}

func (s *Store) UpdateWarehouse(_ context.Context, wh domain.Warehouse) (*domain.Warehouse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.warehouses[wh.ID]; !ok {
		return nil, store.ErrNotFound
	}
	s.warehouses[wh.ID] = wh
	return &wh, nil
}

func (s *Store) DeleteWarehouse(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.warehouses[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.warehouses, id)
	return nil
}

// --- orders ---

func (s *Store) ListOrders(_ context.Context) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetOrderByID(_ context.Context, id int64) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &o, nil
}

func (s *Store) GetOrderByCode(_ context.Context, code string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, o := range s.orders {
		if o.Code == code {
			return &o, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) SearchOrders(_ context.Context, query string) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))
	out := []domain.Order{}
	for _, o := range s.orders {
		if q == "" ||
			strings.Contains(strings.ToLower(o.Code), q) ||
			strings.Contains(strings.ToLower(o.CustomerInfo), q) ||
			strings.Contains(strings.ToLower(o.LineRef), q) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CountActiveOrdersForProduct(_ context.Context, productCode string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, o := range s.orders {
		if o.LineRef == productCode && !domain.ParseOrderStatus(o.Status).IsCancelled() {
			count++
		}
	}
	return count, nil
}

func (s *Store) CreateOrder(_ context.Context, order domain.Order) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.orders {
		if o.Code == order.Code {
			return nil, store.ErrConflict
		}
	}
	order.ID = s.nextID()
	s.orders[order.ID] = order
	return &order, nil
}

func (s *Store) UpdateOrder(_ context.Context, order domain.Order) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[order.ID]; !ok {
		return nil, store.ErrNotFound
	}
	s.orders[order.ID] = order
	return &order, nil
}

func (s *Store) DeleteOrder(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.orders, id)
	return nil
}

// --- invoices ---

func cloneInvoice(inv domain.Invoice) domain.Invoice {
	items := make([]domain.InvoiceItem, len(inv.Items))
	copy(items, inv.Items)
	inv.Items = items
	return inv
}

func (s *Store) ListInvoices(_ context.Context) ([]domain.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Invoice, 0, len(s.invoices))
	for _, inv := range s.invoices {
		out = append(out, cloneInvoice(inv))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetInvoiceByID(_ context.Context, id int64) (*domain.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inv, ok := s.invoices[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cloned := cloneInvoice(inv)
	return &cloned, nil
}

func (s *Store) ListInvoicesByBuyer(_ context.Context, buyer string) ([]domain.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	want := safeName(buyer)
	out := []domain.Invoice{}
	for _, inv := range s.invoices {
		if safeName(inv.Buyer) == want {
			out = append(out, cloneInvoice(inv))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CreateInvoice(_ context.Context, inv domain.Invoice) (*domain.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.invoices {
		if existing.Number == inv.Number {
			return nil, store.ErrConflict
		}
	}
	inv.ID = s.nextID()
	for i := range inv.Items {
		inv.Items[i].ID = s.nextID()
		inv.Items[i].InvoiceID = inv.ID
	}
	s.invoices[inv.ID] = cloneInvoice(inv)
	cloned := cloneInvoice(inv)
	return &cloned, nil
}

func (s *Store) UpdateInvoice(_ context.Context, inv domain.Invoice) (*domain.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.invoices[inv.ID]; !ok {
		return nil, store.ErrNotFound
	}
	for i := range inv.Items {
		if inv.Items[i].ID == 0 {
			inv.Items[i].ID = s.nextID()
		}
		inv.Items[i].InvoiceID = inv.ID
	}
	s.invoices[inv.ID] = cloneInvoice(inv)
	cloned := cloneInvoice(inv)
	return &cloned, nil
}

func (s *Store) DeleteInvoice(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.invoices[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.invoices, id)
	return nil
}

func (s *Store) SalesTotals(_ context.Context, from time.Time, to time.Time) ([]domain.ProductSales, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	agg := map[string]*domain.ProductSales{}
	for _, inv := range s.invoices {
		if !domain.ParseInvoiceStatus(inv.Status).IsPaid() {
			continue
		}
		if inv.Date.Before(from) || inv.Date.After(to) {
			continue
		}
		for _, item := range inv.Items {
			entry, ok := agg[item.ProductCode]
			if !ok {
				entry = &domain.ProductSales{
					ProductCode: item.ProductCode,
					ProductName: item.ProductName,
					Revenue:     decimal.Zero,
				}
				agg[item.ProductCode] = entry
			}
			entry.QuantitySold += item.Quantity
			entry.Revenue = entry.Revenue.Add(item.Total)
		}
	}

	out := make([]domain.ProductSales, 0, len(agg))
	for _, entry := range agg {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuantitySold > out[j].QuantitySold })
	return out, nil
}

func (s *Store) PaidRevenue(_ context.Context, from *time.Time, to *time.Time) (decimal.Decimal, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	count := 0
	for _, inv := range s.invoices {
		if !domain.ParseInvoiceStatus(inv.Status).IsPaid() {
			continue
		}
		if from != nil && inv.Date.Before(*from) {
			continue
		}
		if to != nil && inv.Date.After(*to) {
			continue
		}
		total = total.Add(inv.Total)
		count++
	}
	return total, count, nil
}

func (s *Store) UnpaidTotals(_ context.Context) (decimal.Decimal, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	count := 0
	for _, inv := range s.invoices {
		if domain.ParseInvoiceStatus(inv.Status).IsPaid() {
			continue
		}
		total = total.Add(inv.Total)
		count++
	}
	return total, count, nil
}

// --- accounts ---

func (s *Store) ListAccounts(_ context.Context) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetAccountByID(_ context.Context, id int64) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &a, nil
}

func (s *Store) GetAccountByName(_ context.Context, name string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	want := safeName(name)
	for _, a := range s.accounts {
		if safeName(a.Name) == want {
			acc := a
			return &acc, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) CreateAccount(_ context.Context, acc domain.Account) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc.ID = s.nextID()
	s.accounts[acc.ID] = acc
	return &acc, nil
}

func (s *Store) UpdateAccount(_ context.Context, acc domain.Account) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[acc.ID]; !ok {
		return nil, store.ErrNotFound
	}
	s.accounts[acc.ID] = acc
	return &acc, nil
}

func (s *Store) DeleteAccount(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.accounts, id)
	return nil
}

func (s *Store) SetAccountDebt(_ context.Context, name string, debt decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	want := safeName(name)
	for id, a := range s.accounts {
		if safeName(a.Name) == want {
			a.Debt = debt
			s.accounts[id] = a
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) CustomerOrderAggregates(_ context.Context) ([]domain.CustomerAggregate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	agg := map[string]*domain.CustomerAggregate{}
	for _, o := range s.orders {
		name := safeName(o.CustomerInfo)
		entry, ok := agg[name]
		if !ok {
			entry = &domain.CustomerAggregate{
				CustomerName: name,
				TotalAmount:  decimal.Zero,
				TotalDebt:    decimal.Zero,
			}
			agg[name] = entry
		}
		entry.OrderCount++
		entry.TotalQuantity += o.Quantity
		entry.TotalAmount = entry.TotalAmount.Add(o.Total)
	}

	out := make([]domain.CustomerAggregate, 0, len(agg))
	for _, entry := range agg {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CustomerName < out[j].CustomerName })
	return out, nil
}

func (s *Store) PaidTotalsByBuyer(_ context.Context) (map[string]decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := map[string]decimal.Decimal{}
	for _, inv := range s.invoices {
		if !domain.ParseInvoiceStatus(inv.Status).IsPaid() {
			continue
		}
		name := safeName(inv.Buyer)
		out[name] = out[name].Add(inv.Total)
	}
	return out, nil
}

// --- areas ---

func (s *Store) ListAreas(_ context.Context) ([]domain.Area, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Area, 0, len(s.areas))
	for _, a := range s.areas {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetAreaByID(_ context.Context, id int64) (*domain.Area, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.areas[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &a, nil
}

func (s *Store) CreateArea(_ context.Context, area domain.Area) (*domain.Area, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	area.ID = s.nextID()
	s.areas[area.ID] = area
	return &area, nil
}

func (s *Store) UpdateArea(_ context.Context, area domain.Area) (*domain.Area, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.areas[area.ID]; !ok {
		return nil, store.ErrNotFound
	}
	s.areas[area.ID] = area
	return &area, nil
}

func (s *Store) DeleteArea(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.areas[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.areas, id)
	return nil
}

// --- shops ---

func (s *Store) ListShops(_ context.Context) ([]domain.Shop, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Shop, 0, len(s.shops))
	for _, sh := range s.shops {
		out = append(out, sh)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetShopByID(_ context.Context, id int64) (*domain.Shop, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sh, ok := s.shops[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &sh, nil
}

func (s *Store) CreateShop(_ context.Context, shop domain.Shop) (*domain.Shop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	shop.ID = s.nextID()
	s.shops[shop.ID] = shop
	return &shop, nil
}

func (s *Store) UpdateShop(_ context.Context, shop domain.Shop) (*domain.Shop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.shops[shop.ID]; !ok {
		return nil, store.ErrNotFound
	}
	s.shops[shop.ID] = shop
	return &shop, nil
}

func (s *Store) DeleteShop(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.shops[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.shops, id)
	return nil
}

// --- discount codes ---

func (s *Store) ListDiscountCodes(_ context.Context) ([]domain.DiscountCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.DiscountCode, 0, len(s.discounts))
	for _, d := range s.discounts {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetDiscountByCode(_ context.Context, code string) (*domain.DiscountCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, d := range s.discounts {
		if strings.EqualFold(d.Code, code) {
			dc := d
			return &dc, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) CreateDiscountCode(_ context.Context, dc domain.DiscountCode) (*domain.DiscountCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.discounts {
		if strings.EqualFold(existing.Code, dc.Code) {
			return nil, store.ErrConflict
		}
	}
	dc.ID = s.nextID()
	s.discounts[dc.ID] = dc
	return &dc, nil
}

func (s *Store) UpdateDiscountCode(_ context.Context, dc domain.DiscountCode) (*domain.DiscountCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.discounts[dc.ID]; !ok {
		return nil, store.ErrNotFound
	}
	s.discounts[dc.ID] = dc
	return &dc, nil
}

func (s *Store) DeleteDiscountCode(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.discounts[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.discounts, id)
	return nil
}

func (s *Store) RegisterDiscountUse(_ context.Context, code string, saved decimal.Decimal) (*domain.DiscountCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, d := range s.discounts {
		if strings.EqualFold(d.Code, code) {
			if d.MaxUses > 0 && d.UsedCount >= d.MaxUses {
				return nil, store.ErrConflict
			}
			d.UsedCount++
			d.TotalSavings = d.TotalSavings.Add(saved)
			s.discounts[id] = d
			return &d, nil
		}
	}
	return nil, store.ErrNotFound
}

// --- schedules ---

func (s *Store) ListSchedules(_ context.Context) ([]domain.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Schedule, 0, len(s.schedules))
	for _, sc := range s.schedules {
		out = append(out, sc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetScheduleByID(_ context.Context, id int64) (*domain.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sc, ok := s.schedules[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &sc, nil
}

func (s *Store) CreateSchedule(_ context.Context, sc domain.Schedule) (*domain.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc.ID = s.nextID()
	s.schedules[sc.ID] = sc
	return &sc, nil
}

func (s *Store) UpdateSchedule(_ context.Context, sc domain.Schedule) (*domain.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.schedules[sc.ID]; !ok {
		return nil, store.ErrNotFound
	}
	s.schedules[sc.ID] = sc
	return &sc, nil
}

func (s *Store) DeleteSchedule(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.schedules[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.schedules, id)
	return nil
}

// --- users ---

func (s *Store) ListUsers(_ context.Context) ([]domain.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.UserAccount, 0, len(s.usersByUsername))
	for _, u := range s.usersByUsername {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*domain.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.usersByUsername[username]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s *Store) CreateUser(_ context.Context, user domain.UserAccount) (*domain.UserAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByUsername[user.Username]; exists {
		return nil, store.ErrConflict
	}
	user.ID = s.nextID()
	s.usersByUsername[user.Username] = user
	return &user, nil
}

func (s *Store) UpdateUser(_ context.Context, user domain.UserAccount) (*domain.UserAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for username, existing := range s.usersByUsername {
		if existing.ID == user.ID {
			delete(s.usersByUsername, username)
			s.usersByUsername[user.Username] = user
			return &user, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) DeleteUser(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for username, existing := range s.usersByUsername {
		if existing.ID == id {
			delete(s.usersByUsername, username)
			return nil
		}
	}
	return store.ErrNotFound
}

// --- general diary ---

func (s *Store) AppendDiaryEntry(_ context.Context, entry domain.DiaryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.diary = append(s.diary, entry)
	return nil
}

func (s *Store) ListDiaryEntries(_ context.Context, from *time.Time, to *time.Time, limit int) ([]domain.DiaryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.DiaryEntry{}
	for i := len(s.diary) - 1; i >= 0; i-- {
		e := s.diary[i]
		if from != nil && e.EntryDate.Before(*from) {
			continue
		}
		if to != nil && e.EntryDate.After(*to) {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
