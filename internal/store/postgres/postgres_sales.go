package postgres

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/surp29/Backend-PoS/internal/domain"
	"github.com/surp29/Backend-PoS/internal/store"
)

// --- invoices ---

const invoiceCols = `id, number, invoice_date, buyer, total, status, payment_method`

func scanInvoice(row interface{ Scan(...any) error }) (domain.Invoice, error) {
	var inv domain.Invoice
	err := row.Scan(&inv.ID, &inv.Number, &inv.Date, &inv.Buyer, &inv.Total, &inv.Status, &inv.PaymentMethod)
	return inv, err
}

func (s *Store) loadInvoiceItems(ctx context.Context, inv *domain.Invoice) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, invoice_id, product_code, product_name, quantity, unit_price, total
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY id
	`, inv.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	inv.Items = []domain.InvoiceItem{}
	for rows.Next() {
		var item domain.InvoiceItem
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.ProductCode, &item.ProductName, &item.Quantity, &item.UnitPrice, &item.Total); err != nil {
			return err
		}
		inv.Items = append(inv.Items, item)
	}
	return rows.Err()
}

func (s *Store) listInvoicesWhere(ctx context.Context, where string, args ...any) ([]domain.Invoice, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+invoiceCols+` FROM invoices `+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invoices := []domain.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range invoices {
		if err := s.loadInvoiceItems(ctx, &invoices[i]); err != nil {
			return nil, err
		}
	}
	return invoices, nil
}

func (s *Store) ListInvoices(ctx context.Context) ([]domain.Invoice, error) {
	return s.listInvoicesWhere(ctx, ``)
}

func (s *Store) GetInvoiceByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	inv, err := scanInvoice(s.db.QueryRowContext(ctx, `
		SELECT `+invoiceCols+` FROM invoices WHERE id = $1
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadInvoiceItems(ctx, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (s *Store) ListInvoicesByBuyer(ctx context.Context, buyer string) ([]domain.Invoice, error) {
	return s.listInvoicesWhere(ctx, `WHERE buyer = $1`, buyer)
}

func (s *Store) CreateInvoice(ctx context.Context, inv domain.Invoice) (*domain.Invoice, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO invoices (number, invoice_date, buyer, total, status, payment_method)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id
	`, inv.Number, inv.Date, inv.Buyer, inv.Total, inv.Status, inv.PaymentMethod).Scan(&inv.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}

	for i := range inv.Items {
		item := &inv.Items[i]
		item.InvoiceID = inv.ID
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO invoice_items (invoice_id, product_code, product_name, quantity, unit_price, total)
			VALUES ($1,$2,$3,$4,$5,$6)
			RETURNING id
		`, item.InvoiceID, item.ProductCode, item.ProductName, item.Quantity, item.UnitPrice, item.Total).Scan(&item.ID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &inv, nil
}

// UpdateInvoice rewrites the item rows wholesale; partial item edits are
// not a thing at this layer.
func (s *Store) UpdateInvoice(ctx context.Context, inv domain.Invoice) (*domain.Invoice, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE invoices
		SET number = $2, invoice_date = $3, buyer = $4, total = $5, status = $6, payment_method = $7
		WHERE id = $1
	`, inv.ID, inv.Number, inv.Date, inv.Buyer, inv.Total, inv.Status, inv.PaymentMethod)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, store.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, inv.ID); err != nil {
		return nil, err
	}
	for i := range inv.Items {
		item := &inv.Items[i]
		item.InvoiceID = inv.ID
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO invoice_items (invoice_id, product_code, product_name, quantity, unit_price, total)
			VALUES ($1,$2,$3,$4,$5,$6)
			RETURNING id
		`, item.InvoiceID, item.ProductCode, item.ProductName, item.Quantity, item.UnitPrice, item.Total).Scan(&item.ID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (s *Store) DeleteInvoice(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- sales aggregates ---

// Paid-vs-unpaid classification happens in Go so the status vocabulary
// stays defined in exactly one place.

func (s *Store) SalesTotals(ctx context.Context, from time.Time, to time.Time) ([]domain.ProductSales, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT i.status, it.product_code, it.product_name, it.quantity, it.total
		FROM invoice_items it
		JOIN invoices i ON i.id = it.invoice_id
		WHERE i.invoice_date >= $1 AND i.invoice_date <= $2
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byCode := map[string]*domain.ProductSales{}
	for rows.Next() {
		var (
			status string
			code   string
			name   string
			qty    int
			total  decimal.Decimal
		)
		if err := rows.Scan(&status, &code, &name, &qty, &total); err != nil {
			return nil, err
		}
		if !domain.ParseInvoiceStatus(status).IsPaid() {
			continue
		}
		entry, ok := byCode[code]
		if !ok {
			entry = &domain.ProductSales{ProductCode: code, ProductName: name, Revenue: decimal.Zero}
			byCode[code] = entry
		}
		entry.QuantitySold += qty
		entry.Revenue = entry.Revenue.Add(total)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]domain.ProductSales, 0, len(byCode))
	for _, entry := range byCode {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].QuantitySold != out[j].QuantitySold {
			return out[i].QuantitySold > out[j].QuantitySold
		}
		return out[i].ProductCode < out[j].ProductCode
	})
	return out, nil
}

func (s *Store) PaidRevenue(ctx context.Context, from *time.Time, to *time.Time) (decimal.Decimal, int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT total, status
		FROM invoices
		WHERE ($1::timestamptz IS NULL OR invoice_date >= $1)
		  AND ($2::timestamptz IS NULL OR invoice_date <= $2)
	`, timePtr(from), timePtr(to))
	if err != nil {
		return decimal.Zero, 0, err
	}
	defer rows.Close()

	revenue := decimal.Zero
	count := 0
	for rows.Next() {
		var (
			total  decimal.Decimal
			status string
		)
		if err := rows.Scan(&total, &status); err != nil {
			return decimal.Zero, 0, err
		}
		if domain.ParseInvoiceStatus(status).IsPaid() {
			revenue = revenue.Add(total)
			count++
		}
	}
	return revenue, count, rows.Err()
}

func (s *Store) UnpaidTotals(ctx context.Context) (decimal.Decimal, int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT total, status FROM invoices`)
	if err != nil {
		return decimal.Zero, 0, err
	}
	defer rows.Close()

	debt := decimal.Zero
	count := 0
	for rows.Next() {
		var (
			total  decimal.Decimal
			status string
		)
		if err := rows.Scan(&total, &status); err != nil {
			return decimal.Zero, 0, err
		}
		if !domain.ParseInvoiceStatus(status).IsPaid() {
			debt = debt.Add(total)
			count++
		}
	}
	return debt, count, rows.Err()
}

// --- accounts ---

const accountCols = `id, name, customer_code, birth_date, email, phone, address, active, debt`

func scanAccount(row interface{ Scan(...any) error }) (domain.Account, error) {
	var (
		acc   domain.Account
		birth sql.NullTime
	)
	err := row.Scan(&acc.ID, &acc.Name, &acc.CustomerCode, &birth, &acc.Email, &acc.Phone, &acc.Address, &acc.Active, &acc.Debt)
	if err != nil {
		return acc, err
	}
	if birth.Valid {
		t := birth.Time
		acc.BirthDate = &t
	}
	return acc, nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+accountCols+` FROM accounts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, acc)
	}
	return accounts, rows.Err()
}

func (s *Store) GetAccountByID(ctx context.Context, id int64) (*domain.Account, error) {
	acc, err := scanAccount(s.db.QueryRowContext(ctx, `SELECT `+accountCols+` FROM accounts WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

func (s *Store) GetAccountByName(ctx context.Context, name string) (*domain.Account, error) {
	acc, err := scanAccount(s.db.QueryRowContext(ctx, `
		SELECT `+accountCols+` FROM accounts WHERE name = $1 ORDER BY id LIMIT 1
	`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

func (s *Store) CreateAccount(ctx context.Context, acc domain.Account) (*domain.Account, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO accounts (name, customer_code, birth_date, email, phone, address, active, debt)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id
	`, acc.Name, acc.CustomerCode, timePtr(acc.BirthDate), acc.Email, acc.Phone, acc.Address, acc.Active, acc.Debt).Scan(&acc.ID)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

func (s *Store) UpdateAccount(ctx context.Context, acc domain.Account) (*domain.Account, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE accounts
		SET name = $2, customer_code = $3, birth_date = $4, email = $5, phone = $6, address = $7, active = $8, debt = $9
		WHERE id = $1
	`, acc.ID, acc.Name, acc.CustomerCode, timePtr(acc.BirthDate), acc.Email, acc.Phone, acc.Address, acc.Active, acc.Debt)
	if err != nil {
		return nil, err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, store.ErrNotFound
	}
	return &acc, nil
}

func (s *Store) DeleteAccount(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) SetAccountDebt(ctx context.Context, name string, debt decimal.Decimal) error {
	res, err := s.db.ExecContext(ctx, `UPDATE accounts SET debt = $2 WHERE name = $1`, name, debt)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- customer aggregates ---

func (s *Store) CustomerOrderAggregates(ctx context.Context) ([]domain.CustomerAggregate, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT customer_info, quantity, total FROM orders`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byName := map[string]*domain.CustomerAggregate{}
	for rows.Next() {
		var (
			info  string
			qty   int
			total decimal.Decimal
		)
		if err := rows.Scan(&info, &qty, &total); err != nil {
			return nil, err
		}
		name := buyerName(info)
		agg, ok := byName[name]
		if !ok {
			agg = &domain.CustomerAggregate{CustomerName: name, TotalAmount: decimal.Zero, TotalDebt: decimal.Zero}
			byName[name] = agg
		}
		agg.OrderCount++
		agg.TotalQuantity += qty
		agg.TotalAmount = agg.TotalAmount.Add(total)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]domain.CustomerAggregate, 0, len(byName))
	for _, agg := range byName {
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CustomerName < out[j].CustomerName })
	return out, nil
}

func (s *Store) PaidTotalsByBuyer(ctx context.Context) (map[string]decimal.Decimal, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT buyer, total, status FROM invoices`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := map[string]decimal.Decimal{}
	for rows.Next() {
		var (
			buyer  string
			total  decimal.Decimal
			status string
		)
		if err := rows.Scan(&buyer, &total, &status); err != nil {
			return nil, err
		}
		if !domain.ParseInvoiceStatus(status).IsPaid() {
			continue
		}
		name := buyerName(buyer)
		totals[name] = totals[name].Add(total)
	}
	return totals, rows.Err()
}

// --- areas ---

func (s *Store) ListAreas(ctx context.Context) ([]domain.Area, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, description FROM areas ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	areas := []domain.Area{}
	for rows.Next() {
		var a domain.Area
		if err := rows.Scan(&a.ID, &a.Name, &a.Description); err != nil {
			return nil, err
		}
		areas = append(areas, a)
	}
	return areas, rows.Err()
}

func (s *Store) GetAreaByID(ctx context.Context, id int64) (*domain.Area, error) {
	var a domain.Area
	err := s.db.QueryRowContext(ctx, `SELECT id, name, description FROM areas WHERE id = $1`, id).
		Scan(&a.ID, &a.Name, &a.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) CreateArea(ctx context.Context, area domain.Area) (*domain.Area, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO areas (name, description) VALUES ($1,$2) RETURNING id
	`, area.Name, area.Description).Scan(&area.ID)
	if err != nil {
		return nil, err
	}
	return &area, nil
}

func (s *Store) UpdateArea(ctx context.Context, area domain.Area) (*domain.Area, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE areas SET name = $2, description = $3 WHERE id = $1
	`, area.ID, area.Name, area.Description)
	if err != nil {
		return nil, err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, store.ErrNotFound
	}
	return &area, nil
}

func (s *Store) DeleteArea(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM areas WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- shops ---

func (s *Store) ListShops(ctx context.Context) ([]domain.Shop, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, area_id, address, phone, status FROM shops ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shops := []domain.Shop{}
	for rows.Next() {
		var sh domain.Shop
		if err := rows.Scan(&sh.ID, &sh.Name, &sh.AreaID, &sh.Address, &sh.Phone, &sh.Status); err != nil {
			return nil, err
		}
		shops = append(shops, sh)
	}
	return shops, rows.Err()
}

func (s *Store) GetShopByID(ctx context.Context, id int64) (*domain.Shop, error) {
	var sh domain.Shop
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, area_id, address, phone, status FROM shops WHERE id = $1
	`, id).Scan(&sh.ID, &sh.Name, &sh.AreaID, &sh.Address, &sh.Phone, &sh.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sh, nil
}

func (s *Store) CreateShop(ctx context.Context, shop domain.Shop) (*domain.Shop, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO shops (name, area_id, address, phone, status)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id
	`, shop.Name, shop.AreaID, shop.Address, shop.Phone, shop.Status).Scan(&shop.ID)
	if err != nil {
		return nil, err
	}
	return &shop, nil
}

func (s *Store) UpdateShop(ctx context.Context, shop domain.Shop) (*domain.Shop, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE shops SET name = $2, area_id = $3, address = $4, phone = $5, status = $6 WHERE id = $1
	`, shop.ID, shop.Name, shop.AreaID, shop.Address, shop.Phone, shop.Status)
	if err != nil {
		return nil, err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, store.ErrNotFound
	}
	return &shop, nil
}

func (s *Store) DeleteShop(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM shops WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- discounts ---

const discountCols = `id, code, name, discount_type, discount_value, min_order_value, max_uses, used_count, total_savings, start_date, end_date, status`

func scanDiscount(row interface{ Scan(...any) error }) (domain.DiscountCode, error) {
	var (
		dc  domain.DiscountCode
		end sql.NullTime
	)
	err := row.Scan(&dc.ID, &dc.Code, &dc.Name, &dc.DiscountType, &dc.DiscountValue, &dc.MinOrderValue,
		&dc.MaxUses, &dc.UsedCount, &dc.TotalSavings, &dc.StartDate, &end, &dc.Status)
	if err != nil {
		return dc, err
	}
	if end.Valid {
		t := end.Time
		dc.EndDate = &t
	}
	return dc, nil
}

func (s *Store) ListDiscountCodes(ctx context.Context) ([]domain.DiscountCode, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+discountCols+` FROM discount_codes ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	codes := []domain.DiscountCode{}
	for rows.Next() {
		dc, err := scanDiscount(rows)
		if err != nil {
			return nil, err
		}
		codes = append(codes, dc)
	}
	return codes, rows.Err()
}

func (s *Store) GetDiscountByCode(ctx context.Context, code string) (*domain.DiscountCode, error) {
	dc, err := scanDiscount(s.db.QueryRowContext(ctx, `
		SELECT `+discountCols+` FROM discount_codes WHERE upper(code) = upper($1)
	`, code))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &dc, nil
}

func (s *Store) CreateDiscountCode(ctx context.Context, dc domain.DiscountCode) (*domain.DiscountCode, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO discount_codes (code, name, discount_type, discount_value, min_order_value, max_uses, used_count, total_savings, start_date, end_date, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id
	`, dc.Code, dc.Name, dc.DiscountType, dc.DiscountValue, dc.MinOrderValue, dc.MaxUses, dc.UsedCount, dc.TotalSavings, dc.StartDate, timePtr(dc.EndDate), dc.Status).Scan(&dc.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}
	return &dc, nil
}

func (s *Store) UpdateDiscountCode(ctx context.Context, dc domain.DiscountCode) (*domain.DiscountCode, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE discount_codes
		SET code = $2, name = $3, discount_type = $4, discount_value = $5, min_order_value = $6,
		    max_uses = $7, start_date = $8, end_date = $9, status = $10
		WHERE id = $1
	`, dc.ID, dc.Code, dc.Name, dc.DiscountType, dc.DiscountValue, dc.MinOrderValue, dc.MaxUses, dc.StartDate, timePtr(dc.EndDate), dc.Status)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, store.ErrNotFound
	}
	return &dc, nil
}

func (s *Store) DeleteDiscountCode(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM discount_codes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// RegisterDiscountUse is a single guarded UPDATE so two cashiers cannot
// both take the last use of a capped code.
func (s *Store) RegisterDiscountUse(ctx context.Context, code string, saved decimal.Decimal) (*domain.DiscountCode, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE discount_codes
		SET used_count = used_count + 1, total_savings = total_savings + $2
		WHERE upper(code) = upper($1) AND (max_uses = 0 OR used_count < max_uses)
	`, code, saved)
	if err != nil {
		return nil, err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		if _, err := s.GetDiscountByCode(ctx, code); err != nil {
			return nil, err
		}
		return nil, store.ErrConflict
	}
	return s.GetDiscountByCode(ctx, code)
}

// --- schedules ---

func (s *Store) ListSchedules(ctx context.Context) ([]domain.Schedule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_name, work_date, shift, position, notes FROM schedules ORDER BY work_date, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schedules := []domain.Schedule{}
	for rows.Next() {
		var sc domain.Schedule
		if err := rows.Scan(&sc.ID, &sc.EmployeeName, &sc.WorkDate, &sc.Shift, &sc.Position, &sc.Notes); err != nil {
			return nil, err
		}
		schedules = append(schedules, sc)
	}
	return schedules, rows.Err()
}

func (s *Store) GetScheduleByID(ctx context.Context, id int64) (*domain.Schedule, error) {
	var sc domain.Schedule
	err := s.db.QueryRowContext(ctx, `
		SELECT id, employee_name, work_date, shift, position, notes FROM schedules WHERE id = $1
	`, id).Scan(&sc.ID, &sc.EmployeeName, &sc.WorkDate, &sc.Shift, &sc.Position, &sc.Notes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sc, nil
}

func (s *Store) CreateSchedule(ctx context.Context, sc domain.Schedule) (*domain.Schedule, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO schedules (employee_name, work_date, shift, position, notes)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id
	`, sc.EmployeeName, sc.WorkDate, sc.Shift, sc.Position, sc.Notes).Scan(&sc.ID)
	if err != nil {
		return nil, err
	}
	return &sc, nil
}

func (s *Store) UpdateSchedule(ctx context.Context, sc domain.Schedule) (*domain.Schedule, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE schedules SET employee_name = $2, work_date = $3, shift = $4, position = $5, notes = $6 WHERE id = $1
	`, sc.ID, sc.EmployeeName, sc.WorkDate, sc.Shift, sc.Position, sc.Notes)
	if err != nil {
		return nil, err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, store.ErrNotFound
	}
	return &sc, nil
}

func (s *Store) DeleteSchedule(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- users ---

func (s *Store) ListUsers(ctx context.Context) ([]domain.UserAccount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, username, password_hash, full_name, email, role, active FROM users ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []domain.UserAccount{}
	for rows.Next() {
		var u domain.UserAccount
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.FullName, &u.Email, &u.Role, &u.Active); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.UserAccount, error) {
	var u domain.UserAccount
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, full_name, email, role, active FROM users WHERE username = $1
	`, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.FullName, &u.Email, &u.Role, &u.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, user domain.UserAccount) (*domain.UserAccount, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, password_hash, full_name, email, role, active)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id
	`, user.Username, user.PasswordHash, user.FullName, user.Email, user.Role, user.Active).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}
	return &user, nil
}

func (s *Store) UpdateUser(ctx context.Context, user domain.UserAccount) (*domain.UserAccount, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET password_hash = $2, full_name = $3, email = $4, role = $5, active = $6 WHERE id = $1
	`, user.ID, user.PasswordHash, user.FullName, user.Email, user.Role, user.Active)
	if err != nil {
		return nil, err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, store.ErrNotFound
	}
	return &user, nil
}

func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- diary ---

func (s *Store) AppendDiaryEntry(ctx context.Context, entry domain.DiaryEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO diary_entries (id, entry_date, source_tag, description, quantity_in, quantity_out, amount)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, entry.ID, entry.EntryDate, entry.SourceTag, entry.Description, entry.QuantityIn, entry.QuantityOut, entry.Amount)
	return err
}

func (s *Store) ListDiaryEntries(ctx context.Context, from *time.Time, to *time.Time, limit int) ([]domain.DiaryEntry, error) {
	if limit < 0 {
		limit = 0
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, entry_date, source_tag, description, quantity_in, quantity_out, amount
		FROM diary_entries
		WHERE ($1::timestamptz IS NULL OR entry_date >= $1)
		  AND ($2::timestamptz IS NULL OR entry_date <= $2)
		ORDER BY entry_date DESC, id DESC
		LIMIT NULLIF($3, 0)
	`, timePtr(from), timePtr(to), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []domain.DiaryEntry{}
	for rows.Next() {
		var e domain.DiaryEntry
		if err := rows.Scan(&e.ID, &e.EntryDate, &e.SourceTag, &e.Description, &e.QuantityIn, &e.QuantityOut, &e.Amount); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// --- helpers ---

func buyerName(raw string) string {
	name := strings.TrimSpace(raw)
	if name == "" {
		return domain.WalkInCustomer
	}
	return name
}

func decimalPtr(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return *d
}

func timePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
