package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/shopspring/decimal"

	"github.com/surp29/Backend-PoS/internal/domain"
	"github.com/surp29/Backend-PoS/internal/store"
)

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(8)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id BIGSERIAL PRIMARY KEY,
			code TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			product_group TEXT NOT NULL DEFAULT '',
			quantity INT NOT NULL DEFAULT 0,
			sale_price NUMERIC(18,2) NOT NULL DEFAULT 0,
			list_price NUMERIC(18,2) NOT NULL DEFAULT 0,
			cost_price NUMERIC(18,2) NOT NULL DEFAULT 0,
			unit TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS stock_movements (
			id TEXT PRIMARY KEY,
			product_code TEXT NOT NULL,
			delta INT NOT NULL,
			reason TEXT NOT NULL DEFAULT '',
			reference TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_stock_movements_product ON stock_movements (product_code, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS price_entries (
			id BIGSERIAL PRIMARY KEY,
			product_code TEXT NOT NULL,
			product_name TEXT NOT NULL DEFAULT '',
			list_price NUMERIC(18,2) NOT NULL DEFAULT 0,
			promo_price NUMERIC(18,2),
			start_date TIMESTAMPTZ,
			end_date TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS warehouses (
			id BIGSERIAL PRIMARY KEY,
			code TEXT NOT NULL,
			name TEXT NOT NULL,
			product_code TEXT NOT NULL,
			purchase_price NUMERIC(18,2) NOT NULL DEFAULT 0,
			quantity INT NOT NULL DEFAULT 0,
			address TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'active'
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id BIGSERIAL PRIMARY KEY,
			code TEXT NOT NULL UNIQUE,
			customer_info TEXT NOT NULL DEFAULT '',
			line_ref TEXT NOT NULL,
			created_date TIMESTAMPTZ NOT NULL DEFAULT now(),
			quantity INT NOT NULL DEFAULT 0,
			total NUMERIC(18,2) NOT NULL DEFAULT 0,
			tax_code TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS invoices (
			id BIGSERIAL PRIMARY KEY,
			number TEXT NOT NULL UNIQUE,
			invoice_date TIMESTAMPTZ NOT NULL DEFAULT now(),
			buyer TEXT NOT NULL DEFAULT '',
			total NUMERIC(18,2) NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT '',
			payment_method TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS invoice_items (
			id BIGSERIAL PRIMARY KEY,
			invoice_id BIGINT NOT NULL REFERENCES invoices(id) ON DELETE CASCADE,
			product_code TEXT NOT NULL,
			product_name TEXT NOT NULL DEFAULT '',
			quantity INT NOT NULL DEFAULT 0,
			unit_price NUMERIC(18,2) NOT NULL DEFAULT 0,
			total NUMERIC(18,2) NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS accounts (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			customer_code TEXT NOT NULL DEFAULT '',
			birth_date TIMESTAMPTZ,
			email TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			active BOOLEAN NOT NULL DEFAULT TRUE,
			debt NUMERIC(18,2) NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS areas (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS shops (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			area_id BIGINT NOT NULL REFERENCES areas(id),
			address TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'active'
		)`,
		`CREATE TABLE IF NOT EXISTS discount_codes (
			id BIGSERIAL PRIMARY KEY,
			code TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL DEFAULT '',
			discount_type TEXT NOT NULL,
			discount_value NUMERIC(18,2) NOT NULL DEFAULT 0,
			min_order_value NUMERIC(18,2) NOT NULL DEFAULT 0,
			max_uses INT NOT NULL DEFAULT 0,
			used_count INT NOT NULL DEFAULT 0,
			total_savings NUMERIC(18,2) NOT NULL DEFAULT 0,
			start_date TIMESTAMPTZ NOT NULL DEFAULT now(),
			end_date TIMESTAMPTZ,
			status TEXT NOT NULL DEFAULT 'active'
		)`,
		`CREATE TABLE IF NOT EXISTS schedules (
			id BIGSERIAL PRIMARY KEY,
			employee_name TEXT NOT NULL,
			work_date TIMESTAMPTZ NOT NULL DEFAULT now(),
			shift TEXT NOT NULL DEFAULT '',
			position TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			full_name TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT 'staff',
			active BOOLEAN NOT NULL DEFAULT TRUE
		)`,
		`CREATE TABLE IF NOT EXISTS diary_entries (
			id TEXT PRIMARY KEY,
			entry_date TIMESTAMPTZ NOT NULL,
			source_tag TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			quantity_in INT NOT NULL DEFAULT 0,
			quantity_out INT NOT NULL DEFAULT 0,
			amount NUMERIC(18,2) NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_diary_entries_date ON diary_entries (entry_date DESC)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// --- products ---

const productCols = `id, code, name, product_group, quantity, sale_price, list_price, cost_price, unit, status, description`

func scanProduct(row interface{ Scan(...any) error }) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Code, &p.Name, &p.Group, &p.Quantity, &p.SalePrice, &p.ListPrice, &p.CostPrice, &p.Unit, &p.Status, &p.Description)
	return p, err
}

func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+productCols+`
		FROM products
		ORDER BY code
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *Store) GetProductByCode(ctx context.Context, code string) (*domain.Product, error) {
	p, err := scanProduct(s.db.QueryRowContext(ctx, `
		SELECT `+productCols+`
		FROM products
		WHERE code = $1
	`, code))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	product.Status = product.StockStatus()
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO products (code, name, product_group, quantity, sale_price, list_price, cost_price, unit, status, description)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id
	`, product.Code, product.Name, product.Group, product.Quantity, product.SalePrice, product.ListPrice, product.CostPrice, product.Unit, product.Status, product.Description).Scan(&product.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}
	return &product, nil
}

func (s *Store) UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	product.Status = product.StockStatus()
	res, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET name = $2, product_group = $3, quantity = $4, sale_price = $5, list_price = $6,
		    cost_price = $7, unit = $8, status = $9, description = $10
		WHERE code = $1
	`, product.Code, product.Name, product.Group, product.Quantity, product.SalePrice, product.ListPrice, product.CostPrice, product.Unit, product.Status, product.Description)
	if err != nil {
		return nil, err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, store.ErrNotFound
	}
	return s.GetProductByCode(ctx, product.Code)
}

func (s *Store) DeleteProduct(ctx context.Context, code string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE code = $1`, code)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListProductGroups(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT product_group
		FROM products
		WHERE product_group <> ''
		ORDER BY product_group
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := []string{}
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// --- stock ledger ---

// ApplyStockDelta locks the product row, so concurrent order traffic on
// the same product serializes here instead of racing the quantity.
func (s *Store) ApplyStockDelta(ctx context.Context, productCode string, delta int, reason string, reference string) (*domain.Product, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var qty int
	err = tx.QueryRowContext(ctx, `
		SELECT quantity FROM products WHERE code = $1 FOR UPDATE
	`, productCode).Scan(&qty)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if delta < 0 && qty+delta < 0 {
		return nil, store.ErrInsufficientStock
	}
	newQty := qty + delta
	if newQty < 0 {
		newQty = 0
	}
	status := domain.ProductStatusOutOfStock
	if newQty > 0 {
		status = domain.ProductStatusInStock
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE products SET quantity = $2, status = $3 WHERE code = $1
	`, productCode, newQty, status); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO stock_movements (id, product_code, delta, reason, reference, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, uuid.NewString(), productCode, delta, reason, reference, time.Now().UTC()); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.GetProductByCode(ctx, productCode)
}

func (s *Store) ListStockMovements(ctx context.Context, productCode string, limit int) ([]domain.StockMovement, error) {
	if limit < 0 {
		limit = 0
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, product_code, delta, reason, reference, created_at
		FROM stock_movements
		WHERE ($1 = '' OR product_code = $1)
		ORDER BY created_at DESC
		LIMIT NULLIF($2, 0)
	`, productCode, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movements := []domain.StockMovement{}
	for rows.Next() {
		var m domain.StockMovement
		if err := rows.Scan(&m.ID, &m.ProductCode, &m.Delta, &m.Reason, &m.Reference, &m.CreatedAt); err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}

// --- prices ---

func scanPrice(row interface{ Scan(...any) error }) (domain.PriceEntry, error) {
	var (
		p     domain.PriceEntry
		promo decimal.NullDecimal
		start sql.NullTime
		end   sql.NullTime
	)
	err := row.Scan(&p.ID, &p.ProductCode, &p.ProductName, &p.ListPrice, &promo, &start, &end)
	if err != nil {
		return p, err
	}
	if promo.Valid {
		d := promo.Decimal
		p.PromoPrice = &d
	}
	if start.Valid {
		t := start.Time
		p.StartDate = &t
	}
	if end.Valid {
		t := end.Time
		p.EndDate = &t
	}
	return p, nil
}

func (s *Store) ListPrices(ctx context.Context) ([]domain.PriceEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, product_code, product_name, list_price, promo_price, start_date, end_date
		FROM price_entries
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prices := []domain.PriceEntry{}
	for rows.Next() {
		p, err := scanPrice(rows)
		if err != nil {
			return nil, err
		}
		prices = append(prices, p)
	}
	return prices, rows.Err()
}

func (s *Store) GetPriceByID(ctx context.Context, id int64) (*domain.PriceEntry, error) {
	p, err := scanPrice(s.db.QueryRowContext(ctx, `
		SELECT id, product_code, product_name, list_price, promo_price, start_date, end_date
		FROM price_entries
		WHERE id = $1
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) CreatePrice(ctx context.Context, entry domain.PriceEntry) (*domain.PriceEntry, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO price_entries (product_code, product_name, list_price, promo_price, start_date, end_date)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id
	`, entry.ProductCode, entry.ProductName, entry.ListPrice, decimalPtr(entry.PromoPrice), timePtr(entry.StartDate), timePtr(entry.EndDate)).Scan(&entry.ID)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *Store) UpdatePrice(ctx context.Context, entry domain.PriceEntry) (*domain.PriceEntry, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE price_entries
		SET product_code = $2, product_name = $3, list_price = $4, promo_price = $5, start_date = $6, end_date = $7
		WHERE id = $1
	`, entry.ID, entry.ProductCode, entry.ProductName, entry.ListPrice, decimalPtr(entry.PromoPrice), timePtr(entry.StartDate), timePtr(entry.EndDate))
	if err != nil {
		return nil, err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, store.ErrNotFound
	}
	return &entry, nil
}

func (s *Store) DeletePrice(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM price_entries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- warehouses ---

func (s *Store) ListWarehouses(ctx context.Context) ([]domain.Warehouse, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, code, name, product_code, purchase_price, quantity, address, phone, notes, status
		FROM warehouses
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	warehouses := []domain.Warehouse{}
	for rows.Next() {
		var w domain.Warehouse
		if err := rows.Scan(&w.ID, &w.Code, &w.Name, &w.ProductCode, &w.PurchasePrice, &w.Quantity, &w.Address, &w.Phone, &w.Notes, &w.Status); err != nil {
			return nil, err
		}
		warehouses = append(warehouses, w)
	}
	return warehouses, rows.Err()
}

func (s *Store) GetWarehouseByID(ctx context.Context, id int64) (*domain.Warehouse, error) {
	var w domain.Warehouse
	err := s.db.QueryRowContext(ctx, `
		SELECT id, code, name, product_code, purchase_price, quantity, address, phone, notes, status
		FROM warehouses
		WHERE id = $1
	`, id).Scan(&w.ID, &w.Code, &w.Name, &w.ProductCode, &w.PurchasePrice, &w.Quantity, &w.Address, &w.Phone, &w.Notes, &w.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *Store) CreateWarehouse(ctx context.Context, wh domain.Warehouse) (*domain.Warehouse, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO warehouses (code, name, product_code, purchase_price, quantity, address, phone, notes, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id
	`, wh.Code, wh.Name, wh.ProductCode, wh.PurchasePrice, wh.Quantity, wh.Address, wh.Phone, wh.Notes, wh.Status).Scan(&wh.ID)
	if err != nil {
		return nil, err
	}
	return &wh, nil
}

func (s *Store) UpdateWarehouse(ctx context.Context, wh domain.Warehouse) (*domain.Warehouse, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE warehouses
		SET code = $2, name = $3, product_code = $4, purchase_price = $5, quantity = $6,
		    address = $7, phone = $8, notes = $9, status = $10
		WHERE id = $1
	`, wh.ID, wh.Code, wh.Name, wh.ProductCode, wh.PurchasePrice, wh.Quantity, wh.Address, wh.Phone, wh.Notes, wh.Status)
	if err != nil {
		return nil, err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, store.ErrNotFound
	}
	return &wh, nil
}

func (s *Store) DeleteWarehouse(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM warehouses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- orders ---

const orderCols = `id, code, customer_info, line_ref, created_date, quantity, total, tax_code, status`

func scanOrder(row interface{ Scan(...any) error }) (domain.Order, error) {
	var o domain.Order
	err := row.Scan(&o.ID, &o.Code, &o.CustomerInfo, &o.LineRef, &o.CreatedDate, &o.Quantity, &o.Total, &o.TaxCode, &o.Status)
	return o, err
}

func (s *Store) ListOrders(ctx context.Context) ([]domain.Order, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+orderCols+`
		FROM orders
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (s *Store) GetOrderByID(ctx context.Context, id int64) (*domain.Order, error) {
	o, err := scanOrder(s.db.QueryRowContext(ctx, `
		SELECT `+orderCols+` FROM orders WHERE id = $1
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Store) GetOrderByCode(ctx context.Context, code string) (*domain.Order, error) {
	o, err := scanOrder(s.db.QueryRowContext(ctx, `
		SELECT `+orderCols+` FROM orders WHERE code = $1
	`, code))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Store) SearchOrders(ctx context.Context, query string) ([]domain.Order, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+orderCols+`
		FROM orders
		WHERE $1 = '' OR code ILIKE '%' || $1 || '%' OR customer_info ILIKE '%' || $1 || '%' OR line_ref ILIKE '%' || $1 || '%'
		ORDER BY id
	`, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// CountActiveOrdersForProduct pulls statuses and classifies in Go so the
// cancelled-spelling set lives in one place.
func (s *Store) CountActiveOrdersForProduct(ctx context.Context, productCode string) (int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT status FROM orders WHERE line_ref = $1
	`, productCode)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var status string
		if err := rows.Scan(&status); err != nil {
			return 0, err
		}
		if !domain.ParseOrderStatus(status).IsCancelled() {
			count++
		}
	}
	return count, rows.Err()
}

func (s *Store) CreateOrder(ctx context.Context, order domain.Order) (*domain.Order, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO orders (code, customer_info, line_ref, created_date, quantity, total, tax_code, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id
	`, order.Code, order.CustomerInfo, order.LineRef, order.CreatedDate, order.Quantity, order.Total, order.TaxCode, order.Status).Scan(&order.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}
	return &order, nil
}

func (s *Store) UpdateOrder(ctx context.Context, order domain.Order) (*domain.Order, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE orders
		SET customer_info = $2, line_ref = $3, quantity = $4, total = $5, tax_code = $6, status = $7
		WHERE id = $1
	`, order.ID, order.CustomerInfo, order.LineRef, order.Quantity, order.Total, order.TaxCode, order.Status)
	if err != nil {
		return nil, err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, store.ErrNotFound
	}
	return &order, nil
}

func (s *Store) DeleteOrder(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
