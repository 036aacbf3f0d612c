package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ProductStatusInStock    = "Còn hàng"
	ProductStatusOutOfStock = "Hết hàng"

	WalkInCustomer = "Khách vãng lai"
)

type Product struct {
	ID          int64           `json:"id"`
	Code        string          `json:"ma_sp"`
	Name        string          `json:"ten_sp"`
	Group       string          `json:"nhom_sp"`
	Quantity    int             `json:"so_luong"`
	SalePrice   decimal.Decimal `json:"gia_ban"`
	ListPrice   decimal.Decimal `json:"gia_chung"`
	CostPrice   decimal.Decimal `json:"gia_von"`
	Unit        string          `json:"don_vi"`
	Status      string          `json:"trang_thai"`
	Description string          `json:"mo_ta"`
}

// StockStatus derives the display status from the on-hand quantity.
func (p Product) StockStatus() string {
	if p.Quantity > 0 {
		return ProductStatusInStock
	}
	return ProductStatusOutOfStock
}

type ProductCreateRequest struct {
	Code        string          `json:"ma_sp" validate:"required,max=50"`
	Name        string          `json:"ten_sp" validate:"required,max=255"`
	Group       string          `json:"nhom_sp"`
	Quantity    int             `json:"so_luong" validate:"gte=0"`
	SalePrice   decimal.Decimal `json:"gia_ban"`
	ListPrice   decimal.Decimal `json:"gia_chung"`
	CostPrice   decimal.Decimal `json:"gia_von"`
	Unit        string          `json:"don_vi"`
	Description string          `json:"mo_ta"`
}

type ProductUpdateRequest struct {
	Name        *string          `json:"ten_sp,omitempty"`
	Group       *string          `json:"nhom_sp,omitempty"`
	Quantity    *int             `json:"so_luong,omitempty"`
	SalePrice   *decimal.Decimal `json:"gia_ban,omitempty"`
	ListPrice   *decimal.Decimal `json:"gia_chung,omitempty"`
	CostPrice   *decimal.Decimal `json:"gia_von,omitempty"`
	Unit        *string          `json:"don_vi,omitempty"`
	Description *string          `json:"mo_ta,omitempty"`
}

type PriceEntry struct {
	ID          int64            `json:"id"`
	ProductCode string           `json:"ma_sp"`
	ProductName string           `json:"ten_sp"`
	ListPrice   decimal.Decimal  `json:"gia_chung"`
	PromoPrice  *decimal.Decimal `json:"gia_km,omitempty"`
	StartDate   *time.Time       `json:"ngay_bat_dau,omitempty"`
	EndDate     *time.Time       `json:"ngay_ket_thuc,omitempty"`
}

type PriceWriteRequest struct {
	ProductCode string           `json:"ma_sp" validate:"required,max=50"`
	ListPrice   decimal.Decimal  `json:"gia_chung"`
	PromoPrice  *decimal.Decimal `json:"gia_km,omitempty"`
	StartDate   *time.Time       `json:"ngay_bat_dau,omitempty"`
	EndDate     *time.Time       `json:"ngay_ket_thuc,omitempty"`
}

type Warehouse struct {
	ID            int64           `json:"id"`
	Code          string          `json:"ma_kho"`
	Name          string          `json:"ten_kho"`
	ProductCode   string          `json:"ma_sp"`
	PurchasePrice decimal.Decimal `json:"gia_nhap"`
	Quantity      int             `json:"so_luong"`
	Address       string          `json:"dia_chi"`
	Phone         string          `json:"sdt"`
	Notes         string          `json:"ghi_chu"`
	Status        string          `json:"trang_thai"`
}

type WarehouseWriteRequest struct {
	Code          string          `json:"ma_kho" validate:"required,max=50"`
	Name          string          `json:"ten_kho" validate:"required,max=255"`
	ProductCode   string          `json:"ma_sp" validate:"required,max=50"`
	PurchasePrice decimal.Decimal `json:"gia_nhap"`
	Quantity      int             `json:"so_luong" validate:"gte=0"`
	Address       string          `json:"dia_chi"`
	Phone         string          `json:"sdt"`
	Notes         string          `json:"ghi_chu"`
	Status        string          `json:"trang_thai"`
}

type Order struct {
	ID           int64           `json:"id"`
	Code         string          `json:"ma_don_hang"`
	CustomerInfo string          `json:"thong_tin_kh"`
	LineRef      string          `json:"sp_banggia"`
	CreatedDate  time.Time       `json:"ngay_tao"`
	Quantity     int             `json:"so_luong"`
	Total        decimal.Decimal `json:"tong_tien"`
	TaxCode      string          `json:"ma_co_quan_thue"`
	Status       string          `json:"trang_thai"`
}

type OrderCreateRequest struct {
	Code         string          `json:"ma_don_hang" validate:"required,max=50"`
	CustomerInfo string          `json:"thong_tin_kh"`
	LineRef      string          `json:"sp_banggia" validate:"required,max=100"`
	Quantity     int             `json:"so_luong" validate:"gt=0"`
	Total        decimal.Decimal `json:"tong_tien"`
	TaxCode      string          `json:"ma_co_quan_thue"`
	Status       string          `json:"trang_thai"`
}

type OrderUpdateRequest struct {
	CustomerInfo *string          `json:"thong_tin_kh,omitempty"`
	LineRef      *string          `json:"sp_banggia,omitempty"`
	Quantity     *int             `json:"so_luong,omitempty"`
	Total        *decimal.Decimal `json:"tong_tien,omitempty"`
	TaxCode      *string          `json:"ma_co_quan_thue,omitempty"`
	Status       *string          `json:"trang_thai,omitempty"`
}

type Invoice struct {
	ID            int64           `json:"id"`
	Number        string          `json:"so_hd"`
	Date          time.Time       `json:"ngay_hd"`
	Buyer         string          `json:"nguoi_mua"`
	Total         decimal.Decimal `json:"tong_tien"`
	Status        string          `json:"trang_thai"`
	PaymentMethod string          `json:"hinh_thuc_tt"`
	Items         []InvoiceItem   `json:"items"`
}

type InvoiceItem struct {
	ID          int64           `json:"id"`
	InvoiceID   int64           `json:"invoice_id"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"so_luong"`
	UnitPrice   decimal.Decimal `json:"don_gia"`
	Total       decimal.Decimal `json:"total_price"`
}

type InvoiceItemInput struct {
	ProductCode string          `json:"product_code" validate:"required,max=50"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"so_luong" validate:"gt=0"`
	UnitPrice   decimal.Decimal `json:"don_gia"`
}

type InvoiceCreateRequest struct {
	Number        string             `json:"so_hd" validate:"required,max=50"`
	Date          time.Time          `json:"ngay_hd"`
	Buyer         string             `json:"nguoi_mua"`
	Total         decimal.Decimal    `json:"tong_tien"`
	Status        string             `json:"trang_thai"`
	PaymentMethod string             `json:"hinh_thuc_tt"`
	Items         []InvoiceItemInput `json:"items"`
}

type InvoiceUpdateRequest struct {
	Number        *string             `json:"so_hd,omitempty"`
	Date          *time.Time          `json:"ngay_hd,omitempty"`
	Buyer         *string             `json:"nguoi_mua,omitempty"`
	Total         *decimal.Decimal    `json:"tong_tien,omitempty"`
	Status        *string             `json:"trang_thai,omitempty"`
	PaymentMethod *string             `json:"hinh_thuc_tt,omitempty"`
	Items         *[]InvoiceItemInput `json:"items,omitempty"`
}

type Account struct {
	ID           int64           `json:"id"`
	Name         string          `json:"ten_kh"`
	CustomerCode string          `json:"ma_kh"`
	BirthDate    *time.Time      `json:"ngay_sinh,omitempty"`
	Email        string          `json:"email"`
	Phone        string          `json:"sdt"`
	Address      string          `json:"dia_chi"`
	Active       bool            `json:"active"`
	Debt         decimal.Decimal `json:"cong_no"`
}

type AccountWriteRequest struct {
	Name         string     `json:"ten_kh" validate:"required,max=255"`
	CustomerCode string     `json:"ma_kh"`
	BirthDate    *time.Time `json:"ngay_sinh,omitempty"`
	Email        string     `json:"email" validate:"omitempty,email"`
	Phone        string     `json:"sdt"`
	Address      string     `json:"dia_chi"`
	Active       *bool      `json:"active,omitempty"`
}

type Area struct {
	ID          int64  `json:"id"`
	Name        string `json:"ten_khu_vuc"`
	Description string `json:"mo_ta"`
}

type Shop struct {
	ID      int64  `json:"id"`
	Name    string `json:"ten_shop"`
	AreaID  int64  `json:"area_id"`
	Address string `json:"dia_chi"`
	Phone   string `json:"sdt"`
	Status  string `json:"trang_thai"`
}

type ShopWriteRequest struct {
	Name    string `json:"ten_shop" validate:"required,max=255"`
	AreaID  int64  `json:"area_id" validate:"required"`
	Address string `json:"dia_chi"`
	Phone   string `json:"sdt"`
	Status  string `json:"trang_thai"`
}

const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"

	DiscountStatusActive   = "active"
	DiscountStatusInactive = "inactive"
)

type DiscountCode struct {
	ID            int64           `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	DiscountType  string          `json:"discount_type"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	MinOrderValue decimal.Decimal `json:"min_order_value"`
	MaxUses       int             `json:"max_uses"`
	UsedCount     int             `json:"used_count"`
	TotalSavings  decimal.Decimal `json:"total_savings"`
	StartDate     time.Time       `json:"start_date"`
	EndDate       *time.Time      `json:"end_date,omitempty"`
	Status        string          `json:"status"`
}

type DiscountWriteRequest struct {
	Code          string          `json:"code" validate:"required,max=50"`
	Name          string          `json:"name"`
	DiscountType  string          `json:"discount_type" validate:"required,oneof=percentage fixed"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	MinOrderValue decimal.Decimal `json:"min_order_value"`
	MaxUses       int             `json:"max_uses" validate:"gte=0"`
	StartDate     time.Time       `json:"start_date"`
	EndDate       *time.Time      `json:"end_date,omitempty"`
	Status        string          `json:"status"`
}

type DiscountCheckRequest struct {
	Code       string          `json:"code" validate:"required"`
	OrderValue decimal.Decimal `json:"order_value"`
}

type DiscountCheckResult struct {
	Usable  bool            `json:"usable"`
	Reason  string          `json:"reason,omitempty"`
	Amount  decimal.Decimal `json:"amount"`
	Payable decimal.Decimal `json:"payable"`
}

type Schedule struct {
	ID           int64     `json:"id"`
	EmployeeName string    `json:"ten_nhan_vien"`
	WorkDate     time.Time `json:"ngay_lam"`
	Shift        string    `json:"ca_lam"`
	Position     string    `json:"vi_tri"`
	Notes        string    `json:"ghi_chu"`
}

type ScheduleWriteRequest struct {
	EmployeeName string    `json:"ten_nhan_vien" validate:"required,max=255"`
	WorkDate     time.Time `json:"ngay_lam"`
	Shift        string    `json:"ca_lam" validate:"required,max=50"`
	Position     string    `json:"vi_tri"`
	Notes        string    `json:"ghi_chu"`
}

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Active   bool   `json:"active"`
}

// UserAccount is the persistence shape carrying the credential hash. It
// never crosses the HTTP boundary.
type UserAccount struct {
	User
	PasswordHash string
}

type UserCreateRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name"`
	Email    string `json:"email" validate:"omitempty,email"`
	Role     string `json:"role" validate:"required,oneof=admin staff"`
}

type UserUpdateRequest struct {
	Password *string `json:"password,omitempty"`
	FullName *string `json:"full_name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Role     *string `json:"role,omitempty"`
	Active   *bool   `json:"active,omitempty"`
}

type Actor struct {
	Username string
	Role     string
}

type DiaryEntry struct {
	ID          string          `json:"id"`
	EntryDate   time.Time       `json:"ngay_nhap"`
	SourceTag   string          `json:"so_hieu"`
	Description string          `json:"dien_giai"`
	QuantityIn  int             `json:"so_luong_nhap"`
	QuantityOut int             `json:"so_luong_xuat"`
	Amount      decimal.Decimal `json:"so_tien"`
}

type StockMovement struct {
	ID          string    `json:"id"`
	ProductCode string    `json:"ma_sp"`
	Delta       int       `json:"delta"`
	Reason      string    `json:"reason"`
	Reference   string    `json:"reference"`
	CreatedAt   time.Time `json:"created_at"`
}

type CustomerAggregate struct {
	CustomerName  string          `json:"customerName"`
	OrderCount    int             `json:"orderCount"`
	TotalQuantity int             `json:"totalQuantity"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	TotalDebt     decimal.Decimal `json:"totalDebt"`
}

type LeaderboardEntry struct {
	CustomerName  string          `json:"customerName"`
	OrderCount    int             `json:"orderCount"`
	TotalQuantity int             `json:"totalQuantity"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	TierName      string          `json:"tierName"`
	TierColor     string          `json:"tierColor"`
	TierLevel     int             `json:"tierLevel"`
	TierMinAmount decimal.Decimal `json:"tierMinAmount"`
}

type ProductSales struct {
	ProductCode  string          `json:"product_code"`
	ProductName  string          `json:"product_name"`
	QuantitySold int             `json:"total_sold"`
	Revenue      decimal.Decimal `json:"total_revenue"`
}

type RevenueSummary struct {
	TotalRevenue       decimal.Decimal `json:"total_revenue"`
	PaidInvoiceCount   int             `json:"paid_invoice_count"`
	TotalDebt          decimal.Decimal `json:"total_debt"`
	UnpaidInvoiceCount int             `json:"unpaid_invoice_count"`
}

type ReorderSuggestion struct {
	ProductCode     string  `json:"product_code"`
	ProductName     string  `json:"product_name"`
	CurrentStock    int     `json:"current_stock"`
	SalesRatePerDay float64 `json:"sales_rate_per_day"`
	DaysUntilOut    *int    `json:"days_until_out"`
	RecommendedQty  int     `json:"recommended_qty"`
	Priority        string  `json:"priority"`
	IsBestSeller    bool    `json:"is_best_seller"`
}

type ChatRequest struct {
	Message string `json:"message" validate:"required,max=500"`
}

type ChatResponse struct {
	Response    string              `json:"response"`
	Suggestions []ReorderSuggestion `json:"suggestions"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string    `json:"access_token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}
