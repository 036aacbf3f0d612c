package chatbot

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/surp29/Backend-PoS/internal/cache"
	"github.com/surp29/Backend-PoS/internal/domain"
)

const (
	lowStockThreshold   = 20
	bestSellerWatermark = 50
	suggestionLimit     = 5
)

// Store is the read-only slice of the repository the engine needs.
type Store interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListWarehouses(ctx context.Context) ([]domain.Warehouse, error)
	SalesTotals(ctx context.Context, from time.Time, to time.Time) ([]domain.ProductSales, error)
	PaidRevenue(ctx context.Context, from *time.Time, to *time.Time) (decimal.Decimal, int, error)
	UnpaidTotals(ctx context.Context) (decimal.Decimal, int, error)
}

type Engine struct {
	store    Store
	cache    cache.ChatCache
	cacheTTL time.Duration
}

func NewEngine(store Store, cacheStore cache.ChatCache, cacheTTL time.Duration) *Engine {
	if cacheStore == nil {
		cacheStore = cache.NoopChatCache{}
	}
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	return &Engine{
		store:    store,
		cache:    cacheStore,
		cacheTTL: cacheTTL,
	}
}

// Analyze dispatches the message to a rule by keyword and answers from
// live inventory and sales data. Answers are cached briefly since the
// underlying aggregates are expensive on large datasets.
func (e *Engine) Analyze(ctx context.Context, message string) (domain.ChatResponse, error) {
	msg := strings.ToLower(strings.TrimSpace(message))

	cacheKey := buildCacheKey(msg)
	if cached, ok, err := e.cache.Get(ctx, cacheKey); err == nil && ok {
		return *cached, nil
	}

	var (
		resp domain.ChatResponse
		err  error
	)

	switch {
	case containsAny(msg, "đặt hàng", "dat hang", "đề xuất", "de xuat", "reorder", "restock"):
		resp, err = e.reorderAdvice(ctx)
	case containsAny(msg, "tồn kho", "inventory", "stock", "sắp hết", "hết hàng"):
		resp, err = e.lowStockReport(ctx)
	case containsAny(msg, "bán chạy", "best selling", "top", "nhiều nhất"):
		resp, err = e.bestSellerReport(ctx)
	case containsAny(msg, "phân tích", "analysis", "thống kê", "statistics"):
		resp, err = e.overviewReport(ctx)
	case containsAny(msg, "doanh thu", "revenue", "báo cáo", "report"):
		resp, err = e.revenueReport(ctx)
	default:
		resp = helpResponse()
	}
	if err != nil {
		return domain.ChatResponse{}, err
	}

	if resp.Suggestions == nil {
		resp.Suggestions = []domain.ReorderSuggestion{}
	}
	_ = e.cache.Set(ctx, cacheKey, &resp, e.cacheTTL)
	return resp, nil
}

// Suggestions exposes the raw reorder list without the chat wrapping.
func (e *Engine) Suggestions(ctx context.Context) ([]domain.ReorderSuggestion, error) {
	resp, err := e.reorderAdvice(ctx)
	if err != nil {
		return nil, err
	}
	return resp.Suggestions, nil
}

func (e *Engine) reorderAdvice(ctx context.Context) (domain.ChatResponse, error) {
	snap, err := e.snapshot(ctx)
	if err != nil {
		return domain.ChatResponse{}, err
	}

	suggestions := make([]domain.ReorderSuggestion, 0)
	for _, p := range snap.products {
		s := snap.suggestionFor(p)
		include := (s.DaysUntilOut != nil && *s.DaysUntilOut <= 30) ||
			(s.IsBestSeller && s.CurrentStock <= bestSellerWatermark) ||
			s.CurrentStock <= 0
		if include {
			suggestions = append(suggestions, s)
		}
	}

	sortSuggestions(suggestions)
	if len(suggestions) > suggestionLimit {
		suggestions = suggestions[:suggestionLimit]
	}

	var text string
	if len(suggestions) > 0 {
		bestSellerCount := 0
		for _, s := range suggestions {
			if s.IsBestSeller {
				bestSellerCount++
			}
		}
		text = fmt.Sprintf("Tôi đã phân tích tồn kho và tìm thấy %d sản phẩm cần đặt hàng:\n\n", len(suggestions))
		if bestSellerCount > 0 {
			text += fmt.Sprintf("🔥 Trong đó có %d sản phẩm đang bán chạy và cần đặt hàng ngay!\n\n", bestSellerCount)
		}
		text += "Dựa trên tốc độ bán hàng và số lượng tồn kho hiện tại, bạn nên xem xét đặt hàng các sản phẩm sau:"
	} else {
		text = "Hiện tại không có sản phẩm nào cần đặt hàng khẩn cấp. Tất cả sản phẩm đều có đủ tồn kho."
	}

	return domain.ChatResponse{Response: text, Suggestions: suggestions}, nil
}

func (e *Engine) lowStockReport(ctx context.Context) (domain.ChatResponse, error) {
	snap, err := e.snapshot(ctx)
	if err != nil {
		return domain.ChatResponse{}, err
	}

	low := make([]domain.ReorderSuggestion, 0)
	for _, p := range snap.products {
		if snap.stockOf(p) <= lowStockThreshold {
			low = append(low, snap.suggestionFor(p))
		}
	}
	sortSuggestions(low)
	if len(low) > suggestionLimit {
		low = low[:suggestionLimit]
	}

	var text string
	if len(low) > 0 {
		text = fmt.Sprintf("Tôi đã kiểm tra và tìm thấy %d sản phẩm có tồn kho thấp:\n\n", len(low))
		text += "Các sản phẩm này cần được theo dõi và đặt hàng sớm:"
	} else {
		text = "Tất cả sản phẩm đều có đủ tồn kho. Không có sản phẩm nào sắp hết hàng."
	}

	return domain.ChatResponse{Response: text, Suggestions: low}, nil
}

func (e *Engine) bestSellerReport(ctx context.Context) (domain.ChatResponse, error) {
	snap, err := e.snapshot(ctx)
	if err != nil {
		return domain.ChatResponse{}, err
	}

	sellers := snap.sales30
	if len(sellers) > 10 {
		sellers = sellers[:10]
	}

	if len(sellers) == 0 {
		return domain.ChatResponse{Response: "Chưa có dữ liệu bán hàng trong 30 ngày qua."}, nil
	}

	text := fmt.Sprintf("🔥 Top %d sản phẩm bán chạy trong 30 ngày qua:\n\n", len(sellers))
	suggestions := make([]domain.ReorderSuggestion, 0)
	for i, s := range sellers {
		product, ok := snap.byCode[s.ProductCode]
		stock := 0
		if ok {
			stock = snap.stockOf(product)
		}
		text += fmt.Sprintf("%d. %s (%s)\n", i+1, s.ProductName, s.ProductCode)
		text += fmt.Sprintf("   • Đã bán: %d sản phẩm\n", s.QuantitySold)
		text += fmt.Sprintf("   • Doanh thu: %s VNĐ\n", formatVND(s.Revenue))
		text += fmt.Sprintf("   • Tồn kho hiện tại: %d\n\n", stock)

		if ok && stock <= bestSellerWatermark {
			suggestions = append(suggestions, snap.suggestionFor(product))
		}
	}
	if len(suggestions) > 0 {
		text += "\n⚠️ Một số sản phẩm bán chạy đang có tồn kho thấp và cần đặt hàng ngay!"
	}
	if len(suggestions) > suggestionLimit {
		suggestions = suggestions[:suggestionLimit]
	}

	return domain.ChatResponse{Response: text, Suggestions: suggestions}, nil
}

func (e *Engine) overviewReport(ctx context.Context) (domain.ChatResponse, error) {
	snap, err := e.snapshot(ctx)
	if err != nil {
		return domain.ChatResponse{}, err
	}

	lowCount := 0
	for _, p := range snap.products {
		if snap.stockOf(p) <= lowStockThreshold {
			lowCount++
		}
	}

	totalRevenue, _, err := e.store.PaidRevenue(ctx, nil, nil)
	if err != nil {
		return domain.ChatResponse{}, err
	}

	text := "📊 Báo cáo tổng quan:\n\n"
	text += fmt.Sprintf("• Tổng số sản phẩm: %d\n", len(snap.products))
	text += fmt.Sprintf("• Tổng số item trong kho: %d\n", len(snap.warehouses))
	text += fmt.Sprintf("• Sản phẩm sắp hết (≤%d): %d\n", lowStockThreshold, lowCount)
	text += fmt.Sprintf("• Tổng doanh thu: %s VNĐ\n\n", formatVND(totalRevenue))
	text += "Bạn có muốn tôi đề xuất đặt hàng cho các sản phẩm sắp hết không?"

	return domain.ChatResponse{Response: text}, nil
}

func (e *Engine) revenueReport(ctx context.Context) (domain.ChatResponse, error) {
	to := time.Now()
	from := to.AddDate(0, 0, -30)

	revenue, paidCount, err := e.store.PaidRevenue(ctx, &from, &to)
	if err != nil {
		return domain.ChatResponse{}, err
	}
	debt, unpaidCount, err := e.store.UnpaidTotals(ctx)
	if err != nil {
		return domain.ChatResponse{}, err
	}

	text := "💰 Báo cáo doanh thu 30 ngày qua:\n\n"
	text += fmt.Sprintf("• Tổng doanh thu: %s VNĐ\n", formatVND(revenue))
	text += fmt.Sprintf("• Số hóa đơn đã thanh toán: %d\n", paidCount)
	text += fmt.Sprintf("• Tổng công nợ: %s VNĐ\n", formatVND(debt))
	text += fmt.Sprintf("• Số hóa đơn chưa thanh toán: %d\n\n", unpaidCount)
	text += "Bạn có muốn xem sản phẩm bán chạy không?"

	return domain.ChatResponse{Response: text}, nil
}

func helpResponse() domain.ChatResponse {
	text := "Xin chào! Tôi là Thư ký ảo AI của bạn. Tôi có thể giúp bạn:\n\n"
	text += "• 📊 Phân tích và thống kê tồn kho\n"
	text += "• 🛒 Đề xuất đặt hàng tự động\n"
	text += "• ⚠️ Kiểm tra sản phẩm sắp hết hàng\n"
	text += "• 🔥 Phân tích sản phẩm bán chạy\n"
	text += "• 💰 Báo cáo doanh thu\n\n"
	text += "Hãy thử các lệnh như:\n"
	text += "• 'Đề xuất đặt hàng'\n"
	text += "• 'Sản phẩm sắp hết'\n"
	text += "• 'Sản phẩm bán chạy'\n"
	text += "• 'Phân tích tồn kho'\n"
	text += "• 'Báo cáo doanh thu'"

	return domain.ChatResponse{Response: text}
}

// snapshot bundles the inventory and sales aggregates every intent needs.
type snapshot struct {
	products   []domain.Product
	warehouses []domain.Warehouse
	byCode     map[string]domain.Product
	whByCode   map[string]domain.Warehouse
	sales30    []domain.ProductSales
	sold7      map[string]int
	sold30     map[string]int
	top20      map[string]struct{}
}

func (e *Engine) snapshot(ctx context.Context) (*snapshot, error) {
	products, err := e.store.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	warehouses, err := e.store.ListWarehouses(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sales30, err := e.store.SalesTotals(ctx, now.AddDate(0, 0, -30), now)
	if err != nil {
		return nil, err
	}
	sales7, err := e.store.SalesTotals(ctx, now.AddDate(0, 0, -7), now)
	if err != nil {
		return nil, err
	}

	sort.Slice(sales30, func(i, j int) bool { return sales30[i].QuantitySold > sales30[j].QuantitySold })

	snap := &snapshot{
		products:   products,
		warehouses: warehouses,
		byCode:     make(map[string]domain.Product, len(products)),
		whByCode:   make(map[string]domain.Warehouse, len(warehouses)),
		sales30:    sales30,
		sold7:      make(map[string]int, len(sales7)),
		sold30:     make(map[string]int, len(sales30)),
		top20:      make(map[string]struct{}, 20),
	}
	for _, p := range products {
		snap.byCode[p.Code] = p
	}
	for _, w := range warehouses {
		if _, seen := snap.whByCode[w.ProductCode]; !seen {
			snap.whByCode[w.ProductCode] = w
		}
	}
	for _, s := range sales7 {
		snap.sold7[s.ProductCode] = s.QuantitySold
	}
	for i, s := range sales30 {
		snap.sold30[s.ProductCode] = s.QuantitySold
		if i < 20 {
			snap.top20[s.ProductCode] = struct{}{}
		}
	}
	return snap, nil
}

// stockOf prefers the warehouse row when the product has one.
func (s *snapshot) stockOf(p domain.Product) int {
	if wh, ok := s.whByCode[p.Code]; ok {
		return wh.Quantity
	}
	return p.Quantity
}

func (s *snapshot) suggestionFor(p domain.Product) domain.ReorderSuggestion {
	stock := s.stockOf(p)

	rate := 0.0
	if sold := s.sold7[p.Code]; sold > 0 {
		rate = float64(sold) / 7.0
	} else if sold := s.sold30[p.Code]; sold > 0 {
		rate = float64(sold) / 30.0
	}

	var daysUntilOut *int
	if rate > 0 {
		d := int(float64(stock) / rate)
		daysUntilOut = &d
	}

	recommended := 0
	if rate > 0 {
		recommended = int(math.Ceil(rate * 30 * 1.2))
	}

	priority := "low"
	switch {
	case (daysUntilOut != nil && *daysUntilOut <= 7) || stock <= 10:
		priority = "high"
	case (daysUntilOut != nil && *daysUntilOut <= 30) || stock <= bestSellerWatermark:
		priority = "medium"
	}

	_, isBestSeller := s.top20[p.Code]

	return domain.ReorderSuggestion{
		ProductCode:     p.Code,
		ProductName:     p.Name,
		CurrentStock:    stock,
		SalesRatePerDay: math.Round(rate*100) / 100,
		DaysUntilOut:    daysUntilOut,
		RecommendedQty:  recommended,
		Priority:        priority,
		IsBestSeller:    isBestSeller,
	}
}

func sortSuggestions(list []domain.ReorderSuggestion) {
	rank := func(s domain.ReorderSuggestion) (int, int, int) {
		hot := 1
		if s.IsBestSeller && s.Priority == "high" {
			hot = 0
		}
		pr := 1
		if s.Priority == "high" {
			pr = 0
		}
		days := 999
		if s.DaysUntilOut != nil {
			days = *s.DaysUntilOut
		}
		return hot, pr, days
	}
	sort.SliceStable(list, func(i, j int) bool {
		h1, p1, d1 := rank(list[i])
		h2, p2, d2 := rank(list[j])
		if h1 != h2 {
			return h1 < h2
		}
		if p1 != p2 {
			return p1 < p2
		}
		return d1 < d2
	})
}

func containsAny(msg string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(msg, kw) {
			return true
		}
	}
	return false
}

func buildCacheKey(normalizedMsg string) string {
	hash := sha1.Sum([]byte(normalizedMsg))
	return "pos:chatbot:" + hex.EncodeToString(hash[:])
}

// formatVND groups digits by thousands the way the UI displays amounts.
func formatVND(d decimal.Decimal) string {
	s := d.StringFixed(0)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	out := b.String()
	if neg {
		out = "-" + out
	}
	return out
}
