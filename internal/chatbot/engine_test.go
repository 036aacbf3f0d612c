package chatbot

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surp29/Backend-PoS/internal/domain"
)

type fakeStore struct {
	products   []domain.Product
	warehouses []domain.Warehouse
	sales      []domain.ProductSales

	salesCalls int
}

func (f *fakeStore) ListProducts(context.Context) ([]domain.Product, error) {
	return f.products, nil
}

func (f *fakeStore) ListWarehouses(context.Context) ([]domain.Warehouse, error) {
	return f.warehouses, nil
}

func (f *fakeStore) SalesTotals(_ context.Context, _, _ time.Time) ([]domain.ProductSales, error) {
	f.salesCalls++
	return f.sales, nil
}

func (f *fakeStore) PaidRevenue(context.Context, *time.Time, *time.Time) (decimal.Decimal, int, error) {
	return decimal.NewFromInt(1234000), 4, nil
}

func (f *fakeStore) UnpaidTotals(context.Context) (decimal.Decimal, int, error) {
	return decimal.NewFromInt(50000), 2, nil
}

func TestAnalyzeDispatchesByKeyword(t *testing.T) {
	store := &fakeStore{}
	eng := NewEngine(store, nil, time.Minute)
	ctx := context.Background()

	resp, err := eng.Analyze(ctx, "Báo cáo doanh thu tháng này")
	require.NoError(t, err)
	assert.Contains(t, resp.Response, "doanh thu 30 ngày")

	resp, err = eng.Analyze(ctx, "cho tôi xem tồn kho")
	require.NoError(t, err)
	assert.Contains(t, resp.Response, "đủ tồn kho")

	resp, err = eng.Analyze(ctx, "xin chào")
	require.NoError(t, err)
	assert.Contains(t, resp.Response, "Thư ký ảo")
}

func TestSuggestionsIncludeLowAndOutOfStock(t *testing.T) {
	store := &fakeStore{
		products: []domain.Product{
			{Code: "SP001", Name: "Trà xanh", Quantity: 0},
			{Code: "SP002", Name: "Cà phê", Quantity: 500},
			{Code: "SP003", Name: "Sữa tươi", Quantity: 14},
		},
		sales: []domain.ProductSales{
			{ProductCode: "SP003", ProductName: "Sữa tươi", QuantitySold: 70, Revenue: decimal.NewFromInt(700000)},
		},
	}
	eng := NewEngine(store, nil, time.Minute)

	got, err := eng.Suggestions(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	// SP003 sells 10/day with 14 on hand, so it runs out first and is a
	// top seller; it outranks the dormant out-of-stock SP001.
	assert.Equal(t, "SP003", got[0].ProductCode)
	assert.Equal(t, "high", got[0].Priority)
	assert.True(t, got[0].IsBestSeller)
	require.NotNil(t, got[0].DaysUntilOut)
	assert.Equal(t, 1, *got[0].DaysUntilOut)
	assert.Equal(t, 360, got[0].RecommendedQty)

	assert.Equal(t, "SP001", got[1].ProductCode)
	assert.Equal(t, "high", got[1].Priority)
	assert.Nil(t, got[1].DaysUntilOut)
	assert.Zero(t, got[1].RecommendedQty)
}

func TestSuggestionsPreferWarehouseStock(t *testing.T) {
	store := &fakeStore{
		products: []domain.Product{
			{Code: "SP001", Name: "Trà xanh", Quantity: 200},
		},
		warehouses: []domain.Warehouse{
			{Code: "KHO1", ProductCode: "SP001", Quantity: 5},
		},
		sales: []domain.ProductSales{
			{ProductCode: "SP001", ProductName: "Trà xanh", QuantitySold: 7, Revenue: decimal.NewFromInt(70000)},
		},
	}
	eng := NewEngine(store, nil, time.Minute)

	got, err := eng.Suggestions(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 5, got[0].CurrentStock)
	assert.Equal(t, "high", got[0].Priority)
}

func TestSuggestionsCappedAtFive(t *testing.T) {
	store := &fakeStore{}
	for i := 0; i < 9; i++ {
		store.products = append(store.products, domain.Product{
			Code: string(rune('A' + i)),
			Name: "SP",
		})
	}
	eng := NewEngine(store, nil, time.Minute)

	got, err := eng.Suggestions(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 5)
}

func TestAnalyzeCachesResponses(t *testing.T) {
	store := &fakeStore{}
	eng := NewEngine(store, &memChatCache{data: map[string]*domain.ChatResponse{}}, time.Minute)
	ctx := context.Background()

	_, err := eng.Analyze(ctx, "tồn kho")
	require.NoError(t, err)
	calls := store.salesCalls

	_, err = eng.Analyze(ctx, "tồn kho")
	require.NoError(t, err)
	assert.Equal(t, calls, store.salesCalls, "second call must be served from cache")
}

type memChatCache struct {
	data map[string]*domain.ChatResponse
}

func (m *memChatCache) Get(_ context.Context, key string) (*domain.ChatResponse, bool, error) {
	resp, ok := m.data[key]
	return resp, ok, nil
}

func (m *memChatCache) Set(_ context.Context, key string, resp *domain.ChatResponse, _ time.Duration) error {
	m.data[key] = resp
	return nil
}

func TestFormatVND(t *testing.T) {
	cases := map[int64]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		1234567:  "1,234,567",
		-1234567: "-1,234,567",
	}
	for amount, want := range cases {
		if got := formatVND(decimal.NewFromInt(amount)); got != want {
			t.Errorf("formatVND(%d) = %q, want %q", amount, got, want)
		}
	}
}
