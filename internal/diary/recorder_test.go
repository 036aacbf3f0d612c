package diary

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surp29/Backend-PoS/internal/domain"
)

type captureStore struct {
	mu      sync.Mutex
	entries []domain.DiaryEntry
}

func (c *captureStore) AppendDiaryEntry(_ context.Context, entry domain.DiaryEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, entry)
	return nil
}

func (c *captureStore) all() []domain.DiaryEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.DiaryEntry(nil), c.entries...)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestBuildEntryDefaults(t *testing.T) {
	now := time.Date(2025, 3, 14, 15, 26, 53, 0, time.UTC)

	entry := BuildEntry(Event{Source: "Đơn hàng", QuantityOut: 3}, now)
	assert.Equal(t, "Xuất 3 sản phẩm từ Đơn hàng", entry.Description)

	entry = BuildEntry(Event{Source: "Kho", QuantityIn: 7}, now)
	assert.Equal(t, "Nhập 7 sản phẩm vào Kho", entry.Description)

	entry = BuildEntry(Event{Source: "Hóa đơn", Amount: decimal.NewFromInt(250000)}, now)
	assert.Equal(t, "Giao dịch từ Hóa đơn - Tổng tiền: 250000 VNĐ", entry.Description)

	entry = BuildEntry(Event{Source: "Tài khoản"}, now)
	assert.Equal(t, "Thao tác từ Tài khoản", entry.Description)

	entry = BuildEntry(Event{}, now)
	assert.Equal(t, "Unknown", entry.SourceTag)
}

func TestBuildEntryDateIsMidnight(t *testing.T) {
	now := time.Date(2025, 3, 14, 15, 26, 53, 999, time.UTC)
	entry := BuildEntry(Event{Source: "Đơn hàng"}, now)
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), entry.EntryDate)
	assert.NotEmpty(t, entry.ID)
}

func TestBuildEntryTruncation(t *testing.T) {
	now := time.Now()

	longSource := strings.Repeat("ă", 80)
	entry := BuildEntry(Event{Source: longSource, Description: "x"}, now)
	assert.Equal(t, 50, len([]rune(entry.SourceTag)))

	longDesc := strings.Repeat("b", 300)
	entry = BuildEntry(Event{Source: "Đơn hàng", Description: longDesc}, now)
	assert.Equal(t, 255, len([]rune(entry.Description)))
	assert.True(t, strings.HasSuffix(entry.Description, "..."))
}

func TestBuildEntryOperatorSuffixSurvivesTruncation(t *testing.T) {
	longDesc := strings.Repeat("c", 300)
	entry := BuildEntry(Event{Source: "Đơn hàng", Description: longDesc, Username: "admin"}, time.Now())

	assert.True(t, strings.HasSuffix(entry.Description, " - Thực hiện bởi: admin"))
	assert.LessOrEqual(t, len([]rune(entry.Description)), 255)
}

func TestRecorderPersistsAndFlushesOnCancel(t *testing.T) {
	store := &captureStore{}
	rec := NewRecorder(store, quietLogger(), 8)

	ctx, cancel := context.WithCancel(context.Background())
	go rec.Run(ctx)

	rec.Record(Event{Source: "Đơn hàng", Description: "Tạo đơn hàng DH001"})
	rec.Record(Event{Source: "Hóa đơn", Description: "Tạo hóa đơn HD001"})

	cancel()
	rec.Wait(2 * time.Second)

	entries := store.all()
	require.Len(t, entries, 2)
	assert.Equal(t, "Tạo đơn hàng DH001", entries[0].Description)
	assert.Equal(t, "Tạo hóa đơn HD001", entries[1].Description)
}
