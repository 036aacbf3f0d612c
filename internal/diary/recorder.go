package diary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/surp29/Backend-PoS/internal/domain"
)

const (
	maxSourceLen      = 50
	maxDescriptionLen = 255

	persistTimeout = 5 * time.Second
)

type Store interface {
	AppendDiaryEntry(ctx context.Context, entry domain.DiaryEntry) error
}

// Event is the caller-facing shape. Truncation and default descriptions
// are applied here so every write path shares the same rules.
type Event struct {
	Source      string
	Description string
	Username    string
	QuantityIn  int
	QuantityOut int
	Amount      decimal.Decimal
}

// Recorder persists diary entries off the request path. Record never
// blocks and never fails the operation that emitted the event; a full
// buffer or a failed write is logged and the entry is dropped.
type Recorder struct {
	store   Store
	log     *logrus.Logger
	events  chan domain.DiaryEntry
	stopped chan struct{}
}

func NewRecorder(store Store, log *logrus.Logger, buffer int) *Recorder {
	if buffer < 1 {
		buffer = 256
	}
	return &Recorder{
		store:   store,
		log:     log,
		events:  make(chan domain.DiaryEntry, buffer),
		stopped: make(chan struct{}),
	}
}

// Run drains events until ctx is cancelled, then flushes whatever is
// still buffered before returning.
func (r *Recorder) Run(ctx context.Context) {
	defer close(r.stopped)
	for {
		select {
		case <-ctx.Done():
			r.flush()
			return
		case entry := <-r.events:
			r.persist(entry)
		}
	}
}

// Wait blocks until Run has returned or the timeout passes.
func (r *Recorder) Wait(timeout time.Duration) {
	select {
	case <-r.stopped:
	case <-time.After(timeout):
	}
}

func (r *Recorder) Record(ev Event) {
	entry := BuildEntry(ev, time.Now())
	select {
	case r.events <- entry:
	default:
		r.log.WithFields(logrus.Fields{
			"module": "diary",
			"source": entry.SourceTag,
		}).Warn("diary buffer full, entry dropped")
	}
}

func (r *Recorder) flush() {
	for {
		select {
		case entry := <-r.events:
			r.persist(entry)
		default:
			return
		}
	}
}

func (r *Recorder) persist(entry domain.DiaryEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := r.store.AppendDiaryEntry(ctx, entry); err != nil {
		r.log.WithFields(logrus.Fields{
			"module": "diary",
			"source": entry.SourceTag,
		}).WithError(err).Warn("diary entry write failed, dropped")
	}
}

// BuildEntry normalizes an event into a persistable entry. The source tag
// is capped at 50 characters and the description at 255; the operator
// suffix survives truncation, the body gets cut instead.
func BuildEntry(ev Event, now time.Time) domain.DiaryEntry {
	source := strings.TrimSpace(ev.Source)
	if source == "" {
		source = "Unknown"
	}
	source = truncateRunes(source, maxSourceLen)

	desc := strings.TrimSpace(ev.Description)
	if desc == "" {
		switch {
		case ev.QuantityOut > 0:
			desc = fmt.Sprintf("Xuất %d sản phẩm từ %s", ev.QuantityOut, source)
		case ev.QuantityIn > 0:
			desc = fmt.Sprintf("Nhập %d sản phẩm vào %s", ev.QuantityIn, source)
		case ev.Amount.IsPositive():
			desc = fmt.Sprintf("Giao dịch từ %s - Tổng tiền: %s VNĐ", source, ev.Amount.StringFixed(0))
		default:
			desc = fmt.Sprintf("Thao tác từ %s", source)
		}
	}

	if ev.Username != "" {
		suffix := " - Thực hiện bởi: " + ev.Username
		if runeLen(desc)+runeLen(suffix) > maxDescriptionLen {
			desc = truncateRunes(desc, maxDescriptionLen-runeLen(suffix))
		}
		desc += suffix
	}
	if runeLen(desc) > maxDescriptionLen {
		desc = truncateRunes(desc, maxDescriptionLen-3) + "..."
	}

	entryDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return domain.DiaryEntry{
		ID:          uuid.NewString(),
		EntryDate:   entryDate,
		SourceTag:   source,
		Description: desc,
		QuantityIn:  ev.QuantityIn,
		QuantityOut: ev.QuantityOut,
		Amount:      ev.Amount,
	}
}

func runeLen(s string) int { return len([]rune(s)) }

func truncateRunes(s string, n int) string {
	if n < 0 {
		n = 0
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
