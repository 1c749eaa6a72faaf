package eventlog

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"

	"github.com/dtvu/lobcore/pkg/orderbook"
)

// Store appends the core engine's Event stream to durable storage and
// replays it back for audit. Every write lands on the primary; Replay
// is the one caller that can tolerate read-replica lag, so it is the
// only query routed there when PostgresConfig.ReplaySources is set.
type Store interface {
	Append(ctx context.Context, symbol string, ev orderbook.Event) error
	BulkAppend(ctx context.Context, symbol string, evs []orderbook.Event) error
	Replay(ctx context.Context, symbol string, since time.Time, limit int) ([]Record, error)
}

// SQLStore is the Postgres-backed Store, grounded on the teacher's
// OrderEventSQLRepo but writing the core's own Event shape instead of
// the OMS's decimal-based OrderEvent.
type SQLStore struct {
	db *gorm.DB
}

func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) dbWithContext(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func (s *SQLStore) Append(ctx context.Context, symbol string, ev orderbook.Event) error {
	return s.dbWithContext(ctx).Create(toRecord(symbol, ev)).Error
}

func (s *SQLStore) BulkAppend(ctx context.Context, symbol string, evs []orderbook.Event) error {
	records := make([]*Record, len(evs))
	for i, ev := range evs {
		records[i] = toRecord(symbol, ev)
	}
	return s.dbWithContext(ctx).Create(records).Error
}

// Replay returns a symbol's recorded Events in id order, oldest first,
// for rebuilding gateway-side order state after a restart. Explicitly
// read-only, so it runs with dbresolver.Read: when replay sources are
// configured it reads from a replica instead of the primary; without
// them it reads from the primary.
func (s *SQLStore) Replay(ctx context.Context, symbol string, since time.Time, limit int) ([]Record, error) {
	var records []Record
	err := s.dbWithContext(ctx).
		Clauses(dbresolver.Read).
		Preload("Fills").
		Where("symbol = ? AND recorded_at >= ?", symbol, since).
		Order("id asc").
		Limit(limit).
		Find(&records).Error
	return records, err
}

func toRecord(symbol string, ev orderbook.Event) *Record {
	fills := make([]Fill, len(ev.Fills))
	for i, f := range ev.Fills {
		fills[i] = Fill{
			OppositeOrderID: f.OppositeOrderID.String(),
			Price:           f.Price,
			Qty:             f.Qty,
		}
	}
	return &Record{
		Symbol:       symbol,
		EventKind:    uint8(ev.Kind),
		OrderID:      ev.ID.String(),
		Side:         uint8(ev.Side),
		OrderType:    uint8(ev.OrderType),
		QtyRemaining: ev.QtyRemaining,
		Reason:       uint8(ev.Reason),
		Fills:        fills,
		RecordedAt:   time.Now(),
	}
}
