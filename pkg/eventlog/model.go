package eventlog

import "time"

// Record is the durable row shape for one orderbook.Event. Fills are
// flattened into a joined child table (Fill) rather than a JSON
// column, keeping the schema queryable by counterparty order id.
type Record struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	Symbol       string `gorm:"index"`
	EventKind    uint8
	OrderID      string `gorm:"index"`
	Side         uint8
	OrderType    uint8
	QtyRemaining uint64
	Reason       uint8
	Fills        []Fill `gorm:"foreignKey:RecordID"`
	RecordedAt   time.Time
}

func (Record) TableName() string { return "orderbook_events" }

// Fill is one child row of Record, one per Fill in the originating
// orderbook.Event.
type Fill struct {
	ID              uint64 `gorm:"primaryKey;autoIncrement"`
	RecordID        uint64 `gorm:"index"`
	OppositeOrderID string
	Price           uint64
	Qty             uint64
}

func (Fill) TableName() string { return "orderbook_event_fills" }
