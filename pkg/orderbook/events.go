package orderbook

// RejectReason enumerates why the engine refused a command outright.
// The book is left completely unchanged whenever one of these fires.
type RejectReason uint8

const (
	BadQuantity RejectReason = iota
	BadPrice
	UnknownID
)

func (r RejectReason) String() string {
	switch r {
	case BadQuantity:
		return "BadQuantity"
	case BadPrice:
		return "BadPrice"
	case UnknownID:
		return "UnknownID"
	default:
		return "Unknown"
	}
}

// Fill records one resting order being traded against by an aggressor.
// Price is always the resting (maker) order's limit price, never the
// aggressor's — see spec §4.5.3.
type Fill struct {
	OppositeOrderID OrderID
	Price           uint64
	Qty             uint64
}

// OrderKind narrows CommandKind to the two kinds that can appear as the
// order_type field of an event (a Cancel never reaches this far).
type OrderKind uint8

const (
	OrderKindLimit OrderKind = iota
	OrderKindMarket
)

// EventKind tags which variant of Event is populated.
type EventKind uint8

const (
	EventFilled EventKind = iota
	EventPartiallyFilled
	EventPlaced
	EventCanceled
	EventRejected
)

// Event is the tagged union returned from every Execute call. Exactly
// one event is emitted per command, and it fully describes the
// command's effect — the event stream is deterministic and replayable.
type Event struct {
	Kind EventKind

	// Filled / PartiallyFilled / Placed
	ID        OrderID
	Side      Side
	OrderType OrderKind
	Fills     []Fill

	// PartiallyFilled only: remaining qty — resting (for a limit) or
	// the canceled shortfall (for a market).
	QtyRemaining uint64

	// Rejected only
	Reason RejectReason
}

// TotalFilled sums the quantity traded across an event's fills.
func (e Event) TotalFilled() uint64 {
	var total uint64
	for _, f := range e.Fills {
		total += f.Qty
	}
	return total
}
