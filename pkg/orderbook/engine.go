package orderbook

// Engine is the matching engine for a single instrument. It owns both
// sides of the market and the order index that ties them together. It
// is not internally synchronized — per spec §5 the scheduling model is
// single-threaded cooperative; a caller sharing an Engine across
// goroutines must serialize its own calls to Execute.
type Engine struct {
	bids *sideBook
	asks *sideBook
	idx  *orderIndex
}

// NewEngine returns an empty book.
func NewEngine() *Engine {
	return &Engine{
		bids: newSideBook(Bid),
		asks: newSideBook(Ask),
		idx:  newOrderIndex(),
	}
}

func (e *Engine) sideBookFor(side Side) *sideBook {
	if side == Bid {
		return e.bids
	}
	return e.asks
}

// Execute processes one command end-to-end and returns the single
// event it produces. Validation happens before any state change: a
// rejected command leaves the book byte-for-byte as it was (spec
// §4.5.5).
func (e *Engine) Execute(cmd Command) Event {
	switch cmd.Kind {
	case KindCancel:
		return e.executeCancel(cmd)
	case KindMarket:
		if reason, bad := validateMarket(cmd); bad {
			return Event{Kind: EventRejected, ID: cmd.ID, Reason: reason}
		}
		return e.executeAggressive(cmd)
	default: // KindLimit
		if reason, bad := validateLimit(cmd); bad {
			return Event{Kind: EventRejected, ID: cmd.ID, Reason: reason}
		}
		return e.executeAggressive(cmd)
	}
}

func validateMarket(cmd Command) (RejectReason, bool) {
	if cmd.Qty == 0 {
		return BadQuantity, true
	}
	return 0, false
}

func validateLimit(cmd Command) (RejectReason, bool) {
	if cmd.Qty == 0 {
		return BadQuantity, true
	}
	if cmd.Price == 0 {
		return BadPrice, true
	}
	return 0, false
}

// executeAggressive runs the matching loop of spec §4.5.1 for a
// validated Limit or Market command, then rests or discards whatever
// remains per §4.5.1 steps 3-4.
func (e *Engine) executeAggressive(cmd Command) Event {
	opp := e.sideBookFor(cmd.Side.Opposite())

	remaining := cmd.Qty
	var fills []Fill

	for remaining > 0 {
		best, ok := opp.best()
		if !ok {
			break
		}
		if cmd.Kind == KindLimit && !crossesLimit(cmd.Side, cmd.Price, best) {
			break
		}

		level := opp.levelAt(best)
		head, ok := level.headPeek()
		if !ok {
			// Defensive: an empty level should already have been
			// dropped by dropIfEmpty; nothing left to match here.
			break
		}

		traded := min(remaining, head.qtyRemaining)
		fills = append(fills, Fill{OppositeOrderID: head.id, Price: level.price, Qty: traded})

		filledID, fullyFilled := level.headConsume(traded)
		if fullyFilled {
			e.idx.delete(filledID)
		}
		opp.dropIfEmpty(level)

		remaining -= traded
	}

	switch cmd.Kind {
	case KindLimit:
		return e.finishLimit(cmd, fills, remaining)
	default:
		return e.finishMarket(cmd, fills, remaining)
	}
}

// crossesLimit implements spec §4.5.1's crossing predicate for a
// limit aggressor against the opposing side's best price.
func crossesLimit(aggressorSide Side, limitPrice, oppBest uint64) bool {
	if aggressorSide == Bid {
		return oppBest <= limitPrice
	}
	return oppBest >= limitPrice
}

func (e *Engine) finishLimit(cmd Command, fills []Fill, remaining uint64) Event {
	if remaining > 0 {
		own := e.sideBookFor(cmd.Side)
		own.insert(cmd.ID, cmd.Price, remaining)
		e.idx.put(cmd.ID, cmd.Side, cmd.Price)

		if len(fills) == 0 {
			return Event{Kind: EventPlaced, ID: cmd.ID}
		}
		return Event{
			Kind: EventPartiallyFilled, ID: cmd.ID, Side: cmd.Side, OrderType: OrderKindLimit,
			Fills: fills, QtyRemaining: remaining,
		}
	}
	return Event{Kind: EventFilled, ID: cmd.ID, Side: cmd.Side, OrderType: OrderKindLimit, Fills: fills}
}

func (e *Engine) finishMarket(cmd Command, fills []Fill, remaining uint64) Event {
	if remaining > 0 {
		if len(fills) == 0 {
			return Event{
				Kind: EventPartiallyFilled, ID: cmd.ID, Side: cmd.Side, OrderType: OrderKindMarket,
				QtyRemaining: remaining,
			}
		}
		return Event{
			Kind: EventPartiallyFilled, ID: cmd.ID, Side: cmd.Side, OrderType: OrderKindMarket,
			Fills: fills, QtyRemaining: remaining,
		}
	}
	return Event{Kind: EventFilled, ID: cmd.ID, Side: cmd.Side, OrderType: OrderKindMarket, Fills: fills}
}

// executeCancel implements spec §4.5.4.
func (e *Engine) executeCancel(cmd Command) Event {
	loc, ok := e.idx.get(cmd.ID)
	if !ok {
		return Event{Kind: EventRejected, ID: cmd.ID, Reason: UnknownID}
	}

	book := e.sideBookFor(loc.side)
	level := book.levelAt(loc.price)
	level.remove(cmd.ID)
	book.dropIfEmpty(level)
	e.idx.delete(cmd.ID)

	return Event{Kind: EventCanceled, ID: cmd.ID}
}
