package orderbook

import "container/heap"

// sideBook is the price-ordered collection of levels for one side of
// the market. best caches the side's most aggressive price (max for
// bids, min for asks); it is invalidated eagerly on mutation and
// recomputed lazily, on the next call that needs it — so a fill that
// doesn't empty the touched level never pays a heap operation, and an
// external observer never sees a stale value (spec §9).
type sideBook struct {
	side   Side
	levels map[uint64]*priceLevel
	prices *priceHeap
}

func newSideBook(side Side) *sideBook {
	var less func(i, j uint64) bool
	if side == Bid {
		less = func(i, j uint64) bool { return i > j } // max-heap
	} else {
		less = func(i, j uint64) bool { return i < j } // min-heap
	}
	return &sideBook{
		side:   side,
		levels: make(map[uint64]*priceLevel),
		prices: newPriceHeap(less),
	}
}

// best returns the side's most aggressive resting price, or ok=false
// if the side is empty. Drops lazily-stale heap entries for levels
// that were already emptied and removed.
func (b *sideBook) best() (price uint64, ok bool) {
	for {
		p, has := b.prices.Peek()
		if !has {
			return 0, false
		}
		if _, present := b.levels[p]; present {
			return p, true
		}
		heap.Pop(b.prices)
	}
}

func (b *sideBook) levelAt(price uint64) *priceLevel {
	return b.levels[price]
}

func (b *sideBook) empty() bool {
	return len(b.levels) == 0
}

// insert rests qty for id at price, creating the level on first
// insertion at that price point.
func (b *sideBook) insert(id OrderID, price, qty uint64) {
	level, ok := b.levels[price]
	if !ok {
		level = newPriceLevel(price)
		b.levels[price] = level
		heap.Push(b.prices, price)
	}
	level.append(id, qty)
}

// dropIfEmpty deletes a level once its queue has drained to zero, per
// spec §4.3 ("level deletion is required the moment total_qty reaches
// zero").
func (b *sideBook) dropIfEmpty(level *priceLevel) {
	if level.empty() {
		delete(b.levels, level.price)
	}
}
