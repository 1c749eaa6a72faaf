package orderbook

// orderLocation is where a resting order lives: which side, and at
// which price point (the priceLevel itself is looked up from the
// owning sideBook's level map).
type orderLocation struct {
	side  Side
	price uint64
}

// orderIndex maps an id to its resting location for O(1) cancel
// lookup, plus the O(log P) level lookup on the owning sideBook. The
// engine is single-threaded per spec §5; a plain map is sufficient,
// external callers wrap Execute in their own mutex if shared across
// goroutines.
type orderIndex struct {
	locations map[OrderID]orderLocation
}

func newOrderIndex() *orderIndex {
	return &orderIndex{locations: make(map[OrderID]orderLocation)}
}

func (idx *orderIndex) put(id OrderID, side Side, price uint64) {
	idx.locations[id] = orderLocation{side: side, price: price}
}

func (idx *orderIndex) get(id OrderID) (orderLocation, bool) {
	loc, ok := idx.locations[id]
	return loc, ok
}

func (idx *orderIndex) delete(id OrderID) {
	delete(idx.locations, id)
}
