package orderbook

// LevelDepth is one row of a depth snapshot: the resting quantity at a
// price point, in aggressiveness order.
type LevelDepth struct {
	Price uint64
	Qty   uint64
}

// BestBid returns the highest resting bid price, or ok=false if the
// bid side is empty.
func (e *Engine) BestBid() (price uint64, ok bool) {
	return e.bids.best()
}

// BestAsk returns the lowest resting ask price, or ok=false if the ask
// side is empty.
func (e *Engine) BestAsk() (price uint64, ok bool) {
	return e.asks.best()
}

// Spread returns bestAsk - bestBid, or ok=false if either side is
// empty.
func (e *Engine) Spread() (spread uint64, ok bool) {
	bid, bidOK := e.BestBid()
	ask, askOK := e.BestAsk()
	if !bidOK || !askOK {
		return 0, false
	}
	return ask - bid, true
}

// MidPrice returns (bestAsk + bestBid) / 2 using integer division,
// which truncates toward zero for the non-negative operands the core
// only ever holds — see spec §4.6's rounding requirement. ok=false if
// either side is empty.
func (e *Engine) MidPrice() (mid uint64, ok bool) {
	bid, bidOK := e.BestBid()
	ask, askOK := e.BestAsk()
	if !bidOK || !askOK {
		return 0, false
	}
	return (ask + bid) / 2, true
}

// Depth returns the top-k levels of side, in aggressiveness order
// (best price first). Fewer than k levels are returned if the side is
// shallower than k.
func (e *Engine) Depth(side Side, k int) []LevelDepth {
	book := e.sideBookFor(side)
	if k <= 0 || book.empty() {
		return nil
	}

	// Depth is a cold read path (§5: "snapshot queries are not safe to
	// run concurrently with Execute" but need not be allocation-free).
	// Copy out and sort the distinct price points without disturbing
	// the heap's lazy-deletion state.
	prices := make([]uint64, 0, len(book.levels))
	for p := range book.levels {
		prices = append(prices, p)
	}
	sortByAggressiveness(prices, side)

	if len(prices) > k {
		prices = prices[:k]
	}
	depth := make([]LevelDepth, len(prices))
	for i, p := range prices {
		depth[i] = LevelDepth{Price: p, Qty: book.levels[p].totalQty}
	}
	return depth
}

func sortByAggressiveness(prices []uint64, side Side) {
	// Simple insertion sort: level counts are small relative to order
	// counts (spec §4.3's rationale for the heap-backed layout), and
	// Depth is not on the matching hot path.
	less := func(i, j uint64) bool {
		if side == Bid {
			return i > j
		}
		return i < j
	}
	for i := 1; i < len(prices); i++ {
		for j := i; j > 0 && less(prices[j], prices[j-1]); j-- {
			prices[j], prices[j-1] = prices[j-1], prices[j]
		}
	}
}
