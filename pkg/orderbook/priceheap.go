package orderbook

// priceHeap implements heap.Interface over distinct resting price
// points on one side of the book. It only ever holds prices that are
// (or were recently) present in that side's level map — emptied levels
// are lazily dropped the next time they surface at the top, see
// sideBook.best.
type priceHeap struct {
	prices []uint64
	less   func(i, j uint64) bool
	index  map[uint64]bool
}

func newPriceHeap(less func(i, j uint64) bool) *priceHeap {
	return &priceHeap{
		prices: []uint64{},
		less:   less,
		index:  make(map[uint64]bool),
	}
}

func (h priceHeap) Len() int { return len(h.prices) }

func (h priceHeap) Less(i, j int) bool { return h.less(h.prices[i], h.prices[j]) }

func (h priceHeap) Swap(i, j int) { h.prices[i], h.prices[j] = h.prices[j], h.prices[i] }

func (h *priceHeap) Push(x any) {
	price := x.(uint64)
	if !h.index[price] {
		h.index[price] = true
		h.prices = append(h.prices, price)
	}
}

func (h *priceHeap) Pop() any {
	n := len(h.prices)
	price := h.prices[n-1]
	h.prices = h.prices[:n-1]
	delete(h.index, price)
	return price
}

func (h *priceHeap) Peek() (uint64, bool) {
	if len(h.prices) == 0 {
		return 0, false
	}
	return h.prices[0], true
}
