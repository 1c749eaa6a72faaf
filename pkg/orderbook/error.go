package orderbook

import "fmt"

// qtyOverflow is raised as a panic, never returned, per spec §7: qty
// arithmetic overflow is the one fatal condition the core does not
// attempt to recover from.
type qtyOverflow struct {
	level uint64
	added uint64
}

func (e qtyOverflow) Error() string {
	return fmt.Sprintf("orderbook: quantity overflow adding %d to level total %d", e.added, e.level)
}

// addQtyChecked adds delta to total, panicking on uint64 overflow.
func addQtyChecked(total, delta uint64) uint64 {
	sum := total + delta
	if sum < total {
		panic(qtyOverflow{level: total, added: delta})
	}
	return sum
}
