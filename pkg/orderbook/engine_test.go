package orderbook

import "testing"

func id(b byte) OrderID {
	var o OrderID
	o[15] = b
	return o
}

func TestPlaceOnEmptyBook(t *testing.T) {
	e := NewEngine()

	ev := e.Execute(Limit(id(1), Bid, 100, 10))
	if ev.Kind != EventPlaced || ev.ID != id(1) {
		t.Fatalf("expected Placed{1}, got %+v", ev)
	}

	bid, ok := e.BestBid()
	if !ok || bid != 100 {
		t.Fatalf("expected best bid 100, got %d ok=%v", bid, ok)
	}
	depth := e.Depth(Bid, 5)
	if len(depth) != 1 || depth[0] != (LevelDepth{Price: 100, Qty: 10}) {
		t.Fatalf("unexpected depth: %+v", depth)
	}
}

func TestLimitCrossesAndFillsResting(t *testing.T) {
	e := NewEngine()
	e.Execute(Limit(id(1), Bid, 100, 10))

	ev := e.Execute(Limit(id(2), Ask, 100, 4))
	if ev.Kind != EventFilled {
		t.Fatalf("expected Filled, got %+v", ev)
	}
	if len(ev.Fills) != 1 || ev.Fills[0] != (Fill{OppositeOrderID: id(1), Price: 100, Qty: 4}) {
		t.Fatalf("unexpected fills: %+v", ev.Fills)
	}

	depth := e.Depth(Bid, 5)
	if len(depth) != 1 || depth[0].Qty != 6 {
		t.Fatalf("expected bid level (100,6), got %+v", depth)
	}
	if _, ok := e.BestAsk(); ok {
		t.Fatalf("expected empty ask side")
	}
}

func TestMarketOrderPartialFillReportsShortfall(t *testing.T) {
	e := NewEngine()
	e.Execute(Limit(id(1), Bid, 100, 10))
	e.Execute(Limit(id(2), Ask, 100, 4)) // consumes 4 of id 1, leaving 6

	ev := e.Execute(Market(id(3), Ask, 10))
	if ev.Kind != EventPartiallyFilled {
		t.Fatalf("expected PartiallyFilled, got %+v", ev)
	}
	if ev.QtyRemaining != 4 {
		t.Fatalf("expected qty_remaining 4, got %d", ev.QtyRemaining)
	}
	if len(ev.Fills) != 1 || ev.Fills[0] != (Fill{OppositeOrderID: id(1), Price: 100, Qty: 6}) {
		t.Fatalf("unexpected fills: %+v", ev.Fills)
	}
	if !e.bids.empty() || !e.asks.empty() {
		t.Fatalf("expected empty book after market drains remainder, bids=%v asks=%v", e.bids.levels, e.asks.levels)
	}
}

func TestPriceThenTimePriorityAcrossLevels(t *testing.T) {
	e := NewEngine()
	e.Execute(Limit(id(1), Bid, 100, 5))
	e.Execute(Limit(id(2), Bid, 101, 5))
	e.Execute(Limit(id(3), Bid, 100, 5))

	ev := e.Execute(Market(id(4), Ask, 8))
	if ev.Kind != EventFilled {
		t.Fatalf("expected Filled, got %+v", ev)
	}
	want := []Fill{
		{OppositeOrderID: id(2), Price: 101, Qty: 5},
		{OppositeOrderID: id(1), Price: 100, Qty: 3},
	}
	if len(ev.Fills) != len(want) {
		t.Fatalf("expected %d fills, got %+v", len(want), ev.Fills)
	}
	for i := range want {
		if ev.Fills[i] != want[i] {
			t.Fatalf("fill %d mismatch: got %+v want %+v", i, ev.Fills[i], want[i])
		}
	}

	depth := e.Depth(Bid, 5)
	if len(depth) != 1 || depth[0] != (LevelDepth{Price: 100, Qty: 7}) {
		t.Fatalf("expected remaining bid level (100,7), got %+v", depth)
	}
}

func TestCancelThenUnknownIDRejected(t *testing.T) {
	e := NewEngine()
	e.Execute(Limit(id(1), Bid, 100, 10))

	ev := e.Execute(Cancel(id(1)))
	if ev.Kind != EventCanceled || ev.ID != id(1) {
		t.Fatalf("expected Canceled{1}, got %+v", ev)
	}
	if !e.bids.empty() {
		t.Fatalf("expected empty book after cancel")
	}

	ev = e.Execute(Cancel(id(1)))
	if ev.Kind != EventRejected || ev.Reason != UnknownID {
		t.Fatalf("expected Rejected{UnknownID}, got %+v", ev)
	}
}

func TestZeroQuantityRejectedLeavesBookUnchanged(t *testing.T) {
	e := NewEngine()
	ev := e.Execute(Limit(id(1), Bid, 100, 0))
	if ev.Kind != EventRejected || ev.Reason != BadQuantity {
		t.Fatalf("expected Rejected{BadQuantity}, got %+v", ev)
	}
	if !e.bids.empty() || !e.asks.empty() {
		t.Fatalf("expected book to remain empty after rejection")
	}
}

func TestZeroPriceRejected(t *testing.T) {
	e := NewEngine()
	ev := e.Execute(Limit(id(1), Bid, 0, 10))
	if ev.Kind != EventRejected || ev.Reason != BadPrice {
		t.Fatalf("expected Rejected{BadPrice}, got %+v", ev)
	}
}

func TestFIFOWithinLevel(t *testing.T) {
	e := NewEngine()
	e.Execute(Limit(id(1), Ask, 100, 5))
	e.Execute(Limit(id(2), Ask, 100, 5))

	ev := e.Execute(Limit(id(3), Bid, 100, 10))
	if len(ev.Fills) != 2 {
		t.Fatalf("expected 2 fills, got %+v", ev.Fills)
	}
	if ev.Fills[0].OppositeOrderID != id(1) || ev.Fills[1].OppositeOrderID != id(2) {
		t.Fatalf("expected FIFO order id1 then id2, got %+v", ev.Fills)
	}
}

func TestMarketFullyUnfilledOnEmptyBook(t *testing.T) {
	e := NewEngine()
	ev := e.Execute(Market(id(1), Bid, 10))
	if ev.Kind != EventPartiallyFilled {
		t.Fatalf("expected PartiallyFilled (unfilled market), got %+v", ev)
	}
	if len(ev.Fills) != 0 || ev.QtyRemaining != 10 {
		t.Fatalf("expected zero fills and qty_remaining 10, got %+v", ev)
	}
}

func TestNoCrossInvariantAfterPartialCross(t *testing.T) {
	e := NewEngine()
	e.Execute(Limit(id(1), Ask, 100, 4))
	e.Execute(Limit(id(2), Ask, 110, 10))
	e.Execute(Limit(id(3), Bid, 105, 10)) // crosses the 100 ask, rests 6 at 105

	bid, _ := e.BestBid()
	ask, _ := e.BestAsk()
	if bid >= ask {
		t.Fatalf("book invariant violated: bid %d >= ask %d", bid, ask)
	}
}

func TestSpreadAndMidPrice(t *testing.T) {
	e := NewEngine()
	if _, ok := e.Spread(); ok {
		t.Fatalf("expected no spread on empty book")
	}

	e.Execute(Limit(id(1), Bid, 100, 10))
	e.Execute(Limit(id(2), Ask, 103, 10))

	spread, ok := e.Spread()
	if !ok || spread != 3 {
		t.Fatalf("expected spread 3, got %d ok=%v", spread, ok)
	}
	mid, ok := e.MidPrice()
	if !ok || mid != 101 { // (100+103)/2 = 101 (truncated toward zero)
		t.Fatalf("expected mid 101, got %d ok=%v", mid, ok)
	}
}

func TestConservationOfQuantity(t *testing.T) {
	e := NewEngine()
	e.Execute(Limit(id(1), Bid, 100, 5))
	e.Execute(Limit(id(2), Bid, 101, 5))
	e.Execute(Limit(id(3), Bid, 100, 5))
	accepted := uint64(15)

	ev := e.Execute(Market(id(4), Ask, 8))
	accepted += 8

	filled := ev.TotalFilled()
	var resting uint64
	for _, d := range e.Depth(Bid, 10) {
		resting += d.Qty
	}
	var unfilledMarket uint64
	if ev.Kind == EventPartiallyFilled {
		unfilledMarket = ev.QtyRemaining
	}
	if filled+resting+unfilledMarket != accepted {
		t.Fatalf("conservation violated: filled=%d resting=%d unfilled=%d accepted=%d",
			filled, resting, unfilledMarket, accepted)
	}
}

func TestPlaceThenCancelRestoresPriorState(t *testing.T) {
	e := NewEngine()
	e.Execute(Limit(id(1), Bid, 100, 10))
	before := e.Depth(Bid, 5)

	e.Execute(Limit(id(2), Bid, 105, 3))
	e.Execute(Cancel(id(2)))
	after := e.Depth(Bid, 5)

	if len(before) != len(after) || before[0] != after[0] {
		t.Fatalf("place-then-cancel did not restore prior depth: before=%+v after=%+v", before, after)
	}
	bid, _ := e.BestBid()
	if bid != 100 {
		t.Fatalf("expected best bid restored to 100, got %d", bid)
	}
}

func TestDeterminism(t *testing.T) {
	cmds := []Command{
		Limit(id(1), Bid, 100, 10),
		Limit(id(2), Ask, 99, 4),
		Market(id(3), Ask, 10),
		Limit(id(4), Bid, 101, 5),
		Cancel(id(4)),
		Cancel(id(4)),
	}

	run := func() []Event {
		e := NewEngine()
		var evs []Event
		for _, c := range cmds {
			evs = append(evs, e.Execute(c))
		}
		return evs
	}

	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("event count mismatch")
	}
	for i := range a {
		if a[i].Kind != b[i].Kind || a[i].ID != b[i].ID || a[i].Reason != b[i].Reason ||
			a[i].QtyRemaining != b[i].QtyRemaining || len(a[i].Fills) != len(b[i].Fills) {
			t.Fatalf("event %d diverged: %+v vs %+v", i, a[i], b[i])
		}
	}
}
