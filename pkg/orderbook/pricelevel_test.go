package orderbook

import "testing"

func TestPriceLevelHeadConsumePartial(t *testing.T) {
	l := newPriceLevel(100)
	l.append(id(1), 10)

	filledID, fully := l.headConsume(4)
	if fully {
		t.Fatalf("expected partial consume, got fully filled")
	}
	if filledID != (OrderID{}) {
		t.Fatalf("expected zero id on partial consume, got %v", filledID)
	}
	if l.totalQty != 6 {
		t.Fatalf("expected totalQty 6, got %d", l.totalQty)
	}
	head, ok := l.headPeek()
	if !ok || head.qtyRemaining != 6 {
		t.Fatalf("expected head qtyRemaining 6, got %+v ok=%v", head, ok)
	}
}

func TestPriceLevelHeadConsumeFull(t *testing.T) {
	l := newPriceLevel(100)
	l.append(id(1), 10)

	filledID, fully := l.headConsume(10)
	if !fully || filledID != id(1) {
		t.Fatalf("expected full consume of id 1, got id=%v fully=%v", filledID, fully)
	}
	if !l.empty() {
		t.Fatalf("expected level empty after full consume")
	}
	if l.totalQty != 0 {
		t.Fatalf("expected totalQty 0, got %d", l.totalQty)
	}
}

func TestPriceLevelRemovePreservesFIFOOfSurvivors(t *testing.T) {
	l := newPriceLevel(100)
	l.append(id(1), 5)
	l.append(id(2), 5)
	l.append(id(3), 5)

	if !l.remove(id(2)) {
		t.Fatalf("expected remove to find id 2")
	}
	if l.totalQty != 10 {
		t.Fatalf("expected totalQty 10 after removing id 2, got %d", l.totalQty)
	}

	first, _ := l.headPeek()
	if first.id != id(1) {
		t.Fatalf("expected id 1 still at head, got %v", first.id)
	}
	l.headConsume(5)
	second, _ := l.headPeek()
	if second.id != id(3) {
		t.Fatalf("expected id 3 next after removing id 2, got %v", second.id)
	}
}

func TestPriceLevelRemoveUnknownID(t *testing.T) {
	l := newPriceLevel(100)
	l.append(id(1), 5)

	if l.remove(id(9)) {
		t.Fatalf("expected remove of unknown id to report not found")
	}
	if l.totalQty != 5 {
		t.Fatalf("expected totalQty unchanged, got %d", l.totalQty)
	}
}

func TestSideBookBestLazyDeletion(t *testing.T) {
	b := newSideBook(Bid)
	b.insert(id(1), 100, 5)
	b.insert(id(2), 101, 5)

	best, ok := b.best()
	if !ok || best != 101 {
		t.Fatalf("expected best 101, got %d ok=%v", best, ok)
	}

	level := b.levelAt(101)
	level.remove(id(2))
	b.dropIfEmpty(level)

	best, ok = b.best()
	if !ok || best != 100 {
		t.Fatalf("expected best to fall back to 100, got %d ok=%v", best, ok)
	}
}
