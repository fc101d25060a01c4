package world

import "testing"

func TestSchedulerOrdersByDue(t *testing.T) {
	s := &scheduler{}
	a := BlockPos{X: 1}
	b := BlockPos{X: 2}
	c := BlockPos{X: 3}

	s.schedule(b, 20, PriorityNormal)
	s.schedule(a, 10, PriorityNormal)
	s.schedule(c, 30, PriorityNormal)

	if got := s.popDue(5); got != nil {
		t.Fatalf("nothing should be due at 5, got %+v", got)
	}

	got := s.popDue(30)
	if got == nil || got.pos != a {
		t.Fatalf("first due should be %v, got %+v", a, got)
	}
	got = s.popDue(30)
	if got == nil || got.pos != b {
		t.Fatalf("second due should be %v, got %+v", b, got)
	}
	got = s.popDue(30)
	if got == nil || got.pos != c {
		t.Fatalf("third due should be %v, got %+v", c, got)
	}
	if s.pending() != 0 {
		t.Errorf("pending = %d, want 0", s.pending())
	}
}

func TestSchedulerPriorityBreaksTies(t *testing.T) {
	s := &scheduler{}
	low := BlockPos{X: 1}
	high := BlockPos{X: 2}

	s.schedule(low, 10, PriorityLow)
	s.schedule(high, 10, PriorityHigh)

	got := s.popDue(10)
	if got == nil || got.pos != high {
		t.Fatalf("high priority should fire first, got %+v", got)
	}
}

func TestSchedulerInsertionOrderBreaksTies(t *testing.T) {
	s := &scheduler{}
	first := BlockPos{X: 1}
	second := BlockPos{X: 2}

	s.schedule(first, 10, PriorityNormal)
	s.schedule(second, 10, PriorityNormal)

	if got := s.popDue(10); got == nil || got.pos != first {
		t.Fatalf("earlier insertion should fire first, got %+v", got)
	}
}
