package world

import "container/heap"

// scheduledTick is one pending block tick.
type scheduledTick struct {
	due  int64 // game tick at which the tick fires
	prio TickPriority
	seq  uint64 // insertion order, breaks ties deterministically
	pos  BlockPos
}

// tickQueue is a min-heap ordered by (due, prio, seq).
type tickQueue []*scheduledTick

func (q tickQueue) Len() int { return len(q) }

func (q tickQueue) Less(i, j int) bool {
	if q[i].due != q[j].due {
		return q[i].due < q[j].due
	}
	if q[i].prio != q[j].prio {
		return q[i].prio < q[j].prio
	}
	return q[i].seq < q[j].seq
}

func (q tickQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *tickQueue) Push(x any) { *q = append(*q, x.(*scheduledTick)) }

func (q *tickQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

// scheduler owns the pending tick heap. Not safe for concurrent use; the
// world confines it to the simulation goroutine.
type scheduler struct {
	q   tickQueue
	seq uint64
}

func (s *scheduler) schedule(pos BlockPos, due int64, prio TickPriority) {
	s.seq++
	heap.Push(&s.q, &scheduledTick{due: due, prio: prio, seq: s.seq, pos: pos})
}

// popDue removes and returns the next tick due at or before now, or nil if
// nothing is due yet.
func (s *scheduler) popDue(now int64) *scheduledTick {
	if len(s.q) == 0 || s.q[0].due > now {
		return nil
	}
	return heap.Pop(&s.q).(*scheduledTick)
}

func (s *scheduler) pending() int { return len(s.q) }
