package services

import "sync/atomic"

// Latch is a single-flight guard. A caller that fails TryAcquire must not
// wait; the run it wanted is already in flight.
type Latch struct {
	busy atomic.Bool
}

func (l *Latch) TryAcquire() bool {
	return l.busy.CompareAndSwap(false, true)
}

func (l *Latch) Release() {
	l.busy.Store(false)
}

func (l *Latch) Busy() bool {
	return l.busy.Load()
}
