package catalog

import (
	"sync"
	"sync/atomic"
)

// Phase identifies one independently-completable stage of derived-data
// computation. Values combine as a bitmask.
type Phase uint32

const (
	PhaseSortedList Phase = 1 << iota
	PhaseRootCount
	PhaseKeyShortName
	PhaseKeyDescription
	PhaseKeyManufDesc
	PhaseKeyDefaultDesc
	PhaseKeyManufDefaultDesc
	PhaseFilterData

	PhaseNone Phase = 0
)

// Gate tracks which phases the build worker has published. Publish is the
// sole mutator and happens-before any Ready observation of the same bits.
// A bit, once set, stays set until the owning service resets the gate after
// joining the worker.
type Gate struct {
	mu    sync.Mutex
	cond  *sync.Cond
	avail atomic.Uint32
}

func NewGate() *Gate {
	g := &Gate{}
	g.cond = sync.NewCond(&g.mu)
	return g
}

// Publish marks the given phases complete and wakes all waiters.
func (g *Gate) Publish(p Phase) {
	g.mu.Lock()
	g.avail.Or(uint32(p))
	g.cond.Broadcast()
	g.mu.Unlock()
}

// Ready reports whether every requested phase has been published. Lock-free.
func (g *Gate) Ready(p Phase) bool {
	return Phase(g.avail.Load())&p == p
}

// Wait blocks the caller until every requested phase has been published.
// Never called by the build worker itself.
func (g *Gate) Wait(p Phase) {
	if g.Ready(p) {
		return
	}
	g.mu.Lock()
	for !g.Ready(p) {
		g.cond.Wait()
	}
	g.mu.Unlock()
}

// clear drops every published bit. Only the owning service calls this,
// after the worker has been joined.
func (g *Gate) clear() {
	g.mu.Lock()
	g.avail.Store(0)
	g.mu.Unlock()
}
