package catalog

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGatePublishAndReady(t *testing.T) {
	g := NewGate()

	assert.False(t, g.Ready(PhaseSortedList))
	assert.True(t, g.Ready(PhaseNone))

	g.Publish(PhaseRootCount)
	assert.True(t, g.Ready(PhaseRootCount))
	assert.False(t, g.Ready(PhaseSortedList))
	assert.False(t, g.Ready(PhaseRootCount|PhaseSortedList))

	g.Publish(PhaseSortedList)
	assert.True(t, g.Ready(PhaseRootCount|PhaseSortedList))
}

func TestGateBitsAreMonotonic(t *testing.T) {
	g := NewGate()

	g.Publish(PhaseFilterData)
	for _, p := range []Phase{PhaseSortedList, PhaseKeyShortName, PhaseKeyDescription} {
		g.Publish(p)
		assert.True(t, g.Ready(PhaseFilterData), "earlier bit must survive later publishes")
	}

	g.clear()
	assert.False(t, g.Ready(PhaseFilterData))
}

func TestGateWaitBlocksUntilPublished(t *testing.T) {
	g := NewGate()

	done := make(chan struct{})
	go func() {
		g.Wait(PhaseSortedList | PhaseRootCount)
		close(done)
	}()

	g.Publish(PhaseRootCount)
	select {
	case <-done:
		t.Fatal("Wait returned before all requested phases were published")
	case <-time.After(20 * time.Millisecond):
	}

	g.Publish(PhaseSortedList)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after all requested phases were published")
	}
}

func TestGateConcurrentWaitersOnDifferentSubsets(t *testing.T) {
	g := NewGate()

	phases := []Phase{PhaseRootCount, PhaseSortedList, PhaseFilterData, PhaseKeyShortName}
	var wg sync.WaitGroup
	for _, p := range phases {
		wg.Add(1)
		go func(p Phase) {
			defer wg.Done()
			g.Wait(p)
		}(p)
	}

	for _, p := range phases {
		g.Publish(p)
	}
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("waiters did not all wake")
	}
}

func TestGateWaitReturnsImmediatelyWhenReady(t *testing.T) {
	g := NewGate()
	g.Publish(PhaseSortedList)
	g.Wait(PhaseSortedList) // must not block
}
