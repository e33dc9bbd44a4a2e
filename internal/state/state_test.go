package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "loading", Loading.String())
	assert.Equal(t, "succeeded", Succeeded.String())
	assert.Equal(t, "failed", Failed.String())
}

func TestInflightDeleteOnEnd(t *testing.T) {
	f := NewInflight()
	f.Begin("p1")
	assert.True(t, f.Has("p1"))
	assert.Equal(t, 1, f.Len())

	f.End("p1")
	assert.False(t, f.Has("p1"))
	// The identifier is removed, not set false.
	assert.Equal(t, 0, f.Len())
}

func TestEntryFreshBoundary(t *testing.T) {
	now := time.Now()
	e := NewEntry("data", now)

	assert.True(t, e.Fresh(ItemWindow, now.Add(299*time.Second)))
	assert.False(t, e.Fresh(ItemWindow, now.Add(301*time.Second)))
}

func TestZeroEntryNeverFresh(t *testing.T) {
	var e Entry[string]
	assert.False(t, e.Fresh(ItemWindow, time.Now()))
}

func TestSeqGuardDiscardsStaleResolution(t *testing.T) {
	g := NewSeqGuard()

	a := g.Begin("order-1")
	b := g.Begin("order-1")
	assert.Less(t, a, b)

	// B's round-trip completes first and wins.
	assert.True(t, g.Resolve("order-1", b))
	// A resolves afterwards and must be discarded.
	assert.False(t, g.Resolve("order-1", a))
}

func TestSeqGuardKeysIndependent(t *testing.T) {
	g := NewSeqGuard()

	a := g.Begin("p1")
	b := g.Begin("p2")
	assert.True(t, g.Resolve("p2", b))
	assert.True(t, g.Resolve("p1", a))
}

func TestSeqGuardReset(t *testing.T) {
	g := NewSeqGuard()
	s := g.Begin("k")
	assert.True(t, g.Resolve("k", s))

	g.Reset()
	s2 := g.Begin("k")
	assert.Equal(t, uint64(1), s2)
	assert.True(t, g.Resolve("k", s2))
}
