package table

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ndn-fwd/corefwd/ndn"
)

// FindLongestPrefixMatch on an empty FIB always falls back to the root
// sentinel entry rather than returning nil.
func TestFibFindLongestPrefixMatchFallsBackToRoot(t *testing.T) {
	fib := NewFIB(NewNameTree())
	entry := fib.FindLongestPrefixMatch(ndn.NameFromStr("/a/b/c"))
	assert.NotNil(t, entry)
	assert.True(t, entry.Name().Equal(ndn.Name{}))
}

// AddNextHop keeps next hops sorted ascending by cost, breaking ties by
// ascending face id.
func TestFibNextHopsSortedByCostThenFace(t *testing.T) {
	fib := NewFIB(NewNameTree())
	entry, _ := fib.Insert(ndn.NameFromStr("/a"))

	fib.AddNextHop(entry, 20, 10)
	fib.AddNextHop(entry, 10, 10)
	fib.AddNextHop(entry, 30, 5)

	nh := entry.NextHops()
	assert.Len(t, nh, 3)
	assert.Equal(t, uint64(30), nh[0].Nexthop)
	assert.Equal(t, uint64(10), nh[1].Nexthop)
	assert.Equal(t, uint64(20), nh[2].Nexthop)
}

// AddNextHop on an already-present face updates its cost in place rather
// than appending a duplicate.
func TestFibAddNextHopUpdatesExistingCost(t *testing.T) {
	fib := NewFIB(NewNameTree())
	entry, _ := fib.Insert(ndn.NameFromStr("/a"))

	fib.AddNextHop(entry, 10, 10)
	fib.AddNextHop(entry, 10, 1)

	assert.Len(t, entry.NextHops(), 1)
	assert.Equal(t, uint64(1), entry.NextHops()[0].Cost)
}

// RemoveNextHop erases a now-empty, non-root entry from the tree so a
// later FindLongestPrefixMatch falls through to a shallower entry.
func TestFibRemoveNextHopErasesEmptyEntry(t *testing.T) {
	fib := NewFIB(NewNameTree())
	entry, _ := fib.Insert(ndn.NameFromStr("/a/b"))
	fib.AddNextHop(entry, 10, 1)

	fib.RemoveNextHop(entry, 10)

	match := fib.FindLongestPrefixMatch(ndn.NameFromStr("/a/b/c"))
	assert.True(t, match.Name().Equal(ndn.Name{}))
}

// RemoveNextHopFromAllEntries removes a face from every FIB entry at
// once, as happens when that face is destroyed.
func TestFibRemoveNextHopFromAllEntries(t *testing.T) {
	fib := NewFIB(NewNameTree())
	a, _ := fib.Insert(ndn.NameFromStr("/a"))
	b, _ := fib.Insert(ndn.NameFromStr("/b"))
	fib.AddNextHop(a, 10, 1)
	fib.AddNextHop(b, 10, 1)
	fib.AddNextHop(b, 20, 1)

	fib.RemoveNextHopFromAllEntries(10)

	assert.False(t, a.HasNextHops())
	assert.Len(t, b.NextHops(), 1)
	assert.Equal(t, uint64(20), b.NextHops()[0].Nexthop)
}

// GetAllEntries only reports entries that currently have at least one
// next hop, excluding the root sentinel and any now-empty entry.
func TestFibGetAllEntriesOnlyWithNextHops(t *testing.T) {
	fib := NewFIB(NewNameTree())
	withHop, _ := fib.Insert(ndn.NameFromStr("/a"))
	fib.AddNextHop(withHop, 1, 1)
	fib.Insert(ndn.NameFromStr("/b")) // no next hop

	entries := fib.GetAllEntries()
	assert.Len(t, entries, 1)
	assert.True(t, entries[0].Name().Equal(ndn.NameFromStr("/a")))
}
