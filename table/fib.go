package table

import (
	"golang.org/x/exp/slices"

	"github.com/ndn-fwd/corefwd/ndn"
)

// FibNextHopEntry is one (faceId, cost) next hop of a FIB entry.
type FibNextHopEntry struct {
	Nexthop uint64
	Cost    uint64
}

// FibEntry is a FIB prefix and its next-hop set. Next hops
// are kept sorted ascending by cost, ties broken by ascending faceId - the
// order strategies observe.
type FibEntry struct {
	node     *Node
	nexthops []*FibNextHopEntry
}

// Name returns the entry's prefix.
func (e *FibEntry) Name() ndn.Name { return e.node.Name }

// NextHops returns the entry's next hops in tie-break order.
func (e *FibEntry) NextHops() []*FibNextHopEntry { return e.nexthops }

// HasNextHops reports whether the entry has at least one next hop.
func (e *FibEntry) HasNextHops() bool { return len(e.nexthops) > 0 }

func (e *FibEntry) sort() {
	slices.SortFunc(e.nexthops, func(a, b *FibNextHopEntry) int {
		if a.Cost != b.Cost {
			if a.Cost < b.Cost {
				return -1
			}
			return 1
		}
		switch {
		case a.Nexthop < b.Nexthop:
			return -1
		case a.Nexthop > b.Nexthop:
			return 1
		default:
			return 0
		}
	})
}

// FIB is the longest-prefix-match table of name prefixes to next-hop sets.
type FIB struct {
	tree *NameTree
	root *FibEntry // sentinel entry at `/`, never erased
}

// NewFIB creates an empty FIB backed by tree. The root entry (prefix `/`,
// no next hops) always exists so FindLongestPrefixMatch never returns nil.
func NewFIB(tree *NameTree) *FIB {
	f := &FIB{tree: tree}
	root := tree.Root()
	f.root = &FibEntry{node: root}
	root.Fib = f.root
	return f
}

// Insert returns the FIB entry for prefix, creating it (with no next hops)
// if absent.
func (f *FIB) Insert(prefix ndn.Name) (*FibEntry, bool) {
	node := f.tree.Lookup(prefix)
	if node.Fib != nil {
		return node.Fib, false
	}
	entry := &FibEntry{node: node}
	node.Fib = entry
	return entry, true
}

// Root returns the sentinel entry at `/`, used by forwarding-hint
// resolution to detect "no default-free zone present".
func (f *FIB) Root() *FibEntry { return f.root }

// FindLongestPrefixMatch returns the FIB entry with the longest prefix of
// name that has a FIB entry, or the root sentinel if none does. Never
// returns nil.
func (f *FIB) FindLongestPrefixMatch(name ndn.Name) *FibEntry {
	node := f.tree.FindLongestPrefixMatch(name, func(n *Node) bool { return n.Fib != nil })
	if node == nil {
		return f.root
	}
	return node.Fib
}

// AddNextHop inserts or updates a (faceId, cost) next hop on entry,
// keeping the next-hop slice sorted.
func (f *FIB) AddNextHop(entry *FibEntry, faceId uint64, cost uint64) {
	for _, nh := range entry.nexthops {
		if nh.Nexthop == faceId {
			nh.Cost = cost
			entry.sort()
			return
		}
	}
	entry.nexthops = append(entry.nexthops, &FibNextHopEntry{Nexthop: faceId, Cost: cost})
	entry.sort()
}

// RemoveNextHop removes faceId's next hop from entry. If the entry becomes
// empty and is not the root sentinel, it is erased from the tree.
func (f *FIB) RemoveNextHop(entry *FibEntry, faceId uint64) {
	for i, nh := range entry.nexthops {
		if nh.Nexthop == faceId {
			entry.nexthops = append(entry.nexthops[:i], entry.nexthops[i+1:]...)
			break
		}
	}
	if entry == f.root {
		return
	}
	if len(entry.nexthops) == 0 {
		entry.node.Fib = nil
		f.tree.EraseIfEmpty(entry.node)
	}
}

// RemoveNextHopFromAllEntries removes faceId from every FIB entry,
// invoked when a face is destroyed.
func (f *FIB) RemoveNextHopFromAllEntries(faceId uint64) {
	for _, entry := range f.allEntries() {
		f.RemoveNextHop(entry, faceId)
	}
}

// allEntries walks the whole tree collecting every attached FIB entry,
// including the root sentinel.
func (f *FIB) allEntries() []*FibEntry {
	var out []*FibEntry
	var walk func(n *Node)
	walk = func(n *Node) {
		if n.Fib != nil {
			out = append(out, n.Fib)
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(f.tree.Root())
	return out
}

// GetAllEntries returns every FIB entry with at least one next hop, for
// the `fib/list` status dataset.
func (f *FIB) GetAllEntries() []*FibEntry {
	var out []*FibEntry
	for _, e := range f.allEntries() {
		if e.HasNextHops() {
			out = append(out, e)
		}
	}
	return out
}
