package table

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ndn-fwd/corefwd/ndn"
)

// Lookup on a name not yet present creates every missing ancestor node
// along the way, each reachable again by exact lookup afterward.
func TestNameTreeLookupCreatesAncestors(t *testing.T) {
	tree := NewNameTree()
	node := tree.Lookup(ndn.NameFromStr("/a/b/c"))
	assert.True(t, node.Name.Equal(ndn.NameFromStr("/a/b/c")))

	for _, p := range []string{"/a", "/a/b", "/a/b/c"} {
		assert.NotNil(t, tree.findExact(ndn.NameFromStr(p)))
	}
	assert.Same(t, node, tree.findExact(ndn.NameFromStr("/a/b/c")))
}

// Repeated lookups of the same name return the identical node instead of
// creating duplicates.
func TestNameTreeLookupIsIdempotent(t *testing.T) {
	tree := NewNameTree()
	a := tree.Lookup(ndn.NameFromStr("/x/y"))
	b := tree.Lookup(ndn.NameFromStr("/x/y"))
	assert.Same(t, a, b)
}

// FindLongestPrefixMatch returns the deepest ancestor (inclusive) that
// satisfies the predicate, skipping shallower or absent candidates.
func TestNameTreeFindLongestPrefixMatch(t *testing.T) {
	tree := NewNameTree()
	marked := tree.Lookup(ndn.NameFromStr("/a/b"))
	tree.Lookup(ndn.NameFromStr("/a/b/c/d"))

	match := tree.FindLongestPrefixMatch(ndn.NameFromStr("/a/b/c/d"), func(n *Node) bool {
		return n == marked
	})
	assert.Same(t, marked, match)
}

// FindLongestPrefixMatch returns nil when no ancestor (including the
// queried name itself) satisfies the predicate.
func TestNameTreeFindLongestPrefixMatchNoneMatch(t *testing.T) {
	tree := NewNameTree()
	tree.Lookup(ndn.NameFromStr("/a/b/c"))
	match := tree.FindLongestPrefixMatch(ndn.NameFromStr("/a/b/c"), func(n *Node) bool { return false })
	assert.Nil(t, match)
}

// FindAllMatches returns every existing ancestor node longest-to-shortest,
// including the root.
func TestNameTreeFindAllMatches(t *testing.T) {
	tree := NewNameTree()
	tree.Lookup(ndn.NameFromStr("/a/b/c"))

	matches := tree.FindAllMatches(ndn.NameFromStr("/a/b/c/d/e"))
	assert.Len(t, matches, 4) // root, /a, /a/b, /a/b/c
	assert.True(t, matches[0].Name.Equal(ndn.NameFromStr("/a/b/c")))
	assert.True(t, matches[len(matches)-1].Name.Equal(ndn.Name{}))
}

// EraseIfEmpty removes a childless, attachment-free node and bubbles the
// deletion up through now-empty ancestors, stopping at the root.
func TestNameTreeEraseIfEmptyBubblesUp(t *testing.T) {
	tree := NewNameTree()
	leaf := tree.Lookup(ndn.NameFromStr("/a/b/c"))
	tree.EraseIfEmpty(leaf)

	assert.Nil(t, tree.findExact(ndn.NameFromStr("/a/b/c")))
	assert.Nil(t, tree.findExact(ndn.NameFromStr("/a/b")))
	assert.Nil(t, tree.findExact(ndn.NameFromStr("/a")))
	assert.NotNil(t, tree.Root())
}

// Size counts the root plus every node Lookup has created, and drops back
// down as EraseIfEmpty bubbles empty nodes away - the count the
// `status/general` dataset reports as NNameTreeEntries.
func TestNameTreeSizeTracksLookupAndErase(t *testing.T) {
	tree := NewNameTree()
	assert.Equal(t, 1, tree.Size()) // just the root

	leaf := tree.Lookup(ndn.NameFromStr("/a/b/c"))
	assert.Equal(t, 4, tree.Size()) // root, /a, /a/b, /a/b/c

	tree.EraseIfEmpty(leaf)
	assert.Equal(t, 1, tree.Size())
}

// EraseIfEmpty leaves a node alone if it still has attachments or
// children, and does not touch its ancestors either.
func TestNameTreeEraseIfEmptyKeepsAttachedNode(t *testing.T) {
	tree := NewNameTree()
	node := tree.Lookup(ndn.NameFromStr("/a/b"))
	node.Fib = &FibEntry{node: node}
	tree.Lookup(ndn.NameFromStr("/a/b/c"))

	tree.EraseIfEmpty(tree.findExact(ndn.NameFromStr("/a/b/c")))
	tree.EraseIfEmpty(node)

	assert.NotNil(t, tree.findExact(ndn.NameFromStr("/a/b")))
}
