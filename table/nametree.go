// Package table implements the forwarder's tables: the NameTree shared
// index, FIB, PIT, CS, DeadNonceList, StrategyChoice, Measurements, and the
// RIB plus FibUpdater.
package table

import (
	"github.com/ndn-fwd/corefwd/ndn"
)

// Node is a NameTree node: one per distinct name prefix that has at least
// one attached FIB/PIT/Measurements/StrategyChoice entry, or that lies on
// the path to one. Each node carries a stable integer Id, but nodes are
// linked by pointers: parent and children are *Node, and FIB/PIT/
// Measurements/StrategyChoice entries hold a *Node back-reference, not the Id.
type Node struct {
	Id     uint64
	Name   ndn.Name
	parent *Node

	children map[uint64]*Node // child component hash -> node (collisions resolved by Name.Equal)

	Fib          *FibEntry
	Pit          []*PitEntry
	Measurements *MeasurementsEntry
	Strategy     *StrategyChoiceEntry
}

// empty reports whether the node has no attachments of any kind.
func (n *Node) empty() bool {
	return n.Fib == nil && len(n.Pit) == 0 && n.Measurements == nil && n.Strategy == nil
}

// Parent returns the node's parent, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// NameTree is the shared lexical index: one node per distinct name
// prefix, referenced by FIB/PIT/Measurements/StrategyChoice. Lookup
// is O(name depth): a hash index keyed by full name lets Lookup jump
// straight to an existing node, and FindLongestPrefixMatch walks
// candidate prefixes longest-to-shortest using the same index.
type NameTree struct {
	byHash map[uint64][]*Node // full-name hash -> colliding nodes
	root   *Node
	nextId uint64
}

// NewNameTree constructs an empty tree with just the root node (name `/`).
func NewNameTree() *NameTree {
	nt := &NameTree{byHash: make(map[uint64][]*Node)}
	nt.root = &Node{Id: 0, Name: ndn.Name{}, children: make(map[uint64]*Node)}
	nt.nextId = 1
	nt.index(nt.root)
	return nt
}

// Root returns the tree's root node (the entry for name `/`).
func (nt *NameTree) Root() *Node { return nt.root }

// Size returns the number of nodes currently in the tree, reported by the
// `status/general` dataset.
func (nt *NameTree) Size() int {
	n := 0
	for _, bucket := range nt.byHash {
		n += len(bucket)
	}
	return n
}

func (nt *NameTree) index(n *Node) {
	h := n.Name.Hash()
	nt.byHash[h] = append(nt.byHash[h], n)
}

func (nt *NameTree) unindex(n *Node) {
	h := n.Name.Hash()
	bucket := nt.byHash[h]
	for i, c := range bucket {
		if c == n {
			nt.byHash[h] = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	if len(nt.byHash[h]) == 0 {
		delete(nt.byHash, h)
	}
}

// findExact returns the node for name if it already exists, without
// creating it.
func (nt *NameTree) findExact(name ndn.Name) *Node {
	if len(name) == 0 {
		return nt.root
	}
	h := name.Hash()
	for _, n := range nt.byHash[h] {
		if n.Name.Equal(name) {
			return n
		}
	}
	return nil
}

// Lookup returns the node for name, creating it and any missing ancestors
// on demand.
func (nt *NameTree) Lookup(name ndn.Name) *Node {
	if existing := nt.findExact(name); existing != nil {
		return existing
	}

	parent := nt.root
	for depth := 1; depth <= len(name); depth++ {
		prefix := name.Prefix(depth)
		if node := nt.findExact(prefix); node != nil {
			parent = node
			continue
		}
		node := &Node{
			Id:       nt.nextId,
			Name:     prefix.Clone(),
			parent:   parent,
			children: make(map[uint64]*Node),
		}
		nt.nextId++
		parent.children[prefix.At(-1).Hash()] = node
		nt.index(node)
		parent = node
	}
	return parent
}

// FindLongestPrefixMatch returns the deepest ancestor of name (name itself
// included) for which pred holds, or nil if none does. This backs both
// FIB and StrategyChoice longest-prefix lookups.
func (nt *NameTree) FindLongestPrefixMatch(name ndn.Name, pred func(*Node) bool) *Node {
	for depth := len(name); depth >= 0; depth-- {
		node := nt.findExact(name.Prefix(depth))
		if node != nil && pred(node) {
			return node
		}
	}
	return nil
}

// FindAllMatches returns every existing ancestor of name, from longest to
// shortest, name itself included if it exists. Used by PIT Data matching.
func (nt *NameTree) FindAllMatches(name ndn.Name) []*Node {
	var out []*Node
	for depth := len(name); depth >= 0; depth-- {
		if node := nt.findExact(name.Prefix(depth)); node != nil {
			out = append(out, node)
		}
	}
	return out
}

// EraseIfEmpty drops node and walks up the parent chain dropping every
// ancestor that becomes empty as a result, stopping at the root (which is
// never dropped).
func (nt *NameTree) EraseIfEmpty(n *Node) {
	for n != nil && n != nt.root {
		if !n.empty() || len(n.children) != 0 {
			return
		}
		parent := n.parent
		delete(parent.children, n.Name.At(-1).Hash())
		nt.unindex(n)
		n = parent
	}
}
