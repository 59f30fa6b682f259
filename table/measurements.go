package table

import (
	"time"

	"github.com/ndn-fwd/corefwd/ndn"
)

// DefaultMeasurementsLifetime is how long a measurements entry survives
// without being touched again before it is purged. Strategies extend this on every write.
const DefaultMeasurementsLifetime = 5 * time.Second

// MeasurementsEntry is per-prefix strategy scratch space. The byte payload
// is owned and interpreted entirely by the strategy that wrote it; the
// table only tracks its expiry.
type MeasurementsEntry struct {
	node    *Node
	Data    any
	expires time.Time
}

// Name returns the entry's prefix.
func (e *MeasurementsEntry) Name() ndn.Name { return e.node.Name }

// Measurements is per-prefix strategy scratch keyed by the shared
// NameTree, expiring entries that go untouched.
type Measurements struct {
	tree  *NameTree
	clock interface{ Now() time.Time }
}

// NewMeasurements constructs an empty Measurements table.
func NewMeasurements(tree *NameTree, clock interface{ Now() time.Time }) *Measurements {
	return &Measurements{tree: tree, clock: clock}
}

// Get returns the measurements entry at prefix if one exists and has not
// expired, purging it (and the NameTree node, if otherwise empty) if it
// has.
func (m *Measurements) Get(prefix ndn.Name) *MeasurementsEntry {
	node := m.tree.Lookup(prefix)
	if node.Measurements == nil {
		return nil
	}
	if m.clock.Now().After(node.Measurements.expires) {
		node.Measurements = nil
		m.tree.EraseIfEmpty(node)
		return nil
	}
	return node.Measurements
}

// GetOrCreate returns the measurements entry at prefix, creating it (with
// a fresh expiry) if absent, and always extends the expiry on access -
// every write "renews the lease".
func (m *Measurements) GetOrCreate(prefix ndn.Name) *MeasurementsEntry {
	node := m.tree.Lookup(prefix)
	if node.Measurements == nil {
		node.Measurements = &MeasurementsEntry{node: node}
	}
	node.Measurements.expires = m.clock.Now().Add(DefaultMeasurementsLifetime)
	return node.Measurements
}

// FindLongestPrefixMatch returns the measurements entry with the longest
// unexpired prefix of name, or nil.
func (m *Measurements) FindLongestPrefixMatch(name ndn.Name) *MeasurementsEntry {
	node := m.tree.FindLongestPrefixMatch(name, func(n *Node) bool {
		return n.Measurements != nil && !m.clock.Now().After(n.Measurements.expires)
	})
	if node == nil {
		return nil
	}
	return node.Measurements
}
