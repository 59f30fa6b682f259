package table

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ndn-fwd/corefwd/ndn"
)

// A (name, nonce) pair is absent until added, then present.
func TestDeadNonceListAddThenHas(t *testing.T) {
	dnl := NewDeadNonceList()
	name := ndn.NameFromStr("/a/b")

	assert.False(t, dnl.Has(name, 42))
	dnl.Add(name, 42)
	assert.True(t, dnl.Has(name, 42))
}

// A different nonce for the same name is tracked independently.
func TestDeadNonceListDistinguishesNonces(t *testing.T) {
	dnl := NewDeadNonceList()
	name := ndn.NameFromStr("/a/b")
	dnl.Add(name, 1)

	assert.True(t, dnl.Has(name, 1))
	assert.False(t, dnl.Has(name, 2))
}

// Mark inserts a marker entry without disturbing membership of real
// entries, and capacity starts at the documented default.
func TestDeadNonceListMarkDoesNotAffectMembership(t *testing.T) {
	dnl := NewDeadNonceList()
	name := ndn.NameFromStr("/a")
	dnl.Add(name, 7)

	dnl.Mark()

	assert.True(t, dnl.Has(name, 7))
	assert.Equal(t, dnlInitialCapacity, dnl.Capacity())
}

// When every sample since the last adjustment exceeded the expected
// marker count, AdjustCapacity shrinks capacity; when every sample was
// below, it grows; both stay within [MIN_CAP, MAX_CAP].
func TestDeadNonceListAdjustCapacityShrinksAndGrows(t *testing.T) {
	dnl := NewDeadNonceList()
	dnl.samples = []int{dnlExpectedMarks + 1, dnlExpectedMarks + 2}
	before := dnl.capacity
	dnl.AdjustCapacity()
	assert.Less(t, dnl.capacity, before)
	assert.GreaterOrEqual(t, dnl.capacity, dnlMinCapacity)

	dnl.samples = []int{0, 1}
	before = dnl.capacity
	dnl.AdjustCapacity()
	assert.Greater(t, dnl.capacity, before)
	assert.LessOrEqual(t, dnl.capacity, dnlMaxCapacity)
}

// With mixed samples (neither uniformly above nor uniformly below the
// expected count), capacity is left unchanged.
func TestDeadNonceListAdjustCapacityMixedSamplesNoChange(t *testing.T) {
	dnl := NewDeadNonceList()
	before := dnl.capacity
	dnl.samples = []int{0, dnlExpectedMarks + 5}
	dnl.AdjustCapacity()
	assert.Equal(t, before, dnl.capacity)
}

// Adding beyond capacity evicts from the FIFO head, dropping the oldest
// entries first.
func TestDeadNonceListEvictsOldestOnOverflow(t *testing.T) {
	dnl := NewDeadNonceList()
	dnl.capacity = 2
	dnl.Add(ndn.NameFromStr("/a"), 1)
	dnl.Add(ndn.NameFromStr("/b"), 2)
	dnl.Add(ndn.NameFromStr("/c"), 3)

	assert.False(t, dnl.Has(ndn.NameFromStr("/a"), 1))
	assert.True(t, dnl.Has(ndn.NameFromStr("/c"), 3))
}
