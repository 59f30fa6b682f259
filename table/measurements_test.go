package table

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ndn-fwd/corefwd/ndn"
)

type mutableClock struct{ t time.Time }

func (c *mutableClock) Now() time.Time { return c.t }

// GetOrCreate makes a fresh entry on first access and returns the same
// entry again on a second access before it expires.
func TestMeasurementsGetOrCreateReusesEntry(t *testing.T) {
	clock := &mutableClock{t: time.Now()}
	m := NewMeasurements(NewNameTree(), clock)

	e1 := m.GetOrCreate(ndn.NameFromStr("/a/b"))
	e1.Data = "scratch"
	e2 := m.GetOrCreate(ndn.NameFromStr("/a/b"))

	assert.Same(t, e1, e2)
	assert.Equal(t, "scratch", e2.Data)
}

// Get purges an entry once its lifetime has elapsed since the last
// access, rather than returning stale data.
func TestMeasurementsGetExpires(t *testing.T) {
	clock := &mutableClock{t: time.Now()}
	m := NewMeasurements(NewNameTree(), clock)
	m.GetOrCreate(ndn.NameFromStr("/a"))

	clock.t = clock.t.Add(DefaultMeasurementsLifetime + time.Second)

	assert.Nil(t, m.Get(ndn.NameFromStr("/a")))
}

// FindLongestPrefixMatch resolves to the deepest unexpired ancestor
// entry.
func TestMeasurementsFindLongestPrefixMatch(t *testing.T) {
	clock := &mutableClock{t: time.Now()}
	m := NewMeasurements(NewNameTree(), clock)
	deep := m.GetOrCreate(ndn.NameFromStr("/a/b"))
	deep.Data = "deep"

	found := m.FindLongestPrefixMatch(ndn.NameFromStr("/a/b/c/d"))
	assert.Same(t, deep, found)
}
