package table

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ndn-fwd/corefwd/ndn"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// Insert creates one new PIT entry for a never-seen (name, selector-set)
// pair, and returns the same entry again without creating a duplicate on
// a second identical Insert.
func TestPitInsertDedupesBySelectors(t *testing.T) {
	pit := NewPIT(NewNameTree(), fixedClock{time.Now()})
	i := &ndn.Interest{Name: ndn.NameFromStr("/a/b"), CanBePrefix: true, MustBeFresh: true}

	e1, created1 := pit.Insert(i)
	e2, created2 := pit.Insert(i)

	assert.True(t, created1)
	assert.False(t, created2)
	assert.Same(t, e1, e2)
}

// Interests with the same name but different selector sets get distinct
// PIT entries at the same NameTree node.
func TestPitInsertSeparatesBySelectors(t *testing.T) {
	pit := NewPIT(NewNameTree(), fixedClock{time.Now()})
	plain := &ndn.Interest{Name: ndn.NameFromStr("/a")}
	fresh := &ndn.Interest{Name: ndn.NameFromStr("/a"), MustBeFresh: true}

	e1, _ := pit.Insert(plain)
	e2, _ := pit.Insert(fresh)

	assert.NotSame(t, e1, e2)
}

// InsertOrUpdateInRecord reports the previous nonce on a retransmission
// from the same face, and leaves the record count unchanged.
func TestPitInsertOrUpdateInRecordTracksPreviousNonce(t *testing.T) {
	pit := NewPIT(NewNameTree(), fixedClock{time.Now()})
	i := &ndn.Interest{Name: ndn.NameFromStr("/a"), Nonce: 1}
	e, _ := pit.Insert(i)

	_, existed1, _ := e.InsertOrUpdateInRecord(10, i, time.Now())
	assert.False(t, existed1)

	i.Nonce = 2
	r, existed2, prevNonce := e.InsertOrUpdateInRecord(10, i, time.Now())
	assert.True(t, existed2)
	assert.Equal(t, uint32(1), prevNonce)
	assert.Equal(t, uint32(2), r.LastNonce)
	assert.Len(t, e.InRecords, 1)
}

// FindDuplicateNonce classifies a repeated nonce against in- and
// out-records relative to the observing face.
func TestFindDuplicateNonceClassification(t *testing.T) {
	pit := NewPIT(NewNameTree(), fixedClock{time.Now()})
	i := &ndn.Interest{Name: ndn.NameFromStr("/a"), Nonce: 7}
	e, _ := pit.Insert(i)

	e.InsertOrUpdateInRecord(10, i, time.Now())
	e.InsertOrUpdateOutRecord(20, i, time.Now())

	assert.Equal(t, DupNonceInSame|DupNonceOutOther, FindDuplicateNonce(e, 7, 10))
	assert.Equal(t, DupNonceInOther|DupNonceOutOther, FindDuplicateNonce(e, 7, 99))
	assert.Equal(t, 0, FindDuplicateNonce(e, 123, 10))

	other := &ndn.Interest{Name: ndn.NameFromStr("/a"), Nonce: 7}
	e.InsertOrUpdateOutRecord(10, other, time.Now())
	mask := FindDuplicateNonce(e, 7, 10)
	assert.NotZero(t, mask&DupNonceInSame)
	assert.NotZero(t, mask&DupNonceOutSame)
}

// Erase removes the entry from its NameTree node and erases the node
// itself once empty.
func TestPitEraseDropsEmptyNode(t *testing.T) {
	pit := NewPIT(NewNameTree(), fixedClock{time.Now()})
	i := &ndn.Interest{Name: ndn.NameFromStr("/a/b")}
	e, _ := pit.Insert(i)

	pit.Erase(e)

	assert.Nil(t, pit.Find(i))
}

// Size tracks the number of live PIT entries across inserts (including a
// deduped re-insert, which must not double-count) and erases, the count
// the `status/general` dataset reports as NPitEntries.
func TestPitSizeTracksInsertAndErase(t *testing.T) {
	pit := NewPIT(NewNameTree(), fixedClock{time.Now()})
	assert.Equal(t, 0, pit.Size())

	a := &ndn.Interest{Name: ndn.NameFromStr("/a")}
	b := &ndn.Interest{Name: ndn.NameFromStr("/b")}
	eA, _ := pit.Insert(a)
	pit.Insert(b)
	assert.Equal(t, 2, pit.Size())

	pit.Insert(a) // dedupe: same name and selector set as eA
	assert.Equal(t, 2, pit.Size())

	pit.Erase(eA)
	assert.Equal(t, 1, pit.Size())
}

// FindAllDataMatches returns PIT entries whose prefix (for CanBePrefix
// entries) or exact name (otherwise) is satisfied by the Data.
func TestPitFindAllDataMatches(t *testing.T) {
	pit := NewPIT(NewNameTree(), fixedClock{time.Now()})
	prefixInterest := &ndn.Interest{Name: ndn.NameFromStr("/a"), CanBePrefix: true}
	exactInterest := &ndn.Interest{Name: ndn.NameFromStr("/a/b"), CanBePrefix: false}
	otherInterest := &ndn.Interest{Name: ndn.NameFromStr("/z"), CanBePrefix: true}

	pePrefix, _ := pit.Insert(prefixInterest)
	peExact, _ := pit.Insert(exactInterest)
	pit.Insert(otherInterest)

	matches := pit.FindAllDataMatches(&ndn.Data{Name: ndn.NameFromStr("/a/b")})

	assert.Contains(t, matches, pePrefix)
	assert.Contains(t, matches, peExact)
	assert.Len(t, matches, 2)
}

// CancelTimers is idempotent and safe to call on an entry that never had
// timers scheduled.
func TestPitEntryCancelTimersNoop(t *testing.T) {
	pit := NewPIT(NewNameTree(), fixedClock{time.Now()})
	e, _ := pit.Insert(&ndn.Interest{Name: ndn.NameFromStr("/a")})
	assert.NotPanics(t, func() { e.CancelTimers() })
}
