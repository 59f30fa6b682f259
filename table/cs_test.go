package table

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ndn-fwd/corefwd/ndn"
)

// Insert then Find round-trips an exact-name lookup.
func TestCsInsertFindExact(t *testing.T) {
	cs := NewCS(fixedClock{time.Now()}, 10)
	data := &ndn.Data{Name: ndn.NameFromStr("/a/b"), FreshnessPeriod: time.Second}
	cs.Insert(data, false)

	var hitData *ndn.Data
	cs.Find(&ndn.Interest{Name: ndn.NameFromStr("/a/b")}, func(_ *ndn.Interest, d *ndn.Data) { hitData = d }, func(*ndn.Interest) { t.Fatal("expected hit") })

	assert.NotNil(t, hitData)
	assert.True(t, hitData.Name.Equal(data.Name))
}

// CanBePrefix matches any cached Data under the queried prefix, not just
// an exact name.
func TestCsFindCanBePrefix(t *testing.T) {
	cs := NewCS(fixedClock{time.Now()}, 10)
	cs.Insert(&ndn.Data{Name: ndn.NameFromStr("/a/b/v1"), FreshnessPeriod: time.Second}, false)

	hit := false
	cs.Find(&ndn.Interest{Name: ndn.NameFromStr("/a/b"), CanBePrefix: true}, func(*ndn.Interest, *ndn.Data) { hit = true }, func(*ndn.Interest) {})
	assert.True(t, hit)
}

// MustBeFresh rejects a cached entry whose freshness period has elapsed.
func TestCsFindMustBeFreshRejectsStale(t *testing.T) {
	clock := &mutableClock{t: time.Now()}
	cs := NewCS(clock, 10)
	cs.Insert(&ndn.Data{Name: ndn.NameFromStr("/a"), FreshnessPeriod: time.Second}, false)
	clock.t = clock.t.Add(2 * time.Second)

	missed := false
	cs.Find(&ndn.Interest{Name: ndn.NameFromStr("/a"), MustBeFresh: true}, func(*ndn.Interest, *ndn.Data) { t.Fatal("expected miss") }, func(*ndn.Interest) { missed = true })
	assert.True(t, missed)
}

// Disabling serve forces every lookup to miss regardless of content.
func TestCsServeDisabled(t *testing.T) {
	cs := NewCS(fixedClock{time.Now()}, 10)
	cs.Insert(&ndn.Data{Name: ndn.NameFromStr("/a"), FreshnessPeriod: time.Second}, false)
	cs.EnableServe(false)

	missed := false
	cs.Find(&ndn.Interest{Name: ndn.NameFromStr("/a")}, func(*ndn.Interest, *ndn.Data) { t.Fatal("expected miss") }, func(*ndn.Interest) { missed = true })
	assert.True(t, missed)
}

// Disabling admit makes Insert a no-op.
func TestCsAdmitDisabled(t *testing.T) {
	cs := NewCS(fixedClock{time.Now()}, 10)
	cs.EnableAdmit(false)
	cs.Insert(&ndn.Data{Name: ndn.NameFromStr("/a"), FreshnessPeriod: time.Second}, false)

	assert.Equal(t, 0, cs.Size())
}

// Eviction prefers unsolicited entries over solicited ones, oldest first
// within each queue, once capacity is exceeded.
func TestCsEvictsUnsolicitedFirst(t *testing.T) {
	cs := NewCS(fixedClock{time.Now()}, 2)
	cs.Insert(&ndn.Data{Name: ndn.NameFromStr("/solicited"), FreshnessPeriod: time.Second}, false)
	cs.Insert(&ndn.Data{Name: ndn.NameFromStr("/unsolicited"), FreshnessPeriod: time.Second}, true)
	cs.Insert(&ndn.Data{Name: ndn.NameFromStr("/solicited2"), FreshnessPeriod: time.Second}, false)

	assert.Equal(t, 2, cs.Size())
	missed := false
	cs.Find(&ndn.Interest{Name: ndn.NameFromStr("/unsolicited")}, func(*ndn.Interest, *ndn.Data) { t.Fatal("should have been evicted") }, func(*ndn.Interest) { missed = true })
	assert.True(t, missed)
}

// Erase removes at most limit entries under a prefix and reports how many
// it actually removed; ErasePreview then reports whether more remain.
func TestCsEraseRespectsLimitAndPreview(t *testing.T) {
	cs := NewCS(fixedClock{time.Now()}, 10)
	cs.Insert(&ndn.Data{Name: ndn.NameFromStr("/a/1"), FreshnessPeriod: time.Second}, false)
	cs.Insert(&ndn.Data{Name: ndn.NameFromStr("/a/2"), FreshnessPeriod: time.Second}, false)
	cs.Insert(&ndn.Data{Name: ndn.NameFromStr("/a/3"), FreshnessPeriod: time.Second}, false)

	var erased int
	cs.Erase(ndn.NameFromStr("/a"), 2, func(n int) { erased = n })

	assert.Equal(t, 2, erased)
	assert.True(t, cs.ErasePreview(ndn.NameFromStr("/a")))
}
