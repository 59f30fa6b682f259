package table

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ndn-fwd/corefwd/ndn"
)

// NlsrReadvertiser mirrors a newly registered origin=client route as an
// origin=nlsr route at the configured cost, and removes the mirror on
// withdrawal.
func TestNlsrReadvertiserMirrorsClientRoute(t *testing.T) {
	rib, fib, updater := newRibHarness()
	rv := NewNlsrReadvertiser(rib, updater, nil, 15, 0)
	rib.AddReadvertiser(rv)

	succeeded := false
	updater.Apply(&RibUpdate{
		Action: RibUpdateRegister,
		Name:   ndn.NameFromStr("/a"),
		Route:  &Route{FaceId: 10, Origin: OriginClient, Cost: 20},
	}, func() { succeeded = true }, func(int, string) { t.Fatal("expected success") })
	assert.True(t, succeeded)

	entry := fib.FindLongestPrefixMatch(ndn.NameFromStr("/a"))
	var sawNlsr bool
	for _, nh := range entry.NextHops() {
		if nh.Nexthop == 10 {
			sawNlsr = true
			// the mirrored origin=nlsr route's lower cost wins the min-cost
			// merge across routes sharing the same face.
			assert.Equal(t, uint64(15), nh.Cost)
		}
	}
	assert.True(t, sawNlsr, "expected the mirrored origin=nlsr route to contribute a next hop for face 10")

	ribEntry := rib.findEntry(ndn.NameFromStr("/a"))
	assert.NotNil(t, ribEntry)
	assert.Len(t, ribEntry.Routes, 2)
}

// A non-client route (e.g. static) is never mirrored.
func TestNlsrReadvertiserIgnoresNonClientOrigin(t *testing.T) {
	rib, _, updater := newRibHarness()
	rv := NewNlsrReadvertiser(rib, updater, nil, 15, 0)
	rib.AddReadvertiser(rv)

	updater.Apply(&RibUpdate{
		Action: RibUpdateRegister,
		Name:   ndn.NameFromStr("/a"),
		Route:  &Route{FaceId: 10, Origin: OriginStatic, Cost: 1},
	}, func() {}, func(int, string) { t.Fatal("expected success") })

	ribEntry := rib.findEntry(ndn.NameFromStr("/a"))
	assert.NotNil(t, ribEntry)
	assert.Len(t, ribEntry.Routes, 1)
}
