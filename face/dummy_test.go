package face

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ndn-fwd/corefwd/ndn"
)

// SendInterest/Data/Nack record the packet and bump the face's outgoing
// counters instead of touching any transport.
func TestDummyFaceRecordsSentPackets(t *testing.T) {
	f := NewDummyFace(Local)
	i := &ndn.Interest{Name: ndn.NameFromStr("/a")}
	d := &ndn.Data{Name: ndn.NameFromStr("/a")}
	n := &ndn.Nack{Interest: *i}

	f.SendInterest(i)
	f.SendData(d)
	f.SendNack(n)

	assert.Equal(t, []*ndn.Interest{i}, f.SentInterests)
	assert.Equal(t, []*ndn.Data{d}, f.SentData)
	assert.Equal(t, []*ndn.Nack{n}, f.SentNacks)
	assert.Equal(t, Counters{NOutInterests: 1, NOutData: 1, NOutNacks: 1}, f.Counters())
}

// ReceiveInterest tags the Interest with the face's own id and invokes
// whatever handler was installed via OnReceiveInterest.
func TestDummyFaceReceiveInterestInvokesHandler(t *testing.T) {
	f := NewDummyFace(Local)
	f.SetId(42)

	var got *ndn.Interest
	f.OnReceiveInterest(func(i *ndn.Interest) { got = i })

	i := &ndn.Interest{Name: ndn.NameFromStr("/a")}
	f.ReceiveInterest(i)

	assert.Same(t, i, got)
	assert.Equal(t, uint64(42), i.IncomingFaceId)
	assert.Equal(t, uint64(1), f.Counters().NInInterests)
}

// NullFace drops everything sent to it and only ever reports permanent
// persistency.
func TestNullFaceDropsEverything(t *testing.T) {
	f := NewNullFace()
	f.SendInterest(&ndn.Interest{})
	assert.Equal(t, uint64(1), f.Counters().NOutInterests)

	assert.True(t, f.SetPersistency(PersistencyPermanent))
	assert.False(t, f.SetPersistency(PersistencyOnDemand))
}
