package fw

import (
	"github.com/ndn-fwd/corefwd/ndn"
	"github.com/ndn-fwd/corefwd/table"
)

// AccessStrategy is aimed at a single access-network uplink with a small
// number of next hops: it forwards to every next hop on first try, like
// Multicast, but never retransmits once an out-record exists - suited to
// a stub/last-hop link where retransmission is handled by the link layer
// rather than the strategy. Its specifics are out of scope beyond the
// Strategy interface.
type AccessStrategy struct {
	StrategyBase
}

func (s *AccessStrategy) AfterReceiveInterest(inFace uint64, interest *ndn.Interest, pitEntry *table.PitEntry) {
	if len(pitEntry.OutRecords) > 0 {
		return
	}
	fibEntry := s.LookupFib(pitEntry)
	for _, nh := range fibEntry.NextHops() {
		s.SendInterest(pitEntry, nh.Nexthop, false)
	}
}
