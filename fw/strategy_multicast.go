package fw

import (
	"time"

	"github.com/ndn-fwd/corefwd/ndn"
	"github.com/ndn-fwd/corefwd/table"
)

// multicastSuppressionTime is how long a retransmission of an Interest
// already forwarded is suppressed.
const multicastSuppressionTime = 500 * time.Millisecond

// MulticastStrategy forwards every Interest to every FIB next hop,
// suppressing a retransmission (an Interest whose nonce differs from an
// out-record's last nonce) that arrives within multicastSuppressionTime of
// that out-record's last renewal.
type MulticastStrategy struct {
	StrategyBase
}

func (s *MulticastStrategy) AfterReceiveInterest(inFace uint64, interest *ndn.Interest, pitEntry *table.PitEntry) {
	fibEntry := s.LookupFib(pitEntry)
	nexthops := fibEntry.NextHops()
	if len(nexthops) == 0 {
		return
	}

	now := s.fwd.rt.Clock.Now()
	for _, out := range pitEntry.OutRecords {
		if out.LastNonce != interest.Nonce && out.LastRenewed.Add(multicastSuppressionTime).After(now) {
			return
		}
	}

	for _, nh := range nexthops {
		s.SendInterest(pitEntry, nh.Nexthop, false)
	}
}
