package fw

import (
	"github.com/ndn-fwd/corefwd/ndn"
	"github.com/ndn-fwd/corefwd/table"
)

// BestRouteStrategy forwards each Interest to the single lowest-cost next
// hop, only retransmitting once an out-record to that hop has expired.
// This is the default strategy installed at `/`.
type BestRouteStrategy struct {
	StrategyBase
}

func (s *BestRouteStrategy) AfterReceiveInterest(inFace uint64, interest *ndn.Interest, pitEntry *table.PitEntry) {
	fibEntry := s.LookupFib(pitEntry)
	nexthops := fibEntry.NextHops()
	if len(nexthops) == 0 {
		return
	}

	now := s.fwd.rt.Clock.Now()
	for _, nh := range nexthops {
		if nh.Nexthop == inFace {
			continue
		}
		if out := pitEntry.GetOutRecord(nh.Nexthop); out != nil && out.Expiry.After(now) {
			// already forwarded and still pending; best-route does not retry early
			return
		}
		s.SendInterest(pitEntry, nh.Nexthop, false)
		return
	}
}
