package fw

import (
	"github.com/ndn-fwd/corefwd/ndn"
	"github.com/ndn-fwd/corefwd/table"
)

// SelfLearningStrategy records which face Data for a prefix was last seen
// on in Measurements, and prefers that face on the next Interest for the
// same prefix, falling back to the FIB next hops it doesn't yet have a
// learned face for. Its specifics are out of scope beyond the Strategy
// interface; this is a minimal, correct instance of the
// interface rather than a full self-learning implementation.
type SelfLearningStrategy struct {
	StrategyBase
}

type selfLearningRecord struct {
	face uint64
}

func (s *SelfLearningStrategy) AfterReceiveInterest(inFace uint64, interest *ndn.Interest, pitEntry *table.PitEntry) {
	if m := s.fwd.Measurements.FindLongestPrefixMatch(pitEntry.Name()); m != nil {
		if rec, ok := m.Data.(*selfLearningRecord); ok && rec.face != inFace {
			s.SendInterest(pitEntry, rec.face, false)
			return
		}
	}

	fibEntry := s.LookupFib(pitEntry)
	for _, nh := range fibEntry.NextHops() {
		if nh.Nexthop == inFace {
			continue
		}
		s.SendInterest(pitEntry, nh.Nexthop, false)
		return
	}
}

func (s *SelfLearningStrategy) BeforeSatisfyInterest(pitEntry *table.PitEntry, inFace uint64, data *ndn.Data) {
	m := s.fwd.Measurements.GetOrCreate(pitEntry.Name())
	m.Data = &selfLearningRecord{face: inFace}
}
