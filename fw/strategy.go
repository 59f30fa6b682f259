package fw

import (
	"github.com/ndn-fwd/corefwd/ndn"
	"github.com/ndn-fwd/corefwd/table"
)

// Strategy is the extension point the Forwarder dispatches to at the five
// trigger points of a pipeline. It embeds table.Strategy
// (Name() string) so a StrategyChoice can hold it without the table
// package importing fw.
type Strategy interface {
	table.Strategy

	AfterReceiveInterest(inFace uint64, interest *ndn.Interest, pitEntry *table.PitEntry)
	AfterContentStoreHit(inFace uint64, interest *ndn.Interest, pitEntry *table.PitEntry, data *ndn.Data)
	AfterReceiveNack(inFace uint64, nack *ndn.Nack, pitEntry *table.PitEntry)
	BeforeSatisfyInterest(pitEntry *table.PitEntry, inFace uint64, data *ndn.Data)
	BeforeExpirePendingInterest(pitEntry *table.PitEntry)

	// bind is unexported so only strategies in this package can satisfy
	// Strategy; the registry calls it once, right after construction, to
	// hand the strategy its Forwarder back-reference.
	bind(fwd *Forwarder, name string)
}

// StrategyBase supplies the Forwarder back-reference and the Name()/
// helper-method surface every concrete strategy embeds: SendInterest/
// SendData/SendNack/SendNacks and the rest of the callback surface a
// strategy uses to act on the Forwarder.
type StrategyBase struct {
	fwd  *Forwarder
	name string
}

func (s *StrategyBase) bind(fwd *Forwarder, name string) {
	s.fwd = fwd
	s.name = name
}

// Name returns the strategy's registered name.
func (s *StrategyBase) Name() string { return s.name }

// SendInterest forwards pitEntry's Interest out outFace, per the Outgoing
// Interest pipeline.
func (s *StrategyBase) SendInterest(pitEntry *table.PitEntry, outFace uint64, wantNewNonce bool) {
	s.fwd.outgoingInterest(pitEntry, outFace, wantNewNonce)
}

// SendData sends data out outFace via the Outgoing Data pipeline. This is
// the default AfterContentStoreHit behavior.
func (s *StrategyBase) SendData(data *ndn.Data, outFace uint64) {
	s.fwd.outgoingData(data, outFace)
}

// SendNack builds a Nack from pitEntry's in-record on outFace and sends it
// via the Outgoing Nack pipeline.
func (s *StrategyBase) SendNack(pitEntry *table.PitEntry, outFace uint64, reason ndn.NackReason) {
	s.fwd.outgoingNack(pitEntry, outFace, reason)
}

// SendNacks sends a Nack to every downstream face of pitEntry except those
// listed in exceptFaces.
func (s *StrategyBase) SendNacks(pitEntry *table.PitEntry, reason ndn.NackReason, exceptFaces ...uint64) {
	except := make(map[uint64]bool, len(exceptFaces))
	for _, f := range exceptFaces {
		except[f] = true
	}
	downstreams := make([]uint64, 0, len(pitEntry.InRecords))
	for faceId := range pitEntry.InRecords {
		if !except[faceId] {
			downstreams = append(downstreams, faceId)
		}
	}
	for _, faceId := range downstreams {
		s.fwd.outgoingNack(pitEntry, faceId, reason)
	}
}

// RejectPendingInterest invokes the Interest-Reject pipeline.
func (s *StrategyBase) RejectPendingInterest(pitEntry *table.PitEntry) {
	s.fwd.interestReject(pitEntry)
}

// LookupFib resolves the FIB entry for pitEntry via forwarding-hint
// resolution.
func (s *StrategyBase) LookupFib(pitEntry *table.PitEntry) *table.FibEntry {
	return s.fwd.lookupFib(pitEntry)
}

// Default no-op trigger implementations; a concrete strategy overrides
// only what it needs.
func (s *StrategyBase) AfterReceiveInterest(uint64, *ndn.Interest, *table.PitEntry)             {}
func (s *StrategyBase) AfterContentStoreHit(inFace uint64, _ *ndn.Interest, pitEntry *table.PitEntry, data *ndn.Data) {
	s.SendData(data, inFace)
}
func (s *StrategyBase) AfterReceiveNack(uint64, *ndn.Nack, *table.PitEntry)     {}
func (s *StrategyBase) BeforeSatisfyInterest(*table.PitEntry, uint64, *ndn.Data) {}
func (s *StrategyBase) BeforeExpirePendingInterest(*table.PitEntry)              {}

// StrategyRegistry maps a registered name to a constructor for a fresh
// Strategy instance.
type StrategyRegistry map[string]func() Strategy

// NewStrategyRegistry builds the registry of built-in strategies:
// best-route, multicast, access, self-learning.
func NewStrategyRegistry() StrategyRegistry {
	return StrategyRegistry{
		"best-route":     func() Strategy { return &BestRouteStrategy{} },
		"multicast":      func() Strategy { return &MulticastStrategy{} },
		"access":         func() Strategy { return &AccessStrategy{} },
		"self-learning":  func() Strategy { return &SelfLearningStrategy{} },
	}
}

// toTableFactories adapts the registry into the table.StrategyFactory map
// table.NewStrategyChoice/Insert need, binding each freshly constructed
// strategy to fwd before it is ever used.
func (r StrategyRegistry) toTableFactories(fwd *Forwarder) map[string]table.StrategyFactory {
	out := make(map[string]table.StrategyFactory, len(r))
	for name, ctor := range r {
		name, ctor := name, ctor
		out[name] = func() table.Strategy {
			s := ctor()
			s.bind(fwd, name)
			return s
		}
	}
	return out
}
