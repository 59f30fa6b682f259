package mgmt

import (
	"time"

	"github.com/ndn-fwd/corefwd/face"
	"github.com/ndn-fwd/corefwd/ndn"
	"github.com/ndn-fwd/corefwd/table"
)

// ForwarderStatusModule serves the read-only status datasets
// (`status/general`, `fib/list`, `cs/info`, `strategy-choice/list`,
// `rib/list`, `faces/list`), one struct per dataset, extended with
// NameTree/StrategyChoice/DeadNonceList sizes since this repo keeps every
// table behind one RuntimeContext.
type ForwarderStatusModule struct {
	m         *Manager
	startTime time.Time
}

func (s *ForwarderStatusModule) String() string { return "mgmt-status" }

// GeneralStatus is the body of the `status/general` dataset.
type GeneralStatus struct {
	StartTimestamp  time.Time
	CurrentTimestamp time.Time

	NNameTreeEntries int
	NFibEntries      int
	NPitEntries      int
	NCsEntries       int
	NMeasurementsEntries int
	NStrategyChoiceEntries int
	NDeadNonceListEntries  int

	NInInterests  uint64
	NInData       uint64
	NInNacks      uint64
	NOutInterests uint64
	NOutData      uint64
	NOutNacks     uint64
}

// General handles the `status/general` dataset.
func (s *ForwarderStatusModule) General() GeneralStatus {
	if s.startTime.IsZero() {
		s.startTime = s.m.rt.Clock.Now()
	}
	c := s.m.fwd.Counters()
	return GeneralStatus{
		StartTimestamp:   s.startTime,
		CurrentTimestamp: s.m.rt.Clock.Now(),

		NNameTreeEntries:       s.m.fwd.NameTree.Size(),
		NFibEntries:            len(s.m.fwd.FIB.GetAllEntries()),
		NPitEntries:            s.m.fwd.PIT.Size(),
		NCsEntries:             s.m.fwd.CS.Size(),
		NStrategyChoiceEntries: len(s.m.fwd.StrategyChoice.GetAll()),
		NDeadNonceListEntries:  s.m.fwd.DeadNonceList.Size(),

		NInInterests:  c.NInInterests,
		NInData:       c.NInData,
		NInNacks:      c.NInNacks,
		NOutInterests: c.NOutInterests,
		NOutData:      c.NOutData,
		NOutNacks:     c.NOutNacks,
	}
}

// FibEntryInfo is one row of the `fib/list` dataset.
type FibEntryInfo struct {
	Name     ndn.Name
	NextHops []table.FibNextHopEntry
}

// FibList handles the `fib/list` dataset.
func (s *ForwarderStatusModule) FibList() []FibEntryInfo {
	entries := s.m.fwd.FIB.GetAllEntries()
	out := make([]FibEntryInfo, 0, len(entries))
	for _, e := range entries {
		nh := make([]table.FibNextHopEntry, 0, len(e.NextHops()))
		for _, h := range e.NextHops() {
			nh = append(nh, *h)
		}
		out = append(out, FibEntryInfo{Name: e.Name(), NextHops: nh})
	}
	return out
}

// CsInfo is the body of the `cs/info` dataset.
type CsInfo struct {
	Capacity  int
	Size      int
	Admit     bool
	Serve     bool
	NHits     int64
	NMisses   int64
}

// CsInfo handles the `cs/info` dataset.
func (s *ForwarderStatusModule) CsInfo() CsInfo {
	cs := s.m.fwd.CS
	hits, misses := cs.Counters()
	return CsInfo{
		Size:    cs.Size(),
		Admit:   cs.Admit(),
		Serve:   cs.Serve(),
		NHits:   hits,
		NMisses: misses,
	}
}

// StrategyChoiceEntryInfo is one row of the `strategy-choice/list` dataset.
type StrategyChoiceEntryInfo struct {
	Name     ndn.Name
	Strategy string
}

// StrategyChoiceList handles the `strategy-choice/list` dataset.
func (s *ForwarderStatusModule) StrategyChoiceList() []StrategyChoiceEntryInfo {
	entries := s.m.fwd.StrategyChoice.GetAll()
	out := make([]StrategyChoiceEntryInfo, 0, len(entries))
	for _, e := range entries {
		out = append(out, StrategyChoiceEntryInfo{Name: e.Name(), Strategy: e.Strategy().Name()})
	}
	return out
}

// RibEntryInfo is one row of the `rib/list` dataset.
type RibEntryInfo struct {
	Name   ndn.Name
	Routes []table.Route
}

// RibList handles the `rib/list` dataset.
func (s *ForwarderStatusModule) RibList() []RibEntryInfo {
	entries := s.m.rib.GetAllEntries()
	out := make([]RibEntryInfo, 0, len(entries))
	for _, e := range entries {
		routes := make([]table.Route, 0, len(e.Routes))
		for _, r := range e.Routes {
			routes = append(routes, *r)
		}
		out = append(out, RibEntryInfo{Name: e.Name(), Routes: routes})
	}
	return out
}

// FaceInfo is one row of the `faces/list` dataset.
type FaceInfo struct {
	FaceId      uint64
	RemoteUri   string
	LocalUri    string
	Scope       face.Scope
	LinkType    face.LinkType
	Persistency face.Persistency
	State       face.State
	Counters    face.Counters
}

// FacesList handles the `faces/list` dataset.
func (s *ForwarderStatusModule) FacesList() []FaceInfo {
	faces := s.m.faceTable().All()
	out := make([]FaceInfo, 0, len(faces))
	for _, f := range faces {
		out = append(out, FaceInfo{
			FaceId:      f.Id(),
			RemoteUri:   f.RemoteUri(),
			LocalUri:    f.LocalUri(),
			Scope:       f.Scope(),
			LinkType:    f.LinkType(),
			Persistency: f.Persistency(),
			State:       f.State(),
			Counters:    f.Counters(),
		})
	}
	return out
}
