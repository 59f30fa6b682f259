// Package face defines the Forwarder's Face contract and the bookkeeping
// around face lifecycle. Concrete link-layer transports
// (TCP/UDP/Unix/WebSocket/QUIC) are deliberately out of scope: this package
// only provides the interface real transports would implement, plus a null
// face and an in-memory test double.
package face

import "github.com/ndn-fwd/corefwd/ndn"

// Scope classifies a face as local (same host) or non-local, the
// distinction the /localhost and /localhop scope policies key off of.
type Scope int

const (
	NonLocal Scope = iota
	Local
)

func (s Scope) String() string {
	if s == Local {
		return "local"
	}
	return "non-local"
}

// LinkType classifies the underlying medium.
type LinkType int

const (
	PointToPoint LinkType = iota
	MultiAccess
	AdHoc
)

// Persistency controls how a face's lifetime is managed.
type Persistency int

const (
	PersistencyOnDemand Persistency = iota
	PersistencyPersistent
	PersistencyPermanent
)

// State is a face's current lifecycle state.
type State int

const (
	StateUp State = iota
	StateDown
	StateClosing
	StateFailed
	StateClosed
)

// Reserved face ids. Dynamic ids start at 256.
const (
	InvalidFaceId      uint64 = 0
	InternalFaceId     uint64 = 1
	ContentStoreFaceId uint64 = 254
	NullFaceId         uint64 = 255
	FirstDynamicFaceId uint64 = 256
)

// Counters is the per-face counter set the management layer reports.
type Counters struct {
	NInInterests  uint64
	NInData       uint64
	NInNacks      uint64
	NOutInterests uint64
	NOutData      uint64
	NOutNacks     uint64
}

// Face is a bidirectional packet channel the Forwarder sends on and
// receives callbacks from. The core never blocks on a Face: Send* methods
// must not block the calling (single) forwarding thread, and received
// packets are delivered by the face calling back into handlers the
// FaceTable installs.
type Face interface {
	Id() uint64
	SetId(id uint64)

	Scope() Scope
	LinkType() LinkType
	Persistency() Persistency
	SetPersistency(Persistency) bool
	State() State

	RemoteUri() string
	LocalUri() string

	SendInterest(*ndn.Interest)
	SendData(*ndn.Data)
	SendNack(*ndn.Nack)

	Counters() Counters

	// OnReceiveInterest/Data/Nack install the Forwarder's three incoming
	// pipelines. Only one handler is kept per kind; the FaceTable installs
	// them exactly once, at Add time.
	OnReceiveInterest(func(*ndn.Interest))
	OnReceiveData(func(*ndn.Data))
	OnReceiveNack(func(*ndn.Nack))

	// OnStateChange is invoked by the face itself on every state
	// transition.
	OnStateChange(func(State))

	Close()
}
