package face

import "github.com/ndn-fwd/corefwd/ndn"

// Base provides the bookkeeping common to every Face implementation:
// id/scope/persistency/state, counters, and callback registration.
// Concrete face types embed it.
type Base struct {
	id          uint64
	scope       Scope
	linkType    LinkType
	persistency Persistency
	state       State
	remoteUri   string
	localUri    string

	counters Counters

	onInterest func(*ndn.Interest)
	onData     func(*ndn.Data)
	onNack     func(*ndn.Nack)
	onState    func(State)
}

// NewBase constructs a Base with the given fixed attributes; State
// starts at StateUp.
func NewBase(scope Scope, linkType LinkType, persistency Persistency, remoteUri, localUri string) Base {
	return Base{
		scope:       scope,
		linkType:    linkType,
		persistency: persistency,
		state:       StateUp,
		remoteUri:   remoteUri,
		localUri:    localUri,
	}
}

func (b *Base) Id() uint64      { return b.id }
func (b *Base) SetId(id uint64) { b.id = id }

func (b *Base) Scope() Scope             { return b.scope }
func (b *Base) LinkType() LinkType       { return b.linkType }
func (b *Base) Persistency() Persistency { return b.persistency }

// SetPersistency changes the persistency if the face type allows the
// transition; the base implementation always allows it. Concrete faces
// with stricter rules (e.g. a null face that is always permanent)
// override this.
func (b *Base) SetPersistency(p Persistency) bool {
	b.persistency = p
	return true
}

func (b *Base) State() State { return b.state }

// SetState transitions state and fires the afterStateChange callback.
func (b *Base) SetState(s State) {
	b.state = s
	if b.onState != nil {
		b.onState(s)
	}
}

func (b *Base) RemoteUri() string { return b.remoteUri }
func (b *Base) LocalUri() string  { return b.localUri }

func (b *Base) Counters() Counters { return b.counters }

func (b *Base) OnReceiveInterest(fn func(*ndn.Interest)) { b.onInterest = fn }
func (b *Base) OnReceiveData(fn func(*ndn.Data))         { b.onData = fn }
func (b *Base) OnReceiveNack(fn func(*ndn.Nack))         { b.onNack = fn }
func (b *Base) OnStateChange(fn func(State))             { b.onState = fn }

// DeliverInterest tags the Interest with this face's id and invokes the
// installed incoming-Interest handler, if any.
func (b *Base) DeliverInterest(i *ndn.Interest) {
	b.counters.NInInterests++
	i.IncomingFaceId = b.id
	if b.onInterest != nil {
		b.onInterest(i)
	}
}

// DeliverData tags the Data with this face's id and invokes the
// installed incoming-Data handler, if any.
func (b *Base) DeliverData(d *ndn.Data) {
	b.counters.NInData++
	d.IncomingFaceId = b.id
	if b.onData != nil {
		b.onData(d)
	}
}

// DeliverNack tags the Nack with this face's id and invokes the installed
// incoming-Nack handler, if any.
func (b *Base) DeliverNack(n *ndn.Nack) {
	b.counters.NInNacks++
	n.IncomingFaceId = b.id
	if b.onNack != nil {
		b.onNack(n)
	}
}

// CountOutInterest/-Data/-Nack bump the outgoing counters; concrete
// faces call these from their Send* implementations.
func (b *Base) CountOutInterest() { b.counters.NOutInterests++ }
func (b *Base) CountOutData()     { b.counters.NOutData++ }
func (b *Base) CountOutNack()     { b.counters.NOutNacks++ }
