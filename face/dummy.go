package face

import "github.com/ndn-fwd/corefwd/ndn"

// DummyFace is an in-memory Face for tests: Send* appends to a recorded
// slice instead of touching any transport, and ReceiveInterest/Data/Nack
// let a test drive the face's incoming direction directly.
type DummyFace struct {
	Base

	SentInterests []*ndn.Interest
	SentData      []*ndn.Data
	SentNacks     []*ndn.Nack
}

// NewDummyFace constructs a DummyFace with the given scope (tests
// typically want one local and one non-local face).
func NewDummyFace(scope Scope) *DummyFace {
	return &DummyFace{Base: NewBase(scope, PointToPoint, PersistencyPersistent, "dummy://", "dummy://")}
}

// NewDummyMultiAccessFace builds a DummyFace over a multi-access link
// (e.g. a shared broadcast medium), exercising the forwarding paths that
// behave differently on such links.
func NewDummyMultiAccessFace(scope Scope) *DummyFace {
	return &DummyFace{Base: NewBase(scope, MultiAccess, PersistencyPersistent, "dummy://", "dummy://")}
}

func (f *DummyFace) SendInterest(i *ndn.Interest) {
	f.CountOutInterest()
	f.SentInterests = append(f.SentInterests, i)
}

func (f *DummyFace) SendData(d *ndn.Data) {
	f.CountOutData()
	f.SentData = append(f.SentData, d)
}

func (f *DummyFace) SendNack(n *ndn.Nack) {
	f.CountOutNack()
	f.SentNacks = append(f.SentNacks, n)
}

func (f *DummyFace) Close() { f.SetState(StateClosed) }

// ReceiveInterest simulates an Interest arriving on this face, driving
// whatever handler the FaceTable installed.
func (f *DummyFace) ReceiveInterest(i *ndn.Interest) { f.DeliverInterest(i) }

// ReceiveData simulates a Data packet arriving on this face.
func (f *DummyFace) ReceiveData(d *ndn.Data) { f.DeliverData(d) }

// ReceiveNack simulates a Nack arriving on this face.
func (f *DummyFace) ReceiveNack(n *ndn.Nack) { f.DeliverNack(n) }
