package face

import "github.com/ndn-fwd/corefwd/ndn"

// NullFace is the always-present face that silently drops everything
// sent to it (faceid 255).
type NullFace struct {
	Base
}

// NewNullFace constructs the null face. The caller is expected to
// register it at id 255 via FaceTable.AddReserved.
func NewNullFace() *NullFace {
	return &NullFace{Base: NewBase(NonLocal, PointToPoint, PersistencyPermanent, "null://", "null://")}
}

// SetPersistency always allows setting back to Permanent, refusing any
// other value (the null face never changes persistency in practice).
func (f *NullFace) SetPersistency(p Persistency) bool {
	return p == PersistencyPermanent
}

func (f *NullFace) SendInterest(*ndn.Interest) { f.CountOutInterest() }
func (f *NullFace) SendData(*ndn.Data)         { f.CountOutData() }
func (f *NullFace) SendNack(*ndn.Nack)         { f.CountOutNack() }

func (f *NullFace) Close() { f.SetState(StateClosed) }
