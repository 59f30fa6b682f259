package table

import "github.com/ndn-fwd/corefwd/ndn"

// RibUpdateAction identifies the kind of change a RibUpdate describes.
type RibUpdateAction int

const (
	RibUpdateRegister RibUpdateAction = iota
	RibUpdateUnregister
	RibUpdateRemoveFace
)

func (a RibUpdateAction) String() string {
	switch a {
	case RibUpdateRegister:
		return "REGISTER"
	case RibUpdateUnregister:
		return "UNREGISTER"
	case RibUpdateRemoveFace:
		return "REMOVE_FACE"
	default:
		return "UNKNOWN"
	}
}

// RibUpdate is a single-route change queued against the RIB (spec
// §4.10.1). REMOVE_FACE carries the same shape as UNREGISTER: both name
// the exact route being withdrawn, so the FibUpdater treats them
// identically; beginRemoveFace is what fans a face removal out into one
// REMOVE_FACE update per route.
type RibUpdate struct {
	Action RibUpdateAction
	Name   ndn.Name
	Route  *Route
}
