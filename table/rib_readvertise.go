package table

import "github.com/ndn-fwd/corefwd/ndn"

// RibReadvertise is a plugin notified of RIB route changes so it can
// propagate them into an external routing protocol. The built-in
// NLSR-facing readvertiser (config key rib.readvertise_nlsr) is one
// concrete implementation; tests and other protocols can register their
// own.
type RibReadvertise interface {
	// Announce is called after a route is committed to the RIB.
	Announce(name ndn.Name, route *Route)
	// Withdraw is called after a route is removed from the RIB.
	Withdraw(name ndn.Name, route *Route)
}

// AddReadvertiser registers r to receive future Announce/Withdraw calls.
func (r *RIB) AddReadvertiser(rv RibReadvertise) {
	r.readvertisers = append(r.readvertisers, rv)
}

func (r *RIB) readvertiseAnnounce(name ndn.Name, route *Route) {
	for _, rv := range r.readvertisers {
		rv.Announce(name, route)
	}
}

func (r *RIB) readvertiseWithdraw(name ndn.Name, route *Route) {
	for _, rv := range r.readvertisers {
		rv.Withdraw(name, route)
	}
}
