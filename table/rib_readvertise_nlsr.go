package table

import (
	"time"

	"github.com/ndn-fwd/corefwd/core"
	"github.com/ndn-fwd/corefwd/ndn"
)

// NlsrReadvertiser is the built-in RibReadvertise backing the
// `rib.readvertise_nlsr` / `rib.auto_prefix_propagate_cost` config keys:
// every `origin=client` route a local application registers is mirrored
// into an `origin=nlsr` route at the same name and face, carrying the
// configured auto-propagation cost instead of the client's own cost, so
// NLSR's link-state advertisement sees it without the application having
// to register twice. Mirrors the route directly through the RIB rather
// than round-tripping a signed Interest, since command authentication is
// out of scope here.
type NlsrReadvertiser struct {
	rib       *RIB
	updater   *FibUpdater
	scheduler *core.Scheduler
	cost      uint64
	timeout   time.Duration
}

// NewNlsrReadvertiser builds a readvertiser that mirrors client routes as
// origin=nlsr routes at the given cost, applying its updates through
// updater. A mirror attempt that the FibUpdater's DrainQueue reports as
// failed is retried once after timeout, the
// `rib.auto_prefix_propagate_timeout_ms` config value.
func NewNlsrReadvertiser(rib *RIB, updater *FibUpdater, scheduler *core.Scheduler, cost uint64, timeout time.Duration) *NlsrReadvertiser {
	return &NlsrReadvertiser{rib: rib, updater: updater, scheduler: scheduler, cost: cost, timeout: timeout}
}

// Announce mirrors a newly-committed origin=client route as an
// origin=nlsr route; any other origin is ignored.
func (n *NlsrReadvertiser) Announce(name ndn.Name, route *Route) {
	if route.Origin != OriginClient {
		return
	}
	n.announce(name, route, true)
}

func (n *NlsrReadvertiser) announce(name ndn.Name, route *Route, retry bool) {
	n.rib.BeginApplyUpdate(&RibUpdate{
		Action: RibUpdateRegister,
		Name:   name,
		Route: &Route{
			FaceId: route.FaceId,
			Origin: OriginNLSR,
			Cost:   n.cost,
			Flags:  route.Flags | RouteFlagChildInherit,
		},
	})
	n.updater.DrainQueue(func(update *RibUpdate, code int, message string) {
		if retry && n.scheduler != nil {
			n.scheduler.Schedule(n.timeout, func() { n.announce(name, route, false) })
		}
	})
}

// Withdraw removes the mirrored origin=nlsr route once the origin=client
// route it shadowed is gone.
func (n *NlsrReadvertiser) Withdraw(name ndn.Name, route *Route) {
	if route.Origin != OriginClient {
		return
	}
	n.rib.BeginApplyUpdate(&RibUpdate{
		Action: RibUpdateUnregister,
		Name:   name,
		Route:  &Route{FaceId: route.FaceId, Origin: OriginNLSR},
	})
	n.updater.DrainQueue(nil)
}
