package table

import "github.com/ndn-fwd/corefwd/ndn"

// FibCommander is the FIB-management surface a FibUpdater drives (spec
// §4.10.2: "invoking a FIB management command on the forwarder"). In
// this module it is backed directly by *table.FIB; in a deployment where
// the RIB runs on its own thread an implementation would proxy
// these calls over the management protocol instead.
type FibCommander interface {
	AddNextHop(prefix ndn.Name, faceId uint64, cost uint64) error
	RemoveNextHop(prefix ndn.Name, faceId uint64) error
}

// fibCommanderAdapter adapts *FIB to FibCommander.
type fibCommanderAdapter struct{ fib *FIB }

// NewFibCommander wraps fib as a FibCommander.
func NewFibCommander(fib *FIB) FibCommander { return &fibCommanderAdapter{fib: fib} }

func (a *fibCommanderAdapter) AddNextHop(prefix ndn.Name, faceId uint64, cost uint64) error {
	entry, _ := a.fib.Insert(prefix)
	a.fib.AddNextHop(entry, faceId, cost)
	return nil
}

func (a *fibCommanderAdapter) RemoveNextHop(prefix ndn.Name, faceId uint64) error {
	entry := a.fib.FindLongestPrefixMatch(prefix)
	if !entry.Name().Equal(prefix) {
		return nil
	}
	a.fib.RemoveNextHop(entry, faceId)
	return nil
}

// FibUpdater computes and pushes the minimal FIB next-hop changes implied
// by a single RibUpdate, including ripple effects on descendants from
// child-inherit and capture.
type FibUpdater struct {
	rib       *RIB
	commander FibCommander
}

// NewFibUpdater constructs a FibUpdater driving commander from rib.
func NewFibUpdater(rib *RIB, commander FibCommander) *FibUpdater {
	return &FibUpdater{rib: rib, commander: commander}
}

// visibleNextHops computes the deduplicated (faceId -> min cost) next-hop
// set an entry should expose to the FIB: its own routes plus whatever it
// inherits from ancestors.
func (u *FibUpdater) visibleNextHops(entry *RibEntry) map[uint64]uint64 {
	nh := make(map[uint64]uint64)
	apply := func(r *Route) {
		if c, ok := nh[r.FaceId]; !ok || r.Cost < c {
			nh[r.FaceId] = r.Cost
		}
	}
	for _, r := range entry.Routes {
		apply(r)
	}
	for _, r := range u.rib.GetAncestorRoutes(entry) {
		apply(r)
	}
	return nh
}

// inheritedOnly returns the subset of visible next hops at entry that
// come from ancestors rather than entry's own routes, used to refresh
// RibEntry.InheritedRoutes after a successful batch.
func inheritedOnly(entry *RibEntry, visible map[uint64]uint64) []*Route {
	own := make(map[uint64]bool, len(entry.Routes))
	for _, r := range entry.Routes {
		own[r.FaceId] = true
	}
	var out []*Route
	for face, cost := range visible {
		if !own[face] {
			out = append(out, &Route{FaceId: face, Cost: cost, Flags: RouteFlagChildInherit})
		}
	}
	return out
}

func diffAndIssue(commander FibCommander, name ndn.Name, before, after map[uint64]uint64) ([]func() error, []func() error) {
	var commit []func() error
	var rollback []func() error
	for face, cost := range after {
		if oldCost, ok := before[face]; !ok || oldCost != cost {
			face, cost := face, cost
			commit = append(commit, func() error { return commander.AddNextHop(name, face, cost) })
			if oldCost, ok := before[face]; ok {
				rollback = append(rollback, func() error { return commander.AddNextHop(name, face, oldCost) })
			} else {
				rollback = append(rollback, func() error { return commander.RemoveNextHop(name, face) })
			}
		}
	}
	for face, cost := range before {
		if _, ok := after[face]; !ok {
			face, cost := face, cost
			commit = append(commit, func() error { return commander.RemoveNextHop(name, face) })
			rollback = append(rollback, func() error { return commander.AddNextHop(name, face, cost) })
		}
	}
	return commit, rollback
}

// Apply processes exactly one queued RibUpdate: it mutates the RIB
// tentatively, computes the FIB next-hop diff across the affected entry
// and its descendants, and issues it through the commander. If any
// command fails, the RIB mutation is rolled back and onFailure is called
// with the batch NOT applied; otherwise onSuccess is called and the
// affected entries' InheritedRoutes caches are refreshed.
func (u *FibUpdater) Apply(update *RibUpdate, onSuccess func(), onFailure func(code int, message string)) {
	var entry *RibEntry
	if update.Action == RibUpdateRegister {
		entry = u.rib.getOrCreateEntry(update.Name)
	} else {
		entry = u.rib.findEntry(update.Name)
		if entry == nil {
			onFailure(404, "no such RIB entry")
			return
		}
	}

	affected := append([]*RibEntry{entry}, descendantEntries(entry.node)...)
	before := make(map[*RibEntry]map[uint64]uint64, len(affected))
	for _, e := range affected {
		before[e] = u.visibleNextHops(e)
	}

	var removed *Route
	switch update.Action {
	case RibUpdateRegister:
		entry.insertRoute(update.Route)
	case RibUpdateUnregister, RibUpdateRemoveFace:
		removed = entry.eraseRoute(update.Route.FaceId, update.Route.Origin)
	}

	after := make(map[*RibEntry]map[uint64]uint64, len(affected))
	for _, e := range affected {
		after[e] = u.visibleNextHops(e)
	}

	var allCommit, allRollback []func() error
	for _, e := range affected {
		commit, rollback := diffAndIssue(u.commander, e.Name(), before[e], after[e])
		allCommit = append(allCommit, commit...)
		allRollback = append(allRollback, rollback...)
	}

	for i, fn := range allCommit {
		if err := fn(); err != nil {
			for j := i - 1; j >= 0; j-- {
				allRollback[j]()
			}
			switch update.Action {
			case RibUpdateRegister:
				entry.eraseRoute(update.Route.FaceId, update.Route.Origin)
			case RibUpdateUnregister, RibUpdateRemoveFace:
				if removed != nil {
					entry.insertRoute(removed)
				}
			}
			onFailure(500, err.Error())
			return
		}
	}

	switch update.Action {
	case RibUpdateRegister:
		u.rib.indexFace(update.Route.FaceId, entry)
		for _, fn := range u.rib.afterAddRoute {
			fn(entry, update.Route)
		}
		u.rib.readvertiseAnnounce(entry.Name(), update.Route)
	case RibUpdateUnregister, RibUpdateRemoveFace:
		if removed != nil {
			for _, fn := range u.rib.beforeRemoveRoute {
				fn(entry, removed)
			}
			u.rib.unindexFaceIfUnused(update.Route.FaceId, entry)
			u.rib.readvertiseWithdraw(entry.Name(), removed)
		}
	}

	for _, e := range affected {
		e.InheritedRoutes = inheritedOnly(e, after[e])
	}
	u.rib.eraseEntryIfEmpty(entry.node)

	onSuccess()
}

// DrainQueue pops and applies every currently queued update in order,
// one batch at a time.
func (u *FibUpdater) DrainQueue(onFailure func(update *RibUpdate, code int, message string)) {
	for {
		update := u.rib.PopUpdate()
		if update == nil {
			return
		}
		u.Apply(update, func() {}, func(code int, message string) {
			if onFailure != nil {
				onFailure(update, code, message)
			}
		})
	}
}
