package table

import "github.com/ndn-fwd/corefwd/ndn"

// ribNode is one name position in the RIB's own name tree. The RIB keeps
// a tree separate from the Forwarder's NameTree so it never shares mutable state with table.FIB.
type ribNode struct {
	name     ndn.Name
	parent   *ribNode
	children map[string]*ribNode
	entry    *RibEntry
}

// RibEntry is one named position's route set plus its cached inherited
// contributions from ancestors.
type RibEntry struct {
	node   *ribNode
	Routes []*Route

	// InheritedRoutes caches the child-inherit routes this entry
	// currently receives from ancestors, refreshed by the FibUpdater
	// after every successful batch.
	InheritedRoutes []*Route

	nRoutesWithCapture int
}

// Name returns the entry's prefix.
func (e *RibEntry) Name() ndn.Name { return e.node.name }

// HasCapture reports whether any route at this entry carries the capture
// flag.
func (e *RibEntry) HasCapture() bool { return e.nRoutesWithCapture > 0 }

// FindRoute returns the route keyed by (faceId, origin), or nil.
func (e *RibEntry) FindRoute(faceId uint64, origin string) *Route {
	for _, r := range e.Routes {
		if r.FaceId == faceId && r.Origin == origin {
			return r
		}
	}
	return nil
}

// insertRoute inserts or replaces route by its (faceId, origin) key,
// maintaining nRoutesWithCapture.
func (e *RibEntry) insertRoute(route *Route) {
	for i, r := range e.Routes {
		if r.sameKey(route) {
			if r.Capture() {
				e.nRoutesWithCapture--
			}
			e.Routes[i] = route
			if route.Capture() {
				e.nRoutesWithCapture++
			}
			return
		}
	}
	e.Routes = append(e.Routes, route)
	if route.Capture() {
		e.nRoutesWithCapture++
	}
}

// eraseRoute removes the route keyed by (faceId, origin), returning it
// (or nil if absent) and maintaining nRoutesWithCapture.
func (e *RibEntry) eraseRoute(faceId uint64, origin string) *Route {
	for i, r := range e.Routes {
		if r.FaceId == faceId && r.Origin == origin {
			e.Routes = append(e.Routes[:i], e.Routes[i+1:]...)
			if r.Capture() {
				e.nRoutesWithCapture--
			}
			return r
		}
	}
	return nil
}
