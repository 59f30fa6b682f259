package table

import "github.com/ndn-fwd/corefwd/ndn"

// RIB is the routing information base: named entries holding routes from
// multiple origins, with child-inherit/capture semantics and a
// single-writer update queue drained by a FibUpdater.
//
// The RIB keeps its own name tree rather than sharing the Forwarder's
// NameTree. It changes the Forwarder's FIB only through a FibUpdater's
// FibCommander; the commander built by NewFibCommander writes the FIB
// directly in memory, not through the management protocol.
type RIB struct {
	root      *ribNode
	byName    map[string]*ribNode
	byFace    map[uint64][]*RibEntry

	queue []*RibUpdate

	readvertisers []RibReadvertise

	afterInsertEntry  []func(ndn.Name)
	afterEraseEntry   []func(ndn.Name)
	afterAddRoute     []func(*RibEntry, *Route)
	beforeRemoveRoute []func(*RibEntry, *Route)
}

// NewRIB constructs an empty RIB.
func NewRIB() *RIB {
	root := &ribNode{name: ndn.Name{}, children: make(map[string]*ribNode)}
	r := &RIB{root: root, byName: make(map[string]*ribNode), byFace: make(map[uint64][]*RibEntry)}
	r.byName[root.name.String()] = root
	return r
}

// OnAfterInsertEntry subscribes to the afterInsertEntry signal.
func (r *RIB) OnAfterInsertEntry(fn func(ndn.Name)) { r.afterInsertEntry = append(r.afterInsertEntry, fn) }

// OnAfterEraseEntry subscribes to the afterEraseEntry signal.
func (r *RIB) OnAfterEraseEntry(fn func(ndn.Name)) { r.afterEraseEntry = append(r.afterEraseEntry, fn) }

// OnAfterAddRoute subscribes to the afterAddRoute signal.
func (r *RIB) OnAfterAddRoute(fn func(*RibEntry, *Route)) {
	r.afterAddRoute = append(r.afterAddRoute, fn)
}

// OnBeforeRemoveRoute subscribes to the beforeRemoveRoute signal.
func (r *RIB) OnBeforeRemoveRoute(fn func(*RibEntry, *Route)) {
	r.beforeRemoveRoute = append(r.beforeRemoveRoute, fn)
}

// lookupOrCreate returns the ribNode for name, creating it and any
// missing ancestors.
func (r *RIB) lookupOrCreate(name ndn.Name) *ribNode {
	node := r.root
	for i := 0; i < len(name); i++ {
		prefix := name.Prefix(i + 1)
		key := prefix.String()
		child, ok := r.byName[key]
		if !ok {
			child = &ribNode{name: prefix, parent: node, children: make(map[string]*ribNode)}
			node.children[prefix.At(i).String()] = child
			r.byName[key] = child
		}
		node = child
	}
	return node
}

func (r *RIB) findNode(name ndn.Name) *ribNode {
	return r.byName[name.String()]
}

// findEntry returns the RibEntry at exactly name, or nil.
func (r *RIB) findEntry(name ndn.Name) *RibEntry {
	node := r.findNode(name)
	if node == nil {
		return nil
	}
	return node.entry
}

// getOrCreateEntry returns the RibEntry at name, creating it (and
// emitting afterInsertEntry) if absent.
func (r *RIB) getOrCreateEntry(name ndn.Name) *RibEntry {
	node := r.lookupOrCreate(name)
	if node.entry == nil {
		node.entry = &RibEntry{node: node}
		for _, fn := range r.afterInsertEntry {
			fn(name)
		}
	}
	return node.entry
}

// eraseEntryIfEmpty removes node's entry (and the node itself, if
// childless) when it has no routes left, emitting afterEraseEntry.
func (r *RIB) eraseEntryIfEmpty(node *ribNode) {
	if node.entry == nil || len(node.entry.Routes) > 0 {
		return
	}
	name := node.entry.node.name
	node.entry = nil
	for _, fn := range r.afterEraseEntry {
		fn(name)
	}
	for node != r.root && node.entry == nil && len(node.children) == 0 {
		parent := node.parent
		delete(parent.children, node.name.At(len(node.name)-1).String())
		delete(r.byName, node.name.String())
		node = parent
	}
}

// FindLongestPrefix performs an exact lookup at name; if absent or it has
// no matching route, it searches the parent chain for one.
func (r *RIB) FindLongestPrefix(name ndn.Name, faceId uint64, origin string) (*RibEntry, *Route) {
	node := r.findNode(name)
	for i := len(name) - 1; node == nil && i >= 0; i-- {
		node = r.findNode(name.Prefix(i))
	}
	for node != nil {
		if node.entry != nil {
			if rt := node.entry.FindRoute(faceId, origin); rt != nil {
				return node.entry, rt
			}
		}
		node = node.parent
	}
	return nil, nil
}

// GetAncestorRoutes walks up from entry's parent collecting child-inherit
// routes, stopping walking after encountering an entry with capture
// (inclusive of its inherited-emitting routes).
func (r *RIB) GetAncestorRoutes(entry *RibEntry) []*Route {
	var out []*Route
	node := entry.node.parent
	for node != nil {
		if node.entry != nil {
			for _, rt := range node.entry.Routes {
				if rt.ChildInherit() {
					out = append(out, rt)
				}
			}
			if node.entry.HasCapture() {
				break
			}
		}
		node = node.parent
	}
	return out
}

// GetAncestorRoutesForName resolves name to its RIB entry (if any) and
// calls GetAncestorRoutes, or walks directly from the closest existing
// ancestor node if name itself has no entry.
func (r *RIB) GetAncestorRoutesForName(name ndn.Name) []*Route {
	if e := r.findEntry(name); e != nil {
		return r.GetAncestorRoutes(e)
	}
	node := r.root
	for i := 0; i < len(name); i++ {
		if c, ok := node.children[name.At(i).String()]; ok {
			node = c
		} else {
			// name lies below node, so node's own routes are ancestors too.
			node = &ribNode{parent: node}
			break
		}
	}
	fake := &RibEntry{node: node}
	return r.GetAncestorRoutes(fake)
}

// descendantEntries collects every RibEntry strictly below node.
func descendantEntries(node *ribNode) []*RibEntry {
	var out []*RibEntry
	for _, c := range node.children {
		if c.entry != nil {
			out = append(out, c.entry)
		}
		out = append(out, descendantEntries(c)...)
	}
	return out
}

// BeginApplyUpdate enqueues a single-route update. Draining is performed by a FibUpdater via
// DrainQueue.
func (r *RIB) BeginApplyUpdate(update *RibUpdate) {
	r.queue = append(r.queue, update)
}

// BeginRemoveFace enqueues a REMOVE_FACE update for every route
// currently held by faceId, across every entry.
func (r *RIB) BeginRemoveFace(faceId uint64) {
	for _, entry := range r.byFace[faceId] {
		for _, rt := range entry.Routes {
			if rt.FaceId == faceId {
				r.queue = append(r.queue, &RibUpdate{
					Action: RibUpdateRemoveFace,
					Name:   entry.Name(),
					Route:  rt,
				})
			}
		}
	}
}

// PopUpdate removes and returns the head of the update queue, or nil if
// empty. The FibUpdater processes one batch (one update) at a time.
func (r *RIB) PopUpdate() *RibUpdate {
	if len(r.queue) == 0 {
		return nil
	}
	u := r.queue[0]
	r.queue = r.queue[1:]
	return u
}

// QueueLen reports how many updates are still queued.
func (r *RIB) QueueLen() int { return len(r.queue) }

func (r *RIB) indexFace(faceId uint64, entry *RibEntry) {
	for _, e := range r.byFace[faceId] {
		if e == entry {
			return
		}
	}
	r.byFace[faceId] = append(r.byFace[faceId], entry)
}

func (r *RIB) unindexFaceIfUnused(faceId uint64, entry *RibEntry) {
	for _, rt := range entry.Routes {
		if rt.FaceId == faceId {
			return
		}
	}
	list := r.byFace[faceId]
	for i, e := range list {
		if e == entry {
			r.byFace[faceId] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// GetAllEntries returns every RIB entry with at least one route, for the
// `rib/list` status dataset.
func (r *RIB) GetAllEntries() []*RibEntry {
	var out []*RibEntry
	var walk func(n *ribNode)
	walk = func(n *ribNode) {
		if n.entry != nil && len(n.entry.Routes) > 0 {
			out = append(out, n.entry)
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(r.root)
	return out
}
