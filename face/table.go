package face

import "fmt"

// Table is the FaceTable: id allocation plus lifecycle signals.
type Table struct {
	faces  map[uint64]Face
	nextId uint64

	onAdd          []func(Face)
	beforeRemove   []func(Face)
}

// NewTable constructs an empty FaceTable. Dynamic ids are handed out
// starting at FirstDynamicFaceId.
func NewTable() *Table {
	return &Table{faces: make(map[uint64]Face), nextId: FirstDynamicFaceId}
}

// OnAdd subscribes to the afterAdd signal, fired once a face has been
// assigned an id and registered.
func (t *Table) OnAdd(fn func(Face)) { t.onAdd = append(t.onAdd, fn) }

// OnBeforeRemove subscribes to the beforeRemoveFace signal - this is what
// table.RIB's BeginRemoveFace is wired to via the management layer.
func (t *Table) OnBeforeRemove(fn func(Face)) { t.beforeRemove = append(t.beforeRemove, fn) }

// Add assigns face the next free dynamic id and registers it, firing
// onAdd. The caller (the Forwarder) is responsible for wiring
// face.OnReceiveInterest/Data/Nack to its three incoming pipelines before
// or as part of handling onAdd.
func (t *Table) Add(f Face) uint64 {
	id := t.nextId
	t.nextId++
	f.SetId(id)
	t.faces[id] = f
	for _, fn := range t.onAdd {
		fn(f)
	}
	return id
}

// AddReserved registers f at a fixed id ≤ 255 (internal management face,
// content-store origin marker, null face). Fails if id is already taken
// or is not in the reserved range.
func (t *Table) AddReserved(f Face, id uint64) error {
	if id == InvalidFaceId || id > NullFaceId {
		return fmt.Errorf("face: id %d is not a reserved id", id)
	}
	if _, exists := t.faces[id]; exists {
		return fmt.Errorf("face: reserved id %d already registered", id)
	}
	f.SetId(id)
	t.faces[id] = f
	for _, fn := range t.onAdd {
		fn(f)
	}
	return nil
}

// Get returns the face with the given id, or nil.
func (t *Table) Get(id uint64) Face { return t.faces[id] }

// All returns every registered face, in no particular order.
func (t *Table) All() []Face {
	out := make([]Face, 0, len(t.faces))
	for _, f := range t.faces {
		out = append(out, f)
	}
	return out
}

// Remove closes and unregisters the face with id, firing beforeRemove
// first so subscribers (FIB.RemoveNextHopFromAllEntries, RIB's
// BeginRemoveFace) can still see it in the table while reacting.
func (t *Table) Remove(id uint64) {
	f, ok := t.faces[id]
	if !ok {
		return
	}
	for _, fn := range t.beforeRemove {
		fn(f)
	}
	f.Close()
	delete(t.faces, id)
}
