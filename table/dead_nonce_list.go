package table

import (
	"container/list"

	"github.com/ndn-fwd/corefwd/ndn"
)

// DeadNonceList tuning constants.
const (
	dnlMinCapacity     = 32
	dnlMaxCapacity     = 2 * 100000
	dnlInitialCapacity = 16384
	dnlExpectedMarks   = 8
	dnlEvictLimit      = 64 * dnlExpectedMarks
)

// dnlEntry is either a real (name, nonce) digest or a marker inserted by
// the periodic mark-insertion event.
type dnlEntry struct {
	digest   uint64
	isMarker bool
	elem     *list.Element
}

// DeadNonceList is a probabilistic, self-tuning loop-detection set of
// (name, nonce) pairs. Its age bound (entries are
// approximately `lifetime` old) is maintained without per-entry
// timestamps: capacity is periodically retuned from periodic samples of
// how many markers are currently resident, trading bounded false
// positives for avoiding a timestamp per entry.
type DeadNonceList struct {
	queue    *list.List
	refcount map[uint64]int

	capacity   int
	nMarkers   int
	samples    []int
}

// NewDeadNonceList constructs an empty DeadNonceList at the default
// initial capacity.
func NewDeadNonceList() *DeadNonceList {
	return &DeadNonceList{
		queue:    list.New(),
		refcount: make(map[uint64]int),
		capacity: dnlInitialCapacity,
	}
}

func digestOf(name ndn.Name, nonce uint32) uint64 {
	h := name.Hash()
	// Fold the nonce into the name hash (multiply by the 64-bit FNV prime,
	// then XOR), so (name, nonce) pairs don't collide trivially with plain
	// name hashes used elsewhere.
	return h*1099511628211 ^ uint64(nonce)
}

// Has reports whether (name, nonce) is present.
func (d *DeadNonceList) Has(name ndn.Name, nonce uint32) bool {
	return d.refcount[digestOf(name, nonce)] > 0
}

// Add inserts (name, nonce), evicting from the head if now over capacity.
func (d *DeadNonceList) Add(name ndn.Name, nonce uint32) {
	dg := digestOf(name, nonce)
	e := &dnlEntry{digest: dg}
	e.elem = d.queue.PushBack(e)
	d.refcount[dg]++
	d.evict(dnlEvictLimit)
}

// Size returns the number of entries currently resident, including
// markers.
func (d *DeadNonceList) Size() int { return d.queue.Len() }

// Capacity returns the current self-tuned capacity.
func (d *DeadNonceList) Capacity() int { return d.capacity }

func (d *DeadNonceList) evict(limit int) {
	n := 0
	for d.queue.Len() > d.capacity && n < limit {
		front := d.queue.Front()
		e := front.Value.(*dnlEntry)
		d.queue.Remove(front)
		if e.isMarker {
			d.nMarkers--
		} else {
			d.refcount[e.digest]--
			if d.refcount[e.digest] <= 0 {
				delete(d.refcount, e.digest)
			}
		}
		n++
	}
}

// Mark is the periodic mark-insertion event: pushes a
// marker into the FIFO and records a sample of how many markers are now
// present. Scheduled every lifetime/8 by the owning forwarder.
func (d *DeadNonceList) Mark() {
	e := &dnlEntry{isMarker: true}
	e.elem = d.queue.PushBack(e)
	d.nMarkers++
	d.evict(dnlEvictLimit)
	d.samples = append(d.samples, d.nMarkers)
}

// AdjustCapacity is the periodic capacity-adjustment event: shrinks capacity if every sample since the last adjustment
// exceeded the expected marker count, grows it if every sample was
// below, and otherwise leaves it unchanged; then evicts down to the new
// capacity (bounded by dnlEvictLimit). Scheduled every lifetime/2 by the
// owning forwarder.
func (d *DeadNonceList) AdjustCapacity() {
	defer func() { d.samples = d.samples[:0] }()

	if len(d.samples) == 0 {
		return
	}
	allAbove, allBelow := true, true
	for _, s := range d.samples {
		if s <= dnlExpectedMarks {
			allAbove = false
		}
		if s >= dnlExpectedMarks {
			allBelow = false
		}
	}
	switch {
	case allAbove:
		d.capacity = int(float64(d.capacity) * 0.5)
	case allBelow:
		d.capacity = int(float64(d.capacity) * 1.2)
	}
	if d.capacity < dnlMinCapacity {
		d.capacity = dnlMinCapacity
	}
	if d.capacity > dnlMaxCapacity {
		d.capacity = dnlMaxCapacity
	}
	d.evict(dnlEvictLimit)
}
