package table

import (
	"time"

	"github.com/ndn-fwd/corefwd/core"
	"github.com/ndn-fwd/corefwd/ndn"
)

// PitInRecord tracks one downstream face's pending copy of an Interest.
type PitInRecord struct {
	Face        uint64
	LastNonce   uint32
	LastRenewed time.Time
	Expiry      time.Time
	Interest    ndn.Interest
}

// PitOutRecord tracks one upstream face an Interest was forwarded to.
type PitOutRecord struct {
	Face          uint64
	LastNonce     uint32
	LastRenewed   time.Time
	Expiry        time.Time
	IncomingNack  *ndn.Nack
}

// Duplicate-nonce classification bitmask.
const (
	DupNonceInSame  = 1 << iota // an in-record on the same face carries this nonce
	DupNonceInOther             // an in-record on a different face carries this nonce
	DupNonceOutSame             // an out-record on the same face carries this nonce
	DupNonceOutOther            // an out-record on a different face carries this nonce
)

// PitEntry is a pending Interest: its name/selectors plus in- and
// out-records.
type PitEntry struct {
	node *Node

	CanBePrefix bool
	MustBeFresh bool

	InRecords  map[uint64]*PitInRecord
	OutRecords map[uint64]*PitOutRecord

	// SelectedDelegation persists the forwarding-hint delegation chosen
	// for this entry across retransmissions, since a
	// retransmitted Interest arrives as a fresh packet with no memory of
	// earlier resolution.
	SelectedDelegation ndn.Name

	// Hint is the forwarding hint carried by the Interest(s) aggregated
	// into this entry, refreshed on every InsertOrUpdateInRecord. Strategy
	// helpers only ever see the PitEntry, not the original Interest, so
	// this is where LookupFib's forwarding-hint resolution
	// reads it from.
	Hint ndn.ForwardingHint

	satisfied bool

	unsatisfyTimer core.EventId
	stragglerTimer core.EventId
}

// Name returns the entry's name.
func (e *PitEntry) Name() ndn.Name { return e.node.Name }

// Satisfied reports whether the entry has been satisfied by Data.
func (e *PitEntry) Satisfied() bool { return e.satisfied }

// SetSatisfied sets the satisfied flag.
func (e *PitEntry) SetSatisfied(v bool) { e.satisfied = v }

// UnsatisfyTimer returns the entry's currently scheduled unsatisfy timer.
func (e *PitEntry) UnsatisfyTimer() core.EventId { return e.unsatisfyTimer }

// SetUnsatisfyTimer installs the entry's unsatisfy timer handle.
func (e *PitEntry) SetUnsatisfyTimer(id core.EventId) { e.unsatisfyTimer = id }

// StragglerTimer returns the entry's currently scheduled straggler timer.
func (e *PitEntry) StragglerTimer() core.EventId { return e.stragglerTimer }

// SetStragglerTimer installs the entry's straggler timer handle.
func (e *PitEntry) SetStragglerTimer(id core.EventId) { e.stragglerTimer = id }

// CancelTimers cancels both the unsatisfy and straggler timers. Mandatory
// before erasing a PIT entry.
func (e *PitEntry) CancelTimers() {
	e.unsatisfyTimer.Cancel()
	e.stragglerTimer.Cancel()
}

// InsertOrUpdateInRecord creates or refreshes the in-record for face,
// returning it and the previous nonce if one existed.
func (e *PitEntry) InsertOrUpdateInRecord(face uint64, interest *ndn.Interest, now time.Time) (*PitInRecord, bool, uint32) {
	if len(interest.Hint) > 0 {
		e.Hint = interest.Hint
	}
	if r, ok := e.InRecords[face]; ok {
		prev := r.LastNonce
		r.LastNonce = interest.Nonce
		r.LastRenewed = now
		r.Expiry = now.Add(interest.EffectiveLifetime())
		r.Interest = *interest
		return r, true, prev
	}
	r := &PitInRecord{
		Face:        face,
		LastNonce:   interest.Nonce,
		LastRenewed: now,
		Expiry:      now.Add(interest.EffectiveLifetime()),
		Interest:    *interest,
	}
	e.InRecords[face] = r
	return r, false, 0
}

// InsertOrUpdateOutRecord creates or refreshes the out-record for face.
func (e *PitEntry) InsertOrUpdateOutRecord(face uint64, interest *ndn.Interest, now time.Time) *PitOutRecord {
	if r, ok := e.OutRecords[face]; ok {
		r.LastNonce = interest.Nonce
		r.LastRenewed = now
		r.Expiry = now.Add(interest.EffectiveLifetime())
		r.IncomingNack = nil
		return r
	}
	r := &PitOutRecord{
		Face:        face,
		LastNonce:   interest.Nonce,
		LastRenewed: now,
		Expiry:      now.Add(interest.EffectiveLifetime()),
	}
	e.OutRecords[face] = r
	return r
}

// DeleteInRecord removes the in-record for face, if any.
func (e *PitEntry) DeleteInRecord(face uint64) { delete(e.InRecords, face) }

// DeleteOutRecord removes the out-record for face, if any.
func (e *PitEntry) DeleteOutRecord(face uint64) { delete(e.OutRecords, face) }

// ClearInRecords removes every in-record.
func (e *PitEntry) ClearInRecords() { e.InRecords = make(map[uint64]*PitInRecord) }

// ClearOutRecords removes every out-record.
func (e *PitEntry) ClearOutRecords() { e.OutRecords = make(map[uint64]*PitOutRecord) }

// GetInRecord returns the in-record for face, or nil.
func (e *PitEntry) GetInRecord(face uint64) *PitInRecord { return e.InRecords[face] }

// GetOutRecord returns the out-record for face, or nil.
func (e *PitEntry) GetOutRecord(face uint64) *PitOutRecord { return e.OutRecords[face] }

// LatestExpiry returns the latest-expiring in-record's expiry, used to
// set the unsatisfy timer.
func (e *PitEntry) LatestExpiry() time.Time {
	var latest time.Time
	for _, r := range e.InRecords {
		if r.Expiry.After(latest) {
			latest = r.Expiry
		}
	}
	return latest
}

// PIT is the table of pending Interests.
type PIT struct {
	tree  *NameTree
	clock interface{ Now() time.Time }
	count int
}

// NewPIT constructs an empty PIT backed by tree.
func NewPIT(tree *NameTree, clock interface{ Now() time.Time }) *PIT {
	return &PIT{tree: tree, clock: clock}
}

// Size returns the number of pending entries, reported by the
// `status/general` dataset.
func (p *PIT) Size() int { return p.count }

func findEntry(node *Node, canBePrefix, mustBeFresh bool) *PitEntry {
	for _, e := range node.Pit {
		if e.CanBePrefix == canBePrefix && e.MustBeFresh == mustBeFresh {
			return e
		}
	}
	return nil
}

// Insert returns the existing PIT entry for interest (equal name and
// selector set), or creates a new one.
func (p *PIT) Insert(interest *ndn.Interest) (*PitEntry, bool) {
	node := p.tree.Lookup(interest.Name)
	if e := findEntry(node, interest.CanBePrefix, interest.MustBeFresh); e != nil {
		return e, false
	}
	e := &PitEntry{
		node:        node,
		CanBePrefix: interest.CanBePrefix,
		MustBeFresh: interest.MustBeFresh,
		InRecords:   make(map[uint64]*PitInRecord),
		OutRecords:  make(map[uint64]*PitOutRecord),
	}
	node.Pit = append(node.Pit, e)
	p.count++
	return e, true
}

// Find returns the PIT entry matching interest (equal name and selector
// set) without inserting, or nil.
func (p *PIT) Find(interest *ndn.Interest) *PitEntry {
	node := p.tree.findExact(interest.Name)
	if node == nil {
		return nil
	}
	return findEntry(node, interest.CanBePrefix, interest.MustBeFresh)
}

// Erase removes entry from the PIT and drops its NameTree node if it is
// now empty. Callers must cancel the entry's timers first.
func (p *PIT) Erase(entry *PitEntry) {
	node := entry.node
	for i, e := range node.Pit {
		if e == entry {
			node.Pit = append(node.Pit[:i], node.Pit[i+1:]...)
			p.count--
			break
		}
	}
	p.tree.EraseIfEmpty(node)
}

// FindAllDataMatches returns every PIT entry whose name is a prefix of
// data.Name and whose selectors admit data.
func (p *PIT) FindAllDataMatches(data *ndn.Data) []*PitEntry {
	var out []*PitEntry
	for _, node := range p.tree.FindAllMatches(data.Name) {
		for _, e := range node.Pit {
			if e.CanBePrefix || e.Name().Equal(data.Name) {
				out = append(out, e)
			}
		}
	}
	return out
}

// FindDuplicateNonce classifies nonce against entry's existing in- and
// out-records relative to face, returning a bitmask of DupNonce* flags.
func FindDuplicateNonce(entry *PitEntry, nonce uint32, face uint64) int {
	mask := 0
	for f, r := range entry.InRecords {
		if r.LastNonce == nonce {
			if f == face {
				mask |= DupNonceInSame
			} else {
				mask |= DupNonceInOther
			}
		}
	}
	for f, r := range entry.OutRecords {
		if r.LastNonce == nonce {
			if f == face {
				mask |= DupNonceOutSame
			} else {
				mask |= DupNonceOutOther
			}
		}
	}
	return mask
}
