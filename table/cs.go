package table

import (
	"container/list"
	"time"

	"golang.org/x/exp/slices"

	"github.com/ndn-fwd/corefwd/ndn"
)

// CsEntry is one cached Data packet.
type CsEntry struct {
	Data          ndn.Data
	InsertionTime time.Time
	Unsolicited   bool

	elem *list.Element // this entry's node in its FIFO queue
}

// Fresh reports whether the entry is still fresh at now: a
// Data with no freshness period is never fresh.
func (e *CsEntry) Fresh(now time.Time) bool {
	if e.Data.FreshnessPeriod <= 0 {
		return false
	}
	return now.Sub(e.InsertionTime) < e.Data.FreshnessPeriod
}

// CS is the name-indexed Data cache with admit/serve policy and bounded
// capacity. Eviction policy (default: priority-FIFO with
// unsolicited deprioritisation): unsolicited entries are evicted
// oldest-first, then solicited entries oldest-first.
type CS struct {
	clock interface{ Now() time.Time }

	byName map[string]*CsEntry
	// byOrder holds the same entries as byName, kept sorted ascending by
	// Data.Name so Find/Erase/ErasePreview/AllEntries walk names in a
	// fixed, reproducible order rather than Go's randomized map order.
	byOrder []*CsEntry
	// Two separate FIFO queues back the default eviction policy. An entry
	// stays in the queue it was inserted into; a lookup never moves it.
	// Inserting Data under a name already cached replaces the old entry and
	// queues the new one at the tail of the queue matching its own flag.
	unsolicited *list.List
	solicited   *list.List

	limit int
	admit bool
	serve bool

	nHits, nMisses int64
}

// NewCS constructs an empty CS with the given initial capacity; admit and
// serve both default to true.
func NewCS(clock interface{ Now() time.Time }, limit int) *CS {
	return &CS{
		clock:       clock,
		byName:      make(map[string]*CsEntry),
		unsolicited: list.New(),
		solicited:   list.New(),
		limit:       limit,
		admit:       true,
		serve:       true,
	}
}

// orderIndex returns the position of name in byOrder, and whether it was
// found there.
func (c *CS) orderIndex(name ndn.Name) (int, bool) {
	return slices.BinarySearchFunc(c.byOrder, name, func(e *CsEntry, n ndn.Name) int {
		return e.Data.Name.Compare(n)
	})
}

// insertOrdered adds entry to byOrder at its sorted position.
func (c *CS) insertOrdered(entry *CsEntry) {
	i, _ := c.orderIndex(entry.Data.Name)
	c.byOrder = append(c.byOrder, nil)
	copy(c.byOrder[i+1:], c.byOrder[i:])
	c.byOrder[i] = entry
}

// removeOrdered removes name's entry from byOrder.
func (c *CS) removeOrdered(name ndn.Name) {
	i, ok := c.orderIndex(name)
	if !ok {
		return
	}
	c.byOrder = append(c.byOrder[:i], c.byOrder[i+1:]...)
}

// SetLimit changes the CS's capacity, evicting immediately if now over
// the new limit.
func (c *CS) SetLimit(n int) {
	c.limit = n
	c.evictToLimit()
}

// EnableAdmit toggles whether Insert admits new Data.
func (c *CS) EnableAdmit(v bool) { c.admit = v }

// EnableServe toggles whether Find can be satisfied from the cache.
func (c *CS) EnableServe(v bool) { c.serve = v }

// Admit reports the current admit flag.
func (c *CS) Admit() bool { return c.admit }

// Serve reports the current serve flag.
func (c *CS) Serve() bool { return c.serve }

// Size returns the number of cached entries.
func (c *CS) Size() int { return len(c.byName) }

// Counters returns (hits, misses) observed by Find.
func (c *CS) Counters() (int64, int64) { return c.nHits, c.nMisses }

// Insert admits data into the cache, replacing any existing entry with
// the same name, then evicts down to the configured limit.
// If admit is disabled, this is a no-op.
func (c *CS) Insert(data *ndn.Data, unsolicited bool) {
	if !c.admit {
		return
	}
	key := data.Name.String()
	if old, ok := c.byName[key]; ok {
		c.removeFromQueue(old)
		c.removeOrdered(old.Data.Name)
	}

	entry := &CsEntry{Data: *data, InsertionTime: c.clock.Now(), Unsolicited: unsolicited}
	q := c.solicited
	if unsolicited {
		q = c.unsolicited
	}
	entry.elem = q.PushBack(entry)
	c.byName[key] = entry
	c.insertOrdered(entry)

	c.evictToLimit()
}

func (c *CS) removeFromQueue(e *CsEntry) {
	if e.elem == nil {
		return
	}
	if e.Unsolicited {
		c.unsolicited.Remove(e.elem)
	} else {
		c.solicited.Remove(e.elem)
	}
	e.elem = nil
}

// evictToLimit evicts unsolicited-oldest-first, then solicited-oldest-first,
// until at or under the configured limit.
func (c *CS) evictToLimit() {
	for len(c.byName) > c.limit {
		var front *list.Element
		var fromUnsolicited bool
		if c.unsolicited.Len() > 0 {
			front = c.unsolicited.Front()
			fromUnsolicited = true
		} else if c.solicited.Len() > 0 {
			front = c.solicited.Front()
		} else {
			return
		}
		entry := front.Value.(*CsEntry)
		if fromUnsolicited {
			c.unsolicited.Remove(front)
		} else {
			c.solicited.Remove(front)
		}
		delete(c.byName, entry.Data.Name.String())
		c.removeOrdered(entry.Data.Name)
	}
}

// Find looks up interest in the cache. If serve is disabled, miss is
// called unconditionally. Otherwise the first entry whose name satisfies
// the Interest's selectors (prefix match, freshness, canBePrefix) is
// passed to hit; if none, miss is called.
func (c *CS) Find(interest *ndn.Interest, hit func(*ndn.Interest, *ndn.Data), miss func(*ndn.Interest)) {
	if !c.serve {
		miss(interest)
		return
	}
	now := c.clock.Now()
	for _, entry := range c.byOrder {
		if !interest.CanBePrefix {
			if !entry.Data.Name.Equal(interest.Name) {
				continue
			}
		} else if !interest.Name.IsPrefix(entry.Data.Name) {
			continue
		}
		if interest.MustBeFresh && !entry.Fresh(now) {
			continue
		}
		c.nHits++
		data := entry.Data
		hit(interest, &data)
		return
	}
	c.nMisses++
	miss(interest)
}

// Erase removes up to limit entries under prefix, calling done with the
// number actually erased. Erase does no follow-up probe itself; a caller
// that hit the limit can ask ErasePreview whether matching entries remain.
func (c *CS) Erase(prefix ndn.Name, limit int, done func(nErased int)) {
	var victims []*CsEntry
	for _, entry := range c.byOrder {
		if limit > 0 && len(victims) >= limit {
			break
		}
		if !prefix.IsPrefix(entry.Data.Name) {
			continue
		}
		victims = append(victims, entry)
	}
	for _, entry := range victims {
		c.removeFromQueue(entry)
		delete(c.byName, entry.Data.Name.String())
		c.removeOrdered(entry.Data.Name)
	}
	done(len(victims))
}

// ErasePreview reports whether at least one entry under prefix still
// exists - used after Erase hits its limit to decide whether the
// ControlResponse body should set its "more entries may exist" flag.
func (c *CS) ErasePreview(prefix ndn.Name) bool {
	for _, entry := range c.byOrder {
		if prefix.IsPrefix(entry.Data.Name) {
			return true
		}
	}
	return false
}

// AllEntries returns every cached entry in ascending name order (CS status
// dataset use only; not an efficient hot-path operation).
func (c *CS) AllEntries() []*CsEntry {
	out := make([]*CsEntry, len(c.byOrder))
	copy(out, c.byOrder)
	return out
}
