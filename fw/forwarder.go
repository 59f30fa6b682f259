// Package fw implements the forwarding core: the twelve pipelines that
// move Interest, Data, and Nack packets between faces and the shared
// tables, and the Strategy extension point they dispatch to. Built around
// this repo's single-threaded Loop/Scheduler model.
package fw

import (
	"time"

	"github.com/ndn-fwd/corefwd/config"
	"github.com/ndn-fwd/corefwd/core"
	"github.com/ndn-fwd/corefwd/face"
	"github.com/ndn-fwd/corefwd/ndn"
	"github.com/ndn-fwd/corefwd/table"
)

// stragglerDefault is the straggler timer used whenever a satisfying Data
// carries no usable freshness period, and unconditionally for the
// Interest-Reject path.
const stragglerDefault = 100 * time.Millisecond

// Counters is the forwarder-wide packet counter set reported by the
// `status/general` dataset.
type Counters struct {
	NInInterests  uint64
	NInData       uint64
	NInNacks      uint64
	NOutInterests uint64
	NOutData      uint64
	NOutNacks     uint64
}

// Forwarder owns the shared NameTree and every table hung off it, and
// drives the twelve pipelines. All of its methods are
// meant to run on a single goroutine - the owning core.Loop - so none of
// them take a lock.
type Forwarder struct {
	rt  *core.RuntimeContext
	cfg *config.Config

	Faces          *face.Table
	NameTree       *table.NameTree
	FIB            *table.FIB
	PIT            *table.PIT
	CS             *table.CS
	DeadNonceList  *table.DeadNonceList
	StrategyChoice *table.StrategyChoice
	Measurements   *table.Measurements
	NetworkRegions *NetworkRegionTable

	counters Counters

	dnlMarkTimer core.EventId
	dnlCapTimer  core.EventId
}

// String identifies the Forwarder as a core.Module logging source.
func (f *Forwarder) String() string { return "Forwarder" }

// NewForwarder builds a Forwarder with an empty NameTree and every table
// wired to it, installs registry's strategies into StrategyChoice (with
// cfg's default strategy at `/`), and wires the FaceTable's afterAdd /
// beforeRemove signals to the three incoming pipelines and
// FIB.RemoveNextHopFromAllEntries respectively.
func NewForwarder(rt *core.RuntimeContext, cfg *config.Config, registry StrategyRegistry) (*Forwarder, error) {
	tree := table.NewNameTree()

	f := &Forwarder{
		rt:             rt,
		cfg:            cfg,
		Faces:          face.NewTable(),
		NameTree:       tree,
		FIB:            table.NewFIB(tree),
		PIT:            table.NewPIT(tree, rt.Clock),
		CS:             table.NewCS(rt.Clock, cfg.CS.Capacity),
		DeadNonceList:  table.NewDeadNonceList(),
		Measurements:   table.NewMeasurements(tree, rt.Clock),
		NetworkRegions: NewNetworkRegionTable(),
	}
	f.CS.EnableAdmit(cfg.CS.Admit)
	f.CS.EnableServe(cfg.CS.Serve)

	sc, err := table.NewStrategyChoice(tree, registry.toTableFactories(f), cfg.Tables.DefaultStrategy)
	if err != nil {
		return nil, err
	}
	f.StrategyChoice = sc

	f.Faces.OnAdd(func(fc face.Face) {
		fc.OnReceiveInterest(f.incomingInterest)
		fc.OnReceiveData(f.incomingData)
		fc.OnReceiveNack(f.incomingNack)
	})
	f.Faces.OnBeforeRemove(func(fc face.Face) {
		f.FIB.RemoveNextHopFromAllEntries(fc.Id())
	})

	lifetime := cfg.DeadNonceLifetime()
	f.dnlMarkTimer = rt.Scheduler.ScheduleEvery(lifetime/8, func() { f.DeadNonceList.Mark() })
	f.dnlCapTimer = rt.Scheduler.ScheduleEvery(lifetime/2, func() { f.DeadNonceList.AdjustCapacity() })

	return f, nil
}

// Close cancels the DeadNonceList tuning timers. Tests that build short-
// lived Forwarders should call this to avoid leaking timers.
func (f *Forwarder) Close() {
	f.dnlMarkTimer.Cancel()
	f.dnlCapTimer.Cancel()
}

// Counters returns the forwarder-wide packet counters.
func (f *Forwarder) Counters() Counters { return f.counters }

func (f *Forwarder) effectiveStrategy(name ndn.Name) Strategy {
	s, _ := f.StrategyChoice.FindEffectiveStrategy(name).(Strategy)
	return s
}

// --- Incoming Interest -----------------------------------------------

func (f *Forwarder) incomingInterest(interest *ndn.Interest) {
	f.counters.NInInterests++
	inFaceId := interest.IncomingFaceId
	inFace := f.Faces.Get(inFaceId)
	if inFace == nil {
		return
	}

	if violatesLocalhost(inFace, interest.Name) {
		return
	}

	if f.DeadNonceList.Has(interest.Name, interest.Nonce) {
		f.interestLoop(inFace, interest)
		return
	}

	pitEntry, _ := f.PIT.Insert(interest)

	if table.FindDuplicateNonce(pitEntry, interest.Nonce, inFaceId) != 0 {
		f.interestLoop(inFace, interest)
		return
	}

	pitEntry.CancelTimers()

	firstRequest := len(pitEntry.InRecords) == 0
	if firstRequest {
		f.CS.Find(interest,
			func(i *ndn.Interest, data *ndn.Data) { f.onContentStoreHit(pitEntry, inFaceId, i, data) },
			func(i *ndn.Interest) { f.onContentStoreMiss(pitEntry, inFaceId, i) },
		)
		return
	}
	f.onContentStoreMiss(pitEntry, inFaceId, interest)
}

// interestLoop handles a duplicate-nonce Interest: silently dropped on a multi-access link, otherwise
// Nacked directly on inFace without going through Outgoing-Nack (no PIT
// entry is touched either way).
func (f *Forwarder) interestLoop(inFace face.Face, interest *ndn.Interest) {
	if inFace.LinkType() == face.MultiAccess {
		return
	}
	inFace.SendNack(&ndn.Nack{Interest: *interest, Reason: ndn.NackReasonDuplicate})
	f.counters.NOutNacks++
}

// onContentStoreHit is the CS-Hit pipeline: tag the cached
// Data with the reserved content-store face id, arm the straggler timer,
// and dispatch to the strategy's AfterContentStoreHit trigger (whose
// default behavior is Outgoing-Data on inFace).
func (f *Forwarder) onContentStoreHit(pitEntry *table.PitEntry, inFaceId uint64, interest *ndn.Interest, data *ndn.Data) {
	hit := *data
	hit.IncomingFaceId = face.ContentStoreFaceId

	f.setStragglerTimer(pitEntry, hit.FreshnessPeriod, true)

	if s := f.effectiveStrategy(pitEntry.Name()); s != nil {
		s.AfterContentStoreHit(inFaceId, interest, pitEntry, &hit)
		return
	}
	f.outgoingData(&hit, inFaceId)
}

// onContentStoreMiss is the CS-Miss pipeline: insert/refresh
// the downstream in-record, (re)arm the unsatisfy timer, and dispatch to
// the strategy's AfterReceiveInterest trigger. The FIB lookup is left to
// the strategy itself via LookupFib, called on demand.
func (f *Forwarder) onContentStoreMiss(pitEntry *table.PitEntry, inFaceId uint64, interest *ndn.Interest) {
	now := f.rt.Clock.Now()
	pitEntry.InsertOrUpdateInRecord(inFaceId, interest, now)
	f.setUnsatisfyTimer(pitEntry)

	if s := f.effectiveStrategy(pitEntry.Name()); s != nil {
		s.AfterReceiveInterest(inFaceId, interest, pitEntry)
	}
}

// --- Outgoing Interest / Interest-Reject ------------------------------

// outgoingInterest is the Outgoing Interest pipeline.
func (f *Forwarder) outgoingInterest(pitEntry *table.PitEntry, outFaceId uint64, wantNewNonce bool) {
	if outFaceId == face.InvalidFaceId {
		return
	}
	outFace := f.Faces.Get(outFaceId)
	if outFace == nil {
		return
	}
	if violatesScope(f.Faces, pitEntry, outFaceId) {
		return
	}

	src := bestInRecordToForward(pitEntry, outFaceId)
	if src == nil {
		return
	}

	out := src.Interest
	out.Name = pitEntry.Name()
	out.CanBePrefix = pitEntry.CanBePrefix
	out.MustBeFresh = pitEntry.MustBeFresh
	out.Hint = pitEntry.Hint
	out.SelectedDelegation = pitEntry.SelectedDelegation
	if wantNewNonce {
		out.Nonce = f.rt.RNG.Uint32()
	}

	now := f.rt.Clock.Now()
	pitEntry.InsertOrUpdateOutRecord(outFaceId, &out, now)

	outFace.SendInterest(&out)
	f.counters.NOutInterests++
}

// bestInRecordToForward picks the in-record to copy selectors/nonce from
// when forwarding: the most recently renewed in-record not on outFace,
// falling back to the most recently renewed in-record overall if every
// in-record is on outFace.
func bestInRecordToForward(pitEntry *table.PitEntry, outFaceId uint64) *table.PitInRecord {
	var bestOther, bestAny *table.PitInRecord
	for faceId, r := range pitEntry.InRecords {
		if bestAny == nil || r.LastRenewed.After(bestAny.LastRenewed) {
			bestAny = r
		}
		if faceId == outFaceId {
			continue
		}
		if bestOther == nil || r.LastRenewed.After(bestOther.LastRenewed) {
			bestOther = r
		}
	}
	if bestOther != nil {
		return bestOther
	}
	return bestAny
}

// interestReject is the Interest-Reject pipeline: only valid
// with no pending out-records; cancels the unsatisfy timer and arms a
// fixed 100 ms straggler timer for an unsatisfied entry.
func (f *Forwarder) interestReject(pitEntry *table.PitEntry) {
	if len(pitEntry.OutRecords) > 0 {
		return
	}
	pitEntry.UnsatisfyTimer().Cancel()
	pitEntry.SetUnsatisfyTimer(core.EventId{})
	f.setStragglerTimer(pitEntry, stragglerDefault, false)
}

// interestUnsatisfied is the Interest-Unsatisfied pipeline:
// dispatches the strategy's expiry trigger, then finalizes as
// unsatisfied.
func (f *Forwarder) interestUnsatisfied(pitEntry *table.PitEntry) {
	if s := f.effectiveStrategy(pitEntry.Name()); s != nil {
		s.BeforeExpirePendingInterest(pitEntry)
	}
	f.interestFinalize(pitEntry, false, 0)
}

// interestFinalize is the Interest-Finalize pipeline: a
// last, upstream-wide DeadNonceList insertion pass, then timer
// cancellation and PIT erasure.
func (f *Forwarder) interestFinalize(pitEntry *table.PitEntry, isSatisfied bool, dataFreshness time.Duration) {
	f.insertDeadNonceList(pitEntry, isSatisfied, dataFreshness, nil)
	pitEntry.CancelTimers()
	f.PIT.Erase(pitEntry)
}

// --- Timers ------------------------------------------------------------

// setUnsatisfyTimer arms pitEntry's unsatisfy timer for the latest
// in-record expiry.
func (f *Forwarder) setUnsatisfyTimer(pitEntry *table.PitEntry) {
	now := f.rt.Clock.Now()
	delay := pitEntry.LatestExpiry().Sub(now)
	if delay < 0 {
		delay = 0
	}
	id := f.rt.Scheduler.Schedule(delay, func() { f.interestUnsatisfied(pitEntry) })
	pitEntry.SetUnsatisfyTimer(id)
}

// setStragglerTimer arms pitEntry's straggler timer for freshness (or
// stragglerDefault if freshness is non-positive), finalizing with
// isSatisfied once it fires.
func (f *Forwarder) setStragglerTimer(pitEntry *table.PitEntry, freshness time.Duration, isSatisfied bool) {
	d := freshness
	if d <= 0 {
		d = stragglerDefault
	}
	id := f.rt.Scheduler.Schedule(d, func() { f.interestFinalize(pitEntry, isSatisfied, freshness) })
	pitEntry.SetStragglerTimer(id)
}

// insertDeadNonceList implements the DeadNonceList insertion policy.
// upstream nil means "all out-records"; non-nil restricts to that face's
// out-record.
func (f *Forwarder) insertDeadNonceList(pitEntry *table.PitEntry, isSatisfied bool, dataFreshness time.Duration, upstream *uint64) {
	if isSatisfied {
		if !pitEntry.MustBeFresh {
			return
		}
		if dataFreshness <= 0 || dataFreshness >= f.cfg.DeadNonceLifetime() {
			return
		}
	}

	if upstream != nil {
		if r := pitEntry.GetOutRecord(*upstream); r != nil {
			f.DeadNonceList.Add(pitEntry.Name(), r.LastNonce)
		}
		return
	}
	for _, r := range pitEntry.OutRecords {
		f.DeadNonceList.Add(pitEntry.Name(), r.LastNonce)
	}
}

// --- Incoming / Outgoing Data -------------------------------------------

func (f *Forwarder) incomingData(data *ndn.Data) {
	f.counters.NInData++
	inFaceId := data.IncomingFaceId
	inFace := f.Faces.Get(inFaceId)
	if inFace == nil {
		return
	}
	if violatesLocalhost(inFace, data.Name) {
		return
	}

	matches := f.PIT.FindAllDataMatches(data)
	if len(matches) == 0 {
		f.dataUnsolicited(inFace, data)
		return
	}

	f.CS.Insert(data, false)

	now := f.rt.Clock.Now()
	for _, pitEntry := range matches {
		pitEntry.CancelTimers()

		var pending []uint64
		for faceId, r := range pitEntry.InRecords {
			if r.Expiry.After(now) {
				pending = append(pending, faceId)
			}
		}

		if s := f.effectiveStrategy(pitEntry.Name()); s != nil {
			s.BeforeSatisfyInterest(pitEntry, inFaceId, data)
		}

		f.insertDeadNonceList(pitEntry, true, data.FreshnessPeriod, &inFaceId)

		pitEntry.ClearInRecords()
		pitEntry.DeleteOutRecord(inFaceId)
		f.setStragglerTimer(pitEntry, data.FreshnessPeriod, true)

		for _, faceId := range pending {
			if faceId == inFaceId {
				continue
			}
			f.outgoingData(data, faceId)
		}
	}
}

// dataUnsolicited is the Data-Unsolicited pipeline: admitted
// to the CS, marked unsolicited, only when it arrived on a local face;
// otherwise dropped silently.
func (f *Forwarder) dataUnsolicited(inFace face.Face, data *ndn.Data) {
	if inFace.Scope() == face.Local {
		f.CS.Insert(data, true)
	}
}

// outgoingData is the Outgoing Data pipeline.
func (f *Forwarder) outgoingData(data *ndn.Data, outFaceId uint64) {
	if outFaceId == face.InvalidFaceId {
		return
	}
	outFace := f.Faces.Get(outFaceId)
	if outFace == nil {
		return
	}
	if violatesLocalhost(outFace, data.Name) {
		return
	}
	outFace.SendData(data)
	f.counters.NOutData++
}

// --- Incoming / Outgoing Nack --------------------------------------------

func (f *Forwarder) incomingNack(nack *ndn.Nack) {
	f.counters.NInNacks++
	inFaceId := nack.IncomingFaceId
	inFace := f.Faces.Get(inFaceId)
	if inFace == nil {
		return
	}
	if inFace.LinkType() == face.MultiAccess {
		return
	}

	pitEntry := f.PIT.Find(&nack.Interest)
	if pitEntry == nil {
		return
	}
	outRec := pitEntry.GetOutRecord(inFaceId)
	if outRec == nil {
		return
	}
	if nack.Interest.Nonce != outRec.LastNonce {
		return
	}
	outRec.IncomingNack = nack

	if s := f.effectiveStrategy(pitEntry.Name()); s != nil {
		s.AfterReceiveNack(inFaceId, nack, pitEntry)
	}
}

// outgoingNack is the Outgoing Nack pipeline: requires a live
// in-record on outFace (it supplies the Nacked Interest and is erased
// once consumed), and is itself forbidden on a multi-access link.
func (f *Forwarder) outgoingNack(pitEntry *table.PitEntry, outFaceId uint64, reason ndn.NackReason) {
	if outFaceId == face.InvalidFaceId {
		return
	}
	outFace := f.Faces.Get(outFaceId)
	if outFace == nil {
		return
	}
	inRec := pitEntry.GetInRecord(outFaceId)
	if inRec == nil {
		return
	}
	if outFace.LinkType() == face.MultiAccess {
		return
	}

	nack := &ndn.Nack{Interest: inRec.Interest, Reason: reason}
	pitEntry.DeleteInRecord(outFaceId)
	outFace.SendNack(nack)
	f.counters.NOutNacks++
}

// --- Forwarding-hint resolution ---------------------------

// lookupFib resolves the FIB entry effective for pitEntry, applying
// forwarding-hint resolution when the entry carries one.
func (f *Forwarder) lookupFib(pitEntry *table.PitEntry) *table.FibEntry {
	if len(pitEntry.Hint) == 0 {
		return f.FIB.FindLongestPrefixMatch(pitEntry.Name())
	}

	for _, d := range pitEntry.Hint {
		if f.NetworkRegions.Contains(d.Name) {
			return f.FIB.FindLongestPrefixMatch(pitEntry.Name())
		}
	}

	if len(pitEntry.SelectedDelegation) > 0 {
		return f.FIB.FindLongestPrefixMatch(pitEntry.SelectedDelegation)
	}

	first := f.FIB.FindLongestPrefixMatch(pitEntry.Hint[0].Name)
	if first == f.FIB.Root() {
		return first
	}

	for _, d := range pitEntry.Hint {
		entry := f.FIB.FindLongestPrefixMatch(d.Name)
		if entry.HasNextHops() {
			pitEntry.SelectedDelegation = d.Name
			return entry
		}
	}
	return first
}
