package mgmt

import (
	"time"

	"github.com/ndn-fwd/corefwd/core"
	"github.com/ndn-fwd/corefwd/face"
	"github.com/ndn-fwd/corefwd/fw"
	"github.com/ndn-fwd/corefwd/table"
)

// Manager is the composition root for the management command surface: it
// binds the Forwarder's tables, the RIB, and the FibUpdater that pushes RIB
// changes into the FIB, and hands each module (FIB, CS, StrategyChoice,
// RIB, ForwarderStatus) the pieces it needs. One Manager exists per
// RuntimeContext.
type Manager struct {
	rt      *core.RuntimeContext
	fwd     *fw.Forwarder
	rib     *table.RIB
	updater *table.FibUpdater
	audit   *AuditLog

	FIB            *FIBModule
	CS             *ContentStoreModule
	StrategyChoice *StrategyChoiceModule
	RIB            *RIBModule
	Status         *ForwarderStatusModule
}

// NewManager builds a Manager wiring fwd and rib through updater. audit may
// be nil to disable command auditing.
func NewManager(rt *core.RuntimeContext, fwd *fw.Forwarder, rib *table.RIB, updater *table.FibUpdater, audit *AuditLog) *Manager {
	m := &Manager{rt: rt, fwd: fwd, rib: rib, updater: updater, audit: audit}
	m.FIB = &FIBModule{m: m}
	m.CS = &ContentStoreModule{m: m}
	m.StrategyChoice = &StrategyChoiceModule{m: m}
	m.RIB = &RIBModule{m: m}
	m.Status = &ForwarderStatusModule{m: m, startTime: rt.Clock.Now()}
	return m
}

// record audits a completed command if an AuditLog is attached.
func (m *Manager) record(module, verb string, params ControlParameters, resp ControlResponse) {
	if m.audit == nil {
		return
	}
	m.audit.Record(module, verb, params, resp)
}

// scheduleFaceRefresh implements the §7 FIB-update-failure recovery: "the
// RIB schedules a face-dataset refresh (1 s later) to clean up references
// to possibly-dead faces". faces/list itself is always derived fresh from
// face.Table, so the refresh's real job is pruning RIB routes whose face
// has since disappeared.
func (m *Manager) scheduleFaceRefresh() {
	m.rt.Scheduler.Schedule(time.Second, func() {
		for _, entry := range m.rib.GetAllEntries() {
			for _, r := range entry.Routes {
				if m.fwd.Faces.Get(r.FaceId) == nil {
					m.rib.BeginApplyUpdate(&table.RibUpdate{
						Action: table.RibUpdateRemoveFace,
						Name:   entry.Name(),
						Route:  r,
					})
				}
			}
		}
		m.updater.DrainQueue(nil)
	})
}

// faceTable exposes the Manager's FaceTable to modules in this package.
func (m *Manager) faceTable() *face.Table { return m.fwd.Faces }
