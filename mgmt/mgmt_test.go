package mgmt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ndn-fwd/corefwd/config"
	"github.com/ndn-fwd/corefwd/core"
	"github.com/ndn-fwd/corefwd/fw"
	"github.com/ndn-fwd/corefwd/table"
)

// newTestManagerDeps builds the pieces a Manager is assembled from - a
// running RuntimeContext/Forwarder and a fresh RIB/FibUpdater pair -
// mirroring fw.newTestForwarder's harness shape.
func newTestManagerDeps(t *testing.T) (*core.RuntimeContext, *fw.Forwarder, *table.RIB, *table.FibUpdater, func()) {
	rt := core.NewRuntimeContext(1, core.LevelError)
	cfg := config.Default()
	fwd, err := fw.NewForwarder(rt, cfg, fw.NewStrategyRegistry())
	require.NoError(t, err)
	go rt.Loop.Run()

	rib := table.NewRIB()
	updater := table.NewFibUpdater(rib, table.NewFibCommander(fwd.FIB))

	return rt, fwd, rib, updater, func() {
		fwd.Close()
		rt.Loop.Stop()
	}
}

// newTestManager builds a Manager with no AuditLog attached.
func newTestManager(t *testing.T) (*Manager, *fw.Forwarder, func()) {
	rt, fwd, rib, updater, cleanup := newTestManagerDeps(t)
	m := NewManager(rt, fwd, rib, updater, nil)
	return m, fwd, cleanup
}
