package mgmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndn-fwd/corefwd/ndn"
)

// Record persists a row Recent can read back, newest first.
func TestAuditLogRecordAndRecent(t *testing.T) {
	log, err := NewAuditLog(":memory:")
	require.NoError(t, err)
	defer log.Close()

	log.Record("fib", "add-nexthop",
		ControlParameters{Name: ndn.NameFromStr("/a")},
		ControlResponse{Code: CodeOK, Text: "OK"})
	log.Record("cs", "erase",
		ControlParameters{Name: ndn.NameFromStr("/b")},
		ControlResponse{Code: CodeNotFound, Text: "Not found"})

	recs, err := log.Recent(10)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "cs", recs[0].Module)
	assert.Equal(t, "erase", recs[0].Verb)
	assert.Equal(t, "/b", recs[0].Name)
	assert.Equal(t, CodeNotFound, recs[0].Code)

	assert.Equal(t, "fib", recs[1].Module)
	assert.Equal(t, "/a", recs[1].Name)
}

// A Manager with an AuditLog attached records every dispatched command
// without that recording affecting the command's own result.
func TestManagerRecordsDispatchedCommandsToAuditLog(t *testing.T) {
	log, err := NewAuditLog(":memory:")
	require.NoError(t, err)
	defer log.Close()

	rt, fwd, rib, updater, cleanup := newTestManagerDeps(t)
	defer cleanup()
	m := NewManager(rt, fwd, rib, updater, log)

	resp := m.FIB.AddNextHop(ControlParameters{Name: ndn.NameFromStr("/a")})
	assert.Equal(t, CodeMalformed, resp.Code)

	recs, err := log.Recent(10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "fib", recs[0].Module)
	assert.Equal(t, "add-nexthop", recs[0].Verb)
	assert.Equal(t, CodeMalformed, recs[0].Code)
}
