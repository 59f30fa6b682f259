package mgmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndn-fwd/corefwd/face"
	"github.com/ndn-fwd/corefwd/ndn"
)

// status/general reports the live sizes of the tables behind the
// Forwarder rather than a stale snapshot.
func TestForwarderStatusGeneralReflectsTableSizes(t *testing.T) {
	m, fwd, cleanup := newTestManager(t)
	defer cleanup()

	faceId := fwd.Faces.Add(face.NewDummyFace(face.NonLocal))
	entry, _ := fwd.FIB.Insert(ndn.NameFromStr("/a"))
	fwd.FIB.AddNextHop(entry, faceId, 0)

	general := m.Status.General()
	assert.Equal(t, 1, general.NFibEntries)
	assert.False(t, general.CurrentTimestamp.IsZero())
	assert.False(t, general.StartTimestamp.After(general.CurrentTimestamp))
}

// fib/list reports every FIB entry's name and next-hop set.
func TestForwarderStatusFibList(t *testing.T) {
	m, fwd, cleanup := newTestManager(t)
	defer cleanup()

	faceId := fwd.Faces.Add(face.NewDummyFace(face.NonLocal))
	resp := m.FIB.AddNextHop(ControlParameters{
		Name:   ndn.NameFromStr("/a"),
		FaceId: &faceId,
	})
	require.Equal(t, CodeOK, resp.Code)

	list := m.Status.FibList()
	require.Len(t, list, 1)
	assert.True(t, list[0].Name.Equal(ndn.NameFromStr("/a")))
	assert.Len(t, list[0].NextHops, 1)
}

// faces/list reports every face registered in the face table.
func TestForwarderStatusFacesList(t *testing.T) {
	m, fwd, cleanup := newTestManager(t)
	defer cleanup()

	fwd.Faces.Add(face.NewDummyFace(face.NonLocal))

	list := m.Status.FacesList()
	assert.Len(t, list, 1)
}
