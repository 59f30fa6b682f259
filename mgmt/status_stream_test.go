package mgmt

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// snapshot dispatches on the `module` query value, defaulting to
// status/general when it names no known dataset.
func TestStatusStreamSnapshotDispatchesByDataset(t *testing.T) {
	m, _, cleanup := newTestManager(t)
	defer cleanup()
	s := NewStatusStream(m)

	assert.IsType(t, GeneralStatus{}, s.snapshot(""))
	assert.IsType(t, GeneralStatus{}, s.snapshot("nonsense"))
	assert.IsType(t, []FibEntryInfo{}, s.snapshot("fib"))
	assert.IsType(t, CsInfo{}, s.snapshot("cs"))
	assert.IsType(t, []FaceInfo{}, s.snapshot("faces"))
}

// A connected client receives at least one JSON snapshot frame of the
// requested dataset before the server-side handler is torn down.
func TestStatusStreamServesSnapshotsOverWebsocket(t *testing.T) {
	m, _, cleanup := newTestManager(t)
	defer cleanup()
	s := NewStatusStream(m)

	srv := httptest.NewServer(s)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?module=faces&interval_ms=1"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		defer resp.Body.Close()
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "[]", string(payload))
}

// A malformed query string is rejected before the upgrade is attempted.
func TestStatusStreamRejectsBadQuery(t *testing.T) {
	m, _, cleanup := newTestManager(t)
	defer cleanup()
	s := NewStatusStream(m)

	req := httptest.NewRequest(http.MethodGet, "/status?interval_ms=not-a-number", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
