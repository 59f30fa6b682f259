package mgmt

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/schema"
	"github.com/gorilla/websocket"
)

// StatusStream pushes live status updates to management UIs over a
// websocket, extending the read-only status-dataset surface
// (status/general, fib/list, ...) with a subscription model instead of
// poll-per-request. This is not a Face and never carries Interest/Data/
// Nack - just a diagnostic push channel over the same websocket library.
type StatusStream struct {
	m        *Manager
	upgrader websocket.Upgrader
	decoder  *schema.Decoder
}

// NewStatusStream builds a StatusStream serving m's ForwarderStatusModule.
func NewStatusStream(m *Manager) *StatusStream {
	return &StatusStream{
		m:       m,
		decoder: schema.NewDecoder(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// streamQuery is the upgrade request's query string, decoded with
// gorilla/schema.
type streamQuery struct {
	// Dataset restricts the push to one dataset name ("general", "fib",
	// "cs", "strategy-choice", "rib", "faces"); empty means "general".
	Dataset      string `schema:"module"`
	IntervalMs   int    `schema:"interval_ms"`
}

func (s *StatusStream) String() string { return "mgmt-status-stream" }

// statusStreamMinInterval floors the client-requested push interval so a
// misbehaving client cannot spin the loop.
const statusStreamMinInterval = 200 * time.Millisecond

// ServeHTTP upgrades the connection and pushes JSON-encoded dataset
// snapshots at the requested (or default) interval until the client
// disconnects or the write fails.
func (s *StatusStream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var q streamQuery
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad query", http.StatusBadRequest)
		return
	}
	if err := s.decoder.Decode(&q, r.Form); err != nil {
		http.Error(w, "bad query", http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.m.rt.Log.Warn(s, "status stream upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	interval := time.Duration(q.IntervalMs) * time.Millisecond
	if interval < statusStreamMinInterval {
		interval = statusStreamMinInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		snapshot := s.snapshot(q.Dataset)
		buf, err := json.Marshal(snapshot)
		if err != nil {
			s.m.rt.Log.Error(s, "status stream marshal failed", "err", err)
			return
		}
		if err := conn.WriteMessage(websocket.TextMessage, buf); err != nil {
			return
		}
	}
}

// snapshot returns the dataset named by dataset, defaulting to
// `status/general`.
func (s *StatusStream) snapshot(dataset string) any {
	switch dataset {
	case "fib":
		return s.m.Status.FibList()
	case "cs":
		return s.m.Status.CsInfo()
	case "strategy-choice":
		return s.m.Status.StrategyChoiceList()
	case "rib":
		return s.m.Status.RibList()
	case "faces":
		return s.m.Status.FacesList()
	default:
		return s.m.Status.General()
	}
}
