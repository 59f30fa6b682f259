// Package cmd assembles the forwarding core, RIB, and management surface
// into a runnable daemon and exposes it as a cobra command.
package cmd

import (
	"context"
	"net/http"
	"time"

	"github.com/ndn-fwd/corefwd/config"
	"github.com/ndn-fwd/corefwd/core"
	"github.com/ndn-fwd/corefwd/face"
	"github.com/ndn-fwd/corefwd/fw"
	"github.com/ndn-fwd/corefwd/mgmt"
	"github.com/ndn-fwd/corefwd/table"
)

// Daemon bundles a Forwarder, its RIB and FibUpdater, and the management
// surface (Manager, AuditLog, StatusStream) into one runnable process.
type Daemon struct {
	rt  *core.RuntimeContext
	cfg *config.Config

	Forwarder *fw.Forwarder
	RIB       *table.RIB
	Updater   *table.FibUpdater
	Manager   *mgmt.Manager
	Audit     *mgmt.AuditLog

	stream     *mgmt.StatusStream
	httpServer *http.Server
}

func (d *Daemon) String() string { return "daemon" }

// NewDaemon wires a Daemon from cfg: a RuntimeContext at cfg's log level,
// a Forwarder with the built-in strategy registry, a RIB driving that
// Forwarder's FIB through a FibUpdater, an optional sqlite-backed
// AuditLog at auditPath ("" disables auditing, ":memory:" for a
// non-persistent log), and the NLSR readvertiser if cfg.RIB.ReadvertiseNlsr
// is set.
func NewDaemon(cfg *config.Config, auditPath string) (*Daemon, error) {
	level, _ := core.ParseLevel(cfg.LogLevel)
	rt := core.NewRuntimeContext(time.Now().UnixNano(), level)

	fwd, err := fw.NewForwarder(rt, cfg, fw.NewStrategyRegistry())
	if err != nil {
		return nil, err
	}
	if err := fwd.Faces.AddReserved(face.NewNullFace(), face.NullFaceId); err != nil {
		return nil, err
	}

	rib := table.NewRIB()
	commander := table.NewFibCommander(fwd.FIB)
	updater := table.NewFibUpdater(rib, commander)

	fwd.Faces.OnBeforeRemove(func(fc face.Face) {
		rib.BeginRemoveFace(fc.Id())
		updater.DrainQueue(nil)
	})

	if cfg.RIB.ReadvertiseNlsr {
		cost := uint64(cfg.RIB.AutoPrefixPropagateCost)
		timeout := time.Duration(cfg.RIB.AutoPropagateTimeoutMs) * time.Millisecond
		rib.AddReadvertiser(table.NewNlsrReadvertiser(rib, updater, rt.Scheduler, cost, timeout))
	}

	var audit *mgmt.AuditLog
	if auditPath != "" {
		audit, err = mgmt.NewAuditLog(auditPath)
		if err != nil {
			return nil, err
		}
	}

	mgr := mgmt.NewManager(rt, fwd, rib, updater, audit)
	stream := mgmt.NewStatusStream(mgr)

	return &Daemon{
		rt:        rt,
		cfg:       cfg,
		Forwarder: fwd,
		RIB:       rib,
		Updater:   updater,
		Manager:   mgr,
		Audit:     audit,
		stream:    stream,
	}, nil
}

// Start runs the forwarding Loop on its own goroutine and, if listenAddr
// is non-empty, serves the status-stream websocket at
// ws://listenAddr/status.
func (d *Daemon) Start(listenAddr string) {
	go d.rt.Loop.Run()

	if listenAddr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/status", d.stream)
	d.httpServer = &http.Server{Addr: listenAddr, Handler: mux}
	go func() {
		if err := d.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			d.rt.Log.Error(d, "status stream server failed", "err", err)
		}
	}()
	d.rt.Log.Info(d, "status stream listening", "addr", listenAddr)
}

// Stop shuts down the status-stream server, stops the Loop, and closes
// the audit log.
func (d *Daemon) Stop() {
	if d.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		d.httpServer.Shutdown(ctx)
	}
	d.Forwarder.Close()
	d.rt.Loop.Stop()
	if d.Audit != nil {
		d.Audit.Close()
	}
}
