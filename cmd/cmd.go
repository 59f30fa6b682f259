package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ndn-fwd/corefwd/config"
)

var (
	auditPath  string
	listenAddr string
)

// CmdNdnfwd is the forwarder daemon's root command: a single positional
// config-file argument, RunE wired to run().
var CmdNdnfwd = &cobra.Command{
	Use:   "ndnfwd CONFIG-FILE",
	Short: "NDN forwarding daemon (forwarding core + RIB)",
	Args:  cobra.ExactArgs(1),
	RunE:  run,
}

func init() {
	CmdNdnfwd.Flags().StringVar(&auditPath, "audit-db", "", "sqlite3 path for the management command audit log (empty disables auditing)")
	CmdNdnfwd.Flags().StringVar(&listenAddr, "listen", "", "address to serve the status-stream websocket on (empty disables it)")
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.ReadYaml(args[0])
	if err != nil {
		return err
	}

	d, err := NewDaemon(cfg, auditPath)
	if err != nil {
		return err
	}
	d.Start(listenAddr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh
	d.rt.Log.Info(d, "received signal, shutting down", "signal", sig)

	d.Stop()
	return nil
}
