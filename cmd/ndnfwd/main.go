package main

import (
	"fmt"
	"os"

	"github.com/ndn-fwd/corefwd/cmd"
)

func main() {
	if err := cmd.CmdNdnfwd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
