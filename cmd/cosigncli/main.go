/*
Command cosigncli assembles multisig transfers from the command line.

Configuration is read from flags, COSIGN_* environment variables and an
optional config file, in that order of precedence. For example the algod
address can be given with --algod-address, COSIGN_ALGOD_ADDRESS or the
algod.address key of the config file.
*/
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
