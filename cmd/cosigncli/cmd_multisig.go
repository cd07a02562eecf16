package main

import (
	"fmt"

	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/algo"
	"github.com/iov-one/cosign/x/multisig"
	"github.com/iov-one/cosign/x/signers"
	"github.com/spf13/cobra"
)

func newMultisigCmd() *cobra.Command {
	var (
		threshold int
		version   uint8
	)
	cmd := &cobra.Command{
		Use:   "multisig <address>...",
		Short: "Print out the address of a multisig account",
		Long: `Print out the address of a multisig account.

The order of the participant addresses matters: the same participants given
in a different order form a different account.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addrs := make(cosign.Addresses, len(args))
			for i, a := range args {
				addrs[i] = cosign.Address(a)
			}
			registry, err := signers.NewRegistry(addrs...)
			if err != nil {
				return err
			}
			d, addr, err := multisig.NewBuilder(algo.Deriver{}).WithVersion(version).Build(registry, threshold)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", addr, d)
			return err
		},
	}
	cmd.Flags().IntVar(&threshold, "threshold", 2, "Number of signatures required.")
	cmd.Flags().Uint8Var(&version, "version", multisig.DefaultVersion, "Multisig format version.")
	return cmd
}
