package main

import (
	"fmt"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/iov-one/cosign/algo"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/ed25519"
)

func newKeygenCmd() *cobra.Command {
	var keyPath string
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a new private key",
		Long: `Generate a new private key.

When successful a new file with binary content containing the private key is
created and the address of the account is printed. This command fails if the
private key file already exists.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			acc := crypto.GenerateAccount()
			if err := algo.WriteKeyFile(keyPath, ed25519.PrivateKey(acc.PrivateKey)); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), acc.Address.String())
			return err
		},
	}
	cmd.Flags().StringVar(&keyPath, "key", env("COSIGN_PRIV_KEY", defaultKeyPath()),
		"Path to the private key file. You can use COSIGN_PRIV_KEY environment variable to set it.")
	return cmd
}

func newKeyaddrCmd() *cobra.Command {
	var (
		keyPath  string
		mnemonic bool
	)
	cmd := &cobra.Command{
		Use:   "keyaddr",
		Short: "Print out the address associated with your private key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := algo.LoadKeyWallet("keyaddr", keyPath)
			if err != nil {
				return err
			}
			addr := w.Accounts()[0]
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), addr); err != nil {
				return err
			}
			if !mnemonic {
				return nil
			}
			phrase, err := w.Mnemonic(addr)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), phrase)
			return err
		},
	}
	cmd.Flags().StringVar(&keyPath, "key", env("COSIGN_PRIV_KEY", defaultKeyPath()),
		"Path to the private key file. You can use COSIGN_PRIV_KEY environment variable to set it.")
	cmd.Flags().BoolVar(&mnemonic, "mnemonic", false, "Print the recovery phrase as well.")
	return cmd
}
