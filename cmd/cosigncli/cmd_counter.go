package main

import (
	"fmt"

	"github.com/iov-one/cosign/algo"
	"github.com/iov-one/cosign/wallet"
	"github.com/iov-one/cosign/x/counter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// defaultAppID is the counter application deployed on testnet.
const defaultAppID = 736968083

func newCounterCmd(v *viper.Viper) *cobra.Command {
	var (
		appID   uint64
		keyPath string
	)
	cmd := &cobra.Command{
		Use:   "counter",
		Short: "Read and update the on-chain counter",
	}
	cmd.PersistentFlags().Uint64Var(&appID, "app-id", defaultAppID, "ID of the counter application.")
	cmd.PersistentFlags().StringVar(&keyPath, "key", env("COSIGN_PRIV_KEY", defaultKeyPath()),
		"Private key file of the account calling the application.")

	open := func(cmd *cobra.Command, withKey bool) (*counter.Counter, *algo.KeyWallet, error) {
		rt := newRuntime(cmd)
		client, err := newClient(v, rt.logger)
		if err != nil {
			return nil, nil, err
		}
		book := wallet.NewBook(rt.logger)
		var w *algo.KeyWallet
		if withKey {
			if w, err = algo.LoadKeyWallet("counter", keyPath); err != nil {
				return nil, nil, err
			}
			if err := book.Connect(commandContext(cmd), w); err != nil {
				return nil, nil, err
			}
		}
		c := counter.NewCounter(client, appID, book, rt.notifier, rt.logger).
			WithWaitRounds(v.GetUint64("confirm.rounds"))
		return c, w, nil
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get",
			Short: "Print the current count",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				c, _, err := open(cmd, false)
				if err != nil {
					return err
				}
				n, err := c.Get(commandContext(cmd))
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), n)
				return err
			},
		},
		&cobra.Command{
			Use:   "incr",
			Short: "Increment the counter",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				c, w, err := open(cmd, true)
				if err != nil {
					return err
				}
				_, err = c.Increment(commandContext(cmd), w.Accounts()[0])
				return err
			},
		},
		&cobra.Command{
			Use:   "decr",
			Short: "Decrement the counter",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				c, w, err := open(cmd, true)
				if err != nil {
					return err
				}
				_, err = c.Decrement(commandContext(cmd), w.Accounts()[0])
				return err
			},
		},
	)
	return cmd
}
