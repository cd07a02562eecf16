package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/algo"
	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/session"
	"github.com/iov-one/cosign/wallet"
	"github.com/iov-one/cosign/x/multisig"
	"github.com/iov-one/cosign/x/signers"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type sendOptions struct {
	keys      []string
	random    int
	threshold int
	receiver  string
	amount    uint64
	fundFrom  string
	approve   bool
}

func newSendCmd(v *viper.Viper) *cobra.Command {
	var opts sendOptions
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a payment from a multisig account",
		Long: `Send a payment from a multisig account.

The participants of the account are the accounts of the given key files, in
the given order, or freshly generated accounts when --random is used. The
multisig account is optionally funded from the --fund-from account before
the payment is made. Signatures are requested from all participants at once
and the payment is submitted as soon as the threshold is reached.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSend(cmd, v, opts)
		},
	}
	fl := cmd.Flags()
	fl.StringSliceVar(&opts.keys, "key", nil, "Private key file of a participant. Repeat for every participant.")
	fl.IntVar(&opts.random, "random", 0, "Use given number of generated participant accounts instead of key files.")
	fl.IntVar(&opts.threshold, "threshold", 2, "Number of signatures required.")
	fl.StringVar(&opts.receiver, "receiver", "", "Receiver address.")
	fl.Uint64Var(&opts.amount, "amount", 0, "Amount in microAlgos. Zero sends the default amount.")
	fl.StringVar(&opts.fundFrom, "fund-from", "", "Private key file of an account funding the multisig account first.")
	fl.BoolVar(&opts.approve, "approve", false, "Ask for approval before every signature.")
	return cmd
}

func runSend(cmd *cobra.Command, v *viper.Viper, opts sendOptions) error {
	rt := newRuntime(cmd)
	ctx := rt.ctx

	participants, err := participantWallet(opts)
	if err != nil {
		return err
	}
	if opts.approve {
		participants.WithApproval(prompter(cmd.InOrStdin(), cmd.OutOrStdout()))
	}

	book := wallet.NewBook(rt.logger)
	if err := book.Connect(ctx, participants); err != nil {
		return err
	}
	registry, err := signers.NewRegistry(participants.Accounts()...)
	if err != nil {
		return err
	}

	client, err := newClient(v, rt.logger)
	if err != nil {
		return err
	}
	deriver, err := multisig.NewCachingDeriver(algo.Deriver{}, multisig.DefaultCacheSize)
	if err != nil {
		return err
	}

	cfg := sessionConfig(v)
	cfg.Threshold = opts.threshold
	s, err := session.New(cfg, session.Deps{
		Registry: registry,
		Book:     book,
		Deriver:  deriver,
		Merger:   algo.Merger{},
		Network:  client,
		Notifier: rt.notifier,
		Logger:   rt.logger,
	})
	if err != nil {
		return err
	}

	if opts.fundFrom != "" {
		funder, err := algo.LoadKeyWallet("funder", opts.fundFrom)
		if err != nil {
			return err
		}
		if err := book.Connect(ctx, funder); err != nil {
			return err
		}
		_, account, err := s.Account()
		if err != nil {
			return err
		}
		if _, err := s.Fund(ctx, funder.Accounts()[0], account); err != nil {
			return err
		}
	}

	txID, err := s.Send(ctx, cosign.Address(opts.receiver), opts.amount)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), txID)
	return err
}

func participantWallet(opts sendOptions) (*algo.KeyWallet, error) {
	switch {
	case opts.random > 0 && len(opts.keys) > 0:
		return nil, errors.Wrap(errors.ErrInvalidInput, "use either key files or random accounts")
	case opts.random > 0:
		return algo.GenerateKeyWallet("random", opts.random)
	case len(opts.keys) > 0:
		return algo.LoadKeyWallet("keys", opts.keys...)
	default:
		return nil, errors.Wrap(errors.ErrEmpty, "participants")
	}
}

// prompter asks the user to approve each signature. Questions are
// serialized because requests are signed concurrently.
func prompter(in io.Reader, out io.Writer) algo.ApproveFunc {
	var mu sync.Mutex
	scanner := bufio.NewScanner(in)
	return func(ctx context.Context, req wallet.SignRequest) (bool, error) {
		mu.Lock()
		defer mu.Unlock()

		fmt.Fprintf(out, "Sign transaction with %s? [y/N] ", req.Signer)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return false, err
			}
			return false, nil
		}
		answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
		return answer == "y" || answer == "yes", nil
	}
}
