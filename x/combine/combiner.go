package combine

import (
	"context"
	"fmt"
	"strings"

	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/notify"
	"github.com/iov-one/cosign/x/sigs"
	"github.com/tendermint/tendermint/libs/log"
)

// Merger merges partial multisig signatures of the same unsigned
// transaction. It is implemented by the blockchain SDK adapter.
type Merger interface {
	MergeMultisig(unsigned []byte, parts [][]byte) (txID string, blob []byte, err error)
}

// Submitter sends transactions to the network.
type Submitter interface {
	SendRawTransaction(ctx context.Context, blob []byte) (txID string, err error)
	WaitForConfirmation(ctx context.Context, txID string, maxRounds uint64) (round uint64, err error)
}

// Combiner combines and submits pending transactions.
type Combiner struct {
	merger    Merger
	submitter Submitter
	notifier  notify.Sink
	logger    log.Logger
}

// NewCombiner returns a combiner. Submitter may be nil if the combiner is
// only used to merge signatures.
func NewCombiner(m Merger, s Submitter, n notify.Sink, logger log.Logger) *Combiner {
	return &Combiner{
		merger:    m,
		submitter: s,
		notifier:  notify.Or(n),
		logger:    cosign.LoggerOr(logger).With("module", "combine"),
	}
}

// Combine merges the first threshold signatures, in arrival order, into a
// single transaction. Without a quorum errors.ErrQuorumNotMet is returned
// and the transaction is left untouched.
func (c *Combiner) Combine(tx *sigs.PendingTx) (sigs.CombinedTx, error) {
	if c.merger == nil {
		return sigs.CombinedTx{}, errors.Wrap(errors.ErrHuman, "merger required")
	}
	logger := c.logger.With("tx", tx.ID())

	res, err := tx.CombineWith(func(quorum []sigs.PartialSignature) (sigs.CombinedTx, error) {
		parts := make([][]byte, len(quorum))
		signers := make(cosign.Addresses, len(quorum))
		for i, s := range quorum {
			parts[i] = s.Payload
			signers[i] = s.Signer
		}
		txID, blob, err := c.merger.MergeMultisig(tx.Payload(), parts)
		if err != nil {
			return sigs.CombinedTx{}, errors.Wrap(errors.ErrSigningFailed, err.Error())
		}
		if len(blob) == 0 {
			return sigs.CombinedTx{}, errors.Wrap(errors.ErrSigningFailed, "merger returned an empty transaction")
		}
		logger.Info("signatures merged", "signers", strings.Join(signers.Strings(), ","))
		return sigs.CombinedTx{TxID: txID, Blob: blob, Signers: signers}, nil
	})
	if err != nil {
		return sigs.CombinedTx{}, c.fail(logger, err)
	}
	return res, nil
}

// Submit sends the combined transaction. The transaction must be combined.
// Transport failures are reported as errors.ErrNetwork, a transaction
// refused by the node as errors.ErrRejectedByNetwork. On failure the
// transaction stays combined. A Submit of a transaction that is being
// submitted by another call fails with errors.ErrInvalidState and sends
// nothing.
func (c *Combiner) Submit(ctx context.Context, tx *sigs.PendingTx) (string, error) {
	logger := c.loggerFor(ctx).With("tx", tx.ID())

	if c.submitter == nil {
		return "", c.fail(logger, errors.Wrap(errors.ErrHuman, "submitter required"))
	}
	combined, done, err := tx.BeginSubmit()
	if err != nil {
		return "", c.fail(logger, err)
	}
	if done {
		return tx.TxID(), nil
	}

	txID, err := c.submitter.SendRawTransaction(ctx, combined.Blob)
	if err != nil {
		tx.AbortSubmit()
		return "", c.fail(logger, classify(err))
	}
	if txID == "" {
		txID = combined.TxID
	}
	if err := tx.MarkSubmitted(txID); err != nil {
		return "", c.fail(logger, err)
	}
	logger.Info("transaction submitted", "txid", txID)
	c.notifier.Notify(notify.Info, fmt.Sprintf("Transaction %s submitted", txID))
	return txID, nil
}

// Confirm waits up to rounds rounds for the transaction to be confirmed.
func (c *Combiner) Confirm(ctx context.Context, txID string, rounds uint64) (uint64, error) {
	logger := c.loggerFor(ctx).With("txid", txID)

	if c.submitter == nil {
		return 0, c.fail(logger, errors.Wrap(errors.ErrHuman, "submitter required"))
	}
	round, err := c.submitter.WaitForConfirmation(ctx, txID, rounds)
	if err != nil {
		return 0, c.fail(logger, classify(err))
	}
	logger.Info("transaction confirmed", "round", round)
	c.notifier.Notify(notify.Success, fmt.Sprintf("Transaction %s confirmed in round %d", txID, round))
	return round, nil
}

// loggerFor prefers the logger carried by ctx over the configured one.
func (c *Combiner) loggerFor(ctx context.Context) log.Logger {
	if logger, ok := cosign.ContextLogger(ctx); ok {
		return logger.With("module", "combine")
	}
	return c.logger
}

// classify keeps errors that already carry a network kind and reports
// anything else as a network failure.
func classify(err error) error {
	if errors.ErrNetwork.Is(err) || errors.ErrRejectedByNetwork.Is(err) {
		return err
	}
	return errors.Wrap(errors.ErrNetwork, err.Error())
}

func (c *Combiner) fail(logger log.Logger, err error) error {
	logger.Error("combine failed", "err", err)
	c.notifier.Notify(notify.Error, err.Error())
	return err
}
