package sigs

import (
	"context"
	"fmt"
	"sync"

	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/notify"
	"github.com/iov-one/cosign/wallet"
	"github.com/tendermint/tendermint/libs/log"
	"golang.org/x/sync/semaphore"
)

// WalletLookup returns the connected wallet controlling an address. It is
// implemented by wallet.Book.
type WalletLookup interface {
	Lookup(cosign.Address) (wallet.Provider, error)
}

// Collector requests partial signatures from signer wallets and stores them
// in the pending transaction.
type Collector struct {
	wallets     WalletLookup
	notifier    notify.Sink
	logger      log.Logger
	inflight    *semaphore.Weighted
	onSignature func(*PendingTx, PartialSignature)
}

// Option configures a Collector.
type Option func(*Collector)

// WithNotifier sets the sink receiving user facing status messages.
func WithNotifier(s notify.Sink) Option {
	return func(c *Collector) { c.notifier = notify.Or(s) }
}

// WithLogger sets the logger.
func WithLogger(l log.Logger) Option {
	return func(c *Collector) { c.logger = cosign.LoggerOr(l) }
}

// WithMaxInFlight limits the number of wallet requests running at the same
// time. Zero means no limit.
func WithMaxInFlight(n int) Option {
	return func(c *Collector) {
		if n > 0 {
			c.inflight = semaphore.NewWeighted(int64(n))
		} else {
			c.inflight = nil
		}
	}
}

// WithOnSignature registers a callback fired after every stored signature.
// The callback runs on the goroutine that delivered the signature.
func WithOnSignature(fn func(*PendingTx, PartialSignature)) Option {
	return func(c *Collector) { c.onSignature = fn }
}

// NewCollector returns a collector using given wallets.
func NewCollector(wallets WalletLookup, opts ...Option) *Collector {
	c := &Collector{
		wallets:  wallets,
		notifier: notify.Nop{},
		logger:   cosign.DefaultLogger,
	}
	for _, o := range opts {
		o(c)
	}
	c.logger = c.logger.With("module", "sigs")
	return c
}

// loggerFor prefers the logger carried by ctx over the configured one.
func (c *Collector) loggerFor(ctx context.Context) log.Logger {
	if logger, ok := cosign.ContextLogger(ctx); ok {
		return logger.With("module", "sigs")
	}
	return c.logger
}

// RequestSignature asks the wallet of the signer to sign the transaction
// and stores the result. The call blocks until the wallet responds or ctx
// is done; no timeout is imposed otherwise.
//
// A signature delivered after the transaction was cancelled is dropped
// without notification and errors.ErrCancelled is returned.
func (c *Collector) RequestSignature(ctx context.Context, tx *PendingTx, signer cosign.Address) (PartialSignature, error) {
	logger := c.loggerFor(ctx).With("tx", tx.ID(), "signer", signer)

	d := tx.Descriptor()
	if !d.Has(signer) {
		return PartialSignature{}, c.fail(logger, errors.Wrapf(errors.ErrUnknownSigner,
			"%s is not a participant of %s", signer, tx.Sender()))
	}
	if err := tx.begin(signer); err != nil {
		return PartialSignature{}, c.fail(logger, err)
	}
	p, err := c.wallets.Lookup(signer)
	if err != nil {
		if !errors.ErrSignerUnavailable.Is(err) {
			err = errors.Wrap(errors.ErrSignerUnavailable, err.Error())
		}
		return PartialSignature{}, c.fail(logger, err)
	}

	if c.inflight != nil {
		if err := c.inflight.Acquire(ctx, 1); err != nil {
			return PartialSignature{}, c.fail(logger, errors.Wrap(errors.ErrSigningFailed, err.Error()))
		}
		defer c.inflight.Release(1)
	}

	logger.Debug("requesting signature", "wallet", p.ID())
	raw, err := wallet.SignOne(ctx, p, wallet.SignRequest{
		Payload:  tx.Payload(),
		Signer:   signer,
		Multisig: &d,
	})
	if tx.State() == Cancelled {
		logger.Debug("signature discarded, transaction cancelled")
		return PartialSignature{}, errors.Wrapf(errors.ErrCancelled, "transaction %s", tx.ID())
	}
	if err != nil {
		return PartialSignature{}, c.fail(logger, normalizeWalletErr(err))
	}

	sig, reached, err := tx.insert(signer, raw)
	switch {
	case errors.ErrCancelled.Is(err):
		logger.Debug("signature discarded, transaction cancelled")
		return PartialSignature{}, err
	case errors.ErrInvalidState.Is(err):
		logger.Info("late signature ignored", "state", tx.State())
		c.notifier.Notify(notify.Warning, fmt.Sprintf("Signature from %s arrived after combination and was ignored", signer))
		return PartialSignature{}, err
	case err != nil:
		return PartialSignature{}, c.fail(logger, err)
	}

	threshold := d.Threshold()
	logger.Info("signature collected", "seq", sig.Seq, "threshold", threshold)
	c.notifier.Notify(notify.Info, fmt.Sprintf("Signature %d/%d collected from %s", sig.Seq+1, threshold, signer))
	if reached {
		c.notifier.Notify(notify.Success, fmt.Sprintf("Quorum reached for transaction %s", tx.ID()))
	}
	if c.onSignature != nil {
		c.onSignature(tx, sig)
	}
	return sig, nil
}

// normalizeWalletErr maps wallet failures onto the signing error taxonomy.
func normalizeWalletErr(err error) error {
	switch {
	case errors.ErrUserRejected.Is(err), errors.ErrSigningFailed.Is(err), errors.ErrSignerUnavailable.Is(err):
		return err
	default:
		return errors.Wrap(errors.ErrSigningFailed, err.Error())
	}
}

func (c *Collector) fail(logger log.Logger, err error) error {
	logger.Error("signature request failed", "err", err)
	c.notifier.Notify(notify.Error, err.Error())
	return err
}

// Result is the outcome of a single signature request.
type Result struct {
	Signer    cosign.Address
	Signature PartialSignature
	Err       error
}

// RequestAll requests signatures from all given signers concurrently.
// Results are delivered in completion order. A failing request does not
// affect the others. The channel is closed once every request resolved.
//
// Signers that never respond keep the channel open until ctx is done, so
// consumers that only need a quorum should use HasQuorum instead of
// draining the channel.
func (c *Collector) RequestAll(ctx context.Context, tx *PendingTx, signers ...cosign.Address) <-chan Result {
	results := make(chan Result, len(signers))

	var wg sync.WaitGroup
	for _, s := range signers {
		wg.Add(1)
		go func(signer cosign.Address) {
			defer wg.Done()
			sig, err := c.RequestSignature(ctx, tx, signer)
			results <- Result{Signer: signer, Signature: sig, Err: err}
		}(s)
	}
	go func() {
		wg.Wait()
		close(results)
	}()
	return results
}

// HasQuorum returns true if the transaction collected at least threshold
// signatures.
func (c *Collector) HasQuorum(tx *PendingTx) bool {
	return tx.HasQuorum()
}

// Cancel discards the transaction. Requests still in flight are dropped
// when they resolve.
func (c *Collector) Cancel(tx *PendingTx) error {
	if err := tx.Cancel(); err != nil {
		return c.fail(c.logger.With("tx", tx.ID()), err)
	}
	c.logger.Info("transaction cancelled", "tx", tx.ID())
	c.notifier.Notify(notify.Warning, fmt.Sprintf("Transaction %s cancelled", tx.ID()))
	return nil
}
