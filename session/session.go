/*
Package session runs the complete multisig transfer: building the account
from the registered signers, funding it, collecting signatures from the
signer wallets and submitting the combined transaction.
*/
package session

import (
	"context"
	"fmt"

	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/notify"
	"github.com/iov-one/cosign/wallet"
	"github.com/iov-one/cosign/x/combine"
	"github.com/iov-one/cosign/x/multisig"
	"github.com/iov-one/cosign/x/signers"
	"github.com/iov-one/cosign/x/sigs"
	"github.com/tendermint/tendermint/libs/log"
)

// Network builds payments and talks to the blockchain. It is implemented by
// algo.Client.
type Network interface {
	combine.Submitter
	BuildPayment(ctx context.Context, from, to cosign.Address, amount uint64, note []byte) ([]byte, error)
	Pay(ctx context.Context, p wallet.Provider, from, to cosign.Address, amount uint64, note []byte) (string, error)
}

// Session ties the signing stages together. It is safe for concurrent use
// as long as the registry is not modified while a transfer is proposed.
type Session struct {
	cfg       Config
	registry  *signers.Registry
	book      *wallet.Book
	builder   multisig.Builder
	collector *sigs.Collector
	combiner  *combine.Combiner
	ledger    *sigs.Ledger
	network   Network
	notifier  notify.Sink
	logger    log.Logger
}

// Deps are the collaborators of a Session.
type Deps struct {
	Registry *signers.Registry
	Book     *wallet.Book
	Deriver  multisig.Deriver
	Merger   combine.Merger
	Network  Network
	Notifier notify.Sink
	Logger   log.Logger
}

// New returns a session. All dependencies except the notifier and the
// logger are required.
func New(cfg Config, deps Deps) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config")
	}
	switch {
	case deps.Registry == nil:
		return nil, errors.Wrap(errors.ErrHuman, "registry required")
	case deps.Book == nil:
		return nil, errors.Wrap(errors.ErrHuman, "wallet book required")
	case deps.Deriver == nil:
		return nil, errors.Wrap(errors.ErrHuman, "deriver required")
	case deps.Merger == nil:
		return nil, errors.Wrap(errors.ErrHuman, "merger required")
	case deps.Network == nil:
		return nil, errors.Wrap(errors.ErrHuman, "network required")
	}

	logger := cosign.LoggerOr(deps.Logger)
	sink := notify.Or(deps.Notifier)
	return &Session{
		cfg:      cfg,
		registry: deps.Registry,
		book:     deps.Book,
		builder:  multisig.NewBuilder(deps.Deriver).WithVersion(cfg.Version),
		collector: sigs.NewCollector(deps.Book,
			sigs.WithNotifier(sink),
			sigs.WithLogger(logger),
			sigs.WithMaxInFlight(cfg.MaxInFlight),
		),
		combiner: combine.NewCombiner(deps.Merger, deps.Network, sink, logger),
		ledger:   sigs.NewLedger(),
		network:  deps.Network,
		notifier: sink,
		logger:   logger.With("module", "session"),
	}, nil
}

// Account builds the multisig account of the registered signers.
func (s *Session) Account() (multisig.Descriptor, cosign.Address, error) {
	d, addr, err := s.builder.Build(s.registry, s.cfg.Threshold)
	if err != nil {
		return multisig.Descriptor{}, "", s.fail(errors.Wrap(err, "build multisig account"))
	}
	s.logger.Info("multisig account", "address", addr, "descriptor", d.String())
	return d, addr, nil
}

// Fund transfers the configured funding amount from funder to the multisig
// account and waits for confirmation.
func (s *Session) Fund(ctx context.Context, funder, account cosign.Address) (string, error) {
	p, err := s.book.Lookup(funder)
	if err != nil {
		return "", s.fail(err)
	}
	txID, err := s.network.Pay(ctx, p, funder, account, s.cfg.FundAmount, []byte(s.cfg.FundNote))
	if err != nil {
		return "", s.fail(errors.Wrap(err, "fund multisig account"))
	}
	if _, err := s.combiner.Confirm(ctx, txID, s.cfg.ConfirmRounds); err != nil {
		return "", err
	}
	s.logger.Info("multisig account funded", "account", account, "amount", s.cfg.FundAmount, "txid", txID)
	return txID, nil
}

// Propose creates a pending transfer of amount from the multisig account
// to receiver. A zero amount uses the configured default.
func (s *Session) Propose(ctx context.Context, receiver cosign.Address, amount uint64) (*sigs.PendingTx, error) {
	if receiver == "" {
		s.notifier.Notify(notify.Warning, "Please enter receiver address")
		return nil, errors.Wrap(errors.ErrEmpty, "receiver")
	}
	if err := receiver.Validate(); err != nil {
		return nil, s.fail(errors.Wrap(err, "receiver"))
	}
	if amount == 0 {
		amount = s.cfg.Amount
	}

	d, sender, err := s.Account()
	if err != nil {
		return nil, err
	}
	note := []byte(s.cfg.Note)
	unsigned, err := s.network.BuildPayment(ctx, sender, receiver, amount, note)
	if err != nil {
		return nil, s.fail(errors.Wrap(err, "build payment"))
	}
	tx, err := sigs.NewPendingTx(d, sender, receiver, amount, note, unsigned)
	if err != nil {
		return nil, s.fail(err)
	}
	if err := s.ledger.Put(tx); err != nil {
		return nil, s.fail(err)
	}
	s.notifier.Notify(notify.Info, fmt.Sprintf("Transaction %s needs %d of %d signatures", tx.ID(), d.Threshold(), d.Size()))
	return tx, nil
}

// Collect requests signatures from all participants and returns as soon as
// the quorum is reached. Requests still pending at that moment keep running
// and their signatures are stored if they arrive before combination.
//
// If every request resolved without reaching the quorum, the returned error
// carries each signer failure together with errors.ErrQuorumNotMet.
func (s *Session) Collect(ctx context.Context, tx *sigs.PendingTx) error {
	d := tx.Descriptor()
	results := s.collector.RequestAll(ctx, tx, d.Addresses()...)

	var failures []error
	for r := range results {
		if r.Err != nil {
			failures = append(failures, errors.Wrapf(r.Err, "signer %s", r.Signer))
			continue
		}
		if s.collector.HasQuorum(tx) {
			return nil
		}
	}
	if s.collector.HasQuorum(tx) {
		return nil
	}
	failures = append(failures, errors.Wrapf(errors.ErrQuorumNotMet,
		"%d of %d signatures", tx.Count(), d.Threshold()))
	err := errors.Append(failures...)
	s.logger.Error("signature collection failed", "tx", tx.ID(), "err", err)
	return err
}

// Finalize combines, submits and confirms the transaction. On success the
// explorer link of the transaction is announced.
func (s *Session) Finalize(ctx context.Context, tx *sigs.PendingTx) (string, error) {
	if _, err := s.combiner.Combine(tx); err != nil {
		return "", err
	}
	txID, err := s.combiner.Submit(ctx, tx)
	if err != nil {
		return "", err
	}
	if _, err := s.combiner.Confirm(ctx, txID, s.cfg.ConfirmRounds); err != nil {
		return "", err
	}
	s.notifier.Notify(notify.Success, "Multisig transaction successful!")
	if link := s.ExplorerLink(txID); link != "" {
		s.notifier.Notify(notify.Success, fmt.Sprintf("Transaction completed! %s", link))
	}
	s.ledger.Prune()
	return txID, nil
}

// Send runs the whole transfer. A transfer that cannot collect its quorum
// is cancelled.
func (s *Session) Send(ctx context.Context, receiver cosign.Address, amount uint64) (string, error) {
	tx, err := s.Propose(ctx, receiver, amount)
	if err != nil {
		return "", err
	}
	ctx = cosign.WithLogInfo(ctx, "receiver", receiver)
	if err := s.Collect(ctx, tx); err != nil {
		if cerr := s.collector.Cancel(tx); cerr != nil {
			s.logger.Error("cannot cancel transaction", "tx", tx.ID(), "err", cerr)
		}
		s.ledger.Prune()
		return "", s.fail(err)
	}
	return s.Finalize(ctx, tx)
}

// Cancel discards a pending transaction.
func (s *Session) Cancel(id string) error {
	tx, err := s.ledger.Get(id)
	if err != nil {
		return s.fail(err)
	}
	if err := s.collector.Cancel(tx); err != nil {
		return err
	}
	s.ledger.Prune()
	return nil
}

// Pending returns the transactions that are neither submitted nor
// cancelled, oldest first.
func (s *Session) Pending() []*sigs.PendingTx {
	var res []*sigs.PendingTx
	for _, tx := range s.ledger.List() {
		if !tx.State().IsTerminal() {
			res = append(res, tx)
		}
	}
	return res
}

// ExplorerLink returns the explorer URL of the transaction, or an empty
// string if no explorer is configured.
func (s *Session) ExplorerLink(txID string) string {
	if s.cfg.ExplorerURL == "" || txID == "" {
		return ""
	}
	return s.cfg.ExplorerURL + txID
}

func (s *Session) fail(err error) error {
	s.logger.Error("session operation failed", "err", err)
	s.notifier.Notify(notify.Error, err.Error())
	return err
}
