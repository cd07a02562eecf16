package session_test

import (
	"context"
	"testing"

	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/cosigntest"
	"github.com/iov-one/cosign/cosigntest/assert"
	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/notify"
	"github.com/iov-one/cosign/session"
	"github.com/iov-one/cosign/wallet"
	"github.com/iov-one/cosign/x/signers"
	"github.com/iov-one/cosign/x/sigs"
)

type fixture struct {
	signers cosign.Addresses
	wallet  *cosigntest.Wallet
	funder  *cosigntest.Wallet
	network *cosigntest.Network
	merger  *cosigntest.Merger
	notes   *notify.Recorder
	session *session.Session
}

func newFixture(t *testing.T, cfg session.Config, n int) *fixture {
	t.Helper()
	ctx := context.Background()

	addrs := cosigntest.NewAddresses(n)
	registry, err := signers.NewRegistry(addrs...)
	assert.Nil(t, err)

	w := cosigntest.NewWallet("signers", addrs...)
	funder := cosigntest.NewWallet("funder", "FUNDER")
	book := wallet.NewBook(nil)
	assert.Nil(t, book.Connect(ctx, w))
	assert.Nil(t, book.Connect(ctx, funder))

	f := &fixture{
		signers: addrs,
		wallet:  w,
		funder:  funder,
		network: &cosigntest.Network{Submitter: cosigntest.Submitter{Round: 7}},
		merger:  &cosigntest.Merger{},
		notes:   &notify.Recorder{},
	}
	f.session, err = session.New(cfg, session.Deps{
		Registry: registry,
		Book:     book,
		Deriver:  &cosigntest.Deriver{},
		Merger:   f.merger,
		Network:  f.network,
		Notifier: f.notes,
	})
	assert.Nil(t, err)
	return f
}

func TestSend(t *testing.T) {
	f := newFixture(t, session.DefaultConfig(), 3)

	txID, err := f.session.Send(context.Background(), "RECEIVER", 0)
	assert.Nil(t, err)

	sent := f.network.Sent()
	assert.Equal(t, 1, len(sent))
	assert.Equal(t, cosigntest.TxID(sent[0]), txID)
	assert.Equal(t, 1, f.merger.CallCount())
	assert.Equal(t, 2, len(f.merger.LastParts()))
	assert.Equal(t, 0, len(f.session.Pending()))

	want := notify.Entry{Level: notify.Success, Msg: "Transaction completed! " + session.DefaultExplorerURL + txID}
	var linked bool
	for _, e := range f.notes.Entries() {
		if e == want {
			linked = true
		}
	}
	assert.Equal(t, true, linked)
	assert.Equal(t, 0, f.notes.Count(notify.Error))
}

func TestSendUsesDefaultAmount(t *testing.T) {
	cfg := session.DefaultConfig()
	f := newFixture(t, cfg, 2)

	tx, err := f.session.Propose(context.Background(), "RECEIVER", 0)
	assert.Nil(t, err)
	assert.Equal(t, cfg.Amount, tx.Amount())
	assert.Equal(t, cosigntest.Unsigned(tx.Sender(), "RECEIVER", cfg.Amount), tx.Payload())

	_, addr, err := f.session.Account()
	assert.Nil(t, err)
	assert.Equal(t, addr, tx.Sender())
	assert.Equal(t, []*sigs.PendingTx{tx}, f.session.Pending())
}

func TestSendWithoutReceiver(t *testing.T) {
	f := newFixture(t, session.DefaultConfig(), 3)

	_, err := f.session.Send(context.Background(), "", 1)
	assert.IsErr(t, errors.ErrEmpty, err)
	assert.Equal(t, []notify.Entry{
		{Level: notify.Warning, Msg: "Please enter receiver address"},
	}, f.notes.Entries())
	assert.Equal(t, 0, f.wallet.CallCount())
}

func TestSendWithoutQuorum(t *testing.T) {
	f := newFixture(t, session.DefaultConfig(), 3)
	f.wallet.Reject(f.signers[0])
	f.wallet.Fail(f.signers[2], errors.ErrSignerUnavailable.New("battery empty"))

	_, err := f.session.Send(context.Background(), "RECEIVER", 1)
	assert.ContainsErrs(t, err, errors.ErrUserRejected, errors.ErrSignerUnavailable, errors.ErrQuorumNotMet)
	assert.Equal(t, 0, len(f.network.Sent()))
	assert.Equal(t, 0, f.merger.CallCount())
	assert.Equal(t, 0, len(f.session.Pending()))
}

func TestSendTooFewSigners(t *testing.T) {
	cfg := session.DefaultConfig()
	cfg.Threshold = 3
	f := newFixture(t, cfg, 2)

	_, err := f.session.Send(context.Background(), "RECEIVER", 1)
	assert.IsErr(t, errors.ErrInsufficientSigners, err)
	assert.Equal(t, 1, f.notes.Count(notify.Error))
}

func TestFinalizeRetryAfterRejection(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, session.DefaultConfig(), 3)
	f.network.SendErr = errors.ErrRejectedByNetwork.New("overspend")

	tx, err := f.session.Propose(ctx, "RECEIVER", 1)
	assert.Nil(t, err)
	assert.Nil(t, f.session.Collect(ctx, tx))

	_, err = f.session.Finalize(ctx, tx)
	assert.IsErr(t, errors.ErrRejectedByNetwork, err)
	assert.Equal(t, sigs.Combined, tx.State())
	assert.Equal(t, []*sigs.PendingTx{tx}, f.session.Pending())

	f.network.SendErr = nil
	txID, err := f.session.Finalize(ctx, tx)
	assert.Nil(t, err)
	assert.Equal(t, txID, tx.TxID())
	assert.Equal(t, 1, f.merger.CallCount())
	assert.Equal(t, 0, len(f.session.Pending()))
}

func TestFund(t *testing.T) {
	ctx := context.Background()
	cfg := session.DefaultConfig()
	f := newFixture(t, cfg, 3)

	_, account, err := f.session.Account()
	assert.Nil(t, err)

	txID, err := f.session.Fund(ctx, "FUNDER", account)
	assert.Nil(t, err)
	assert.Equal(t, true, txID != "")
	assert.Equal(t, []cosigntest.Payment{{
		From:   "FUNDER",
		To:     account,
		Amount: cfg.FundAmount,
		Note:   "Funding multisig account",
	}}, f.network.Payments())

	_, err = f.session.Fund(ctx, "STRANGER", account)
	assert.IsErr(t, errors.ErrSignerUnavailable, err)

	f.network.ConfirmErr = errors.ErrNetwork.New("not confirmed")
	_, err = f.session.Fund(ctx, "FUNDER", account)
	assert.IsErr(t, errors.ErrNetwork, err)
}

func TestCancel(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, session.DefaultConfig(), 3)

	tx, err := f.session.Propose(ctx, "RECEIVER", 1)
	assert.Nil(t, err)
	assert.Nil(t, f.session.Cancel(tx.ID()))
	assert.Equal(t, sigs.Cancelled, tx.State())
	assert.Equal(t, 0, len(f.session.Pending()))
	assert.IsErr(t, errors.ErrNotFound, f.session.Cancel(tx.ID()))
}

func TestExplorerLink(t *testing.T) {
	cfg := session.DefaultConfig()
	f := newFixture(t, cfg, 2)
	assert.Equal(t, cfg.ExplorerURL+"TX", f.session.ExplorerLink("TX"))
	assert.Equal(t, "", f.session.ExplorerLink(""))

	cfg.ExplorerURL = ""
	f = newFixture(t, cfg, 2)
	assert.Equal(t, "", f.session.ExplorerLink("TX"))
}

func TestConfigValidate(t *testing.T) {
	cases := map[string]struct {
		mutate  func(*session.Config)
		wantErr *errors.Error
	}{
		"default": {
			mutate: func(*session.Config) {},
		},
		"zero threshold": {
			mutate:  func(c *session.Config) { c.Threshold = 0 },
			wantErr: errors.ErrInvalidThreshold,
		},
		"zero version": {
			mutate:  func(c *session.Config) { c.Version = 0 },
			wantErr: errors.ErrInvalidInput,
		},
		"zero confirm rounds": {
			mutate:  func(c *session.Config) { c.ConfirmRounds = 0 },
			wantErr: errors.ErrInvalidInput,
		},
		"negative in flight": {
			mutate:  func(c *session.Config) { c.MaxInFlight = -1 },
			wantErr: errors.ErrInvalidInput,
		},
		"relative explorer url": {
			mutate:  func(c *session.Config) { c.ExplorerURL = "lora/tx" },
			wantErr: errors.ErrInvalidInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			cfg := session.DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == nil {
				assert.Nil(t, err)
				return
			}
			assert.IsErr(t, tc.wantErr, err)
		})
	}
}

func TestNewRequiresDependencies(t *testing.T) {
	_, err := session.New(session.DefaultConfig(), session.Deps{})
	assert.IsErr(t, errors.ErrHuman, err)

	cfg := session.DefaultConfig()
	cfg.Threshold = 0
	_, err = session.New(cfg, session.Deps{})
	assert.IsErr(t, errors.ErrInvalidThreshold, err)
}
