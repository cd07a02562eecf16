package sigs_test

import (
	"context"
	"testing"
	"time"

	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/cosigntest"
	"github.com/iov-one/cosign/notify"
	"github.com/iov-one/cosign/wallet"
	"github.com/iov-one/cosign/x/multisig"
	"github.com/iov-one/cosign/x/sigs"
)

var unsigned = []byte("unsigned-payment")

type fixture struct {
	signers   cosign.Addresses
	tx        *sigs.PendingTx
	wallet    *cosigntest.Wallet
	book      *wallet.Book
	notes     *notify.Recorder
	collector *sigs.Collector
}

// newFixture creates a pending transaction of a threshold-of-n account whose
// signers are all controlled by a single connected wallet.
func newFixture(t testing.TB, threshold, n int, opts ...sigs.Option) *fixture {
	t.Helper()

	signers := cosigntest.NewAddresses(n)
	tx := newPendingTx(t, threshold, signers)

	w := cosigntest.NewWallet("local", signers...)
	book := wallet.NewBook(nil)
	if err := book.Connect(context.Background(), w); err != nil {
		t.Fatalf("cannot connect wallet: %s", err)
	}
	notes := &notify.Recorder{}
	opts = append([]sigs.Option{sigs.WithNotifier(notes)}, opts...)
	return &fixture{
		signers:   signers,
		tx:        tx,
		wallet:    w,
		book:      book,
		notes:     notes,
		collector: sigs.NewCollector(book, opts...),
	}
}

func newPendingTx(t testing.TB, threshold int, signers cosign.Addresses) *sigs.PendingTx {
	t.Helper()

	d, err := multisig.NewDescriptor(multisig.DefaultVersion, threshold, signers)
	if err != nil {
		t.Fatalf("cannot create descriptor: %s", err)
	}
	tx, err := sigs.NewPendingTx(d, cosigntest.DerivedAddress(d), "RECEIVER", 1000, nil, unsigned)
	if err != nil {
		t.Fatalf("cannot create pending transaction: %s", err)
	}
	return tx
}

// awaitStarted blocks until the wallet received n requests.
func awaitStarted(t testing.TB, w *cosigntest.Wallet, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-w.Started():
		case <-time.After(2 * time.Second):
			t.Fatalf("only %d of %d wallet requests started", i, n)
		}
	}
}

// next returns the next result or fails the test if none arrives in time.
func next(t testing.TB, results <-chan sigs.Result) sigs.Result {
	t.Helper()
	select {
	case r, ok := <-results:
		if !ok {
			t.Fatal("results channel closed")
		}
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for a result")
	}
	return sigs.Result{}
}

func signerList(list []sigs.PartialSignature) cosign.Addresses {
	res := make(cosign.Addresses, len(list))
	for i, s := range list {
		res[i] = s.Signer
	}
	return res
}
