package cosigntest

import (
	"bytes"
	"context"
	"sync"

	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/wallet"
)

// Wallet is an in-memory wallet.Provider.
//
// By default every request is signed right away. A wallet in hold mode
// blocks each request until the test calls Release, Reject or Fail for the
// signer. A response queued before the request arrives is used by the next
// request of that signer, also when the wallet does not hold.
type Wallet struct {
	id string

	// ConnectErr is returned by Connect when set.
	ConnectErr error
	// DisconnectErr is returned by Disconnect when set.
	DisconnectErr error

	mu        sync.Mutex
	accounts  cosign.Addresses
	connected bool
	hold      bool
	slots     map[cosign.Address]chan response
	started   chan cosign.Address
	calls     int
}

type response struct {
	sig []byte
	err error
}

var _ wallet.Provider = (*Wallet)(nil)

// NewWallet returns a disconnected wallet controlling given accounts.
func NewWallet(id string, accounts ...cosign.Address) *Wallet {
	return &Wallet{
		id:       id,
		accounts: cosign.Addresses(accounts).Clone(),
		slots:    make(map[cosign.Address]chan response),
		started:  make(chan cosign.Address, 128),
	}
}

// Hold switches the wallet into hold mode.
func (w *Wallet) Hold() *Wallet {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.hold = true
	return w
}

// Started delivers the signer of every request the wallet received.
func (w *Wallet) Started() <-chan cosign.Address {
	return w.started
}

// Release lets the pending request of the signer complete with a valid
// signature.
func (w *Wallet) Release(signer cosign.Address) {
	w.respond(signer, response{})
}

// Reject makes the pending request of the signer fail as declined by the
// user.
func (w *Wallet) Reject(signer cosign.Address) {
	w.respond(signer, response{err: errors.Wrapf(errors.ErrUserRejected, "%s declined", signer)})
}

// Fail makes the pending request of the signer fail with given error.
func (w *Wallet) Fail(signer cosign.Address, err error) {
	w.respond(signer, response{err: err})
}

// Return makes the pending request of the signer complete with given
// payload instead of the default signature.
func (w *Wallet) Return(signer cosign.Address, sig []byte) {
	w.respond(signer, response{sig: sig})
}

func (w *Wallet) respond(signer cosign.Address, r response) {
	w.slot(signer) <- r
}

func (w *Wallet) slot(signer cosign.Address) chan response {
	w.mu.Lock()
	defer w.mu.Unlock()
	ch, ok := w.slots[signer]
	if !ok {
		ch = make(chan response, 16)
		w.slots[signer] = ch
	}
	return ch
}

func (w *Wallet) ID() string { return w.id }

func (w *Wallet) Connect(ctx context.Context) error {
	if w.ConnectErr != nil {
		return w.ConnectErr
	}
	w.mu.Lock()
	w.connected = true
	w.mu.Unlock()
	return nil
}

func (w *Wallet) Disconnect(ctx context.Context) error {
	w.mu.Lock()
	w.connected = false
	w.mu.Unlock()
	return w.DisconnectErr
}

func (w *Wallet) IsConnected() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.connected
}

func (w *Wallet) Accounts() cosign.Addresses {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.accounts.Clone()
}

// SetAccounts replaces the controlled accounts.
func (w *Wallet) SetAccounts(accounts ...cosign.Address) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.accounts = cosign.Addresses(accounts).Clone()
}

// CallCount returns the number of SignTransactions calls.
func (w *Wallet) CallCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.calls
}

func (w *Wallet) SignTransactions(ctx context.Context, reqs []wallet.SignRequest) ([][]byte, error) {
	w.mu.Lock()
	w.calls++
	connected, hold := w.connected, w.hold
	w.mu.Unlock()

	if !connected {
		return nil, errors.Wrapf(errors.ErrSignerUnavailable, "wallet %s is not connected", w.id)
	}

	res := make([][]byte, len(reqs))
	for i, req := range reqs {
		if !w.Accounts().Contains(req.Signer) {
			return nil, errors.Wrapf(errors.ErrSigningFailed, "wallet %s does not control %s", w.id, req.Signer)
		}
		select {
		case w.started <- req.Signer:
		default:
		}

		r, err := w.await(ctx, req.Signer, hold)
		if err != nil {
			return nil, err
		}
		if r.err != nil {
			return nil, r.err
		}
		if r.sig != nil {
			res[i] = r.sig
		} else {
			res[i] = Signature(req.Signer, req.Payload)
		}
	}
	return res, nil
}

func (w *Wallet) await(ctx context.Context, signer cosign.Address, hold bool) (response, error) {
	ch := w.slot(signer)
	if !hold {
		select {
		case r := <-ch:
			return r, nil
		default:
			return response{}, nil
		}
	}
	select {
	case r := <-ch:
		return r, nil
	case <-ctx.Done():
		return response{}, ctx.Err()
	}
}

// Signature returns the payload the Wallet produces when signer signs the
// unsigned transaction.
func Signature(signer cosign.Address, unsigned []byte) []byte {
	var b bytes.Buffer
	b.WriteString("sig:")
	b.WriteString(signer.String())
	b.WriteByte(':')
	b.Write(unsigned)
	return b.Bytes()
}
