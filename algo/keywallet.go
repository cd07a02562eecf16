package algo

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"sync"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/mnemonic"
	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/wallet"
	"golang.org/x/crypto/ed25519"
)

// ApproveFunc decides whether a sign request is accepted. It is called once
// per request and may block, for example to ask the user.
type ApproveFunc func(ctx context.Context, req wallet.SignRequest) (bool, error)

// KeyWallet is a wallet.Provider holding ed25519 private keys in memory.
type KeyWallet struct {
	id string

	mu        sync.RWMutex
	keys      map[cosign.Address]ed25519.PrivateKey
	order     cosign.Addresses
	connected bool
	approve   ApproveFunc
}

var _ wallet.Provider = (*KeyWallet)(nil)

// NewKeyWallet returns a wallet controlling accounts of given keys.
func NewKeyWallet(id string, keys ...ed25519.PrivateKey) (*KeyWallet, error) {
	w := &KeyWallet{
		id:   id,
		keys: make(map[cosign.Address]ed25519.PrivateKey),
	}
	for _, k := range keys {
		if _, err := w.Import(k); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// GenerateKeyWallet returns a wallet with n freshly generated accounts.
func GenerateKeyWallet(id string, n int) (*KeyWallet, error) {
	if n < 1 {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "cannot generate %d accounts", n)
	}
	keys := make([]ed25519.PrivateKey, n)
	for i := range keys {
		keys[i] = ed25519.PrivateKey(crypto.GenerateAccount().PrivateKey)
	}
	return NewKeyWallet(id, keys...)
}

// WithApproval sets the function consulted before every signature. Without
// it all requests are signed.
func (w *KeyWallet) WithApproval(fn ApproveFunc) *KeyWallet {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.approve = fn
	return w
}

// Import adds the key to the wallet and returns the address it controls.
func (w *KeyWallet) Import(key ed25519.PrivateKey) (cosign.Address, error) {
	if len(key) != ed25519.PrivateKeySize {
		return "", errors.Wrapf(errors.ErrInvalidInput, "invalid private key length: %d", len(key))
	}
	acc, err := crypto.AccountFromPrivateKey(key)
	if err != nil {
		return "", errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	addr := cosign.Address(acc.Address.String())

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.keys[addr]; ok {
		return "", errors.Wrapf(errors.ErrDuplicate, "account %s", addr)
	}
	w.keys[addr] = key
	w.order = append(w.order, addr)
	return addr, nil
}

// Mnemonic returns the recovery phrase of the account, as accepted by
// other Algorand wallets.
func (w *KeyWallet) Mnemonic(addr cosign.Address) (string, error) {
	w.mu.RLock()
	key, ok := w.keys[addr]
	w.mu.RUnlock()
	if !ok {
		return "", errors.Wrapf(errors.ErrNotFound, "account %s", addr)
	}
	m, err := mnemonic.FromPrivateKey(key)
	if err != nil {
		return "", errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return m, nil
}

func (w *KeyWallet) ID() string { return w.id }

func (w *KeyWallet) Connect(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.keys) == 0 {
		return errors.Wrapf(errors.ErrSignerUnavailable, "wallet %s holds no keys", w.id)
	}
	w.connected = true
	return nil
}

func (w *KeyWallet) Disconnect(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.connected = false
	return nil
}

func (w *KeyWallet) IsConnected() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.connected
}

// Accounts returns the controlled accounts in import order.
func (w *KeyWallet) Accounts() cosign.Addresses {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.order.Clone()
}

// SignTransactions signs every request with the key of its signer. A
// request carrying a multisig descriptor gets a partial multisig signature.
func (w *KeyWallet) SignTransactions(ctx context.Context, reqs []wallet.SignRequest) ([][]byte, error) {
	w.mu.RLock()
	connected, approve := w.connected, w.approve
	w.mu.RUnlock()
	if !connected {
		return nil, errors.Wrapf(errors.ErrSignerUnavailable, "wallet %s is not connected", w.id)
	}

	res := make([][]byte, len(reqs))
	for i, req := range reqs {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrSigningFailed, err.Error())
		}
		if approve != nil {
			ok, err := approve(ctx, req)
			if err != nil {
				return nil, errors.Wrap(errors.ErrSigningFailed, err.Error())
			}
			if !ok {
				return nil, errors.Wrapf(errors.ErrUserRejected, "%s declined", req.Signer)
			}
		}
		signed, err := w.sign(req)
		if err != nil {
			return nil, err
		}
		res[i] = signed
	}
	return res, nil
}

func (w *KeyWallet) sign(req wallet.SignRequest) ([]byte, error) {
	w.mu.RLock()
	key, ok := w.keys[req.Signer]
	w.mu.RUnlock()
	if !ok {
		return nil, errors.Wrapf(errors.ErrSigningFailed, "wallet %s does not control %s", w.id, req.Signer)
	}
	tx, err := DecodeTx(req.Payload)
	if err != nil {
		return nil, errors.Wrap(errors.ErrSigningFailed, err.Error())
	}

	if req.Multisig == nil {
		_, stx, err := crypto.SignTransaction(key, tx)
		if err != nil {
			return nil, errors.Wrap(errors.ErrSigningFailed, err.Error())
		}
		return stx, nil
	}
	ma, err := account(*req.Multisig)
	if err != nil {
		return nil, errors.Wrap(errors.ErrSigningFailed, err.Error())
	}
	_, stx, err := crypto.SignMultisigTransaction(key, ma, tx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrSigningFailed, err.Error())
	}
	return stx, nil
}

// WriteKeyFile stores the private key in a new file. An existing file is
// never overwritten.
func WriteKeyFile(path string, key ed25519.PrivateKey) error {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		// Removing a key file must be a deliberate action of the user.
		return errors.Wrapf(errors.ErrDuplicate, "private key file %q already exists", path)
	}
	fd, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0600)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	defer fd.Close()

	if _, err := fd.Write(key); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, fmt.Sprintf("cannot write private key: %s", err))
	}
	return fd.Close()
}

// ReadKeyFile loads a private key written by WriteKeyFile.
func ReadKeyFile(path string) (ed25519.PrivateKey, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "cannot read private key file: %s", err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "invalid private key length: %d", len(raw))
	}
	return ed25519.PrivateKey(raw), nil
}

// LoadKeyWallet returns a wallet holding the keys stored in given files.
func LoadKeyWallet(id string, paths ...string) (*KeyWallet, error) {
	keys := make([]ed25519.PrivateKey, len(paths))
	for i, p := range paths {
		k, err := ReadKeyFile(p)
		if err != nil {
			return nil, errors.Wrap(err, p)
		}
		keys[i] = k
	}
	return NewKeyWallet(id, keys...)
}
