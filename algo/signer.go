package algo

import (
	"context"

	"github.com/algorand/go-algorand-sdk/v2/abi"
	"github.com/algorand/go-algorand-sdk/v2/transaction"
	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/wallet"
)

// TransactionSigner lets the SDK transaction composer sign with a
// wallet.Provider.
type TransactionSigner struct {
	ctx    context.Context
	p      wallet.Provider
	signer cosign.Address
}

var _ transaction.TransactionSigner = TransactionSigner{}

// NewTransactionSigner returns a signer asking the wallet for signatures of
// given account. Wallet calls are bound to ctx.
func NewTransactionSigner(ctx context.Context, p wallet.Provider, signer cosign.Address) TransactionSigner {
	return TransactionSigner{ctx: ctx, p: p, signer: signer}
}

func (s TransactionSigner) SignTransactions(group []types.Transaction, indexes []int) ([][]byte, error) {
	reqs := make([]wallet.SignRequest, len(indexes))
	for i, idx := range indexes {
		if idx < 0 || idx >= len(group) {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "index %d out of group of %d", idx, len(group))
		}
		reqs[i] = wallet.SignRequest{Payload: EncodeTx(group[idx]), Signer: s.signer}
	}
	signed, err := s.p.SignTransactions(s.ctx, reqs)
	if err != nil {
		return nil, err
	}
	if len(signed) != len(reqs) {
		return nil, errors.Wrapf(errors.ErrSigningFailed,
			"wallet %s returned %d signed payloads for %d requests", s.p.ID(), len(signed), len(reqs))
	}
	return signed, nil
}

func (s TransactionSigner) Equals(other transaction.TransactionSigner) bool {
	o, ok := other.(TransactionSigner)
	return ok && o.p.ID() == s.p.ID() && o.signer == s.signer
}

func methodFromSignature(sig string) (abi.Method, error) {
	m, err := abi.MethodFromSignature(sig)
	if err != nil {
		return abi.Method{}, errors.Wrapf(errors.ErrInvalidInput, "method %q: %s", sig, err)
	}
	return m, nil
}
