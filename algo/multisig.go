package algo

import (
	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/x/multisig"
)

// Deriver derives multisig account addresses. The derivation hashes the
// version, the threshold and the participant keys in list order.
type Deriver struct{}

var _ multisig.Deriver = Deriver{}

func (Deriver) DeriveAddress(d multisig.Descriptor) (cosign.Address, error) {
	ma, err := account(d)
	if err != nil {
		return "", err
	}
	addr, err := ma.Address()
	if err != nil {
		return "", errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return cosign.Address(addr.String()), nil
}

// account converts the descriptor into the SDK representation.
func account(d multisig.Descriptor) (crypto.MultisigAccount, error) {
	addrs, err := decodeAll(d.Addresses())
	if err != nil {
		return crypto.MultisigAccount{}, err
	}
	ma, err := crypto.MultisigAccountWithParams(d.Version(), uint8(d.Threshold()), addrs)
	if err != nil {
		return crypto.MultisigAccount{}, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return ma, nil
}

// DecodeAddress parses an Algorand address, verifying its checksum.
func DecodeAddress(addr cosign.Address) (types.Address, error) {
	a, err := types.DecodeAddress(addr.String())
	if err != nil {
		return types.Address{}, errors.Wrapf(errors.ErrInvalidInput, "address %q: %s", addr, err)
	}
	return a, nil
}

func decodeAll(addrs cosign.Addresses) ([]types.Address, error) {
	res := make([]types.Address, len(addrs))
	for i, a := range addrs {
		decoded, err := DecodeAddress(a)
		if err != nil {
			return nil, err
		}
		res[i] = decoded
	}
	return res, nil
}

// Merger merges partially signed multisig transactions into one.
type Merger struct{}

// MergeMultisig merges the partially signed transactions. All parts must
// sign the same transaction from the same multisig account; unsigned is not
// needed by the SDK and is ignored.
func (Merger) MergeMultisig(unsigned []byte, parts [][]byte) (string, []byte, error) {
	if len(parts) == 0 {
		return "", nil, errors.Wrap(errors.ErrEmpty, "signatures")
	}
	if len(parts) == 1 {
		// The SDK requires at least two transactions to merge. A single
		// signature of a 1-of-n account is complete as it is.
		var stx types.SignedTxn
		if err := decode(parts[0], &stx); err != nil {
			return "", nil, err
		}
		return crypto.GetTxID(stx.Txn), parts[0], nil
	}
	txID, blob, err := crypto.MergeMultisigTransactions(parts...)
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrSigningFailed, err.Error())
	}
	return txID, blob, nil
}
