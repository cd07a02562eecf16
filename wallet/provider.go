/*
Package wallet defines the capability set of a wallet provider and the Book
that maps signer addresses to the connected provider controlling them.
*/
package wallet

import (
	"context"

	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/x/multisig"
)

// SignRequest asks a wallet to sign a single transaction with the key of the
// signer account.
type SignRequest struct {
	// Payload is the unsigned transaction, encoded as expected by the
	// blockchain SDK.
	Payload []byte
	// Signer is the account that must sign.
	Signer cosign.Address
	// Multisig is set when the transaction is sent from a multisig
	// account. The wallet then produces a partial multisig signature.
	Multisig *multisig.Descriptor
}

// Provider is the capability set of a wallet. A provider may control more
// than one account.
//
// SignTransactions may block for an unbounded, user controlled time. A
// declined request must fail with errors.ErrUserRejected. On success the
// result holds one signed payload for each request, in request order.
type Provider interface {
	ID() string
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	IsConnected() bool
	Accounts() cosign.Addresses
	SignTransactions(ctx context.Context, reqs []SignRequest) ([][]byte, error)
}

// SignOne requests a single signature from the provider.
func SignOne(ctx context.Context, p Provider, req SignRequest) ([]byte, error) {
	signed, err := p.SignTransactions(ctx, []SignRequest{req})
	if err != nil {
		return nil, err
	}
	if len(signed) != 1 || len(signed[0]) == 0 {
		return nil, errors.Wrapf(errors.ErrSigningFailed,
			"wallet %s returned %d signed payloads for 1 request", p.ID(), len(signed))
	}
	return signed[0], nil
}
