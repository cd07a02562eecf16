package cosigntest

import (
	"context"
	"fmt"
	"sync"

	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/wallet"
)

// Network is an in-memory blockchain client. It builds readable unsigned
// payments and records funding transfers on top of a Submitter.
type Network struct {
	Submitter

	// BuildErr is returned by BuildPayment when set.
	BuildErr error

	mu       sync.Mutex
	payments []Payment
}

// Payment is a transfer made with Pay.
type Payment struct {
	From, To cosign.Address
	Amount   uint64
	Note     string
}

func (n *Network) BuildPayment(ctx context.Context, from, to cosign.Address, amount uint64, note []byte) ([]byte, error) {
	if n.BuildErr != nil {
		return nil, n.BuildErr
	}
	return Unsigned(from, to, amount), nil
}

func (n *Network) Pay(ctx context.Context, p wallet.Provider, from, to cosign.Address, amount uint64, note []byte) (string, error) {
	unsigned, err := n.BuildPayment(ctx, from, to, amount, note)
	if err != nil {
		return "", err
	}
	signed, err := wallet.SignOne(ctx, p, wallet.SignRequest{Payload: unsigned, Signer: from})
	if err != nil {
		return "", err
	}
	txID, err := n.SendRawTransaction(ctx, signed)
	if err != nil {
		return "", err
	}
	n.mu.Lock()
	n.payments = append(n.payments, Payment{From: from, To: to, Amount: amount, Note: string(note)})
	n.mu.Unlock()
	return txID, nil
}

// Payments returns all transfers made with Pay.
func (n *Network) Payments() []Payment {
	n.mu.Lock()
	defer n.mu.Unlock()
	res := make([]Payment, len(n.payments))
	copy(res, n.payments)
	return res
}

// Unsigned returns the payload BuildPayment produces.
func Unsigned(from, to cosign.Address, amount uint64) []byte {
	return []byte(fmt.Sprintf("pay:%s:%s:%d", from, to, amount))
}
