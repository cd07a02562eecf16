package cosigntest

import (
	"context"
	"sync"
)

// Submitter is an in-memory network client. Sent transactions are kept in
// order and confirmed at Round.
type Submitter struct {
	// SendErr is returned by SendRawTransaction when set.
	SendErr error
	// ConfirmErr is returned by WaitForConfirmation when set.
	ConfirmErr error
	// TxID overrides the identifier returned for sent transactions.
	TxID string
	// Round is the confirmation round reported for every transaction.
	Round uint64

	mu   sync.Mutex
	sent [][]byte
}

func (s *Submitter) SendRawTransaction(ctx context.Context, blob []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.SendErr != nil {
		return "", s.SendErr
	}
	s.mu.Lock()
	s.sent = append(s.sent, blob)
	s.mu.Unlock()

	if s.TxID != "" {
		return s.TxID, nil
	}
	return TxID(blob), nil
}

func (s *Submitter) WaitForConfirmation(ctx context.Context, txID string, rounds uint64) (uint64, error) {
	if s.ConfirmErr != nil {
		return 0, s.ConfirmErr
	}
	return s.Round, nil
}

// Sent returns all transactions sent so far.
func (s *Submitter) Sent() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := make([][]byte, len(s.sent))
	copy(res, s.sent)
	return res
}
