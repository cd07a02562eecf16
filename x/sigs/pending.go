package sigs

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/x/multisig"
)

// PartialSignature is the signature of a single signer over a pending
// transaction, as produced by the signer's wallet.
type PartialSignature struct {
	Signer  cosign.Address
	Payload []byte
	// Seq is the arrival position, starting with 0.
	Seq int
	// Received is the time the signature was stored.
	Received time.Time
}

// CombinedTx is the outcome of merging a quorum of partial signatures into a
// single submittable transaction.
type CombinedTx struct {
	// TxID is the transaction identifier, if the SDK provides one before
	// submission.
	TxID string
	// Blob is the submittable transaction.
	Blob []byte
	// Signers lists the signers whose signatures were merged, in arrival
	// order.
	Signers cosign.Addresses
}

// PendingTx is a transfer from a multisig account awaiting signatures. All
// methods are safe for concurrent use.
type PendingTx struct {
	id         string
	descriptor multisig.Descriptor
	sender     cosign.Address
	receiver   cosign.Address
	amount     uint64
	note       []byte
	payload    []byte
	created    time.Time

	mu         sync.Mutex
	state      State
	sigs       []PartialSignature
	signed     map[cosign.Address]struct{}
	combined   *CombinedTx
	submitting bool
	txID       string
}

// NewPendingTx returns a transaction in the Created state. Sender is the
// address derived from the descriptor; payload is the unsigned transaction
// as built by the SDK.
func NewPendingTx(
	d multisig.Descriptor,
	sender, receiver cosign.Address,
	amount uint64,
	note, payload []byte,
) (*PendingTx, error) {
	if err := d.Validate(); err != nil {
		return nil, errors.Wrap(err, "descriptor")
	}
	if err := sender.Validate(); err != nil {
		return nil, errors.Wrap(err, "sender")
	}
	if err := receiver.Validate(); err != nil {
		return nil, errors.Wrap(err, "receiver")
	}
	if len(payload) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "unsigned payload")
	}
	return &PendingTx{
		id:         uuid.New().String(),
		descriptor: d,
		sender:     sender,
		receiver:   receiver,
		amount:     amount,
		note:       clone(note),
		payload:    clone(payload),
		created:    time.Now(),
		state:      Created,
		signed:     make(map[cosign.Address]struct{}),
	}, nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp
}

// ID returns the unique identifier of this pending transaction.
func (tx *PendingTx) ID() string { return tx.id }

// Descriptor returns the multisig account descriptor of the sender.
func (tx *PendingTx) Descriptor() multisig.Descriptor { return tx.descriptor }

// Sender returns the multisig account address.
func (tx *PendingTx) Sender() cosign.Address { return tx.sender }

// Receiver returns the transfer destination.
func (tx *PendingTx) Receiver() cosign.Address { return tx.receiver }

// Amount returns the transferred amount in the smallest currency unit.
func (tx *PendingTx) Amount() uint64 { return tx.amount }

// Note returns a copy of the transaction note.
func (tx *PendingTx) Note() []byte { return clone(tx.note) }

// Payload returns a copy of the unsigned transaction.
func (tx *PendingTx) Payload() []byte { return clone(tx.payload) }

// Created returns the creation time.
func (tx *PendingTx) Created() time.Time { return tx.created }

// State returns the current state.
func (tx *PendingTx) State() State {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	return tx.state
}

// Count returns the number of collected signatures.
func (tx *PendingTx) Count() int {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	return len(tx.sigs)
}

// HasQuorum returns true if at least threshold signatures were collected.
// Once true it stays true until the transaction is cancelled.
func (tx *PendingTx) HasQuorum() bool {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	return tx.hasQuorum()
}

func (tx *PendingTx) hasQuorum() bool {
	return len(tx.sigs) >= tx.descriptor.Threshold()
}

// HasSigned returns true if given signer's signature was collected.
func (tx *PendingTx) HasSigned(signer cosign.Address) bool {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	_, ok := tx.signed[signer]
	return ok
}

// Signatures returns a copy of all collected signatures in arrival order.
func (tx *PendingTx) Signatures() []PartialSignature {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	return copySigs(tx.sigs)
}

func copySigs(sigs []PartialSignature) []PartialSignature {
	res := make([]PartialSignature, len(sigs))
	for i, s := range sigs {
		s.Payload = clone(s.Payload)
		res[i] = s
	}
	return res
}

// Quorum returns the first threshold signatures by arrival order.
func (tx *PendingTx) Quorum() ([]PartialSignature, error) {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	return tx.quorum()
}

func (tx *PendingTx) quorum() ([]PartialSignature, error) {
	if !tx.hasQuorum() {
		return nil, errors.Wrapf(errors.ErrQuorumNotMet,
			"%d of %d signatures", len(tx.sigs), tx.descriptor.Threshold())
	}
	return copySigs(tx.sigs[:tx.descriptor.Threshold()]), nil
}

// Cancel discards the transaction and its collected signatures.
func (tx *PendingTx) Cancel() error {
	tx.mu.Lock()
	defer tx.mu.Unlock()

	if err := tx.transition(Cancelled); err != nil {
		return err
	}
	tx.sigs = nil
	tx.signed = make(map[cosign.Address]struct{})
	return nil
}

// CombineWith merges the quorum using given function and moves the
// transaction to the Combined state. The result is cached: once combined,
// every call returns the same result without calling fn again.
func (tx *PendingTx) CombineWith(fn func(quorum []PartialSignature) (CombinedTx, error)) (CombinedTx, error) {
	tx.mu.Lock()
	defer tx.mu.Unlock()

	switch tx.state {
	case Combined, Submitted:
		return copyCombined(*tx.combined), nil
	case Cancelled:
		return CombinedTx{}, errors.Wrapf(errors.ErrCancelled, "transaction %s", tx.id)
	}

	quorum, err := tx.quorum()
	if err != nil {
		return CombinedTx{}, err
	}
	res, err := fn(quorum)
	if err != nil {
		return CombinedTx{}, err
	}
	if res.Signers == nil {
		res.Signers = make(cosign.Addresses, len(quorum))
		for i, s := range quorum {
			res.Signers[i] = s.Signer
		}
	}
	if err := tx.transition(Combined); err != nil {
		return CombinedTx{}, err
	}
	cp := copyCombined(res)
	tx.combined = &cp
	return copyCombined(res), nil
}

func copyCombined(c CombinedTx) CombinedTx {
	c.Blob = clone(c.Blob)
	c.Signers = c.Signers.Clone()
	return c
}

// CombinedResult returns the merged transaction, if the transaction was
// combined.
func (tx *PendingTx) CombinedResult() (CombinedTx, bool) {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	if tx.combined == nil {
		return CombinedTx{}, false
	}
	return copyCombined(*tx.combined), true
}

// BeginSubmit reserves a combined transaction for submission and returns
// the merged result. Only one submission can be in progress at a time, it
// ends with MarkSubmitted or AbortSubmit. If the transaction was submitted
// already, done is true and nothing is reserved.
func (tx *PendingTx) BeginSubmit() (res CombinedTx, done bool, err error) {
	tx.mu.Lock()
	defer tx.mu.Unlock()

	switch {
	case tx.state == Submitted:
		return copyCombined(*tx.combined), true, nil
	case tx.state != Combined:
		return CombinedTx{}, false, errors.Wrapf(errors.ErrInvalidState, "cannot submit %s transaction", tx.state)
	case tx.submitting:
		return CombinedTx{}, false, errors.Wrapf(errors.ErrInvalidState, "transaction %s is being submitted", tx.id)
	}
	tx.submitting = true
	return copyCombined(*tx.combined), false, nil
}

// AbortSubmit releases the reservation taken by BeginSubmit after a failed
// submission. The transaction stays combined.
func (tx *PendingTx) AbortSubmit() {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	tx.submitting = false
}

// MarkSubmitted records a successful submission.
func (tx *PendingTx) MarkSubmitted(txID string) error {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	if err := tx.transition(Submitted); err != nil {
		return err
	}
	tx.submitting = false
	tx.txID = txID
	return nil
}

// TxID returns the network transaction identifier, once submitted.
func (tx *PendingTx) TxID() string {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	return tx.txID
}

// begin verifies that a signature can be requested from the signer and
// moves a fresh transaction to Collecting.
func (tx *PendingTx) begin(signer cosign.Address) error {
	tx.mu.Lock()
	defer tx.mu.Unlock()

	switch tx.state {
	case Cancelled:
		return errors.Wrapf(errors.ErrCancelled, "transaction %s", tx.id)
	case Combined, Submitted:
		return errors.Wrapf(errors.ErrInvalidState, "transaction %s is %s", tx.id, tx.state)
	}
	if _, ok := tx.signed[signer]; ok {
		return errors.Wrapf(errors.ErrAlreadySigned, "signer %s", signer)
	}
	if tx.state == Created {
		return tx.transition(Collecting)
	}
	return nil
}

// insert stores the signature unless the signer already signed. It reports
// whether quorum was reached by this very insertion.
func (tx *PendingTx) insert(signer cosign.Address, payload []byte) (PartialSignature, bool, error) {
	tx.mu.Lock()
	defer tx.mu.Unlock()

	switch tx.state {
	case Cancelled:
		return PartialSignature{}, false, errors.Wrapf(errors.ErrCancelled, "transaction %s", tx.id)
	case Collecting, QuorumReached:
	default:
		return PartialSignature{}, false, errors.Wrapf(errors.ErrInvalidState,
			"transaction %s is %s", tx.id, tx.state)
	}
	if _, ok := tx.signed[signer]; ok {
		return PartialSignature{}, false, errors.Wrapf(errors.ErrAlreadySigned, "signer %s", signer)
	}

	sig := PartialSignature{
		Signer:   signer,
		Payload:  clone(payload),
		Seq:      len(tx.sigs),
		Received: time.Now(),
	}
	tx.sigs = append(tx.sigs, sig)
	tx.signed[signer] = struct{}{}

	reached := false
	if tx.state == Collecting && tx.hasQuorum() {
		if err := tx.transition(QuorumReached); err != nil {
			return PartialSignature{}, false, err
		}
		reached = true
	}
	sig.Payload = clone(sig.Payload)
	return sig, reached, nil
}

// transition must be called with the lock held.
func (tx *PendingTx) transition(to State) error {
	if !tx.state.CanTransition(to) {
		if tx.state == Cancelled {
			return errors.Wrapf(errors.ErrCancelled, "transaction %s", tx.id)
		}
		return errors.Wrapf(errors.ErrInvalidState,
			"transaction %s cannot move from %s to %s", tx.id, tx.state, to)
	}
	tx.state = to
	return nil
}
