package multisig

import (
	"fmt"
	"strings"

	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/errors"
)

const (
	// DefaultVersion is the multisig format version used when none is
	// configured.
	DefaultVersion uint8 = 1

	// Both the threshold and the participant count are serialized as a
	// single byte.
	maxParticipants = 255
)

// Descriptor describes a multisig account. Use NewDescriptor or a Builder to
// create a valid instance.
type Descriptor struct {
	version   uint8
	threshold uint8
	addresses cosign.Addresses
}

// NewDescriptor returns a validated descriptor. Given addresses are copied.
func NewDescriptor(version uint8, threshold int, addrs cosign.Addresses) (Descriptor, error) {
	if threshold > maxParticipants || len(addrs) > maxParticipants {
		return Descriptor{}, errors.Wrapf(errors.ErrOverflow,
			"threshold %d of %d participants, maximum is %d", threshold, len(addrs), maxParticipants)
	}
	if threshold < 1 {
		return Descriptor{}, errors.Wrapf(errors.ErrInvalidThreshold, "threshold is %d", threshold)
	}
	d := Descriptor{
		version:   version,
		threshold: uint8(threshold),
		addresses: addrs.Clone(),
	}
	if err := d.Validate(); err != nil {
		return Descriptor{}, err
	}
	return d, nil
}

// Validate returns an error if the descriptor cannot describe a multisig
// account.
func (d Descriptor) Validate() error {
	if d.version < 1 {
		return errors.Wrap(errors.ErrInvalidInput, "version must be greater than 0")
	}
	if d.threshold < 1 {
		return errors.Wrapf(errors.ErrInvalidThreshold, "threshold is %d", d.threshold)
	}
	if int(d.threshold) > len(d.addresses) {
		return errors.Wrapf(errors.ErrInsufficientSigners,
			"threshold %d greater than %d participants", d.threshold, len(d.addresses))
	}
	seen := make(map[cosign.Address]struct{}, len(d.addresses))
	for i, a := range d.addresses {
		if err := a.Validate(); err != nil {
			return errors.Wrapf(err, "participant #%d", i)
		}
		if _, ok := seen[a]; ok {
			return errors.Wrapf(errors.ErrDuplicateSigner, "participant #%d %s", i, a)
		}
		seen[a] = struct{}{}
	}
	return nil
}

// Version returns the multisig format version.
func (d Descriptor) Version() uint8 {
	return d.version
}

// Threshold returns the number of distinct signatures required to authorize
// a transaction.
func (d Descriptor) Threshold() int {
	return int(d.threshold)
}

// Addresses returns a copy of the participant addresses, in derivation
// order.
func (d Descriptor) Addresses() cosign.Addresses {
	return d.addresses.Clone()
}

// Size returns the number of participants.
func (d Descriptor) Size() int {
	return len(d.addresses)
}

// Has returns true if given address is a participant.
func (d Descriptor) Has(addr cosign.Address) bool {
	return d.addresses.Contains(addr)
}

// Key returns a canonical representation of the descriptor. Two descriptors
// have the same key if and only if they derive the same address.
func (d Descriptor) Key() string {
	return fmt.Sprintf("%d/%d/%s", d.version, d.threshold, strings.Join(d.addresses.Strings(), ","))
}

// Equals returns true if both descriptors hold the same fields, in the same
// order.
func (d Descriptor) Equals(o Descriptor) bool {
	return d.Key() == o.Key()
}

func (d Descriptor) String() string {
	return fmt.Sprintf("multisig v%d %d-of-%d", d.version, d.threshold, len(d.addresses))
}
