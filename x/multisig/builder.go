package multisig

import (
	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/errors"
)

// Deriver computes the address of a multisig account. Implementations must
// be pure: the same descriptor always derives the same address.
type Deriver interface {
	DeriveAddress(Descriptor) (cosign.Address, error)
}

// DeriverFunc adapts a function to the Deriver interface.
type DeriverFunc func(Descriptor) (cosign.Address, error)

// DeriveAddress calls fn(d).
func (fn DeriverFunc) DeriveAddress(d Descriptor) (cosign.Address, error) {
	return fn(d)
}

// SignerSet is implemented by the signer registry.
type SignerSet interface {
	Count() int
	Addresses() cosign.Addresses
}

// Builder combines a signer set and a threshold into a descriptor and
// derives its address.
type Builder struct {
	version uint8
	deriver Deriver
}

// NewBuilder returns a builder that creates descriptors of the default
// version.
func NewBuilder(d Deriver) Builder {
	return Builder{version: DefaultVersion, deriver: d}
}

// WithVersion returns a copy of the builder that creates descriptors of
// given version.
func (b Builder) WithVersion(v uint8) Builder {
	b.version = v
	return b
}

// Build returns the descriptor for the current content of the set together
// with its derived address. The participant order is the iteration order of
// the set. Build has no side effects and is deterministic.
func (b Builder) Build(set SignerSet, threshold int) (Descriptor, cosign.Address, error) {
	if b.deriver == nil {
		return Descriptor{}, "", errors.Wrap(errors.ErrHuman, "builder without deriver")
	}
	if threshold < 1 {
		return Descriptor{}, "", errors.Wrapf(errors.ErrInvalidThreshold, "threshold is %d", threshold)
	}
	if n := set.Count(); threshold > n {
		return Descriptor{}, "", errors.Wrapf(errors.ErrInsufficientSigners,
			"threshold %d greater than %d signers", threshold, n)
	}

	d, err := NewDescriptor(b.version, threshold, set.Addresses())
	if err != nil {
		return Descriptor{}, "", errors.Wrap(err, "descriptor")
	}
	addr, err := b.deriver.DeriveAddress(d)
	if err != nil {
		return Descriptor{}, "", errors.Wrap(err, "derive address")
	}
	return d, addr, nil
}
