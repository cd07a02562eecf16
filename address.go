package cosign

import (
	"strings"
	"unicode"

	"github.com/iov-one/cosign/errors"
)

// Address identifies a wallet controlled key or a multisig account. Its
// encoding is defined by the blockchain SDK and opaque to this package.
type Address string

// Validate returns an error if the address is empty or contains whitespace.
// Format checks beyond that are the SDK's concern.
func (a Address) Validate() error {
	if a == "" {
		return errors.Wrap(errors.ErrEmpty, "address")
	}
	if strings.IndexFunc(string(a), unicode.IsSpace) >= 0 {
		return errors.Wrapf(errors.ErrInvalidInput, "address %q contains whitespace", string(a))
	}
	return nil
}

func (a Address) String() string {
	return string(a)
}

// Equals returns true if both addresses are the same.
func (a Address) Equals(b Address) bool {
	return a == b
}

// Addresses is an ordered list of addresses.
type Addresses []Address

// Validate checks all addresses of the list.
func (as Addresses) Validate() error {
	for i, a := range as {
		if err := a.Validate(); err != nil {
			return errors.Wrapf(err, "address #%d", i)
		}
	}
	return nil
}

// Contains returns true if the list holds given address.
func (as Addresses) Contains(addr Address) bool {
	for _, a := range as {
		if a == addr {
			return true
		}
	}
	return false
}

// Index returns the position of given address in the list or -1.
func (as Addresses) Index(addr Address) int {
	for i, a := range as {
		if a == addr {
			return i
		}
	}
	return -1
}

// Clone returns a copy of the list that shares no memory with the original.
func (as Addresses) Clone() Addresses {
	if as == nil {
		return nil
	}
	cp := make(Addresses, len(as))
	copy(cp, as)
	return cp
}

// Strings returns the string representation of all addresses.
func (as Addresses) Strings() []string {
	res := make([]string, len(as))
	for i, a := range as {
		res[i] = string(a)
	}
	return res
}
