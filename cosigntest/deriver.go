package cosigntest

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"

	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/x/multisig"
)

// Deriver is a multisig.Deriver that computes the address from a hash of
// the descriptor key. Set Err to make every derivation fail.
type Deriver struct {
	Err error

	mu    sync.Mutex
	calls int
}

var _ multisig.Deriver = (*Deriver)(nil)

func (d *Deriver) DeriveAddress(desc multisig.Descriptor) (cosign.Address, error) {
	d.mu.Lock()
	d.calls++
	d.mu.Unlock()

	if d.Err != nil {
		return "", d.Err
	}
	return DerivedAddress(desc), nil
}

// CallCount returns how many times DeriveAddress was called.
func (d *Deriver) CallCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

// DerivedAddress returns the address the Deriver computes for given
// descriptor.
func DerivedAddress(desc multisig.Descriptor) cosign.Address {
	sum := sha256.Sum256([]byte(desc.Key()))
	return cosign.Address("MS" + strings.ToUpper(hex.EncodeToString(sum[:20])))
}
