package signers

import (
	"sync"

	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/errors"
)

// Registry is an insertion ordered set of signer addresses. It is safe for
// concurrent use.
type Registry struct {
	mu    sync.RWMutex
	order cosign.Addresses
	index map[cosign.Address]struct{}
}

// NewRegistry returns a registry that contains given addresses, in given
// order. It fails if any address is invalid or given more than once.
func NewRegistry(addrs ...cosign.Address) (*Registry, error) {
	r := &Registry{}
	for _, a := range addrs {
		if err := r.Add(a); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Add appends the address to the registry.
func (r *Registry) Add(addr cosign.Address) error {
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "signer")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.index == nil {
		r.index = make(map[cosign.Address]struct{})
	}
	if _, ok := r.index[addr]; ok {
		return errors.Wrapf(errors.ErrDuplicateSigner, "address %s", addr)
	}
	r.index[addr] = struct{}{}
	r.order = append(r.order, addr)
	return nil
}

// Remove deletes the address from the registry.
func (r *Registry) Remove(addr cosign.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.index[addr]; !ok {
		return errors.Wrapf(errors.ErrUnknownSigner, "address %s", addr)
	}
	delete(r.index, addr)

	i := r.order.Index(addr)
	// Shift instead of swap-delete to keep the insertion order.
	r.order = append(r.order[:i:i], r.order[i+1:]...)
	return nil
}

// Has returns true if the address is registered.
func (r *Registry) Has(addr cosign.Address) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.index[addr]
	return ok
}

// Count returns the number of registered addresses.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Addresses returns a copy of all registered addresses in insertion order.
func (r *Registry) Addresses() cosign.Addresses {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.order.Clone()
}
