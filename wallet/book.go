package wallet

import (
	"context"
	"sync"

	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Book maps signer addresses to the provider controlling them. Bindings are
// created when a provider connects and dropped when it disconnects. It is
// safe for concurrent use.
type Book struct {
	mu        sync.RWMutex
	providers map[string]Provider
	owners    map[cosign.Address]Provider
	logger    log.Logger
}

// NewBook returns an empty book.
func NewBook(logger log.Logger) *Book {
	return &Book{
		providers: make(map[string]Provider),
		owners:    make(map[cosign.Address]Provider),
		logger:    cosign.LoggerOr(logger).With("module", "wallet"),
	}
}

// Connect connects the provider, unless it is connected already, and binds
// all its accounts. An account can be bound to only one provider. A provider
// connected by this call is disconnected again when its accounts cannot be
// bound.
func (b *Book) Connect(ctx context.Context, p Provider) error {
	connected := false
	if !p.IsConnected() {
		if err := p.Connect(ctx); err != nil {
			return errors.Wrapf(err, "connect wallet %s", p.ID())
		}
		connected = true
	}

	b.mu.Lock()
	err := b.bind(p)
	b.mu.Unlock()

	if err != nil {
		if connected {
			if derr := p.Disconnect(ctx); derr != nil {
				return errors.Append(err, errors.Wrapf(derr, "disconnect wallet %s", p.ID()))
			}
		}
		return err
	}
	b.logger.Info("wallet connected", "wallet", p.ID(), "accounts", len(p.Accounts()))
	return nil
}

// Sync rebinds the accounts of an already connected provider. Call it when
// the provider reports a change of its account list.
func (b *Book) Sync(p Provider) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.providers[p.ID()]; !ok {
		return errors.Wrapf(errors.ErrNotFound, "wallet %s", p.ID())
	}
	b.unbind(p.ID())
	if !p.IsConnected() {
		return nil
	}
	return b.bind(p)
}

// bind must be called with the lock held.
func (b *Book) bind(p Provider) error {
	accounts := p.Accounts()
	for _, a := range accounts {
		if owner, ok := b.owners[a]; ok && owner.ID() != p.ID() {
			return errors.Wrapf(errors.ErrDuplicate,
				"account %s is controlled by wallet %s", a, owner.ID())
		}
	}
	b.providers[p.ID()] = p
	for _, a := range accounts {
		b.owners[a] = p
	}
	return nil
}

// unbind must be called with the lock held.
func (b *Book) unbind(id string) {
	for a, owner := range b.owners {
		if owner.ID() == id {
			delete(b.owners, a)
		}
	}
}

// Disconnect disconnects the provider with given ID and drops all bindings
// of its accounts. Bindings are dropped even if the provider fails to
// disconnect.
func (b *Book) Disconnect(ctx context.Context, id string) error {
	b.mu.Lock()
	p, ok := b.providers[id]
	if ok {
		b.unbind(id)
		delete(b.providers, id)
	}
	b.mu.Unlock()

	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "wallet %s", id)
	}
	b.logger.Info("wallet disconnected", "wallet", id)
	if err := p.Disconnect(ctx); err != nil {
		return errors.Wrapf(err, "disconnect wallet %s", id)
	}
	return nil
}

// Lookup returns the connected provider controlling given address.
func (b *Book) Lookup(addr cosign.Address) (Provider, error) {
	b.mu.RLock()
	p, ok := b.owners[addr]
	b.mu.RUnlock()

	if !ok {
		return nil, errors.Wrapf(errors.ErrSignerUnavailable, "no wallet for %s", addr)
	}
	if !p.IsConnected() {
		return nil, errors.Wrapf(errors.ErrSignerUnavailable, "wallet %s is not connected", p.ID())
	}
	return p, nil
}

// Accounts returns all bound accounts.
func (b *Book) Accounts() cosign.Addresses {
	b.mu.RLock()
	defer b.mu.RUnlock()

	res := make(cosign.Addresses, 0, len(b.owners))
	for _, p := range b.providers {
		for _, a := range p.Accounts() {
			if owner, ok := b.owners[a]; ok && owner.ID() == p.ID() {
				res = append(res, a)
			}
		}
	}
	return res
}
