package counter

import (
	"context"
	"fmt"

	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/notify"
	"github.com/iov-one/cosign/wallet"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	// GlobalKey is the global state key holding the counter value.
	GlobalKey = "count"

	IncrMethod = "incr_counter()uint64"
	DecrMethod = "decr_counter()uint64"

	// DefaultWaitRounds is used when no wait is configured.
	DefaultWaitRounds = 4
)

// App reads and calls an application. It is implemented by algo.Client.
type App interface {
	GlobalUint(ctx context.Context, appID uint64, key string) (uint64, error)
	CallUint(ctx context.Context, appID uint64, method string, sender cosign.Address, p wallet.Provider, waitRounds uint64) (uint64, error)
}

// WalletLookup returns the connected wallet controlling an address.
type WalletLookup interface {
	Lookup(cosign.Address) (wallet.Provider, error)
}

// Counter operates a single deployed counter application.
type Counter struct {
	app        App
	appID      uint64
	wallets    WalletLookup
	notifier   notify.Sink
	logger     log.Logger
	waitRounds uint64
}

// NewCounter returns a counter for the application with given ID.
func NewCounter(app App, appID uint64, wallets WalletLookup, n notify.Sink, logger log.Logger) *Counter {
	return &Counter{
		app:        app,
		appID:      appID,
		wallets:    wallets,
		notifier:   notify.Or(n),
		logger:     cosign.LoggerOr(logger).With("module", "counter", "app", appID),
		waitRounds: DefaultWaitRounds,
	}
}

// WithWaitRounds sets how many rounds calls wait for confirmation.
func (c *Counter) WithWaitRounds(rounds uint64) *Counter {
	if rounds > 0 {
		c.waitRounds = rounds
	}
	return c
}

// Get returns the current counter value.
func (c *Counter) Get(ctx context.Context) (uint64, error) {
	if err := c.validate(); err != nil {
		return 0, c.fail("fetching count", err)
	}
	v, err := c.app.GlobalUint(ctx, c.appID, GlobalKey)
	if err != nil {
		return 0, c.fail("fetching count", err)
	}
	return v, nil
}

// Increment increases the counter by one, signed by sender, and returns the
// new value.
func (c *Counter) Increment(ctx context.Context, sender cosign.Address) (uint64, error) {
	v, err := c.call(ctx, IncrMethod, sender)
	if err != nil {
		return 0, c.fail("incrementing counter", err)
	}
	c.notifier.Notify(notify.Success, fmt.Sprintf("Counter incremented! New count: %d", v))
	return v, nil
}

// Decrement decreases the counter by one, signed by sender, and returns the
// new value. A counter at zero cannot be decremented.
func (c *Counter) Decrement(ctx context.Context, sender cosign.Address) (uint64, error) {
	current, err := c.Get(ctx)
	if err != nil {
		return 0, err
	}
	if current == 0 {
		return 0, c.fail("decrementing counter", errors.Wrap(errors.ErrInvalidState, "counter is zero"))
	}
	v, err := c.call(ctx, DecrMethod, sender)
	if err != nil {
		return 0, c.fail("decrementing counter", err)
	}
	c.notifier.Notify(notify.Success, fmt.Sprintf("Counter decremented! New count: %d", v))
	return v, nil
}

func (c *Counter) call(ctx context.Context, method string, sender cosign.Address) (uint64, error) {
	if err := c.validate(); err != nil {
		return 0, err
	}
	if err := sender.Validate(); err != nil {
		return 0, errors.Wrap(err, "sender")
	}
	p, err := c.wallets.Lookup(sender)
	if err != nil {
		return 0, err
	}
	v, err := c.app.CallUint(ctx, c.appID, method, sender, p, c.waitRounds)
	if err != nil {
		return 0, err
	}
	c.logger.Info("counter updated", "method", method, "count", v, "sender", sender)
	return v, nil
}

func (c *Counter) validate() error {
	if c.appID == 0 {
		return errors.Wrap(errors.ErrInvalidInput, "application ID required")
	}
	return nil
}

func (c *Counter) fail(action string, err error) error {
	c.logger.Error("counter operation failed", "action", action, "err", err)
	c.notifier.Notify(notify.Error, fmt.Sprintf("Error %s: %s", action, err))
	return err
}
