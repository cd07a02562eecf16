package session

import (
	"net/url"

	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/x/multisig"
)

const (
	// DefaultExplorerURL is the transaction explorer of the Algorand testnet.
	DefaultExplorerURL = "https://lora.algokit.io/testnet/transaction/"

	// DefaultConfirmRounds is how many rounds a submitted transaction is
	// awaited for.
	DefaultConfirmRounds = 4

	// MicroAlgos per Algo.
	microAlgos = 1000000
)

// Config configures a Session.
type Config struct {
	// Threshold is the number of signatures a multisig transfer needs.
	Threshold int
	// Version is the multisig format version.
	Version uint8
	// FundAmount is transferred to the multisig account by Fund.
	FundAmount uint64
	FundNote   string
	// Amount is the default amount of a multisig transfer.
	Amount uint64
	Note   string
	// ConfirmRounds bounds how long submitted transactions are awaited.
	ConfirmRounds uint64
	// ExplorerURL is prefixed to a transaction ID to build its link.
	ExplorerURL string
	// MaxInFlight limits concurrent wallet requests. Zero means no limit.
	MaxInFlight int
}

// DefaultConfig returns the configuration of a 2-of-n account funded with
// 0.2 Algo sending 0.09 Algo.
func DefaultConfig() Config {
	return Config{
		Threshold:     2,
		Version:       multisig.DefaultVersion,
		FundAmount:    microAlgos / 5,
		FundNote:      "Funding multisig account",
		Amount:        microAlgos * 9 / 100,
		Note:          "Multisig transaction",
		ConfirmRounds: DefaultConfirmRounds,
		ExplorerURL:   DefaultExplorerURL,
	}
}

// Validate returns an error if the configuration cannot be used.
func (c Config) Validate() error {
	if c.Threshold < 1 {
		return errors.Wrapf(errors.ErrInvalidThreshold, "threshold %d", c.Threshold)
	}
	if c.Version < 1 {
		return errors.Wrap(errors.ErrInvalidInput, "version must be at least 1")
	}
	if c.ConfirmRounds == 0 {
		return errors.Wrap(errors.ErrInvalidInput, "confirm rounds must be positive")
	}
	if c.MaxInFlight < 0 {
		return errors.Wrap(errors.ErrInvalidInput, "max in flight cannot be negative")
	}
	if c.ExplorerURL != "" {
		if _, err := url.ParseRequestURI(c.ExplorerURL); err != nil {
			return errors.Wrapf(errors.ErrInvalidInput, "explorer url: %s", err)
		}
	}
	return nil
}
