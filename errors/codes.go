package errors

// Multisig assembly errors. Codes 1000-1099 are reserved for the signer
// registry, the descriptor builder, the signature collector and the
// transaction combiner.
var (
	// ErrDuplicateSigner is returned when an address is registered as a
	// signer more than once.
	ErrDuplicateSigner = Register(1000, "duplicate signer")

	// ErrUnknownSigner is returned when an operation refers to a signer
	// that is not registered or not part of the multisig account.
	ErrUnknownSigner = Register(1001, "unknown signer")

	// ErrInsufficientSigners is returned when the threshold exceeds the
	// number of available signers.
	ErrInsufficientSigners = Register(1002, "insufficient signers")

	// ErrInvalidThreshold is returned for a threshold lower than one.
	ErrInvalidThreshold = Register(1003, "invalid threshold")

	// ErrSignerUnavailable is returned when no connected wallet controls
	// the signer address.
	ErrSignerUnavailable = Register(1004, "signer unavailable")

	// ErrUserRejected is returned when the wallet user declined to sign.
	ErrUserRejected = Register(1005, "rejected by user")

	// ErrSigningFailed is returned when a wallet failed to produce a
	// signature for any reason other than a user decline.
	ErrSigningFailed = Register(1006, "signing failed")

	// ErrAlreadySigned is returned when a signature is requested from or
	// delivered by a signer that already signed the transaction.
	ErrAlreadySigned = Register(1007, "already signed")

	// ErrQuorumNotMet is returned when combining a transaction that does
	// not carry enough partial signatures.
	ErrQuorumNotMet = Register(1008, "quorum not met")

	// ErrNetwork is returned when the network could not be reached.
	ErrNetwork = Register(1009, "network error")

	// ErrRejectedByNetwork is returned when the network refused the
	// submitted transaction.
	ErrRejectedByNetwork = Register(1010, "rejected by network")

	// ErrCancelled is returned for operations on a cancelled transaction.
	ErrCancelled = Register(1011, "cancelled")
)
