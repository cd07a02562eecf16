/*
Package multisig builds multisig account descriptors.

A Descriptor is the (version, threshold, ordered addresses) tuple that
deterministically derives the address of a multisig account. A descriptor
is a value: it is immutable once built and can be freely copied and shared.

Address derivation is not implemented here. A Deriver, usually backed by the
blockchain SDK, maps a descriptor to an address. The derivation is order
sensitive, so the descriptor keeps the participant order exactly as given.
*/
package multisig
