/*
Package cosign defines the types shared by all multisig assembly packages,
as well as a few helpers that are too small to deserve their own package.

A multisig transfer is assembled in stages, each one implemented by its own
extension package:

	x/signers   registry of the addresses designated as multisig participants
	x/multisig  immutable account descriptor and its derived address
	x/sigs      pending transactions and partial signature collection
	x/combine   merging of a quorum of partial signatures and submission

All cryptography, transaction serialization and network access is delegated
to collaborators. The algo package provides implementations backed by the
Algorand SDK, the cosigntest package provides in-memory fakes.

We pass the logger through context.Context between the stages. Use
WithLogger and GetLogger to set and read it.
*/
package cosign
