/*
Package sigs collects the partial signatures of pending multisig
transactions.

A PendingTx is created for a transfer from a multisig account. The Collector
requests a signature from each designated signer's wallet. Requests are
independent: they may be issued concurrently, resolve in any order and fail
one by one without affecting the others. Signatures are stored in arrival
order and each signer can sign at most once. The transaction reaches quorum
the instant the number of collected signatures hits the threshold.

Lifecycle of a PendingTx

	Created -> Collecting -> QuorumReached -> Combined -> Submitted

Cancelled can be reached from Created, Collecting and QuorumReached.
Cancelling discards the collected signatures. A signature that arrives after
cancellation is silently dropped.
*/
package sigs
