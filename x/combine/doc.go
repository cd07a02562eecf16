/*
Package combine merges a quorum of partial signatures into a single
submittable transaction and hands it over to the network.

A transaction is combined at most once. Combine on an already combined
transaction returns the cached result without calling the Merger again.
Submission never retries on its own: a failed Submit leaves the transaction
combined and may be called again.
*/
package combine
