/*
Package algo connects the signing flow to the Algorand network through
go-algorand-sdk.

It provides the multisig address Deriver, the signature Merger, a Client for
building and submitting transactions and a KeyWallet, a wallet.Provider
backed by local ed25519 keys.
*/
package algo
