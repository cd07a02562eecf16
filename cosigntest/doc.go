/*
Package cosigntest provides fakes and helpers for testing code built on top
of the signing flow: a deterministic address deriver, a wallet provider that
can hold requests until the test releases them, and in-memory doubles of the
transaction merger and the network client.
*/
package cosigntest
