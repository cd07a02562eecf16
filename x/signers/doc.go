/*
Package signers implements the registry of addresses designated as multisig
participants.

A Registry is a set: an address can be registered only once. Iteration order
is the insertion order. This matters, because multisig address derivation is
order sensitive: the derived address is a hash over the participant keys in
list order. Two registries holding the same addresses registered in a
different order produce different multisig accounts. Removing an address
keeps the relative order of the remaining ones.
*/
package signers
