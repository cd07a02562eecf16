/*
Package counter operates the on-chain counter application. The application
keeps a single unsigned integer in its global state under the "count" key
and exposes ABI methods to increment and decrement it.
*/
package counter
