package cosigntest

import (
	"fmt"
	"testing"

	"github.com/iov-one/cosign"
)

// NewAddresses returns n distinct, valid addresses named SIGNER-A,
// SIGNER-B and so on.
func NewAddresses(n int) cosign.Addresses {
	res := make(cosign.Addresses, n)
	for i := range res {
		res[i] = cosign.Address(fmt.Sprintf("SIGNER-%s", label(i)))
	}
	return res
}

func label(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}
	return fmt.Sprintf("%s%d", string(rune('A'+i%26)), i/26)
}

// ParseAddress returns given string as an address and fails the test if it
// is not a valid one.
func ParseAddress(t testing.TB, s string) cosign.Address {
	t.Helper()

	addr := cosign.Address(s)
	if err := addr.Validate(); err != nil {
		t.Fatalf("invalid address %q: %s", s, err)
	}
	return addr
}
