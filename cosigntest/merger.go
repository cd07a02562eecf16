package cosigntest

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/iov-one/cosign/errors"
)

// Merger combines partial signatures by joining them with a separator. Set
// Err to make merging fail.
type Merger struct {
	Err error

	mu    sync.Mutex
	calls int
	last  [][]byte
}

func (m *Merger) MergeMultisig(unsigned []byte, parts [][]byte) (string, []byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	m.last = parts
	if m.Err != nil {
		return "", nil, m.Err
	}
	if len(parts) == 0 {
		return "", nil, errors.Wrap(errors.ErrEmpty, "signatures")
	}
	blob := Merged(parts)
	return TxID(blob), blob, nil
}

// CallCount returns the number of MergeMultisig calls.
func (m *Merger) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastParts returns the signatures given to the latest MergeMultisig call.
func (m *Merger) LastParts() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// Merged returns the blob Merger builds out of given signatures.
func Merged(parts [][]byte) []byte {
	return bytes.Join(parts, []byte("|"))
}

// TxID returns the identifier Merger assigns to a merged blob.
func TxID(blob []byte) string {
	sum := sha256.Sum256(blob)
	return hex.EncodeToString(sum[:])
}
