package multisig

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hashDeriver derives an address from the descriptor key, which makes it
// order sensitive like the real derivation.
var hashDeriver = DeriverFunc(func(d Descriptor) (cosign.Address, error) {
	sum := sha256.Sum256([]byte(d.Key()))
	return cosign.Address(hex.EncodeToString(sum[:])), nil
})

type staticSet cosign.Addresses

func (s staticSet) Count() int                  { return len(s) }
func (s staticSet) Addresses() cosign.Addresses { return cosign.Addresses(s).Clone() }

func TestBuild(t *testing.T) {
	set := staticSet{"A", "B", "C"}

	cases := map[string]struct {
		threshold int
		wantErr   *errors.Error
	}{
		"threshold 1":           {threshold: 1},
		"threshold 2":           {threshold: 2},
		"threshold equals size": {threshold: 3},
		"threshold zero":        {threshold: 0, wantErr: errors.ErrInvalidThreshold},
		"threshold negative":    {threshold: -1, wantErr: errors.ErrInvalidThreshold},
		"threshold above size":  {threshold: 4, wantErr: errors.ErrInsufficientSigners},
	}

	b := NewBuilder(hashDeriver)
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			d, addr, err := b.Build(set, tc.threshold)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr != nil {
				assert.Equal(t, cosign.Address(""), addr)
				return
			}
			assert.Equal(t, tc.threshold, d.Threshold())
			assert.Equal(t, DefaultVersion, d.Version())
			assert.Equal(t, cosign.Addresses(set), d.Addresses())
			assert.NotEmpty(t, addr)
		})
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	b := NewBuilder(hashDeriver)
	for size := 1; size <= 6; size++ {
		set := make(staticSet, size)
		for i := range set {
			set[i] = cosign.Address(fmt.Sprintf("signer-%d", i))
		}
		for threshold := 1; threshold <= size; threshold++ {
			d1, a1, err := b.Build(set, threshold)
			require.NoError(t, err)
			d2, a2, err := b.Build(set, threshold)
			require.NoError(t, err)
			assert.True(t, d1.Equals(d2))
			assert.Equal(t, a1, a2)
		}
		// Build fails for every threshold above the set size.
		_, _, err := b.Build(set, size+1)
		assert.True(t, errors.ErrInsufficientSigners.Is(err))
	}
}

func TestBuildOrderSensitive(t *testing.T) {
	b := NewBuilder(hashDeriver)
	_, abc, err := b.Build(staticSet{"A", "B", "C"}, 2)
	require.NoError(t, err)
	_, cab, err := b.Build(staticSet{"C", "A", "B"}, 2)
	require.NoError(t, err)
	assert.NotEqual(t, abc, cab)
}

func TestBuildVersion(t *testing.T) {
	d, _, err := NewBuilder(hashDeriver).WithVersion(2).Build(staticSet{"A"}, 1)
	require.NoError(t, err)
	assert.Equal(t, uint8(2), d.Version())

	_, _, err = NewBuilder(hashDeriver).WithVersion(0).Build(staticSet{"A"}, 1)
	assert.True(t, errors.ErrInvalidInput.Is(err))
}

func TestBuildDeriverFailure(t *testing.T) {
	failing := DeriverFunc(func(Descriptor) (cosign.Address, error) {
		return "", errors.ErrInvalidInput.New("unsupported version")
	})
	_, _, err := NewBuilder(failing).Build(staticSet{"A", "B"}, 1)
	assert.True(t, errors.ErrInvalidInput.Is(err))

	_, _, err = Builder{}.Build(staticSet{"A"}, 1)
	assert.True(t, errors.ErrHuman.Is(err))
}
