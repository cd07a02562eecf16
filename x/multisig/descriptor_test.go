package multisig

import (
	"testing"

	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/errors"
)

func TestNewDescriptor(t *testing.T) {
	cases := map[string]struct {
		Version   uint8
		Threshold int
		Addrs     cosign.Addresses
		WantErr   *errors.Error
	}{
		"valid 2 of 3": {
			Version:   1,
			Threshold: 2,
			Addrs:     cosign.Addresses{"A", "B", "C"},
			WantErr:   nil,
		},
		"valid 3 of 3": {
			Version:   1,
			Threshold: 3,
			Addrs:     cosign.Addresses{"A", "B", "C"},
			WantErr:   nil,
		},
		"zero version": {
			Version:   0,
			Threshold: 1,
			Addrs:     cosign.Addresses{"A"},
			WantErr:   errors.ErrInvalidInput,
		},
		"zero threshold": {
			Version:   1,
			Threshold: 0,
			Addrs:     cosign.Addresses{"A"},
			WantErr:   errors.ErrInvalidThreshold,
		},
		"negative threshold": {
			Version:   1,
			Threshold: -2,
			Addrs:     cosign.Addresses{"A"},
			WantErr:   errors.ErrInvalidThreshold,
		},
		"threshold above participants": {
			Version:   1,
			Threshold: 4,
			Addrs:     cosign.Addresses{"A", "B", "C"},
			WantErr:   errors.ErrInsufficientSigners,
		},
		"no participants": {
			Version:   1,
			Threshold: 1,
			Addrs:     nil,
			WantErr:   errors.ErrInsufficientSigners,
		},
		"duplicated participant": {
			Version:   1,
			Threshold: 1,
			Addrs:     cosign.Addresses{"A", "B", "A"},
			WantErr:   errors.ErrDuplicateSigner,
		},
		"empty participant": {
			Version:   1,
			Threshold: 1,
			Addrs:     cosign.Addresses{"A", ""},
			WantErr:   errors.ErrEmpty,
		},
		"threshold overflow": {
			Version:   1,
			Threshold: 256,
			Addrs:     cosign.Addresses{"A"},
			WantErr:   errors.ErrOverflow,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			d, err := NewDescriptor(tc.Version, tc.Threshold, tc.Addrs)
			if !tc.WantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.WantErr != nil {
				return
			}
			if d.Threshold() != tc.Threshold {
				t.Fatalf("want threshold %d, got %d", tc.Threshold, d.Threshold())
			}
			if d.Size() != len(tc.Addrs) {
				t.Fatalf("want %d participants, got %d", len(tc.Addrs), d.Size())
			}
		})
	}
}

func TestDescriptorIsImmutable(t *testing.T) {
	addrs := cosign.Addresses{"A", "B", "C"}
	d, err := NewDescriptor(1, 2, addrs)
	if err != nil {
		t.Fatalf("cannot create descriptor: %s", err)
	}

	addrs[0] = "X"
	if d.Addresses()[0] != "A" {
		t.Fatal("descriptor must not share memory with the input")
	}

	out := d.Addresses()
	out[1] = "Y"
	if d.Addresses()[1] != "B" {
		t.Fatal("descriptor must not share memory with the output")
	}
}

func TestDescriptorKeyIsOrderSensitive(t *testing.T) {
	abc, _ := NewDescriptor(1, 2, cosign.Addresses{"A", "B", "C"})
	abc2, _ := NewDescriptor(1, 2, cosign.Addresses{"A", "B", "C"})
	cba, _ := NewDescriptor(1, 2, cosign.Addresses{"C", "B", "A"})
	abc3, _ := NewDescriptor(1, 3, cosign.Addresses{"A", "B", "C"})

	if !abc.Equals(abc2) {
		t.Fatal("same fields must be equal")
	}
	if abc.Equals(cba) {
		t.Fatal("participant order is part of the identity")
	}
	if abc.Equals(abc3) {
		t.Fatal("threshold is part of the identity")
	}
	if got, want := abc.String(), "multisig v1 2-of-3"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}
