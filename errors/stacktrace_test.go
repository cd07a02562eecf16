package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStackTrace(t *testing.T) {
	cases := map[string]struct {
		err       error
		wantError string
	}{
		"New gives us a stacktrace": {
			err:       ErrDuplicateSigner.New("alice"),
			wantError: "alice: duplicate signer",
		},
		"Wrapping stderr gives us a stacktrace": {
			err:       Wrap(fmt.Errorf("foo"), "standard"),
			wantError: "standard: foo",
		},
		"Wrapping pkg/errors gives us clean stacktrace": {
			err:       Wrap(errors.New("bar"), "pkg"),
			wantError: "pkg: bar",
		},
		"Wrapping inside another function is still clean": {
			err:       wrapIndirect(fmt.Errorf("indirect")),
			wantError: "do the do: indirect",
		},
	}

	const thisTestSrc = "errors/stacktrace_test.go"

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.wantError, tc.err.Error())
			assert.NotNil(t, stackTrace(tc.err))

			fullStack := fmt.Sprintf("%+v", tc.err)
			if !strings.Contains(fullStack, thisTestSrc) {
				t.Logf("Stack trace below\n----%s\n----", fullStack)
				t.Error("full stack trace should contain this test source code information")
			}
			if !strings.Contains(fullStack, tc.wantError) {
				t.Logf("Stack trace below\n----%s\n----", fullStack)
				t.Error("full stack trace should contain the error description")
			}

			tinyStack := fmt.Sprintf("%v", tc.err)
			assert.True(t, strings.HasPrefix(tinyStack, tc.wantError))
			assert.False(t, strings.Contains(tinyStack, "\n"), "only one line is expected")
			// contains a link to where it was created, which must
			// be here, not the Wrap() function
			assert.True(t, strings.Contains(tinyStack, thisTestSrc+":"))
		})
	}
}

func wrapIndirect(err error) error {
	return Wrap(err, "do the do")
}
