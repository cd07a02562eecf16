package algo

import (
	"context"
	"testing"

	"github.com/algorand/go-algorand-sdk/v2/client/v2/algod"
	"github.com/algorand/go-algorand-sdk/v2/transaction"
	"github.com/iov-one/cosign/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

type recordingComposer struct {
	addErr     error
	execErr    error
	result     transaction.ExecuteResult
	calls      []transaction.AddMethodCallParams
	waitRounds uint64
}

func (r *recordingComposer) AddMethodCall(p transaction.AddMethodCallParams) error {
	if r.addErr != nil {
		return r.addErr
	}
	r.calls = append(r.calls, p)
	return nil
}

func (r *recordingComposer) Execute(_ *algod.Client, _ context.Context, waitRounds uint64) (transaction.ExecuteResult, error) {
	r.waitRounds = waitRounds
	return r.result, r.execErr
}

func methodResult(v interface{}) transaction.ExecuteResult {
	return transaction.ExecuteResult{
		ConfirmedRound: 7,
		MethodResults:  []transaction.ABIMethodResult{{TxID: "TX", ReturnValue: v}},
	}
}

func TestExecute(t *testing.T) {
	m, err := methodFromSignature("incr_counter()uint64")
	require.NoError(t, err)
	call := transaction.AddMethodCallParams{AppID: 42, Method: m}

	cases := map[string]struct {
		composer *recordingComposer
		want     uint64
		wantErr  *errors.Error
	}{
		"uint64 result": {
			composer: &recordingComposer{result: methodResult(uint64(5))},
			want:     5,
		},
		"method cannot be added": {
			composer: &recordingComposer{addErr: plainErr("bad method")},
			wantErr:  errors.ErrInvalidInput,
		},
		"node refuses the call": {
			composer: &recordingComposer{execErr: plainErr("HTTP 400: logic eval error")},
			wantErr:  errors.ErrRejectedByNetwork,
		},
		"no result": {
			composer: &recordingComposer{result: transaction.ExecuteResult{}},
			wantErr:  errors.ErrInvalidState,
		},
		"unexpected result type": {
			composer: &recordingComposer{result: methodResult("five")},
			wantErr:  errors.ErrInvalidType,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			c := &Client{logger: log.NewNopLogger()}
			got, err := c.execute(context.Background(), tc.composer, call, 9)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr != nil {
				return
			}
			assert.Equal(t, tc.want, got)
			assert.Equal(t, uint64(9), tc.composer.waitRounds)
			require.Len(t, tc.composer.calls, 1)
			assert.Equal(t, uint64(42), tc.composer.calls[0].AppID)
		})
	}
}

type plainErr string

func (e plainErr) Error() string { return string(e) }
