package sigs_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/x/sigs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

func TestRequestLogsToContextLogger(t *testing.T) {
	var configured, carried bytes.Buffer
	f := newFixture(t, 2, 2, sigs.WithLogger(log.NewTMLogger(&configured)))

	ctx := cosign.WithLogger(context.Background(), log.NewTMLogger(&carried))
	_, err := f.collector.RequestSignature(ctx, f.tx, f.signers[0])
	require.NoError(t, err)
	assert.Contains(t, carried.String(), "signature collected")
	assert.Contains(t, carried.String(), "module=sigs")
	assert.Empty(t, configured.String())

	// Without a logger in the context the configured one is used.
	_, err = f.collector.RequestSignature(context.Background(), f.tx, f.signers[0])
	assert.True(t, errors.ErrAlreadySigned.Is(err))
	assert.Contains(t, configured.String(), "signature request failed")
}
