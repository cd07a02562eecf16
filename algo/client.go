package algo

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/algorand/go-algorand-sdk/v2/client/v2/algod"
	"github.com/algorand/go-algorand-sdk/v2/transaction"
	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/iov-one/cosign"
	"github.com/iov-one/cosign/errors"
	"github.com/iov-one/cosign/wallet"
	"github.com/tendermint/tendermint/libs/log"
)

// Client is an algod client wrapped to provide the network operations of
// the signing flow. Transport failures are reported as errors.ErrNetwork and
// transactions refused by the node as errors.ErrRejectedByNetwork.
type Client struct {
	algod  *algod.Client
	logger log.Logger
}

// NewClient connects to the algod REST API at given address.
func NewClient(address, token string, logger log.Logger) (*Client, error) {
	c, err := algod.MakeClient(address, token)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "algod client: %s", err)
	}
	return &Client{
		algod:  c,
		logger: cosign.LoggerOr(logger).With("module", "algo"),
	}, nil
}

// BuildPayment returns an unsigned payment transaction, encoded as expected
// by wallets.
func (c *Client) BuildPayment(ctx context.Context, from, to cosign.Address, amount uint64, note []byte) ([]byte, error) {
	if _, err := DecodeAddress(from); err != nil {
		return nil, errors.Wrap(err, "sender")
	}
	if _, err := DecodeAddress(to); err != nil {
		return nil, errors.Wrap(err, "receiver")
	}
	params, err := c.algod.SuggestedParams().Do(ctx)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "suggested params: %s", err)
	}
	tx, err := transaction.MakePaymentTxn(from.String(), to.String(), amount, note, "", params)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return EncodeTx(tx), nil
}

// SendRawTransaction submits a signed transaction and returns its ID.
func (c *Client) SendRawTransaction(ctx context.Context, blob []byte) (string, error) {
	txID, err := c.algod.SendRawTransaction(blob).Do(ctx)
	if err != nil {
		return "", classify(err)
	}
	c.logger.Debug("transaction sent", "txid", txID)
	return txID, nil
}

// WaitForConfirmation blocks until the transaction is confirmed or maxRounds
// rounds passed, and returns the confirmation round.
func (c *Client) WaitForConfirmation(ctx context.Context, txID string, maxRounds uint64) (uint64, error) {
	info, err := transaction.WaitForConfirmation(c.algod, txID, maxRounds, ctx)
	if err != nil {
		return 0, classify(err)
	}
	return info.ConfirmedRound, nil
}

// Pay transfers amount from a single signature account controlled by given
// wallet and returns the transaction ID once sent.
func (c *Client) Pay(ctx context.Context, p wallet.Provider, from, to cosign.Address, amount uint64, note []byte) (string, error) {
	unsigned, err := c.BuildPayment(ctx, from, to, amount, note)
	if err != nil {
		return "", err
	}
	signed, err := wallet.SignOne(ctx, p, wallet.SignRequest{Payload: unsigned, Signer: from})
	if err != nil {
		return "", err
	}
	return c.SendRawTransaction(ctx, signed)
}

// GlobalUint returns the unsigned integer stored under key in the global
// state of the application.
func (c *Client) GlobalUint(ctx context.Context, appID uint64, key string) (uint64, error) {
	app, err := c.algod.GetApplicationByID(appID).Do(ctx)
	if err != nil {
		return 0, classify(err)
	}
	want := base64.StdEncoding.EncodeToString([]byte(key))
	for _, kv := range app.Params.GlobalState {
		if kv.Key == want {
			return kv.Value.Uint, nil
		}
	}
	return 0, errors.Wrapf(errors.ErrNotFound, "global %q of application %d", key, appID)
}

// CallUint calls an ABI method without arguments returning uint64 and waits
// for the result. The call is signed by sender through the wallet.
func (c *Client) CallUint(ctx context.Context, appID uint64, method string, sender cosign.Address, p wallet.Provider, waitRounds uint64) (uint64, error) {
	m, err := methodFromSignature(method)
	if err != nil {
		return 0, err
	}
	from, err := DecodeAddress(sender)
	if err != nil {
		return 0, errors.Wrap(err, "sender")
	}
	params, err := c.algod.SuggestedParams().Do(ctx)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrNetwork, "suggested params: %s", err)
	}

	call := transaction.AddMethodCallParams{
		AppID:           appID,
		Method:          m,
		Sender:          from,
		SuggestedParams: params,
		OnComplete:      types.NoOpOC,
		Signer:          NewTransactionSigner(ctx, p, sender),
	}
	return c.execute(ctx, &transaction.AtomicTransactionComposer{}, call, waitRounds)
}

// composer is the part of the SDK transaction composer used for app calls.
type composer interface {
	AddMethodCall(params transaction.AddMethodCallParams) error
	Execute(client *algod.Client, ctx context.Context, waitRounds uint64) (transaction.ExecuteResult, error)
}

var _ composer = (*transaction.AtomicTransactionComposer)(nil)

// execute submits a single method call returning uint64 and waits up to
// waitRounds rounds for its result.
func (c *Client) execute(ctx context.Context, atc composer, call transaction.AddMethodCallParams, waitRounds uint64) (uint64, error) {
	if err := atc.AddMethodCall(call); err != nil {
		return 0, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	res, err := atc.Execute(c.algod, ctx, waitRounds)
	if err != nil {
		return 0, classify(err)
	}
	if len(res.MethodResults) != 1 {
		return 0, errors.Wrapf(errors.ErrInvalidState, "want 1 method result, got %d", len(res.MethodResults))
	}
	out := res.MethodResults[0]
	if out.DecodeError != nil {
		return 0, errors.Wrap(errors.ErrInvalidType, out.DecodeError.Error())
	}
	v, ok := out.ReturnValue.(uint64)
	if !ok {
		return 0, errors.Wrapf(errors.ErrInvalidType, "method %s returned %T", call.Method.Name, out.ReturnValue)
	}
	c.logger.Info("application called", "app", call.AppID, "method", call.Method.Name, "txid", out.TxID, "round", res.ConfirmedRound)
	return v, nil
}

// classify maps algod failures onto the network error kinds. The node
// answers a refused transaction with HTTP 400.
func classify(err error) error {
	switch {
	case errors.ErrSigningFailed.Is(err), errors.ErrUserRejected.Is(err), errors.ErrSignerUnavailable.Is(err):
		return err
	case strings.Contains(err.Error(), "HTTP 400"):
		return errors.Wrap(errors.ErrRejectedByNetwork, err.Error())
	default:
		return errors.Wrap(errors.ErrNetwork, err.Error())
	}
}
