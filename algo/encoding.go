package algo

import (
	"github.com/algorand/go-algorand-sdk/v2/encoding/msgpack"
	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/iov-one/cosign/errors"
)

// EncodeTx serializes an unsigned transaction the way it is passed to
// wallets.
func EncodeTx(tx types.Transaction) []byte {
	return msgpack.Encode(tx)
}

// DecodeTx deserializes an unsigned transaction.
func DecodeTx(raw []byte) (types.Transaction, error) {
	var tx types.Transaction
	if err := decode(raw, &tx); err != nil {
		return types.Transaction{}, err
	}
	return tx, nil
}

func decode(raw []byte, obj interface{}) error {
	if len(raw) == 0 {
		return errors.Wrap(errors.ErrEmpty, "transaction")
	}
	if err := msgpack.Decode(raw, obj); err != nil {
		return errors.Wrapf(errors.ErrInvalidType, "cannot decode %T: %s", obj, err)
	}
	return nil
}
