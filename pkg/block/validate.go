package block

import (
	"errors"
	"fmt"

	"github.com/Klingon-tech/klingnet-chain/config"
)

// Structural validation errors.
var (
	ErrTooManyTransactions = errors.New("block exceeds the maximum transaction count")
	ErrEmptyBlock          = errors.New("block has no transactions")
	ErrNoCoinbase          = errors.New("block has no coinbase transaction")
	ErrMultipleCoinbases   = errors.New("block has more than one coinbase transaction")
)

// Validate checks the block's structure: size within config.BlockSize,
// exactly one coinbase, and every transaction individually well-formed.
// It does not check that non-coinbase inputs exist in the UTXO set or
// that their signatures verify — that is internal/chain's job, since it
// requires state Validate has no access to.
func (b *Block) Validate() error {
	if len(b.Transactions) == 0 {
		return ErrEmptyBlock
	}
	if len(b.Transactions) > config.BlockSize {
		return fmt.Errorf("%w: got %d, max %d", ErrTooManyTransactions, len(b.Transactions), config.BlockSize)
	}

	coinbases := 0
	for i, t := range b.Transactions {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("transaction %d: %w", i, err)
		}
		if t.IsCoinbase() {
			coinbases++
		}
	}
	if coinbases == 0 {
		return ErrNoCoinbase
	}
	if coinbases > 1 {
		return fmt.Errorf("%w: found %d", ErrMultipleCoinbases, coinbases)
	}
	return nil
}
