package database

import (
	"fmt"
	"strconv"

	"github.com/ardanlabs/hashledger/foundation/validate"
)

// BlockTx represents a transaction record attached to a block. The order of
// the records in a block is part of the block's hash.
type BlockTx struct {
	ID     int64   `json:"id"`
	Kind   string  `json:"kind" validate:"required,max=32"`
	Amount float64 `json:"amount"`
}

// NewBlockTx constructs a transaction record after validating it.
func NewBlockTx(id int64, kind string, amount float64) (BlockTx, error) {
	tx := BlockTx{
		ID:     id,
		Kind:   kind,
		Amount: amount,
	}

	if err := validate.Check(tx); err != nil {
		return BlockTx{}, fmt.Errorf("validate transaction: %w", err)
	}

	return tx, nil
}

// Serialize returns the text used when the transaction is part of a block's
// hash input. The amount always carries two fractional digits.
func (tx BlockTx) Serialize() string {
	return strconv.FormatInt(tx.ID, 10) + tx.Kind + strconv.FormatFloat(tx.Amount, 'f', 2, 64)
}

// String implements the fmt.Stringer interface for logging.
func (tx BlockTx) String() string {
	return fmt.Sprintf("%d:%s:%.2f", tx.ID, tx.Kind, tx.Amount)
}
