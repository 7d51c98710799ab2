package database

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ardanlabs/hashledger/foundation/blockchain/digest"
)

// Set of errors returned when constructing and mining blocks.
var (
	ErrAlreadySealed     = errors.New("block already sealed")
	ErrMiningExhausted   = errors.New("mining attempts exhausted")
	ErrPayloadTooLarge   = errors.New("payload too large")
	ErrInvalidDifficulty = errors.New("invalid difficulty")
)

// MaxPayload is the largest payload in bytes a block can carry.
const MaxPayload = 255

// MaxDifficulty is the largest difficulty that can be solved since a digest
// only has this many hex characters.
const MaxDifficulty = digest.HexLength

// =============================================================================

// BlockHeader represents common information required for each block.
type BlockHeader struct {
	Number        uint64 `json:"number"`          // Position of the block in the chain, genesis is 0.
	PrevBlockHash string `json:"prev_block_hash"` // Hash of the previous block in the chain.
	Payload       string `json:"payload"`         // Data the block is carrying.
	Nonce         uint64 `json:"nonce"`           // Value identified to solve the hash solution.
	TimeStamp     uint64 `json:"timestamp"`       // Time the block was created in unix seconds.
	Difficulty    uint   `json:"difficulty"`      // Number of 0's needed to solve the hash solution.
}

// Block represents a payload and a ledger of transactions batched together.
// Digest is empty until the block has been mined.
type Block struct {
	Header BlockHeader
	Digest string
	Trans  []BlockTx
}

// NewBlock constructs an unsealed block ready for transactions and mining.
func NewBlock(number uint64, prevBlockHash string, payload string, difficulty uint, now time.Time) (Block, error) {
	if len(payload) > MaxPayload {
		return Block{}, fmt.Errorf("%w: %d bytes, max %d", ErrPayloadTooLarge, len(payload), MaxPayload)
	}

	if difficulty > MaxDifficulty {
		return Block{}, fmt.Errorf("%w: %d, max %d", ErrInvalidDifficulty, difficulty, MaxDifficulty)
	}

	nb := Block{
		Header: BlockHeader{
			Number:        number,
			PrevBlockHash: prevBlockHash,
			Payload:       payload,
			Nonce:         0, // Will be identified by the POW algorithm.
			TimeStamp:     uint64(now.UTC().Unix()),
			Difficulty:    difficulty,
		},
	}

	return nb, nil
}

// Sealed reports whether the block carries a digest.
func (b Block) Sealed() bool {
	return b.Digest != ""
}

// AddTransaction appends a transaction to the block's ledger. Transactions
// are part of the hash input so they can only be added before mining.
func (b *Block) AddTransaction(tx BlockTx) error {
	if b.Sealed() {
		return fmt.Errorf("block[%d]: %w", b.Header.Number, ErrAlreadySealed)
	}

	b.Trans = append(b.Trans, tx)

	return nil
}

// Serialize returns the hash input for the block. The fields are concatenated
// without separators in a fixed order followed by every transaction in ledger
// order.
func (b Block) Serialize() []byte {
	buf := make([]byte, 0, 128+len(b.Header.PrevBlockHash)+len(b.Header.Payload)+32*len(b.Trans))

	buf = strconv.AppendUint(buf, b.Header.Number, 10)
	buf = append(buf, b.Header.PrevBlockHash...)
	buf = append(buf, b.Header.Payload...)
	buf = strconv.AppendUint(buf, b.Header.Nonce, 10)
	buf = strconv.AppendUint(buf, b.Header.TimeStamp, 10)

	for _, tx := range b.Trans {
		buf = append(buf, tx.Serialize()...)
	}

	return buf
}

// Hash computes the digest for the block using its current contents. This
// does not modify the block.
func (b Block) Hash() string {
	return digest.Hex(b.Serialize())
}

// Clone returns a copy of the block that shares no memory with the original.
func (b Block) Clone() Block {
	nb := b
	if b.Trans != nil {
		nb.Trans = make([]BlockTx, len(b.Trans))
		copy(nb.Trans, b.Trans)
	}

	return nb
}

// =============================================================================

// POW performs the work of mining a copy of the specified block and returns
// the sealed block. A maxAttempts of 0 means there is no limit.
func POW(ctx context.Context, block Block, maxAttempts uint64, evHandler func(v string, args ...any)) (Block, error) {
	nb := block.Clone()
	nb.Digest = ""

	if err := nb.performPOW(ctx, maxAttempts, evHandler); err != nil {
		return Block{}, err
	}

	return nb, nil
}

// performPOW does the work of mining to find a valid hash for a specified
// block. Pointer semantics are being used since a nonce is being discovered.
// The nonce starts at zero and is incremented before every attempt, so the
// final nonce is also the number of attempts taken.
func (b *Block) performPOW(ctx context.Context, maxAttempts uint64, ev func(v string, args ...any)) error {
	if ev == nil {
		ev = func(string, ...any) {}
	}

	if b.Header.Difficulty > MaxDifficulty {
		return fmt.Errorf("%w: %d, max %d", ErrInvalidDifficulty, b.Header.Difficulty, MaxDifficulty)
	}

	ev("database: PerformPOW: MINING: started: blk[%d]: difficulty[%d]", b.Header.Number, b.Header.Difficulty)
	defer ev("database: PerformPOW: MINING: completed: blk[%d]", b.Header.Number)

	for _, tx := range b.Trans {
		ev("database: PerformPOW: MINING: tx[%s]", tx)
	}

	b.Header.Nonce = 0

	for {
		if maxAttempts > 0 && b.Header.Nonce >= maxAttempts {
			ev("database: PerformPOW: MINING: EXHAUSTED: attempts[%d]", b.Header.Nonce)
			return fmt.Errorf("blk[%d]: after %d attempts: %w", b.Header.Number, b.Header.Nonce, ErrMiningExhausted)
		}

		// Did we timeout trying to solve the problem.
		if ctx.Err() != nil {
			ev("database: PerformPOW: MINING: CANCELLED")
			return ctx.Err()
		}

		b.Header.Nonce++
		if b.Header.Nonce%1_000_000 == 0 {
			ev("database: PerformPOW: MINING: attempts[%d]", b.Header.Nonce)
		}

		// Hash the block and check if we have solved the puzzle.
		hash := b.Hash()
		if !IsHashSolved(b.Header.Difficulty, hash) {
			continue
		}

		b.Digest = hash

		ev("database: PerformPOW: MINING: SOLVED: prevBlk[%s]: newBlk[%s]", b.Header.PrevBlockHash, hash)
		ev("database: PerformPOW: MINING: attempts[%d]", b.Header.Nonce)

		return nil
	}
}

// IsHashSolved checks the hash to make sure it complies with
// the POW rules. We need to match a difficulty number of 0's.
func IsHashSolved(difficulty uint, hash string) bool {
	const match = "0000000000000000000000000000000000000000000000000000000000000000"

	if len(hash) != digest.HexLength || difficulty > MaxDifficulty {
		return false
	}

	return hash[:difficulty] == match[:difficulty]
}
