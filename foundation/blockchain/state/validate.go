package state

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/hashledger/foundation/blockchain/database"
	"github.com/ardanlabs/hashledger/foundation/blockchain/digest"
)

// Set of findings reported by Validate.
var (
	ErrInvalidGenesisLink = errors.New("genesis block corrupted")
	ErrIndexSequence      = errors.New("block index out of sequence")
	ErrCorruptedLinkage   = errors.New("chain corrupted")
	ErrInvalidBlockDigest = errors.New("block hash invalid")
	ErrInsufficientWork   = errors.New("block hash does not satisfy difficulty")
)

// Report is the verdict of a validation. Err holds one of the finding errors
// when the chain is not valid and Index/Next identify the blocks involved.
type Report struct {
	Valid   bool
	Err     error
	Index   int
	Next    int
	Message string
}

// String implements the fmt.Stringer interface.
func (r Report) String() string {
	return r.Message
}

// Validate replays the hash of every block in the chain and checks the
// linkage between neighbors. It stops at the first problem found.
func (s *State) Validate() Report {
	s.evHandler("state: Validate: started")
	defer s.evHandler("state: Validate: completed")

	blocks, err := s.Blocks()
	if err != nil {
		if errors.Is(err, ErrEmptyChain) {
			return invalid(ErrEmptyChain, -1, -1, "empty chain")
		}
		return invalid(err, -1, -1, err.Error())
	}

	s.evHandler("state: Validate: blk[0]: check: genesis previous hash")

	if prev := blocks[0].Header.PrevBlockHash; prev != digest.GenesisPrevHash {
		return invalid(ErrInvalidGenesisLink, 0, -1, fmt.Sprintf("genesis block corrupted, previous hash %q, exp %q", prev, digest.GenesisPrevHash))
	}

	for i, block := range blocks {
		s.evHandler("state: Validate: blk[%d]: check: block number is in sequence", i)

		if block.Header.Number != uint64(i) {
			return invalid(ErrIndexSequence, i, -1, fmt.Sprintf("block at position %d has index %d", i, block.Header.Number))
		}

		if i+1 < len(blocks) {
			s.evHandler("state: Validate: blk[%d]: check: next block links to this block", i)

			if blocks[i+1].Header.PrevBlockHash != block.Digest {
				return invalid(ErrCorruptedLinkage, i, i+1, fmt.Sprintf("chain corrupted between blocks %d and %d", i, i+1))
			}
		}

		if r, ok := checkBlock(i, block); !ok {
			return r
		}
	}

	s.evHandler("state: Validate: VALID: blocks[%d]", len(blocks))

	return Report{
		Valid:   true,
		Index:   -1,
		Next:    -1,
		Message: "blockchain valid",
	}
}

// =============================================================================

// checkBlock verifies the stored hash of a single block against its contents
// and the difficulty it was mined with. The latest block is checked the same
// as every other block.
func checkBlock(i int, block database.Block) (Report, bool) {
	if block.Digest != block.Hash() {
		return invalid(ErrInvalidBlockDigest, i, -1, fmt.Sprintf("block %d hash invalid", i)), false
	}

	if !database.IsHashSolved(block.Header.Difficulty, block.Digest) {
		return invalid(ErrInsufficientWork, i, -1, fmt.Sprintf("block %d hash does not satisfy difficulty %d", i, block.Header.Difficulty)), false
	}

	return Report{}, true
}

func invalid(err error, index int, next int, msg string) Report {
	return Report{
		Err:     err,
		Index:   index,
		Next:    next,
		Message: msg,
	}
}
