package state

import (
	"fmt"

	"github.com/ardanlabs/hashledger/foundation/blockchain/database"
)

// Count returns the number of blocks in the chain.
func (s *State) Count() int {
	return s.storage.Count()
}

// LatestBlock returns a copy of the current latest block.
func (s *State) LatestBlock() (database.Block, error) {
	n := s.storage.Count()
	if n == 0 {
		return database.Block{}, ErrEmptyChain
	}

	return s.storage.GetBlock(uint64(n - 1))
}

// QueryBlock returns a copy of the block at the specified position.
func (s *State) QueryBlock(index int) (database.Block, error) {
	if index < 0 || index >= s.storage.Count() {
		return database.Block{}, fmt.Errorf("%w: %d", ErrInvalidIndex, index)
	}

	return s.storage.GetBlock(uint64(index))
}

// Blocks returns a copy of every block in traversal order.
func (s *State) Blocks() ([]database.Block, error) {
	if s.storage.Count() == 0 {
		return nil, ErrEmptyChain
	}

	out := make([]database.Block, 0, s.storage.Count())

	iter := s.storage.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return nil, err
		}
		out = append(out, block)
	}

	return out, nil
}

// QueryBlocksByNumber returns the set of blocks between from and to
// inclusive. A to beyond the latest block is clamped.
func (s *State) QueryBlocksByNumber(from int, to int) ([]database.Block, error) {
	n := s.storage.Count()
	if n == 0 {
		return nil, ErrEmptyChain
	}

	if to >= n {
		to = n - 1
	}

	if from < 0 || from > to {
		return nil, fmt.Errorf("%w: range %d-%d", ErrInvalidIndex, from, to)
	}

	out := make([]database.Block, 0, to-from+1)
	for i := from; i <= to; i++ {
		block, err := s.storage.GetBlock(uint64(i))
		if err != nil {
			return nil, err
		}
		out = append(out, block)
	}

	return out, nil
}
