// Package memory implements the ability to read and write blocks to memory
// using a slice. The position of a block in the slice is its number.
package memory

import (
	"fmt"

	"github.com/ardanlabs/hashledger/foundation/blockchain/database"
)

// Memory represents the storage implementation for reading and storing
// blocks in memory using a slice. This implements the database.Storage
// interface.
type Memory struct {
	blocks []database.Block
}

// New constructs an Memory value for use.
func New() *Memory {
	return &Memory{}
}

// Write takes the specified block and appends it to the chain. The block
// number must be the next position in the slice.
func (m *Memory) Write(block database.Block) error {
	l := uint64(len(m.blocks))
	if block.Header.Number != l {
		return fmt.Errorf("%w: got %d, exp %d", database.ErrOutOfOrder, block.Header.Number, l)
	}

	m.blocks = append(m.blocks, block.Clone())

	return nil
}

// GetBlock returns a copy of the block at the specified position.
func (m *Memory) GetBlock(num uint64) (database.Block, error) {
	if num >= uint64(len(m.blocks)) {
		return database.Block{}, fmt.Errorf("%w: %d", database.ErrBlockNotFound, num)
	}

	return m.blocks[num].Clone(), nil
}

// Replace overwrites the block at the specified position in place.
func (m *Memory) Replace(num uint64, block database.Block) error {
	if num >= uint64(len(m.blocks)) {
		return fmt.Errorf("%w: %d", database.ErrBlockNotFound, num)
	}

	m.blocks[num] = block.Clone()

	return nil
}

// Count returns the number of blocks being held.
func (m *Memory) Count() int {
	return len(m.blocks)
}

// ForEach returns an iterator to walk through all the blocks
// starting with the genesis block.
func (m *Memory) ForEach() database.Iterator {
	return &memoryIterator{storage: m}
}

// Reset will clear out the blockchain.
func (m *Memory) Reset() error {
	m.blocks = nil
	return nil
}

// =============================================================================

// memoryIterator represents the iteration implementation for walking
// through the blocks in memory. This implements the database
// Iterator interface.
type memoryIterator struct {
	storage *Memory // Access to the storage API.
	current uint64  // Current block number being iterated over.
	eoc     bool    // Represents the iterator is at the end of the chain.
}

// Next retrieves the next block.
func (mi *memoryIterator) Next() (database.Block, error) {
	if mi.eoc {
		return database.Block{}, database.ErrEndOfChain
	}

	block, err := mi.storage.GetBlock(mi.current)
	if err != nil {
		mi.eoc = true
	}

	mi.current++

	return block, err
}

// Done returns the end of chain value.
func (mi *memoryIterator) Done() bool {
	return mi.eoc
}
