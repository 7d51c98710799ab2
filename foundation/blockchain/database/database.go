// Package database handles the lower level support for blocks, their
// transactions and the proof of work used to seal them.
package database

import "errors"

// Set of errors returned by storage implementations.
var (
	ErrBlockNotFound = errors.New("block does not exist")
	ErrOutOfOrder    = errors.New("block is out of order")
	ErrEndOfChain    = errors.New("end of chain")
)

// Storage interface represents the behavior required to be implemented by any
// package providing support for holding the blocks of a chain.
type Storage interface {
	Write(block Block) error
	GetBlock(num uint64) (Block, error)
	Replace(num uint64, block Block) error
	ForEach() Iterator
	Count() int
	Reset() error
}

// Iterator interface represents the behavior required to be implemented by any
// package providing support to iterate over the blocks.
type Iterator interface {
	Next() (Block, error)
	Done() bool
}
