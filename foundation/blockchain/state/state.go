// Package state is the core API for the blockchain and implements all the
// business rules for building, validating and tampering with a chain. A
// State is owned by a single caller and is not safe for concurrent use.
package state

import (
	"errors"
	"time"

	"github.com/ardanlabs/hashledger/foundation/blockchain/database"
	"github.com/ardanlabs/hashledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/hashledger/foundation/blockchain/storage/memory"
)

// Set of errors returned for misuse of the chain.
var (
	ErrUninitializedChain = errors.New("uninitialized chain, create the genesis block first")
	ErrGenesisExists      = errors.New("genesis block already exists")
	ErrEmptyChain         = errors.New("empty chain")
	ErrInvalidIndex       = errors.New("invalid block index")
	ErrStaleDraft         = errors.New("draft does not extend the latest block")
)

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of blocks.
type EventHandler func(v string, args ...any)

// Config represents the configuration required to construct a chain.
type Config struct {
	Genesis   genesis.Genesis
	Storage   database.Storage // Defaults to an in memory slice.
	Now       func() time.Time // Defaults to time.Now.
	EvHandler EventHandler
}

// State manages the blockchain.
type State struct {
	genesis   genesis.Genesis
	storage   database.Storage
	now       func() time.Time
	evHandler EventHandler
}

// New constructs a new, empty blockchain.
func New(cfg Config) *State {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	strg := cfg.Storage
	if strg == nil {
		strg = memory.New()
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	gen := cfg.Genesis
	if gen.Payload == "" {
		gen.Payload = genesis.DefaultPayload
	}

	state := State{
		genesis:   gen,
		storage:   strg,
		now:       now,
		evHandler: ev,
	}

	return &state
}

// Genesis returns a copy of the chain parameters.
func (s *State) Genesis() genesis.Genesis {
	return s.genesis
}

// Reset removes every block from the chain.
func (s *State) Reset() error {
	s.evHandler("state: Reset: remove all blocks")

	return s.storage.Reset()
}
