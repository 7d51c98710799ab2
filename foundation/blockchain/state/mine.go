package state

import (
	"context"
	"fmt"

	"github.com/ardanlabs/hashledger/foundation/blockchain/database"
	"github.com/ardanlabs/hashledger/foundation/blockchain/digest"
)

// CreateGenesis mines the first block of the chain.
func (s *State) CreateGenesis(ctx context.Context, difficulty uint) (database.Block, error) {
	s.evHandler("state: CreateGenesis: started: difficulty[%d]", difficulty)
	defer s.evHandler("state: CreateGenesis: completed")

	if s.storage.Count() > 0 {
		return database.Block{}, ErrGenesisExists
	}

	block, err := database.NewBlock(0, digest.GenesisPrevHash, s.genesis.Payload, difficulty, s.now())
	if err != nil {
		return database.Block{}, err
	}

	return s.mineAndLink(ctx, block)
}

// Append mines a new block carrying the payload and links it as the new
// latest block of the chain.
func (s *State) Append(ctx context.Context, payload string, difficulty uint) (database.Block, error) {
	s.evHandler("state: Append: started: payload[%s]: difficulty[%d]", payload, difficulty)
	defer s.evHandler("state: Append: completed")

	draft, err := s.Draft(payload, difficulty)
	if err != nil {
		return database.Block{}, err
	}

	return s.Commit(ctx, draft)
}

// Draft constructs an unsealed block that extends the latest block. Use
// AddTransaction to attach transactions and Commit to mine and link it.
// Transactions can't be added once the block has been committed.
func (s *State) Draft(payload string, difficulty uint) (database.Block, error) {
	latest, err := s.LatestBlock()
	if err != nil {
		return database.Block{}, ErrUninitializedChain
	}

	return database.NewBlock(latest.Header.Number+1, latest.Digest, payload, difficulty, s.now())
}

// AddTransaction validates and appends a transaction to an unsealed block.
func (s *State) AddTransaction(block *database.Block, id int64, kind string, amount float64) error {
	tx, err := database.NewBlockTx(id, kind, amount)
	if err != nil {
		return err
	}

	if err := block.AddTransaction(tx); err != nil {
		return err
	}

	s.evHandler("state: AddTransaction: blk[%d]: tx[%s]", block.Header.Number, tx)

	return nil
}

// AddTransactionAt attempts to add a transaction to a block already in the
// chain. Every block in the chain is sealed so this only succeeds in
// reporting why it can't be done.
func (s *State) AddTransactionAt(index int, id int64, kind string, amount float64) error {
	block, err := s.QueryBlock(index)
	if err != nil {
		return err
	}

	return s.AddTransaction(&block, id, kind, amount)
}

// Commit mines the draft block and links it as the new latest block. The
// draft must still extend the latest block of the chain.
func (s *State) Commit(ctx context.Context, draft database.Block) (database.Block, error) {
	latest, err := s.LatestBlock()
	if err != nil {
		return database.Block{}, ErrUninitializedChain
	}

	if draft.Sealed() {
		return database.Block{}, fmt.Errorf("blk[%d]: %w", draft.Header.Number, database.ErrAlreadySealed)
	}

	if draft.Header.Number != latest.Header.Number+1 || draft.Header.PrevBlockHash != latest.Digest {
		return database.Block{}, fmt.Errorf("blk[%d]: %w", draft.Header.Number, ErrStaleDraft)
	}

	return s.mineAndLink(ctx, draft)
}

// =============================================================================

// mineAndLink performs the proof of work for the block and writes the sealed
// block to storage.
func (s *State) mineAndLink(ctx context.Context, block database.Block) (database.Block, error) {
	s.evHandler("state: mineAndLink: MINING: perform POW: blk[%d]", block.Header.Number)

	sealed, err := database.POW(ctx, block, s.genesis.MaxAttempts, s.evHandler)
	if err != nil {
		return database.Block{}, err
	}

	s.evHandler("state: mineAndLink: MINING: link: blk[%d]: hash[%s]", sealed.Header.Number, sealed.Digest)

	if err := s.storage.Write(sealed); err != nil {
		return database.Block{}, err
	}

	return sealed, nil
}
