package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ardanlabs/hashledger/foundation/blockchain/database"
	"github.com/ardanlabs/hashledger/foundation/blockchain/state"
	"github.com/ardanlabs/hashledger/foundation/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session is the state carried between commands. Every command handler
// receives the session it operates on.
type Session struct {
	log           *zap.SugaredLogger
	traceID       string
	difficulty    uint
	miningTimeout time.Duration

	state   *state.State
	metrics *metrics.Metrics
	draft   *database.Block
}

// NewSession constructs an empty chain for a run of the program.
func NewSession(cfg Config) *Session {
	s := Session{
		log:           cfg.Log,
		traceID:       uuid.NewString(),
		difficulty:    cfg.Genesis.Difficulty,
		miningTimeout: cfg.MiningTimeout,
		metrics:       metrics.New(),
	}

	// The blockchain packages accept a function of this signature to allow
	// the application to log.
	ev := func(v string, args ...any) {
		s.log.Infow(fmt.Sprintf(v, args...), "traceid", s.traceID)
	}

	s.state = state.New(state.Config{
		Genesis:   cfg.Genesis,
		Now:       cfg.Now,
		EvHandler: ev,
	})

	return &s
}

// Genesis mines the genesis block.
func (s *Session) Genesis(ctx context.Context) (database.Block, error) {
	return s.mine(ctx, func(ctx context.Context) (database.Block, error) {
		return s.state.CreateGenesis(ctx, s.difficulty)
	})
}

// Append mines a block for the payload onto the chain.
func (s *Session) Append(ctx context.Context, payload string) (database.Block, error) {
	return s.mine(ctx, func(ctx context.Context) (database.Block, error) {
		return s.state.Append(ctx, payload, s.difficulty)
	})
}

// Draft starts a block that transactions can be added to before it's
// committed. Any previous draft is discarded.
func (s *Session) Draft(payload string) (database.Block, error) {
	draft, err := s.state.Draft(payload, s.difficulty)
	if err != nil {
		return database.Block{}, err
	}

	s.draft = &draft

	return draft, nil
}

// AddTransaction adds a transaction to the current draft.
func (s *Session) AddTransaction(id int64, kind string, amount float64) error {
	if s.draft == nil {
		return errors.New("no draft block, start one with draft")
	}

	return s.state.AddTransaction(s.draft, id, kind, amount)
}

// AddTransactionAt adds a transaction to a block already in the chain.
func (s *Session) AddTransactionAt(index int, id int64, kind string, amount float64) error {
	return s.state.AddTransactionAt(index, id, kind, amount)
}

// Commit mines the current draft onto the chain.
func (s *Session) Commit(ctx context.Context) (database.Block, error) {
	if s.draft == nil {
		return database.Block{}, errors.New("no draft block, start one with draft")
	}

	draft := *s.draft

	block, err := s.mine(ctx, func(ctx context.Context) (database.Block, error) {
		return s.state.Commit(ctx, draft)
	})
	if err != nil {
		return database.Block{}, err
	}

	s.draft = nil

	return block, nil
}

// Validate validates the chain.
func (s *Session) Validate() state.Report {
	r := s.state.Validate()

	result := "valid"
	if !r.Valid {
		result = r.Err.Error()
	}
	s.metrics.Validated(result)

	s.log.Infow("validate", "traceid", s.traceID, "valid", r.Valid, "message", r.Message)

	return r
}

// Tamper rewrites the payload of the block at the specified position.
func (s *Session) Tamper(index int, payload string) error {
	if err := s.state.Tamper(index, payload); err != nil {
		return err
	}

	s.metrics.Tampered()

	return nil
}

// Blocks returns every block in the chain.
func (s *Session) Blocks() ([]database.Block, error) {
	return s.state.Blocks()
}

// Reset removes every block and any draft.
func (s *Session) Reset() error {
	s.draft = nil

	if err := s.state.Reset(); err != nil {
		return err
	}

	s.metrics.Length(0)

	return nil
}

// Metrics returns the metrics for the session.
func (s *Session) Metrics() *metrics.Metrics {
	return s.metrics
}

// =============================================================================

// mine runs a mining operation with the configured timeout and records
// the outcome.
func (s *Session) mine(ctx context.Context, f func(ctx context.Context) (database.Block, error)) (database.Block, error) {
	if s.miningTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.miningTimeout)
		defer cancel()
	}

	start := time.Now()

	block, err := f(ctx)
	if err != nil {
		return database.Block{}, err
	}

	took := time.Since(start)
	s.metrics.Mined(block.Header.Nonce, took, s.state.Count())

	s.log.Infow("mined", "traceid", s.traceID, "block", block.Header.Number, "nonce", block.Header.Nonce, "hash", block.Digest, "took", took)

	return block, nil
}
