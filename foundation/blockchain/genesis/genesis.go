// Package genesis maintains access to the chain parameters used when the
// genesis block is created.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ardanlabs/hashledger/foundation/validate"
)

// DefaultPayload is the payload carried by the genesis block.
const DefaultPayload = "Genesis Block"

// Genesis represents the parameters for a chain.
type Genesis struct {
	Payload     string `json:"payload" validate:"required,max=255"` // Data carried by the genesis block.
	Difficulty  uint   `json:"difficulty" validate:"lte=64"`        // How difficult it needs to be to solve the work problem.
	MaxAttempts uint64 `json:"max_attempts"`                        // Cap on mining attempts per block, 0 is unlimited.
}

// Default returns the parameters for a chain with the given difficulty.
// Every added hex zero multiplies the expected mining work by 16.
func Default(difficulty uint) Genesis {
	return Genesis{
		Payload:    DefaultPayload,
		Difficulty: difficulty,
	}
}

// =============================================================================

// Load opens and consumes the genesis file. Fields missing from the file
// keep the values from def.
func Load(path string, def Genesis) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	genesis := def
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("decoding genesis: %w", err)
	}

	if err := validate.Check(genesis); err != nil {
		return Genesis{}, fmt.Errorf("validating genesis: %w", err)
	}

	return genesis, nil
}
