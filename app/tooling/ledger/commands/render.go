package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ardanlabs/hashledger/foundation/blockchain/database"
	"github.com/ardanlabs/hashledger/foundation/blockchain/state"
	"github.com/pterm/pterm"
)

// printBlocks writes a table for every block in traversal order.
func printBlocks(w io.Writer, blocks []database.Block) error {
	for _, block := range blocks {
		if err := printBlock(w, block); err != nil {
			return err
		}
	}

	return nil
}

func printBlock(w io.Writer, block database.Block) error {
	trans := make([]string, len(block.Trans))
	for i, tx := range block.Trans {
		trans[i] = fmt.Sprintf("%d %s %.2f", tx.ID, tx.Kind, tx.Amount)
	}

	data := pterm.TableData{
		{"Block", strconv.FormatUint(block.Header.Number, 10)},
		{"Previous Hash", block.Header.PrevBlockHash},
		{"Payload", block.Header.Payload},
		{"Hash", block.Digest},
		{"Nonce", strconv.FormatUint(block.Header.Nonce, 10)},
		{"Timestamp", time.Unix(int64(block.Header.TimeStamp), 0).UTC().Format(time.RFC3339)},
		{"Transactions", strings.Join(trans, "; ")},
	}

	out, err := pterm.DefaultTable.WithBoxed().WithData(data).Srender()
	if err != nil {
		return fmt.Errorf("rendering block %d: %w", block.Header.Number, err)
	}

	fmt.Fprintln(w, out)

	return nil
}

func printReport(w io.Writer, r state.Report) {
	if r.Valid {
		fmt.Fprintf(w, "VALID: %s\n", r.Message)
		return
	}

	fmt.Fprintf(w, "INVALID: %s\n", r.Message)
}
