package database_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ardanlabs/hashledger/foundation/blockchain/database"
	"github.com/ardanlabs/hashledger/foundation/blockchain/digest"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

var now = time.Unix(1700000000, 0)

// =============================================================================

func Test_Serialize(t *testing.T) {
	t.Log("Given the need to serialize a block for hashing.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen handling a block with transactions.", testID)
		{
			block := database.Block{
				Header: database.BlockHeader{
					Number:        1,
					PrevBlockHash: "abc",
					Payload:       "A",
					Nonce:         7,
					TimeStamp:     1700000000,
				},
				Trans: []database.BlockTx{
					{ID: 1, Kind: "deposit", Amount: 10.5},
					{ID: 2, Kind: "withdraw", Amount: 3},
				},
			}

			exp := "1abcA71700000000" + "1deposit10.50" + "2withdraw3.00"
			got := string(block.Serialize())
			if got != exp {
				t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, got)
				t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, exp)
				t.Fatalf("\t%s\tTest %d:\tShould serialize fields in order.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould serialize fields in order.", success, testID)

			if block.Hash() != digest.Hex([]byte(exp)) {
				t.Fatalf("\t%s\tTest %d:\tShould hash the serialized bytes.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould hash the serialized bytes.", success, testID)

			if block.Hash() != block.Hash() {
				t.Fatalf("\t%s\tTest %d:\tShould get the same hash twice.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould get the same hash twice.", success, testID)

			swapped := block.Clone()
			swapped.Trans[0], swapped.Trans[1] = swapped.Trans[1], swapped.Trans[0]
			if swapped.Hash() == block.Hash() {
				t.Fatalf("\t%s\tTest %d:\tShould treat transaction order as significant.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould treat transaction order as significant.", success, testID)

			if block.Trans[0].ID != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould not share transactions with a clone.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould not share transactions with a clone.", success, testID)
		}
	}
}

func Test_POW(t *testing.T) {
	t.Log("Given the need to mine blocks at different difficulties.")
	{
		for difficulty := uint(0); difficulty <= 5; difficulty++ {
			t.Logf("\tTest %d:\tWhen mining with difficulty %d.", difficulty, difficulty)
			{
				block, err := database.NewBlock(1, strings.Repeat("a", 64), "payload", difficulty, now)
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to construct a block: %v", failed, difficulty, err)
				}

				if err := block.AddTransaction(database.BlockTx{ID: 1, Kind: "deposit", Amount: 5}); err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to add a transaction: %v", failed, difficulty, err)
				}

				sealed, err := database.POW(context.Background(), block, 0, nil)
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to mine the block: %v", failed, difficulty, err)
				}
				t.Logf("\t%s\tTest %d:\tShould be able to mine the block.", success, difficulty)

				if !strings.HasPrefix(sealed.Digest, strings.Repeat("0", int(difficulty))) {
					t.Fatalf("\t%s\tTest %d:\tShould have %d leading zeros: %s", failed, difficulty, difficulty, sealed.Digest)
				}
				t.Logf("\t%s\tTest %d:\tShould have %d leading zeros.", success, difficulty, difficulty)

				if sealed.Digest != sealed.Hash() {
					t.Fatalf("\t%s\tTest %d:\tShould store the digest of the block.", failed, difficulty)
				}
				t.Logf("\t%s\tTest %d:\tShould store the digest of the block.", success, difficulty)

				again, err := database.POW(context.Background(), block, 0, nil)
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to mine the block again: %v", failed, difficulty, err)
				}

				if again.Header.Nonce != sealed.Header.Nonce || again.Digest != sealed.Digest {
					t.Fatalf("\t%s\tTest %d:\tShould find the same nonce for the same block.", failed, difficulty)
				}
				t.Logf("\t%s\tTest %d:\tShould find the same nonce for the same block.", success, difficulty)

				if block.Sealed() {
					t.Fatalf("\t%s\tTest %d:\tShould not seal the original block.", failed, difficulty)
				}
				t.Logf("\t%s\tTest %d:\tShould not seal the original block.", success, difficulty)

				if difficulty == 0 && sealed.Header.Nonce != 1 {
					t.Fatalf("\t%s\tTest %d:\tShould solve difficulty 0 on the first attempt, got nonce %d.", failed, difficulty, sealed.Header.Nonce)
				}
			}
		}
	}
}

func Test_POWLimits(t *testing.T) {
	t.Log("Given the need to stop mining that can't finish.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen the attempts are capped.", testID)
		{
			block, err := database.NewBlock(1, "0", "payload", database.MaxDifficulty, now)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to construct a block: %v", failed, testID, err)
			}

			_, err = database.POW(context.Background(), block, 100, nil)
			if !errors.Is(err, database.ErrMiningExhausted) {
				t.Fatalf("\t%s\tTest %d:\tShould get ErrMiningExhausted, got %v.", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould get ErrMiningExhausted.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the context is cancelled.", testID)
		{
			block, err := database.NewBlock(1, "0", "payload", database.MaxDifficulty, now)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to construct a block: %v", failed, testID, err)
			}

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, err = database.POW(ctx, block, 0, nil)
			if !errors.Is(err, context.Canceled) {
				t.Fatalf("\t%s\tTest %d:\tShould get context.Canceled, got %v.", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould get context.Canceled.", success, testID)
		}
	}
}

func Test_BlockRules(t *testing.T) {
	t.Log("Given the need to enforce the rules for constructing blocks.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen the payload is too large.", testID)
		{
			_, err := database.NewBlock(1, "0", strings.Repeat("x", database.MaxPayload+1), 1, now)
			if !errors.Is(err, database.ErrPayloadTooLarge) {
				t.Fatalf("\t%s\tTest %d:\tShould get ErrPayloadTooLarge, got %v.", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould get ErrPayloadTooLarge.", success, testID)

			if _, err := database.NewBlock(1, "0", strings.Repeat("x", database.MaxPayload), 1, now); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould accept a payload of %d bytes: %v", failed, testID, database.MaxPayload, err)
			}
			t.Logf("\t%s\tTest %d:\tShould accept a payload of %d bytes.", success, testID, database.MaxPayload)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the difficulty can't be solved.", testID)
		{
			_, err := database.NewBlock(1, "0", "payload", database.MaxDifficulty+1, now)
			if !errors.Is(err, database.ErrInvalidDifficulty) {
				t.Fatalf("\t%s\tTest %d:\tShould get ErrInvalidDifficulty, got %v.", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould get ErrInvalidDifficulty.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen adding a transaction to a sealed block.", testID)
		{
			block, err := database.NewBlock(1, "0", "payload", 1, now)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to construct a block: %v", failed, testID, err)
			}

			sealed, err := database.POW(context.Background(), block, 0, nil)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to mine the block: %v", failed, testID, err)
			}

			err = sealed.AddTransaction(database.BlockTx{ID: 1, Kind: "deposit", Amount: 1})
			if !errors.Is(err, database.ErrAlreadySealed) {
				t.Fatalf("\t%s\tTest %d:\tShould get ErrAlreadySealed, got %v.", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould get ErrAlreadySealed.", success, testID)

			if len(sealed.Trans) != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould not change the ledger.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould not change the ledger.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen constructing an invalid transaction.", testID)
		{
			if _, err := database.NewBlockTx(1, "", 10); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould reject a transaction without a kind.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould reject a transaction without a kind.", success, testID)

			tx, err := database.NewBlockTx(1, "deposit", 10)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould accept a valid transaction: %v", failed, testID, err)
			}

			if tx.Serialize() != "1deposit10.00" {
				t.Fatalf("\t%s\tTest %d:\tShould format the amount with 2 digits, got %s.", failed, testID, tx.Serialize())
			}
			t.Logf("\t%s\tTest %d:\tShould format the amount with 2 digits.", success, testID)
		}
	}
}
