package genesis_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/hashledger/foundation/blockchain/genesis"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Load(t *testing.T) {
	t.Log("Given the need to load chain parameters from a file.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen the file overrides the difficulty.", testID)
		{
			path := filepath.Join(t.TempDir(), "genesis.json")
			if err := os.WriteFile(path, []byte(`{"difficulty": 3}`), 0600); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to write the file: %v", failed, testID, err)
			}

			gen, err := genesis.Load(path, genesis.Default(2))
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to load the file: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to load the file.", success, testID)

			if gen.Difficulty != 3 || gen.Payload != genesis.DefaultPayload {
				t.Fatalf("\t%s\tTest %d:\tShould merge with the defaults, got %+v.", failed, testID, gen)
			}
			t.Logf("\t%s\tTest %d:\tShould merge with the defaults.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the file has an unsolvable difficulty.", testID)
		{
			path := filepath.Join(t.TempDir(), "genesis.json")
			if err := os.WriteFile(path, []byte(`{"difficulty": 65}`), 0600); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to write the file: %v", failed, testID, err)
			}

			if _, err := genesis.Load(path, genesis.Default(2)); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould reject the file.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould reject the file.", success, testID)
		}
	}
}
