package metrics_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/ardanlabs/hashledger/foundation/metrics"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Write(t *testing.T) {
	t.Log("Given the need to report chain metrics.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen blocks are mined and validated.", testID)
		{
			m := metrics.New()
			m.Mined(120, time.Millisecond, 1)
			m.Mined(30, time.Millisecond, 2)
			m.Validated("valid")
			m.Tampered()

			var buf bytes.Buffer
			if err := m.Write(&buf); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to write metrics: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to write metrics.", success, testID)

			out := buf.String()
			for _, exp := range []string{
				"hashledger_blocks_mined_total 2",
				"hashledger_hash_attempts_total 150",
				"hashledger_chain_length 2",
				`hashledger_validations_total{result="valid"} 1`,
				"hashledger_tampers_total 1",
			} {
				if !strings.Contains(out, exp) {
					t.Errorf("\t%s\tTest %d:\tShould contain %q.", failed, testID, exp)
					continue
				}
				t.Logf("\t%s\tTest %d:\tShould contain %q.", success, testID, exp)
			}
		}
	}
}
