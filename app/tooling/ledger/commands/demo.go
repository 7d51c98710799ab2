package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Payload written over the genesis block by the demo.
const demoForgery = "X"

func demoCmd(cfg Config) *cobra.Command {
	return &cobra.Command{
		Use:   "demo [payload...]",
		Short: "Build a chain, validate it, tamper with the genesis block and validate again",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"A", "B"}
			}

			ctx := cmd.Context()
			w := cmd.OutOrStdout()
			s := NewSession(cfg)

			if _, err := s.Genesis(ctx); err != nil {
				return fmt.Errorf("genesis: %w", err)
			}

			for _, payload := range args {
				if _, err := s.Append(ctx, payload); err != nil {
					return fmt.Errorf("append %q: %w", payload, err)
				}
			}

			blocks, err := s.Blocks()
			if err != nil {
				return err
			}
			if err := printBlocks(w, blocks); err != nil {
				return err
			}

			printReport(w, s.Validate())

			fmt.Fprintf(w, "tampering with block 0, payload %q\n", demoForgery)
			if err := s.Tamper(0, demoForgery); err != nil {
				return fmt.Errorf("tamper: %w", err)
			}

			printReport(w, s.Validate())

			return nil
		},
	}
}
