// Package commands contains the commands for the ledger simulator.
package commands

import (
	"fmt"
	"time"

	"github.com/ardanlabs/hashledger/foundation/blockchain/genesis"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Config represents what the commands need to run.
type Config struct {
	Build         string
	Log           *zap.SugaredLogger
	Genesis       genesis.Genesis
	MiningTimeout time.Duration
	Now           func() time.Time
}

// NewRootCmd constructs the command tree. Each command that runs builds its
// own Session.
func NewRootCmd(cfg Config) *cobra.Command {
	if cfg.Log == nil {
		cfg.Log = zap.NewNop().Sugar()
	}

	rootCmd := &cobra.Command{
		Use:           "ledger",
		Short:         "Simulates a proof of work hash chain in memory",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		demoCmd(cfg),
		shellCmd(cfg),
		versionCmd(cfg),
	)

	return rootCmd
}

func versionCmd(cfg Config) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ledger %s\n", cfg.Build)
		},
	}
}
