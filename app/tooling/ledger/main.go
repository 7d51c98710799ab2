// This program simulates a proof of work hash chain in memory.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/ardanlabs/hashledger/app/tooling/ledger/commands"
	"github.com/ardanlabs/hashledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/hashledger/foundation/logger"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
}

func run() error {

	// =========================================================================
	// Configuration

	cfg := struct {
		conf.Version
		Args conf.Args
		Log  struct {
			Output string `conf:"default:stderr"`
		}
		Chain struct {
			Difficulty    uint          `conf:"default:2,help:leading hex zeros required where each adds 16x the work"`
			MaxAttempts   uint64        `conf:"default:0,help:cap on mining attempts per block where 0 is unlimited"`
			MiningTimeout time.Duration `conf:"default:0s"`
			GenesisFile   string
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "copyright information here",
		},
	}

	// Parse will set the defaults and then look for any overriding values
	// in environment variables and command line flags.
	const prefix = "LEDGER"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// Logging

	log, err := logger.New(prefix, cfg.Log.Output)
	if err != nil {
		return fmt.Errorf("constructing logger: %w", err)
	}
	defer log.Sync()

	log.Infow("starting", "version", build)
	defer log.Infow("shutdown complete")

	// Display the current configuration to the logs.
	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Chain Parameters

	gen := genesis.Default(cfg.Chain.Difficulty)
	gen.MaxAttempts = cfg.Chain.MaxAttempts

	if cfg.Chain.GenesisFile != "" {
		gen, err = genesis.Load(cfg.Chain.GenesisFile, gen)
		if err != nil {
			return fmt.Errorf("loading genesis: %w", err)
		}
	}

	log.Infow("startup", "status", "genesis", "difficulty", gen.Difficulty, "maxAttempts", gen.MaxAttempts)

	// =========================================================================
	// Run Command

	// Cancel any mining in progress on an interrupt or terminate signal.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := commands.NewRootCmd(commands.Config{
		Build:         build,
		Log:           log,
		Genesis:       gen,
		MiningTimeout: cfg.Chain.MiningTimeout,
	})
	rootCmd.SetArgs(cfg.Args)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Errorw("command", "ERROR", err)
		return err
	}

	return nil
}
