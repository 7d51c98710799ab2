package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// handler is the signature for a shell command. The session is the only
// state carried from one command to the next.
type handler func(ctx context.Context, w io.Writer, s *Session, args []string) error

// errQuit is returned by the quit command to end the shell.
var errQuit = errors.New("quit")

var shellCommands = map[string]handler{
	"genesis":  genesisHandler,
	"append":   appendHandler,
	"draft":    draftHandler,
	"tx":       txHandler,
	"txat":     txAtHandler,
	"commit":   commitHandler,
	"print":    printHandler,
	"validate": validateHandler,
	"tamper":   tamperHandler,
	"metrics":  metricsHandler,
	"reset":    resetHandler,
	"help":     helpHandler,
	"quit":     quitHandler,
}

var shellUsage = []string{
	"genesis",
	"append <payload>",
	"draft <payload>",
	"tx <id> <kind> <amount>",
	"txat <index> <id> <kind> <amount>",
	"commit",
	"print",
	"validate",
	"tamper <index> <payload>",
	"metrics",
	"reset",
	"help",
	"quit",
}

func shellCmd(cfg Config) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run commands against a chain read from standard input",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), NewSession(cfg))
		},
	}
}

// runShell reads one command per line until the input ends or quit is
// entered. Failed commands are reported and the shell keeps going.
func runShell(ctx context.Context, r io.Reader, w io.Writer, s *Session) error {
	helpHandler(ctx, w, s, nil)

	scanner := bufio.NewScanner(r)
	for {
		fmt.Fprint(w, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(w)
			return scanner.Err()
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		fn, exists := shellCommands[fields[0]]
		if !exists {
			fmt.Fprintf(w, "ERROR: unknown command %q\n", fields[0])
			continue
		}

		err := fn(ctx, w, s, fields[1:])
		switch {
		case errors.Is(err, errQuit):
			return nil
		case err != nil:
			fmt.Fprintf(w, "ERROR: %s\n", err)
		}
	}
}

// =============================================================================

func genesisHandler(ctx context.Context, w io.Writer, s *Session, args []string) error {
	block, err := s.Genesis(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "mined block %d nonce %d hash %s\n", block.Header.Number, block.Header.Nonce, block.Digest)
	return nil
}

func appendHandler(ctx context.Context, w io.Writer, s *Session, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: append <payload>")
	}

	block, err := s.Append(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "mined block %d nonce %d hash %s\n", block.Header.Number, block.Header.Nonce, block.Digest)
	return nil
}

func draftHandler(ctx context.Context, w io.Writer, s *Session, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: draft <payload>")
	}

	draft, err := s.Draft(strings.Join(args, " "))
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "draft block %d started\n", draft.Header.Number)
	return nil
}

func txHandler(ctx context.Context, w io.Writer, s *Session, args []string) error {
	id, kind, amount, err := parseTx(args)
	if err != nil {
		return err
	}

	if err := s.AddTransaction(id, kind, amount); err != nil {
		return err
	}

	fmt.Fprintf(w, "transaction %d added to draft\n", id)
	return nil
}

func txAtHandler(ctx context.Context, w io.Writer, s *Session, args []string) error {
	if len(args) != 4 {
		return errors.New("usage: txat <index> <id> <kind> <amount>")
	}

	index, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("parsing index: %w", err)
	}

	id, kind, amount, err := parseTx(args[1:])
	if err != nil {
		return err
	}

	if err := s.AddTransactionAt(index, id, kind, amount); err != nil {
		return err
	}

	fmt.Fprintf(w, "transaction %d added to block %d\n", id, index)
	return nil
}

func commitHandler(ctx context.Context, w io.Writer, s *Session, args []string) error {
	block, err := s.Commit(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "mined block %d nonce %d hash %s transactions %d\n", block.Header.Number, block.Header.Nonce, block.Digest, len(block.Trans))
	return nil
}

func printHandler(ctx context.Context, w io.Writer, s *Session, args []string) error {
	blocks, err := s.Blocks()
	if err != nil {
		return err
	}

	return printBlocks(w, blocks)
}

func validateHandler(ctx context.Context, w io.Writer, s *Session, args []string) error {
	printReport(w, s.Validate())
	return nil
}

func tamperHandler(ctx context.Context, w io.Writer, s *Session, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: tamper <index> <payload>")
	}

	index, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("parsing index: %w", err)
	}

	if err := s.Tamper(index, strings.Join(args[1:], " ")); err != nil {
		return err
	}

	fmt.Fprintf(w, "block %d tampered\n", index)
	return nil
}

func metricsHandler(ctx context.Context, w io.Writer, s *Session, args []string) error {
	return s.Metrics().Write(w)
}

func resetHandler(ctx context.Context, w io.Writer, s *Session, args []string) error {
	if err := s.Reset(); err != nil {
		return err
	}

	fmt.Fprintln(w, "chain reset")
	return nil
}

func helpHandler(ctx context.Context, w io.Writer, s *Session, args []string) error {
	fmt.Fprintln(w, "commands:")
	for _, usage := range shellUsage {
		fmt.Fprintf(w, "  %s\n", usage)
	}
	return nil
}

func quitHandler(ctx context.Context, w io.Writer, s *Session, args []string) error {
	return errQuit
}

// =============================================================================

func parseTx(args []string) (int64, string, float64, error) {
	if len(args) != 3 {
		return 0, "", 0, errors.New("usage: tx <id> <kind> <amount>")
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, "", 0, fmt.Errorf("parsing id: %w", err)
	}

	amount, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return 0, "", 0, fmt.Errorf("parsing amount: %w", err)
	}

	return id, args[1], amount, nil
}
