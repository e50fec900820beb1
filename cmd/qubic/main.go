package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/profile"

	"github.com/iamasit07/qubic/backend/internal/config"
	"github.com/iamasit07/qubic/backend/internal/domain"
	"github.com/iamasit07/qubic/backend/internal/service/bot"
)

type options struct {
	Side       domain.Player
	Difficulty domain.Difficulty
	Depth      int
}

func main() {
	side := flag.String("side", "X", "your side, X moves first")
	difficulty := flag.String("difficulty", "medium", "easy, medium or hard")
	depth := flag.Int("depth", 0, "search depth, overrides the difficulty when positive")
	prof := flag.Bool("profile", false, "write a CPU profile to the working directory")
	logLevel := flag.String("log", "warn", "log level")
	flag.Parse()

	config.SetupLogging(*logLevel, "console")

	player, err := domain.ParsePlayer(*side)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad -side %q: %v\n", *side, err)
		os.Exit(2)
	}

	if *prof {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	opts := options{Side: player, Difficulty: domain.ParseDifficulty(*difficulty), Depth: *depth}
	if err := run(os.Stdin, os.Stdout, opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}

// run plays one game on the terminal. It returns when the game ends or input runs out.
func run(in io.Reader, out io.Writer, opts options) error {
	g := domain.NewGame()
	engineSide := opts.Side.Opponent()
	scanner := bufio.NewScanner(in)

	fmt.Fprintf(out, "You are %s against %s (%s). Enter moves as \"x y z\", 0-3 each; q quits.\n",
		opts.Side, domain.GetBotName(opts.Difficulty), opts.Difficulty)

	for !g.IsFinished() {
		if g.CurrentPlayer == engineSide {
			move := engineMove(g.Board, engineSide, opts)
			if move == bot.NoMove {
				return fmt.Errorf("engine found no move")
			}
			if err := g.MakeMoveIndex(move); err != nil {
				return err
			}
			x, y, z := domain.Coords(move)
			fmt.Fprintf(out, "%s plays %d %d %d\n\n%s\n", engineSide, x, y, z, g.Board)
			continue
		}

		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "q" || line == "quit" {
			fmt.Fprintln(out, "bye")
			return nil
		}

		x, y, z, err := parseMove(line)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		if err := g.MakeMove(x, y, z); err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		fmt.Fprintf(out, "\n%s\n", g.Board)
	}

	switch g.Winner() {
	case opts.Side:
		fmt.Fprintln(out, "You win!")
	case engineSide:
		fmt.Fprintf(out, "%s wins.\n", domain.GetBotName(opts.Difficulty))
	default:
		fmt.Fprintln(out, "Draw.")
	}
	if mask := g.Board.WinningMask(); mask != 0 {
		fmt.Fprintf(out, "Winning line: %v\n", domain.MaskToCells(mask))
	}
	return nil
}

func engineMove(board domain.Board, player domain.Player, opts options) int {
	if opts.Depth <= 0 {
		return bot.CalculateBestMove(board, player, opts.Difficulty)
	}
	cfg := bot.ConfigFor(opts.Difficulty)
	cfg.MaxDepth = opts.Depth
	return bot.FindBestMove(board, player, cfg)
}

func parseMove(line string) (int, int, int, error) {
	fields := strings.Fields(strings.ReplaceAll(line, ",", " "))
	if len(fields) != 3 {
		return 0, 0, 0, fmt.Errorf("expected three numbers, got %q", line)
	}
	var coords [3]int
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("%q is not a number", f)
		}
		coords[i] = n
	}
	return coords[0], coords[1], coords[2], nil
}
